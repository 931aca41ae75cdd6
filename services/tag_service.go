package services

import (
	"errors"

	"gorm.io/gorm"

	"recipebox/models"
	"recipebox/repositories"
)

// TagService exposes the read-only tag catalog; tags enter the system
// through seeding, not the API.
type TagService interface {
	GetTags() ([]models.Tag, error)
	GetTag(id uint) (*models.Tag, error)
}

type tagService struct {
	tagRepo repositories.TagRepository
}

func NewTagService(tagRepo repositories.TagRepository) TagService {
	return &tagService{tagRepo: tagRepo}
}

func (s *tagService) GetTags() ([]models.Tag, error) {
	return s.tagRepo.GetAll()
}

func (s *tagService) GetTag(id uint) (*models.Tag, error) {
	tag, err := s.tagRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Resource: "tag", Entity: true}
		}
		return nil, err
	}
	return tag, nil
}
