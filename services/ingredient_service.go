package services

import (
	"errors"

	"gorm.io/gorm"

	"recipebox/models"
	"recipebox/repositories"
)

type IngredientService interface {
	SearchIngredients(namePrefix string) ([]models.Ingredient, error)
	GetIngredient(id uint) (*models.Ingredient, error)
}

type ingredientService struct {
	ingredientRepo repositories.IngredientRepository
}

func NewIngredientService(ingredientRepo repositories.IngredientRepository) IngredientService {
	return &ingredientService{ingredientRepo: ingredientRepo}
}

func (s *ingredientService) SearchIngredients(namePrefix string) ([]models.Ingredient, error) {
	return s.ingredientRepo.Search(namePrefix)
}

func (s *ingredientService) GetIngredient(id uint) (*models.Ingredient, error) {
	ingredient, err := s.ingredientRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Resource: "ingredient", Entity: true}
		}
		return nil, err
	}
	return ingredient, nil
}
