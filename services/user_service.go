package services

import (
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"recipebox/models"
	"recipebox/repositories"
)

const DefaultRecipesPreview = 10

type UserService interface {
	GetUser(id uint, viewer models.Viewer) (*models.UserResponse, error)
	GetUsers(page, limit int, viewer models.Viewer) ([]models.UserResponse, int64, error)
	Subscribe(authorID, subscriberID uint, recipesLimit int) (*models.SubscriptionResponse, error)
	Unsubscribe(authorID, subscriberID uint) error
	Subscriptions(subscriberID uint, recipesLimit int) ([]models.SubscriptionResponse, error)
}

type userService struct {
	userRepo   repositories.UserRepository
	recipeRepo repositories.RecipeRepository
}

func NewUserService(userRepo repositories.UserRepository, recipeRepo repositories.RecipeRepository) UserService {
	return &userService{userRepo: userRepo, recipeRepo: recipeRepo}
}

func (s *userService) GetUser(id uint, viewer models.Viewer) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Resource: "user", Entity: true}
		}
		return nil, err
	}

	subscribed, err := s.isSubscribed(user.ID, viewer)
	if err != nil {
		return nil, err
	}

	resp := userSummary(user, subscribed)
	return &resp, nil
}

func (s *userService) GetUsers(page, limit int, viewer models.Viewer) ([]models.UserResponse, int64, error) {
	users, total, err := s.userRepo.GetList(page, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]models.UserResponse, 0, len(users))
	for i := range users {
		subscribed, err := s.isSubscribed(users[i].ID, viewer)
		if err != nil {
			return nil, 0, err
		}
		responses = append(responses, userSummary(&users[i], subscribed))
	}
	return responses, total, nil
}

func (s *userService) Subscribe(authorID, subscriberID uint, recipesLimit int) (*models.SubscriptionResponse, error) {
	author, err := s.userRepo.GetByID(authorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Resource: "user", Entity: true}
		}
		return nil, err
	}

	// Self-subscription fails regardless of current state.
	if authorID == subscriberID {
		return nil, &models.ConflictError{Message: "cannot subscribe to yourself"}
	}

	exists, err := s.userRepo.SubscriptionExists(authorID, subscriberID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &models.ConflictError{Message: "already subscribed"}
	}

	if err := s.userRepo.CreateSubscription(authorID, subscriberID); err != nil {
		return nil, err
	}

	slog.Info("subscription created", "author_id", authorID, "subscriber_id", subscriberID)

	return s.subscriptionEntry(author, recipesLimit)
}

func (s *userService) Unsubscribe(authorID, subscriberID uint) error {
	if _, err := s.userRepo.GetByID(authorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.NotFoundError{Resource: "user", Entity: true}
		}
		return err
	}

	affected, err := s.userRepo.DeleteSubscription(authorID, subscriberID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return &models.NotFoundError{Resource: "subscription"}
	}

	slog.Info("subscription removed", "author_id", authorID, "subscriber_id", subscriberID)
	return nil
}

// Subscriptions lists every author the user follows, each with a bounded
// preview of their newest recipes and a total count.
func (s *userService) Subscriptions(subscriberID uint, recipesLimit int) ([]models.SubscriptionResponse, error) {
	authors, err := s.userRepo.GetSubscribedAuthors(subscriberID)
	if err != nil {
		return nil, err
	}

	responses := make([]models.SubscriptionResponse, 0, len(authors))
	for i := range authors {
		entry, err := s.subscriptionEntry(&authors[i], recipesLimit)
		if err != nil {
			return nil, err
		}
		responses = append(responses, *entry)
	}
	return responses, nil
}

func (s *userService) subscriptionEntry(author *models.User, recipesLimit int) (*models.SubscriptionResponse, error) {
	if recipesLimit <= 0 {
		recipesLimit = DefaultRecipesPreview
	}

	recipes, err := s.recipeRepo.GetRecentByAuthor(author.ID, recipesLimit)
	if err != nil {
		return nil, err
	}
	count, err := s.recipeRepo.CountByAuthor(author.ID)
	if err != nil {
		return nil, err
	}

	preview := make([]models.ShortRecipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		preview = append(preview, models.ShortRecipeResponse{
			ID:          recipe.ID,
			Name:        recipe.Name,
			Image:       recipe.Image,
			CookingTime: recipe.CookingTime,
		})
	}

	return &models.SubscriptionResponse{
		UserResponse: userSummary(author, true),
		Recipes:      preview,
		RecipesCount: count,
	}, nil
}

func (s *userService) isSubscribed(authorID uint, viewer models.Viewer) (bool, error) {
	if viewer.IsAnonymous() {
		return false, nil
	}
	return s.userRepo.SubscriptionExists(authorID, viewer.UserID)
}
