package services

import (
	"errors"
	"log/slog"
	"sort"

	"gorm.io/gorm"

	"recipebox/helper"
	"recipebox/media"
	"recipebox/models"
	"recipebox/repositories"
)

type RecipeService interface {
	CreateRecipe(req models.RecipeRequest, authorID uint) (*models.RecipeResponse, error)
	UpdateRecipe(id uint, req models.RecipeUpdateRequest, actorID uint) (*models.RecipeResponse, error)
	DeleteRecipe(id uint, actorID uint) error
	GetRecipe(id uint, viewer models.Viewer) (*models.RecipeResponse, error)
	GetRecipes(params models.RecipeListParams, viewer models.Viewer) ([]models.RecipeResponse, int64, error)

	AddFavorite(recipeID, userID uint) (*models.RecipeResponse, error)
	RemoveFavorite(recipeID, userID uint) error
	AddToCart(recipeID, userID uint) (*models.RecipeResponse, error)
	RemoveFromCart(recipeID, userID uint) error

	ShoppingList(userID uint) (string, error)
}

type recipeService struct {
	recipeRepo     repositories.RecipeRepository
	tagRepo        repositories.TagRepository
	ingredientRepo repositories.IngredientRepository
	userRepo       repositories.UserRepository
	mediaStore     media.Store
}

func NewRecipeService(
	recipeRepo repositories.RecipeRepository,
	tagRepo repositories.TagRepository,
	ingredientRepo repositories.IngredientRepository,
	userRepo repositories.UserRepository,
	mediaStore media.Store,
) RecipeService {
	return &recipeService{
		recipeRepo:     recipeRepo,
		tagRepo:        tagRepo,
		ingredientRepo: ingredientRepo,
		userRepo:       userRepo,
		mediaStore:     mediaStore,
	}
}

func (s *recipeService) CreateRecipe(req models.RecipeRequest, authorID uint) (*models.RecipeResponse, error) {
	tagIDs, err := s.resolveTags(req.Tags)
	if err != nil {
		return nil, err
	}

	ingredients, err := s.resolveIngredients(req.Ingredients)
	if err != nil {
		return nil, err
	}

	imageURL, err := s.storeImage(req.Image)
	if err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		AuthorID:    authorID,
		Name:        req.Name,
		Image:       imageURL,
		Text:        req.Text,
		CookingTime: req.CookingTime,
	}

	if err := s.recipeRepo.Create(recipe, ingredients, tagIDs); err != nil {
		return nil, err
	}

	slog.Info("recipe created", "recipe_id", recipe.ID, "author_id", authorID)

	return s.GetRecipe(recipe.ID, models.Viewer{UserID: authorID})
}

func (s *recipeService) UpdateRecipe(id uint, req models.RecipeUpdateRequest, actorID uint) (*models.RecipeResponse, error) {
	recipe, err := s.loadRecipe(id)
	if err != nil {
		return nil, err
	}

	// Authorship gates the whole operation before any resolution or write.
	if recipe.AuthorID != actorID {
		return nil, &models.PermissionError{Message: "you are not the author of this recipe"}
	}

	tagIDs, err := s.resolveTags(req.Tags)
	if err != nil {
		return nil, err
	}

	ingredients, err := s.resolveIngredients(req.Ingredients)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		recipe.Name = req.Name
	}
	if req.Text != "" {
		recipe.Text = req.Text
	}
	if req.CookingTime > 0 {
		recipe.CookingTime = req.CookingTime
	}
	if req.Image != "" {
		imageURL, err := s.storeImage(req.Image)
		if err != nil {
			return nil, err
		}
		recipe.Image = imageURL
	}

	if err := s.recipeRepo.Update(recipe, ingredients, tagIDs); err != nil {
		return nil, err
	}

	slog.Info("recipe updated", "recipe_id", id, "author_id", actorID)

	return s.GetRecipe(id, models.Viewer{UserID: actorID})
}

func (s *recipeService) DeleteRecipe(id uint, actorID uint) error {
	recipe, err := s.loadRecipe(id)
	if err != nil {
		return err
	}

	if recipe.AuthorID != actorID {
		return &models.PermissionError{Message: "you are not the author of this recipe"}
	}

	if err := s.recipeRepo.Delete(id); err != nil {
		return err
	}

	slog.Info("recipe deleted", "recipe_id", id, "author_id", actorID)
	return nil
}

func (s *recipeService) GetRecipe(id uint, viewer models.Viewer) (*models.RecipeResponse, error) {
	recipe, err := s.loadRecipe(id)
	if err != nil {
		return nil, err
	}
	return s.decompose(recipe, viewer)
}

func (s *recipeService) GetRecipes(params models.RecipeListParams, viewer models.Viewer) ([]models.RecipeResponse, int64, error) {
	recipes, total, err := s.recipeRepo.GetList(params, viewer)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]models.RecipeResponse, 0, len(recipes))
	for i := range recipes {
		resp, err := s.decompose(&recipes[i], viewer)
		if err != nil {
			return nil, 0, err
		}
		responses = append(responses, *resp)
	}
	return responses, total, nil
}

func (s *recipeService) AddFavorite(recipeID, userID uint) (*models.RecipeResponse, error) {
	if err := s.addRelation(recipeID, userID, s.recipeRepo.FavoriteExists, s.recipeRepo.CreateFavorite); err != nil {
		return nil, err
	}
	slog.Info("favorite added", "recipe_id", recipeID, "user_id", userID)
	return s.GetRecipe(recipeID, models.Viewer{UserID: userID})
}

func (s *recipeService) RemoveFavorite(recipeID, userID uint) error {
	if err := s.removeRelation(recipeID, userID, "favorite", s.recipeRepo.DeleteFavorite); err != nil {
		return err
	}
	slog.Info("favorite removed", "recipe_id", recipeID, "user_id", userID)
	return nil
}

func (s *recipeService) AddToCart(recipeID, userID uint) (*models.RecipeResponse, error) {
	if err := s.addRelation(recipeID, userID, s.recipeRepo.CartEntryExists, s.recipeRepo.CreateCartEntry); err != nil {
		return nil, err
	}
	slog.Info("shopping cart entry added", "recipe_id", recipeID, "user_id", userID)
	return s.GetRecipe(recipeID, models.Viewer{UserID: userID})
}

func (s *recipeService) RemoveFromCart(recipeID, userID uint) error {
	if err := s.removeRelation(recipeID, userID, "shopping cart entry", s.recipeRepo.DeleteCartEntry); err != nil {
		return err
	}
	slog.Info("shopping cart entry removed", "recipe_id", recipeID, "user_id", userID)
	return nil
}

// addRelation runs the absent->present transition shared by favorites
// and cart entries; an add on a present pair fails without mutation.
func (s *recipeService) addRelation(
	recipeID, userID uint,
	exists func(recipeID, userID uint) (bool, error),
	create func(recipeID, userID uint) error,
) error {
	if _, err := s.loadRecipe(recipeID); err != nil {
		return err
	}
	present, err := exists(recipeID, userID)
	if err != nil {
		return err
	}
	if present {
		return &models.ConflictError{Message: "already exists"}
	}
	return create(recipeID, userID)
}

func (s *recipeService) removeRelation(
	recipeID, userID uint,
	name string,
	remove func(recipeID, userID uint) (int64, error),
) error {
	if _, err := s.loadRecipe(recipeID); err != nil {
		return err
	}
	affected, err := remove(recipeID, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return &models.NotFoundError{Resource: name}
	}
	return nil
}

// ShoppingList aggregates ingredient amounts across every recipe in the
// user's cart and renders the downloadable text artifact.
func (s *recipeService) ShoppingList(userID uint) (string, error) {
	rows, err := s.recipeRepo.CartIngredients(userID)
	if err != nil {
		return "", err
	}
	return AggregateShoppingList(rows), nil
}

func (s *recipeService) loadRecipe(id uint) (*models.Recipe, error) {
	recipe, err := s.recipeRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Resource: "recipe", Entity: true}
		}
		return nil, err
	}
	return recipe, nil
}

// resolveTags checks every submitted id against the tag catalog; a
// single unknown id aborts the whole operation.
func (s *recipeService) resolveTags(ids []uint) ([]uint, error) {
	unique := make([]uint, 0, len(ids))
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	tags, err := s.tagRepo.GetByIDs(unique)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(unique) {
		return nil, &models.ValidationError{Field: "tags", Message: "invalid tags id"}
	}

	resolved := make([]uint, 0, len(tags))
	for _, tag := range tags {
		resolved = append(resolved, tag.ID)
	}
	return resolved, nil
}

// resolveIngredients validates amounts and ids and merges duplicate ids
// within one submission by summing their amounts, so a pair
// (recipe, ingredient) maps to at most one association row.
func (s *recipeService) resolveIngredients(entries []models.IngredientAmountRequest) ([]models.RecipeIngredient, error) {
	merged := make(map[uint]int, len(entries))
	order := make([]uint, 0, len(entries))
	for _, entry := range entries {
		if err := models.ValidateAmount("amount", entry.Amount); err != nil {
			return nil, err
		}
		if _, ok := merged[entry.ID]; !ok {
			order = append(order, entry.ID)
		}
		merged[entry.ID] += entry.Amount
	}

	ingredients, err := s.ingredientRepo.GetByIDs(order)
	if err != nil {
		return nil, err
	}
	if len(ingredients) != len(order) {
		return nil, &models.ValidationError{Field: "ingredients", Message: "invalid ingredients id"}
	}

	rows := make([]models.RecipeIngredient, 0, len(order))
	for _, id := range order {
		rows = append(rows, models.RecipeIngredient{IngredientID: id, Amount: merged[id]})
	}
	return rows, nil
}

func (s *recipeService) storeImage(data string) (string, error) {
	raw, filename, err := helper.DecodeInlineImage("image", data)
	if err != nil {
		return "", err
	}
	return s.mediaStore.Save(filename, raw)
}

// decompose flattens a stored recipe into its nested response shape,
// computing the viewer-relative flags.
func (s *recipeService) decompose(recipe *models.Recipe, viewer models.Viewer) (*models.RecipeResponse, error) {
	isFavorited := false
	isInCart := false
	isSubscribed := false

	if !viewer.IsAnonymous() {
		var err error
		if isFavorited, err = s.recipeRepo.FavoriteExists(recipe.ID, viewer.UserID); err != nil {
			return nil, err
		}
		if isInCart, err = s.recipeRepo.CartEntryExists(recipe.ID, viewer.UserID); err != nil {
			return nil, err
		}
		if isSubscribed, err = s.userRepo.SubscriptionExists(recipe.AuthorID, viewer.UserID); err != nil {
			return nil, err
		}
	}

	ingredients := make([]models.IngredientAmountResponse, 0, len(recipe.Ingredients))
	for _, row := range recipe.Ingredients {
		ingredients = append(ingredients, models.IngredientAmountResponse{
			ID:              row.IngredientID,
			Name:            row.Ingredient.Name,
			MeasurementUnit: row.Ingredient.MeasurementUnit,
			Amount:          row.Amount,
		})
	}
	sort.Slice(ingredients, func(i, j int) bool { return ingredients[i].ID < ingredients[j].ID })

	tags := make([]models.TagResponse, 0, len(recipe.Tags))
	for _, tag := range recipe.Tags {
		tags = append(tags, models.TagResponse{
			ID:    tag.ID,
			Name:  tag.Name,
			Color: tag.Color,
			Slug:  tag.Slug,
		})
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].ID < tags[j].ID })

	return &models.RecipeResponse{
		ID:               recipe.ID,
		Author:           userSummary(&recipe.Author, isSubscribed),
		Name:             recipe.Name,
		Image:            recipe.Image,
		Text:             recipe.Text,
		CookingTime:      recipe.CookingTime,
		Ingredients:      ingredients,
		Tags:             tags,
		IsFavorited:      isFavorited,
		IsInShoppingCart: isInCart,
	}, nil
}
