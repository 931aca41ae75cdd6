package repositories

import (
	"recipebox/models"

	"gorm.io/gorm"
)

type RecipeRepository interface {
	// Create persists the recipe row together with its ingredient and tag
	// association rows in a single transaction.
	Create(recipe *models.Recipe, ingredients []models.RecipeIngredient, tagIDs []uint) error
	// Update patches the scalar columns and fully replaces both
	// association sets in a single transaction.
	Update(recipe *models.Recipe, ingredients []models.RecipeIngredient, tagIDs []uint) error
	GetByID(id uint) (*models.Recipe, error)
	GetList(params models.RecipeListParams, viewer models.Viewer) ([]models.Recipe, int64, error)
	Delete(id uint) error
	GetRecentByAuthor(authorID uint, limit int) ([]models.Recipe, error)
	CountByAuthor(authorID uint) (int64, error)

	FavoriteExists(recipeID, userID uint) (bool, error)
	CreateFavorite(recipeID, userID uint) error
	DeleteFavorite(recipeID, userID uint) (int64, error)
	CartEntryExists(recipeID, userID uint) (bool, error)
	CreateCartEntry(recipeID, userID uint) error
	DeleteCartEntry(recipeID, userID uint) (int64, error)

	// CartIngredients returns one row per ingredient attachment across
	// every recipe in the user's cart, ready for name-keyed aggregation.
	CartIngredients(userID uint) ([]models.CartIngredient, error)
}

type recipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) Create(recipe *models.Recipe, ingredients []models.RecipeIngredient, tagIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Ingredients", "Tags", "Author").Create(recipe).Error; err != nil {
			return err
		}
		return createAssociations(tx, recipe.ID, ingredients, tagIDs)
	})
}

func (r *recipeRepository) Update(recipe *models.Recipe, ingredients []models.RecipeIngredient, tagIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Recipe{}).Where("id = ?", recipe.ID).
			Select("name", "image", "text", "cooking_time").
			Updates(map[string]interface{}{
				"name":         recipe.Name,
				"image":        recipe.Image,
				"text":         recipe.Text,
				"cooking_time": recipe.CookingTime,
			}).Error
		if err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeTag{}).Error; err != nil {
			return err
		}
		return createAssociations(tx, recipe.ID, ingredients, tagIDs)
	})
}

func createAssociations(tx *gorm.DB, recipeID uint, ingredients []models.RecipeIngredient, tagIDs []uint) error {
	for i := range ingredients {
		ingredients[i].ID = 0
		ingredients[i].RecipeID = recipeID
	}
	if len(ingredients) > 0 {
		if err := tx.Create(&ingredients).Error; err != nil {
			return err
		}
	}

	tagRows := make([]models.RecipeTag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		tagRows = append(tagRows, models.RecipeTag{RecipeID: recipeID, TagID: tagID})
	}
	if len(tagRows) > 0 {
		if err := tx.Create(&tagRows).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *recipeRepository) GetByID(id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := r.db.Preload("Author").
		Preload("Tags").
		Preload("Ingredients").
		Preload("Ingredients.Ingredient").
		First(&recipe, id).Error
	return &recipe, err
}

func (r *recipeRepository) GetList(params models.RecipeListParams, viewer models.Viewer) ([]models.Recipe, int64, error) {
	var recipes []models.Recipe
	var total int64

	query := r.db.Model(&models.Recipe{}).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients").
		Preload("Ingredients.Ingredient")

	if params.Tags != "" {
		query = query.
			Joins("JOIN recipe_tags ON recipe_tags.recipe_id = recipes.id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug = ?", params.Tags)
	}

	if params.Author > 0 {
		query = query.Where("recipes.author_id = ?", params.Author)
	}

	query = viewerRelationFilter(query, params.IsFavorited, "favorites", viewer)
	query = viewerRelationFilter(query, params.IsInShoppingCart, "shopping_cart_entries", viewer)

	query.Count(&total)

	offset := (params.Page - 1) * params.Limit
	err := query.Order("recipes.created_at desc").Offset(offset).Limit(params.Limit).Find(&recipes).Error

	return recipes, total, err
}

// viewerRelationFilter restricts the list by membership in a
// (recipe, user) relation table. 1 keeps members, 0 keeps non-members,
// anything else passes through. For the anonymous viewer membership is
// always false: 1 yields nothing and 0 is a no-op.
func viewerRelationFilter(query *gorm.DB, value *int, table string, viewer models.Viewer) *gorm.DB {
	if value == nil {
		return query
	}
	switch *value {
	case 1:
		if viewer.IsAnonymous() {
			return query.Where("1 = 0")
		}
		return query.Where(
			"EXISTS (SELECT 1 FROM "+table+" rel WHERE rel.recipe_id = recipes.id AND rel.user_id = ?)",
			viewer.UserID,
		)
	case 0:
		if viewer.IsAnonymous() {
			return query
		}
		return query.Where(
			"NOT EXISTS (SELECT 1 FROM "+table+" rel WHERE rel.recipe_id = recipes.id AND rel.user_id = ?)",
			viewer.UserID,
		)
	default:
		return query
	}
}

func (r *recipeRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.ShoppingCartEntry{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Recipe{}, id).Error
	})
}

func (r *recipeRepository) GetRecentByAuthor(authorID uint, limit int) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := r.db.Where("author_id = ?", authorID).
		Order("created_at desc").
		Limit(limit).
		Find(&recipes).Error
	return recipes, err
}

func (r *recipeRepository) CountByAuthor(authorID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Recipe{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, err
}

func (r *recipeRepository) FavoriteExists(recipeID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Favorite{}).
		Where("recipe_id = ? AND user_id = ?", recipeID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *recipeRepository) CreateFavorite(recipeID, userID uint) error {
	return r.db.Create(&models.Favorite{RecipeID: recipeID, UserID: userID}).Error
}

func (r *recipeRepository) DeleteFavorite(recipeID, userID uint) (int64, error) {
	res := r.db.Where("recipe_id = ? AND user_id = ?", recipeID, userID).Delete(&models.Favorite{})
	return res.RowsAffected, res.Error
}

func (r *recipeRepository) CartEntryExists(recipeID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.ShoppingCartEntry{}).
		Where("recipe_id = ? AND user_id = ?", recipeID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *recipeRepository) CreateCartEntry(recipeID, userID uint) error {
	return r.db.Create(&models.ShoppingCartEntry{RecipeID: recipeID, UserID: userID}).Error
}

func (r *recipeRepository) DeleteCartEntry(recipeID, userID uint) (int64, error) {
	res := r.db.Where("recipe_id = ? AND user_id = ?", recipeID, userID).Delete(&models.ShoppingCartEntry{})
	return res.RowsAffected, res.Error
}

func (r *recipeRepository) CartIngredients(userID uint) ([]models.CartIngredient, error) {
	var rows []models.CartIngredient

	query := `
		SELECT
			ingredients.name AS name,
			ingredients.measurement_unit AS measurement_unit,
			recipe_ingredients.amount AS amount
		FROM shopping_cart_entries
		JOIN recipe_ingredients ON recipe_ingredients.recipe_id = shopping_cart_entries.recipe_id
		JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id
		WHERE shopping_cart_entries.user_id = ?
	`

	err := r.db.Raw(query, userID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return rows, nil
}
