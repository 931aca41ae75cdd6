package tests

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"recipebox/config"
	"recipebox/handlers"
	"recipebox/middleware"
	"recipebox/models"
	"recipebox/repositories"
	"recipebox/services"
)

type memoryMediaStore struct {
	files map[string][]byte
}

func (s *memoryMediaStore) Save(filename string, data []byte) (string, error) {
	s.files[filename] = data
	return "/media/" + filename, nil
}

type IntegrationTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine

	chefToken  string
	chefID     uint
	eaterToken string
	eaterID    uint

	tags   []models.Tag
	salt   models.Ingredient
	pepper models.Ingredient
}

func (suite *IntegrationTestSuite) SetupTest() {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", suite.T().Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		suite.T().Fatal("Failed to open test database:", err)
	}
	suite.db = db

	if err := config.Migrate(db); err != nil {
		suite.T().Fatal("Failed to migrate test database:", err)
	}

	suite.seedCatalog()
	suite.setupRouter()

	suite.chefToken, suite.chefID = suite.signupAndLogin("chef", "chef@example.com")
	suite.eaterToken, suite.eaterID = suite.signupAndLogin("eater", "eater@example.com")
}

func (suite *IntegrationTestSuite) seedCatalog() {
	suite.tags = []models.Tag{
		{Name: "breakfast", Color: "#E26C2D", Slug: "breakfast"},
		{Name: "dinner", Color: "#49B64E", Slug: "dinner"},
	}
	suite.Require().NoError(suite.db.Create(&suite.tags).Error)

	suite.salt = models.Ingredient{Name: "Salt", MeasurementUnit: "g"}
	suite.pepper = models.Ingredient{Name: "Pepper", MeasurementUnit: "g"}
	suite.Require().NoError(suite.db.Create(&suite.salt).Error)
	suite.Require().NoError(suite.db.Create(&suite.pepper).Error)
}

func (suite *IntegrationTestSuite) setupRouter() {
	gin.SetMode(gin.TestMode)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(suite.db)
	tagRepo := repositories.NewTagRepository(suite.db)
	ingredientRepo := repositories.NewIngredientRepository(suite.db)
	recipeRepo := repositories.NewRecipeRepository(suite.db)

	// Initialize services
	mediaStore := &memoryMediaStore{files: map[string][]byte{}}
	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo, recipeRepo)
	tagService := services.NewTagService(tagRepo)
	ingredientService := services.NewIngredientService(ingredientRepo)
	recipeService := services.NewRecipeService(recipeRepo, tagRepo, ingredientRepo, userRepo, mediaStore)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(authService, userService)
	tagHandler := handlers.NewTagHandler(tagService)
	ingredientHandler := handlers.NewIngredientHandler(ingredientService)
	recipeHandler := handlers.NewRecipeHandler(recipeService)

	// Setup router
	router := gin.New()

	api := router.Group("/api")
	{
		api.POST("/auth/token/login", authHandler.Login)

		users := api.Group("/users")
		{
			users.POST("", userHandler.Signup)
			users.GET("", middleware.OptionalAuthMiddleware(), userHandler.GetUsers)
			users.GET("/me", middleware.AuthMiddleware(), userHandler.Me)
			users.POST("/set_password", middleware.AuthMiddleware(), authHandler.SetPassword)
			users.GET("/subscriptions", middleware.AuthMiddleware(), userHandler.Subscriptions)
			users.GET("/:id", middleware.OptionalAuthMiddleware(), userHandler.GetUser)
			users.POST("/:id/subscribe", middleware.AuthMiddleware(), userHandler.Subscribe)
			users.DELETE("/:id/subscribe", middleware.AuthMiddleware(), userHandler.Unsubscribe)
		}

		recipes := api.Group("/recipes")
		{
			recipes.GET("", middleware.OptionalAuthMiddleware(), recipeHandler.GetRecipes)
			recipes.POST("", middleware.AuthMiddleware(), recipeHandler.CreateRecipe)
			recipes.GET("/download_shopping_cart", middleware.AuthMiddleware(), recipeHandler.DownloadShoppingCart)
			recipes.GET("/:id", middleware.OptionalAuthMiddleware(), recipeHandler.GetRecipe)
			recipes.PATCH("/:id", middleware.AuthMiddleware(), recipeHandler.UpdateRecipe)
			recipes.DELETE("/:id", middleware.AuthMiddleware(), recipeHandler.DeleteRecipe)
			recipes.POST("/:id/favorite", middleware.AuthMiddleware(), recipeHandler.AddFavorite)
			recipes.DELETE("/:id/favorite", middleware.AuthMiddleware(), recipeHandler.RemoveFavorite)
			recipes.POST("/:id/shopping_cart", middleware.AuthMiddleware(), recipeHandler.AddToCart)
			recipes.DELETE("/:id/shopping_cart", middleware.AuthMiddleware(), recipeHandler.RemoveFromCart)
		}

		tags := api.Group("/tags")
		{
			tags.GET("", tagHandler.GetTags)
			tags.GET("/:id", tagHandler.GetTag)
		}

		ingredients := api.Group("/ingredients")
		{
			ingredients.GET("", ingredientHandler.GetIngredients)
			ingredients.GET("/:id", ingredientHandler.GetIngredient)
		}
	}

	suite.router = router
}

func (suite *IntegrationTestSuite) do(method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		suite.Require().NoError(err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *IntegrationTestSuite) signupAndLogin(username, email string) (string, uint) {
	signup := models.SignupRequest{
		Username:  username,
		Email:     email,
		FirstName: "Test",
		LastName:  "User",
		Password:  "password123",
	}

	w := suite.do("POST", "/api/users", "", signup)
	suite.Require().Equal(http.StatusCreated, w.Code)

	var user models.UserResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &user))

	login := models.LoginRequest{Email: email, Password: "password123"}
	w = suite.do("POST", "/api/auth/token/login", "", login)
	suite.Require().Equal(http.StatusOK, w.Code)

	type LoginResponse struct {
		Code        int                 `json:"code"`
		CodeType    string              `json:"code_type"`
		CodeMessage string              `json:"code_message"`
		Data        models.AuthResponse `json:"data"`
	}

	var loginResp LoginResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &loginResp))
	suite.Require().NotEmpty(loginResp.Data.Token)

	return loginResp.Data.Token, user.ID
}

func inlineImage() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("test image bytes"))
}

func (suite *IntegrationTestSuite) createRecipe(token, name string, ingredients []models.IngredientAmountRequest, tagIDs []uint) models.RecipeResponse {
	payload := models.RecipeRequest{
		Name:        name,
		Text:        "step one, step two",
		Image:       inlineImage(),
		CookingTime: 20,
		Ingredients: ingredients,
		Tags:        tagIDs,
	}

	w := suite.do("POST", "/api/recipes", token, payload)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var recipe models.RecipeResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &recipe))
	return recipe
}

func (suite *IntegrationTestSuite) TestAuthFlow() {
	// duplicate email is rejected
	w := suite.do("POST", "/api/users", "", models.SignupRequest{
		Username:  "chef2",
		Email:     "chef@example.com",
		FirstName: "Test",
		LastName:  "User",
		Password:  "password123",
	})
	suite.Equal(http.StatusBadRequest, w.Code)

	// wrong password is unauthorized
	w = suite.do("POST", "/api/auth/token/login", "", models.LoginRequest{
		Email:    "chef@example.com",
		Password: "wrong-password",
	})
	suite.Equal(http.StatusUnauthorized, w.Code)

	// /me requires a token
	w = suite.do("GET", "/api/users/me", "", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)

	w = suite.do("GET", "/api/users/me", suite.chefToken, nil)
	suite.Equal(http.StatusOK, w.Code)

	var me models.UserResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &me))
	suite.Equal("chef", me.Username)
	suite.Equal(suite.chefID, me.ID)
}

func (suite *IntegrationTestSuite) TestSetPasswordFlow() {
	w := suite.do("POST", "/api/users/set_password", suite.chefToken, models.PasswordChangeRequest{
		CurrentPassword: "wrong-password",
		NewPassword:     "newpassword456",
	})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do("POST", "/api/users/set_password", suite.chefToken, models.PasswordChangeRequest{
		CurrentPassword: "password123",
		NewPassword:     "newpassword456",
	})
	suite.Equal(http.StatusNoContent, w.Code)

	// old password no longer works, the new one does
	w = suite.do("POST", "/api/auth/token/login", "", models.LoginRequest{
		Email:    "chef@example.com",
		Password: "password123",
	})
	suite.Equal(http.StatusUnauthorized, w.Code)

	w = suite.do("POST", "/api/auth/token/login", "", models.LoginRequest{
		Email:    "chef@example.com",
		Password: "newpassword456",
	})
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *IntegrationTestSuite) TestRecipeLifecycle() {
	recipe := suite.createRecipe(suite.chefToken, "Morning omelette",
		[]models.IngredientAmountRequest{{ID: suite.salt.ID, Amount: 2}},
		[]uint{suite.tags[0].ID},
	)

	suite.Equal("Morning omelette", recipe.Name)
	suite.Equal(suite.chefID, recipe.Author.ID)
	suite.Contains(recipe.Image, "/media/")
	suite.Require().Len(recipe.Ingredients, 1)
	suite.Equal("Salt", recipe.Ingredients[0].Name)

	// anonymous read sees the recipe with all flags false
	w := suite.do("GET", fmt.Sprintf("/api/recipes/%d", recipe.ID), "", nil)
	suite.Equal(http.StatusOK, w.Code)

	var fetched models.RecipeResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &fetched))
	suite.False(fetched.IsFavorited)
	suite.False(fetched.IsInShoppingCart)
	suite.False(fetched.Author.IsSubscribed)

	// only the author may patch
	update := models.RecipeUpdateRequest{
		Name:        "Evening omelette",
		Ingredients: []models.IngredientAmountRequest{{ID: suite.pepper.ID, Amount: 1}},
		Tags:        []uint{suite.tags[1].ID},
	}

	w = suite.do("PATCH", fmt.Sprintf("/api/recipes/%d", recipe.ID), suite.eaterToken, update)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.do("PATCH", fmt.Sprintf("/api/recipes/%d", recipe.ID), suite.chefToken, update)
	suite.Equal(http.StatusOK, w.Code)

	var updated models.RecipeResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &updated))
	suite.Equal("Evening omelette", updated.Name)
	suite.Require().Len(updated.Ingredients, 1)
	suite.Equal(suite.pepper.ID, updated.Ingredients[0].ID)

	// only the author may delete
	w = suite.do("DELETE", fmt.Sprintf("/api/recipes/%d", recipe.ID), suite.eaterToken, nil)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.do("DELETE", fmt.Sprintf("/api/recipes/%d", recipe.ID), suite.chefToken, nil)
	suite.Equal(http.StatusNoContent, w.Code)

	w = suite.do("GET", fmt.Sprintf("/api/recipes/%d", recipe.ID), "", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *IntegrationTestSuite) TestRecipeValidation() {
	// binding rejects an empty ingredient list
	w := suite.do("POST", "/api/recipes", suite.chefToken, models.RecipeRequest{
		Name:        "Empty",
		Text:        "no ingredients",
		Image:       inlineImage(),
		CookingTime: 5,
		Ingredients: []models.IngredientAmountRequest{},
		Tags:        []uint{suite.tags[0].ID},
	})
	suite.Equal(http.StatusBadRequest, w.Code)

	// unknown tag id rejects the whole submission
	w = suite.do("POST", "/api/recipes", suite.chefToken, models.RecipeRequest{
		Name:        "Ghost tag",
		Text:        "some text",
		Image:       inlineImage(),
		CookingTime: 5,
		Ingredients: []models.IngredientAmountRequest{{ID: suite.salt.ID, Amount: 1}},
		Tags:        []uint{9999},
	})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "invalid tags id")

	// malformed inline image
	w = suite.do("POST", "/api/recipes", suite.chefToken, models.RecipeRequest{
		Name:        "Bad image",
		Text:        "some text",
		Image:       "not-a-data-uri",
		CookingTime: 5,
		Ingredients: []models.IngredientAmountRequest{{ID: suite.salt.ID, Amount: 1}},
		Tags:        []uint{suite.tags[0].ID},
	})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *IntegrationTestSuite) TestFavoriteEndpointCodes() {
	recipe := suite.createRecipe(suite.chefToken, "Soup",
		[]models.IngredientAmountRequest{{ID: suite.salt.ID, Amount: 2}},
		[]uint{suite.tags[0].ID},
	)
	path := fmt.Sprintf("/api/recipes/%d/favorite", recipe.ID)

	w := suite.do("POST", path, suite.eaterToken, nil)
	suite.Equal(http.StatusCreated, w.Code)

	var favorited models.RecipeResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &favorited))
	suite.True(favorited.IsFavorited)

	w = suite.do("POST", path, suite.eaterToken, nil)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "already exists")

	w = suite.do("DELETE", path, suite.eaterToken, nil)
	suite.Equal(http.StatusNoContent, w.Code)

	w = suite.do("DELETE", path, suite.eaterToken, nil)
	suite.Equal(http.StatusBadRequest, w.Code)

	// missing recipe is a 404, not a relation miss
	w = suite.do("POST", "/api/recipes/9999/favorite", suite.eaterToken, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *IntegrationTestSuite) TestSubscriptionEndpoints() {
	suite.createRecipe(suite.chefToken, "Soup",
		[]models.IngredientAmountRequest{{ID: suite.salt.ID, Amount: 2}},
		[]uint{suite.tags[0].ID},
	)

	path := fmt.Sprintf("/api/users/%d/subscribe", suite.chefID)

	w := suite.do("POST", path, suite.eaterToken, nil)
	suite.Equal(http.StatusCreated, w.Code)

	var subscription models.SubscriptionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &subscription))
	suite.Equal(suite.chefID, subscription.ID)
	suite.True(subscription.IsSubscribed)
	suite.Equal(int64(1), subscription.RecipesCount)
	suite.Len(subscription.Recipes, 1)

	// duplicate and self subscriptions are client errors
	w = suite.do("POST", path, suite.eaterToken, nil)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do("POST", path, suite.chefToken, nil)
	suite.Equal(http.StatusBadRequest, w.Code)

	// missing author is a 404
	w = suite.do("POST", "/api/users/9999/subscribe", suite.eaterToken, nil)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.do("GET", "/api/users/subscriptions", suite.eaterToken, nil)
	suite.Equal(http.StatusOK, w.Code)

	var subscriptions []models.SubscriptionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &subscriptions))
	suite.Require().Len(subscriptions, 1)
	suite.Equal("chef", subscriptions[0].Username)

	w = suite.do("DELETE", path, suite.eaterToken, nil)
	suite.Equal(http.StatusNoContent, w.Code)

	w = suite.do("DELETE", path, suite.eaterToken, nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *IntegrationTestSuite) TestDownloadShoppingCart() {
	first := suite.createRecipe(suite.chefToken, "Soup",
		[]models.IngredientAmountRequest{{ID: suite.salt.ID, Amount: 5}},
		[]uint{suite.tags[0].ID},
	)
	second := suite.createRecipe(suite.chefToken, "Stew",
		[]models.IngredientAmountRequest{{ID: suite.salt.ID, Amount: 3}, {ID: suite.pepper.ID, Amount: 2}},
		[]uint{suite.tags[1].ID},
	)

	for _, id := range []uint{first.ID, second.ID} {
		w := suite.do("POST", fmt.Sprintf("/api/recipes/%d/shopping_cart", id), suite.eaterToken, nil)
		suite.Require().Equal(http.StatusCreated, w.Code)
	}

	w := suite.do("GET", "/api/recipes/download_shopping_cart", suite.eaterToken, nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Header().Get("Content-Type"), "text/plain")
	suite.Equal("attachment; filename=shopping_list.txt", w.Header().Get("Content-Disposition"))
	suite.Equal("Pepper: 2 g\nSalt: 8 g\n", w.Body.String())

	// the download itself requires a login
	w = suite.do("GET", "/api/recipes/download_shopping_cart", "", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *IntegrationTestSuite) TestRecipeListFilters() {
	breakfast := suite.createRecipe(suite.chefToken, "Omelette",
		[]models.IngredientAmountRequest{{ID: suite.salt.ID, Amount: 1}},
		[]uint{suite.tags[0].ID},
	)
	suite.createRecipe(suite.chefToken, "Stew",
		[]models.IngredientAmountRequest{{ID: suite.pepper.ID, Amount: 2}},
		[]uint{suite.tags[1].ID},
	)

	type listResponse struct {
		Recipes []models.RecipeResponse `json:"recipes"`
		Total   int64                   `json:"total"`
	}

	w := suite.do("GET", "/api/recipes?tags=breakfast", "", nil)
	suite.Equal(http.StatusOK, w.Code)

	var list listResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &list))
	suite.Require().Len(list.Recipes, 1)
	suite.Equal(breakfast.ID, list.Recipes[0].ID)

	w = suite.do("POST", fmt.Sprintf("/api/recipes/%d/favorite", breakfast.ID), suite.eaterToken, nil)
	suite.Require().Equal(http.StatusCreated, w.Code)

	w = suite.do("GET", "/api/recipes?is_favorited=1", suite.eaterToken, nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &list))
	suite.Require().Len(list.Recipes, 1)
	suite.Equal(breakfast.ID, list.Recipes[0].ID)

	// anonymous viewers match nothing when asking for favorites
	w = suite.do("GET", "/api/recipes?is_favorited=1", "", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &list))
	suite.Len(list.Recipes, 0)
}

func (suite *IntegrationTestSuite) TestCatalogEndpoints() {
	w := suite.do("GET", "/api/tags", "", nil)
	suite.Equal(http.StatusOK, w.Code)

	var tags []models.Tag
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &tags))
	suite.Len(tags, 2)

	w = suite.do("GET", "/api/tags/9999", "", nil)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.do("GET", "/api/ingredients?name=Sa", "", nil)
	suite.Equal(http.StatusOK, w.Code)

	var ingredients []models.Ingredient
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &ingredients))
	suite.Require().Len(ingredients, 1)
	suite.Equal("Salt", ingredients[0].Name)

	w = suite.do("GET", fmt.Sprintf("/api/ingredients/%d", suite.pepper.ID), "", nil)
	suite.Equal(http.StatusOK, w.Code)

	var ingredient models.Ingredient
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &ingredient))
	suite.Equal("Pepper", ingredient.Name)
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationTestSuite))
}
