package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"recipebox/config"
	"recipebox/handlers"
	"recipebox/media"
	"recipebox/middleware"
	"recipebox/repositories"
	"recipebox/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found")
	}

	// Initialize database
	db := config.InitDB()

	// Media store for recipe images
	mediaRoot := os.Getenv("MEDIA_ROOT")
	if mediaRoot == "" {
		mediaRoot = "media_root"
	}
	mediaStore := media.NewDiskStore(mediaRoot, "/media")

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	tagRepo := repositories.NewTagRepository(db)
	ingredientRepo := repositories.NewIngredientRepository(db)
	recipeRepo := repositories.NewRecipeRepository(db)

	// Initialize services
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
	router := gin.Default()

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// Uploaded images
	router.Static("/media", mediaRoot)

	// API routes
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

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	slog.Info("server starting", "port", port)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
