package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"recipebox/helper"
	"recipebox/services"
)

type IngredientHandler struct {
	ingredientService services.IngredientService
	Helper            *helper.HTTPHelper
}

func NewIngredientHandler(ingredientService services.IngredientService) *IngredientHandler {
	return &IngredientHandler{ingredientService: ingredientService, Helper: &helper.HTTPHelper{}}
}

// GetIngredients searches the catalog by name prefix; no pagination.
func (h *IngredientHandler) GetIngredients(c *gin.Context) {
	ingredients, err := h.ingredientService.SearchIngredients(c.Query("name"))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ingredients)
}

func (h *IngredientHandler) GetIngredient(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ingredient ID"})
		return
	}

	ingredient, err := h.ingredientService.GetIngredient(uint(id))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ingredient)
}
