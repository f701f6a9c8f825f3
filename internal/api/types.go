package api

import "github.com/google/uuid"

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type CreateRecipeRequest struct {
	Title           string   `json:"title" binding:"required"`
	Description     string   `json:"description"`
	Steps           string   `json:"steps"`
	IngredientNames []string `json:"ingredient_names"`
	TagNames        []string `json:"tag_names"`
}

// UpdateRecipeRequest distinguishes an absent ingredient_names/tag_names
// (nil, links left untouched) from an explicit empty list (links cleared).
type UpdateRecipeRequest struct {
	Title           string   `json:"title" binding:"required"`
	Description     string   `json:"description"`
	Steps           string   `json:"steps"`
	IngredientNames []string `json:"ingredient_names"`
	TagNames        []string `json:"tag_names"`
}

type BookmarkRequest struct {
	RecipeID uuid.UUID `json:"recipe_id" binding:"required"`
}
