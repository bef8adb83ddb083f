package api

import "github.com/donovan-vargas/recipe-app-api/internal/models"

type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

type UserResponse struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type TokenRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type UpdateMeRequest struct {
	Name     *string `json:"name"`
	Password *string `json:"password"`
}

type MeResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type TagResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type IngredientResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type CreateNamedRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateRecipeRequest doubles as the PUT payload: a full update carries the
// same required fields as a create.
type CreateRecipeRequest struct {
	Title       string   `json:"title" binding:"required"`
	TimeMinutes *int     `json:"time_minutes" binding:"required,gte=0"`
	Price       *float64 `json:"price" binding:"required,gte=0"`
	Link        string   `json:"link"`
	Tags        []uint   `json:"tags"`
	Ingredients []uint   `json:"ingredients"`
}

// PatchRecipeRequest is the PATCH payload; nil means the field was omitted.
type PatchRecipeRequest struct {
	Title       *string  `json:"title"`
	TimeMinutes *int     `json:"time_minutes" binding:"omitempty,gte=0"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	Link        *string  `json:"link"`
	Tags        *[]uint  `json:"tags"`
	Ingredients *[]uint  `json:"ingredients"`
}

// RecipeListResponse is the summary shape returned by the list endpoint:
// tags and ingredients appear as id lists only.
type RecipeListResponse struct {
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	TimeMinutes int     `json:"time_minutes"`
	Price       float64 `json:"price"`
	Link        string  `json:"link"`
	Image       string  `json:"image"`
	Tags        []uint  `json:"tags"`
	Ingredients []uint  `json:"ingredients"`
}

// RecipeDetailResponse nests full tag and ingredient objects.
type RecipeDetailResponse struct {
	ID          uint                 `json:"id"`
	Title       string               `json:"title"`
	TimeMinutes int                  `json:"time_minutes"`
	Price       float64              `json:"price"`
	Link        string               `json:"link"`
	Image       string               `json:"image"`
	Tags        []TagResponse        `json:"tags"`
	Ingredients []IngredientResponse `json:"ingredients"`
}

type RecipeImageResponse struct {
	ID    uint   `json:"id"`
	Image string `json:"image"`
}

func newUserResponse(user *models.User) UserResponse {
	return UserResponse{ID: user.ID, Email: user.Email, Name: user.Name}
}

func newMeResponse(user *models.User) MeResponse {
	return MeResponse{Name: user.Name, Email: user.Email}
}

func newTagResponse(tag *models.Tag) TagResponse {
	return TagResponse{ID: tag.ID, Name: tag.Name}
}

func newIngredientResponse(ingredient *models.Ingredient) IngredientResponse {
	return IngredientResponse{ID: ingredient.ID, Name: ingredient.Name}
}

func newRecipeListResponse(recipe *models.Recipe, imageURL func(string) string) RecipeListResponse {
	tagIDs := make([]uint, 0, len(recipe.Tags))
	for _, tag := range recipe.Tags {
		tagIDs = append(tagIDs, tag.ID)
	}
	ingredientIDs := make([]uint, 0, len(recipe.Ingredients))
	for _, ingredient := range recipe.Ingredients {
		ingredientIDs = append(ingredientIDs, ingredient.ID)
	}
	return RecipeListResponse{
		ID:          recipe.ID,
		Title:       recipe.Title,
		TimeMinutes: recipe.TimeMinutes,
		Price:       recipe.Price,
		Link:        recipe.Link,
		Image:       imageURL(recipe.Image),
		Tags:        tagIDs,
		Ingredients: ingredientIDs,
	}
}

func newRecipeDetailResponse(recipe *models.Recipe, imageURL func(string) string) RecipeDetailResponse {
	tags := make([]TagResponse, 0, len(recipe.Tags))
	for i := range recipe.Tags {
		tags = append(tags, newTagResponse(&recipe.Tags[i]))
	}
	ingredients := make([]IngredientResponse, 0, len(recipe.Ingredients))
	for i := range recipe.Ingredients {
		ingredients = append(ingredients, newIngredientResponse(&recipe.Ingredients[i]))
	}
	return RecipeDetailResponse{
		ID:          recipe.ID,
		Title:       recipe.Title,
		TimeMinutes: recipe.TimeMinutes,
		Price:       recipe.Price,
		Link:        recipe.Link,
		Image:       imageURL(recipe.Image),
		Tags:        tags,
		Ingredients: ingredients,
	}
}
