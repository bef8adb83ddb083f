package api

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/donovan-vargas/recipe-app-api/internal/middleware"
	"github.com/donovan-vargas/recipe-app-api/internal/service"
)

// RecipeHandler exposes the recipe, tag and ingredient endpoints. All of
// them require authentication and operate on the caller's own rows.
type RecipeHandler struct {
	recipes        *service.RecipeService
	images         *service.ImageService
	tokens         *service.TokenService
	maxUploadBytes int64
	log            zerolog.Logger
}

// NewRecipeHandler creates a new RecipeHandler instance.
func NewRecipeHandler(recipes *service.RecipeService, images *service.ImageService, tokens *service.TokenService, maxUploadBytes int64, log zerolog.Logger) *RecipeHandler {
	return &RecipeHandler{
		recipes:        recipes,
		images:         images,
		tokens:         tokens,
		maxUploadBytes: maxUploadBytes,
		log:            log,
	}
}

// RegisterRoutes mounts the recipe endpoints on the given group.
func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.Use(middleware.Auth(h.tokens))

	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.POST("", h.CreateRecipe)
		recipes.GET("/:id", h.GetRecipe)
		recipes.PUT("/:id", h.UpdateRecipe)
		recipes.PATCH("/:id", h.PatchRecipe)
		recipes.DELETE("/:id", h.DeleteRecipe)
		recipes.POST("/:id/image", h.UploadImage)
	}

	tags := router.Group("/tags")
	{
		tags.GET("", h.ListTags)
		tags.POST("", h.CreateTag)
	}

	ingredients := router.Group("/ingredients")
	{
		ingredients.GET("", h.ListIngredients)
		ingredients.POST("", h.CreateIngredient)
	}
}

// ListRecipes returns the caller's recipes, optionally filtered by
// comma-separated tag and ingredient id lists.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	user := middleware.CurrentUser(c)

	tagIDs, err := parseIDList(c.Query("tags"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tags filter"})
		return
	}
	ingredientIDs, err := parseIDList(c.Query("ingredients"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ingredients filter"})
		return
	}

	recipes, err := h.recipes.ListRecipes(c.Request.Context(), user.ID, service.RecipeFilters{
		TagIDs:        tagIDs,
		IngredientIDs: ingredientIDs,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	out := make([]RecipeListResponse, 0, len(recipes))
	for i := range recipes {
		out = append(out, newRecipeListResponse(&recipes[i], h.images.URL))
	}
	c.JSON(http.StatusOK, out)
}

// CreateRecipe creates a recipe for the caller.
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := middleware.CurrentUser(c)
	recipe, err := h.recipes.CreateRecipe(c.Request.Context(), user.ID, service.RecipeInput{
		Title:         req.Title,
		TimeMinutes:   *req.TimeMinutes,
		Price:         *req.Price,
		Link:          req.Link,
		TagIDs:        req.Tags,
		IngredientIDs: req.Ingredients,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, newRecipeDetailResponse(recipe, h.images.URL))
}

// GetRecipe returns one of the caller's recipes with nested tags and
// ingredients.
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	user := middleware.CurrentUser(c)
	recipe, err := h.recipes.GetRecipe(c.Request.Context(), user.ID, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, newRecipeDetailResponse(recipe, h.images.URL))
}

// UpdateRecipe handles PUT: a full replace. Tags or ingredients omitted
// from the payload are cleared.
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	var req CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := service.RecipeUpdate{
		Title:       &req.Title,
		TimeMinutes: req.TimeMinutes,
		Price:       req.Price,
		Link:        &req.Link,
	}
	if req.Tags != nil {
		update.TagIDs = &req.Tags
	}
	if req.Ingredients != nil {
		update.IngredientIDs = &req.Ingredients
	}

	user := middleware.CurrentUser(c)
	recipe, err := h.recipes.UpdateRecipe(c.Request.Context(), user.ID, id, update, false)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, newRecipeDetailResponse(recipe, h.images.URL))
}

// PatchRecipe handles PATCH: only supplied fields change, and omitted
// associations stay as they are.
func (h *RecipeHandler) PatchRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	var req PatchRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := middleware.CurrentUser(c)
	recipe, err := h.recipes.UpdateRecipe(c.Request.Context(), user.ID, id, service.RecipeUpdate{
		Title:         req.Title,
		TimeMinutes:   req.TimeMinutes,
		Price:         req.Price,
		Link:          req.Link,
		TagIDs:        req.Tags,
		IngredientIDs: req.Ingredients,
	}, true)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, newRecipeDetailResponse(recipe, h.images.URL))
}

// DeleteRecipe removes a recipe and its stored image file.
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	user := middleware.CurrentUser(c)
	recipe, err := h.recipes.DeleteRecipe(c.Request.Context(), user.ID, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.images.RemoveImage(c.Request.Context(), recipe.Image)
	c.Status(http.StatusNoContent)
}

// UploadImage accepts a multipart upload in the "image" field, validates it
// decodes as an image and attaches it to the recipe.
func (h *RecipeHandler) UploadImage(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	user := middleware.CurrentUser(c)
	recipe, err := h.recipes.GetRecipe(c.Request.Context(), user.ID, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"image": "no image submitted"}})
		return
	}
	if fileHeader.Size > h.maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"image": "image exceeds the maximum upload size"}})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	updated, err := h.images.UploadRecipeImage(c.Request.Context(), recipe, data)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, RecipeImageResponse{ID: updated.ID, Image: h.images.URL(updated.Image)})
}

// ListTags returns the caller's tags; ?assigned_only=1 restricts to tags
// attached to at least one recipe.
func (h *RecipeHandler) ListTags(c *gin.Context) {
	user := middleware.CurrentUser(c)
	tags, err := h.recipes.ListTags(c.Request.Context(), user.ID, assignedOnly(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	out := make([]TagResponse, 0, len(tags))
	for i := range tags {
		out = append(out, newTagResponse(&tags[i]))
	}
	c.JSON(http.StatusOK, out)
}

// CreateTag creates a tag for the caller.
func (h *RecipeHandler) CreateTag(c *gin.Context) {
	var req CreateNamedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := middleware.CurrentUser(c)
	tag, err := h.recipes.CreateTag(c.Request.Context(), user.ID, req.Name)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, newTagResponse(tag))
}

// ListIngredients is the ingredient analogue of ListTags.
func (h *RecipeHandler) ListIngredients(c *gin.Context) {
	user := middleware.CurrentUser(c)
	ingredients, err := h.recipes.ListIngredients(c.Request.Context(), user.ID, assignedOnly(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	out := make([]IngredientResponse, 0, len(ingredients))
	for i := range ingredients {
		out = append(out, newIngredientResponse(&ingredients[i]))
	}
	c.JSON(http.StatusOK, out)
}

// CreateIngredient creates an ingredient for the caller.
func (h *RecipeHandler) CreateIngredient(c *gin.Context) {
	var req CreateNamedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := middleware.CurrentUser(c)
	ingredient, err := h.recipes.CreateIngredient(c.Request.Context(), user.ID, req.Name)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, newIngredientResponse(ingredient))
}

// recipeID parses the :id path parameter. A non-numeric id behaves like a
// missing record.
func recipeID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return 0, false
	}
	return uint(id), true
}

// parseIDList parses a comma-separated id list query value, tolerating
// whitespace around entries.
func parseIDList(value string) ([]uint, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	parts := strings.Split(value, ",")
	ids := make([]uint, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

func assignedOnly(c *gin.Context) bool {
	switch strings.ToLower(c.Query("assigned_only")) {
	case "1", "true", "yes":
		return true
	}
	return false
}
