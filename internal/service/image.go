package service

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/donovan-vargas/recipe-app-api/internal/models"
	"github.com/donovan-vargas/recipe-app-api/internal/storage"
)

// recipeImageDir is where recipe images live inside the media store.
const recipeImageDir = "uploads/recipe"

// extensions maps the format names reported by image.DecodeConfig to the
// file extension used for the stored copy.
var extensions = map[string]string{
	"jpeg": ".jpg",
	"png":  ".png",
	"gif":  ".gif",
}

// ImageService validates uploaded recipe images and moves them in and out of
// the media store.
type ImageService struct {
	recipes *RecipeService
	store   storage.Store
	log     zerolog.Logger
}

// NewImageService creates a new ImageService instance.
func NewImageService(recipes *RecipeService, store storage.Store, log zerolog.Logger) *ImageService {
	return &ImageService{recipes: recipes, store: store, log: log}
}

// UploadRecipeImage validates that data decodes as a supported image, stores
// it under a generated name and records the path on the recipe. A previously
// stored image is deleted after the swap. On validation failure the recipe
// is left untouched.
func (s *ImageService) UploadRecipeImage(ctx context.Context, recipe *models.Recipe, data []byte) (*models.Recipe, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, newValidationError("image", "upload a valid image; the file is not an image or is corrupted")
	}
	ext, ok := extensions[format]
	if !ok {
		return nil, newValidationError("image", "unsupported image format: "+format)
	}

	name := path.Join(recipeImageDir, uuid.New().String()+ext)
	if err := s.store.Save(ctx, name, data); err != nil {
		return nil, err
	}

	old := recipe.Image
	if err := s.recipes.SetRecipeImage(ctx, recipe, name); err != nil {
		// Roll back the orphaned file; the record was not updated.
		if rmErr := s.store.Delete(ctx, name); rmErr != nil {
			s.log.Error().Err(rmErr).Str("image", name).Msg("failed to remove orphaned image")
		}
		return nil, err
	}
	if old != "" && old != name {
		if err := s.store.Delete(ctx, old); err != nil {
			s.log.Error().Err(err).Str("image", old).Msg("failed to remove replaced image")
		}
	}

	s.log.Info().
		Uint("recipe_id", recipe.ID).
		Str("image", name).
		Str("format", format).
		Int("width", cfg.Width).
		Int("height", cfg.Height).
		Msg("recipe image stored")
	return recipe, nil
}

// RemoveImage deletes a stored image file, logging rather than failing on
// error: the owning record is already gone.
func (s *ImageService) RemoveImage(ctx context.Context, name string) {
	if name == "" {
		return
	}
	if err := s.store.Delete(ctx, name); err != nil {
		s.log.Error().Err(err).Str("image", name).Msg("failed to remove image")
	}
}

// URL resolves a stored image path to the address clients fetch it from.
// An empty path resolves to an empty URL.
func (s *ImageService) URL(name string) string {
	if name == "" {
		return ""
	}
	return s.store.URL(name)
}
