package service

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donovan-vargas/recipe-app-api/internal/storage"
)

func encodeJPEG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func encodePNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newImageFixture(t *testing.T) (*ImageService, *RecipeService, *UserService, *storage.LocalStore) {
	t.Helper()
	db := newTestDB(t)
	users := NewUserService(db)
	recipes := NewRecipeService(db)
	store := storage.NewLocalStore(t.TempDir(), "/media")
	images := NewImageService(recipes, store, zerolog.Nop())
	return images, recipes, users, store
}

func TestUploadRecipeImage(t *testing.T) {
	images, recipes, users, store := newImageFixture(t)
	ctx := context.Background()

	user := createTestUser(t, users, "test@example.com")
	recipe := sampleRecipe(t, recipes, user.ID, "Sample recipe")

	updated, err := images.UploadRecipeImage(ctx, recipe, encodeJPEG(t))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(updated.Image, "uploads/recipe/"))
	assert.True(t, strings.HasSuffix(updated.Image, ".jpg"))

	_, err = os.Stat(store.Path(updated.Image))
	assert.NoError(t, err)

	// The path is persisted.
	got, err := recipes.GetRecipe(ctx, user.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.Image, got.Image)
}

func TestUploadRecipeImagePNGExtension(t *testing.T) {
	images, recipes, users, _ := newImageFixture(t)
	ctx := context.Background()

	user := createTestUser(t, users, "test@example.com")
	recipe := sampleRecipe(t, recipes, user.ID, "Sample recipe")

	updated, err := images.UploadRecipeImage(ctx, recipe, encodePNG(t))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(updated.Image, ".png"))
}

func TestUploadRecipeImageInvalidPayload(t *testing.T) {
	images, recipes, users, _ := newImageFixture(t)
	ctx := context.Background()

	user := createTestUser(t, users, "test@example.com")
	recipe := sampleRecipe(t, recipes, user.ID, "Sample recipe")

	_, err := images.UploadRecipeImage(ctx, recipe, []byte("notimage"))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "image")

	// The recipe was not touched.
	got, err := recipes.GetRecipe(ctx, user.ID, recipe.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Image)
}

func TestUploadRecipeImageReplacesOld(t *testing.T) {
	images, recipes, users, store := newImageFixture(t)
	ctx := context.Background()

	user := createTestUser(t, users, "test@example.com")
	recipe := sampleRecipe(t, recipes, user.ID, "Sample recipe")

	first, err := images.UploadRecipeImage(ctx, recipe, encodeJPEG(t))
	require.NoError(t, err)
	firstPath := store.Path(first.Image)

	second, err := images.UploadRecipeImage(ctx, first, encodeJPEG(t))
	require.NoError(t, err)
	assert.NotEqual(t, firstPath, store.Path(second.Image))

	_, err = os.Stat(firstPath)
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, err = os.Stat(store.Path(second.Image))
	assert.NoError(t, err)
}

func TestRemoveImage(t *testing.T) {
	images, recipes, users, store := newImageFixture(t)
	ctx := context.Background()

	user := createTestUser(t, users, "test@example.com")
	recipe := sampleRecipe(t, recipes, user.ID, "Sample recipe")

	updated, err := images.UploadRecipeImage(ctx, recipe, encodeJPEG(t))
	require.NoError(t, err)

	images.RemoveImage(ctx, updated.Image)
	_, err = os.Stat(store.Path(updated.Image))
	assert.ErrorIs(t, err, os.ErrNotExist)

	// A blank name is a no-op.
	images.RemoveImage(ctx, "")
}

func TestImageURL(t *testing.T) {
	images, _, _, _ := newImageFixture(t)

	assert.Empty(t, images.URL(""))
	assert.Equal(t, "/media/uploads/recipe/x.jpg", images.URL("uploads/recipe/x.jpg"))
}
