package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/donovan-vargas/recipe-app-api/internal/models"
)

// RecipeService owns Tag, Ingredient and Recipe records, all scoped to an
// owning user. Every query filters on user_id; a row owned by someone else
// is indistinguishable from a missing one.
type RecipeService struct {
	db *gorm.DB
}

// NewRecipeService creates a new RecipeService instance.
func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// RecipeFilters narrows a listing. A recipe matches when it has at least one
// tag in TagIDs and at least one ingredient in IngredientIDs; an empty list
// does not constrain.
type RecipeFilters struct {
	TagIDs        []uint
	IngredientIDs []uint
}

// RecipeInput carries the mutable recipe fields for a create.
type RecipeInput struct {
	Title         string
	TimeMinutes   int
	Price         float64
	Link          string
	TagIDs        []uint
	IngredientIDs []uint
}

// RecipeUpdate carries the mutable recipe fields for an update. Nil fields
// were omitted from the payload; how that is interpreted depends on whether
// the update is partial.
type RecipeUpdate struct {
	Title         *string
	TimeMinutes   *int
	Price         *float64
	Link          *string
	TagIDs        *[]uint
	IngredientIDs *[]uint
}

// ListRecipes returns the user's recipes ordered by descending id,
// optionally filtered by tag or ingredient membership.
func (s *RecipeService) ListRecipes(ctx context.Context, userID uint, filters RecipeFilters) ([]models.Recipe, error) {
	query := s.db.WithContext(ctx).
		Where("recipes.user_id = ?", userID).
		Order("recipes.id DESC").
		Preload("Tags").
		Preload("Ingredients")

	if len(filters.TagIDs) > 0 {
		query = query.
			Joins("JOIN recipe_tags ON recipe_tags.recipe_id = recipes.id").
			Where("recipe_tags.tag_id IN ?", filters.TagIDs)
	}
	if len(filters.IngredientIDs) > 0 {
		query = query.
			Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = recipes.id").
			Where("recipe_ingredients.ingredient_id IN ?", filters.IngredientIDs)
	}
	if len(filters.TagIDs) > 0 || len(filters.IngredientIDs) > 0 {
		query = query.Distinct("recipes.*")
	}

	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// GetRecipe loads one of the user's recipes with tags and ingredients.
func (s *RecipeService) GetRecipe(ctx context.Context, userID, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Tags").
		Preload("Ingredients").
		Where("user_id = ?", userID).
		First(&recipe, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// CreateRecipe creates a recipe and attaches the referenced tags and
// ingredients, which must already exist and belong to the same user. The
// whole write happens in one transaction so a bad reference leaves nothing
// behind.
func (s *RecipeService) CreateRecipe(ctx context.Context, userID uint, in RecipeInput) (*models.Recipe, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, newValidationError("title", "this field may not be blank")
	}
	if in.TimeMinutes < 0 {
		return nil, newValidationError("time_minutes", "ensure this value is greater than or equal to 0")
	}
	if in.Price < 0 {
		return nil, newValidationError("price", "ensure this value is greater than or equal to 0")
	}

	recipe := models.Recipe{
		UserID:      userID,
		Title:       in.Title,
		TimeMinutes: in.TimeMinutes,
		Price:       in.Price,
		Link:        in.Link,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := ownedTags(tx, userID, in.TagIDs)
		if err != nil {
			return err
		}
		ingredients, err := ownedIngredients(tx, userID, in.IngredientIDs)
		if err != nil {
			return err
		}
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Replace(tags); err != nil {
			return err
		}
		return tx.Model(&recipe).Association("Ingredients").Replace(ingredients)
	})
	if err != nil {
		return nil, err
	}
	return s.GetRecipe(ctx, userID, recipe.ID)
}

// UpdateRecipe applies an update to one of the user's recipes. With partial
// set (PATCH), omitted fields and associations are left untouched. Without
// it (PUT), omitted tags and ingredients are cleared: a full update replaces
// the whole mutable state of the recipe.
func (s *RecipeService) UpdateRecipe(ctx context.Context, userID, id uint, in RecipeUpdate, partial bool) (*models.Recipe, error) {
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return nil, newValidationError("title", "this field may not be blank")
	}
	if in.TimeMinutes != nil && *in.TimeMinutes < 0 {
		return nil, newValidationError("time_minutes", "ensure this value is greater than or equal to 0")
	}
	if in.Price != nil && *in.Price < 0 {
		return nil, newValidationError("price", "ensure this value is greater than or equal to 0")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.Where("user_id = ?", userID).First(&recipe, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if in.Title != nil {
			recipe.Title = *in.Title
		}
		if in.TimeMinutes != nil {
			recipe.TimeMinutes = *in.TimeMinutes
		}
		if in.Price != nil {
			recipe.Price = *in.Price
		}
		if in.Link != nil {
			recipe.Link = *in.Link
		}
		if err := tx.Save(&recipe).Error; err != nil {
			return err
		}

		if in.TagIDs != nil || !partial {
			var ids []uint
			if in.TagIDs != nil {
				ids = *in.TagIDs
			}
			tags, err := ownedTags(tx, userID, ids)
			if err != nil {
				return err
			}
			if err := tx.Model(&recipe).Association("Tags").Replace(tags); err != nil {
				return err
			}
		}
		if in.IngredientIDs != nil || !partial {
			var ids []uint
			if in.IngredientIDs != nil {
				ids = *in.IngredientIDs
			}
			ingredients, err := ownedIngredients(tx, userID, ids)
			if err != nil {
				return err
			}
			if err := tx.Model(&recipe).Association("Ingredients").Replace(ingredients); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetRecipe(ctx, userID, id)
}

// DeleteRecipe removes one of the user's recipes along with its join rows
// and returns the deleted record so the caller can clean up its image file.
func (s *RecipeService) DeleteRecipe(ctx context.Context, userID, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).First(&recipe, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		return tx.Select(clause.Associations).Delete(&recipe).Error
	})
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// SetRecipeImage records the storage path of the recipe's uploaded image.
func (s *RecipeService) SetRecipeImage(ctx context.Context, recipe *models.Recipe, image string) error {
	return s.db.WithContext(ctx).
		Model(recipe).
		Update("image", image).Error
}

// ListTags returns the user's tags ordered by descending name. With
// assignedOnly, only tags attached to at least one recipe are returned,
// de-duplicated.
func (s *RecipeService) ListTags(ctx context.Context, userID uint, assignedOnly bool) ([]models.Tag, error) {
	query := s.db.WithContext(ctx).
		Where("tags.user_id = ?", userID).
		Order("tags.name DESC")
	if assignedOnly {
		query = query.
			Joins("JOIN recipe_tags ON recipe_tags.tag_id = tags.id").
			Distinct("tags.*")
	}

	var tags []models.Tag
	if err := query.Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// CreateTag creates a tag owned by the user.
func (s *RecipeService) CreateTag(ctx context.Context, userID uint, name string) (*models.Tag, error) {
	if strings.TrimSpace(name) == "" {
		return nil, newValidationError("name", "this field may not be blank")
	}
	tag := models.Tag{UserID: userID, Name: name}
	if err := s.db.WithContext(ctx).Create(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// ListIngredients is the ingredient analogue of ListTags.
func (s *RecipeService) ListIngredients(ctx context.Context, userID uint, assignedOnly bool) ([]models.Ingredient, error) {
	query := s.db.WithContext(ctx).
		Where("ingredients.user_id = ?", userID).
		Order("ingredients.name DESC")
	if assignedOnly {
		query = query.
			Joins("JOIN recipe_ingredients ON recipe_ingredients.ingredient_id = ingredients.id").
			Distinct("ingredients.*")
	}

	var ingredients []models.Ingredient
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

// CreateIngredient creates an ingredient owned by the user.
func (s *RecipeService) CreateIngredient(ctx context.Context, userID uint, name string) (*models.Ingredient, error) {
	if strings.TrimSpace(name) == "" {
		return nil, newValidationError("name", "this field may not be blank")
	}
	ingredient := models.Ingredient{UserID: userID, Name: name}
	if err := s.db.WithContext(ctx).Create(&ingredient).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}

// ownedTags resolves ids to tags owned by userID. Any id that is missing or
// owned by another user fails the whole lookup.
func ownedTags(tx *gorm.DB, userID uint, ids []uint) ([]models.Tag, error) {
	if len(ids) == 0 {
		return []models.Tag{}, nil
	}
	var tags []models.Tag
	if err := tx.Where("user_id = ? AND id IN ?", userID, ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	if len(tags) != len(uniqueIDs(ids)) {
		return nil, newValidationError("tags", "invalid tag reference")
	}
	return tags, nil
}

func ownedIngredients(tx *gorm.DB, userID uint, ids []uint) ([]models.Ingredient, error) {
	if len(ids) == 0 {
		return []models.Ingredient{}, nil
	}
	var ingredients []models.Ingredient
	if err := tx.Where("user_id = ? AND id IN ?", userID, ids).Find(&ingredients).Error; err != nil {
		return nil, err
	}
	if len(ingredients) != len(uniqueIDs(ids)) {
		return nil, newValidationError("ingredients", "invalid ingredient reference")
	}
	return ingredients, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
