package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tastebook/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultListLimit is applied when a listing request does not provide a limit.
const DefaultListLimit = 20

// RecipeService handles recipe CRUD and search.
type RecipeService struct {
	db *gorm.DB
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// ListFilters are the optional constraints for listing recipes. Query is a
// case-insensitive substring match across title, description, steps and
// linked ingredient/tag names; Tag and Ingredient are exact-match names
// applied on top of it.
type ListFilters struct {
	Query      string
	Tag        string
	Ingredient string
	Skip       int
	Limit      int
}

// Create stores a new recipe for the owner. Ingredient and tag names are
// upserted by name and linked without duplicates.
func (s *RecipeService) Create(ctx context.Context, ownerID uuid.UUID, title, description, steps string, ingredientNames, tagNames []string) (*models.Recipe, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	var recipeID uuid.UUID
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ingredients, err := upsertIngredients(tx, ingredientNames)
		if err != nil {
			return err
		}
		tags, err := upsertTags(tx, tagNames)
		if err != nil {
			return err
		}

		recipe := models.Recipe{
			Title:       title,
			Description: description,
			Steps:       steps,
			OwnerID:     ownerID,
			Ingredients: ingredients,
			Tags:        tags,
		}
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		recipeID = recipe.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, recipeID)
}

// Get retrieves a recipe by ID with its ingredients and tags. Recipes are
// publicly readable; there is no ownership check.
func (s *RecipeService) Get(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Ingredients").
		Preload("Tags").
		First(&recipe, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: recipe", ErrNotFound)
		}
		return nil, err
	}
	return &recipe, nil
}

// Update overwrites title, description and steps of an owned recipe. A nil
// ingredientNames or tagNames leaves the corresponding links untouched; a
// non-nil empty slice clears them; otherwise the link set is replaced
// wholesale via upsert-by-name.
func (s *RecipeService) Update(ctx context.Context, id, requesterID uuid.UUID, title, description, steps string, ingredientNames, tagNames []string) (*models.Recipe, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: recipe", ErrNotFound)
			}
			return err
		}
		if recipe.OwnerID != requesterID {
			return fmt.Errorf("%w: not the recipe owner", ErrForbidden)
		}

		updates := map[string]interface{}{
			"title":       title,
			"description": description,
			"steps":       steps,
		}
		if err := tx.Model(&recipe).Updates(updates).Error; err != nil {
			return err
		}

		if ingredientNames != nil {
			ingredients, err := upsertIngredients(tx, ingredientNames)
			if err != nil {
				return err
			}
			if err := replaceIngredientLinks(tx, &recipe, ingredients); err != nil {
				return err
			}
		}
		if tagNames != nil {
			tags, err := upsertTags(tx, tagNames)
			if err != nil {
				return err
			}
			if err := replaceTagLinks(tx, &recipe, tags); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, id)
}

// Delete removes an owned recipe together with its bookmarks and links.
func (s *RecipeService) Delete(ctx context.Context, id, requesterID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: recipe", ErrNotFound)
			}
			return err
		}
		if recipe.OwnerID != requesterID {
			return fmt.Errorf("%w: not the recipe owner", ErrForbidden)
		}

		if err := tx.Where("recipe_id = ?", id).Delete(&models.Bookmark{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Ingredients").Clear(); err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&recipe).Error
	})
}

// List returns distinct recipes matching the filters, ordered by creation
// time then id, with offset/limit applied.
func (s *RecipeService) List(ctx context.Context, f ListFilters) ([]models.Recipe, error) {
	if f.Skip < 0 {
		f.Skip = 0
	}
	if f.Limit <= 0 {
		f.Limit = DefaultListLimit
	}

	query := s.db.WithContext(ctx).Model(&models.Recipe{}).Distinct("recipes.*")

	if f.Query != "" {
		like := "%" + strings.ToLower(f.Query) + "%"
		query = query.
			Joins("LEFT JOIN recipe_ingredients ON recipe_ingredients.recipe_id = recipes.id").
			Joins("LEFT JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
			Joins("LEFT JOIN recipe_tags ON recipe_tags.recipe_id = recipes.id").
			Joins("LEFT JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("LOWER(recipes.title) LIKE ? OR LOWER(recipes.description) LIKE ? OR LOWER(recipes.steps) LIKE ? OR LOWER(ingredients.name) LIKE ? OR LOWER(tags.name) LIKE ?",
				like, like, like, like, like)
	}
	if f.Tag != "" {
		query = query.Where(
			"EXISTS (SELECT 1 FROM recipe_tags rt JOIN tags t ON t.id = rt.tag_id WHERE rt.recipe_id = recipes.id AND t.name = ?)",
			f.Tag)
	}
	if f.Ingredient != "" {
		query = query.Where(
			"EXISTS (SELECT 1 FROM recipe_ingredients ri JOIN ingredients i ON i.id = ri.ingredient_id WHERE ri.recipe_id = recipes.id AND i.name = ?)",
			f.Ingredient)
	}

	// Non-nil so a no-match listing serializes as an empty array.
	recipes := []models.Recipe{}
	err := query.
		Order("recipes.created_at, recipes.id").
		Offset(f.Skip).
		Limit(f.Limit).
		Preload("Ingredients").
		Preload("Tags").
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

// AttachPhoto stores the uploaded photo URL on an owned recipe.
func (s *RecipeService) AttachPhoto(ctx context.Context, id, requesterID uuid.UUID, photoURL string) (*models.Recipe, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: recipe", ErrNotFound)
			}
			return err
		}
		if recipe.OwnerID != requesterID {
			return fmt.Errorf("%w: not the recipe owner", ErrForbidden)
		}
		return tx.Model(&recipe).Update("photo_url", photoURL).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// upsertIngredients resolves each name to an ingredient row, creating
// missing ones. Input duplicates collapse to a single link. The insert uses
// ON CONFLICT DO NOTHING so a lost concurrent race on the unique name index
// never errors the statement (which would abort the enclosing PostgreSQL
// transaction); a zero-row insert means another writer won, so the winner's
// row is fetched and linked instead.
func upsertIngredients(tx *gorm.DB, names []string) ([]models.Ingredient, error) {
	out := make([]models.Ingredient, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		var ingredient models.Ingredient
		err := tx.Where("name = ?", name).First(&ingredient).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ingredient = models.Ingredient{Name: name}
			result := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoNothing: true,
			}).Create(&ingredient)
			if result.Error != nil {
				return nil, result.Error
			}
			if result.RowsAffected == 0 {
				if err := tx.Where("name = ?", name).First(&ingredient).Error; err != nil {
					return nil, err
				}
			}
		} else if err != nil {
			return nil, err
		}
		out = append(out, ingredient)
	}
	return out, nil
}

func upsertTags(tx *gorm.DB, names []string) ([]models.Tag, error) {
	out := make([]models.Tag, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		var tag models.Tag
		err := tx.Where("name = ?", name).First(&tag).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			tag = models.Tag{Name: name}
			result := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoNothing: true,
			}).Create(&tag)
			if result.Error != nil {
				return nil, result.Error
			}
			if result.RowsAffected == 0 {
				if err := tx.Where("name = ?", name).First(&tag).Error; err != nil {
					return nil, err
				}
			}
		} else if err != nil {
			return nil, err
		}
		out = append(out, tag)
	}
	return out, nil
}

// replaceIngredientLinks swaps a recipe's ingredient set wholesale. An
// empty replacement clears it, since Replace with no values is a no-op.
func replaceIngredientLinks(tx *gorm.DB, recipe *models.Recipe, ingredients []models.Ingredient) error {
	assoc := tx.Model(recipe).Association("Ingredients")
	if len(ingredients) == 0 {
		return assoc.Clear()
	}
	return assoc.Replace(&ingredients)
}

func replaceTagLinks(tx *gorm.DB, recipe *models.Recipe, tags []models.Tag) error {
	assoc := tx.Model(recipe).Association("Tags")
	if len(tags) == 0 {
		return assoc.Clear()
	}
	return assoc.Replace(&tags)
}
