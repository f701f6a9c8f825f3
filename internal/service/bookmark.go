package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tastebook/backend/internal/models"
	"gorm.io/gorm"
)

// BookmarkService links users to the recipes they saved.
type BookmarkService struct {
	db *gorm.DB
}

func NewBookmarkService(db *gorm.DB) *BookmarkService {
	return &BookmarkService{db: db}
}

// Add bookmarks a recipe for a user. The recipe must exist and the
// (user, recipe) pair must not already be bookmarked.
func (s *BookmarkService) Add(ctx context.Context, userID, recipeID uuid.UUID) (*models.Bookmark, error) {
	var bookmarkID uuid.UUID
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, "id = ?", recipeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: recipe", ErrNotFound)
			}
			return err
		}

		var existing models.Bookmark
		err := tx.Where("user_id = ? AND recipe_id = ?", userID, recipeID).First(&existing).Error
		if err == nil {
			return fmt.Errorf("%w: already bookmarked", ErrConflict)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		bookmark := models.Bookmark{UserID: userID, RecipeID: recipeID}
		if err := tx.Create(&bookmark).Error; err != nil {
			// The composite unique index is the authority under
			// concurrent adds of the same pair.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: already bookmarked", ErrConflict)
			}
			return err
		}
		bookmarkID = bookmark.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	var bookmark models.Bookmark
	err = s.db.WithContext(ctx).
		Preload("Recipe").
		Preload("Recipe.Ingredients").
		Preload("Recipe.Tags").
		First(&bookmark, "id = ?", bookmarkID).Error
	if err != nil {
		return nil, err
	}
	return &bookmark, nil
}

// Remove deletes the bookmark for the (user, recipe) pair.
func (s *BookmarkService) Remove(ctx context.Context, userID, recipeID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.Bookmark{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: bookmark", ErrNotFound)
	}
	return nil
}

// List returns all of a user's bookmarks with their full recipes.
func (s *BookmarkService) List(ctx context.Context, userID uuid.UUID) ([]models.Bookmark, error) {
	var bookmarks []models.Bookmark
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Recipe").
		Preload("Recipe.Ingredients").
		Preload("Recipe.Tags").
		Order("created_at, id").
		Find(&bookmarks).Error
	if err != nil {
		return nil, err
	}
	return bookmarks, nil
}
