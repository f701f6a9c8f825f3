package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tastebook/backend/internal/service"
	"github.com/tastebook/backend/internal/testhelpers"
)

func TestAddBookmarkUnknownRecipe(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewBookmarkService(db)
	user := createTestUser(t, db, "reader@example.com")

	_, err := svc.Add(context.Background(), user.ID, uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestAddBookmarkTwiceConflicts(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	recipes := service.NewRecipeService(db)
	svc := service.NewBookmarkService(db)
	owner := createTestUser(t, db, "owner@example.com")
	reader := createTestUser(t, db, "reader@example.com")

	recipe, err := recipes.Create(context.Background(), owner.ID, "Omelette", "", "", nil, nil)
	require.NoError(t, err)

	_, err = svc.Add(context.Background(), reader.ID, recipe.ID)
	require.NoError(t, err)

	_, err = svc.Add(context.Background(), reader.ID, recipe.ID)
	assert.ErrorIs(t, err, service.ErrConflict)

	// A different user may still bookmark the same recipe
	_, err = svc.Add(context.Background(), owner.ID, recipe.ID)
	require.NoError(t, err)
}

func TestAddRemoveLeavesListEmpty(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	recipes := service.NewRecipeService(db)
	svc := service.NewBookmarkService(db)
	owner := createTestUser(t, db, "owner@example.com")
	reader := createTestUser(t, db, "reader@example.com")

	recipe, err := recipes.Create(context.Background(), owner.ID, "Omelette", "", "", nil, nil)
	require.NoError(t, err)

	_, err = svc.Add(context.Background(), reader.ID, recipe.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Remove(context.Background(), reader.ID, recipe.ID))

	list, err := svc.List(context.Background(), reader.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRemoveMissingBookmark(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	recipes := service.NewRecipeService(db)
	svc := service.NewBookmarkService(db)
	owner := createTestUser(t, db, "owner@example.com")
	reader := createTestUser(t, db, "reader@example.com")

	recipe, err := recipes.Create(context.Background(), owner.ID, "Omelette", "", "", nil, nil)
	require.NoError(t, err)

	err = svc.Remove(context.Background(), reader.ID, recipe.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestListCarriesRecipeProjection(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	recipes := service.NewRecipeService(db)
	svc := service.NewBookmarkService(db)
	owner := createTestUser(t, db, "owner@example.com")
	reader := createTestUser(t, db, "reader@example.com")

	recipe, err := recipes.Create(context.Background(), owner.ID,
		"Omelette", "fluffy", "", []string{"egg"}, []string{"breakfast"})
	require.NoError(t, err)

	bookmark, err := svc.Add(context.Background(), reader.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Omelette", bookmark.Recipe.Title)

	list, err := svc.List(context.Background(), reader.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, recipe.ID, list[0].Recipe.ID)
	assert.Equal(t, []string{"egg"}, ingredientNames(&list[0].Recipe))
	assert.Equal(t, []string{"breakfast"}, tagNames(&list[0].Recipe))
}
