package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkful/forkful-backend/internal/models"
	"github.com/forkful/forkful-backend/internal/testhelpers"
)

type fakeTagCatalog map[uuid.UUID]models.Tag

func (f fakeTagCatalog) TagsByIDs(_ context.Context, ids []uuid.UUID) ([]models.Tag, error) {
	var out []models.Tag
	for _, id := range ids {
		if tag, ok := f[id]; ok {
			out = append(out, tag)
		}
	}
	return out, nil
}

type fakeIngredientCatalog map[uuid.UUID]models.Ingredient

func (f fakeIngredientCatalog) IngredientsByIDs(_ context.Context, ids []uuid.UUID) ([]models.Ingredient, error) {
	var out []models.Ingredient
	for _, id := range ids {
		if ing, ok := f[id]; ok {
			out = append(out, ing)
		}
	}
	return out, nil
}

func fakeCatalogs() (fakeTagCatalog, fakeIngredientCatalog, uuid.UUID, uuid.UUID) {
	tagID := uuid.New()
	ingredientID := uuid.New()
	tags := fakeTagCatalog{tagID: {ID: tagID, Name: "Dinner", Color: "#8775D2", Slug: "dinner"}}
	ingredients := fakeIngredientCatalog{ingredientID: {ID: ingredientID, Name: "Salt", MeasurementUnit: "g"}}
	return tags, ingredients, tagID, ingredientID
}

func TestValidateInputOrder(t *testing.T) {
	tags, ingredients, tagID, ingredientID := fakeCatalogs()
	svc := NewRecipeService(nil, tags, ingredients)
	ctx := context.Background()

	tests := []struct {
		name      string
		input     RecipeInput
		wantKind  ErrorKind
		wantField string
	}{
		{
			name:      "empty tags",
			input:     RecipeInput{Ingredients: []IngredientAmount{{ID: ingredientID, Amount: 1}}},
			wantKind:  KindMissingField,
			wantField: "tags",
		},
		{
			name: "ingredients missing reported after valid tags",
			input: RecipeInput{
				TagIDs: []uuid.UUID{tagID},
			},
			wantKind:  KindMissingField,
			wantField: "ingredients",
		},
		{
			name: "duplicate tags",
			input: RecipeInput{
				TagIDs:      []uuid.UUID{tagID, tagID},
				Ingredients: []IngredientAmount{{ID: ingredientID, Amount: 1}},
			},
			wantKind:  KindDuplicateValue,
			wantField: "tags",
		},
		{
			name: "unknown tag",
			input: RecipeInput{
				TagIDs:      []uuid.UUID{uuid.New()},
				Ingredients: []IngredientAmount{{ID: ingredientID, Amount: 1}},
			},
			wantKind:  KindUnknownReference,
			wantField: "tags",
		},
		{
			name: "zero amount",
			input: RecipeInput{
				TagIDs:      []uuid.UUID{tagID},
				Ingredients: []IngredientAmount{{ID: ingredientID, Amount: 0}},
			},
			wantKind:  KindInvalidField,
			wantField: "ingredients",
		},
		{
			name: "negative amount",
			input: RecipeInput{
				TagIDs:      []uuid.UUID{tagID},
				Ingredients: []IngredientAmount{{ID: ingredientID, Amount: -1}},
			},
			wantKind:  KindInvalidField,
			wantField: "ingredients",
		},
		{
			name: "missing ingredient id",
			input: RecipeInput{
				TagIDs:      []uuid.UUID{tagID},
				Ingredients: []IngredientAmount{{Amount: 2}},
			},
			wantKind:  KindInvalidField,
			wantField: "ingredients",
		},
		{
			name: "duplicate ingredients",
			input: RecipeInput{
				TagIDs:      []uuid.UUID{tagID},
				Ingredients: []IngredientAmount{{ID: ingredientID, Amount: 2}, {ID: ingredientID, Amount: 3}},
			},
			wantKind:  KindDuplicateValue,
			wantField: "ingredients",
		},
		{
			name: "unknown ingredient",
			input: RecipeInput{
				TagIDs:      []uuid.UUID{tagID},
				Ingredients: []IngredientAmount{{ID: uuid.New(), Amount: 2}},
			},
			wantKind:  KindUnknownReference,
			wantField: "ingredients",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateInput(ctx, tt.input)
			require.Error(t, err)
			de := AsError(err)
			require.NotNil(t, de, "expected a domain error, got %v", err)
			assert.Equal(t, tt.wantKind, de.Kind)
			assert.Equal(t, tt.wantField, de.Field)
		})
	}
}

func TestValidateInputSuccess(t *testing.T) {
	tags, ingredients, tagID, ingredientID := fakeCatalogs()
	svc := NewRecipeService(nil, tags, ingredients)

	validated, err := svc.ValidateInput(context.Background(), RecipeInput{
		TagIDs:      []uuid.UUID{tagID},
		Ingredients: []IngredientAmount{{ID: ingredientID, Amount: 1}},
	})
	require.NoError(t, err)
	require.Len(t, validated.Tags, 1)
	require.Len(t, validated.Lines, 1)
	assert.Equal(t, "Salt", validated.Lines[0].Ingredient.Name)
	assert.Equal(t, 1, validated.Lines[0].Amount)
}

func newRecipeFixture(t *testing.T) (*RecipeService, *gormFixture) {
	db := testhelpers.NewTestDB(t)
	catalog := NewCatalogService(db)
	svc := NewRecipeService(db, catalog, catalog)

	f := &gormFixture{
		author:    testhelpers.CreateUser(t, db, "author"),
		stranger:  testhelpers.CreateUser(t, db, "stranger"),
		admin:     testhelpers.CreateAdmin(t, db, "admin"),
		dinner:    testhelpers.CreateTag(t, db, "Dinner", "#8775D2", "dinner"),
		breakfast: testhelpers.CreateTag(t, db, "Breakfast", "#E26C2D", "breakfast"),
		salt:      testhelpers.CreateIngredient(t, db, "Salt", "g"),
		sugar:     testhelpers.CreateIngredient(t, db, "Sugar", "kg"),
	}
	return svc, f
}

type gormFixture struct {
	author    models.User
	stranger  models.User
	admin     models.User
	dinner    models.Tag
	breakfast models.Tag
	salt      models.Ingredient
	sugar     models.Ingredient
}

func (f *gormFixture) input() RecipeInput {
	return RecipeInput{
		Name:        "Porridge",
		Text:        "Boil and stir.",
		CookingTime: 15,
		TagIDs:      []uuid.UUID{f.dinner.ID},
		Ingredients: []IngredientAmount{{ID: f.salt.ID, Amount: 5}},
	}
}

func TestCreateRoundTrip(t *testing.T) {
	svc, f := newRecipeFixture(t)
	ctx := context.Background()

	in := f.input()
	in.Ingredients = append(in.Ingredients, IngredientAmount{ID: f.sugar.ID, Amount: 2})
	in.TagIDs = append(in.TagIDs, f.breakfast.ID)

	created, err := svc.Create(ctx, f.author, in)
	require.NoError(t, err)
	require.NotNil(t, created.AuthorID)
	assert.Equal(t, f.author.ID, *created.AuthorID)

	reread, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)

	gotTags := map[uuid.UUID]bool{}
	for _, tag := range reread.Tags {
		gotTags[tag.ID] = true
	}
	assert.True(t, gotTags[f.dinner.ID])
	assert.True(t, gotTags[f.breakfast.ID])
	assert.Len(t, reread.Tags, 2)

	gotLines := map[uuid.UUID]int{}
	for _, line := range reread.Ingredients {
		gotLines[line.IngredientID] = line.Amount
	}
	assert.Equal(t, map[uuid.UUID]int{f.salt.ID: 5, f.sugar.ID: 2}, gotLines)
}

func TestCreateRejectsInvalidPayloadWithoutWrites(t *testing.T) {
	svc, f := newRecipeFixture(t)
	ctx := context.Background()

	in := f.input()
	in.Ingredients = nil
	_, err := svc.Create(ctx, f.author, in)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindMissingField))

	recipes, total, err := svc.List(ctx, RecipeFilter{})
	require.NoError(t, err)
	assert.Empty(t, recipes)
	assert.Zero(t, total)
}

func TestUpdateReplacesAssociationsWholesale(t *testing.T) {
	svc, f := newRecipeFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, f.author, f.input())
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, f.author, RecipeInput{
		Name:        "Sweet porridge",
		Text:        "Boil, stir, sweeten.",
		CookingTime: 20,
		TagIDs:      []uuid.UUID{f.breakfast.ID},
		Ingredients: []IngredientAmount{{ID: f.sugar.ID, Amount: 1}},
	})
	require.NoError(t, err)

	assert.Equal(t, "Sweet porridge", updated.Name)
	assert.Equal(t, 20, updated.CookingTime)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, f.breakfast.ID, updated.Tags[0].ID)
	require.Len(t, updated.Ingredients, 1)
	assert.Equal(t, f.sugar.ID, updated.Ingredients[0].IngredientID)
	assert.Equal(t, 1, updated.Ingredients[0].Amount)
}

func TestUpdatePermission(t *testing.T) {
	svc, f := newRecipeFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, f.author, f.input())
	require.NoError(t, err)

	// A fully valid payload still fails for a stranger.
	_, err = svc.Update(ctx, created.ID, f.stranger, f.input())
	require.Error(t, err)
	assert.True(t, IsKind(err, KindPermission))

	// Admins bypass the ownership rule.
	_, err = svc.Update(ctx, created.ID, f.admin, f.input())
	require.NoError(t, err)
}

func TestAuthorizeModify(t *testing.T) {
	svc, f := newRecipeFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, f.author, f.input())
	require.NoError(t, err)

	require.NoError(t, svc.AuthorizeModify(ctx, created.ID, f.author))
	require.NoError(t, svc.AuthorizeModify(ctx, created.ID, f.admin))

	err = svc.AuthorizeModify(ctx, created.ID, f.stranger)
	assert.True(t, IsKind(err, KindPermission))

	err = svc.AuthorizeModify(ctx, uuid.New(), f.author)
	assert.True(t, IsKind(err, KindNotFound))
}

func TestDeletePermissionAndCleanup(t *testing.T) {
	svc, f := newRecipeFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, f.author, f.input())
	require.NoError(t, err)

	err = svc.Delete(ctx, created.ID, f.stranger)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindPermission))

	relations := NewRelationService(svc.db)
	_, err = relations.Add(ctx, f.stranger.ID, created.ID, models.RelationShoppingCart)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID, f.author))

	_, err = svc.Get(ctx, created.ID)
	assert.True(t, IsKind(err, KindNotFound))

	var count int64
	require.NoError(t, svc.db.Model(&models.UserRecipeRelation{}).Where("recipe_id = ?", created.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestListFilters(t *testing.T) {
	svc, f := newRecipeFixture(t)
	ctx := context.Background()

	in := f.input()
	first, err := svc.Create(ctx, f.author, in)
	require.NoError(t, err)

	other := in
	other.Name = "Toast"
	other.TagIDs = []uuid.UUID{f.breakfast.ID}
	second, err := svc.Create(ctx, f.stranger, other)
	require.NoError(t, err)

	byTag, total, err := svc.List(ctx, RecipeFilter{TagSlugs: []string{"breakfast"}})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, byTag, 1)
	assert.Equal(t, second.ID, byTag[0].ID)

	byAuthor, _, err := svc.List(ctx, RecipeFilter{AuthorID: &f.author.ID})
	require.NoError(t, err)
	require.Len(t, byAuthor, 1)
	assert.Equal(t, first.ID, byAuthor[0].ID)

	relations := NewRelationService(svc.db)
	_, err = relations.Add(ctx, f.stranger.ID, first.ID, models.RelationFavorite)
	require.NoError(t, err)

	favorites, _, err := svc.List(ctx, RecipeFilter{FavoritedBy: &f.stranger.ID})
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, first.ID, favorites[0].ID)
}
