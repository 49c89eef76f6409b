package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkful/forkful-backend/internal/models"
)

// ShoppingListItem is one aggregated line of the shopping list.
type ShoppingListItem struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	TotalAmount     int    `json:"total_amount"`
}

// ShoppingListService reduces a user's shopping cart into a merged
// ingredient report.
type ShoppingListService struct {
	db *gorm.DB
}

func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{db: db}
}

type listKey struct {
	name string
	unit string
}

// Aggregate walks every cart entry of the user and sums ingredient amounts
// grouped by (name, measurement unit) — name and unit, not ingredient id,
// so two catalog rows sharing both merge into one line. Output keeps
// first-seen order; an empty cart yields an empty slice.
func (s *ShoppingListService) Aggregate(ctx context.Context, userID uuid.UUID) ([]ShoppingListItem, error) {
	var entries []models.UserRecipeRelation
	err := s.db.WithContext(ctx).
		Preload("Recipe.Ingredients.Ingredient").
		Where("user_id = ? AND kind = ?", userID, models.RelationShoppingCart).
		Order("created_at").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}

	index := make(map[listKey]int)
	items := make([]ShoppingListItem, 0)
	for _, entry := range entries {
		for _, line := range entry.Recipe.Ingredients {
			key := listKey{name: line.Ingredient.Name, unit: line.Ingredient.MeasurementUnit}
			if i, ok := index[key]; ok {
				items[i].TotalAmount += line.Amount
				continue
			}
			index[key] = len(items)
			items = append(items, ShoppingListItem{
				Name:            key.name,
				MeasurementUnit: key.unit,
				TotalAmount:     line.Amount,
			})
		}
	}
	return items, nil
}

// Render produces the plain-text export: a header line, then one line per
// aggregated ingredient in aggregation order.
func Render(items []ShoppingListItem) string {
	var b strings.Builder
	b.WriteString("Shopping list:\n\n")
	for _, item := range items {
		fmt.Fprintf(&b, "%s - %d %s\n", item.Name, item.TotalAmount, item.MeasurementUnit)
	}
	return b.String()
}
