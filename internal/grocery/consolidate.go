// Package grocery consolidates the adjusted ingredients of a whole plan
// into a deduplicated shopping list.
package grocery

import (
	"fmt"
	"sort"
	"strings"

	"github.com/platewise/nutrition-engine/internal/convert"
	"github.com/platewise/nutrition-engine/internal/model"
)

// RepeatThreshold is the occurrence count at which an item is flagged as
// a repeated staple on the list.
const RepeatThreshold = 7

type groupKey struct {
	name string
	unit string
}

type group struct {
	displayName string
	unit        string
	category    model.Category
	total       float64
	parsed      bool
	rawAmount   string
	count       int
}

// Consolidate merges every ingredient occurrence across the plan's days
// into one item per (name, unit) pair, summing quantities and counting
// how many meal slots use each ingredient.
func Consolidate(days []model.DayPlan) []model.GroceryItem {
	groups := make(map[groupKey]*group)
	var order []groupKey

	for _, day := range days {
		for _, meal := range day.Meals {
			for _, ing := range meal.Ingredients {
				key := groupKey{
					name: strings.ToLower(strings.TrimSpace(ing.Name)),
					unit: strings.ToLower(strings.TrimSpace(ing.Unit)),
				}
				g, ok := groups[key]
				if !ok {
					g = &group{
						displayName: strings.TrimSpace(ing.Name),
						unit:        ing.Unit,
						category:    ing.Category.Normalize(),
						rawAmount:   ing.Amount,
					}
					groups[key] = g
					order = append(order, key)
				}
				g.count++
				if qty, ok := convert.ParseAmount(ing.Amount); ok {
					g.total += qty
					g.parsed = true
				}
			}
		}
	}

	items := make([]model.GroceryItem, 0, len(order))
	for _, key := range order {
		g := groups[key]

		amount := g.rawAmount
		if g.parsed {
			amount = formatAmount(g.total)
		}

		name := g.displayName
		if g.count >= RepeatThreshold {
			name = fmt.Sprintf("%s (x%d)", name, g.count)
		}

		items = append(items, model.GroceryItem{
			Name:     name,
			Amount:   amount,
			Unit:     g.unit,
			Category: g.category,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Category != items[j].Category {
			return items[i].Category < items[j].Category
		}
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})
	return items
}

// formatAmount renders a summed quantity at shopping-list precision:
// whole numbers above ten, one decimal above one, two below.
func formatAmount(v float64) string {
	switch {
	case v >= 10:
		return fmt.Sprintf("%.0f", v)
	case v >= 1:
		return fmt.Sprintf("%.1f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}
