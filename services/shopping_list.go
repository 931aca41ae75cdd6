package services

import (
	"fmt"
	"sort"
	"strings"

	"recipebox/models"
)

// ShoppingListFilename is the fixed name of the downloadable artifact.
const ShoppingListFilename = "shopping_list.txt"

// AggregateShoppingList merges ingredient amounts by name string
// equality: two catalog entries sharing a name are summed together. The
// unit shown is the one first seen for that name. Output is one
// "<name>: <total> <unit>" line per name, sorted by name; an empty cart
// yields an empty string.
func AggregateShoppingList(rows []models.CartIngredient) string {
	totals := make(map[string]int, len(rows))
	units := make(map[string]string, len(rows))
	names := make([]string, 0, len(rows))

	for _, row := range rows {
		if _, ok := totals[row.Name]; !ok {
			names = append(names, row.Name)
			units[row.Name] = row.MeasurementUnit
		}
		totals[row.Name] += row.Amount
	}

	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "%s: %d %s\n", name, totals[name], units[name])
	}
	return b.String()
}
