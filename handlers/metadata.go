package handlers

import (
	"net/http"

	"akipe/models"
)

// Marker colors per category, used by clients to tint map pins.
var categoryColors = map[models.Category]string{
	models.CategoryLocal:      "green",
	models.CategoryFastFood:   "amber",
	models.CategoryGourmet:    "violet",
	models.CategoryStreetFood: "red",
	models.CategoryCafe:       "cyan",
	models.CategoryBakery:     "orange",
}

// DefaultCategoryColor covers categories outside the known set.
const DefaultCategoryColor = "blue"

type categoryInfo struct {
	ID    models.Category `json:"id"`
	Color string          `json:"color"`
}

// CategoriesHandler lists the restaurant categories with their marker
// colors so clients populate filters and legends from one place.
func CategoriesHandler() http.HandlerFunc {
	categories := []categoryInfo{
		{models.CategoryLocal, categoryColors[models.CategoryLocal]},
		{models.CategoryFastFood, categoryColors[models.CategoryFastFood]},
		{models.CategoryGourmet, categoryColors[models.CategoryGourmet]},
		{models.CategoryStreetFood, categoryColors[models.CategoryStreetFood]},
		{models.CategoryCafe, categoryColors[models.CategoryCafe]},
		{models.CategoryBakery, categoryColors[models.CategoryBakery]},
	}
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"categories":    categories,
			"default_color": DefaultCategoryColor,
		})
	}
}

// CategoryColor resolves a category to its marker color.
func CategoryColor(c models.Category) string {
	if color, ok := categoryColors[c]; ok {
		return color
	}
	return DefaultCategoryColor
}

// GroupTypesHandler lists the group sizes accepted by the group filter.
func GroupTypesHandler() http.HandlerFunc {
	groupTypes := []string{"solo", "couple", "family", "large_group"}
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"group_types": groupTypes})
	}
}
