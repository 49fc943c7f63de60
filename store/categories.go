package store

import (
	"regexp"
	"strings"

	"github.com/Danii44/PRIMEHODDIE/models"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// CategorySlug lowercases name and replaces every whitespace run with a dash.
func CategorySlug(name string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(name), "-")
}

// DeriveCategories groups products by their exact category string in
// first-seen order. The first member seen provides the cover image.
func DeriveCategories(products []models.Product) []models.Category {
	categories := []models.Category{}
	index := make(map[string]int)

	for _, p := range products {
		i, ok := index[p.Category]
		if !ok {
			i = len(categories)
			index[p.Category] = i
			categories = append(categories, models.Category{
				ID:    CategorySlug(p.Category),
				Name:  p.Category,
				Image: p.Image,
			})
		}
		categories[i].Count++
	}
	return categories
}
