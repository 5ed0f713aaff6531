package normalize

import "strings"

// Canonical category buckets. Everything the store or the model produces
// is folded into one of these.
const (
	CategoryBeverages = "Beverages"
	CategoryFood      = "Food"
	CategoryDesserts  = "Desserts"
	CategoryOther     = "Other"
)

// categorySynonyms maps lowercase terms seen in questions and raw item
// data onto the canonical buckets, most specific first within a bucket.
var categorySynonyms = []struct {
	term     string
	category string
}{
	{"beverage", CategoryBeverages},
	{"drink", CategoryBeverages},
	{"coffee", CategoryBeverages},
	{"tea", CategoryBeverages},
	{"juice", CategoryBeverages},
	{"soda", CategoryBeverages},
	{"smoothie", CategoryBeverages},
	{"dessert", CategoryDesserts},
	{"sweet", CategoryDesserts},
	{"pastry", CategoryDesserts},
	{"pastries", CategoryDesserts},
	{"cake", CategoryDesserts},
	{"cookie", CategoryDesserts},
	{"ice cream", CategoryDesserts},
	{"food", CategoryFood},
	{"entree", CategoryFood},
	{"meal", CategoryFood},
	{"sandwich", CategoryFood},
	{"burger", CategoryFood},
	{"pizza", CategoryFood},
	{"salad", CategoryFood},
	{"taco", CategoryFood},
	{"bowl", CategoryFood},
}

// CanonicalCategory folds a raw category string into the canonical set.
// Unknown input lands in Other; empty stays empty.
func CanonicalCategory(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}
	switch s {
	case strings.ToLower(CategoryBeverages), strings.ToLower(CategoryFood), strings.ToLower(CategoryDesserts), strings.ToLower(CategoryOther):
		return strings.ToUpper(s[:1]) + s[1:]
	}
	for _, syn := range categorySynonyms {
		if strings.Contains(s, syn.term) {
			return syn.category
		}
	}
	return CategoryOther
}

// detectCategoryTerm returns the canonical category for the first synonym
// found in the lowercased question text, or "" if none appears.
func detectCategoryTerm(lower string) string {
	for _, syn := range categorySynonyms {
		if strings.Contains(lower, syn.term) {
			return syn.category
		}
	}
	return ""
}
