package catalog

// Category is the coarse classification assigned to every record.
type Category string

// String returns the string representation of a Category.
func (c Category) String() string {
	return string(c)
}

// Categories assigned by the classifier.
const (
	CategoryAuth     Category = "auth"
	CategoryDatabase Category = "database"
	CategoryAI       Category = "ai"
	CategoryFiles    Category = "files"
	CategoryWeb      Category = "web"
	CategoryOther    Category = "other"
)

// Categories returns every category in classifier rule order.
func Categories() []Category {
	return []Category{
		CategoryAuth,
		CategoryDatabase,
		CategoryAI,
		CategoryFiles,
		CategoryWeb,
		CategoryOther,
	}
}

// IsValid reports whether c is a known category.
func (c Category) IsValid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}
