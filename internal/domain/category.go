package domain

// Category is one entry of the topic taxonomy. Only Value is persisted.
type Category struct {
	Value string
	Label string
}

// Taxonomy is the closed set of categories offered to interactive submitters.
// Order matters: it is the rendering order of the selection controls.
var Taxonomy = []Category{
	{Value: "frontend", Label: "Frontend"},
	{Value: "backend", Label: "Backend"},
	{Value: "devops", Label: "DevOps"},
	{Value: "database", Label: "Database"},
	{Value: "mobile", Label: "Mobile"},
	{Value: "ai-ml", Label: "AI/ML"},
	{Value: "security", Label: "Security"},
	{Value: "architecture", Label: "Architecture"},
	{Value: "career", Label: "Career"},
	{Value: "other", Label: "Other"},
}

// LookupCategory finds a taxonomy entry by value.
func LookupCategory(value string) (Category, bool) {
	for _, c := range Taxonomy {
		if c.Value == value {
			return c, true
		}
	}
	return Category{}, false
}

// IsCategory reports whether value belongs to the taxonomy.
func IsCategory(value string) bool {
	_, ok := LookupCategory(value)
	return ok
}

// CategoryLabel returns the display label, or the raw value for free-form
// categories coming from forum tags.
func CategoryLabel(value string) string {
	if c, ok := LookupCategory(value); ok {
		return c.Label
	}
	return value
}

// CategoryLabels maps values to labels preserving order.
func CategoryLabels(values []string) []string {
	labels := make([]string, 0, len(values))
	for _, v := range values {
		labels = append(labels, CategoryLabel(v))
	}
	return labels
}
