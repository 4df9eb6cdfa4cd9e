package model

// Category values known to the catalog. Other values are stored as-is but
// have no display label.
const (
	CategoryRegulatory = "regulatory"
	CategoryServices   = "services"
	CategoryTechnical  = "technical"
	CategoryCustomer   = "customer"
)

// KnownCategories lists the labeled categories in display order.
var KnownCategories = []string{
	CategoryRegulatory,
	CategoryServices,
	CategoryTechnical,
	CategoryCustomer,
}

// CategoryLabel returns the display label for a category, or the raw value
// when it is not one of the known categories.
func CategoryLabel(category string) string {
	switch category {
	case CategoryRegulatory:
		return "Regulatory & Compliance"
	case CategoryServices:
		return "Services & Features"
	case CategoryTechnical:
		return "Technical Operations"
	case CategoryCustomer:
		return "Customer Service"
	default:
		return category
	}
}

// Category is a category as listed in the browse view.
type Category struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Count int    `json:"count"`
}
