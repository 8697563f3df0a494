package models

// Category is one of the closed set of transaction categories.
type Category string

const (
	CategoryFood          Category = "food"
	CategoryTransport     Category = "transport"
	CategoryShopping      Category = "shopping"
	CategoryEntertainment Category = "entertainment"
	CategoryUtilities     Category = "utilities"
	CategoryHealthcare    Category = "healthcare"
	CategoryEducation     Category = "education"
	CategoryInvestment    Category = "investment"
	CategoryTransfer      Category = "transfer"
	CategorySalary        Category = "salary"
	CategoryOther         Category = "other"
)

var allCategories = []Category{
	CategoryFood,
	CategoryTransport,
	CategoryShopping,
	CategoryEntertainment,
	CategoryUtilities,
	CategoryHealthcare,
	CategoryEducation,
	CategoryInvestment,
	CategoryTransfer,
	CategorySalary,
	CategoryOther,
}

// AllCategories returns every category, "other" last.
func AllCategories() []Category {
	out := make([]Category, len(allCategories))
	copy(out, allCategories)
	return out
}

// Valid reports whether c belongs to the closed category set.
func (c Category) Valid() bool {
	for _, known := range allCategories {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}
