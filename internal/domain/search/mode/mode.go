package mode

// Mode is the kind of recipe query.
type Mode string

// Query mode constants.
const (
	// Text is the scored free-text search over name, ingredients, tags and category.
	Text        Mode = "text"
	Ingredients Mode = "ingredients"
	Category    Mode = "category"
	// Nutrition filters by calorie ceiling and protein floor without the index.
	Nutrition    Mode = "nutrition"
	Popular      Mode = "popular"
	Personalized Mode = "personalized"
)

// All lists every mode, in a fixed order.
var All = []Mode{Text, Ingredients, Category, Nutrition, Popular, Personalized}

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	for _, v := range All {
		if m == v {
			return true
		}
	}
	return false
}
