package domain

// Ingredient is one entry of the ingredient list printed on a label.
// Percent and Metadata are always present, possibly empty.
type Ingredient struct {
	Name     string `json:"name" bson:"name"`
	Percent  string `json:"percent" bson:"percent"`
	Metadata string `json:"metadata" bson:"metadata"` // e.g. "INS 211"
}

// Quantity is an amount with its unit, used for serving and packaging sizes
type Quantity struct {
	Quantity float64 `json:"quantity" bson:"quantity"`
	Unit     string  `json:"unit" bson:"unit"`
}

// NutrientRow represents a single nutrient line of the nutrition facts panel
type NutrientRow struct {
	Name   string          `json:"name" bson:"name"`
	Unit   string          `json:"unit" bson:"unit"`
	Values []NutrientValue `json:"values" bson:"values"`
}

// NutrientValue is the nutrient amount for one reference basis
// ("per 100g", "per serving", ...)
type NutrientValue struct {
	Base  string  `json:"base" bson:"base"`
	Value float64 `json:"value" bson:"value"`
}
