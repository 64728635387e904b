package store

import "github.com/consumewise/backend/internal/domain"

func testRecord(name, brand string) *domain.ProductRecord {
	return &domain.ProductRecord{
		ProductName: name,
		BrandName:   brand,
		Ingredients: []domain.Ingredient{
			{Name: "Milk solids", Percent: "40", Metadata: ""},
		},
		ServingSize:     domain.Quantity{Quantity: 25, Unit: "g"},
		PackagingSize:   domain.Quantity{Quantity: 100, Unit: "g"},
		ServingsPerPack: 4,
		NutritionalInformation: []domain.NutrientRow{
			{Name: "Protein", Unit: "g", Values: []domain.NutrientValue{{Base: "per 100g", Value: 7.5}}},
		},
		FssaiLicenseNumbers: []float64{10012345678901},
		Claims:              []string{"Source of calcium"},
		ShelfLife:           "9 months",
	}
}
