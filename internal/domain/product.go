package domain

import "fmt"

// ProductRecord is the structured content of a packaged-food label, as
// extracted from one or more photographs of the packaging.
// The shape is closed: it mirrors the label_reader schema field for field.
type ProductRecord struct {
	ProductName            string        `json:"productName" bson:"productName" binding:"required"`
	BrandName              string        `json:"brandName" bson:"brandName" binding:"required"`
	Ingredients            []Ingredient  `json:"ingredients" bson:"ingredients"`
	ServingSize            Quantity      `json:"servingSize" bson:"servingSize"`
	PackagingSize          Quantity      `json:"packagingSize" bson:"packagingSize"`
	ServingsPerPack        float64       `json:"servingsPerPack" bson:"servingsPerPack"`
	NutritionalInformation []NutrientRow `json:"nutritionalInformation" bson:"nutritionalInformation"`
	FssaiLicenseNumbers    []float64     `json:"fssaiLicenseNumbers" bson:"fssaiLicenseNumbers"`
	Claims                 []string      `json:"claims" bson:"claims"`
	ShelfLife              string        `json:"shelfLife" bson:"shelfLife"`
}

// Label formats the record the way search results present it
func (r *ProductRecord) Label() string {
	return fmt.Sprintf("%s by %s", r.ProductName, r.BrandName)
}

// StoredProduct is a ProductRecord together with the id the store assigned to it
type StoredProduct struct {
	ID string `json:"_id"`
	ProductRecord
}
