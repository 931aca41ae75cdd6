package models

// Ingredient names are not unique: the catalog may carry the same name
// under several measurement units, and the shopping list merges entries
// by name at aggregation time rather than by id.
type Ingredient struct {
	ID              uint   `json:"id" gorm:"primarykey"`
	Name            string `json:"name" gorm:"size:256;not null;index"`
	MeasurementUnit string `json:"measurement_unit" gorm:"size:32;not null"`
}
