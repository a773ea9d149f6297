package model

// TableRecipes is the only table this service owns.
const TableRecipes = "recipes"

// Recipe is a persisted recipe row. Storage assigns ID and both timestamps;
// callers only ever provide Name and Ingredience.
//
// The timestamps are text columns defaulted by the database so the value a
// caller reads back after an insert is exactly what later selects return.
type Recipe struct {
	ID          uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"column:name;type:text;not null" json:"name"`
	Ingredience string `gorm:"column:ingredience;type:text;not null" json:"ingredience"`
	CreatedAt   string `gorm:"column:createdAt;type:text;not null;default:(CURRENT_TIMESTAMP)" json:"createdAt"`
	UpdatedAt   string `gorm:"column:updatedAt;type:text;not null;default:(CURRENT_TIMESTAMP)" json:"updatedAt"`
}

// TableName pins the table name regardless of the naming strategy.
func (Recipe) TableName() string {
	return TableRecipes
}
