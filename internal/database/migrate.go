package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/pageza/recipebox/backend/internal/model"
)

// EnsureSchema creates the recipes table when it does not exist yet. Existing
// tables are left as they are apart from columns gorm can add safely.
func EnsureSchema(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Recipe{}); err != nil {
		return fmt.Errorf("failed to create %s table: %w", model.TableRecipes, err)
	}
	return nil
}
