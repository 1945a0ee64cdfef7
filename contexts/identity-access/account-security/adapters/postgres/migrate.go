package postgresadapter

import "gorm.io/gorm"

// Migrate creates or updates the moderator tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&moderatorModel{})
}
