package postgresadapter

import "gorm.io/gorm"

// Migrate creates or updates the application review tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&applicationModel{},
		&voteModel{},
		&commentModel{},
		&viewerModel{},
		&auditLogModel{},
		&intakeSettingsModel{},
	)
}
