package postgresadapter

import "gorm.io/gorm"

// Migrate creates or updates the poll tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&pollModel{},
		&pollOptionModel{},
		&pollVoteModel{},
		&pollViewerModel{},
		&archivedPollModel{},
	)
}
