package postgres

import (
	"exportflow/internal/adapters/out/postgres/delayrepo"
	"exportflow/internal/adapters/out/postgres/evidencerepo"
	"exportflow/internal/adapters/out/postgres/milestonelogrepo"
	"exportflow/internal/adapters/out/postgres/milestonerepo"
	"exportflow/internal/adapters/out/postgres/orderrepo"

	"gorm.io/gorm"
)

// Models lists every table the service owns, in creation order.
func Models() []any {
	return []any{
		&orderrepo.OrderDTO{},
		&milestonerepo.MilestoneDTO{},
		&delayrepo.DelayRequestDTO{},
		&milestonelogrepo.LogEntryDTO{},
		&evidencerepo.AttachmentDTO{},
	}
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
