package postgres

import (
	"context"

	"grocery/internal/adapters/out/postgres/assignmentrepo"
	"grocery/internal/adapters/out/postgres/courierrepo"
	"grocery/internal/adapters/out/postgres/orderrepo"

	"gorm.io/gorm"
)

// Config returns the GORM settings the repositories rely on: duplicate-key
// errors are translated to gorm.ErrDuplicatedKey.
func Config() *gorm.Config {
	return &gorm.Config{TranslateError: true}
}

// Migrate creates or updates the tables and indexes of the assignment core.
func Migrate(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).AutoMigrate(
		&courierrepo.CourierDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
		&assignmentrepo.AssignmentDTO{},
	)
}
