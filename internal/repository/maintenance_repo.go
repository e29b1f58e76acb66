package repository

import (
	"context"

	"go-inventory-crm/internal/model"

	"gorm.io/gorm"
)

type MaintenanceRepository interface {
	Create(ctx context.Context, record *model.Maintenance) error
	WithTx(tx *gorm.DB) MaintenanceRepository
}

type maintenanceRepo struct {
	db *gorm.DB
}

func NewMaintenanceRepo(db *gorm.DB) MaintenanceRepository {
	return &maintenanceRepo{db}
}

func (r *maintenanceRepo) WithTx(tx *gorm.DB) MaintenanceRepository {
	return &maintenanceRepo{tx}
}

func (r *maintenanceRepo) Create(ctx context.Context, record *model.Maintenance) error {
	return r.db.WithContext(ctx).Omit("Customer", "Product").Create(record).Error
}
