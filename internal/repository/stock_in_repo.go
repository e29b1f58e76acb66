package repository

import (
	"context"

	"go-inventory-crm/internal/model"

	"gorm.io/gorm"
)

type StockInRepository interface {
	Create(ctx context.Context, stockIn *model.StockIn) error
	SumByProduct(ctx context.Context, productID uint) (int64, error)
	WithTx(tx *gorm.DB) StockInRepository
}

type stockInRepo struct {
	db *gorm.DB
}

func NewStockInRepo(db *gorm.DB) StockInRepository {
	return &stockInRepo{db}
}

func (r *stockInRepo) WithTx(tx *gorm.DB) StockInRepository {
	return &stockInRepo{tx}
}

func (r *stockInRepo) Create(ctx context.Context, stockIn *model.StockIn) error {
	return r.db.WithContext(ctx).Omit("Product").Create(stockIn).Error
}

// SumByProduct totals every unit ever received for the product.
func (r *stockInRepo) SumByProduct(ctx context.Context, productID uint) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.StockIn{}).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	return total, err
}
