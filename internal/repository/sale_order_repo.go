package repository

import (
	"context"

	"go-inventory-crm/internal/model"

	"gorm.io/gorm"
)

type SaleOrderRepository interface {
	// Create inserts the header and its items.
	Create(ctx context.Context, order *model.SaleOrder) error
	FindByOrderNo(ctx context.Context, orderNo string) (*model.SaleOrder, error)
	SumSoldByProduct(ctx context.Context, productID uint) (int64, error)
	Count(ctx context.Context) (int64, error)
	WithTx(tx *gorm.DB) SaleOrderRepository
}

type saleOrderRepo struct {
	db *gorm.DB
}

func NewSaleOrderRepo(db *gorm.DB) SaleOrderRepository {
	return &saleOrderRepo{db}
}

func (r *saleOrderRepo) WithTx(tx *gorm.DB) SaleOrderRepository {
	return &saleOrderRepo{tx}
}

func (r *saleOrderRepo) Create(ctx context.Context, order *model.SaleOrder) error {
	return r.db.WithContext(ctx).Omit("Customer").Create(order).Error
}

func (r *saleOrderRepo) FindByOrderNo(ctx context.Context, orderNo string) (*model.SaleOrder, error) {
	var order model.SaleOrder
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&order, "order_no = ?", orderNo).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// SumSoldByProduct totals every unit ever sold for the product.
func (r *saleOrderRepo) SumSoldByProduct(ctx context.Context, productID uint) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.SaleOrderItem{}).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	return total, err
}

func (r *saleOrderRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.SaleOrder{}).Count(&n).Error
	return n, err
}
