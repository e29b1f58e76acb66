package repository

import (
	"context"
	"strings"

	"go-inventory-crm/internal/model"

	"gorm.io/gorm"
)

// ProductFilter narrows ListProducts.
type ProductFilter struct {
	// ModelContains is a case-insensitive substring of the model.
	ModelContains string
	// InStockOnly keeps products with quantity > 0.
	InStockOnly bool
	// OrderByModel sorts by model only instead of category, model.
	OrderByModel bool
}

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindAll(ctx context.Context, filter ProductFilter) ([]model.Product, error)
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	Count(ctx context.Context) (int64, error)
	// IncreaseStock and DecreaseStockIfAvailable must run on a transaction handle.
	IncreaseStock(tx *gorm.DB, id uint, qty int) (int64, error)
	DecreaseStockIfAvailable(tx *gorm.DB, id uint, qty int) (int64, error)
	WithTx(tx *gorm.DB) ProductRepository
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepo{tx}
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepo) FindAll(ctx context.Context, filter ProductFilter) ([]model.Product, error) {
	var products []model.Product
	q := r.db.WithContext(ctx).Model(&model.Product{})
	if s := strings.TrimSpace(filter.ModelContains); s != "" {
		q = q.Where("LOWER(model) LIKE ? ESCAPE '\\'", "%"+escapeLike(strings.ToLower(s))+"%")
	}
	if filter.InStockOnly {
		q = q.Where("quantity > 0")
	}
	if filter.OrderByModel {
		q = q.Order("model ASC")
	} else {
		// NULL categories first on every dialect.
		q = q.Order("CASE WHEN category IS NULL THEN 0 ELSE 1 END").Order("category ASC").Order("model ASC")
	}
	err := q.Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&n).Error
	return n, err
}

func (r *productRepo) IncreaseStock(tx *gorm.DB, id uint, qty int) (int64, error) {
	res := tx.Model(&model.Product{}).
		Where("id = ?", id).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", qty))
	return res.RowsAffected, res.Error
}

// DecreaseStockIfAvailable subtracts qty only when at least qty units are on hand.
// Zero affected rows means the stock was insufficient (or the product is gone).
func (r *productRepo) DecreaseStockIfAvailable(tx *gorm.DB, id uint, qty int) (int64, error) {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND quantity >= ?", id, qty).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", qty))
	return res.RowsAffected, res.Error
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
