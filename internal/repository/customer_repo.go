package repository

import (
	"context"

	"go-inventory-crm/internal/model"

	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer *model.Customer) error
	FindByID(ctx context.Context, id uint) (*model.Customer, error)
	// FindAll returns newest first.
	FindAll(ctx context.Context) ([]model.Customer, error)
	// FindAllByName returns customers sorted by name for pickers.
	FindAllByName(ctx context.Context) ([]model.Customer, error)
	Count(ctx context.Context) (int64, error)
	WithTx(tx *gorm.DB) CustomerRepository
}

type customerRepo struct {
	db *gorm.DB
}

func NewCustomerRepo(db *gorm.DB) CustomerRepository {
	return &customerRepo{db}
}

func (r *customerRepo) WithTx(tx *gorm.DB) CustomerRepository {
	return &customerRepo{tx}
}

func (r *customerRepo) Create(ctx context.Context, customer *model.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *customerRepo) FindByID(ctx context.Context, id uint) (*model.Customer, error) {
	var customer model.Customer
	if err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepo) FindAll(ctx context.Context) ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&customers).Error
	return customers, err
}

func (r *customerRepo) FindAllByName(ctx context.Context) ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&customers).Error
	return customers, err
}

func (r *customerRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Customer{}).Count(&n).Error
	return n, err
}
