package service

import (
	"context"
	"strings"

	"go-inventory-crm/internal/logger"
	"go-inventory-crm/internal/model"
	"go-inventory-crm/internal/repository"
	"go-inventory-crm/internal/ws"
	"go-inventory-crm/pkg/database"
)

type AddProductInput struct {
	Category  *string     `json:"category" validate:"omitempty,max=64"`
	Model     string      `json:"model" validate:"notblank,max=128"`
	Price     model.Money `json:"price"`
	CostPrice model.Money `json:"cost_price"`
}

type CatalogService interface {
	AddProduct(ctx context.Context, in AddProductInput) (*model.Product, error)
	ListProducts(ctx context.Context, filter repository.ProductFilter) ([]model.Product, error)
	GetProduct(ctx context.Context, id uint) (*model.Product, error)
}

type catalogService struct {
	products repository.ProductRepository
	notifier Notifier
}

func NewCatalogService(products repository.ProductRepository, notifier Notifier) CatalogService {
	return &catalogService{products: products, notifier: notifierOrNop(notifier)}
}

func (s *catalogService) AddProduct(ctx context.Context, in AddProductInput) (*model.Product, error) {
	if err := validateInput(&in); err != nil {
		return nil, err
	}
	if in.Price.IsNegative() {
		return nil, invalid("price must not be negative")
	}
	if in.CostPrice.IsNegative() {
		return nil, invalid("cost_price must not be negative")
	}

	product := &model.Product{
		Category:  optional(in.Category),
		Model:     strings.TrimSpace(in.Model),
		Price:     model.NewMoney(in.Price.Decimal),
		CostPrice: model.NewMoney(in.CostPrice.Decimal),
	}
	// Uniqueness is left to the index so concurrent adds cannot both succeed.
	if err := s.products.Create(ctx, product); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrDuplicateModel
		}
		logger.Errorw("product_create_failed", "model", product.Model, "error", err)
		return nil, err
	}

	logger.Infow("product_created", "product_id", product.ID, "model", product.Model)
	s.notifier.Publish(ws.Event{
		Type:    ws.TypeStockUpdate,
		Action:  "product_created",
		User:    model.IdentityFrom(ctx),
		Data:    product,
		Message: "product " + product.Label() + " added",
	})
	return product, nil
}

func (s *catalogService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]model.Product, error) {
	return s.products.FindAll(ctx, filter)
}

func (s *catalogService) GetProduct(ctx context.Context, id uint) (*model.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrProductNotFound)
	}
	return product, nil
}
