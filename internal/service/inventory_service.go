package service

import (
	"context"
	"fmt"

	"go-inventory-crm/internal/logger"
	"go-inventory-crm/internal/model"
	"go-inventory-crm/internal/repository"
	"go-inventory-crm/internal/ws"
	"go-inventory-crm/pkg/database"

	"gorm.io/gorm"
)

type ReceiveStockInput struct {
	ProductID uint        `json:"product_id" validate:"required"`
	Quantity  int         `json:"quantity" validate:"min=1"`
	CostPrice model.Money `json:"cost_price"`
	Note      *string     `json:"note" validate:"omitempty,max=255"`
}

type InventoryService interface {
	// ReceiveStock records a receipt and raises the product quantity in one unit of work.
	ReceiveStock(ctx context.Context, in ReceiveStockInput) (uint, error)
	ListStockIns(ctx context.Context, limit int) ([]repository.StockInView, error)
}

type inventoryService struct {
	uow      database.UnitOfWork
	products repository.ProductRepository
	stockIns repository.StockInRepository
	reports  repository.ReportRepository
	notifier Notifier
}

func NewInventoryService(
	uow database.UnitOfWork,
	products repository.ProductRepository,
	stockIns repository.StockInRepository,
	reports repository.ReportRepository,
	notifier Notifier,
) InventoryService {
	return &inventoryService{
		uow:      uow,
		products: products,
		stockIns: stockIns,
		reports:  reports,
		notifier: notifierOrNop(notifier),
	}
}

func (s *inventoryService) ReceiveStock(ctx context.Context, in ReceiveStockInput) (uint, error) {
	if in.Quantity < 1 {
		return 0, invalid("quantity must be at least 1")
	}
	if err := validateInput(&in); err != nil {
		return 0, err
	}
	if in.CostPrice.IsNegative() {
		return 0, invalid("cost_price must not be negative")
	}

	var (
		record  *model.StockIn
		product *model.Product
	)
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		products := s.products.WithTx(tx)
		if _, err := products.FindByID(ctx, in.ProductID); err != nil {
			return notFoundAs(err, ErrProductNotFound)
		}

		record = &model.StockIn{
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
			CostPrice: model.NewMoney(in.CostPrice.Decimal),
			Note:      optional(in.Note),
		}
		if err := s.stockIns.WithTx(tx).Create(ctx, record); err != nil {
			return fmt.Errorf("insert stock_in: %w", err)
		}

		affected, err := s.products.IncreaseStock(tx, in.ProductID, in.Quantity)
		if err != nil {
			return fmt.Errorf("increase stock: %w", err)
		}
		if affected != 1 {
			return ErrProductNotFound
		}

		product, err = products.FindByID(ctx, in.ProductID)
		return err
	})
	if err != nil {
		logFailure("receive_stock_failed", err, "product_id", in.ProductID, "quantity", in.Quantity)
		return 0, err
	}

	logger.Infow("stock_received",
		"stock_in_id", record.ID,
		"product_id", product.ID,
		"quantity", in.Quantity,
		"on_hand", product.Quantity,
	)
	s.notifier.Publish(ws.Event{
		Type:   ws.TypeStockUpdate,
		Action: "stock_received",
		User:   model.IdentityFrom(ctx),
		Data: map[string]interface{}{
			"stock_in_id": record.ID,
			"product_id":  product.ID,
			"model":       product.Model,
			"quantity":    in.Quantity,
			"new_stock":   product.Quantity,
		},
		Message: fmt.Sprintf("received %d units of %s", in.Quantity, product.Label()),
	})
	return record.ID, nil
}

func (s *inventoryService) ListStockIns(ctx context.Context, limit int) ([]repository.StockInView, error) {
	return s.reports.RecentStockIns(ctx, limit)
}
