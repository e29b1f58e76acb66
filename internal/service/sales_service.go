package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"go-inventory-crm/internal/logger"
	"go-inventory-crm/internal/model"
	"go-inventory-crm/internal/repository"
	"go-inventory-crm/internal/ws"
	"go-inventory-crm/pkg/database"

	"gorm.io/gorm"
)

const maxOrderNoAttempts = 3

// errOrderNoTaken signals an order number collision; the sale is retried with a new number.
var errOrderNoTaken = errors.New("order number already used")

type PlaceSaleInput struct {
	CustomerID uint        `json:"customer_id" validate:"required"`
	ProductID  uint        `json:"product_id" validate:"required"`
	Quantity   int         `json:"quantity" validate:"min=1"`
	UnitPrice  model.Money `json:"unit_price"`
}

// SaleReceipt is returned for a committed sale.
type SaleReceipt struct {
	OrderID        uint        `json:"order_id"`
	OrderNo        string      `json:"order_no"`
	TotalAmount    model.Money `json:"total_amount"`
	RemainingStock int         `json:"remaining_stock"`
}

type SalesService interface {
	// PlaceSale decrements stock and records the order atomically.
	PlaceSale(ctx context.Context, in PlaceSaleInput) (*SaleReceipt, error)
	ListOrders(ctx context.Context, limit int) ([]repository.OrderView, error)
	GetOrder(ctx context.Context, orderNo string) (*model.SaleOrder, error)
}

type salesService struct {
	uow       database.UnitOfWork
	products  repository.ProductRepository
	customers repository.CustomerRepository
	orders    repository.SaleOrderRepository
	reports   repository.ReportRepository
	notifier  Notifier
	orderNo   func() (string, error)
}

func NewSalesService(
	uow database.UnitOfWork,
	products repository.ProductRepository,
	customers repository.CustomerRepository,
	orders repository.SaleOrderRepository,
	reports repository.ReportRepository,
	notifier Notifier,
) SalesService {
	return &salesService{
		uow:       uow,
		products:  products,
		customers: customers,
		orders:    orders,
		reports:   reports,
		notifier:  notifierOrNop(notifier),
		orderNo:   func() (string, error) { return generateOrderNo(time.Now()) },
	}
}

func (s *salesService) PlaceSale(ctx context.Context, in PlaceSaleInput) (*SaleReceipt, error) {
	if in.Quantity < 1 {
		return nil, invalid("quantity must be at least 1")
	}
	if err := validateInput(&in); err != nil {
		return nil, err
	}
	if in.UnitPrice.IsNegative() {
		return nil, invalid("unit_price must not be negative")
	}

	var lastErr error
	for attempt := 1; attempt <= maxOrderNoAttempts; attempt++ {
		orderNo, err := s.orderNo()
		if err != nil {
			return nil, fmt.Errorf("generate order number: %w", err)
		}

		receipt, err := s.placeSale(ctx, in, orderNo)
		if err == nil {
			s.afterSale(ctx, in, receipt)
			return receipt, nil
		}
		if !errors.Is(err, errOrderNoTaken) {
			logFailure("sale_failed", err, "customer_id", in.CustomerID, "product_id", in.ProductID, "quantity", in.Quantity)
			return nil, err
		}
		logger.Warnw("order_no_collision", "order_no", orderNo, "attempt", attempt)
		lastErr = err
	}
	logger.Errorw("sale_failed", "error", lastErr, "attempts", maxOrderNoAttempts)
	return nil, fmt.Errorf("allocate order number: %w", lastErr)
}

func (s *salesService) placeSale(ctx context.Context, in PlaceSaleInput, orderNo string) (*SaleReceipt, error) {
	var receipt *SaleReceipt
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		if _, err := s.customers.WithTx(tx).FindByID(ctx, in.CustomerID); err != nil {
			return notFoundAs(err, ErrCustomerNotFound)
		}
		products := s.products.WithTx(tx)
		if _, err := products.FindByID(ctx, in.ProductID); err != nil {
			return notFoundAs(err, ErrProductNotFound)
		}

		// Check and decrement in one statement; concurrent sales cannot both pass the check.
		affected, err := s.products.DecreaseStockIfAvailable(tx, in.ProductID, in.Quantity)
		if err != nil {
			return fmt.Errorf("decrease stock: %w", err)
		}
		if affected == 0 {
			return ErrInsufficientStock
		}

		unitPrice := model.NewMoney(in.UnitPrice.Decimal)
		order := &model.SaleOrder{
			OrderNo:     orderNo,
			CustomerID:  in.CustomerID,
			TotalAmount: unitPrice.Mul(in.Quantity),
			Items: []model.SaleOrderItem{{
				ProductID: in.ProductID,
				Quantity:  in.Quantity,
				UnitPrice: unitPrice,
			}},
		}
		if err := s.orders.WithTx(tx).Create(ctx, order); err != nil {
			if database.IsUniqueViolation(err) {
				return errOrderNoTaken
			}
			return fmt.Errorf("insert sale_order: %w", err)
		}

		product, err := products.FindByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		receipt = &SaleReceipt{
			OrderID:        order.ID,
			OrderNo:        order.OrderNo,
			TotalAmount:    order.TotalAmount,
			RemainingStock: product.Quantity,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

func (s *salesService) afterSale(ctx context.Context, in PlaceSaleInput, receipt *SaleReceipt) {
	logger.Infow("sale_placed",
		"order_no", receipt.OrderNo,
		"customer_id", in.CustomerID,
		"product_id", in.ProductID,
		"quantity", in.Quantity,
		"total", receipt.TotalAmount.String(),
		"remaining", receipt.RemainingStock,
	)
	s.notifier.Publish(ws.Event{
		Type:   ws.TypeSaleCreated,
		Action: "sale_created",
		User:   model.IdentityFrom(ctx),
		Data: map[string]interface{}{
			"order_no":     receipt.OrderNo,
			"customer_id":  in.CustomerID,
			"product_id":   in.ProductID,
			"quantity":     in.Quantity,
			"total_amount": receipt.TotalAmount,
			"new_stock":    receipt.RemainingStock,
		},
		Message: fmt.Sprintf("order %s: %d units sold", receipt.OrderNo, in.Quantity),
	})
}

func (s *salesService) ListOrders(ctx context.Context, limit int) ([]repository.OrderView, error) {
	return s.reports.RecentOrders(ctx, limit)
}

func (s *salesService) GetOrder(ctx context.Context, orderNo string) (*model.SaleOrder, error) {
	orderNo = strings.TrimSpace(orderNo)
	if orderNo == "" {
		return nil, invalid("order number is required")
	}
	order, err := s.orders.FindByOrderNo(ctx, orderNo)
	if err != nil {
		return nil, notFoundAs(err, ErrOrderNotFound)
	}
	return order, nil
}

// generateOrderNo builds "SO" + yyyyMMddHHmmss + milliseconds + six random digits.
func generateOrderNo(now time.Time) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	ms := now.Nanosecond() / int(time.Millisecond)
	return fmt.Sprintf("SO%s%03d%06d", now.Format("20060102150405"), ms, n.Int64()), nil
}
