package repository

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go-inventory-crm/internal/model"

	"github.com/jmoiron/sqlx"
)

// DefaultListLimit caps the recent-activity lists.
const DefaultListLimit = 100

// itemSummarySeparator joins order lines in the sales list.
const itemSummarySeparator = "；"

// StockInView is a receipt joined with its product.
type StockInView struct {
	ID              uint        `db:"id" json:"id"`
	ProductID       uint        `db:"product_id" json:"product_id"`
	ProductCategory *string     `db:"category" json:"category"`
	ProductModel    string      `db:"model" json:"model"`
	ProductPrice    model.Money `db:"price" json:"price"`
	Quantity        int         `db:"quantity" json:"quantity"`
	CostPrice       model.Money `db:"cost_price" json:"cost_price"`
	Note            *string     `db:"note" json:"note"`
	CreatedAt       time.Time   `db:"created_at" json:"created_at"`
}

// OrderView is a sale header with its customer and a one-line item summary.
type OrderView struct {
	ID            uint        `db:"id" json:"id"`
	OrderNo       string      `db:"order_no" json:"order_no"`
	CustomerID    uint        `db:"customer_id" json:"customer_id"`
	CustomerName  string      `db:"customer_name" json:"customer_name"`
	CustomerPhone *string     `db:"customer_phone" json:"customer_phone"`
	TotalAmount   model.Money `db:"total_amount" json:"total_amount"`
	CreatedAt     time.Time   `db:"created_at" json:"created_at"`
	ItemsSummary  string      `db:"-" json:"items_summary"`
}

// MaintenanceView is a service log row with customer name and optional product model.
type MaintenanceView struct {
	ID           uint      `db:"id" json:"id"`
	CustomerID   uint      `db:"customer_id" json:"customer_id"`
	CustomerName string    `db:"customer_name" json:"customer_name"`
	ProductID    *uint     `db:"product_id" json:"product_id"`
	ProductModel *string   `db:"product_model" json:"product_model"`
	Content      *string   `db:"content" json:"content"`
	Result       *string   `db:"result" json:"result"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type orderItemRow struct {
	OrderID  uint    `db:"order_id"`
	Category *string `db:"category"`
	Model    string  `db:"model"`
	Quantity int     `db:"quantity"`
}

type ReportRepository interface {
	RecentStockIns(ctx context.Context, limit int) ([]StockInView, error)
	RecentOrders(ctx context.Context, limit int) ([]OrderView, error)
	RecentMaintenance(ctx context.Context, limit int) ([]MaintenanceView, error)
}

type reportRepo struct {
	db *sqlx.DB
}

func NewReportRepo(db *sqlx.DB) ReportRepository {
	return &reportRepo{db}
}

func (r *reportRepo) RecentStockIns(ctx context.Context, limit int) ([]StockInView, error) {
	query := r.db.Rebind(`
		SELECT s.id, s.product_id, p.category, p.model, p.price,
		       s.quantity, s.cost_price, s.note, s.created_at
		FROM stock_in s
		JOIN product p ON p.id = s.product_id
		ORDER BY s.created_at DESC, s.id DESC
		LIMIT ?`)
	rows := []StockInView{}
	if err := r.db.SelectContext(ctx, &rows, query, normalizeLimit(limit)); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *reportRepo) RecentOrders(ctx context.Context, limit int) ([]OrderView, error) {
	query := r.db.Rebind(`
		SELECT o.id, o.order_no, o.customer_id, c.name AS customer_name, c.phone AS customer_phone,
		       o.total_amount, o.created_at
		FROM sale_order o
		JOIN customer c ON c.id = o.customer_id
		ORDER BY o.created_at DESC, o.id DESC
		LIMIT ?`)
	orders := []OrderView{}
	if err := r.db.SelectContext(ctx, &orders, query, normalizeLimit(limit)); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]uint, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	itemQuery, args, err := sqlx.In(`
		SELECT i.order_id, p.category, p.model, i.quantity
		FROM sale_order_item i
		JOIN product p ON p.id = i.product_id
		WHERE i.order_id IN (?)
		ORDER BY i.order_id, i.id`, ids)
	if err != nil {
		return nil, err
	}
	var items []orderItemRow
	if err := r.db.SelectContext(ctx, &items, r.db.Rebind(itemQuery), args...); err != nil {
		return nil, err
	}

	lines := make(map[uint][]string, len(orders))
	for _, it := range items {
		lines[it.OrderID] = append(lines[it.OrderID], itemLine(it))
	}
	for i := range orders {
		orders[i].ItemsSummary = strings.Join(lines[orders[i].ID], itemSummarySeparator)
	}
	return orders, nil
}

func (r *reportRepo) RecentMaintenance(ctx context.Context, limit int) ([]MaintenanceView, error) {
	query := r.db.Rebind(`
		SELECT m.id, m.customer_id, c.name AS customer_name, m.product_id, p.model AS product_model,
		       m.content, m.result, m.created_at
		FROM maintenance m
		JOIN customer c ON c.id = m.customer_id
		LEFT JOIN product p ON p.id = m.product_id
		ORDER BY m.created_at DESC, m.id DESC
		LIMIT ?`)
	rows := []MaintenanceView{}
	if err := r.db.SelectContext(ctx, &rows, query, normalizeLimit(limit)); err != nil {
		return nil, err
	}
	return rows, nil
}

func itemLine(it orderItemRow) string {
	label := (&model.Product{Category: it.Category, Model: it.Model}).Label()
	return label + " x" + strconv.Itoa(it.Quantity)
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 1000 {
		return DefaultListLimit
	}
	return limit
}
