package repository

import (
	"context"
	"time"

	"go-inventory-crm/internal/model"

	"gorm.io/gorm"
)

// LowStockThreshold marks products that should be reordered.
const LowStockThreshold = 10

type DashboardRepository interface {
	GetStockMovement(ctx context.Context, startDate, endDate time.Time) ([]StockMovementData, error)
	GetDashboardStats(ctx context.Context) (*DashboardStats, error)
}

// StockMovementData is one day of the inbound/outbound chart.
type StockMovementData struct {
	Date     string `json:"date"`
	Inbound  int64  `json:"inbound"`
	Outbound int64  `json:"outbound"`
}

// DashboardStats is the overview card data.
type DashboardStats struct {
	TotalProducts  int64       `json:"total_products"`
	TotalCustomers int64       `json:"total_customers"`
	TotalOrders    int64       `json:"total_orders"`
	LowStockCount  int64       `json:"low_stock_count"`
	TotalUnits     int64       `json:"total_units"`
	TotalValuation model.Money `json:"total_valuation"`
}

type dashboardRepo struct {
	db        *gorm.DB
	products  ProductRepository
	customers CustomerRepository
	orders    SaleOrderRepository
}

func NewDashboardRepo(db *gorm.DB) DashboardRepository {
	return &dashboardRepo{
		db:        db,
		products:  NewProductRepo(db),
		customers: NewCustomerRepo(db),
		orders:    NewSaleOrderRepo(db),
	}
}

type movementRow struct {
	CreatedAt time.Time
	Quantity  int64
}

// GetStockMovement returns one row per day in [startDate, endDate], zero-filled.
// Days are calendar days in startDate's location, whatever zone the rows were stored in.
func (r *dashboardRepo) GetStockMovement(ctx context.Context, startDate, endDate time.Time) ([]StockMovementData, error) {
	db := r.db.WithContext(ctx)
	loc := startDate.Location()
	from := truncateDay(startDate)
	// widened by a day each side; stored offsets may differ from loc
	lo, hi := from.AddDate(0, 0, -1), endDate.AddDate(0, 0, 1)

	var inbound []movementRow
	err := db.Model(&model.StockIn{}).
		Select("created_at, quantity").
		Where("created_at BETWEEN ? AND ?", lo, hi).
		Scan(&inbound).Error
	if err != nil {
		return nil, err
	}

	var outbound []movementRow
	err = db.Table("sale_order_item AS i").
		Joins("JOIN sale_order AS o ON o.id = i.order_id").
		Select("o.created_at AS created_at, i.quantity AS quantity").
		Where("o.created_at BETWEEN ? AND ?", lo, hi).
		Scan(&outbound).Error
	if err != nil {
		return nil, err
	}

	var days []*StockMovementData
	byDay := make(map[string]*StockMovementData)
	for d := from; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		day := &StockMovementData{Date: key}
		byDay[key] = day
		days = append(days, day)
	}
	inWindow := func(t time.Time) (*StockMovementData, bool) {
		if t.Before(from) || t.After(endDate) {
			return nil, false
		}
		day, ok := byDay[t.In(loc).Format("2006-01-02")]
		return day, ok
	}
	for _, row := range inbound {
		if day, ok := inWindow(row.CreatedAt); ok {
			day.Inbound += row.Quantity
		}
	}
	for _, row := range outbound {
		if day, ok := inWindow(row.CreatedAt); ok {
			day.Outbound += row.Quantity
		}
	}

	results := make([]StockMovementData, len(days))
	for i, d := range days {
		results[i] = *d
	}
	return results, nil
}

func (r *dashboardRepo) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	db := r.db.WithContext(ctx)

	var err error
	if stats.TotalProducts, err = r.products.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalCustomers, err = r.customers.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalOrders, err = r.orders.Count(ctx); err != nil {
		return nil, err
	}
	if err := db.Model(&model.Product{}).Where("quantity < ?", LowStockThreshold).Count(&stats.LowStockCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Product{}).Select("COALESCE(SUM(quantity), 0)").Scan(&stats.TotalUnits).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Product{}).Select("COALESCE(SUM(quantity * price), 0)").Row().Scan(&stats.TotalValuation); err != nil {
		return nil, err
	}
	return &stats, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
