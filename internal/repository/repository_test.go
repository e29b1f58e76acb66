package repository

import (
	"context"
	"testing"
	"time"

	"go-inventory-crm/internal/model"
	"go-inventory-crm/pkg/database"
	"go-inventory-crm/pkg/database/dbtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

func seedProduct(t *testing.T, db *gorm.DB, category *string, modelName string, qty int, price int64) *model.Product {
	t.Helper()
	p := &model.Product{Category: category, Model: modelName, Quantity: qty, Price: model.MoneyFromInt(price)}
	require.NoError(t, db.Create(p).Error)
	return p
}

func seedCustomer(t *testing.T, db *gorm.DB, name string) *model.Customer {
	t.Helper()
	c := &model.Customer{Name: name, Phone: strPtr("13800000000")}
	require.NoError(t, db.Create(c).Error)
	return c
}

func TestProductFindAllOrderingAndFilters(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewProductRepo(db)
	ctx := context.Background()

	seedProduct(t, db, strPtr("Washer"), "XC-200", 0, 10)
	seedProduct(t, db, strPtr("Dryer"), "DR-1", 4, 10)
	seedProduct(t, db, nil, "ZZ-9", 1, 10)
	seedProduct(t, db, strPtr("Washer"), "XC-100", 2, 10)

	all, err := repo.FindAll(ctx, ProductFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"ZZ-9", "DR-1", "XC-100", "XC-200"}, models(all))

	byModel, err := repo.FindAll(ctx, ProductFilter{OrderByModel: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"DR-1", "XC-100", "XC-200", "ZZ-9"}, models(byModel))

	search, err := repo.FindAll(ctx, ProductFilter{ModelContains: "xc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"XC-100", "XC-200"}, models(search))

	sellable, err := repo.FindAll(ctx, ProductFilter{InStockOnly: true, OrderByModel: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"DR-1", "XC-100", "ZZ-9"}, models(sellable))
}

func TestProductFindAllEscapesWildcards(t *testing.T) {
	db := dbtest.Open(t)
	seedProduct(t, db, nil, "A_1", 0, 1)
	seedProduct(t, db, nil, "AB1", 0, 1)

	got, err := NewProductRepo(db).FindAll(context.Background(), ProductFilter{ModelContains: "a_"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A_1"}, models(got))
}

func TestProductStockUpdates(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewProductRepo(db)
	ctx := context.Background()
	p := seedProduct(t, db, nil, "XC-100", 0, 10)

	n, err := repo.IncreaseStock(db, p.ID, 5)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = repo.DecreaseStockIfAvailable(db, p.ID, 6)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	n, err = repo.DecreaseStockIfAvailable(db, p.ID, 5)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = repo.IncreaseStock(db, 9999, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	got, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Quantity)

	_, err = repo.FindByID(ctx, 9999)
	assert.True(t, database.IsNotFound(err))
}

func TestCustomerOrdering(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewCustomerRepo(db)
	ctx := context.Background()
	seedCustomer(t, db, "Zhang")
	seedCustomer(t, db, "Li")

	newest, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, newest, 2)
	assert.Equal(t, "Li", newest[0].Name)

	byName, err := repo.FindAllByName(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Li", byName[0].Name)
	assert.Equal(t, "Zhang", byName[1].Name)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestSaleOrderCreateAndFind(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewSaleOrderRepo(db)
	ctx := context.Background()
	c := seedCustomer(t, db, "Zhang")
	p := seedProduct(t, db, nil, "XC-100", 3, 2000)

	order := &model.SaleOrder{
		OrderNo:     "SO20260101000000000123456",
		CustomerID:  c.ID,
		TotalAmount: model.MoneyFromInt(6000),
		Items:       []model.SaleOrderItem{{ProductID: p.ID, Quantity: 3, UnitPrice: model.MoneyFromInt(2000)}},
	}
	require.NoError(t, repo.Create(ctx, order))

	got, err := repo.FindByOrderNo(ctx, order.OrderNo)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "6000.00", got.TotalAmount.String())
	assert.Equal(t, "2000.00", got.Items[0].UnitPrice.String())

	sold, err := repo.SumSoldByProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, sold)

	dup := &model.SaleOrder{OrderNo: order.OrderNo, CustomerID: c.ID}
	assert.True(t, database.IsUniqueViolation(repo.Create(ctx, dup)))
}

func TestReportRecentLists(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	c := seedCustomer(t, db, "Zhang")
	washer := seedProduct(t, db, strPtr("Washer"), "XC-100", 0, 2000)
	plain := seedProduct(t, db, nil, "ZZ-9", 0, 10)

	require.NoError(t, NewStockInRepo(db).Create(ctx, &model.StockIn{ProductID: washer.ID, Quantity: 5, CostPrice: model.MoneyFromInt(1500), Note: strPtr("first batch")}))
	require.NoError(t, NewSaleOrderRepo(db).Create(ctx, &model.SaleOrder{
		OrderNo:    "SO1",
		CustomerID: c.ID,
		Items: []model.SaleOrderItem{
			{ProductID: washer.ID, Quantity: 3},
			{ProductID: plain.ID, Quantity: 1},
		},
	}))
	require.NoError(t, NewMaintenanceRepo(db).Create(ctx, &model.Maintenance{CustomerID: c.ID, Content: strPtr("noise")}))
	require.NoError(t, NewMaintenanceRepo(db).Create(ctx, &model.Maintenance{CustomerID: c.ID, ProductID: &washer.ID, Result: strPtr("fixed")}))

	sqlxDB, err := database.SQLX(db)
	require.NoError(t, err)
	reports := NewReportRepo(sqlxDB)

	stockIns, err := reports.RecentStockIns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, stockIns, 1)
	assert.Equal(t, "XC-100", stockIns[0].ProductModel)
	assert.Equal(t, "1500.00", stockIns[0].CostPrice.String())
	assert.Equal(t, "2000.00", stockIns[0].ProductPrice.String())

	orders, err := reports.RecentOrders(ctx, 10)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "Zhang", orders[0].CustomerName)
	assert.Equal(t, "Washer - XC-100 x3；ZZ-9 x1", orders[0].ItemsSummary)

	logs, err := reports.RecentMaintenance(ctx, 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	require.NotNil(t, logs[0].ProductModel)
	assert.Equal(t, "XC-100", *logs[0].ProductModel)
	assert.Nil(t, logs[1].ProductModel)
	assert.Equal(t, "Zhang", logs[1].CustomerName)
}

func TestDashboardStatsAndMovement(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	c := seedCustomer(t, db, "Zhang")
	p := seedProduct(t, db, nil, "XC-100", 2, 2000)
	seedProduct(t, db, nil, "BIG", 20, 1)

	require.NoError(t, NewStockInRepo(db).Create(ctx, &model.StockIn{ProductID: p.ID, Quantity: 5}))
	require.NoError(t, NewSaleOrderRepo(db).Create(ctx, &model.SaleOrder{
		OrderNo: "SO1", CustomerID: c.ID,
		Items: []model.SaleOrderItem{{ProductID: p.ID, Quantity: 3}},
	}))

	repo := NewDashboardRepo(db)
	stats, err := repo.GetDashboardStats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalProducts)
	assert.EqualValues(t, 1, stats.TotalCustomers)
	assert.EqualValues(t, 1, stats.TotalOrders)
	assert.EqualValues(t, 1, stats.LowStockCount)
	assert.EqualValues(t, 22, stats.TotalUnits)
	assert.Equal(t, "4020.00", stats.TotalValuation.String())

	now := time.Now()
	series, err := repo.GetStockMovement(ctx, now.AddDate(0, 0, -6), now)
	require.NoError(t, err)
	require.Len(t, series, 7)
	assert.Equal(t, now.Format("2006-01-02"), series[6].Date)

	var in, out int64
	for _, d := range series {
		in += d.Inbound
		out += d.Outbound
	}
	assert.EqualValues(t, 5, in)
	assert.EqualValues(t, 3, out)
}

func TestStockMovementUsesCallerCalendarDays(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	cst := time.FixedZone("CST", 8*60*60)
	at := func(day, hour, minute int) time.Time { return time.Date(2026, 10, day, hour, minute, 0, 0, cst) }

	c := seedCustomer(t, db, "Zhang")
	p := seedProduct(t, db, nil, "XC-100", 0, 2000)
	stockIns := NewStockInRepo(db)
	receipt := func(qty int, when time.Time) {
		in := &model.StockIn{ProductID: p.ID, Quantity: qty}
		in.CreatedAt = when
		require.NoError(t, stockIns.Create(ctx, in))
	}
	receipt(9, at(15, 23, 0))
	receipt(5, at(16, 3, 0))
	receipt(4, at(17, 0, 30))

	order := &model.SaleOrder{OrderNo: "SO1", CustomerID: c.ID, Items: []model.SaleOrderItem{{ProductID: p.ID, Quantity: 2}}}
	order.CreatedAt = at(16, 23, 30)
	require.NoError(t, NewSaleOrderRepo(db).Create(ctx, order))

	series, err := NewDashboardRepo(db).GetStockMovement(ctx, at(16, 0, 0), at(16, 23, 59))
	require.NoError(t, err)
	assert.Equal(t, []StockMovementData{{Date: "2026-10-16", Inbound: 5, Outbound: 2}}, series)

	series, err = NewDashboardRepo(db).GetStockMovement(ctx, at(15, 12, 0), at(17, 12, 0))
	require.NoError(t, err)
	assert.Equal(t, []StockMovementData{
		{Date: "2026-10-15", Inbound: 9},
		{Date: "2026-10-16", Inbound: 5, Outbound: 2},
		{Date: "2026-10-17", Inbound: 4},
	}, series)
}

func models(products []model.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Model
	}
	return out
}
