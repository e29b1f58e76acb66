package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"go-inventory-crm/internal/model"
	"go-inventory-crm/internal/repository"
	"go-inventory-crm/internal/ws"
	"go-inventory-crm/pkg/database"
	"go-inventory-crm/pkg/database/dbtest"
	"go-inventory-crm/pkg/jwt"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recorder struct {
	mu     sync.Mutex
	events []ws.Event
}

func (r *recorder) Publish(e ws.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Action
	}
	return out
}

type testEnv struct {
	db          *gorm.DB
	events      *recorder
	products    repository.ProductRepository
	stockIns    repository.StockInRepository
	orders      repository.SaleOrderRepository
	catalog     CatalogService
	inventory   InventoryService
	sales       *salesService
	customers   CustomerService
	maintenance MaintenanceService
	auth        AuthService
	dashboard   DashboardService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvOn(t, dbtest.Open(t))
}

func newTestEnvOn(t *testing.T, db *gorm.DB) *testEnv {
	t.Helper()
	sqlxDB, err := database.SQLX(db)
	require.NoError(t, err)

	events := &recorder{}
	uow := database.NewUnitOfWork(db)
	products := repository.NewProductRepo(db)
	customers := repository.NewCustomerRepo(db)
	stockIns := repository.NewStockInRepo(db)
	orders := repository.NewSaleOrderRepo(db)
	reports := repository.NewReportRepo(sqlxDB)

	return &testEnv{
		db:          db,
		events:      events,
		products:    products,
		stockIns:    stockIns,
		orders:      orders,
		catalog:     NewCatalogService(products, events),
		inventory:   NewInventoryService(uow, products, stockIns, reports, events),
		sales:       NewSalesService(uow, products, customers, orders, reports, events).(*salesService),
		customers:   NewCustomerService(customers, events),
		maintenance: NewMaintenanceService(uow, customers, products, repository.NewMaintenanceRepo(db), reports, events),
		auth:        NewAuthService(repository.NewAdminUserRepo(db), jwt.NewIssuer("test-secret", time.Hour, "crm-test"), "123456"),
		dashboard:   NewDashboardService(repository.NewDashboardRepo(db)),
	}
}

func money(s string) model.Money {
	return model.NewMoney(decimal.RequireFromString(s))
}

func strPtr(s string) *string { return &s }

func (e *testEnv) addProduct(t *testing.T, modelName, price string) *model.Product {
	t.Helper()
	p, err := e.catalog.AddProduct(context.Background(), AddProductInput{Model: modelName, Price: money(price)})
	require.NoError(t, err)
	return p
}

func (e *testEnv) addCustomer(t *testing.T, name string) *model.Customer {
	t.Helper()
	c, err := e.customers.AddCustomer(context.Background(), AddCustomerInput{Name: name})
	require.NoError(t, err)
	return c
}

func (e *testEnv) receive(t *testing.T, productID uint, qty int) {
	t.Helper()
	_, err := e.inventory.ReceiveStock(context.Background(), ReceiveStockInput{ProductID: productID, Quantity: qty})
	require.NoError(t, err)
}

func (e *testEnv) quantity(t *testing.T, productID uint) int {
	t.Helper()
	p, err := e.products.FindByID(context.Background(), productID)
	require.NoError(t, err)
	return p.Quantity
}

// ledgerBalance is received minus sold for the product.
func (e *testEnv) ledgerBalance(t *testing.T, productID uint) int {
	t.Helper()
	ctx := context.Background()
	in, err := e.stockIns.SumByProduct(ctx, productID)
	require.NoError(t, err)
	out, err := e.orders.SumSoldByProduct(ctx, productID)
	require.NoError(t, err)
	return int(in - out)
}

func (e *testEnv) count(t *testing.T, m interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(m).Count(&n).Error)
	return n
}
