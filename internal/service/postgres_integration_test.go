//go:build integration

package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go-inventory-crm/internal/config"
	"go-inventory-crm/internal/model"
	"go-inventory-crm/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupPostgresEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pg, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("crm"),
		postgres.WithUsername("crm"),
		postgres.WithPassword("crm"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pg.Terminate(context.Background()); err != nil {
			t.Logf("terminate postgres: %v", err)
		}
	})

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.Connect(config.DatabaseConfig{
		Driver:   database.DriverPostgres,
		DSN:      dsn,
		LogLevel: "silent",
		Pool:     config.PoolConfig{MaxOpenConns: 16, MaxIdleConns: 4},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.Migrate(db))

	return newTestEnvOn(t, db)
}

func TestPostgresConcurrentSalesNeverOversell(t *testing.T) {
	env := setupPostgresEnv(t)
	ctx := context.Background()
	p := env.addProduct(t, "PG-200", "25")
	const stock, buyers = 5, 20
	env.receive(t, p.ID, stock)
	c := env.addCustomer(t, "Li")

	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		ok, rejected int
		unexpected   []error
	)
	start := make(chan struct{})
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := env.sales.PlaceSale(ctx, PlaceSaleInput{CustomerID: c.ID, ProductID: p.ID, Quantity: 1, UnitPrice: money("25")})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrInsufficientStock):
				rejected++
			default:
				unexpected = append(unexpected, err)
			}
		}()
	}
	close(start)
	wg.Wait()

	require.Empty(t, unexpected)
	assert.Equal(t, stock, ok)
	assert.Equal(t, buyers-stock, rejected)
	assert.Equal(t, 0, env.quantity(t, p.ID))
	assert.Equal(t, 0, env.ledgerBalance(t, p.ID))
	assert.Equal(t, int64(stock), env.count(t, &model.SaleOrder{}))
}

func TestPostgresDuplicateModelRejected(t *testing.T) {
	env := setupPostgresEnv(t)
	env.addProduct(t, "PG-DUP", "1")

	_, err := env.catalog.AddProduct(context.Background(), AddProductInput{Model: "PG-DUP", Price: money("2")})
	assert.ErrorIs(t, err, ErrDuplicateModel)
}

func TestPostgresStockMovementDates(t *testing.T) {
	env := setupPostgresEnv(t)
	p := env.addProduct(t, "PG-MOVE", "3")
	env.receive(t, p.ID, 6)

	series, err := env.dashboard.GetStockMovement(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, series, 3)
	var inbound int64
	for _, day := range series {
		assert.Len(t, day.Date, 10)
		inbound += day.Inbound
	}
	assert.Equal(t, int64(6), inbound)
}
