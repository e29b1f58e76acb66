package service

import (
	"context"
	"testing"
	"time"

	"go-inventory-crm/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDashboardRepo struct {
	start, end time.Time
}

func (f *fakeDashboardRepo) GetStockMovement(_ context.Context, start, end time.Time) ([]repository.StockMovementData, error) {
	f.start, f.end = start, end
	return nil, nil
}

func (f *fakeDashboardRepo) GetDashboardStats(context.Context) (*repository.DashboardStats, error) {
	return &repository.DashboardStats{}, nil
}

func TestGetStockMovementWindow(t *testing.T) {
	repo := &fakeDashboardRepo{}
	svc := &dashboardService{repo: repo, now: func() time.Time {
		return time.Date(2026, 10, 16, 15, 30, 0, 0, time.UTC)
	}}

	for _, tc := range []struct {
		days      int
		wantStart time.Time
	}{
		{7, time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC)},
		{0, time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC)},
		{1, time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)},
		{10000, time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC)},
	} {
		_, err := svc.GetStockMovement(context.Background(), tc.days)
		require.NoError(t, err)
		assert.Equal(t, tc.wantStart, repo.start, "days=%d", tc.days)
		assert.Equal(t, 15, repo.end.Hour())
	}
}

func TestDashboardStatsFromLedger(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.addProduct(t, "XC-100", "2000")
	env.receive(t, p.ID, 5)
	c := env.addCustomer(t, "Zhang")
	_, err := env.sales.PlaceSale(ctx, PlaceSaleInput{CustomerID: c.ID, ProductID: p.ID, Quantity: 3, UnitPrice: money("2000")})
	require.NoError(t, err)

	stats, err := env.dashboard.GetDashboardStats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalProducts)
	assert.EqualValues(t, 1, stats.TotalCustomers)
	assert.EqualValues(t, 1, stats.TotalOrders)
	assert.Equal(t, "4000.00", stats.TotalValuation.String())

	series, err := env.dashboard.GetStockMovement(ctx, 3)
	require.NoError(t, err)
	var in, out int64
	for _, d := range series {
		in += d.Inbound
		out += d.Outbound
	}
	assert.EqualValues(t, 5, in)
	assert.EqualValues(t, 3, out)
}
