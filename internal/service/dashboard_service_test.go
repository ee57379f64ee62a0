package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fashionfiesta/helpdesk/internal/domain"
	"github.com/fashionfiesta/helpdesk/internal/repository"
)

func TestDashboardStatsAggregation(t *testing.T) {
	store := repository.NewMemoryStore()
	ctx := context.Background()

	customer := &domain.User{Name: "Laila", Email: "laila@example.com", Role: domain.RoleCustomer}
	require.NoError(t, store.Users().Create(ctx, customer))
	agent := &domain.User{Name: "Sara", Email: "sara@fashionfiesta.com", Role: domain.RoleSupport}
	require.NoError(t, store.Users().Create(ctx, agent))
	admin := &domain.User{Name: "Dina", Email: "dina@fashionfiesta.com", Role: domain.RoleAdmin}
	require.NoError(t, store.Users().Create(ctx, admin))

	tickets := []struct {
		status   domain.TicketStatus
		priority domain.TicketPriority
	}{
		{domain.TicketStatusOpen, domain.TicketPriorityHigh},
		{domain.TicketStatusInProgress, domain.TicketPriorityMedium},
		{domain.TicketStatusResolved, domain.TicketPriorityLow},
		{domain.TicketStatusClosed, domain.TicketPriorityUrgent},
	}
	for _, tc := range tickets {
		ticket := &domain.Ticket{
			CustomerID: customer.ID,
			Subject:    "s",
			Message:    "m",
			Category:   domain.CategoryGeneral,
			Priority:   tc.priority,
			Status:     tc.status,
		}
		require.NoError(t, store.Tickets().Create(ctx, ticket))
		ticket.Status = tc.status
		require.NoError(t, store.Tickets().Update(ctx, ticket))
	}

	store.SeedOrder(domain.Order{CustomerID: customer.ID, Status: domain.OrderStatusDelivered, Total: 120})
	store.SeedOrder(domain.Order{CustomerID: customer.ID, Status: domain.OrderStatusPending, Total: 40})
	store.SeedProduct(domain.Product{Name: "Linen Shirt", Price: 35, Stock: 12})
	store.SeedProduct(domain.Product{Name: "Denim Jacket", Price: 80, Stock: 0})

	svc := NewDashboardService(store.Stats(), nil, zap.NewNop())
	stats, err := svc.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.TotalCustomers)
	assert.Equal(t, int64(2), stats.TotalStaff)

	assert.Equal(t, int64(4), stats.TotalTickets)
	assert.Equal(t, int64(2), stats.OpenTickets)
	assert.Equal(t, int64(2), stats.ResolvedTickets)
	assert.InDelta(t, 50.0, stats.SatisfactionRate, 0.01)
	assert.Equal(t, int64(1), stats.TicketsByPriority[string(domain.TicketPriorityUrgent)])

	assert.Equal(t, int64(2), stats.TotalOrders)
	assert.Equal(t, int64(1), stats.OrdersByStatus[string(domain.OrderStatusDelivered)])
	assert.Equal(t, int64(2), stats.TotalProducts)
	assert.Equal(t, int64(1), stats.OutOfStockProducts)
	assert.WithinDuration(t, time.Now(), stats.GeneratedAt, time.Minute)
}

func TestDashboardStatsEmptyStore(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewDashboardService(store.Stats(), nil, zap.NewNop())

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalTickets)
	assert.Zero(t, stats.SatisfactionRate)
	assert.Zero(t, stats.AvgFirstResponseHours)
}
