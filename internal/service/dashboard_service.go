package service

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fashionfiesta/helpdesk/internal/domain"
	"github.com/fashionfiesta/helpdesk/internal/repository"
	apperrors "github.com/fashionfiesta/helpdesk/pkg/util/errorutil"
)

const (
	dashboardCacheKey = "helpdesk:dashboard:stats"
	dashboardCacheTTL = 30 * time.Second
)

// DashboardStats is the aggregate snapshot behind the staff dashboard.
type DashboardStats struct {
	TotalUsers            int64            `json:"totalUsers"`
	TotalCustomers        int64            `json:"totalCustomers"`
	TotalStaff            int64            `json:"totalStaff"`
	TotalTickets          int64            `json:"totalTickets"`
	TicketsByStatus       map[string]int64 `json:"ticketsByStatus"`
	TicketsByPriority     map[string]int64 `json:"ticketsByPriority"`
	TicketsByCategory     map[string]int64 `json:"ticketsByCategory"`
	OpenTickets           int64            `json:"openTickets"`
	ResolvedTickets       int64            `json:"resolvedTickets"`
	SatisfactionRate      float64          `json:"satisfactionRate"`
	AvgFirstResponseHours float64          `json:"avgFirstResponseHours"`
	TotalOrders           int64            `json:"totalOrders"`
	OrdersByStatus        map[string]int64 `json:"ordersByStatus"`
	TotalProducts         int64            `json:"totalProducts"`
	OutOfStockProducts    int64            `json:"outOfStockProducts"`
	GeneratedAt           time.Time        `json:"generatedAt"`
}

// DashboardService assembles dashboard statistics from independent aggregate
// queries, fanned out concurrently, with a short redis cache in front so a
// busy dashboard does not hammer the database.
type DashboardService struct {
	stats  repository.StatsRepository
	cache  *redis.Client
	logger *zap.Logger
}

// NewDashboardService builds the service. The cache client may be nil.
func NewDashboardService(stats repository.StatsRepository, cache *redis.Client, logger *zap.Logger) *DashboardService {
	return &DashboardService{stats: stats, cache: cache, logger: logger}
}

// Stats returns the dashboard snapshot, serving a cached copy when one is
// fresh enough.
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	if cached := s.cachedStats(ctx); cached != nil {
		return cached, nil
	}

	stats, err := s.collect(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.storeStats(ctx, stats)
	return stats, nil
}

func (s *DashboardService) collect(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{GeneratedAt: time.Now()}

	var (
		usersByRole         map[string]int64
		avgFirstRespSeconds float64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		usersByRole, err = s.stats.CountUsersByRole(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats.TicketsByStatus, err = s.stats.CountTicketsByStatus(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats.TicketsByPriority, err = s.stats.CountTicketsByPriority(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats.TicketsByCategory, err = s.stats.CountTicketsByCategory(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats.OrdersByStatus, err = s.stats.CountOrdersByStatus(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats.TotalProducts, err = s.stats.CountProducts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats.OutOfStockProducts, err = s.stats.CountOutOfStockProducts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		avgFirstRespSeconds, err = s.stats.AvgFirstResponseSeconds(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for role, count := range usersByRole {
		stats.TotalUsers += count
		switch domain.UserRole(role) {
		case domain.RoleCustomer:
			stats.TotalCustomers += count
		case domain.RoleSupport, domain.RoleAdmin:
			stats.TotalStaff += count
		}
	}

	for _, count := range stats.TicketsByStatus {
		stats.TotalTickets += count
	}
	stats.OpenTickets = stats.TicketsByStatus[string(domain.TicketStatusOpen)] +
		stats.TicketsByStatus[string(domain.TicketStatusInProgress)]
	stats.ResolvedTickets = stats.TicketsByStatus[string(domain.TicketStatusResolved)] +
		stats.TicketsByStatus[string(domain.TicketStatusClosed)]
	if stats.TotalTickets > 0 {
		rate := float64(stats.ResolvedTickets) / float64(stats.TotalTickets) * 100
		stats.SatisfactionRate = math.Round(rate*10) / 10
	}
	stats.AvgFirstResponseHours = math.Round(avgFirstRespSeconds/3600*100) / 100

	for _, count := range stats.OrdersByStatus {
		stats.TotalOrders += count
	}

	return stats, nil
}

func (s *DashboardService) cachedStats(ctx context.Context) *DashboardStats {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, dashboardCacheKey).Bytes()
	if err != nil {
		return nil
	}
	var stats DashboardStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil
	}
	return &stats
}

func (s *DashboardService) storeStats(ctx context.Context, stats *DashboardStats) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, dashboardCacheKey, raw, dashboardCacheTTL).Err(); err != nil {
		s.logger.Debug("dashboard cache write failed", zap.Error(err))
	}
}
