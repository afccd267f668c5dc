package application

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/oksasatya/marketplace-api/internal/domain/entity"
	repo "github.com/oksasatya/marketplace-api/internal/domain/repository"
	"github.com/oksasatya/marketplace-api/pkg/helpers"
)

const (
	dashboardCacheKey = "admin:dashboard:stats"
	DashboardCacheTTL = 30 * time.Second
)

type DashboardService struct {
	Users    repo.UserRepository
	Products repo.ProductRepository
	Orders   repo.OrderRepository
	Cache    redis.Cmdable
	TTL      time.Duration
	Logger   *logrus.Logger
}

func NewDashboardService(users repo.UserRepository, products repo.ProductRepository, orders repo.OrderRepository, cache redis.Cmdable, logger *logrus.Logger) *DashboardService {
	return &DashboardService{Users: users, Products: products, Orders: orders, Cache: cache, TTL: DashboardCacheTTL, Logger: logger}
}

// Stats returns platform counts, served from cache when fresh.
func (s *DashboardService) Stats(ctx context.Context) (*entity.DashboardStats, error) {
	if s.Cache != nil {
		var cached entity.DashboardStats
		ok, err := helpers.RedisGetJSON(ctx, s.Cache, dashboardCacheKey, &cached)
		if err != nil {
			helpers.LogError(s.Logger, "dashboard cache read failed", err, nil)
		} else if ok {
			return &cached, nil
		}
	}

	var st entity.DashboardStats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		st.TotalUsers, err = s.Users.CountExcludingRole(gctx, entity.RoleAdmin)
		return err
	})
	g.Go(func() (err error) {
		st.TotalProducts, err = s.Products.Count(gctx, repo.ProductFilter{})
		return err
	})
	g.Go(func() (err error) {
		st.PendingProducts, err = s.Products.Count(gctx, repo.ProductFilter{Status: entity.StatusPending})
		return err
	})
	g.Go(func() (err error) {
		st.TotalOrders, err = s.Orders.Count(gctx, "")
		return err
	})
	g.Go(func() (err error) {
		st.PendingOrders, err = s.Orders.Count(gctx, entity.OrderPending)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}

	if s.Cache != nil {
		if err := helpers.RedisSetJSON(ctx, s.Cache, dashboardCacheKey, st, s.TTL); err != nil {
			helpers.LogError(s.Logger, "dashboard cache write failed", err, nil)
		}
	}
	return &st, nil
}

// Invalidate drops the cached stats so the next read recounts.
func (s *DashboardService) Invalidate(ctx context.Context) {
	if s == nil || s.Cache == nil {
		return
	}
	if err := helpers.RedisDel(ctx, s.Cache, dashboardCacheKey); err != nil {
		helpers.LogError(s.Logger, "dashboard cache invalidate failed", err, nil)
	}
}
