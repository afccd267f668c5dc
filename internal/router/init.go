package router

import (
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/marketplace-api/internal/application"
	"github.com/oksasatya/marketplace-api/internal/container"
	pginfra "github.com/oksasatya/marketplace-api/internal/infrastructure/postgres"
	handlers "github.com/oksasatya/marketplace-api/internal/interface/http"
	"github.com/oksasatya/marketplace-api/internal/router/modules"
)

type Deps struct {
	Users     *application.UserService
	Products  *application.ProductService
	Orders    *application.OrderService
	Dashboard *application.DashboardService
}

func buildDeps() Deps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	users := pginfra.NewUserRepository(pool)
	products := pginfra.NewProductRepository(pool)
	orders := pginfra.NewOrderRepository(pool)

	notify := application.NewNotifier(container.GetJobs(), cfg.AppName, logger)

	var payments application.PaymentGateway
	if p := container.GetPaystack(); p != nil {
		payments = p
	}

	var cache redis.Cmdable
	if r := container.GetRedis(); r != nil {
		cache = r
	}

	return Deps{
		Users:     application.NewUserService(users, container.GetJWT(), logger),
		Products:  application.NewProductService(products, users, container.GetImages(), notify, logger),
		Orders:    application.NewOrderService(orders, users, payments, notify, logger, cfg.PaymentCallbackURL()),
		Dashboard: application.NewDashboardService(users, products, orders, cache, logger),
	}
}

// InitModules initializes all application modules and registers them with the router registry.
// Call once during startup, after the container is populated.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	jwt := container.GetJWT()
	d := buildDeps()

	r.Add(modules.NewHealthModule(handlers.NewHealthHandler(cfg.AppName)))
	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(d.Users, logger, cfg.CookieDomain, cfg.CookieSecure), jwt))
	r.Add(modules.NewProductModule(handlers.NewProductHandler(d.Products, logger, cfg.MaxUploadBytes), jwt))
	r.Add(modules.NewOrderModule(handlers.NewOrderHandler(d.Orders, logger), jwt))
	r.Add(modules.NewAdminModule(
		handlers.NewAdminHandler(d.Products, d.Dashboard, logger),
		handlers.NewAuthHandler(d.Users, logger, cfg.CookieDomain, cfg.CookieSecure),
		jwt,
	))
	if p := container.GetPaystack(); p != nil {
		r.Add(modules.NewPaymentModule(handlers.NewPaymentHandler(d.Orders, p, logger)))
	}
	if cfg.MetricsEnabled {
		r.Add(modules.NewMetricsModule())
	}
}
