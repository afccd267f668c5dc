package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/marketplace-api/internal/container"
	handlers "github.com/oksasatya/marketplace-api/internal/interface/http"
	"github.com/oksasatya/marketplace-api/internal/interface/middleware"
	"github.com/oksasatya/marketplace-api/pkg/helpers"
)

// AdminModule wires the admin login and moderation routes. Everything but
// login requires an admin token.
type AdminModule struct {
	Handler *handlers.AdminHandler
	Auth    *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAdminModule(h *handlers.AdminHandler, auth *handlers.AuthHandler, jwt *helpers.JWTManager) *AdminModule {
	return &AdminModule{Handler: h, Auth: auth, JWT: jwt}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	rg.POST("/admin/login", middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByIPAndPath(), nil), m.Auth.AdminLogin)

	admin := rg.Group("/admin")
	admin.Use(middleware.AdminOnly(m.JWT))
	admin.Use(middleware.RateLimit(rdb, 300, time.Minute, middleware.KeyByUserID(), nil))
	{
		admin.GET("/products/pending", m.Handler.Pending)
		admin.PUT("/products/:id/approve", m.Handler.Approve)
		admin.PUT("/products/:id/reject", m.Handler.Reject)
		admin.GET("/dashboard", m.Handler.Dashboard)
	}
}
