package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/marketplace-api/internal/container"
	handlers "github.com/oksasatya/marketplace-api/internal/interface/http"
	"github.com/oksasatya/marketplace-api/internal/interface/middleware"
	"github.com/oksasatya/marketplace-api/pkg/helpers"
)

type ProductModule struct {
	Handler *handlers.ProductHandler
	JWT     *helpers.JWTManager
}

func NewProductModule(h *handlers.ProductHandler, jwt *helpers.JWTManager) *ProductModule {
	return &ProductModule{Handler: h, JWT: jwt}
}

func (m *ProductModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	auth := middleware.Auth(m.JWT)
	perUser := middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil)
	uploads := middleware.RateLimit(rdb, 20, time.Minute, middleware.KeyByUserID(), nil)

	rg.GET("/products", m.Handler.List)
	rg.GET("/products/my-products", auth, perUser, m.Handler.Mine)
	rg.GET("/products/:id", m.Handler.Get)
	rg.POST("/products", auth, uploads, m.Handler.Create)
	rg.POST("/products/:id/reviews", auth, perUser, m.Handler.AddReview)

	// Older clients read the seller listing from the auth prefix.
	rg.GET("/auth/my-products", auth, perUser, m.Handler.Mine)
}
