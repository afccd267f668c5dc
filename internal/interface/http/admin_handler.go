package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/marketplace-api/internal/application"
	"github.com/oksasatya/marketplace-api/pkg/response"
)

type AdminHandler struct {
	Products *application.ProductService
	Stats    *application.DashboardService
	Logger   *logrus.Logger
}

func NewAdminHandler(products *application.ProductService, dashboard *application.DashboardService, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{Products: products, Stats: dashboard, Logger: logger}
}

type rejectRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

func (h *AdminHandler) Pending(c *gin.Context) {
	page, err := h.Products.ListPending(c.Request.Context(), pageFrom(c))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, productPage(page), "", nil)
}

func (h *AdminHandler) Approve(c *gin.Context) {
	p, err := h.Products.Approve(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	h.Stats.Invalidate(c.Request.Context())
	response.Success(c, http.StatusOK, gin.H{"product": p}, "Product approved successfully", nil)
}

// Reject accepts an optional JSON body with a reason.
func (h *AdminHandler) Reject(c *gin.Context) {
	var req rejectRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
	}
	p, err := h.Products.Reject(c.Request.Context(), userID(c), c.Param("id"), req.Reason)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	h.Stats.Invalidate(c.Request.Context())
	response.Success(c, http.StatusOK, gin.H{"product": p}, "Product rejected", nil)
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	st, err := h.Stats.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"stats": st}, "", nil)
}
