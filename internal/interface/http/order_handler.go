package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/marketplace-api/internal/application"
	"github.com/oksasatya/marketplace-api/internal/domain/entity"
	"github.com/oksasatya/marketplace-api/pkg/response"
)

type OrderHandler struct {
	Svc    *application.OrderService
	Logger *logrus.Logger
}

func NewOrderHandler(svc *application.OrderService, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{Svc: svc, Logger: logger}
}

type orderItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type shippingRequest struct {
	Street  string `json:"street" binding:"required"`
	City    string `json:"city" binding:"required"`
	State   string `json:"state" binding:"required"`
	Country string `json:"country"`
	Phone   string `json:"phone" binding:"omitempty,ngmobile"`
}

type createOrderRequest struct {
	Items           []orderItemRequest `json:"items" binding:"required,min=1,dive"`
	ShippingAddress shippingRequest    `json:"shippingAddress" binding:"required"`
	PaymentMethod   string             `json:"paymentMethod" binding:"required,paymethod"`
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	in := application.PlaceOrderInput{
		ShippingAddress: entity.ShippingAddress{
			Street:  req.ShippingAddress.Street,
			City:    req.ShippingAddress.City,
			State:   req.ShippingAddress.State,
			Country: req.ShippingAddress.Country,
			Phone:   req.ShippingAddress.Phone,
		},
		PaymentMethod: entity.PaymentMethod(req.PaymentMethod),
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, application.OrderLineInput{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	res, err := h.Svc.Place(c.Request.Context(), userID(c), in)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}

	data := gin.H{"order": res.Order}
	if res.PaymentURL != "" {
		data["paymentUrl"] = res.PaymentURL
	}
	var meta any
	if res.PaymentError != "" {
		meta = gin.H{"payment_error": res.PaymentError}
	}
	response.Success(c, http.StatusCreated, data, "Order created successfully", meta)
}

func (h *OrderHandler) Mine(c *gin.Context) {
	orders, err := h.Svc.ListMine(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"orders": orders}, "", nil)
}
