package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/marketplace-api/internal/application"
	"github.com/oksasatya/marketplace-api/internal/infrastructure/paystack"
	"github.com/oksasatya/marketplace-api/pkg/helpers"
	"github.com/oksasatya/marketplace-api/pkg/response"
)

const maxWebhookBody = 64 << 10

type PaymentHandler struct {
	Orders   *application.OrderService
	Paystack *paystack.Client
	Logger   *logrus.Logger
}

func NewPaymentHandler(orders *application.OrderService, client *paystack.Client, logger *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{Orders: orders, Paystack: client, Logger: logger}
}

// PaystackWebhook verifies the signature over the raw body before decoding.
func (h *PaymentHandler) PaystackWebhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "Unreadable body", nil)
		return
	}

	ev, err := h.Paystack.ParseEvent(body, c.GetHeader(paystack.SignatureHeader))
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, paystack.ErrBadSignature) {
			status = http.StatusUnauthorized
		}
		helpers.LogError(h.Logger, "paystack webhook rejected", err, logrus.Fields{"request_id": c.GetString("request_id")})
		response.Error[any](c, status, "Invalid webhook", nil)
		return
	}

	if err := h.Orders.HandlePaymentEvent(c.Request.Context(), ev); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"received": true}, "", nil)
}
