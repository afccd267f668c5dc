package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/marketplace-api/internal/application"
	"github.com/oksasatya/marketplace-api/internal/domain/entity"
	repo "github.com/oksasatya/marketplace-api/internal/domain/repository"
	"github.com/oksasatya/marketplace-api/internal/infrastructure/paystack"
	"github.com/oksasatya/marketplace-api/pkg/helpers"
	"github.com/oksasatya/marketplace-api/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

type envelope struct {
	Status  int               `json:"status"`
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    map[string]any    `json:"data"`
	Error   map[string]string `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestRespondError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{application.ErrEmailTaken, http.StatusBadRequest, "User already exists with this email"},
		{application.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
		{application.ErrAdminAccessDenied, http.StatusUnauthorized, "Admin access denied"},
		{fmt.Errorf("wrap: %w", application.ErrProductNotFound), http.StatusNotFound, "Product not found"},
		{&application.Failure{Kind: application.ErrInsufficientStock, Msg: "Insufficient stock for Rice"}, http.StatusBadRequest, "Insufficient stock for Rice"},
		{&application.Failure{Kind: application.ErrForbidden, Msg: "Only sellers can create products"}, http.StatusForbidden, "Only sellers can create products"},
		{errors.New("pool exhausted"), http.StatusInternalServerError, "Server error"},
	}
	for _, tc := range cases {
		t.Run(tc.msg, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			respondError(c, helpers.NewDiscardLogger(), tc.err)

			assert.Equal(t, tc.status, w.Code)
			env := decode(t, w)
			assert.False(t, env.Success)
			assert.Equal(t, tc.msg, env.Message)
			assert.NotContains(t, w.Body.String(), "pool exhausted")
		})
	}
}

func TestPageFrom(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?page=2&limit=abc", nil)
	assert.Equal(t, entity.PageRequest{Page: 2, Limit: 0}, pageFrom(c))
}

func TestHealth(t *testing.T) {
	r := gin.New()
	r.GET("/api/health", NewHealthHandler("marketplace-api").Health)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "OK", body["status"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestRegister_ValidationDetails(t *testing.T) {
	h := NewAuthHandler(nil, helpers.NewDiscardLogger(), "localhost", false)
	r := gin.New()
	r.POST("/register", h.Register)

	body := `{"name":"Ada","email":"bad","password":"123","phone":"555","role":"admin"}`
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w)
	assert.Equal(t, "Validation failed", env.Message)
	assert.Equal(t, "must be a valid email", env.Error["email"])
	assert.Equal(t, "must be a valid Nigerian phone number", env.Error["phone"])
	assert.Contains(t, env.Error, "password")
	assert.Contains(t, env.Error, "role")
}

// noOrders is an order store that knows no orders.
type noOrders struct{}

func (noOrders) Place(context.Context, []string, repo.BuildOrderFunc) (*entity.Order, error) {
	return nil, repo.ErrNotFound
}
func (noOrders) ListByBuyer(context.Context, string) ([]entity.Order, error) { return nil, nil }
func (noOrders) GetByNumber(context.Context, string) (*entity.Order, error) {
	return nil, repo.ErrNotFound
}
func (noOrders) UpdatePayment(context.Context, string, entity.PaymentStatus, entity.OrderStatus, string) (bool, error) {
	return false, repo.ErrNotFound
}
func (noOrders) Count(context.Context, entity.OrderStatus) (int64, error) { return 0, nil }

func TestPaystackWebhook(t *testing.T) {
	client := paystack.NewClient("sk_test", "", 0)
	logger := helpers.NewDiscardLogger()
	orders := application.NewOrderService(noOrders{}, nil, nil, nil, logger, "")
	h := NewPaymentHandler(orders, client, logger)

	r := gin.New()
	r.POST("/webhook", h.PaystackWebhook)
	body := `{"event":"charge.success","data":{"reference":"ORD-20250301-deadbeef","amount":100}}`

	send := func(sig string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
		req.Header.Set(paystack.SignatureHeader, sig)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusUnauthorized, send("deadbeef").Code)
	assert.Equal(t, http.StatusUnauthorized, send("").Code)

	// unknown references are acknowledged so the gateway stops retrying
	w := send(client.Sign([]byte(body)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w).Data["received"])
}
