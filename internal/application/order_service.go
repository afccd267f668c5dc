package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/marketplace-api/internal/domain/entity"
	repo "github.com/oksasatya/marketplace-api/internal/domain/repository"
	"github.com/oksasatya/marketplace-api/internal/infrastructure/paystack"
	"github.com/oksasatya/marketplace-api/pkg/helpers"
	"github.com/oksasatya/marketplace-api/pkg/metrics"
)

// PaymentInitFailed is the client-facing note attached when checkout could not be started.
const PaymentInitFailed = "Payment initialization failed"

type OrderService struct {
	Repo        repo.OrderRepository
	Users       repo.UserRepository
	Payments    PaymentGateway
	Notify      *Notifier
	Logger      *logrus.Logger
	CallbackURL string

	now func() time.Time
}

func NewOrderService(orders repo.OrderRepository, users repo.UserRepository, payments PaymentGateway, notify *Notifier, logger *logrus.Logger, callbackURL string) *OrderService {
	return &OrderService{Repo: orders, Users: users, Payments: payments, Notify: notify, Logger: logger, CallbackURL: callbackURL, now: time.Now}
}

func (s *OrderService) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

type OrderLineInput struct {
	ProductID string
	Quantity  int
}

type PlaceOrderInput struct {
	Items           []OrderLineInput
	ShippingAddress entity.ShippingAddress
	PaymentMethod   entity.PaymentMethod
}

func (in PlaceOrderInput) validate() error {
	if len(in.Items) == 0 {
		return fail(ErrInvalidInput, "Order must contain at least one item")
	}
	for _, it := range in.Items {
		if strings.TrimSpace(it.ProductID) == "" {
			return fail(ErrInvalidInput, "Product id is required")
		}
		if it.Quantity < 1 {
			return fail(ErrInvalidInput, "Quantity must be at least 1")
		}
	}
	a := in.ShippingAddress
	if strings.TrimSpace(a.Street) == "" || strings.TrimSpace(a.City) == "" || strings.TrimSpace(a.State) == "" {
		return fail(ErrInvalidInput, "Shipping street, city and state are required")
	}
	if !in.PaymentMethod.Valid() {
		return fail(ErrInvalidInput, "Invalid payment method")
	}
	return nil
}

// canonicalID normalizes a UUID so it matches keys returned by the store.
func canonicalID(id string) string {
	if u, err := uuid.Parse(strings.TrimSpace(id)); err == nil {
		return u.String()
	}
	return id
}

// BuildOrder validates the requested lines against the locked products and
// assembles the order. It does not touch storage.
func BuildOrder(buyerID string, in PlaceOrderInput, products map[string]*entity.Product, now time.Time) (*entity.Order, error) {
	requested := make(map[string]int, len(in.Items))
	items := make([]entity.OrderItem, 0, len(in.Items))

	for _, line := range in.Items {
		p, ok := products[canonicalID(line.ProductID)]
		if !ok {
			return nil, fail(ErrProductNotFound, "Product %s not found", line.ProductID)
		}
		if !p.Purchasable() {
			return nil, fail(ErrProductUnavailable, "Product %s is not available", p.Name)
		}
		requested[p.ID] += line.Quantity
		if requested[p.ID] > p.Stock {
			return nil, fail(ErrInsufficientStock, "Insufficient stock for %s", p.Name)
		}
		items = append(items, entity.OrderItem{
			ProductID:     p.ID,
			ProductName:   p.Name,
			ProductImages: p.Images,
			Quantity:      line.Quantity,
			Price:         p.Price,
			SellerID:      p.SellerID,
		})
	}

	addr := in.ShippingAddress
	if addr.Country == "" {
		addr.Country = entity.DefaultCountry
	}
	return &entity.Order{
		OrderNumber:     entity.NewOrderNumber(now),
		BuyerID:         buyerID,
		Items:           items,
		TotalAmount:     entity.ComputeTotal(items),
		ShippingAddress: addr,
		PaymentMethod:   in.PaymentMethod,
		PaymentStatus:   entity.PaymentStatusPending,
		OrderStatus:     entity.OrderPending,
	}, nil
}

type PlaceOrderResult struct {
	Order      *entity.Order
	PaymentURL string
	// PaymentError is set when the order was stored but checkout could not start.
	PaymentError string
}

// Place validates, reserves stock and stores the order atomically, then
// starts gateway checkout for paystack orders.
func (s *OrderService) Place(ctx context.Context, buyerID string, in PlaceOrderInput) (*PlaceOrderResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	buyer, err := s.Users.GetByID(ctx, buyerID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	ids := make([]string, 0, len(in.Items))
	for _, it := range in.Items {
		ids = append(ids, it.ProductID)
	}

	now := s.clock()
	o, err := s.Repo.Place(ctx, ids, func(products map[string]*entity.Product) (*entity.Order, error) {
		return BuildOrder(buyer.ID, in, products, now)
	})
	if err != nil {
		method := string(in.PaymentMethod)
		if errors.Is(err, repo.ErrStockConflict) {
			metrics.OrdersPlaced.WithLabelValues(method, "rejected").Inc()
			return nil, fail(ErrInsufficientStock, "Insufficient stock")
		}
		var f *Failure
		if errors.As(err, &f) {
			metrics.OrdersPlaced.WithLabelValues(method, "rejected").Inc()
			return nil, err
		}
		metrics.OrdersPlaced.WithLabelValues(method, "error").Inc()
		return nil, fmt.Errorf("place order: %w", err)
	}
	metrics.OrdersPlaced.WithLabelValues(string(o.PaymentMethod), "ok").Inc()
	helpers.LogInfo(s.Logger, "order placed", logrus.Fields{
		"order_number": o.OrderNumber, "user_id": buyer.ID, "total": o.TotalAmount.StringFixed(2),
	})

	res := &PlaceOrderResult{Order: o}
	if o.PaymentMethod.UsesGateway() {
		url, err := s.initPayment(ctx, buyer, o)
		if err != nil {
			helpers.LogError(s.Logger, "payment initialization failed", err, logrus.Fields{"order_number": o.OrderNumber})
			s.markPaymentFailed(ctx, o)
			res.PaymentError = PaymentInitFailed
		} else {
			res.PaymentURL = url
		}
	}

	s.Notify.OrderPlaced(ctx, buyer, o, res.PaymentURL)
	return res, nil
}

func (s *OrderService) initPayment(ctx context.Context, buyer *entity.User, o *entity.Order) (string, error) {
	if s.Payments == nil {
		return "", paystack.ErrNotConfigured
	}
	defer metrics.ObservePaymentInit(time.Now())

	res, err := s.Payments.Initialize(ctx, paystack.InitializeRequest{
		Email:       buyer.Email,
		Amount:      entity.MinorUnits(o.TotalAmount),
		Reference:   o.OrderNumber,
		CallbackURL: s.CallbackURL,
		Metadata:    map[string]any{"order_id": o.ID, "buyer_id": buyer.ID},
	})
	if err != nil {
		return "", err
	}
	return res.AuthorizationURL, nil
}

func (s *OrderService) markPaymentFailed(ctx context.Context, o *entity.Order) {
	ctx = context.WithoutCancel(ctx)
	if _, err := s.Repo.UpdatePayment(ctx, o.OrderNumber, entity.PaymentStatusFailed, "", ""); err != nil {
		helpers.LogError(s.Logger, "mark payment failed", err, logrus.Fields{"order_number": o.OrderNumber})
		return
	}
	o.PaymentStatus = entity.PaymentStatusFailed
}

// ListMine returns the buyer's orders, newest first.
func (s *OrderService) ListMine(ctx context.Context, buyerID string) ([]entity.Order, error) {
	orders, err := s.Repo.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// HandlePaymentEvent applies a verified gateway notification. Unknown
// references and event types are ignored so the gateway stops retrying.
func (s *OrderService) HandlePaymentEvent(ctx context.Context, ev *paystack.Event) error {
	ref := strings.TrimSpace(ev.Data.Reference)
	if ref == "" {
		return nil
	}

	fields := logrus.Fields{"order_number": ref, "event": ev.Event}
	o, err := s.Repo.GetByNumber(ctx, ref)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			helpers.LogInfo(s.Logger, "payment event for unknown order", fields)
			return nil
		}
		return err
	}

	switch ev.Event {
	case paystack.EventChargeSuccess:
		if ev.Data.Amount != entity.MinorUnits(o.TotalAmount) {
			fields["amount"] = ev.Data.Amount
			helpers.LogError(s.Logger, "payment amount mismatch", nil, fields)
			return nil
		}
		changed, err := s.Repo.UpdatePayment(ctx, ref, entity.PaymentStatusPaid, entity.OrderProcessing, ref)
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}
		o.PaymentStatus, o.OrderStatus, o.PaymentReference = entity.PaymentStatusPaid, entity.OrderProcessing, ref
		helpers.LogInfo(s.Logger, "order paid", fields)
		if buyer, err := s.Users.GetByID(ctx, o.BuyerID); err == nil {
			s.Notify.OrderPaid(ctx, buyer, o)
		}

	case paystack.EventChargeFailed:
		if o.PaymentStatus == entity.PaymentStatusPaid {
			return nil
		}
		if _, err := s.Repo.UpdatePayment(ctx, ref, entity.PaymentStatusFailed, "", ref); err != nil {
			return err
		}
		helpers.LogInfo(s.Logger, "payment failed", fields)
	}
	return nil
}
