package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/marketplace-api/internal/domain/entity"
	"github.com/oksasatya/marketplace-api/internal/infrastructure/paystack"
	"github.com/oksasatya/marketplace-api/pkg/helpers"
	tpl "github.com/oksasatya/marketplace-api/pkg/mailer/templates"
)

type orderFixture struct {
	svc      *OrderService
	users    *memUsers
	products *memProducts
	orders   *memOrders
	gateway  *stubGateway
	jobs     *recordingJobs
	buyer    *entity.User
	rice     *entity.Product
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	f := &orderFixture{users: newMemUsers(), products: newMemProducts(), gateway: &stubGateway{url: "https://checkout.paystack.com/abc"}, jobs: &recordingJobs{}}
	f.orders = newMemOrders(f.products)
	logger := helpers.NewDiscardLogger()
	f.svc = NewOrderService(f.orders, f.users, f.gateway, NewNotifier(f.jobs, "Shop", logger), logger, "http://localhost:3000/order-success")
	f.svc.now = func() time.Time { return time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC) }
	f.buyer = f.users.add(&entity.User{Name: "Ada", Email: "ada@example.com", Role: entity.RoleBuyer})
	f.rice = f.products.add(&entity.Product{
		Name: "Rice", Price: decimal.RequireFromString("2500.50"), Stock: 5,
		SellerID: "seller-1", Status: entity.StatusApproved, IsActive: true,
	})
	return f
}

func orderFor(method entity.PaymentMethod, lines ...OrderLineInput) PlaceOrderInput {
	return PlaceOrderInput{
		Items:           lines,
		ShippingAddress: entity.ShippingAddress{Street: "1 Marina", City: "Lagos", State: "Lagos"},
		PaymentMethod:   method,
	}
}

func TestBuildOrder(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	p := &entity.Product{ID: uuid.NewString(), Name: "Rice", Price: decimal.NewFromInt(100), Stock: 3, SellerID: "s1", Status: entity.StatusApproved, IsActive: true}
	products := map[string]*entity.Product{p.ID: p}

	o, err := BuildOrder("buyer-1", orderFor(entity.PaymentCashOnDelivery, OrderLineInput{p.ID, 2}), products, now)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(200).Equal(o.TotalAmount))
	assert.Equal(t, "s1", o.Items[0].SellerID)
	assert.Equal(t, entity.DefaultCountry, o.ShippingAddress.Country)
	assert.Equal(t, entity.PaymentStatusPending, o.PaymentStatus)
	assert.Equal(t, entity.OrderPending, o.OrderStatus)

	// the same product on two lines counts against stock once
	_, err = BuildOrder("buyer-1", orderFor(entity.PaymentCashOnDelivery, OrderLineInput{p.ID, 2}, OrderLineInput{p.ID, 2}), products, now)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	missing := uuid.NewString()
	_, err = BuildOrder("buyer-1", orderFor(entity.PaymentCashOnDelivery, OrderLineInput{missing, 1}), products, now)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.EqualError(t, err, "Product "+missing+" not found")

	p.Status = entity.StatusPending
	_, err = BuildOrder("buyer-1", orderFor(entity.PaymentCashOnDelivery, OrderLineInput{p.ID, 1}), products, now)
	assert.ErrorIs(t, err, ErrProductUnavailable)
	assert.EqualError(t, err, "Product Rice is not available")
}

func TestPlace_DecrementsStock(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	res, err := f.svc.Place(ctx, f.buyer.ID, orderFor(entity.PaymentCashOnDelivery, OrderLineInput{f.rice.ID, 3}))
	require.NoError(t, err)
	assert.Equal(t, 2, f.products.stock(f.rice.ID))
	assert.True(t, decimal.RequireFromString("7501.50").Equal(res.Order.TotalAmount))
	assert.Empty(t, res.PaymentURL)
	assert.Empty(t, f.gateway.reqs)
	assert.Equal(t, []string{tpl.OrderPlaced}, f.jobs.templates())

	_, err = f.svc.Place(ctx, f.buyer.ID, orderFor(entity.PaymentCashOnDelivery, OrderLineInput{f.rice.ID, 3}))
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.EqualError(t, err, "Insufficient stock for Rice")
	assert.Equal(t, 2, f.products.stock(f.rice.ID))
}

func TestPlace_UnknownProductLeavesStockAlone(t *testing.T) {
	f := newOrderFixture(t)
	_, err := f.svc.Place(context.Background(), f.buyer.ID, orderFor(entity.PaymentBankTransfer,
		OrderLineInput{f.rice.ID, 1}, OrderLineInput{uuid.NewString(), 1}))
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Equal(t, 5, f.products.stock(f.rice.ID))
	n, _ := f.orders.Count(context.Background(), "")
	assert.Zero(t, n)
}

func TestPlace_Validation(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	_, err := f.svc.Place(ctx, f.buyer.ID, orderFor(entity.PaymentPaystack))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.Place(ctx, f.buyer.ID, orderFor(entity.PaymentPaystack, OrderLineInput{f.rice.ID, 0}))
	assert.ErrorIs(t, err, ErrInvalidInput)

	in := orderFor(entity.PaymentPaystack, OrderLineInput{f.rice.ID, 1})
	in.ShippingAddress.City = ""
	_, err = f.svc.Place(ctx, f.buyer.ID, in)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.Place(ctx, f.buyer.ID, orderFor("crypto", OrderLineInput{f.rice.ID, 1}))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPlace_PaystackCheckout(t *testing.T) {
	f := newOrderFixture(t)
	res, err := f.svc.Place(context.Background(), f.buyer.ID, orderFor(entity.PaymentPaystack, OrderLineInput{f.rice.ID, 2}))
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.paystack.com/abc", res.PaymentURL)
	assert.Empty(t, res.PaymentError)

	require.Len(t, f.gateway.reqs, 1)
	req := f.gateway.reqs[0]
	assert.Equal(t, int64(500100), req.Amount)
	assert.Equal(t, res.Order.OrderNumber, req.Reference)
	assert.Equal(t, "ada@example.com", req.Email)
	assert.Equal(t, "http://localhost:3000/order-success", req.CallbackURL)
}

func TestPlace_PaymentInitFailureKeepsOrder(t *testing.T) {
	f := newOrderFixture(t)
	f.gateway.err = errors.New("gateway timeout")

	res, err := f.svc.Place(context.Background(), f.buyer.ID, orderFor(entity.PaymentPaystack, OrderLineInput{f.rice.ID, 1}))
	require.NoError(t, err)
	assert.Equal(t, PaymentInitFailed, res.PaymentError)
	assert.Empty(t, res.PaymentURL)
	assert.Equal(t, entity.PaymentStatusFailed, res.Order.PaymentStatus)
	assert.Equal(t, 4, f.products.stock(f.rice.ID))

	stored, err := f.orders.GetByNumber(context.Background(), res.Order.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusFailed, stored.PaymentStatus)
}

func chargeEvent(kind, ref string, amount int64) *paystack.Event {
	ev := &paystack.Event{Event: kind}
	ev.Data.Reference = ref
	ev.Data.Amount = amount
	return ev
}

func TestHandlePaymentEvent_SuccessIsIdempotent(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	res, err := f.svc.Place(ctx, f.buyer.ID, orderFor(entity.PaymentPaystack, OrderLineInput{f.rice.ID, 1}))
	require.NoError(t, err)
	ref := res.Order.OrderNumber

	ev := chargeEvent(paystack.EventChargeSuccess, ref, 250050)
	require.NoError(t, f.svc.HandlePaymentEvent(ctx, ev))
	require.NoError(t, f.svc.HandlePaymentEvent(ctx, ev))

	o, err := f.orders.GetByNumber(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPaid, o.PaymentStatus)
	assert.Equal(t, entity.OrderProcessing, o.OrderStatus)
	assert.Equal(t, ref, o.PaymentReference)
	assert.Equal(t, []string{tpl.OrderPlaced, tpl.OrderPaid}, f.jobs.templates())

	// a late failure does not undo a payment
	require.NoError(t, f.svc.HandlePaymentEvent(ctx, chargeEvent(paystack.EventChargeFailed, ref, 250050)))
	o, _ = f.orders.GetByNumber(ctx, ref)
	assert.Equal(t, entity.PaymentStatusPaid, o.PaymentStatus)
}

func TestHandlePaymentEvent_AmountMismatchIgnored(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	res, err := f.svc.Place(ctx, f.buyer.ID, orderFor(entity.PaymentPaystack, OrderLineInput{f.rice.ID, 1}))
	require.NoError(t, err)

	require.NoError(t, f.svc.HandlePaymentEvent(ctx, chargeEvent(paystack.EventChargeSuccess, res.Order.OrderNumber, 100)))
	o, _ := f.orders.GetByNumber(ctx, res.Order.OrderNumber)
	assert.Equal(t, entity.PaymentStatusPending, o.PaymentStatus)
}

func TestHandlePaymentEvent_FailedAndUnknown(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	res, err := f.svc.Place(ctx, f.buyer.ID, orderFor(entity.PaymentPaystack, OrderLineInput{f.rice.ID, 1}))
	require.NoError(t, err)

	require.NoError(t, f.svc.HandlePaymentEvent(ctx, chargeEvent(paystack.EventChargeFailed, res.Order.OrderNumber, 0)))
	o, _ := f.orders.GetByNumber(ctx, res.Order.OrderNumber)
	assert.Equal(t, entity.PaymentStatusFailed, o.PaymentStatus)
	assert.Equal(t, entity.OrderPending, o.OrderStatus)

	assert.NoError(t, f.svc.HandlePaymentEvent(ctx, chargeEvent(paystack.EventChargeSuccess, "ORD-unknown", 1)))
	assert.NoError(t, f.svc.HandlePaymentEvent(ctx, chargeEvent(paystack.EventChargeSuccess, "", 1)))
}

func TestListMineOrders(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	_, err := f.svc.Place(ctx, f.buyer.ID, orderFor(entity.PaymentCashOnDelivery, OrderLineInput{f.rice.ID, 1}))
	require.NoError(t, err)

	orders, err := f.svc.ListMine(ctx, f.buyer.ID)
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	orders, err = f.svc.ListMine(ctx, "someone-else")
	require.NoError(t, err)
	assert.Empty(t, orders)
}
