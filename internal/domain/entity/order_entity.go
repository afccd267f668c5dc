package entity

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentPaystack       PaymentMethod = "paystack"
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentBankTransfer   PaymentMethod = "bank_transfer"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentPaystack || m == PaymentCashOnDelivery || m == PaymentBankTransfer
}

// UsesGateway reports whether checkout is completed on the external gateway.
func (m PaymentMethod) UsesGateway() bool { return m == PaymentPaystack }

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

type ShippingAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	Phone   string `json:"phone,omitempty"`
}

// OrderItem is a line item; Price and SellerID are snapshots taken at checkout.
type OrderItem struct {
	ProductID     string          `json:"product"`
	ProductName   string          `json:"productName,omitempty"`
	ProductImages []Image         `json:"productImages,omitempty"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	SellerID      string          `json:"seller"`
}

// Subtotal is price x quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Order struct {
	ID               string          `json:"id"`
	OrderNumber      string          `json:"orderNumber"`
	BuyerID          string          `json:"buyer"`
	Items            []OrderItem     `json:"items"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	ShippingAddress  ShippingAddress `json:"shippingAddress"`
	PaymentMethod    PaymentMethod   `json:"paymentMethod"`
	PaymentStatus    PaymentStatus   `json:"paymentStatus"`
	OrderStatus      OrderStatus     `json:"orderStatus"`
	PaymentReference string          `json:"paymentReference,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

var ErrTotalMismatch = errors.New("order total does not match line items")

// ComputeTotal sums the line items.
func ComputeTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// CheckTotal verifies TotalAmount against the line items.
func (o *Order) CheckTotal() error {
	if !o.TotalAmount.Equal(ComputeTotal(o.Items)) {
		return ErrTotalMismatch
	}
	return nil
}

// NewOrderNumber returns ORD-<yyyymmdd>-<8 hex chars>.
func NewOrderNumber(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return "ORD-" + now.UTC().Format("20060102") + "-" + suffix
}

// MinorUnits converts an amount to the gateway's minor unit (kobo), rounding half up.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
