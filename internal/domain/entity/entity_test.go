package entity

import (
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	r, ok := ParseRole("")
	assert.True(t, ok)
	assert.Equal(t, RoleBuyer, r)

	r, ok = ParseRole("seller")
	assert.True(t, ok)
	assert.Equal(t, RoleSeller, r)

	_, ok = ParseRole("root")
	assert.False(t, ok)

	assert.True(t, RoleSeller.SelfAssignable())
	assert.False(t, RoleAdmin.SelfAssignable())
	assert.True(t, RoleAdmin.CanSell())
	assert.False(t, RoleBuyer.CanSell())
}

func TestApprovalTransitions(t *testing.T) {
	assert.True(t, StatusPending.CanTransitionTo(StatusApproved))
	assert.True(t, StatusPending.CanTransitionTo(StatusRejected))
	assert.True(t, StatusApproved.CanTransitionTo(StatusRejected))
	assert.True(t, StatusRejected.CanTransitionTo(StatusApproved))
	assert.False(t, StatusApproved.CanTransitionTo(StatusPending))
	assert.False(t, StatusRejected.CanTransitionTo(StatusPending))
	assert.False(t, StatusPending.CanTransitionTo("archived"))
}

func TestProductApply(t *testing.T) {
	at := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	p := &Product{Status: StatusPending, IsActive: true}
	assert.False(t, p.Purchasable())

	require.NoError(t, p.Apply(Reject("admin-1", "", at)))
	assert.Equal(t, StatusRejected, p.Status)
	require.NotNil(t, p.RejectionReason)
	assert.Equal(t, DefaultRejectionReason, *p.RejectionReason)
	assert.Equal(t, "admin-1", *p.ApprovedBy)

	require.NoError(t, p.Apply(Approve("admin-2", at.Add(time.Hour))))
	assert.Equal(t, StatusApproved, p.Status)
	assert.Nil(t, p.RejectionReason)
	assert.Equal(t, at.Add(time.Hour), *p.ApprovedAt)
	assert.True(t, p.Purchasable())

	p.IsActive = false
	assert.False(t, p.Purchasable())

	err := p.Apply(Decision{Status: StatusPending})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestPageRequestNormalize(t *testing.T) {
	p := PageRequest{}.Normalize(DefaultLimit)
	assert.Equal(t, PageRequest{Page: 1, Limit: 12}, p)

	p = PageRequest{Page: -3, Limit: 500}.Normalize(20)
	assert.Equal(t, PageRequest{Page: 1, Limit: MaxLimit}, p)

	p = PageRequest{Page: 2}.Normalize(20)
	assert.Equal(t, 20, p.Limit)
	assert.Equal(t, 20, p.Offset())
}

func TestNewPagination(t *testing.T) {
	req := PageRequest{Page: 2, Limit: 12}
	pg := NewPagination(req, 25)
	assert.Equal(t, 3, pg.TotalPages)
	assert.Equal(t, 12, req.Offset())
	assert.True(t, pg.HasNext)
	assert.True(t, pg.HasPrev)

	empty := NewPagination(PageRequest{Page: 1, Limit: 12}, 0)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrev)
}

func TestOrderTotals(t *testing.T) {
	items := []OrderItem{
		{Price: decimal.RequireFromString("1500.50"), Quantity: 2},
		{Price: decimal.RequireFromString("99.99"), Quantity: 1},
	}
	total := ComputeTotal(items)
	assert.True(t, decimal.RequireFromString("3100.99").Equal(total))

	o := &Order{Items: items, TotalAmount: total}
	assert.NoError(t, o.CheckTotal())
	o.TotalAmount = total.Add(decimal.NewFromInt(1))
	assert.ErrorIs(t, o.CheckTotal(), ErrTotalMismatch)
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(310099), MinorUnits(decimal.RequireFromString("3100.99")))
	assert.Equal(t, int64(101), MinorUnits(decimal.RequireFromString("1.005")))
	assert.Equal(t, int64(0), MinorUnits(decimal.Zero))
}

func TestNewOrderNumber(t *testing.T) {
	at := time.Date(2025, 3, 1, 23, 0, 0, 0, time.UTC)
	n := NewOrderNumber(at)
	assert.Regexp(t, regexp.MustCompile(`^ORD-20250301-[0-9a-f]{8}$`), n)
	assert.NotEqual(t, n, NewOrderNumber(at))
}

func TestPaymentMethod(t *testing.T) {
	assert.True(t, PaymentPaystack.UsesGateway())
	assert.False(t, PaymentCashOnDelivery.UsesGateway())
	assert.True(t, PaymentBankTransfer.Valid())
	assert.False(t, PaymentMethod("crypto").Valid())
}

func TestAddressDefaults(t *testing.T) {
	assert.Equal(t, DefaultCountry, Address{City: "Lagos"}.WithDefaults().Country)
	assert.Equal(t, "Ghana", Address{Country: "Ghana"}.WithDefaults().Country)
}
