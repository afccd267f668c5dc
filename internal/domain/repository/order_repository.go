package repository

import (
	"context"

	"github.com/oksasatya/marketplace-api/internal/domain/entity"
)

// BuildOrderFunc receives the locked products keyed by id (missing ids are
// absent) and returns the order to persist, or an error to abort.
type BuildOrderFunc func(products map[string]*entity.Product) (*entity.Order, error)

type OrderRepository interface {
	// Place locks the products, calls build, then inserts the order with its
	// items and decrements stock, all in one transaction.
	Place(ctx context.Context, productIDs []string, build BuildOrderFunc) (*entity.Order, error)
	ListByBuyer(ctx context.Context, buyerID string) ([]entity.Order, error)
	GetByNumber(ctx context.Context, orderNumber string) (*entity.Order, error)
	// UpdatePayment sets payment status (and order status when non-empty).
	// It reports false when the order already had that payment status.
	UpdatePayment(ctx context.Context, orderNumber string, ps entity.PaymentStatus, os entity.OrderStatus, reference string) (bool, error)
	Count(ctx context.Context, status entity.OrderStatus) (int64, error)
}
