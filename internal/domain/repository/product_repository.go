package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/oksasatya/marketplace-api/internal/domain/entity"
)

type SortField string

const (
	SortCreatedAt SortField = "createdAt"
	SortPrice     SortField = "price"
	SortRating    SortField = "rating"
	SortName      SortField = "name"
)

// ParseSortField maps a query value onto a sortable column, defaulting to createdAt.
func ParseSortField(s string) SortField {
	switch SortField(s) {
	case SortPrice, SortRating, SortName:
		return SortField(s)
	}
	return SortCreatedAt
}

// ProductFilter narrows a product query. Zero values mean "no constraint".
type ProductFilter struct {
	Category   entity.Category
	Search     string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	SellerID   string
	Status     entity.ApprovalStatus
	ActiveOnly bool
	SortBy     SortField
	SortAsc    bool
	// WithSellerContact includes seller email and phone in the summary.
	WithSellerContact bool
}

type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	// GetByID loads the product with its seller summary and reviews.
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context, f ProductFilter, page entity.PageRequest) ([]entity.Product, int64, error)
	Count(ctx context.Context, f ProductFilter) (int64, error)
	// SaveModeration persists status, approver, timestamp and rejection reason.
	SaveModeration(ctx context.Context, p *entity.Product) error
	// AddReview appends r and recomputes the product's rating and review count.
	AddReview(ctx context.Context, productID string, r *entity.Review) (*entity.Product, error)
}
