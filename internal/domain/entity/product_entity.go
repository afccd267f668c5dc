package entity

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryFood        Category = "food"
	CategoryClothing    Category = "clothing"
	CategoryElectronics Category = "electronics"
	CategoryHome        Category = "home"
	CategoryBooks       Category = "books"
	CategoryOther       Category = "other"
)

var Categories = []Category{CategoryFood, CategoryClothing, CategoryElectronics, CategoryHome, CategoryBooks, CategoryOther}

func (c Category) Valid() bool {
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

// ApprovalStatus is the moderation state of a listing.
type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "pending"
	StatusApproved ApprovalStatus = "approved"
	StatusRejected ApprovalStatus = "rejected"
)

func (s ApprovalStatus) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

var ErrInvalidTransition = errors.New("invalid status transition")

// CanTransitionTo allows pending -> approved|rejected and admin re-review
// between approved and rejected. Nothing returns to pending.
func (s ApprovalStatus) CanTransitionTo(next ApprovalStatus) bool {
	switch next {
	case StatusApproved:
		return s == StatusPending || s == StatusRejected || s == StatusApproved
	case StatusRejected:
		return s == StatusPending || s == StatusApproved || s == StatusRejected
	}
	return false
}

const DefaultRejectionReason = "Does not meet platform guidelines"

const (
	MaxProductImages = 5
	MaxNameLen       = 100
	MaxDescLen       = 500
)

type Image struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

type Dimensions struct {
	Length float64 `json:"length,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

type Review struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user"`
	Name      string    `json:"name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type Product struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	Category        Category        `json:"category"`
	Images          []Image         `json:"images"`
	SellerID        string          `json:"sellerId"`
	Seller          *UserSummary    `json:"seller,omitempty"`
	Stock           int             `json:"stock"`
	Rating          float64         `json:"rating"`
	NumReviews      int             `json:"numReviews"`
	Reviews         []Review        `json:"reviews,omitempty"`
	Status          ApprovalStatus  `json:"status"`
	ApprovedBy      *string         `json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time      `json:"approvedAt,omitempty"`
	RejectionReason *string         `json:"rejectionReason,omitempty"`
	IsActive        bool            `json:"isActive"`
	Tags            []string        `json:"tags"`
	Weight          *float64        `json:"weight,omitempty"`
	Dimensions      *Dimensions     `json:"dimensions,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Purchasable reports whether the product may appear publicly and be ordered.
func (p *Product) Purchasable() bool {
	return p.IsActive && p.Status == StatusApproved
}

// Decision is an admin moderation outcome applied to a product.
type Decision struct {
	Status     ApprovalStatus
	ReviewerID string
	Reason     *string
	At         time.Time
}

// Approve builds the decision for an approval: any rejection reason is cleared.
func Approve(reviewerID string, at time.Time) Decision {
	return Decision{Status: StatusApproved, ReviewerID: reviewerID, At: at}
}

// Reject builds the decision for a rejection, substituting the default reason.
func Reject(reviewerID, reason string, at time.Time) Decision {
	if reason == "" {
		reason = DefaultRejectionReason
	}
	return Decision{Status: StatusRejected, ReviewerID: reviewerID, Reason: &reason, At: at}
}

// Apply moves p through the moderation state machine.
func (p *Product) Apply(d Decision) error {
	if !p.Status.CanTransitionTo(d.Status) {
		return ErrInvalidTransition
	}
	p.Status = d.Status
	reviewer := d.ReviewerID
	at := d.At
	p.ApprovedBy = &reviewer
	p.ApprovedAt = &at
	p.RejectionReason = d.Reason
	p.UpdatedAt = d.At
	return nil
}
