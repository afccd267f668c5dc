package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/marketplace-api/internal/domain/entity"
	repo "github.com/oksasatya/marketplace-api/internal/domain/repository"
	"github.com/oksasatya/marketplace-api/internal/infrastructure/storage"
	"github.com/oksasatya/marketplace-api/pkg/helpers"
	"github.com/oksasatya/marketplace-api/pkg/metrics"
)

// PendingLimit is the default page size of the moderation queue.
const PendingLimit = 20

type ProductService struct {
	Repo   repo.ProductRepository
	Users  repo.UserRepository
	Images ImageStore
	Notify *Notifier
	Logger *logrus.Logger

	now func() time.Time
}

func NewProductService(products repo.ProductRepository, users repo.UserRepository, images ImageStore, notify *Notifier, logger *logrus.Logger) *ProductService {
	return &ProductService{Repo: products, Users: users, Images: images, Notify: notify, Logger: logger, now: time.Now}
}

func (s *ProductService) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

// ImageUpload is one uploaded file; Open is called once while saving.
type ImageUpload struct {
	ContentType string
	Open        func() (io.ReadCloser, error)
}

type CreateProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Category    entity.Category
	Stock       int
	Tags        []string
	Weight      *float64
	Dimensions  *entity.Dimensions
	Images      []ImageUpload
}

func (in CreateProductInput) validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "" || utf8.RuneCountInString(in.Name) > entity.MaxNameLen:
		return fail(ErrInvalidInput, "Product name is required and cannot exceed %d characters", entity.MaxNameLen)
	case strings.TrimSpace(in.Description) == "" || utf8.RuneCountInString(in.Description) > entity.MaxDescLen:
		return fail(ErrInvalidInput, "Product description is required and cannot exceed %d characters", entity.MaxDescLen)
	case in.Price.IsNegative():
		return fail(ErrInvalidInput, "Price cannot be negative")
	case !in.Category.Valid():
		return fail(ErrInvalidInput, "Invalid category")
	case in.Stock < 0:
		return fail(ErrInvalidInput, "Stock cannot be negative")
	case len(in.Images) > entity.MaxProductImages:
		return fail(ErrInvalidInput, "At most %d images are allowed", entity.MaxProductImages)
	}
	return nil
}

// ParseTags splits a comma-separated list, trimming and lowercasing entries
// and dropping blanks and duplicates.
func ParseTags(csv string) []string {
	out := []string{}
	seen := map[string]struct{}{}
	for _, t := range strings.Split(csv, ",") {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Create lists a new product for sellerID. It starts pending and active.
func (s *ProductService) Create(ctx context.Context, sellerID string, in CreateProductInput) (*entity.Product, error) {
	seller, err := s.Users.GetByID(ctx, sellerID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !seller.Role.CanSell() {
		return nil, fail(ErrForbidden, "Only sellers can create products")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	images, err := s.saveImages(ctx, seller.ID, in.Images)
	if err != nil {
		return nil, err
	}

	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	p := &entity.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Category:    in.Category,
		Images:      images,
		SellerID:    seller.ID,
		Stock:       in.Stock,
		Status:      entity.StatusPending,
		IsActive:    true,
		Tags:        tags,
		Weight:      in.Weight,
		Dimensions:  in.Dimensions,
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		s.discardImages(ctx, images)
		return nil, fmt.Errorf("create product: %w", err)
	}
	p.Seller = &entity.UserSummary{ID: seller.ID, Name: seller.Name, Rating: seller.Rating, TotalSales: seller.TotalSales}

	helpers.LogInfo(s.Logger, "product created", logrus.Fields{"product_id": p.ID, "seller_id": seller.ID})
	return p, nil
}

func (s *ProductService) saveImages(ctx context.Context, owner string, uploads []ImageUpload) ([]entity.Image, error) {
	images := make([]entity.Image, 0, len(uploads))
	if len(uploads) == 0 {
		return images, nil
	}
	if s.Images == nil {
		return nil, errors.New("image storage not configured")
	}
	for _, up := range uploads {
		key, err := storage.ObjectKey(owner, up.ContentType)
		if err != nil {
			s.discardImages(ctx, images)
			return nil, fail(ErrInvalidInput, "Only image uploads are allowed")
		}
		stored, err := s.put(ctx, key, up)
		if err != nil {
			s.discardImages(ctx, images)
			return nil, fmt.Errorf("store image: %w", err)
		}
		images = append(images, entity.Image{URL: stored.URL, PublicID: stored.ObjectID})
	}
	return images, nil
}

func (s *ProductService) put(ctx context.Context, key string, up ImageUpload) (storage.Stored, error) {
	rc, err := up.Open()
	if err != nil {
		return storage.Stored{}, err
	}
	defer func() { _ = rc.Close() }()
	return s.Images.Put(ctx, key, up.ContentType, rc)
}

func (s *ProductService) discardImages(ctx context.Context, images []entity.Image) {
	if s.Images == nil {
		return
	}
	for _, img := range images {
		if err := s.Images.Delete(ctx, img.PublicID); err != nil {
			helpers.LogError(s.Logger, "discard image failed", err, logrus.Fields{"object": img.PublicID})
		}
	}
}

// CatalogQuery is the public listing's query string.
type CatalogQuery struct {
	Category  string
	Search    string
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	SortBy    string
	SortOrder string
	Page      entity.PageRequest
}

// ListPublic returns active, approved products only.
func (s *ProductService) ListPublic(ctx context.Context, q CatalogQuery) (*entity.Page[entity.Product], error) {
	f := repo.ProductFilter{
		Search:     strings.TrimSpace(q.Search),
		MinPrice:   q.MinPrice,
		MaxPrice:   q.MaxPrice,
		ActiveOnly: true,
		SortBy:     repo.ParseSortField(q.SortBy),
		SortAsc:    strings.EqualFold(q.SortOrder, "asc"),
	}
	if c := strings.ToLower(strings.TrimSpace(q.Category)); c != "" && c != "all" {
		f.Category = entity.Category(c)
	}
	return s.list(ctx, f, q.Page.Normalize(entity.DefaultLimit))
}

// ListMine returns the seller's own products in any status.
func (s *ProductService) ListMine(ctx context.Context, sellerID, status string, page entity.PageRequest) (*entity.Page[entity.Product], error) {
	f := repo.ProductFilter{SellerID: sellerID, SortBy: repo.SortCreatedAt}
	if st := strings.ToLower(strings.TrimSpace(status)); st != "" && st != "all" {
		if !entity.ApprovalStatus(st).Valid() {
			return nil, fail(ErrInvalidInput, "Invalid status filter")
		}
		f.Status = entity.ApprovalStatus(st)
	}
	return s.list(ctx, f, page.Normalize(entity.DefaultLimit))
}

// ListPending returns the moderation queue with seller contact details.
func (s *ProductService) ListPending(ctx context.Context, page entity.PageRequest) (*entity.Page[entity.Product], error) {
	f := repo.ProductFilter{Status: entity.StatusPending, SortBy: repo.SortCreatedAt, WithSellerContact: true}
	return s.list(ctx, f, page.Normalize(PendingLimit))
}

func (s *ProductService) list(ctx context.Context, f repo.ProductFilter, page entity.PageRequest) (*entity.Page[entity.Product], error) {
	items, total, err := s.Repo.List(ctx, f, page)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return &entity.Page[entity.Product]{Items: items, Pagination: entity.NewPagination(page, total)}, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*entity.Product, error) {
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *ProductService) Approve(ctx context.Context, adminID, productID string) (*entity.Product, error) {
	return s.moderate(ctx, productID, entity.Approve(adminID, s.clock()))
}

// Reject substitutes the default reason when reason is blank.
func (s *ProductService) Reject(ctx context.Context, adminID, productID, reason string) (*entity.Product, error) {
	return s.moderate(ctx, productID, entity.Reject(adminID, strings.TrimSpace(reason), s.clock()))
}

func (s *ProductService) moderate(ctx context.Context, productID string, d entity.Decision) (*entity.Product, error) {
	p, err := s.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := p.Apply(d); err != nil {
		return nil, fail(ErrInvalidTransition, "Cannot move product from %s to %s", p.Status, d.Status)
	}
	if err := s.Repo.SaveModeration(ctx, p); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("save moderation: %w", err)
	}
	metrics.ProductReviews.WithLabelValues(string(p.Status)).Inc()

	seller, err := s.Users.GetByID(ctx, p.SellerID)
	if err == nil {
		p.Seller = &entity.UserSummary{ID: seller.ID, Name: seller.Name, Email: seller.Email, Rating: seller.Rating, TotalSales: seller.TotalSales}
		s.Notify.ProductReviewed(ctx, seller, p)
	} else {
		helpers.LogError(s.Logger, "load seller for notification failed", err, logrus.Fields{"product_id": p.ID})
	}

	helpers.LogInfo(s.Logger, "product moderated", logrus.Fields{"product_id": p.ID, "status": p.Status, "admin_id": d.ReviewerID})
	return p, nil
}

// AddReview records a 1-5 star review on a purchasable product.
func (s *ProductService) AddReview(ctx context.Context, userID, productID string, rating int, comment string) (*entity.Product, error) {
	if rating < 1 || rating > 5 {
		return nil, fail(ErrInvalidInput, "Rating must be between 1 and 5")
	}
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	p, err := s.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !p.Purchasable() {
		return nil, fail(ErrProductUnavailable, "Product %s is not available", p.Name)
	}

	r := &entity.Review{UserID: u.ID, Name: u.Name, Rating: rating, Comment: strings.TrimSpace(comment)}
	updated, err := s.Repo.AddReview(ctx, p.ID, r)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("add review: %w", err)
	}
	return updated, nil
}
