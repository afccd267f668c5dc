package application

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/marketplace-api/internal/domain/entity"
	repo "github.com/oksasatya/marketplace-api/internal/domain/repository"
	"github.com/oksasatya/marketplace-api/internal/infrastructure/storage"
	"github.com/oksasatya/marketplace-api/pkg/helpers"
	tpl "github.com/oksasatya/marketplace-api/pkg/mailer/templates"
)

type memImages struct {
	mu      sync.Mutex
	objects map[string]string
	failPut bool
}

func (m *memImages) Put(_ context.Context, key, _ string, r io.Reader) (storage.Stored, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failPut {
		return storage.Stored{}, errors.New("bucket unavailable")
	}
	b, _ := io.ReadAll(r)
	if m.objects == nil {
		m.objects = map[string]string{}
	}
	m.objects[key] = string(b)
	return storage.Stored{URL: "/uploads/" + key, ObjectID: key}, nil
}

func (m *memImages) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func upload(ct, body string) ImageUpload {
	return ImageUpload{ContentType: ct, Open: func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(body)), nil
	}}
}

type productFixture struct {
	svc      *ProductService
	users    *memUsers
	products *memProducts
	images   *memImages
	jobs     *recordingJobs
	seller   *entity.User
	buyer    *entity.User
}

func newProductFixture(t *testing.T) *productFixture {
	t.Helper()
	f := &productFixture{users: newMemUsers(), products: newMemProducts(), images: &memImages{}, jobs: &recordingJobs{}}
	logger := helpers.NewDiscardLogger()
	f.svc = NewProductService(f.products, f.users, f.images, NewNotifier(f.jobs, "Shop", logger), logger)
	f.svc.now = func() time.Time { return time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC) }
	f.seller = f.users.add(&entity.User{Name: "Sam", Email: "sam@example.com", Role: entity.RoleSeller})
	f.buyer = f.users.add(&entity.User{Name: "Ada", Email: "ada@example.com", Role: entity.RoleBuyer})
	return f
}

func validProductInput() CreateProductInput {
	return CreateProductInput{
		Name:        "Jollof Rice Pack",
		Description: "Party size",
		Price:       decimal.RequireFromString("2500.00"),
		Category:    entity.CategoryFood,
		Stock:       5,
		Tags:        ParseTags("Rice, party,rice, "),
	}
}

func TestParseTags(t *testing.T) {
	assert.Equal(t, []string{"rice", "party"}, ParseTags(" Rice, party,RICE,, "))
	assert.Equal(t, []string{}, ParseTags(""))
}

func TestCreateProduct(t *testing.T) {
	f := newProductFixture(t)
	in := validProductInput()
	in.Images = []ImageUpload{upload("image/png", "a"), upload("image/jpeg", "b")}

	p, err := f.svc.Create(context.Background(), f.seller.ID, in)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, p.Status)
	assert.True(t, p.IsActive)
	assert.Equal(t, []string{"rice", "party"}, p.Tags)
	assert.Len(t, p.Images, 2)
	assert.Len(t, f.images.objects, 2)
	assert.Equal(t, f.seller.ID, p.Seller.ID)
	assert.Empty(t, p.Seller.Email)
}

func TestCreateProduct_BuyerForbidden(t *testing.T) {
	f := newProductFixture(t)
	_, err := f.svc.Create(context.Background(), f.buyer.ID, validProductInput())
	assert.ErrorIs(t, err, ErrForbidden)
	var fl *Failure
	require.ErrorAs(t, err, &fl)
	assert.Equal(t, "Only sellers can create products", fl.Msg)
}

func TestCreateProduct_Validation(t *testing.T) {
	f := newProductFixture(t)
	cases := map[string]func(*CreateProductInput){
		"blank name":     func(in *CreateProductInput) { in.Name = " " },
		"long name":      func(in *CreateProductInput) { in.Name = strings.Repeat("x", 101) },
		"negative price": func(in *CreateProductInput) { in.Price = decimal.NewFromInt(-1) },
		"bad category":   func(in *CreateProductInput) { in.Category = "toys" },
		"negative stock": func(in *CreateProductInput) { in.Stock = -1 },
		"too many images": func(in *CreateProductInput) {
			for i := 0; i < 6; i++ {
				in.Images = append(in.Images, upload("image/png", "x"))
			}
		},
		"not an image": func(in *CreateProductInput) { in.Images = []ImageUpload{upload("application/pdf", "x")} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := validProductInput()
			mutate(&in)
			_, err := f.svc.Create(context.Background(), f.seller.ID, in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
	assert.Empty(t, f.images.objects)
}

func TestCreateProduct_StorageFailureKeepsNothing(t *testing.T) {
	f := newProductFixture(t)
	f.images.failPut = true
	in := validProductInput()
	in.Images = []ImageUpload{upload("image/png", "a")}
	_, err := f.svc.Create(context.Background(), f.seller.ID, in)
	assert.Error(t, err)
	n, _ := f.products.Count(context.Background(), repo.ProductFilter{})
	assert.Zero(t, n)
}

func TestListPublic_OnlyApprovedAndActive(t *testing.T) {
	f := newProductFixture(t)
	f.products.add(&entity.Product{Name: "A", Status: entity.StatusApproved, IsActive: true, Category: entity.CategoryFood})
	f.products.add(&entity.Product{Name: "B", Status: entity.StatusPending, IsActive: true, Category: entity.CategoryFood})
	f.products.add(&entity.Product{Name: "C", Status: entity.StatusApproved, IsActive: false, Category: entity.CategoryFood})
	f.products.add(&entity.Product{Name: "D", Status: entity.StatusApproved, IsActive: true, Category: entity.CategoryBooks})

	page, err := f.svc.ListPublic(context.Background(), CatalogQuery{Category: "all"})
	require.NoError(t, err)
	assert.True(t, f.products.lastFilter.ActiveOnly)
	assert.Equal(t, entity.Category(""), f.products.lastFilter.Category)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 12, page.Pagination.Limit)

	page, err = f.svc.ListPublic(context.Background(), CatalogQuery{Category: "Books", SortBy: "price", SortOrder: "ASC"})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, repo.SortPrice, f.products.lastFilter.SortBy)
	assert.True(t, f.products.lastFilter.SortAsc)
}

func TestListMine(t *testing.T) {
	f := newProductFixture(t)
	f.products.add(&entity.Product{Name: "A", SellerID: f.seller.ID, Status: entity.StatusPending})
	f.products.add(&entity.Product{Name: "B", SellerID: f.seller.ID, Status: entity.StatusRejected})
	f.products.add(&entity.Product{Name: "C", SellerID: "someone-else", Status: entity.StatusPending})

	page, err := f.svc.ListMine(context.Background(), f.seller.ID, "", entity.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)

	page, err = f.svc.ListMine(context.Background(), f.seller.ID, "rejected", entity.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	_, err = f.svc.ListMine(context.Background(), f.seller.ID, "archived", entity.PageRequest{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestListPending_DefaultLimitAndContact(t *testing.T) {
	f := newProductFixture(t)
	page, err := f.svc.ListPending(context.Background(), entity.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, PendingLimit, page.Pagination.Limit)
	assert.Equal(t, entity.StatusPending, f.products.lastFilter.Status)
	assert.True(t, f.products.lastFilter.WithSellerContact)
}

func TestApproveAndReject(t *testing.T) {
	f := newProductFixture(t)
	p := f.products.add(&entity.Product{Name: "Rice", SellerID: f.seller.ID, Status: entity.StatusPending, IsActive: true})
	admin := "admin-1"

	got, err := f.svc.Reject(context.Background(), admin, p.ID, "  ")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusRejected, got.Status)
	assert.Equal(t, entity.DefaultRejectionReason, *got.RejectionReason)

	got, err = f.svc.Approve(context.Background(), admin, p.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, got.Status)
	assert.Nil(t, got.RejectionReason)
	assert.Equal(t, admin, *got.ApprovedBy)

	stored, _ := f.products.GetByID(context.Background(), p.ID)
	assert.Equal(t, entity.StatusApproved, stored.Status)
	assert.Equal(t, []string{tpl.ProductRejected, tpl.ProductApproved}, f.jobs.templates())

	_, err = f.svc.Approve(context.Background(), admin, "missing")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestAddReview(t *testing.T) {
	f := newProductFixture(t)
	live := f.products.add(&entity.Product{Name: "Rice", Status: entity.StatusApproved, IsActive: true})
	pending := f.products.add(&entity.Product{Name: "Beans", Status: entity.StatusPending, IsActive: true})
	ctx := context.Background()

	_, err := f.svc.AddReview(ctx, f.buyer.ID, live.ID, 0, "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.AddReview(ctx, f.buyer.ID, pending.ID, 4, "")
	assert.ErrorIs(t, err, ErrProductUnavailable)

	_, err = f.svc.AddReview(ctx, f.buyer.ID, live.ID, 5, "great")
	require.NoError(t, err)
	p, err := f.svc.AddReview(ctx, f.seller.ID, live.ID, 4, "")
	require.NoError(t, err)
	assert.Equal(t, 2, p.NumReviews)
	assert.InDelta(t, 4.5, p.Rating, 0.001)
	assert.Equal(t, "Ada", p.Reviews[0].Name)
}
