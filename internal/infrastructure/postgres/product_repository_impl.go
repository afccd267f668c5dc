package postgres

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/marketplace-api/internal/domain/entity"
	"github.com/oksasatya/marketplace-api/internal/domain/repository"
)

type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

const productColumns = `p.id, p.name, p.description, p.price, p.category, p.images, p.seller_id,
	p.stock, p.rating, p.num_reviews, p.status, p.approved_by, p.approved_at, p.rejection_reason,
	p.is_active, p.tags, p.weight, p.dimensions, p.created_at, p.updated_at,
	u.name, u.email, u.phone, u.rating, u.total_sales`

const productFrom = ` FROM products p JOIN users u ON u.id = p.seller_id`

func scanProduct(row pgx.Row, withContact bool) (*entity.Product, error) {
	p := &entity.Product{}
	s := &entity.UserSummary{}
	var category, status string
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &category, &p.Images, &p.SellerID,
		&p.Stock, &p.Rating, &p.NumReviews, &status, &p.ApprovedBy, &p.ApprovedAt, &p.RejectionReason,
		&p.IsActive, &p.Tags, &p.Weight, &p.Dimensions, &p.CreatedAt, &p.UpdatedAt,
		&s.Name, &s.Email, &s.Phone, &s.Rating, &s.TotalSales); err != nil {
		return nil, mapErr(err)
	}
	p.Category = entity.Category(category)
	p.Status = entity.ApprovalStatus(status)
	if p.Images == nil {
		p.Images = []entity.Image{}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	s.ID = p.SellerID
	if !withContact {
		s.Email, s.Phone = "", ""
	}
	p.Seller = s
	return p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *entity.Product) error {
	if p.Images == nil {
		p.Images = []entity.Image{}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO products (name, description, price, category, images, seller_id, stock,
		                      status, is_active, tags, weight, dimensions)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, rating, num_reviews, created_at, updated_at
	`, p.Name, p.Description, p.Price, string(p.Category), p.Images, p.SellerID, p.Stock,
		string(p.Status), p.IsActive, p.Tags, p.Weight, p.Dimensions)

	return mapErr(row.Scan(&p.ID, &p.Rating, &p.NumReviews, &p.CreatedAt, &p.UpdatedAt))
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	if !isUUID(id) {
		return nil, repository.ErrNotFound
	}

	p, err := scanProduct(r.pool.QueryRow(ctx, `SELECT `+productColumns+productFrom+` WHERE p.id = $1`, id), false)
	if err != nil {
		return nil, err
	}

	p.Reviews, err = r.reviews(ctx, r.pool, p.ID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProductRepository) reviews(ctx context.Context, q querier, productID string) ([]entity.Review, error) {
	rows, err := q.Query(ctx, `
		SELECT id, user_id, name, rating, comment, created_at
		FROM product_reviews
		WHERE product_id = $1
		ORDER BY created_at
	`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entity.Review{}
	for rows.Next() {
		var rv entity.Review
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.Name, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *ProductRepository) List(ctx context.Context, f repository.ProductFilter, page entity.PageRequest) ([]entity.Product, int64, error) {
	if f.SellerID != "" && !isUUID(f.SellerID) {
		return []entity.Product{}, 0, nil
	}

	total, err := r.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	where, args := buildProductWhere(f)
	n := len(args)
	query := `SELECT ` + productColumns + productFrom + where + productOrderBy(f) +
		` LIMIT $` + strconv.Itoa(n+1) + ` OFFSET $` + strconv.Itoa(n+2)
	args = append(args, page.Limit, page.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := []entity.Product{}
	for rows.Next() {
		p, err := scanProduct(rows, f.WithSellerContact)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *ProductRepository) Count(ctx context.Context, f repository.ProductFilter) (int64, error) {
	if f.SellerID != "" && !isUUID(f.SellerID) {
		return 0, nil
	}
	where, args := buildProductWhere(f)
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM products p`+where, args...).Scan(&n)
	return n, err
}

func (r *ProductRepository) SaveModeration(ctx context.Context, p *entity.Product) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE products
		SET status = $1, approved_by = $2, approved_at = $3, rejection_reason = $4, updated_at = $5
		WHERE id = $6
	`, string(p.Status), p.ApprovedBy, p.ApprovedAt, p.RejectionReason, p.UpdatedAt, p.ID)
	if err != nil {
		return mapErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) AddReview(ctx context.Context, productID string, rv *entity.Review) (*entity.Product, error) {
	if !isUUID(productID) {
		return nil, repository.ErrNotFound
	}

	err := pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			INSERT INTO product_reviews (product_id, user_id, name, rating, comment)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at
		`, productID, rv.UserID, rv.Name, rv.Rating, rv.Comment)
		if err := row.Scan(&rv.ID, &rv.CreatedAt); err != nil {
			return mapErr(err)
		}

		_, err := tx.Exec(ctx, `
			UPDATE products p
			SET num_reviews = s.n, rating = round(s.avg, 2), updated_at = now()
			FROM (SELECT count(*) AS n, coalesce(avg(rating), 0) AS avg
			      FROM product_reviews WHERE product_id = $1) s
			WHERE p.id = $1
		`, productID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, productID)
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ repository.ProductRepository = (*ProductRepository)(nil)
