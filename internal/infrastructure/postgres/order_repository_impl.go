package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/marketplace-api/internal/domain/entity"
	"github.com/oksasatya/marketplace-api/internal/domain/repository"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// lockProducts row-locks the products in id order so concurrent checkouts
// touching the same rows queue instead of deadlocking.
func lockProducts(ctx context.Context, tx pgx.Tx, ids []string) (map[string]*entity.Product, error) {
	out := make(map[string]*entity.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := tx.Query(ctx, `
		SELECT id, name, price, images, seller_id, stock, status, is_active
		FROM products
		WHERE id = ANY($1::uuid[])
		ORDER BY id
		FOR UPDATE
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		p := &entity.Product{}
		var status string
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Images, &p.SellerID, &p.Stock, &status, &p.IsActive); err != nil {
			return nil, err
		}
		p.Status = entity.ApprovalStatus(status)
		out[p.ID] = p
	}
	return out, rows.Err()
}

func (r *OrderRepository) Place(ctx context.Context, productIDs []string, build repository.BuildOrderFunc) (*entity.Order, error) {
	var placed *entity.Order

	err := pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		products, err := lockProducts(ctx, tx, validIDs(productIDs))
		if err != nil {
			return err
		}

		o, err := build(products)
		if err != nil {
			return err
		}
		if err := o.CheckTotal(); err != nil {
			return err
		}

		row := tx.QueryRow(ctx, `
			INSERT INTO orders (order_number, buyer_id, total_amount, shipping_address,
			                    payment_method, payment_status, order_status, payment_reference)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id, created_at, updated_at
		`, o.OrderNumber, o.BuyerID, o.TotalAmount, o.ShippingAddress,
			string(o.PaymentMethod), string(o.PaymentStatus), string(o.OrderStatus), o.PaymentReference)
		if err := row.Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return mapErr(err)
		}

		for i, it := range o.Items {
			if _, err := tx.Exec(ctx, `
				INSERT INTO order_items (order_id, position, product_id, quantity, price, seller_id)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, o.ID, i, it.ProductID, it.Quantity, it.Price, it.SellerID); err != nil {
				return mapErr(err)
			}

			res, err := tx.Exec(ctx, `
				UPDATE products SET stock = stock - $1, updated_at = now()
				WHERE id = $2 AND stock >= $1
			`, it.Quantity, it.ProductID)
			if err != nil {
				return err
			}
			if res.RowsAffected() == 0 {
				return repository.ErrStockConflict
			}
		}

		placed = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return placed, nil
}

const orderColumns = `id, order_number, buyer_id, total_amount, shipping_address, payment_method,
	payment_status, order_status, payment_reference, created_at, updated_at`

func scanOrder(row pgx.Row) (*entity.Order, error) {
	o := &entity.Order{}
	var method, ps, os string
	if err := row.Scan(&o.ID, &o.OrderNumber, &o.BuyerID, &o.TotalAmount, &o.ShippingAddress, &method,
		&ps, &os, &o.PaymentReference, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	o.PaymentMethod = entity.PaymentMethod(method)
	o.PaymentStatus = entity.PaymentStatus(ps)
	o.OrderStatus = entity.OrderStatus(os)
	o.Items = []entity.OrderItem{}
	return o, nil
}

func (r *OrderRepository) ListByBuyer(ctx context.Context, buyerID string) ([]entity.Order, error) {
	if !isUUID(buyerID) {
		return []entity.Order{}, nil
	}

	rows, err := r.pool.Query(ctx, `SELECT `+orderColumns+` FROM orders WHERE buyer_id = $1 ORDER BY created_at DESC`, buyerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []entity.Order{}
	ids := []string{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	items, err := r.itemsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if it, ok := items[orders[i].ID]; ok {
			orders[i].Items = it
		}
	}
	return orders, nil
}

// itemsFor loads line items for the given orders, joined with the product's
// current name and images.
func (r *OrderRepository) itemsFor(ctx context.Context, orderIDs []string) (map[string][]entity.OrderItem, error) {
	out := make(map[string][]entity.OrderItem, len(orderIDs))
	if len(orderIDs) == 0 {
		return out, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT oi.order_id, oi.product_id, p.name, p.images, oi.quantity, oi.price, oi.seller_id
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ANY($1::uuid[])
		ORDER BY oi.order_id, oi.position
	`, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var orderID string
		var it entity.OrderItem
		if err := rows.Scan(&orderID, &it.ProductID, &it.ProductName, &it.ProductImages, &it.Quantity, &it.Price, &it.SellerID); err != nil {
			return nil, err
		}
		out[orderID] = append(out[orderID], it)
	}
	return out, rows.Err()
}

func (r *OrderRepository) GetByNumber(ctx context.Context, orderNumber string) (*entity.Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_number = $1`, orderNumber))
	if err != nil {
		return nil, err
	}

	items, err := r.itemsFor(ctx, []string{o.ID})
	if err != nil {
		return nil, err
	}
	if it, ok := items[o.ID]; ok {
		o.Items = it
	}
	return o, nil
}

func (r *OrderRepository) UpdatePayment(ctx context.Context, orderNumber string, ps entity.PaymentStatus, os entity.OrderStatus, reference string) (bool, error) {
	res, err := r.pool.Exec(ctx, `
		UPDATE orders
		SET payment_status = $2,
		    order_status = COALESCE(NULLIF($3::text, ''), order_status),
		    payment_reference = CASE WHEN $4::text = '' THEN payment_reference ELSE $4::text END,
		    updated_at = now()
		WHERE order_number = $1 AND payment_status <> $2
	`, orderNumber, string(ps), string(os), reference)
	if err != nil {
		return false, err
	}
	if res.RowsAffected() > 0 {
		return true, nil
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE order_number = $1)`, orderNumber).Scan(&exists); err != nil {
		return false, err
	}
	if !exists {
		return false, repository.ErrNotFound
	}
	return false, nil
}

func (r *OrderRepository) Count(ctx context.Context, status entity.OrderStatus) (int64, error) {
	var n int64
	var err error
	if status == "" {
		err = r.pool.QueryRow(ctx, `SELECT count(*) FROM orders`).Scan(&n)
	} else {
		err = r.pool.QueryRow(ctx, `SELECT count(*) FROM orders WHERE order_status = $1`, string(status)).Scan(&n)
	}
	return n, err
}

var _ repository.OrderRepository = (*OrderRepository)(nil)
