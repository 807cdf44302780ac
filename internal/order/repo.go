package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/mvalderas/tienda-api/internal/product"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type Repository interface {
	Place(ctx context.Context, userID string, items []CreateOrderItem) (*Order, error)
	GetByID(ctx context.Context, id string) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	ListAll(ctx context.Context) ([]Order, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

// Place creates the order and its items in a single transaction. Stock is
// taken with a conditional decrement, so two concurrent orders can never both
// pass the check and oversell a product; the first failing line rolls
// everything back.
func (r *PGRepo) Place(ctx context.Context, userID string, reqs []CreateOrderItem) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	o := &Order{
		ID:     uuid.NewString(),
		UserID: userID,
		Status: StatusPending,
		Total:  decimal.Zero,
	}

	for _, req := range reqs {
		var name, priceStr string
		err := tx.QueryRow(ctx, `
			SELECT name, price::text FROM products WHERE id=$1
		`, req.ProductID).Scan(&name, &priceStr)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", product.ErrNotFound, req.ProductID)
		}
		if err != nil {
			return nil, err
		}
		price, err := decimal.NewFromString(priceStr)
		if err != nil {
			return nil, err
		}

		tag, err := tx.Exec(ctx, `
			UPDATE products SET stock = stock - $2, updated_at = NOW()
			WHERE id = $1 AND stock >= $2
		`, req.ProductID, req.Quantity)
		if err != nil {
			return nil, err
		}
		if tag.RowsAffected() == 0 {
			return nil, fmt.Errorf("%w for product: %s", ErrInsufficientStock, name)
		}

		item := Item{
			ID:        uuid.NewString(),
			OrderID:   o.ID,
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
			Price:     price,
			Product:   &ItemProduct{ID: req.ProductID, Name: name},
		}
		o.Total = o.Total.Add(price.Mul(decimal.NewFromInt(int64(req.Quantity))))
		o.Items = append(o.Items, item)
	}

	if err := tx.QueryRow(ctx, `
		INSERT INTO orders (id, user_id, status, total, created_at, updated_at)
		VALUES ($1,$2,$3,$4,NOW(),NOW())
		RETURNING created_at, updated_at
	`, o.ID, o.UserID, o.Status, o.Total.StringFixed(2)).Scan(&o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}

	for _, it := range o.Items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, product_id, quantity, price, created_at)
			VALUES ($1,$2,$3,$4,$5,NOW())
		`, it.ID, it.OrderID, it.ProductID, it.Quantity, it.Price.StringFixed(2)); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	o, err := scanOrder(r.db.QueryRow(ctx, `
		SELECT id, user_id, status, total::text, created_at, updated_at
		FROM orders WHERE id=$1
	`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	itemsByOrder, err := r.itemsForOrders(ctx, []string{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = itemsByOrder[o.ID]
	return o, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, status, total::text, created_at, updated_at
		FROM orders WHERE user_id=$1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	orders, err := collectOrders(rows)
	if err != nil {
		return nil, err
	}
	return r.attachItems(ctx, orders)
}

func (r *PGRepo) ListAll(ctx context.Context) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT o.id, o.user_id, o.status, o.total::text, o.created_at, o.updated_at,
		       u.email, u.role
		FROM orders o
		JOIN users u ON u.id = o.user_id
		ORDER BY o.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		var total, email, role string
		if err := rows.Scan(&o.ID, &o.UserID, &o.Status, &total, &o.CreatedAt, &o.UpdatedAt, &email, &role); err != nil {
			return nil, err
		}
		if o.Total, err = decimal.NewFromString(total); err != nil {
			return nil, err
		}
		o.User = &UserSummary{ID: o.UserID, Email: email, Role: role}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return r.attachItems(ctx, orders)
}

func (r *PGRepo) UpdateStatus(ctx context.Context, id, status string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1
	`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	var total string
	if err := row.Scan(&o.ID, &o.UserID, &o.Status, &total, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	var err error
	o.Total, err = decimal.NewFromString(total)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func collectOrders(rows pgx.Rows) ([]Order, error) {
	defer rows.Close()
	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func (r *PGRepo) attachItems(ctx context.Context, orders []Order) ([]Order, error) {
	if len(orders) == 0 {
		return orders, nil
	}
	ids := make([]string, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	byOrder, err := r.itemsForOrders(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = byOrder[orders[i].ID]
	}
	return orders, nil
}

// itemsForOrders loads the items of the given orders with the referenced
// product joined in.
func (r *PGRepo) itemsForOrders(ctx context.Context, orderIDs []string) (map[string][]Item, error) {
	rows, err := r.db.Query(ctx, `
		SELECT i.id, i.order_id, i.product_id, i.quantity, i.price::text,
		       p.name, p.image_url, p.category
		FROM order_items i
		JOIN products p ON p.id = i.product_id
		WHERE i.order_id = ANY($1)
		ORDER BY i.created_at
	`, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]Item)
	for rows.Next() {
		var it Item
		var price string
		prod := ItemProduct{}
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &price,
			&prod.Name, &prod.ImageURL, &prod.Category); err != nil {
			return nil, err
		}
		if it.Price, err = decimal.NewFromString(price); err != nil {
			return nil, err
		}
		prod.ID = it.ProductID
		it.Product = &prod
		out[it.OrderID] = append(out[it.OrderID], it)
	}
	return out, rows.Err()
}
