package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/shopapi/internal/model"
	"github.com/lib/pq"
)

const orderColumns = `id, product_ids, user_id, quantity, total_price, status, created_at, updated_at`

// PostgresOrderRepo はPostgreSQLを使用した注文リポジトリ。
// 商品IDはUUID配列カラムに保持し、外部キー制約は張らない。
type PostgresOrderRepo struct {
	db *sql.DB
}

// NewPostgresOrderRepo はPostgresOrderRepoを生成する。
func NewPostgresOrderRepo(db *sql.DB) *PostgresOrderRepo {
	return &PostgresOrderRepo{db: db}
}

func scanOrder(s rowScanner) (*model.Order, error) {
	o := &model.Order{}
	var productIDs pq.StringArray
	var status string
	if err := s.Scan(&o.ID, &productIDs, &o.UserID, &o.Quantity, &o.TotalPrice, &status, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.ProductIDs = []string(productIDs)
	if o.ProductIDs == nil {
		o.ProductIDs = []string{}
	}
	o.Status = model.OrderStatus(status)
	return o, nil
}

// List は全注文を作成日時順に取得する。
func (r *PostgresOrderRepo) List(ctx context.Context) ([]*model.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*model.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}
	return orders, nil
}

// FindByID は指定IDの注文を取得する。見つからない場合はnilを返す。
func (r *PostgresOrderRepo) FindByID(ctx context.Context, id string) (*model.Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`,
		id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}
	return o, nil
}

// Create は注文を作成する。
func (r *PostgresOrderRepo) Create(ctx context.Context, o *model.Order) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO orders (id, product_ids, user_id, quantity, total_price, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		o.ID, pq.Array(o.ProductIDs), o.UserID, o.Quantity, o.TotalPrice, string(o.Status), o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

// Update は注文を更新する。存在しない場合はmodel.ErrNotFoundを返す。
func (r *PostgresOrderRepo) Update(ctx context.Context, o *model.Order) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE orders
		 SET product_ids = $2, user_id = $3, quantity = $4, total_price = $5, status = $6, updated_at = $7
		 WHERE id = $1`,
		o.ID, pq.Array(o.ProductIDs), o.UserID, o.Quantity, o.TotalPrice, string(o.Status), o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	return requireAffected(result)
}

// DeleteByID は指定IDの注文を削除する。
func (r *PostgresOrderRepo) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	return requireAffected(result)
}

// compile-time interface check
var _ OrderRepository = (*PostgresOrderRepo)(nil)
