package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/shopapi/internal/model"
)

const contactColumns = `id, first_name, last_name, email, favorite_color, birthday, created_at, updated_at`

// PostgresContactRepo はPostgreSQLを使用した連絡先リポジトリ。
type PostgresContactRepo struct {
	db *sql.DB
}

// NewPostgresContactRepo はPostgresContactRepoを生成する。
func NewPostgresContactRepo(db *sql.DB) *PostgresContactRepo {
	return &PostgresContactRepo{db: db}
}

func scanContact(s rowScanner) (*model.Contact, error) {
	c := &model.Contact{}
	if err := s.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.FavoriteColor, &c.Birthday, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

// List は全連絡先を作成日時順に取得する。
func (r *PostgresContactRepo) List(ctx context.Context) ([]*model.Contact, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+contactColumns+` FROM contacts ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	contacts := []*model.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contacts: %w", err)
	}
	return contacts, nil
}

// FindByID は指定IDの連絡先を取得する。見つからない場合はnilを返す。
func (r *PostgresContactRepo) FindByID(ctx context.Context, id string) (*model.Contact, error) {
	c, err := scanContact(r.db.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE id = $1`,
		id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find contact by ID: %w", err)
	}
	return c, nil
}

// Create は連絡先を作成する。
func (r *PostgresContactRepo) Create(ctx context.Context, c *model.Contact) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO contacts (id, first_name, last_name, email, favorite_color, birthday, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.FirstName, c.LastName, c.Email, c.FavoriteColor, c.Birthday, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert contact: %w", err)
	}
	return nil
}

// Update は連絡先を更新する。存在しない場合はmodel.ErrNotFoundを返す。
func (r *PostgresContactRepo) Update(ctx context.Context, c *model.Contact) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE contacts
		 SET first_name = $2, last_name = $3, email = $4, favorite_color = $5, birthday = $6, updated_at = $7
		 WHERE id = $1`,
		c.ID, c.FirstName, c.LastName, c.Email, c.FavoriteColor, c.Birthday, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}
	return requireAffected(result)
}

// DeleteByID は指定IDの連絡先を削除する。
func (r *PostgresContactRepo) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	return requireAffected(result)
}

// compile-time interface check
var _ ContactRepository = (*PostgresContactRepo)(nil)
