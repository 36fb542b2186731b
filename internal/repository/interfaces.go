// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/hitoshi/shopapi/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// List は全ユーザーを作成日時順に取得する。
	List(ctx context.Context) ([]*model.User, error)
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)
	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// Create はユーザーを作成する。メールアドレス重複時はmodel.ErrDuplicateEmailを返す。
	Create(ctx context.Context, user *model.User) error
	// Update はユーザーを更新する。存在しない場合はmodel.ErrNotFoundを返す。
	Update(ctx context.Context, user *model.User) error
	// DeleteByID は指定IDのユーザーを削除する。存在しない場合はmodel.ErrNotFoundを返す。
	DeleteByID(ctx context.Context, id string) error
}

// ProductRepository は商品データの永続化インターフェース。
type ProductRepository interface {
	List(ctx context.Context) ([]*model.Product, error)
	// FindByID は指定IDの商品を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Product, error)
	Create(ctx context.Context, product *model.Product) error
	// Update は商品を更新する。存在しない場合はmodel.ErrNotFoundを返す。
	Update(ctx context.Context, product *model.Product) error
	// DeleteByID は指定IDの商品を削除する。存在しない場合はmodel.ErrNotFoundを返す。
	DeleteByID(ctx context.Context, id string) error
}

// OrderRepository は注文データの永続化インターフェース。
type OrderRepository interface {
	List(ctx context.Context) ([]*model.Order, error)
	// FindByID は指定IDの注文を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Order, error)
	Create(ctx context.Context, order *model.Order) error
	// Update は注文を更新する。存在しない場合はmodel.ErrNotFoundを返す。
	Update(ctx context.Context, order *model.Order) error
	// DeleteByID は指定IDの注文を削除する。存在しない場合はmodel.ErrNotFoundを返す。
	DeleteByID(ctx context.Context, id string) error
}

// ContactRepository は連絡先データの永続化インターフェース。
type ContactRepository interface {
	List(ctx context.Context) ([]*model.Contact, error)
	// FindByID は指定IDの連絡先を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Contact, error)
	Create(ctx context.Context, contact *model.Contact) error
	// Update は連絡先を更新する。存在しない場合はmodel.ErrNotFoundを返す。
	Update(ctx context.Context, contact *model.Contact) error
	// DeleteByID は指定IDの連絡先を削除する。存在しない場合はmodel.ErrNotFoundを返す。
	DeleteByID(ctx context.Context, id string) error
}

// SessionRepository はセッションデータの永続化インターフェース。
// 実装は内部のロックを自身で管理し、複数goroutineから同時に呼び出せること。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れ・未存在の場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// Touch はセッションの有効期限を延長する。
	Touch(ctx context.Context, id string, expiresAt time.Time) error
	// DeleteByID は指定IDのセッションを削除する。戻った時点でセッションは使用不能になる。
	DeleteByID(ctx context.Context, id string) error
	// DeleteExpired は期限切れセッションを削除し、削除件数を返す。
	DeleteExpired(ctx context.Context) (int64, error)
}
