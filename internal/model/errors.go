package model

import (
	"errors"
	"fmt"
)

// ErrNotFound は更新・削除対象のレコードが存在しない場合にリポジトリが返すエラー。
var ErrNotFound = errors.New("record not found")

// ErrDuplicateEmail は一意制約に違反するメールアドレスが指定された場合のエラー。
var ErrDuplicateEmail = errors.New("email already in use")

// APIError はハンドラーがクライアントに返すエラーを表す。
// レスポンスボディは {"message": Message} の形式になる。
type APIError struct {
	Code    string // エラーコード（HTTPステータスの決定に使用）
	Message string // クライアント向けメッセージ
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeMissingFields   = "MISSING_FIELDS"
	ErrCodeInvalidRequest  = "INVALID_REQUEST"
	ErrCodeInvalidID       = "INVALID_ID"
	ErrCodeInvalidCategory = "INVALID_CATEGORY"
	ErrCodeInvalidStatus   = "INVALID_STATUS"
	ErrCodeInvalidValue    = "INVALID_VALUE"
	ErrCodeEmailInUse      = "EMAIL_IN_USE"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// NewMissingFieldsError は必須フィールド欠落エラーを生成する。
func NewMissingFieldsError(message string) *APIError {
	if message == "" {
		message = "Missing required fields"
	}
	return &APIError{Code: ErrCodeMissingFields, Message: message}
}

// NewInvalidRequestError はリクエストボディの解析失敗エラーを生成する。
func NewInvalidRequestError() *APIError {
	return &APIError{Code: ErrCodeInvalidRequest, Message: "Invalid request body"}
}

// NewInvalidIDError はID形式エラーを生成する。
func NewInvalidIDError(resource string) *APIError {
	return &APIError{Code: ErrCodeInvalidID, Message: fmt.Sprintf("Invalid %s ID format", resource)}
}

// NewInvalidCategoryError は未定義カテゴリのエラーを生成する。
func NewInvalidCategoryError(category string) *APIError {
	return &APIError{
		Code:    ErrCodeInvalidCategory,
		Message: fmt.Sprintf("Invalid category: %s", category),
	}
}

// NewInvalidStatusError は未定義の注文ステータスのエラーを生成する。
func NewInvalidStatusError(status string) *APIError {
	return &APIError{
		Code:    ErrCodeInvalidStatus,
		Message: fmt.Sprintf("Invalid order status: %s", status),
	}
}

// NewInvalidValueError は負数など値域外のエラーを生成する。
func NewInvalidValueError(message string) *APIError {
	return &APIError{Code: ErrCodeInvalidValue, Message: message}
}

// NewEmailInUseError はメールアドレス重複エラーを生成する。
func NewEmailInUseError() *APIError {
	return &APIError{Code: ErrCodeEmailInUse, Message: "Email already in use"}
}

// NewNotFoundError はリソース未検出エラーを生成する。
// resourceは "User" のように先頭大文字で渡す。
func NewNotFoundError(resource string) *APIError {
	return &APIError{Code: ErrCodeNotFound, Message: resource + " not found"}
}
