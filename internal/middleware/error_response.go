package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hitoshi/shopapi/internal/model"
)

// MessageBody はAPIレスポンスの統一フォーマット。
// NewTokenは期限切れクレデンシャルを再発行した場合のみ含まれる。
type MessageBody struct {
	Message  string `json:"message"`
	NewToken string `json:"newToken,omitempty"`
}

// WriteJSON は任意の値をJSONレスポンスとして書き込む。
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// WriteMessage は {"message": ...} 形式のレスポンスを書き込む。
func WriteMessage(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, MessageBody{Message: message})
}

// StatusForAPIError はエラーコードに対応するHTTPステータスを返す。
func StatusForAPIError(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeMissingFields,
		model.ErrCodeInvalidRequest,
		model.ErrCodeInvalidID,
		model.ErrCodeInvalidCategory,
		model.ErrCodeInvalidStatus,
		model.ErrCodeInvalidValue,
		model.ErrCodeEmailInUse:
		return http.StatusBadRequest
	case model.ErrCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// WriteErrorResponse はAPIErrorをステータスコード付きで書き込む。
func WriteErrorResponse(w http.ResponseWriter, apiErr *model.APIError) {
	WriteMessage(w, StatusForAPIError(apiErr), apiErr.Message)
}

// WriteInternalServerError は内部サーバーエラーの統一レスポンスを書き込む。
// 詳細はログのみに記録し、クライアントには一般的なメッセージを返す。
func WriteInternalServerError(w http.ResponseWriter) {
	WriteMessage(w, http.StatusInternalServerError, "Internal server error")
}
