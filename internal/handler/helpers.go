package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hitoshi/shopapi/internal/middleware"
	"github.com/hitoshi/shopapi/internal/model"
)

// maxRequestBodySize はJSONリクエストボディの上限（1MB）。
const maxRequestBodySize = 1 << 20

// TextSanitizer は自由入力テキストを保存前に無害化する。
// security.TextSanitizerが実装する。
type TextSanitizer interface {
	Sanitize(input string) string
}

// decodeJSONBody はリクエストボディをdstにデコードする。
// 失敗した場合は400を書き込みfalseを返す。
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		middleware.WriteErrorResponse(w, model.NewInvalidRequestError())
		return false
	}
	return true
}

// parseIDParam はURLパスの{id}をUUIDとして検証する。
// 形式が不正な場合は400を書き込みfalseを返す。
func parseIDParam(w http.ResponseWriter, r *http.Request, resource string) (string, bool) {
	id := chi.URLParam(r, "id")
	if !isValidID(id) {
		middleware.WriteErrorResponse(w, model.NewInvalidIDError(resource))
		return "", false
	}
	return id, true
}

func isValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// writeStoreError はストアのエラーを記録し、ステータス付きレスポンスに変換する。
// ErrNotFoundは404、それ以外は500として扱う。
func writeStoreError(w http.ResponseWriter, err error, resource, message string) {
	if errors.Is(err, model.ErrNotFound) {
		middleware.WriteErrorResponse(w, model.NewNotFoundError(resource))
		return
	}
	slog.Error("store operation failed",
		slog.String("resource", resource),
		slog.String("error", err.Error()),
	)
	middleware.WriteMessage(w, http.StatusInternalServerError, message)
}

// sanitize はsanitizerがnilの場合は入力をそのまま返す。
func sanitize(s TextSanitizer, input string) string {
	if s == nil {
		return input
	}
	return s.Sanitize(input)
}
