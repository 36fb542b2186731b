package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hitoshi/shopapi/internal/middleware"
	"github.com/hitoshi/shopapi/internal/model"
	"github.com/hitoshi/shopapi/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost はパスワードハッシュのコスト。
const bcryptCost = 10

// UserHandler はユーザー管理のHTTPハンドラー。
type UserHandler struct {
	repo      repository.UserRepository
	sanitizer TextSanitizer
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(repo repository.UserRepository, sanitizer TextSanitizer) *UserHandler {
	return &UserHandler{
		repo:      repo,
		sanitizer: sanitizer,
	}
}

// userRequest はユーザー作成・更新リクエストのボディ。
// 更新時は指定されたフィールドのみ反映する。
type userRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// userResponse はパスワードを含まないユーザー情報。
type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type userEnvelope struct {
	User userResponse `json:"user"`
}

// List は全ユーザーを返す。
// GET /users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.repo.List(r.Context())
	if err != nil {
		writeStoreError(w, err, "User", "Error fetching users")
		return
	}
	if len(users) == 0 {
		middleware.WriteErrorResponse(w, &model.APIError{Code: model.ErrCodeNotFound, Message: "No users found"})
		return
	}

	resp := make([]userResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, toUserResponse(u))
	}
	middleware.WriteJSON(w, http.StatusOK, resp)
}

// Get は指定IDのユーザーを返す。
// GET /users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "user")
	if !ok {
		return
	}

	user, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "User", "Error fetching user")
		return
	}
	if user == nil {
		middleware.WriteErrorResponse(w, model.NewNotFoundError("User"))
		return
	}

	middleware.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

// Create はユーザーを作成する。
// POST /users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	name := sanitize(h.sanitizer, deref(req.Name))
	email := normalizeEmail(deref(req.Email))
	if name == "" || email == "" || deref(req.Password) == "" {
		middleware.WriteErrorResponse(w, model.NewMissingFieldsError(""))
		return
	}

	hash, err := hashPassword(*req.Password)
	if err != nil {
		slog.Error("failed to hash password", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := h.repo.Create(r.Context(), user); err != nil {
		if errors.Is(err, model.ErrDuplicateEmail) {
			middleware.WriteErrorResponse(w, model.NewEmailInUseError())
			return
		}
		writeStoreError(w, err, "User", "Server error")
		return
	}

	slog.Info("user created", slog.String("user_id", user.ID))
	middleware.WriteJSON(w, http.StatusCreated, userEnvelope{User: toUserResponse(user)})
}

// Update はユーザーを部分更新する。パスワードが指定された場合は再ハッシュする。
// PUT /users/{id}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "user")
	if !ok {
		return
	}

	var req userRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	user, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "User", "Server error")
		return
	}
	if user == nil {
		middleware.WriteErrorResponse(w, model.NewNotFoundError("User"))
		return
	}

	if req.Name != nil {
		user.Name = sanitize(h.sanitizer, *req.Name)
	}
	if req.Email != nil {
		user.Email = normalizeEmail(*req.Email)
	}
	if user.Name == "" || user.Email == "" {
		middleware.WriteErrorResponse(w, model.NewMissingFieldsError(""))
		return
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := hashPassword(*req.Password)
		if err != nil {
			slog.Error("failed to hash password", slog.String("error", err.Error()))
			middleware.WriteInternalServerError(w)
			return
		}
		user.PasswordHash = hash
	}
	user.UpdatedAt = time.Now()

	if err := h.repo.Update(r.Context(), user); err != nil {
		if errors.Is(err, model.ErrDuplicateEmail) {
			middleware.WriteErrorResponse(w, model.NewEmailInUseError())
			return
		}
		writeStoreError(w, err, "User", "Server error")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, userEnvelope{User: toUserResponse(user)})
}

// Delete は指定IDのユーザーを削除する。
// DELETE /users/{id}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "user")
	if !ok {
		return
	}

	if err := h.repo.DeleteByID(r.Context(), id); err != nil {
		writeStoreError(w, err, "User", "Internal Server Error")
		return
	}

	middleware.WriteMessage(w, http.StatusOK, "User deleted successfully")
}

// Routes はユーザー管理のルーティングをrに登録する。
func (h *UserHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
