package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hitoshi/shopapi/internal/middleware"
	"github.com/hitoshi/shopapi/internal/model"
	"github.com/hitoshi/shopapi/internal/repository"
)

// ContactHandler は連絡先管理のHTTPハンドラー。全ルート認証不要。
type ContactHandler struct {
	repo      repository.ContactRepository
	sanitizer TextSanitizer
}

// NewContactHandler はContactHandlerを生成する。
func NewContactHandler(repo repository.ContactRepository, sanitizer TextSanitizer) *ContactHandler {
	return &ContactHandler{
		repo:      repo,
		sanitizer: sanitizer,
	}
}

type contactRequest struct {
	FirstName     *string `json:"firstName"`
	LastName      *string `json:"lastName"`
	Email         *string `json:"email"`
	FavoriteColor *string `json:"favoriteColor"`
	Birthday      *string `json:"birthday"`
}

type contactResponse struct {
	ID            string    `json:"id"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	Email         string    `json:"email"`
	FavoriteColor string    `json:"favoriteColor"`
	Birthday      string    `json:"birthday"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// List は全連絡先を返す。
// GET /contacts
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.repo.List(r.Context())
	if err != nil {
		writeStoreError(w, err, "Contact", "Error fetching contacts")
		return
	}

	resp := make([]contactResponse, 0, len(contacts))
	for _, c := range contacts {
		resp = append(resp, toContactResponse(c))
	}
	middleware.WriteJSON(w, http.StatusOK, resp)
}

// Get は指定IDの連絡先を返す。
// GET /contacts/{id}
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "contact")
	if !ok {
		return
	}

	contact, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "Contact", "Error fetching contact")
		return
	}
	if contact == nil {
		middleware.WriteErrorResponse(w, model.NewNotFoundError("Contact"))
		return
	}

	middleware.WriteJSON(w, http.StatusOK, toContactResponse(contact))
}

// Create は連絡先を作成する。firstName・lastName・emailは必須。
// POST /contacts
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	now := time.Now()
	contact := &model.Contact{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	h.apply(contact, &req)
	if contact.FirstName == "" || contact.LastName == "" || contact.Email == "" {
		middleware.WriteErrorResponse(w, model.NewMissingFieldsError(""))
		return
	}

	if err := h.repo.Create(r.Context(), contact); err != nil {
		writeStoreError(w, err, "Contact", "Error creating contact")
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, toContactResponse(contact))
}

// Update は連絡先を部分更新する。
// PUT /contacts/{id}
func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "contact")
	if !ok {
		return
	}

	var req contactRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	contact, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "Contact", "Error updating contact")
		return
	}
	if contact == nil {
		middleware.WriteErrorResponse(w, model.NewNotFoundError("Contact"))
		return
	}

	h.apply(contact, &req)
	if contact.FirstName == "" || contact.LastName == "" || contact.Email == "" {
		middleware.WriteErrorResponse(w, model.NewMissingFieldsError(""))
		return
	}
	contact.UpdatedAt = time.Now()

	if err := h.repo.Update(r.Context(), contact); err != nil {
		writeStoreError(w, err, "Contact", "Error updating contact")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, toContactResponse(contact))
}

// Delete は指定IDの連絡先を削除する。
// DELETE /contacts/{id}
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "contact")
	if !ok {
		return
	}

	if err := h.repo.DeleteByID(r.Context(), id); err != nil {
		writeStoreError(w, err, "Contact", "Error deleting contact")
		return
	}

	middleware.WriteMessage(w, http.StatusOK, "Contact deleted")
}

// Routes は連絡先管理のルーティングをrに登録する。
func (h *ContactHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// apply はリクエストで指定されたフィールドのみをcに反映する。
func (h *ContactHandler) apply(c *model.Contact, req *contactRequest) {
	if req.FirstName != nil {
		c.FirstName = sanitize(h.sanitizer, *req.FirstName)
	}
	if req.LastName != nil {
		c.LastName = sanitize(h.sanitizer, *req.LastName)
	}
	if req.Email != nil {
		c.Email = normalizeEmail(*req.Email)
	}
	if req.FavoriteColor != nil {
		c.FavoriteColor = sanitize(h.sanitizer, *req.FavoriteColor)
	}
	if req.Birthday != nil {
		c.Birthday = sanitize(h.sanitizer, *req.Birthday)
	}
}

func toContactResponse(c *model.Contact) contactResponse {
	return contactResponse{
		ID:            c.ID,
		FirstName:     c.FirstName,
		LastName:      c.LastName,
		Email:         c.Email,
		FavoriteColor: c.FavoriteColor,
		Birthday:      c.Birthday,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}
