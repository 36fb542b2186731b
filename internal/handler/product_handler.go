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

// ProductHandler は商品管理のHTTPハンドラー。
// 参照系は認証不要、更新系はルーター側でクレデンシャル検証を挟む。
type ProductHandler struct {
	repo      repository.ProductRepository
	sanitizer TextSanitizer
}

// NewProductHandler はProductHandlerを生成する。
func NewProductHandler(repo repository.ProductRepository, sanitizer TextSanitizer) *ProductHandler {
	return &ProductHandler{
		repo:      repo,
		sanitizer: sanitizer,
	}
}

type productRequest struct {
	Name     *string  `json:"name"`
	Price    *float64 `json:"price"`
	Category *string  `json:"category"`
	Stock    *int     `json:"stock"`
}

type productResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Category  string    `json:"category"`
	Stock     int       `json:"stock"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// List は全商品を返す。
// GET /products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.repo.List(r.Context())
	if err != nil {
		writeStoreError(w, err, "Product", "Error fetching products")
		return
	}

	resp := make([]productResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, toProductResponse(p))
	}
	middleware.WriteJSON(w, http.StatusOK, resp)
}

// Get は指定IDの商品を返す。
// GET /products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "product")
	if !ok {
		return
	}

	product, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "Product", "Error fetching product")
		return
	}
	if product == nil {
		middleware.WriteErrorResponse(w, model.NewNotFoundError("Product"))
		return
	}

	middleware.WriteJSON(w, http.StatusOK, toProductResponse(product))
}

// Create は商品を作成する。name・price・categoryは必須。
// POST /products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	name := sanitize(h.sanitizer, deref(req.Name))
	if name == "" || req.Price == nil || deref(req.Category) == "" {
		middleware.WriteErrorResponse(w, model.NewMissingFieldsError("All fields required"))
		return
	}

	now := time.Now()
	product := &model.Product{
		ID:        uuid.New().String(),
		Name:      name,
		Price:     *req.Price,
		Category:  model.ProductCategory(*req.Category),
		Stock:     deref(req.Stock),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if apiErr := validateProduct(product); apiErr != nil {
		middleware.WriteErrorResponse(w, apiErr)
		return
	}

	if err := h.repo.Create(r.Context(), product); err != nil {
		writeStoreError(w, err, "Product", "Error creating product")
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, toProductResponse(product))
}

// Update は商品を部分更新する。
// PUT /products/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "product")
	if !ok {
		return
	}

	var req productRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	product, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "Product", "Error updating product")
		return
	}
	if product == nil {
		middleware.WriteErrorResponse(w, model.NewNotFoundError("Product"))
		return
	}

	if req.Name != nil {
		product.Name = sanitize(h.sanitizer, *req.Name)
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Category != nil {
		product.Category = model.ProductCategory(*req.Category)
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if product.Name == "" {
		middleware.WriteErrorResponse(w, model.NewMissingFieldsError("All fields required"))
		return
	}
	if apiErr := validateProduct(product); apiErr != nil {
		middleware.WriteErrorResponse(w, apiErr)
		return
	}
	product.UpdatedAt = time.Now()

	if err := h.repo.Update(r.Context(), product); err != nil {
		writeStoreError(w, err, "Product", "Error updating product")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, toProductResponse(product))
}

// Delete は指定IDの商品を削除する。
// DELETE /products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "product")
	if !ok {
		return
	}

	if err := h.repo.DeleteByID(r.Context(), id); err != nil {
		writeStoreError(w, err, "Product", "Error deleting product")
		return
	}

	middleware.WriteMessage(w, http.StatusOK, "Product deleted successfully")
}

// PublicRoutes は認証不要の参照系ルーティングを登録する。
func (h *ProductHandler) PublicRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
}

// ProtectedRoutes は更新系ルーティングを登録する。
func (h *ProductHandler) ProtectedRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// validateProduct はストアのCHECK制約と同じ値域を検証する。
func validateProduct(p *model.Product) *model.APIError {
	if !p.Category.Valid() {
		return model.NewInvalidCategoryError(string(p.Category))
	}
	if p.Price < 0 {
		return model.NewInvalidValueError("Price must be a non-negative number")
	}
	if p.Stock < 0 {
		return model.NewInvalidValueError("Stock quantity must be a non-negative number")
	}
	return nil
}

func toProductResponse(p *model.Product) productResponse {
	return productResponse{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Category:  string(p.Category),
		Stock:     p.Stock,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
