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

// OrderHandler は注文管理のHTTPハンドラー。
// 商品IDとユーザーIDは形式のみ検証し、参照先の存在は確認しない。
type OrderHandler struct {
	repo repository.OrderRepository
}

// NewOrderHandler はOrderHandlerを生成する。
func NewOrderHandler(repo repository.OrderRepository) *OrderHandler {
	return &OrderHandler{repo: repo}
}

type orderRequest struct {
	Products   *[]string `json:"products"`
	User       *string   `json:"user"`
	Quantity   *int      `json:"quantity"`
	TotalPrice *float64  `json:"totalPrice"`
	Status     *string   `json:"status"`
}

type orderResponse struct {
	ID         string    `json:"id"`
	Products   []string  `json:"products"`
	User       string    `json:"user"`
	Quantity   int       `json:"quantity"`
	TotalPrice float64   `json:"totalPrice"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// List は全注文を返す。
// GET /orders
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.repo.List(r.Context())
	if err != nil {
		writeStoreError(w, err, "Order", "Error fetching orders")
		return
	}

	resp := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, toOrderResponse(o))
	}
	middleware.WriteJSON(w, http.StatusOK, resp)
}

// Get は指定IDの注文を返す。
// GET /orders/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "order")
	if !ok {
		return
	}

	order, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "Order", "Error fetching order")
		return
	}
	if order == nil {
		middleware.WriteErrorResponse(w, model.NewNotFoundError("Order"))
		return
	}

	middleware.WriteJSON(w, http.StatusOK, toOrderResponse(order))
}

// Create は注文を作成する。statusを省略した場合はPendingになる。
// POST /orders
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if len(deref(req.Products)) == 0 || deref(req.User) == "" || req.Quantity == nil || req.TotalPrice == nil {
		middleware.WriteErrorResponse(w, model.NewMissingFieldsError(""))
		return
	}

	now := time.Now()
	order := &model.Order{
		ID:         uuid.New().String(),
		ProductIDs: *req.Products,
		UserID:     *req.User,
		Quantity:   *req.Quantity,
		TotalPrice: *req.TotalPrice,
		Status:     model.OrderStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if req.Status != nil {
		order.Status = model.OrderStatus(*req.Status)
	}
	if apiErr := validateOrder(order); apiErr != nil {
		middleware.WriteErrorResponse(w, apiErr)
		return
	}

	if err := h.repo.Create(r.Context(), order); err != nil {
		writeStoreError(w, err, "Order", "Error creating order")
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, toOrderResponse(order))
}

// Update は注文を部分更新する。
// PUT /orders/{id}
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "order")
	if !ok {
		return
	}

	var req orderRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	order, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "Order", "Error updating order")
		return
	}
	if order == nil {
		middleware.WriteErrorResponse(w, model.NewNotFoundError("Order"))
		return
	}

	if req.Products != nil {
		order.ProductIDs = *req.Products
	}
	if req.User != nil {
		order.UserID = *req.User
	}
	if req.Quantity != nil {
		order.Quantity = *req.Quantity
	}
	if req.TotalPrice != nil {
		order.TotalPrice = *req.TotalPrice
	}
	if req.Status != nil {
		order.Status = model.OrderStatus(*req.Status)
	}
	if len(order.ProductIDs) == 0 || order.UserID == "" {
		middleware.WriteErrorResponse(w, model.NewMissingFieldsError(""))
		return
	}
	if apiErr := validateOrder(order); apiErr != nil {
		middleware.WriteErrorResponse(w, apiErr)
		return
	}
	order.UpdatedAt = time.Now()

	if err := h.repo.Update(r.Context(), order); err != nil {
		writeStoreError(w, err, "Order", "Error updating order")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, toOrderResponse(order))
}

// Delete は指定IDの注文を削除する。
// DELETE /orders/{id}
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "order")
	if !ok {
		return
	}

	if err := h.repo.DeleteByID(r.Context(), id); err != nil {
		writeStoreError(w, err, "Order", "Error deleting order")
		return
	}

	middleware.WriteMessage(w, http.StatusOK, "Order deleted successfully")
}

// Routes は注文管理のルーティングをrに登録する。
func (h *OrderHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// validateOrder はID形式・ステータス・数値の値域を検証する。
func validateOrder(o *model.Order) *model.APIError {
	for _, pid := range o.ProductIDs {
		if !isValidID(pid) {
			return model.NewInvalidIDError("product")
		}
	}
	if !isValidID(o.UserID) {
		return model.NewInvalidIDError("user")
	}
	if !o.Status.Valid() {
		return model.NewInvalidStatusError(string(o.Status))
	}
	if o.Quantity <= 0 {
		return model.NewInvalidValueError("Quantity must be a positive number")
	}
	if o.TotalPrice < 0 {
		return model.NewInvalidValueError("Total price must be a non-negative number")
	}
	return nil
}

func toOrderResponse(o *model.Order) orderResponse {
	products := o.ProductIDs
	if products == nil {
		products = []string{}
	}
	return orderResponse{
		ID:         o.ID,
		Products:   products,
		User:       o.UserID,
		Quantity:   o.Quantity,
		TotalPrice: o.TotalPrice,
		Status:     string(o.Status),
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
}
