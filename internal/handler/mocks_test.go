package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/shopapi/internal/model"
	"github.com/hitoshi/shopapi/internal/repository"
)

// --- モック定義 ---

type mockUserRepo struct {
	listFn        func(ctx context.Context) ([]*model.User, error)
	findByIDFn    func(ctx context.Context, id string) (*model.User, error)
	findByEmailFn func(ctx context.Context, email string) (*model.User, error)
	createFn      func(ctx context.Context, user *model.User) error
	updateFn      func(ctx context.Context, user *model.User) error
	deleteByIDFn  func(ctx context.Context, id string) error
}

var _ repository.UserRepository = (*mockUserRepo)(nil)

func (m *mockUserRepo) List(ctx context.Context) ([]*model.User, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *model.User) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) DeleteByID(ctx context.Context, id string) error {
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, id)
	}
	return nil
}

type mockProductRepo struct {
	listFn       func(ctx context.Context) ([]*model.Product, error)
	findByIDFn   func(ctx context.Context, id string) (*model.Product, error)
	createFn     func(ctx context.Context, p *model.Product) error
	updateFn     func(ctx context.Context, p *model.Product) error
	deleteByIDFn func(ctx context.Context, id string) error
}

var _ repository.ProductRepository = (*mockProductRepo)(nil)

func (m *mockProductRepo) List(ctx context.Context) ([]*model.Product, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockProductRepo) FindByID(ctx context.Context, id string) (*model.Product, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockProductRepo) Create(ctx context.Context, p *model.Product) error {
	if m.createFn != nil {
		return m.createFn(ctx, p)
	}
	return nil
}

func (m *mockProductRepo) Update(ctx context.Context, p *model.Product) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, p)
	}
	return nil
}

func (m *mockProductRepo) DeleteByID(ctx context.Context, id string) error {
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, id)
	}
	return nil
}

type mockOrderRepo struct {
	listFn       func(ctx context.Context) ([]*model.Order, error)
	findByIDFn   func(ctx context.Context, id string) (*model.Order, error)
	createFn     func(ctx context.Context, o *model.Order) error
	updateFn     func(ctx context.Context, o *model.Order) error
	deleteByIDFn func(ctx context.Context, id string) error
}

var _ repository.OrderRepository = (*mockOrderRepo)(nil)

func (m *mockOrderRepo) List(ctx context.Context) ([]*model.Order, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockOrderRepo) FindByID(ctx context.Context, id string) (*model.Order, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockOrderRepo) Create(ctx context.Context, o *model.Order) error {
	if m.createFn != nil {
		return m.createFn(ctx, o)
	}
	return nil
}

func (m *mockOrderRepo) Update(ctx context.Context, o *model.Order) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, o)
	}
	return nil
}

func (m *mockOrderRepo) DeleteByID(ctx context.Context, id string) error {
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, id)
	}
	return nil
}

type mockContactRepo struct {
	listFn       func(ctx context.Context) ([]*model.Contact, error)
	findByIDFn   func(ctx context.Context, id string) (*model.Contact, error)
	createFn     func(ctx context.Context, c *model.Contact) error
	updateFn     func(ctx context.Context, c *model.Contact) error
	deleteByIDFn func(ctx context.Context, id string) error
}

var _ repository.ContactRepository = (*mockContactRepo)(nil)

func (m *mockContactRepo) List(ctx context.Context) ([]*model.Contact, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockContactRepo) FindByID(ctx context.Context, id string) (*model.Contact, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockContactRepo) Create(ctx context.Context, c *model.Contact) error {
	if m.createFn != nil {
		return m.createFn(ctx, c)
	}
	return nil
}

func (m *mockContactRepo) Update(ctx context.Context, c *model.Contact) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, c)
	}
	return nil
}

func (m *mockContactRepo) DeleteByID(ctx context.Context, id string) error {
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, id)
	}
	return nil
}

type mockAuthService struct {
	getLoginURLFn    func(state string) string
	handleCallbackFn func(ctx context.Context, code string) (*model.Session, error)
	logoutFn         func(ctx context.Context, sessionID string) error
}

func (m *mockAuthService) GetLoginURL(state string) string {
	if m.getLoginURLFn != nil {
		return m.getLoginURLFn(state)
	}
	return ""
}

func (m *mockAuthService) HandleCallback(ctx context.Context, code string) (*model.Session, error) {
	if m.handleCallbackFn != nil {
		return m.handleCallbackFn(ctx, code)
	}
	return nil, nil
}

func (m *mockAuthService) Logout(ctx context.Context, sessionID string) error {
	if m.logoutFn != nil {
		return m.logoutFn(ctx, sessionID)
	}
	return nil
}

type mockLoginRecorder struct {
	results []bool
}

func (m *mockLoginRecorder) RecordOAuthLogin(success bool) {
	m.results = append(m.results, success)
}

// --- テストヘルパー ---

const (
	testUUID  = "3f2c8f5e-6a1b-4c2d-9e7f-1a2b3c4d5e6f"
	testUUID2 = "7b9d1e2f-3a4b-4c5d-8e6f-0a1b2c3d4e5f"
)

// withChiURLParam はテスト用にchiのURLパラメータを注入するヘルパー。
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	return r.WithContext(ctx)
}

// decodeBody はレスポンスボディをmapにデコードするヘルパー。
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var result map[string]any
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return result
}

// assertMessage はステータスコードとmessageフィールドを検証するヘルパー。
func assertMessage(t *testing.T, w *httptest.ResponseRecorder, wantStatus int, wantMsg string) {
	t.Helper()
	if w.Code != wantStatus {
		t.Errorf("status = %d, want %d", w.Code, wantStatus)
	}
	body := decodeBody(t, w)
	if body["message"] != wantMsg {
		t.Errorf("message = %v, want %q", body["message"], wantMsg)
	}
}
