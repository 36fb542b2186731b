package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/shopapi/internal/model"
	"github.com/hitoshi/shopapi/internal/security"
	"golang.org/x/crypto/bcrypt"
)

func newTestUserHandler(repo *mockUserRepo) *UserHandler {
	return NewUserHandler(repo, security.NewTextSanitizer())
}

func TestUserHandler_List_ReturnsUsersWithoutPassword(t *testing.T) {
	repo := &mockUserRepo{
		listFn: func(ctx context.Context) ([]*model.User, error) {
			return []*model.User{
				{ID: testUUID, Name: "Alice", Email: "alice@example.com", PasswordHash: "$2a$10$secret"},
			}, nil
		},
	}

	w := httptest.NewRecorder()
	newTestUserHandler(repo).List(w, httptest.NewRequest(http.MethodGet, "/users", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	body := w.Body.String()
	if strings.Contains(body, "secret") || strings.Contains(body, "password") {
		t.Errorf("response must not contain password: %s", body)
	}
	if !strings.Contains(body, "alice@example.com") {
		t.Errorf("response should contain user: %s", body)
	}
}

func TestUserHandler_List_Empty_Returns404(t *testing.T) {
	w := httptest.NewRecorder()
	newTestUserHandler(&mockUserRepo{}).List(w, httptest.NewRequest(http.MethodGet, "/users", nil))

	assertMessage(t, w, http.StatusNotFound, "No users found")
}

func TestUserHandler_List_StoreError_Returns500(t *testing.T) {
	repo := &mockUserRepo{
		listFn: func(ctx context.Context) ([]*model.User, error) {
			return nil, errors.New("connection refused")
		},
	}

	w := httptest.NewRecorder()
	newTestUserHandler(repo).List(w, httptest.NewRequest(http.MethodGet, "/users", nil))

	assertMessage(t, w, http.StatusInternalServerError, "Error fetching users")
}

func TestUserHandler_Get_InvalidID_Returns400(t *testing.T) {
	req := withChiURLParam(httptest.NewRequest(http.MethodGet, "/users/abc", nil), "id", "abc")
	w := httptest.NewRecorder()
	newTestUserHandler(&mockUserRepo{}).Get(w, req)

	assertMessage(t, w, http.StatusBadRequest, "Invalid user ID format")
}

func TestUserHandler_Get_NotFound_Returns404(t *testing.T) {
	req := withChiURLParam(httptest.NewRequest(http.MethodGet, "/users/"+testUUID, nil), "id", testUUID)
	w := httptest.NewRecorder()
	newTestUserHandler(&mockUserRepo{}).Get(w, req)

	assertMessage(t, w, http.StatusNotFound, "User not found")
}

func TestUserHandler_Get_Found(t *testing.T) {
	repo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Name: "Alice", Email: "alice@example.com"}, nil
		},
	}

	req := withChiURLParam(httptest.NewRequest(http.MethodGet, "/users/"+testUUID, nil), "id", testUUID)
	w := httptest.NewRecorder()
	newTestUserHandler(repo).Get(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	body := decodeBody(t, w)
	if body["id"] != testUUID || body["name"] != "Alice" {
		t.Errorf("body = %v", body)
	}
}

func TestUserHandler_Create_HashesPasswordAndNormalizesEmail(t *testing.T) {
	var saved *model.User
	repo := &mockUserRepo{
		createFn: func(ctx context.Context, user *model.User) error {
			saved = user
			return nil
		},
	}

	body := `{"name":"<b>Alice</b>","email":" Alice@Example.COM ","password":"s3cret"}`
	w := httptest.NewRecorder()
	newTestUserHandler(repo).Create(w, httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body)))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d; body=%s", w.Code, http.StatusCreated, w.Body.String())
	}
	if saved == nil {
		t.Fatal("expected user to be saved")
	}
	if saved.ID == "" || !isValidID(saved.ID) {
		t.Errorf("ID = %q, want UUID", saved.ID)
	}
	if saved.Name != "Alice" {
		t.Errorf("Name = %q, want sanitized %q", saved.Name, "Alice")
	}
	if saved.Email != "alice@example.com" {
		t.Errorf("Email = %q, want %q", saved.Email, "alice@example.com")
	}
	if saved.PasswordHash == "s3cret" {
		t.Fatal("password must be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(saved.PasswordHash), []byte("s3cret")); err != nil {
		t.Errorf("hash does not match password: %v", err)
	}
	if cost, _ := bcrypt.Cost([]byte(saved.PasswordHash)); cost != bcryptCost {
		t.Errorf("bcrypt cost = %d, want %d", cost, bcryptCost)
	}

	resp := decodeBody(t, w)
	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("response should wrap user: %v", resp)
	}
	if _, exists := user["password"]; exists {
		t.Error("response must not include password")
	}
	if _, exists := user["passwordHash"]; exists {
		t.Error("response must not include password hash")
	}
}

func TestUserHandler_Create_MissingFields_Returns400(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"name欠落", `{"email":"a@example.com","password":"x"}`},
		{"email欠落", `{"name":"A","password":"x"}`},
		{"password欠落", `{"name":"A","email":"a@example.com"}`},
		{"空文字", `{"name":"","email":"a@example.com","password":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockUserRepo{
				createFn: func(ctx context.Context, user *model.User) error {
					t.Error("Create should not be called")
					return nil
				},
			}
			w := httptest.NewRecorder()
			newTestUserHandler(repo).Create(w, httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(tt.body)))

			assertMessage(t, w, http.StatusBadRequest, "Missing required fields")
		})
	}
}

func TestUserHandler_Create_DuplicateEmail_Returns400(t *testing.T) {
	repo := &mockUserRepo{
		createFn: func(ctx context.Context, user *model.User) error {
			return model.ErrDuplicateEmail
		},
	}

	body := `{"name":"A","email":"a@example.com","password":"x"}`
	w := httptest.NewRecorder()
	newTestUserHandler(repo).Create(w, httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body)))

	assertMessage(t, w, http.StatusBadRequest, "Email already in use")
}

func TestUserHandler_Create_InvalidJSON_Returns400(t *testing.T) {
	w := httptest.NewRecorder()
	newTestUserHandler(&mockUserRepo{}).Create(w, httptest.NewRequest(http.MethodPost, "/users", strings.NewReader("{")))

	assertMessage(t, w, http.StatusBadRequest, "Invalid request body")
}

func TestUserHandler_Update_PartialAndRehash(t *testing.T) {
	var updated *model.User
	repo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Name: "Alice", Email: "alice@example.com", PasswordHash: "old-hash"}, nil
		},
		updateFn: func(ctx context.Context, user *model.User) error {
			updated = user
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodPut, "/users/"+testUUID, strings.NewReader(`{"password":"new-pass"}`))
	req = withChiURLParam(req, "id", testUUID)
	w := httptest.NewRecorder()
	newTestUserHandler(repo).Update(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body=%s", w.Code, http.StatusOK, w.Body.String())
	}
	if updated.Name != "Alice" || updated.Email != "alice@example.com" {
		t.Errorf("untouched fields changed: %+v", updated)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("new-pass")); err != nil {
		t.Errorf("password should be re-hashed: %v", err)
	}
	if _, ok := decodeBody(t, w)["user"]; !ok {
		t.Error("response should wrap user")
	}
}

func TestUserHandler_Update_NotFound_Returns404(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/users/"+testUUID, strings.NewReader(`{"name":"B"}`))
	req = withChiURLParam(req, "id", testUUID)
	w := httptest.NewRecorder()
	newTestUserHandler(&mockUserRepo{}).Update(w, req)

	assertMessage(t, w, http.StatusNotFound, "User not found")
}

func TestUserHandler_Delete(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		deleteErr  error
		wantStatus int
		wantMsg    string
	}{
		{"成功", testUUID, nil, http.StatusOK, "User deleted successfully"},
		{"未存在", testUUID, model.ErrNotFound, http.StatusNotFound, "User not found"},
		{"不正なID", "not-a-uuid", nil, http.StatusBadRequest, "Invalid user ID format"},
		{"ストアエラー", testUUID, errors.New("db down"), http.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockUserRepo{
				deleteByIDFn: func(ctx context.Context, id string) error {
					return tt.deleteErr
				},
			}
			req := withChiURLParam(httptest.NewRequest(http.MethodDelete, "/users/"+tt.id, nil), "id", tt.id)
			w := httptest.NewRecorder()
			newTestUserHandler(repo).Delete(w, req)

			assertMessage(t, w, tt.wantStatus, tt.wantMsg)
		})
	}
}
