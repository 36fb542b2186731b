package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/shopapi/internal/model"
	"github.com/hitoshi/shopapi/internal/security"
)

func newTestContactHandler(repo *mockContactRepo) *ContactHandler {
	return NewContactHandler(repo, security.NewTextSanitizer())
}

func TestContactHandler_Create_Success(t *testing.T) {
	var saved *model.Contact
	repo := &mockContactRepo{
		createFn: func(ctx context.Context, c *model.Contact) error {
			saved = c
			return nil
		},
	}

	body := `{"firstName":"Ada","lastName":"Lovelace","email":"ADA@example.com","favoriteColor":"<i>green</i>","birthday":"1815-12-10"}`
	w := httptest.NewRecorder()
	newTestContactHandler(repo).Create(w, httptest.NewRequest(http.MethodPost, "/contacts", strings.NewReader(body)))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d; body=%s", w.Code, http.StatusCreated, w.Body.String())
	}
	if saved.FavoriteColor != "green" {
		t.Errorf("FavoriteColor = %q, want %q", saved.FavoriteColor, "green")
	}
	if saved.Email != "ada@example.com" {
		t.Errorf("Email = %q", saved.Email)
	}
	resp := decodeBody(t, w)
	if resp["firstName"] != "Ada" || resp["birthday"] != "1815-12-10" {
		t.Errorf("resp = %v", resp)
	}
}

func TestContactHandler_Create_MissingFields_Returns400(t *testing.T) {
	for _, body := range []string{
		`{"lastName":"L","email":"e@example.com"}`,
		`{"firstName":"F","email":"e@example.com"}`,
		`{"firstName":"F","lastName":"L"}`,
	} {
		w := httptest.NewRecorder()
		newTestContactHandler(&mockContactRepo{}).Create(w, httptest.NewRequest(http.MethodPost, "/contacts", strings.NewReader(body)))
		assertMessage(t, w, http.StatusBadRequest, "Missing required fields")
	}
}

func TestContactHandler_Get_NotFound_Returns404(t *testing.T) {
	req := withChiURLParam(httptest.NewRequest(http.MethodGet, "/contacts/"+testUUID, nil), "id", testUUID)
	w := httptest.NewRecorder()
	newTestContactHandler(&mockContactRepo{}).Get(w, req)

	assertMessage(t, w, http.StatusNotFound, "Contact not found")
}

func TestContactHandler_Update_Partial(t *testing.T) {
	var updated *model.Contact
	repo := &mockContactRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Contact, error) {
			return &model.Contact{ID: id, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}, nil
		},
		updateFn: func(ctx context.Context, c *model.Contact) error {
			updated = c
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodPut, "/contacts/"+testUUID, strings.NewReader(`{"favoriteColor":"blue"}`))
	req = withChiURLParam(req, "id", testUUID)
	w := httptest.NewRecorder()
	newTestContactHandler(repo).Update(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if updated.FavoriteColor != "blue" || updated.FirstName != "Ada" {
		t.Errorf("updated = %+v", updated)
	}
}

func TestContactHandler_Update_NotFound_Returns404(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/contacts/"+testUUID, strings.NewReader(`{"firstName":"X"}`))
	req = withChiURLParam(req, "id", testUUID)
	w := httptest.NewRecorder()
	newTestContactHandler(&mockContactRepo{}).Update(w, req)

	assertMessage(t, w, http.StatusNotFound, "Contact not found")
}

func TestContactHandler_Delete(t *testing.T) {
	repo := &mockContactRepo{}
	req := withChiURLParam(httptest.NewRequest(http.MethodDelete, "/contacts/"+testUUID, nil), "id", testUUID)
	w := httptest.NewRecorder()
	newTestContactHandler(repo).Delete(w, req)

	assertMessage(t, w, http.StatusOK, "Contact deleted")

	repo.deleteByIDFn = func(ctx context.Context, id string) error { return model.ErrNotFound }
	w = httptest.NewRecorder()
	newTestContactHandler(repo).Delete(w, req)

	assertMessage(t, w, http.StatusNotFound, "Contact not found")
}
