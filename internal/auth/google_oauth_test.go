package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

// newFakeGoogle はトークン・ユーザー情報エンドポイントを模したテストサーバーを返す。
func newFakeGoogle(t *testing.T, tokenHandler, userInfoHandler http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", tokenHandler)
	mux.HandleFunc("/userinfo", userInfoHandler)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestProvider(srv *httptest.Server) *GoogleOAuthProvider {
	return NewGoogleOAuthProvider(GoogleOAuthConfig{
		ClientID:     "test-client-id",
		ClientSecret: "test-client-secret",
		RedirectURL:  "http://localhost:3000/auth/google/callback",
		HTTPClient:   srv.Client(),
		TokenURL:     srv.URL + "/token",
		UserInfoURL:  srv.URL + "/userinfo",
	})
}

func okToken(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"access_token": "test-access-token",
		"token_type":   "Bearer",
		"expires_in":   3600,
	})
}

func TestGoogleOAuthProvider_GetLoginURL_ContainsRequiredParams(t *testing.T) {
	provider := NewGoogleOAuthProvider(GoogleOAuthConfig{
		ClientID:    "test-client-id",
		RedirectURL: "http://localhost:3000/auth/google/callback",
	})

	raw := provider.GetLoginURL("test-state-value")
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("invalid login URL %q: %v", raw, err)
	}
	if u.Host != "accounts.google.com" {
		t.Errorf("host = %q, want accounts.google.com", u.Host)
	}

	q := u.Query()
	want := map[string]string{
		"client_id":     "test-client-id",
		"redirect_uri":  "http://localhost:3000/auth/google/callback",
		"state":         "test-state-value",
		"response_type": "code",
		"scope":         "profile email",
	}
	for key, v := range want {
		if got := q.Get(key); got != v {
			t.Errorf("%s = %q, want %q", key, got, v)
		}
	}
}

func TestGoogleOAuthProvider_DefaultsToOutboundClient(t *testing.T) {
	provider := NewGoogleOAuthProvider(GoogleOAuthConfig{Timeout: 4 * time.Second})
	if provider.client == nil {
		t.Fatal("expected default client")
	}
	if provider.client.Timeout != 4*time.Second {
		t.Errorf("client timeout = %v, want %v", provider.client.Timeout, 4*time.Second)
	}
}

func TestGoogleOAuthProvider_ExchangeCode_Success(t *testing.T) {
	srv := newFakeGoogle(t,
		func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseForm(); err != nil {
				t.Fatalf("ParseForm: %v", err)
			}
			if r.PostForm.Get("code") != "auth-code" {
				t.Errorf("code = %q, want %q", r.PostForm.Get("code"), "auth-code")
			}
			if r.PostForm.Get("grant_type") != "authorization_code" {
				t.Errorf("grant_type = %q", r.PostForm.Get("grant_type"))
			}
			if r.PostForm.Get("client_secret") != "test-client-secret" {
				t.Errorf("client_secret = %q", r.PostForm.Get("client_secret"))
			}
			okToken(w, r)
		},
		func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "Bearer test-access-token" {
				t.Errorf("unexpected Authorization header: %q", got)
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			json.NewEncoder(w).Encode(map[string]any{
				"sub":   "google-sub-12345",
				"email": "user@gmail.com",
				"name":  "Google User",
			})
		},
	)

	profile, err := newTestProvider(srv).ExchangeCode(context.Background(), "auth-code")
	if err != nil {
		t.Fatalf("ExchangeCode() error = %v", err)
	}
	if profile.Provider != ProviderGoogle {
		t.Errorf("Provider = %q, want %q", profile.Provider, ProviderGoogle)
	}
	if profile.ProviderUserID != "google-sub-12345" {
		t.Errorf("ProviderUserID = %q", profile.ProviderUserID)
	}
	if profile.DisplayName != "Google User" {
		t.Errorf("DisplayName = %q", profile.DisplayName)
	}
	if profile.Email != "user@gmail.com" {
		t.Errorf("Email = %q", profile.Email)
	}
}

func TestGoogleOAuthProvider_ExchangeCode_Failures(t *testing.T) {
	tests := []struct {
		name     string
		token    http.HandlerFunc
		userInfo http.HandlerFunc
	}{
		{
			name: "トークンエンドポイントが400",
			token: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			},
		},
		{
			name: "アクセストークンが空",
			token: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]any{"access_token": ""})
			},
		},
		{
			name: "トークンレスポンスが不正なJSON",
			token: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("not json"))
			},
		},
		{
			name:  "ユーザー情報エンドポイントが401",
			token: okToken,
			userInfo: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			},
		},
		{
			name:  "subが空",
			token: okToken,
			userInfo: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]any{"email": "x@example.com"})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userInfo := tt.userInfo
			if userInfo == nil {
				userInfo = func(w http.ResponseWriter, r *http.Request) {
					t.Error("userinfo should not be called")
				}
			}
			srv := newFakeGoogle(t, tt.token, userInfo)

			_, err := newTestProvider(srv).ExchangeCode(context.Background(), "auth-code")
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrProviderExchange) {
				t.Errorf("error = %v, want ErrProviderExchange", err)
			}
		})
	}
}

// 応答しないIdPはタイムアウトで打ち切られる
func TestGoogleOAuthProvider_ExchangeCode_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := newFakeGoogle(t,
		func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		},
		func(w http.ResponseWriter, r *http.Request) {},
	)
	defer close(release)

	client := srv.Client()
	client.Timeout = 100 * time.Millisecond
	provider := NewGoogleOAuthProvider(GoogleOAuthConfig{
		HTTPClient: client,
		TokenURL:   srv.URL + "/token",
	})

	start := time.Now()
	_, err := provider.ExchangeCode(context.Background(), "auth-code")
	if !errors.Is(err, ErrProviderExchange) {
		t.Fatalf("error = %v, want ErrProviderExchange", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("ExchangeCode took %v, expected to time out quickly", elapsed)
	}
}
