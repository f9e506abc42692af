package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/linkstash/internal/model"
)

// --- モック定義 ---

type mockVerifier struct {
	verifyFn func(token string) (string, error)
}

func (m *mockVerifier) Verify(token string) (string, error) {
	if m.verifyFn != nil {
		return m.verifyFn(token)
	}
	return "", errors.New("no verifier configured")
}

var _ TokenVerifier = (*mockVerifier)(nil)

// 認証を通過した場合のみ呼ばれるハンドラー
func authTestHandler(t *testing.T, called *bool, wantUserID string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		userID, err := UserIDFromContext(r.Context())
		if err != nil {
			t.Errorf("UserIDFromContext() error = %v", err)
		}
		if userID != wantUserID {
			t.Errorf("userID = %q, want %q", userID, wantUserID)
		}
		w.WriteHeader(http.StatusOK)
	})
}

// --- テスト ---

func TestAuthMiddleware_MissingHeader_Returns401(t *testing.T) {
	called := false
	mw := NewAuthMiddleware(&mockVerifier{})
	handler := mw(authTestHandler(t, &called, ""))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/content", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
	if called {
		t.Error("expected next handler not to be called")
	}

	var body ErrorResponseBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse error body: %v", err)
	}
	if body.Code != model.ErrCodeUnauthorized {
		t.Errorf("body.Code = %q, want %q", body.Code, model.ErrCodeUnauthorized)
	}
}

func TestAuthMiddleware_MalformedHeader_Returns401(t *testing.T) {
	malformed := []string{
		"Basic dXNlcjpwYXNz",
		"bearer lowercase-scheme",
		"Bearer",
		"Bearer ",
		"token-without-scheme",
	}

	for _, header := range malformed {
		called := false
		mw := NewAuthMiddleware(&mockVerifier{
			verifyFn: func(token string) (string, error) {
				return "user-1", nil
			},
		})
		handler := mw(authTestHandler(t, &called, "user-1"))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/content", nil)
		req.Header.Set("Authorization", header)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("header %q: status = %d, want %d", header, w.Code, http.StatusUnauthorized)
		}
		if called {
			t.Errorf("header %q: expected next handler not to be called", header)
		}
	}
}

func TestAuthMiddleware_InvalidToken_Returns401(t *testing.T) {
	called := false
	mw := NewAuthMiddleware(&mockVerifier{
		verifyFn: func(token string) (string, error) {
			return "", errors.New("invalid token")
		},
	})
	handler := mw(authTestHandler(t, &called, ""))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/content", nil)
	req.Header.Set("Authorization", "Bearer expired-or-forged")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
	if called {
		t.Error("expected next handler not to be called")
	}
}

func TestAuthMiddleware_ValidToken_InjectsUserID(t *testing.T) {
	called := false
	mw := NewAuthMiddleware(&mockVerifier{
		verifyFn: func(token string) (string, error) {
			if token != "valid-token" {
				t.Errorf("Verify(%q), want %q", token, "valid-token")
			}
			return "user-42", nil
		},
	})
	handler := mw(authTestHandler(t, &called, "user-42"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/content", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !called {
		t.Error("expected next handler to be called")
	}
}

func TestUserIDFromContext_MissingValue(t *testing.T) {
	_, err := UserIDFromContext(context.Background())
	if err == nil {
		t.Error("expected error for context without user ID")
	}
}

func TestContextWithUserID_RoundTrip(t *testing.T) {
	ctx := ContextWithUserID(context.Background(), "user-7")

	userID, err := UserIDFromContext(ctx)
	if err != nil {
		t.Fatalf("UserIDFromContext() error = %v", err)
	}
	if userID != "user-7" {
		t.Errorf("userID = %q, want %q", userID, "user-7")
	}
}
