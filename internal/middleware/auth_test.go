package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/moins/speechcoach/internal/repository"
	"github.com/moins/speechcoach/internal/service"
)

type memoryUserRepo struct {
	users map[string]*repository.User
}

func (r *memoryUserRepo) Create(ctx context.Context, user *repository.User) error {
	user.ID = uuid.New()
	r.users[user.Username] = user
	return nil
}

func (r *memoryUserRepo) GetByUsername(ctx context.Context, username string) (*repository.User, error) {
	return r.users[username], nil
}

func (r *memoryUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*repository.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func setup(t *testing.T) (*service.AuthService, string, uuid.UUID) {
	t.Helper()
	authService := service.NewAuthService(&memoryUserRepo{users: map[string]*repository.User{}}, "test-secret")
	resp, err := authService.Register(context.Background(), service.RegisterReq{
		Username: "ada",
		Email:    "ada@example.com",
		Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return authService, resp.Token, resp.User.ID
}

func capture(userID *uuid.UUID) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*userID = GetUserID(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware(t *testing.T) {
	authService, token, wantID := setup(t)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid token", "Bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic " + token, http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.jwt", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotID uuid.UUID
			handler := Auth(authService)(capture(&gotID))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK && gotID != wantID {
				t.Errorf("user ID = %v, want %v", gotID, wantID)
			}
		})
	}
}

func TestOptionalAuthMiddleware(t *testing.T) {
	authService, token, wantID := setup(t)

	t.Run("anonymous passes through", func(t *testing.T) {
		var gotID uuid.UUID
		handler := OptionalAuth(authService)(capture(&gotID))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/analyze", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if gotID != uuid.Nil {
			t.Errorf("anonymous request should carry uuid.Nil, got %v", gotID)
		}
	})

	t.Run("bad token still passes through", func(t *testing.T) {
		var gotID uuid.UUID
		handler := OptionalAuth(authService)(capture(&gotID))

		req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", nil)
		req.Header.Set("Authorization", "Bearer expired.or.bogus")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if gotID != uuid.Nil {
			t.Errorf("invalid token should stay anonymous, got %v", gotID)
		}
	})

	t.Run("valid token attaches user", func(t *testing.T) {
		var gotID uuid.UUID
		handler := OptionalAuth(authService)(capture(&gotID))

		req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if gotID != wantID {
			t.Errorf("user ID = %v, want %v", gotID, wantID)
		}
	})
}
