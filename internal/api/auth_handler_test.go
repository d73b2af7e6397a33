package api

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskbooking/taskbooking-api/internal/domain"
	"github.com/taskbooking/taskbooking-api/internal/mocks"
)

func newAuthRouter(f *handlerFixture) chi.Router {
	handler := NewAuthHandler(f.users, mocks.NewMockJWTService(), mocks.NewMockPasswordVerifier())
	r := chi.NewRouter()
	r.Post("/api/auth/register", handler.Register)
	r.Post("/api/auth/login", handler.Login)
	return r
}

func TestRegister(t *testing.T) {
	f := newHandlerFixture(t)
	router := newAuthRouter(f)

	t.Run("success", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/auth/register", RegisterRequest{
			Name:     "New Poster",
			Email:    "new@example.com",
			Password: "password123",
			Role:     "poster",
		})

		require.Equal(t, http.StatusCreated, rec.Code)
		resp := decodeBody[AuthResponse](t, rec)
		assert.NotEmpty(t, resp.AccessToken)
		require.NotNil(t, resp.User)
		assert.Equal(t, "new@example.com", resp.User.Email)
		assert.Equal(t, domain.RolePoster, resp.User.Role)
	})

	t.Run("duplicate email", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/auth/register", RegisterRequest{
			Name:     "Copy Cat",
			Email:    "pat@example.com",
			Password: "password123",
			Role:     "poster",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	tests := []struct {
		name string
		req  RegisterRequest
	}{
		{
			name: "invalid role",
			req:  RegisterRequest{Name: "X", Email: "x@example.com", Password: "password123", Role: "admin"},
		},
		{
			name: "short password",
			req:  RegisterRequest{Name: "X", Email: "x@example.com", Password: "short", Role: "poster"},
		},
		{
			name: "bad email",
			req:  RegisterRequest{Name: "X", Email: "not-an-email", Password: "password123", Role: "poster"},
		},
		{
			name: "missing name",
			req:  RegisterRequest{Email: "x@example.com", Password: "password123", Role: "poster"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/api/auth/register", tt.req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestLogin(t *testing.T) {
	f := newHandlerFixture(t)
	router := newAuthRouter(f)

	t.Run("success", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/auth/login", LoginRequest{
			Email:    "pat@example.com",
			Password: "password123",
		})

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody[AuthResponse](t, rec)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Equal(t, f.poster.ID, resp.User.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/auth/login", LoginRequest{
			Email:    "pat@example.com",
			Password: "not-the-password",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown email", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/auth/login", LoginRequest{
			Email:    "ghost@example.com",
			Password: "password123",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestMe(t *testing.T) {
	f := newHandlerFixture(t)
	handler := NewAuthHandler(f.users, mocks.NewMockJWTService(), mocks.NewMockPasswordVerifier())

	t.Run("authenticated", func(t *testing.T) {
		r := chi.NewRouter()
		r.Use(asUser(f.poster.ID))
		r.Get("/api/auth/me", handler.Me)

		rec := doJSON(t, r, http.MethodGet, "/api/auth/me", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		user := decodeBody[domain.User](t, rec)
		assert.Equal(t, f.poster.ID, user.ID)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		r := chi.NewRouter()
		r.Get("/api/auth/me", handler.Me)

		rec := doJSON(t, r, http.MethodGet, "/api/auth/me", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
