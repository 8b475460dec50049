package app

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/cinetick/cinema-pos/api"
	"github.com/cinetick/cinema-pos/internal/auth"
	"github.com/cinetick/cinema-pos/internal/domain"
	"github.com/cinetick/cinema-pos/internal/mocks"
	"github.com/stretchr/testify/require"
)

func testStaffUser(t *testing.T) *domain.User {
	t.Helper()

	user := &domain.User{
		ID:     3,
		Email:  "staff@cinema.test",
		Name:   "Front Desk",
		Role:   domain.RoleStaff,
		Active: true,
	}
	require.NoError(t, user.Password.Set("pa55word123"))

	return user
}

func authTestApp(t *testing.T, user *domain.User) *Application {
	t.Helper()

	return newTestApplication(func(a *Application) {
		a.tokens = auth.NewTokenManager("test-secret", time.Hour)
		a.userRepo = &mocks.MockUserRepo{
			GetByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) {
				if user == nil || email != user.Email {
					return nil, domain.ErrRecordNotFound
				}
				return user, nil
			},
			GetByIdFunc: func(ctx context.Context, id int) (*domain.User, error) {
				if user == nil || id != user.ID {
					return nil, domain.ErrRecordNotFound
				}
				return user, nil
			},
		}
	})
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name       string
		mutateUser func(*domain.User)
		body       api.LoginRequest
		wantStatus int
	}{
		{
			name:       "malformed email is rejected before the lookup",
			body:       api.LoginRequest{Email: "not-an-email", Password: "pa55word123"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unknown user",
			body:       api.LoginRequest{Email: "nobody@cinema.test", Password: "pa55word123"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "deactivated user",
			mutateUser: func(u *domain.User) { u.Active = false },
			body:       api.LoginRequest{Email: "staff@cinema.test", Password: "pa55word123"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong password",
			body:       api.LoginRequest{Email: "staff@cinema.test", Password: "wrongpassword"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "valid credentials",
			body:       api.LoginRequest{Email: "staff@cinema.test", Password: "pa55word123"},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := testStaffUser(t)
			if tt.mutateUser != nil {
				tt.mutateUser(user)
			}
			app := authTestApp(t, user)

			w, r := executeRequest(t, http.MethodPost, "/auth/login", tt.body)
			app.Login(w, r)

			require.Equal(t, tt.wantStatus, w.Code)

			if tt.wantStatus != http.StatusOK {
				checkErrorResponse(t, w, tt.wantStatus, "Invalid authentication credentials")
				return
			}

			var resp api.LoginResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			require.Equal(t, user.ID, resp.User.Id)
			require.Equal(t, "STAFF", resp.User.Role)

			identity, err := app.tokens.Verify(resp.Token)
			require.NoError(t, err)
			require.Equal(t, user.ID, identity.UserID)
			require.Equal(t, domain.RoleStaff, identity.Role)
		})
	}
}

func TestGetCurrentUser(t *testing.T) {
	user := testStaffUser(t)
	app := authTestApp(t, user)

	w, r := executeRequest(t, http.MethodGet, "/users/me", nil)
	r = r.WithContext(context.WithValue(r.Context(), contextKeyIdentity, &auth.Identity{UserID: user.ID, Email: user.Email, Role: user.Role}))
	app.GetCurrentUser(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var resp api.User
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, user.Email, resp.Email)

	// An identity whose user row has since disappeared gets a 401, not a 500.
	w, r = executeRequest(t, http.MethodGet, "/users/me", nil)
	r = r.WithContext(context.WithValue(r.Context(), contextKeyIdentity, &auth.Identity{UserID: 99, Role: domain.RoleStaff}))
	app.GetCurrentUser(w, r)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthentication(t *testing.T) {
	user := testStaffUser(t)
	app := authTestApp(t, user)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := app.contextGetIdentity(r)
		require.Equal(t, user.ID, identity.UserID)
		w.WriteHeader(http.StatusNoContent)
	})
	handler := app.requireAuthentication(next)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "not a bearer scheme", header: "Basic abc123", wantStatus: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer not.a.jwt", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, r := executeRequest(t, http.MethodGet, "/pos/session", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}

			handler.ServeHTTP(w, r)
			require.Equal(t, tt.wantStatus, w.Code)
		})
	}

	t.Run("valid token reaches the handler", func(t *testing.T) {
		token, err := app.tokens.Issue(user)
		require.NoError(t, err)

		w, r := executeRequest(t, http.MethodGet, "/pos/session", nil)
		r.Header.Set("Authorization", "Bearer "+token)

		handler.ServeHTTP(w, r)
		require.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("token signed with another secret is rejected", func(t *testing.T) {
		other := auth.NewTokenManager("different-secret", time.Hour)
		token, err := other.Issue(user)
		require.NoError(t, err)

		w, r := executeRequest(t, http.MethodGet, "/pos/session", nil)
		r.Header.Set("Authorization", "Bearer "+token)

		handler.ServeHTTP(w, r)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRoleMiddleware(t *testing.T) {
	app := newTestApplication()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name       string
		middleware func(http.Handler) http.Handler
		role       domain.Role
		wantStatus int
	}{
		{name: "client blocked from staff surface", middleware: app.requireStaff, role: domain.RoleClient, wantStatus: http.StatusForbidden},
		{name: "staff allowed on staff surface", middleware: app.requireStaff, role: domain.RoleStaff, wantStatus: http.StatusNoContent},
		{name: "admin allowed on staff surface", middleware: app.requireStaff, role: domain.RoleAdmin, wantStatus: http.StatusNoContent},
		{name: "staff blocked from admin surface", middleware: app.requireAdmin, role: domain.RoleStaff, wantStatus: http.StatusForbidden},
		{name: "admin allowed on admin surface", middleware: app.requireAdmin, role: domain.RoleAdmin, wantStatus: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, r := executeRequest(t, http.MethodGet, "/", nil)
			r = r.WithContext(context.WithValue(r.Context(), contextKeyIdentity, &auth.Identity{UserID: 1, Role: tt.role}))

			tt.middleware(next).ServeHTTP(w, r)
			require.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
