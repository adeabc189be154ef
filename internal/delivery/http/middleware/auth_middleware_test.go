package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/service"
	mockService "storefront/internal/mocks/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthContext(authHeader string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	tokenSvc := mockService.NewMockTokenService(t)
	m := NewAuthMiddleware(tokenSvc)

	userID := uuid.New()
	tokenSvc.EXPECT().
		ValidateToken("valid-token").
		Return(&service.Claims{
			UserID:   userID,
			Username: "alice",
			Role:     entity.RoleUser,
		}, nil)

	c, _ := newAuthContext("Bearer valid-token")

	var nextCalled bool
	err := m.Authenticate(func(c echo.Context) error {
		nextCalled = true

		user, ok := CurrentUser(c)
		require.True(t, ok)
		assert.Equal(t, userID, user.ID)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, entity.RoleUser, user.Role)

		return nil
	})(c)
	require.NoError(t, err)
	assert.True(t, nextCalled)
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	tokenSvc := mockService.NewMockTokenService(t)
	m := NewAuthMiddleware(tokenSvc)

	c, rec := newAuthContext("")

	err := m.Authenticate(func(c echo.Context) error {
		t.Fatal("next handler should not run without credentials")
		return nil
	})(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_NotBearer(t *testing.T) {
	tokenSvc := mockService.NewMockTokenService(t)
	m := NewAuthMiddleware(tokenSvc)

	c, rec := newAuthContext("Basic dXNlcjpwYXNz")

	err := m.Authenticate(func(c echo.Context) error {
		t.Fatal("next handler should not run with a non-bearer header")
		return nil
	})(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	tokenSvc := mockService.NewMockTokenService(t)
	m := NewAuthMiddleware(tokenSvc)

	tokenSvc.EXPECT().
		ValidateToken("expired-token").
		Return(nil, assert.AnError)

	c, rec := newAuthContext("Bearer expired-token")

	err := m.Authenticate(func(c echo.Context) error {
		t.Fatal("next handler should not run with an invalid token")
		return nil
	})(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_RequireAdmin(t *testing.T) {
	tokenSvc := mockService.NewMockTokenService(t)
	m := NewAuthMiddleware(tokenSvc)

	t.Run("admin passes", func(t *testing.T) {
		c, _ := newAuthContext("")
		SetCurrentUser(c, &entity.User{ID: uuid.New(), Role: entity.RoleAdmin})

		var nextCalled bool
		err := m.RequireAdmin()(func(c echo.Context) error {
			nextCalled = true
			return nil
		})(c)
		require.NoError(t, err)
		assert.True(t, nextCalled)
	})

	t.Run("regular user forbidden", func(t *testing.T) {
		c, rec := newAuthContext("")
		SetCurrentUser(c, &entity.User{ID: uuid.New(), Role: entity.RoleUser})

		err := m.RequireAdmin()(func(c echo.Context) error {
			t.Fatal("next handler should not run for a non-admin")
			return nil
		})(c)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("missing user forbidden", func(t *testing.T) {
		c, rec := newAuthContext("")

		err := m.RequireAdmin()(func(c echo.Context) error {
			t.Fatal("next handler should not run without an authenticated user")
			return nil
		})(c)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
