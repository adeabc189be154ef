package handler

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"storefront/internal/delivery/http/validator"
	"storefront/internal/domain/entity"
	mockUsecase "storefront/internal/mocks/usecase"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validator.New()

	return e
}

func newJSONContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func TestUserHandler_Register(t *testing.T) {
	uc := mockUsecase.NewMockUserUsecase(t)
	handler := NewUserHandler(uc, slog.Default())

	registered := &entity.User{
		ID:        uuid.New(),
		Username:  "alice",
		Email:     "alice@example.com",
		Role:      entity.RoleUser,
		CreatedAt: time.Now(),
	}
	uc.EXPECT().
		Register(mock.Anything, &usecase.RegisterUserInput{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "Str0ng!Pass",
		}).
		Return(&usecase.RegisterOutput{User: registered}, nil)

	e := newTestEcho()
	c, rec := newJSONContext(e, http.MethodPost, "/auth/register",
		`{"username":"alice","email":"alice@example.com","password":"Str0ng!Pass"}`)

	err := handler.Register(c)
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"username":"alice"`)
	assert.Contains(t, body, registered.ID.String())
	// The password hash must never appear in a response.
	assert.NotContains(t, body, "PasswordHash")
	assert.NotContains(t, body, "password_hash")
}

func TestUserHandler_Register_ValidationFailure(t *testing.T) {
	uc := mockUsecase.NewMockUserUsecase(t)
	handler := NewUserHandler(uc, slog.Default())

	e := newTestEcho()

	// Username below 3 characters and a malformed email.
	c, _ := newJSONContext(e, http.MethodPost, "/auth/register",
		`{"username":"ab","email":"not-an-email","password":"Str0ng!Pass"}`)

	err := handler.Register(c)
	require.Error(t, err)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)

	uc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestUserHandler_Login(t *testing.T) {
	uc := mockUsecase.NewMockUserUsecase(t)
	handler := NewUserHandler(uc, slog.Default())

	user := &entity.User{
		ID:       uuid.New(),
		Username: "alice",
		Email:    "alice@example.com",
		Role:     entity.RoleUser,
	}
	uc.EXPECT().
		Login(mock.Anything, &usecase.LoginInput{
			Email:    "alice@example.com",
			Password: "Str0ng!Pass",
		}).
		Return(&usecase.LoginOutput{AccessToken: "signed.jwt.token", User: user}, nil)

	e := newTestEcho()
	c, rec := newJSONContext(e, http.MethodPost, "/auth/login",
		`{"email":"alice@example.com","password":"Str0ng!Pass"}`)

	err := handler.Login(c)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"access_token":"signed.jwt.token"`)
}

func TestHealthCheck(t *testing.T) {
	e := newTestEcho()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := HealthCheck(c)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}
