package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	domainerrors "storefront/internal/domain/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func runErrorHandler(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewErrorMiddleware(slog.Default()).HandleHTTPError(err, c)

	return rec
}

func TestErrorMiddleware_AppError(t *testing.T) {
	rec := runErrorHandler(t, domainerrors.ErrProductNotFound)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"PRODUCT_NOT_FOUND"`)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}

func TestErrorMiddleware_WrappedAppError(t *testing.T) {
	// Handlers wrap usecase errors with a stack; the middleware must still
	// unwrap down to the AppError.
	wrapped := errors.WithStack(domainerrors.ErrOrderNotFound)
	rec := runErrorHandler(t, wrapped)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"ORDER_NOT_FOUND"`)
}

func TestErrorMiddleware_InsufficientStock(t *testing.T) {
	stockErr := domainerrors.NewInsufficientStockError(uuid.New(), "Mechanical Keyboard", 1, 5)
	rec := runErrorHandler(t, stockErr)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"code":"INSUFFICIENT_STOCK"`)
	assert.Contains(t, body, "Available: 1, Requested: 5")
}

func TestErrorMiddleware_EchoHTTPError(t *testing.T) {
	rec := runErrorHandler(t, echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"HTTP_ERROR"`)
}

func TestErrorMiddleware_UnknownError(t *testing.T) {
	rec := runErrorHandler(t, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"INTERNAL_ERROR"`)
}
