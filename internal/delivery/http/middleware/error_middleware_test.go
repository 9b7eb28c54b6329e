package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	domainerrors "storefront/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newErrorTestContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

func TestErrorMiddleware_AppError(t *testing.T) {
	m := NewErrorMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil)))
	c, rec := newErrorTestContext(t)

	m.HandleHTTPError(domainerrors.ErrOrderNotFound, c)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	body := decodeEnvelope(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "order not found", body["message"])

	errInfo, ok := body["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ORDER_NOT_FOUND", errInfo["code"])
}

func TestErrorMiddleware_WrappedAppError(t *testing.T) {
	m := NewErrorMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil)))
	c, rec := newErrorTestContext(t)

	m.HandleHTTPError(errors.Wrap(domainerrors.ErrEmptyCart, "checkout failed"), c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeEnvelope(t, rec)
	assert.Equal(t, "cart is empty", body["message"])

	errInfo, ok := body["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "EMPTY_CART", errInfo["code"])
	// The wrap context added at the call site survives into details.
	assert.Equal(t, "checkout failed: cart is empty", errInfo["details"])
}

func TestErrorMiddleware_WrapMessageReachesDetails(t *testing.T) {
	m := NewErrorMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil)))
	c, rec := newErrorTestContext(t)

	m.HandleHTTPError(domainerrors.ErrInvalidTransition.WrapMessage("only pending orders can be approved"), c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeEnvelope(t, rec)
	errInfo, ok := body["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "INVALID_TRANSITION", errInfo["code"])
	assert.Equal(t, "only pending orders can be approved: order status does not allow this action", errInfo["details"])
}

func TestErrorMiddleware_InsufficientStockCarriesAvailableStock(t *testing.T) {
	m := NewErrorMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil)))
	c, rec := newErrorTestContext(t)

	m.HandleHTTPError(domainerrors.NewInsufficientStockError("Espresso Beans", 3), c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeEnvelope(t, rec)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(3), data["available_stock"])

	errInfo, ok := body["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "INSUFFICIENT_STOCK", errInfo["code"])
}

func TestErrorMiddleware_UnknownErrorBecomes500(t *testing.T) {
	m := NewErrorMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil)))
	c, rec := newErrorTestContext(t)

	m.HandleHTTPError(errors.New("database exploded"), c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	body := decodeEnvelope(t, rec)
	assert.Equal(t, "Internal server error", body["message"])
}
