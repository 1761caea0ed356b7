package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anonto42/blogfeed/backend/internal/apperrors"
	"github.com/anonto42/blogfeed/backend/internal/handlers"
	"github.com/anonto42/blogfeed/backend/internal/templates"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func errorServer(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	renderer, rerr := templates.New()
	require.NoError(t, rerr)
	e := echo.New()
	e.Renderer = renderer
	e.HTTPErrorHandler = handlers.NewHTTPErrorHandler(zap.NewNop())
	e.GET("/", func(c echo.Context) error { return err })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	return rec
}

func TestErrorHandlerStatusCodes(t *testing.T) {
	conflict := apperrors.Wrap(apperrors.KindConflict, "user already exists", errors.New("UNIQUE constraint failed"))
	rec := errorServer(t, conflict)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "user already exists", rec.Body.String())

	rec = errorServer(t, apperrors.New(apperrors.KindForbidden, "not the author"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = errorServer(t, apperrors.NotFound("post %d not found", 3))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page not found")

	rec = errorServer(t, errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
