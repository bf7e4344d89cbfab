package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	applogger "FinDash/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type pingHandler struct{}

func (pingHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })
}

func newTestServer(opts ...ServerOption) *Server {
	return NewServer(applogger.Nop(), pingHandler{}, opts...)
}

func preflight(s *Server, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set(echo.HeaderOrigin, origin)
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodGet)
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	return rec
}

func TestServer_CORSAllowsConfiguredOrigin(t *testing.T) {
	s := newTestServer(WithCORS("https://dash.example.com"))

	rec := preflight(s, "https://dash.example.com")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://dash.example.com", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))

	rec = preflight(s, "https://other.example.com")
	assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}

func TestServer_CORSDisabledWithoutOrigins(t *testing.T) {
	s := newTestServer(WithCORS())

	rec := preflight(s, "https://dash.example.com")
	assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}

func TestServer_DefaultsAllowAnyOrigin(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(echo.HeaderOrigin, "https://anywhere.example.com")
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://anywhere.example.com", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}

func TestServer_WithHostAndPort(t *testing.T) {
	s := newTestServer(WithHost("127.0.0.1"), WithPort(9090))

	assert.Equal(t, "127.0.0.1", s.config.Host)
	assert.Equal(t, 9090, s.config.Port)
}
