package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestMiddlewareCountsRequests(t *testing.T) {
	m := New()
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := m.Middleware()(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	if err := handler(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Scrape the registry and check the counter appeared.
	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	if err := m.Handler()(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "records_http_requests_total") {
		t.Error("expected request counter in exposition output")
	}
	if !strings.Contains(body, "records_patients_stored") {
		t.Error("expected patients gauge in exposition output")
	}
}

func TestMiddlewareUsesHTTPErrorCode(t *testing.T) {
	m := New()
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/patients", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := m.Middleware()(func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusConflict, "duplicate")
	})
	_ = handler(c)

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	if err := m.Handler()(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `status="4xx"`) {
		t.Error("expected 4xx label for HTTPError responses")
	}
}
