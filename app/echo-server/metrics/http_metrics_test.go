package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddlewareLabelsByRoute(t *testing.T) {
	e := echo.New()
	e.Use(Middleware())
	e.GET("/api/v1/picks/:id", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/picks/"+id, nil))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d", rec.Code)
		}
	}

	got := testutil.ToFloat64(RequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/picks/:id", "204"))
	if got != 2 {
		t.Errorf("requests counted = %v, want 2", got)
	}
}
