package db

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"

	"github.com/pharmadesk/pharmadesk/internal/platform/bridge"
)

// pgxpool connects lazily, so a pool pointed at a closed port can be
// built without a running database; the handler's ping then fails.
func TestHealthHandler_Unavailable(t *testing.T) {
	pool, err := pgxpool.New(context.Background(), "postgres://user:pw@127.0.0.1:1/pharmadesk?connect_timeout=1")
	if err != nil {
		t.Fatalf("building pool: %v", err)
	}
	defer pool.Close()

	var events bytes.Buffer
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health/db", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := HealthHandler(pool, bridge.New(&events, true))(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"unavailable"`) {
		t.Errorf("expected unavailable status, got %s", rec.Body.String())
	}
	got := events.String()
	if !strings.Contains(got, `"database-status"`) || !strings.Contains(got, `"connected":false`) {
		t.Errorf("expected mirrored database-status event, got %s", got)
	}
}
