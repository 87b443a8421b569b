package db

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"

	"github.com/pharmadesk/pharmadesk/internal/platform/bridge"
)

// PoolStats is the slice of pgxpool.Stat the health endpoint exposes.
type PoolStats struct {
	TotalConns    int32 `json:"total_conns"`
	IdleConns     int32 `json:"idle_conns"`
	AcquiredConns int32 `json:"acquired_conns"`
	MaxConns      int32 `json:"max_conns"`
}

func poolStats(pool *pgxpool.Pool) PoolStats {
	stat := pool.Stat()
	return PoolStats{
		TotalConns:    stat.TotalConns(),
		IdleConns:     stat.IdleConns(),
		AcquiredConns: stat.AcquiredConns(),
		MaxConns:      stat.MaxConns(),
	}
}

// HealthHandler reports store connectivity. Each check's outcome is
// also mirrored onto the bridge so a supervising shell can track the
// database without polling the endpoint itself.
func HealthHandler(pool *pgxpool.Pool, events *bridge.Emitter) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		err := pool.Ping(ctx)
		if err != nil {
			events.DatabaseStatus(false, err.Error())
			return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
				"status": "unavailable",
				"error":  err.Error(),
				"pool":   poolStats(pool),
			})
		}

		events.DatabaseStatus(true, "")
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status": "ok",
			"pool":   poolStats(pool),
		})
	}
}
