package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/pharmadesk/pharmadesk/internal/platform/bridge"
)

// Logger writes one structured line per handled request and mirrors
// the same summary onto the bridge for the supervising shell. The
// status is taken from the echo error when the handler failed, since
// the error handler has not committed the response yet.
func Logger(logger zerolog.Logger, events *bridge.Emitter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			rid, _ := c.Get("request_id").(string)

			err := next(c)

			status := c.Response().Status
			if httpErr, ok := err.(*echo.HTTPError); ok {
				status = httpErr.Code
			}

			evt := logger.Info()
			if err != nil {
				evt = logger.Error().Err(err)
			}

			evt.
				Str("request_id", rid).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", status).
				Dur("latency", time.Since(start)).
				Str("remote_ip", c.RealIP()).
				Msg("request")

			events.RequestLog(req.Method, req.URL.Path, status)
			return err
		}
	}
}
