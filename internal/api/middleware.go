package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/helexia/contractrisk/internal/contract"
	"github.com/labstack/echo/v4"
)

// requestLogger logs one line per request on the shared logger.
func requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			status := c.Response().Status
			event := contract.Logger.Debug()
			if status >= http.StatusInternalServerError {
				event = contract.Logger.Error().Err(err)
			}
			event.
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", status).
				Dur("latency", time.Since(start)).
				Str("remote", c.RealIP()).
				Msg("http request")
			return nil
		}
	}
}

// goJSONSerializer encodes and decodes request bodies with go-json.
type goJSONSerializer struct{}

func (goJSONSerializer) Serialize(c echo.Context, i any, indent string) error {
	enc := json.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (goJSONSerializer) Deserialize(c echo.Context, i any) error {
	if err := json.NewDecoder(c.Request().Body).Decode(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body: "+err.Error()).SetInternal(err)
	}
	return nil
}
