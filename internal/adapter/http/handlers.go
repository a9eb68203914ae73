package http

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
)

// Check reports whether a dependency is reachable.
type Check func(ctx context.Context) error

type Handler struct {
	checks map[string]Check
}

func NewHandler() *Handler { return &Handler{checks: map[string]Check{}} }

// WithCheck adds a named dependency check to /health.
func (h *Handler) WithCheck(name string, fn Check) *Handler {
	h.checks[name] = fn
	return h
}

func (h *Handler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for n := range h.checks {
		names = append(names, n)
	}
	sort.Strings(names)

	status, code := "ok", http.StatusOK
	deps := make(map[string]string, len(names))
	for _, n := range names {
		if err := h.checks[n](ctx); err != nil {
			deps[n] = err.Error()
			status, code = "degraded", http.StatusServiceUnavailable
			continue
		}
		deps[n] = "ok"
	}

	body := map[string]any{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	}
	if len(deps) > 0 {
		body["checks"] = deps
	}
	return c.JSON(code, body)
}
