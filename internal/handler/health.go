// Package handler contains the HTTP handlers. Handlers stay thin:
// they bind and validate input, call a repository or the progression
// service, and translate sentinel errors to status codes.
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is the liveness endpoint used by load balancers.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
