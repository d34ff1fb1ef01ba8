package handler // package handler contains the HTTP handlers of the storefront API

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is a liveness check for load balancers and monitoring.  It does
// not touch the data directory.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
