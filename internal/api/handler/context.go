package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/freelancehub/api/internal/api/middleware"
)

// currentUser returns the username set by middleware.Auth. An empty value
// means the route was mounted without the middleware, so the request is
// rejected.
func currentUser(c echo.Context) (string, error) {
	username, _ := c.Get(middleware.UsernameKey).(string)
	if username == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return username, nil
}
