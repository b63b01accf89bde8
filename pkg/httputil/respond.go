package httputil

import (
	"github.com/labstack/echo/v4"

	"farmadvisor/pkg/apperr"
)

// Every endpoint answers with the same envelope: {success, data} on the
// happy path, {success, error:{message, code}} otherwise.

func OK(c echo.Context, status int, data any) error {
	return c.JSON(status, map[string]any{"success": true, "data": data})
}

func Fail(c echo.Context, err error) error {
	ae := apperr.From(err)
	return c.JSON(ae.StatusCode, map[string]any{
		"success": false,
		"error":   map[string]string{"message": ae.Message, "code": ae.Code},
	})
}
