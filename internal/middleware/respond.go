package middleware

import (
	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// ErrorJSON writes err in the {success:false, message, error} envelope with the status its code maps to
func ErrorJSON(c echo.Context, err error) error {
	appErr := models.AsAppError(err)
	return c.JSON(appErr.HTTPStatus(), echo.Map{
		"success": false,
		"message": appErr.Message,
		"error":   appErr.Code,
	})
}
