package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/anonto42/linkup/backend/internal/middleware"
	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// respondError writes err in the error envelope. Store errors are logged here when
// they did not pass through a service that already logged them.
func respondError(c echo.Context, op string, err error) error {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		if errors.Is(err, models.ErrNotFound) {
			return middleware.ErrorJSON(c, &models.AppError{Code: models.CodeNotFound, Message: "Resource not found", Err: err})
		}
		log.Error().Err(err).Str("op", op).Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).Msg("store operation failed")
		appErr = models.NewStoreError(op, "", err)
	}
	return middleware.ErrorJSON(c, appErr)
}

// notFoundAs names the missing resource when err is a repository miss
func notFoundAs(err error, resource, id string) error {
	if errors.Is(err, models.ErrNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return err
}

func respondData(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, echo.Map{"success": true, "data": data})
}

func respondMessage(c echo.Context, status int, message string) error {
	return c.JSON(status, echo.Map{"success": true, "message": message})
}

// callerID is the authenticated caller; JWTAuth guarantees it on every protected route
func callerID(c echo.Context) (primitive.ObjectID, error) {
	id, ok := middleware.CurrentUserID(c)
	if !ok {
		return primitive.NilObjectID, models.NewUnauthorizedError("Authentication required")
	}
	return id, nil
}

// bindAndValidate binds the request body into req and runs the echo validator over it
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return models.NewValidationError("Invalid request payload")
	}
	if err := c.Validate(req); err != nil {
		return models.NewValidationError(err.Error())
	}
	return nil
}

func queryInt(c echo.Context, name string, def int) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return def
	}
	return v
}

func queryBool(c echo.Context, name string) bool {
	v, _ := strconv.ParseBool(c.QueryParam(name))
	return v
}

// ErrorHandler renders errors returned up to echo (unknown routes, bind failures,
// panics recovered by middleware) in the same envelope handlers use
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code := models.CodeStore
		switch he.Code {
		case http.StatusNotFound:
			code = models.CodeNotFound
		case http.StatusUnauthorized:
			code = models.CodeUnauthorized
		case http.StatusForbidden:
			code = models.CodeForbidden
		case http.StatusTooManyRequests:
			code = models.CodeRateLimited
		default:
			if he.Code < http.StatusInternalServerError {
				code = models.CodeValidation
			}
		}
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok {
			msg = s
		}
		_ = c.JSON(he.Code, echo.Map{"success": false, "message": msg, "error": code})
		return
	}

	_ = respondError(c, "unhandled", err)
}
