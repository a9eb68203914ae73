package http

import (
	"errors"
	"net/http"

	domain "github.com/channor/open-manage/internal/domain/absence"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// writeError maps domain errors → HTTP codes.
func writeError(c echo.Context, log logrus.FieldLogger, err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: []FieldError{{Field: "_", Message: err.Error()}},
		})
	case errors.Is(err, domain.ErrNotAuthenticated):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	}
	log.WithError(err).WithFields(logrus.Fields{
		"method": c.Request().Method,
		"path":   c.Path(),
	}).Error("request failed")
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
