// Package handler implements the HTTP layer.  Handlers bind and
// validate request bodies, call into the service layer and translate
// service and repository errors into HTTP status codes.
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tourio/travel-reservation-api/internal/repository"
	"github.com/tourio/travel-reservation-api/internal/service"
)

// dbTimeout bounds every database call made on behalf of a request.
const dbTimeout = 5 * time.Second

// currentUserID extracts the authenticated user's ID stored in the
// context by the JWT middleware.  JWT numeric claims decode as float64.
func currentUserID(c echo.Context) (uint64, bool) {
	switch v := c.Get("user_id").(type) {
	case float64:
		return uint64(v), true
	case uint64:
		return v, true
	case string:
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

// currentRole extracts the authenticated user's role from the context.
func currentRole(c echo.Context) string {
	if s, ok := c.Get("role").(string); ok {
		return s
	}
	return ""
}

// pathID parses the numeric :id path parameter.
func pathID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// writeError maps service and repository errors onto HTTP responses.
// Not-found sentinels become 404, conflicts (duplicates, capacity,
// state machine violations) become 409, validation failures 400 and
// everything else 500.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrTourNotFound),
		errors.Is(err, repository.ErrReservationNotFound),
		errors.Is(err, repository.ErrDestinationNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrEmailTaken),
		errors.Is(err, repository.ErrNameTaken),
		errors.Is(err, service.ErrTourNotAvailable),
		errors.Is(err, service.ErrInsufficientCapacity),
		errors.Is(err, service.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidPeopleCount),
		errors.Is(err, service.ErrInvalidCapacity),
		errors.Is(err, service.ErrInvalidPaymentStatus),
		errors.Is(err, service.ErrStartDateInPast),
		errors.Is(err, service.ErrEndBeforeStart),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrInvalidMaxCapacity):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
