package api

import (
	"log/slog"
	"net/http"

	"easyrent/internal/handler/httperr"
	"easyrent/internal/handler/middleware"
	"easyrent/internal/pkg/errs"
	"easyrent/internal/usecase/commands"
	"easyrent/internal/usecase/queries"
	"easyrent/internal/usecase/shared"

	"github.com/gin-gonic/gin"
)

type errorMapping struct {
	target  error
	status  int
	message string
}

// Order matters: the first matching sentinel wins.
var usecaseErrors = []errorMapping{
	{commands.ErrPaymentFailed, http.StatusPaymentRequired, "Payment failed"},
	{commands.ErrInvalidPayment, http.StatusBadRequest, "Invalid payment details"},
	{commands.ErrAlreadyPaid, http.StatusConflict, "Booking is already paid"},

	{commands.ErrValidation, http.StatusBadRequest, "Invalid request"},
	{queries.ErrInvalidRange, http.StatusBadRequest, "Start date must be before end date"},
	{queries.ErrUnknownPricingMode, http.StatusBadRequest, "Unknown pricing mode"},
	{queries.ErrMalformedInstant, http.StatusBadRequest, "Malformed date or time"},
	{queries.ErrInvalidCursor, http.StatusBadRequest, "Invalid cursor"},

	{commands.ErrForbidden, http.StatusForbidden, "Forbidden"},
	{queries.ErrBookingAccess, http.StatusForbidden, "Forbidden"},

	{commands.ErrCarNotFound, http.StatusNotFound, "Car not found"},
	{queries.ErrCarNotFound, http.StatusNotFound, "Car not found"},
	{commands.ErrBookingNotFound, http.StatusNotFound, "Booking not found"},
	{queries.ErrBookingNotFound, http.StatusNotFound, "Booking not found"},
	{commands.ErrDriverNotFound, http.StatusNotFound, "Driver not found"},

	{commands.ErrSlotUnavailable, http.StatusConflict, "Car is already booked for this period"},
	{commands.ErrCarUnavailable, http.StatusConflict, "Car is not available for rent"},
	{commands.ErrBookingCancelled, http.StatusConflict, "Booking is cancelled"},
	{commands.ErrIdempotencyInProgress, http.StatusConflict, "Request with this idempotency key is in progress"},
	{commands.ErrIdempotencyKeyReused, http.StatusConflict, "Idempotency key was used with a different request"},
}

// respondError maps a use-case error onto a status. Unknown errors are 500.
func respondError(c *gin.Context, err error) {
	for _, m := range usecaseErrors {
		if errs.Is(err, m.target) {
			httperr.AbortWithError(c, m.status, err, m.message, detailFor(m.status, err))
			return
		}
	}
	slog.Error("unhandled use case error", slog.String("path", c.FullPath()), slog.Any("error", err))
	httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
}

// Client errors carry the underlying reason, for example which field failed.
func detailFor(status int, err error) any {
	if status >= http.StatusInternalServerError || status == http.StatusForbidden {
		return nil
	}
	return err.Error()
}

func badRequest(c *gin.Context, err error, msg string) {
	httperr.AbortWithError(c, http.StatusBadRequest, err, msg, err.Error())
}

// actorFrom aborts with 500 when the auth middleware did not run.
func actorFrom(c *gin.Context) (shared.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.New("actor missing from context"), "Internal server error", nil)
	}
	return actor, ok
}
