package api

import (
	"context"
	"net/http"
	"strconv"

	reqdto "easyrent/internal/handler/dto/request"
	resdto "easyrent/internal/handler/dto/response"
	"easyrent/internal/usecase/commands"
	"easyrent/internal/usecase/queries"
	"easyrent/internal/usecase/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderIdempotencyKey     = "Idempotency-Key"
	HeaderIdempotentReplayed = "Idempotent-Replayed"
	maxBookingListLimit      = 100
)

type BookingHandler struct {
	cmds commands.BookingCommands
	q    queries.BookingQueries
}

func NewBookingHandler(cmds commands.BookingCommands, q queries.BookingQueries) *BookingHandler {
	return &BookingHandler{cmds: cmds, q: q}
}

// @Summary Create booking
// @Description Book a car. The price is computed server-side. With an Idempotency-Key, a replay returns the original booking with Idempotent-Replayed: true.
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "UUID idempotency key"
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.BookingResponse
// @Success 200 {object} resdto.BookingResponse "Replayed"
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var idempotencyKey *uuid.UUID
	if raw := c.GetHeader(HeaderIdempotencyKey); raw != "" {
		key, err := uuid.Parse(raw)
		if err != nil {
			badRequest(c, err, "Invalid idempotency key format")
			return
		}
		idempotencyKey = &key
	}

	var req reqdto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err, "Invalid request")
		return
	}

	result, err := h.cmds.Create(c.Request.Context(), req.ToInput(), actor, idempotencyKey)
	if err != nil {
		respondError(c, err)
		return
	}

	res := resdto.FromBookingView(result.Booking)
	if result.IsReplayed {
		c.Header(HeaderIdempotentReplayed, "true")
		c.JSON(http.StatusOK, res)
		return
	}
	c.Header("Location", "/api/bookings/"+res.ID.String())
	c.JSON(http.StatusCreated, res)
}

// @Summary Get booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, err, "Invalid id")
		return
	}
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	view, err := h.q.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary List my bookings
// @Description Newest first, keyset paginated
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max items (default 20)"
// @Param after query string false "Cursor from a previous page"
// @Success 200 {object} resdto.BookingListResponse
// @Failure 400 {object} httperr.Response
// @Router /bookings [get]
func (h *BookingHandler) List(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	limit := queries.DefaultListLimit
	if v := c.Query("limit"); v != "" {
		iv, err := strconv.Atoi(v)
		if err != nil {
			badRequest(c, err, "Invalid limit")
			return
		}
		limit = queries.ValidateLimit(iv, maxBookingListLimit)
	}
	var cursor *queries.Cursor
	if after := c.Query("after"); after != "" {
		cursor = &queries.Cursor{After: after}
	}

	items, next, err := h.q.ListByUser(c.Request.Context(), actor.UserID, cursor, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingViews(items, next))
}

// @Summary Confirm booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id}/confirm [post]
func (h *BookingHandler) Confirm(c *gin.Context) {
	h.transition(c, h.cmds.Confirm)
}

// @Summary Cancel booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c *gin.Context) {
	h.transition(c, h.cmds.Cancel)
}

type transitionCommand func(ctx context.Context, actor shared.Actor, id uuid.UUID) (*queries.BookingView, error)

func (h *BookingHandler) transition(c *gin.Context, cmd transitionCommand) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, err, "Invalid id")
		return
	}
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	view, err := cmd(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary Occupied slots of a car
// @Description Non-cancelled bookings ending after now, ordered by start
// @Tags bookings
// @Produce json
// @Param id path string true "Car ID"
// @Success 200 {array} resdto.OccupiedSlotResponse
// @Failure 400 {object} httperr.Response
// @Router /bookings/car/{id}/occupied [get]
func (h *BookingHandler) Occupied(c *gin.Context) {
	carID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, err, "Invalid car id")
		return
	}

	slots, err := h.q.Occupied(c.Request.Context(), carID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromOccupiedSlots(slots))
}

// @Summary Check availability
// @Description Whether the car is free over [startDate, endDate). Instants are RFC 3339.
// @Tags bookings
// @Produce json
// @Param carId query string true "Car ID"
// @Param startDate query string true "RFC 3339 start"
// @Param endDate query string true "RFC 3339 end"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 429 {object} httperr.Response
// @Router /bookings/check-availability [get]
func (h *BookingHandler) CheckAvailability(c *gin.Context) {
	var query reqdto.AvailabilityQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c, err, "Invalid query")
		return
	}
	carID, start, end, err := query.Parse()
	if err != nil {
		badRequest(c, err, "Dates must be RFC 3339")
		return
	}

	available, err := h.q.CheckAvailability(c.Request.Context(), carID, start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.AvailabilityResponse{Available: available})
}
