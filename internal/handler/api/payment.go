package api

import (
	"net/http"

	reqdto "easyrent/internal/handler/dto/request"
	resdto "easyrent/internal/handler/dto/response"
	"easyrent/internal/usecase/commands"
	"easyrent/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PaymentHandler struct {
	cmds commands.PaymentCommands
	q    queries.PaymentQueries
}

func NewPaymentHandler(cmds commands.PaymentCommands, q queries.PaymentQueries) *PaymentHandler {
	return &PaymentHandler{cmds: cmds, q: q}
}

// @Summary Checkout summary
// @Description Amount and description for the payment page, derived from the stored booking
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param bookingId query string true "Booking ID"
// @Success 200 {object} resdto.CheckoutResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /payments/checkout [get]
func (h *PaymentHandler) Checkout(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Query("bookingId"))
	if err != nil {
		badRequest(c, err, "Invalid bookingId")
		return
	}
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	view, err := h.q.Checkout(c.Request.Context(), actor, bookingID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromCheckoutView(view))
}

// @Summary Pay for a booking
// @Description Charge the booking total by mobile money or card. A successful payment confirms the booking.
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.PaymentRequest true "Payment request"
// @Success 200 {object} resdto.PaymentResponse
// @Failure 400 {object} httperr.Response
// @Failure 402 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /payments [post]
func (h *PaymentHandler) Pay(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req reqdto.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err, "Invalid request")
		return
	}

	result, err := h.cmds.Pay(c.Request.Context(), req.ToInput(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromPaymentResult(result))
}
