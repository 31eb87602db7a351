package api

import (
	"net/http"

	reqdto "easyrent/internal/handler/dto/request"
	resdto "easyrent/internal/handler/dto/response"
	"easyrent/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type QuoteHandler struct {
	q queries.PricingQueries
}

func NewQuoteHandler(q queries.PricingQueries) *QuoteHandler {
	return &QuoteHandler{q: q}
}

// @Summary Price a rental
// @Description Compute the quote for the current form values. An incomplete or unordered interval answers 200 with valid=false.
// @Tags quotes
// @Accept json
// @Produce json
// @Param request body reqdto.QuoteRequest true "Quote request"
// @Success 200 {object} resdto.QuoteResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /quotes [post]
func (h *QuoteHandler) Quote(c *gin.Context) {
	var req reqdto.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err, "Invalid request")
		return
	}

	result, err := h.q.Quote(c.Request.Context(), req.ToInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromQuoteResult(result))
}
