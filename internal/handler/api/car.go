package api

import (
	"net/http"

	reqdto "easyrent/internal/handler/dto/request"
	resdto "easyrent/internal/handler/dto/response"
	"easyrent/internal/handler/httperr"
	"easyrent/internal/usecase/commands"
	"easyrent/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CarHandler struct {
	q    queries.VehicleQueries
	cmds commands.VehicleCommands
}

func NewCarHandler(q queries.VehicleQueries, cmds commands.VehicleCommands) *CarHandler {
	return &CarHandler{q: q, cmds: cmds}
}

// @Summary List cars
// @Description List active cars, optionally by agency or chauffeur option
// @Tags cars
// @Produce json
// @Param agencyId query string false "Agency ID"
// @Param withDriver query bool false "Only cars offered with a driver"
// @Param limit query int false "Max items"
// @Success 200 {array} resdto.CarResponse
// @Failure 400 {object} httperr.Response
// @Router /cars [get]
func (h *CarHandler) List(c *gin.Context) {
	var query reqdto.ListCarsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c, err, "Invalid query")
		return
	}

	filter := queries.VehicleFilter{WithDriver: query.WithDriver, Limit: query.Limit}
	if query.AgencyID != "" {
		id := uuid.MustParse(query.AgencyID)
		filter.AgencyID = &id
	}

	views, err := h.q.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	cars, err := resdto.FromVehicleViews(views)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, cars)
}

// @Summary Get car
// @Tags cars
// @Produce json
// @Param id path string true "Car ID"
// @Success 200 {object} resdto.CarResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /cars/{id} [get]
func (h *CarHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, err, "Invalid id")
		return
	}

	view, err := h.q.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	h.writeCar(c, view)
}

// @Summary Update car prices
// @Description Partial update of the daily, hourly and monthly prices
// @Tags cars
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Car ID"
// @Param request body reqdto.UpdatePricesRequest true "Price update"
// @Success 200 {object} resdto.CarResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /cars/{id}/prices [patch]
func (h *CarHandler) UpdatePrices(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, err, "Invalid id")
		return
	}
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req reqdto.UpdatePricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err, "Invalid request")
		return
	}

	view, err := h.cmds.UpdatePrices(c.Request.Context(), actor, id, req.ToInput())
	if err != nil {
		respondError(c, err)
		return
	}
	h.writeCar(c, view)
}

func (h *CarHandler) writeCar(c *gin.Context, view *queries.VehicleView) {
	car, err := resdto.FromVehicleView(view)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, car)
}
