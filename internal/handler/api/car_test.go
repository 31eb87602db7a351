//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"

	"easyrent/internal/domain/user"
	"easyrent/internal/handler/api"
	resdto "easyrent/internal/handler/dto/response"
	"easyrent/internal/usecase/commands"
	"easyrent/internal/usecase/queries"
	"easyrent/internal/usecase/shared"
	"easyrent/tests/common/httptest"
	commandsmock "easyrent/tests/mock/commands"
	queriesmock "easyrent/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type CarHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockQueries  *queriesmock.MockVehicleQueries
	mockCommands *commandsmock.MockVehicleCommands
	agent        shared.Actor
}

func (s *CarHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockQueries = queriesmock.NewMockVehicleQueries(s.mockCtrl)
	s.mockCommands = commandsmock.NewMockVehicleCommands(s.mockCtrl)
	agencyID := uuid.New()
	s.agent = shared.Actor{UserID: uuid.New(), Role: user.RoleAgency, AgencyID: &agencyID}
	h := api.NewCarHandler(s.mockQueries, s.mockCommands)

	s.router.GET("/cars", h.List)
	s.router.GET("/cars/:id", h.Get)
	s.router.PATCH("/cars/:id/prices", fakeAuth(s.agent), h.UpdatePrices)
}

func (s *CarHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestCarHandlerSuite(t *testing.T) {
	suite.Run(t, new(CarHandlerTestSuite))
}

func vehicleView() *queries.VehicleView {
	hourly := int64(2000)
	return &queries.VehicleView{
		ID:                    uuid.New(),
		AgencyID:              uuid.New(),
		AgencyName:            "Douala Motors",
		Make:                  "Toyota",
		Model:                 "Corolla",
		Seats:                 5,
		PricePerDay:           25000,
		PricePerHour:          &hourly,
		EffectivePricePerHour: 2000,
		EffectiveMonthlyPrice: 750000,
		DriverAvailable:       true,
		Active:                true,
	}
}

func (s *CarHandlerTestSuite) TestList() {
	s.Run("success: maps views to camelCase cars", func() {
		view := vehicleView()
		s.mockQueries.EXPECT().List(gomock.Any(), queries.VehicleFilter{}).Return([]*queries.VehicleView{view}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/cars", nil, "")

		var res []resdto.CarResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &res)
		s.Require().Len(res, 1)
		s.Equal(view.ID, res[0].ID)
		s.Equal(int64(750000), res[0].EffectiveMonthlyPrice)
		s.Nil(res[0].MonthlyPrice)
		s.Require().NotNil(res[0].PricePerHour)
		s.Equal(int64(2000), *res[0].PricePerHour)
	})

	s.Run("success: filters are forwarded", func() {
		agencyID := uuid.New()
		withDriver := true
		s.mockQueries.EXPECT().List(gomock.Any(), queries.VehicleFilter{AgencyID: &agencyID, WithDriver: &withDriver, Limit: 5}).
			Return([]*queries.VehicleView{}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			"/cars?agencyId="+agencyID.String()+"&withDriver=true&limit=5", nil, "")
		s.Equal(http.StatusOK, rec.Code)
		s.JSONEq(`[]`, rec.Body.String())
	})

	s.Run("error: 400 on malformed agency id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/cars?agencyId=nope", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid query")
	})
}

func (s *CarHandlerTestSuite) TestGet() {
	s.Run("success", func() {
		view := vehicleView()
		s.mockQueries.EXPECT().GetByID(gomock.Any(), view.ID).Return(view, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/cars/"+view.ID.String(), nil, "")

		var res resdto.CarResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &res)
		s.Equal("Douala Motors", res.AgencyName)
	})

	s.Run("error: 404", func() {
		id := uuid.New()
		s.mockQueries.EXPECT().GetByID(gomock.Any(), id).Return(nil, queries.ErrCarNotFound)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/cars/"+id.String(), nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Car not found")
	})
}

func (s *CarHandlerTestSuite) TestUpdatePrices() {
	s.Run("success: partial update", func() {
		view := vehicleView()
		monthly := int64(600000)
		s.mockCommands.EXPECT().UpdatePrices(gomock.Any(), s.agent, view.ID,
			commands.UpdatePricesInput{MonthlyPrice: &monthly, ClearHourly: true}).Return(view, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, "/cars/"+view.ID.String()+"/prices",
			map[string]any{"monthlyPrice": 600000, "clearHourly": true}, "token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 400 on non-positive price", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, "/cars/"+uuid.NewString()+"/prices",
			map[string]any{"pricePerDay": 0}, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			err            error
			expectedStatus int
		}{
			{name: "other agency", err: commands.ErrForbidden, expectedStatus: http.StatusForbidden},
			{name: "unknown car", err: commands.ErrCarNotFound, expectedStatus: http.StatusNotFound},
			{name: "invalid combination", err: commands.ErrValidation, expectedStatus: http.StatusBadRequest},
			{name: "internal", err: errors.New("boom"), expectedStatus: http.StatusInternalServerError},
		}
		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().UpdatePrices(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, tc.err)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, "/cars/"+uuid.NewString()+"/prices",
					map[string]any{"pricePerDay": 30000}, "token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, "")
			})
		}
	})
}
