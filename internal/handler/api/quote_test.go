//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"easyrent/internal/domain/pricing"
	"easyrent/internal/handler/api"
	resdto "easyrent/internal/handler/dto/response"
	"easyrent/internal/usecase/queries"
	"easyrent/tests/common/httptest"
	"easyrent/tests/common/testutil"
	queriesmock "easyrent/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type QuoteHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockCtrl    *gomock.Controller
	mockQueries *queriesmock.MockPricingQueries
}

func (s *QuoteHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockQueries = queriesmock.NewMockPricingQueries(s.mockCtrl)
	s.router.POST("/quotes", api.NewQuoteHandler(s.mockQueries).Quote)
}

func (s *QuoteHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestQuoteHandlerSuite(t *testing.T) {
	suite.Run(t, new(QuoteHandlerTestSuite))
}

func (s *QuoteHandlerTestSuite) TestQuote() {
	carID := uuid.New()
	body := map[string]any{
		"carId":       carID.String(),
		"pricingMode": "daily",
		"startDate":   "2025-07-01",
		"startTime":   "09:00",
		"endDate":     "2025-07-11",
		"endTime":     "09:00",
		"withDriver":  true,
	}

	s.Run("success: ten days with driver", func() {
		expected := queries.QuoteInput{
			CarID:      carID,
			Mode:       "daily",
			StartDate:  "2025-07-01",
			StartTime:  "09:00",
			EndDate:    "2025-07-11",
			EndTime:    "09:00",
			WithDriver: true,
		}
		s.mockQueries.EXPECT().Quote(gomock.Any(), expected).Return(&queries.QuoteResult{
			CarID:    carID,
			Currency: "XAF",
			Quote: pricing.Quote{
				Valid:           true,
				Mode:            pricing.ModeDaily,
				WithDriver:      true,
				Unit:            pricing.UnitDay,
				UnitPrice:       25000,
				Duration:        10,
				DurationHours:   240,
				DiscountPercent: 10,
				ListPrice:       250000,
				RentalPrice:     225000,
				DriverFee:       100000,
				TotalPrice:      325000,
			},
		}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/quotes", body, "")

		var res resdto.QuoteResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &res)
		s.True(res.Valid)
		s.Equal("day", res.Unit)
		s.Equal(int64(325000), res.TotalPrice)
		s.Equal(10, res.DiscountPercent)
	})

	s.Run("success: incomplete interval is 200 with valid=false", func() {
		s.mockQueries.EXPECT().Quote(gomock.Any(), gomock.Any()).Return(&queries.QuoteResult{
			CarID:    carID,
			Currency: "XAF",
			Quote:    pricing.Quote{Mode: pricing.ModeDaily},
		}, nil)

		req := testutil.DtoMap(s.T(), body, testutil.Field("endDate", ""))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/quotes", req, "")

		var res resdto.QuoteResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &res)
		s.False(res.Valid)
		s.Zero(res.TotalPrice)
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			err            error
			expectedStatus int
			expectedMsg    string
		}{
			{name: "unknown mode", err: queries.ErrUnknownPricingMode, expectedStatus: http.StatusBadRequest, expectedMsg: "Unknown pricing mode"},
			{name: "malformed date", err: queries.ErrMalformedInstant, expectedStatus: http.StatusBadRequest, expectedMsg: "Malformed"},
			{name: "unknown car", err: queries.ErrCarNotFound, expectedStatus: http.StatusNotFound, expectedMsg: "Car not found"},
		}
		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockQueries.EXPECT().Quote(gomock.Any(), gomock.Any()).Return(nil, tc.err)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/quotes", body, "")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})

	s.Run("error: 400 without car or mode", func() {
		for _, field := range []string{"carId", "pricingMode"} {
			s.Run(field, func() {
				req := testutil.DtoMap(s.T(), body, testutil.Field(field, nil))
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/quotes", req, "")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
			})
		}
	})
}
