//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"easyrent/internal/domain/payment"
	"easyrent/internal/handler/api"
	resdto "easyrent/internal/handler/dto/response"
	"easyrent/internal/pkg/errs"
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

type PaymentHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockPaymentCommands
	mockQueries  *queriesmock.MockPaymentQueries
	actor        shared.Actor
}

func (s *PaymentHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockPaymentCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockPaymentQueries(s.mockCtrl)
	s.actor = customer()
	h := api.NewPaymentHandler(s.mockCommands, s.mockQueries)

	g := s.router.Group("/payments", fakeAuth(s.actor))
	g.GET("/checkout", h.Checkout)
	g.POST("", h.Pay)
}

func (s *PaymentHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestPaymentHandlerSuite(t *testing.T) {
	suite.Run(t, new(PaymentHandlerTestSuite))
}

func (s *PaymentHandlerTestSuite) TestCheckout() {
	bookingID := uuid.New()

	s.Run("success: amount comes from the booking", func() {
		s.mockQueries.EXPECT().Checkout(gomock.Any(), s.actor, bookingID).Return(&queries.CheckoutView{
			BookingID:   bookingID,
			Amount:      75000,
			Currency:    "XAF",
			Description: "Toyota Corolla, 3 days",
			Status:      "pending",
		}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/payments/checkout?bookingId="+bookingID.String(), nil, "token")

		var res resdto.CheckoutResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &res)
		s.Equal(int64(75000), res.Amount)
		s.Equal("XAF", res.Currency)
		s.False(res.Paid)
	})

	s.Run("error: 400 without booking id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/payments/checkout", nil, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid bookingId")
	})

	s.Run("error: 404", func() {
		s.mockQueries.EXPECT().Checkout(gomock.Any(), s.actor, bookingID).Return(nil, queries.ErrBookingNotFound)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/payments/checkout?bookingId="+bookingID.String(), nil, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Booking not found")
	})
}

func (s *PaymentHandlerTestSuite) TestPay() {
	bookingID := uuid.New()
	body := map[string]any{
		"bookingId":   bookingID.String(),
		"method":      "mobile_money",
		"phoneNumber": "677123456",
	}

	s.Run("success: booking confirmed", func() {
		expected := commands.PayInput{BookingID: bookingID, Method: "mobile_money", PhoneNumber: "677123456"}
		s.mockCommands.EXPECT().Pay(gomock.Any(), expected, s.actor).Return(&commands.PaymentResult{
			PaymentID: uuid.New(),
			BookingID: bookingID,
			Status:    "succeeded",
			Reference: "MM-123",
			Amount:    75000,
			Currency:  "XAF",
			Booking:   &queries.BookingView{ID: bookingID, Status: "confirmed"},
		}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/payments", body, "token")

		var res resdto.PaymentResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &res)
		s.Equal("succeeded", res.Status)
		s.Require().NotNil(res.Booking)
		s.Equal("confirmed", res.Booking.Status)
	})

	s.Run("error: 402 when the gateway declines", func() {
		s.mockCommands.EXPECT().Pay(gomock.Any(), gomock.Any(), s.actor).
			Return(nil, errs.Mark(payment.ErrDeclined, commands.ErrPaymentFailed))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/payments", body, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusPaymentRequired, "Payment failed")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			err            error
			expectedStatus int
		}{
			{name: "bad phone", err: commands.ErrInvalidPayment, expectedStatus: http.StatusBadRequest},
			{name: "already paid", err: commands.ErrAlreadyPaid, expectedStatus: http.StatusConflict},
			{name: "cancelled", err: commands.ErrBookingCancelled, expectedStatus: http.StatusConflict},
			{name: "other user", err: commands.ErrForbidden, expectedStatus: http.StatusForbidden},
			{name: "unknown booking", err: commands.ErrBookingNotFound, expectedStatus: http.StatusNotFound},
		}
		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Pay(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, tc.err)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/payments", body, "token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, "")
			})
		}
	})

	s.Run("error: 400 on unknown method", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/payments",
			map[string]any{"bookingId": bookingID.String(), "method": "cash"}, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})
}
