//go:build e2e

package booking_test

import (
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"testing"
	"time"

	"easyrent/internal/domain/user"
	"easyrent/internal/handler/api"
	"easyrent/internal/handler/dto/request"
	"easyrent/internal/handler/dto/response"
	"easyrent/tests/common/authtest"
	"easyrent/tests/common/dbtest"
	"easyrent/tests/common/httptest"
	"easyrent/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	bookingsURL     = "/api/bookings"
	quotesURL       = "/api/quotes"
	paymentsURL     = "/api/payments"
	notificationURL = "/api/notifications"
)

type bookingSuite struct {
	e2e.SharedSuite

	carID uuid.UUID
	token string
	start time.Time
}

func TestBookingSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(bookingSuite))
}

func (s *bookingSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()

	t := s.T()
	s.carID = dbtest.CreateTestCar(t, s.DB, dbtest.TestCar{
		AgencyID:    dbtest.DefaultAgencyID(t, s.DB),
		PricePerDay: 20000,
		Active:      true,
	})
	s.token = authtest.CreateAndLogin(t, s.DB, s.Router, "customer@example.com", string(user.RoleCustomer))
	s.start = time.Now().UTC().Add(72 * time.Hour).Truncate(24 * time.Hour).Add(9 * time.Hour)
}

func (s *bookingSuite) createBooking(t *testing.T, start, end time.Time, headers map[string]string) *response.BookingResponse {
	t.Helper()
	w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, bookingsURL, s.bookingRequest(start, end), headers, s.token)
	var res response.BookingResponse
	httptest.AssertSuccessResponse(t, w, http.StatusCreated, &res)
	return &res
}

func (s *bookingSuite) bookingRequest(start, end time.Time) request.CreateBookingRequest {
	return request.CreateBookingRequest{
		Car:        request.CarRef{ID: s.carID},
		StartDate:  start,
		EndDate:    end,
		RentalType: "daily",
	}
}

func (s *bookingSuite) TestCreate() {
	s.Run("price matches the quote", func() {
		t := s.T()
		end := s.start.Add(72 * time.Hour)

		qw := httptest.PerformRequest(t, s.Router, http.MethodPost, quotesURL, request.QuoteRequest{
			CarID:       s.carID,
			PricingMode: "daily",
			StartDate:   s.start.Format("2006-01-02"),
			StartTime:   s.start.Format("15:04"),
			EndDate:     end.Format("2006-01-02"),
			EndTime:     end.Format("15:04"),
		}, "")
		var quote response.QuoteResponse
		httptest.AssertSuccessResponse(t, qw, http.StatusOK, &quote)
		require.True(t, quote.Valid)

		booking := s.createBooking(t, s.start, end, nil)
		require.Equal(t, "pending", booking.Status)
		require.Equal(t, quote.TotalPrice, booking.TotalPrice)
		require.Equal(t, s.carID, booking.CarID)
		require.Equal(t, "customer@example.com", booking.UserEmail)
	})

	s.Run("overlap is rejected, adjacent is accepted", func() {
		t := s.T()
		end := s.start.Add(48 * time.Hour)
		s.createBooking(t, s.start, end, nil)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, s.bookingRequest(s.start.Add(24*time.Hour), end.Add(24*time.Hour)), s.token)
		httptest.AssertErrorResponse(t, w, http.StatusConflict, "already booked")

		// [start, end) is half-open
		s.createBooking(t, end, end.Add(24*time.Hour), nil)
	})

	s.Run("concurrent requests for one slot", func() {
		t := s.T()
		end := s.start.Add(24 * time.Hour)

		const n = 5
		codes := make([]int, n)
		var wg sync.WaitGroup
		for i := range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, s.bookingRequest(s.start, end), s.token)
				codes[i] = w.Code
			}()
		}
		wg.Wait()

		created := 0
		for _, code := range codes {
			if code == http.StatusCreated {
				created++
				continue
			}
			require.Equal(t, http.StatusConflict, code)
		}
		require.Equal(t, 1, created)
	})

	s.Run("idempotent replay", func() {
		t := s.T()
		end := s.start.Add(24 * time.Hour)
		headers := map[string]string{api.HeaderIdempotencyKey: uuid.NewString()}

		first := s.createBooking(t, s.start, end, headers)

		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, bookingsURL, s.bookingRequest(s.start, end), headers, s.token)
		var replay response.BookingResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &replay)
		require.Equal(t, "true", w.Header().Get(api.HeaderIdempotentReplayed))
		require.Equal(t, first.ID, replay.ID)

		w = httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, bookingsURL, s.bookingRequest(s.start, end.Add(time.Hour)), headers, s.token)
		require.Equal(t, http.StatusConflict, w.Code)
	})

	s.Run("requires authentication", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, bookingsURL, s.bookingRequest(s.start, s.start.Add(time.Hour)), "")
		require.Equal(s.T(), http.StatusUnauthorized, w.Code)
	})
}

func (s *bookingSuite) TestAvailability() {
	s.Run("occupied slots and probe", func() {
		t := s.T()
		end := s.start.Add(48 * time.Hour)
		s.createBooking(t, s.start, end, nil)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf("%s/car/%s/occupied", bookingsURL, s.carID), nil, "")
		var slots []response.OccupiedSlotResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &slots)
		require.Len(t, slots, 1)
		require.True(t, slots[0].StartDate.Equal(s.start))

		check := func(start, end time.Time) bool {
			q := url.Values{}
			q.Set("carId", s.carID.String())
			q.Set("startDate", start.Format(time.RFC3339))
			q.Set("endDate", end.Format(time.RFC3339))
			w := httptest.PerformRequest(t, s.Router, http.MethodGet, bookingsURL+"/check-availability?"+q.Encode(), nil, "")
			var res response.AvailabilityResponse
			httptest.AssertSuccessResponse(t, w, http.StatusOK, &res)
			return res.Available
		}
		require.False(t, check(s.start.Add(time.Hour), s.start.Add(2*time.Hour)))
		require.True(t, check(end, end.Add(time.Hour)))
		require.True(t, check(s.start.Add(-time.Hour), s.start))
	})
}

func (s *bookingSuite) TestLifecycle() {
	s.Run("cancel frees the slot", func() {
		t := s.T()
		end := s.start.Add(24 * time.Hour)
		booking := s.createBooking(t, s.start, end, nil)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf("%s/%s/cancel", bookingsURL, booking.ID), nil, s.token)
		var cancelled response.BookingResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &cancelled)
		require.Equal(t, "cancelled", cancelled.Status)

		s.createBooking(t, s.start, end, nil)
	})

	s.Run("other customers cannot see the booking", func() {
		t := s.T()
		booking := s.createBooking(t, s.start, s.start.Add(24*time.Hour), nil)
		other := authtest.CreateAndLogin(t, s.DB, s.Router, "other@example.com", string(user.RoleCustomer))

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf("%s/%s", bookingsURL, booking.ID), nil, other)
		require.Equal(t, http.StatusForbidden, w.Code)
	})

	s.Run("list is newest first and paginates", func() {
		t := s.T()
		for i := range 3 {
			start := s.start.Add(time.Duration(i) * 24 * time.Hour)
			s.createBooking(t, start, start.Add(24*time.Hour), nil)
		}

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, bookingsURL+"?limit=2", nil, s.token)
		var page response.BookingListResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &page)
		require.Len(t, page.Items, 2)
		require.NotEmpty(t, page.NextCursor)
		require.False(t, page.Items[0].CreatedAt.Before(page.Items[1].CreatedAt))

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, bookingsURL+"?limit=2&after="+url.QueryEscape(page.NextCursor), nil, s.token)
		var rest response.BookingListResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &rest)
		require.Len(t, rest.Items, 1)
		require.Empty(t, rest.NextCursor)
	})
}

func (s *bookingSuite) TestPayment() {
	s.Run("mobile money confirms the booking", func() {
		t := s.T()
		booking := s.createBooking(t, s.start, s.start.Add(24*time.Hour), nil)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, paymentsURL+"/checkout?bookingId="+booking.ID.String(), nil, s.token)
		var checkout response.CheckoutResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &checkout)
		require.Equal(t, booking.TotalPrice, checkout.Amount)
		require.False(t, checkout.Paid)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, paymentsURL, request.PaymentRequest{
			BookingID:   booking.ID,
			Method:      "mobile_money",
			PhoneNumber: "677123456",
		}, s.token)
		var paid response.PaymentResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &paid)
		require.Equal(t, booking.TotalPrice, paid.Amount)
		require.NotNil(t, paid.Booking)
		require.Equal(t, "confirmed", paid.Booking.Status)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, paymentsURL, request.PaymentRequest{
			BookingID:   booking.ID,
			Method:      "mobile_money",
			PhoneNumber: "677123456",
		}, s.token)
		require.Equal(t, http.StatusConflict, w.Code)
	})

	s.Run("declined wallet", func() {
		t := s.T()
		booking := s.createBooking(t, s.start, s.start.Add(24*time.Hour), nil)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, paymentsURL, request.PaymentRequest{
			BookingID:   booking.ID,
			Method:      "mobile_money",
			PhoneNumber: "699999999",
		}, s.token)
		httptest.AssertErrorResponse(t, w, http.StatusPaymentRequired, "Payment failed")

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf("%s/%s", bookingsURL, booking.ID), nil, s.token)
		var after response.BookingResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &after)
		require.Equal(t, "pending", after.Status)
	})
}

func (s *bookingSuite) TestNotifications() {
	s.Run("booking creation lands in the feed", func() {
		t := s.T()
		booking := s.createBooking(t, s.start, s.start.Add(24*time.Hour), nil)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, notificationURL, nil, s.token)
		var feed []response.NotificationResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &feed)
		require.NotEmpty(t, feed)
		require.Equal(t, "booking_created", feed[0].Event)
		require.NotNil(t, feed[0].BookingID)
		require.Equal(t, booking.ID, *feed[0].BookingID)
	})
}
