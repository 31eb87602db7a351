//go:build e2e

package notification_test

import (
	"encoding/json"
	"net/http"
	nethttptest "net/http/httptest"
	"strings"
	"testing"
	"time"

	"easyrent/internal/domain/user"
	"easyrent/internal/handler/dto/request"
	"easyrent/internal/handler/dto/response"
	"easyrent/tests/common/authtest"
	"easyrent/tests/common/dbtest"
	"easyrent/tests/common/httptest"
	"easyrent/tests/e2e"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type notificationSuite struct {
	e2e.SharedSuite
}

func TestNotificationSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(notificationSuite))
}

type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func (s *notificationSuite) TestWebSocketFeed() {
	s.Run("pushes booking events published through redis", func() {
		t := s.T()

		carID := dbtest.CreateTestCar(t, s.DB, dbtest.TestCar{
			AgencyID:    dbtest.DefaultAgencyID(t, s.DB),
			PricePerDay: 15000,
			Active:      true,
		})
		token := authtest.CreateAndLogin(t, s.DB, s.Router, "ws@example.com", string(user.RoleCustomer))

		srv := nethttptest.NewServer(s.Router)
		defer srv.Close()

		wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/notifications/ws?token=" + token
		conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
		require.NoError(t, err)
		defer conn.Close()

		_ = conn.SetReadDeadline(time.Now().Add(10 * time.Second))
		var init frame
		require.NoError(t, conn.ReadJSON(&init))
		require.Equal(t, "init", init.Event)

		start := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Hour)
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, "/api/bookings", request.CreateBookingRequest{
			Car:        request.CarRef{ID: carID},
			StartDate:  start,
			EndDate:    start.Add(24 * time.Hour),
			RentalType: "daily",
		}, token)
		var booking response.BookingResponse
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &booking)

		var pushed frame
		require.NoError(t, conn.ReadJSON(&pushed))
		require.Equal(t, "booking_created", pushed.Event)

		var n response.NotificationResponse
		require.NoError(t, json.Unmarshal(pushed.Data, &n))
		require.NotNil(t, n.BookingID)
		require.Equal(t, booking.ID, *n.BookingID)
	})

	s.Run("rejects a missing token", func() {
		t := s.T()

		srv := nethttptest.NewServer(s.Router)
		defer srv.Close()

		_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/api/notifications/ws", nil)
		require.Error(t, err)
		require.NotNil(t, resp)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
