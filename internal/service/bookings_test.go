package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"myna/internal/external"
	"myna/internal/messaging"
	"myna/internal/models"

	"github.com/stretchr/testify/assert"
)

func newBookingService(pmsURL string) *BookingService {
	pms := external.NewPMSClient(external.PMSConfig{BaseURL: pmsURL, HotelCode: "49890", APIKey: "key"})
	return NewBookingService(pms, nil, &messaging.NATSClient{})
}

func TestSearchRoomsPassThrough(t *testing.T) {
	upstream := `[{"Room_Type":"Deluxe"}]`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(upstream))
	}))
	defer server.Close()

	svc := newBookingService(server.URL)
	data, err := svc.SearchRooms(context.Background(), &models.SearchRoomsRequest{
		CheckIn:  "2025-06-01",
		CheckOut: "2025-06-03",
		Rooms:    1,
		Adults:   2,
	})

	assert.NoError(t, err)
	assert.JSONEq(t, upstream, string(data))
}

func TestCatalogsWithoutCache(t *testing.T) {
	upstream := `[{"ExtraChargeId":"ec-1"}]`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(upstream))
	}))
	defer server.Close()

	svc := newBookingService(server.URL)

	assert.JSONEq(t, upstream, string(svc.ExtraCharges(context.Background())))
	assert.JSONEq(t, upstream, string(svc.PaymentGateways(context.Background())))
}

func TestCatalogsEmptyOnUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	svc := newBookingService(server.URL)

	assert.JSONEq(t, `[]`, string(svc.ExtraCharges(context.Background())))
	assert.JSONEq(t, `[]`, string(svc.PaymentGateways(context.Background())))
}

func TestCreateBookingReturnsReservation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ReservationNo":"R123","Inventory_Mode":"ALLOCATED"}`))
	}))
	defer server.Close()

	svc := newBookingService(server.URL)
	confirmation, err := svc.Create(context.Background(), &models.CreateBookingRequest{
		CheckIn:  "2025-06-01",
		CheckOut: "2025-06-03",
		Email:    "guest@example.com",
		Rooms:    []models.RoomSelection{{RoomTypeID: "rt-1", RatePlanID: "rp-1", RoomCount: 1, Adults: 2}},
	})

	assert.NoError(t, err)
	assert.Equal(t, "R123", confirmation.Reservation.ReservationNo)
}
