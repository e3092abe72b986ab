package external

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	apperrors "myna/internal/errors"
	"myna/internal/models"

	"github.com/stretchr/testify/assert"
)

func newPMSClient(baseURL string) *PMSClient {
	return NewPMSClient(PMSConfig{
		BaseURL:   baseURL,
		HotelCode: "49890",
		APIKey:    "test-api-key",
	})
}

func searchRequest() *models.SearchRoomsRequest {
	return &models.SearchRoomsRequest{
		CheckIn:  "2025-06-01",
		CheckOut: "2025-06-03",
		Rooms:    1,
		Adults:   2,
	}
}

func TestSearchRoomsValidation(t *testing.T) {
	client := newPMSClient("http://localhost:0")

	_, err := client.SearchRooms(&models.SearchRoomsRequest{CheckIn: "2025-06-01"})
	assert.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestSearchRoomsReturnsUpstreamVerbatim(t *testing.T) {
	upstream := `[{"Room_Type":"Deluxe","Room_Rate":"4500"},{"Room_Type":"Suite","Room_Rate":"9000"}]`

	var gotParams url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotParams = r.URL.Query()
		w.Write([]byte(upstream))
	}))
	defer server.Close()

	client := newPMSClient(server.URL)
	data, err := client.SearchRooms(searchRequest())

	assert.NoError(t, err)
	assert.JSONEq(t, upstream, string(data))
	assert.Equal(t, "RoomList", gotParams.Get("request_type"))
	assert.Equal(t, "49890", gotParams.Get("HotelCode"))
	assert.Equal(t, "test-api-key", gotParams.Get("APIKey"))
	assert.Equal(t, "2025-06-01", gotParams.Get("check_in_date"))
	assert.Equal(t, "2025-06-03", gotParams.Get("check_out_date"))
	assert.Equal(t, "2", gotParams.Get("number_adults"))
	assert.Equal(t, "1", gotParams.Get("num_rooms"))
	assert.Equal(t, "1", gotParams.Get("show_only_available_rooms"))
}

func TestSearchRoomsSurfacesUpstreamStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	}))
	defer server.Close()

	client := newPMSClient(server.URL)
	_, err := client.SearchRooms(searchRequest())

	assert.Error(t, err)
	transportErr, ok := err.(*apperrors.UpstreamTransportError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, transportErr.StatusCode)
	assert.Equal(t, "upstream down", transportErr.Body)
}

func bookingRequest() *models.CreateBookingRequest {
	return &models.CreateBookingRequest{
		CheckIn:  "2025-06-01",
		CheckOut: "2025-06-03",
		Email:    "guest@example.com",
		Rooms: []models.RoomSelection{
			{RoomTypeID: "rt-1", RatePlanID: "rp-1", RoomCount: 1, Adults: 2},
		},
	}
}

func TestCreateBookingValidation(t *testing.T) {
	client := newPMSClient("http://localhost:0")

	_, err := client.CreateBooking(&models.CreateBookingRequest{Email: "guest@example.com"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestCreateBookingSendsEncodedBookingData(t *testing.T) {
	var gotParams url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotParams = r.URL.Query()
		w.Write([]byte(`{"ReservationNo":"R123"}`))
	}))
	defer server.Close()

	client := newPMSClient(server.URL)
	confirmation, err := client.CreateBooking(bookingRequest())

	assert.NoError(t, err)
	assert.Equal(t, "R123", confirmation.Reservation.ReservationNo)
	assert.Equal(t, "InsertBooking", gotParams.Get("request_type"))

	// BookingData must arrive as one JSON document in a single parameter
	var doc map[string]any
	err = json.Unmarshal([]byte(gotParams.Get("BookingData")), &doc)
	assert.NoError(t, err)
	assert.Equal(t, "2025-06-01", doc["check_in_date"])
	assert.Equal(t, "guest@example.com", doc["Email_Address"])
	rooms, ok := doc["Room_Details"].([]any)
	assert.True(t, ok)
	assert.Len(t, rooms, 1)
}

func TestClassifyBookingResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
		want func(t *testing.T, confirmation *BookingConfirmation, err error)
	}{
		{
			name: "reservation number wins",
			body: `{"ReservationNo":"R123","SubReservationNo":"R123-1"}`,
			want: func(t *testing.T, confirmation *BookingConfirmation, err error) {
				assert.NoError(t, err)
				assert.Equal(t, "R123", confirmation.Reservation.ReservationNo)
				assert.Equal(t, "R123-1", confirmation.Reservation.SubReservationNo)
				assert.Equal(t, models.DefaultInventoryMode, confirmation.Reservation.InventoryMode)
			},
		},
		{
			name: "inventory mode echoed when present",
			body: `{"ReservationNo":"R124","Inventory_Mode":"REGULAR"}`,
			want: func(t *testing.T, confirmation *BookingConfirmation, err error) {
				assert.NoError(t, err)
				assert.Equal(t, "REGULAR", confirmation.Reservation.InventoryMode)
			},
		},
		{
			name: "structured error details",
			body: `{"Error_Details":{"Error_Message":"No inventory available","Error_Code":102}}`,
			want: func(t *testing.T, confirmation *BookingConfirmation, err error) {
				assert.Nil(t, confirmation)
				rejected, ok := err.(*apperrors.BookingRejectedError)
				assert.True(t, ok)
				assert.Equal(t, "No inventory available", rejected.Message)
				assert.Equal(t, "102", rejected.Code)
			},
		},
		{
			name: "generic error field",
			body: `{"error":"rate plan closed"}`,
			want: func(t *testing.T, confirmation *BookingConfirmation, err error) {
				assert.Nil(t, confirmation)
				rejected, ok := err.(*apperrors.BookingRejectedError)
				assert.True(t, ok)
				assert.Equal(t, "rate plan closed", rejected.Message)
			},
		},
		{
			name: "non-empty array is an implicit error",
			body: `["Invalid dates"]`,
			want: func(t *testing.T, confirmation *BookingConfirmation, err error) {
				assert.Nil(t, confirmation)
				_, ok := err.(*apperrors.BookingRejectedError)
				assert.True(t, ok)
			},
		},
		{
			name: "anything else is unexpected",
			body: `{"status":"done"}`,
			want: func(t *testing.T, confirmation *BookingConfirmation, err error) {
				assert.Nil(t, confirmation)
				_, ok := err.(*apperrors.UnexpectedShapeError)
				assert.True(t, ok)
			},
		},
		{
			name: "non-JSON body is unexpected",
			body: `<html>maintenance</html>`,
			want: func(t *testing.T, confirmation *BookingConfirmation, err error) {
				assert.Nil(t, confirmation)
				_, ok := err.(*apperrors.UnexpectedShapeError)
				assert.True(t, ok)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			confirmation, err := classifyBookingResponse([]byte(tt.body))
			// exactly one of confirmation and err, never both
			assert.True(t, (confirmation == nil) != (err == nil))
			tt.want(t, confirmation, err)
		})
	}
}

func TestOptionalCatalogsNeverFail(t *testing.T) {
	bodies := []string{
		`{"error":"hotel not configured"}`,
		`-1`,
		`not even json`,
		`{"Error":"internal"}`,
	}

	for _, body := range bodies {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))

		client := newPMSClient(server.URL)
		assert.JSONEq(t, `[]`, string(client.GetExtraCharges()), "body: %s", body)
		assert.JSONEq(t, `[]`, string(client.GetPaymentGateways()), "body: %s", body)

		server.Close()
	}
}

func TestOptionalCatalogSwallowsTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	server.Close() // connection refused from here on

	client := newPMSClient(server.URL)
	assert.JSONEq(t, `[]`, string(client.GetExtraCharges()))
	assert.JSONEq(t, `[]`, string(client.GetPaymentGateways()))
}

func TestOptionalCatalogPassesArrayVerbatim(t *testing.T) {
	upstream := `[{"ExtraChargeId":"ec-1","Name":"Airport pickup"}]`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(upstream))
	}))
	defer server.Close()

	client := newPMSClient(server.URL)
	assert.JSONEq(t, upstream, string(client.GetExtraCharges()))
}

func calcRequest() *models.CalculateExtraChargeRequest {
	return &models.CalculateExtraChargeRequest{
		CheckInDate:    "2025-06-01",
		CheckOutDate:   "2025-06-03",
		ExtraChargeID:  "ec-1",
		TotalExtraItem: 2,
	}
}

func TestCalculateExtraChargeValidation(t *testing.T) {
	client := newPMSClient("http://localhost:0")

	_, err := client.CalculateExtraCharge(&models.CalculateExtraChargeRequest{CheckInDate: "2025-06-01"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestCalculateExtraCharge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "CalculateExtraCharge", r.URL.Query().Get("request_type"))
		w.Write([]byte(`{"Individual_Charges":[{"date":"2025-06-01","charge":500}],"Total_Charge":1000}`))
	}))
	defer server.Close()

	client := newPMSClient(server.URL)
	result, err := client.CalculateExtraCharge(calcRequest())

	assert.NoError(t, err)
	assert.Equal(t, "1000", result.TotalCharge)
	assert.NotEmpty(t, result.IndividualCharges)
}

func TestCalculateExtraChargeUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"unknown extra charge"}`))
	}))
	defer server.Close()

	client := newPMSClient(server.URL)
	_, err := client.CalculateExtraCharge(calcRequest())

	calcErr, ok := err.(*apperrors.CalculationError)
	assert.True(t, ok)
	assert.Equal(t, "unknown extra charge", calcErr.Message)
}

func TestCalculateExtraChargeMissingTotal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Individual_Charges":[]}`))
	}))
	defer server.Close()

	client := newPMSClient(server.URL)
	_, err := client.CalculateExtraCharge(calcRequest())

	_, ok := err.(*apperrors.CalculationError)
	assert.True(t, ok)
}

func TestProcessBookingClassification(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantSuccess bool
		wantError   string
	}{
		{"result success", `{"result":"success"}`, true, ""},
		{"capitalized success flag", `{"Success":true}`, true, ""},
		{"error field", `{"error":"reservation not found"}`, false, "reservation not found"},
		{"capitalized error field", `{"Error":"expired"}`, false, "expired"},
		{"unknown shape", `{"status":"maybe"}`, false, "unknown response from ProcessBooking API"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := newPMSClient(server.URL)
			result := client.ProcessBooking(ConfirmBooking, "R123", "ALLOCATED", "")

			assert.Equal(t, tt.wantSuccess, result.Success)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, result.Error)
			}
		})
	}
}

func TestProcessBookingSendsProcessData(t *testing.T) {
	var gotParams url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotParams = r.URL.Query()
		w.Write([]byte(`{"result":"success"}`))
	}))
	defer server.Close()

	client := newPMSClient(server.URL)
	result := client.ProcessBooking(FailBooking, "R123", "ALLOCATED", "Payment verification failed")

	assert.True(t, result.Success)
	assert.Equal(t, "ProcessBooking", gotParams.Get("request_type"))

	var processData map[string]string
	err := json.Unmarshal([]byte(gotParams.Get("Process_Data")), &processData)
	assert.NoError(t, err)
	assert.Equal(t, "FailBooking", processData["Action"])
	assert.Equal(t, "R123", processData["ReservationNo"])
	assert.Equal(t, "ALLOCATED", processData["Inventory_Mode"])
	assert.Equal(t, "Payment verification failed", processData["Error_Text"])
}

func TestProcessBookingNeverReturnsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused

	client := newPMSClient(server.URL)
	result := client.ProcessBooking(ConfirmBooking, "R123", "ALLOCATED", "")

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
}
