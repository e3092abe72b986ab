package external

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	apperrors "myna/internal/errors"
	"myna/internal/metrics"
	"myna/internal/models"
)

// PMSClient talks to the property-management system's listing API. Every
// operation is a single GET against the shared endpoint, distinguished by the
// request_type parameter; payload-bearing calls pass a JSON document as one
// percent-encoded query parameter.
type PMSClient struct {
	baseURL    string
	hotelCode  string
	apiKey     string
	httpClient *http.Client
}

type PMSConfig struct {
	BaseURL   string
	HotelCode string
	APIKey    string
	Timeout   time.Duration
}

// ProcessAction is the terminal action reported to the PMS for a reservation
type ProcessAction string

const (
	ConfirmBooking ProcessAction = "ConfirmBooking"
	FailBooking    ProcessAction = "FailBooking"
	PendingBooking ProcessAction = "PendingBooking"
)

// BookingConfirmation is a successfully classified InsertBooking response
type BookingConfirmation struct {
	Reservation models.Reservation
	Data        json.RawMessage
}

// ProcessResult is the classified outcome of a ProcessBooking call. It is a
// plain value, never an error: the reconciliation flow has to report its own
// outcome regardless of how this call went.
type ProcessResult struct {
	Success bool
	Error   string
	Raw     json.RawMessage
}

func NewPMSClient(cfg PMSConfig) *PMSClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &PMSClient{
		baseURL:   cfg.BaseURL,
		hotelCode: cfg.HotelCode,
		apiKey:    cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// baseParams returns the query parameters carried on every listing API call
func (pc *PMSClient) baseParams(requestType string) url.Values {
	params := url.Values{}
	params.Set("request_type", requestType)
	params.Set("HotelCode", pc.hotelCode)
	params.Set("APIKey", pc.apiKey)
	params.Set("language", "en")
	return params
}

// get performs one listing API call and returns the raw body. Non-2xx
// responses surface the upstream status and body verbatim; nothing retries.
func (pc *PMSClient) get(requestType string, params url.Values) ([]byte, error) {
	resp, err := pc.httpClient.Get(pc.baseURL + "?" + params.Encode())
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues("pms", requestType, "error").Inc()
		return nil, &apperrors.UpstreamTransportError{Err: fmt.Errorf("pms %s call failed: %w", requestType, err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues("pms", requestType, "error").Inc()
		return nil, &apperrors.UpstreamTransportError{Err: fmt.Errorf("failed to read pms response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.UpstreamRequestsTotal.WithLabelValues("pms", requestType, "error").Inc()
		return nil, &apperrors.UpstreamTransportError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	metrics.UpstreamRequestsTotal.WithLabelValues("pms", requestType, "ok").Inc()
	return body, nil
}

// SearchRooms returns the upstream room availability list verbatim
func (pc *PMSClient) SearchRooms(req *models.SearchRoomsRequest) (json.RawMessage, error) {
	if req.CheckIn == "" || req.CheckOut == "" || req.Rooms == 0 || req.Adults == 0 {
		return nil, apperrors.NewValidation("Missing required fields: checkIn, checkOut, rooms, adults")
	}

	params := pc.baseParams("RoomList")
	params.Set("check_in_date", req.CheckIn)
	params.Set("check_out_date", req.CheckOut)
	params.Set("number_adults", strconv.Itoa(req.Adults))
	params.Set("number_children", strconv.Itoa(req.Children))
	params.Set("num_rooms", strconv.Itoa(req.Rooms))
	params.Set("promotion_code", "")
	params.Set("property_configuration_info", "0")
	params.Set("showtax", "0")
	params.Set("show_only_available_rooms", "1")
	params.Set("roomtypeunkid", "")
	params.Set("packagefor", "DESKTOP")
	params.Set("promotionfor", "DESKTOP")

	return pc.get("RoomList", params)
}

// CreateBooking submits the booking payload as the BookingData query
// parameter and classifies the response. Exactly one of a confirmation or a
// typed error comes back, never both.
func (pc *PMSClient) CreateBooking(req *models.CreateBookingRequest) (*BookingConfirmation, error) {
	if req.CheckIn == "" || req.CheckOut == "" || len(req.Rooms) == 0 || req.Email == "" {
		return nil, apperrors.NewValidation("Missing required fields: checkIn, checkOut, rooms, email")
	}

	bookingData, err := json.Marshal(buildBookingDocument(req))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal booking data: %w", err)
	}

	params := pc.baseParams("InsertBooking")
	params.Set("BookingData", string(bookingData))

	body, err := pc.get("InsertBooking", params)
	if err != nil {
		return nil, err
	}

	return classifyBookingResponse(body)
}

// bookingDocument is the flat JSON shape the PMS expects for InsertBooking
type bookingDocument struct {
	CheckInDate    string                `json:"check_in_date"`
	CheckOutDate   string                `json:"check_out_date"`
	RoomDetails    []bookingRoomDocument `json:"Room_Details"`
	EmailAddress   string                `json:"Email_Address"`
	FirstName      string                `json:"First_Name,omitempty"`
	LastName       string                `json:"Last_Name,omitempty"`
	MobileNo       string                `json:"Mobile_No,omitempty"`
	Address        string                `json:"Address,omitempty"`
	City           string                `json:"City,omitempty"`
	State          string                `json:"State,omitempty"`
	Country        string                `json:"Country,omitempty"`
	ZipCode        string                `json:"Zip_Code,omitempty"`
	SpecialRequest string                `json:"Special_Request,omitempty"`
	PaymentMode    string                `json:"Booking_Payment_Mode,omitempty"`
}

type bookingRoomDocument struct {
	RoomTypeID string `json:"Roomtype_Unkid"`
	RatePlanID string `json:"Ratetype_Unkid"`
	NumberRoom int    `json:"Number_Of_Rooms"`
	Adults     int    `json:"Number_Adults"`
	Children   int    `json:"Number_Children"`
}

func buildBookingDocument(req *models.CreateBookingRequest) *bookingDocument {
	doc := &bookingDocument{
		CheckInDate:    req.CheckIn,
		CheckOutDate:   req.CheckOut,
		EmailAddress:   req.Email,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		MobileNo:       req.Phone,
		Address:        req.Address,
		City:           req.City,
		State:          req.State,
		Country:        req.Country,
		ZipCode:        req.ZipCode,
		SpecialRequest: req.SpecialRequest,
		PaymentMode:    req.PaymentMode,
	}

	for _, room := range req.Rooms {
		doc.RoomDetails = append(doc.RoomDetails, bookingRoomDocument{
			RoomTypeID: room.RoomTypeID,
			RatePlanID: room.RatePlanID,
			NumberRoom: room.RoomCount,
			Adults:     room.Adults,
			Children:   room.Children,
		})
	}

	return doc
}

// classifyBookingResponse maps the heterogeneous InsertBooking response
// shapes onto a single outcome. The checks run in a fixed priority order:
// reservation number, structured error details, generic error field,
// non-empty array (the PMS returns arrays only for error conditions),
// then unexpected shape.
func classifyBookingResponse(body []byte) (*BookingConfirmation, error) {
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, &apperrors.UnexpectedShapeError{Raw: string(body)}
	}

	switch v := decoded.(type) {
	case map[string]any:
		if rn, ok := v["ReservationNo"].(string); ok && rn != "" {
			reservation := models.Reservation{
				ReservationNo: rn,
				InventoryMode: models.DefaultInventoryMode,
			}
			if sub, ok := v["SubReservationNo"].(string); ok {
				reservation.SubReservationNo = sub
			}
			if mode, ok := v["Inventory_Mode"].(string); ok && mode != "" {
				reservation.InventoryMode = mode
			}
			return &BookingConfirmation{Reservation: reservation, Data: body}, nil
		}

		if details, ok := v["Error_Details"].(map[string]any); ok {
			return nil, &apperrors.BookingRejectedError{
				Message: stringValue(details["Error_Message"]),
				Code:    stringValue(details["Error_Code"]),
			}
		}

		if msg, ok := firstPresent(v, "error", "Error"); ok {
			return nil, &apperrors.BookingRejectedError{Message: stringValue(msg)}
		}

		return nil, &apperrors.UnexpectedShapeError{Raw: string(body)}

	case []any:
		if len(v) > 0 {
			return nil, &apperrors.BookingRejectedError{Message: string(body)}
		}
		return nil, &apperrors.UnexpectedShapeError{Raw: string(body)}

	default:
		return nil, &apperrors.UnexpectedShapeError{Raw: string(body)}
	}
}

// GetExtraCharges returns the configured extra-charge catalog. Extras are
// optional, so upstream errors, the numeric -1 no-data sentinel and transport
// failures all fold into an empty list.
func (pc *PMSClient) GetExtraCharges() json.RawMessage {
	return pc.optionalCatalog("ExtraCharges")
}

// GetPaymentGateways returns the configured payment gateways. An empty list
// is a valid state meaning pay-at-property only, so the error policy matches
// GetExtraCharges.
func (pc *PMSClient) GetPaymentGateways() json.RawMessage {
	return pc.optionalCatalog("ConfiguredPGList")
}

var emptyList = json.RawMessage("[]")

func (pc *PMSClient) optionalCatalog(requestType string) json.RawMessage {
	body, err := pc.get(requestType, pc.baseParams(requestType))
	if err != nil {
		return emptyList
	}

	// Only an array is a usable catalog; error objects and the -1 sentinel
	// both mean "nothing configured".
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return emptyList
	}
	if _, ok := decoded.([]any); !ok {
		return emptyList
	}

	return body
}

// CalculateExtraCharge prices one extra-charge item for the given stay
func (pc *PMSClient) CalculateExtraCharge(req *models.CalculateExtraChargeRequest) (*models.ExtraChargeResult, error) {
	if req.CheckInDate == "" || req.CheckOutDate == "" || req.ExtraChargeID == "" || req.TotalExtraItem == 0 {
		return nil, apperrors.NewValidation("Missing required fields: checkInDate, checkOutDate, extraChargeId, totalExtraItem")
	}

	params := pc.baseParams("CalculateExtraCharge")
	params.Set("check_in_date", req.CheckInDate)
	params.Set("check_out_date", req.CheckOutDate)
	params.Set("extra_charge_unkid", req.ExtraChargeID)
	params.Set("number_of_item", strconv.Itoa(req.TotalExtraItem))

	body, err := pc.get("CalculateExtraCharge", params)
	if err != nil {
		return nil, err
	}

	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, &apperrors.UnexpectedShapeError{Raw: string(body)}
	}

	if msg, ok := firstPresent(decoded, "error", "Error"); ok {
		return nil, &apperrors.CalculationError{Message: stringValue(msg)}
	}

	total, ok := firstPresent(decoded, "Total_Charge", "TotalCharge")
	if !ok {
		return nil, &apperrors.CalculationError{Message: "total charge missing from response"}
	}

	result := &models.ExtraChargeResult{TotalCharge: stringValue(total)}
	if charges, ok := firstPresent(decoded, "Individual_Charges", "IndividualCharges"); ok {
		if raw, err := json.Marshal(charges); err == nil {
			result.IndividualCharges = raw
		}
	}

	return result, nil
}

// ProcessBooking reports the terminal confirm/fail action for a reservation.
// The inventory mode must be echoed exactly as the PMS returned it at
// booking time.
func (pc *PMSClient) ProcessBooking(action ProcessAction, reservationNo, inventoryMode, errorText string) ProcessResult {
	processData, err := json.Marshal(map[string]string{
		"Action":         string(action),
		"ReservationNo":  reservationNo,
		"Inventory_Mode": inventoryMode,
		"Error_Text":     errorText,
	})
	if err != nil {
		return ProcessResult{Success: false, Error: fmt.Sprintf("failed to marshal process data: %v", err)}
	}

	params := url.Values{}
	params.Set("request_type", "ProcessBooking")
	params.Set("HotelCode", pc.hotelCode)
	params.Set("APIKey", pc.apiKey)
	params.Set("Process_Data", string(processData))
	params.Set("LANGUAGE", "en")

	body, err := pc.get("ProcessBooking", params)
	if err != nil {
		return ProcessResult{Success: false, Error: err.Error()}
	}

	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return ProcessResult{Success: false, Error: "unknown response from ProcessBooking API", Raw: body}
	}

	if result, ok := decoded["result"].(string); ok && result == "success" {
		return ProcessResult{Success: true, Raw: body}
	}
	if success, ok := decoded["Success"]; ok && truthy(success) {
		return ProcessResult{Success: true, Raw: body}
	}
	if msg, ok := firstPresent(decoded, "error", "Error"); ok {
		return ProcessResult{Success: false, Error: stringValue(msg), Raw: body}
	}

	return ProcessResult{Success: false, Error: "unknown response from ProcessBooking API", Raw: body}
}

func firstPresent(m map[string]any, keys ...string) (any, bool) {
	for _, key := range keys {
		if v, ok := m[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func stringValue(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		raw, err := json.Marshal(s)
		if err != nil {
			return fmt.Sprint(s)
		}
		return string(raw)
	}
}

func truthy(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return b == "true" || b == "1"
	case float64:
		return b != 0
	default:
		return false
	}
}
