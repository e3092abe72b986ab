package models

import "encoding/json"

// Booking lifecycle statuses reported to the client. The authoritative
// reservation state lives in the PMS; these only describe the outcome of the
// reconciliation flow for the current request.
const (
	BookingStatusConfirmed           = "CONFIRMED"
	BookingStatusFailed              = "FAILED"
	BookingStatusPendingConfirmation = "PENDING_CONFIRMATION"
)

// DefaultInventoryMode is echoed to the PMS when the client does not supply
// the allocation mode returned at booking time.
const DefaultInventoryMode = "ALLOCATED"

// SearchRoomsRequest - room availability search
type SearchRoomsRequest struct {
	CheckIn  string `json:"checkIn" binding:"required"`
	CheckOut string `json:"checkOut" binding:"required"`
	Rooms    int    `json:"rooms" binding:"required"`
	Adults   int    `json:"adults" binding:"required"`
	Children int    `json:"children,omitempty"`
}

// SearchRoomsResponse echoes the search parameters next to the verbatim
// upstream room list, matching what booking front-ends expect.
type SearchRoomsResponse struct {
	Success      bool               `json:"success"`
	Data         json.RawMessage    `json:"data"`
	SearchParams SearchRoomsRequest `json:"searchParams"`
}

// RoomSelection - one room type picked in a booking
type RoomSelection struct {
	RoomTypeID string `json:"roomTypeId" binding:"required"`
	RatePlanID string `json:"ratePlanId" binding:"required"`
	RoomCount  int    `json:"roomCount" binding:"required"`
	Adults     int    `json:"adults" binding:"required"`
	Children   int    `json:"children,omitempty"`
}

// CreateBookingRequest - full booking payload forwarded to the PMS.
// Everything beyond rooms, dates and email is optional pass-through.
type CreateBookingRequest struct {
	CheckIn  string          `json:"checkIn" binding:"required"`
	CheckOut string          `json:"checkOut" binding:"required"`
	Rooms    []RoomSelection `json:"rooms" binding:"required,min=1"`
	Email    string          `json:"email" binding:"required"`

	FirstName      string `json:"firstName,omitempty"`
	LastName       string `json:"lastName,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Address        string `json:"address,omitempty"`
	City           string `json:"city,omitempty"`
	State          string `json:"state,omitempty"`
	Country        string `json:"country,omitempty"`
	ZipCode        string `json:"zipCode,omitempty"`
	SpecialRequest string `json:"specialRequest,omitempty"`
	PaymentMode    string `json:"paymentMode,omitempty"`
}

// Reservation identifies a booking created in the PMS. InventoryMode must be
// echoed back unchanged on every later call for the same reservation.
type Reservation struct {
	ReservationNo    string `json:"ReservationNo"`
	SubReservationNo string `json:"SubReservationNo,omitempty"`
	InventoryMode    string `json:"inventoryMode"`
}

// CalculateExtraChargeRequest - price one extra-charge item for a stay
type CalculateExtraChargeRequest struct {
	CheckInDate    string `json:"checkInDate" binding:"required"`
	CheckOutDate   string `json:"checkOutDate" binding:"required"`
	ExtraChargeID  string `json:"extraChargeId" binding:"required"`
	TotalExtraItem int    `json:"totalExtraItem" binding:"required"`
}

// ExtraChargeResult - individual and total charges computed by the PMS
type ExtraChargeResult struct {
	IndividualCharges json.RawMessage `json:"individualCharges,omitempty"`
	TotalCharge       string          `json:"totalCharge"`
}

// CreateOrderRequest - create a payment-gateway order for a reservation
type CreateOrderRequest struct {
	Amount        float64 `json:"amount" binding:"required"`
	Currency      string  `json:"currency" binding:"required"`
	ReservationNo string  `json:"reservationNo" binding:"required"`
	Email         string  `json:"email,omitempty"`
	Phone         string  `json:"phone,omitempty"`
	Name          string  `json:"name,omitempty"`
}

// CreateOrderResponse - gateway order handed back to the client checkout
type CreateOrderResponse struct {
	OrderID       string `json:"orderId"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	ReservationNo string `json:"reservationNo"`
}

// VerifyPaymentRequest - client-submitted payment verification. Field names
// follow the checkout callback payload of the gateway.
type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
	ReservationNo     string `json:"reservationNo" binding:"required"`
	InventoryMode     string `json:"inventoryMode,omitempty"`
}

// PaymentOutcome - terminal state of a reservation after verification
type PaymentOutcome struct {
	PaymentID     string `json:"paymentId,omitempty"`
	OrderID       string `json:"orderId,omitempty"`
	ReservationNo string `json:"reservationNo"`
	BookingStatus string `json:"bookingStatus"`
}

// PaymentFailureRequest - reported by the front-end when checkout fails
type PaymentFailureRequest struct {
	ReservationNo string `json:"reservationNo" binding:"required"`
	InventoryMode string `json:"inventoryMode,omitempty"`
	ErrorText     string `json:"errorText,omitempty"`
}
