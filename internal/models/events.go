package models

import "time"

// NATS Event Types
const (
	EventBookingCreated       = "booking.created"
	EventOrderCreated         = "payment.order_created"
	EventBookingConfirmed     = "booking.confirmed"
	EventBookingFailed        = "booking.failed"
	EventBookingPendingManual = "booking.pending_confirmation"
)

// BookingCreatedEvent represents a reservation created in the PMS
type BookingCreatedEvent struct {
	ReservationNo string    `json:"reservation_no"`
	InventoryMode string    `json:"inventory_mode"`
	Email         string    `json:"email"`
	Timestamp     time.Time `json:"timestamp"`
}

// OrderCreatedEvent represents a payment order opened at the gateway
type OrderCreatedEvent struct {
	OrderID       string    `json:"order_id"`
	ReservationNo string    `json:"reservation_no"`
	Amount        int64     `json:"amount"`
	Currency      string    `json:"currency"`
	Timestamp     time.Time `json:"timestamp"`
}

// BookingReconciledEvent represents a terminal confirm/fail outcome of the
// reconciliation flow, including the pending-confirmation divergence.
type BookingReconciledEvent struct {
	ReservationNo string    `json:"reservation_no"`
	OrderID       string    `json:"order_id,omitempty"`
	PaymentID     string    `json:"payment_id,omitempty"`
	BookingStatus string    `json:"booking_status"`
	Reason        string    `json:"reason,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}
