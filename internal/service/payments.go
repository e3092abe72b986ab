package service

import (
	"context"
	"fmt"
	"math"
	"time"

	apperrors "myna/internal/errors"
	"myna/internal/external"
	"myna/internal/logger"
	"myna/internal/messaging"
	"myna/internal/models"
)

// PaymentService drives the reconciliation flow: open a gateway order for a
// reservation, verify the client-submitted payment signature, and report the
// terminal confirm/fail outcome back to the PMS. Once a payment attempt
// started, every exit path issues exactly one ProcessBooking call.
type PaymentService struct {
	pms        *external.PMSClient
	gateway    *external.RazorpayClient
	natsClient *messaging.NATSClient
}

// VerifyResult is the outcome of a verification attempt. ConfirmError is set
// only for the pending-confirmation divergence (payment captured, PMS confirm
// failed), which must stay distinguishable from both success and failure.
type VerifyResult struct {
	Outcome      models.PaymentOutcome
	ConfirmError string
}

func NewPaymentService(pms *external.PMSClient, gateway *external.RazorpayClient, natsClient *messaging.NATSClient) *PaymentService {
	return &PaymentService{
		pms:        pms,
		gateway:    gateway,
		natsClient: natsClient,
	}
}

// CreateOrder opens a gateway order for an already-booked reservation. The
// amount arrives in major units and is converted to minor units for the
// gateway.
func (s *PaymentService) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.CreateOrderResponse, error) {
	if req.Amount == 0 || req.Currency == "" || req.ReservationNo == "" {
		return nil, apperrors.NewValidation("Missing required fields: amount, currency, reservationNo")
	}

	order, err := s.gateway.CreateOrder(external.OrderRequest{
		Amount:   int64(math.Round(req.Amount * 100)),
		Currency: req.Currency,
		Receipt:  "receipt_" + req.ReservationNo,
		Notes: map[string]string{
			"reservationNo": req.ReservationNo,
			"email":         req.Email,
			"phone":         req.Phone,
			"name":          req.Name,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create payment order: %w", err)
	}

	event := models.OrderCreatedEvent{
		OrderID:       order.ID,
		ReservationNo: req.ReservationNo,
		Amount:        order.Amount,
		Currency:      order.Currency,
		Timestamp:     time.Now(),
	}
	if err := s.natsClient.Publish(models.EventOrderCreated, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish order created event",
			"error", err,
			"order_id", order.ID,
			"event_type", models.EventOrderCreated)
	}

	return &models.CreateOrderResponse{
		OrderID:       order.ID,
		Amount:        order.Amount,
		Currency:      order.Currency,
		ReservationNo: req.ReservationNo,
	}, nil
}

// VerifyPayment checks the submitted signature and reports the terminal
// outcome to the PMS. The deferred recovery keeps the terminal-callback
// guarantee even if verification itself blows up: the reservation is failed
// before the error is returned.
func (s *PaymentService) VerifyPayment(ctx context.Context, req *models.VerifyPaymentRequest) (result *VerifyResult, err error) {
	if req.RazorpayOrderID == "" || req.RazorpayPaymentID == "" || req.RazorpaySignature == "" || req.ReservationNo == "" {
		return nil, apperrors.NewValidation("Missing required payment verification fields")
	}

	inventoryMode := req.InventoryMode
	if inventoryMode == "" {
		inventoryMode = models.DefaultInventoryMode
	}

	terminalDone := false
	defer func() {
		if r := recover(); r != nil {
			if !terminalDone {
				failResult := s.pms.ProcessBooking(external.FailBooking, req.ReservationNo, inventoryMode,
					fmt.Sprintf("Payment verification error: %v", r))
				if !failResult.Success {
					logger.WithContext(ctx).Error("FailBooking after verification panic also failed",
						"reservation_no", req.ReservationNo,
						"error", failResult.Error)
				}
			}
			result = nil
			err = fmt.Errorf("payment verification error: %v", r)
		}
	}()

	authentic := s.gateway.VerifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature)

	logger.WithContext(ctx).Info("Payment verification",
		"authentic", authentic,
		"order_id", req.RazorpayOrderID,
		"payment_id", req.RazorpayPaymentID,
		"reservation_no", req.ReservationNo)

	if !authentic {
		failResult := s.pms.ProcessBooking(external.FailBooking, req.ReservationNo, inventoryMode, "Payment verification failed")
		terminalDone = true
		if !failResult.Success {
			logger.WithContext(ctx).Error("FailBooking after signature mismatch failed",
				"reservation_no", req.ReservationNo,
				"error", failResult.Error)
		}

		s.publishReconciled(ctx, req, models.BookingStatusFailed, "Payment verification failed")

		return &VerifyResult{
			Outcome: models.PaymentOutcome{
				ReservationNo: req.ReservationNo,
				BookingStatus: models.BookingStatusFailed,
			},
		}, nil
	}

	confirmResult := s.pms.ProcessBooking(external.ConfirmBooking, req.ReservationNo, inventoryMode, "")
	terminalDone = true

	outcome := models.PaymentOutcome{
		PaymentID:     req.RazorpayPaymentID,
		OrderID:       req.RazorpayOrderID,
		ReservationNo: req.ReservationNo,
	}

	if !confirmResult.Success {
		// Money captured but the PMS did not confirm. This divergence is
		// surfaced as its own status, never masked as success or failure.
		logger.WithContext(ctx).Error("ConfirmBooking failed after successful payment",
			"reservation_no", req.ReservationNo,
			"error", confirmResult.Error)

		outcome.BookingStatus = models.BookingStatusPendingConfirmation
		s.publishReconciled(ctx, req, models.BookingStatusPendingConfirmation, confirmResult.Error)

		return &VerifyResult{Outcome: outcome, ConfirmError: confirmResult.Error}, nil
	}

	outcome.BookingStatus = models.BookingStatusConfirmed
	s.publishReconciled(ctx, req, models.BookingStatusConfirmed, "")

	return &VerifyResult{Outcome: outcome}, nil
}

// HandlePaymentFailure marks the reservation as failed after the front-end
// reported an aborted or declined payment.
func (s *PaymentService) HandlePaymentFailure(ctx context.Context, req *models.PaymentFailureRequest) (external.ProcessResult, error) {
	if req.ReservationNo == "" {
		return external.ProcessResult{}, apperrors.NewValidation("Reservation number is required")
	}

	inventoryMode := req.InventoryMode
	if inventoryMode == "" {
		inventoryMode = models.DefaultInventoryMode
	}
	errorText := req.ErrorText
	if errorText == "" {
		errorText = "Payment failed by user"
	}

	result := s.pms.ProcessBooking(external.FailBooking, req.ReservationNo, inventoryMode, errorText)
	if result.Success {
		event := models.BookingReconciledEvent{
			ReservationNo: req.ReservationNo,
			BookingStatus: models.BookingStatusFailed,
			Reason:        errorText,
			Timestamp:     time.Now(),
		}
		if err := s.natsClient.Publish(models.EventBookingFailed, event); err != nil {
			logger.WithContext(ctx).Error("Failed to publish booking failed event",
				"error", err,
				"reservation_no", req.ReservationNo,
				"event_type", models.EventBookingFailed)
		}
	}

	return result, nil
}

func (s *PaymentService) publishReconciled(ctx context.Context, req *models.VerifyPaymentRequest, status, reason string) {
	subject := models.EventBookingConfirmed
	switch status {
	case models.BookingStatusFailed:
		subject = models.EventBookingFailed
	case models.BookingStatusPendingConfirmation:
		subject = models.EventBookingPendingManual
	}

	event := models.BookingReconciledEvent{
		ReservationNo: req.ReservationNo,
		OrderID:       req.RazorpayOrderID,
		PaymentID:     req.RazorpayPaymentID,
		BookingStatus: status,
		Reason:        reason,
		Timestamp:     time.Now(),
	}
	if err := s.natsClient.Publish(subject, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish reconciliation event",
			"error", err,
			"reservation_no", req.ReservationNo,
			"event_type", subject)
	}
}
