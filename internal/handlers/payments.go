package handlers

import (
	"log/slog"
	"net/http"

	"myna/internal/models"

	"github.com/gin-gonic/gin"
)

// Payment handlers

// CreateOrder - POST /api/payment/create-order
// Opens a gateway order for a reservation that was already created in the PMS
func (h *Handlers) CreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Missing required fields: amount, currency, reservationNo",
		})
		return
	}

	order, err := h.services.Payments.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		slog.Error("Failed to create payment order", "error", err)
		respondError(c, "Failed to create payment order", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// VerifyPayment - POST /api/payment/verify
// Verifies the checkout signature and confirms or fails the reservation
func (h *Handlers) VerifyPayment(c *gin.Context) {
	var req models.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Missing required payment verification fields",
		})
		return
	}

	result, err := h.services.Payments.VerifyPayment(c.Request.Context(), &req)
	if err != nil {
		slog.Error("Failed to verify payment", "error", err, "reservation_no", req.ReservationNo)
		respondError(c, "Payment verification failed", err)
		return
	}

	switch result.Outcome.BookingStatus {
	case models.BookingStatusConfirmed:
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Payment verified and booking confirmed",
			"data":    result.Outcome,
		})

	case models.BookingStatusPendingConfirmation:
		// Payment captured but the PMS confirm failed. Reported as its own
		// outcome so the divergence is visible to the caller.
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Payment successful but booking confirmation failed",
			"error":   result.ConfirmError,
			"data":    result.Outcome,
		})

	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Payment verification failed",
			"data":    result.Outcome,
		})
	}
}

// HandlePaymentFailure - POST /api/payment/fail
// Marks the reservation as failed after the front-end reported a failed
// payment
func (h *Handlers) HandlePaymentFailure(c *gin.Context) {
	var req models.PaymentFailureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Reservation number is required",
		})
		return
	}

	result, err := h.services.Payments.HandlePaymentFailure(c.Request.Context(), &req)
	if err != nil {
		respondError(c, "Failed to handle payment failure", err)
		return
	}

	if !result.Success {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to process booking failure",
			"error":   result.Error,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Booking marked as failed",
		"data": models.PaymentOutcome{
			ReservationNo: req.ReservationNo,
			BookingStatus: models.BookingStatusFailed,
		},
	})
}
