package handlers

import (
	"log/slog"
	"net/http"

	"myna/internal/models"

	"github.com/gin-gonic/gin"
)

// Booking handlers

// SearchRooms - POST /api/booking/search
// Proxies a room availability search to the PMS and returns its list verbatim
func (h *Handlers) SearchRooms(c *gin.Context) {
	var req models.SearchRoomsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Missing required fields: checkIn, checkOut, rooms, adults",
		})
		return
	}

	data, err := h.services.Bookings.SearchRooms(c.Request.Context(), &req)
	if err != nil {
		slog.Error("Failed to search rooms", "error", err)
		respondError(c, "Failed to search for available rooms", err)
		return
	}

	c.JSON(http.StatusOK, models.SearchRoomsResponse{
		Success:      true,
		Data:         data,
		SearchParams: req,
	})
}

// GetRoomDetails - GET /api/booking/room/:roomId
// Placeholder endpoint echoing the room id until detail lookup is wired to
// the PMS
func (h *Handlers) GetRoomDetails(c *gin.Context) {
	roomID := c.Param("roomId")

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Room details endpoint",
		"roomId":  roomID,
	})
}

// CreateBooking - POST /api/booking/create
// Creates a tentative reservation in the PMS
func (h *Handlers) CreateBooking(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Missing required fields: checkIn, checkOut, rooms, email",
		})
		return
	}

	confirmation, err := h.services.Bookings.Create(c.Request.Context(), &req)
	if err != nil {
		slog.Error("Failed to create booking", "error", err)
		respondError(c, "Failed to create booking", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"data":          confirmation.Data,
		"reservationNo": confirmation.Reservation.ReservationNo,
		"inventoryMode": confirmation.Reservation.InventoryMode,
	})
}

// GetExtraCharges - GET /api/booking/extras
// Lists chargeable add-ons; absence of extras is never an error
func (h *Handlers) GetExtraCharges(c *gin.Context) {
	data := h.services.Bookings.ExtraCharges(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

// CalculateExtraCharge - POST /api/booking/calculate-extras
// Prices one extra-charge item for the requested stay
func (h *Handlers) CalculateExtraCharge(c *gin.Context) {
	var req models.CalculateExtraChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Missing required fields: checkInDate, checkOutDate, extraChargeId, totalExtraItem",
		})
		return
	}

	result, err := h.services.Bookings.CalculateExtraCharge(c.Request.Context(), &req)
	if err != nil {
		slog.Error("Failed to calculate extra charge", "error", err)
		respondError(c, "Failed to calculate extra charge", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// GetPaymentGateways - GET /api/booking/payment-gateways
// Lists configured payment gateways; empty means pay at property only
func (h *Handlers) GetPaymentGateways(c *gin.Context) {
	data := h.services.Bookings.PaymentGateways(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}
