package service

import (
	"myna/internal/cache"
	"myna/internal/external"
	"myna/internal/messaging"
)

// Services aggregates the business services for handler wiring
type Services struct {
	Bookings *BookingService
	Payments *PaymentService
}

func NewServices(pmsClient *external.PMSClient, razorpayClient *external.RazorpayClient, cacheClient *cache.Client, natsClient *messaging.NATSClient) *Services {
	return &Services{
		Bookings: NewBookingService(pmsClient, cacheClient, natsClient),
		Payments: NewPaymentService(pmsClient, razorpayClient, natsClient),
	}
}
