package service

import (
	"context"
	"encoding/json"
	"time"

	"myna/internal/cache"
	"myna/internal/external"
	"myna/internal/logger"
	"myna/internal/messaging"
	"myna/internal/models"
)

const (
	catalogExtraCharges    = "extra_charges"
	catalogPaymentGateways = "payment_gateways"
)

// BookingService fronts the PMS for room search, booking creation and the
// optional catalogs. It holds no state of its own; every reservation lives in
// the PMS only.
type BookingService struct {
	pms        *external.PMSClient
	cacheCl    *cache.Client
	natsClient *messaging.NATSClient
}

func NewBookingService(pms *external.PMSClient, cacheCl *cache.Client, natsClient *messaging.NATSClient) *BookingService {
	return &BookingService{
		pms:        pms,
		cacheCl:    cacheCl,
		natsClient: natsClient,
	}
}

// SearchRooms returns the upstream availability list verbatim
func (s *BookingService) SearchRooms(ctx context.Context, req *models.SearchRoomsRequest) (json.RawMessage, error) {
	return s.pms.SearchRooms(req)
}

// Create submits a booking to the PMS and returns the classified confirmation
func (s *BookingService) Create(ctx context.Context, req *models.CreateBookingRequest) (*external.BookingConfirmation, error) {
	confirmation, err := s.pms.CreateBooking(req)
	if err != nil {
		return nil, err
	}

	event := models.BookingCreatedEvent{
		ReservationNo: confirmation.Reservation.ReservationNo,
		InventoryMode: confirmation.Reservation.InventoryMode,
		Email:         req.Email,
		Timestamp:     time.Now(),
	}
	if err := s.natsClient.Publish(models.EventBookingCreated, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish booking created event",
			"error", err,
			"reservation_no", confirmation.Reservation.ReservationNo,
			"event_type", models.EventBookingCreated)
	}

	return confirmation, nil
}

// ExtraCharges returns the extra-charge catalog, from cache when available.
// Never fails: any upstream problem is an empty catalog.
func (s *BookingService) ExtraCharges(ctx context.Context) json.RawMessage {
	return s.catalog(ctx, catalogExtraCharges, s.pms.GetExtraCharges)
}

// PaymentGateways returns the configured gateway catalog, same policy as
// ExtraCharges. Empty means pay at property only.
func (s *BookingService) PaymentGateways(ctx context.Context) json.RawMessage {
	return s.catalog(ctx, catalogPaymentGateways, s.pms.GetPaymentGateways)
}

func (s *BookingService) catalog(ctx context.Context, key string, fetch func() json.RawMessage) json.RawMessage {
	if s.cacheCl != nil {
		if raw, err := s.cacheCl.GetCatalogRaw(ctx, key); err == nil {
			return raw
		}
	}

	data := fetch()

	if s.cacheCl != nil {
		if err := s.cacheCl.SetCatalogRaw(ctx, key, data); err != nil {
			logger.WithContext(ctx).Warn("Failed to cache catalog", "catalog", key, "error", err)
		}
	}

	return data
}

// CalculateExtraCharge prices an extra-charge item through the PMS
func (s *BookingService) CalculateExtraCharge(ctx context.Context, req *models.CalculateExtraChargeRequest) (*models.ExtraChargeResult, error) {
	return s.pms.CalculateExtraCharge(req)
}
