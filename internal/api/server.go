package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"myna/internal/cache"
	"myna/internal/config"
	"myna/internal/external"
	"myna/internal/handlers"
	"myna/internal/messaging"
	"myna/internal/middleware"
	"myna/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server is the HTTP API server. It owns no booking state; all reservation
// state lives in the PMS and the payment gateway.
type Server struct {
	router   *gin.Engine
	config   *config.Config
	cache    *cache.Client
	nats     *messaging.NATSClient
	services *service.Services
}

// NewServer wires the external clients, services and routes
func NewServer(cfg *config.Config) *Server {
	gin.SetMode(cfg.GinMode)

	pmsClient := external.NewPMSClient(cfg.PMS)
	razorpayClient := external.NewRazorpayClient(cfg.Razorpay)

	// The catalog cache is optional; without Redis every catalog request
	// goes straight to the PMS.
	var cacheClient *cache.Client
	if cfg.Cache.Addr != "" {
		var err error
		cacheClient, err = cache.NewClient(cfg.Cache)
		if err != nil {
			slog.Warn("Catalog cache unavailable, continuing without it", "error", err)
			cacheClient = nil
		}
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		slog.Warn("NATS unavailable, reconciliation events disabled", "error", err)
		natsClient = &messaging.NATSClient{}
	}

	services := service.NewServices(pmsClient, razorpayClient, cacheClient, natsClient)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())

	server := &Server{
		router:   router,
		config:   cfg,
		cache:    cacheClient,
		nats:     natsClient,
		services: services,
	}

	server.setupRoutes()

	return server
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	h := handlers.NewHandlers(s.services)

	api := s.router.Group("/api")
	{
		booking := api.Group("/booking")
		{
			booking.POST("/search", h.SearchRooms)
			booking.GET("/room/:roomId", h.GetRoomDetails)
			booking.POST("/create", h.CreateBooking)
			booking.GET("/extras", h.GetExtraCharges)
			booking.POST("/calculate-extras", h.CalculateExtraCharge)
			booking.GET("/payment-gateways", h.GetPaymentGateways)
		}

		payment := api.Group("/payment")
		{
			payment.POST("/create-order", h.CreateOrder)
			payment.POST("/verify", h.VerifyPayment)
			payment.POST("/fail", h.HandlePaymentFailure)
		}
	}

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "myna-api",
		"version": "1.0.0",
	})
}

// Run starts the HTTP server
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%s", s.config.Port)
	return s.router.Run(addr)
}

// GetRouter returns the router for testing
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Cleanup closes external connections
func (s *Server) Cleanup() error {
	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			slog.Error("Error closing NATS connection", "error", err)
		}
	}

	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			slog.Error("Error closing Redis connection", "error", err)
			return err
		}
	}

	return nil
}
