package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	apperrors "myna/internal/errors"
	"myna/internal/service"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	services *service.Services
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		services: services,
	}
}

// respondError maps the error taxonomy onto HTTP responses. Upstream status
// codes and messages are preserved verbatim where the upstream provided them.
func respondError(c *gin.Context, message string, err error) {
	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": validationErr.Message,
		})
		return
	}

	var transportErr *apperrors.UpstreamTransportError
	if errors.As(err, &transportErr) {
		status := transportErr.StatusCode
		if status == 0 {
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{
			"success": false,
			"message": message,
			"error":   upstreamErrorBody(transportErr),
		})
		return
	}

	var rejectedErr *apperrors.BookingRejectedError
	if errors.As(err, &rejectedErr) {
		resp := gin.H{
			"success": false,
			"message": message,
			"error":   rejectedErr.Message,
		}
		if rejectedErr.Code != "" {
			resp["code"] = rejectedErr.Code
		}
		c.JSON(http.StatusBadRequest, resp)
		return
	}

	var calcErr *apperrors.CalculationError
	if errors.As(err, &calcErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": message,
			"error":   calcErr.Message,
		})
		return
	}

	var shapeErr *apperrors.UnexpectedShapeError
	if errors.As(err, &shapeErr) {
		slog.Error("Unexpected upstream response shape", "raw", shapeErr.Raw)
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": message,
			"error":   "Unexpected response from booking system",
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"message": message,
		"error":   err.Error(),
	})
}

func upstreamErrorBody(err *apperrors.UpstreamTransportError) string {
	if err.Body != "" {
		return err.Body
	}
	return err.Error()
}
