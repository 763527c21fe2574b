package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/kwizerafab/twende-backend/internal/services"
)

// respondServiceError maps service-layer errors to HTTP responses with
// enough structured context for the client to react without a second
// round-trip.
func respondServiceError(c *gin.Context, err error) {
	var capacity *services.InsufficientCapacityError
	var mismatch *services.ProofMismatchError

	switch {
	case errors.As(err, &capacity):
		c.JSON(400, gin.H{
			"error":          "Not enough available seats",
			"tripId":         capacity.TripID,
			"requestedSeats": capacity.Requested,
			"availableSeats": capacity.Remaining,
		})
	case errors.As(err, &mismatch):
		c.JSON(400, gin.H{
			"error":     "Payment verification failed. The expected message was not found.",
			"debugText": mismatch.Normalized,
		})
	case errors.Is(err, services.ErrTripNotFound),
		errors.Is(err, services.ErrBookingNotFound),
		errors.Is(err, services.ErrPaymentNotFound),
		errors.Is(err, services.ErrDetailsNotFound),
		errors.Is(err, services.ErrDriverNotFound),
		errors.Is(err, services.ErrUserNotFound):
		c.JSON(404, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(403, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidState),
		errors.Is(err, services.ErrInvalidRating),
		errors.Is(err, services.ErrInvalidSeatCount),
		errors.Is(err, services.ErrInvalidPlateFormat):
		c.JSON(400, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrRatingExists),
		errors.Is(err, services.ErrConflictDuringUpdate):
		c.JSON(409, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrProofExtractionTimeout):
		c.JSON(504, gin.H{"error": err.Error()})
	default:
		c.JSON(500, gin.H{"error": "Internal server error"})
	}
}
