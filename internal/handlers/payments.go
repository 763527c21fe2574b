package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kwizerafab/twende-backend/internal/services"
)

// UploadProof accepts a payment-proof image, stores it, hands it to the
// OCR collaborator and reconciles the extracted text against the booking.
func UploadProof(reconciler *services.PaymentReconciler, extractor services.ProofExtractor) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID, err := strconv.ParseUint(c.Param("bookingId"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid booking ID"})
			return
		}

		file, err := c.FormFile("proofOfPayment")
		if err != nil {
			c.JSON(400, gin.H{"error": "No file uploaded"})
			return
		}

		proofURL, err := services.UploadImage(file, "payments")
		if err != nil {
			c.JSON(500, gin.H{"error": "Error saving the image"})
			return
		}

		src, err := file.Open()
		if err != nil {
			c.JSON(500, gin.H{"error": "Error processing the image"})
			return
		}
		defer src.Close()

		text, err := extractor.Extract(c.Request.Context(), src, file.Filename)
		if err != nil {
			respondServiceError(c, err)
			return
		}

		details, err := reconciler.ReconcileProof(c.Request.Context(), uint(bookingID), text, proofURL)
		if err != nil {
			respondServiceError(c, err)
			return
		}

		c.JSON(200, gin.H{
			"message":       "Payment successfully verified and recorded!",
			"amount":        details.Amount,
			"transactionId": details.TransactionRef,
			"date":          details.Timestamp,
			"bookingId":     bookingID,
			"proofUrl":      proofURL,
		})
	}
}

// VerifyPayment idempotently confirms a booking's payment and notifies the
// driver that the trip is completed.
func VerifyPayment(reconciler *services.PaymentReconciler) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID, err := strconv.ParseUint(c.Param("bookingId"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid booking ID"})
			return
		}

		if _, err := reconciler.VerifyPayment(c.Request.Context(), uint(bookingID)); err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(200, gin.H{"message": "Payment verified and notification sent to the driver."})
	}
}
