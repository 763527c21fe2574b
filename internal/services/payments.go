package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/kwizerafab/twende-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultPaymentPayee is the account name expected in mobile-money
// confirmation messages. Override with PAYMENT_PAYEE.
const DefaultPaymentPayee = "CELESTIN"

var whitespaceRuns = regexp.MustCompile(`\s+`)

// NormalizeProofText collapses whitespace runs to single spaces and trims
// the ends, so OCR line breaks never break the confirmation match.
func NormalizeProofText(raw string) string {
	return strings.TrimSpace(whitespaceRuns.ReplaceAllString(raw, " "))
}

// ProofDetails are the fields captured from a payment confirmation message.
type ProofDetails struct {
	Amount         string `json:"amount"`
	TransactionRef string `json:"transactionRef"`
	Timestamp      string `json:"timestamp"`
}

func proofPattern(payee string) *regexp.Regexp {
	return regexp.MustCompile(
		`(?i)Your payment of\s*(\d+(?:\.\d{1,2})?)\s*RWF\s*to\s*` + regexp.QuoteMeta(payee) +
			`\s*(\d+)\s*has been completed at\s*(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})`)
}

// PaymentReconciler matches externally-extracted confirmation text against
// bookings and flips payment status. It never extracts text itself; that is
// the ProofExtractor collaborator's job.
type PaymentReconciler struct {
	db      *gorm.DB
	relay   *NotificationRelay
	pattern *regexp.Regexp
}

func NewPaymentReconciler(db *gorm.DB, relay *NotificationRelay) *PaymentReconciler {
	payee := os.Getenv("PAYMENT_PAYEE")
	if payee == "" {
		payee = DefaultPaymentPayee
	}
	return &PaymentReconciler{db: db, relay: relay, pattern: proofPattern(payee)}
}

// ParseProofText is a pure function of the normalized text: it either
// captures amount, transaction reference and timestamp, or fails with
// ProofMismatchError carrying the normalized text for diagnostics.
func (p *PaymentReconciler) ParseProofText(raw string) (*ProofDetails, error) {
	normalized := NormalizeProofText(raw)
	match := p.pattern.FindStringSubmatch(normalized)
	if match == nil {
		return nil, &ProofMismatchError{Normalized: normalized}
	}
	return &ProofDetails{
		Amount:         match[1],
		TransactionRef: match[2],
		Timestamp:      match[3],
	}, nil
}

// ReconcileProof matches extracted text against the confirmation pattern
// and, on success, upserts the booking's payment row to DONE. On mismatch
// nothing is mutated.
func (p *PaymentReconciler) ReconcileProof(ctx context.Context, bookingID uint, rawText, proofReference string) (*ProofDetails, error) {
	details, err := p.ParseProofText(rawText)
	if err != nil {
		return nil, err
	}

	var booking models.Booking
	if err := p.db.WithContext(ctx).Select("id").First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	payment := models.Payment{
		BookingID:      bookingID,
		ProofReference: proofReference,
		Status:         models.PaymentStatusDone,
	}
	err = p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "booking_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"proof_reference", "status", "updated_at"}),
	}).Create(&payment).Error
	if err != nil {
		return nil, err
	}
	return details, nil
}

// VerifyPayment idempotently marks a booking's payment DONE and notifies
// both parties that the trip is completed.
func (p *PaymentReconciler) VerifyPayment(ctx context.Context, bookingID uint) (*models.Notification, error) {
	result := p.db.WithContext(ctx).Model(&models.Payment{}).
		Where("booking_id = ?", bookingID).
		Update("status", models.PaymentStatusDone)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrPaymentNotFound
	}

	var booking models.Booking
	err := p.db.WithContext(ctx).First(&booking, bookingID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDetailsNotFound
	}
	if err != nil {
		return nil, err
	}

	return p.relay.Create(ctx, models.Notification{
		DriverID:    booking.DriverID,
		PassengerID: booking.PassengerID,
		TripID:      booking.TripID,
		Message:     fmt.Sprintf("Trip %d has been marked as completed.", booking.TripID),
		Status:      models.NotificationStatusConfirmed,
	})
}
