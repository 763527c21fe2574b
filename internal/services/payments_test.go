package services

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/kwizerafab/twende-backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeProofText(t *testing.T) {
	raw := "  Your payment of 5000 RWF\nto CELESTIN\t123456   has been completed "
	want := "Your payment of 5000 RWF to CELESTIN 123456 has been completed"
	assert.Equal(t, want, NormalizeProofText(raw))
}

func TestParseProofText_Success(t *testing.T) {
	db, _ := newMockDB(t)
	reconciler := NewPaymentReconciler(db, NewNotificationRelay(db, nil))

	details, err := reconciler.ParseProofText(
		"Your payment of 5000 RWF to CELESTIN 123456 has been completed at 2024-01-01 10:00:00")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	assert.Equal(t, "5000", details.Amount)
	assert.Equal(t, "123456", details.TransactionRef)
	assert.Equal(t, "2024-01-01 10:00:00", details.Timestamp)
}

func TestParseProofText_OCRText(t *testing.T) {
	db, _ := newMockDB(t)
	reconciler := NewPaymentReconciler(db, NewNotificationRelay(db, nil))

	// OCR output arrives with line breaks and inconsistent casing.
	details, err := reconciler.ParseProofText(
		"your payment of 2500.50 RWF\nto celestin 98765\nhas been completed at 2024-03-15 08:30:45")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	assert.Equal(t, "2500.50", details.Amount)
	assert.Equal(t, "98765", details.TransactionRef)
}

func TestParseProofText_Mismatch(t *testing.T) {
	db, _ := newMockDB(t)
	reconciler := NewPaymentReconciler(db, NewNotificationRelay(db, nil))

	_, err := reconciler.ParseProofText("Thanks for shopping with us, total 5000 RWF")

	var mismatch *ProofMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected ProofMismatchError, got %v", err)
	}
	assert.Equal(t, "Thanks for shopping with us, total 5000 RWF", mismatch.Normalized)
}

func TestParseProofText_WrongPayee(t *testing.T) {
	db, _ := newMockDB(t)
	reconciler := NewPaymentReconciler(db, NewNotificationRelay(db, nil))

	_, err := reconciler.ParseProofText(
		"Your payment of 5000 RWF to SOMEONE 123456 has been completed at 2024-01-01 10:00:00")

	var mismatch *ProofMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected ProofMismatchError, got %v", err)
	}
}

func TestReconcileProof_UpsertsPayment(t *testing.T) {
	db, mock := newMockDB(t)
	reconciler := NewPaymentReconciler(db, NewNotificationRelay(db, nil))

	mock.ExpectQuery(`SELECT "id" FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "payments" .* ON CONFLICT`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	details, err := reconciler.ReconcileProof(context.Background(), 5,
		"Your payment of 5000 RWF to CELESTIN 123456 has been completed at 2024-01-01 10:00:00",
		"/uploads/payments/proof.png")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	assert.Equal(t, "5000", details.Amount)
	expectationsMet(t, mock)
}

func TestReconcileProof_BookingNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	reconciler := NewPaymentReconciler(db, NewNotificationRelay(db, nil))

	mock.ExpectQuery(`SELECT "id" FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := reconciler.ReconcileProof(context.Background(), 42,
		"Your payment of 5000 RWF to CELESTIN 123456 has been completed at 2024-01-01 10:00:00",
		"/uploads/payments/proof.png")
	if !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound, got %v", err)
	}
	expectationsMet(t, mock)
}

func TestReconcileProof_MismatchMutatesNothing(t *testing.T) {
	db, mock := newMockDB(t)
	reconciler := NewPaymentReconciler(db, NewNotificationRelay(db, nil))

	_, err := reconciler.ReconcileProof(context.Background(), 5, "unrelated text", "/uploads/x.png")

	var mismatch *ProofMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected ProofMismatchError, got %v", err)
	}
	expectationsMet(t, mock)
}

func TestVerifyPayment_Success(t *testing.T) {
	db, mock := newMockDB(t)
	reconciler := NewPaymentReconciler(db, NewNotificationRelay(db, nil))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "payments" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT \* FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "trip_id", "driver_id", "passenger_id"}).
			AddRow(5, 7, 9, 3))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "notifications"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	notification, err := reconciler.VerifyPayment(context.Background(), 5)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	assert.Equal(t, "Trip 7 has been marked as completed.", notification.Message)
	assert.Equal(t, models.NotificationStatusConfirmed, notification.Status)
	assert.Equal(t, uint(9), notification.DriverID)
	expectationsMet(t, mock)
}

func TestVerifyPayment_NoPaymentRow(t *testing.T) {
	db, mock := newMockDB(t)
	reconciler := NewPaymentReconciler(db, NewNotificationRelay(db, nil))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "payments" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	_, err := reconciler.VerifyPayment(context.Background(), 42)
	if !errors.Is(err, ErrPaymentNotFound) {
		t.Fatalf("expected ErrPaymentNotFound, got %v", err)
	}
	expectationsMet(t, mock)
}

// VerifyPayment repeats cleanly: the unconditional status write makes a
// second call indistinguishable from the first.
func TestVerifyPayment_Idempotent(t *testing.T) {
	db, mock := newMockDB(t)
	reconciler := NewPaymentReconciler(db, NewNotificationRelay(db, nil))

	for i := 0; i < 2; i++ {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "payments" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()
		mock.ExpectQuery(`SELECT \* FROM "bookings"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "trip_id", "driver_id", "passenger_id"}).
				AddRow(5, 7, 9, 3))
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO "notifications"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uint(i + 1)))
		mock.ExpectCommit()
	}

	for i := 0; i < 2; i++ {
		if _, err := reconciler.VerifyPayment(context.Background(), 5); err != nil {
			t.Fatalf("call %d: expected no error, got %v", i+1, err)
		}
	}
	expectationsMet(t, mock)
}
