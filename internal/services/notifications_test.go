package services

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/kwizerafab/twende-backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestRelayCreate(t *testing.T) {
	db, mock := newMockDB(t)
	relay := NewNotificationRelay(db, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "notifications"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	created, err := relay.Create(context.Background(), models.Notification{
		DriverID:    9,
		PassengerID: 3,
		TripID:      1,
		Message:     "New booking request",
		Status:      models.NotificationStatusPending,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	assert.Equal(t, uint(7), created.ID)
	expectationsMet(t, mock)
}

// The booking join must not multiply notifications for passengers with
// more than one booking on a trip: the query has to collapse to one row
// per notification id, newest first.
func TestDriverNotificationsDedupedNewestFirst(t *testing.T) {
	db, mock := newMockDB(t)
	relay := NewNotificationRelay(db, nil)

	mock.ExpectQuery(`(?s)SELECT DISTINCT ON \(notifications\.id\).* FROM "notifications" .*ORDER BY notifications\.id DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "message"}).
			AddRow(2, "second").
			AddRow(1, "first"))

	rows, err := relay.ForDriver(context.Background(), 9)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows: got %d want 2", len(rows))
	}
	assert.Equal(t, "second", rows[0].Message)
	expectationsMet(t, mock)
}

func TestSendMessage_BookingNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	relay := NewNotificationRelay(db, nil)

	mock.ExpectQuery(`SELECT \* FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := relay.SendMessage(context.Background(), 9, 42, "On my way")
	if !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound, got %v", err)
	}
	expectationsMet(t, mock)
}
