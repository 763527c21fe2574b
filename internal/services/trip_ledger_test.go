package services

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestValidPlate(t *testing.T) {
	db, _ := newMockDB(t)
	ledger := NewTripLedger(db)

	cases := []struct {
		plate string
		want  bool
	}{
		{"RAB123C", true},
		{"RZZ999A", true},
		{"rab123c", false},
		{"RAB123", false},
		{"RAB1234C", false},
		{"XAB123C", false},
		{"RAB123CD", false},
		{"", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ledger.ValidPlate(tc.plate), "plate %q", tc.plate)
	}
}

func TestReserveSeats_Success(t *testing.T) {
	db, mock := newMockDB(t)
	ledger := NewTripLedger(db)

	mock.ExpectQuery(`UPDATE trips SET available_seats`).
		WithArgs(2, 1, 2).
		WillReturnRows(sqlmock.NewRows([]string{"available_seats"}).AddRow(3))

	remaining, err := ledger.ReserveSeats(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if remaining != 3 {
		t.Fatalf("remaining seats: got %d want 3", remaining)
	}
	expectationsMet(t, mock)
}

func TestReserveSeats_Insufficient(t *testing.T) {
	db, mock := newMockDB(t)
	ledger := NewTripLedger(db)

	mock.ExpectQuery(`UPDATE trips SET available_seats`).
		WithArgs(4, 1, 4).
		WillReturnRows(sqlmock.NewRows([]string{"available_seats"}))
	mock.ExpectQuery(`SELECT "available_seats" FROM "trips"`).
		WillReturnRows(sqlmock.NewRows([]string{"available_seats"}).AddRow(1))

	_, err := ledger.ReserveSeats(context.Background(), 1, 4)

	var insufficient *InsufficientCapacityError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientCapacityError, got %v", err)
	}
	assert.Equal(t, uint(1), insufficient.TripID)
	assert.Equal(t, 4, insufficient.Requested)
	assert.Equal(t, 1, insufficient.Remaining)
	expectationsMet(t, mock)
}

func TestReserveSeats_TripNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	ledger := NewTripLedger(db)

	mock.ExpectQuery(`UPDATE trips SET available_seats`).
		WillReturnRows(sqlmock.NewRows([]string{"available_seats"}))
	mock.ExpectQuery(`SELECT "available_seats" FROM "trips"`).
		WillReturnRows(sqlmock.NewRows([]string{"available_seats"}))

	_, err := ledger.ReserveSeats(context.Background(), 42, 1)
	if !errors.Is(err, ErrTripNotFound) {
		t.Fatalf("expected ErrTripNotFound, got %v", err)
	}
	expectationsMet(t, mock)
}

func TestReserveSeats_RejectsNonPositiveCount(t *testing.T) {
	db, _ := newMockDB(t)
	ledger := NewTripLedger(db)

	for _, seats := range []int{0, -3} {
		if _, err := ledger.ReserveSeats(context.Background(), 1, seats); !errors.Is(err, ErrInvalidSeatCount) {
			t.Fatalf("seats=%d: expected ErrInvalidSeatCount, got %v", seats, err)
		}
	}
}

func TestReleaseSeats_TripNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	ledger := NewTripLedger(db)

	mock.ExpectExec(`UPDATE trips SET available_seats`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := ledger.ReleaseSeats(context.Background(), 42, 2); !errors.Is(err, ErrTripNotFound) {
		t.Fatalf("expected ErrTripNotFound, got %v", err)
	}
	expectationsMet(t, mock)
}
