package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newHandlerDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		DisableAutomaticPing: true,
	})
	if err != nil {
		t.Fatalf("gorm open error: %v", err)
	}
	return db, mock
}

func authedContext(t *testing.T, userID uint, userType string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set("userId", userID)
	c.Set("userType", userType)
	return c, w
}

func TestGetProfile_UserNotFound(t *testing.T) {
	db, mock := newHandlerDB(t)

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	c, w := authedContext(t, 42, "passenger")
	GetProfile(db)(c)

	if w.Code != 404 {
		t.Fatalf("status: got %d want 404", w.Code)
	}
	if !strings.Contains(w.Body.String(), "user not found") {
		t.Fatalf("body: got %q, want the user-not-found error", w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetDriverStatus_DriverNotFound(t *testing.T) {
	db, mock := newHandlerDB(t)

	mock.ExpectQuery(`SELECT "status" FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"status"}))

	c, w := authedContext(t, 42, "driver")
	GetDriverStatus(db)(c)

	if w.Code != 404 {
		t.Fatalf("status: got %d want 404", w.Code)
	}
	if !strings.Contains(w.Body.String(), "driver not found") {
		t.Fatalf("body: got %q, want the driver-not-found error", w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
