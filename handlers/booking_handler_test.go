package handlers

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/avinash2305/wellness_platform/database"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDB swaps the global connection for a sqlmock-backed one so handler
// tests can run against scripted rows instead of a live database.
func newMockDB(t *testing.T) (sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	prev := database.DB
	database.DB = gdb
	return mock, func() {
		database.DB = prev
		db.Close()
	}
}

// newAuthedApp returns a fiber app whose requests carry a parsed JWT in
// Locals, the same shape the auth middleware leaves behind.
func newAuthedApp(userID uuid.UUID) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id": userID.String(),
			"role":    "user",
		}))
		return c.Next()
	})
	return app
}

func TestCreateBookingDuplicateConflict(t *testing.T) {
	mock, restore := newMockDB(t)
	defer restore()

	userID := uuid.New()
	sessionID := uuid.New()

	sessionRows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "type", "status", "price", "currency", "max_participants", "current_participants"}).
			AddRow(sessionID.String(), "PAID", "UPCOMING", 1500.0, "INR", 20, 3)
	}

	mock.ExpectQuery(`SELECT (.+) FROM "sessions"`).WillReturnRows(sessionRows())
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "sessions"(.+)FOR UPDATE`).WillReturnRows(sessionRows())
	mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).WillReturnRows(
		sqlmock.NewRows([]string{"id", "user_id", "session_id", "status", "payment_plan"}).
			AddRow(uuid.New().String(), userID.String(), sessionID.String(), "PENDING", "FULL"))
	mock.ExpectRollback()

	app := newAuthedApp(userID)
	app.Post("/api/v1/bookings", CreateBooking)

	req := httptest.NewRequest("POST", "/api/v1/bookings",
		strings.NewReader(`{"sessionId":"`+sessionID.String()+`","payment_plan":"FULL"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "ALREADY_BOOKED")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetInstallmentsNoPlan(t *testing.T) {
	mock, restore := newMockDB(t)
	defer restore()

	userID := uuid.New()
	bookingID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).WillReturnRows(
		sqlmock.NewRows([]string{"id", "user_id", "session_id", "status", "payment_plan"}).
			AddRow(bookingID.String(), userID.String(), uuid.New().String(), "CONFIRMED", "FULL"))

	app := newAuthedApp(userID)
	app.Get("/api/v1/bookings/:bookingId/installments", GetInstallments)

	req := httptest.NewRequest("GET", "/api/v1/bookings/"+bookingID.String()+"/installments", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "NO_INSTALLMENT_PLAN")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayBookingGuards(t *testing.T) {
	userID := uuid.New()
	sessionID := uuid.New()

	tests := []struct {
		name          string
		status        string
		plan          string
		sessionStatus string
		wantFragment  string
	}{
		{"installment plan", "PARTIALLY_PAID", "INSTALLMENT", "UPCOMING", "USE_INSTALLMENTS"},
		{"already paid", "CONFIRMED", "FULL", "UPCOMING", "already paid"},
		{"cancelled booking", "CANCELLED", "FULL", "UPCOMING", "cancelled"},
		{"session closed", "PENDING", "FULL", "COMPLETED", "no longer open"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, restore := newMockDB(t)
			defer restore()

			bookingID := uuid.New()
			mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).WillReturnRows(
				sqlmock.NewRows([]string{"id", "user_id", "session_id", "status", "payment_plan", "amount_due"}).
					AddRow(bookingID.String(), userID.String(), sessionID.String(), tt.status, tt.plan, 1500.0))
			mock.ExpectQuery(`SELECT (.+) FROM "sessions"`).WillReturnRows(
				sqlmock.NewRows([]string{"id", "type", "status", "price"}).
					AddRow(sessionID.String(), "PAID", tt.sessionStatus, 1500.0))

			app := newAuthedApp(userID)
			app.Post("/api/v1/bookings/:bookingId/pay", PayBooking)

			req := httptest.NewRequest("POST", "/api/v1/bookings/"+bookingID.String()+"/pay", nil)
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

			body, _ := io.ReadAll(resp.Body)
			assert.Contains(t, string(body), tt.wantFragment)
		})
	}
}

func TestCreateBookingRequestUnmarshal(t *testing.T) {
	tests := []struct {
		name         string
		payload      string
		expectedRef  string
		expectedPlan string
		wantErr      bool
	}{
		{
			name:         "camelCase sessionId",
			payload:      `{"sessionId":"b7c2e1a0-0000-0000-0000-000000000001","payment_plan":"FULL"}`,
			expectedRef:  "b7c2e1a0-0000-0000-0000-000000000001",
			expectedPlan: "FULL",
		},
		{
			name:         "snake_case session_id",
			payload:      `{"session_id":"b7c2e1a0-0000-0000-0000-000000000001","payment_plan":"installment"}`,
			expectedRef:  "b7c2e1a0-0000-0000-0000-000000000001",
			expectedPlan: "INSTALLMENT",
		},
		{
			name:        "nested session object",
			payload:     `{"session":{"id":"b7c2e1a0-0000-0000-0000-000000000001"}}`,
			expectedRef: "b7c2e1a0-0000-0000-0000-000000000001",
		},
		{
			name:         "lowercase plan is normalized",
			payload:      `{"sessionId":"abc","payment_plan":" full "}`,
			expectedRef:  "abc",
			expectedPlan: "FULL",
		},
		{
			name:    "missing session reference",
			payload: `{"payment_plan":"FULL"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req CreateBookingRequest
			err := json.Unmarshal([]byte(tt.payload), &req)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedRef, req.Session.String())
			assert.Equal(t, tt.expectedPlan, req.PaymentPlan)
		})
	}
}
