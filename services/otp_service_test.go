package services

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOTPIssue(t *testing.T) {
	db, mock := redismock.NewClientMock()
	svc := NewOTPService(db)

	mock.Regexp().ExpectSet("otp:user@example.com", `^\d{6}$`, 5*time.Minute).SetVal("OK")

	code, err := svc.Issue(context.Background(), "user@example.com")
	require.NoError(t, err)
	assert.Len(t, code, 6)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOTPVerify(t *testing.T) {
	db, mock := redismock.NewClientMock()
	svc := NewOTPService(db)

	mock.ExpectGet("otp:user@example.com").SetVal("123456")
	mock.ExpectDel("otp:user@example.com").SetVal(1)

	err := svc.Verify(context.Background(), "user@example.com", "123456")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOTPVerifyWrongCode(t *testing.T) {
	db, mock := redismock.NewClientMock()
	svc := NewOTPService(db)

	mock.ExpectGet("otp:user@example.com").SetVal("123456")

	err := svc.Verify(context.Background(), "user@example.com", "654321")
	assert.ErrorIs(t, err, ErrOTPInvalid)
}

func TestOTPVerifyExpired(t *testing.T) {
	db, mock := redismock.NewClientMock()
	svc := NewOTPService(db)

	mock.ExpectGet("otp:user@example.com").RedisNil()

	err := svc.Verify(context.Background(), "user@example.com", "123456")
	assert.ErrorIs(t, err, ErrOTPInvalid)
}
