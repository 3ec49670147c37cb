package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
)

const otpTTL = 5 * time.Minute

var ErrOTPInvalid = errors.New("invalid or expired OTP")

// OTPService stores one-time login codes in Redis with a short TTL. Codes
// are single-use: a successful verify deletes the key.
type OTPService struct {
	redis *redis.Client
}

func NewOTPService(redisClient *redis.Client) *OTPService {
	return &OTPService{redis: redisClient}
}

func otpKey(email string) string {
	return "otp:" + email
}

func (s *OTPService) Issue(ctx context.Context, email string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	code := fmt.Sprintf("%06d", n.Int64())

	if err := s.redis.Set(ctx, otpKey(email), code, otpTTL).Err(); err != nil {
		return "", err
	}
	return code, nil
}

func (s *OTPService) Verify(ctx context.Context, email, code string) error {
	stored, err := s.redis.Get(ctx, otpKey(email)).Result()
	if err == redis.Nil {
		return ErrOTPInvalid
	}
	if err != nil {
		return err
	}
	if stored != code {
		return ErrOTPInvalid
	}

	if err := s.redis.Del(ctx, otpKey(email)).Err(); err != nil {
		return err
	}
	return nil
}
