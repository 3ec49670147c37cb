package models

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	BookingStatusPending       = "PENDING"
	BookingStatusConfirmed     = "CONFIRMED"
	BookingStatusPartiallyPaid = "PARTIALLY_PAID"
	BookingStatusCancelled     = "CANCELLED"
)

const (
	PaymentPlanNone        = "NONE"
	PaymentPlanFull        = "FULL"
	PaymentPlanInstallment = "INSTALLMENT"
)

type Booking struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID    uuid.UUID `gorm:"not null;index" json:"user_id"`
	SessionID uuid.UUID `gorm:"not null;index" json:"session_id"`
	Status    string    `gorm:"size:20;not null;default:'PENDING'" json:"status"`

	PaymentPlan string  `gorm:"size:20;not null;default:'NONE'" json:"payment_plan"`
	AmountDue   float64 `gorm:"type:numeric(10,2);default:0" json:"amount_due"`
	AmountPaid  float64 `gorm:"type:numeric(10,2);default:0" json:"amount_paid"`
	Currency    string  `gorm:"size:3;default:'INR'" json:"currency"`

	OverdueFlagged bool `gorm:"default:false" json:"overdue_flagged"`

	User    User    `gorm:"foreignkey:UserID" json:"-"`
	Session Session `gorm:"foreignkey:SessionID" json:"session,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NormalizeStatus folds the status casings and padding that historical
// endpoints produced into the canonical uppercase form.
func NormalizeStatus(status string) string {
	return strings.ToUpper(strings.TrimSpace(status))
}

// IsActiveBooking reports whether a booking still holds a spot against its
// session. Anything that is not cancelled counts; this is the predicate used
// for duplicate-booking prevention.
func IsActiveBooking(status string) bool {
	s := NormalizeStatus(status)
	return s != "" && s != BookingStatusCancelled
}

// IsConfirmedBooking is the single confirmed predicate used everywhere a
// client-facing "Booked" state is decided. Older clients disagreed on whether
// PARTIALLY_PAID counted; it does.
func IsConfirmedBooking(status string) bool {
	s := NormalizeStatus(status)
	return s == BookingStatusConfirmed || s == BookingStatusPartiallyPaid
}

// ExtractSessionRef pulls a session identifier out of v, which may be the
// identifier itself (string or number) or a booking-shaped object carrying it
// under "sessionId", "session_id", or a nested "session" object with an "id".
// The extraction is idempotent: feeding the result back in returns it
// unchanged.
func ExtractSessionRef(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		val = strings.TrimSpace(val)
		if val == "" {
			return "", false
		}
		return val, true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case json.Number:
		return val.String(), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case map[string]any:
		if raw, ok := val["sessionId"]; ok {
			return ExtractSessionRef(raw)
		}
		if raw, ok := val["session_id"]; ok {
			return ExtractSessionRef(raw)
		}
		if nested, ok := val["session"].(map[string]any); ok {
			if raw, ok := nested["id"]; ok {
				return ExtractSessionRef(raw)
			}
		}
		if raw, ok := val["id"]; ok {
			return ExtractSessionRef(raw)
		}
	}
	return "", false
}

// SessionRef unmarshals a session reference from any of the historical
// payload shapes so normalization happens once, at the API boundary.
type SessionRef string

func (r *SessionRef) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	id, ok := ExtractSessionRef(raw)
	if !ok {
		return errors.New("missing session reference")
	}
	*r = SessionRef(id)
	return nil
}

func (r SessionRef) String() string {
	return string(r)
}

func (r SessionRef) UUID() (uuid.UUID, error) {
	return uuid.Parse(string(r))
}
