package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	InstallmentStatusPending = "PENDING"
	InstallmentStatusPaid    = "PAID"
)

// Installment is one scheduled partial payment within a booking's payment
// plan. Installments are settled strictly in order of InstallmentNumber.
type Installment struct {
	ID                uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	BookingID         uuid.UUID  `gorm:"not null;index" json:"booking_id"`
	InstallmentNumber int        `gorm:"not null" json:"installment_number"`
	Amount            float64    `gorm:"type:numeric(10,2);not null" json:"amount"`
	Status            string     `gorm:"size:20;not null;default:'PENDING'" json:"status"`
	DueDate           *time.Time `json:"due_date"`
	PaidAt            *time.Time `json:"paid_at"`

	Booking Booking `gorm:"foreignkey:BookingID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
