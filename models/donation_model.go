package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	DonationStatusPending   = "PENDING"
	DonationStatusCompleted = "COMPLETED"
	DonationStatusFailed    = "FAILED"
)

type Donation struct {
	ID     uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID *uuid.UUID `gorm:"index" json:"user_id"`

	DonorName  string `gorm:"size:255;not null" json:"donor_name"`
	DonorEmail string `gorm:"size:255;not null" json:"donor_email"`
	Message    string `gorm:"type:text" json:"message"`

	Amount   float64 `gorm:"type:numeric(10,2);not null" json:"amount"`
	Currency string  `gorm:"size:3;not null;default:'INR'" json:"currency"`

	Status        string  `gorm:"size:20;not null;default:'PENDING'" json:"status"`
	ReceiptNumber *string `gorm:"size:30;unique" json:"receipt_number"`
	ReceiptURL    *string `gorm:"size:255" json:"receipt_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
