package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	PaymentPurposeFull        = "FULL"
	PaymentPurposeInstallment = "INSTALLMENT"
	PaymentPurposeDonation    = "DONATION"
)

const (
	PaymentStatusCreated  = "created"
	PaymentStatusCaptured = "captured"
	PaymentStatusFailed   = "failed"
)

// Payment tracks one gateway order from creation through capture. A fresh
// order is created for every checkout attempt; orders are never reused.
type Payment struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	BookingID     *uuid.UUID `gorm:"index" json:"booking_id"`
	InstallmentID *uuid.UUID `gorm:"index" json:"installment_id"`
	DonationID    *uuid.UUID `gorm:"index" json:"donation_id"`

	Purpose string `gorm:"size:20;not null" json:"purpose"`

	ProviderOrderID   string  `gorm:"size:255;not null;unique" json:"provider_order_id"`
	ProviderPaymentID *string `gorm:"size:255;unique" json:"provider_payment_id"`
	Signature         *string `gorm:"size:255" json:"-"`

	// AmountMinor is in minor currency units (paise). Display amounts stay
	// in rupees; the conversion happens only in payments.ToMinorUnits.
	AmountMinor int64  `gorm:"not null" json:"amount_minor"`
	Currency    string `gorm:"size:3;not null;default:'INR'" json:"currency"`

	Status string `gorm:"size:20;not null;default:'created'" json:"status"`

	// RefundFlagged marks money captured for a booking that could not be
	// honored (cancelled before settlement, or the session filled up first).
	RefundFlagged bool `gorm:"default:false" json:"refund_flagged"`

	Booking     Booking     `gorm:"foreignkey:BookingID" json:"-"`
	Installment Installment `gorm:"foreignkey:InstallmentID" json:"-"`
	Donation    Donation    `gorm:"foreignkey:DonationID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
