package services

import (
	"testing"

	"github.com/avinash2305/wellness_platform/models"
	"github.com/stretchr/testify/assert"
)

func TestSettleFullOutcome(t *testing.T) {
	outcome := SettleFullOutcome(models.BookingStatusPending)
	assert.Equal(t, models.BookingStatusConfirmed, outcome.BookingStatus)
	assert.True(t, outcome.TakesSpot)
	assert.False(t, outcome.RefundDue)

	// Re-settling an already confirmed booking must not take a second spot.
	outcome = SettleFullOutcome(models.BookingStatusConfirmed)
	assert.Equal(t, models.BookingStatusConfirmed, outcome.BookingStatus)
	assert.False(t, outcome.TakesSpot)
	assert.False(t, outcome.RefundDue)
}

// A payment captured after the user cancelled must not resurrect the booking.
func TestSettleFullOutcomeCancelledBooking(t *testing.T) {
	outcome := SettleFullOutcome(models.BookingStatusCancelled)
	assert.Equal(t, models.BookingStatusCancelled, outcome.BookingStatus)
	assert.False(t, outcome.TakesSpot)
	assert.True(t, outcome.RefundDue)
}

func TestSettleInstallmentOutcome(t *testing.T) {
	partial := PlanSummary{TotalAmount: 3000, PaidAmount: 1000, RemainingAmount: 2000}

	outcome := SettleInstallmentOutcome(models.BookingStatusPending, partial)
	assert.Equal(t, models.BookingStatusPartiallyPaid, outcome.BookingStatus)
	assert.True(t, outcome.TakesSpot)
	assert.False(t, outcome.RefundDue)

	// Later installments find the spot already held.
	outcome = SettleInstallmentOutcome(models.BookingStatusPartiallyPaid, partial)
	assert.Equal(t, models.BookingStatusPartiallyPaid, outcome.BookingStatus)
	assert.False(t, outcome.TakesSpot)

	settled := PlanSummary{TotalAmount: 3000, PaidAmount: 3000, RemainingAmount: 0}
	outcome = SettleInstallmentOutcome(models.BookingStatusPartiallyPaid, settled)
	assert.Equal(t, models.BookingStatusConfirmed, outcome.BookingStatus)
	assert.False(t, outcome.TakesSpot)
}

func TestSettleInstallmentOutcomeCancelledBooking(t *testing.T) {
	partial := PlanSummary{TotalAmount: 3000, PaidAmount: 1000, RemainingAmount: 2000}

	outcome := SettleInstallmentOutcome(models.BookingStatusCancelled, partial)
	assert.Equal(t, models.BookingStatusCancelled, outcome.BookingStatus)
	assert.False(t, outcome.TakesSpot)
	assert.True(t, outcome.RefundDue)
}
