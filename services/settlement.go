package services

import "github.com/avinash2305/wellness_platform/models"

// SettlementOutcome describes how a captured payment applies to its booking.
type SettlementOutcome struct {
	BookingStatus string
	TakesSpot     bool
	RefundDue     bool
}

// SettleFullOutcome decides the booking transition for a captured full
// payment. A payment landing on a cancelled booking never resurrects it; the
// money is flagged for refund instead.
func SettleFullOutcome(bookingStatus string) SettlementOutcome {
	if !models.IsActiveBooking(bookingStatus) {
		return SettlementOutcome{BookingStatus: models.BookingStatusCancelled, RefundDue: true}
	}
	return SettlementOutcome{
		BookingStatus: models.BookingStatusConfirmed,
		TakesSpot:     !models.IsConfirmedBooking(bookingStatus),
	}
}

// SettleInstallmentOutcome decides the booking transition for a captured
// installment, given the recomputed plan summary. The first settled
// installment takes the spot; the last one confirms the booking.
func SettleInstallmentOutcome(bookingStatus string, summary PlanSummary) SettlementOutcome {
	if !models.IsActiveBooking(bookingStatus) {
		return SettlementOutcome{BookingStatus: models.BookingStatusCancelled, RefundDue: true}
	}
	outcome := SettlementOutcome{
		BookingStatus: models.BookingStatusPartiallyPaid,
		TakesSpot:     !models.IsConfirmedBooking(bookingStatus),
	}
	if summary.RemainingAmount <= 0 {
		outcome.BookingStatus = models.BookingStatusConfirmed
	}
	return outcome
}
