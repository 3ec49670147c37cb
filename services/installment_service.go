package services

import (
	"math"
	"sort"
	"time"

	"github.com/avinash2305/wellness_platform/models"
	"github.com/google/uuid"
)

// PlanSummary is the projection clients render the installment timeline from.
// It is recomputed from the stored plan on every fetch; nothing here is
// mutated optimistically.
type PlanSummary struct {
	TotalAmount           float64 `json:"total_amount"`
	PaidAmount            float64 `json:"paid_amount"`
	RemainingAmount       float64 `json:"remaining_amount"`
	NextInstallmentNumber int     `json:"next_installment_number"` // 0 when fully paid
}

// SortPlan orders installments ascending by installment number. The gateway
// and the DB give no ordering guarantee, so every consumer sorts first.
func SortPlan(installments []models.Installment) {
	sort.Slice(installments, func(i, j int) bool {
		return installments[i].InstallmentNumber < installments[j].InstallmentNumber
	})
}

// Summarize computes plan totals. Invariant: PaidAmount + RemainingAmount ==
// TotalAmount, and RemainingAmount is the sum of PENDING amounts.
func Summarize(installments []models.Installment) PlanSummary {
	SortPlan(installments)

	var summary PlanSummary
	for _, inst := range installments {
		summary.TotalAmount += inst.Amount
		if models.NormalizeStatus(inst.Status) == models.InstallmentStatusPaid {
			summary.PaidAmount += inst.Amount
		} else {
			summary.RemainingAmount += inst.Amount
			if summary.NextInstallmentNumber == 0 {
				summary.NextInstallmentNumber = inst.InstallmentNumber
			}
		}
	}
	return summary
}

// ActiveInstallment returns the single payable installment: the
// lowest-numbered PENDING one. Everything before it is paid, everything after
// it is locked. Returns nil when the plan is fully settled.
func ActiveInstallment(installments []models.Installment) *models.Installment {
	SortPlan(installments)
	for i := range installments {
		if models.NormalizeStatus(installments[i].Status) == models.InstallmentStatusPending {
			return &installments[i]
		}
	}
	return nil
}

// BuildSchedule splits total into count equal monthly installments starting
// at start. Amounts are rounded to paise; the rounding remainder lands on
// installment 1 so the schedule always sums exactly to total.
func BuildSchedule(bookingID uuid.UUID, total float64, count int, start time.Time) []models.Installment {
	if count < 1 {
		count = 1
	}

	per := math.Floor(total*100/float64(count)) / 100
	first := total - per*float64(count-1)

	installments := make([]models.Installment, 0, count)
	for i := 1; i <= count; i++ {
		amount := per
		if i == 1 {
			amount = first
		}
		due := start.AddDate(0, i-1, 0)
		installments = append(installments, models.Installment{
			BookingID:         bookingID,
			InstallmentNumber: i,
			Amount:            amount,
			Status:            models.InstallmentStatusPending,
			DueDate:           &due,
		})
	}
	return installments
}
