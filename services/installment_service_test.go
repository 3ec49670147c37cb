package services

import (
	"testing"
	"time"

	"github.com/avinash2305/wellness_platform/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plan(statuses ...string) []models.Installment {
	installments := make([]models.Installment, 0, len(statuses))
	for i, status := range statuses {
		installments = append(installments, models.Installment{
			InstallmentNumber: i + 1,
			Amount:            1000,
			Status:            status,
		})
	}
	return installments
}

func TestSummarize(t *testing.T) {
	installments := plan(
		models.InstallmentStatusPaid,
		models.InstallmentStatusPending,
		models.InstallmentStatusPending,
	)

	summary := Summarize(installments)

	assert.Equal(t, float64(3000), summary.TotalAmount)
	assert.Equal(t, float64(1000), summary.PaidAmount)
	assert.Equal(t, float64(2000), summary.RemainingAmount)
	assert.Equal(t, 2, summary.NextInstallmentNumber)
	assert.Equal(t, summary.TotalAmount, summary.PaidAmount+summary.RemainingAmount)
}

func TestSummarizeFullyPaid(t *testing.T) {
	installments := plan(models.InstallmentStatusPaid, models.InstallmentStatusPaid)

	summary := Summarize(installments)

	assert.Equal(t, float64(2000), summary.PaidAmount)
	assert.Equal(t, float64(0), summary.RemainingAmount)
	assert.Equal(t, 0, summary.NextInstallmentNumber)
}

func TestActiveInstallment(t *testing.T) {
	installments := plan(
		models.InstallmentStatusPaid,
		models.InstallmentStatusPending,
		models.InstallmentStatusPending,
	)

	active := ActiveInstallment(installments)
	require.NotNil(t, active)
	assert.Equal(t, 2, active.InstallmentNumber)
}

func TestActiveInstallmentUnordered(t *testing.T) {
	// Simulate a DB result that came back out of order.
	installments := []models.Installment{
		{InstallmentNumber: 3, Amount: 1000, Status: models.InstallmentStatusPending},
		{InstallmentNumber: 1, Amount: 1000, Status: models.InstallmentStatusPaid},
		{InstallmentNumber: 2, Amount: 1000, Status: models.InstallmentStatusPending},
	}

	active := ActiveInstallment(installments)
	require.NotNil(t, active)
	assert.Equal(t, 2, active.InstallmentNumber)
}

func TestActiveInstallmentSettledPlan(t *testing.T) {
	installments := plan(models.InstallmentStatusPaid, models.InstallmentStatusPaid)
	assert.Nil(t, ActiveInstallment(installments))
}

func TestBuildSchedule(t *testing.T) {
	bookingID := uuid.New()
	start := time.Date(2026, time.September, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		total float64
		count int
	}{
		{name: "even split", total: 3000, count: 3},
		{name: "rounding remainder", total: 1000, count: 3},
		{name: "awkward total", total: 999.99, count: 4},
		{name: "single installment", total: 500, count: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			installments := BuildSchedule(bookingID, tt.total, tt.count, start)
			require.Len(t, installments, tt.count)

			var sum float64
			for i, inst := range installments {
				assert.Equal(t, i+1, inst.InstallmentNumber)
				assert.Equal(t, models.InstallmentStatusPending, inst.Status)
				assert.Equal(t, bookingID, inst.BookingID)
				require.NotNil(t, inst.DueDate)
				assert.Equal(t, start.AddDate(0, i, 0), *inst.DueDate)
				sum += inst.Amount
			}
			assert.InDelta(t, tt.total, sum, 0.001)

			// Installments after the first are equal; the first carries any
			// rounding remainder and is never smaller than the rest.
			if tt.count > 1 {
				per := installments[1].Amount
				for _, inst := range installments[2:] {
					assert.Equal(t, per, inst.Amount)
				}
				assert.GreaterOrEqual(t, installments[0].Amount, per)
			}
		})
	}
}

func TestBuildScheduleRemainderOnFirst(t *testing.T) {
	installments := BuildSchedule(uuid.New(), 1000, 3, time.Now())
	require.Len(t, installments, 3)

	assert.InDelta(t, 333.34, installments[0].Amount, 0.001)
	assert.InDelta(t, 333.33, installments[1].Amount, 0.001)
	assert.InDelta(t, 333.33, installments[2].Amount, 0.001)
}
