package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/avinash2305/wellness_platform/database"
	"github.com/avinash2305/wellness_platform/models"
	"github.com/avinash2305/wellness_platform/notifications"
)

// CheckInstallmentDues sends reminders for installments due within three days
// and flags bookings whose installments have gone past due.
func CheckInstallmentDues() {
	log.Println("Running job: CheckInstallmentDues...")

	now := time.Now()
	dueSoonCutoff := now.AddDate(0, 0, 3)

	var dueSoon []models.Installment
	err := database.DB.
		Where("status = ? AND due_date IS NOT NULL AND due_date BETWEEN ? AND ?",
			models.InstallmentStatusPending, now, dueSoonCutoff).
		Find(&dueSoon).Error
	if err != nil {
		log.Printf("Error checking for due installments: %v", err)
		return
	}

	for _, inst := range dueSoon {
		var booking models.Booking
		if err := database.DB.Preload("User").Preload("Session").
			First(&booking, "id = ?", inst.BookingID).Error; err != nil {
			continue
		}
		if !models.IsActiveBooking(booking.Status) {
			continue
		}

		log.Printf("Sending installment reminder for booking ID: %s", booking.ID)

		emailSubject := "Payment Reminder: Installment Due Soon"
		emailBody := fmt.Sprintf(
			"<h1>Installment Due</h1><p>Hi %s,</p><p>Installment %d of %.2f %s for <b>%s</b> is due on %s. Please complete the payment to keep your booking active.</p>",
			booking.User.FullName,
			inst.InstallmentNumber,
			inst.Amount,
			booking.Currency,
			booking.Session.Title,
			inst.DueDate.Format("January 2, 2006"),
		)

		go notifications.SendEmail(booking.User.FullName, booking.User.Email, emailSubject, emailBody)
	}

	var overdue []models.Installment
	err = database.DB.
		Where("status = ? AND due_date IS NOT NULL AND due_date < ?", models.InstallmentStatusPending, now).
		Find(&overdue).Error
	if err != nil {
		log.Printf("Error checking for overdue installments: %v", err)
		return
	}

	flagged := 0
	for _, inst := range overdue {
		result := database.DB.Model(&models.Booking{}).
			Where("id = ? AND overdue_flagged = ? AND status <> ?", inst.BookingID, false, models.BookingStatusCancelled).
			Update("overdue_flagged", true)
		if result.Error != nil {
			log.Printf("Error flagging overdue booking %s: %v", inst.BookingID, result.Error)
			continue
		}
		flagged += int(result.RowsAffected)
	}

	if flagged > 0 {
		log.Printf("Flagged %d booking(s) as overdue.", flagged)
	}
}
