package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/avinash2305/wellness_platform/database"
	"github.com/avinash2305/wellness_platform/models"
	"github.com/avinash2305/wellness_platform/notifications"
)

func SendSessionReminders() {
	log.Println("Running job: SendSessionReminders...")

	now := time.Now()
	lowerBound := now.Add(60 * time.Minute)
	upperBound := now.Add(65 * time.Minute)

	var upcomingBookings []models.Booking

	err := database.DB.
		Preload("User").
		Preload("Session").
		Joins("JOIN sessions on bookings.session_id = sessions.id").
		Where("bookings.status IN ? AND sessions.status = ? AND sessions.start_time BETWEEN ? AND ?",
			[]string{models.BookingStatusConfirmed, models.BookingStatusPartiallyPaid},
			models.SessionStatusUpcoming, lowerBound, upperBound).
		Find(&upcomingBookings).Error

	if err != nil {
		log.Printf("Error checking for upcoming sessions: %v", err)
		return
	}

	if len(upcomingBookings) == 0 {
		return
	}

	for _, booking := range upcomingBookings {
		log.Printf("Sending reminder for booking ID: %s", booking.ID)

		joinLink := ""
		if booking.Session.ZoomLink != nil {
			joinLink = fmt.Sprintf("<p><b>Join Link:</b> <a href='%s'>Join Session</a></p>", *booking.Session.ZoomLink)
		}

		emailSubject := "Reminder: Your Session Starts in 1 Hour!"
		emailBody := fmt.Sprintf(
			"<h1>Session Reminder</h1><p>Hi %s,</p><p>This is a friendly reminder that <b>%s</b> starts in one hour at %s.</p>%s",
			booking.User.FullName,
			booking.Session.Title,
			booking.Session.StartTime.Format(time.Kitchen),
			joinLink,
		)

		go notifications.SendEmail(booking.User.FullName, booking.User.Email, emailSubject, emailBody)
	}
}
