package handlers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/avinash2305/wellness_platform/database"
	"github.com/avinash2305/wellness_platform/models"
	"github.com/gofiber/fiber/v2"
)

func GetDashboardAnalytics(c *fiber.Ctx) error {
	var totalUsers, totalSessions, totalBookings, totalDonations int64
	database.DB.Model(&models.User{}).Count(&totalUsers)
	database.DB.Model(&models.Session{}).Count(&totalSessions)
	database.DB.Model(&models.Booking{}).Count(&totalBookings)
	database.DB.Model(&models.Donation{}).Where("status = ?", models.DonationStatusCompleted).Count(&totalDonations)

	var revenueMinor int64
	database.DB.Model(&models.Payment{}).
		Where("status = ? AND purpose IN ?", models.PaymentStatusCaptured,
			[]string{models.PaymentPurposeFull, models.PaymentPurposeInstallment}).
		Select("COALESCE(SUM(amount_minor), 0)").
		Row().Scan(&revenueMinor)

	var donationMinor int64
	database.DB.Model(&models.Payment{}).
		Where("status = ? AND purpose = ?", models.PaymentStatusCaptured, models.PaymentPurposeDonation).
		Select("COALESCE(SUM(amount_minor), 0)").
		Row().Scan(&donationMinor)

	bookingsByStatus := map[string]int64{}
	for _, status := range []string{
		models.BookingStatusPending,
		models.BookingStatusConfirmed,
		models.BookingStatusPartiallyPaid,
		models.BookingStatusCancelled,
	} {
		var count int64
		database.DB.Model(&models.Booking{}).Where("status = ?", status).Count(&count)
		bookingsByStatus[status] = count
	}

	return c.JSON(fiber.Map{
		"total_users":          totalUsers,
		"total_sessions":       totalSessions,
		"total_bookings":       totalBookings,
		"total_donations":      totalDonations,
		"revenue":              float64(revenueMinor) / 100,
		"donation_total":       float64(donationMinor) / 100,
		"bookings_by_status":   bookingsByStatus,
	})
}

func GetAllUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := database.DB.Order("created_at desc").Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(users)
}

func ToggleUserStatus(c *fiber.Ctx) error {
	userID := c.Params("userId")

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	if user.Role == "admin" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot deactivate an admin account"})
	}

	user.IsActive = !user.IsActive
	if err := database.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update user status"})
	}

	return c.JSON(fiber.Map{"message": "User status updated", "is_active": user.IsActive})
}

func AdminDeleteUser(c *fiber.Ctx) error {
	userID := c.Params("userId")

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	if user.Role == "admin" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot delete an admin account"})
	}

	if err := database.DB.Delete(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete user"})
	}
	return c.JSON(fiber.Map{"message": "User deleted"})
}

func AdminGetAllBookings(c *fiber.Ctx) error {
	query := database.DB.Preload("User").Preload("Session")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", models.NormalizeStatus(status))
	}

	var bookings []models.Booking
	if err := query.Order("created_at desc").Find(&bookings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(bookings)
}

func AdminGetPayments(c *fiber.Ctx) error {
	query := database.DB.Model(&models.Payment{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if purpose := c.Query("purpose"); purpose != "" {
		query = query.Where("purpose = ?", models.NormalizeStatus(purpose))
	}

	var payments []models.Payment
	if err := query.Order("created_at desc").Find(&payments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(payments)
}

func AdminGetDonations(c *fiber.Ctx) error {
	var donations []models.Donation
	if err := database.DB.Order("created_at desc").Find(&donations).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(donations)
}

func AdminGetReviews(c *fiber.Ctx) error {
	var reviews []models.Review
	if err := database.DB.Preload("User").Preload("Session").
		Order("created_at desc").Find(&reviews).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(reviews)
}

func AdminDeleteReview(c *fiber.Ctx) error {
	reviewID := c.Params("reviewId")

	result := database.DB.Delete(&models.Review{}, "id = ?", reviewID)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete review"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Review not found"})
	}
	return c.JSON(fiber.Map{"message": "Review deleted"})
}

func GenerateTransactionReport(c *fiber.Ctx) error {
	startDateStr := c.Query("start_date", time.Now().AddDate(0, -1, 0).Format("2006-01-02"))
	endDateStr := c.Query("end_date", time.Now().Format("2006-01-02"))

	startDate, err := time.Parse("2006-01-02", startDateStr)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid start_date format. Use YYYY-MM-DD."})
	}
	endDate, err := time.Parse("2006-01-02", endDateStr)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid end_date format. Use YYYY-MM-DD."})
	}
	endDate = endDate.Add(23*time.Hour + 59*time.Minute + 59*time.Second)

	var captured []models.Payment
	database.DB.
		Preload("Booking.User").
		Preload("Donation").
		Where("status = ? AND created_at BETWEEN ? AND ?", models.PaymentStatusCaptured, startDate, endDate).
		Order("created_at desc").
		Find(&captured)

	b := new(bytes.Buffer)
	w := csv.NewWriter(b)

	headers := []string{"Transaction ID", "Date", "Payer", "Amount", "Purpose", "Reference ID"}
	if err := w.Write(headers); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to write CSV header"})
	}

	for _, p := range captured {
		var payer, referenceID string
		if p.BookingID != nil {
			payer = p.Booking.User.FullName
			referenceID = p.BookingID.String()
		} else if p.DonationID != nil {
			payer = p.Donation.DonorName
			referenceID = p.DonationID.String()
		}

		txnID := ""
		if p.ProviderPaymentID != nil {
			txnID = *p.ProviderPaymentID
		}

		row := []string{
			txnID,
			p.CreatedAt.Format("2006-01-02 15:04"),
			payer,
			fmt.Sprintf("%.2f", float64(p.AmountMinor)/100),
			p.Purpose,
			referenceID,
		}
		if err := w.Write(row); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to write CSV row"})
		}
	}
	w.Flush()

	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s_to_%s.csv\"", startDate.Format("2006-01-02"), endDate.Format("2006-01-02")))

	return c.Send(b.Bytes())
}
