package handlers

import (
	"log"

	"github.com/avinash2305/wellness_platform/database"
	"github.com/avinash2305/wellness_platform/models"
	"github.com/avinash2305/wellness_platform/payments"
	"github.com/avinash2305/wellness_platform/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type DonationRequest struct {
	DonorName  string  `json:"donor_name" validate:"required,min=2"`
	DonorEmail string  `json:"donor_email" validate:"required,email"`
	Amount     float64 `json:"amount" validate:"required,gt=0"`
	Message    string  `json:"message"`
}

// CreateDonation registers a donation and a checkout order for it. The
// donation settles through the same verify/webhook path as bookings.
func CreateDonation(c *fiber.Ctx) error {
	var req DonationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	donation := models.Donation{
		DonorName:  req.DonorName,
		DonorEmail: req.DonorEmail,
		Amount:     req.Amount,
		Currency:   "INR",
		Message:    req.Message,
		Status:     models.DonationStatusPending,
	}

	// Donations work logged-in or anonymous.
	if id, ok := optionalUserID(c); ok {
		if userID, err := uuid.Parse(id); err == nil {
			donation.UserID = &userID
		}
	}

	if err := database.DB.Create(&donation).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to record donation"})
	}

	payment := models.Payment{
		DonationID:  &donation.ID,
		Purpose:     models.PaymentPurposeDonation,
		AmountMinor: payments.ToMinorUnits(donation.Amount),
		Currency:    donation.Currency,
		Status:      models.PaymentStatusCreated,
	}

	order, err := payments.CreateOrder(payment.AmountMinor, payment.Currency, donation.ID.String())
	if err != nil {
		log.Printf("🔥 CRITICAL: gateway order creation failed for donation %s: %v", donation.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Payment could not be initiated, please try again."})
	}

	payment.ProviderOrderID = order.ID
	if err := database.DB.Create(&payment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to record payment"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"donation": donation,
		"order": payments.CheckoutOptions{
			OrderID:  order.ID,
			Amount:   order.Amount,
			Currency: order.Currency,
			KeyID:    payments.KeyID(),
		},
	})
}

// AdminRegenerateReceipt re-triggers receipt generation for a completed
// donation whose first attempt failed or got lost.
func AdminRegenerateReceipt(c *fiber.Ctx) error {
	donationID := c.Params("donationId")

	var donation models.Donation
	if err := database.DB.First(&donation, "id = ?", donationID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Donation not found"})
	}
	if donation.Status != models.DonationStatusCompleted {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Donation is not completed"})
	}

	go services.GenerateDonationReceipt(donation.ID)

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"message": "Receipt generation started"})
}

// GetDonationReceipt returns the receipt URL once the async generation has
// finished; 202 while it is still being produced.
func GetDonationReceipt(c *fiber.Ctx) error {
	donationID := c.Params("donationId")

	var donation models.Donation
	if err := database.DB.First(&donation, "id = ?", donationID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Donation not found"})
	}
	if donation.Status != models.DonationStatusCompleted {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Donation is not completed"})
	}
	if donation.ReceiptURL == nil {
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"message": "Receipt is being generated, try again shortly"})
	}

	return c.JSON(fiber.Map{
		"receipt_number": donation.ReceiptNumber,
		"receipt_url":    donation.ReceiptURL,
	})
}
