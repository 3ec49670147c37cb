package handlers

import (
	"errors"
	"log"
	"time"

	"github.com/avinash2305/wellness_platform/database"
	"github.com/avinash2305/wellness_platform/models"
	"github.com/avinash2305/wellness_platform/monitoring"
	"github.com/avinash2305/wellness_platform/notifications"
	"github.com/avinash2305/wellness_platform/payments"
	"github.com/avinash2305/wellness_platform/services"
	"github.com/avinash2305/wellness_platform/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VerifyPaymentRequest struct {
	OrderID           string `json:"order_id" validate:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string `json:"razorpay_signature" validate:"required"`
}

// VerifyPayment is the single confirmation step for every payment path:
// full, installment and donation. The widget's success callback alone proves
// nothing; only a valid gateway signature settles a payment.
func VerifyPayment(c *fiber.Ctx) error {
	var req VerifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var payment models.Payment
	if err := database.DB.Where("provider_order_id = ?", req.OrderID).First(&payment).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payment record not found for this order"})
	}

	if payment.Status == models.PaymentStatusCaptured {
		return c.JSON(fiber.Map{"status": "success", "message": "Payment already verified"})
	}

	if !payments.VerifyPaymentSignature(req.OrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		log.Printf("🔥 Signature mismatch for order %s", req.OrderID)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Payment signature verification failed",
			"code":  "SIGNATURE_MISMATCH",
		})
	}

	// The signature proves the callback is authentic; the gateway lookup
	// catches a verify racing a payment.failed webhook. Gateway downtime
	// does not block settlement.
	if gatewayPayment, err := payments.FetchPayment(req.RazorpayPaymentID); err == nil {
		if status, _ := gatewayPayment["status"].(string); status == "failed" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Payment was not captured by the gateway"})
		}
	}

	if err := settlePayment(&payment, req.RazorpayPaymentID, &req.RazorpaySignature); err != nil {
		log.Printf("🔥 CRITICAL: failed to settle payment %s: %v", payment.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to finalize payment"})
	}

	return c.JSON(fiber.Map{"status": "success", "message": "Payment verified and captured"})
}

type razorpayWebhookPayload struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
				Status  string `json:"status"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// HandlePaymentWebhook settles payments from the gateway's server-to-server
// notifications. It may fire before or after the client's verify call; both
// paths are idempotent.
func HandlePaymentWebhook(c *fiber.Ctx) error {
	body := c.Body()

	if !payments.VerifyWebhookSignature(body, c.Get("X-Razorpay-Signature")) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid webhook signature"})
	}

	var payload razorpayWebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse webhook payload"})
	}

	entity := payload.Payload.Payment.Entity
	log.Printf("Received webhook %s for order %s", payload.Event, entity.OrderID)

	var payment models.Payment
	if err := database.DB.Where("provider_order_id = ?", entity.OrderID).First(&payment).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payment record not found"})
	}

	if payment.Status == models.PaymentStatusCaptured {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Webhook already processed"})
	}

	switch payload.Event {
	case "payment.captured":
		if err := settlePayment(&payment, entity.ID, nil); err != nil {
			log.Printf("🔥 CRITICAL: error processing captured webhook for order %s: %v", entity.OrderID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process webhook"})
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Webhook processed successfully"})
	case "payment.failed":
		payment.Status = models.PaymentStatusFailed
		payment.ProviderPaymentID = &entity.ID
		database.DB.Save(&payment)
		monitoring.RecordPayment(payment.Purpose, models.PaymentStatusFailed)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Acknowledged failed payment"})
	default:
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Event ignored"})
	}
}

// settlePayment applies a captured payment to the record it belongs to, in
// one transaction. Safe to call from both verify and the webhook.
func settlePayment(payment *models.Payment, providerPaymentID string, signature *string) error {
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		// Re-read under the transaction so a racing verify/webhook pair
		// settles exactly once.
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(payment, "id = ?", payment.ID).Error; err != nil {
			return err
		}
		if payment.Status == models.PaymentStatusCaptured {
			return nil
		}

		payment.Status = models.PaymentStatusCaptured
		payment.ProviderPaymentID = &providerPaymentID
		payment.Signature = signature
		if err := tx.Save(payment).Error; err != nil {
			return err
		}

		switch payment.Purpose {
		case models.PaymentPurposeFull:
			return settleFullPayment(tx, payment)
		case models.PaymentPurposeInstallment:
			return settleInstallmentPayment(tx, payment)
		case models.PaymentPurposeDonation:
			return settleDonation(tx, payment)
		default:
			return errors.New("unknown payment purpose: " + payment.Purpose)
		}
	})
	if err != nil {
		return err
	}

	monitoring.RecordPayment(payment.Purpose, models.PaymentStatusCaptured)
	monitoring.RecordPaymentAmount(payment.Purpose, payment.AmountMinor)

	// The receipt generator re-reads the donation, so it must only start
	// once the settlement transaction has committed.
	if payment.Purpose == models.PaymentPurposeDonation && payment.DonationID != nil {
		go services.GenerateDonationReceipt(*payment.DonationID)
	}
	return nil
}

func settleFullPayment(tx *gorm.DB, payment *models.Payment) error {
	var booking models.Booking
	if err := tx.Preload("User").Preload("Session").
		First(&booking, "id = ?", payment.BookingID).Error; err != nil {
		return err
	}

	outcome := services.SettleFullOutcome(booking.Status)
	if outcome.RefundDue {
		return flagRefund(tx, payment, &booking)
	}

	if outcome.TakesSpot {
		claimed, err := claimSpot(tx, booking.SessionID)
		if err != nil {
			return err
		}
		if !claimed {
			booking.Status = models.BookingStatusCancelled
			if err := tx.Save(&booking).Error; err != nil {
				return err
			}
			return flagRefund(tx, payment, &booking)
		}
	}

	booking.Status = outcome.BookingStatus
	booking.AmountPaid = booking.AmountDue
	if err := tx.Save(&booking).Error; err != nil {
		return err
	}

	go notifications.SendEmail(booking.User.FullName, booking.User.Email, "Your Booking is Confirmed!",
		"<h1>Booking Confirmed</h1><p>Your payment was successful and your spot in \""+booking.Session.Title+"\" is confirmed.</p>")
	go websocket.Notify(booking.UserID, websocket.Event{Type: "payment.captured", Payload: booking})

	return nil
}

func settleInstallmentPayment(tx *gorm.DB, payment *models.Payment) error {
	if payment.InstallmentID == nil {
		return errors.New("installment payment without an installment reference")
	}

	var booking models.Booking
	if err := tx.Preload("User").Preload("Session").
		First(&booking, "id = ?", payment.BookingID).Error; err != nil {
		return err
	}
	if !models.IsActiveBooking(booking.Status) {
		return flagRefund(tx, payment, &booking)
	}

	var installment models.Installment
	if err := tx.First(&installment, "id = ?", payment.InstallmentID).Error; err != nil {
		return err
	}
	if installment.Status == models.InstallmentStatusPaid {
		return nil
	}

	now := time.Now()
	installment.Status = models.InstallmentStatusPaid
	installment.PaidAt = &now
	if err := tx.Save(&installment).Error; err != nil {
		return err
	}

	var plan []models.Installment
	if err := tx.Where("booking_id = ?", booking.ID).Find(&plan).Error; err != nil {
		return err
	}
	summary := services.Summarize(plan)

	outcome := services.SettleInstallmentOutcome(booking.Status, summary)
	if outcome.TakesSpot {
		claimed, err := claimSpot(tx, booking.SessionID)
		if err != nil {
			return err
		}
		if !claimed {
			booking.Status = models.BookingStatusCancelled
			if err := tx.Save(&booking).Error; err != nil {
				return err
			}
			return flagRefund(tx, payment, &booking)
		}
	}

	booking.Status = outcome.BookingStatus
	booking.AmountPaid = summary.PaidAmount
	if err := tx.Save(&booking).Error; err != nil {
		return err
	}

	subject := "Installment Payment Received"
	body := "<h1>Payment Received</h1><p>Your installment payment was successful. Your spot in \"" + booking.Session.Title + "\" is held.</p>"
	if booking.Status == models.BookingStatusConfirmed {
		subject = "Your Booking is Fully Paid!"
		body = "<h1>Booking Confirmed</h1><p>Your final installment cleared and your booking for \"" + booking.Session.Title + "\" is fully paid.</p>"
	}
	go notifications.SendEmail(booking.User.FullName, booking.User.Email, subject, body)
	go websocket.Notify(booking.UserID, websocket.Event{Type: "payment.captured", Payload: fiber.Map{
		"booking":     booking,
		"installment": installment,
	}})

	return nil
}

func settleDonation(tx *gorm.DB, payment *models.Payment) error {
	var donation models.Donation
	if err := tx.First(&donation, "id = ?", payment.DonationID).Error; err != nil {
		return err
	}

	donation.Status = models.DonationStatusCompleted
	return tx.Save(&donation).Error
}

// claimSpot takes one seat, refusing when the session is already full.
// Pending bookings do not hold seats, so the authoritative capacity check
// happens here, at settlement.
func claimSpot(tx *gorm.DB, sessionID uuid.UUID) (bool, error) {
	result := tx.Model(&models.Session{}).
		Where("id = ? AND current_participants < max_participants", sessionID).
		Update("current_participants", gorm.Expr("current_participants + 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// flagRefund records captured money that cannot buy a spot: the booking was
// cancelled before settlement, or the session filled up first.
func flagRefund(tx *gorm.DB, payment *models.Payment, booking *models.Booking) error {
	payment.RefundFlagged = true
	if err := tx.Save(payment).Error; err != nil {
		return err
	}

	log.Printf("⚠️ Payment %s captured for unusable booking %s, flagged for refund", payment.ID, booking.ID)
	go notifications.SendEmail(booking.User.FullName, booking.User.Email, "About Your Recent Payment",
		"<h1>Payment Received, Booking Unavailable</h1><p>We received your payment but your booking for \""+booking.Session.Title+"\" could not be honored. Our team will process a refund shortly.</p>")

	return nil
}
