package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	config "github.com/avinash2305/wellness_platform/configs"
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

var (
	errAlreadyBooked = errors.New("you already hold an active booking for this session")
	errSessionFull   = errors.New("this session is full")
)

// CreateBookingRequest accepts the session reference under any of the
// historical payload shapes; normalization happens once, here.
type CreateBookingRequest struct {
	Session     models.SessionRef
	PaymentPlan string
}

func (r *CreateBookingRequest) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if plan, ok := raw["payment_plan"].(string); ok {
		r.PaymentPlan = models.NormalizeStatus(plan)
	}

	id, ok := models.ExtractSessionRef(raw)
	if !ok {
		return errors.New("missing session reference")
	}
	r.Session = models.SessionRef(id)
	return nil
}

type checkoutResponse struct {
	Booking models.Booking            `json:"booking"`
	Order   *payments.CheckoutOptions `json:"order,omitempty"`
}

func CreateBooking(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	sessionID, err := req.Session.UUID()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session reference"})
	}

	var session models.Session
	if err := database.DB.First(&session, "id = ?", sessionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	}
	if session.Status != models.SessionStatusUpcoming {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Only upcoming sessions can be booked"})
	}

	plan := req.PaymentPlan
	if session.Type == models.SessionTypeFree {
		plan = models.PaymentPlanNone
	} else if plan != models.PaymentPlanFull && plan != models.PaymentPlanInstallment {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "payment_plan must be FULL or INSTALLMENT for paid sessions"})
	}

	var booking models.Booking
	var installments []models.Installment

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&session, "id = ?", sessionID).Error; err != nil {
			return err
		}

		// The client may have re-checked its booking list, but only this
		// locked lookup is authoritative against the double-booking race.
		var existing models.Booking
		err := tx.Where("user_id = ? AND session_id = ? AND status <> ?",
			userID, sessionID, models.BookingStatusCancelled).
			First(&existing).Error
		if err == nil {
			return errAlreadyBooked
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if session.IsFull() {
			return errSessionFull
		}

		booking = models.Booking{
			UserID:      userID,
			SessionID:   sessionID,
			PaymentPlan: plan,
			AmountDue:   session.Price,
			Currency:    session.Currency,
			Status:      models.BookingStatusPending,
		}

		if session.Type == models.SessionTypeFree {
			booking.Status = models.BookingStatusConfirmed
			session.CurrentParticipants++
			if err := tx.Save(&session).Error; err != nil {
				return err
			}
		}

		if err := tx.Create(&booking).Error; err != nil {
			return err
		}

		if plan == models.PaymentPlanInstallment {
			count := config.ConfigInt("INSTALLMENT_COUNT", 3)
			installments = services.BuildSchedule(booking.ID, session.Price, count, time.Now())
			if err := tx.Create(&installments).Error; err != nil {
				return err
			}
		}

		return nil
	})

	if errors.Is(err, errAlreadyBooked) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error(), "code": "ALREADY_BOOKED"})
	}
	if errors.Is(err, errSessionFull) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error(), "code": "SESSION_FULL"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create booking"})
	}

	monitoring.RecordBooking(booking.Status)

	if session.Type == models.SessionTypeFree {
		var user models.User
		if err := database.DB.First(&user, "id = ?", userID).Error; err == nil {
			go notifications.SendEmail(user.FullName, user.Email, "Your Booking is Confirmed!",
				"<h1>Booking Confirmed</h1><p>You have a spot in \""+session.Title+"\". See you there!</p>")
		}
		go websocket.Notify(userID, websocket.Event{Type: "booking.updated", Payload: booking})

		return c.Status(fiber.StatusCreated).JSON(checkoutResponse{Booking: booking})
	}

	// Paid path: register a fresh gateway order for this attempt. The
	// booking stays PENDING until the payment is verified server-side.
	amount := session.Price
	purpose := models.PaymentPurposeFull
	var installmentID *uuid.UUID
	if plan == models.PaymentPlanInstallment {
		first := services.ActiveInstallment(installments)
		amount = first.Amount
		purpose = models.PaymentPurposeInstallment
		installmentID = &first.ID
	}

	options, err := createOrderForBooking(&booking, amount, purpose, installmentID)
	if err != nil {
		log.Printf("🔥 CRITICAL: gateway order creation failed for booking %s: %v", booking.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Payment could not be initiated, please try again."})
	}

	return c.Status(fiber.StatusCreated).JSON(checkoutResponse{Booking: booking, Order: options})
}

// createOrderForBooking registers a gateway order and the matching payment
// record. Shared by the initial checkout and installment re-triggers.
func createOrderForBooking(booking *models.Booking, amount float64, purpose string, installmentID *uuid.UUID) (*payments.CheckoutOptions, error) {
	payment := models.Payment{
		BookingID:     &booking.ID,
		InstallmentID: installmentID,
		Purpose:       purpose,
		AmountMinor:   payments.ToMinorUnits(amount),
		Currency:      booking.Currency,
		Status:        models.PaymentStatusCreated,
	}

	order, err := payments.CreateOrder(payment.AmountMinor, payment.Currency, booking.ID.String())
	if err != nil {
		return nil, err
	}

	payment.ProviderOrderID = order.ID
	if err := database.DB.Create(&payment).Error; err != nil {
		return nil, err
	}

	return &payments.CheckoutOptions{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		KeyID:    payments.KeyID(),
	}, nil
}

// PayBooking registers a fresh checkout order for a pending full-payment
// booking. This is the retry path after a failed or abandoned checkout;
// orders are never reused, so every retry gets a new one.
func PayBooking(c *fiber.Ctx) error {
	userID := currentUserID(c)
	bookingID := c.Params("bookingId")

	var booking models.Booking
	if err := database.DB.Preload("Session").First(&booking, "id = ?", bookingID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
	}
	if booking.UserID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This is not your booking"})
	}
	if booking.PaymentPlan == models.PaymentPlanInstallment {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "This booking is paid in installments; pay the active installment instead",
			"code":  "USE_INSTALLMENTS",
		})
	}
	if booking.PaymentPlan != models.PaymentPlanFull {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "This booking does not require payment"})
	}
	if booking.Status == models.BookingStatusCancelled {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Booking is cancelled"})
	}
	if models.IsConfirmedBooking(booking.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Booking is already paid"})
	}
	if booking.Session.Status != models.SessionStatusUpcoming {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Session is no longer open for payment"})
	}

	options, err := createOrderForBooking(&booking, booking.AmountDue, models.PaymentPurposeFull, nil)
	if err != nil {
		log.Printf("🔥 CRITICAL: gateway order creation failed for booking %s: %v", booking.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Payment could not be initiated, please try again."})
	}

	return c.Status(fiber.StatusCreated).JSON(checkoutResponse{Booking: booking, Order: options})
}

func GetMyBookings(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var bookings []models.Booking
	database.DB.
		Preload("Session").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&bookings)

	return c.JSON(bookings)
}

func CancelBooking(c *fiber.Ctx) error {
	userID := currentUserID(c)
	bookingID := c.Params("bookingId")

	var booking models.Booking
	if err := database.DB.Preload("Session").First(&booking, "id = ?", bookingID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
	}
	if booking.UserID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This is not your booking"})
	}
	if booking.Status == models.BookingStatusCancelled {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Booking is already cancelled"})
	}
	if booking.Session.StartTime.Before(time.Now()) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot cancel a booking for a session that has already started"})
	}

	heldSpot := models.IsConfirmedBooking(booking.Status)

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		booking.Status = models.BookingStatusCancelled
		if err := tx.Save(&booking).Error; err != nil {
			return err
		}

		if heldSpot {
			return tx.Model(&models.Session{}).
				Where("id = ? AND current_participants > 0", booking.SessionID).
				Update("current_participants", gorm.Expr("current_participants - 1")).Error
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to cancel booking"})
	}

	go websocket.Notify(userID, websocket.Event{Type: "booking.updated", Payload: booking})

	return c.JSON(fiber.Map{"message": "Booking cancelled"})
}

// GetInstallments returns the ordered payment plan and its totals. A booking
// without an installment plan gets a 404 with a typed code; clients render
// that as "no plan", not as an error.
func GetInstallments(c *fiber.Ctx) error {
	userID := currentUserID(c)
	bookingID := c.Params("bookingId")

	var booking models.Booking
	if err := database.DB.First(&booking, "id = ?", bookingID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
	}
	if booking.UserID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This is not your booking"})
	}
	if booking.PaymentPlan != models.PaymentPlanInstallment {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No installment plan exists for this booking",
			"code":  "NO_INSTALLMENT_PLAN",
		})
	}

	var installments []models.Installment
	if err := database.DB.
		Where("booking_id = ?", booking.ID).
		Order("installment_number asc").
		Find(&installments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	summary := services.Summarize(installments)

	return c.JSON(fiber.Map{
		"installments":            installments,
		"total_amount":            summary.TotalAmount,
		"paid_amount":             summary.PaidAmount,
		"remaining_amount":        summary.RemainingAmount,
		"next_installment_number": summary.NextInstallmentNumber,
	})
}

type PayInstallmentRequest struct {
	InstallmentNumber int `json:"installment_number,omitempty"`
}

// PayInstallment creates a checkout order for the single payable
// installment: the lowest-numbered PENDING one. Paying out of order is
// rejected.
func PayInstallment(c *fiber.Ctx) error {
	userID := currentUserID(c)
	bookingID := c.Params("bookingId")

	var req PayInstallmentRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
		}
	}

	var booking models.Booking
	if err := database.DB.First(&booking, "id = ?", bookingID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
	}
	if booking.UserID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This is not your booking"})
	}
	if booking.PaymentPlan != models.PaymentPlanInstallment {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No installment plan exists for this booking",
			"code":  "NO_INSTALLMENT_PLAN",
		})
	}
	if booking.Status == models.BookingStatusCancelled {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Booking is cancelled"})
	}

	var installments []models.Installment
	if err := database.DB.Where("booking_id = ?", booking.ID).Find(&installments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	active := services.ActiveInstallment(installments)
	if active == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "All installments are already paid"})
	}
	if req.InstallmentNumber != 0 && req.InstallmentNumber != active.InstallmentNumber {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Installments must be paid in order",
			"code":  "INSTALLMENT_OUT_OF_ORDER",
		})
	}

	options, err := createOrderForBooking(&booking, active.Amount, models.PaymentPurposeInstallment, &active.ID)
	if err != nil {
		log.Printf("🔥 CRITICAL: gateway order creation failed for installment %s: %v", active.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Payment could not be initiated, please try again."})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"installment": active,
		"order":       options,
	})
}
