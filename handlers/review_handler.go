package handlers

import (
	"errors"

	"github.com/avinash2305/wellness_platform/database"
	"github.com/avinash2305/wellness_platform/models"
	"github.com/avinash2305/wellness_platform/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

func CreateReview(c *fiber.Ctx) error {
	userID := currentUserID(c)
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session ID"})
	}

	var req ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var newReview models.Review
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var session models.Session
		if err := tx.First(&session, "id = ?", sessionID).Error; err != nil {
			return errors.New("session not found")
		}
		if session.Status != models.SessionStatusCompleted {
			return errors.New("reviews can only be submitted for completed sessions")
		}

		var booking models.Booking
		if err := tx.Where("user_id = ? AND session_id = ?", userID, sessionID).
			Where("status IN ?", []string{models.BookingStatusConfirmed, models.BookingStatusPartiallyPaid}).
			First(&booking).Error; err != nil {
			return errors.New("only attendees can review this session")
		}

		var existing models.Review
		if err := tx.Where("user_id = ? AND session_id = ?", userID, sessionID).First(&existing).Error; err == nil {
			return errors.New("you have already reviewed this session")
		}

		newReview = models.Review{
			UserID:    userID,
			SessionID: sessionID,
			Rating:    req.Rating,
			Comment:   req.Comment,
		}
		return tx.Create(&newReview).Error
	})

	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	go websocket.Notify(userID, websocket.Event{Type: "review.submitted", Payload: newReview})

	return c.Status(fiber.StatusCreated).JSON(newReview)
}
