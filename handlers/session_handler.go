package handlers

import (
	"strings"
	"time"

	config "github.com/avinash2305/wellness_platform/configs"
	"github.com/avinash2305/wellness_platform/database"
	"github.com/avinash2305/wellness_platform/models"
	"github.com/avinash2305/wellness_platform/notifications"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

// SessionResponse is the public session shape. The zoom link is only
// disclosed to users holding a confirmed booking.
type SessionResponse struct {
	models.Session
	ZoomLink *string `json:"zoom_link,omitempty"`
	Booked   bool    `json:"booked"`
}

func ListSessions(c *fiber.Ctx) error {
	query := database.DB.Model(&models.Session{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", models.NormalizeStatus(status))
	}
	if sessionType := c.Query("type"); sessionType != "" {
		query = query.Where("type = ?", models.NormalizeStatus(sessionType))
	}

	var sessions []models.Session
	if err := query.Order("start_time asc").Find(&sessions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	// Never leak meeting links on the listing.
	for i := range sessions {
		sessions[i].ZoomLink = nil
	}

	return c.JSON(sessions)
}

func GetSession(c *fiber.Ctx) error {
	sessionID := c.Params("sessionId")

	var session models.Session
	if err := database.DB.First(&session, "id = ?", sessionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	}

	response := SessionResponse{Session: session}
	response.Session.ZoomLink = nil

	// A confirmed booker gets the zoom link; anyone else does not.
	if token := c.Get("Authorization"); token != "" {
		if userID, ok := optionalUserID(c); ok {
			var booking models.Booking
			err := database.DB.
				Where("user_id = ? AND session_id = ?", userID, session.ID).
				Where("status IN ?", []string{models.BookingStatusConfirmed, models.BookingStatusPartiallyPaid}).
				First(&booking).Error
			if err == nil {
				response.Booked = true
				response.ZoomLink = session.ZoomLink
			}
		}
	}

	return c.JSON(response)
}

func GetSessionReviews(c *fiber.Ctx) error {
	sessionID := c.Params("sessionId")

	var reviews []models.Review
	if err := database.DB.
		Preload("User").
		Where("session_id = ?", sessionID).
		Order("created_at desc").
		Find(&reviews).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	return c.JSON(reviews)
}

type SessionRequest struct {
	Title           string  `json:"title" validate:"required,min=3"`
	Description     string  `json:"description"`
	Type            string  `json:"type" validate:"required,oneof=FREE PAID"`
	StartTime       string  `json:"start_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	EndTime         string  `json:"end_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	GuideName       string  `json:"guide_name" validate:"required"`
	Price           float64 `json:"price" validate:"gte=0"`
	Currency        string  `json:"currency,omitempty"`
	MaxParticipants int     `json:"max_participants" validate:"required,gt=0"`
	ImageURL        *string `json:"image_url"`
	ZoomLink        *string `json:"zoom_link"`
}

func CreateSession(c *fiber.Ctx) error {
	var req SessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.Type == models.SessionTypePaid && req.Price <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Paid sessions require a positive price"})
	}

	startTime, _ := time.Parse(time.RFC3339, req.StartTime)
	endTime, _ := time.Parse(time.RFC3339, req.EndTime)
	if !endTime.After(startTime) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "End time must be after start time"})
	}

	currency := req.Currency
	if currency == "" {
		currency = "INR"
	}

	session := models.Session{
		Title:           req.Title,
		Description:     req.Description,
		Type:            req.Type,
		StartTime:       startTime,
		EndTime:         endTime,
		GuideName:       req.GuideName,
		Price:           req.Price,
		Currency:        currency,
		MaxParticipants: req.MaxParticipants,
		Status:          models.SessionStatusUpcoming,
		ImageURL:        req.ImageURL,
		ZoomLink:        req.ZoomLink,
	}
	if err := database.DB.Create(&session).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create session"})
	}

	return c.Status(fiber.StatusCreated).JSON(session)
}

func UpdateSession(c *fiber.Ctx) error {
	sessionID := c.Params("sessionId")

	var session models.Session
	if err := database.DB.First(&session, "id = ?", sessionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	}

	var req SessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	startTime, _ := time.Parse(time.RFC3339, req.StartTime)
	endTime, _ := time.Parse(time.RFC3339, req.EndTime)

	session.Title = req.Title
	session.Description = req.Description
	session.Type = req.Type
	session.StartTime = startTime
	session.EndTime = endTime
	session.GuideName = req.GuideName
	session.Price = req.Price
	session.MaxParticipants = req.MaxParticipants
	session.ImageURL = req.ImageURL
	session.ZoomLink = req.ZoomLink
	if req.Currency != "" {
		session.Currency = req.Currency
	}

	if err := database.DB.Save(&session).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update session"})
	}

	return c.JSON(session)
}

// CancelSession cancels a session and propagates the cancellation to every
// active booking against it.
func CancelSession(c *fiber.Ctx) error {
	sessionID := c.Params("sessionId")

	var session models.Session
	if err := database.DB.First(&session, "id = ?", sessionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	}
	if session.Status == models.SessionStatusCompleted {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot cancel a completed session"})
	}

	var affected []models.Booking
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		session.Status = models.SessionStatusCancelled
		if err := tx.Save(&session).Error; err != nil {
			return err
		}

		if err := tx.Preload("User").
			Where("session_id = ? AND status <> ?", session.ID, models.BookingStatusCancelled).
			Find(&affected).Error; err != nil {
			return err
		}

		return tx.Model(&models.Booking{}).
			Where("session_id = ? AND status <> ?", session.ID, models.BookingStatusCancelled).
			Update("status", models.BookingStatusCancelled).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to cancel session"})
	}

	for _, booking := range affected {
		go notifications.SendEmail(
			booking.User.FullName,
			booking.User.Email,
			"Session Cancelled",
			"<h1>Session Cancelled</h1><p>Unfortunately the session you booked has been cancelled. Our team will reach out about refunds.</p>",
		)
	}

	return c.JSON(fiber.Map{"message": "Session cancelled and bookings notified"})
}

func DeleteSession(c *fiber.Ctx) error {
	sessionID := c.Params("sessionId")

	var count int64
	database.DB.Model(&models.Booking{}).
		Where("session_id = ? AND status <> ?", sessionID, models.BookingStatusCancelled).
		Count(&count)
	if count > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Session has active bookings; cancel it instead"})
	}

	result := database.DB.Delete(&models.Session{}, "id = ?", sessionID)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete session"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	}

	return c.JSON(fiber.Map{"message": "Session deleted"})
}

// optionalUserID reads the JWT subject when the request carries a valid
// bearer token; public endpoints use it to personalize responses without
// requiring auth.
func optionalUserID(c *fiber.Ctx) (string, bool) {
	auth := c.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", false
	}

	token, err := jwt.Parse(strings.TrimPrefix(auth, "Bearer "), func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(config.Config("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return "", false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	id, ok := claims["user_id"].(string)
	return id, ok
}
