package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	SessionTypeFree = "FREE"
	SessionTypePaid = "PAID"
)

const (
	SessionStatusUpcoming  = "UPCOMING"
	SessionStatusOngoing   = "ONGOING"
	SessionStatusCompleted = "COMPLETED"
	SessionStatusCancelled = "CANCELLED"
)

type Session struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Type        string    `gorm:"size:10;not null;default:'FREE'" json:"type"`
	StartTime   time.Time `gorm:"not null" json:"start_time"`
	EndTime     time.Time `gorm:"not null" json:"end_time"`
	GuideName   string    `gorm:"size:255" json:"guide_name"`

	Price    float64 `gorm:"type:numeric(10,2);default:0" json:"price"`
	Currency string  `gorm:"size:3;default:'INR'" json:"currency"`

	MaxParticipants     int `gorm:"not null;default:50" json:"max_participants"`
	CurrentParticipants int `gorm:"not null;default:0" json:"current_participants"`

	Status   string  `gorm:"size:20;not null;default:'UPCOMING'" json:"status"`
	ImageURL *string `gorm:"size:255" json:"image_url"`
	ZoomLink *string `gorm:"size:255" json:"zoom_link,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Session) IsFull() bool {
	return s.CurrentParticipants >= s.MaxParticipants
}
