package model

import (
	"time"

	"github.com/google/uuid"
)

// Reservation status values. Booking flows only ever write approved; the
// column keeps the wider set so a soft-cancel migration stays cheap.
const (
	StatusApproved  = "approved"
	StatusPending   = "pending"
	StatusCancelled = "cancelled"
)

// Reservation is a user's claim on an environment for a half-open time
// interval [start_time, end_time).
type Reservation struct {
	ID            int64      `gorm:"primaryKey" json:"id"`
	EnvironmentID int64      `gorm:"index;not null" json:"environment_id"`
	UserID        int64      `gorm:"index;not null" json:"user_id"`
	StartTime     time.Time  `gorm:"not null;index" json:"start_time"`
	EndTime       time.Time  `gorm:"not null" json:"end_time"`
	Status        string     `gorm:"size:32;not null;default:approved" json:"status"`
	SeriesID      *uuid.UUID `gorm:"type:uuid;index" json:"series_id,omitempty"`
	CreatedAt     time.Time  `gorm:"not null" json:"created_at"`

	// Associations
	Environment Environment `gorm:"constraint:OnDelete:CASCADE" json:"environment"`
	User        User        `gorm:"constraint:OnDelete:CASCADE" json:"user"`
}
