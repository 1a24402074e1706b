package model

import "time"

// EnvironmentType categorizes an environment (classroom, lab, auditorium, ...).
type EnvironmentType struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:128;not null" json:"name"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	// Associations
	Environments []Environment `gorm:"foreignKey:TypeID" json:"-"`
}
