package model

import "time"

// Environment represents a bookable physical space.
type Environment struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:256;not null" json:"name"`
	Location  string    `gorm:"size:256" json:"location"`
	TypeID    int64     `gorm:"index;not null" json:"type_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Type      EnvironmentType `gorm:"foreignKey:TypeID" json:"type"`
	Resources []*Resource     `gorm:"many2many:environment_resource_mapping;" json:"resources"`
}
