package model

import "time"

// PushSubscription holds the information for a browser push subscription.
// A subscription watches zero or more environments for booking activity.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`

	// Associations
	Environments []*Environment `gorm:"many2many:subscription_environment_mapping;"`
}
