package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"reservas-backend/internal/model"
)

// Backup is the raw dump of the five entity collections plus the
// environment/resource junction rows. Restore wipes everything and reinserts
// in dependency order.
type Backup struct {
	EnvironmentTypes     []model.EnvironmentType   `json:"environment_types"`
	Resources            []model.Resource          `json:"resources"`
	Users                []backupUser              `json:"users"`
	Environments         []backupEnvironment       `json:"environments"`
	EnvironmentResources []backupEnvironmentLink   `json:"environment_resources"`
	Reservations         []backupReservation       `json:"reservations"`
}

// backupUser carries the password hash, which the API-facing model hides.
type backupUser struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

type backupEnvironment struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	TypeID   int64  `json:"type_id"`
}

type backupEnvironmentLink struct {
	EnvironmentID int64 `json:"environment_id" gorm:"column:environment_id"`
	ResourceID    int64 `json:"resource_id" gorm:"column:resource_id"`
}

type backupReservation struct {
	ID            int64      `json:"id"`
	EnvironmentID int64      `json:"environment_id"`
	UserID        int64      `json:"user_id"`
	StartTime     time.Time  `json:"start_time"`
	EndTime       time.Time  `json:"end_time"`
	Status        string     `json:"status"`
	SeriesID      *uuid.UUID `json:"series_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ExportBackup dumps every collection as-is.
func (s *gormStore) ExportBackup(ctx context.Context) (*Backup, error) {
	db := s.db.WithContext(ctx)
	backup := &Backup{}

	if err := db.Order("id").Find(&backup.EnvironmentTypes).Error; err != nil {
		return nil, fmt.Errorf("failed to export environment types: %w", err)
	}
	if err := db.Order("id").Find(&backup.Resources).Error; err != nil {
		return nil, fmt.Errorf("failed to export resources: %w", err)
	}

	var users []model.User
	if err := db.Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to export users: %w", err)
	}
	for _, u := range users {
		backup.Users = append(backup.Users, backupUser{
			ID: u.ID, Name: u.Name, Email: u.Email,
			PasswordHash: u.PasswordHash, Role: u.Role, CreatedAt: u.CreatedAt,
		})
	}

	var environments []model.Environment
	if err := db.Order("id").Find(&environments).Error; err != nil {
		return nil, fmt.Errorf("failed to export environments: %w", err)
	}
	for _, e := range environments {
		backup.Environments = append(backup.Environments, backupEnvironment{
			ID: e.ID, Name: e.Name, Location: e.Location, TypeID: e.TypeID,
		})
	}

	if err := db.Table("environment_resource_mapping").
		Order("environment_id, resource_id").
		Find(&backup.EnvironmentResources).Error; err != nil {
		return nil, fmt.Errorf("failed to export environment resource links: %w", err)
	}

	var reservations []model.Reservation
	if err := db.Order("id").Find(&reservations).Error; err != nil {
		return nil, fmt.Errorf("failed to export reservations: %w", err)
	}
	for _, r := range reservations {
		backup.Reservations = append(backup.Reservations, backupReservation{
			ID: r.ID, EnvironmentID: r.EnvironmentID, UserID: r.UserID,
			StartTime: r.StartTime, EndTime: r.EndTime, Status: r.Status,
			SeriesID: r.SeriesID, CreatedAt: r.CreatedAt,
		})
	}

	return backup, nil
}

// RestoreBackup wipes the database and reinserts the dump in dependency
// order: types, resources and users first, then environments, then junction
// rows, then reservations.
func (s *gormStore) RestoreBackup(ctx context.Context, backup *Backup) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		wipeOrder := []string{
			"reservations",
			"environment_resource_mapping",
			"environments",
			"users",
			"resources",
			"environment_types",
		}
		for _, table := range wipeOrder {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("failed to wipe %s: %w", table, err)
			}
		}

		if len(backup.EnvironmentTypes) > 0 {
			if err := tx.Create(&backup.EnvironmentTypes).Error; err != nil {
				return fmt.Errorf("failed to restore environment types: %w", err)
			}
		}
		if len(backup.Resources) > 0 {
			if err := tx.Create(&backup.Resources).Error; err != nil {
				return fmt.Errorf("failed to restore resources: %w", err)
			}
		}
		for _, u := range backup.Users {
			user := model.User{
				ID: u.ID, Name: u.Name, Email: u.Email,
				PasswordHash: u.PasswordHash, Role: u.Role, CreatedAt: u.CreatedAt,
			}
			if err := tx.Create(&user).Error; err != nil {
				return fmt.Errorf("failed to restore user %d: %w", u.ID, err)
			}
		}
		for _, e := range backup.Environments {
			env := model.Environment{ID: e.ID, Name: e.Name, Location: e.Location, TypeID: e.TypeID}
			if err := tx.Omit("Resources", "Type").Create(&env).Error; err != nil {
				return fmt.Errorf("failed to restore environment %d: %w", e.ID, err)
			}
		}
		for _, link := range backup.EnvironmentResources {
			if err := tx.Exec(
				"INSERT INTO environment_resource_mapping (environment_id, resource_id) VALUES (?, ?)",
				link.EnvironmentID, link.ResourceID,
			).Error; err != nil {
				return fmt.Errorf("failed to restore environment resource link: %w", err)
			}
		}
		for _, r := range backup.Reservations {
			reservation := model.Reservation{
				ID: r.ID, EnvironmentID: r.EnvironmentID, UserID: r.UserID,
				StartTime: r.StartTime, EndTime: r.EndTime, Status: r.Status,
				SeriesID: r.SeriesID, CreatedAt: r.CreatedAt,
			}
			if err := tx.Omit("User", "Environment").Create(&reservation).Error; err != nil {
				return fmt.Errorf("failed to restore reservation %d: %w", r.ID, err)
			}
		}
		return nil
	})
}
