package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"reservas-backend/internal/model"
	"reservas-backend/internal/schedule"
)

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB

	// Users
	CreateUser(ctx context.Context, user *model.User) error
	UpdateUser(ctx context.Context, user *model.User) error
	DeleteUser(ctx context.Context, id int64) error
	GetUser(ctx context.Context, id int64) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)

	// Environment types
	CreateEnvironmentType(ctx context.Context, t *model.EnvironmentType) error
	UpdateEnvironmentType(ctx context.Context, t *model.EnvironmentType) error
	DeleteEnvironmentType(ctx context.Context, id int64) error
	ListEnvironmentTypes(ctx context.Context) ([]model.EnvironmentType, error)

	// Resources
	CreateResource(ctx context.Context, r *model.Resource) error
	UpdateResource(ctx context.Context, r *model.Resource) error
	DeleteResource(ctx context.Context, id int64) error
	ListResources(ctx context.Context) ([]model.Resource, error)

	// Environments
	CreateEnvironment(ctx context.Context, env *model.Environment, resourceIDs []int64) error
	UpdateEnvironment(ctx context.Context, env *model.Environment, resourceIDs []int64) error
	DeleteEnvironment(ctx context.Context, id int64) error
	GetEnvironment(ctx context.Context, id int64) (model.Environment, error)
	ListEnvironments(ctx context.Context) ([]model.Environment, error)

	// Reservations
	ListReservations(ctx context.Context, filter ReservationFilter) ([]model.Reservation, error)
	ListBookings(ctx context.Context, environmentID int64) ([]schedule.Booking, error)
	GetReservation(ctx context.Context, id int64) (model.Reservation, error)
	CreateReservation(ctx context.Context, reservation *model.Reservation) error
	CreateReservations(ctx context.Context, reservations []*model.Reservation) error
	DeleteReservation(ctx context.Context, id int64) error

	// Backup
	ExportBackup(ctx context.Context) (*Backup, error)
	RestoreBackup(ctx context.Context, backup *Backup) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// DB exposes the underlying connection for read-only handler queries.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// --- Users ---

func (s *gormStore) CreateUser(ctx context.Context, user *model.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return translateError(err, "user", "email")
	}
	return nil
}

func (s *gormStore) UpdateUser(ctx context.Context, user *model.User) error {
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return translateError(err, "user", "email")
	}
	return nil
}

func (s *gormStore) DeleteUser(ctx context.Context, id int64) error {
	var reservations int64
	if err := s.db.WithContext(ctx).Model(&model.Reservation{}).
		Where("user_id = ?", id).Count(&reservations).Error; err != nil {
		return fmt.Errorf("failed to count reservations for user %d: %w", id, err)
	}
	if reservations > 0 {
		return ErrInUse
	}
	result := s.db.WithContext(ctx).Delete(&model.User{}, id)
	if result.Error != nil {
		return translateError(result.Error, "user", "email")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) GetUser(ctx context.Context, id int64) (model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return model.User{}, translateError(err, "user", "email")
	}
	return user, nil
}

func (s *gormStore) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return model.User{}, translateError(err, "user", "email")
	}
	return user, nil
}

func (s *gormStore) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := s.db.WithContext(ctx).Order("name").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// --- Environment types ---

func (s *gormStore) CreateEnvironmentType(ctx context.Context, t *model.EnvironmentType) error {
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return translateError(err, "environment type", "name")
	}
	return nil
}

func (s *gormStore) UpdateEnvironmentType(ctx context.Context, t *model.EnvironmentType) error {
	if err := s.db.WithContext(ctx).Save(t).Error; err != nil {
		return translateError(err, "environment type", "name")
	}
	return nil
}

func (s *gormStore) DeleteEnvironmentType(ctx context.Context, id int64) error {
	var environments int64
	if err := s.db.WithContext(ctx).Model(&model.Environment{}).
		Where("type_id = ?", id).Count(&environments).Error; err != nil {
		return fmt.Errorf("failed to count environments for type %d: %w", id, err)
	}
	if environments > 0 {
		return ErrInUse
	}
	result := s.db.WithContext(ctx).Delete(&model.EnvironmentType{}, id)
	if result.Error != nil {
		return translateError(result.Error, "environment type", "name")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) ListEnvironmentTypes(ctx context.Context) ([]model.EnvironmentType, error) {
	var types []model.EnvironmentType
	if err := s.db.WithContext(ctx).Order("name").Find(&types).Error; err != nil {
		return nil, fmt.Errorf("failed to list environment types: %w", err)
	}
	return types, nil
}

// --- Resources ---

func (s *gormStore) CreateResource(ctx context.Context, r *model.Resource) error {
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return translateError(err, "resource", "name")
	}
	return nil
}

func (s *gormStore) UpdateResource(ctx context.Context, r *model.Resource) error {
	if err := s.db.WithContext(ctx).Save(r).Error; err != nil {
		return translateError(err, "resource", "name")
	}
	return nil
}

func (s *gormStore) DeleteResource(ctx context.Context, id int64) error {
	var links int64
	if err := s.db.WithContext(ctx).Table("environment_resource_mapping").
		Where("resource_id = ?", id).Count(&links).Error; err != nil {
		return fmt.Errorf("failed to count environment links for resource %d: %w", id, err)
	}
	if links > 0 {
		return ErrInUse
	}
	result := s.db.WithContext(ctx).Delete(&model.Resource{}, id)
	if result.Error != nil {
		return translateError(result.Error, "resource", "name")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) ListResources(ctx context.Context) ([]model.Resource, error) {
	var resources []model.Resource
	if err := s.db.WithContext(ctx).Order("name").Find(&resources).Error; err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	return resources, nil
}

// --- Environments ---

func (s *gormStore) CreateEnvironment(ctx context.Context, env *model.Environment, resourceIDs []int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Resources", "Type").Create(env).Error; err != nil {
			return err
		}
		return replaceResources(tx, env, resourceIDs)
	})
	return translateError(err, "environment", "name")
}

// UpdateEnvironment saves the environment and replaces its resource links
// wholesale. The junction rows are not diffed.
func (s *gormStore) UpdateEnvironment(ctx context.Context, env *model.Environment, resourceIDs []int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Resources", "Type").Save(env).Error; err != nil {
			return err
		}
		return replaceResources(tx, env, resourceIDs)
	})
	return translateError(err, "environment", "name")
}

func replaceResources(tx *gorm.DB, env *model.Environment, resourceIDs []int64) error {
	var resources []*model.Resource
	if len(resourceIDs) > 0 {
		if err := tx.Find(&resources, resourceIDs).Error; err != nil {
			return err
		}
		if len(resources) != len(resourceIDs) {
			return ErrNotFound
		}
	}
	return tx.Model(env).Association("Resources").Replace(resources)
}

func (s *gormStore) DeleteEnvironment(ctx context.Context, id int64) error {
	var reservations int64
	if err := s.db.WithContext(ctx).Model(&model.Reservation{}).
		Where("environment_id = ?", id).Count(&reservations).Error; err != nil {
		return fmt.Errorf("failed to count reservations for environment %d: %w", id, err)
	}
	if reservations > 0 {
		return ErrInUse
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		env := model.Environment{ID: id}
		if err := tx.Model(&env).Association("Resources").Clear(); err != nil {
			return err
		}
		result := tx.Delete(&model.Environment{}, id)
		if result.Error != nil {
			return translateError(result.Error, "environment", "name")
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *gormStore) GetEnvironment(ctx context.Context, id int64) (model.Environment, error) {
	var env model.Environment
	err := s.db.WithContext(ctx).Preload("Type").Preload("Resources").First(&env, id).Error
	if err != nil {
		return model.Environment{}, translateError(err, "environment", "name")
	}
	return env, nil
}

func (s *gormStore) ListEnvironments(ctx context.Context) ([]model.Environment, error) {
	var environments []model.Environment
	err := s.db.WithContext(ctx).Preload("Type").Preload("Resources").
		Order("name").Find(&environments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list environments: %w", err)
	}
	return environments, nil
}
