package model

import "time"

// Role values accepted for a user account.
const (
	RoleAdmin       = "admin"
	RoleProfessor   = "professor"
	RoleCoordenador = "coordenador"
	RoleAluno       = "aluno"
)

// ValidRole reports whether role is one of the recognized account roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleProfessor, RoleCoordenador, RoleAluno:
		return true
	}
	return false
}

// ManagerRole reports whether role may cancel reservations owned by others.
func ManagerRole(role string) bool {
	return role == RoleAdmin || role == RoleProfessor || role == RoleCoordenador
}

// User is a portal account.
type User struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:256;not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;size:256;not null" json:"email"`
	PasswordHash string    `gorm:"size:128;not null" json:"-"`
	Role         string    `gorm:"size:32;not null;default:aluno" json:"role"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}
