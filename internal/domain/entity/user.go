package entity

import "time"

// Estados de cuenta.
const (
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
)

// User vendedor dueño de los datos; todas las tablas se filtran por su ID.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
