package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	FarmerRole = "farmer"
	AdminRole  = "admin"
)

type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
