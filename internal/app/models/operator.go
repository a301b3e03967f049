package models

import "time"

// RoleType defines the operator role type
type RoleType string

const (
	RoleAdmin   RoleType = "ADMIN"
	RoleGate    RoleType = "GATE"
	RoleCanteen RoleType = "CANTEEN"
)

// Operator defines the operator model based on the 'operators' table
type Operator struct {
	ID        int64     `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	FullName  string    `json:"fullName" db:"full_name"`
	Password  string    `json:"-" db:"password"` // bcrypt hash, excluded from JSON
	Role      RoleType  `json:"role" db:"role"`
	IsActive  bool      `json:"isActive" db:"is_active"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
