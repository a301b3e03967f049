package models

// Door defines a physical exit point based on the 'doors' table
type Door struct {
	ID          int64   `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Description *string `json:"description,omitempty" db:"description"`
	IsActive    bool    `json:"isActive" db:"is_active"`
}
