package domain

import "github.com/google/uuid"

// Category groups products
type Category struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	Timestamps
}
