package domain

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrNonPositivePrice is returned when a product is saved with price <= 0.
	ErrNonPositivePrice = errors.New("product price must be greater than zero")
)

// Product is a sellable SKU. Products sharing a BaseCode are variants of each other.
type Product struct {
	ID         uuid.UUID           `json:"id" db:"id"`
	BaseCode   string              `json:"base_code" db:"base_code"`
	SKU        string              `json:"sku" db:"sku"`
	Name       string              `json:"name" db:"name"`
	ImageURL   *string             `json:"image_url" db:"image_url"`
	Price      decimal.Decimal     `json:"price" db:"price"`
	Quantity   int                 `json:"quantity" db:"quantity"`
	IsActive   bool                `json:"is_active" db:"is_active"`
	CategoryID uuid.UUID           `json:"category_id" db:"category_id"`
	Category   *Category           `json:"category,omitempty" db:"-"`
	Attributes []*ProductAttribute `json:"product_attributes" db:"-"`
	Timestamps
}

func (p *Product) String() string {
	return fmt.Sprintf("%s (%s)", p.Name, p.SKU)
}

// PrepareForSave enforces the save-time consistency rule and must run before
// every write of a product. A non-positive price is rejected; a product without
// stock is forced inactive. IsActive is never forced to true.
func (p *Product) PrepareForSave() error {
	if p.Price.Sign() <= 0 {
		return ErrNonPositivePrice
	}
	if p.Quantity <= 0 {
		p.IsActive = false
	}
	return nil
}

// CompareIDs orders identifiers bytewise, the same order PostgreSQL applies
// to the uuid type. IDs are UUIDv7, so this is also creation order.
func CompareIDs(a, b uuid.UUID) int {
	return bytes.Compare(a[:], b[:])
}
