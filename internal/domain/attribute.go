package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Attribute is a named product characteristic such as Color or Size.
// Attributes flagged IsVariant distinguish the SKUs that share a base code.
type Attribute struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	IsVisible bool      `json:"is_visible" db:"is_visible"`
	IsVariant bool      `json:"is_variant" db:"is_variant"`
	Timestamps
}

func (a Attribute) String() string {
	kind := "Attribute"
	if a.IsVariant {
		kind = "Variant"
	}
	return fmt.Sprintf("%s (%s)", a.Name, kind)
}

// ProductAttribute links a product to an attribute with a concrete value.
type ProductAttribute struct {
	ID          uuid.UUID `json:"id" db:"id"`
	ProductID   uuid.UUID `json:"product_id" db:"product_id"`
	AttributeID uuid.UUID `json:"attribute_id" db:"attribute_id"`
	Value       string    `json:"value" db:"value"`
	Attribute   Attribute `json:"attribute" db:"attribute"`
	Timestamps
}

// AttributeValue is one (attribute, value) pair supplied with a product write.
type AttributeValue struct {
	AttributeID uuid.UUID
	Value       string
}
