package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProduct(price string, quantity int, active bool) *Product {
	return &Product{
		ID:       uuid.Must(uuid.NewV7()),
		BaseCode: "TP001",
		SKU:      "TEST123",
		Name:     "Test Product",
		Price:    decimal.RequireFromString(price),
		Quantity: quantity,
		IsActive: active,
	}
}

func TestProperty_NonPositivePriceIsRejected(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("saving with price <= 0 always fails", prop.ForAll(
		func(cents int64, quantity int, active bool) bool {
			p := newProduct("1", quantity, active)
			p.Price = decimal.New(cents, -2)

			err := p.PrepareForSave()
			if err != ErrNonPositivePrice {
				t.Logf("FAIL: expected ErrNonPositivePrice for price %s, got %v", p.Price, err)
				return false
			}

			// the product is left untouched
			return p.IsActive == active
		},
		gen.Int64Range(-1000000, 0),
		gen.IntRange(-10, 1000),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_ZeroQuantityForcesInactive(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("saving with quantity <= 0 always yields an inactive product", prop.ForAll(
		func(cents int64, quantity int, active bool) bool {
			p := newProduct("1", quantity, active)
			p.Price = decimal.New(cents, -2)

			if err := p.PrepareForSave(); err != nil {
				t.Logf("FAIL: unexpected error: %v", err)
				return false
			}

			return !p.IsActive
		},
		gen.Int64Range(1, 1000000),
		gen.IntRange(-1000, 0),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_PositiveQuantityKeepsActiveFlag(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("saving with quantity > 0 never changes is_active", prop.ForAll(
		func(cents int64, quantity int, active bool) bool {
			p := newProduct("1", quantity, active)
			p.Price = decimal.New(cents, -2)

			if err := p.PrepareForSave(); err != nil {
				t.Logf("FAIL: unexpected error: %v", err)
				return false
			}

			return p.IsActive == active
		},
		gen.Int64Range(1, 1000000),
		gen.IntRange(1, 1000),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestPrepareForSave_NegativePrice(t *testing.T) {
	p := newProduct("-5.00", 5, true)

	err := p.PrepareForSave()

	require.ErrorIs(t, err, ErrNonPositivePrice)
	assert.Contains(t, err.Error(), "greater than zero")
}

func TestPrepareForSave_NewProductWithZeroStock(t *testing.T) {
	p := newProduct("20.00", 0, true)

	require.NoError(t, p.PrepareForSave())
	assert.False(t, p.IsActive)
}

func TestTimestamps_Touch(t *testing.T) {
	var ts Timestamps
	first := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	later := first.Add(time.Hour)

	ts.Touch(first)
	assert.Equal(t, first, ts.CreatedTime)
	assert.Equal(t, first, ts.ModifiedTime)

	ts.Touch(later)
	assert.Equal(t, first, ts.CreatedTime, "creation time is set once")
	assert.Equal(t, later, ts.ModifiedTime)
}

func TestCompareIDs(t *testing.T) {
	a := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	b := uuid.MustParse("00000000-0000-0000-0000-000000000002")

	assert.Negative(t, CompareIDs(a, b))
	assert.Positive(t, CompareIDs(b, a))
	assert.Zero(t, CompareIDs(a, a))
}

func TestCompareIDs_FollowsCreationOrder(t *testing.T) {
	first := uuid.Must(uuid.NewV7())
	second := uuid.Must(uuid.NewV7())

	assert.Negative(t, CompareIDs(first, second))
}

func TestAttributeString(t *testing.T) {
	assert.Equal(t, "Color (Variant)", Attribute{Name: "Color", IsVariant: true}.String())
	assert.Equal(t, "Material (Attribute)", Attribute{Name: "Material"}.String())
}
