package service

import (
	"context"
	"testing"
	"time"

	"product-catalog/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tickingClock advances one second on every read.
func tickingClock(start time.Time) (func() time.Time, *int) {
	reads := 0
	return func() time.Time {
		reads++
		return start.Add(time.Duration(reads) * time.Second)
	}, &reads
}

func TestStamp_ReadsClockOnce(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	clock, reads := tickingClock(start)

	earlier := start.Add(-time.Hour)
	red := &domain.ProductAttribute{Value: "Red"}
	blue := &domain.ProductAttribute{Value: "Blue"}
	blue.CreatedTime = earlier

	stamp(clock, red, blue)

	assert.Equal(t, 1, *reads)
	assert.Equal(t, start.Add(time.Second), red.CreatedTime)
	assert.Equal(t, red.ModifiedTime, blue.ModifiedTime)
	assert.Equal(t, earlier, blue.CreatedTime)
}

func TestProductService_AttributeLinksShareWriteTime(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	svc := f.products.(*productService)
	svc.now, _ = tickingClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	product, err := svc.Create(ctx, f.input("SHIRT-RED-M",
		domain.AttributeValue{AttributeID: f.color.ID, Value: "Red"},
		domain.AttributeValue{AttributeID: f.size.ID, Value: "M"},
		domain.AttributeValue{AttributeID: f.material.ID, Value: "Cotton"},
	))
	require.NoError(t, err)
	require.Len(t, product.Attributes, 3)

	written := product.Attributes[0].ModifiedTime
	assert.False(t, written.IsZero())
	for _, link := range product.Attributes {
		assert.Equal(t, written, link.CreatedTime)
		assert.Equal(t, written, link.ModifiedTime)
	}
}
