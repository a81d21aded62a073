package seed

import (
	"context"
	"testing"

	"product-catalog/internal/repository"
	"product-catalog/internal/repository/memory"
	"product-catalog/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDemo_SeedsGroupedCatalog(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	result, err := Demo(ctx, store.Repositories(), store, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, Result{Categories: 2, Attributes: 3, Products: 4}, result)

	groups, err := service.NewProductService(store.Repositories(), store).List(ctx, repository.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, groups, 2)

	// the out-of-stock blue shirt is stored inactive and left out of its group
	assert.Equal(t, "SHIRT-OXF", groups[0].BaseCode)
	require.Len(t, groups[0].Variants, 2)
	assert.Equal(t, "SHIRT-OXF-WHT-M", groups[0].Variants[0].SKU)
	assert.Len(t, groups[0].Variants[0].Attributes, 3)
	assert.Equal(t, "MUG-CLS", groups[1].BaseCode)
}

func TestDemo_SecondRunFailsOnDuplicates(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	_, err := Demo(ctx, store.Repositories(), store, zap.NewNop())
	require.NoError(t, err)

	_, err = Demo(ctx, store.Repositories(), store, zap.NewNop())
	assert.ErrorIs(t, err, repository.ErrAlreadyExists)
}
