package service

import (
	"math/rand"
	"slices"
	"testing"

	"product-catalog/internal/domain"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seqID returns an identifier that sorts by n
func seqID(n int) uuid.UUID {
	var id uuid.UUID
	id[14] = byte(n >> 8)
	id[15] = byte(n)
	return id
}

func groupedProduct(n int, baseCode string, active bool) *domain.Product {
	return &domain.Product{ID: seqID(n), BaseCode: baseCode, SKU: baseCode + "-" + string(rune('a'+n)), IsActive: active}
}

func variantIDs(g *ProductGroup) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(g.Variants))
	for _, v := range g.Variants {
		ids = append(ids, v.ID)
	}
	return ids
}

func TestGroupByBaseCode_ExcludesInactiveVariants(t *testing.T) {
	a := groupedProduct(1, "X", true)
	b := groupedProduct(2, "X", true)
	c := groupedProduct(3, "X", false)
	d := groupedProduct(4, "Y", true)

	groups := GroupByBaseCode([]*domain.Product{d, c, b, a})

	require.Len(t, groups, 2)
	assert.Equal(t, "X", groups[0].BaseCode)
	assert.Equal(t, []uuid.UUID{a.ID, b.ID}, variantIDs(groups[0]))
	assert.Equal(t, "Y", groups[1].BaseCode)
	assert.Equal(t, []uuid.UUID{d.ID}, variantIDs(groups[1]))
}

func TestGroupByBaseCode_InactiveMainRowIsSkipped(t *testing.T) {
	main := groupedProduct(1, "X", false)
	other := groupedProduct(2, "X", true)

	groups := GroupByBaseCode([]*domain.Product{other, main})

	require.Len(t, groups, 1)
	assert.Equal(t, []uuid.UUID{other.ID}, variantIDs(groups[0]))
}

func TestGroupByBaseCode_AllInactiveGroupIsKeptEmpty(t *testing.T) {
	groups := GroupByBaseCode([]*domain.Product{
		groupedProduct(1, "X", false),
		groupedProduct(2, "X", false),
		groupedProduct(3, "Y", true),
	})

	require.Len(t, groups, 2)
	assert.Equal(t, "X", groups[0].BaseCode)
	assert.NotNil(t, groups[0].Variants)
	assert.Empty(t, groups[0].Variants)
	assert.Equal(t, "Y", groups[1].BaseCode)
}

func TestGroupByBaseCode_GroupOrderFollowsMainRow(t *testing.T) {
	// Y's main row (2) comes before X's (3) even though X has a later member
	groups := GroupByBaseCode([]*domain.Product{
		groupedProduct(3, "X", true),
		groupedProduct(2, "Y", true),
		groupedProduct(5, "X", true),
		groupedProduct(4, "Y", true),
	})

	require.Len(t, groups, 2)
	assert.Equal(t, "Y", groups[0].BaseCode)
	assert.Equal(t, []uuid.UUID{seqID(2), seqID(4)}, variantIDs(groups[0]))
	assert.Equal(t, "X", groups[1].BaseCode)
	assert.Equal(t, []uuid.UUID{seqID(3), seqID(5)}, variantIDs(groups[1]))
}

func TestGroupByBaseCode_EmptyInput(t *testing.T) {
	groups := GroupByBaseCode(nil)

	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}

func TestGroupByBaseCode_DoesNotReorderInput(t *testing.T) {
	input := []*domain.Product{groupedProduct(2, "X", true), groupedProduct(1, "X", true)}

	GroupByBaseCode(input)

	assert.Equal(t, seqID(2), input[0].ID)
}

func TestGroupWithSiblings_ListsSiblingsOutsideSelection(t *testing.T) {
	a := groupedProduct(1, "X", true)
	b := groupedProduct(2, "X", true)
	c := groupedProduct(3, "X", false)
	d := groupedProduct(4, "Y", true)

	// only the inactive C matched; the group still lists A and B
	groups := GroupWithSiblings([]*domain.Product{c}, []*domain.Product{d, c, b, a})

	require.Len(t, groups, 1)
	assert.Equal(t, "X", groups[0].BaseCode)
	assert.Equal(t, []uuid.UUID{a.ID, b.ID}, variantIDs(groups[0]))
}

func TestGroupWithSiblings_MainRowComesFromSelection(t *testing.T) {
	a := groupedProduct(1, "X", true)
	b := groupedProduct(2, "X", true)
	c := groupedProduct(3, "X", true)
	d := groupedProduct(4, "Y", true)

	groups := GroupWithSiblings([]*domain.Product{d, b}, []*domain.Product{a, b, c, d})

	require.Len(t, groups, 2)
	assert.Equal(t, "X", groups[0].BaseCode)
	assert.Equal(t, []uuid.UUID{b.ID, a.ID, c.ID}, variantIDs(groups[0]))
	assert.Equal(t, []uuid.UUID{d.ID}, variantIDs(groups[1]))
}

func TestGroupWithSiblings_IgnoresUnselectedCodes(t *testing.T) {
	groups := GroupWithSiblings(
		[]*domain.Product{groupedProduct(2, "Y", true)},
		[]*domain.Product{groupedProduct(1, "X", true), groupedProduct(2, "Y", true)},
	)

	require.Len(t, groups, 1)
	assert.Equal(t, "Y", groups[0].BaseCode)
	assert.Equal(t, []uuid.UUID{seqID(2)}, variantIDs(groups[0]))
}

// productsFromSeeds turns generated bytes into products: the low two bits pick
// one of four base codes, the third bit marks the product active.
func productsFromSeeds(seeds []uint8) []*domain.Product {
	codes := []string{"A", "B", "C", "D"}
	products := make([]*domain.Product, 0, len(seeds))
	for i, s := range seeds {
		products = append(products, groupedProduct(i+1, codes[s&3], s&4 != 0))
	}
	return products
}

func TestProperty_GroupingPartitionsActiveProducts(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("every active product appears in exactly one group, under its own base code", prop.ForAll(
		func(seeds []uint8) bool {
			products := productsFromSeeds(seeds)
			groups := GroupByBaseCode(products)

			seen := make(map[uuid.UUID]int)
			for _, g := range groups {
				for _, v := range g.Variants {
					if v.BaseCode != g.BaseCode || !v.IsActive {
						t.Logf("FAIL: %s listed under %s (active=%v)", v.ID, g.BaseCode, v.IsActive)
						return false
					}
					seen[v.ID]++
				}
			}

			for _, p := range products {
				want := 0
				if p.IsActive {
					want = 1
				}
				if seen[p.ID] != want {
					t.Logf("FAIL: product %s listed %d times, want %d", p.ID, seen[p.ID], want)
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.UInt8()),
	))

	properties.Property("one group per distinct base code, ordered by main row", prop.ForAll(
		func(seeds []uint8) bool {
			products := productsFromSeeds(seeds)
			groups := GroupByBaseCode(products)

			mainRow := make(map[string]uuid.UUID)
			for _, p := range products {
				if id, ok := mainRow[p.BaseCode]; !ok || domain.CompareIDs(p.ID, id) < 0 {
					mainRow[p.BaseCode] = p.ID
				}
			}

			if len(groups) != len(mainRow) {
				t.Logf("FAIL: %d groups for %d base codes", len(groups), len(mainRow))
				return false
			}

			for i := 1; i < len(groups); i++ {
				if domain.CompareIDs(mainRow[groups[i-1].BaseCode], mainRow[groups[i].BaseCode]) >= 0 {
					t.Logf("FAIL: group %s emitted before %s", groups[i-1].BaseCode, groups[i].BaseCode)
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.UInt8()),
	))

	properties.Property("variants are in ascending id order", prop.ForAll(
		func(seeds []uint8) bool {
			for _, g := range GroupByBaseCode(productsFromSeeds(seeds)) {
				if !slices.IsSortedFunc(g.Variants, func(a, b *domain.Product) int {
					return domain.CompareIDs(a.ID, b.ID)
				}) {
					t.Logf("FAIL: variants of %s are out of order", g.BaseCode)
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.UInt8()),
	))

	properties.Property("grouping does not depend on input order", prop.ForAll(
		func(seeds []uint8, seed int64) bool {
			products := productsFromSeeds(seeds)
			shuffled := slices.Clone(products)
			rand.New(rand.NewSource(seed)).Shuffle(len(shuffled), func(i, j int) {
				shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
			})

			want := GroupByBaseCode(products)
			got := GroupByBaseCode(shuffled)
			if len(want) != len(got) {
				return false
			}
			for i := range want {
				if want[i].BaseCode != got[i].BaseCode || !slices.Equal(variantIDs(want[i]), variantIDs(got[i])) {
					t.Logf("FAIL: group %d differs after shuffling", i)
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.UInt8()),
		gen.Int64(),
	))

	properties.TestingRun(t)
}
