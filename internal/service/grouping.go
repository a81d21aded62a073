package service

import (
	"slices"

	"product-catalog/internal/domain"
)

// ProductGroup is one base code and its active variants
type ProductGroup struct {
	BaseCode string            `json:"base_code"`
	Variants []*domain.Product `json:"variants"`
}

// GroupByBaseCode groups products sharing a base code. The member with the
// smallest ID is the group's main row and fixes the group's position: groups
// are returned in ascending order of their main row. Within a group the
// active members are listed in ascending ID order, main row first.
// A group whose members are all inactive is kept with no variants.
func GroupByBaseCode(products []*domain.Product) []*ProductGroup {
	return GroupWithSiblings(products, products)
}

// GroupWithSiblings picks one main row per base code from selected (its
// smallest ID) and lists the group as the main row followed by every other
// member of that base code in siblings, in ascending ID order. Only active
// rows are listed. Groups are ordered by their main row.
func GroupWithSiblings(selected, siblings []*domain.Product) []*ProductGroup {
	mains := make(map[string]*domain.Product)
	for _, p := range selected {
		if m, ok := mains[p.BaseCode]; !ok || domain.CompareIDs(p.ID, m.ID) < 0 {
			mains[p.BaseCode] = p
		}
	}

	ordered := make([]*domain.Product, 0, len(mains))
	for _, m := range mains {
		ordered = append(ordered, m)
	}
	slices.SortFunc(ordered, byID)

	members := slices.Clone(siblings)
	slices.SortFunc(members, byID)

	groups := make([]*ProductGroup, 0, len(ordered))
	byCode := make(map[string]*ProductGroup, len(ordered))
	for _, m := range ordered {
		group := &ProductGroup{BaseCode: m.BaseCode, Variants: []*domain.Product{}}
		if m.IsActive {
			group.Variants = append(group.Variants, m)
		}
		byCode[m.BaseCode] = group
		groups = append(groups, group)
	}

	for _, p := range members {
		group, ok := byCode[p.BaseCode]
		if !ok || !p.IsActive || p.ID == mains[p.BaseCode].ID {
			continue
		}
		group.Variants = append(group.Variants, p)
	}

	return groups
}

func byID(a, b *domain.Product) int {
	return domain.CompareIDs(a.ID, b.ID)
}
