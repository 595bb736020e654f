// Package cart models shopping cart entries held either in an anonymous
// cookie or in the per-user key-value store.
package cart

import (
	"sort"

	"github.com/mall/backend/internal/domain/shared"
)

// ErrEntryNotFound is returned when a sku is not in the cart
var ErrEntryNotFound = shared.NewDomainError("CART_ENTRY_NOT_FOUND", "SKU is not in the cart")

// Entry is one cart line. Count is always at least 1; a zero count means absence.
type Entry struct {
	Count    int  `json:"count"`
	Selected bool `json:"selected"`
}

// Cart maps sku ids to their cart lines
type Cart map[int64]Entry

// New returns an empty cart
func New() Cart {
	return make(Cart)
}

// Set writes a line, dropping it when count is not positive
func (c Cart) Set(skuID int64, count int, selected bool) {
	if count <= 0 {
		delete(c, skuID)
		return
	}
	c[skuID] = Entry{Count: count, Selected: selected}
}

// Remove deletes a line; missing lines are ignored
func (c Cart) Remove(skuIDs ...int64) {
	for _, id := range skuIDs {
		delete(c, id)
	}
}

// SelectAll sets the selected flag on every line
func (c Cart) SelectAll(selected bool) {
	for id, e := range c {
		e.Selected = selected
		c[id] = e
	}
}

// IsEmpty reports whether the cart has no lines
func (c Cart) IsEmpty() bool {
	return len(c) == 0
}

// SKUIDs returns the sku ids in ascending order
func (c Cart) SKUIDs() []int64 {
	ids := make([]int64, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Partition splits the sku ids by their selected flag, both in ascending order
func (c Cart) Partition() (selected, deselected []int64) {
	for _, id := range c.SKUIDs() {
		if c[id].Selected {
			selected = append(selected, id)
		} else {
			deselected = append(deselected, id)
		}
	}
	return selected, deselected
}

// SelectedCounts returns the counts of selected lines only
func (c Cart) SelectedCounts() map[int64]int {
	out := make(map[int64]int)
	for id, e := range c {
		if e.Selected {
			out[id] = e.Count
		}
	}
	return out
}

// normalize drops lines that violate the count invariant
func (c Cart) normalize() Cart {
	for id, e := range c {
		if e.Count <= 0 || id <= 0 {
			delete(c, id)
		}
	}
	return c
}
