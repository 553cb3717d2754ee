package inventory

import (
	"slices"
	"strings"
	"time"

	"github.com/vbonduro/pantrypal/internal/domain"
)

type SortOption string

const (
	SortExpiryAsc  SortOption = "expiry_asc"
	SortExpiryDesc SortOption = "expiry_desc"
	SortName       SortOption = "name"
)

// Filter is the inventory screen's search, zone, window and sort selection.
type Filter struct {
	Query  string
	ZoneID *int64
	Window Window
	Sort   SortOption
}

// ApplyFilters returns a new slice holding the items matching f, stably
// sorted. The input slice is not modified.
func ApplyFilters(items []*domain.Item, f Filter, today time.Time) []*domain.Item {
	query := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]*domain.Item, 0, len(items))
	for _, item := range items {
		if query != "" && !strings.Contains(strings.ToLower(item.Name), query) {
			continue
		}
		if f.ZoneID != nil && (item.ZoneID == nil || *item.ZoneID != *f.ZoneID) {
			continue
		}
		if !InWindow(item.ExpiryDate, f.Window, today) {
			continue
		}
		out = append(out, item)
	}

	switch f.Sort {
	case SortName:
		slices.SortStableFunc(out, func(a, b *domain.Item) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		})
	case SortExpiryDesc:
		slices.SortStableFunc(out, func(a, b *domain.Item) int {
			return compareExpiry(b.ExpiryDate, a.ExpiryDate)
		})
	default:
		slices.SortStableFunc(out, func(a, b *domain.Item) int {
			return compareExpiry(a.ExpiryDate, b.ExpiryDate)
		})
	}
	return out
}

// compareExpiry orders a missing date before any date.
func compareExpiry(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return a.Compare(*b)
}
