// Package inventory holds the pure logic behind the inventory and dashboard
// views: expiry arithmetic, bucketing, filtering and sorting of items that
// have already been loaded from a store.
package inventory

import (
	"time"

	"github.com/vbonduro/pantrypal/internal/domain"
)

// SoonDays is the inclusive horizon of the "expiring soon" bucket.
const SoonDays = 3

type Urgency string

const (
	UrgencyExpired Urgency = "expired"
	UrgencySoon    Urgency = "soon"
	UrgencyFresh   Urgency = "fresh"
	UrgencyUnknown Urgency = "unknown"
)

// Today returns the civil date of now, in now's location, as midnight UTC so
// it compares directly with stored expiry dates.
func Today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysRemaining returns whole days from today until expiry. ok is false when
// the item has no expiry date.
func DaysRemaining(expiry *time.Time, today time.Time) (days int, ok bool) {
	if expiry == nil {
		return 0, false
	}
	const secondsPerDay = 24 * 60 * 60
	// Unix seconds rather than Sub: a Duration saturates near 292 years.
	e := Today(*expiry)
	return int((e.Unix() - today.Unix()) / secondsPerDay), true
}

// UrgencyOf classifies an item: expired before today, soon under three days
// out, fresh otherwise.
func UrgencyOf(expiry *time.Time, today time.Time) Urgency {
	days, ok := DaysRemaining(expiry, today)
	switch {
	case !ok:
		return UrgencyUnknown
	case days < 0:
		return UrgencyExpired
	case days < SoonDays:
		return UrgencySoon
	default:
		return UrgencyFresh
	}
}

// Summary is the dashboard's view of a user's inventory.
type Summary struct {
	ExpiringToday int
	ExpiringSoon  int
	TotalItems    int
}

// Summarize counts items expiring today and within [today, today+SoonDays].
func Summarize(items []*domain.Item, today time.Time) Summary {
	s := Summary{TotalItems: len(items)}
	for _, item := range items {
		if InWindow(item.ExpiryDate, WindowToday, today) {
			s.ExpiringToday++
		}
		if InWindow(item.ExpiryDate, WindowSoon, today) {
			s.ExpiringSoon++
		}
	}
	return s
}

type Window string

const (
	WindowAll     Window = ""
	WindowToday   Window = "today"
	WindowSoon    Window = "soon"
	WindowExpired Window = "expired"
)

// InWindow reports whether an expiry date falls in w. Items without an
// expiry date only match WindowAll.
func InWindow(expiry *time.Time, w Window, today time.Time) bool {
	if w == WindowAll {
		return true
	}
	days, ok := DaysRemaining(expiry, today)
	if !ok {
		return false
	}
	switch w {
	case WindowToday:
		return days == 0
	case WindowSoon:
		return days >= 0 && days <= SoonDays
	case WindowExpired:
		return days < 0
	}
	return false
}
