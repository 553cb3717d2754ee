package vision

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// ParseResponse parses a vision model response in format: name | count | date
// One item per line.
func ParseResponse(raw string) []DetectedItem {
	items := make([]DetectedItem, 0)
	for _, line := range strings.Split(raw, "\n") {
		if item := ParseLine(line); item != nil {
			items = append(items, *item)
		}
	}
	return items
}

// ParseLine parses a single "name | count | date" line. Lines without a pipe
// are treated as model preamble and yield nil.
func ParseLine(line string) *DetectedItem {
	line = strings.TrimSpace(line)
	if line == "" || !strings.Contains(line, "|") {
		return nil
	}
	// Skip common headers or non-item lines
	if strings.HasPrefix(line, "Here") || strings.HasPrefix(line, "I see") || strings.HasPrefix(line, "Based on") {
		return nil
	}

	parts := strings.Split(line, "|")
	item := DetectedItem{Name: strings.Trim(strings.TrimSpace(parts[0]), "-*• ")}
	if len(parts) >= 2 {
		item.Quantity = strings.TrimSpace(parts[1])
	}
	if len(parts) >= 3 {
		item.Expiry = strings.TrimSpace(parts[2])
	}
	if item.Name == "" || strings.EqualFold(item.Name, "name") {
		return nil
	}
	return &item
}

// Count returns the leading whole number of the quantity text ("2 cartons"
// is 2). Missing or non-positive counts are 1.
func (d DetectedItem) Count() int {
	digits := strings.TrimSpace(d.Quantity)
	end := strings.IndexFunc(digits, func(r rune) bool { return !unicode.IsDigit(r) })
	if end >= 0 {
		digits = digits[:end]
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// ExpiryDate parses the date column. ok is false when the model left it
// empty or wrote something other than YYYY-MM-DD.
func (d DetectedItem) ExpiryDate() (time.Time, bool) {
	t, err := time.Parse("2006-01-02", d.Expiry)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
