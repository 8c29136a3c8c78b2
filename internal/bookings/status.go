package bookings

import (
	"sort"
	"strings"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusFailed    Status = "FAILED"
	StatusCompleted Status = "COMPLETED"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusFailed, StatusCompleted:
		return true
	}
	return false
}

// confirmedEquivalents maps every upstream spelling of "payment went
// through" onto a single counting decision. Payment providers and older
// writers disagree on the exact status string, so the match is by
// canonical uppercase form.
var confirmedEquivalents = map[string]struct{}{
	"CONFIRMED":  {},
	"COMPLETED":  {},
	"SUCCESS":    {},
	"SUCCESSFUL": {},
	"SUCCEEDED":  {},
	"PAID":       {},
}

// IsConfirmedEquivalent reports whether this status counts toward
// analytics. Case-insensitive.
func (s Status) IsConfirmedEquivalent() bool {
	_, ok := confirmedEquivalents[strings.ToUpper(strings.TrimSpace(string(s)))]
	return ok
}

// ConfirmedEquivalentValues returns the canonical uppercase spellings,
// for SQL IN filters.
func ConfirmedEquivalentValues() []string {
	out := make([]string, 0, len(confirmedEquivalents))
	for s := range confirmedEquivalents {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// HoldsInventory reports whether a booking in this status has tickets
// reserved against it, meaning a cancellation must restock.
func (s Status) HoldsInventory() bool {
	if s == StatusPending {
		return true
	}
	return s.IsConfirmedEquivalent()
}
