package tickets

import "sort"

// Serving order: priority tickets first, then by sequence number.
// Pure functions of the ticket set, independent of input iteration order,
// so "next" is always re-derivable after a crash without any stored pointer.

// Less reports whether a is served before b.
func Less(a, b Ticket) bool {
	if a.Priority != b.Priority {
		return a.Priority
	}
	return a.SequenceNumber < b.SequenceNumber
}

// SortWaiting returns a copy of the given tickets in serving order.
func SortWaiting(ts []Ticket) []Ticket {
	sorted := make([]Ticket, len(ts))
	copy(sorted, ts)
	sort.Slice(sorted, func(i, j int) bool {
		return Less(sorted[i], sorted[j])
	})
	return sorted
}

// Next returns the ticket to serve next, or nil if none are waiting.
func Next(ts []Ticket) *Ticket {
	var next *Ticket
	for i := range ts {
		if ts[i].Status != StatusWaiting {
			continue
		}
		if next == nil || Less(ts[i], *next) {
			next = &ts[i]
		}
	}
	return next
}
