package tickets

import (
	"math"
	"time"
)

const (
	// DefaultWaitMinutes is the cold-start estimate used until enough
	// completions exist to compute a real average.
	DefaultWaitMinutes = 15

	// EstimatorWindow bounds how many recent completions feed the estimate.
	EstimatorWindow = 10
)

// EstimateWaitMinutes computes the expected per-ticket wait in minutes from
// recently completed tickets, ordered most-recent-first by completion time.
//
// The figure is the mean gap between consecutive completions, not the time a
// ticket spent in progress. That matches the behavior displays have always
// shown; changing it to per-ticket handling time would silently shift every
// published estimate.
func EstimateWaitMinutes(completed []Ticket) (int, error) {
	samples := make([]time.Time, 0, len(completed))
	for i := range completed {
		if completed[i].CompletedAt != nil {
			samples = append(samples, *completed[i].CompletedAt)
		}
	}

	if len(samples) < 2 {
		return DefaultWaitMinutes, nil
	}

	var total time.Duration
	for i := 1; i < len(samples); i++ {
		delta := samples[i-1].Sub(samples[i])
		if delta < 0 {
			// The store handed us completions out of descending order.
			// Surface the corruption instead of clamping it away.
			return 0, ErrCompletionOrder
		}
		total += delta
	}

	mean := total / time.Duration(len(samples)-1)
	return int(math.Round(mean.Minutes())), nil
}
