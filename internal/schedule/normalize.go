package schedule

import (
	"strings"
	"time"
)

const defaultReason = "Suggested placement based on availability"

// Normalize enforces the response contract on whichever source produced
// the result. It drops suggestions for unknown tasks or outside the
// date range (the external service can hallucinate both; the simulated
// scheduler guarantees neither happens by construction), fills defaults
// for optional fields, and computes summary and statistics when the
// source left them empty. The end date is inclusive at day granularity.
func Normalize(res *SuggestionResult, tasks []TaskSnapshot, start, end time.Time, mode Mode) *SuggestionResult {
	byID := make(map[int]TaskSnapshot, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	windowEnd := endOfDay(end)

	out := make([]Suggestion, 0, len(res.Suggestions))
	for _, s := range res.Suggestions {
		t, known := byID[s.TaskID]
		if !known {
			continue
		}
		if s.ScheduledTime.IsZero() || s.ScheduledTime.Before(start) || !s.ScheduledTime.Before(windowEnd) {
			continue
		}

		if s.DurationMinutes <= 0 {
			s.DurationMinutes = t.EstimatedMinutes
		}
		if s.DurationMinutes <= 0 {
			s.DurationMinutes = 60
		}
		if strings.TrimSpace(s.Reason) == "" {
			s.Reason = defaultReason
		}
		if s.Color == "" {
			s.Color = t.Color
		}
		if s.Color == "" {
			s.Color = DefaultTaskColor
		}

		out = append(out, s)
	}
	res.Suggestions = out

	if res.Statistics == (Statistics{}) {
		res.Statistics = computeStatistics(out)
	}
	if strings.TrimSpace(res.Summary) == "" {
		res.Summary = summaryFor(res.Statistics)
	}
	res.Mode = mode

	return res
}
