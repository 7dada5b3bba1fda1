package schedule

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Base hour per suitable-time bucket: morning, noon, afternoon, evening.
var slotHours = [4]int{9, 13, 16, 19}

func slotIndexFor(suitable string, i int) int {
	switch suitable {
	case SuitableMorning:
		return 0
	case SuitableNoon:
		return 1
	case SuitableAfternoon:
		return 2
	case SuitableEvening:
		return 3
	default:
		// anytime cycles through the slot table
		return i % len(slotHours)
	}
}

// SimulateSchedule greedily places tasks into day/hour slots without the
// external service. It spreads tasks over at most 7 days (longer ranges
// wrap via modulo), honors preferred time-of-day buckets, and when
// AvoidConflict is set shifts a conflicting placement to the next slot
// exactly once. The single-shot shift means the result is not guaranteed
// conflict-free; that is the documented behavior, not a bug.
//
// The function is pure: same inputs produce the same placements.
func SimulateSchedule(tasks []TaskSnapshot, start, end time.Time, opts Options, commitments []Commitment) *SuggestionResult {
	days := rangeDays(start, end)

	ordered := make([]TaskSnapshot, len(tasks))
	copy(ordered, tasks)
	if opts.ConsiderPriority {
		// stable: equal priorities keep input order
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].Priority > ordered[j].Priority
		})
	}

	obstacles := make([]Interval, 0, len(commitments)+len(ordered))
	for _, c := range commitments {
		obstacles = append(obstacles, Interval{Start: c.Start, End: c.End})
	}

	suggestions := make([]Suggestion, 0, len(ordered))
	for i, t := range ordered {
		minutes := t.EstimatedMinutes
		if minutes <= 0 {
			minutes = 60
		}

		day := start.AddDate(0, 0, i%days)
		slot := slotIndexFor(t.SuitableTime, i)
		candidate := atHour(day, slotHours[slot])

		if opts.AvoidConflict && conflictsAny(obstacles, candidate, minutes) {
			// one shift to the next slot, wrapping; a second conflict is accepted
			slot = (slot + 1) % len(slotHours)
			candidate = atHour(day, slotHours[slot])
		}

		sug := Suggestion{
			TaskID:          t.ID,
			ScheduledTime:   candidate,
			DurationMinutes: minutes,
			Reason:          pickReason(i, t, opts),
			Color:           t.Color,
		}
		suggestions = append(suggestions, sug)

		// placed suggestions become obstacles for the remaining tasks
		obstacles = append(obstacles, Interval{
			Start: candidate,
			End:   candidate.Add(time.Duration(minutes) * time.Minute),
		})
	}

	stats := computeStatistics(suggestions)

	return &SuggestionResult{
		Suggestions: suggestions,
		Summary:     summaryFor(stats),
		Statistics:  stats,
		Mode:        ModeSimulation,
	}
}

// rangeDays clamps the spread to [1, 7] days. Tasks past day 7 wrap
// back to day 0 via modulo.
func rangeDays(start, end time.Time) int {
	d := int(math.Ceil(end.Sub(start).Hours() / 24))
	if d < 1 {
		d = 1
	}
	if d > 7 {
		d = 7
	}
	return d
}

func atHour(day time.Time, hour int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, day.Location())
}

func conflictsAny(obstacles []Interval, start time.Time, minutes int) bool {
	candidate := Interval{Start: start, End: start.Add(time.Duration(minutes) * time.Minute)}
	for _, o := range obstacles {
		if HasConflict(candidate, o) {
			return true
		}
	}
	return false
}

var genericReasons = []string{
	"Fits an open slot in your calendar",
	"Spread out to keep the week balanced",
	"Scheduled in the next free window",
	"Placed to leave room for existing plans",
}

// pickReason chooses a justification deterministically from the task's
// index and attributes. The exact text is not load-bearing, only its
// non-emptiness.
func pickReason(i int, t TaskSnapshot, opts Options) string {
	if opts.ConsiderPriority && t.Priority >= 3 {
		return "High priority, so it comes early in the range"
	}
	if t.SuitableTime != "" && t.SuitableTime != SuitableAnytime {
		return "Matches your preferred " + t.SuitableTime + " hours"
	}
	return genericReasons[i%len(genericReasons)]
}

func computeStatistics(suggestions []Suggestion) Statistics {
	totalMinutes := 0
	daysSeen := map[string]struct{}{}
	for _, s := range suggestions {
		totalMinutes += s.DurationMinutes
		daysSeen[s.ScheduledTime.Format("2006-01-02")] = struct{}{}
	}
	return Statistics{
		TotalTasks: len(suggestions),
		TotalHours: int(math.Round(float64(totalMinutes) / 60)),
		DaysUsed:   len(daysSeen),
	}
}

func summaryFor(stats Statistics) string {
	return fmt.Sprintf(
		"Planned %d task(s) over %d day(s), about %d hour(s) of work.",
		stats.TotalTasks, stats.DaysUsed, stats.TotalHours,
	)
}
