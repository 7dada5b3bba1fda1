package schedule

import (
	"context"
	"errors"
	"time"
)

// Mode records which path produced a result.
type Mode string

const (
	ModeGemini             Mode = "gemini_equivalent"
	ModeSimulation         Mode = "simulation"
	ModeSimulationFallback Mode = "simulation_fallback"
	ModeError              Mode = "error"
)

// Suitable time-of-day buckets.
const (
	SuitableMorning   = "morning"
	SuitableNoon      = "noon"
	SuitableAfternoon = "afternoon"
	SuitableEvening   = "evening"
	SuitableAnytime   = "anytime"
)

const DefaultTaskColor = "#8b5cf6"

// TaskSnapshot is a read-only view of a task at scheduling time.
// Loaders apply defaults before handing snapshots over, so fields
// here are always usable.
type TaskSnapshot struct {
	ID               int    `json:"id"`
	Title            string `json:"title"`
	EstimatedMinutes int    `json:"estimated_minutes"`
	Priority         int    `json:"priority"`   // 1..4, 4 highest
	Complexity       int    `json:"complexity"` // 1..5, carried through only
	SuitableTime     string `json:"suitable_time"`
	Color            string `json:"color"`
}

// Commitment is an already-scheduled calendar interval to avoid.
type Commitment struct {
	Title string
	Start time.Time
	End   time.Time // zero means unknown; conflict logic assumes Start+1h
}

// Interval is a half-open [Start, End) time span.
type Interval struct {
	Start time.Time
	End   time.Time
}

func (iv Interval) end() time.Time {
	if iv.End.IsZero() {
		return iv.Start.Add(time.Hour)
	}
	return iv.End
}

// HasConflict reports strict overlap of two half-open intervals.
// Touching endpoints do not conflict. The same predicate backs both
// the live calendar's move handler and the simulated scheduler.
func HasConflict(a, b Interval) bool {
	return a.Start.Before(b.end()) && b.Start.Before(a.end())
}

// Suggestion is one proposed placement.
type Suggestion struct {
	TaskID          int       `json:"taskId"`
	ScheduledTime   time.Time `json:"scheduledTime"`
	DurationMinutes int       `json:"durationMinutes"`
	Reason          string    `json:"reason"`
	Color           string    `json:"color"`
}

type Statistics struct {
	TotalTasks int `json:"totalTasks"`
	TotalHours int `json:"totalHours"`
	DaysUsed   int `json:"daysUsed"`
}

// SuggestionResult is the normalized response contract.
type SuggestionResult struct {
	Suggestions []Suggestion `json:"suggestions"`
	Summary     string       `json:"summary"`
	Statistics  Statistics   `json:"statistics"`
	Mode        Mode         `json:"mode"`
}

// Options are honored by both the prompt and the simulated scheduler.
type Options struct {
	AvoidConflict    bool `json:"avoidConflict"`
	ConsiderPriority bool `json:"considerPriority"`
	BalanceWorkload  bool `json:"balanceWorkload"`
}

// TaskLoader fetches snapshots of the selected pending tasks.
// Completed tasks are excluded.
type TaskLoader interface {
	LoadSnapshots(ctx context.Context, userID int, taskIDs []int) ([]TaskSnapshot, error)
}

// CommitmentLoader fetches the user's scheduled intervals in a range.
type CommitmentLoader interface {
	LoadCommitments(ctx context.Context, userID int, from, to time.Time) ([]Commitment, error)
}

// Suggester is the external completion-backed suggestion source.
type Suggester interface {
	Suggest(ctx context.Context, prompt string) (*SuggestionResult, error)
}

var (
	ErrNoTasks          = errors.New("tasks required")
	ErrInvalidDateRange = errors.New("invalid date range")
	ErrNoMatchingTasks  = errors.New("no matching tasks")
)

// endOfDay returns the first instant after t's calendar date. Date
// ranges are inclusive at day granularity, so this is the exclusive
// upper bound for "within [start, end]" checks.
func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).AddDate(0, 0, 1)
}
