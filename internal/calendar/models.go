package calendar

import "time"

// Event is one scheduled calendar entry. EndTime may be nil for
// open-ended entries; conflict logic assumes a 1-hour duration then.
type Event struct {
	ID        int        `json:"id"`
	TaskID    *int       `json:"task_id,omitempty"`
	Title     string     `json:"title"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Color     string     `json:"color"`
	Completed bool       `json:"completed"`
	CreatedAt time.Time  `json:"created_at"`
}
