package schedule

import (
	"fmt"
	"strings"
	"time"
)

// BuildPrompt renders tasks, commitments and options into the
// instruction sent to the completion service. Pure and deterministic:
// same inputs produce the same string.
func BuildPrompt(tasks []TaskSnapshot, start, end time.Time, opts Options, commitments []Commitment) string {
	var b strings.Builder

	b.WriteString("You are a scheduling assistant. Place the tasks below into concrete time slots.\n\n")

	fmt.Fprintf(&b, "Date range: %s to %s (inclusive)\n\n",
		start.Format("2006-01-02"), end.Format("2006-01-02"))

	b.WriteString("Tasks:\n")
	for _, t := range tasks {
		fmt.Fprintf(&b, "- id=%d %q duration=%dmin priority=%d/4 complexity=%d/5 preferred_time=%s\n",
			t.ID, t.Title, t.EstimatedMinutes, t.Priority, t.Complexity, t.SuitableTime)
	}
	b.WriteString("\n")

	if len(commitments) > 0 {
		b.WriteString("Existing commitments (do not overlap these):\n")
		for _, c := range commitments {
			end := c.End
			if end.IsZero() {
				end = c.Start.Add(time.Hour)
			}
			fmt.Fprintf(&b, "- %q from %s to %s\n",
				c.Title, c.Start.Format(time.RFC3339), end.Format(time.RFC3339))
		}
		b.WriteString("\n")
	}

	b.WriteString("Rules:\n")
	if opts.ConsiderPriority {
		b.WriteString("- Schedule higher priority tasks earlier in the range.\n")
	}
	if opts.AvoidConflict {
		b.WriteString("- Avoid any overlap with the existing commitments.\n")
	}
	if opts.BalanceWorkload {
		b.WriteString("- Balance the workload evenly across the days.\n")
	}
	b.WriteString("- Respect each task's preferred time of day when possible.\n")
	b.WriteString("- Every scheduledTime must fall inside the date range.\n\n")

	b.WriteString("Reply with ONLY a JSON object of this exact shape:\n")
	b.WriteString(`{
  "suggestions": [
    {"taskId": 1, "scheduledTime": "2024-01-02T09:00:00Z", "durationMinutes": 60, "reason": "...", "color": "#8b5cf6"}
  ],
  "summary": "...",
  "statistics": {"totalTasks": 1, "totalHours": 1, "daysUsed": 1}
}
`)

	return b.String()
}
