package salary

import (
	"math"
	"time"
)

// Slot is one completed calendar interval that counts as worked time.
type Slot struct {
	Start time.Time
	End   time.Time // zero means open-ended; counted as one hour
}

type Report struct {
	TotalEvents int     `json:"total_events"`
	TotalHours  float64 `json:"total_hours"`
	DaysWorked  int     `json:"days_worked"`
	HourlyRate  float64 `json:"hourly_rate"`
	Earnings    float64 `json:"earnings"`
}

// BuildReport derives salary stats from completed slots.
func BuildReport(slots []Slot, rate float64) Report {
	var totalMinutes float64
	daysSeen := map[string]struct{}{}

	for _, s := range slots {
		end := s.End
		if end.IsZero() {
			end = s.Start.Add(time.Hour)
		}
		mins := end.Sub(s.Start).Minutes()
		if mins <= 0 {
			continue
		}
		totalMinutes += mins
		daysSeen[s.Start.Format("2006-01-02")] = struct{}{}
	}

	hours := round2(totalMinutes / 60)
	return Report{
		TotalEvents: len(slots),
		TotalHours:  hours,
		DaysWorked:  len(daysSeen),
		HourlyRate:  rate,
		Earnings:    round2(hours * rate),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
