package tasks

import "time"

type Task struct {
	ID               int       `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Status           string    `json:"status"` // active|done|canceled
	EstimatedMinutes int       `json:"estimated_minutes"`
	Priority         int       `json:"priority"`   // 1..4
	Complexity       int       `json:"complexity"` // 1..5
	SuitableTime     string    `json:"suitable_time"`
	Color            string    `json:"color"`
	Tags             []string  `json:"tags"`
	CreatedAt        time.Time `json:"created_at"`
}
