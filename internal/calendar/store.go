package calendar

import (
	"context"
	"database/sql"
	"time"

	"dayplan-backend/internal/schedule"
)

// Store implements schedule.CommitmentLoader on top of the events table.
type Store struct {
	DB *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

// LoadCommitments returns the user's events overlapping [from, to).
// Events without an end time count as one hour long, matching the
// conflict predicate.
func (s *Store) LoadCommitments(ctx context.Context, userID int, from, to time.Time) ([]schedule.Commitment, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT COALESCE(title, ''), start_time, end_time
		FROM events
		WHERE user_id = $1
		  AND start_time < $3
		  AND COALESCE(end_time, start_time + interval '1 hour') > $2
		ORDER BY start_time
	`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var commitments []schedule.Commitment
	for rows.Next() {
		var c schedule.Commitment
		var end sql.NullTime
		if err := rows.Scan(&c.Title, &c.Start, &end); err != nil {
			return nil, err
		}
		if end.Valid {
			c.End = end.Time
		}
		commitments = append(commitments, c)
	}
	return commitments, rows.Err()
}

func listEvents(ctx context.Context, dbx *sql.DB, userID int, from, to time.Time) ([]Event, error) {
	rows, err := dbx.QueryContext(ctx, `
		SELECT id, task_id, COALESCE(title, ''), start_time, end_time,
		       COALESCE(color, ''), completed, created_at
		FROM events
		WHERE user_id = $1
		  AND start_time < $3
		  AND COALESCE(end_time, start_time + interval '1 hour') > $2
		ORDER BY start_time
	`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		var e Event
		var taskID sql.NullInt64
		var end sql.NullTime
		if err := rows.Scan(&e.ID, &taskID, &e.Title, &e.StartTime, &end, &e.Color, &e.Completed, &e.CreatedAt); err != nil {
			return nil, err
		}
		if taskID.Valid {
			v := int(taskID.Int64)
			e.TaskID = &v
		}
		if end.Valid {
			t := end.Time
			e.EndTime = &t
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
