package tasks

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"dayplan-backend/internal/schedule"
)

// Store implements schedule.TaskLoader on top of the tasks table.
type Store struct {
	DB *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

// LoadSnapshots fetches scheduling snapshots for the given task ids,
// excluding completed tasks. Missing ids are silently skipped; the
// caller decides what an empty result means.
func (s *Store) LoadSnapshots(ctx context.Context, userID int, taskIDs []int) ([]schedule.TaskSnapshot, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT
			id,
			COALESCE(title, ''),
			COALESCE(estimated_minutes, 0),
			COALESCE(priority, 0),
			COALESCE(complexity, 0),
			COALESCE(suitable_time, ''),
			COALESCE(color, '')
		FROM tasks
		WHERE user_id = $1
		  AND id = ANY($2)
		  AND status <> 'done'
		ORDER BY id
	`, userID, pq.Array(taskIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []schedule.TaskSnapshot
	for rows.Next() {
		var t schedule.TaskSnapshot
		if err := rows.Scan(
			&t.ID,
			&t.Title,
			&t.EstimatedMinutes,
			&t.Priority,
			&t.Complexity,
			&t.SuitableTime,
			&t.Color,
		); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, applySnapshotDefaults(t))
	}
	return snapshots, rows.Err()
}

// applySnapshotDefaults fills the documented defaults so downstream
// code never sees a zero duration or an empty time bucket.
func applySnapshotDefaults(t schedule.TaskSnapshot) schedule.TaskSnapshot {
	if t.EstimatedMinutes <= 0 {
		t.EstimatedMinutes = 60
	}
	if t.Priority < 1 || t.Priority > 4 {
		t.Priority = 2
	}
	if t.Complexity < 1 || t.Complexity > 5 {
		t.Complexity = 2
	}
	switch t.SuitableTime {
	case schedule.SuitableMorning, schedule.SuitableNoon, schedule.SuitableAfternoon, schedule.SuitableEvening:
	default:
		t.SuitableTime = schedule.SuitableAnytime
	}
	if t.Color == "" {
		t.Color = schedule.DefaultTaskColor
	}
	return t
}
