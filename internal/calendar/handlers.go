package calendar

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"dayplan-backend/internal/analytics"
	"dayplan-backend/internal/auth"
	"dayplan-backend/internal/schedule"
)

func parseRangeParams(r *http.Request) (from, to time.Time, ok bool) {
	from, err1 := time.ParseInLocation("2006-01-02", r.URL.Query().Get("from"), time.Local)
	to, err2 := time.ParseInLocation("2006-01-02", r.URL.Query().Get("to"), time.Local)
	if err1 != nil || err2 != nil {
		return time.Time{}, time.Time{}, false
	}
	// "to" is inclusive at day granularity
	return from, to.AddDate(0, 0, 1), true
}

// GET /events?from=YYYY-MM-DD&to=YYYY-MM-DD
func ListEventsHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		from, to, ok := parseRangeParams(r)
		if !ok {
			http.Error(w, "from & to required (YYYY-MM-DD)", http.StatusBadRequest)
			return
		}

		events, err := listEvents(r.Context(), dbx, uid, from, to)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(events)
	}
}

// POST /events — persist one event, typically an accepted suggestion.
func CreateEventHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			TaskID    *int       `json:"task_id"`
			Title     string     `json:"title"`
			StartTime time.Time  `json:"start_time"`
			EndTime   *time.Time `json:"end_time"`
			Color     string     `json:"color"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		body.Title = strings.TrimSpace(body.Title)
		if body.Title == "" || body.StartTime.IsZero() {
			http.Error(w, "title and start_time required", http.StatusBadRequest)
			return
		}
		if body.EndTime != nil && !body.EndTime.After(body.StartTime) {
			http.Error(w, "end_time must be after start_time", http.StatusBadRequest)
			return
		}

		var id int
		var created time.Time
		err := dbx.QueryRowContext(r.Context(), `
			INSERT INTO events (user_id, task_id, title, start_time, end_time, color)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at
		`, uid, body.TaskID, body.Title, body.StartTime, body.EndTime, body.Color).Scan(&id, &created)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		// analytics: event_scheduled
		{
			env := analytics.FromRequest(r)
			env.UserID = uid
			props := map[string]any{
				"event_id":  id,
				"task_id":   body.TaskID,
				"from_task": body.TaskID != nil,
			}
			_ = analytics.Log(r.Context(), dbx, env, "event_scheduled", props, analytics.SourceEventKeyFromRequest(r))
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Event{
			ID:        id,
			TaskID:    body.TaskID,
			Title:     body.Title,
			StartTime: body.StartTime,
			EndTime:   body.EndTime,
			Color:     body.Color,
			CreatedAt: created,
		})
	}
}

// POST /events/move — the drag-and-drop accept path. Rejects the new
// placement with 409 when it overlaps any other event of the user,
// using the same predicate the suggestion simulator runs on.
func MoveEventHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			EventID   int        `json:"event_id"`
			StartTime time.Time  `json:"start_time"`
			EndTime   *time.Time `json:"end_time"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if body.EventID == 0 || body.StartTime.IsZero() {
			http.Error(w, "event_id and start_time required", http.StatusBadRequest)
			return
		}
		if body.EndTime != nil && !body.EndTime.After(body.StartTime) {
			http.Error(w, "end_time must be after start_time", http.StatusBadRequest)
			return
		}

		target := schedule.Interval{Start: body.StartTime}
		if body.EndTime != nil {
			target.End = *body.EndTime
		}

		// every other event of this user is an obstacle
		rows, err := dbx.QueryContext(r.Context(), `
			SELECT start_time, end_time
			FROM events
			WHERE user_id = $1 AND id <> $2
		`, uid, body.EventID)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		defer rows.Close()

		for rows.Next() {
			var start time.Time
			var end sql.NullTime
			if err := rows.Scan(&start, &end); err != nil {
				http.Error(w, "scan error", http.StatusInternalServerError)
				return
			}
			other := schedule.Interval{Start: start}
			if end.Valid {
				other.End = end.Time
			}
			if schedule.HasConflict(target, other) {
				http.Error(w, "time conflict with an existing event", http.StatusConflict)
				return
			}
		}
		if err := rows.Err(); err != nil {
			http.Error(w, "db rows error", http.StatusInternalServerError)
			return
		}

		res, err := dbx.ExecContext(r.Context(), `
			UPDATE events
			SET start_time = $1, end_time = $2
			WHERE id = $3 AND user_id = $4
		`, body.StartTime, body.EndTime, body.EventID, uid)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		affected, _ := res.RowsAffected()
		if affected == 0 {
			http.Error(w, "event not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}

// POST /events/complete — completed events feed the salary stats.
func CompleteEventHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			EventID   int  `json:"event_id"`
			Completed bool `json:"completed"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if body.EventID == 0 {
			http.Error(w, "event_id required", http.StatusBadRequest)
			return
		}

		res, err := dbx.ExecContext(r.Context(), `
			UPDATE events
			SET completed = $1
			WHERE id = $2 AND user_id = $3
		`, body.Completed, body.EventID, uid)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		affected, _ := res.RowsAffected()
		if affected == 0 {
			http.Error(w, "event not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}

// DELETE /events?id=N
func DeleteEventHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		id := r.URL.Query().Get("id")
		if id == "" {
			http.Error(w, "id required", http.StatusBadRequest)
			return
		}

		res, err := dbx.ExecContext(r.Context(), `
			DELETE FROM events WHERE id = $1 AND user_id = $2
		`, id, uid)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		affected, _ := res.RowsAffected()
		if affected == 0 {
			http.Error(w, "event not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}
