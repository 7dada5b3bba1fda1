package tasks

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/lib/pq"

	"dayplan-backend/internal/analytics"
	"dayplan-backend/internal/auth"
)

func scanTask(scanner interface{ Scan(...any) error }) (Task, error) {
	var t Task
	var tags pq.StringArray
	err := scanner.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Status,
		&t.EstimatedMinutes,
		&t.Priority,
		&t.Complexity,
		&t.SuitableTime,
		&t.Color,
		&tags,
		&t.CreatedAt,
	)
	t.Tags = []string(tags)
	return t, err
}

const taskColumns = `
	id,
	COALESCE(title, ''),
	COALESCE(description, ''),
	status,
	COALESCE(estimated_minutes, 0),
	COALESCE(priority, 0),
	COALESCE(complexity, 0),
	COALESCE(suitable_time, ''),
	COALESCE(color, ''),
	COALESCE(tags, '{}'),
	created_at`

func GetTasksHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		rows, err := dbx.QueryContext(r.Context(), `
			SELECT `+taskColumns+`
			FROM tasks
			WHERE user_id = $1
			ORDER BY priority DESC, id DESC
		`, uid)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		defer rows.Close()

		result := []Task{}
		for rows.Next() {
			t, err := scanTask(rows)
			if err != nil {
				http.Error(w, "scan error: "+err.Error(), http.StatusInternalServerError)
				return
			}
			result = append(result, t)
		}
		if err := rows.Err(); err != nil {
			http.Error(w, "db rows error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result)
	}
}

type taskBody struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	EstimatedMinutes int      `json:"estimated_minutes"`
	Priority         int      `json:"priority"`
	Complexity       int      `json:"complexity"`
	SuitableTime     string   `json:"suitable_time"`
	Color            string   `json:"color"`
	Tags             []string `json:"tags"`
}

func (b *taskBody) clean() (ok bool) {
	b.Title = strings.TrimSpace(b.Title)
	if b.Title == "" {
		return false
	}
	if b.Tags == nil {
		b.Tags = []string{}
	}
	return true
}

func CreateTaskHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body taskBody
		_ = json.NewDecoder(r.Body).Decode(&body)
		if !body.clean() {
			http.Error(w, "title is required", http.StatusBadRequest)
			return
		}

		var taskID int
		var created time.Time
		err := dbx.QueryRowContext(r.Context(), `
			INSERT INTO tasks (
				user_id, title, description,
				estimated_minutes, priority, complexity,
				suitable_time, color, tags
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id, created_at
		`, uid, body.Title, body.Description,
			body.EstimatedMinutes, body.Priority, body.Complexity,
			body.SuitableTime, body.Color, pq.Array(body.Tags),
		).Scan(&taskID, &created)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		// analytics: task_created
		{
			env := analytics.FromRequest(r)
			env.UserID = uid

			props := map[string]any{
				"task_id":           taskID,
				"estimated_minutes": body.EstimatedMinutes,
				"priority":          body.Priority,
				"has_suitable_time": body.SuitableTime != "",
			}
			_ = analytics.Log(r.Context(), dbx, env, "task_created", props, analytics.SourceEventKeyFromRequest(r))
		}

		full, err := fetchTask(dbx, uid, taskID)
		if err != nil {
			http.Error(w, "fetch error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(full)
	}
}

func UpdateTaskHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			TaskID int `json:"task_id"`
			taskBody
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if body.TaskID == 0 {
			http.Error(w, "task_id required", http.StatusBadRequest)
			return
		}
		if !body.clean() {
			http.Error(w, "title is required", http.StatusBadRequest)
			return
		}

		res, err := dbx.ExecContext(r.Context(), `
			UPDATE tasks
			SET title=$1, description=$2,
			    estimated_minutes=$3, priority=$4, complexity=$5,
			    suitable_time=$6, color=$7, tags=$8
			WHERE id=$9 AND user_id=$10
		`, body.Title, body.Description,
			body.EstimatedMinutes, body.Priority, body.Complexity,
			body.SuitableTime, body.Color, pq.Array(body.Tags),
			body.TaskID, uid)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		affected, _ := res.RowsAffected()
		if affected == 0 {
			http.Error(w, "task not found", http.StatusNotFound)
			return
		}

		full, err := fetchTask(dbx, uid, body.TaskID)
		if err != nil {
			http.Error(w, "fetch error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(full)
	}
}

func SetTaskStatusHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			TaskID int    `json:"task_id"`
			Status string `json:"status"` // active|done|canceled
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if body.TaskID == 0 {
			http.Error(w, "task_id required", http.StatusBadRequest)
			return
		}

		switch body.Status {
		case "active", "done", "canceled":
		default:
			http.Error(w, "invalid status", http.StatusBadRequest)
			return
		}

		var prevStatus string
		var createdAt time.Time
		_ = dbx.QueryRowContext(r.Context(), `
			SELECT status, created_at
			FROM tasks
			WHERE id=$1 AND user_id=$2
		`, body.TaskID, uid).Scan(&prevStatus, &createdAt)

		res, err := dbx.ExecContext(r.Context(), `
			UPDATE tasks
			SET status = $1
			WHERE id = $2 AND user_id = $3
		`, body.Status, body.TaskID, uid)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		affected, _ := res.RowsAffected()
		if affected == 0 {
			http.Error(w, "task not found", http.StatusNotFound)
			return
		}

		// analytics: task_completed / task_uncompleted
		if prevStatus != "" && prevStatus != body.Status {
			env := analytics.FromRequest(r)
			env.UserID = uid

			if prevStatus != "done" && body.Status == "done" {
				props := map[string]any{
					"task_id":                body.TaskID,
					"time_since_created_sec": int(time.Now().UTC().Sub(createdAt).Seconds()),
				}
				_ = analytics.Log(r.Context(), dbx, env, "task_completed", props, analytics.SourceEventKeyFromRequest(r))
			}
			if prevStatus == "done" && body.Status != "done" {
				props := map[string]any{
					"task_id": body.TaskID,
				}
				_ = analytics.Log(r.Context(), dbx, env, "task_uncompleted", props, analytics.SourceEventKeyFromRequest(r))
			}
		}

		full, err := fetchTask(dbx, uid, body.TaskID)
		if err != nil {
			http.Error(w, "fetch error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(full)
	}
}

func fetchTask(dbx *sql.DB, uid, taskID int) (Task, error) {
	row := dbx.QueryRow(`
		SELECT `+taskColumns+`
		FROM tasks
		WHERE user_id = $1 AND id = $2
	`, uid, taskID)
	return scanTask(row)
}
