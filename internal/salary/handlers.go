package salary

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"dayplan-backend/internal/auth"
)

// StatsHandler serves GET /salary/stats?from=YYYY-MM-DD&to=YYYY-MM-DD.
// Missing range defaults to the current month. Only completed events
// count as worked time.
func StatsHandler(dbx *sql.DB, defaultRate float64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		from, to := monthRange(time.Now())
		if s := r.URL.Query().Get("from"); s != "" {
			t, err := time.ParseInLocation("2006-01-02", s, time.Local)
			if err != nil {
				http.Error(w, "invalid from", http.StatusBadRequest)
				return
			}
			from = t
		}
		if s := r.URL.Query().Get("to"); s != "" {
			t, err := time.ParseInLocation("2006-01-02", s, time.Local)
			if err != nil {
				http.Error(w, "invalid to", http.StatusBadRequest)
				return
			}
			to = t.AddDate(0, 0, 1) // inclusive
		}

		rate := defaultRate
		var userRate sql.NullFloat64
		_ = dbx.QueryRowContext(r.Context(),
			"SELECT hourly_rate FROM users WHERE id=$1", uid,
		).Scan(&userRate)
		if userRate.Valid && userRate.Float64 > 0 {
			rate = userRate.Float64
		}

		rows, err := dbx.QueryContext(r.Context(), `
			SELECT start_time, end_time
			FROM events
			WHERE user_id = $1
			  AND completed = TRUE
			  AND start_time >= $2
			  AND start_time < $3
			ORDER BY start_time
		`, uid, from, to)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		defer rows.Close()

		var slots []Slot
		for rows.Next() {
			var s Slot
			var end sql.NullTime
			if err := rows.Scan(&s.Start, &end); err != nil {
				http.Error(w, "scan error", http.StatusInternalServerError)
				return
			}
			if end.Valid {
				s.End = end.Time
			}
			slots = append(slots, s)
		}
		if err := rows.Err(); err != nil {
			http.Error(w, "db rows error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(BuildReport(slots, rate))
	}
}

func monthRange(now time.Time) (from, to time.Time) {
	from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return from, from.AddDate(0, 1, 0)
}
