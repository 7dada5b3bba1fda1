package schedule

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"dayplan-backend/internal/analytics"
	"dayplan-backend/internal/auth"
)

// SuggestHandler serves POST /schedule/suggest.
//
// Request:  {"tasks":[1,2], "startDate":"2024-01-02", "endDate":"2024-01-05",
//            "options":{"avoidConflict":true,"considerPriority":true,"balanceWorkload":false}}
// Response: {"success":true, "data":{...SuggestionResult...}, "message":"..."}
func SuggestHandler(dbx *sql.DB, svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			Tasks     []int   `json:"tasks"`
			StartDate string  `json:"startDate"`
			EndDate   string  `json:"endDate"`
			Options   Options `json:"options"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		if len(body.Tasks) == 0 {
			http.Error(w, "tasks required", http.StatusBadRequest)
			return
		}

		start, err := parseDay(body.StartDate)
		if err != nil {
			http.Error(w, "invalid startDate", http.StatusBadRequest)
			return
		}
		end, err := parseDay(body.EndDate)
		if err != nil {
			http.Error(w, "invalid endDate", http.StatusBadRequest)
			return
		}

		req := Request{
			TaskIDs: body.Tasks,
			Start:   start,
			End:     end,
			Options: body.Options,
		}

		began := time.Now()
		result, err := runGuarded(r.Context(), svc, uid, req)

		switch {
		case err == nil:
			// fall through to the success path
		case errors.Is(err, ErrNoTasks), errors.Is(err, ErrInvalidDateRange):
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		case errors.Is(err, ErrNoMatchingTasks):
			http.Error(w, "no matching tasks", http.StatusNotFound)
			return
		default:
			// even the simulated scheduler failed; only case after
			// input validation where success is false
			log.Printf("[ERROR] suggest-schedule failed user_id=%d: %v", uid, err)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": false,
				"data": &SuggestionResult{
					Suggestions: []Suggestion{},
					Mode:        ModeError,
				},
				"message": "failed to generate schedule suggestions",
			})
			return
		}

		// analytics: suggestion_generated
		{
			env := analytics.FromRequest(r)
			env.UserID = uid

			props := map[string]any{
				"run_id":      uuid.NewString(),
				"mode":        result.Mode,
				"task_count":  len(body.Tasks),
				"suggested":   len(result.Suggestions),
				"duration_ms": time.Since(began).Milliseconds(),
			}
			_ = analytics.Log(r.Context(), dbx, env, "suggestion_generated", props, analytics.SourceEventKeyFromRequest(r))
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    result,
			"message": "schedule suggestions generated",
		})
	}
}

// runGuarded converts a panic anywhere in the scheduling chain into an
// error so the handler can answer with mode=error instead of a blank 500.
func runGuarded(ctx context.Context, svc *Service, uid int, req Request) (res *SuggestionResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("scheduling panic: %v", rec)
		}
	}()
	return svc.SuggestSchedule(ctx, uid, req)
}

var dayLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// parseDay accepts "YYYY-MM-DD" or an ISO datetime.
func parseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dayLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
