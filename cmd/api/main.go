package main

import (
	"log"
	"net/http"

	"github.com/rs/cors"

	"dayplan-backend/internal/analytics"
	"dayplan-backend/internal/auth"
	"dayplan-backend/internal/calendar"
	"dayplan-backend/internal/config"
	"dayplan-backend/internal/db"
	"dayplan-backend/internal/salary"
	"dayplan-backend/internal/schedule"
	"dayplan-backend/internal/tasks"
)

func main() {
	cfg := config.Load()

	database, err := db.Connect(cfg.ConnString())
	if err != nil {
		log.Fatal("❌ Failed to connect DB:", err)
	}
	defer database.Close()

	log.Println("✅ Connected to PostgreSQL!")

	secret := []byte(cfg.JWTSecret)
	mw := auth.New(secret)

	// Explicit wiring, no package globals: the suggestion service is nil
	// when no API key is configured and the orchestrator simulates.
	var suggester schedule.Suggester
	if cfg.GeminiAPIKey != "" {
		suggester = schedule.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiTimeout)
		log.Println("🤖 Gemini suggestions enabled, model:", cfg.GeminiModel)
	} else {
		log.Println("⚠️ GEMINI_API_KEY not set, schedule suggestions run in simulation mode")
	}

	scheduleSvc := schedule.NewService(
		tasks.NewStore(database),
		calendar.NewStore(database),
		suggester,
	)

	mux := http.NewServeMux()

	// Health endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// ----- AUTH API -----
	mux.HandleFunc("/auth/register", auth.RegisterHandler(database, secret))
	mux.HandleFunc("/auth/login", auth.LoginHandler(database, secret))
	mux.HandleFunc("/auth/me", mw.Wrap(auth.MeHandler(database)))
	mux.HandleFunc("/auth/logout", mw.Wrap(auth.LogoutHandler()))
	mux.HandleFunc("/auth/account", mw.Wrap(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodDelete:
			auth.DeleteAccountHandler(database)(w, r)
		case http.MethodOptions:
			w.WriteHeader(http.StatusOK)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}))

	// ----- TASKS API -----
	mux.HandleFunc("/tasks", mw.Wrap(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			tasks.GetTasksHandler(database)(w, r)
		case http.MethodPost:
			tasks.CreateTaskHandler(database)(w, r)
		case http.MethodOptions:
			w.WriteHeader(http.StatusOK)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}))
	mux.HandleFunc("/tasks/update", mw.Wrap(tasks.UpdateTaskHandler(database)))
	mux.HandleFunc("/tasks/status", mw.Wrap(tasks.SetTaskStatusHandler(database)))

	// ----- CALENDAR API -----
	mux.HandleFunc("/events", mw.Wrap(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			calendar.ListEventsHandler(database)(w, r)
		case http.MethodPost:
			calendar.CreateEventHandler(database)(w, r)
		case http.MethodDelete:
			calendar.DeleteEventHandler(database)(w, r)
		case http.MethodOptions:
			w.WriteHeader(http.StatusOK)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}))
	mux.HandleFunc("/events/move", mw.Wrap(calendar.MoveEventHandler(database)))
	mux.HandleFunc("/events/complete", mw.Wrap(calendar.CompleteEventHandler(database)))

	// ----- SCHEDULE SUGGESTIONS -----
	mux.HandleFunc("/schedule/suggest", mw.Wrap(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			schedule.SuggestHandler(database, scheduleSvc)(w, r)
		case http.MethodOptions:
			w.WriteHeader(http.StatusOK)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}))

	// ----- SALARY -----
	mux.HandleFunc("/salary/stats", mw.Wrap(salary.StatsHandler(database, cfg.DefaultHourlyRate)))

	// ----- ANALYTICS -----
	mux.HandleFunc("/analytics/app-opened", mw.Wrap(analytics.AppOpenedHandler(database)))

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "Idempotency-Key", "X-Platform", "X-App-Version", "X-Session-Id"},
		AllowCredentials: true,
	})

	handler := c.Handler(mux)

	log.Println("🚀 API server is running on :" + cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, handler))
}
