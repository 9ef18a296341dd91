package rest

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"gradpath/internal/config"
	"gradpath/internal/service"
	"gradpath/internal/transport/rest/handler"
	"gradpath/internal/transport/rest/middleware"
	"gradpath/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	Config             *config.Config
	Logger             *zap.Logger
	AuthService        *service.AuthService
	WizardService      *service.WizardService
	Evaluator          service.Evaluator
	ScholarshipService *service.ScholarshipService
	FeeService         *service.FeeService
	WSHub              *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	sessionHandler := handler.NewSessionHandler(c.WizardService, c.Logger)
	sopHandler := handler.NewSOPHandler(c.Evaluator, c.Logger)
	catalogHandler := handler.NewCatalogHandler(c.ScholarshipService, c.FeeService, c.Logger)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.WizardService, c.Logger)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware(c.Config))
	r.Use(middleware.RequestLogger(c.Logger.Named("http")))

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/sessions", sessionHandler.Create).Methods("POST", "OPTIONS")
	v1.HandleFunc("/forms/{formId}", sessionHandler.Form).Methods("GET", "OPTIONS")
	v1.HandleFunc("/sop/evaluate", sopHandler.Evaluate).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sop/download", sopHandler.Download).Methods("POST", "OPTIONS")
	v1.HandleFunc("/scholarships", catalogHandler.Scholarships).Methods("GET", "OPTIONS")
	v1.HandleFunc("/fees/compare", catalogHandler.CompareFees).Methods("POST", "OPTIONS")

	// WebSocket routes (public with token in query param)
	v1.HandleFunc("/ws/sessions/{id}", wsHandler.SessionWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Session routes (require the session's token)
	sessionRoutes := v1.PathPrefix("/sessions/{id}").Subrouter()
	sessionRoutes.Use(authMW.RequireSession)

	sessionRoutes.HandleFunc("", sessionHandler.Get).Methods("GET", "OPTIONS")
	sessionRoutes.HandleFunc("", sessionHandler.Delete).Methods("DELETE", "OPTIONS")
	sessionRoutes.HandleFunc("/answers/{questionId}", sessionHandler.SetAnswer).Methods("PUT", "OPTIONS")
	sessionRoutes.HandleFunc("/next", sessionHandler.Next).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/prev", sessionHandler.Prev).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/submit", sessionHandler.Submit).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/reset", sessionHandler.Reset).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/result", sessionHandler.Result).Methods("GET", "OPTIONS")
	sessionRoutes.HandleFunc("/result/download", sessionHandler.Download).Methods("GET", "OPTIONS")
	sessionRoutes.HandleFunc("/documents", sessionHandler.Documents).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(cfg *config.Config) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", cfg.CORSOrigins)
			w.Header().Set("Access-Control-Allow-Methods", cfg.CORSMethods)
			w.Header().Set("Access-Control-Allow-Headers", cfg.CORSHeaders)

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
