// File: cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/vikihealth/viki-backend/internal/auth"
	"github.com/vikihealth/viki-backend/internal/config"
	"github.com/vikihealth/viki-backend/internal/domain"
	"github.com/vikihealth/viki-backend/internal/handlers"
	"github.com/vikihealth/viki-backend/internal/middleware"
	"github.com/vikihealth/viki-backend/internal/ratelimit"
	"github.com/vikihealth/viki-backend/internal/repository/doctor"
	"github.com/vikihealth/viki-backend/internal/repository/patient"
	"github.com/vikihealth/viki-backend/internal/services"
	"github.com/vikihealth/viki-backend/internal/services/account"
	"github.com/vikihealth/viki-backend/internal/services/ai"
	"github.com/vikihealth/viki-backend/internal/services/extraction"
	"github.com/vikihealth/viki-backend/internal/storage"
)

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	cfg := config.Load()

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB Error: %v", err)
	}

	if err := db.AutoMigrate(&domain.Patient{}, &domain.Doctor{}); err != nil {
		log.Fatalf("DB Migration Error: %v", err)
	}

	// --- Repositories ---
	patientRepo := patient.NewRepository(db)
	doctorRepo := doctor.NewRepository(db)

	// --- Blob stores ---
	patientBlobs, err := storage.NewFSStore(cfg.PatientStorageRoot)
	if err != nil {
		log.Fatalf("FATAL: Failed to open patient storage: %v", err)
	}
	doctorBlobs, err := storage.NewFSStore(cfg.DoctorStorageRoot)
	if err != nil {
		log.Fatalf("FATAL: Failed to open doctor storage: %v", err)
	}

	// --- AI backends ---
	// In mock mode the clinical backend never touches the SDK, so the live
	// client is only required when real generation is possible.
	var models ai.ModelsClient
	if !cfg.UseMockAI || cfg.GoogleProject != "" || cfg.GoogleAPIKey != "" {
		models, err = ai.NewModelsClient(context.Background(), ai.ClientConfig{
			Project:  cfg.GoogleProject,
			Location: cfg.GoogleLocation,
			APIKey:   cfg.GoogleAPIKey,
		})
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize AI client: %v", err)
		}
	}
	aiFactory := ai.NewFactory(models, cfg.UseMockAI, services.NewLogger("ai"))

	// --- Services ---
	accountService, err := account.NewService(patientRepo, doctorRepo, cfg.JWTSecretKey, services.NewLogger("account"))
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Account Service: %v", err)
	}

	extractionBackend, err := aiFactory.Resolve(ai.BackendMedicalLM)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize extraction backend: %v", err)
	}
	extractionService := extraction.NewService(extractionBackend, patientRepo, services.NewLogger("extraction"))

	oauthClient := auth.NewGoogleOAuthClient(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(oauthClient, accountService)
	chatHandler := handlers.NewChatHandler(aiFactory)
	historyHandler := handlers.NewHistoryHandler(patientBlobs, doctorBlobs, extractionService)
	notesHandler := handlers.NewNotesHandler(aiFactory, patientBlobs, doctorBlobs)
	patientsHandler := handlers.NewPatientsHandler(patientRepo, doctorRepo)

	// --- Rate limiters ---
	authLimiter := ratelimit.NewMemoryRateLimiter(ratelimit.DefaultAuthConfig())
	defer authLimiter.Close()
	generationLimiter := ratelimit.NewMemoryRateLimiter(ratelimit.GenerationConfig())
	defer generationLimiter.Close()

	// --- Router Setup ---
	r := mux.NewRouter()
	authMiddleware := middleware.NewJWTMiddleware(accountService)

	r.Use(corsMiddleware)
	r.Use(middleware.RecoverPanic)
	r.Use(middleware.LoggingMiddleware)

	// --- Public Routes ---
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK); _, _ = w.Write([]byte("OK")) }).Methods("GET")

	sso := r.PathPrefix("/").Subrouter()
	sso.Use(middleware.RateLimitMiddleware(authLimiter, "auth"))
	sso.HandleFunc("/login/google/{role:patient|doctor}", authHandler.Login).Methods("GET")
	sso.HandleFunc("/auth/google/callback", authHandler.Callback).Methods("GET")
	r.HandleFunc("/logout", authHandler.Logout).Methods("POST")

	// --- Protected Routes ---
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware)
	api.HandleFunc("/session", authHandler.Session).Methods("GET")
	api.HandleFunc("/history", historyHandler.GetHistory).Methods("GET")
	api.HandleFunc("/history", historyHandler.SaveHistory).Methods("POST")

	generation := api.PathPrefix("/chat").Subrouter()
	generation.Use(middleware.RateLimitMiddleware(generationLimiter, "generation"))
	generation.HandleFunc("", chatHandler.Generate).Methods("POST")
	generation.HandleFunc("/stream", chatHandler.GenerateStream).Methods("POST")

	// --- Doctor-only Routes ---
	doctorAPI := api.PathPrefix("/doctor").Subrouter()
	doctorAPI.Use(middleware.RequireDoctor)
	doctorAPI.HandleFunc("/me", patientsHandler.Profile).Methods("GET")
	doctorAPI.HandleFunc("/patients", patientsHandler.ListRecent).Methods("GET")
	doctorAPI.HandleFunc("/patients/{id:[0-9]+}", patientsHandler.GetPatient).Methods("GET")
	doctorAPI.HandleFunc("/patients/{id:[0-9]+}/history", historyHandler.GetPatientHistory).Methods("GET")
	doctorAPI.HandleFunc("/prompts/{kind}", notesHandler.SavePrompt).Methods("PUT")

	notes := doctorAPI.PathPrefix("/notes").Subrouter()
	notes.Use(middleware.RateLimitMiddleware(generationLimiter, "generation"))
	notes.HandleFunc("/soap", notesHandler.GenerateSOAP).Methods("POST")
	notes.HandleFunc("/dvx", notesHandler.GenerateDVX).Methods("POST")

	// --- Server Configuration ---
	port := ":8080"
	if cfg.ServerPort != "" {
		port = ":" + cfg.ServerPort
	}
	srv := &http.Server{
		Addr:    port,
		Handler: r,
	}

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Viki Health backend starting on port %s (mock AI: %v)", port, cfg.UseMockAI)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped gracefully")
}
