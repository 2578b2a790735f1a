// File: internal/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort   string
	JWTSecretKey string
	Environment  string

	// Google OAuth (federated SSO)
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	// Generative AI backends
	GoogleProject  string
	GoogleLocation string
	GoogleAPIKey   string
	// UseMockAI is the single mock-activation switch. It is resolved exactly
	// once, here, and latched by the clinical backend at construction time.
	UseMockAI bool

	// Persistence
	DatabasePath string

	// Blob storage roots (patient transcripts, doctor prompt templates)
	PatientStorageRoot string
	DoctorStorageRoot  string
}

// Load reads configuration from environment variables or a .env file.
func Load() *Config {
	env := os.Getenv("ENV")
	if strings.ToLower(env) != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found; continuing with environment variables")
		}
	}

	cfg := &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		JWTSecretKey:       getEnv("JWT_SECRET_KEY", ""),
		Environment:        env,
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/auth/google/callback"),
		GoogleProject:      getEnv("GOOGLE_CLOUD_PROJECT", ""),
		GoogleLocation:     getEnv("GOOGLE_CLOUD_LOCATION", "us-central1"),
		GoogleAPIKey:       getEnv("GOOGLE_API_KEY", ""),
		UseMockAI:          getEnvAsBool("USE_MOCK_AI", false),
		DatabasePath:       getEnv("DATABASE_PATH", "viki.db"),
		PatientStorageRoot: getEnv("PATIENT_STORAGE_ROOT", "patientstorage"),
		DoctorStorageRoot:  getEnv("DOCTOR_STORAGE_ROOT", "doctorstorage"),
	}

	// Validation for production environments
	if strings.ToLower(env) == "production" {
		missing := []string{}
		if cfg.JWTSecretKey == "" {
			missing = append(missing, "JWT_SECRET_KEY")
		}
		if cfg.GoogleClientID == "" {
			missing = append(missing, "GOOGLE_CLIENT_ID")
		}
		if cfg.GoogleClientSecret == "" {
			missing = append(missing, "GOOGLE_CLIENT_SECRET")
		}
		if !cfg.UseMockAI && cfg.GoogleProject == "" && cfg.GoogleAPIKey == "" {
			missing = append(missing, "GOOGLE_CLOUD_PROJECT or GOOGLE_API_KEY")
		}
		if len(missing) > 0 {
			log.Fatalf("Missing required production environment variables: %v", missing)
		}
	}

	return cfg
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsBool gets an env var as a boolean, with a fallback.
func getEnvAsBool(key string, defaultValue bool) bool {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as boolean. Using default value.", key)
		return defaultValue
	}
	return boolValue
}
