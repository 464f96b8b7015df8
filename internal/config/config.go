package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type LLMBackend string

const (
	LLMGroq   LLMBackend = "groq"
	LLMGemini LLMBackend = "gemini"
	LLMMock   LLMBackend = "mock"
)

type Config struct {
	Port string

	LLMBackend LLMBackend

	GroqAPIKey  string
	GroqBaseURL string
	GroqModel   string

	GCPProjectID string
	GCPLocation  string
	GeminiModel  string

	StorageBackend string // "memory" or "firestore"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Load reads .env (if present) and all env vars, and builds the config.
func Load() *Config {
	// A local .env is optional; real env vars always win.
	_ = godotenv.Load()

	var backend LLMBackend
	switch getEnv("MINDMATE_LLM_BACKEND", "groq") {
	case "gemini":
		backend = LLMGemini
	case "mock":
		backend = LLMMock
	default:
		backend = LLMGroq
	}

	cfg := &Config{
		Port: getEnv("PORT", "8080"),

		LLMBackend: backend,

		GroqAPIKey:  getEnv("GROQ_API_KEY", ""),
		GroqBaseURL: getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		GroqModel:   getEnv("MINDMATE_GROQ_MODEL", "llama-3.3-70b-versatile"),

		GCPProjectID: getEnv("MINDMATE_GCP_PROJECT", ""),
		GCPLocation:  getEnv("MINDMATE_GCP_LOCATION", "us-central1"),
		GeminiModel:  getEnv("MINDMATE_GEMINI_MODEL", "gemini-2.5-flash"),

		StorageBackend: getEnv("MINDMATE_STORAGE_BACKEND", "memory"),
	}

	if cfg.LLMBackend == LLMGroq && cfg.GroqAPIKey == "" {
		log.Fatal("GROQ_API_KEY must be set for the groq LLM backend")
	}
	if cfg.LLMBackend == LLMGemini && cfg.GCPProjectID == "" {
		log.Fatal("MINDMATE_GCP_PROJECT must be set for the gemini LLM backend")
	}
	if cfg.StorageBackend == "firestore" && cfg.GCPProjectID == "" {
		log.Fatal("MINDMATE_GCP_PROJECT is required for the firestore storage backend")
	}

	return cfg
}
