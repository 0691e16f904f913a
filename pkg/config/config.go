package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	DatabaseURL      string
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration
	TwoFactorExpiry  time.Duration

	// Symmetric key for column-level encryption (hex-encoded, 32 bytes)
	EncryptionKey string

	// LLM providers
	AIProvider    string
	GeminiApiKey  string
	OllamaBaseURL string
	OllamaModel   string

	// Google Cloud (Pub/Sub notifications + Firebase push)
	GoogleProjectID     string
	GoogleCredentials   string
	GooglePubSubTopic   string
	FirebaseCredentials string

	// Chroma vector store (semantic search over past readings)
	ChromaAPIKey   string
	ChromaTenant   string
	ChromaDatabase string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	accessExpiry := 15 * time.Minute
	if exp := os.Getenv("JWT_ACCESS_EXPIRY"); exp != "" {
		if parsed, err := time.ParseDuration(exp); err == nil {
			accessExpiry = parsed
		}
	}

	refreshExpiry := 168 * time.Hour // 7 days
	if exp := os.Getenv("JWT_REFRESH_EXPIRY"); exp != "" {
		if parsed, err := time.ParseDuration(exp); err == nil {
			refreshExpiry = parsed
		}
	}

	twoFactorExpiry := 10 * time.Minute
	if exp := os.Getenv("TWO_FACTOR_EXPIRY"); exp != "" {
		if parsed, err := time.ParseDuration(exp); err == nil {
			twoFactorExpiry = parsed
		}
	}

	return &Config{
		Port:             getEnv("PORT", "8080"),
		DatabaseURL:      getEnv("DATABASE_URL", "postgres://localhost:5432/oracle?sslmode=disable"),
		JWTSecret:        getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTAccessExpiry:  accessExpiry,
		JWTRefreshExpiry: refreshExpiry,
		TwoFactorExpiry:  twoFactorExpiry,

		EncryptionKey: getEnv("ENCRYPTION_KEY", ""),

		AIProvider:    getEnv("AI_PROVIDER", "auto"),
		GeminiApiKey:  getEnv("GEMINI_API_KEY", ""),
		OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaModel:   getEnv("OLLAMA_MODEL", "llama3"),

		GoogleProjectID:     getEnv("GOOGLE_PROJECT_ID", ""),
		GoogleCredentials:   getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		GooglePubSubTopic:   getEnv("GOOGLE_PUBSUB_TOPIC", "oracle-content-ready"),
		FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS", ""),

		ChromaAPIKey:   getEnv("CHROMA_API_KEY", ""),
		ChromaTenant:   getEnv("CHROMA_TENANT", ""),
		ChromaDatabase: getEnv("CHROMA_DATABASE", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
