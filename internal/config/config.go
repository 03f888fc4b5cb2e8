package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"lecture-qa-be/pkg/rag"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
	Rag      rag.Config
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	GoogleGemini string
}

type AIConfig struct {
	EmbeddingProvider string // "gemini" or "ollama"
	OllamaBaseURL     string
	OllamaModel       string
	LLMProvider       string // "ollama"
	LLMModel          string // e.g. "llama3", "qwen2.5"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "gemini"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
		},
		Rag: loadRagConfig(),
	}
}

// loadRagConfig starts from the tuned defaults and lets deployments override
// any pipeline knob without a rebuild.
func loadRagConfig() rag.Config {
	cfg := rag.DefaultConfig()

	cfg.TopKPerQuery = getEnvAsInt("RAG_TOP_K_PER_QUERY", cfg.TopKPerQuery)
	cfg.SearchTimeout = getEnvAsDuration("RAG_SEARCH_TIMEOUT", cfg.SearchTimeout)
	cfg.MaxQueryVariants = getEnvAsInt("RAG_MAX_QUERY_VARIANTS", cfg.MaxQueryVariants)
	cfg.SimilarityThreshold = getEnvAsFloat("RAG_SIMILARITY_THRESHOLD", cfg.SimilarityThreshold)

	cfg.JudgeTopM = getEnvAsInt("RAG_JUDGE_TOP_M", cfg.JudgeTopM)
	cfg.JudgeTimeout = getEnvAsDuration("RAG_JUDGE_TIMEOUT", cfg.JudgeTimeout)
	cfg.BoostedWeight = getEnvAsFloat("RAG_BOOSTED_WEIGHT", cfg.BoostedWeight)
	cfg.RelevanceWeight = getEnvAsFloat("RAG_RELEVANCE_WEIGHT", cfg.RelevanceWeight)
	cfg.FinalCandidates = getEnvAsInt("RAG_FINAL_CANDIDATES", cfg.FinalCandidates)

	cfg.ConfidenceTopN = getEnvAsInt("RAG_CONFIDENCE_TOP_N", cfg.ConfidenceTopN)
	cfg.HighThreshold = getEnvAsFloat("RAG_HIGH_THRESHOLD", cfg.HighThreshold)
	cfg.MediumThreshold = getEnvAsFloat("RAG_MEDIUM_THRESHOLD", cfg.MediumThreshold)

	cfg.MaxCitationSources = getEnvAsInt("RAG_MAX_CITATION_SOURCES", cfg.MaxCitationSources)
	cfg.KeepCitedAnswers = getEnvAsInt("RAG_KEEP_CITED_ANSWERS", cfg.KeepCitedAnswers)

	return cfg
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
