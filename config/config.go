package config

import (
	"os"

	"github.com/joho/godotenv"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

type LLMConfig struct {
	Provider string
	Model    string
}

type Config struct {
	LLM LLMConfig

	GeminiAPIKey  string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OllamaHost    string

	// Google Drive knowledge base.
	GoogleCredentialsFile string
	DriveFolderID         string

	ListenAddr string
}

func Load() Config {
	// A missing .env file is fine; the process environment wins either way.
	_ = godotenv.Load()

	return Config{
		LLM: LLMConfig{
			Provider: getEnv("LLM_PROVIDER", ProviderGemini),
			Model:    getEnv("LLM_MODEL", "gemini-1.5-flash"),
		},
		GeminiAPIKey:          getEnv("GEMINI_API_KEY", ""),
		OpenAIAPIKey:          getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:         getEnv("OPENAI_BASE_URL", ""),
		OllamaHost:            getEnv("OLLAMA_HOST", "http://localhost:11434"),
		GoogleCredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", ""),
		DriveFolderID:         getEnv("DRIVE_FOLDER_ID", ""),
		ListenAddr:            getEnv("LISTEN_ADDR", ":8080"),
	}
}

// GenerationConfigured reports whether the selected LLM provider has the
// secrets it needs. When it returns false the app keeps running with remote
// calls disabled and the chat input greyed out.
func (c Config) GenerationConfigured() bool {
	switch c.LLM.Provider {
	case ProviderGemini:
		return c.GeminiAPIKey != ""
	case ProviderOpenAI:
		return c.OpenAIAPIKey != ""
	case ProviderOllama:
		return c.OllamaHost != ""
	default:
		return false
	}
}

// DriveConfigured reports whether the Drive-backed knowledge base is usable.
func (c Config) DriveConfigured() bool {
	return c.GoogleCredentialsFile != "" && c.DriveFolderID != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
