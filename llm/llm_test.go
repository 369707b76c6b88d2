package llm

import (
	"context"
	"testing"

	"github.com/fabfab/doc-chat/config"
)

func TestNewClientOllamaDefaults(t *testing.T) {
	cfg := config.Config{
		LLM: config.LLMConfig{
			Provider: config.ProviderOllama,
			Model:    "llama3.1:8b",
		},
		OllamaHost: "http://localhost:11434",
	}

	client, err := NewClient(context.Background(), cfg)
	if err != nil {
		t.Fatalf("expected llm client, got error: %v", err)
	}
	if client == nil {
		t.Fatal("expected non-nil client")
	}
}

func TestNewClientOpenAIRequiresAPIKey(t *testing.T) {
	cfg := config.Config{
		LLM: config.LLMConfig{
			Provider: config.ProviderOpenAI,
			Model:    "gpt-4o",
		},
	}

	if _, err := NewClient(context.Background(), cfg); err == nil {
		t.Fatal("expected error for missing OPENAI_API_KEY")
	}
}

func TestNewClientGeminiRequiresAPIKey(t *testing.T) {
	cfg := config.Config{
		LLM: config.LLMConfig{
			Provider: config.ProviderGemini,
			Model:    "gemini-1.5-flash",
		},
	}

	if _, err := NewClient(context.Background(), cfg); err == nil {
		t.Fatal("expected error for missing GEMINI_API_KEY")
	}
}

func TestNewClientUnknownProvider(t *testing.T) {
	cfg := config.Config{
		LLM: config.LLMConfig{Provider: "carrier-pigeon"},
	}

	if _, err := NewClient(context.Background(), cfg); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}
