package config

import (
	"log"
	"os"
	"strings"

	"github.com/saralabs/sara-agent/internal/domain"
)

type Config struct {
	// Mode defaults to demo so a misconfigured deployment never treats
	// fictional data as live.
	Mode domain.Mode

	Port string

	// SiteURL is the base URL used when generating public demo/report links.
	SiteURL string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	ModelName     string

	// Messenger webhook credentials.
	FBVerifyToken     string
	FBPageAccessToken string

	StorageBackend string // "memory" or "firestore"
	GCPProjectID   string

	UseMockLLM bool // true = skip the OpenAI client entirely
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if v == "1" || v == "true" || v == "TRUE" {
		return true
	}
	return false
}

// Load reads all env vars and builds the config
func Load() *Config {
	var mode domain.Mode
	switch strings.ToLower(getEnv("SARA_MODE", "demo")) {
	case "live":
		mode = domain.ModeLive
	default:
		mode = domain.ModeDemo
	}

	cfg := &Config{
		Mode: mode,

		Port: getEnv("SARA_PORT", "8080"),

		SiteURL: strings.TrimRight(getEnv("SITE_URL", ""), "/"),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("SARA_OPENAI_BASE_URL", ""),
		ModelName:     getEnv("SARA_MODEL", "gpt-5-mini"),

		FBVerifyToken:     getEnv("FB_VERIFY_TOKEN", ""),
		FBPageAccessToken: getEnv("FB_PAGE_ACCESS_TOKEN", ""),

		StorageBackend: getEnv("SARA_STORAGE_BACKEND", "memory"),
		GCPProjectID:   getEnv("SARA_GCP_PROJECT", ""),

		UseMockLLM: getBoolEnv("SARA_USE_MOCK_LLM", false),
	}

	if cfg.StorageBackend == "firestore" && cfg.GCPProjectID == "" {
		log.Fatal("SARA_GCP_PROJECT must be set for the firestore storage backend")
	}
	if !cfg.UseMockLLM && cfg.OpenAIAPIKey == "" {
		log.Fatal("OPENAI_API_KEY must be set unless SARA_USE_MOCK_LLM is enabled")
	}

	return cfg
}
