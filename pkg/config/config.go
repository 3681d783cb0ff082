// Package config holds the runtime settings for the honeypot service.
// Everything is environment-driven; the engine itself stays deterministic
// regardless of what is configured here.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
)

// LLMProvider selects the backend used for phrasing replies.
type LLMProvider string

const (
	ProviderNone       LLMProvider = "none"       // fallback replies only
	ProviderOllama     LLMProvider = "ollama"     // local Ollama server
	ProviderOpenRouter LLMProvider = "openrouter" // OpenRouter cloud
	ProviderGroq       LLMProvider = "groq"       // Groq cloud
	ProviderCustom     LLMProvider = "custom"     // any OpenAI-compatible endpoint
)

// Config holds the honeypot service settings.
type Config struct {
	// === API surface ===
	APIKey string // inbound x-api-key; empty disables auth (dev only)

	// === Conversation control ===
	MaxTurns int    // hard ceiling on turns per session (default: 10)
	Persona  string // persona name the agent plays (default: "default")

	// PersonaFile optionally points at a YAML file of persona overrides.
	PersonaFile string

	// === LLM phrasing ===
	EnableLLM    bool // phrase replies through the LLM; fallback lines otherwise
	LLMProvider  LLMProvider
	LLMAPIKey    string
	LLMModel     string
	LLMBaseURL   string
	LLMTimeoutMs int // per-reply budget before the fallback line is used (default: 8000)

	// === Advisory similarity detection ===
	EnableSemantics bool
	OllamaURL       string // embedding server for the advisory detector

	// === Report delivery ===
	CallbackURL    string // final reports POST here; empty logs them instead
	CallbackAPIKey string

	// === Audit trail ===
	AuditLogPath string // JSONL decision log (default: "audit_events.jsonl")
}

// NewDefaultConfig builds a Config from the environment with working
// defaults for local development.
func NewDefaultConfig() *Config {
	return &Config{
		APIKey: GetEnv("HONEYPOT_API_KEY", ""),

		MaxTurns:    clampInt(GetEnvInt("HONEYPOT_MAX_TURNS", 10), 1, 100),
		Persona:     GetEnv("HONEYPOT_PERSONA", "default"),
		PersonaFile: GetEnv("HONEYPOT_PERSONA_FILE", ""),

		EnableLLM:    GetEnvBool("HONEYPOT_ENABLE_LLM", true),
		LLMProvider:  detectLLMProvider(),
		LLMAPIKey:    GetEnv("HONEYPOT_LLM_API_KEY", GetEnv("GROQ_API_KEY", os.Getenv("OPENROUTER_API_KEY"))),
		LLMModel:     GetEnv("HONEYPOT_LLM_MODEL", ""),
		LLMBaseURL:   GetEnv("HONEYPOT_LLM_BASE_URL", ""),
		LLMTimeoutMs: GetEnvInt("HONEYPOT_LLM_TIMEOUT_MS", 8000),

		EnableSemantics: GetEnvBool("HONEYPOT_ENABLE_SEMANTICS", false),
		OllamaURL:       GetEnv("HONEYPOT_OLLAMA_URL", "http://localhost:11434"),

		CallbackURL:    GetEnv("HONEYPOT_CALLBACK_URL", ""),
		CallbackAPIKey: GetEnv("HONEYPOT_CALLBACK_API_KEY", ""),

		AuditLogPath: GetEnv("HONEYPOT_AUDIT_LOG", "audit_events.jsonl"),
	}
}

func detectLLMProvider() LLMProvider {
	if p := os.Getenv("HONEYPOT_LLM_PROVIDER"); p != "" {
		return LLMProvider(p)
	}
	if os.Getenv("GROQ_API_KEY") != "" {
		return ProviderGroq
	}
	if os.Getenv("OPENROUTER_API_KEY") != "" || os.Getenv("HONEYPOT_LLM_API_KEY") != "" {
		return ProviderOpenRouter
	}
	return ProviderOllama
}

func clampInt(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// GetEnv returns the value of an environment variable or a default value.
func GetEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// GetEnvBool returns the boolean value of an environment variable or a default value.
func GetEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return defaultValue
}

// GetEnvInt returns the integer value of an environment variable or a default value.
func GetEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return defaultValue
}

// GetEnvFloat returns the float64 value of an environment variable or a default value.
func GetEnvFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return defaultValue
}

// RequiredSecret defines an environment variable checked at startup.
type RequiredSecret struct {
	Name        string
	Description string
	Production  bool // required in production only
}

// CriticalSecrets lists the secrets the service needs to run safely.
func CriticalSecrets() []RequiredSecret {
	return []RequiredSecret{
		{Name: "HONEYPOT_API_KEY", Description: "API key for inbound authentication", Production: true},
		{Name: "HONEYPOT_CALLBACK_URL", Description: "endpoint that receives final reports", Production: true},
	}
}

// Validate checks required configuration. In production missing secrets
// are fatal; in development they are logged and startup continues.
func (c *Config) Validate() error {
	env := strings.ToLower(os.Getenv("HONEYPOT_ENV"))
	isProduction := env == "production" || env == "prod"

	var missing []string
	for _, secret := range CriticalSecrets() {
		if os.Getenv(secret.Name) != "" {
			continue
		}
		if secret.Production && !isProduction {
			log.Printf("[STARTUP] Warning: missing optional secret: %s (%s)", secret.Name, secret.Description)
			continue
		}
		missing = append(missing, secret.Name+" ("+secret.Description+")")
	}

	if c.EnableLLM && c.LLMProvider != ProviderOllama && c.LLMProvider != ProviderNone && c.LLMAPIKey == "" {
		log.Printf("[STARTUP] Warning: LLM enabled for provider %s without an API key, replies will use fallback lines", c.LLMProvider)
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required secrets: %s", strings.Join(missing, ", "))
	}
	return nil
}

// MustValidate calls Validate and exits on failure. Call at startup.
func (c *Config) MustValidate() {
	if err := c.Validate(); err != nil {
		log.Fatalf("[STARTUP] FATAL: Configuration validation failed: %v", err)
	}
	log.Println("[STARTUP] Configuration validated successfully")
}
