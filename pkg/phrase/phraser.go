// Package phrase generates the agent's outward replies. An LLM provider
// phrases the reply for the intent the engine has already chosen; the
// model never decides state, intent, or exit. Any failure here is
// recoverable because every intent has a deterministic fallback line.
package phrase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/sushant-bot/HONEY-POT/pkg/agent"
	"github.com/sushant-bot/HONEY-POT/pkg/httputil"
)

// Provider identifies the LLM backend.
type Provider string

const (
	ProviderOllama     Provider = "ollama"
	ProviderOpenRouter Provider = "openrouter"
	ProviderGroq       Provider = "groq"
	ProviderCustom     Provider = "custom"
)

// Request carries everything the phraser needs for one reply.
type Request struct {
	Intent         string
	State          agent.State
	ScammerMessage string
	Persona        agent.Persona
}

// Phraser turns a chosen intent into persona-voiced text.
type Phraser interface {
	Phrase(ctx context.Context, req Request) (string, error)
}

// Config configures the LLM-backed phraser.
type Config struct {
	Provider    Provider
	APIKey      string // optional for Ollama
	Model       string
	BaseURL     string  // optional override
	Temperature float64 // defaults to DefaultTemperature
}

// DefaultTemperature keeps replies varied enough to sound human without
// drifting off the intent.
const DefaultTemperature = 0.3

const maxReplyTokens = 50

// LLMPhraser phrases replies through an OpenAI-compatible chat endpoint.
type LLMPhraser struct {
	client      *http.Client
	provider    Provider
	baseURL     string
	apiKey      string
	model       string
	temperature float64
}

// New creates an LLM phraser for the configured provider.
func New(cfg Config) *LLMPhraser {
	if cfg.Model == "" {
		if cfg.Provider == ProviderOllama {
			cfg.Model = "qwen2.5:7b"
		} else {
			cfg.Model = "llama-3.1-8b-instant"
		}
	}

	var baseURL string
	switch cfg.Provider {
	case ProviderOllama:
		baseURL = "http://localhost:11434/v1"
	case ProviderGroq:
		baseURL = "https://api.groq.com/openai/v1"
	case ProviderOpenRouter:
		baseURL = "https://openrouter.ai/api/v1"
	default:
		baseURL = cfg.BaseURL
	}
	if cfg.BaseURL != "" {
		baseURL = cfg.BaseURL
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = DefaultTemperature
	}

	return &LLMPhraser{
		client:      httputil.Client(httputil.TierPhrase),
		provider:    cfg.Provider,
		baseURL:     baseURL,
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: temperature,
	}
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

// Phrase asks the model for one in-persona sentence serving the intent.
func (p *LLMPhraser) Phrase(ctx context.Context, req Request) (string, error) {
	if p.provider != ProviderOllama && p.apiKey == "" {
		return "", fmt.Errorf("phrase: API key not configured for provider %s", p.provider)
	}
	if p.baseURL == "" {
		return "", fmt.Errorf("phrase: no base URL configured")
	}

	userPrompt := fmt.Sprintf(
		"The caller said: %q\nYour intent: %s\nRespond naturally as this persona would. One sentence only, under 25 words.",
		req.ScammerMessage, req.Intent,
	)

	body := chatRequest{
		Model: p.model,
		Messages: []message{
			{Role: "system", Content: agent.SystemPrompt(req.Persona)},
			{Role: "user", Content: userPrompt},
		},
		Temperature: p.temperature,
		MaxTokens:   maxReplyTokens,
	}

	reply, err := p.callLLM(ctx, body)
	if err != nil {
		return "", err
	}

	reply = strings.TrimSpace(strings.Trim(strings.TrimSpace(reply), `"`))
	if reply == "" {
		return "", fmt.Errorf("phrase: empty reply from model")
	}
	return reply, nil
}

func (p *LLMPhraser) callLLM(ctx context.Context, reqBody chatRequest) (string, error) {
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	endpoint := strings.TrimRight(p.baseURL, "/") + "/chat/completions"

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer httputil.DrainAndClose(resp.Body)

	body, err := httputil.ReadResponseBody(resp.Body, httputil.MaxResponseSize)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != 200 {
		return "", fmt.Errorf("phrase: API error %d: %s", resp.StatusCode, string(body))
	}

	var result chatResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("phrase: unmarshal error: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("phrase: no choices returned")
	}
	return result.Choices[0].Message.Content, nil
}
