package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/sushant-bot/HONEY-POT/pkg/agent"
	"github.com/sushant-bot/HONEY-POT/pkg/audit"
	"github.com/sushant-bot/HONEY-POT/pkg/callback"
	"github.com/sushant-bot/HONEY-POT/pkg/config"
	"github.com/sushant-bot/HONEY-POT/pkg/detect"
	"github.com/sushant-bot/HONEY-POT/pkg/honeypot"
	"github.com/sushant-bot/HONEY-POT/pkg/intel"
	"github.com/sushant-bot/HONEY-POT/pkg/phrase"
	"github.com/sushant-bot/HONEY-POT/pkg/semantic"
)

const Version = "0.1.0"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		port := "3000"
		if len(os.Args) > 2 {
			port = os.Args[2]
		}
		runHTTPServer(port)
	case "scan":
		if len(os.Args) < 3 {
			fmt.Println("Usage: honeypot scan <text>")
			os.Exit(1)
		}
		runCLIScan(strings.Join(os.Args[2:], " "))
	case "version":
		fmt.Printf("Honeypot v%s\n", Version)
		fmt.Println("Agentic scam engagement and intelligence service")
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf("Honeypot v%s - scam engagement service\n\n", Version)
	fmt.Println("Usage:")
	fmt.Println("  honeypot serve [port]   Start HTTP server (default: 3000)")
	fmt.Println("  honeypot scan <text>    One-off scam analysis of a message")
	fmt.Println("  honeypot version        Show version")
	fmt.Println("")
	fmt.Println("Examples:")
	fmt.Println("  honeypot serve 8080")
	fmt.Println("  honeypot scan \"Your account is blocked, send money now\"")
	fmt.Println("")
	fmt.Println("Environment Variables:")
	fmt.Println("  HONEYPOT_API_KEY          Inbound API key (x-api-key header)")
	fmt.Println("  HONEYPOT_CALLBACK_URL     Endpoint that receives final reports")
	fmt.Println("  HONEYPOT_MAX_TURNS        Engagement ceiling per session (default: 10)")
	fmt.Println("  HONEYPOT_LLM_PROVIDER     Reply phrasing: ollama, openrouter, groq, custom")
	fmt.Println("  HONEYPOT_ENABLE_SEMANTICS Advisory similarity detection (needs Ollama)")
}

// buildEngine wires the pipeline from config. Optional collaborators
// degrade gracefully: no LLM means fallback replies, no Ollama means no
// advisory annotations.
func buildEngine(cfg *config.Config) *honeypot.Engine {
	opts := []honeypot.Option{
		honeypot.WithMaxTurns(cfg.MaxTurns),
		honeypot.WithReporter(callback.New(cfg.CallbackURL, cfg.CallbackAPIKey)),
		honeypot.WithLLMBudget(time.Duration(cfg.LLMTimeoutMs) * time.Millisecond),
	}

	personas, err := agent.LoadPersonas(cfg.PersonaFile)
	if err != nil {
		log.Printf("○ Persona overrides not loaded (%v), using built-ins", err)
	}
	opts = append(opts, honeypot.WithPersonas(personas, cfg.Persona))

	if cfg.EnableLLM && cfg.LLMProvider != config.ProviderNone {
		opts = append(opts, honeypot.WithPhraser(phrase.New(phrase.Config{
			Provider: phrase.Provider(cfg.LLMProvider),
			APIKey:   cfg.LLMAPIKey,
			Model:    cfg.LLMModel,
			BaseURL:  cfg.LLMBaseURL,
		})))
		log.Printf("✓ LLM phrasing enabled (provider: %s)", cfg.LLMProvider)
	} else {
		log.Println("○ LLM phrasing disabled, using fallback replies")
	}

	if cfg.EnableSemantics {
		detector, err := semantic.NewDetector(cfg.OllamaURL)
		if err != nil {
			log.Printf("○ Advisory detection disabled (init failed: %v)", err)
		} else {
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			if err := detector.LoadSeeds(ctx); err != nil {
				log.Printf("○ Advisory detection disabled (seed load failed: %v)", err)
			} else {
				opts = append(opts, honeypot.WithAdvisory(detector))
				log.Printf("✓ Advisory detection enabled (%d seed utterances)", detector.SeedCount())
			}
			cancel()
		}
	} else {
		log.Println("○ Advisory detection disabled")
	}

	if cfg.AuditLogPath != "" {
		auditLog, err := audit.Open(cfg.AuditLogPath)
		if err != nil {
			log.Printf("○ Audit trail disabled (%v)", err)
		} else {
			opts = append(opts, honeypot.WithAudit(auditLog))
			log.Printf("✓ Audit trail enabled (%s)", cfg.AuditLogPath)
		}
	}

	if cfg.CallbackURL != "" {
		log.Printf("✓ Report delivery enabled (%s)", cfg.CallbackURL)
	} else {
		log.Println("○ No callback URL, reports will be logged")
	}

	return honeypot.NewEngine(opts...)
}

func runHTTPServer(port string) {
	cfg := config.NewDefaultConfig()
	cfg.MustValidate()

	engine := buildEngine(cfg)

	app := fiber.New(fiber.Config{
		AppName: "Honeypot",
	})

	if cfg.APIKey == "" {
		log.Println("[STARTUP] Warning: HONEYPOT_API_KEY not set, API is unauthenticated")
	}
	app.Use(func(c fiber.Ctx) error {
		if cfg.APIKey != "" && c.Get("x-api-key") != cfg.APIKey {
			return c.Status(401).JSON(fiber.Map{"error": "invalid api key"})
		}
		return c.Next()
	})

	app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "ok",
			"version":  Version,
			"sessions": engine.SessionCount(),
		})
	})

	app.Post("/api/honeypot", func(c fiber.Ctx) error {
		var req honeypot.TurnRequest
		if err := c.Bind().Body(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
		}
		if req.SessionID == "" {
			return c.Status(400).JSON(fiber.Map{"error": "sessionId is required"})
		}
		if req.Message.Text == "" {
			return c.Status(400).JSON(fiber.Map{"error": "message.text is required"})
		}

		resp, err := engine.ProcessTurn(c.Context(), req)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(resp)
	})

	app.Get("/api/session/:id", func(c fiber.Ctx) error {
		snap, ok := engine.Snapshot(c.Params("id"))
		if !ok {
			return c.Status(404).JSON(fiber.Map{"error": "session not found"})
		}
		return c.JSON(snap)
	})

	app.Get("/api/chat/:id", func(c fiber.Ctx) error {
		snap, ok := engine.Snapshot(c.Params("id"))
		if !ok {
			return c.Status(404).JSON(fiber.Map{"error": "session not found"})
		}
		return c.JSON(fiber.Map{
			"sessionId":   snap.SessionID,
			"chatHistory": snap.ChatHistory,
		})
	})

	log.Printf("Honeypot HTTP server starting on :%s", port)
	log.Printf("Endpoints:")
	log.Printf("  GET  /health           - Health check")
	log.Printf("  POST /api/honeypot     - Process one conversation turn")
	log.Printf("  GET  /api/session/:id  - Session state snapshot")
	log.Printf("  GET  /api/chat/:id     - Conversation transcript")

	if err := app.Listen(":" + port); err != nil {
		log.Fatal(err)
	}
}

func runCLIScan(text string) {
	items, detected, scamType, prof := honeypot.Scan(text)

	out := struct {
		Text         string                      `json:"text"`
		ScamDetected bool                        `json:"scamDetected"`
		ScamType     detect.ScamType             `json:"scamType"`
		Intelligence map[intel.Kind][]intel.Item `json:"intelligence"`
		RiskScore    float64                     `json:"riskScore"`
		Keywords     []string                    `json:"suspiciousKeywords"`
	}{
		Text:         text,
		ScamDetected: detected,
		ScamType:     scamType,
		Intelligence: items,
		RiskScore:    prof.RiskScore(),
		Keywords:     detect.SuspiciousKeywords([]string{text}),
	}

	encoded, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(encoded))
}
