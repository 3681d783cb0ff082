// Package honeypot wires the pipeline together: every scammer turn flows
// through extraction, profiling, detection, the state machine, and intent
// selection before a reply leaves the building. All decisions are
// deterministic; the LLM only phrases, and report delivery runs detached
// from the conversation.
package honeypot

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/sushant-bot/HONEY-POT/pkg/agent"
	"github.com/sushant-bot/HONEY-POT/pkg/audit"
	"github.com/sushant-bot/HONEY-POT/pkg/callback"
	"github.com/sushant-bot/HONEY-POT/pkg/detect"
	"github.com/sushant-bot/HONEY-POT/pkg/httputil"
	"github.com/sushant-bot/HONEY-POT/pkg/intel"
	"github.com/sushant-bot/HONEY-POT/pkg/phrase"
	"github.com/sushant-bot/HONEY-POT/pkg/profile"
	"github.com/sushant-bot/HONEY-POT/pkg/report"
	"github.com/sushant-bot/HONEY-POT/pkg/semantic"
	"github.com/sushant-bot/HONEY-POT/pkg/session"
)

// TurnMessage is the inbound message of one turn.
type TurnMessage struct {
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// TurnRequest is the API payload for one conversation turn.
type TurnRequest struct {
	SessionID           string            `json:"sessionId"`
	Message             TurnMessage       `json:"message"`
	ConversationHistory []TurnMessage     `json:"conversationHistory,omitempty"`
	Metadata            map[string]string `json:"metadata,omitempty"`
}

// TurnResponse is what goes back to the caller platform.
type TurnResponse struct {
	Status string `json:"status"`
	Reply  string `json:"reply"`
}

const (
	completedReply   = "Thank you, I will check this later."
	nonScammerReply  = "Okay."
	deliveryTimeout  = 30 * time.Second
	advisoryTimeout  = 2 * time.Second
	defaultLLMBudget = 8 * time.Second
)

// Engine orchestrates the honeypot pipeline.
type Engine struct {
	store    *session.Store
	index    *session.Index
	phraser  phrase.Phraser
	reporter callback.Reporter
	advisory *semantic.Detector
	auditLog *audit.Logger

	personas    map[string]agent.Persona
	personaName string
	maxTurns    int
	llmBudget   time.Duration
	deliverySem *httputil.Semaphore
}

// Option configures an Engine.
type Option func(*Engine)

// WithPhraser installs an LLM phrasing collaborator.
func WithPhraser(p phrase.Phraser) Option {
	return func(e *Engine) { e.phraser = p }
}

// WithReporter installs the report delivery backend.
func WithReporter(r callback.Reporter) Option {
	return func(e *Engine) { e.reporter = r }
}

// WithAdvisory installs the optional similarity detector.
func WithAdvisory(d *semantic.Detector) Option {
	return func(e *Engine) { e.advisory = d }
}

// WithAudit installs the decision trail logger.
func WithAudit(l *audit.Logger) Option {
	return func(e *Engine) { e.auditLog = l }
}

// WithPersonas sets the persona catalog and the active persona name.
func WithPersonas(personas map[string]agent.Persona, name string) Option {
	return func(e *Engine) {
		e.personas = personas
		e.personaName = name
	}
}

// WithMaxTurns sets the engagement ceiling.
func WithMaxTurns(n int) Option {
	return func(e *Engine) { e.maxTurns = n }
}

// WithLLMBudget sets the per-reply time budget for LLM phrasing.
func WithLLMBudget(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.llmBudget = d
		}
	}
}

// NewEngine creates an engine. Without options it runs fully offline:
// fallback replies, logged reports, no advisory annotations.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		store:       session.NewStore(),
		index:       session.NewIndex(),
		reporter:    &callback.LogReporter{},
		personaName: "default",
		maxTurns:    agent.DefaultMaxTurns,
		llmBudget:   defaultLLMBudget,
		deliverySem: httputil.NewSemaphore(32),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ProcessTurn runs one scammer message through the full pipeline and
// returns the agent's reply. Safe for concurrent use across sessions;
// turns within one session are serialized by the store.
func (e *Engine) ProcessTurn(ctx context.Context, req TurnRequest) (TurnResponse, error) {
	s, release := e.store.Acquire(req.SessionID)
	defer release()

	if s.Complete {
		return TurnResponse{Status: "success", Reply: completedReply}, nil
	}
	if req.Message.Sender != "" && req.Message.Sender != "scammer" {
		return TurnResponse{Status: "success", Reply: nonScammerReply}, nil
	}

	s.TurnCount++
	turn := s.TurnCount
	s.LastTurnAt = time.Now()

	text := req.Message.Text
	s.AllMessages = append(s.AllMessages, text)
	s.Transcript = append(s.Transcript, session.Message{
		Role: "scammer", Content: text, Turn: turn, Timestamp: req.Message.Timestamp,
	})

	extracted := intel.Extract(text, turn)
	s.AddIntel(extracted)
	e.index.Record(s.ID, extracted)

	s.Profile.Analyze(text, turn)

	// Detection latches: once a scammer, always a scammer. The type is
	// re-derived every turn because later messages sharpen it.
	combined := strings.Join(s.AllMessages, " ")
	if !s.ScamDetected && detect.IsScam(combined) {
		s.ScamDetected = true
		log.Printf("[DETECT] Session %s flagged as scam on turn %d", s.ID, turn)
	}
	if s.ScamDetected {
		s.ScamType = detect.Classify(s.AllMessages)
	}

	intelCount := s.DistinctIntelCount()
	s.State = agent.Next(s.State, turn, s.Profile.PaymentRequested(), intelCount, e.maxTurns)

	intent := e.selectIntent(s, intelCount, turn)
	reply, replySource := e.composeReply(ctx, s, intent, text, turn)

	s.Transcript = append(s.Transcript, session.Message{
		Role: "agent", Content: reply, Turn: turn,
	})

	reportEmitted := false
	if agent.IsTerminal(s.State) && !s.Complete {
		e.finishSession(ctx, s, turn)
		reportEmitted = true
	}

	confidence := e.recordTurn(s, turn, intent, replySource, intelCount, reportEmitted)
	log.Printf("[Turn %d] State: %s, Intel: %d, Confidence: %.2f", turn, s.State, intelCount, confidence)

	return TurnResponse{Status: "success", Reply: reply}, nil
}

// selectIntent picks the cycled intent for the state, swapping in a
// targeted probe when the collection is thin and a key kind is missing.
func (e *Engine) selectIntent(s *session.Session, intelCount, turn int) string {
	if agent.ShouldProbe(s.State, intelCount) {
		for _, kind := range []intel.Kind{intel.KindPaymentHandle, intel.KindPhone, intel.KindURL} {
			if !s.HasKind(kind) {
				return agent.ProbeIntent(kind)
			}
		}
	}
	return agent.SelectIntent(s.State, turn)
}

// composeReply phrases the intent through the LLM when one is configured
// and its output passes persona validation; otherwise the deterministic
// fallback line for the state is used.
func (e *Engine) composeReply(ctx context.Context, s *session.Session, intent, scammerText string, turn int) (string, string) {
	persona := agent.GetPersona(e.personas, e.personaName)

	if e.phraser != nil {
		phraseCtx, cancel := context.WithTimeout(ctx, e.llmBudget)
		defer cancel()

		reply, err := e.phraser.Phrase(phraseCtx, phrase.Request{
			Intent:         intent,
			State:          s.State,
			ScammerMessage: scammerText,
			Persona:        persona,
		})
		if err != nil {
			log.Printf("[PHRASE] Session %s turn %d: LLM failed, using fallback: %v", s.ID, turn, err)
		} else if !agent.ValidateReply(reply, persona) {
			log.Printf("[PHRASE] Session %s turn %d: LLM reply rejected by persona filter", s.ID, turn)
		} else {
			return reply, "llm"
		}
	}

	return agent.FallbackReply(s.State, turn), "fallback"
}

// finishSession latches completion, annotates, builds the report, and
// hands it off for delivery. The conversation never waits on delivery.
func (e *Engine) finishSession(ctx context.Context, s *session.Session, turn int) {
	s.Complete = true
	if turn >= e.maxTurns {
		s.ExitReason = report.ExitMaxTurnsReached
	} else {
		s.ExitReason = report.ExitIntelCollected
	}

	e.annotate(ctx, s)

	crossLinks := e.index.CrossLinks(s.Intelligence)
	payload := report.Build(s, crossLinks)

	log.Printf("[EXIT] Session %s complete after %d turns (%s), report %s queued",
		s.ID, turn, s.ExitReason, payload.ReportID)

	if !e.deliverySem.TryAcquire() {
		log.Printf("[CALLBACK] Delivery capacity exhausted, dropping report %s (dropped so far: %d)",
			payload.ReportID, e.deliverySem.DroppedCount())
		return
	}
	go func() {
		defer e.deliverySem.Release()
		deliverCtx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
		defer cancel()
		if err := e.reporter.Deliver(deliverCtx, payload); err != nil {
			log.Printf("[CALLBACK] %v", err)
		}
	}()
}

// annotate attaches the advisory similarity result, if a detector is
// configured and ready. Failures only cost the annotation.
func (e *Engine) annotate(ctx context.Context, s *session.Session) {
	if e.advisory == nil || !e.advisory.IsReady() || len(s.AllMessages) == 0 {
		return
	}

	advCtx, cancel := context.WithTimeout(ctx, advisoryTimeout)
	defer cancel()

	res, err := e.advisory.Detect(advCtx, strings.Join(s.AllMessages, " "))
	if err != nil {
		log.Printf("[ADVISORY] Session %s: %v", s.ID, err)
		return
	}
	if res.IsMatch {
		s.AdvisoryCategory = res.Category
		s.AdvisoryScore = float64(res.Score)
	}
}

func (e *Engine) recordTurn(s *session.Session, turn int, intent, replySource string, intelCount int, reportEmitted bool) float64 {
	hasCrossLink := len(e.index.CrossLinks(s.Intelligence)) > 0
	confidence := report.Confidence(s.ScamDetected, intelCount, s.Profile, hasCrossLink)

	if err := e.auditLog.Record(audit.Event{
		SessionID:     s.ID,
		Turn:          turn,
		State:         s.State,
		ScamDetected:  s.ScamDetected,
		ScamType:      s.ScamType,
		Intent:        intent,
		ReplySource:   replySource,
		IntelCount:    intelCount,
		Confidence:    confidence,
		ReportEmitted: reportEmitted,
	}); err != nil {
		log.Printf("[AUDIT] %v", err)
	}
	return confidence
}

// Snapshot exposes read-only session state for the HTTP surface.
func (e *Engine) Snapshot(id string) (session.Snapshot, bool) {
	return e.store.Snapshot(id)
}

// SessionCount returns the number of sessions seen.
func (e *Engine) SessionCount() int {
	return e.store.Len()
}

// Scan runs the stateless analyzers over a single text, for the CLI.
func Scan(text string) (map[intel.Kind][]intel.Item, bool, detect.ScamType, *profile.Profile) {
	items := intel.Extract(text, 1)
	prof := profile.New()
	prof.Analyze(text, 1)
	detected := detect.IsScam(text)
	scamType := detect.TypeUnknown
	if detected {
		scamType = detect.Classify([]string{text})
	}
	return items, detected, scamType, prof
}
