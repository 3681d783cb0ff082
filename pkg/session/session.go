// Package session owns per-conversation state and the global intelligence
// index that correlates values across conversations. The store hands out
// sessions under a per-session lock so at most one turn is in flight per
// conversation while different conversations proceed in parallel.
package session

import (
	"time"

	"github.com/sushant-bot/HONEY-POT/pkg/agent"
	"github.com/sushant-bot/HONEY-POT/pkg/detect"
	"github.com/sushant-bot/HONEY-POT/pkg/intel"
	"github.com/sushant-bot/HONEY-POT/pkg/profile"
)

// Message is one entry in a session transcript.
type Message struct {
	Role      string `json:"role"` // "scammer" or "agent"
	Content   string `json:"content"`
	Turn      int    `json:"turn"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

// Session is the full state of one honeypot conversation.
// Fields are only touched while the store's per-session lock is held.
type Session struct {
	ID           string
	State        agent.State
	TurnCount    int
	ScamDetected bool
	ScamType     detect.ScamType

	AllMessages  []string // scammer text only, classification input
	Transcript   []Message
	Intelligence map[intel.Kind][]intel.Item
	Profile      *profile.Profile

	// Complete latches when the session reaches EXIT and its report has
	// been built. Write-once: later turns get a canned goodbye.
	Complete   bool
	ExitReason string

	// Advisory annotation from the optional similarity detector.
	// Never consulted by any control decision.
	AdvisoryCategory string
	AdvisoryScore    float64

	CreatedAt  time.Time
	LastTurnAt time.Time
}

func newSession(id string) *Session {
	now := time.Now()
	return &Session{
		ID:           id,
		State:        agent.StateInit,
		ScamType:     detect.TypeUnknown,
		Intelligence: make(map[intel.Kind][]intel.Item),
		Profile:      profile.New(),
		CreatedAt:    now,
		LastTurnAt:   now,
	}
}

// AddIntel appends freshly extracted items to the session collection.
func (s *Session) AddIntel(extracted map[intel.Kind][]intel.Item) {
	for _, kind := range intel.Kinds {
		if items := extracted[kind]; len(items) > 0 {
			s.Intelligence[kind] = append(s.Intelligence[kind], items...)
		}
	}
}

// DistinctIntelCount returns the number of distinct (kind, value) pairs
// collected so far. This is the count the state machine and confidence
// model run on: the same UPI handle repeated five times is one fact.
func (s *Session) DistinctIntelCount() int {
	n := 0
	for _, kind := range intel.Kinds {
		seen := make(map[string]bool)
		for _, item := range s.Intelligence[kind] {
			if !seen[item.Value] {
				seen[item.Value] = true
				n++
			}
		}
	}
	return n
}

// HasKind reports whether any item of the kind has been collected.
func (s *Session) HasKind(kind intel.Kind) bool {
	return len(s.Intelligence[kind]) > 0
}

// Snapshot is a read-only copy of session state for the HTTP surface.
type Snapshot struct {
	SessionID       string                      `json:"sessionId"`
	State           agent.State                 `json:"state"`
	Turns           int                         `json:"turns"`
	ScamDetected    bool                        `json:"scamDetected"`
	ScamType        detect.ScamType             `json:"scamType"`
	Intelligence    map[intel.Kind][]intel.Item `json:"intelligence"`
	BehaviorProfile profile.Summary             `json:"behaviorProfile"`
	IsComplete      bool                        `json:"isComplete"`
	ExitReason      string                      `json:"exitReason,omitempty"`
	ChatHistory     []Message                   `json:"chatHistory"`
}

// snapshot deep-copies the mutable state. Caller holds the session lock.
func (s *Session) snapshot() Snapshot {
	intelCopy := make(map[intel.Kind][]intel.Item, len(s.Intelligence))
	for kind, items := range s.Intelligence {
		intelCopy[kind] = append([]intel.Item(nil), items...)
	}

	return Snapshot{
		SessionID:       s.ID,
		State:           s.State,
		Turns:           s.TurnCount,
		ScamDetected:    s.ScamDetected,
		ScamType:        s.ScamType,
		Intelligence:    intelCopy,
		BehaviorProfile: s.Profile.Summarize(),
		IsComplete:      s.Complete,
		ExitReason:      s.ExitReason,
		ChatHistory:     append([]Message(nil), s.Transcript...),
	}
}
