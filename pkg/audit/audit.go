// Package audit writes an append-only JSONL trail of every turn decision.
// The trail is what makes a deterministic engine auditable: replaying a
// transcript against the log shows exactly why each reply was chosen.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sushant-bot/HONEY-POT/pkg/agent"
	"github.com/sushant-bot/HONEY-POT/pkg/detect"
)

// Event records one turn's decisions.
type Event struct {
	ID            string          `json:"id"`
	Time          string          `json:"time"`
	SessionID     string          `json:"sessionId"`
	Turn          int             `json:"turn"`
	State         agent.State     `json:"state"`
	ScamDetected  bool            `json:"scamDetected"`
	ScamType      detect.ScamType `json:"scamType"`
	Intent        string          `json:"intent"`
	ReplySource   string          `json:"replySource"` // "llm" or "fallback"
	IntelCount    int             `json:"intelCount"`
	Confidence    float64         `json:"confidence"`
	ReportEmitted bool            `json:"reportEmitted"`
}

// Logger appends events to a JSONL file. A nil Logger is valid and drops
// everything, so callers never need to branch on whether auditing is on.
type Logger struct {
	mu   sync.Mutex
	file *os.File
}

// Open creates or appends to the audit file at path.
func Open(path string) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("audit: open %s: %w", path, err)
	}
	return &Logger{file: f}, nil
}

// Record appends one event. Fills in ID and Time when unset.
func (l *Logger) Record(ev Event) error {
	if l == nil {
		return nil
	}
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.Time == "" {
		ev.Time = time.Now().UTC().Format(time.RFC3339)
	}

	line, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("audit: marshal event: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("audit: write event: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}
