// Package report turns a finished (or in-flight) session into the final
// intelligence payload and scores how confident the engagement is that it
// talked to a real scammer. Confidence is additive over independent
// signals, capped at 1.0, and computed from session aggregates only -
// stored intel items are never mutated.
package report

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sushant-bot/HONEY-POT/pkg/detect"
	"github.com/sushant-bot/HONEY-POT/pkg/intel"
	"github.com/sushant-bot/HONEY-POT/pkg/profile"
	"github.com/sushant-bot/HONEY-POT/pkg/session"
)

// Exit reasons recorded in the payload.
const (
	ExitIntelCollected  = "intel_collected"
	ExitMaxTurnsReached = "max_turns_reached"
)

// IntelEntry is one flattened intelligence item in the payload, carrying
// both the stored confidence and the report-time boosted confidence.
type IntelEntry struct {
	Type              intel.Kind `json:"type"`
	Value             string     `json:"value"`
	Confidence        float64    `json:"confidence"`
	BoostedConfidence float64    `json:"boostedConfidence"`
	SourceTurn        int        `json:"sourceTurn"`
	CrossSessions     int        `json:"crossSessionCount,omitempty"`
}

// Payload is the complete final report delivered for a session.
type Payload struct {
	ReportID               string                        `json:"reportId"`
	Timestamp              string                        `json:"timestamp"`
	SessionID              string                        `json:"sessionId"`
	ScamDetected           bool                          `json:"scamDetected"`
	ScamType               detect.ScamType               `json:"scamType"`
	ConversationTurns      int                           `json:"conversationTurns"`
	TotalMessagesExchanged int                           `json:"totalMessagesExchanged"`
	ExtractedIntelligence  []IntelEntry                  `json:"extractedIntelligence"`
	TotalItems             int                           `json:"totalItems"`
	AgentConfidence        float64                       `json:"agentConfidence"`
	BehaviorProfile        profile.Summary               `json:"behaviorProfile"`
	CrossSessionLinks      map[intel.Kind]map[string]int `json:"crossSessionLinks"`
	SuspiciousKeywords     []string                      `json:"suspiciousKeywords"`
	AgentNotes             string                        `json:"agentNotes"`
	ExitReason             string                        `json:"exitReason"`
	AdvisoryCategory       string                        `json:"advisoryCategory,omitempty"`
	AdvisoryScore          float64                       `json:"advisoryScore,omitempty"`
}

// Confidence scores how sure the engagement is, additively:
// detection 0.3, distinct intel up to 0.3, then 0.1 each for high urgency,
// observed payment pressure, threats, and a cross-session link.
// Rounded to 2 decimals, capped at 1.0.
func Confidence(detected bool, distinctIntel int, prof *profile.Profile, hasCrossLink bool) float64 {
	c := 0.0
	if detected {
		c += 0.3
	}
	c += math.Min(float64(distinctIntel)*0.1, 0.3)
	if prof.UrgencyScore > 0.5 {
		c += 0.1
	}
	if prof.PaymentRequested() {
		c += 0.1
	}
	if prof.ThreatCount > 0 {
		c += 0.1
	}
	if hasCrossLink {
		c += 0.1
	}
	return math.Min(math.Round(c*100)/100, 1.0)
}

// BoostConfidence derives a report-time confidence for a single item from
// behavioral corroboration. The stored item keeps its base confidence.
func BoostConfidence(base, urgencyScore float64, earlyPayment bool, crossSessions int) float64 {
	boosted := base
	if urgencyScore > 0.5 {
		boosted += 0.05
	}
	if earlyPayment {
		boosted += 0.05
	}
	if crossSessions > 1 {
		boosted += 0.1 * math.Min(float64(crossSessions-1), 3)
	}
	return math.Min(boosted, 1.0)
}

// Build assembles the final payload for a session. Called with the
// session lock held; the result shares no mutable state with the session.
func Build(s *session.Session, crossLinks map[intel.Kind]map[string]int) Payload {
	prof := s.Profile
	earlyPayment := prof.PaymentTurn > 0 && prof.PaymentTurn <= 2

	var entries []IntelEntry
	for _, kind := range intel.Kinds {
		for _, item := range s.Intelligence[kind] {
			crossCount := 0
			if byValue, ok := crossLinks[kind]; ok {
				crossCount = byValue[item.Value]
			}
			entries = append(entries, IntelEntry{
				Type:              kind,
				Value:             wireValue(item),
				Confidence:        item.Confidence,
				BoostedConfidence: BoostConfidence(item.Confidence, prof.UrgencyScore, earlyPayment, crossCount),
				SourceTurn:        item.SourceTurn,
				CrossSessions:     crossCount,
			})
		}
	}

	hasCrossLink := false
	for _, byValue := range crossLinks {
		if len(byValue) > 0 {
			hasCrossLink = true
			break
		}
	}

	return Payload{
		ReportID:               uuid.NewString(),
		Timestamp:              time.Now().UTC().Format(time.RFC3339),
		SessionID:              s.ID,
		ScamDetected:           s.ScamDetected,
		ScamType:               s.ScamType,
		ConversationTurns:      s.TurnCount,
		TotalMessagesExchanged: len(s.Transcript),
		ExtractedIntelligence:  entries,
		TotalItems:             len(entries),
		AgentConfidence:        Confidence(s.ScamDetected, s.DistinctIntelCount(), prof, hasCrossLink),
		BehaviorProfile:        prof.Summarize(),
		CrossSessionLinks:      crossLinks,
		SuspiciousKeywords:     detect.SuspiciousKeywords(s.AllMessages),
		AgentNotes:             agentNotes(prof),
		ExitReason:             s.ExitReason,
		AdvisoryCategory:       s.AdvisoryCategory,
		AdvisoryScore:          s.AdvisoryScore,
	}
}

// wireValue formats a value for delivery. Phone numbers are stored as bare
// 10-digit strings and go out with the country prefix.
func wireValue(item intel.Item) string {
	if item.Kind == intel.KindPhone && !strings.HasPrefix(item.Value, "+91") {
		return "+91" + item.Value
	}
	return item.Value
}

// agentNotes summarizes the behavioral evidence for a human reader.
func agentNotes(prof *profile.Profile) string {
	var parts []string
	if prof.UrgencyScore > 0.5 {
		parts = append(parts, "Scammer used urgency tactics")
	}
	if prof.PaymentRequested() {
		parts = append(parts, "payment redirection attempted")
	}
	if prof.ThreatCount > 0 {
		parts = append(parts, "threats detected")
	}
	if len(prof.IdentityClaims) > 0 {
		parts = append(parts, fmt.Sprintf("claimed to be %s", strings.Join(prof.IdentityClaims, ", ")))
	}
	if len(parts) == 0 {
		return "Standard scam engagement completed"
	}
	return strings.Join(parts, ". ")
}
