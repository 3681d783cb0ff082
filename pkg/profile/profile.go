// Package profile accumulates behavioral signals about a scammer over the
// life of a conversation: urgency, aggression, payment pressure, and
// authority impersonation. All scoring is deterministic keyword counting.
package profile

import (
	"github.com/sushant-bot/HONEY-POT/pkg/lexicon"
)

// Signal scores divide matched words by these to normalize into 0..1.
// Aggression saturates faster: two threat words already read as aggressive.
const (
	urgencyDivisor    = 3.0
	aggressionDivisor = 2.0
)

// Summary level thresholds over the normalized scores.
const (
	levelHighAbove   = 0.6
	levelMediumAbove = 0.3
)

// Profile holds the accumulated behavioral state for one session.
// Scores only ever ratchet upward; counters only grow. Not safe for
// concurrent use on its own - the owning session serializes access.
type Profile struct {
	UrgencyScore        float64  `json:"urgencyScore"`
	AggressionScore     float64  `json:"aggressionScore"`
	PaymentTurn         int      `json:"paymentRequestTurn"` // 0 = never requested
	PaymentRequestCount int      `json:"paymentRequestCount"`
	ThreatCount         int      `json:"threatCount"`
	IdentityClaims      []string `json:"identityClaims"`
	TotalMessages       int      `json:"totalMessages"`

	claimSeen map[string]bool
}

// Summary is the human-readable projection included in reports.
type Summary struct {
	UrgencyLevel       string   `json:"urgencyLevel"`
	AggressionLevel    string   `json:"aggressionLevel"`
	PaymentRequestedAt int      `json:"paymentRequestedAtTurn"`
	IdentityClaims     []string `json:"identityClaims"`
	RiskScore          float64  `json:"riskScore"`
}

// New creates an empty profile.
func New() *Profile {
	return &Profile{
		IdentityClaims: []string{},
		claimSeen:      make(map[string]bool),
	}
}

// Analyze folds one scammer message into the profile.
// turn is the 1-based conversation turn the message arrived on.
func (p *Profile) Analyze(text string, turn int) {
	reg := lexicon.Get()
	p.TotalMessages++

	if n := reg.CountMatches(text, lexicon.CategoryUrgency); n > 0 {
		score := clamp01(float64(n) / urgencyDivisor)
		if score > p.UrgencyScore {
			p.UrgencyScore = score
		}
	}

	if n := reg.CountMatches(text, lexicon.CategoryThreat); n > 0 {
		p.ThreatCount += n
		score := clamp01(float64(n) / aggressionDivisor)
		if score > p.AggressionScore {
			p.AggressionScore = score
		}
	}

	if reg.MatchAny(text, lexicon.CategoryPayment) {
		p.PaymentRequestCount++
		if p.PaymentTurn == 0 {
			p.PaymentTurn = turn
		}
	}

	for _, claim := range reg.MatchedWords(text, lexicon.CategoryAuthority) {
		if !p.claimSeen[claim] {
			p.claimSeen[claim] = true
			p.IdentityClaims = append(p.IdentityClaims, claim)
		}
	}
}

// PaymentRequested reports whether any payment pressure has been seen.
func (p *Profile) PaymentRequested() bool {
	return p.PaymentTurn > 0
}

// RiskScore combines the accumulated signals into a single 0..1 score.
// Early payment requests (turn 1-2) weigh heavier than late ones.
func (p *Profile) RiskScore() float64 {
	score := p.UrgencyScore*0.25 + p.AggressionScore*0.25

	switch {
	case p.PaymentTurn > 0 && p.PaymentTurn <= 2:
		score += 0.2
	case p.PaymentTurn > 0:
		score += 0.1
	}

	switch {
	case p.PaymentRequestCount >= 3:
		score += 0.15
	case p.PaymentRequestCount >= 1:
		score += 0.05
	}

	switch {
	case len(p.IdentityClaims) >= 2:
		score += 0.15
	case len(p.IdentityClaims) >= 1:
		score += 0.05
	}

	return clamp01(score)
}

// Summarize builds the report projection of the profile.
func (p *Profile) Summarize() Summary {
	claims := make([]string, len(p.IdentityClaims))
	copy(claims, p.IdentityClaims)

	return Summary{
		UrgencyLevel:       level(p.UrgencyScore),
		AggressionLevel:    level(p.AggressionScore),
		PaymentRequestedAt: p.PaymentTurn,
		IdentityClaims:     claims,
		RiskScore:          p.RiskScore(),
	}
}

func level(score float64) string {
	switch {
	case score > levelHighAbove:
		return "high"
	case score > levelMediumAbove:
		return "medium"
	default:
		return "low"
	}
}

func clamp01(v float64) float64 {
	if v > 1.0 {
		return 1.0
	}
	if v < 0 {
		return 0
	}
	return v
}
