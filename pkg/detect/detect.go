// Package detect decides whether a message is a scam attempt and, given a
// conversation, which known scam family it belongs to. Both decisions are
// deterministic keyword scoring over the shared lexicon - no model calls,
// no randomness, replayable from the transcript alone.
package detect

import (
	"strings"

	"github.com/sushant-bot/HONEY-POT/pkg/lexicon"
)

// DetectionThreshold is the number of distinct signal categories a single
// message must hit before it is treated as a scam. One category alone
// (e.g. "bank") is everyday conversation; two or more is a pattern.
const DetectionThreshold = 2

// detectionCategories are the signal families scored by the gate.
// Each category contributes at most one point per message.
var detectionCategories = []lexicon.Category{
	lexicon.CategoryUrgency,
	lexicon.CategoryThreat,
	lexicon.CategoryFinancial,
	lexicon.CategoryRegulator,
	lexicon.CategoryReward,
	lexicon.CategoryVerification,
}

// ScamType labels the scam family of a conversation.
type ScamType string

const (
	TypeUPIFraud    ScamType = "UPI_FRAUD"
	TypeSuspension  ScamType = "ACCOUNT_SUSPENSION"
	TypeKYC         ScamType = "KYC_UPDATE"
	TypeLottery     ScamType = "LOTTERY_SCAM"
	TypeTechSupport ScamType = "TECH_SUPPORT"
	TypeLoanFraud   ScamType = "LOAN_FRAUD"
	TypeUnknown     ScamType = "UNKNOWN"
)

// scamTypeOrder fixes the tie-break: earlier entries win on equal scores.
var scamTypeOrder = []struct {
	Type     ScamType
	Category lexicon.Category
}{
	{TypeUPIFraud, lexicon.CategoryUPIFraud},
	{TypeSuspension, lexicon.CategorySuspension},
	{TypeKYC, lexicon.CategoryKYC},
	{TypeLottery, lexicon.CategoryLottery},
	{TypeTechSupport, lexicon.CategoryTechSupport},
	{TypeLoanFraud, lexicon.CategoryLoanFraud},
}

// suspiciousKeywords is the fixed digest vocabulary scanned over whole
// conversations for the final report.
var suspiciousKeywords = []string{
	"urgent", "verify now", "account blocked", "immediately", "suspended",
	"freeze", "otp", "share", "transfer", "kyc", "update", "expire",
	"deadline", "penalty",
}

// Score counts how many signal categories the message hits.
// Returns the score and the categories that fired, in fixed order.
func Score(text string) (int, []lexicon.Category) {
	reg := lexicon.Get()
	score := 0
	var hit []lexicon.Category
	for _, cat := range detectionCategories {
		if reg.CountMatches(text, cat) > 0 {
			score++
			hit = append(hit, cat)
		}
	}
	return score, hit
}

// IsScam reports whether a single message crosses the detection threshold.
func IsScam(text string) bool {
	score, _ := Score(text)
	return score >= DetectionThreshold
}

// Classify assigns a scam type to the whole conversation so far.
// All messages are joined and scored per family; the highest count wins
// and ties resolve in declaration order. No hits at all means UNKNOWN.
func Classify(messages []string) ScamType {
	if len(messages) == 0 {
		return TypeUnknown
	}

	combined := strings.ToLower(strings.Join(messages, " "))
	reg := lexicon.Get()

	best := TypeUnknown
	bestScore := 0
	for _, entry := range scamTypeOrder {
		if score := reg.CountMatches(combined, entry.Category); score > bestScore {
			bestScore = score
			best = entry.Type
		}
	}
	return best
}

// SuspiciousKeywords returns the digest keywords present anywhere in the
// conversation, in digest-vocabulary order.
func SuspiciousKeywords(messages []string) []string {
	combined := strings.ToLower(strings.Join(messages, " "))
	var found []string
	for _, kw := range suspiciousKeywords {
		if strings.Contains(combined, kw) {
			found = append(found, kw)
		}
	}
	return found
}
