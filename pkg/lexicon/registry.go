// Package lexicon provides a centralized keyword registry for scam detection
// and behavior profiling. All word lists are registered once at package init
// and shared across the profiler, detector, and classifier.
//
// Design principles:
// - REGISTER ONCE: All word lists built at init, not per-request
// - DRY: Single source of truth for every scam keyword
// - CATEGORIZED: Lists organized by behavioral category for targeted scans
// - DETERMINISTIC: Matching is case-insensitive substring lookup, no scoring
//   model or randomness anywhere
package lexicon

import (
	"strings"
	"sync"
)

// Category represents a behavioral keyword category
type Category string

const (
	// Profiling categories (behavior signals)
	CategoryUrgency   Category = "urgency"
	CategoryThreat    Category = "threat"
	CategoryPayment   Category = "payment"
	CategoryAuthority Category = "authority"

	// Detection-only categories. CategoryRegulator is the detection-side
	// authority vocabulary; it deliberately omits generic words like "bank"
	// that the financial category already covers.
	CategoryFinancial    Category = "financial"
	CategoryRegulator    Category = "regulator"
	CategoryReward       Category = "reward"
	CategoryVerification Category = "verification"

	// Scam-type categories (classifier vocabulary)
	CategoryUPIFraud     Category = "upi_fraud"
	CategorySuspension   Category = "account_suspension"
	CategoryKYC          Category = "kyc_update"
	CategoryLottery      Category = "lottery_scam"
	CategoryTechSupport  Category = "tech_support"
	CategoryLoanFraud    Category = "loan_fraud"
)

// Registry holds all registered word lists, organized by category
type Registry struct {
	mu         sync.RWMutex
	byCategory map[Category][]string
}

// global singleton - initialized once at package load
var (
	globalRegistry *Registry
	initOnce       sync.Once
)

// Get returns the global lexicon registry (singleton)
// Thread-safe and guaranteed to be initialized
func Get() *Registry {
	initOnce.Do(func() {
		globalRegistry = newRegistry()
	})
	return globalRegistry
}

// newRegistry creates and populates the lexicon registry
func newRegistry() *Registry {
	r := &Registry{
		byCategory: make(map[Category][]string),
	}

	r.registerProfilingLexicons()
	r.registerDetectionLexicons()
	r.registerScamTypeLexicons()

	return r
}

// register adds a word list to the registry (internal use only)
func (r *Registry) register(cat Category, words ...string) {
	r.byCategory[cat] = append(r.byCategory[cat], words...)
}

// Words returns the word list for a category.
// Returns empty slice if category not found (never nil).
func (r *Registry) Words(cat Category) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if words, ok := r.byCategory[cat]; ok {
		return words
	}
	return []string{}
}

// CountMatches returns how many distinct words of the category appear in the
// text. Each word counts at most once no matter how often it repeats.
func (r *Registry) CountMatches(text string, cat Category) int {
	lower := strings.ToLower(text)
	count := 0
	for _, w := range r.Words(cat) {
		if strings.Contains(lower, w) {
			count++
		}
	}
	return count
}

// MatchedWords returns the distinct words of the category found in the text,
// in registration order.
func (r *Registry) MatchedWords(text string, cat Category) []string {
	lower := strings.ToLower(text)
	var matched []string
	for _, w := range r.Words(cat) {
		if strings.Contains(lower, w) {
			matched = append(matched, w)
		}
	}
	return matched
}

// MatchAny reports whether any word of any given category appears in the text.
func (r *Registry) MatchAny(text string, cats ...Category) bool {
	lower := strings.ToLower(text)
	for _, cat := range cats {
		for _, w := range r.Words(cat) {
			if strings.Contains(lower, w) {
				return true
			}
		}
	}
	return false
}

// CategoryCount returns the number of words in a category
func (r *Registry) CategoryCount(cat Category) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byCategory[cat])
}
