package intel

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Compiled once at package load, shared across all sessions.
var (
	handleRe = regexp.MustCompile(`\b[\w.\-]+@[a-zA-Z]{2,}\b`)
	phoneRe  = regexp.MustCompile(`\+91\s?[6-9]\d{9}\b|\b[6-9]\d{9}\b`)
	urlRe    = regexp.MustCompile(`https?://[^\s<>"{}|\\^` + "`" + `\[\]]+`)

	// Grouped account numbers like 1234-5678-9012-3456 or space separated.
	groupedAccountRe = regexp.MustCompile(`\b\d{4}[-\s]\d{4}[-\s]\d{4}(?:[-\s]\d{0,4})?\b`)
	plainAccountRe   = regexp.MustCompile(`\b\d{11,18}\b`)

	routingRe = regexp.MustCompile(`(?i)\b[A-Z]{4}0[A-Z0-9]{6}\b`)

	separatorRe = regexp.MustCompile(`[-\s]`)
	nonDigitRe  = regexp.MustCompile(`\D`)
)

// Confidence per kind reflects how unambiguous the pattern is: URLs and
// routing codes rarely false-positive, grouped digit runs often do.
const (
	confHandle         = 0.9
	confPhone          = 0.85
	confURL            = 0.95
	confBankPlain      = 0.8
	confBankGrouped    = 0.7
	confRouting        = 0.95
	contextBefore      = 20
	contextAfter       = 30
	contextFallbackLen = 50
)

// Extract pulls all recognizable intelligence out of a single message.
// The text is NFKC-normalized first so full-width digits and compatibility
// forms cannot hide a phone number or account from the patterns.
// Values are deduplicated within the message preserving first-seen order.
func Extract(text string, turn int) map[Kind][]Item {
	text = norm.NFKC.String(text)

	items := make(map[Kind][]Item)

	extractHandles(text, turn, items)
	extractPhones(text, turn, items)
	extractURLs(text, turn, items)
	extractBankAccounts(text, turn, items)
	extractRoutingCodes(text, turn, items)

	return items
}

func extractHandles(text string, turn int, items map[Kind][]Item) {
	seen := make(map[string]bool)
	for _, m := range handleRe.FindAllString(text, -1) {
		if seen[m] {
			continue
		}
		seen[m] = true
		items[KindPaymentHandle] = append(items[KindPaymentHandle], Item{
			Kind:       KindPaymentHandle,
			Value:      m,
			Confidence: confHandle,
			SourceTurn: turn,
			Context:    contextAround(text, m),
		})
	}
}

func extractPhones(text string, turn int, items map[Kind][]Item) {
	seen := make(map[string]bool)
	for _, m := range phoneRe.FindAllString(text, -1) {
		// Store the bare 10-digit number; the country prefix is
		// re-applied when building the report.
		digits := nonDigitRe.ReplaceAllString(m, "")
		if len(digits) > 10 {
			digits = digits[len(digits)-10:]
		}
		if seen[digits] {
			continue
		}
		seen[digits] = true
		items[KindPhone] = append(items[KindPhone], Item{
			Kind:       KindPhone,
			Value:      digits,
			Confidence: confPhone,
			SourceTurn: turn,
			Context:    contextAround(text, m),
		})
	}
}

func extractURLs(text string, turn int, items map[Kind][]Item) {
	seen := make(map[string]bool)
	for _, m := range urlRe.FindAllString(text, -1) {
		cleaned := strings.TrimRight(m, "!.,;:?")
		if cleaned == "" || seen[cleaned] {
			continue
		}
		seen[cleaned] = true
		items[KindURL] = append(items[KindURL], Item{
			Kind:       KindURL,
			Value:      cleaned,
			Confidence: confURL,
			SourceTurn: turn,
			Context:    contextAround(text, cleaned),
		})
	}
}

func extractBankAccounts(text string, turn int, items map[Kind][]Item) {
	// Phone numbers are plausible 10-digit runs; strip them first so they
	// are never double-reported as account numbers.
	stripped := phoneRe.ReplaceAllString(text, "")

	seen := make(map[string]bool)
	add := func(match string, confidence float64) {
		digits := separatorRe.ReplaceAllString(match, "")
		if len(digits) < 11 || len(digits) > 18 {
			return
		}
		if seen[digits] {
			return
		}
		seen[digits] = true
		items[KindBankAccount] = append(items[KindBankAccount], Item{
			Kind:       KindBankAccount,
			Value:      digits,
			Confidence: confidence,
			SourceTurn: turn,
			Context:    contextAround(text, match),
		})
	}

	for _, m := range groupedAccountRe.FindAllString(stripped, -1) {
		add(m, confBankGrouped)
	}
	for _, m := range plainAccountRe.FindAllString(stripped, -1) {
		add(m, confBankPlain)
	}
}

func extractRoutingCodes(text string, turn int, items map[Kind][]Item) {
	seen := make(map[string]bool)
	for _, m := range routingRe.FindAllString(text, -1) {
		code := strings.ToUpper(m)
		if seen[code] {
			continue
		}
		seen[code] = true
		items[KindRoutingCode] = append(items[KindRoutingCode], Item{
			Kind:       KindRoutingCode,
			Value:      code,
			Confidence: confRouting,
			SourceTurn: turn,
			Context:    contextAround(text, m),
		})
	}
}

// contextAround returns a window of surrounding text for an extracted value,
// so analysts see how it was presented. Falls back to the message head when
// the raw match is not found (e.g. the stored value was normalized).
func contextAround(text, needle string) string {
	idx := strings.Index(text, needle)
	if idx < 0 {
		if len(text) > contextFallbackLen {
			return text[:contextFallbackLen]
		}
		return text
	}

	start := idx - contextBefore
	if start < 0 {
		start = 0
	}
	end := idx + len(needle) + contextAfter
	if end > len(text) {
		end = len(text)
	}
	return text[start:end]
}
