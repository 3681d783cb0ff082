// Package intel extracts actionable intelligence (payment handles, phone
// numbers, URLs, bank accounts, routing codes) from scam messages.
// Extraction is pure: same text in, same items out, no network or state.
package intel

// Kind identifies the type of an extracted item. The string values are the
// wire names used in snapshots and reports.
type Kind string

const (
	KindPaymentHandle Kind = "upi"
	KindPhone         Kind = "phone"
	KindURL           Kind = "link"
	KindBankAccount   Kind = "bank_account"
	KindRoutingCode   Kind = "ifsc"
)

// Kinds lists every kind in extraction order. Iterating this slice instead of
// ranging over maps keeps snapshot and report output deterministic.
var Kinds = []Kind{
	KindPaymentHandle,
	KindPhone,
	KindURL,
	KindBankAccount,
	KindRoutingCode,
}

// Item is a single piece of extracted intelligence.
// Items are immutable once stored; derived values (boosted confidence,
// cross-session counts) are computed at report time, never written back.
type Item struct {
	Kind       Kind    `json:"type"`
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
	SourceTurn int     `json:"sourceTurn"`
	Context    string  `json:"context,omitempty"`
}

// Count returns the total number of items across all kinds.
func Count(items map[Kind][]Item) int {
	n := 0
	for _, list := range items {
		n += len(list)
	}
	return n
}
