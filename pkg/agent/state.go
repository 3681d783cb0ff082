// Package agent holds the conversation brain: the state machine that decides
// where the engagement is, the intent selector that decides WHAT to say, and
// the persona layer that constrains HOW it may be said. Everything here is
// deterministic; the only non-deterministic step in the whole pipeline
// (LLM phrasing) lives outside this package and can only rephrase, never
// decide.
package agent

// State is the engagement phase of a honeypot conversation.
type State string

const (
	StateInit       State = "INIT"       // first contact, nothing decided yet
	StateConfused   State = "CONFUSED"   // playing confused about the situation
	StateTrusting   State = "TRUSTING"   // starting to trust the caller
	StateCompliant  State = "COMPLIANT"  // agreeing to follow instructions
	StateExtraction State = "EXTRACTION" // actively probing for intelligence
	StateExit       State = "EXIT"       // terminal, conversation is over
)

// DefaultMaxTurns is the engagement ceiling when none is configured.
const DefaultMaxTurns = 10

// Next computes the state after a counterpart turn. Pure function of its
// inputs: replaying the same transcript always yields the same walk.
//
// The turn ceiling dominates everything, including EXIT staying terminal.
// intelCount is the number of distinct (kind, value) pairs collected so far.
func Next(current State, turnCount int, paymentRequested bool, intelCount, maxTurns int) State {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}

	if current == StateExit {
		return StateExit
	}
	if turnCount >= maxTurns {
		return StateExit
	}

	switch current {
	case StateInit:
		return StateConfused

	case StateConfused:
		if turnCount >= 2 {
			return StateTrusting
		}
		return StateConfused

	case StateTrusting:
		if paymentRequested || turnCount >= 4 {
			return StateCompliant
		}
		return StateTrusting

	case StateCompliant:
		if turnCount >= 5 {
			return StateExtraction
		}
		return StateCompliant

	case StateExtraction:
		if intelCount >= 2 || turnCount >= 8 {
			return StateExit
		}
		return StateExtraction
	}

	return current
}

// IsTerminal reports whether the state ends the engagement.
func IsTerminal(s State) bool {
	return s == StateExit
}
