package agent

import (
	"testing"

	"github.com/sushant-bot/HONEY-POT/pkg/intel"
)

func TestSelectIntentCycles(t *testing.T) {
	// COMPLIANT has 3 intents; turns 0..2 must hit each once, turn 3 wraps
	seen := make(map[string]bool)
	for turn := 0; turn < 3; turn++ {
		seen[SelectIntent(StateCompliant, turn)] = true
	}
	if len(seen) != 3 {
		t.Errorf("expected 3 distinct intents over 3 turns, got %d", len(seen))
	}

	if SelectIntent(StateCompliant, 0) != SelectIntent(StateCompliant, 3) {
		t.Error("intent selection should wrap around modulo the list length")
	}
}

func TestSelectIntentDeterministic(t *testing.T) {
	for turn := 0; turn < 12; turn++ {
		a := SelectIntent(StateExtraction, turn)
		b := SelectIntent(StateExtraction, turn)
		if a != b {
			t.Fatalf("turn %d: intent not deterministic: %q vs %q", turn, a, b)
		}
	}
}

func TestFallbackReplyForEveryState(t *testing.T) {
	states := []State{StateInit, StateConfused, StateTrusting, StateCompliant, StateExtraction, StateExit}
	for _, s := range states {
		for turn := 0; turn < 5; turn++ {
			if FallbackReply(s, turn) == "" {
				t.Errorf("empty fallback reply for state %s turn %d", s, turn)
			}
		}
	}
}

func TestShouldProbe(t *testing.T) {
	if ShouldProbe(StateConfused, 0) {
		t.Error("should not probe while confused")
	}
	if !ShouldProbe(StateCompliant, 2) {
		t.Error("should probe while compliant with thin intel")
	}
	if !ShouldProbe(StateExtraction, 0) {
		t.Error("should probe while extracting with no intel")
	}
	if ShouldProbe(StateExtraction, 3) {
		t.Error("should stop probing once enough intel is collected")
	}
}

func TestProbeIntent(t *testing.T) {
	if got := ProbeIntent(intel.KindPhone); got != "ask for a contact number to confirm" {
		t.Errorf("phone probe = %q", got)
	}
	if got := ProbeIntent(intel.KindBankAccount); got != "ask for more details" {
		t.Errorf("unmapped kind should get the generic probe, got %q", got)
	}
}
