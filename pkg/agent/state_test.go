package agent

import (
	"testing"
)

func TestStateProgression(t *testing.T) {
	testCases := []struct {
		name      string
		current   State
		turn      int
		payment   bool
		intel     int
		want      State
	}{
		{name: "init always advances", current: StateInit, turn: 1, want: StateConfused},
		{name: "confused holds before turn 2", current: StateConfused, turn: 1, want: StateConfused},
		{name: "confused advances at turn 2", current: StateConfused, turn: 2, want: StateTrusting},
		{name: "trusting holds without pressure", current: StateTrusting, turn: 3, want: StateTrusting},
		{name: "payment request accelerates trusting", current: StateTrusting, turn: 3, payment: true, want: StateCompliant},
		{name: "trusting advances at turn 4 regardless", current: StateTrusting, turn: 4, want: StateCompliant},
		{name: "compliant holds before turn 5", current: StateCompliant, turn: 4, want: StateCompliant},
		{name: "compliant advances at turn 5", current: StateCompliant, turn: 5, want: StateExtraction},
		{name: "extraction holds while intel is thin", current: StateExtraction, turn: 6, intel: 1, want: StateExtraction},
		{name: "extraction exits on enough intel", current: StateExtraction, turn: 6, intel: 2, want: StateExit},
		{name: "extraction exits at turn 8", current: StateExtraction, turn: 8, intel: 0, want: StateExit},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Next(tc.current, tc.turn, tc.payment, tc.intel, DefaultMaxTurns)
			if got != tc.want {
				t.Errorf("Next(%s, turn=%d, payment=%v, intel=%d) = %s, want %s",
					tc.current, tc.turn, tc.payment, tc.intel, got, tc.want)
			}
		})
	}
}

func TestTurnCeilingDominatesEveryState(t *testing.T) {
	states := []State{StateInit, StateConfused, StateTrusting, StateCompliant, StateExtraction}
	for _, s := range states {
		if got := Next(s, DefaultMaxTurns, false, 0, DefaultMaxTurns); got != StateExit {
			t.Errorf("state %s at the turn ceiling should exit, got %s", s, got)
		}
	}
}

func TestExitIsTerminal(t *testing.T) {
	if got := Next(StateExit, 3, true, 5, DefaultMaxTurns); got != StateExit {
		t.Errorf("EXIT must be terminal, got %s", got)
	}
	if !IsTerminal(StateExit) {
		t.Error("IsTerminal(EXIT) = false")
	}
	if IsTerminal(StateExtraction) {
		t.Error("IsTerminal(EXTRACTION) = true")
	}
}

func TestCustomCeiling(t *testing.T) {
	if got := Next(StateConfused, 5, false, 0, 5); got != StateExit {
		t.Errorf("turn 5 with ceiling 5 should exit, got %s", got)
	}
	// Zero ceiling falls back to the default
	if got := Next(StateConfused, 5, false, 0, 0); got == StateExit {
		t.Error("turn 5 with default ceiling should not exit")
	}
}

func TestDeterministicWalk(t *testing.T) {
	// The same inputs must always produce the same state sequence
	walk := func() []State {
		var seq []State
		s := StateInit
		for turn := 1; turn <= 10; turn++ {
			s = Next(s, turn, turn >= 3, turn/3, DefaultMaxTurns)
			seq = append(seq, s)
			if IsTerminal(s) {
				break
			}
		}
		return seq
	}

	a, b := walk(), walk()
	if len(a) != len(b) {
		t.Fatalf("walk lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("walks diverge at step %d: %s vs %s", i, a[i], b[i])
		}
	}
}
