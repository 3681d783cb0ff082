package honeypot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sushant-bot/HONEY-POT/pkg/agent"
	"github.com/sushant-bot/HONEY-POT/pkg/detect"
	"github.com/sushant-bot/HONEY-POT/pkg/intel"
	"github.com/sushant-bot/HONEY-POT/pkg/phrase"
	"github.com/sushant-bot/HONEY-POT/pkg/report"
)

// captureReporter hands delivered payloads to the test over a channel,
// since delivery runs on its own goroutine.
type captureReporter struct {
	delivered chan report.Payload
}

func newCaptureReporter() *captureReporter {
	return &captureReporter{delivered: make(chan report.Payload, 4)}
}

func (r *captureReporter) Deliver(_ context.Context, p report.Payload) error {
	r.delivered <- p
	return nil
}

func (r *captureReporter) waitForReport(t *testing.T) report.Payload {
	t.Helper()
	select {
	case p := <-r.delivered:
		return p
	case <-time.After(2 * time.Second):
		t.Fatal("no report delivered")
		return report.Payload{}
	}
}

func (r *captureReporter) expectNoReport(t *testing.T) {
	t.Helper()
	select {
	case p := <-r.delivered:
		t.Fatalf("unexpected report %s", p.ReportID)
	case <-time.After(100 * time.Millisecond):
	}
}

type stubPhraser struct {
	reply string
	err   error
}

func (p *stubPhraser) Phrase(_ context.Context, _ phrase.Request) (string, error) {
	return p.reply, p.err
}

func turn(sessionID, text string) TurnRequest {
	return TurnRequest{
		SessionID: sessionID,
		Message:   TurnMessage{Sender: "scammer", Text: text},
	}
}

func TestScriptedConversation(t *testing.T) {
	rep := newCaptureReporter()
	e := NewEngine(WithReporter(rep))
	ctx := context.Background()

	script := []struct {
		text      string
		wantState agent.State
	}{
		{"Hello, I am calling from your bank", agent.StateConfused},
		{"Your account will be blocked today, verify now", agent.StateTrusting},
		{"Send money to scammer@paytm immediately", agent.StateCompliant},
		{"Also call me on 9876543210", agent.StateCompliant},
		{"Pay the fee now", agent.StateExtraction},
		{"Hurry up", agent.StateExit},
	}

	for i, step := range script {
		resp, err := e.ProcessTurn(ctx, turn("conv-1", step.text))
		if err != nil {
			t.Fatalf("turn %d: %v", i+1, err)
		}
		if resp.Status != "success" || resp.Reply == "" {
			t.Fatalf("turn %d: bad response %+v", i+1, resp)
		}
		snap, ok := e.Snapshot("conv-1")
		if !ok {
			t.Fatalf("turn %d: session missing", i+1)
		}
		if snap.State != step.wantState {
			t.Errorf("turn %d: state = %s, want %s", i+1, snap.State, step.wantState)
		}
	}

	snap, _ := e.Snapshot("conv-1")
	if !snap.ScamDetected {
		t.Error("scam should be detected")
	}
	if snap.ScamType != detect.TypeUPIFraud {
		t.Errorf("scam type = %s, want UPI_FRAUD", snap.ScamType)
	}
	if !snap.IsComplete {
		t.Error("session should be complete after EXIT")
	}

	p := rep.waitForReport(t)
	if p.SessionID != "conv-1" {
		t.Errorf("report session = %s", p.SessionID)
	}
	if p.ExitReason != report.ExitIntelCollected {
		t.Errorf("exit reason = %s, want %s", p.ExitReason, report.ExitIntelCollected)
	}
	if p.TotalItems != 2 {
		t.Errorf("total items = %d, want 2 (handle + phone)", p.TotalItems)
	}
	if p.ConversationTurns != 6 {
		t.Errorf("turns = %d, want 6", p.ConversationTurns)
	}
}

func TestCompletedSessionGetsCannedReply(t *testing.T) {
	rep := newCaptureReporter()
	e := NewEngine(WithReporter(rep), WithMaxTurns(1))
	ctx := context.Background()

	if _, err := e.ProcessTurn(ctx, turn("done", "send money now")); err != nil {
		t.Fatal(err)
	}
	rep.waitForReport(t)

	resp, err := e.ProcessTurn(ctx, turn("done", "are you there?"))
	if err != nil {
		t.Fatal(err)
	}
	if resp.Reply != completedReply {
		t.Errorf("reply = %q, want canned goodbye", resp.Reply)
	}

	// A completed session must never report again.
	rep.expectNoReport(t)
	snap, _ := e.Snapshot("done")
	if snap.Turns != 1 {
		t.Errorf("turns = %d, completed sessions must not advance", snap.Turns)
	}
}

func TestExitByCeiling(t *testing.T) {
	rep := newCaptureReporter()
	e := NewEngine(WithReporter(rep), WithMaxTurns(3))
	ctx := context.Background()

	for _, text := range []string{"hello", "are you there", "please respond"} {
		if _, err := e.ProcessTurn(ctx, turn("ceiling", text)); err != nil {
			t.Fatal(err)
		}
	}

	snap, _ := e.Snapshot("ceiling")
	if snap.State != agent.StateExit || !snap.IsComplete {
		t.Errorf("state = %s complete = %v, want EXIT and complete", snap.State, snap.IsComplete)
	}

	p := rep.waitForReport(t)
	if p.ExitReason != report.ExitMaxTurnsReached {
		t.Errorf("exit reason = %s, want %s", p.ExitReason, report.ExitMaxTurnsReached)
	}
	if p.ScamDetected {
		t.Error("benign chatter should not be flagged")
	}
}

func TestNonScammerSender(t *testing.T) {
	e := NewEngine()
	resp, err := e.ProcessTurn(context.Background(), TurnRequest{
		SessionID: "ns",
		Message:   TurnMessage{Sender: "user", Text: "hi"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Reply != nonScammerReply {
		t.Errorf("reply = %q, want %q", resp.Reply, nonScammerReply)
	}
	if snap, ok := e.Snapshot("ns"); ok && snap.Turns != 0 {
		t.Errorf("non-scammer messages must not consume turns, got %d", snap.Turns)
	}
}

func TestPhraserFailureFallsBack(t *testing.T) {
	e := NewEngine(WithPhraser(&stubPhraser{err: errors.New("provider down")}))

	resp, err := e.ProcessTurn(context.Background(), turn("fb", "your account is blocked"))
	if err != nil {
		t.Fatal(err)
	}
	// State is CONFUSED on turn 1, so the reply is its cycled line.
	if resp.Reply != agent.FallbackReply(agent.StateConfused, 1) {
		t.Errorf("reply = %q, want the deterministic fallback", resp.Reply)
	}
}

func TestPhraserForbiddenReplyRejected(t *testing.T) {
	e := NewEngine(WithPhraser(&stubPhraser{reply: "I think this is a scam, I will call the police"}))

	resp, err := e.ProcessTurn(context.Background(), turn("reject", "your account is blocked"))
	if err != nil {
		t.Fatal(err)
	}
	if resp.Reply != agent.FallbackReply(agent.StateConfused, 1) {
		t.Errorf("forbidden LLM reply must be replaced, got %q", resp.Reply)
	}
}

func TestPhraserReplyUsedWhenValid(t *testing.T) {
	e := NewEngine(WithPhraser(&stubPhraser{reply: "Sir, why is this happening to my account?"}))

	resp, err := e.ProcessTurn(context.Background(), turn("ok", "your account is blocked"))
	if err != nil {
		t.Fatal(err)
	}
	if resp.Reply != "Sir, why is this happening to my account?" {
		t.Errorf("valid LLM reply should be used, got %q", resp.Reply)
	}
}

func TestCrossSessionLinksInReport(t *testing.T) {
	rep := newCaptureReporter()
	e := NewEngine(WithReporter(rep), WithMaxTurns(1))
	ctx := context.Background()

	if _, err := e.ProcessTurn(ctx, turn("first", "send money to shared@upi now")); err != nil {
		t.Fatal(err)
	}
	rep.waitForReport(t)

	if _, err := e.ProcessTurn(ctx, turn("second", "send money to shared@upi now")); err != nil {
		t.Fatal(err)
	}
	p := rep.waitForReport(t)

	links := p.CrossSessionLinks[intel.KindPaymentHandle]
	if links == nil || links["shared@upi"] != 2 {
		t.Errorf("cross session links = %v, want shared@upi seen in 2 sessions", p.CrossSessionLinks)
	}
	if len(p.ExtractedIntelligence) == 0 || p.ExtractedIntelligence[0].CrossSessions != 2 {
		t.Errorf("item cross session count missing: %+v", p.ExtractedIntelligence)
	}
}

func TestProbeIntentTargetsMissingKind(t *testing.T) {
	e := NewEngine()
	s, release := e.store.Acquire("probe")
	s.State = agent.StateCompliant
	s.AddIntel(map[intel.Kind][]intel.Item{
		intel.KindPaymentHandle: {{Kind: intel.KindPaymentHandle, Value: "x@upi"}},
	})
	intelCount := s.DistinctIntelCount()
	release()

	got := e.selectIntent(s, intelCount, 4)
	if got != agent.ProbeIntent(intel.KindPhone) {
		t.Errorf("intent = %q, want a phone probe", got)
	}
}

func TestScan(t *testing.T) {
	items, detected, scamType, prof := Scan("Your account is blocked, send money to fraud@upi immediately")
	if !detected {
		t.Error("text should be detected")
	}
	if scamType != detect.TypeUPIFraud {
		t.Errorf("scam type = %s", scamType)
	}
	if len(items[intel.KindPaymentHandle]) != 1 {
		t.Errorf("expected one handle, got %v", items)
	}
	if !prof.PaymentRequested() {
		t.Error("payment should be flagged")
	}
}
