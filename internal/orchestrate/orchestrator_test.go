package orchestrate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/future-hause/hause-gateway/internal/draft"
	"github.com/future-hause/hause-gateway/internal/types"
)

// fakeAdapter counts invocations and returns a canned result.
type fakeAdapter struct {
	name   string
	calls  int
	result types.DraftResult
}

func (f *fakeAdapter) Name() string { return f.name }

func (f *fakeAdapter) Generate(_ context.Context, _ types.DraftRequest) types.DraftResult {
	f.calls++
	return f.result
}

type fakeBudget struct {
	allowed bool
	err     error
	calls   int
}

func (b *fakeBudget) Allow(_ context.Context) (bool, error) {
	b.calls++
	return b.allowed, b.err
}

func goodResult(model string) types.DraftResult {
	return types.DraftResult{
		DraftText:  "Draft: summary of the reported issue and proposed next steps for review.",
		Confidence: 0.6,
		Model:      model,
		LatencyMs:  12,
	}
}

func newTestOrchestrator(local, remote draft.Adapter, budget RemoteBudget) *Orchestrator {
	return New(local, remote, budget, draft.NewHealthTracker(), nil)
}

func TestHandle_QuestionNeverInvokesAdapter(t *testing.T) {
	local := &fakeAdapter{name: "local", result: goodResult("m")}
	remote := &fakeAdapter{name: "remote", result: goodResult("m")}
	o := newTestOrchestrator(local, remote, nil)

	resp := o.Handle(context.Background(), types.ModeLocal, Input{Text: "why is the freshdesk queue growing?"})

	if resp.Outcome != OutcomeDirectAnswer {
		t.Errorf("expected direct_answer, got %s", resp.Outcome)
	}
	if resp.Decision.Intent != types.IntentQuestion {
		t.Errorf("expected question intent, got %s", resp.Decision.Intent)
	}
	if local.calls != 0 || remote.calls != 0 {
		t.Errorf("adapters must not be invoked for questions: local=%d remote=%d", local.calls, remote.calls)
	}
	if resp.Draft != nil {
		t.Error("no draft expected")
	}
}

func TestHandle_MetaReturnsIdentity(t *testing.T) {
	o := newTestOrchestrator(&fakeAdapter{name: "local"}, nil, nil)

	resp := o.Handle(context.Background(), types.ModeLocal, Input{Text: "what is future hause?"})

	if resp.Outcome != OutcomeDirectAnswer {
		t.Fatalf("expected direct_answer, got %s", resp.Outcome)
	}
	if resp.Message != draft.SystemIdentity {
		t.Error("meta answer must be the fixed identity text")
	}
}

func TestHandle_ActionRefusedWithoutAdapterCall(t *testing.T) {
	local := &fakeAdapter{name: "local", result: goodResult("m")}
	o := newTestOrchestrator(local, nil, nil)

	resp := o.Handle(context.Background(), types.ModeLocal, Input{Text: "commit this change"})

	if resp.Outcome != OutcomeRefused {
		t.Errorf("expected refused, got %s", resp.Outcome)
	}
	if local.calls != 0 {
		t.Errorf("adapter invoked %d times for an action", local.calls)
	}
	if !strings.Contains(resp.Message, "does not execute actions") {
		t.Errorf("refusal must explain the no-action contract, got %q", resp.Message)
	}
}

func TestHandle_ObservationAcknowledged(t *testing.T) {
	o := newTestOrchestrator(&fakeAdapter{name: "local"}, nil, nil)

	resp := o.Handle(context.Background(), types.ModeLocal, Input{Text: "saw three similar tickets about the importer today"})

	if resp.Outcome != OutcomeAcknowledged {
		t.Errorf("expected acknowledged, got %s", resp.Outcome)
	}
}

func TestHandle_DraftRequestUsesLocalInLocalMode(t *testing.T) {
	local := &fakeAdapter{name: "local", result: goodResult("llama3.1:latest")}
	remote := &fakeAdapter{name: "remote", result: goodResult("gpt-4o-mini")}
	o := newTestOrchestrator(local, remote, nil)

	resp := o.Handle(context.Background(), types.ModeLocal, Input{Text: "draft a work log for today"})

	if resp.Outcome != OutcomeDraftGenerated {
		t.Fatalf("expected draft_generated, got %s", resp.Outcome)
	}
	if local.calls != 1 || remote.calls != 0 {
		t.Errorf("expected exactly one local call: local=%d remote=%d", local.calls, remote.calls)
	}
	if resp.Backend != "local" {
		t.Errorf("expected local backend, got %s", resp.Backend)
	}
	if resp.Draft == nil || resp.Draft.Model != "llama3.1:latest" {
		t.Errorf("unexpected draft: %+v", resp.Draft)
	}
}

func TestHandle_DraftRequestUsesRemoteInRemoteModes(t *testing.T) {
	for _, mode := range []types.RuntimeMode{types.ModeWorkRemote, types.ModeDemo} {
		t.Run(string(mode), func(t *testing.T) {
			local := &fakeAdapter{name: "local", result: goodResult("m")}
			remote := &fakeAdapter{name: "remote", result: goodResult("m")}
			o := newTestOrchestrator(local, remote, nil)

			resp := o.Handle(context.Background(), mode, Input{Text: "draft a work log for today"})

			if resp.Outcome != OutcomeDraftGenerated {
				t.Fatalf("expected draft_generated, got %s", resp.Outcome)
			}
			if remote.calls != 1 || local.calls != 0 {
				t.Errorf("expected exactly one remote call: local=%d remote=%d", local.calls, remote.calls)
			}
		})
	}
}

func TestHandle_AirplaneModeRefusesWithExplanation(t *testing.T) {
	local := &fakeAdapter{name: "local", result: goodResult("m")}
	remote := &fakeAdapter{name: "remote", result: goodResult("m")}
	o := newTestOrchestrator(local, remote, nil)

	resp := o.Handle(context.Background(), types.ModeAirplane, Input{Text: "draft a work log for today"})

	if resp.Outcome != OutcomeRefused {
		t.Fatalf("expected refused, got %s", resp.Outcome)
	}
	if local.calls != 0 || remote.calls != 0 {
		t.Errorf("no adapter may be invoked in AIRPLANE mode: local=%d remote=%d", local.calls, remote.calls)
	}
	if !strings.Contains(resp.Message, "AIRPLANE") {
		t.Errorf("refusal must explain drafting is disabled, got %q", resp.Message)
	}
}

func TestHandle_MissingBackendRefuses(t *testing.T) {
	o := newTestOrchestrator(nil, nil, nil)

	resp := o.Handle(context.Background(), types.ModeLocal, Input{Text: "draft a work log for today"})

	if resp.Outcome != OutcomeRefused {
		t.Errorf("expected refused when no backend is configured, got %s", resp.Outcome)
	}
}

func TestHandle_RemoteCapRefuses(t *testing.T) {
	remote := &fakeAdapter{name: "remote", result: goodResult("m")}
	budget := &fakeBudget{allowed: false}
	o := newTestOrchestrator(nil, remote, budget)

	resp := o.Handle(context.Background(), types.ModeWorkRemote, Input{Text: "draft a work log for today"})

	if resp.Outcome != OutcomeRefused {
		t.Fatalf("expected refused, got %s", resp.Outcome)
	}
	if remote.calls != 0 {
		t.Errorf("remote invoked %d times past the cap", remote.calls)
	}
	if budget.calls != 1 {
		t.Errorf("budget consulted %d times", budget.calls)
	}
}

func TestHandle_BudgetErrorFailsClosed(t *testing.T) {
	remote := &fakeAdapter{name: "remote", result: goodResult("m")}
	budget := &fakeBudget{err: errors.New("redis down")}
	o := newTestOrchestrator(nil, remote, budget)

	resp := o.Handle(context.Background(), types.ModeWorkRemote, Input{Text: "draft a work log for today"})

	if resp.Outcome != OutcomeRefused {
		t.Errorf("expected refused on budget error, got %s", resp.Outcome)
	}
	if remote.calls != 0 {
		t.Error("remote must not be invoked when the budget check fails")
	}
}

func TestHandle_BudgetNotConsultedForLocal(t *testing.T) {
	local := &fakeAdapter{name: "local", result: goodResult("m")}
	budget := &fakeBudget{allowed: false}
	o := newTestOrchestrator(local, nil, budget)

	resp := o.Handle(context.Background(), types.ModeLocal, Input{Text: "draft a work log for today"})

	if resp.Outcome != OutcomeDraftGenerated {
		t.Fatalf("expected draft_generated, got %s", resp.Outcome)
	}
	if budget.calls != 0 {
		t.Errorf("budget consulted %d times for a local draft", budget.calls)
	}
}

func TestHandle_FailedDraftPropagatesFlagsUnchanged(t *testing.T) {
	failed := types.DraftResult{
		Confidence: 0.0,
		Model:      "llama3.1:latest",
		RiskFlags:  []types.RiskFlag{types.FlagModelTimeout},
	}
	local := &fakeAdapter{name: "local", result: failed}
	o := newTestOrchestrator(local, nil, nil)

	resp := o.Handle(context.Background(), types.ModeLocal, Input{Text: "draft a work log for today"})

	if resp.Outcome != OutcomeDraftGenerated {
		t.Fatalf("a failed draft is still a terminal draft outcome, got %s", resp.Outcome)
	}
	if resp.Draft == nil || !resp.Draft.HasFlag(types.FlagModelTimeout) {
		t.Errorf("flags must pass through unchanged: %+v", resp.Draft)
	}
	if !resp.Draft.Failed() {
		t.Error("result must remain visibly failed")
	}
}

func TestHandle_EmptyInputAcknowledged(t *testing.T) {
	local := &fakeAdapter{name: "local", result: goodResult("m")}
	o := newTestOrchestrator(local, nil, nil)

	resp := o.Handle(context.Background(), types.ModeLocal, Input{})

	if resp.Outcome != OutcomeAcknowledged {
		t.Errorf("empty input defaults to observation, got %s", resp.Outcome)
	}
	if resp.Decision.Intent != types.IntentObservation {
		t.Errorf("expected observation, got %s", resp.Decision.Intent)
	}
	if local.calls != 0 {
		t.Error("no adapter call for empty input")
	}
}
