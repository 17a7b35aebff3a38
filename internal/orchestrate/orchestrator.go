// Package orchestrate decides, for one classified input, whether a model
// backend may be invoked at all, and packages the result for the human
// review flow. It performs no recovery of its own: no retries, no adapter
// substitution, no flag suppression.
package orchestrate

import (
	"context"
	"log/slog"

	"github.com/future-hause/hause-gateway/internal/classify"
	"github.com/future-hause/hause-gateway/internal/draft"
	"github.com/future-hause/hause-gateway/internal/types"
)

// Outcome is the terminal state of one processed input. Every input reaches
// exactly one outcome before the next input is processed.
type Outcome string

const (
	OutcomeDirectAnswer   Outcome = "direct_answer"
	OutcomeRefused        Outcome = "refused"
	OutcomeAcknowledged   Outcome = "acknowledged"
	OutcomeDraftGenerated Outcome = "draft_generated"
)

// Input is one user message plus optional drafting parameters.
type Input struct {
	Text        string   `json:"text"`
	Constraints []string `json:"constraints,omitempty"`
	MaxTokens   int      `json:"max_tokens,omitempty"`
}

// Response is the assembled result for one input. Draft is set only when a
// backend was actually invoked; its risk flags are propagated unchanged.
type Response struct {
	Outcome  Outcome               `json:"outcome"`
	Decision types.RoutingDecision `json:"decision"`
	Message  string                `json:"message,omitempty"`
	Backend  string                `json:"backend,omitempty"`
	Draft    *types.DraftResult    `json:"draft,omitempty"`
}

// RemoteBudget caps remote backend usage. It is consulted once per remote
// draft; a denied or failed check refuses the draft with an explanation.
type RemoteBudget interface {
	Allow(ctx context.Context) (bool, error)
}

const (
	msgQuestion = "This is a direct question. Answering it is the operator's conversation, not a draft; no model backend was invoked."

	msgAction = "Future Hause does not execute actions. Nothing was committed, pushed, sent, or logged. " +
		"If this should happen, a human performs it and records it in the action log."

	msgObservation = "Noted. The observation was classified and is available for signal extraction; no draft was generated."

	msgAirplane = "Drafting is disabled in AIRPLANE mode. The request was classified, but no model backend was invoked. " +
		"Switch to LOCAL or WORK_REMOTE mode to enable drafting."

	msgNoBackend = "No model backend is configured for the current runtime mode, so no draft was generated."

	msgCapReached = "The daily remote draft cap has been reached. No remote backend was invoked; the cap resets at midnight UTC."

	msgCapUnavailable = "The remote draft budget could not be checked, so the remote backend was not invoked."
)

// Orchestrator routes classified inputs to at most one adapter call.
// Adapter selection is keyed off the runtime mode alone.
type Orchestrator struct {
	local  draft.Adapter
	remote draft.Adapter
	budget RemoteBudget
	health *draft.HealthTracker
	logger *slog.Logger
}

// New builds an orchestrator. Either adapter may be nil when the
// corresponding mode is not expected to be used; budget and health may be
// nil to disable capping and health reporting.
func New(local, remote draft.Adapter, budget RemoteBudget, health *draft.HealthTracker, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		local:  local,
		remote: remote,
		budget: budget,
		health: health,
		logger: logger,
	}
}

// Handle classifies the input and resolves it to a terminal outcome.
// Classification always completes before any adapter is considered, and
// adapters are never invoked for non-draft intents.
func (o *Orchestrator) Handle(ctx context.Context, mode types.RuntimeMode, in Input) Response {
	decision := classify.Route(in.Text)

	switch decision.Intent {
	case types.IntentMeta:
		return Response{Outcome: OutcomeDirectAnswer, Decision: decision, Message: draft.SystemIdentity}
	case types.IntentQuestion:
		return Response{Outcome: OutcomeDirectAnswer, Decision: decision, Message: msgQuestion}
	case types.IntentAction:
		return Response{Outcome: OutcomeRefused, Decision: decision, Message: msgAction}
	case types.IntentDraftRequest:
		return o.draftFlow(ctx, mode, decision, in)
	default:
		return Response{Outcome: OutcomeAcknowledged, Decision: decision, Message: msgObservation}
	}
}

func (o *Orchestrator) draftFlow(ctx context.Context, mode types.RuntimeMode, decision types.RoutingDecision, in Input) Response {
	if !mode.AllowsDrafting() {
		o.logger.Info("draft refused", "reason", "mode", "mode", string(mode))
		return Response{Outcome: OutcomeRefused, Decision: decision, Message: msgAirplane}
	}

	var adapter draft.Adapter
	if mode.AllowsLocal() {
		adapter = o.local
	} else {
		adapter = o.remote
	}
	if adapter == nil {
		o.logger.Warn("draft refused", "reason", "no_backend", "mode", string(mode))
		return Response{Outcome: OutcomeRefused, Decision: decision, Message: msgNoBackend}
	}

	if mode.AllowsRemote() && o.budget != nil {
		allowed, err := o.budget.Allow(ctx)
		if err != nil {
			o.logger.Error("remote budget check failed", "error", err)
			return Response{Outcome: OutcomeRefused, Decision: decision, Message: msgCapUnavailable}
		}
		if !allowed {
			o.logger.Info("draft refused", "reason", "daily_cap", "mode", string(mode))
			return Response{Outcome: OutcomeRefused, Decision: decision, Message: msgCapReached}
		}
	}

	req := types.DraftRequest{
		Intent:      string(decision.Intent),
		Prompt:      in.Text,
		Constraints: in.Constraints,
		MaxTokens:   in.MaxTokens,
	}

	result := adapter.Generate(ctx, req)
	if o.health != nil {
		if result.Failed() {
			o.health.RecordFailure(adapter.Name())
		} else {
			o.health.RecordSuccess(adapter.Name())
		}
	}
	o.logger.Info("draft generated",
		"backend", adapter.Name(),
		"model", result.Model,
		"failed", result.Failed(),
		"confidence", result.Confidence,
		"latency_ms", result.LatencyMs,
		"risk_flags", len(result.RiskFlags))

	return Response{
		Outcome:  OutcomeDraftGenerated,
		Decision: decision,
		Backend:  adapter.Name(),
		Draft:    &result,
	}
}
