package classify

import "github.com/future-hause/hause-gateway/internal/types"

// Route builds a complete routing decision for the given text. It never
// fails: empty or missing input classifies as a low-risk ephemeral
// observation. Calling Route twice with identical input yields identical
// decisions.
func Route(text string) types.RoutingDecision {
	intent := Intent(text)
	return types.RoutingDecision{
		Intent:             intent,
		Risk:               RiskTier(text),
		Permanence:         PermanenceTier(text),
		AllowDraft:         intent == types.IntentDraftRequest,
		MustAnswerDirectly: intent == types.IntentQuestion || intent == types.IntentMeta,
	}
}
