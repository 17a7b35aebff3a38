// Package classify implements the deterministic routing boundary: a pure
// keyword classifier over free-text input. No model calls, no clock, no
// randomness. Classification must be free and auditable before any costly
// or risky model call is permitted.
package classify

import (
	"strings"

	"github.com/future-hause/hause-gateway/internal/types"
)

// normalize lowercases and trims the input. Classification operates on the
// normalized form only.
func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Intent classifies text into one of the five intents. Checks run in fixed
// priority order (meta, action, draft_request, question) and the first
// match wins. Anything unmatched is an observation, the safe default.
func Intent(text string) types.Intent {
	t := normalize(text)
	if t == "" {
		return types.IntentObservation
	}

	if containsAny(t, metaPhrases) {
		return types.IntentMeta
	}
	if hasAnyPrefix(t, actionPrefixes) || containsAny(t, actionVerbs) {
		return types.IntentAction
	}
	if containsAny(t, draftKeywords) {
		return types.IntentDraftRequest
	}
	if strings.Contains(t, "?") || hasAnyPrefix(t, interrogativePrefixes) {
		return types.IntentQuestion
	}
	return types.IntentObservation
}

// RiskTier classifies the sensitivity of the text. High-risk keywords are
// checked before medium; the first matching tier wins.
func RiskTier(text string) types.Risk {
	t := normalize(text)
	if containsAny(t, highRiskKeywords) {
		return types.RiskHigh
	}
	if containsAny(t, mediumRiskKeywords) {
		return types.RiskMedium
	}
	return types.RiskLow
}

// PermanenceTier classifies how durable the interaction is expected to be.
func PermanenceTier(text string) types.Permanence {
	t := normalize(text)
	if containsAny(t, recordAdjacentKeywords) {
		return types.PermanenceRecordAdjacent
	}
	if containsAny(t, draftOnlyKeywords) {
		return types.PermanenceDraftOnly
	}
	return types.PermanenceEphemeral
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func hasAnyPrefix(text string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(text, p) {
			return true
		}
	}
	return false
}
