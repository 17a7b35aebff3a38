package draft

import (
	"strings"

	"github.com/future-hause/hause-gateway/internal/types"
)

// heuristic holds the per-backend confidence parameters. The heuristic is
// fixed at construction; it never adapts.
type heuristic struct {
	start          float64
	shortOutputLen int
}

var (
	localHeuristic  = heuristic{start: 0.6, shortOutputLen: 100}
	remoteHeuristic = heuristic{start: 0.55, shortOutputLen: 120}
)

// hedgingPhrases indicate the model itself is unsure about the request.
var hedgingPhrases = []string{"not sure", "cannot determine", "unclear"}

// absolutePhrases indicate overconfident phrasing. A draft claiming
// certainty is a risk signal, not a quality signal.
var absolutePhrases = []string{"definitely", "guaranteed", "certain"}

// shortPromptLen marks original prompts too short to carry enough context.
const shortPromptLen = 20

// scoreDraft computes a confidence score and the layered quality risk flags
// for a successful generation. Confidence is clamped to [0,1] even when
// every penalty stacks.
func scoreDraft(output, prompt string, h heuristic) (float64, []types.RiskFlag) {
	confidence := h.start
	var flags []types.RiskFlag

	lower := strings.ToLower(output)

	if len(output) < h.shortOutputLen {
		confidence -= 0.15
		flags = append(flags, types.FlagLowConfidence)
	}
	if containsAnyPhrase(lower, hedgingPhrases) {
		confidence -= 0.15
		flags = append(flags, types.FlagAmbiguousRequest)
	}
	if len(prompt) < shortPromptLen {
		confidence -= 0.2
		flags = append(flags, types.FlagMissingContext)
	}
	if containsAnyPhrase(lower, absolutePhrases) {
		confidence -= 0.1
		flags = append(flags, types.FlagPossibleHallucination)
	}

	return clamp01(confidence), flags
}

func containsAnyPhrase(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0.0 {
		return 0.0
	}
	if v > 1.0 {
		return 1.0
	}
	return v
}
