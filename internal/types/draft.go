package types

// RiskFlag is a structured signal attached to a draft result explaining a
// quality or failure concern. The set is closed: adapters may only emit
// flags from this enumeration.
type RiskFlag string

const (
	FlagLowConfidence         RiskFlag = "low_confidence"
	FlagAmbiguousRequest      RiskFlag = "ambiguous_request"
	FlagMissingContext        RiskFlag = "missing_context"
	FlagPossibleHallucination RiskFlag = "possible_hallucination"
	FlagFormatViolation       RiskFlag = "format_violation"
	FlagModelTimeout          RiskFlag = "model_timeout"
	FlagUnknownError          RiskFlag = "unknown_error"
)

func ParseRiskFlag(s string) (RiskFlag, bool) {
	switch RiskFlag(s) {
	case FlagLowConfidence, FlagAmbiguousRequest, FlagMissingContext,
		FlagPossibleHallucination, FlagFormatViolation, FlagModelTimeout,
		FlagUnknownError:
		return RiskFlag(s), true
	default:
		return "", false
	}
}

// DraftRequest is the input handed to a draft adapter. The intent label is
// advisory only; adapters do not re-validate it.
type DraftRequest struct {
	Intent      string   `json:"intent"`
	Prompt      string   `json:"prompt"`
	Constraints []string `json:"constraints,omitempty"`
	MaxTokens   int      `json:"max_tokens,omitempty"`
}

// DraftResult is the outcome of a single adapter call. An empty DraftText
// signals total failure; RiskFlags always explain why confidence is zero or
// low. Never mutated after construction.
type DraftResult struct {
	DraftText  string     `json:"draft_text"`
	Confidence float64    `json:"confidence"`
	Model      string     `json:"model"`
	LatencyMs  int64      `json:"latency_ms"`
	RiskFlags  []RiskFlag `json:"risk_flags"`
}

// Failed reports whether the call produced no usable draft.
func (r DraftResult) Failed() bool {
	return r.DraftText == ""
}

// HasFlag reports whether the result carries the given risk flag.
func (r DraftResult) HasFlag(flag RiskFlag) bool {
	for _, f := range r.RiskFlags {
		if f == flag {
			return true
		}
	}
	return false
}
