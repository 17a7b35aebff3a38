package types

// Intent is the classified purpose of a user message.
type Intent string

const (
	IntentQuestion     Intent = "question"
	IntentDraftRequest Intent = "draft_request"
	IntentObservation  Intent = "observation"
	IntentMeta         Intent = "meta"
	IntentAction       Intent = "action"
)

func ParseIntent(s string) (Intent, bool) {
	switch Intent(s) {
	case IntentQuestion, IntentDraftRequest, IntentObservation, IntentMeta, IntentAction:
		return Intent(s), true
	default:
		return "", false
	}
}

// Risk is the sensitivity tier of the content/topic.
type Risk string

const (
	RiskLow    Risk = "low"
	RiskMedium Risk = "medium"
	RiskHigh   Risk = "high"
)

// Level returns a numeric level for comparison. Higher values mean more sensitive.
func (r Risk) Level() int {
	switch r {
	case RiskLow:
		return 0
	case RiskMedium:
		return 1
	case RiskHigh:
		return 2
	default:
		return -1
	}
}

func ParseRisk(s string) (Risk, bool) {
	switch Risk(s) {
	case RiskLow, RiskMedium, RiskHigh:
		return Risk(s), true
	default:
		return "", false
	}
}

// Permanence is how durable/record-like the interaction is expected to be.
type Permanence string

const (
	PermanenceEphemeral      Permanence = "ephemeral"
	PermanenceDraftOnly      Permanence = "draft_only"
	PermanenceRecordAdjacent Permanence = "record_adjacent"
)

func ParsePermanence(s string) (Permanence, bool) {
	switch Permanence(s) {
	case PermanenceEphemeral, PermanenceDraftOnly, PermanenceRecordAdjacent:
		return Permanence(s), true
	default:
		return "", false
	}
}

// RoutingDecision is the deterministic classification of a single user input.
// It is derived entirely from the input text. Immutable once produced.
type RoutingDecision struct {
	Intent             Intent     `json:"intent"`
	Risk               Risk       `json:"risk"`
	Permanence         Permanence `json:"permanence"`
	AllowDraft         bool       `json:"allow_draft"`
	MustAnswerDirectly bool       `json:"must_answer_directly"`
}
