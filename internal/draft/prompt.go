package draft

import (
	"strings"

	"github.com/future-hause/hause-gateway/internal/types"
)

// SystemIdentity is prepended to every model prompt to prevent drift.
// The system observes and drafts; it never acts.
const SystemIdentity = `You are Future Hause.

Future Hause is an intelligence analyst system.
It observes signals, drafts work, and organizes knowledge.
It does NOT take autonomous action.
It does NOT execute commands.
It does NOT hallucinate unknown facts.`

// instructionSuffix closes every prompt. Drafts are non-authoritative by
// contract, so the model is told so on every call.
const instructionSuffix = "Produce a draft only; do not assume missing information; do not make decisions; do not claim certainty."

// remoteSystemMessage is the system message for chat-style backends.
const remoteSystemMessage = SystemIdentity +
	"\n\nYou produce drafts only. You do not make decisions. " +
	"You do not assume missing information."

// BuildPrompt renders a single-string prompt for completion-style backends,
// embedding the routed intent, the request body, and any constraints.
func BuildPrompt(req types.DraftRequest) string {
	var b strings.Builder
	b.WriteString(SystemIdentity)
	b.WriteString("\n\n## INTENT\n")
	b.WriteString(req.Intent)
	b.WriteString("\n\n## REQUEST\n")
	b.WriteString(req.Prompt)
	if len(req.Constraints) > 0 {
		b.WriteString("\n\n## CONSTRAINTS\n")
		for _, c := range req.Constraints {
			b.WriteString("- ")
			b.WriteString(c)
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(instructionSuffix)
	return b.String()
}

// BuildUserMessage renders the user-role message for chat-style backends.
// The identity and drafting rules live in the system message instead.
func BuildUserMessage(req types.DraftRequest) string {
	var b strings.Builder
	b.WriteString("Intent: ")
	b.WriteString(req.Intent)
	b.WriteString("\n\n")
	b.WriteString(req.Prompt)
	if len(req.Constraints) > 0 {
		b.WriteString("\n\nConstraints:\n")
		for _, c := range req.Constraints {
			b.WriteString("- ")
			b.WriteString(c)
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(instructionSuffix)
	return b.String()
}
