package classify

// Keyword tables for the deterministic router. Matching is ordered and
// case-insensitive; the first matching tier wins. Tie-breaks favor the
// lower-autonomy outcome, so the safest tier is always the default.

// metaPhrases identify questions about the system itself. Checked first so
// "what is future hause" routes to meta rather than question.
var metaPhrases = []string{
	"what are you",
	"who are you",
	"what is future hause",
	"explain yourself",
	"how do you work",
}

// actionPrefixes match imperative openings.
var actionPrefixes = []string{
	"do ",
	"run ",
}

// actionVerbs match requests to mutate durable state.
var actionVerbs = []string{
	"commit",
	"push",
	"write to",
	"update the file",
	"change the code",
	"log this",
}

// draftKeywords match requests for draft-only work.
var draftKeywords = []string{
	"draft",
	"write me",
	"create a",
	"generate a",
	"timesheet",
	"work log",
}

// interrogativePrefixes match question openings; a literal "?" anywhere in
// the text also classifies as question.
var interrogativePrefixes = []string{
	"what ",
	"why ",
	"how ",
	"when ",
	"can you",
}

// highRiskKeywords mark legal/medical/financial territory. Checked before
// the medium tier; first matching tier wins, tiers are not cumulative.
var highRiskKeywords = []string{
	"legal",
	"medical",
	"financial",
	"invoice",
	"compliance",
	"lawsuit",
}

// mediumRiskKeywords mark record-like or outward-facing territory.
var mediumRiskKeywords = []string{
	"record",
	"audit",
	"action log",
	"publish",
	"send",
	"customer",
	"ticket",
}

// recordAdjacentKeywords suggest the interaction is expected to become a
// durable record.
var recordAdjacentKeywords = []string{
	"action log",
	"save",
	"persist",
	"record",
	"publish",
	"ticket",
	"kb",
}

// draftOnlyKeywords suggest draft-only permanence.
var draftOnlyKeywords = []string{
	"draft",
	"timesheet",
	"work log",
}
