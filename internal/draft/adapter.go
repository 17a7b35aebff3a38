// Package draft implements the draft-generation boundary: interchangeable
// model backends behind a single contract. Backends are advisory-only and
// draft-only; no backend carries more authority than another.
package draft

import (
	"context"

	"github.com/future-hause/hause-gateway/internal/types"
)

// Adapter generates a draft for a request. Implementations fail closed:
// every internal error, timeout, or empty model response resolves to a
// DraftResult with empty text, zero confidence, and at least one risk flag.
// No error escapes Generate.
//
// Adapters hold no instance-mutable state after construction; a single
// instance may be used concurrently.
type Adapter interface {
	Name() string
	Generate(ctx context.Context, req types.DraftRequest) types.DraftResult
}

// failedResult builds the structured failure result shared by all backends.
func failedResult(model string, latencyMs int64, flags ...types.RiskFlag) types.DraftResult {
	return types.DraftResult{
		DraftText:  "",
		Confidence: 0.0,
		Model:      model,
		LatencyMs:  latencyMs,
		RiskFlags:  flags,
	}
}
