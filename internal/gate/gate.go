// Package gate holds the checks a request must clear before a draft may be
// generated or intel may be stored. Gates decide pass, flag, or block; they
// never rewrite the request.
package gate

import (
	"context"

	"github.com/future-hause/hause-gateway/internal/types"
)

// Action represents the gate decision.
type Action string

const (
	ActionPass  Action = "pass"
	ActionFlag  Action = "flag"
	ActionBlock Action = "block"
)

// Input is the material a gate inspects: the raw text plus the routing
// decision already made for it and the active runtime mode. Source names
// the path the text arrived on ("draft" or "intel") so policies can scope
// rules to one of them.
type Input struct {
	Text     string
	Decision types.RoutingDecision
	Mode     types.RuntimeMode
	Source   string
}

// Result is returned by each gate.
type Result struct {
	Action     Action
	GateName   string
	Message    string
	Detections int
}

// Gate is the interface all request gates implement.
type Gate interface {
	Name() string
	Enabled() bool
	Check(ctx context.Context, in Input) Result
}

// Chain runs gates in order, stopping on the first Block.
type Chain struct {
	gates []Gate
}

// NewChain creates a gate chain from the given gates.
func NewChain(gates ...Gate) *Chain {
	return &Chain{gates: gates}
}

// Run executes all enabled gates in order. Returns all results and a
// pointer to the first blocking result (nil if no gate blocked).
func (c *Chain) Run(ctx context.Context, in Input) ([]Result, *Result) {
	var results []Result
	for _, g := range c.gates {
		if !g.Enabled() {
			continue
		}
		r := g.Check(ctx, in)
		results = append(results, r)
		if r.Action == ActionBlock {
			return results, &r
		}
	}
	return results, nil
}
