// Package policy evaluates Rego policies over routed requests. Policies
// answer one question: may this request proceed in the current runtime
// mode. Evaluation failures block.
package policy

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/open-policy-agent/opa/rego"

	"github.com/future-hause/hause-gateway/internal/config"
	"github.com/future-hause/hause-gateway/internal/gate"
)

// PolicyInput is the data sent to OPA for evaluation.
type PolicyInput struct {
	Request PolicyReq     `json:"request"`
	Runtime PolicyRuntime `json:"runtime"`
	Time    PolicyTime    `json:"time"`
}

type PolicyReq struct {
	Source     string `json:"source"`
	Intent     string `json:"intent"`
	Risk       string `json:"risk"`
	Permanence string `json:"permanence"`
	TextLength int    `json:"text_length"`
}

type PolicyRuntime struct {
	Mode string `json:"mode"`
}

type PolicyTime struct {
	Hour int    `json:"hour"`
	Day  string `json:"day"`
}

// loadRegoDir reads every .rego module in dir, keyed by file name.
func loadRegoDir(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	modules := make(map[string]string, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".rego" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		modules[entry.Name()] = string(data)
	}
	return modules, nil
}

// Evaluator implements gate.Gate using OPA.
type Evaluator struct {
	mu       sync.RWMutex
	prepared *rego.PreparedEvalQuery
	cfg      func() config.PolicyGateConfig
}

// NewEvaluator creates a policy evaluator. Call Load() to compile policies.
func NewEvaluator(cfg func() config.PolicyGateConfig) *Evaluator {
	return &Evaluator{cfg: cfg}
}

func (e *Evaluator) Name() string  { return "policy" }
func (e *Evaluator) Enabled() bool { return e.cfg().Enabled }

// Load compiles Rego modules from the bundle path.
func (e *Evaluator) Load() error {
	cfg := e.cfg()
	modules, err := loadRegoDir(cfg.BundlePath)
	if err != nil {
		return fmt.Errorf("load rego files: %w", err)
	}
	if len(modules) == 0 {
		slog.Warn("no rego files found", "path", cfg.BundlePath)
		return nil
	}
	return e.LoadFromModules(modules)
}

// LoadFromModules compiles policies from provided module sources (useful for testing).
func (e *Evaluator) LoadFromModules(modules map[string]string) error {
	r := rego.New(
		rego.Query("[data.hause.gate.allow, data.hause.gate.reason]"),
		func() func(*rego.Rego) {
			mods := make([]func(*rego.Rego), 0, len(modules))
			for name, src := range modules {
				mods = append(mods, rego.Module(name, src))
			}
			return func(r *rego.Rego) {
				for _, m := range mods {
					m(r)
				}
			}
		}(),
	)

	prepared, err := r.PrepareForEval(context.Background())
	if err != nil {
		return fmt.Errorf("prepare rego: %w", err)
	}

	e.mu.Lock()
	e.prepared = &prepared
	e.mu.Unlock()

	slog.Info("gate policies loaded", "modules", len(modules))
	return nil
}

// Evaluate runs the policy against the given input.
func (e *Evaluator) Evaluate(ctx context.Context, input PolicyInput) (bool, string, error) {
	e.mu.RLock()
	prepared := e.prepared
	e.mu.RUnlock()

	if prepared == nil {
		// No policies loaded, fail closed
		return false, "no policies loaded", nil
	}

	cfg := e.cfg()
	timeout := cfg.EvaluationTimeout
	if timeout == 0 {
		timeout = 100 * time.Millisecond
	}

	evalCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	results, err := prepared.Eval(evalCtx, rego.EvalInput(input))
	if err != nil {
		return false, fmt.Sprintf("policy evaluation error: %v", err), err
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return false, "no policy result", nil
	}

	// Result is [allow, reason]
	arr, ok := results[0].Expressions[0].Value.([]interface{})
	if !ok || len(arr) < 2 {
		return false, "unexpected policy result format", nil
	}

	allowed, _ := arr[0].(bool)
	reason, _ := arr[1].(string)

	return allowed, reason, nil
}

// Check implements gate.Gate.
func (e *Evaluator) Check(ctx context.Context, in gate.Input) gate.Result {
	now := time.Now().UTC()
	input := PolicyInput{
		Request: PolicyReq{
			Source:     in.Source,
			Intent:     string(in.Decision.Intent),
			Risk:       string(in.Decision.Risk),
			Permanence: string(in.Decision.Permanence),
			TextLength: len(in.Text),
		},
		Runtime: PolicyRuntime{Mode: string(in.Mode)},
		Time: PolicyTime{
			Hour: now.Hour(),
			Day:  now.Weekday().String(),
		},
	}

	allowed, reason, err := e.Evaluate(ctx, input)
	if err != nil {
		slog.Error("policy evaluation failed", "error", err)
		// Fail closed
		return gate.Result{
			Action:   gate.ActionBlock,
			GateName: "policy",
			Message:  "Policy evaluation failed: " + err.Error(),
		}
	}

	if !allowed {
		return gate.Result{
			Action:   gate.ActionBlock,
			GateName: "policy",
			Message:  "Request denied by policy: " + reason,
		}
	}

	return gate.Result{Action: gate.ActionPass, GateName: "policy"}
}
