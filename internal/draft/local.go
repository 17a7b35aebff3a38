package draft

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/future-hause/hause-gateway/internal/config"
	"github.com/future-hause/hause-gateway/internal/types"
)

// LocalAdapter talks to a locally hosted Ollama-style generation endpoint.
type LocalAdapter struct {
	cfg    config.LocalBackendConfig
	client *http.Client
}

func NewLocalAdapter(cfg config.LocalBackendConfig) *LocalAdapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://127.0.0.1:11434"
	}
	if cfg.Model == "" {
		cfg.Model = "llama3.1:latest"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &LocalAdapter{
		cfg:    cfg,
		client: &http.Client{},
	}
}

func (a *LocalAdapter) Name() string { return "local" }

// Generate calls the local generation endpoint under a hard timeout. Every
// failure mode resolves to a structured result; nothing is thrown past this
// boundary.
func (a *LocalAdapter) Generate(ctx context.Context, req types.DraftRequest) types.DraftResult {
	start := time.Now()

	body := localRequestBody{
		Model:  a.cfg.Model,
		Prompt: BuildPrompt(req),
		Stream: false,
	}
	if req.MaxTokens > 0 {
		body.Options = &localOptions{NumPredict: req.MaxTokens}
	}

	data, err := json.Marshal(body)
	if err != nil {
		return failedResult(a.cfg.Model, ms(start), types.FlagUnknownError)
	}

	callCtx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(callCtx, http.MethodPost, a.cfg.BaseURL+"/api/generate", bytes.NewReader(data))
	if err != nil {
		return failedResult(a.cfg.Model, ms(start), types.FlagUnknownError)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return failedResult(a.cfg.Model, ms(start), transportFlag(callCtx, err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return failedResult(a.cfg.Model, ms(start), transportFlag(callCtx, err))
	}
	if resp.StatusCode != http.StatusOK {
		return failedResult(a.cfg.Model, ms(start), types.FlagUnknownError)
	}

	var parsed localResponseBody
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return failedResult(a.cfg.Model, ms(start), types.FlagUnknownError)
	}

	text := strings.TrimSpace(parsed.Response)
	if text == "" {
		return failedResult(a.cfg.Model, ms(start), types.FlagLowConfidence, types.FlagMissingContext)
	}

	confidence, flags := scoreDraft(text, req.Prompt, localHeuristic)
	return types.DraftResult{
		DraftText:  text,
		Confidence: confidence,
		Model:      a.cfg.Model,
		LatencyMs:  ms(start),
		RiskFlags:  flags,
	}
}

// transportFlag maps a transport failure to its risk flag. Expired or
// cancelled calls report model_timeout; anything else on the wire is an
// unknown error.
func transportFlag(ctx context.Context, err error) types.RiskFlag {
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
		return types.FlagModelTimeout
	}
	return types.FlagUnknownError
}

func ms(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}

type localRequestBody struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options *localOptions `json:"options,omitempty"`
}

type localOptions struct {
	NumPredict int `json:"num_predict"`
}

type localResponseBody struct {
	Response string `json:"response"`
}
