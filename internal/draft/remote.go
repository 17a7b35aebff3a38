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

// ErrMissingAPIKey is returned when a remote adapter is constructed without
// credentials. A missing key is a configuration error caught at startup,
// not a per-request runtime failure.
var ErrMissingAPIKey = errors.New("remote backend requires an api key")

// RemoteAdapter talks to a hosted chat-completions API. It is used only
// when the runtime mode explicitly permits remote inference; it is never a
// fallback for the local adapter.
type RemoteAdapter struct {
	cfg    config.RemoteBackendConfig
	client *http.Client
}

func NewRemoteAdapter(cfg config.RemoteBackendConfig) (*RemoteAdapter, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &RemoteAdapter{
		cfg:    cfg,
		client: &http.Client{},
	}, nil
}

func (a *RemoteAdapter) Name() string { return "remote" }

func (a *RemoteAdapter) Generate(ctx context.Context, req types.DraftRequest) types.DraftResult {
	start := time.Now()

	body := remoteRequestBody{
		Model: a.cfg.Model,
		Messages: []remoteMessage{
			{Role: "system", Content: remoteSystemMessage},
			{Role: "user", Content: BuildUserMessage(req)},
		},
	}
	if req.MaxTokens > 0 {
		body.MaxTokens = req.MaxTokens
	}

	data, err := json.Marshal(body)
	if err != nil {
		return failedResult(a.cfg.Model, ms(start), types.FlagUnknownError)
	}

	callCtx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(callCtx, http.MethodPost, a.cfg.BaseURL+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return failedResult(a.cfg.Model, ms(start), types.FlagUnknownError)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+a.cfg.APIKey)
	for k, v := range a.cfg.Headers {
		if v != "" {
			httpReq.Header.Set(k, v)
		}
	}

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

	var parsed remoteResponseBody
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return failedResult(a.cfg.Model, ms(start), types.FlagUnknownError)
	}
	if len(parsed.Choices) == 0 {
		return failedResult(a.cfg.Model, ms(start), types.FlagUnknownError)
	}

	text := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if text == "" {
		return failedResult(a.cfg.Model, ms(start), types.FlagLowConfidence, types.FlagMissingContext)
	}

	confidence, flags := scoreDraft(text, req.Prompt, remoteHeuristic)
	return types.DraftResult{
		DraftText:  text,
		Confidence: confidence,
		Model:      a.cfg.Model,
		LatencyMs:  ms(start),
		RiskFlags:  flags,
	}
}

type remoteMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type remoteRequestBody struct {
	Model     string          `json:"model"`
	Messages  []remoteMessage `json:"messages"`
	MaxTokens int             `json:"max_tokens,omitempty"`
}

type remoteResponseBody struct {
	Choices []struct {
		Message remoteMessage `json:"message"`
	} `json:"choices"`
}
