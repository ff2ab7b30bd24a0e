package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"botlint/internal/config"
	"botlint/internal/errors"
	"botlint/internal/metrics"
	"botlint/internal/slogutil"
)

const typoSystemPrompt = "You are a spell checker for chatbot responses written in Korean or English."

const typoInstruction = "For each sentence below, set typo=true if it has a spelling mistake or typo, otherwise typo=false, " +
	"and give a short reason. Answer with JSON only, in the form " +
	`{"results":[{"text":"...","typo":true,"reason":"..."}]}` + "\n"

// Client implements Suggester and TypoChecker over chat completions.
type Client struct {
	cfg     config.OracleConfig
	api     openai.Client
	logger  *slog.Logger
	metrics *metrics.Recorder
}

// New creates a client. A missing API key is not an error; calls then
// degrade to unavailable responses.
func New(cfg config.OracleConfig, logger *slog.Logger, m *metrics.Recorder) *Client {
	c := &Client{
		cfg:     cfg,
		logger:  slogutil.WithComponent(logger, "oracle"),
		metrics: m,
	}
	if !cfg.Available() {
		c.logger.Debug("Oracle credential not configured")
		return c
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.TimeoutMs > 0 {
		opts = append(opts, option.WithRequestTimeout(time.Duration(cfg.TimeoutMs)*time.Millisecond))
	}
	c.api = openai.NewClient(opts...)
	return c
}

// Available reports whether calls will reach the service.
func (c *Client) Available() bool {
	return c.cfg.Available()
}

// SuggestFix asks for a fix for the described problem.
func (c *Client) SuggestFix(ctx context.Context, problem, instruction string) string {
	if !c.Available() {
		c.metrics.ObserveOracleCall(OpSuggest, metrics.OutcomeUnavailable, 0)
		return UnavailableText
	}

	text, err := c.complete(ctx, OpSuggest, c.systemPrompt(), instruction+"\n"+problem, c.cfg.MaxTokens)
	if err != nil {
		return fmt.Sprintf("[oracle error: %v]", err)
	}
	return text
}

// CheckTypos checks texts in one request. Meaningless texts are answered
// locally and never sent.
func (c *Client) CheckTypos(ctx context.Context, texts []string) ([]TypoResult, error) {
	var results []TypoResult
	var meaningful []string
	for _, t := range texts {
		if IsMeaningless(t) {
			results = append(results, TypoResult{Text: t, IsTypo: true, Reason: MeaninglessReason})
			continue
		}
		meaningful = append(meaningful, t)
	}
	if len(meaningful) == 0 {
		return results, nil
	}

	if !c.Available() {
		c.metrics.ObserveOracleCall(OpTypos, metrics.OutcomeUnavailable, 0)
		return nil, errors.New(errors.OracleUnavailable, "oracle API key not configured", nil)
	}

	var b strings.Builder
	b.WriteString(typoInstruction)
	b.WriteString("Sentences:\n")
	for _, t := range meaningful {
		b.WriteString("- ")
		b.WriteString(t)
		b.WriteString("\n")
	}

	// Typo answers list every sentence, so allow more room than suggestions.
	maxTokens := c.cfg.MaxTokens
	if floor := 64 * len(meaningful); maxTokens < floor {
		maxTokens = floor
	}
	text, err := c.complete(ctx, OpTypos, typoSystemPrompt, b.String(), maxTokens)
	if err != nil {
		return nil, errors.New(errors.OracleFailed, "typo check failed", err)
	}

	parsed, err := ParseTypoResponse(text)
	if err != nil {
		c.logger.Warn("Unparseable typo response", "error", err)
		return nil, errors.New(errors.OracleFailed, "typo check returned malformed JSON", err)
	}
	return append(results, parsed...), nil
}

func (c *Client) systemPrompt() string {
	if c.cfg.SystemPrompt != "" {
		return c.cfg.SystemPrompt
	}
	return config.DefaultSystemPrompt
}

func (c *Client) complete(ctx context.Context, op, system, user string, maxTokens int) (string, error) {
	start := time.Now()
	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.cfg.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		MaxTokens: openai.Int(int64(maxTokens)),
	})
	elapsed := time.Since(start)

	if err != nil {
		c.metrics.ObserveOracleCall(op, metrics.OutcomeError, elapsed)
		c.logger.Warn("Oracle call failed", "op", op, "error", err, "duration", elapsed)
		return "", err
	}
	if len(resp.Choices) == 0 {
		c.metrics.ObserveOracleCall(op, metrics.OutcomeError, elapsed)
		return "", fmt.Errorf("no choices returned")
	}

	c.metrics.ObserveOracleCall(op, metrics.OutcomeOK, elapsed)
	c.logger.Debug("Oracle call complete", "op", op, "duration", elapsed)
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

type typoEnvelope struct {
	Results []TypoResult `json:"results"`
}

// ParseTypoResponse decodes {"results":[...]}, tolerating a fenced code
// block around the JSON.
func ParseTypoResponse(text string) ([]TypoResult, error) {
	body := strings.TrimSpace(text)
	if strings.HasPrefix(body, "```") {
		body = strings.TrimPrefix(body, "```json")
		body = strings.TrimPrefix(body, "```")
		body = strings.TrimSuffix(strings.TrimSpace(body), "```")
	}
	if i := strings.Index(body, "{"); i > 0 {
		body = body[i:]
	}

	var env typoEnvelope
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		return nil, err
	}
	return env.Results, nil
}
