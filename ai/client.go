package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

var (
	// ErrUnconfigured means no API credential is set. This is a valid,
	// expected runtime configuration: callers degrade to the synthetic
	// path instead of failing the report.
	ErrUnconfigured = errors.New("ai: reasoning service not configured")

	// ErrReasoning wraps transport failures, timeouts and empty responses
	// from the reasoning service. Never fatal for a report.
	ErrReasoning = errors.New("ai: reasoning service request failed")
)

// Client wraps the outbound Gemini call. It is constructed once with an
// explicit (possibly absent) credential instead of reading the environment
// at every call site.
type Client struct {
	apiKey  string
	model   string
	timeout time.Duration
	log     *zap.Logger
}

func NewClient(apiKey, model string, timeout time.Duration, log *zap.Logger) *Client {
	if model == "" {
		model = "gemini-2.5-flash-lite"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{apiKey: apiKey, model: model, timeout: timeout, log: log}
}

// Query sends one prompt and returns the raw response text. A single
// attempt per call: retry policy, if any, belongs to the caller.
func (c *Client) Query(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrUnconfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	client, err := genai.NewClient(ctx, option.WithAPIKey(c.apiKey))
	if err != nil {
		return "", fmt.Errorf("%w: create client: %v", ErrReasoning, err)
	}
	defer client.Close()

	model := client.GenerativeModel(c.model)
	model.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockNone},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		c.log.Warn("reasoning request failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrReasoning, err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: no content in response", ErrReasoning)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("%w: no text content in response", ErrReasoning)
	}
	return sb.String(), nil
}
