// Package gemini implements the completion client backed by Google's Gemini API.
// The rest of the application only sees a prompt-in, text-out interface.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"

	"minglebot/internal/config"
)

// Client is the completion backend: given a prompt, return free text.
// Implementations may retry transient failures internally; a returned error
// means the completion could not be obtained at all.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type sdkClient struct {
	genaiClient      *genai.Client
	log              *slog.Logger
	contentConfig    *genai.GenerateContentConfig
	defaultModelName string
	maxRetries       int
	retryDelay       time.Duration
}

// NewClient creates a new Gemini completion client with the provided configuration.
func NewClient(ctx context.Context, cfg config.GeminiConfig, log *slog.Logger) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	gi, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	baseCfg := &genai.GenerateContentConfig{
		Temperature: &cfg.Temperature,
	}
	if cfg.SystemInstruction != "" {
		baseCfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: cfg.SystemInstruction}}}
	}

	logger := log.With("component", "gemini_client")
	logger.Info("Gemini client initialized successfully", "model", cfg.ModelName)
	return &sdkClient{
		genaiClient:      gi,
		log:              logger,
		contentConfig:    baseCfg,
		defaultModelName: cfg.ModelName,
		maxRetries:       cfg.MaxRetries,
		retryDelay:       time.Duration(cfg.RetryDelaySeconds) * time.Second,
	}, nil
}

// Complete sends the prompt and returns the completion text.
func (c *sdkClient) Complete(ctx context.Context, prompt string) (string, error) {
	c.log.DebugContext(ctx, "Requesting completion", "prompt_len", len(prompt))

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	resp, err := c.generateContentWithRetries(ctx, c.defaultModelName, contents, c.contentConfig)
	if err != nil {
		c.log.ErrorContext(ctx, "Gemini completion failed", "error", err)
		return "", fmt.Errorf("gemini API call failed: %w", err)
	}

	return c.extractTextFromResponse(ctx, resp)
}

func (c *sdkClient) generateContentWithRetries(ctx context.Context, modelName string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	var resp *genai.GenerateContentResponse
	var err error

	for i := 0; i <= c.maxRetries; i++ {
		resp, err = c.genaiClient.Models.GenerateContent(ctx, modelName, contents, cfg)
		if err == nil {
			return resp, nil
		}

		c.log.WarnContext(ctx, "Gemini API call failed, checking for retry", "attempt", i+1, "max_retries", c.maxRetries, "error", err)

		var apiErr *genai.APIError
		if errors.As(err, &apiErr) && (apiErr.Code == 500 || apiErr.Code == 503) {
			if i < c.maxRetries {
				c.log.InfoContext(ctx, "Retrying Gemini API call after retriable error", "delay", c.retryDelay, "code", apiErr.Code)
				time.Sleep(c.retryDelay)
				continue
			}
			c.log.ErrorContext(ctx, "Gemini API call failed after max retries", "error", err, "code", apiErr.Code)
			return nil, fmt.Errorf("gemini API call failed after %d retries (code %d): %w", c.maxRetries, apiErr.Code, err)
		}

		c.log.ErrorContext(ctx, "Gemini API call failed with non-retriable error", "error", err)
		return nil, fmt.Errorf("gemini API call failed: %w", err)
	}

	return nil, err
}

func (c *sdkClient) extractTextFromResponse(ctx context.Context, resp *genai.GenerateContentResponse) (string, error) {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockedReasonUnspecified {
		reasonMsg := fmt.Sprintf("%v", resp.PromptFeedback.BlockReason)
		if resp.PromptFeedback.BlockReasonMessage != "" {
			reasonMsg = resp.PromptFeedback.BlockReasonMessage
		}
		c.log.ErrorContext(ctx, "Gemini request blocked", "reason", reasonMsg)
		return "", fmt.Errorf("completion blocked by safety filter: %s", reasonMsg)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		finishReason := "unknown"
		if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason != genai.FinishReasonUnspecified {
			finishReason = fmt.Sprintf("%v", resp.Candidates[0].FinishReason)
		}
		c.log.WarnContext(ctx, "Gemini response missing candidates or content", "finish_reason", finishReason)
		return "", fmt.Errorf("completion returned no content, finish reason: %s", finishReason)
	}

	text := resp.Text()
	if text == "" {
		c.log.WarnContext(ctx, "Gemini response text is empty")
		return "", fmt.Errorf("completion returned empty text")
	}

	return text, nil
}
