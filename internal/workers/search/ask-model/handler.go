// internal/workers/search/ask-model/handler.go
package askmodel

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	apperrors "chaysh/internal/common/errors"
	httpclient "chaysh/internal/common/http"
	"chaysh/internal/common/logger"
	"chaysh/internal/common/metrics"
	"chaysh/internal/language"
)

const (
	TaskType = "ask-model"

	// JSONSystemPrompt frames every structured request; the language instruction is appended.
	JSONSystemPrompt = "You are a helpful assistant that provides accurate and concise information. Always respond in valid JSON format."
)

// Handler is the single-attempt chat-completion client.
type Handler struct {
	config *Config
	client *httpclient.Client
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		// no client timeout, every call carries its own context deadline
		client: httpclient.NewClient(0),
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

// HasCredential reports whether calls can be made at all.
func (h *Handler) HasCredential() bool {
	return h.config.APIKey != ""
}

// Ask sends prompt with the JSON framing for language and returns the completion text.
// Every failure is absorbed and yields "".
func (h *Handler) Ask(ctx context.Context, prompt, lang string) string {
	profile := language.Lookup(lang)
	system := JSONSystemPrompt + " " + profile.Instruction

	text, err := h.Send(ctx, system, prompt, Options{})
	if err != nil {
		return ""
	}
	return text
}

// Send performs one chat-completion call. Errors are *errors.StandardError with code
// CREDENTIAL_MISSING, TRANSPORT_FAILURE, UPSTREAM_ERROR or MALFORMED_REPLY.
func (h *Handler) Send(ctx context.Context, systemPrompt, userPrompt string, opts Options) (string, error) {
	start := time.Now()

	text, err := h.send(ctx, systemPrompt, userPrompt, opts)

	outcome := "ok"
	if err != nil {
		outcome = strings.ToLower(string(apperrors.CodeOf(err)))
	}
	metrics.ModelRequestsTotal.WithLabelValues(outcome).Inc()
	metrics.ModelRequestDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())

	return text, err
}

func (h *Handler) send(ctx context.Context, systemPrompt, userPrompt string, opts Options) (string, error) {
	url := h.endpoint()

	if !h.HasCredential() {
		h.logger.Warn("model request skipped, no credential configured", map[string]interface{}{
			"url": url,
		})
		return "", apperrors.NewCredentialMissingError("OpenRouter")
	}

	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	messages := make([]Message, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, Message{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, Message{Role: "user", Content: userPrompt})

	body := completionRequest{
		Model:       h.config.Model,
		Messages:    messages,
		Temperature: h.config.Temperature,
		MaxTokens:   h.config.MaxTokens,
	}
	if opts.Temperature > 0 {
		body.Temperature = opts.Temperature
	}
	if opts.MaxTokens > 0 {
		body.MaxTokens = opts.MaxTokens
	}

	start := time.Now()
	status, respBody, err := h.client.PostJSON(ctx, url, h.headers(), body)
	if err != nil {
		details := err
		if ctx.Err() == context.DeadlineExceeded {
			details = fmt.Errorf("timeout after %s: %w", h.config.Timeout, err)
		}
		h.logger.Error("model request failed", map[string]interface{}{
			"url":        url,
			"durationMs": time.Since(start).Milliseconds(),
			"error":      details.Error(),
		})
		return "", apperrors.NewTransportFailureError(details)
	}

	h.logger.Info("model request completed", map[string]interface{}{
		"url":        url,
		"status":     status,
		"durationMs": time.Since(start).Milliseconds(),
	})

	if status < 200 || status >= 300 {
		return "", apperrors.NewUpstreamError(status, string(respBody))
	}

	var apiResponse struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &apiResponse); err != nil {
		h.logger.Warn("model reply is not JSON", map[string]interface{}{"url": url, "status": status})
		return "", apperrors.NewMalformedReplyError(fmt.Sprintf("decode error: %v", err))
	}
	if len(apiResponse.Choices) == 0 {
		h.logger.Warn("model reply has no choices", map[string]interface{}{"url": url, "status": status})
		return "", apperrors.NewMalformedReplyError("no choices in response")
	}

	content := apiResponse.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", apperrors.NewMalformedReplyError("empty completion")
	}

	h.logger.Debug("model reply received", map[string]interface{}{
		"chars": len(content),
	})

	return content, nil
}

func (h *Handler) endpoint() string {
	return strings.TrimRight(h.config.BaseURL, "/") + "/chat/completions"
}

func (h *Handler) headers() map[string]string {
	headers := map[string]string{
		"Authorization": "Bearer " + h.config.APIKey,
	}
	if h.config.Referer != "" {
		headers["HTTP-Referer"] = h.config.Referer
	}
	if h.config.Title != "" {
		headers["X-Title"] = h.config.Title
	}
	return headers
}
