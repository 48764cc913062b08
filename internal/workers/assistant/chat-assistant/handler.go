// internal/workers/assistant/chat-assistant/handler.go
package chatassistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	apperrors "chaysh/internal/common/errors"
	"chaysh/internal/common/logger"
	"chaysh/internal/common/metrics"
	"chaysh/internal/language"
	"chaysh/internal/models"
	askmodel "chaysh/internal/workers/search/ask-model"
)

const (
	TaskType = "chat-assistant"

	SystemPrompt = "You are a helpful assistant that provides accurate and concise information about products and manuals."

	MissingCredentialReply = "Please configure OpenRouter API key to use AI features."
	FailureReply           = "Sorry, I encountered an error while processing your request."
)

// ErrInvalidMessage is returned by Assist for empty or oversized messages.
var ErrInvalidMessage = errors.New("invalid message length")

type Sender interface {
	Send(ctx context.Context, systemPrompt, userPrompt string, opts askmodel.Options) (string, error)
}

type Handler struct {
	config *Config
	sender Sender
	logger logger.Logger
}

func NewHandler(config *Config, sender Sender, log logger.Logger) *Handler {
	if config == nil {
		config = DefaultConfig()
	}
	return &Handler{
		config: config,
		sender: sender,
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

// Reply answers a free-form chat message. Earlier messages, newest last, are
// prepended as context. It never fails; errors are reported inside the response.
func (h *Handler) Reply(ctx context.Context, message string, history []string) *models.ChatResponse {
	return h.generate(ctx, withContext(message, history, h.config.MaxContextLines))
}

// Assist answers a short message in lang. Messages that are empty or longer than
// MaxAssistantMessage runes are rejected with ErrInvalidMessage.
func (h *Handler) Assist(ctx context.Context, message, lang string) (*models.ChatResponse, error) {
	n := utf8.RuneCountInString(strings.TrimSpace(message))
	if n == 0 || n > h.config.MaxAssistantMessage {
		return nil, ErrInvalidMessage
	}
	profile := language.Lookup(lang)
	return h.generate(ctx, profile.Messages.ChatSystemPrompt+"\n"+message), nil
}

func (h *Handler) generate(ctx context.Context, prompt string) (resp *models.ChatResponse) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("chat panicked", map[string]interface{}{"panic": fmt.Sprint(r)})
			metrics.ChatRequestsTotal.WithLabelValues("failed").Inc()
			resp = &models.ChatResponse{Response: FailureReply, Error: "unexpected error"}
		}
	}()

	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	text, err := h.sender.Send(ctx, SystemPrompt, prompt, askmodel.Options{})
	if err != nil {
		code := apperrors.CodeOf(err)
		metrics.ChatRequestsTotal.WithLabelValues(strings.ToLower(string(code))).Inc()

		var stdErr *apperrors.StandardError
		message := err.Error()
		if errors.As(err, &stdErr) {
			message = stdErr.Message
		}

		if code == apperrors.ErrCodeCredentialMissing {
			h.logger.Warn("chat skipped, no credential configured", nil)
			return &models.ChatResponse{Response: MissingCredentialReply, Error: message}
		}

		h.logger.Error("chat request failed", map[string]interface{}{
			"code": string(code),
		})
		return &models.ChatResponse{Response: FailureReply, Error: message}
	}

	metrics.ChatRequestsTotal.WithLabelValues("ok").Inc()
	steps := ExtractSteps(text)
	h.logger.Info("chat reply generated", map[string]interface{}{
		"chars": len(text),
		"steps": len(steps),
	})
	return &models.ChatResponse{Response: text, Steps: steps}
}

// ExtractSteps keeps the trimmed lines that start with a digit or "- ".
func ExtractSteps(text string) []string {
	steps := []string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		first, _ := utf8.DecodeRuneInString(line)
		if unicode.IsDigit(first) || strings.HasPrefix(line, "- ") {
			steps = append(steps, line)
		}
	}
	return steps
}

func withContext(message string, history []string, max int) string {
	var lines []string
	for _, h := range history {
		if s := strings.TrimSpace(h); s != "" {
			lines = append(lines, s)
		}
	}
	if max > 0 && len(lines) > max {
		lines = lines[len(lines)-max:]
	}
	if len(lines) == 0 {
		return message
	}

	var parts []string
	parts = append(parts, "Previous messages:")
	for _, l := range lines {
		parts = append(parts, "- "+l)
	}
	parts = append(parts, "\nCurrent message: "+message)
	return strings.Join(parts, "\n")
}
