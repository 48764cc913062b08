// internal/api/chat.go
package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	chatassistant "chaysh/internal/workers/assistant/chat-assistant"
)

type chatRequest struct {
	Message  string   `json:"message"`
	Context  []string `json:"context"`
	Language string   `json:"language"`
}

func (s *Server) chat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}

	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"success": false,
			"error":   "Message is required",
		})
	}

	ctx := c.Request().Context()
	resp := s.deps.Assistant.Reply(ctx, req.Message, req.Context)

	if resp.Error != "" {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"success":  false,
			"error":    resp.Error,
			"response": resp.Response,
		})
	}

	if err := s.deps.Store.SaveChat(ctx, req.Message, resp.Response, s.language(c, req.Language)); err != nil {
		s.logger.Warn("failed to save chat", map[string]interface{}{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":  true,
		"response": resp.Response,
		"steps":    resp.Steps,
	})
}

// assistant answers a short message using the language's system prompt.
func (s *Server) assistant(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}

	ctx := c.Request().Context()
	lang := s.language(c, req.Language)

	resp, err := s.deps.Assistant.Assist(ctx, req.Message, lang)
	if errors.Is(err, chatassistant.ErrInvalidMessage) {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   "Invalid message length",
		})
	}
	if err != nil {
		return err
	}

	if err := s.deps.Store.SaveChat(ctx, req.Message, resp.Response, lang); err != nil {
		s.logger.Warn("failed to save chat", map[string]interface{}{"error": err.Error()})
	}

	body := map[string]interface{}{
		"success":  resp.Error == "",
		"response": resp.Response,
		"steps":    resp.Steps,
	}
	if resp.Error != "" {
		body["error"] = resp.Error
	}
	return c.JSON(http.StatusOK, body)
}

func (s *Server) chatHistory(c echo.Context) error {
	history, err := s.deps.Store.ChatHistory(c.Request().Context(), limitParam(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"history": history,
	})
}
