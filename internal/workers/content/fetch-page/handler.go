// internal/workers/content/fetch-page/handler.go
package fetchpage

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/go-shiori/go-readability"

	apperrors "chaysh/internal/common/errors"
	"chaysh/internal/common/logger"
	"chaysh/internal/common/metrics"
	"chaysh/internal/models"
)

const (
	TaskType = "fetch-page"

	// MaxDescription bounds the per-page description handed to the aggregator.
	MaxDescription = 100
)

// Page is the readable content of one fetched url.
type Page struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Excerpt string `json:"excerpt"`
	Text    string `json:"text"`
	Status  int    `json:"status"`
}

type Handler struct {
	config *Config
	client *resty.Client
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	client := resty.New().
		SetTimeout(config.Timeout).
		SetHeader("User-Agent", config.UserAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml")

	return &Handler{
		config: config,
		client: client,
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

// Fetch downloads link and extracts its main text. Non-200 replies and
// transport failures return a PAGE_FETCH_FAILED error.
func (h *Handler) Fetch(ctx context.Context, link string) (*Page, error) {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		metrics.PageFetchesTotal.WithLabelValues("invalid").Inc()
		return nil, apperrors.NewInvalidRequestError(fmt.Sprintf("not an http url: %q", link))
	}

	start := time.Now()
	resp, err := h.client.R().SetContext(ctx).Get(u.String())
	if err != nil {
		metrics.PageFetchesTotal.WithLabelValues("transport_error").Inc()
		h.logger.Warn("page fetch failed", map[string]interface{}{
			"url":   u.String(),
			"error": err.Error(),
		})
		return nil, apperrors.NewPageFetchFailedError(u.String(), err)
	}

	h.logger.Debug("page fetched", map[string]interface{}{
		"url":        u.String(),
		"status":     resp.StatusCode(),
		"durationMs": time.Since(start).Milliseconds(),
	})

	if resp.StatusCode() != http.StatusOK {
		metrics.PageFetchesTotal.WithLabelValues("bad_status").Inc()
		return nil, apperrors.NewPageFetchFailedError(u.String(), fmt.Errorf("status %d", resp.StatusCode()))
	}

	page := &Page{URL: u.String(), Status: resp.StatusCode()}

	article, err := readability.FromReader(strings.NewReader(string(resp.Body())), u)
	if err != nil {
		// unreadable documents still count as fetched, with no text
		metrics.PageFetchesTotal.WithLabelValues("unreadable").Inc()
		h.logger.Debug("readability extraction failed", map[string]interface{}{
			"url":   u.String(),
			"error": err.Error(),
		})
		return page, nil
	}

	page.Title = strings.TrimSpace(article.Title)
	page.Excerpt = strings.TrimSpace(article.Excerpt)
	page.Text = truncate(strings.TrimSpace(article.TextContent), h.config.MaxChars)

	metrics.PageFetchesTotal.WithLabelValues("ok").Inc()
	return page, nil
}

// Collection is what Collect gathered for the consensus aggregator.
type Collection struct {
	Infos   []map[string]interface{}
	Sources []models.Source
	Titles  []string
}

// Collect fetches links concurrently and keeps the pages whose title is relevant
// to query, in input order. Failed pages are skipped.
func (h *Handler) Collect(ctx context.Context, query string, links []string) *Collection {
	if h.config.MaxPages > 0 && len(links) > h.config.MaxPages {
		links = links[:h.config.MaxPages]
	}

	pages := make([]*Page, len(links))
	var wg sync.WaitGroup
	for i, link := range links {
		wg.Add(1)
		go func(i int, link string) {
			defer wg.Done()
			page, err := h.Fetch(ctx, link)
			if err != nil {
				return
			}
			pages[i] = page
		}(i, link)
	}
	wg.Wait()

	out := &Collection{
		Infos:   []map[string]interface{}{},
		Sources: []models.Source{},
		Titles:  []string{},
	}
	for _, page := range pages {
		if page == nil || page.Title == "" {
			continue
		}
		out.Titles = append(out.Titles, page.Title)
		if !IsRelevantTitle(page.Title, query, false) {
			continue
		}
		out.Sources = append(out.Sources, models.Source{Title: page.Title, URL: page.URL})

		description := page.Excerpt
		if description == "" {
			description = page.Text
		}
		if description = truncate(description, MaxDescription); description != "" {
			out.Infos = append(out.Infos, map[string]interface{}{
				"title":       page.Title,
				"description": description,
				"url":         page.URL,
			})
		}
	}

	h.logger.Info("pages collected", map[string]interface{}{
		"query":     query,
		"requested": len(links),
		"relevant":  len(out.Sources),
	})
	return out
}

func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
