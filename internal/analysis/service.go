package analysis

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/bobmcallan/stock-analyser/internal/cache"
	"github.com/bobmcallan/stock-analyser/internal/common"
	"github.com/bobmcallan/stock-analyser/internal/interfaces"
	"github.com/bobmcallan/stock-analyser/internal/models"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// MsgAnalysisFailed is shown when no report could be produced.
const MsgAnalysisFailed = "Failed to fetch analysis. Please try again later."

// Report is one rendered analysis.
type Report struct {
	Ticker      string    `json:"ticker"`
	Name        string    `json:"name"`
	Analyzer    string    `json:"analyzer"`
	Markdown    string    `json:"markdown"`
	HTML        string    `json:"html"`
	GeneratedAt time.Time `json:"generated_at"`
	Cached      bool      `json:"cached"`
}

// Service runs the configured analyzer and caches rendered reports per
// ticker for the configured TTL.
type Service struct {
	analyzer interfaces.Analyzer
	cache    *cache.Cache[Report]
	md       goldmark.Markdown
	policy   *bluemonday.Policy
	logger   *common.Logger
}

// NewService creates a Service. A non-positive size defaults to 100 entries.
func NewService(analyzer interfaces.Analyzer, ttl time.Duration, size int, logger *common.Logger) *Service {
	if size <= 0 {
		size = 100
	}
	return &Service{
		analyzer: analyzer,
		cache:    cache.New[Report](ttl, size),
		md:       goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy:   bluemonday.UGCPolicy(),
		logger:   logger,
	}
}

// AnalyzerName reports which analyzer backs the service.
func (s *Service) AnalyzerName() string {
	return s.analyzer.Name()
}

// Analyze returns the report for h, from cache when fresh.
func (s *Service) Analyze(ctx context.Context, h models.Holding) (Report, error) {
	key := cache.MakeKey(s.analyzer.Name(), h.Ticker)
	if r, ok := s.cache.Get(key); ok {
		r.Cached = true
		return r, nil
	}

	start := time.Now()
	markdown, err := s.analyzer.Analyze(ctx, h, PromptFor(h))
	if err != nil {
		s.logger.Error().Str("ticker", h.Ticker).Str("analyzer", s.analyzer.Name()).Err(err).Msg("analysis failed")
		return Report{}, err
	}

	html, err := s.Render(markdown)
	if err != nil {
		return Report{}, err
	}

	r := Report{
		Ticker:      h.Ticker,
		Name:        h.Name,
		Analyzer:    s.analyzer.Name(),
		Markdown:    markdown,
		HTML:        html,
		GeneratedAt: time.Now(),
	}
	s.cache.Set(key, r)

	s.logger.Info().Str("ticker", h.Ticker).Str("analyzer", r.Analyzer).Dur("elapsed", time.Since(start)).Msg("analysis generated")
	return r, nil
}

// Invalidate drops the cached report for ticker.
func (s *Service) Invalidate(ticker string) {
	s.cache.Delete(cache.MakeKey(s.analyzer.Name(), ticker))
}

// Render converts markdown to sanitised HTML.
func (s *Service) Render(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to render analysis: %w", err)
	}
	return string(s.policy.SanitizeBytes(buf.Bytes())), nil
}
