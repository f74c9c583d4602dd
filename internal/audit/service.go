// Package audit sequences the report pipeline: fetch website, build prompt,
// call the completion service, shape the response.
package audit

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"auditgo/internal/cache"
	"auditgo/internal/completion"
	"auditgo/internal/models"
	"auditgo/internal/prompt"
	"auditgo/internal/storage"
	"auditgo/internal/upload"
)

// ErrWebsiteMissing rejects requests before any network or model call.
var ErrWebsiteMissing = errors.New("website missing")

// Sampling temperatures are fixed per call-site: summaries stay literal,
// reports get slightly looser phrasing.
const (
	summaryTemperature float32 = 0.3
	auditTemperature   float32 = 0.4
)

// docExcerptLimit caps how much of each uploaded document enters the prompt.
const docExcerptLimit = 2000

// Fetcher is the website-retrieval boundary, satisfied by fetch.Fetcher and
// by test doubles.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*models.FetchResult, error)
}

// Service runs the audit pipeline. It is stateless across requests.
type Service struct {
	fetcher   Fetcher
	completer completion.Completer
	uploads   *upload.Store

	history    *storage.History
	cache      *cache.Client
	summaryTTL time.Duration

	modelName        string
	summaryMaxTokens int
	auditMaxTokens   int

	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithHistory enables report-history recording.
func WithHistory(h *storage.History) Option {
	return func(s *Service) { s.history = h }
}

// WithCache enables the website-summary cache.
func WithCache(c *cache.Client, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = c
		s.summaryTTL = ttl
	}
}

// WithModelName records which model produced each audit.
func WithModelName(name string) Option {
	return func(s *Service) { s.modelName = name }
}

// WithTokenBudgets overrides the per-call output ceilings.
func WithTokenBudgets(summary, audit int) Option {
	return func(s *Service) {
		s.summaryMaxTokens = summary
		s.auditMaxTokens = audit
	}
}

// WithClock overrides the report-date source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService wires the pipeline dependencies.
func NewService(fetcher Fetcher, completer completion.Completer, uploads *upload.Store, opts ...Option) *Service {
	s := &Service{
		fetcher:          fetcher,
		completer:        completer,
		uploads:          uploads,
		summaryMaxTokens: 512,
		auditMaxTokens:   4096,
		summaryTTL:       15 * time.Minute,
		logger:           slog.Default(),
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyse runs the quick-analysis variant: fetch, excerpt, summary prompt,
// one completion with a small output budget.
func (s *Service) Analyse(ctx context.Context, website string) (string, error) {
	website = strings.TrimSpace(website)
	if website == "" {
		return "", ErrWebsiteMissing
	}

	cacheKey := "summary:" + website
	if cached, err := s.cache.Get(ctx, cacheKey); err == nil && cached != "" {
		return cached, nil
	}

	result, err := s.fetcher.Fetch(ctx, website)
	if err != nil {
		return "", err
	}

	p := prompt.BuildSummaryPrompt(website, result.Excerpt)
	text, err := s.completer.Complete(ctx, p, summaryTemperature, s.summaryMaxTokens)
	if err != nil {
		return "", err
	}
	summary := StripCodeFence(text)

	if err := s.cache.Set(ctx, cacheKey, summary, s.summaryTTL); err != nil {
		s.logger.Warn("cache summary", "website", website, "error", err)
	}
	s.record(ctx, website, models.AuditKindSummary, summary)
	return summary, nil
}

// Generate runs the full pipeline and returns the report HTML. Unresolvable
// file identifiers are skipped, never fatal.
func (s *Service) Generate(ctx context.Context, website string, fileIDs []string) (string, error) {
	website = strings.TrimSpace(website)
	if website == "" {
		return "", ErrWebsiteMissing
	}

	// The report prompt derives everything from the URL and documents; the
	// fetch only confirms the site is reachable before the expensive call.
	if _, err := s.fetcher.Fetch(ctx, website); err != nil {
		return "", err
	}

	files := s.uploads.Resolve(fileIDs)
	docs := make([]prompt.Document, 0, len(files))
	for _, f := range files {
		docs = append(docs, prompt.Document{
			Name: f.FileName,
			Text: truncateRunes(s.uploads.ReadText(ctx, f.StoredPath), docExcerptLimit),
		})
	}

	date := s.now().Format("02 January 2006")
	p := prompt.BuildAuditPrompt(website, docs, date)

	text, err := s.completer.Complete(ctx, p, auditTemperature, s.auditMaxTokens)
	if err != nil {
		return "", err
	}
	html := StripCodeFence(text)

	s.record(ctx, website, models.AuditKindReport, html)
	return html, nil
}

// History exposes the report history for the listing endpoint; nil when
// recording is disabled.
func (s *Service) History() *storage.History {
	return s.history
}

func (s *Service) record(ctx context.Context, website string, kind models.AuditKind, output string) {
	if s.history == nil {
		return
	}
	rec := &models.AuditRecord{
		Website:   website,
		Kind:      kind,
		Model:     s.modelName,
		Bytes:     int64(len(output)),
		CreatedAt: s.now(),
	}
	if err := s.history.RecordAudit(ctx, rec); err != nil {
		s.logger.Warn("record audit", "website", website, "kind", kind, "error", err)
	}
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// StripCodeFence removes a single enclosing markdown code fence from text,
// if present. Stripping an already-clean string is a no-op.
func StripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	idx := strings.IndexByte(trimmed, '\n')
	if idx < 0 {
		// A bare fence marker with no content.
		return ""
	}
	trimmed = strings.TrimSpace(trimmed[idx+1:])
	if strings.HasSuffix(trimmed, "```") {
		trimmed = strings.TrimSpace(strings.TrimSuffix(trimmed, "```"))
	}
	return trimmed
}
