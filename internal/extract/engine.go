package extract

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fundsift/fundsift/internal/document"
	"github.com/fundsift/fundsift/internal/live"
	"github.com/fundsift/fundsift/internal/monitoring"
	"github.com/fundsift/fundsift/internal/record"
	"github.com/fundsift/fundsift/internal/validate"
)

const scrapedDateLayout = "2006-01-02"

// Engine runs every field pipeline against a parsed page and assembles
// the output record. Safe for concurrent use; all state is read-only
// after construction.
type Engine struct {
	bounds  validate.Bounds
	log     *zap.Logger
	metrics *monitoring.Metrics
	now     func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithBounds overrides the default plausibility bounds.
func WithBounds(b validate.Bounds) Option {
	return func(e *Engine) { e.bounds = b }
}

// WithLogger sets the engine logger.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithMetrics enables per-field and per-page extraction metrics.
func WithMetrics(m *monitoring.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithClock overrides the scrape timestamp source. Test hook.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine builds an engine with default bounds and a no-op logger.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		bounds: validate.DefaultBounds(),
		log:    zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// BuildRecord runs the full pipeline set against one page. Every field
// degrades independently: a missing value leaves its slot empty and
// never aborts the rest. page may be nil for purely static extraction.
func (e *Engine) BuildRecord(ctx context.Context, d *document.Document, page live.Page, sourceURL string) *record.FundRecord {
	start := e.now()
	rec := record.New()
	rec.SourceURL = sourceURL
	rec.LastScraped = e.now().Format(scrapedDateLayout)

	rec.FundName = e.fundName(ctx, d, page)
	rec.NAV = e.nav(ctx, d, page)
	rec.FundSize = e.fundSize(ctx, d, page)
	rec.AUM = e.aum(ctx, d, page)

	e.summary(ctx, d, page, rec)
	e.minimumInvestments(ctx, d, page, rec)
	e.returns(ctx, d, page, rec)
	e.categoryInfo(ctx, d, page, rec)
	e.costAndTax(ctx, d, page, rec)
	e.portfolio(ctx, d, page, rec)

	rec.FAQ = e.faq(ctx, d, page)

	if e.metrics != nil {
		e.metrics.RecordExtraction(time.Since(start))
	}
	e.log.Info("record assembled",
		zap.String("url", sourceURL),
		zap.String("fund", rec.FundName),
		zap.Bool("nav", rec.NAV.Value != ""),
		zap.Int("faq", len(rec.FAQ)))
	return rec
}
