// Package scrape ties the pipeline together: fetch a page, parse it,
// run extraction and persist the record.
package scrape

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fundsift/fundsift/internal/document"
	"github.com/fundsift/fundsift/internal/extract"
	"github.com/fundsift/fundsift/internal/fetch"
	"github.com/fundsift/fundsift/internal/live/sandbox"
	"github.com/fundsift/fundsift/internal/record"
	"github.com/fundsift/fundsift/internal/store"
)

// Scraper runs the full pipeline for one URL at a time. Safe for
// concurrent use.
type Scraper struct {
	fetcher *fetch.Fetcher
	engine  *extract.Engine
	store   *store.Store
	log     *zap.Logger
}

func New(fetcher *fetch.Fetcher, engine *extract.Engine, st *store.Store, log *zap.Logger) *Scraper {
	return &Scraper{fetcher: fetcher, engine: engine, store: st, log: log}
}

// ScrapeURL fetches, extracts and persists one fund page.
func (s *Scraper) ScrapeURL(ctx context.Context, url string) (*record.FundRecord, error) {
	html, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	rec, err := s.ExtractHTML(ctx, html, url)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(record.Slug(url), rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// ExtractHTML runs extraction over already-fetched markup without
// persisting. The only fatal failure is unparseable input.
func (s *Scraper) ExtractHTML(ctx context.Context, html, url string) (*record.FundRecord, error) {
	doc, err := document.Parse(html)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	page, err := sandbox.New(doc)
	if err != nil {
		// Live strategies degrade to misses without a page.
		s.log.Warn("sandbox unavailable", zap.String("url", url), zap.Error(err))
		return s.engine.BuildRecord(ctx, doc, nil, url), nil
	}
	return s.engine.BuildRecord(ctx, doc, page, url), nil
}
