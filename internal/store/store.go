// Package store persists fund records as JSON files keyed by slug.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/fundsift/fundsift/internal/monitoring"
	"github.com/fundsift/fundsift/internal/record"
)

// Store writes one JSON file per fund under a base directory. Each
// file holds a single-element array so downstream loaders that expect
// list-shaped dumps keep working. Last write wins.
type Store struct {
	dir     string
	log     *zap.Logger
	metrics *monitoring.Metrics
}

// New creates the base directory if needed. metrics may be nil.
func New(dir string, log *zap.Logger, metrics *monitoring.Metrics) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &Store{dir: dir, log: log, metrics: metrics}, nil
}

// Save writes rec to <dir>/<slug>.json, replacing any previous record
// for the same slug.
func (s *Store) Save(slug string, rec *record.FundRecord) error {
	data, err := sonic.ConfigStd.MarshalIndent([]*record.FundRecord{rec}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	path := s.path(slug)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write record: %w", err)
	}

	if s.metrics != nil {
		s.metrics.IncRecordsSaved()
	}
	s.log.Info("record saved", zap.String("slug", slug), zap.String("path", path))
	return nil
}

// Load reads the record previously saved for slug. A missing slug
// returns os.ErrNotExist.
func (s *Store) Load(slug string) (*record.FundRecord, error) {
	data, err := os.ReadFile(s.path(slug))
	if err != nil {
		return nil, err
	}

	var recs []*record.FundRecord
	if err := sonic.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("empty record file for %q", slug)
	}
	return recs[0], nil
}

// Slugs lists every stored fund slug in lexical order.
func (s *Store) Slugs() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read store dir: %w", err)
	}
	slugs := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		slugs = append(slugs, strings.TrimSuffix(name, ".json"))
	}
	return slugs, nil
}

func (s *Store) path(slug string) string {
	// Slugs come from URL paths; keep writes inside the base dir.
	safe := filepath.Base(filepath.Clean(slug))
	return filepath.Join(s.dir, safe+".json")
}
