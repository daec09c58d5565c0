package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"dtrecon/internal/aggregate"
	"dtrecon/internal/analysis"
)

// LatestFile is the name of the report written by FileSink.
const LatestFile = "comparison.latest.json"

// Report is everything a run publishes.
type Report struct {
	RunID       string                  `json:"run_id"`
	GeneratedAt time.Time               `json:"generated_at"`
	Comparison  aggregate.Comparison    `json:"comparison"`
	TopMatches  []analysis.TopMatch     `json:"top_matches"`
	Priorities  []analysis.PriorityStat `json:"priorities"`
	// Correlation is nil when it could not be computed.
	Correlation *analysis.Correlation `json:"correlation"`
}

type Publisher interface {
	Publish(ctx context.Context, r Report) error
}

// MultiPublisher publishes to each publisher in turn and stops at the first error.
type MultiPublisher struct {
	pubs []Publisher
}

func NewMultiPublisher(pubs ...Publisher) *MultiPublisher {
	return &MultiPublisher{pubs: pubs}
}

func (m *MultiPublisher) Publish(ctx context.Context, r Report) error {
	for _, p := range m.pubs {
		if err := p.Publish(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

// Discard drops reports. Used for sink "none".
type Discard struct{}

func (Discard) Publish(context.Context, Report) error { return nil }

type FileSink struct {
	baseDir string
}

func NewFileSink(baseDir string) *FileSink {
	return &FileSink{baseDir: baseDir}
}

// Publish overwrites <baseDir>/comparison.latest.json. The report is written
// to a temp file first and renamed into place.
func (f *FileSink) Publish(_ context.Context, r Report) error {
	if err := os.MkdirAll(f.baseDir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	tmp, err := os.CreateTemp(f.baseDir, ".comparison-*.json")
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&r); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("encode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(f.baseDir, LatestFile)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// ReadLatest reads the report last written by a FileSink in baseDir.
func ReadLatest(baseDir string) (Report, error) {
	data, err := os.ReadFile(filepath.Join(baseDir, LatestFile))
	if err != nil {
		return Report{}, fmt.Errorf("read report: %w", err)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return Report{}, fmt.Errorf("unmarshal report: %w", err)
	}
	return r, nil
}
