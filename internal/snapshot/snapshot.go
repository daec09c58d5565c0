package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"dtrecon/internal/match"
	"dtrecon/internal/state"
)

// Snapshotter persists the date-window buckets of a run for auditing.
type Snapshotter interface {
	WriteSnapshot(runID string, st state.Store, threshold float64) error
}

type FilesystemSnapshotter struct {
	baseDir string
}

func NewFilesystemSnapshotter(baseDir string) *FilesystemSnapshotter {
	return &FilesystemSnapshotter{baseDir: baseDir}
}

// BucketDump is one bucket as written to buckets.json.
type BucketDump struct {
	Day            string  `json:"day"`
	WorkCenter     string  `json:"work_center"`
	SumMinutes     float64 `json:"sum_minutes"`
	Events         int64   `json:"events"`
	AboveThreshold bool    `json:"above_threshold"`
}

// Dump is the content of buckets.json.
type Dump struct {
	RunID     string                `json:"run_id"`
	Threshold float64               `json:"threshold_minutes"`
	Buckets   map[string]BucketDump `json:"buckets"`
}

// WriteSnapshot writes <baseDir>/<runID>/buckets.json.
func (f *FilesystemSnapshotter) WriteSnapshot(runID string, st state.Store, threshold float64) error {
	if err := os.MkdirAll(filepath.Join(f.baseDir, runID), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	file := filepath.Join(f.baseDir, runID, "buckets.json")
	out, err := os.Create(file)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	defer out.Close()

	dump := Dump{RunID: runID, Threshold: threshold, Buckets: make(map[string]BucketDump)}
	if err := st.Range(func(key string, rs state.RecordState) error {
		day, wc, err := match.ParseBucketKey(key)
		if err != nil {
			return err
		}
		dump.Buckets[key] = BucketDump{
			Day:            day.Format("2006-01-02"),
			WorkCenter:     wc,
			SumMinutes:     rs.SumMinutes,
			Events:         rs.Events,
			AboveThreshold: rs.SumMinutes > threshold,
		}
		return nil
	}); err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(dump); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
