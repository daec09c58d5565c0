package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"dtrecon/internal/match"
	"dtrecon/internal/state"
)

func TestWriteSnapshot_WritesBucketsJSON(t *testing.T) {
	dir := t.TempDir()
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	s := state.NewInMemoryStore()
	_, _, _ = s.Apply(match.BucketKey(day, "WC1"), 40, 1)
	_, _, _ = s.Apply(match.BucketKey(day, "WC1"), 30, 2)
	_, _, _ = s.Apply(match.BucketKey(day, "WC2"), 60, 3)

	snap := NewFilesystemSnapshotter(dir)
	if err := snap.WriteSnapshot("sid", s, 60); err != nil {
		t.Fatalf("WriteSnapshot error: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(dir, "sid", "buckets.json"))
	if err != nil {
		t.Fatalf("buckets.json missing: %v", err)
	}
	var d Dump
	if err := json.Unmarshal(b, &d); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if d.RunID != "sid" || len(d.Buckets) != 2 {
		t.Fatalf("unexpected dump: %+v", d)
	}
	wc1 := d.Buckets[match.BucketKey(day, "WC1")]
	if wc1.SumMinutes != 70 || wc1.Events != 2 || !wc1.AboveThreshold || wc1.Day != "2024-03-04" {
		t.Fatalf("WC1 bucket: %+v", wc1)
	}
	if d.Buckets[match.BucketKey(day, "WC2")].AboveThreshold {
		t.Fatalf("sum equal to threshold must not be above it")
	}
}
