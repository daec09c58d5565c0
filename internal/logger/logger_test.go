package logger

import (
	"context"
	"testing"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_ContextFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewWithCore(core)

	ctx := WithStage(WithRunID(context.Background(), "run-1"), "match")
	l.Warnf(ctx, "dropped %d rows", 3)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("want 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Message != "dropped 3 rows" || e.Level != zapcore.WarnLevel {
		t.Fatalf("unexpected entry: %+v", e)
	}
	fields := e.ContextMap()
	if fields["run_id"] != "run-1" || fields["stage"] != "match" {
		t.Fatalf("fields: %v", fields)
	}
	if RunID(ctx) != "run-1" {
		t.Fatalf("RunID: %q", RunID(ctx))
	}
}

func TestZapLogger_NoContextFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	NewWithCore(core).Debugf(context.Background(), "hidden")
	NewWithCore(core).Infof(context.Background(), "shown")
	if logs.Len() != 1 || len(logs.All()[0].Context) != 0 {
		t.Fatalf("entries: %+v", logs.All())
	}
}
