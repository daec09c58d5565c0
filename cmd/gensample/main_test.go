package main

import (
	"context"
	"testing"

	"dtrecon/internal/logger"
	"dtrecon/internal/metrics"
	"dtrecon/internal/pipeline"
	"dtrecon/internal/source"
	"dtrecon/internal/state"
)

func TestGenerate_LoadsAndReconciles(t *testing.T) {
	dir := t.TempDir()
	if err := generate(genOptions{Dir: dir, Days: 5, OrdersPerDay: 3, Seed: 7}); err != nil {
		t.Fatalf("generate: %v", err)
	}

	set, err := source.LoadAll(source.Paths{
		Orders:        dir + "/orders.xlsx",
		MachineLog:    dir + "/machine_log.csv",
		Notifications: dir + "/notifications.xlsx",
		FailureCodes:  dir + "/failure_codes.xlsx",
	}, source.CSVOptions{Delimiter: ';', Encoding: "latin1"}, source.CSVOptions{Delimiter: ','})
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if set.Orders.Len() != 15 || set.Notifications.Len() != 15 {
		t.Fatalf("orders=%d notifications=%d", set.Orders.Len(), set.Notifications.Len())
	}
	if !set.MachineLog.Has("Störung (1201)") {
		t.Fatalf("latin1 header not decoded: %v", set.MachineLog.Columns)
	}

	p := pipeline.New(logger.Nop(), metrics.NewRegistry(), nil, state.NewInMemoryStore(), pipeline.Options{DowntimeThreshold: 60, TopN: 5})
	out, err := p.Run(context.Background(), set)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(out.Comparison.Unavailable) != 0 {
		t.Fatalf("unavailable: %v", out.Comparison.Unavailable)
	}
	if len(out.Comparison.Rows) == 0 {
		t.Fatalf("empty comparison")
	}
}
