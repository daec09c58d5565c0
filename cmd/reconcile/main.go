package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"dtrecon/internal/config"
	"dtrecon/internal/logger"
	"dtrecon/internal/metrics"
	"dtrecon/internal/model"
	"dtrecon/internal/pipeline"
	"dtrecon/internal/sink"
	"dtrecon/internal/snapshot"
	"dtrecon/internal/source"
	"dtrecon/internal/state"
)

func main() {
	configPath := flag.String("config", "config/reconcile.yaml", "path to the YAML config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("reconcile failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("reconcile failed: %v", err)
	}
	if err := run(cfg); err != nil {
		var sle *model.SourceLoadError
		if errors.As(err, &sle) {
			fmt.Fprintf(os.Stderr, "reconcile: source %q could not be loaded from %s: %v\n", sle.Source, sle.Path, sle.Err)
			os.Exit(1)
		}
		log.Fatalf("reconcile failed: %v", err)
	}
}

func run(cfg *config.Config) error {
	started := time.Now()
	zl, err := logger.NewZapLogger(cfg.App.LogLevel)
	if err != nil {
		return err
	}
	defer zl.Sync()

	runID := uuid.NewString()
	ctx := logger.WithRunID(context.Background(), runID)
	zl.Infof(ctx, "starting %s threshold=%.0fmin backend=%s sink=%s",
		cfg.App.Name, cfg.Match.DowntimeThresholdMinutes, cfg.State.Backend, cfg.Output.Sink)

	set, err := source.LoadAll(cfg.Paths(), cfg.MachineCSV(), cfg.SAPCSV())
	if err != nil {
		zl.Errorf(ctx, "load failed: %v", err)
		return err
	}

	// Init bucket store
	var st state.Store
	if cfg.State.Backend == "pebble" {
		ps, cleanup, err := state.OpenScratch(cfg.State.Dir)
		if err != nil {
			return fmt.Errorf("init pebble: %w", err)
		}
		defer func() {
			if err := cleanup(); err != nil {
				zl.Warnf(ctx, "pebble cleanup: %v", err)
			}
		}()
		st = ps
	} else {
		st = state.NewInMemoryStore()
	}

	mreg := metrics.NewRegistry()
	p := pipeline.New(zl, mreg, nil, st, pipeline.Options{
		DowntimeThreshold: cfg.Match.DowntimeThresholdMinutes,
		TopN:              cfg.Match.TopN,
	})
	out, err := p.Run(ctx, set)
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	if err := out.Comparison.WriteTable(os.Stdout); err != nil {
		return fmt.Errorf("print comparison: %w", err)
	}

	if cfg.Output.SnapshotDir != "" {
		snap := snapshot.NewFilesystemSnapshotter(cfg.Output.SnapshotDir)
		if err := snap.WriteSnapshot(runID, st, cfg.Match.DowntimeThresholdMinutes); err != nil {
			return fmt.Errorf("snapshot: %w", err)
		}
	}

	report := sink.Report{
		RunID:       runID,
		GeneratedAt: time.Now().UTC(),
		Comparison:  out.Comparison,
		TopMatches:  out.TopMatches,
		Priorities:  out.Priorities,
	}
	if c, ok := out.Correlation.Get(); ok {
		report.Correlation = &c
	}

	pub, closePub := buildPublisher(cfg)
	defer closePub()
	pubStart := time.Now()
	if err := pub.Publish(ctx, report); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	mreg.PublishLatencySec.Observe(time.Since(pubStart).Seconds())

	mreg.RunDurationSec.Set(time.Since(started).Seconds())
	if cfg.Metrics.Textfile != "" {
		if err := mreg.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			return err
		}
	}
	zl.Infof(ctx, "run finished in %s", time.Since(started).Round(time.Millisecond))
	return nil
}

func buildPublisher(cfg *config.Config) (sink.Publisher, func()) {
	var pubs []sink.Publisher
	var closers []func() error
	if cfg.Output.Sink == "file" || cfg.Output.Sink == "both" {
		pubs = append(pubs, sink.NewFileSink(cfg.Output.Dir))
	}
	if cfg.Output.Sink == "kafka" || cfg.Output.Sink == "both" {
		ks := sink.NewKafkaSink(cfg.Output.KafkaBootstrap, cfg.Output.KafkaTopic)
		pubs = append(pubs, ks)
		closers = append(closers, ks.Close)
	}
	closeAll := func() {
		for _, c := range closers {
			_ = c()
		}
	}
	switch len(pubs) {
	case 0:
		return sink.Discard{}, closeAll
	case 1:
		return pubs[0], closeAll
	default:
		return sink.NewMultiPublisher(pubs...), closeAll
	}
}
