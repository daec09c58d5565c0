package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "reconcile.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

const minimal = `
sources:
  orders: data/orders.xlsx
  machine_log: data/machine.csv
  notifications: data/notifications.xlsx
  failure_codes: data/codes.xlsx
`

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimal))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Match.DowntimeThresholdMinutes != 60 || cfg.Match.TopN != 10 {
		t.Fatalf("match defaults: %+v", cfg.Match)
	}
	if cfg.Machine.Delimiter != ";" || cfg.Machine.Encoding != "latin1" {
		t.Fatalf("machine defaults: %+v", cfg.Machine)
	}
	if cfg.State.Backend != "memory" || cfg.Output.Sink != "file" {
		t.Fatalf("backend=%q sink=%q", cfg.State.Backend, cfg.Output.Sink)
	}
	opts := cfg.MachineCSV()
	if opts.Delimiter != ';' || opts.Encoding != "latin1" {
		t.Fatalf("MachineCSV: %+v", opts)
	}
	if got := cfg.Paths().MachineLog; got != "data/machine.csv" {
		t.Fatalf("Paths: got=%q", got)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("DTRECON_MATCH_TOP_N", "3")
	cfg, err := Load(writeConfig(t, minimal))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Match.TopN != 3 {
		t.Fatalf("top_n: got=%d want=3", cfg.Match.TopN)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestValidate_Errors(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"missing source", "sources:\n  orders: a.xlsx\n", "MachineLog is required"},
		{"bad sink", minimal + "output:\n  sink: ftp\n", "Sink must be one of"},
		{"bad backend", minimal + "state:\n  backend: redis\n", "Backend must be one of"},
		{"kafka without bootstrap", minimal + "output:\n  sink: kafka\n", "kafka_bootstrap is required"},
		{"wide delimiter", minimal + "machine:\n  delimiter: ';;'\n", "single character"},
		{"top_n zero", minimal + "match:\n  top_n: 0\n", "TopN must be at least 1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tc.body))
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			err = cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("Validate: got=%v want substring %q", err, tc.want)
			}
		})
	}
}
