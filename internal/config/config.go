package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"dtrecon/internal/source"
)

// Config is the full run configuration.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Sources SourcesConfig `mapstructure:"sources"`
	Machine MachineConfig `mapstructure:"machine"`
	Match   MatchConfig   `mapstructure:"match"`
	State   StateConfig   `mapstructure:"state"`
	Output  OutputConfig  `mapstructure:"output"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type AppConfig struct {
	Name     string `mapstructure:"name" validate:"required"`
	LogLevel string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
}

// SourcesConfig holds the input paths. Delimiter applies to SAP exports
// given as CSV instead of workbooks.
type SourcesConfig struct {
	Orders        string `mapstructure:"orders" validate:"required"`
	MachineLog    string `mapstructure:"machine_log" validate:"required"`
	Notifications string `mapstructure:"notifications" validate:"required"`
	FailureCodes  string `mapstructure:"failure_codes" validate:"required"`
	Delimiter     string `mapstructure:"delimiter" validate:"required"`
	Encoding      string `mapstructure:"encoding" validate:"oneof=utf8 latin1 cp1252"`
}

type MachineConfig struct {
	Delimiter string `mapstructure:"delimiter" validate:"required"`
	Encoding  string `mapstructure:"encoding" validate:"oneof=utf8 latin1 cp1252"`
}

type MatchConfig struct {
	DowntimeThresholdMinutes float64 `mapstructure:"downtime_threshold_minutes" validate:"gte=0"`
	TopN                     int     `mapstructure:"top_n" validate:"min=1"`
}

type StateConfig struct {
	// Backend is "memory" or "pebble". Pebble uses a scratch directory
	// under Dir that is removed when the run ends.
	Backend string `mapstructure:"backend" validate:"oneof=memory pebble"`
	Dir     string `mapstructure:"dir"`
}

type OutputConfig struct {
	Sink           string `mapstructure:"sink" validate:"oneof=file kafka both none"`
	Dir            string `mapstructure:"dir"`
	KafkaBootstrap string `mapstructure:"kafka_bootstrap"`
	KafkaTopic     string `mapstructure:"kafka_topic"`
	SnapshotDir    string `mapstructure:"snapshot_dir"`
}

type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

const envPrefix = "DTRECON"

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "dtrecon")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("sources.delimiter", ",")
	v.SetDefault("sources.encoding", "utf8")
	v.SetDefault("machine.delimiter", ";")
	v.SetDefault("machine.encoding", "latin1")
	v.SetDefault("match.downtime_threshold_minutes", 60)
	v.SetDefault("match.top_n", 10)
	v.SetDefault("state.backend", "memory")
	v.SetDefault("output.sink", "file")
	v.SetDefault("output.dir", "out")
	v.SetDefault("output.kafka_topic", "dtrecon.comparison")
}

// Load reads the YAML file at path. Keys may be overridden from the
// environment, e.g. DTRECON_MATCH_TOP_N. The result is not validated.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config failed: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}
	return &cfg, nil
}

var validate = validator.New()

// Validate checks field constraints and the cross-field rules of the
// output and state sections.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, validationMessage(fe))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if utf8.RuneCountInString(c.Machine.Delimiter) != 1 {
		return fmt.Errorf("invalid config: machine.delimiter must be a single character")
	}
	if utf8.RuneCountInString(c.Sources.Delimiter) != 1 {
		return fmt.Errorf("invalid config: sources.delimiter must be a single character")
	}
	if c.publishesKafka() {
		if c.Output.KafkaBootstrap == "" {
			return fmt.Errorf("invalid config: output.kafka_bootstrap is required for sink %q", c.Output.Sink)
		}
		if c.Output.KafkaTopic == "" {
			return fmt.Errorf("invalid config: output.kafka_topic is required for sink %q", c.Output.Sink)
		}
	}
	if c.publishesFile() && c.Output.Dir == "" {
		return fmt.Errorf("invalid config: output.dir is required for sink %q", c.Output.Sink)
	}
	return nil
}

func (c *Config) publishesKafka() bool {
	return c.Output.Sink == "kafka" || c.Output.Sink == "both"
}

func (c *Config) publishesFile() bool {
	return c.Output.Sink == "file" || c.Output.Sink == "both"
}

func validationMessage(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return field + " must be one of [" + fe.Param() + "]"
	case "min", "gte":
		return field + " must be at least " + fe.Param()
	default:
		return field + " is invalid"
	}
}

// Paths returns the source locations for the loader.
func (c *Config) Paths() source.Paths {
	return source.Paths{
		Orders:        c.Sources.Orders,
		MachineLog:    c.Sources.MachineLog,
		Notifications: c.Sources.Notifications,
		FailureCodes:  c.Sources.FailureCodes,
	}
}

// MachineCSV returns the CSV options for the machine report.
func (c *Config) MachineCSV() source.CSVOptions {
	r, _ := utf8.DecodeRuneInString(c.Machine.Delimiter)
	return source.CSVOptions{Delimiter: r, Encoding: c.Machine.Encoding}
}

// SAPCSV returns the CSV options for SAP exports stored as CSV.
func (c *Config) SAPCSV() source.CSVOptions {
	r, _ := utf8.DecodeRuneInString(c.Sources.Delimiter)
	return source.CSVOptions{Delimiter: r, Encoding: c.Sources.Encoding}
}
