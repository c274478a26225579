// Package config defines the optimizer configuration: the column
// allow-lists for the table and detail projections, truncation limits,
// sampling parameters and output encodings.
//
// Defaults reproduce the published artifact layout. A config file (YAML or
// JSON) and OPTIMIZE_-prefixed environment variables can override any
// value; command line flags are applied on top by the CLI.
package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/modelprops/dataopt/pkg/errors"
)

// DefaultTableColumns are the essential columns for the table view.
// The allow-list is intersected with the columns actually present.
var DefaultTableColumns = []string{
	"prompt",
	"model",
	"type",
	"impact",
	"unexpected_behavior",
	"property_description_coarse_cluster_label",
	"property_description_fine_cluster_label",
	"property_description",
	"category",
	"evidence",
}

// DefaultDetailColumns are the additional columns for the detail view.
var DefaultDetailColumns = []string{
	"model_1_response",
	"model_2_response",
	"model_1_name",
	"model_2_name",
	"differences",
	"parsed_differences",
	"parse_error",
	"reason",
	"property_description_coarse_cluster_id",
	"property_description_fine_cluster_id",
}

// DefaultTruncateLimits bounds the long text columns kept in the table
// projection, in characters.
var DefaultTruncateLimits = map[string]int{
	"property_description": 500,
	"evidence":             300,
}

// Config holds all optimizer settings.
type Config struct {
	// TableColumns is the allow-list for the table projection
	TableColumns []string `mapstructure:"table_columns"`
	// DetailColumns is the additional allow-list for the detail projection
	DetailColumns []string `mapstructure:"detail_columns"`
	// TruncateLimits maps table column names to character caps
	TruncateLimits map[string]int `mapstructure:"truncate_limits"`
	// MaxDetailRows caps the detail projection; above it rows are sampled
	MaxDetailRows int `mapstructure:"max_detail_rows"`
	// Seed drives the detail sampling, fixed for reproducible runs
	Seed int64 `mapstructure:"seed"`
	// Compression selects the algorithm for the compressed artifacts
	Compression string `mapstructure:"compression"`
	// ColumnarFormat selects the best-effort columnar encoding
	// ("parquet", "avro" or "none")
	ColumnarFormat string `mapstructure:"columnar_format"`
	// LogLevel controls diagnostic verbosity
	LogLevel string `mapstructure:"log_level"`
}

// Default returns the configuration matching the published artifact
// layout.
func Default() *Config {
	limits := make(map[string]int, len(DefaultTruncateLimits))
	for k, v := range DefaultTruncateLimits {
		limits[k] = v
	}
	return &Config{
		TableColumns:   append([]string(nil), DefaultTableColumns...),
		DetailColumns:  append([]string(nil), DefaultDetailColumns...),
		TruncateLimits: limits,
		MaxDetailRows:  10000,
		Seed:           42,
		Compression:    "gzip",
		ColumnarFormat: "parquet",
		LogLevel:       "info",
	}
}

// Load builds a Config from defaults, an optional config file and
// OPTIMIZE_-prefixed environment variables, in increasing precedence.
func Load(path string) (*Config, error) {
	v := viper.New()

	defaults := Default()
	v.SetDefault("table_columns", defaults.TableColumns)
	v.SetDefault("detail_columns", defaults.DetailColumns)
	v.SetDefault("truncate_limits", defaults.TruncateLimits)
	v.SetDefault("max_detail_rows", defaults.MaxDetailRows)
	v.SetDefault("seed", defaults.Seed)
	v.SetDefault("compression", defaults.Compression)
	v.SetDefault("columnar_format", defaults.ColumnarFormat)
	v.SetDefault("log_level", defaults.LogLevel)

	v.SetEnvPrefix("OPTIMIZE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to read config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to parse configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values the pipeline cannot run
// with.
func (c *Config) Validate() error {
	if len(c.TableColumns) == 0 {
		return errors.New(errors.ErrorTypeValidation, "table column allow-list must not be empty")
	}
	if c.MaxDetailRows <= 0 {
		return errors.New(errors.ErrorTypeValidation, "max_detail_rows must be positive").
			WithDetail("max_detail_rows", c.MaxDetailRows)
	}
	for col, limit := range c.TruncateLimits {
		if limit <= 0 {
			return errors.New(errors.ErrorTypeValidation, "truncation limit must be positive").
				WithDetail("column", col).
				WithDetail("limit", limit)
		}
	}
	switch c.Compression {
	case "", "none", "gzip", "snappy", "lz4", "zstd", "s2":
	default:
		return errors.New(errors.ErrorTypeValidation, "unknown compression algorithm").
			WithDetail("compression", c.Compression)
	}
	switch c.ColumnarFormat {
	case "", "none", "parquet", "avro":
	default:
		return errors.New(errors.ErrorTypeValidation, "unknown columnar format").
			WithDetail("columnar_format", c.ColumnarFormat)
	}
	return nil
}
