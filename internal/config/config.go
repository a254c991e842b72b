package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"runtime"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/iksnae/chatprep/internal"
	"github.com/iksnae/chatprep/internal/export"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. CHATPREP_TARGET_NAME
const EnvPrefix = "CHATPREP"

// DefaultConfigFile is read when present and no --config is given
const DefaultConfigFile = "chatprep.yaml"

// Config holds every pipeline setting
type Config struct {
	Input                   string `mapstructure:"input" validate:"required"`
	Output                  string `mapstructure:"output" validate:"required"`
	TargetName              string `mapstructure:"target_name"`
	LastXMonths             int    `mapstructure:"last_x_months" validate:"gt=0"`
	SessionMinutesThreshold int    `mapstructure:"session_minutes_threshold" validate:"gt=0"`
	MergeDelimiter          string `mapstructure:"merge_delimiter"`
	StartMarker             string `mapstructure:"start_marker" validate:"required"`
	EndMarker               string `mapstructure:"end_marker" validate:"required"`
	Format                  string `mapstructure:"format" validate:"exportformat"`
	Workers                 int    `mapstructure:"workers"`
	AllowMissingTarget      bool   `mapstructure:"allow_missing_target"`
	CacheDir                string `mapstructure:"cache_dir"`
	NoCache                 bool   `mapstructure:"no_cache"`
	Report                  string `mapstructure:"report"`
}

// keys lists every setting; flags use the same names with dashes
var keys = []string{
	"input",
	"output",
	"target_name",
	"last_x_months",
	"session_minutes_threshold",
	"merge_delimiter",
	"start_marker",
	"end_marker",
	"format",
	"workers",
	"allow_missing_target",
	"cache_dir",
	"no_cache",
	"report",
}

// FlagName returns the command-line flag bound to key
func FlagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

// Load resolves the configuration. Precedence is flags, then environment,
// then the config file, then defaults. configFile may be empty, in which case
// ./chatprep.yaml is used when it exists. flags may be nil.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	// A missing .env is fine
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		internal.LogWarn("Failed to load .env: %v", err)
	}

	v := viper.New()
	setDefaults(v)

	if err := readConfigFile(v, configFile); err != nil {
		return nil, err
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	if flags != nil {
		for _, key := range keys {
			if f := flags.Lookup(FlagName(key)); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", f.Name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.CacheDir == "" {
		dir, err := internal.DefaultCacheDir()
		if err != nil {
			return nil, err
		}
		cfg.CacheDir = dir
	}

	return &cfg, nil
}

func readConfigFile(v *viper.Viper, configFile string) error {
	path := configFile
	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err != nil {
			return nil
		}
		path = DefaultConfigFile
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return &internal.ParseError{Source: "config", Key: path, Err: err}
	}
	internal.LogDebug("Using config file %s", path)
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("input", "./data/result.json")
	v.SetDefault("output", "./data/training_data.jsonl")
	v.SetDefault("target_name", "")
	v.SetDefault("last_x_months", internal.DefaultLastXMonths)
	v.SetDefault("session_minutes_threshold", internal.DefaultSessionMinutesThreshold)
	v.SetDefault("merge_delimiter", internal.DefaultMergeDelimiter)
	v.SetDefault("start_marker", internal.DefaultStartMarker)
	v.SetDefault("end_marker", internal.DefaultEndMarker)
	v.SetDefault("format", "jsonl")
	v.SetDefault("workers", 0)
	v.SetDefault("allow_missing_target", false)
	v.SetDefault("cache_dir", "")
	v.SetDefault("no_cache", false)
	v.SetDefault("report", "")
}

var validate = newValidator()

// newValidator reports fields by their config key and knows the
// chatprep-specific rules
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("mapstructure")
	})
	_ = v.RegisterValidation("exportformat", func(fl validator.FieldLevel) bool {
		return slices.Contains(export.Formats(), fl.Field().String())
	})
	return v
}

// Validate rejects values no pipeline run can use. Only the first failing
// key is reported.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return err
	}
	e := validationErrors[0]
	return &internal.ConfigError{Key: e.Field(), Reason: validationReason(e)}
}

func validationReason(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "must not be empty"
	case "gt":
		return fmt.Sprintf("must be positive, got %v", e.Value())
	case "exportformat":
		return fmt.Sprintf("unsupported format %q", e.Value())
	default:
		return "failed the " + e.Tag() + " check"
	}
}

// Options converts the configuration into pipeline options
func (c *Config) Options() internal.Options {
	opts := internal.DefaultOptions()
	opts.TargetName = c.TargetName
	opts.LastXMonths = c.LastXMonths
	opts.SessionMinutesThreshold = c.SessionMinutesThreshold
	opts.MergeDelimiter = c.MergeDelimiter
	opts.Markup = internal.Markup{Start: c.StartMarker, End: c.EndMarker}
	opts.Workers = c.Workers
	opts.AllowMissingTarget = c.AllowMissingTarget
	return opts
}

// CacheManager returns the export cache, or nil when caching is disabled
func (c *Config) CacheManager() *internal.CacheManager {
	if c.NoCache {
		return nil
	}
	return internal.NewCacheManager(c.CacheDir)
}
