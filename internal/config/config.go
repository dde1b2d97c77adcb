package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"slotting.dev/slotting/internal/model"
	"slotting.dev/slotting/internal/records"
	"slotting.dev/slotting/internal/relax"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "SLOTTING"

// LocalFileName is the config file looked up in the working directory
const LocalFileName = "slotting.yaml"

// Config is the complete slotting configuration
type Config struct {
	Solver  SolverConfig  `mapstructure:"solver"`
	Input   InputConfig   `mapstructure:"input"`
	Output  OutputConfig  `mapstructure:"output"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// SolverConfig configures the model and the search
type SolverConfig struct {
	SlotLimit            int           `mapstructure:"slot_limit" validate:"min=1"`
	DefaultVolume        float64       `mapstructure:"default_volume" validate:"gt=0"`
	Workers              int           `mapstructure:"workers" validate:"min=0"`
	TimeLimit            time.Duration `mapstructure:"time_limit" validate:"gte=0"`
	NodeLimit            int64         `mapstructure:"node_limit" validate:"min=0"`
	Tolerance            float64       `mapstructure:"tolerance" validate:"gt=0,lt=1"`
	IntegralityTolerance float64       `mapstructure:"integrality_tolerance" validate:"gt=0,lt=0.5"`
	WarmStart            bool          `mapstructure:"warm_start"`
	MaxLPSize            int           `mapstructure:"max_lp_size" validate:"min=0"`
}

// InputConfig names the record columns
type InputConfig struct {
	Items   records.ItemColumns  `mapstructure:"items"`
	Shelves records.ShelfColumns `mapstructure:"shelves"`
}

// OutputConfig configures the assignment writer
type OutputConfig struct {
	// Format overrides the format inferred from the output file extension
	Format string `mapstructure:"format" validate:"omitempty,oneof=csv xlsx json yaml yml"`
}

// LogConfig configures the rotating log file
type LogConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size" validate:"min=1"`
	MaxBackups int    `mapstructure:"max_backups" validate:"min=0"`
	MaxAge     int    `mapstructure:"max_age" validate:"min=1"`
}

// MetricsConfig configures the Prometheus textfile export
type MetricsConfig struct {
	Textfile  string `mapstructure:"textfile"`
	Namespace string `mapstructure:"namespace" validate:"required"`
}

// defaults holds every known key. Keys not listed here are rejected by Set.
var defaults = map[string]any{
	"solver.slot_limit":            model.DefaultSlotLimit,
	"solver.default_volume":        model.DefaultVolume,
	"solver.workers":               1,
	"solver.time_limit":            time.Duration(0),
	"solver.node_limit":            int64(0),
	"solver.tolerance":             1e-9,
	"solver.integrality_tolerance": 1e-6,
	"solver.warm_start":            true,
	"solver.max_lp_size":           relax.DefaultMaxSize,

	"input.items.id":         records.DefaultItemColumns.ID,
	"input.items.volume":     records.DefaultItemColumns.Volume,
	"input.items.par":        records.DefaultItemColumns.Par,
	"input.items.frequency":  records.DefaultItemColumns.Frequency,
	"input.shelves.id":       records.DefaultShelfColumns.ID,
	"input.shelves.distance": records.DefaultShelfColumns.Distance,
	"input.shelves.capacity": records.DefaultShelfColumns.Capacity,

	"output.format": "",

	"log.enabled":     true,
	"log.file":        "",
	"log.max_size":    1,
	"log.max_backups": 2,
	"log.max_age":     30,

	"metrics.textfile":  "",
	"metrics.namespace": "slotting",
}

// Keys returns every configuration key in sorted order
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Manager layers defaults, the config file, environment and flags
type Manager struct {
	v    *viper.Viper
	path string
}

func newViper() *viper.Viper {
	v := viper.New()
	for k, value := range defaults {
		v.SetDefault(k, value)
	}
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// DefaultPath returns the config file used when none is given and
// ./slotting.yaml does not exist
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return LocalFileName
	}
	return filepath.Join(home, ".slotting", "config.yaml")
}

// ResolvePath picks the config file: the explicit path, ./slotting.yaml if it
// exists, or DefaultPath
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(LocalFileName); err == nil {
		return LocalFileName
	}
	return DefaultPath()
}

// Load reads configuration. An explicit path must exist; the implicit
// locations are optional.
func Load(explicit string) (*Manager, error) {
	path := ResolvePath(explicit)
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
		if explicit != "" || !missing {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}
	return &Manager{v: v, path: path}, nil
}

// Path returns the config file this manager reads and writes
func (m *Manager) Path() string {
	return m.path
}

// BindFlag makes a command-line flag override key when the flag is set
func (m *Manager) BindFlag(key string, flag *pflag.Flag) error {
	if _, ok := defaults[key]; !ok {
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	if flag == nil {
		return fmt.Errorf("no flag to bind to %s", key)
	}
	return m.v.BindPFlag(key, flag)
}

// Config decodes and validates the layered configuration
func (m *Manager) Config() (*Config, error) {
	return decode(m.v)
}

// Get returns the effective value of key
func (m *Manager) Get(key string) (any, error) {
	if _, ok := defaults[key]; !ok {
		return nil, fmt.Errorf("unknown configuration key: %s", key)
	}
	return m.v.Get(key), nil
}

// Set parses value for key, validates the result and writes it to the config file
func (m *Manager) Set(key, value string) error {
	parsed, err := parseValue(key, value)
	if err != nil {
		return err
	}

	file := viper.New()
	file.SetConfigType("yaml")
	file.SetConfigFile(m.path)
	if _, err := os.Stat(m.path); err == nil {
		if err := file.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config %s: %w", m.path, err)
		}
	}
	file.Set(key, parsed)

	merged := newViper()
	if err := merged.MergeConfigMap(file.AllSettings()); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	if _, err := decode(merged); err != nil {
		return err
	}

	if err := writeYAML(m.path, file.AllSettings()); err != nil {
		return err
	}
	m.v.Set(key, parsed)
	return nil
}

// Init writes a config file holding every default. An existing file is only
// replaced when force is set.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file %s already exists", path)
	}
	v := viper.New()
	for k, value := range defaults {
		v.SetDefault(k, value)
	}
	return writeYAML(path, v.AllSettings())
}

func parseValue(key, raw string) (any, error) {
	def, ok := defaults[key]
	if !ok {
		return nil, fmt.Errorf("unknown configuration key: %s", key)
	}

	var (
		value any
		err   error
	)
	switch def.(type) {
	case int, int64:
		value, err = strconv.ParseInt(raw, 10, 64)
	case float64:
		value, err = strconv.ParseFloat(raw, 64)
	case bool:
		value, err = strconv.ParseBool(raw)
	case time.Duration:
		// stored as text so the file stays readable
		_, err = time.ParseDuration(raw)
		value = raw
	default:
		value = raw
	}
	if err != nil {
		return nil, fmt.Errorf("invalid value %q for %s: %w", raw, key, err)
	}
	return value, nil
}

func writeYAML(path string, settings map[string]any) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	data, err := yaml.Marshal(readable(settings))
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// readable replaces durations with their text form
func readable(settings map[string]any) map[string]any {
	out := make(map[string]any, len(settings))
	for k, value := range settings {
		switch v := value.(type) {
		case map[string]any:
			out[k] = readable(v)
		case time.Duration:
			out[k] = v.String()
		default:
			out[k] = v
		}
	}
	return out
}

var validate = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	val.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("mapstructure"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return val
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, validationMessage(err)
	}
	return &cfg, nil
}

// validationMessage rewrites validator errors in terms of config keys
func validationMessage(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("invalid config: %w", err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		key := fe.Namespace()
		if _, rest, ok := strings.Cut(key, "."); ok {
			key = rest
		}
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, key+" is required")
		case "min", "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", key, fe.Param()))
		case "gt":
			msgs = append(msgs, fmt.Sprintf("%s must be greater than %s", key, fe.Param()))
		case "lt":
			msgs = append(msgs, fmt.Sprintf("%s must be less than %s", key, fe.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", key, fe.Param()))
		default:
			msgs = append(msgs, key+" is invalid")
		}
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
