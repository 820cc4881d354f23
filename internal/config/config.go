package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full pipeline configuration. Values come from an optional
// yaml file with environment-variable overrides for the scalar knobs.
type Config struct {
	// Timezone is the IANA zone local calendar days are defined in.
	Timezone string `yaml:"timezone"`
	// TimestampUnit is the epoch unit of the export, "ms" or "s".
	TimestampUnit string `yaml:"timestamp_unit"`
	// MinInteractionTimestamp is the threshold a confirm/edit timestamp
	// must exceed to count as an interaction.
	MinInteractionTimestamp int64 `yaml:"min_interaction_timestamp"`

	Validity      Validity      `yaml:"validity"`
	Survey        Survey        `yaml:"survey"`
	Subtypes      Subtypes      `yaml:"subtypes"`
	ActivitySpace ActivitySpace `yaml:"activity_space"`

	InputDir   string `yaml:"input_dir"`
	OutputDir  string `yaml:"output_dir"`
	SQLitePath string `yaml:"sqlite_path"`
	// SelectedUsers get an individual interactive timeline page each.
	SelectedUsers []string `yaml:"selected_users"`
}

// Validity configures the valid-day tables and the day filter.
type Validity struct {
	NumeratorColumn      string    `yaml:"numerator_column"`
	DenominatorPredicate string    `yaml:"denominator_predicate"` // interacted | confirmed | confirmed_with_subtype
	HourThresholds       []float64 `yaml:"hour_thresholds"`
	ThresholdEpsilon     float64   `yaml:"threshold_epsilon"`
	MinSubtypeHours      float64   `yaml:"min_subtype_hours"` // used by confirmed_with_subtype
}

// Survey configures the with_survey predicate.
type Survey struct {
	// HomeExempt exempts HOME activities from the survey requirement, for
	// study designs that do not survey home time.
	HomeExempt bool `yaml:"home_exempt"`
}

// Subtypes carries the canonical subtype order and chart colors.
type Subtypes struct {
	ActivityOrder  []string          `yaml:"activity_order"`
	TripOrder      []string          `yaml:"trip_order"`
	ActivityColors map[string]string `yaml:"activity_colors"`
	TripColors     map[string]string `yaml:"trip_colors"`
	// DropUnknown drops subtypes absent from the configured order instead
	// of sorting them last.
	DropUnknown bool `yaml:"drop_unknown"`
}

// ActivitySpace configures the geometry branch.
type ActivitySpace struct {
	BufferMeters float64 `yaml:"buffer_meters"`
}

// Default returns the study's standard configuration.
func Default() *Config {
	return &Config{
		Timezone:                "US/Central",
		TimestampUnit:           "ms",
		MinInteractionTimestamp: 0,
		Validity: Validity{
			NumeratorColumn:      "with_subtype",
			DenominatorPredicate: "interacted",
			HourThresholds:       []float64{24, 20, 16, 12, 8},
			ThresholdEpsilon:     0.01,
			MinSubtypeHours:      11.9,
		},
		Survey:   Survey{HomeExempt: true},
		Subtypes: defaultSubtypes(),
		ActivitySpace: ActivitySpace{
			BufferMeters: 400,
		},
		InputDir:   "./data",
		OutputDir:  "./output",
		SQLitePath: "./output/daynamica.db",
	}
}

func defaultSubtypes() Subtypes {
	return Subtypes{
		ActivityOrder: []string{
			"HOME", "WORKPLACE", "EDUCATION", "FOOD & MEAL",
			"MEDICAL & FITNESS", "FUN & LEISURE", "COMMUNITY & CULTURAL",
			"RELIGIOUS & SPIRITUAL", "CARE GIVING", "SHOPPING ERRANDS",
			"CIVIL ERRANDS", "OTHER ACTIVITIES", "TRIP", "DEVICE OFF",
		},
		TripOrder: []string{
			"CAR - DRIVER", "CAR - PASSENGER", "VEHICLE", "TAXI/UBER/LYFT",
			"RAIL", "BUS", "BIKE", "WALK", "WAIT", "OTHER TRIPS",
		},
		ActivityColors: map[string]string{
			"HOME":                  "#f6e8c3",
			"WORKPLACE":             "#bebada",
			"EDUCATION":             "#ccebc5",
			"FOOD & MEAL":           "#b3de69",
			"MEDICAL & FITNESS":     "#80b1d3",
			"FUN & LEISURE":         "#fdb462",
			"COMMUNITY & CULTURAL":  "#ffed6f",
			"RELIGIOUS & SPIRITUAL": "#ffffb3",
			"CARE GIVING":           "#fb8072",
			"SHOPPING ERRANDS":      "#bc80bd",
			"CIVIL ERRANDS":         "#e31a1c",
			"OTHER ACTIVITIES":      "#d9d9d9",
			"TRIP":                  "#b15928",
			"DEVICE OFF":            "#f0f0f0",
		},
		TripColors: map[string]string{
			"CAR - DRIVER":    "#fdbf6f",
			"CAR - PASSENGER": "#ff7f00",
			"VEHICLE":         "#b15928",
			"TAXI/UBER/LYFT":  "#fb9a99",
			"RAIL":            "#1f78b4",
			"BUS":             "#a6cee3",
			"BIKE":            "#33a02c",
			"WALK":            "#b2df8a",
			"WAIT":            "#6a3d9a",
			"OTHER TRIPS":     "#d9d9d9",
		},
	}
}

// Load reads the config file at path (or DAYNAMICA_CONFIG, or config.yaml)
// on top of the defaults and then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = "config.yaml"
		if env := os.Getenv("DAYNAMICA_CONFIG"); env != "" {
			path = env
		}
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	envOverride(&cfg.Timezone, "DAYNAMICA_TIMEZONE")
	envOverride(&cfg.TimestampUnit, "DAYNAMICA_TIMESTAMP_UNIT")
	envOverride(&cfg.InputDir, "DAYNAMICA_INPUT_DIR")
	envOverride(&cfg.OutputDir, "DAYNAMICA_OUTPUT_DIR")
	envOverride(&cfg.SQLitePath, "DAYNAMICA_SQLITE_PATH")
	envOverrideInt64(&cfg.MinInteractionTimestamp, "DAYNAMICA_MIN_INTERACTION_TS")
	envOverrideFloat(&cfg.ActivitySpace.BufferMeters, "DAYNAMICA_BUFFER_METERS")
	if env := os.Getenv("DAYNAMICA_SELECTED_USERS"); env != "" {
		cfg.SelectedUsers = strings.Split(env, ",")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the knobs that would otherwise fail deep inside a stage.
func (c *Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.TimestampUnit != "ms" && c.TimestampUnit != "s" {
		return fmt.Errorf("timestamp_unit must be \"ms\" or \"s\", got %q", c.TimestampUnit)
	}
	if len(c.Validity.HourThresholds) == 0 {
		return fmt.Errorf("validity.hour_thresholds must not be empty")
	}
	for i := 1; i < len(c.Validity.HourThresholds); i++ {
		if c.Validity.HourThresholds[i] > c.Validity.HourThresholds[i-1] {
			return fmt.Errorf("validity.hour_thresholds must be descending")
		}
	}
	switch c.Validity.DenominatorPredicate {
	case "interacted", "confirmed", "confirmed_with_subtype":
	default:
		return fmt.Errorf("unknown validity.denominator_predicate %q", c.Validity.DenominatorPredicate)
	}
	return nil
}

// Location resolves the configured IANA zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// EpochToTime converts an export timestamp in the configured unit to UTC.
func (c *Config) EpochToTime(ts int64) time.Time {
	if c.TimestampUnit == "s" {
		return time.Unix(ts, 0).UTC()
	}
	return time.UnixMilli(ts).UTC()
}

func envOverride(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

func envOverrideInt64(target *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*target = n
		}
	}
}

func envOverrideFloat(target *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*target = f
		}
	}
}
