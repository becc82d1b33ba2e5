package models

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// DatabaseConfig holds the Postgres sink connection settings.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// CloudStorageConfig holds the object-store target for parquet outputs.
type CloudStorageConfig struct {
	Provider   string `mapstructure:"provider"`
	BucketName string `mapstructure:"bucket_name"`
	Region     string `mapstructure:"region"`
	Prefix     string `mapstructure:"prefix"`
}

// Config is the full scenario and output configuration for one run. All
// simulated times are seconds since the service-day start epoch.
type Config struct {
	Seed int `mapstructure:"seed"`

	// Service window.
	ServiceOpenS  float64 `mapstructure:"service_open_s"`
	ServiceCloseS float64 `mapstructure:"service_close_s"`
	DayStartHour  int     `mapstructure:"day_start_hour"`

	// Dispatch.
	NumRunners          int     `mapstructure:"num_runners"`
	RunnerSpeedMps      float64 `mapstructure:"runner_speed_mps"`
	PrepTimeS           float64 `mapstructure:"prep_time_s"`
	OrderFailureMinutes float64 `mapstructure:"order_failure_minutes"`
	PollIntervalS       float64 `mapstructure:"poll_interval_s"`
	DispatchPollS       float64 `mapstructure:"dispatch_poll_s"`

	// Course routing data. Both optional; the built-in distance table covers
	// courses with no precomputed data.
	TravelTimesFile   string `mapstructure:"travel_times_file"`
	HoleDistancesFile string `mapstructure:"hole_distances_file"`

	// Scenario generation (ignored when orders_file is set).
	OrdersFile       string  `mapstructure:"orders_file"`
	FirstTeeS        float64 `mapstructure:"first_tee_s"`
	LastTeeS         float64 `mapstructure:"last_tee_s"`
	TeeIntervalS     float64 `mapstructure:"tee_interval_s"`
	MinutesPerHole   float64 `mapstructure:"minutes_per_hole"`
	OrderProbPerNine float64 `mapstructure:"order_prob_per_nine"`

	// Outputs.
	OutputFormat      string             `mapstructure:"output_format"`
	OutputPath        string             `mapstructure:"output_path"`
	OutputFolder      string             `mapstructure:"output_folder"`
	OutputDestination string             `mapstructure:"output_destination"`
	KafkaEnabled      bool               `mapstructure:"kafka_enabled"`
	KafkaBrokerList   string             `mapstructure:"kafka_broker_list"`
	KafkaTimeout      time.Duration      `mapstructure:"kafka_timeout"`
	PostgresEnabled   bool               `mapstructure:"postgres_enabled"`
	Database          DatabaseConfig     `mapstructure:"database"`
	CloudStorage      CloudStorageConfig `mapstructure:"cloud_storage"`
}

// LoadConfig initializes and reads the configuration using Viper.
func LoadConfig(cfgFile string) (*Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Default config location
		viper.AddConfigPath("examples")
		viper.SetConfigName("config")
		viper.SetConfigType("json")
	}

	viper.AutomaticEnv() // Read in environment variables that match

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			config.DecodeHook,
			mapstructure.StringToTimeDurationHookFunc(),
		)
	})
	if err := viper.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("seed", 42)
	viper.SetDefault("service_open_s", 4*3600)   // 11:00 on a 07:00 day clock
	viper.SetDefault("service_close_s", 12*3600) // 19:00
	viper.SetDefault("day_start_hour", 7)
	viper.SetDefault("num_runners", 1)
	viper.SetDefault("runner_speed_mps", 6.0)
	viper.SetDefault("prep_time_s", 600)
	viper.SetDefault("order_failure_minutes", 60)
	viper.SetDefault("poll_interval_s", 30)
	viper.SetDefault("dispatch_poll_s", 5)
	viper.SetDefault("first_tee_s", 0)
	viper.SetDefault("last_tee_s", 6*3600)
	viper.SetDefault("tee_interval_s", 600)
	viper.SetDefault("minutes_per_hole", 15)
	viper.SetDefault("order_prob_per_nine", 0.35)
	viper.SetDefault("output_format", "csv")
	viper.SetDefault("output_path", "output")
	viper.SetDefault("output_destination", "local")
	viper.SetDefault("kafka_timeout", "30s")
}

// Validate rejects configurations the simulation cannot run with. These are
// implementation faults surfaced before the clock starts, never per-order
// failure reasons.
func (cfg *Config) Validate() error {
	if cfg.RunnerSpeedMps <= 0 {
		return fmt.Errorf("invalid config: runner_speed_mps must be positive, got %v", cfg.RunnerSpeedMps)
	}
	if cfg.ServiceCloseS <= cfg.ServiceOpenS {
		return fmt.Errorf("invalid config: service_close_s (%v) must be after service_open_s (%v)",
			cfg.ServiceCloseS, cfg.ServiceOpenS)
	}
	if cfg.NumRunners < 1 {
		return fmt.Errorf("invalid config: num_runners must be at least 1, got %d", cfg.NumRunners)
	}
	if cfg.PrepTimeS < 0 {
		return fmt.Errorf("invalid config: prep_time_s must not be negative, got %v", cfg.PrepTimeS)
	}
	if cfg.DayStartHour < 0 || cfg.DayStartHour > 23 {
		return fmt.Errorf("invalid config: day_start_hour must be 0-23, got %d", cfg.DayStartHour)
	}
	if cfg.OrderProbPerNine < 0 || cfg.OrderProbPerNine > 1 {
		return fmt.Errorf("invalid config: order_prob_per_nine must be within [0,1], got %v", cfg.OrderProbPerNine)
	}
	if cfg.PollIntervalS <= 0 {
		return fmt.Errorf("invalid config: poll_interval_s must be positive, got %v", cfg.PollIntervalS)
	}
	if cfg.DispatchPollS <= 0 {
		return fmt.Errorf("invalid config: dispatch_poll_s must be positive, got %v", cfg.DispatchPollS)
	}
	return nil
}

// QueueTimeoutS derives the order timeout from the failure-minutes knob,
// floored at one minute.
func (cfg *Config) QueueTimeoutS() float64 {
	timeout := cfg.OrderFailureMinutes * 60
	if timeout < 60 {
		timeout = 60
	}
	return timeout
}

// LoadOrderStream reads a pre-materialized, time-sorted order stream from a
// JSON file, for replaying a fixed scenario instead of generating one.
func LoadOrderStream(path string) ([]*Order, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading order stream: %w", err)
	}

	var orders []*Order
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil, fmt.Errorf("error parsing order stream %s: %w", path, err)
	}

	for i, o := range orders {
		if o.HoleNum < 1 || o.HoleNum > 18 {
			return nil, fmt.Errorf("order stream %s: entry %d has hole_num %d outside 1-18", path, i, o.HoleNum)
		}
		if o.OrderTimeS < 0 {
			return nil, fmt.Errorf("order stream %s: entry %d has negative order_time_s", path, i)
		}
		if o.Status == "" {
			o.Status = OrderStatusPending
		}
	}
	return orders, nil
}
