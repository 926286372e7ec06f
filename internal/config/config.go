// Package config loads application configuration from file and environment
// and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`
	Raster   RasterConfig   `yaml:"raster" mapstructure:"raster"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Bench    BenchConfig    `yaml:"bench" mapstructure:"bench"`
	Sample   SampleConfig   `yaml:"sample" mapstructure:"sample"`
	Fetch    FetchConfig    `yaml:"fetch" mapstructure:"fetch"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// DatabaseConfig names the spatial engine connection explicitly instead of
// relying on an ambient environment variable.
type DatabaseConfig struct {
	URL      string `yaml:"url" mapstructure:"url"`
	Schema   string `yaml:"schema" mapstructure:"schema"`
	MaxConns int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// RasterConfig describes the land-cover raster table.
type RasterConfig struct {
	Table            string  `yaml:"table" mapstructure:"table"`
	Column           string  `yaml:"column" mapstructure:"column"`
	Band             int     `yaml:"band" mapstructure:"band"`
	SRID             int     `yaml:"srid" mapstructure:"srid"`
	NoData           int     `yaml:"nodata" mapstructure:"nodata"`
	ResolutionMeters float64 `yaml:"resolution_meters" mapstructure:"resolution_meters"`
}

// StoreConfig configures the benchmark-history store backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
}

// BenchConfig configures the scaling benchmark sweep.
type BenchConfig struct {
	Sizes      []float64 `yaml:"sizes" mapstructure:"sizes"`
	Iterations int       `yaml:"iterations" mapstructure:"iterations"`
}

// SampleConfig configures batch point sampling.
type SampleConfig struct {
	Concurrency int     `yaml:"concurrency" mapstructure:"concurrency"`
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// FetchConfig configures source archive downloads.
type FetchConfig struct {
	DestDir     string `yaml:"dest_dir" mapstructure:"dest_dir"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LANDCOVER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// SetDefaults registers the default value for every configuration key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.schema", "public")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("raster.table", "nlcd_landcover")
	v.SetDefault("raster.column", "rast")
	v.SetDefault("raster.band", 1)
	v.SetDefault("raster.srid", 5070)
	// NLCD class 0 marks cells with no valid measurement.
	v.SetDefault("raster.nodata", 0)
	v.SetDefault("raster.resolution_meters", 30.0)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.sqlite_path", "landcover.db")
	v.SetDefault("bench.sizes", []float64{100, 250, 500, 1000, 2500, 5000})
	v.SetDefault("bench.iterations", 5)
	v.SetDefault("sample.concurrency", 4)
	v.SetDefault("sample.rate_per_sec", 20.0)
	v.SetDefault("fetch.dest_dir", "data")
	v.SetDefault("fetch.timeout_secs", 600)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
