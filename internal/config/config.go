package config

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server        ServerConfig        `yaml:"server" envconfig:"SERVER"`
	Pool          PoolConfig          `yaml:"pool" envconfig:"POOL"`
	Security      SecurityConfig      `yaml:"security" envconfig:"SECURITY"`
	Logging       LoggingConfig       `yaml:"logging" envconfig:"LOGGING"`
	Paths         PathsConfig         `yaml:"paths" envconfig:"PATHS"`
	Streams       StreamsConfig       `yaml:"streams" envconfig:"STREAMS"`
	Observability ObservabilityConfig `yaml:"observability" envconfig:"OBSERVABILITY"`
}

// ServerConfig contains HTTP server configuration.
// WriteTimeout defaults to zero because event streams never complete.
// Keep-alive is always off, so there is no idle timeout.
type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"HOST"`
	Port            int           `yaml:"port" envconfig:"PORT" validate:"min=0,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gte=0"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" validate:"gt=0"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes" envconfig:"MAX_BODY_BYTES" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" validate:"gt=0"`
	// EnableCompression gzips responses for clients that accept it.
	// Event streams and WebSocket upgrades are never compressed.
	EnableCompression bool `yaml:"enable_compression" envconfig:"ENABLE_COMPRESSION"`
}

// PoolConfig sizes the connection worker pool. Zero workers means one per CPU.
type PoolConfig struct {
	Workers   int `yaml:"workers" envconfig:"WORKERS" validate:"gte=0"`
	QueueSize int `yaml:"queue_size" envconfig:"QUEUE_SIZE" validate:"gt=0"`
}

// SecurityConfig contains cross-origin configuration
type SecurityConfig struct {
	DefaultOrigin string `yaml:"default_origin" envconfig:"DEFAULT_ORIGIN" validate:"required"`
	EnableCORS    bool   `yaml:"enable_cors" envconfig:"ENABLE_CORS"`
	// MaxRounds caps the rounds a request may ask for, per algorithm.
	// Missing or zero entries leave the algorithm's own range in force.
	MaxRounds map[string]int `yaml:"max_rounds" envconfig:"MAX_ROUNDS" validate:"dive,gte=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	WebDir string `yaml:"web_dir" envconfig:"WEB_DIR"`
}

// StreamsConfig contains event stream configuration
type StreamsConfig struct {
	Interval time.Duration `yaml:"interval" envconfig:"INTERVAL" validate:"gt=0"`
}

// ObservabilityConfig contains tracing and metrics configuration
type ObservabilityConfig struct {
	Environment   string  `yaml:"environment" envconfig:"ENVIRONMENT"`
	TraceExporter string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=stdout none"`
	EnableMetrics bool    `yaml:"enable_metrics" envconfig:"ENABLE_METRICS"`
	MetricsPath   string  `yaml:"metrics_path" envconfig:"METRICS_PATH"`
	SampleRatio   float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" validate:"gte=0,lte=1"`
}

// Load builds the configuration from defaults, an optional YAML file and
// DEMO_* environment variables, in that order of increasing precedence.
func Load() (*Config, error) {
	return LoadFrom(getConfigFilePath())
}

// LoadFrom is Load with an explicit YAML file. An empty path skips the file.
func LoadFrom(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Environment variables override the file
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks field constraints
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		return fmt.Errorf("logging output %q requires a file path", c.Logging.Output)
	}
	return nil
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// PoolWorkers returns the effective worker count
func (c *Config) PoolWorkers() int {
	if c.Pool.Workers > 0 {
		return c.Pool.Workers
	}
	return runtime.NumCPU()
}

// getConfigFilePath returns the path to the config file, or "" when none exists
func getConfigFilePath() string {
	if explicit := os.Getenv(ConfigFileEnv); explicit != "" {
		return explicit
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			ReadTimeout:     15 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			MaxBodyBytes:    DefaultMaxBodyBytes,
			ShutdownTimeout: 5 * time.Second,
		},
		Pool: PoolConfig{
			QueueSize: DefaultQueueSize,
		},
		Security: SecurityConfig{
			DefaultOrigin: DefaultOrigin,
			EnableCORS:    true,
			MaxRounds: map[string]int{
				"bcrypt":        16,
				"sha1_crypt":    2000000,
				"sun_md5_crypt": 2000000,
				"sha256_crypt":  2000000,
				"sha512_crypt":  2000000,
			},
		},
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   "console",
			FilePath: "logs/demo.log",
		},
		Paths: PathsConfig{
			WebDir: DefaultWebDir,
		},
		Streams: StreamsConfig{
			Interval: DefaultStreamInterval,
		},
		Observability: ObservabilityConfig{
			Environment:   "development",
			TraceExporter: "none",
			EnableMetrics: true,
			MetricsPath:   "/metrics",
			SampleRatio:   1.0,
		},
	}
}
