package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"clubportal/pkg/contracts/domain"
)

// EnvPrefix namespaces every environment variable, e.g. PORTAL_SERVER_PORT.
const EnvPrefix = "PORTAL"

// Config represents the complete application configuration
type Config struct {
	Server     ServerConfig     `yaml:"server" envconfig:"SERVER"`
	Security   SecurityConfig   `yaml:"security" envconfig:"SECURITY"`
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
	Telemetry  TelemetryConfig  `yaml:"telemetry" envconfig:"TELEMETRY"`
	Export     ExportConfig     `yaml:"export" envconfig:"EXPORT"`
	Creditor   CreditorConfig   `yaml:"creditor" envconfig:"CREDITOR"`
	Submission SubmissionConfig `yaml:"submission" envconfig:"SUBMISSION"`
	Paths      PathsConfig      `yaml:"paths" envconfig:"PATHS"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// TelemetryConfig controls OpenTelemetry tracing and metrics
type TelemetryConfig struct {
	Environment    string  `yaml:"environment" envconfig:"ENVIRONMENT"`
	TraceExporter  string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER"`
	MetricExporter string  `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER"`
	SampleRatio    float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO"`
}

// ExportConfig contains document layout and identifier settings
type ExportConfig struct {
	ClubName           string `yaml:"club_name" envconfig:"CLUB_NAME"`
	FooterCaption      string `yaml:"footer_caption" envconfig:"FOOTER_CAPTION"`
	CSVQuoteFields     bool   `yaml:"csv_quote_fields" envconfig:"CSV_QUOTE_FIELDS"`
	SEPAMessagePrefix  string `yaml:"sepa_message_prefix" envconfig:"SEPA_MESSAGE_PREFIX"`
	SEPAEndToEndPrefix string `yaml:"sepa_end_to_end_prefix" envconfig:"SEPA_END_TO_END_PREFIX"`
	SEPAUniqueMsgID    bool   `yaml:"sepa_unique_msg_id" envconfig:"SEPA_UNIQUE_MSG_ID"`
	SEPAFilename       string `yaml:"sepa_filename" envconfig:"SEPA_FILENAME"`
	CompressPDF        bool   `yaml:"compress_pdf" envconfig:"COMPRESS_PDF"`
}

// CreditorConfig is the club account SEPA transfers are initiated from
type CreditorConfig struct {
	Name string `yaml:"name" envconfig:"NAME"`
	IBAN string `yaml:"iban" envconfig:"IBAN"`
	BIC  string `yaml:"bic" envconfig:"BIC"`
}

// Info converts the configured creditor into the formatter input.
func (c CreditorConfig) Info() domain.CreditorInfo {
	return domain.CreditorInfo{Name: c.Name, IBAN: c.IBAN, BIC: c.BIC}
}

// Configured reports whether an IBAN has been set.
func (c CreditorConfig) Configured() bool {
	return strings.TrimSpace(c.IBAN) != ""
}

// SubmissionConfig points at the form relay used for online submission
type SubmissionConfig struct {
	RelayURL string        `yaml:"relay_url" envconfig:"RELAY_URL"`
	Timeout  time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	ExportsDir string `yaml:"exports_dir" envconfig:"EXPORTS_DIR"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// Load builds the configuration from defaults, an optional YAML file and
// environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	return LoadFrom(getConfigFilePath())
}

// LoadFrom is Load with an explicit config file. An empty path skips the file.
func LoadFrom(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays YAML values onto cfg; keys missing from the file keep their value
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Security.EnableCORS && len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}

	if c.Security.RateLimit.Enabled && c.Security.RateLimit.RPS <= 0 {
		return fmt.Errorf("rate limit rps must be positive")
	}

	switch strings.ToLower(c.Logging.Output) {
	case "console", "file", "both":
	default:
		return fmt.Errorf("invalid logging output: %q", c.Logging.Output)
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/app.log"
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("telemetry sample ratio must be within [0,1], got %v", c.Telemetry.SampleRatio)
	}

	if c.Export.SEPAMessagePrefix == "" {
		c.Export.SEPAMessagePrefix = DefaultSEPAMessagePrefix
	}
	if c.Export.SEPAEndToEndPrefix == "" {
		c.Export.SEPAEndToEndPrefix = DefaultSEPAEndToEndPrefix
	}
	if c.Export.SEPAFilename == "" {
		c.Export.SEPAFilename = DefaultSEPAFilename
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if explicit := os.Getenv(EnvPrefix + "_CONFIG_FILE"); explicit != "" {
		return explicit
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  20 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:5173"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     20,
				Burst:   40,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/app.log",
		},
		Telemetry: TelemetryConfig{
			Environment:    "development",
			TraceExporter:  "none",
			MetricExporter: "prometheus",
			SampleRatio:    1.0,
		},
		Export: ExportConfig{
			ClubName:           DefaultClubName,
			FooterCaption:      DefaultFooterCaption,
			SEPAMessagePrefix:  DefaultSEPAMessagePrefix,
			SEPAEndToEndPrefix: DefaultSEPAEndToEndPrefix,
			SEPAFilename:       DefaultSEPAFilename,
			CompressPDF:        true,
		},
		Submission: SubmissionConfig{
			Timeout: DefaultSubmissionTimeout,
		},
		Paths: PathsConfig{
			ExportsDir: DefaultExportsDir,
			LogsDir:    DefaultLogsDir,
		},
	}
}
