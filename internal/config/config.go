package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "gstattrade/internal/errors"
)

// EnvPrefix namespaces every environment variable, e.g. GSTAT_DATABASE_PATH.
const EnvPrefix = "GSTAT"

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Fetch     FetchConfig     `yaml:"fetch" envconfig:"FETCH"`
	Database  DatabaseConfig  `yaml:"database" envconfig:"DATABASE"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json" validate:"eq=json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"both" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/gstat.log"`
}

// PathsConfig contains file system paths. Relative paths are resolved
// against BaseDir, or the working directory when BaseDir is empty.
type PathsConfig struct {
	BaseDir     string `yaml:"base_dir" envconfig:"BASE_DIR"`
	DownloadDir string `yaml:"download_dir" envconfig:"DOWNLOAD_DIR" default:"data/downloads" validate:"required"`
	ArchiveDir  string `yaml:"archive_dir" envconfig:"ARCHIVE_DIR" default:"data/archive" validate:"required"`
	DataDir     string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data" validate:"required"`
}

// FetchConfig controls the release downloader
type FetchConfig struct {
	URLTemplate string        `yaml:"url_template" envconfig:"URL_TEMPLATE" default:"https://www.stats.gov.sa/sites/default/files/ITR%20Q{quarter}{year}A.xlsx" validate:"required,urltemplate"`
	SeedURLs    []string      `yaml:"seed_urls" envconfig:"SEED_URLS" default:"https://www.stats.gov.sa/sites/default/files/International%20Trade%2C%20Third%20Quarter%202021Ar.xlsx" validate:"dive,url"`
	StartYear   int           `yaml:"start_year" envconfig:"START_YEAR" default:"2021" validate:"gte=2000,lte=2100"`
	UserAgent   string        `yaml:"user_agent" envconfig:"USER_AGENT" default:"Googlebot/2.1 (+http://www.google.com/bot.html)" validate:"required"`
	Timeout     time.Duration `yaml:"timeout" envconfig:"TIMEOUT" default:"60s" validate:"gt=0"`
	MaxRetries  int           `yaml:"max_retries" envconfig:"MAX_RETRIES" default:"3" validate:"gte=0,lte=10"`
	Backoff     time.Duration `yaml:"backoff" envconfig:"BACKOFF" default:"2s" validate:"gte=0"`
	RPS         float64       `yaml:"rps" envconfig:"RPS" default:"1" validate:"gt=0"`
	Burst       int           `yaml:"burst" envconfig:"BURST" default:"1" validate:"gte=1"`
}

// DatabaseConfig locates the destination and audit stores
type DatabaseConfig struct {
	Path      string `yaml:"path" envconfig:"PATH" default:"data/gstat.db" validate:"required"`
	Name      string `yaml:"name" envconfig:"NAME" default:"GSTAT" validate:"required"`
	Schema    string `yaml:"schema" envconfig:"SCHEMA" default:"main" validate:"required"`
	AuditPath string `yaml:"audit_path" envconfig:"AUDIT_PATH" default:"data/audit.db" validate:"required"`
}

// TelemetryConfig selects the OpenTelemetry exporters and the metrics listener
type TelemetryConfig struct {
	TraceExporter  string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" default:"none" validate:"oneof=stdout none"`
	MetricExporter string  `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER" default:"prometheus" validate:"oneof=prometheus none"`
	SampleRatio    float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" default:"1" validate:"gte=0,lte=1"`
	MetricsAddr    string  `yaml:"metrics_addr" envconfig:"METRICS_ADDR"`
	Environment    string  `yaml:"environment" envconfig:"ENVIRONMENT" default:"development"`
}

// Load loads configuration from environment variables and an optional
// YAML file. Environment values win over file values.
func Load(configFile string) (*Config, error) {
	var cfg Config

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, apperrors.NewConfigError("failed to load config from file", err).WithContext("file", configFile)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, apperrors.NewConfigError("config validation failed", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs lays env config over file config. envconfig fills defaults
// for every unset variable, so a value equal to its default means "not set"
// and the file value is taken instead.
func mergeConfigs(fileConfig, envConfig Config) Config {
	def := Default()
	pick := func(env, file, dflt string) string {
		if env == dflt && file != "" {
			return file
		}
		return env
	}

	envConfig.Logging.Level = pick(envConfig.Logging.Level, fileConfig.Logging.Level, def.Logging.Level)
	envConfig.Logging.Output = pick(envConfig.Logging.Output, fileConfig.Logging.Output, def.Logging.Output)
	envConfig.Logging.FilePath = pick(envConfig.Logging.FilePath, fileConfig.Logging.FilePath, def.Logging.FilePath)

	envConfig.Paths.BaseDir = pick(envConfig.Paths.BaseDir, fileConfig.Paths.BaseDir, def.Paths.BaseDir)
	envConfig.Paths.DownloadDir = pick(envConfig.Paths.DownloadDir, fileConfig.Paths.DownloadDir, def.Paths.DownloadDir)
	envConfig.Paths.ArchiveDir = pick(envConfig.Paths.ArchiveDir, fileConfig.Paths.ArchiveDir, def.Paths.ArchiveDir)
	envConfig.Paths.DataDir = pick(envConfig.Paths.DataDir, fileConfig.Paths.DataDir, def.Paths.DataDir)

	envConfig.Fetch.URLTemplate = pick(envConfig.Fetch.URLTemplate, fileConfig.Fetch.URLTemplate, def.Fetch.URLTemplate)
	envConfig.Fetch.UserAgent = pick(envConfig.Fetch.UserAgent, fileConfig.Fetch.UserAgent, def.Fetch.UserAgent)
	if len(fileConfig.Fetch.SeedURLs) > 0 && strings.Join(envConfig.Fetch.SeedURLs, ",") == strings.Join(def.Fetch.SeedURLs, ",") {
		envConfig.Fetch.SeedURLs = fileConfig.Fetch.SeedURLs
	}
	if envConfig.Fetch.StartYear == def.Fetch.StartYear && fileConfig.Fetch.StartYear != 0 {
		envConfig.Fetch.StartYear = fileConfig.Fetch.StartYear
	}
	if envConfig.Fetch.Timeout == def.Fetch.Timeout && fileConfig.Fetch.Timeout != 0 {
		envConfig.Fetch.Timeout = fileConfig.Fetch.Timeout
	}
	if envConfig.Fetch.MaxRetries == def.Fetch.MaxRetries && fileConfig.Fetch.MaxRetries != 0 {
		envConfig.Fetch.MaxRetries = fileConfig.Fetch.MaxRetries
	}
	if envConfig.Fetch.Backoff == def.Fetch.Backoff && fileConfig.Fetch.Backoff != 0 {
		envConfig.Fetch.Backoff = fileConfig.Fetch.Backoff
	}
	if envConfig.Fetch.RPS == def.Fetch.RPS && fileConfig.Fetch.RPS != 0 {
		envConfig.Fetch.RPS = fileConfig.Fetch.RPS
	}
	if envConfig.Fetch.Burst == def.Fetch.Burst && fileConfig.Fetch.Burst != 0 {
		envConfig.Fetch.Burst = fileConfig.Fetch.Burst
	}

	envConfig.Database.Path = pick(envConfig.Database.Path, fileConfig.Database.Path, def.Database.Path)
	envConfig.Database.Name = pick(envConfig.Database.Name, fileConfig.Database.Name, def.Database.Name)
	envConfig.Database.Schema = pick(envConfig.Database.Schema, fileConfig.Database.Schema, def.Database.Schema)
	envConfig.Database.AuditPath = pick(envConfig.Database.AuditPath, fileConfig.Database.AuditPath, def.Database.AuditPath)

	envConfig.Telemetry.TraceExporter = pick(envConfig.Telemetry.TraceExporter, fileConfig.Telemetry.TraceExporter, def.Telemetry.TraceExporter)
	envConfig.Telemetry.MetricExporter = pick(envConfig.Telemetry.MetricExporter, fileConfig.Telemetry.MetricExporter, def.Telemetry.MetricExporter)
	envConfig.Telemetry.MetricsAddr = pick(envConfig.Telemetry.MetricsAddr, fileConfig.Telemetry.MetricsAddr, def.Telemetry.MetricsAddr)
	envConfig.Telemetry.Environment = pick(envConfig.Telemetry.Environment, fileConfig.Telemetry.Environment, def.Telemetry.Environment)
	if envConfig.Telemetry.SampleRatio == def.Telemetry.SampleRatio && fileConfig.Telemetry.SampleRatio != 0 {
		envConfig.Telemetry.SampleRatio = fileConfig.Telemetry.SampleRatio
	}

	return envConfig
}

// validate runs struct validation and reports every failing field
func (c *Config) validate() error {
	v := validator.New()
	if err := v.RegisterValidation("urltemplate", isURLTemplate); err != nil {
		return err
	}

	if err := v.Struct(c); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, formatValidationError(fe))
		}
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	return nil
}

// formatValidationError formats validation error messages
func formatValidationError(err validator.FieldError) string {
	field := err.Namespace()
	param := err.Param()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "eq":
		return fmt.Sprintf("%s must be %s", field, param)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "urltemplate":
		return fmt.Sprintf("%s must contain {quarter} and {year}", field)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}

// isURLTemplate validates a release URL template
func isURLTemplate(fl validator.FieldLevel) bool {
	tmpl := fl.Field().String()
	return strings.HasPrefix(tmpl, "http") &&
		strings.Contains(tmpl, "{quarter}") &&
		strings.Contains(tmpl, "{year}")
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"gstat.yaml",
		"configs/gstat.yaml",
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
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "both",
			FilePath: "logs/gstat.log",
		},
		Paths: PathsConfig{
			DownloadDir: "data/downloads",
			ArchiveDir:  "data/archive",
			DataDir:     "data",
		},
		Fetch: FetchConfig{
			URLTemplate: "https://www.stats.gov.sa/sites/default/files/ITR%20Q{quarter}{year}A.xlsx",
			SeedURLs:    []string{"https://www.stats.gov.sa/sites/default/files/International%20Trade%2C%20Third%20Quarter%202021Ar.xlsx"},
			StartYear:   2021,
			UserAgent:   "Googlebot/2.1 (+http://www.google.com/bot.html)",
			Timeout:     60 * time.Second,
			MaxRetries:  3,
			Backoff:     2 * time.Second,
			RPS:         1,
			Burst:       1,
		},
		Database: DatabaseConfig{
			Path:      "data/gstat.db",
			Name:      "GSTAT",
			Schema:    "main",
			AuditPath: "data/audit.db",
		},
		Telemetry: TelemetryConfig{
			TraceExporter:  "none",
			MetricExporter: "prometheus",
			SampleRatio:    1,
			Environment:    "development",
		},
	}
}
