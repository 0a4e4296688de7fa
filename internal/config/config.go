package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"flightreport/internal/models"
)

// Config holds all configuration for a report run
type Config struct {
	BaseStationPath string
	RouteDBPath     string
	OutputDir       string
	Reports         []string
	Formats         []string
	Timezone        string
	BatchSize       int
	Mail            MailConfig
	Log             LogConfig
}

// MailConfig holds SMTP distribution settings
type MailConfig struct {
	Enabled    bool
	Server     string
	Port       int
	Username   string
	Password   string
	Sender     string
	Recipients []string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from a .env file, the config file and
// environment variables. configPath, when set, takes precedence over
// FLIGHTREPORT_CONFIG_PATH and the search paths.
func Load(configPath string) (*Config, error) {
	// Secrets may live in .env; real environment variables win
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	v.SetDefault("basestation_path", "basestation.sqb")
	v.SetDefault("route_db_path", "flightroute.sqb")
	v.SetDefault("output_dir", ".")
	v.SetDefault("reports", []string{"all", "poi", "chk"})
	v.SetDefault("formats", []string{"pdf"})
	v.SetDefault("timezone", "")
	v.SetDefault("batch_size", 1000)
	v.SetDefault("mail.enabled", false)
	v.SetDefault("mail.server", "")
	v.SetDefault("mail.port", 25)
	v.SetDefault("mail.username", "")
	v.SetDefault("mail.password", "")
	v.SetDefault("mail.sender", "")
	v.SetDefault("mail.recipients", []string{})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/flightreport")
	v.AddConfigPath(".")

	if configPath == "" {
		configPath = os.Getenv("FLIGHTREPORT_CONFIG_PATH")
	}
	if configPath != "" {
		v.SetConfigFile(configPath)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file: defaults + env vars
	}

	v.SetEnvPrefix("FLIGHTREPORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		BaseStationPath: v.GetString("basestation_path"),
		RouteDBPath:     v.GetString("route_db_path"),
		OutputDir:       v.GetString("output_dir"),
		Reports:         stringList(v, "reports"),
		Formats:         stringList(v, "formats"),
		Timezone:        v.GetString("timezone"),
		BatchSize:       v.GetInt("batch_size"),
		Mail: MailConfig{
			Enabled:    v.GetBool("mail.enabled"),
			Server:     v.GetString("mail.server"),
			Port:       v.GetInt("mail.port"),
			Username:   v.GetString("mail.username"),
			Password:   v.GetString("mail.password"),
			Sender:     v.GetString("mail.sender"),
			Recipients: stringList(v, "mail.recipients"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// stringList reads a list setting. Environment variables arrive as one
// string, so items may also be separated by commas.
func stringList(v *viper.Viper, key string) []string {
	items := make([]string, 0)
	for _, raw := range v.GetStringSlice(key) {
		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
	}
	return items
}

// Location returns the zone report days are computed in
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// Variants returns the configured report variants in run order
func (c *Config) Variants() ([]models.ReportVariant, error) {
	wanted := make(map[models.ReportVariant]bool, len(c.Reports))
	for _, name := range c.Reports {
		variant, err := models.ParseVariant(name)
		if err != nil {
			return nil, err
		}
		wanted[variant] = true
	}

	var variants []models.ReportVariant
	for _, variant := range models.Variants {
		if wanted[variant] {
			variants = append(variants, variant)
		}
	}
	return variants, nil
}

// validate validates the configuration values
func validate(cfg *Config) error {
	if cfg.BaseStationPath == "" {
		return fmt.Errorf("basestation_path is required")
	}

	if cfg.RouteDBPath == "" {
		return fmt.Errorf("route_db_path is required")
	}

	if cfg.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}

	if cfg.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be greater than 0")
	}

	if len(cfg.Reports) == 0 {
		return fmt.Errorf("reports must name at least one of all, poi, chk")
	}
	if _, err := cfg.Variants(); err != nil {
		return fmt.Errorf("reports: %w", err)
	}

	validFormats := map[string]bool{
		"pdf":  true,
		"xlsx": true,
	}
	if len(cfg.Formats) == 0 {
		return fmt.Errorf("formats must name at least one of pdf, xlsx")
	}
	for _, format := range cfg.Formats {
		if !validFormats[strings.ToLower(format)] {
			return fmt.Errorf("invalid format: %s (must be pdf or xlsx)", format)
		}
	}

	if _, err := cfg.Location(); err != nil {
		return fmt.Errorf("invalid timezone: %s: %w", cfg.Timezone, err)
	}

	if cfg.Mail.Enabled {
		if cfg.Mail.Server == "" {
			return fmt.Errorf("mail.server is required when mail is enabled")
		}
		if cfg.Mail.Port <= 0 || cfg.Mail.Port > 65535 {
			return fmt.Errorf("invalid mail.port: %d", cfg.Mail.Port)
		}
		if cfg.Mail.Sender == "" {
			return fmt.Errorf("mail.sender is required when mail is enabled")
		}
		if len(cfg.Mail.Recipients) == 0 {
			return fmt.Errorf("mail.recipients must not be empty when mail is enabled")
		}
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[strings.ToLower(cfg.Log.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", cfg.Log.Level)
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[strings.ToLower(cfg.Log.Format)] {
		return fmt.Errorf("invalid log format: %s (must be text or json)", cfg.Log.Format)
	}

	return nil
}
