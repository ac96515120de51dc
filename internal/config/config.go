package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port string

	// Logging configuration
	LogLevel  string
	LogFormat string // json, console

	// Database configuration
	DBType            string // sqlite, sqlite-pure, mysql, postgres, sqlserver
	DBHost            string
	DBPort            string
	DBDatabase        string
	DBUser            string
	DBPassword        string
	DBConnectionLimit int

	// Authorizer configuration, admin auth is disabled when both are empty
	AuthzURL      string
	AuthzClientID string

	// Redis configuration for the cross-instance change signal
	RedisURL string

	// Lead capture
	WebhookDefaultTimeoutMs int
	LeadsRequireTaxID       bool
	LeadsRateLimit          int
	LeadsResendConcurrency  int

	// Off-site backups
	S3 S3Config
}

// S3Config configures backup uploads to an S3 compatible bucket
type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"accessKeyId"`
	SecretAccessKey string `yaml:"secretAccessKey"`
	PathStyle       bool   `yaml:"pathStyle"`
	Prefix          string `yaml:"prefix"`
}

// Enabled reports whether enough is configured to attempt an upload
func (s S3Config) Enabled() bool {
	return s.Bucket != "" && s.Region != ""
}

// AuthEnabled reports whether admin routes require an authorizer session
func (c *Config) AuthEnabled() bool {
	return c.AuthzURL != "" && c.AuthzClientID != ""
}

// fileConfig is the optional YAML file layout
type fileConfig struct {
	Port string `yaml:"port"`
	Log  struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Database struct {
		Type            string `yaml:"type"`
		Host            string `yaml:"host"`
		Port            string `yaml:"port"`
		Database        string `yaml:"database"`
		User            string `yaml:"user"`
		Password        string `yaml:"password"`
		ConnectionLimit int    `yaml:"connectionLimit"`
	} `yaml:"database"`
	Authorizer struct {
		URL      string `yaml:"url"`
		ClientID string `yaml:"clientId"`
	} `yaml:"authorizer"`
	Redis struct {
		URL string `yaml:"url"`
	} `yaml:"redis"`
	Leads struct {
		WebhookTimeoutMs  int   `yaml:"webhookTimeoutMs"`
		RequireTaxID      *bool `yaml:"requireTaxId"`
		RateLimit         int   `yaml:"rateLimit"`
		ResendConcurrency int   `yaml:"resendConcurrency"`
	} `yaml:"leads"`
	S3 S3Config `yaml:"s3"`
}

func defaults() *Config {
	return &Config{
		Port:                    "3000",
		LogLevel:                "info",
		LogFormat:               "json",
		DBType:                  "sqlite",
		DBHost:                  "localhost",
		DBConnectionLimit:       5,
		WebhookDefaultTimeoutMs: 10000,
		LeadsRateLimit:          10,
		LeadsResendConcurrency:  4,
	}
}

// Load loads configuration from defaults, an optional YAML file, then environment variables.
// The file path may also be given with CONFIG_FILE.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)
	cfg.DBType = strings.ToLower(getEnv("DB_TYPE", cfg.DBType))
	cfg.DBHost = getEnv("DB_HOST", cfg.DBHost)
	cfg.DBPort = getEnv("DB_PORT", cfg.DBPort)
	cfg.DBDatabase = getEnv("DB_DATABASE", cfg.DBDatabase)
	cfg.DBUser = getEnv("DB_USER", cfg.DBUser)
	cfg.DBPassword = getEnv("DB_PASSWORD", cfg.DBPassword)
	cfg.DBConnectionLimit = getEnvAsInt("DB_CONNECTION_LIMIT", cfg.DBConnectionLimit)
	cfg.AuthzURL = getEnv("AUTHZ_URL", cfg.AuthzURL)
	cfg.AuthzClientID = getEnv("AUTHZ_CLIENT_ID", cfg.AuthzClientID)
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)
	cfg.WebhookDefaultTimeoutMs = getEnvAsInt("WEBHOOK_DEFAULT_TIMEOUT_MS", cfg.WebhookDefaultTimeoutMs)
	cfg.LeadsRequireTaxID = getEnvAsBool("LEADS_REQUIRE_TAX_ID", cfg.LeadsRequireTaxID)
	cfg.LeadsRateLimit = getEnvAsInt("LEADS_RATE_LIMIT", cfg.LeadsRateLimit)
	cfg.LeadsResendConcurrency = getEnvAsInt("LEADS_RESEND_CONCURRENCY", cfg.LeadsResendConcurrency)
	cfg.S3.Bucket = getEnv("S3_BUCKET", cfg.S3.Bucket)
	cfg.S3.Region = getEnv("S3_REGION", cfg.S3.Region)
	cfg.S3.Endpoint = getEnv("S3_ENDPOINT", cfg.S3.Endpoint)
	cfg.S3.AccessKeyID = getEnv("S3_ACCESS_KEY_ID", cfg.S3.AccessKeyID)
	cfg.S3.SecretAccessKey = getEnv("S3_SECRET_ACCESS_KEY", cfg.S3.SecretAccessKey)
	cfg.S3.PathStyle = getEnvAsBool("S3_PATH_STYLE", cfg.S3.PathStyle)
	cfg.S3.Prefix = getEnv("S3_PREFIX", cfg.S3.Prefix)

	if cfg.DBDatabase == "" && strings.HasPrefix(cfg.DBType, "sqlite") {
		cfg.DBDatabase = "landing.db"
	}
	if cfg.DBPort == "" {
		cfg.DBPort = defaultDBPort(cfg.DBType)
	}

	// Validate required fields
	if cfg.DBDatabase == "" {
		return nil, fmt.Errorf("DB_DATABASE is required")
	}
	if !strings.HasPrefix(cfg.DBType, "sqlite") && cfg.DBUser == "" {
		return nil, fmt.Errorf("DB_USER is required for %s", cfg.DBType)
	}
	if (cfg.AuthzURL == "") != (cfg.AuthzClientID == "") {
		return nil, fmt.Errorf("AUTHZ_URL and AUTHZ_CLIENT_ID must be set together")
	}
	if cfg.WebhookDefaultTimeoutMs <= 0 {
		return nil, fmt.Errorf("WEBHOOK_DEFAULT_TIMEOUT_MS must be positive")
	}

	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	setString(&c.Port, fc.Port)
	setString(&c.LogLevel, fc.Log.Level)
	setString(&c.LogFormat, fc.Log.Format)
	setString(&c.DBType, fc.Database.Type)
	setString(&c.DBHost, fc.Database.Host)
	setString(&c.DBPort, fc.Database.Port)
	setString(&c.DBDatabase, fc.Database.Database)
	setString(&c.DBUser, fc.Database.User)
	setString(&c.DBPassword, fc.Database.Password)
	setString(&c.AuthzURL, fc.Authorizer.URL)
	setString(&c.AuthzClientID, fc.Authorizer.ClientID)
	setString(&c.RedisURL, fc.Redis.URL)
	if fc.Database.ConnectionLimit > 0 {
		c.DBConnectionLimit = fc.Database.ConnectionLimit
	}
	if fc.Leads.WebhookTimeoutMs > 0 {
		c.WebhookDefaultTimeoutMs = fc.Leads.WebhookTimeoutMs
	}
	if fc.Leads.RequireTaxID != nil {
		c.LeadsRequireTaxID = *fc.Leads.RequireTaxID
	}
	if fc.Leads.RateLimit > 0 {
		c.LeadsRateLimit = fc.Leads.RateLimit
	}
	if fc.Leads.ResendConcurrency > 0 {
		c.LeadsResendConcurrency = fc.Leads.ResendConcurrency
	}
	if fc.S3.Bucket != "" {
		c.S3 = fc.S3
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func defaultDBPort(dbType string) string {
	switch dbType {
	case "mysql", "mariadb":
		return "3306"
	case "postgres", "postgresql":
		return "5432"
	case "sqlserver", "mssql":
		return "1433"
	}
	return ""
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsBool gets an environment variable as a bool or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
