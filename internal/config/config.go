package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	DB       DBConfig
	S3       S3Config
	Email    EmailConfig
	Log      LogConfig
	CORS     CORSConfig
	Billing  BillingConfig
	Taxation TaxationConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds voucher storage settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// EmailConfig holds taxation-notice delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// BillingConfig holds the firm's calculation settings. These feed the
// calculation engine; they are engagement settings, not engine
// constants.
type BillingConfig struct {
	VATRate             float64 `mapstructure:"vat_rate"`
	TimeRoundingMinutes int     `mapstructure:"time_rounding_minutes"`
	VATVendor           bool    `mapstructure:"vat_vendor"`
}

// TaxationConfig holds the business-day offsets of the taxation
// timetable computed on bill finalization.
type TaxationConfig struct {
	InspectionDays int `mapstructure:"inspection_days"`
	ObjectionDays  int `mapstructure:"objection_days"`
	SetDownDays    int `mapstructure:"set_down_days"`
}

// Load reads configuration from environment variables with the
// LEXBILL_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("LEXBILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "lexbill")
	v.SetDefault("db.password", "lexbill_secret")
	v.SetDefault("db.name", "lexbill_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "af-south-1")
	v.SetDefault("s3.bucket", "lexbill-vouchers")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 25)
	v.SetDefault("s3.presign_expiry", 3600)

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "af-south-1")
	v.SetDefault("email.from_address", "noreply@lexbill.co.za")
	v.SetDefault("email.from_name", "LexBill")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Billing defaults: 15% VAT, 15-minute rounding, registered vendor.
	v.SetDefault("billing.vat_rate", 0.15)
	v.SetDefault("billing.time_rounding_minutes", 15)
	v.SetDefault("billing.vat_vendor", true)

	// Taxation timetable defaults, in business days.
	v.SetDefault("taxation.inspection_days", 10)
	v.SetDefault("taxation.objection_days", 20)
	v.SetDefault("taxation.set_down_days", 40)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                   "LEXBILL_SERVER_PORT",
		"server.read_timeout":           "LEXBILL_SERVER_READ_TIMEOUT",
		"server.write_timeout":          "LEXBILL_SERVER_WRITE_TIMEOUT",
		"server.environment":            "LEXBILL_SERVER_ENVIRONMENT",
		"db.host":                       "LEXBILL_DB_HOST",
		"db.port":                       "LEXBILL_DB_PORT",
		"db.user":                       "LEXBILL_DB_USER",
		"db.password":                   "LEXBILL_DB_PASSWORD",
		"db.name":                       "LEXBILL_DB_NAME",
		"db.sslmode":                    "LEXBILL_DB_SSLMODE",
		"db.max_open":                   "LEXBILL_DB_MAX_OPEN",
		"db.max_idle":                   "LEXBILL_DB_MAX_IDLE",
		"s3.region":                     "LEXBILL_S3_REGION",
		"s3.bucket":                     "LEXBILL_S3_BUCKET",
		"s3.endpoint":                   "LEXBILL_S3_ENDPOINT",
		"s3.access_key":                 "LEXBILL_S3_ACCESS_KEY",
		"s3.secret_key":                 "LEXBILL_S3_SECRET_KEY",
		"s3.max_file_size_mb":           "LEXBILL_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":             "LEXBILL_S3_PRESIGN_EXPIRY",
		"email.provider":                "LEXBILL_EMAIL_PROVIDER",
		"email.region":                  "LEXBILL_EMAIL_REGION",
		"email.from_address":            "LEXBILL_EMAIL_FROM_ADDRESS",
		"email.from_name":               "LEXBILL_EMAIL_FROM_NAME",
		"log.level":                     "LEXBILL_LOG_LEVEL",
		"log.format":                    "LEXBILL_LOG_FORMAT",
		"cors.allowed_origins":          "LEXBILL_CORS_ALLOWED_ORIGINS",
		"billing.vat_rate":              "LEXBILL_BILLING_VAT_RATE",
		"billing.time_rounding_minutes": "LEXBILL_BILLING_TIME_ROUNDING_MINUTES",
		"billing.vat_vendor":            "LEXBILL_BILLING_VAT_VENDOR",
		"taxation.inspection_days":      "LEXBILL_TAXATION_INSPECTION_DAYS",
		"taxation.objection_days":       "LEXBILL_TAXATION_OBJECTION_DAYS",
		"taxation.set_down_days":        "LEXBILL_TAXATION_SET_DOWN_DAYS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if LEXBILL_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("LEXBILL_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: strings.Split(v.GetString("cors.allowed_origins"), ","),
	}
	cfg.Billing = BillingConfig{
		VATRate:             v.GetFloat64("billing.vat_rate"),
		TimeRoundingMinutes: v.GetInt("billing.time_rounding_minutes"),
		VATVendor:           v.GetBool("billing.vat_vendor"),
	}
	cfg.Taxation = TaxationConfig{
		InspectionDays: v.GetInt("taxation.inspection_days"),
		ObjectionDays:  v.GetInt("taxation.objection_days"),
		SetDownDays:    v.GetInt("taxation.set_down_days"),
	}

	return cfg, nil
}
