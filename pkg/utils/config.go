package utils

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Telegram  TelegramConfig
	Admin     AdminConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name     string
	Env      string
	Port     string
	Debug    bool
	LogPath  string
	SeedDemo bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	MaxConns int32
}

type TelegramConfig struct {
	BotToken string
	// SkipAuth disables init-data verification. Development only.
	SkipAuth bool
	// InitDataMaxAge in seconds; 0 disables the auth_date freshness check.
	InitDataMaxAge int
}

type AdminConfig struct {
	TelegramIDs []string
	APIKeyHash  string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RateLimitConfig struct {
	RPS   int
	Burst int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "bonus-tma")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("SEED_DEMO", false)
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("SKIP_TG_AUTH", false)
	viper.SetDefault("INIT_DATA_MAX_AGE", 0)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	viper.SetDefault("RATE_LIMIT_RPS", 10)
	viper.SetDefault("RATE_LIMIT_BURST", 20)

	// .env is optional, deployments pass plain environment variables
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, err
		}
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:     viper.GetString("APP_NAME"),
			Env:      viper.GetString("APP_ENV"),
			Port:     viper.GetString("PORT"),
			Debug:    viper.GetBool("DEBUG"),
			LogPath:  viper.GetString("LOG_PATH"),
			SeedDemo: viper.GetBool("SEED_DEMO"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Telegram: TelegramConfig{
			BotToken:       strings.TrimSpace(viper.GetString("BOT_TOKEN")),
			SkipAuth:       viper.GetBool("SKIP_TG_AUTH"),
			InitDataMaxAge: viper.GetInt("INIT_DATA_MAX_AGE"),
		},
		Admin: AdminConfig{
			TelegramIDs: ParseCSV(viper.GetString("ADMIN_TG_IDS")),
			APIKeyHash:  strings.TrimSpace(viper.GetString("ADMIN_API_KEY_HASH")),
		},
		CORS: CORSConfig{
			AllowedOrigins: ParseCSV(viper.GetString("CORS_ALLOWED_ORIGINS")),
		},
		RateLimit: RateLimitConfig{
			RPS:   viper.GetInt("RATE_LIMIT_RPS"),
			Burst: viper.GetInt("RATE_LIMIT_BURST"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// IsProduction reports whether APP_ENV names a production deployment.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.App.Env))
	return env == "production" || env == "prod"
}

// Validate checks the rules that cannot be expressed as defaults.
func (c *Config) Validate() error {
	if c.Telegram.SkipAuth && c.IsProduction() {
		return errors.New("SKIP_TG_AUTH cannot be enabled when APP_ENV is production")
	}
	if !c.Telegram.SkipAuth && c.Telegram.BotToken == "" {
		return errors.New("BOT_TOKEN is required unless SKIP_TG_AUTH is enabled")
	}
	if c.Telegram.InitDataMaxAge < 0 {
		return errors.New("INIT_DATA_MAX_AGE must not be negative")
	}
	if c.RateLimit.RPS < 0 || c.RateLimit.Burst < 0 {
		return errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must not be negative")
	}
	// a zero bucket rejects every request
	if c.RateLimit.RPS > 0 && c.RateLimit.Burst < 1 {
		return errors.New("RATE_LIMIT_BURST must be at least 1 when RATE_LIMIT_RPS is set")
	}
	if _, err := strconv.Atoi(c.App.Port); err != nil {
		return errors.New("PORT must be numeric")
	}
	return nil
}

// ParseCSV splits a comma separated list, dropping blanks.
func ParseCSV(input string) []string {
	var out []string
	for _, part := range strings.Split(input, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
