package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Line     LineConfig     `mapstructure:"line"`
	Bot      BotConfig      `mapstructure:"bot"`
	Web      WebConfig      `mapstructure:"web"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	BaseURL      string        `mapstructure:"base_url"` // public https origin for image links
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsDir   string        `mapstructure:"migrations_dir"`
}

// LineConfig holds LINE messaging channel configuration
type LineConfig struct {
	ChannelSecret string `mapstructure:"channel_secret"`
	ChannelToken  string `mapstructure:"channel_token"`
	GroupID       string `mapstructure:"group_id"` // push target for the daily digest
	WebhookPath   string `mapstructure:"webhook_path"`
}

// MealKeyword maps one free-text keyword to a canonical meal type.
// Table order is the resolver's priority order.
type MealKeyword struct {
	Keyword string `mapstructure:"keyword"`
	Meal    string `mapstructure:"meal"`
}

// BotConfig is the immutable alias/behavior table handed to the
// resolvers, parser and ledger handlers at construction time.
type BotConfig struct {
	DefaultPayerCode string            `mapstructure:"default_payer_code"`
	Timezone         string            `mapstructure:"timezone"`
	DigestTime       string            `mapstructure:"digest_time"` // HH:MM local
	MealKeywords     []MealKeyword     `mapstructure:"meal_keywords"`
	MealNames        map[string]string `mapstructure:"meal_names"`    // meal type -> display name
	MenuAliases      map[string]string `mapstructure:"menu_aliases"`  // lowercase keyword -> image filename
	MenuImageDir     string            `mapstructure:"menu_image_dir"`
}

// WebConfig holds admin dashboard configuration
type WebConfig struct {
	AdminAccessKey string `mapstructure:"admin_access_key"`
	SessionSecret  string `mapstructure:"session_secret"`
	UploadDir      string `mapstructure:"upload_dir"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	_ = gotenv.Load() // .env is optional

	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if len(cfg.Bot.MealKeywords) == 0 {
		cfg.Bot.MealKeywords = DefaultMealKeywords()
	}
	if len(cfg.Bot.MealNames) == 0 {
		cfg.Bot.MealNames = DefaultMealNames()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Location resolves the configured timezone.
func (b BotConfig) Location() (*time.Location, error) {
	return time.LoadLocation(b.Timezone)
}

// DefaultMealKeywords returns the built-in keyword priority table.
// First matching entry wins, so the long forms precede the single-rune
// shorthands they contain.
func DefaultMealKeywords() []MealKeyword {
	return []MealKeyword{
		{Keyword: "早餐", Meal: "breakfast"},
		{Keyword: "早", Meal: "breakfast"},
		{Keyword: "午餐", Meal: "lunch"},
		{Keyword: "午", Meal: "lunch"},
		{Keyword: "中餐", Meal: "lunch"},
		{Keyword: "中", Meal: "lunch"},
		{Keyword: "晚餐", Meal: "dinner"},
		{Keyword: "晚", Meal: "dinner"},
		{Keyword: "飲料", Meal: "drink"},
		{Keyword: "飲", Meal: "drink"},
		{Keyword: "喝", Meal: "drink"},
		{Keyword: "點心", Meal: "snack"},
		{Keyword: "下午茶", Meal: "snack"},
		{Keyword: "點", Meal: "snack"},
	}
}

// DefaultMealNames returns the display names used in replies.
func DefaultMealNames() map[string]string {
	return map[string]string{
		"breakfast": "早餐",
		"lunch":     "午餐",
		"dinner":    "晚餐",
		"drink":     "飲料",
		"snack":     "點心",
	}
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)
	viper.SetDefault("server.base_url", "http://localhost:8080")

	viper.SetDefault("database.path", "data/orders.db")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	viper.SetDefault("database.migrations_dir", "migrations")

	viper.SetDefault("line.webhook_path", "/callback")

	viper.SetDefault("bot.default_payer_code", "15")
	viper.SetDefault("bot.timezone", "Asia/Taipei")
	viper.SetDefault("bot.digest_time", "20:00")
	viper.SetDefault("bot.menu_image_dir", "static/random_menus")

	viper.SetDefault("web.upload_dir", "static/uploads")

	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "json")
}

func bindEnvVars() {
	viper.BindEnv("line.channel_secret", "LINE_CHANNEL_SECRET")
	viper.BindEnv("line.channel_token", "LINE_CHANNEL_ACCESS_TOKEN")
	viper.BindEnv("line.group_id", "LINE_GROUP_ID")
	viper.BindEnv("web.admin_access_key", "ADMIN_ACCESS_KEY")
	viper.BindEnv("web.session_secret", "SESSION_SECRET")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Line.ChannelSecret == "" {
		return fmt.Errorf("line.channel_secret is required")
	}
	if c.Line.ChannelToken == "" {
		return fmt.Errorf("line.channel_token is required")
	}
	if c.Web.AdminAccessKey == "" {
		return fmt.Errorf("web.admin_access_key is required")
	}
	if c.Bot.DefaultPayerCode == "" {
		return fmt.Errorf("bot.default_payer_code is required")
	}
	if _, err := c.Bot.Location(); err != nil {
		return fmt.Errorf("invalid bot.timezone: %w", err)
	}
	if _, _, err := ParseClock(c.Bot.DigestTime); err != nil {
		return fmt.Errorf("invalid bot.digest_time: %w", err)
	}
	return nil
}

// ParseClock parses an HH:MM local time string.
func ParseClock(s string) (hour, minute int, err error) {
	if _, err = fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
		return 0, 0, fmt.Errorf("expected HH:MM, got %q", s)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("clock out of range: %q", s)
	}
	return hour, minute, nil
}
