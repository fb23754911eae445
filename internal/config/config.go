package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Port          string
	AllowedOrigin string
	Environment   string
	LogLevel      string

	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	UseRedisCarts bool
	CartTTLHours  int

	ChatCacheTTLSeconds   int
	AuthSecret            string
	AccessTokenTTLMinutes int

	FreeShippingThresholdCents int64
	FlatShippingCents          int64
	TaxRate                    float64
	DeliveryLeadDays           int
	DefaultCountry             string

	TelegramBotToken  string
	TelegramAdminChat string

	// Used only by `migrate --seed`.
	SeedAdminUsername string
	SeedAdminPassword string
}

// Load reads configuration from the environment, a local .env file and an
// optional storefront.yaml in the working directory, in that order of precedence.
func Load() Config {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("storefront")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.WithError(err).Warn("ignoring unreadable storefront.yaml")
		}
	}

	cfg := Config{
		Port:          v.GetString("port"),
		AllowedOrigin: v.GetString("allowed_origin"),
		Environment:   strings.ToLower(v.GetString("app_env")),
		LogLevel:      v.GetString("log_level"),

		DatabaseURL:   v.GetString("database_url"),
		RedisAddr:     v.GetString("redis_addr"),
		RedisPassword: v.GetString("redis_password"),
		RedisDB:       v.GetInt("redis_db"),
		UseRedisCarts: v.GetBool("redis_carts"),
		CartTTLHours:  positiveOr(v.GetInt("cart_ttl_hours"), 720),

		ChatCacheTTLSeconds:   positiveOr(v.GetInt("chat_cache_ttl_seconds"), 300),
		AuthSecret:            strings.TrimSpace(v.GetString("auth_secret")),
		AccessTokenTTLMinutes: positiveOr(v.GetInt("access_token_ttl_minutes"), 480),

		FreeShippingThresholdCents: v.GetInt64("free_shipping_threshold_cents"),
		FlatShippingCents:          v.GetInt64("flat_shipping_cents"),
		TaxRate:                    v.GetFloat64("tax_rate"),
		DeliveryLeadDays:           positiveOr(v.GetInt("delivery_lead_days"), 7),
		DefaultCountry:             strings.ToUpper(strings.TrimSpace(v.GetString("default_country"))),

		TelegramBotToken:  strings.TrimSpace(v.GetString("telegram_bot_token")),
		TelegramAdminChat: strings.TrimSpace(v.GetString("telegram_admin_chat_id")),

		SeedAdminUsername: strings.TrimSpace(v.GetString("seed_admin_username")),
		SeedAdminPassword: v.GetString("seed_admin_password"),
	}
	if cfg.TaxRate < 0 || cfg.TaxRate >= 1 {
		log.WithField("tax_rate", cfg.TaxRate).Warn("tax rate out of range, using 0.08")
		cfg.TaxRate = 0.08
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("allowed_origin", "http://127.0.0.1:3000")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_carts", false)
	v.SetDefault("cart_ttl_hours", 720)
	v.SetDefault("chat_cache_ttl_seconds", 300)
	v.SetDefault("access_token_ttl_minutes", 480)
	v.SetDefault("free_shipping_threshold_cents", 10000)
	v.SetDefault("flat_shipping_cents", 1000)
	v.SetDefault("tax_rate", 0.08)
	v.SetDefault("delivery_lead_days", 7)
	v.SetDefault("default_country", "US")
}

func (c Config) Address() string {
	return fmt.Sprintf(":%s", c.Port)
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func positiveOr(value int, fallback int) int {
	if value < 1 {
		return fallback
	}
	return value
}
