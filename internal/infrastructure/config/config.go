package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "github.com/innovinitylabs/x402/internal/shared/config"
)

type Config struct {
	Server  sharedConfig.ServerConfig  `mapstructure:"server"`
	Logger  sharedConfig.LoggerConfig  `mapstructure:"logger"`
	Payment sharedConfig.PaymentConfig `mapstructure:"payment"`
	Session sharedConfig.SessionConfig `mapstructure:"session"`
	Redis   sharedConfig.RedisConfig   `mapstructure:"redis"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from file and environment variables
func Load(env string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../configs")
	viper.AddConfigPath("../../configs")

	viper.SetEnvPrefix("X402")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; env variables and defaults cover
		// the full surface. Any other read error is fatal.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		viper.Set("server.mode", env)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, err
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

func validate(cfg *Config) error {
	if cfg.Payment.PayTo == "" {
		return fmt.Errorf("payment.pay_to is required (set X402_PAYMENT_PAY_TO to your receiving address)")
	}
	switch cfg.Session.Store {
	case "memory", "redis":
	default:
		return fmt.Errorf("session.store must be %q or %q, got %q", "memory", "redis", cfg.Session.Store)
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 4021)
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("server.allowed_origins", []string{"*"})

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")
	viper.SetDefault("logger.output_path", "stdout")

	// Payment defaults
	viper.SetDefault("payment.network", "base-sepolia")
	viper.SetDefault("payment.asset", "USDC")
	viper.SetDefault("payment.facilitator_url", "https://x402.org/facilitator")
	viper.SetDefault("payment.verify_timeout_seconds", 300)
	viper.SetDefault("payment.max_timeout_seconds", 300)
	viper.SetDefault("payment.donation_price_cents", 100)
	viper.SetDefault("payment.service_price_cents", 10)
	viper.SetDefault("payment.premium_price_cents", 100)

	// Session defaults
	viper.SetDefault("session.store", "memory")
	viper.SetDefault("session.donation_ttl_minutes", 5)
	viper.SetDefault("session.service_ttl_minutes", 10)
	viper.SetDefault("session.custom_ttl_minutes", 1440)
	viper.SetDefault("session.premium_ttl_minutes", 1440)
	viper.SetDefault("session.reaper_enabled", true)
	viper.SetDefault("session.reaper_interval_minutes", 5)
	viper.SetDefault("session.retain_expired_minutes", 60)

	// Redis defaults
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
}
