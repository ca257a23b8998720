package config

import "fmt"

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	BaseURL        string   `mapstructure:"base_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// PaymentConfig carries the x402 settlement parameters shared by all gated
// routes: where funds go, which network settles them, and who verifies proofs.
type PaymentConfig struct {
	PayTo              string `mapstructure:"pay_to"`
	Network            string `mapstructure:"network"`
	Asset              string `mapstructure:"asset"`
	FacilitatorURL     string `mapstructure:"facilitator_url"`
	VerifyTimeoutSecs  int    `mapstructure:"verify_timeout_seconds"`
	MaxTimeoutSeconds  int    `mapstructure:"max_timeout_seconds"`
	DonationPriceCents int64  `mapstructure:"donation_price_cents"`
	ServicePriceCents  int64  `mapstructure:"service_price_cents"`
	PremiumPriceCents  int64  `mapstructure:"premium_price_cents"`
}

// SessionConfig selects the session store backend and the per-action TTLs.
type SessionConfig struct {
	Store                string `mapstructure:"store"`
	DonationTTLMinutes   int    `mapstructure:"donation_ttl_minutes"`
	ServiceTTLMinutes    int    `mapstructure:"service_ttl_minutes"`
	CustomTTLMinutes     int    `mapstructure:"custom_ttl_minutes"`
	PremiumTTLMinutes    int    `mapstructure:"premium_ttl_minutes"`
	ReaperIntervalMins   int    `mapstructure:"reaper_interval_minutes"`
	ReaperEnabled        bool   `mapstructure:"reaper_enabled"`
	RetainExpiredMinutes int    `mapstructure:"retain_expired_minutes"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
