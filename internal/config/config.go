package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port string

	TwilioSID    string
	TwilioToken  string
	TwilioNumber string
	FixedOTP     string

	RateLimit  int
	RateWindow time.Duration

	RateIdleTTL   time.Duration
	RateSweepEver time.Duration

	RedisURL string

	SMSTimeout time.Duration
}

func Load() (Config, error) {
	config := Config{
		Port:          getEnv("PORT", "5000"),
		TwilioSID:     strings.TrimSpace(os.Getenv("TWILIO_SID")),
		TwilioToken:   strings.TrimSpace(os.Getenv("TWILIO_TOKEN")),
		TwilioNumber:  strings.TrimSpace(os.Getenv("TWILIO_NUMBER")),
		FixedOTP:      getEnv("FIXED_OTP", "123456"),
		RateLimit:     getEnvInt("OTP_RATE_LIMIT", 3),
		RateWindow:    time.Duration(getEnvInt("OTP_RATE_WINDOW_SECONDS", 60)) * time.Second,
		RateIdleTTL:   time.Duration(getEnvInt("RATE_IDLE_TTL_SECONDS", 15*60)) * time.Second,
		RateSweepEver: time.Duration(getEnvInt("RATE_SWEEP_SECONDS", 2*60)) * time.Second,
		RedisURL:      strings.TrimSpace(os.Getenv("REDIS_URL")),
		SMSTimeout:    time.Duration(getEnvInt("SMS_TIMEOUT_SECONDS", 15)) * time.Second,
	}

	if config.RateLimit < 1 {
		config.RateLimit = 1
	}
	if config.RateWindow <= 0 {
		config.RateWindow = time.Minute
	}

	return config, nil
}

// ProviderConfigured reports whether all Twilio credentials are present.
// When false the service runs in the simulated-delivery mode.
func (c Config) ProviderConfigured() bool {
	return c.TwilioSID != "" && c.TwilioToken != "" && c.TwilioNumber != ""
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
