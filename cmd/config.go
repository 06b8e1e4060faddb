package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"grocery/internal/adapters/in/natsbus"
	"grocery/internal/core/domain/services"
	"grocery/internal/jobs"
	"grocery/internal/pkg/errs"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	NATSURL        string
	NATSQueueGroup string

	MatchRadiusMeters float64
	MatchOnlineOnly   bool

	StoreTimeout  time.Duration
	RetryBackoff  time.Duration
	RetryAttempts int

	BroadcastTTL time.Duration
	ExpiryCron   string

	PresenceTTL       time.Duration
	PresenceSweepCron string

	StripeWebhookSecret string
}

// ConfigFromEnv reads the configuration through getenv. Unset keys take
// their defaults; malformed values are reported together.
func ConfigFromEnv(getenv func(string) string) (Config, error) {
	r := envReader{getenv: getenv}
	cfg := Config{
		HTTPPort:   r.text("HTTP_PORT", "8080"),
		DBHost:     r.text("DB_HOST", "localhost"),
		DBPort:     r.text("DB_PORT", "5432"),
		DBUser:     r.text("DB_USER", "postgres"),
		DBPassword: r.text("DB_PASSWORD", ""),
		DBName:     r.text("DB_NAME", "grocery"),
		DBSslMode:  r.text("DB_SSLMODE", "disable"),

		NATSURL:        r.text("NATS_URL", "nats://127.0.0.1:4222"),
		NATSQueueGroup: r.text("NATS_QUEUE_GROUP", natsbus.DefaultQueueGroup),

		MatchRadiusMeters: r.float("MATCH_RADIUS_METERS", services.DefaultRadiusMeters),
		MatchOnlineOnly:   r.boolean("MATCH_ONLINE_ONLY", false),

		StoreTimeout:  r.duration("STORE_TIMEOUT", 2*time.Second),
		RetryBackoff:  r.duration("RETRY_BACKOFF", 100*time.Millisecond),
		RetryAttempts: r.integer("RETRY_ATTEMPTS", 2),

		BroadcastTTL: r.duration("BROADCAST_TTL", 10*time.Minute),
		ExpiryCron:   r.text("EXPIRY_CRON", jobs.DefaultExpirySchedule),

		PresenceTTL:       r.duration("PRESENCE_TTL", jobs.DefaultPresenceTTL),
		PresenceSweepCron: r.text("PRESENCE_SWEEP_CRON", jobs.DefaultPresenceSweepSchedule),

		StripeWebhookSecret: r.text("STRIPE_WEBHOOK_SECRET", ""),
	}

	if cfg.MatchRadiusMeters <= 0 || cfg.MatchRadiusMeters > services.MaxRadiusMeters {
		r.errs = append(r.errs, errs.NewValueIsOutOfRangeError("MATCH_RADIUS_METERS",
			cfg.MatchRadiusMeters, 0, services.MaxRadiusMeters))
	}
	if cfg.PresenceTTL <= 0 {
		r.errs = append(r.errs, errs.NewValueIsOutOfRangeError("PRESENCE_TTL", cfg.PresenceTTL, 0, "unbounded"))
	}
	if cfg.RetryAttempts < 1 {
		r.errs = append(r.errs, errs.NewValueIsOutOfRangeError("RETRY_ATTEMPTS", cfg.RetryAttempts, 1, "unbounded"))
	}

	if err := errors.Join(r.errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DSN is the libpq connection string for gorm's postgres driver.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

type envReader struct {
	getenv func(string) string
	errs   []error
}

func (r *envReader) text(key, def string) string {
	if v := r.getenv(key); v != "" {
		return v
	}
	return def
}

func (r *envReader) parse(key string, parse func(string) error) {
	v := r.getenv(key)
	if v == "" {
		return
	}
	if err := parse(v); err != nil {
		r.errs = append(r.errs, errs.NewValueIsInvalidErrorWithCause(key, err))
	}
}

func (r *envReader) float(key string, def float64) float64 {
	out := def
	r.parse(key, func(v string) error {
		parsed, err := strconv.ParseFloat(v, 64)
		if err == nil {
			out = parsed
		}
		return err
	})
	return out
}

func (r *envReader) integer(key string, def int) int {
	out := def
	r.parse(key, func(v string) error {
		parsed, err := strconv.Atoi(v)
		if err == nil {
			out = parsed
		}
		return err
	})
	return out
}

func (r *envReader) boolean(key string, def bool) bool {
	out := def
	r.parse(key, func(v string) error {
		parsed, err := strconv.ParseBool(v)
		if err == nil {
			out = parsed
		}
		return err
	})
	return out
}

func (r *envReader) duration(key string, def time.Duration) time.Duration {
	out := def
	r.parse(key, func(v string) error {
		parsed, err := time.ParseDuration(v)
		if err == nil {
			out = parsed
		}
		return err
	})
	return out
}
