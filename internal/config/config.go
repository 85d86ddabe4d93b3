package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// DB stores database connection settings.
type DB struct {
	Host string
	Port string
	User string
	Pass string
	Name string
}

// DSN builds a postgres connection string.
func (d DB) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		d.User, d.Pass, d.Host, d.Port, d.Name)
}

// Kafka stores change-feed and notification transport settings.
// Empty brokers disable the corresponding component.
type Kafka struct {
	Brokers           []string
	OrderEventsTopic  string
	NotificationTopic string
	GroupID           string
}

// Redis stores rider-location store settings. Empty addr disables the
// geo pre-filter (the engine then scores the full candidate pool).
type Redis struct {
	Addr string
}

// Assignment stores the matching engine defaults. The live values are
// held in a hot-swappable snapshot; these only seed it at startup.
type Assignment struct {
	MaxOrdersPerRider  int
	RadiusKm           float64
	DistanceWeight     float64
	AvailabilityWeight float64
	UrgencyWeight      float64
}

// Notify stores the bounded retry ladder for the notification sink.
type Notify struct {
	Delays []time.Duration
}

// RateLimit stores per-client HTTP throttling settings.
type RateLimit struct {
	Enabled    bool
	Rate       float64
	Burst      int
	TTL        time.Duration
	MaxBuckets int
}

// Pprof stores debug server settings. Empty addr disables it.
type Pprof struct {
	Addr string
	User string
	Pass string
}

// Config stores service settings.
type Config struct {
	Port       int
	DB         DB
	Kafka      Kafka
	Redis      Redis
	Assignment Assignment
	Notify     Notify
	RateLimit  RateLimit
	Pprof      Pprof
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg := &Config{
		Port:       envInt("PORT", DefaultPort()),
		DB:         defaultDB,
		Kafka:      defaultKafka,
		Redis:      defaultRedis,
		Assignment: DefaultAssignment(),
		Notify:     DefaultNotify(),
		RateLimit:  defaultRateLimit,
		Pprof:      Pprof{},
	}

	cfg.DB.Host = env("DB_HOST", cfg.DB.Host)
	cfg.DB.Port = env("DB_PORT", cfg.DB.Port)
	cfg.DB.User = env("DB_USER", cfg.DB.User)
	cfg.DB.Pass = env("DB_PASS", cfg.DB.Pass)
	cfg.DB.Name = env("DB_NAME", cfg.DB.Name)

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = splitList(v)
	}
	cfg.Kafka.OrderEventsTopic = env("KAFKA_ORDER_EVENTS_TOPIC", cfg.Kafka.OrderEventsTopic)
	cfg.Kafka.NotificationTopic = env("KAFKA_NOTIFICATION_TOPIC", cfg.Kafka.NotificationTopic)
	cfg.Kafka.GroupID = env("KAFKA_GROUP_ID", cfg.Kafka.GroupID)

	cfg.Redis.Addr = env("REDIS_ADDR", cfg.Redis.Addr)

	cfg.Assignment.MaxOrdersPerRider = envInt("ASSIGN_MAX_ORDERS_PER_RIDER", cfg.Assignment.MaxOrdersPerRider)
	cfg.Assignment.RadiusKm = envFloat("ASSIGN_RADIUS_KM", cfg.Assignment.RadiusKm)
	cfg.Assignment.DistanceWeight = envFloat("ASSIGN_WEIGHT_DISTANCE", cfg.Assignment.DistanceWeight)
	cfg.Assignment.AvailabilityWeight = envFloat("ASSIGN_WEIGHT_AVAILABILITY", cfg.Assignment.AvailabilityWeight)
	cfg.Assignment.UrgencyWeight = envFloat("ASSIGN_WEIGHT_URGENCY", cfg.Assignment.UrgencyWeight)

	cfg.RateLimit.Enabled = envBool("RATE_LIMIT_ENABLED", cfg.RateLimit.Enabled)
	cfg.RateLimit.Rate = envFloat("RATE_LIMIT_RATE", cfg.RateLimit.Rate)
	cfg.RateLimit.Burst = envInt("RATE_LIMIT_BURST", cfg.RateLimit.Burst)
	cfg.RateLimit.TTL = envDuration("RATE_LIMIT_TTL", cfg.RateLimit.TTL)
	cfg.RateLimit.MaxBuckets = envInt("RATE_LIMIT_MAX_BUCKETS", cfg.RateLimit.MaxBuckets)

	cfg.Pprof.Addr = env("PPROF_ADDR", cfg.Pprof.Addr)
	cfg.Pprof.User = env("PPROF_USER", cfg.Pprof.User)
	cfg.Pprof.Pass = env("PPROF_PASS", cfg.Pprof.Pass)

	fs := pflag.NewFlagSet("service", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port: %d", cfg.Port)
	}
	if err := validateAssignment(cfg.Assignment); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateAssignment(a Assignment) error {
	if a.MaxOrdersPerRider <= 0 {
		return fmt.Errorf("invalid max orders per rider: %d", a.MaxOrdersPerRider)
	}
	if a.RadiusKm <= 0 {
		return fmt.Errorf("invalid assignment radius: %f", a.RadiusKm)
	}
	if a.DistanceWeight < 0 || a.AvailabilityWeight < 0 || a.UrgencyWeight < 0 {
		return fmt.Errorf("assignment weights must be non-negative")
	}
	return nil
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
