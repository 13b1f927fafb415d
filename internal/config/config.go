package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"expensezen/internal/domain/money"
	"expensezen/pkg/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	HTTP        HTTPConfig
	Env         string
	DB          DBConfig
	Auth        AuthConfig
	Ledger      LedgerConfig
	AMQP        AMQPConfig
	Realtime    RealtimeConfig
	Leaderboard LeaderboardConfig
	Metrics     MetricsConfig
}

type HTTPConfig struct {
	Port            string
	AllowedOrigins  []string
	EnableH2C       bool
	ReadTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type DBConfig struct {
	Driver          string
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	SQLitePath      string
	AutoMigrate     bool
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type AuthConfig struct {
	JWTSecret     string
	AccessTTL     time.Duration
	ResetTTL      time.Duration
	SkipAuth      bool
	MockUserID    string
	MockUserEmail string
}

type LedgerConfig struct {
	DefaultMonthlyLimit money.Money
	GoalWindowDays      int
}

type AMQPConfig struct {
	URL        string
	Exchange   string
	InstanceID string
}

func (c AMQPConfig) Enabled() bool {
	return c.URL != ""
}

type RealtimeConfig struct {
	Buffer    int
	KeepAlive time.Duration
}

type LeaderboardConfig struct {
	CacheTTL time.Duration
}

type MetricsConfig struct {
	Enabled bool
}

func Load(log logger.Logger) (Config, error) {
	err := loadDotEnv(log)
	if err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	hostname, _ := os.Hostname()

	return Config{
		Env: getEnv("ENV", "development"),
		HTTP: HTTPConfig{
			Port:            getEnv("HTTP_PORT", "8080"),
			AllowedOrigins:  getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
			EnableH2C:       getEnvBool("HTTP_H2C", false),
			ReadTimeout:     getEnvDuration("HTTP_READ_TIMEOUT", 15*time.Second),
			ShutdownTimeout: getEnvDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		DB: DBConfig{
			Driver:          getEnv("DB_DRIVER", DriverPostgres),
			DSN:             getEnv("DB_DSN", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "expensezen"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			SQLitePath:      getEnv("SQLITE_PATH", "expensezen.db"),
			AutoMigrate:     getEnvBool("DB_AUTO_MIGRATE", true),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", ""),
			AccessTTL:     getEnvDuration("JWT_ACCESS_TTL", 24*time.Hour),
			ResetTTL:      getEnvDuration("JWT_RESET_TTL", 30*time.Minute),
			SkipAuth:      getEnvBool("AUTH_SKIP", false),
			MockUserID:    getEnv("AUTH_MOCK_USER_ID", "00000000-0000-0000-0000-000000000001"),
			MockUserEmail: getEnv("AUTH_MOCK_USER_EMAIL", "dev@expensezen.local"),
		},
		Ledger: LedgerConfig{
			DefaultMonthlyLimit: getEnvMoney("LEDGER_DEFAULT_MONTHLY_LIMIT", money.FromMajor(3000)),
			GoalWindowDays:      getEnvInt("LEDGER_GOAL_WINDOW_DAYS", 7),
		},
		AMQP: AMQPConfig{
			URL:        getEnv("AMQP_URL", ""),
			Exchange:   getEnv("AMQP_EXCHANGE", "expensezen.events"),
			InstanceID: getEnv("AMQP_INSTANCE_ID", hostname),
		},
		Realtime: RealtimeConfig{
			Buffer:    getEnvInt("REALTIME_BUFFER", 16),
			KeepAlive: getEnvDuration("REALTIME_KEEPALIVE", 25*time.Second),
		},
		Leaderboard: LeaderboardConfig{
			CacheTTL: getEnvDuration("LEADERBOARD_CACHE_TTL", 30*time.Second),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("METRICS_ENABLED", true),
		},
	}, nil
}

// Validate reports every problem at once so a misconfigured deploy fails
// with the full list.
func (c Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.HTTP.Port); err != nil || port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid HTTP_PORT %q: must be a number between 1 and 65535", c.HTTP.Port))
	}

	switch c.DB.Driver {
	case DriverPostgres:
	case DriverSQLite:
		if c.DB.SQLitePath == "" {
			problems = append(problems, "SQLITE_PATH cannot be empty when DB_DRIVER=sqlite")
		}
	default:
		problems = append(problems, fmt.Sprintf("invalid DB_DRIVER %q: must be postgres or sqlite", c.DB.Driver))
	}

	if !c.Auth.SkipAuth && len(c.Auth.JWTSecret) < 32 {
		problems = append(problems, "JWT_SECRET must be at least 32 bytes unless AUTH_SKIP=true")
	}
	if c.Auth.AccessTTL <= 0 || c.Auth.ResetTTL <= 0 {
		problems = append(problems, "JWT_ACCESS_TTL and JWT_RESET_TTL must be positive")
	}

	if c.Ledger.DefaultMonthlyLimit.IsNegative() {
		problems = append(problems, "LEDGER_DEFAULT_MONTHLY_LIMIT cannot be negative")
	}
	if c.Ledger.GoalWindowDays < 0 {
		problems = append(problems, "LEDGER_GOAL_WINDOW_DAYS cannot be negative")
	}

	if c.AMQP.Enabled() {
		if parsed, err := url.Parse(c.AMQP.URL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid AMQP_URL: %v", err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP_URL scheme %q: must be amqp or amqps", parsed.Scheme))
		}
		if c.AMQP.Exchange == "" {
			problems = append(problems, "AMQP_EXCHANGE cannot be empty when AMQP_URL is set")
		}
	}

	if c.Realtime.Buffer < 1 {
		problems = append(problems, "REALTIME_BUFFER must be at least 1")
	}

	if len(problems) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvMoney(key string, fallback money.Money) money.Money {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := money.Parse(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return fallback
	}
	return items
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
