package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort  string
	AppEnv   string
	LogLevel string

	DBDriver  string // mysql | sqlite
	SQLiteDSN string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisPass string
	RedisDB   int

	IdempTTLSecs int

	JWTSecret string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string

	EventStream       string
	EventStreamMaxLen int64
	NotifyWorkers     int
	NotifyQueueSize   int

	// Role whose holders are told about new requests.
	RecipientRole string
	// Roles allowed to approve, deny and list every absence.
	ManagingRoles []string
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getint(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

// Load reads envFiles (".env" when none are given) without overriding
// variables already set, then the environment. Missing files are skipped.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	c := &Config{
		AppPort:  getenv("APP_PORT", "8080"),
		AppEnv:   getenv("APP_ENV", "development"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		DBDriver:  strings.ToLower(getenv("DB_DRIVER", "mysql")),
		SQLiteDSN: getenv("SQLITE_DSN", "file:open-manage.db?_foreign_keys=on"),

		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "open_manage"),
		MySQLUser: getenv("MYSQL_USER", "open_manage"),
		MySQLPass: getenv("MYSQL_PASS", "open_manage"),

		RedisAddr: getenv("REDIS_ADDR", "redis:6379"),
		RedisPass: os.Getenv("REDIS_PASSWORD"),
		RedisDB:   getint("REDIS_DB", 0),

		IdempTTLSecs: getint("IDEMPOTENCY_TTL_SECONDS", 300),

		JWTSecret: os.Getenv("JWT_SECRET"),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: getint("SMTP_PORT", 587),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		MailFrom: getenv("MAIL_FROM", "no-reply@open-manage.local"),

		EventStream:       getenv("EVENT_STREAM", "absence-events"),
		EventStreamMaxLen: int64(getint("EVENT_STREAM_MAXLEN", 10000)),
		NotifyWorkers:     getint("NOTIFY_WORKERS", 2),
		NotifyQueueSize:   getint("NOTIFY_QUEUE_SIZE", 256),

		RecipientRole: getenv("NOTIFY_RECIPIENT_ROLE", "super_admin"),
		ManagingRoles: splitList(getenv("MANAGING_ROLES", "hr_manager,super_admin")),
	}
	return c, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case "mysql":
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	case "sqlite":
		if c.SQLiteDSN == "" {
			return errors.New("missing SQLITE_DSN")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if len(c.JWTSecret) < 16 {
		return errors.New("JWT_SECRET must be at least 16 characters")
	}
	if len(c.ManagingRoles) == 0 {
		return errors.New("MANAGING_ROLES must name at least one role")
	}
	if c.NotifyWorkers < 1 {
		return fmt.Errorf("NOTIFY_WORKERS must be positive, got %d", c.NotifyWorkers)
	}
	return nil
}

func (c *Config) IsProduction() bool { return c.AppEnv == "production" }

// MailEnabled is false when no SMTP host is configured.
func (c *Config) MailEnabled() bool { return c.SMTPHost != "" }

func (c *Config) IdempotencyTTL() time.Duration { return time.Duration(c.IdempTTLSecs) * time.Second }

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME; loc=UTC keeps stored times in UTC
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == "sqlite" {
		return c.SQLiteDSN
	}
	return c.MySQLDSN()
}
