package app

import (
	"strings"
	"time"
)

// EnvPrefix is prepended to every configuration key.
const EnvPrefix = "GUESTBOOK_"

// Config contains all runtime configuration loaded from environment variables.
type Config struct {
	HTTPAddr string

	LogLevel     string
	LogFormat    string // json | pretty
	LogFile      string
	LogFileMaxMB int

	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	MaxBodyBytes      int64

	// DatabaseURL selects Postgres. When empty the SQLite file at SQLitePath is used.
	DatabaseURL string
	DBSchema    string
	DBMaxConns  int32
	DBMinConns  int32
	AutoMigrate bool
	SQLitePath  string

	// If true:
	// - /readyz returns 503 unless the store answers a ping.
	ReadinessRequireDB bool

	// AdminEmail is the only address allowed to sign in to the admin dashboard.
	AdminEmail string
	// Secret is the root secret for link hashing and session signing (>= 32 bytes).
	Secret     string
	SiteURL    string

	MagicLinkTTL      time.Duration
	SessionTTL        time.Duration
	SessionCookieName string
	CookieSecure      bool
	TrustProxy        bool
	LinkIPMax         int
	LinkIPWindow      time.Duration

	MailWebhookURL string
	MailFrom       string

	RequireAdminForReads bool
}

// LoadConfig loads Config from environment variables with defaults.
func LoadConfig() Config {
	return Config{
		HTTPAddr: EnvString(EnvPrefix+"HTTP_ADDR", "0.0.0.0:8080"),

		LogLevel:     EnvString(EnvPrefix+"LOG_LEVEL", "info"),
		LogFormat:    strings.ToLower(EnvString(EnvPrefix+"LOG_FORMAT", "json")),
		LogFile:      EnvString(EnvPrefix+"LOG_FILE", ""),
		LogFileMaxMB: EnvInt(EnvPrefix+"LOG_FILE_MAX_MB", 50),

		ReadHeaderTimeout: EnvDuration(EnvPrefix+"HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
		ReadTimeout:       EnvDuration(EnvPrefix+"HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:      EnvDuration(EnvPrefix+"HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:       EnvDuration(EnvPrefix+"HTTP_IDLE_TIMEOUT", 60*time.Second),

		MaxHeaderBytes: EnvInt(EnvPrefix+"HTTP_MAX_HEADER_BYTES", 1<<20),
		MaxBodyBytes:   EnvInt64(EnvPrefix+"MAX_BODY_BYTES", 1<<20),

		DatabaseURL: EnvString(EnvPrefix+"DATABASE_URL", ""),
		DBSchema:    EnvString(EnvPrefix+"DB_SCHEMA", "guestbook"),
		DBMaxConns:  EnvInt32(EnvPrefix+"DB_MAX_CONNS", 10),
		DBMinConns:  EnvInt32(EnvPrefix+"DB_MIN_CONNS", 0),
		AutoMigrate: EnvBool(EnvPrefix+"DB_AUTO_MIGRATE", false),
		SQLitePath:  EnvString(EnvPrefix+"SQLITE_PATH", "guestbook.db"),

		ReadinessRequireDB: EnvBool(EnvPrefix+"READINESS_REQUIRE_DB", true),

		AdminEmail: EnvString(EnvPrefix+"ADMIN_EMAIL", ""),
		Secret:     EnvString(EnvPrefix+"SECRET", ""),
		SiteURL:    EnvString(EnvPrefix+"SITE_URL", "http://localhost:8080"),

		MagicLinkTTL:      EnvDuration(EnvPrefix+"MAGIC_LINK_TTL", 15*time.Minute),
		SessionTTL:        EnvDuration(EnvPrefix+"SESSION_TTL", 12*time.Hour),
		SessionCookieName: EnvString(EnvPrefix+"SESSION_COOKIE_NAME", "guestbook_session"),
		CookieSecure:      EnvBool(EnvPrefix+"COOKIE_SECURE", true),
		TrustProxy:        EnvBool(EnvPrefix+"TRUST_PROXY", false),
		LinkIPMax:         EnvInt(EnvPrefix+"AUTH_LINK_IP_MAX", 5),
		LinkIPWindow:      EnvDuration(EnvPrefix+"AUTH_LINK_IP_WINDOW", 15*time.Minute),

		MailWebhookURL: EnvString(EnvPrefix+"MAIL_WEBHOOK_URL", ""),
		MailFrom:       EnvString(EnvPrefix+"MAIL_FROM", ""),

		RequireAdminForReads: EnvBool(EnvPrefix+"REQUIRE_ADMIN_FOR_READS", false),
	}
}
