package config

type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Session       SessionConfig       `mapstructure:"session"`
	RateLimit     RateLimitConfig     `mapstructure:"rate_limit"`
	Password      PasswordConfig      `mapstructure:"password"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Users         []UserConfig        `mapstructure:"users"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	TimeoutSeconds int           `mapstructure:"timeout_seconds"`
	Environment    string        `mapstructure:"environment"`
	Domain         string        `mapstructure:"domain"`
	CORS           CORSConfig    `mapstructure:"cors"`
	Headers        HeadersConfig `mapstructure:"headers"`
}

// HeadersConfig overrides the hardening headers the edge pipeline applies to
// every non-skipped response. Empty values fall back to the built-in set.
type HeadersConfig struct {
	XFrameOptions      string `mapstructure:"x_frame_options"`
	ContentTypeNosniff string `mapstructure:"content_type_nosniff"`
	XSSProtection      string `mapstructure:"xss_protection"`
	ReferrerPolicy     string `mapstructure:"referrer_policy"`
	PermissionsPolicy  string `mapstructure:"permissions_policy"`
}

type CORSConfig struct {
	Enabled      bool     `mapstructure:"enabled"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

type RedisConfig struct {
	Addr                string `mapstructure:"addr"`
	DB                  int    `mapstructure:"db"`
	Username            string `mapstructure:"username"`
	Password            string `mapstructure:"password"`
	PoolSize            int    `mapstructure:"pool_size"`
	MinIdleConns        int    `mapstructure:"min_idle_conns"`
	DialTimeoutSeconds  int    `mapstructure:"dial_timeout_seconds"`
	ReadTimeoutSeconds  int    `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds"`
}

type SessionConfig struct {
	// CookieName is the name of the session cookie.
	CookieName string `mapstructure:"cookie_name"`

	// LoginPath is where unauthenticated requests to protected routes are
	// redirected.
	LoginPath string `mapstructure:"login_path"`

	TTLMinutes int `mapstructure:"ttl_minutes"`

	// CookieSecure marks the session cookie Secure; leave false only in
	// local development.
	CookieSecure bool `mapstructure:"cookie_secure"`

	Paseto PasetoConfig `mapstructure:"paseto"`
}

type PasetoConfig struct {
	// LocalKeyHex is the 32-byte hex key for v4.local session tokens.
	LocalKeyHex string `mapstructure:"local_key_hex"`
	Issuer      string `mapstructure:"issuer"`
	Audience    string `mapstructure:"audience"`
}

type RateLimitConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	RequestsPerWindow int    `mapstructure:"requests_per_window"`
	WindowSeconds     int    `mapstructure:"window_seconds"`
	APIPrefix         string `mapstructure:"api_prefix"`
}

type PasswordConfig struct {
	MemoryKiB   uint32 `mapstructure:"memory_kib"`
	Iterations  uint32 `mapstructure:"iterations"`
	Parallelism uint8  `mapstructure:"parallelism"`
	SaltLength  uint32 `mapstructure:"salt_length"`
	KeyLength   uint32 `mapstructure:"key_length"`
}

// UserConfig is one entry of the compiled-in user directory the login
// handler authenticates against. PasswordHash is an argon2id PHC string.
type UserConfig struct {
	ID           string `mapstructure:"id"`
	Email        string `mapstructure:"email"`
	PasswordHash string `mapstructure:"password_hash"`
}

type ObservabilityConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	ServiceName    string        `mapstructure:"service_name"`
	ServiceVersion string        `mapstructure:"service_version"`
	Tracing        TracingConfig `mapstructure:"tracing"`
	Metrics        MetricsConfig `mapstructure:"metrics"`
}

type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	SamplingRate float64 `mapstructure:"sampling_rate"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level  string       `mapstructure:"level"`  // debug, info, warn, error
	Format string       `mapstructure:"format"` // text, json
	Output OutputConfig `mapstructure:"output"`

	// Requests enables the structured per-request log line written by the
	// edge pipeline's finalizer.
	Requests bool `mapstructure:"requests"`
}

type OutputConfig struct {
	Stdout bool          `mapstructure:"stdout"`
	File   FileLogConfig `mapstructure:"file"`
	Loki   LokiConfig    `mapstructure:"loki"`
}

type FileLogConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Path       string `mapstructure:"path"`        // e.g. "logs/app.log"
	MaxSizeMB  int    `mapstructure:"max_size_mb"` // rotate after N MB
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type LokiConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"` // e.g. "http://localhost:3100"
	Username string `mapstructure:"username"` // for Grafana Cloud basic auth
	Password string `mapstructure:"password"`
}

func (c *Config) Validate() error {
	if c.Session.LoginPath == "" {
		c.Session.LoginPath = "/login"
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = "praxis_session"
	}
	if c.Session.TTLMinutes <= 0 {
		c.Session.TTLMinutes = 12 * 60
	}
	if c.Session.Paseto.Issuer == "" {
		c.Session.Paseto.Issuer = "praxis_backend"
	}
	if c.Session.Paseto.Audience == "" {
		c.Session.Paseto.Audience = "praxis_portal"
	}
	if c.RateLimit.APIPrefix == "" {
		c.RateLimit.APIPrefix = "/api"
	}
	if c.RateLimit.RequestsPerWindow <= 0 {
		c.RateLimit.RequestsPerWindow = 60
	}
	if c.RateLimit.WindowSeconds <= 0 {
		c.RateLimit.WindowSeconds = 60
	}
	return nil
}
