package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, secrets)
// - default: Values common across all environments (timezone, timeouts, business constants)
// -----------------------------------------------------------------------------

type Config struct {
	Server       ServerConfig
	DB           DBConfig
	Redis        RedisConfig
	CORS         CORSConfig
	Log          LogConfig
	JWT          JWTConfig
	Cookie       CookieConfig
	Pricing      PricingConfig
	Availability AvailabilityConfig
	Payment      PaymentConfig
	Notification NotificationConfig
	RateLimit    RateLimitConfig
	Cache        CacheConfig
	Worker       WorkerConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"Africa/Douala"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"20"`
}

type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
	PoolSize int    `envconfig:"REDIS_POOL_SIZE" default:"10"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,Idempotency-Key"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,Idempotent-Replayed"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Africa/Douala"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"3600"` // 1*60*60
}

type JWTConfig struct {
	Secret               string `envconfig:"JWT_SECRET" required:"true"`
	AccessTokenDuration  string `envconfig:"JWT_ACCESS_TOKEN_DURATION" default:"15m"`
	RefreshTokenDuration string `envconfig:"JWT_REFRESH_TOKEN_DURATION" default:"168h"`
}

type CookieConfig struct {
	Domain   string `envconfig:"COOKIE_DOMAIN" default:""`
	Secure   bool   `envconfig:"COOKIE_SECURE" default:"true"`
	SameSite string `envconfig:"COOKIE_SAME_SITE" default:"Lax"`
}

type PricingConfig struct {
	// Flat chauffeur fee per started day, in the smallest currency unit
	DriverDailyRate int64  `envconfig:"PRICING_DRIVER_DAILY_RATE" default:"10000"`
	Currency        string `envconfig:"PRICING_CURRENCY" default:"XAF"`
	// Location used to combine a calendar date and a clock time into an instant
	TimeZone string `envconfig:"PRICING_TIMEZONE" default:"Africa/Douala"`
}

type AvailabilityConfig struct {
	Debounce       time.Duration `envconfig:"AVAILABILITY_DEBOUNCE" default:"500ms"`
	RequestTimeout time.Duration `envconfig:"AVAILABILITY_REQUEST_TIMEOUT" default:"5s"`
}

type PaymentConfig struct {
	// demo: simulated gateways only, live: Stripe for cards
	Mode            string `envconfig:"PAYMENT_MODE" default:"demo"`
	StripeSecretKey string `envconfig:"STRIPE_SECRET_KEY" default:""`
}

type NotificationConfig struct {
	FeedLimit         int           `envconfig:"NOTIFICATION_FEED_LIMIT" default:"50"`
	HeartbeatInterval time.Duration `envconfig:"NOTIFICATION_HEARTBEAT_INTERVAL" default:"25s"`
}

type RateLimitConfig struct {
	AvailabilityPerMinute int `envconfig:"RATE_LIMIT_AVAILABILITY_PER_MINUTE" default:"120"`
	AvailabilityBurst     int `envconfig:"RATE_LIMIT_AVAILABILITY_BURST" default:"20"`
}

type CacheConfig struct {
	VehicleSize    int           `envconfig:"VEHICLE_CACHE_SIZE" default:"512"`
	IdempotencyTTL time.Duration `envconfig:"IDEMPOTENCY_TTL" default:"24h"`
}

type WorkerConfig struct {
	// Pending bookings still unconfirmed after this long are cancelled
	PendingTTL  time.Duration `envconfig:"BOOKING_PENDING_TTL" default:"30m"`
	Concurrency int           `envconfig:"WORKER_CONCURRENCY" default:"5"`
}

const (
	PaymentModeDemo = "demo"
	PaymentModeLive = "live"
)

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func (c PricingConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c PaymentConfig) Validate() error {
	switch c.Mode {
	case PaymentModeDemo:
		return nil
	case PaymentModeLive:
		if c.StripeSecretKey == "" {
			return fmt.Errorf("STRIPE_SECRET_KEY is required when PAYMENT_MODE=%s", PaymentModeLive)
		}
		return nil
	default:
		return fmt.Errorf("invalid PAYMENT_MODE %q", c.Mode)
	}
}

func LoadConfig() (Config, error) {
	// .env is optional; real environment variables take precedence
	_ = godotenv.Load()

	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if err := cfg.Payment.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
			MaxConns: 5,
		},
		Redis: RedisConfig{
			Addr:     "localhost:16379",
			PoolSize: 2,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "UTC",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 0,
		},
		JWT: JWTConfig{
			Secret:               "test-secret",
			AccessTokenDuration:  "15m",
			RefreshTokenDuration: "1h",
		},
		Cookie: CookieConfig{
			SameSite: "Lax",
		},
		Pricing: PricingConfig{
			DriverDailyRate: 10000,
			Currency:        "XAF",
			TimeZone:        "UTC",
		},
		Availability: AvailabilityConfig{
			Debounce:       20 * time.Millisecond,
			RequestTimeout: time.Second,
		},
		Payment: PaymentConfig{
			Mode: PaymentModeDemo,
		},
		Notification: NotificationConfig{
			FeedLimit:         50,
			HeartbeatInterval: time.Second,
		},
		RateLimit: RateLimitConfig{
			AvailabilityPerMinute: 6000,
			AvailabilityBurst:     100,
		},
		Cache: CacheConfig{
			VehicleSize:    16,
			IdempotencyTTL: time.Hour,
		},
		Worker: WorkerConfig{
			PendingTTL:  time.Hour,
			Concurrency: 1,
		},
	}
}
