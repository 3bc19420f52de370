package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"realestate-backend/internal/domain/subscription"
	"realestate-backend/internal/infrastructure/cache"
	featuredUC "realestate-backend/internal/usecase/featured"
	subscriptionUC "realestate-backend/internal/usecase/subscription"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	AppPort string

	DBDriver    string
	MySQLHost   string
	MySQLPort   string
	MySQLDB     string
	MySQLUser   string
	MySQLPass   string
	PostgresDSN string
	DBLogLevel  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	IdempTTLSecs int

	JWTSecret string

	RazorpayKeyID         string
	RazorpayKeySecret     string
	RazorpayWebhookSecret string
	RazorpayBaseURL       string
	RazorpayTimeout       time.Duration

	Currency              string
	FeaturedPrice         decimal.Decimal
	FeaturedDefaultMonths int
	FeaturedMaxMonths     int
	PlanMonthlyPrice      decimal.Decimal
	PlanQuarterlyPrice    decimal.Decimal
	PlanYearlyPrice       decimal.Decimal
	BrokerMaxProperties   int

	SweepInterval time.Duration
	AMQPURL       string

	LogLevel  string
	LogFormat string
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

func getduration(k string, d time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if n, err := time.ParseDuration(v); err == nil {
			return n
		}
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n) * time.Second
		}
	}
	return d
}

func getdecimal(k, d string) decimal.Decimal {
	if v, err := decimal.NewFromString(getenv(k, d)); err == nil {
		return v
	}
	return decimal.RequireFromString(d)
}

// Load reads the environment, after an optional .env file (or the files named in
// ENV_FILE, comma separated). Real environment variables win over the file.
func Load() *Config {
	files := []string{".env"}
	if v := os.Getenv("ENV_FILE"); v != "" {
		files = strings.Split(v, ",")
	}
	for _, f := range files {
		_ = godotenv.Load(strings.TrimSpace(f))
	}

	return &Config{
		AppPort: getenv("APP_PORT", "8080"),

		DBDriver:    strings.ToLower(getenv("DB_DRIVER", "mysql")),
		MySQLHost:   getenv("MYSQL_HOST", "mysql"),
		MySQLPort:   getenv("MYSQL_PORT", "3306"),
		MySQLDB:     getenv("MYSQL_DB", "realestate"),
		MySQLUser:   getenv("MYSQL_USER", "realestate"),
		MySQLPass:   getenv("MYSQL_PASS", "realestate"),
		PostgresDSN: os.Getenv("POSTGRES_DSN"),
		DBLogLevel:  getenv("DB_LOG_LEVEL", "warn"),

		RedisAddr:     getenv("REDIS_ADDR", "redis:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getint("REDIS_DB", 0),

		IdempTTLSecs: getint("IDEMPOTENCY_TTL_SECONDS", 300),

		JWTSecret: os.Getenv("JWT_SECRET"),

		RazorpayKeyID:         os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret:     os.Getenv("RAZORPAY_KEY_SECRET"),
		RazorpayWebhookSecret: os.Getenv("RAZORPAY_WEBHOOK_SECRET"),
		RazorpayBaseURL:       getenv("RAZORPAY_BASE_URL", "https://api.razorpay.com"),
		RazorpayTimeout:       getduration("RAZORPAY_TIMEOUT", 10*time.Second),

		Currency:              getenv("CURRENCY", "INR"),
		FeaturedPrice:         getdecimal("FEATURED_PRICE", "499.00"),
		FeaturedDefaultMonths: getint("FEATURED_DEFAULT_MONTHS", 3),
		FeaturedMaxMonths:     getint("FEATURED_MAX_MONTHS", 12),
		PlanMonthlyPrice:      getdecimal("PLAN_MONTHLY_PRICE", "999.00"),
		PlanQuarterlyPrice:    getdecimal("PLAN_QUARTERLY_PRICE", "2699.00"),
		PlanYearlyPrice:       getdecimal("PLAN_YEARLY_PRICE", "9999.00"),
		BrokerMaxProperties:   getint("BROKER_MAX_PROPERTIES", subscription.DefaultMaxProperties),

		SweepInterval: getduration("SWEEP_INTERVAL", time.Hour),
		AMQPURL:       os.Getenv("AMQP_URL"),

		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "text"),
	}
}

func (c *Config) Validate() error {
	if err := c.ValidateDB(); err != nil {
		return err
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.JWTSecret == "" {
		return errors.New("missing JWT_SECRET")
	}
	if c.RazorpayKeyID == "" || c.RazorpayKeySecret == "" {
		return errors.New("missing Razorpay credentials (RAZORPAY_KEY_ID/KEY_SECRET)")
	}
	if c.FeaturedPrice.IsNegative() || c.PlanMonthlyPrice.IsNegative() ||
		c.PlanQuarterlyPrice.IsNegative() || c.PlanYearlyPrice.IsNegative() {
		return errors.New("prices must not be negative")
	}
	if c.FeaturedDefaultMonths <= 0 || c.FeaturedMaxMonths < c.FeaturedDefaultMonths {
		return fmt.Errorf("invalid featured duration: default %d, max %d", c.FeaturedDefaultMonths, c.FeaturedMaxMonths)
	}
	if c.BrokerMaxProperties <= 0 {
		return errors.New("BROKER_MAX_PROPERTIES must be positive")
	}
	return nil
}

// ValidateDB checks only what the database commands need.
func (c *Config) ValidateDB() error {
	switch c.DBDriver {
	case "mysql":
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		// ensure port is valid
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	case "postgres":
		if c.PostgresDSN == "" {
			return errors.New("missing POSTGRES_DSN")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (mysql|postgres)", c.DBDriver)
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == "postgres" {
		return c.PostgresDSN
	}
	return c.MySQLDSN()
}

func (c *Config) RedisOptions() cache.RedisOptions {
	return cache.RedisOptions{Addr: c.RedisAddr, Password: c.RedisPassword, DB: c.RedisDB}
}

func (c *Config) FeaturedPricing() featuredUC.Pricing {
	return featuredUC.Pricing{
		BasePrice:     c.FeaturedPrice,
		DefaultMonths: c.FeaturedDefaultMonths,
		MaxMonths:     c.FeaturedMaxMonths,
		Currency:      c.Currency,
	}
}

func (c *Config) SubscriptionSettings() subscriptionUC.Settings {
	return subscriptionUC.Settings{
		Plans: map[subscription.PlanType]subscriptionUC.Plan{
			subscription.PlanMonthly:   {Price: c.PlanMonthlyPrice, Months: 1},
			subscription.PlanQuarterly: {Price: c.PlanQuarterlyPrice, Months: 3},
			subscription.PlanYearly:    {Price: c.PlanYearlyPrice, Months: 12},
		},
		Currency:      c.Currency,
		MaxProperties: c.BrokerMaxProperties,
	}
}
