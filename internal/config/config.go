package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Env         string `env:"APP_ENV" envDefault:"development"`
	HTTP        HTTPConfig
	Database    DatabaseConfig
	RedisAddr   string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	KafkaBroker string `env:"KAFKA_BROKER"`
	JWTSecret   string `env:"JWT_SECRET"`
	// PublicBaseURL overrides the request scheme and host in invite links,
	// e.g. https://vacation.example.com. Empty means use the request.
	PublicBaseURL string `env:"PUBLIC_BASE_URL"`

	Limits   Limits
	Vacation VacationPolicy
	Cleanup  CleanupConfig
}

type HTTPConfig struct {
	Port         string        `env:"PORT" envDefault:"3000"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"10s"`
	IdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
}

type DatabaseConfig struct {
	Host       string `env:"DB_HOST" envDefault:"localhost"`
	User       string `env:"DB_USER" envDefault:"postgres"`
	Password   string `env:"DB_PASSWORD"`
	Name       string `env:"DB_NAME" envDefault:"vacation"`
	Port       string `env:"DB_PORT" envDefault:"5432"`
	SSLMode    string `env:"DB_SSLMODE" envDefault:"disable"`
	MaxRetries int    `env:"DB_MAX_RETRIES" envDefault:"5"`
}

// Limits caps tenant growth.
type Limits struct {
	CompaniesPerOwner      int `env:"LIMIT_COMPANIES_PER_OWNER" envDefault:"5"`
	JoinedCompaniesPerUser int `env:"LIMIT_JOINED_COMPANIES_PER_USER" envDefault:"10"`
	EmployeesPerCompany    int `env:"LIMIT_EMPLOYEES_PER_COMPANY" envDefault:"200"`
	DepartmentsPerCompany  int `env:"LIMIT_DEPARTMENTS_PER_COMPANY" envDefault:"30"`
}

type VacationPolicy struct {
	HorizonMonths  int `env:"VACATION_HORIZON_MONTHS" envDefault:"6"`
	DefaultMaxDays int `env:"VACATION_DEFAULT_MAX_DAYS" envDefault:"20"`
	MinMaxDays     int `env:"VACATION_MIN_MAX_DAYS" envDefault:"0"`
	MaxMaxDays     int `env:"VACATION_MAX_MAX_DAYS" envDefault:"365"`
	// MaxPendingRequests caps pending requests per employee.
	// Zero keeps the historical behaviour of using the company's yearly day limit.
	MaxPendingRequests int `env:"VACATION_MAX_PENDING_REQUESTS" envDefault:"0"`
}

type CleanupConfig struct {
	Interval  time.Duration `env:"CLEANUP_INTERVAL" envDefault:"1h"`
	BatchSize int           `env:"CLEANUP_BATCH_SIZE" envDefault:"100"`
}

// Load reads .env (when present) and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Database.MaxRetries < 1 {
		return fmt.Errorf("config: DB_MAX_RETRIES must be at least 1")
	}

	l := c.Limits
	if l.CompaniesPerOwner < 1 || l.JoinedCompaniesPerUser < 1 || l.EmployeesPerCompany < 1 || l.DepartmentsPerCompany < 1 {
		return fmt.Errorf("config: LIMIT_* values must be positive")
	}

	if err := c.Vacation.validate(); err != nil {
		return err
	}

	if c.Cleanup.Interval <= 0 {
		return fmt.Errorf("config: CLEANUP_INTERVAL must be positive")
	}
	if c.Cleanup.BatchSize < 1 {
		return fmt.Errorf("config: CLEANUP_BATCH_SIZE must be at least 1")
	}

	return nil
}

func (v VacationPolicy) validate() error {
	if v.HorizonMonths < 1 {
		return fmt.Errorf("config: VACATION_HORIZON_MONTHS must be at least 1")
	}
	if v.MinMaxDays < 0 || v.MinMaxDays > v.MaxMaxDays {
		return fmt.Errorf("config: VACATION_MIN_MAX_DAYS must be between 0 and VACATION_MAX_MAX_DAYS")
	}
	if v.DefaultMaxDays < v.MinMaxDays || v.DefaultMaxDays > v.MaxMaxDays {
		return fmt.Errorf("config: VACATION_DEFAULT_MAX_DAYS must be within [%d, %d]", v.MinMaxDays, v.MaxMaxDays)
	}
	if v.MaxPendingRequests < 0 {
		return fmt.Errorf("config: VACATION_MAX_PENDING_REQUESTS cannot be negative")
	}
	return nil
}

// PendingLimit returns the pending-request cap for a company with the given yearly day limit.
func (v VacationPolicy) PendingLimit(companyMaxDays int) int {
	if v.MaxPendingRequests > 0 {
		return v.MaxPendingRequests
	}
	return companyMaxDays
}

// DSN builds the postgres connection string understood by gorm and golang-migrate.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode,
	)
}

// URL is the postgres:// form golang-migrate expects.
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}
