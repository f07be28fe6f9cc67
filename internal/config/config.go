// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-4]):([0-5]\d)$`)

type DatabaseConfig struct {
	Driver      string        `yaml:"driver"`
	Filename    string        `yaml:"filename"`
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

type BookingConfig struct {
	Open                  string `yaml:"open"`
	Close                 string `yaml:"close"`
	SlotMinutes           int    `yaml:"slot_minutes"`
	ResolutionMinutes     int    `yaml:"resolution_minutes"`
	Timezone              string `yaml:"timezone"`
	PageSize              int    `yaml:"page_size"`
	MaxPageSize           int    `yaml:"max_page_size"`
	OwnerCancelAfterStart bool   `yaml:"owner_cancel_after_start"`
	AdminCancelPast       bool   `yaml:"admin_cancel_past"`
}

type LocksConfig struct {
	Driver   string        `yaml:"driver"`
	Wait     time.Duration `yaml:"wait"`
	TTL      time.Duration `yaml:"ttl"`
	RedisURL string        `yaml:"-"` // Loaded from environment
}

type EmailConfig struct {
	Region          string `yaml:"region"`
	Sender          string `yaml:"sender"`
	AccessKeyID     string `yaml:"-"`
	SecretAccessKey string `yaml:"-"`
}

// Enabled reports whether SES credentials are present.
func (e EmailConfig) Enabled() bool {
	return e.Sender != "" && e.Region != "" && e.AccessKeyID != "" && e.SecretAccessKey != ""
}

type SchedulerConfig struct {
	ReminderCron        string `yaml:"reminder_cron"`
	ReminderHoursBefore int    `yaml:"reminder_hours_before"`
}

type RateLimitConfig struct {
	Window     time.Duration `yaml:"window"`
	PerMember  int           `yaml:"per_member"`
	PerIP      int           `yaml:"per_ip"`
	Cooldown   time.Duration `yaml:"cooldown"`
	TrustProxy bool          `yaml:"trust_proxy"`
}

// Enabled reports whether any reservation write limit is set.
func (r RateLimitConfig) Enabled() bool {
	return r.PerMember > 0 || r.PerIP > 0 || r.Cooldown > 0
}

type Config struct {
	App struct {
		Name            string        `yaml:"name"`
		Environment     string        `yaml:"environment"`
		Port            int           `yaml:"port"`
		BaseURL         string        `yaml:"base_url"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		JWTSecret       string        `yaml:"-"` // Loaded from environment
	} `yaml:"app"`

	Database  DatabaseConfig  `yaml:"database"`
	Booking   BookingConfig   `yaml:"booking"`
	Locks     LocksConfig     `yaml:"locks"`
	Email     EmailConfig     `yaml:"email"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// Default returns a configuration with every optional value filled in.
func Default() *Config {
	var cfg Config
	cfg.App.Name = "courtbook"
	cfg.App.Environment = "development"
	cfg.App.Port = 8080
	cfg.App.ShutdownTimeout = 30 * time.Second
	cfg.Database.Driver = "sqlite"
	cfg.Database.Filename = "data/courtbook.db"
	cfg.Database.BusyTimeout = 5 * time.Second
	cfg.Booking = BookingConfig{
		Open:              "06:00",
		Close:             "22:00",
		SlotMinutes:       60,
		ResolutionMinutes: 30,
		Timezone:          "America/Sao_Paulo",
		PageSize:          20,
		MaxPageSize:       100,
		AdminCancelPast:   true,
	}
	cfg.Locks = LocksConfig{Driver: "memory", Wait: 2 * time.Second, TTL: 10 * time.Second}
	cfg.Scheduler = SchedulerConfig{ReminderCron: "*/15 * * * *", ReminderHoursBefore: 24}
	cfg.RateLimit = RateLimitConfig{Window: time.Minute, PerMember: 10, PerIP: 60, Cooldown: time.Second}
	return &cfg
}

// Load loads both .env and yaml configuration
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of Default without touching the environment.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	return cfg, nil
}

// Load sensitive values from environment
func (c *Config) applyEnv() {
	c.App.JWTSecret = os.Getenv("AUTH_JWT_SECRET")
	c.Locks.RedisURL = os.Getenv("LOCKS_REDIS_URL")
	c.Email.AccessKeyID = os.Getenv("AWS_ACCESS_KEY_ID")
	c.Email.SecretAccessKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
}

// Location resolves the booking timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Booking.Timezone)
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Port == 0 {
		return fmt.Errorf("app port is required")
	}
	if c.App.Environment != "development" && c.App.JWTSecret == "" {
		return fmt.Errorf("AUTH_JWT_SECRET is required outside development")
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateBooking(); err != nil {
		return err
	}

	switch c.Locks.Driver {
	case "memory":
	case "redis":
		if c.Locks.RedisURL == "" {
			return fmt.Errorf("LOCKS_REDIS_URL is required for the redis lock driver")
		}
		if c.Locks.TTL <= 0 {
			return fmt.Errorf("locks ttl must be positive for the redis lock driver")
		}
	default:
		return fmt.Errorf("unsupported lock driver: %s", c.Locks.Driver)
	}
	if c.Locks.Wait <= 0 {
		return fmt.Errorf("locks wait must be positive")
	}

	if r := c.RateLimit; r.Enabled() {
		if r.Window <= 0 {
			return fmt.Errorf("rate_limit window must be positive")
		}
		if r.PerMember < 0 || r.PerIP < 0 || r.Cooldown < 0 {
			return fmt.Errorf("rate_limit values must not be negative")
		}
	}

	if c.Scheduler.ReminderCron != "" {
		if _, err := cron.ParseStandard(c.Scheduler.ReminderCron); err != nil {
			return fmt.Errorf("invalid reminder cron %q: %w", c.Scheduler.ReminderCron, err)
		}
		if c.Scheduler.ReminderHoursBefore <= 0 {
			return fmt.Errorf("reminder hours before must be positive")
		}
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.Driver == "" {
		return fmt.Errorf("database driver is required")
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Filename == "" {
			return fmt.Errorf("database filename is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}
	return nil
}

func (c *Config) validateBooking() error {
	b := c.Booking
	open, err := clockMinutes(b.Open)
	if err != nil {
		return fmt.Errorf("booking open: %w", err)
	}
	closeAt, err := clockMinutes(b.Close)
	if err != nil {
		return fmt.Errorf("booking close: %w", err)
	}
	if closeAt <= open {
		return fmt.Errorf("booking close %s must be after open %s", b.Close, b.Open)
	}
	if b.ResolutionMinutes <= 0 || 60%b.ResolutionMinutes != 0 {
		return fmt.Errorf("booking resolution_minutes must divide 60, got %d", b.ResolutionMinutes)
	}
	if b.SlotMinutes <= 0 || b.SlotMinutes%b.ResolutionMinutes != 0 {
		return fmt.Errorf("booking slot_minutes must be a positive multiple of %d", b.ResolutionMinutes)
	}
	if open%b.ResolutionMinutes != 0 || closeAt%b.ResolutionMinutes != 0 {
		return fmt.Errorf("booking open and close must sit on the %d minute grid", b.ResolutionMinutes)
	}
	if b.PageSize <= 0 || b.MaxPageSize < b.PageSize {
		return fmt.Errorf("booking page_size must be positive and not above max_page_size")
	}
	if _, err := time.LoadLocation(b.Timezone); err != nil {
		return fmt.Errorf("booking timezone: %w", err)
	}
	return nil
}

func clockMinutes(s string) (int, error) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	h := int(m[1][0]-'0')*10 + int(m[1][1]-'0')
	min := int(m[2][0]-'0')*10 + int(m[2][1]-'0')
	if h == 24 && min != 0 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	return h*60 + min, nil
}
