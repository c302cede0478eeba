package config

import (
	"errors"
	"fmt"
	"os"

	"reservas/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Server     ServerConfig     `yaml:"server"`
	Redis      RedisConfig      `yaml:"redis"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	SendGrid   SendGridConfig   `yaml:"sendgrid"`
	Booking    BookingConfig    `yaml:"booking"`
	Services   []models.Service `yaml:"services"`
	Slots      []string         `yaml:"slots"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

// SendGridConfig configures the transactional-email provider. Key and sender
// are mandatory unless sandbox mode is on; without them the dispatcher must
// never start.
type SendGridConfig struct {
	APIKey       string `yaml:"api_key"`
	From         string `yaml:"from"`
	FromName     string `yaml:"from_name"`
	TemplateURL  string `yaml:"template_url"`
	TemplateFile string `yaml:"template_file"`
	Sandbox      bool   `yaml:"sandbox"`
}

type BookingConfig struct {
	CTAURL          string  `yaml:"cta_url"`
	SessionTTLHours int     `yaml:"session_ttl_hours"`
	RateLimitRPS    float64 `yaml:"rate_limit_rps"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
}

func Load(configPath string) (*Config, error) {
	// .env опционален: в контейнерах переменные приходят из окружения
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	// Предварительная замена переменных окружения в YAML
	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if !c.SendGrid.Sandbox {
		if c.SendGrid.APIKey == "" {
			return errors.New("sendgrid api key is required")
		}
		if c.SendGrid.From == "" {
			return errors.New("sendgrid verified sender is required")
		}
	}

	return ValidateServices(c.Services)
}

// ValidateServices rejects catalogs with blank or duplicate service ids.
func ValidateServices(services []models.Service) error {
	seen := make(map[string]bool)
	for _, svc := range services {
		if svc.ID == "" {
			return fmt.Errorf("service %q has an empty id", svc.Title)
		}
		if seen[svc.ID] {
			return fmt.Errorf("duplicate service id found: %s", svc.ID)
		}
		seen[svc.ID] = true
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.SendGrid.FromName == "" {
		c.SendGrid.FromName = models.BrandName
	}
	if c.Booking.CTAURL == "" {
		c.Booking.CTAURL = models.DefaultCTAURL
	}
	if c.Booking.SessionTTLHours == 0 {
		c.Booking.SessionTTLHours = models.DefaultSessionTTLHours
	}
	if c.Booking.RateLimitBurst == 0 {
		c.Booking.RateLimitBurst = 5
	}
	if len(c.Services) == 0 {
		c.Services = models.DefaultServices()
	}
	if len(c.Slots) == 0 {
		c.Slots = models.DefaultSlots()
	}
}
