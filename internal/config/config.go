package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port         int           `yaml:"port"`
		Host         string        `yaml:"host"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
		IdleTimeout  time.Duration `yaml:"idle_timeout"`
		AllowOrigins []string      `yaml:"allow_origins"`
	} `yaml:"server"`

	Database struct {
		URL             string        `yaml:"url"`
		MaxConns        int32         `yaml:"max_conns"`
		MinConns        int32         `yaml:"min_conns"`
		MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"`
		ConnectTimeout  time.Duration `yaml:"connect_timeout"`
		AutoMigrate     bool          `yaml:"auto_migrate"`
	} `yaml:"database"`

	Redis struct {
		URL      string        `yaml:"url"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db"`
		Timeout  time.Duration `yaml:"timeout"`
		Channel  string        `yaml:"channel"`
		Enabled  bool          `yaml:"enabled"`
	} `yaml:"redis"`

	LLM struct {
		Provider    string        `yaml:"provider"`
		APIKey      string        `yaml:"api_key"`
		Model       string        `yaml:"model"`
		MaxTokens   int           `yaml:"max_tokens"`
		Temperature float32       `yaml:"temperature"`
		Timeout     time.Duration `yaml:"timeout"`
		RateLimit   int           `yaml:"rate_limit"` // requests per minute
		Burst       int           `yaml:"burst"`
	} `yaml:"llm"`

	Email struct {
		Provider string `yaml:"provider"`
		APIKey   string `yaml:"api_key"`
		From     string `yaml:"from"`
	} `yaml:"email"`

	Auth struct {
		SessionTTL   time.Duration `yaml:"session_ttl"`
		CookieName   string        `yaml:"cookie_name"`
		SecureCookie bool          `yaml:"secure_cookie"`
		BcryptCost   int           `yaml:"bcrypt_cost"`
	} `yaml:"auth"`

	Applications struct {
		MinResumeLength   int  `yaml:"min_resume_length"`
		StrictTransitions bool `yaml:"strict_transitions"`
	} `yaml:"applications"`

	Notifications struct {
		Workers     int           `yaml:"workers"`
		QueueSize   int           `yaml:"queue_size"`
		SendTimeout time.Duration `yaml:"send_timeout"`
	} `yaml:"notifications"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`

		Adapters []AdapterConfig `yaml:"adapters"`
	} `yaml:"logging"`
}

// AdapterConfig configures one logging adapter
type AdapterConfig struct {
	Name    string                 `yaml:"name"`
	Type    string                 `yaml:"type"`
	Enabled bool                   `yaml:"enabled"`
	Options map[string]interface{} `yaml:"options"`
}

var (
	bracedEnvVar = regexp.MustCompile(`\$\{([^}]+)\}`)
	bareEnvVar   = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// expandEnvVars expands environment variables in a string using ${VAR} or $VAR syntax
func expandEnvVars(s string) string {
	s = bracedEnvVar.ReplaceAllStringFunc(s, func(match string) string {
		if val := os.Getenv(match[2 : len(match)-1]); val != "" {
			return val
		}
		return match
	})

	return bareEnvVar.ReplaceAllStringFunc(s, func(match string) string {
		if val := os.Getenv(match[1:]); val != "" {
			return val
		}
		return match
	})
}

// Default returns a configuration populated with built-in defaults only.
// Secrets are never defaulted.
func Default() *Config {
	config := &Config{}

	config.Server.Port = 8080
	config.Server.Host = "0.0.0.0"
	config.Server.ReadTimeout = 30 * time.Second
	config.Server.WriteTimeout = 60 * time.Second
	config.Server.IdleTimeout = 60 * time.Second
	config.Server.AllowOrigins = []string{"*"}

	config.Database.MaxConns = 10
	config.Database.MinConns = 1
	config.Database.MaxConnLifetime = time.Hour
	config.Database.ConnectTimeout = 10 * time.Second
	config.Database.AutoMigrate = true

	config.Redis.URL = "redis://localhost:6379"
	config.Redis.Timeout = 5 * time.Second
	config.Redis.Channel = "hirescore:events"
	config.Redis.Enabled = true

	config.LLM.Provider = "gemini"
	config.LLM.MaxTokens = 2048
	config.LLM.Temperature = 0.7
	config.LLM.Timeout = 30 * time.Second
	config.LLM.RateLimit = 60
	config.LLM.Burst = 5

	config.Email.Provider = "resend"
	config.Email.From = "HireScore <noreply@hirescore.app>"

	config.Auth.SessionTTL = 7 * 24 * time.Hour
	config.Auth.CookieName = "auth-token"
	config.Auth.BcryptCost = 12

	config.Applications.MinResumeLength = 50
	config.Applications.StrictTransitions = true

	config.Notifications.Workers = 4
	config.Notifications.QueueSize = 100
	config.Notifications.SendTimeout = 15 * time.Second

	config.Logging.Level = "info"
	config.Logging.Format = "json"
	config.Logging.Output = "stdout"

	return config
}

// LoadConfig loads configuration from file and environment variables, then validates it
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	_ = godotenv.Load()

	config := Default()

	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			if err := yaml.Unmarshal([]byte(expandEnvVars(string(data))), config); err != nil {
				return nil, fmt.Errorf("parse %s: %w", configPath, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", configPath, err)
		}
	}

	config.loadFromEnv()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		c.Server.Host = host
	}

	if origins := os.Getenv("CORS_ALLOW_ORIGINS"); origins != "" {
		c.Server.AllowOrigins = strings.Split(origins, ",")
	}

	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		c.Database.URL = dbURL
	}

	if autoMigrate := os.Getenv("DATABASE_AUTO_MIGRATE"); autoMigrate != "" {
		c.Database.AutoMigrate = autoMigrate == "true" || autoMigrate == "1"
	}

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		c.Redis.URL = redisURL
	}

	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		c.Redis.Password = redisPassword
	}

	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		if db, err := strconv.Atoi(redisDB); err == nil {
			c.Redis.DB = db
		}
	}

	if redisEnabled := os.Getenv("REDIS_ENABLED"); redisEnabled != "" {
		c.Redis.Enabled = redisEnabled == "true" || redisEnabled == "1"
	}

	if provider := os.Getenv("LLM_PROVIDER"); provider != "" {
		c.LLM.Provider = provider
	}

	if apiKey := os.Getenv("LLM_API_KEY"); apiKey != "" {
		c.LLM.APIKey = apiKey
	}

	// Provider specific keys are accepted for compatibility
	if c.LLM.APIKey == "" {
		switch c.LLM.Provider {
		case "gemini":
			c.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
		case "claude":
			c.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}

	if model := os.Getenv("LLM_MODEL"); model != "" {
		c.LLM.Model = model
	}

	if timeout := os.Getenv("LLM_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.LLM.Timeout = d
		}
	}

	if provider := os.Getenv("EMAIL_PROVIDER"); provider != "" {
		c.Email.Provider = provider
	}

	if apiKey := os.Getenv("RESEND_API_KEY"); apiKey != "" {
		c.Email.APIKey = apiKey
	}

	if from := os.Getenv("EMAIL_FROM"); from != "" {
		c.Email.From = from
	}

	if secure := os.Getenv("AUTH_SECURE_COOKIE"); secure != "" {
		c.Auth.SecureCookie = secure == "true" || secure == "1"
	}

	if strict := os.Getenv("APPLICATIONS_STRICT_TRANSITIONS"); strict != "" {
		c.Applications.StrictTransitions = strict == "true" || strict == "1"
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}
}

// Validate reports every missing or invalid setting at once.
func (c *Config) Validate() error {
	var problems []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server.port %d is out of range", c.Server.Port))
	}

	if strings.TrimSpace(c.Database.URL) == "" {
		problems = append(problems, "DATABASE_URL is required")
	}

	switch c.LLM.Provider {
	case "gemini", "claude":
		if strings.TrimSpace(c.LLM.APIKey) == "" {
			problems = append(problems, fmt.Sprintf("LLM_API_KEY is required for provider %q", c.LLM.Provider))
		}
	default:
		problems = append(problems, fmt.Sprintf("unsupported LLM provider %q", c.LLM.Provider))
	}

	if c.LLM.Timeout <= 0 {
		problems = append(problems, "llm.timeout must be positive")
	}

	switch c.Email.Provider {
	case "resend":
		if strings.TrimSpace(c.Email.APIKey) == "" {
			problems = append(problems, "RESEND_API_KEY is required for email provider \"resend\"")
		}
	case "log":
	default:
		problems = append(problems, fmt.Sprintf("unsupported email provider %q", c.Email.Provider))
	}

	if strings.TrimSpace(c.Email.From) == "" {
		problems = append(problems, "email.from is required")
	}

	if c.Redis.Enabled && strings.TrimSpace(c.Redis.URL) == "" {
		problems = append(problems, "REDIS_URL is required when redis is enabled")
	}

	if c.Auth.SessionTTL <= 0 {
		problems = append(problems, "auth.session_ttl must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}

	return nil
}

// Address returns the host:port the server listens on
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
