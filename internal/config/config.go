/*
Package config builds the single configuration value shared by every component.
Secrets are read from the environment only; everything else has a default and
may be overridden by an optional YAML file or by command-line flags.
*/
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv     = "DVWATCH_CONFIG"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
	geminiAPIKeyEnv   = "GEMINI_API_KEY"
	smtpUserEnv       = "SMTP_USER"
	smtpPassEnv       = "SMTP_PASS"
	smtpToEnv         = "SMTP_TO"
	logLevelEnv       = "LOG_LEVEL"

	NotifierTelegram = "telegram"
	NotifierEmail    = "email"

	DefaultPageURL = "https://travel.state.gov/content/travel/en/us-visas/immigrate/diversity-visa-program-entry.html"
)

// Scope selects which secrets a command needs.
type Scope int

const (
	// ScopeCheck needs the model key and the active notifier's credentials.
	ScopeCheck Scope = iota
	// ScopeExtract needs only the model key.
	ScopeExtract
)

type Config struct {
	Page            PageConfig     `yaml:"page"`
	Gemini          GeminiConfig   `yaml:"gemini"`
	Notifier        string         `yaml:"notifier"`
	Telegram        TelegramConfig `yaml:"telegram"`
	Email           EmailConfig    `yaml:"email"`
	StateFile       string         `yaml:"stateFile"`
	Timezone        string         `yaml:"timezone"`
	LogLevel        string         `yaml:"logLevel"`
	MetricsTextfile string         `yaml:"metricsTextfile"`
}

// PageConfig describes how the DV entry page is fetched.
type PageConfig struct {
	URL       string        `yaml:"url"`
	UserAgent string        `yaml:"userAgent"`
	Timeout   time.Duration `yaml:"timeout"`
	MaxChars  int           `yaml:"maxChars"`
}

type GeminiConfig struct {
	APIKey string `yaml:"-"`
	Model  string `yaml:"model"`
}

type TelegramConfig struct {
	BotToken   string        `yaml:"-"`
	ChatID     string        `yaml:"-"`
	APIBaseURL string        `yaml:"apiBaseUrl"`
	Timeout    time.Duration `yaml:"timeout"`
}

// EmailConfig holds SMTP settings used when Notifier is "email".
type EmailConfig struct {
	SMTPServer string        `yaml:"smtpServer"`
	SMTPPort   int           `yaml:"smtpPort"`
	SMTPUser   string        `yaml:"-"`
	SMTPPass   string        `yaml:"-"`
	FromEmail  string        `yaml:"fromEmail"`
	ToEmail    string        `yaml:"toEmail"`
	Timeout    time.Duration `yaml:"timeout"`
}

// ConfigError reports missing secrets or invalid settings found at startup.
type ConfigError struct {
	Missing  []string
	Problems []string
}

func (e *ConfigError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required environment variables: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Problems) > 0 {
		parts = append(parts, "invalid settings: "+strings.Join(e.Problems, "; "))
	}
	return "config: " + strings.Join(parts, "; ")
}

func Default() Config {
	return Config{
		Page: PageConfig{
			URL:       DefaultPageURL,
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/90.0.4430.93 Safari/537.36",
			Timeout:   15 * time.Second,
			MaxChars:  15000,
		},
		Gemini:   GeminiConfig{Model: "gemini-2.5-flash"},
		Notifier: NotifierTelegram,
		Telegram: TelegramConfig{
			APIBaseURL: "https://api.telegram.org",
			Timeout:    10 * time.Second,
		},
		Email: EmailConfig{
			SMTPServer: "smtp.gmail.com",
			SMTPPort:   587,
			Timeout:    10 * time.Second,
		},
		StateFile: "dv_date_status_gemini.json",
		Timezone:  "Local",
		LogLevel:  "info",
	}
}

// Load starts from Default, merges the YAML file at path (or $DVWATCH_CONFIG)
// over it and then applies environment variables. It does not validate.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		var fileCfg Config
		if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}

		if err := mergo.Merge(&cfg, fileCfg, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return &cfg, nil
}

func (c *Config) applyEnv() {
	c.Telegram.BotToken = strings.TrimSpace(os.Getenv(telegramTokenEnv))
	c.Telegram.ChatID = strings.TrimSpace(os.Getenv(telegramChatIDEnv))
	c.Gemini.APIKey = strings.TrimSpace(os.Getenv(geminiAPIKeyEnv))
	c.Email.SMTPUser = strings.TrimSpace(os.Getenv(smtpUserEnv))
	c.Email.SMTPPass = os.Getenv(smtpPassEnv)

	if v := strings.TrimSpace(os.Getenv(smtpToEnv)); v != "" {
		c.Email.ToEmail = v
	}
	if v := strings.TrimSpace(os.Getenv(logLevelEnv)); v != "" {
		c.LogLevel = v
	}
	if c.Email.FromEmail == "" {
		c.Email.FromEmail = c.Email.SMTPUser
	}
}

// Validate fails with a *ConfigError when anything the scope needs is absent.
func (c *Config) Validate(scope Scope) error {
	cerr := &ConfigError{}

	if c.Gemini.APIKey == "" {
		cerr.Missing = append(cerr.Missing, geminiAPIKeyEnv)
	}
	if c.Gemini.Model == "" {
		cerr.Problems = append(cerr.Problems, "gemini model must not be empty")
	}

	if scope == ScopeCheck {
		switch c.Notifier {
		case NotifierTelegram:
			if c.Telegram.BotToken == "" {
				cerr.Missing = append(cerr.Missing, telegramTokenEnv)
			}
			if c.Telegram.ChatID == "" {
				cerr.Missing = append(cerr.Missing, telegramChatIDEnv)
			}
		case NotifierEmail:
			if c.Email.SMTPUser == "" {
				cerr.Missing = append(cerr.Missing, smtpUserEnv)
			}
			if c.Email.SMTPPass == "" {
				cerr.Missing = append(cerr.Missing, smtpPassEnv)
			}
			if c.Email.ToEmail == "" {
				cerr.Problems = append(cerr.Problems, "email notifier needs a recipient ("+smtpToEnv+" or email.toEmail)")
			}
			if c.Email.SMTPServer == "" || c.Email.SMTPPort <= 0 {
				cerr.Problems = append(cerr.Problems, "email notifier needs smtpServer and a positive smtpPort")
			}
		default:
			cerr.Problems = append(cerr.Problems, fmt.Sprintf("unknown notifier %q (want %s or %s)", c.Notifier, NotifierTelegram, NotifierEmail))
		}

		if c.StateFile == "" {
			cerr.Problems = append(cerr.Problems, "state file path must not be empty")
		}
		if c.Page.URL == "" {
			cerr.Problems = append(cerr.Problems, "page url must not be empty")
		}
		if c.Page.Timeout <= 0 {
			cerr.Problems = append(cerr.Problems, "page timeout must be positive")
		}
	}

	if c.Page.MaxChars <= 0 {
		cerr.Problems = append(cerr.Problems, "page maxChars must be positive")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		cerr.Problems = append(cerr.Problems, fmt.Sprintf("invalid time zone name '%s': %v", c.Timezone, err))
	}

	if len(cerr.Missing) > 0 || len(cerr.Problems) > 0 {
		return cerr
	}
	return nil
}

// Location resolves Timezone, falling back to the local zone when it is invalid.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
