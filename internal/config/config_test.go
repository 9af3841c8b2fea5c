package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shanehull/dvwatch/internal/config"
	"github.com/stretchr/testify/require"
)

func setSecrets(t *testing.T) {
	t.Setenv("DVWATCH_CONFIG", "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "12345")
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("SMTP_USER", "")
	t.Setenv("SMTP_PASS", "")
	t.Setenv("SMTP_TO", "")
	t.Setenv("LOG_LEVEL", "")
}

func TestLoadDefaults(t *testing.T) {
	setSecrets(t)

	cfg, err := config.Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate(config.ScopeCheck))

	require.Equal(t, config.DefaultPageURL, cfg.Page.URL)
	require.Equal(t, 15*time.Second, cfg.Page.Timeout)
	require.Equal(t, 15000, cfg.Page.MaxChars)
	require.Contains(t, cfg.Page.UserAgent, "Mozilla/5.0")
	require.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	require.Equal(t, config.NotifierTelegram, cfg.Notifier)
	require.Equal(t, "dv_date_status_gemini.json", cfg.StateFile)
	require.Equal(t, "token", cfg.Telegram.BotToken)
	require.Equal(t, "12345", cfg.Telegram.ChatID)
	require.Equal(t, "key", cfg.Gemini.APIKey)
	require.Equal(t, time.Local, cfg.Location())
}

func TestValidateReportsEveryMissingSecret(t *testing.T) {
	setSecrets(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := config.Load("")
	require.NoError(t, err)

	err = cfg.Validate(config.ScopeCheck)
	var cerr *config.ConfigError
	require.True(t, errors.As(err, &cerr))
	require.ElementsMatch(t, []string{"GEMINI_API_KEY", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID"}, cerr.Missing)
	require.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestValidateExtractScopeNeedsOnlyGeminiKey(t *testing.T) {
	setSecrets(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")

	cfg, err := config.Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate(config.ScopeExtract))
	require.Error(t, cfg.Validate(config.ScopeCheck))
}

func TestLoadMergesYAMLFile(t *testing.T) {
	setSecrets(t)

	path := filepath.Join(t.TempDir(), "dvwatch.yaml")
	content := `
page:
  timeout: 5s
  maxChars: 2000
gemini:
  model: gemini-2.5-pro
stateFile: /var/lib/dvwatch/state.json
timezone: Asia/Taipei
logLevel: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate(config.ScopeCheck))

	require.Equal(t, 5*time.Second, cfg.Page.Timeout)
	require.Equal(t, 2000, cfg.Page.MaxChars)
	require.Equal(t, config.DefaultPageURL, cfg.Page.URL, "unset keys keep their defaults")
	require.Equal(t, "gemini-2.5-pro", cfg.Gemini.Model)
	require.Equal(t, "/var/lib/dvwatch/state.json", cfg.StateFile)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "Asia/Taipei", cfg.Location().String())
	require.Equal(t, "key", cfg.Gemini.APIKey, "secrets still come from the environment")
}

func TestLoadMissingFileFails(t *testing.T) {
	setSecrets(t)

	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidateEmailNotifier(t *testing.T) {
	setSecrets(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Notifier = config.NotifierEmail

	var cerr *config.ConfigError
	require.True(t, errors.As(cfg.Validate(config.ScopeCheck), &cerr))
	require.ElementsMatch(t, []string{"SMTP_USER", "SMTP_PASS"}, cerr.Missing)

	t.Setenv("SMTP_USER", "bot@example.com")
	t.Setenv("SMTP_PASS", "secret")
	t.Setenv("SMTP_TO", "me@example.com")

	cfg, err = config.Load("")
	require.NoError(t, err)
	cfg.Notifier = config.NotifierEmail
	require.NoError(t, cfg.Validate(config.ScopeCheck))
	require.Equal(t, "bot@example.com", cfg.Email.FromEmail)
	require.Equal(t, "me@example.com", cfg.Email.ToEmail)
}

func TestValidateRejectsUnknownNotifierAndTimezone(t *testing.T) {
	setSecrets(t)

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Notifier = "pager"
	cfg.Timezone = "Mars/Olympus"

	var cerr *config.ConfigError
	require.True(t, errors.As(cfg.Validate(config.ScopeCheck), &cerr))
	require.Empty(t, cerr.Missing)
	require.Len(t, cerr.Problems, 2)
}
