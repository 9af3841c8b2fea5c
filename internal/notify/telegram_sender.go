package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/shanehull/dvwatch/internal/config"
)

type telegramResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
}

// TelegramSender posts messages to one chat through the Bot API.
type TelegramSender struct {
	client   *resty.Client
	botToken string
	chatID   string
}

func NewTelegramSender(cfg config.TelegramConfig) *TelegramSender {
	client := resty.New()
	client.SetBaseURL(strings.TrimRight(cfg.APIBaseURL, "/"))
	client.SetTimeout(cfg.Timeout)

	return &TelegramSender{
		client:   client,
		botToken: cfg.BotToken,
		chatID:   cfg.ChatID,
	}
}

func (s *TelegramSender) Name() string {
	return "telegram"
}

// Send posts msg.Text with link previews disabled.
func (s *TelegramSender) Send(ctx context.Context, msg *RenderedMessage) error {
	if s.botToken == "" || s.chatID == "" {
		return errors.New("telegram sender misconfigured")
	}

	var out telegramResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"chat_id":                  s.chatID,
			"text":                     msg.Text,
			"disable_web_page_preview": "true",
		}).
		SetResult(&out).
		SetError(&out).
		Post("/bot" + s.botToken + "/sendMessage")
	if err != nil {
		// the request URL carries the bot token
		return fmt.Errorf("telegram sendMessage: %s", strings.ReplaceAll(err.Error(), s.botToken, "<redacted>"))
	}

	if resp.IsError() || !out.OK {
		if out.Description != "" {
			return fmt.Errorf("telegram error %d: %s", resp.StatusCode(), out.Description)
		}
		return fmt.Errorf("telegram error: %s", resp.Status())
	}

	return nil
}
