package main

import (
	"context"
	"fmt"
	"time"

	"evowatch-backend/lib/telemetry"

	"github.com/go-resty/resty/v2"
)

// TelegramSender delivers notification messages over the Telegram Bot
// API. It implements notify.Sender.
type TelegramSender struct {
	http *resty.Client
}

func NewTelegramSender(token string) TelegramSender {
	client := resty.New().
		SetBaseURL("https://api.telegram.org/bot" + token).
		SetTimeout(time.Second * 30)
	telemetry.InstrumentResty(client, "cmd/evowatchd/telegram")

	return TelegramSender{http: client}
}

func (s TelegramSender) Send(ctx context.Context, chatID int64, text string, html bool) error {
	body := map[string]any{
		"chat_id": chatID,
		"text":    text,
	}
	if html {
		body["parse_mode"] = "HTML"
	}

	res, err := s.http.R().
		SetContext(ctx).
		SetBody(body).
		Post("/sendMessage")
	if err != nil {
		return err
	}
	if res.IsError() {
		return fmt.Errorf("telegram sendMessage: status %d: %s", res.StatusCode(), res.String())
	}
	return nil
}
