// Package notify — телеграм-уведомления администратору о прошедших
// импортах. Без токена превращается в no-op.
package notify

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"feedbackhub/internal/observability"
)

type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func New(token string, chatID int64) (*Notifier, error) {
	if token == "" || chatID == 0 {
		return &Notifier{}, nil
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram init: %w", err)
	}
	return &Notifier{bot: bot, chatID: chatID}, nil
}

// ImportFinished отправляет сводку прогона; ошибки отправки не
// возвращаются наверх, системные уходят в Sentry.
func (n *Notifier) ImportFinished(total, imported, skipped, errCount int) {
	if n == nil || n.bot == nil {
		return
	}
	text := fmt.Sprintf("📥 Импорт оценок: строк %d, загружено %d, пропущено %d, ошибок %d",
		total, imported, skipped, errCount)
	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); isSystemErr(err) {
		observability.CaptureErr(err)
	}
}

// Считаем системными: 5xx, 429, timeout. Телеграм-валидации в Sentry не шлём.
func isSystemErr(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	if strings.Contains(s, "429") || strings.Contains(s, "502") || strings.Contains(s, "503") || strings.Contains(s, "timeout") {
		return true
	}
	return false
}
