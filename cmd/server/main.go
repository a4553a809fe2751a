package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"feedbackhub/internal/config"
	"feedbackhub/internal/db"
	"feedbackhub/internal/httpapi"
	"feedbackhub/internal/jobs"
	"feedbackhub/internal/logging"
	"feedbackhub/internal/notify"
	"feedbackhub/internal/observability"
	"feedbackhub/internal/version"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("нет .env файла, используем переменные окружения")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("конфигурация: %v", err)
	}

	lg, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("логгер: %v", err)
	}
	defer lg.Closer()

	flush, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, version.Version)
	if err != nil {
		lg.Sugar.Warnw("sentry не инициализирован", "err", err)
	}
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		lg.Sugar.Fatalw("подключение к БД", "err", err)
	}
	defer func() { _ = database.Close() }()

	if err := db.Migrate(ctx, database); err != nil {
		lg.Sugar.Fatalw("миграции", "err", err)
	}

	notifier, err := notify.New(cfg.BotToken, cfg.AdminChatID)
	if err != nil {
		lg.Sugar.Warnw("телеграм-уведомления выключены", "err", err)
		notifier, _ = notify.New("", 0)
	}

	runner := jobs.New(ctx)
	jobs.RegisterFeedbackGauges(runner, database)

	srv := httpapi.New(cfg, database, lg.Named("httpapi"), notifier)
	srv.Start(ctx)
	lg.Sugar.Infow("сервер запущен", "addr", cfg.HTTPAddr, "env", cfg.Env)

	<-ctx.Done()
	lg.Sugar.Info("остановка по сигналу")
}
