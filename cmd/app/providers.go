package main

import (
	"log/slog"

	"github.com/aws/aws-sdk-go/aws/session"

	"github.com/yanqian/shopbot/internal/bootstrap"
	"github.com/yanqian/shopbot/internal/domain/auth"
	"github.com/yanqian/shopbot/internal/domain/dialog"
	"github.com/yanqian/shopbot/internal/domain/faq"
	"github.com/yanqian/shopbot/internal/domain/hours"
	"github.com/yanqian/shopbot/internal/domain/intent"
	"github.com/yanqian/shopbot/internal/domain/reply"
	"github.com/yanqian/shopbot/internal/infra/config"
	"github.com/yanqian/shopbot/internal/infra/telegram"
	httpiface "github.com/yanqian/shopbot/internal/interface/http"
)

func provideAWSSession(cfg *config.Config) (*session.Session, error) {
	return bootstrap.AWSSession(cfg)
}

func provideKnowledgeBase(cfg *config.Config, sess *session.Session, logger *slog.Logger) (faq.KnowledgeBase, func(), error) {
	return bootstrap.KnowledgeBase(cfg, sess, logger)
}

func provideOrderRepository(cfg *config.Config, sess *session.Session, logger *slog.Logger) (dialog.OrderRepository, error) {
	return bootstrap.OrderRepository(cfg, sess, logger)
}

func provideSessionStore(cfg *config.Config, logger *slog.Logger) (dialog.SessionStore, func(), error) {
	store, cleanup := bootstrap.SessionStore(cfg, logger)
	return store, cleanup, nil
}

func provideTelegramClient(cfg *config.Config, sess *session.Session, logger *slog.Logger) *telegram.Client {
	return bootstrap.TelegramClient(cfg, sess, logger)
}

func provideClock(cfg *config.Config, logger *slog.Logger) hours.Clock {
	return hours.NewZoneClock(cfg.Hours.TimeZone, logger)
}

func provideHoursService(clock hours.Clock, logger *slog.Logger) hours.Service {
	return hours.NewService(hours.DefaultSchedule(), clock, logger)
}

func provideClassifier() reply.Classifier {
	return intent.NewClassifier()
}

func provideAuthConfig(cfg *config.Config) auth.Config {
	return auth.Config{
		Secret: cfg.Admin.JWTSecret,
		Issuer: cfg.Admin.Issuer,
	}
}

func provideHandler(cfg *config.Config, replySvc reply.Service, dialogSvc dialog.Service, tg *telegram.Client, logger *slog.Logger) *httpiface.Handler {
	return httpiface.NewHandler(replySvc, dialogSvc, tg, cfg.Telegram.WebhookSecret, logger)
}
