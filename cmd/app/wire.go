//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/shopbot/internal/bootstrap"
	"github.com/yanqian/shopbot/internal/domain/auth"
	"github.com/yanqian/shopbot/internal/domain/dialog"
	"github.com/yanqian/shopbot/internal/domain/faq"
	"github.com/yanqian/shopbot/internal/domain/reply"
	"github.com/yanqian/shopbot/internal/infra/config"
	httpiface "github.com/yanqian/shopbot/internal/interface/http"
	"github.com/yanqian/shopbot/pkg/logger"
	"github.com/yanqian/shopbot/pkg/metrics"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		metrics.New,
		provideAWSSession,
		provideKnowledgeBase,
		provideOrderRepository,
		provideSessionStore,
		provideTelegramClient,
		provideClock,
		provideHoursService,
		provideClassifier,
		provideAuthConfig,
		provideHandler,
		faq.NewCache,
		faq.NewService,
		reply.NewService,
		dialog.NewService,
		auth.NewService,
		httpiface.NewAdminHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
