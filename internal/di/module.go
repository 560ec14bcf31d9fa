package di

import (
	"github.com/gildedline/atelier/internal/adapter/notifier"
	"github.com/gildedline/atelier/internal/app"
	"github.com/gildedline/atelier/internal/config"
	"github.com/gildedline/atelier/internal/logger"
	"github.com/gildedline/atelier/internal/pkg/auth"
	"github.com/gildedline/atelier/internal/server/http/handlers"
	"github.com/gildedline/atelier/internal/server/http/router"
	"github.com/gildedline/atelier/internal/storage/postgres"
	"github.com/gildedline/atelier/internal/usecase"
	"go.uber.org/fx"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		notifier.Module,
		usecase.Module,
		fx.Provide(func(facade *app.AtelierFacade) handlers.AtelierFacade { return facade }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
