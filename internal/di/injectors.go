//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"portal/internal"
	"portal/internal/controllers"
	"portal/internal/providers"
	"portal/internal/services"
	"portal/internal/storage"
	"portal/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, func(), error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,
		providers.NewHttpClientProvider,
		providers.NewGroupProvider,

		services.NewKeyValueService,
		storage.NewZstdCompressor,
		storage.NewFileManager,
		storage.NewKVStore,
		storage.NewScheduler,

		services.NewWidgetService,
		services.NewMessageService,
		services.NewCreatorService,

		controllers.NewApiController,
		controllers.NewWidgetController,
		controllers.NewMessageController,
		controllers.NewCreatorController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil, nil
}
