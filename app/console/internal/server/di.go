package server

import (
	"github.com/google/wire"
	"github.com/iWorld-y/visionary/app/console/internal/data"
	"github.com/iWorld-y/visionary/app/console/internal/service"
	"github.com/iWorld-y/visionary/app/console/internal/usecase"
)

// ProviderSet 是顾问控制台的依赖注入 Provider 集合
var ProviderSet = wire.NewSet(
	// Server providers
	NewHTTPServer,

	// Data providers
	data.NewData,
	data.NewAdvisorRepo,

	// UseCase providers
	usecase.NewAdvisorUseCase,

	// Service providers
	service.NewAdvisorService,
)
