package di

import (
	"go.uber.org/fx"

	"github.com/mkraev/loanledger/internal/app"
	"github.com/mkraev/loanledger/internal/config"
	"github.com/mkraev/loanledger/internal/logger"
	"github.com/mkraev/loanledger/internal/pkg/auth"
	"github.com/mkraev/loanledger/internal/pkg/clock"
	"github.com/mkraev/loanledger/internal/server/http/router"
	"github.com/mkraev/loanledger/internal/storage/postgres"
	"github.com/mkraev/loanledger/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		clock.Module,
		auth.Module,
		postgres.Module,
		usecase.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
