package router

import (
	"go.uber.org/fx"

	"github.com/mkraev/loanledger/internal/app"
	"github.com/mkraev/loanledger/internal/server/http/handlers"
)

// Module registers HTTP router construction for fx runtime.
var Module = fx.Options(
	fx.Provide(func(facade *app.LoanFacade) handlers.LoanFacade { return facade }),
	fx.Provide(Setup),
)
