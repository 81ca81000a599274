package usecase

import (
	"go.uber.org/fx"

	"github.com/mkraev/loanledger/internal/config"
	"github.com/mkraev/loanledger/internal/domain/repository"
	"github.com/mkraev/loanledger/internal/pkg/clock"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	NewAuthUseCase,
	NewCustomerUseCase,
	newLoanUseCase,
	newPaymentUseCase,
)

type loanParams struct {
	fx.In

	Loans     repository.LoanRepository
	Schedules repository.ScheduleRepository
	Clock     clock.Clock
	Config    *config.Config
}

func newLoanUseCase(p loanParams) *LoanUseCase {
	return NewLoanUseCase(p.Loans, p.Schedules, p.Clock, p.Config.MissedAfter)
}

type paymentParams struct {
	fx.In

	Payments repository.PaymentRepository
	Clock    clock.Clock
	Config   *config.Config
}

func newPaymentUseCase(p paymentParams) *PaymentUseCase {
	return NewPaymentUseCase(p.Payments, p.Clock, p.Config.LateFee)
}
