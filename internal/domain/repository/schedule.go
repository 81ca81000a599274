package repository

import (
	"context"
	"time"

	"github.com/mkraev/loanledger/internal/domain/model"
)

// ScheduleRepository provides access to loan payment schedules.
type ScheduleRepository interface {
	ListByLoan(ctx context.Context, loanID int64) ([]model.ScheduleItem, error)

	// Waive marks an open installment waived and settles the loan when
	// it was the last open one.
	Waive(ctx context.Context, loanID int64, installmentNumber int, at time.Time) (*model.ScheduleItem, error)

	// MarkOverdueBatch flips past-due pending items to late and late
	// items older than missedAfter to missed. Returns rows changed.
	MarkOverdueBatch(ctx context.Context, asOf time.Time, missedAfter time.Duration, limit int) (int, error)
}
