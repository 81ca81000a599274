package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/mkraev/loanledger/internal/domain/errors"
	"github.com/mkraev/loanledger/internal/domain/model"
	testhelpers "github.com/mkraev/loanledger/internal/test"
	"github.com/mkraev/loanledger/internal/usecase"
)

func validLoan() *model.Loan {
	return &model.Loan{
		CustomerID:   7,
		Principal:    decimal.RequireFromString("10000"),
		InterestRate: decimal.RequireFromString("12.5"),
		TermMonths:   12,
		Frequency:    model.FrequencyMonthly,
	}
}

func TestLoanCreate(t *testing.T) {
	ctx := context.Background()
	clk := testhelpers.NewClockStub()

	t.Run("forces pending status", func(t *testing.T) {
		var stored *model.Loan
		loans := &testhelpers.LoanRepositoryStub{
			CreateFn: func(_ context.Context, loan *model.Loan) (*model.Loan, error) {
				stored = loan
				clone := *loan
				clone.ID = 1
				return &clone, nil
			},
		}
		uc := usecase.NewLoanUseCase(loans, &testhelpers.ScheduleRepositoryStub{}, clk, 30*24*time.Hour)

		loan := validLoan()
		loan.Status = model.LoanStatusDisbursed
		created, err := uc.Create(ctx, loan)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stored.Status != model.LoanStatusPending || created.Status != model.LoanStatusPending {
			t.Fatalf("expected pending status, stored %s created %s", stored.Status, created.Status)
		}
	})

	t.Run("validation", func(t *testing.T) {
		uc := usecase.NewLoanUseCase(&testhelpers.LoanRepositoryStub{}, &testhelpers.ScheduleRepositoryStub{}, clk, 30*24*time.Hour)
		cases := []struct {
			name   string
			mutate func(*model.Loan)
		}{
			{"zero principal", func(l *model.Loan) { l.Principal = decimal.Zero }},
			{"negative principal", func(l *model.Loan) { l.Principal = decimal.RequireFromString("-1") }},
			{"negative rate", func(l *model.Loan) { l.InterestRate = decimal.RequireFromString("-0.1") }},
			{"zero term", func(l *model.Loan) { l.TermMonths = 0 }},
			{"bad frequency", func(l *model.Loan) { l.Frequency = "hourly" }},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				loan := validLoan()
				tc.mutate(loan)
				if _, err := uc.Create(ctx, loan); !errors.Is(err, domainErrors.ErrValidation) {
					t.Fatalf("expected validation error, got %v", err)
				}
			})
		}
	})
}

func TestLoanTransitionsUseClock(t *testing.T) {
	ctx := context.Background()
	clk := testhelpers.NewClockStub()

	var approvedAt, disbursedAt, statusAt time.Time
	var statusSet model.LoanStatus
	loans := &testhelpers.LoanRepositoryStub{
		ApproveFn: func(_ context.Context, loanID, approvedBy int64, at time.Time) (*model.Loan, error) {
			approvedAt = at
			return &model.Loan{ID: loanID, Status: model.LoanStatusApproved, ApprovedBy: &approvedBy}, nil
		},
		DisburseFn: func(_ context.Context, loanID int64, at time.Time) (*model.Loan, error) {
			disbursedAt = at
			return &model.Loan{ID: loanID, Status: model.LoanStatusDisbursed}, nil
		},
		SetStatusFn: func(_ context.Context, loanID int64, next model.LoanStatus, at time.Time) (*model.Loan, error) {
			statusAt = at
			statusSet = next
			return &model.Loan{ID: loanID, Status: next}, nil
		},
	}
	uc := usecase.NewLoanUseCase(loans, &testhelpers.ScheduleRepositoryStub{}, clk, 30*24*time.Hour)

	if _, err := uc.Approve(ctx, 3, 9); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if !approvedAt.Equal(clk.Now()) {
		t.Fatalf("approve timestamp %v, want %v", approvedAt, clk.Now())
	}

	clk.Advance(time.Hour)
	if _, err := uc.Disburse(ctx, 3); err != nil {
		t.Fatalf("disburse: %v", err)
	}
	if !disbursedAt.Equal(clk.Now()) {
		t.Fatalf("disburse timestamp %v, want %v", disbursedAt, clk.Now())
	}

	if _, err := uc.MarkDefault(ctx, 3); err != nil {
		t.Fatalf("mark default: %v", err)
	}
	if statusSet != model.LoanStatusDefault || !statusAt.Equal(clk.Now()) {
		t.Fatalf("default transition: status %s at %v", statusSet, statusAt)
	}

	if _, err := uc.Close(ctx, 3); err != nil {
		t.Fatalf("close: %v", err)
	}
	if statusSet != model.LoanStatusClosed {
		t.Fatalf("close transition: status %s", statusSet)
	}
}

func TestLoanScheduleOperations(t *testing.T) {
	ctx := context.Background()
	clk := testhelpers.NewClockStub()
	missedAfter := 14 * 24 * time.Hour

	items := []model.ScheduleItem{{LoanID: 5, InstallmentNumber: 1}, {LoanID: 5, InstallmentNumber: 2}}
	var waivedAt time.Time
	var gotMissedAfter time.Duration
	var gotLimit int
	schedules := &testhelpers.ScheduleRepositoryStub{
		ListByLoanFn: func(_ context.Context, loanID int64) ([]model.ScheduleItem, error) {
			if loanID != 5 {
				return nil, domainErrors.ErrNotFound
			}
			return items, nil
		},
		WaiveFn: func(_ context.Context, loanID int64, n int, at time.Time) (*model.ScheduleItem, error) {
			waivedAt = at
			return &model.ScheduleItem{LoanID: loanID, InstallmentNumber: n, Status: model.ScheduleStatusWaived}, nil
		},
		MarkOverdueBatchFn: func(_ context.Context, asOf time.Time, after time.Duration, limit int) (int, error) {
			gotMissedAfter = after
			gotLimit = limit
			return 4, nil
		},
	}
	uc := usecase.NewLoanUseCase(&testhelpers.LoanRepositoryStub{}, schedules, clk, missedAfter)

	got, err := uc.Schedule(ctx, 5)
	if err != nil || len(got) != 2 {
		t.Fatalf("schedule: %v (%d items)", err, len(got))
	}

	item, err := uc.Waive(ctx, 5, 2)
	if err != nil {
		t.Fatalf("waive: %v", err)
	}
	if item.Status != model.ScheduleStatusWaived || !waivedAt.Equal(clk.Now()) {
		t.Fatalf("waive result %+v at %v", item, waivedAt)
	}

	changed, err := uc.MarkOverdue(ctx, 100)
	if err != nil || changed != 4 {
		t.Fatalf("mark overdue: %v (%d changed)", err, changed)
	}
	if gotMissedAfter != missedAfter || gotLimit != 100 {
		t.Fatalf("mark overdue args: missedAfter %v limit %d", gotMissedAfter, gotLimit)
	}
}
