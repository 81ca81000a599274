package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/mkraev/loanledger/internal/domain/errors"
	"github.com/mkraev/loanledger/internal/domain/model"
	"github.com/mkraev/loanledger/internal/domain/repository"
	testhelpers "github.com/mkraev/loanledger/internal/test"
	"github.com/mkraev/loanledger/internal/usecase"
)

func TestPaymentPost(t *testing.T) {
	ctx := context.Background()
	lateFee := decimal.RequireFromString("25")

	t.Run("forwards a fully specified payment", func(t *testing.T) {
		payments := &testhelpers.PaymentRepositoryStub{}
		clk := testhelpers.NewClockStub()
		uc := usecase.NewPaymentUseCase(payments, clk, lateFee)

		scheduleID := int64(11)
		receivedBy := int64(4)
		paidAt := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
		_, err := uc.Post(ctx, usecase.PostInput{
			LoanID:               8,
			Amount:               decimal.RequireFromString("350.50"),
			Date:                 paidAt,
			Method:               model.MethodBankTransfer,
			ScheduleID:           &scheduleID,
			TransactionReference: "  TXN-42  ",
			Notes:                "partial month",
			ReceivedBy:           &receivedBy,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		req := payments.LastRequest
		if req == nil {
			t.Fatal("repository never called")
		}
		if req.LoanID != 8 || !req.Date.Equal(paidAt) || req.Method != model.MethodBankTransfer {
			t.Fatalf("unexpected request: %+v", req)
		}
		if req.ScheduleID == nil || *req.ScheduleID != scheduleID {
			t.Fatalf("schedule id not forwarded: %+v", req.ScheduleID)
		}
		if req.ReceivedBy == nil || *req.ReceivedBy != receivedBy {
			t.Fatalf("received by not forwarded: %+v", req.ReceivedBy)
		}
		if req.TransactionReference == nil || *req.TransactionReference != "TXN-42" {
			t.Fatalf("reference not trimmed: %+v", req.TransactionReference)
		}
		if req.Notes == nil || *req.Notes != "partial month" {
			t.Fatalf("notes not forwarded: %+v", req.Notes)
		}
		if !req.LateFee.Equal(lateFee) {
			t.Fatalf("late fee %s, want %s", req.LateFee, lateFee)
		}
	})

	t.Run("defaults date from the clock", func(t *testing.T) {
		payments := &testhelpers.PaymentRepositoryStub{}
		clk := testhelpers.NewClockStub()
		uc := usecase.NewPaymentUseCase(payments, clk, decimal.Zero)

		_, err := uc.Post(ctx, usecase.PostInput{
			LoanID: 8,
			Amount: decimal.RequireFromString("100"),
			Method: model.MethodCash,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !payments.LastRequest.Date.Equal(clk.Now()) {
			t.Fatalf("date %v, want %v", payments.LastRequest.Date, clk.Now())
		}
	})

	t.Run("blank reference and notes become nil", func(t *testing.T) {
		payments := &testhelpers.PaymentRepositoryStub{}
		uc := usecase.NewPaymentUseCase(payments, testhelpers.NewClockStub(), decimal.Zero)

		_, err := uc.Post(ctx, usecase.PostInput{
			LoanID:               8,
			Amount:               decimal.RequireFromString("100"),
			Method:               model.MethodCash,
			TransactionReference: "   ",
			Notes:                "",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if payments.LastRequest.TransactionReference != nil || payments.LastRequest.Notes != nil {
			t.Fatalf("blank fields not dropped: %+v", payments.LastRequest)
		}
	})

	t.Run("validation", func(t *testing.T) {
		payments := &testhelpers.PaymentRepositoryStub{}
		uc := usecase.NewPaymentUseCase(payments, testhelpers.NewClockStub(), decimal.Zero)

		cases := []struct {
			name  string
			input usecase.PostInput
		}{
			{"zero amount", usecase.PostInput{LoanID: 8, Amount: decimal.Zero, Method: model.MethodCash}},
			{"negative amount", usecase.PostInput{LoanID: 8, Amount: decimal.RequireFromString("-5"), Method: model.MethodCash}},
			{"bad method", usecase.PostInput{LoanID: 8, Amount: decimal.RequireFromString("5"), Method: "barter"}},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				if _, err := uc.Post(ctx, tc.input); !errors.Is(err, domainErrors.ErrValidation) {
					t.Fatalf("expected validation error, got %v", err)
				}
			})
		}
		if payments.LastRequest != nil {
			t.Fatal("repository called for invalid input")
		}
	})

	t.Run("propagates duplicate reference", func(t *testing.T) {
		payments := &testhelpers.PaymentRepositoryStub{
			PostFn: func(context.Context, repository.PostPaymentRequest) (*repository.PostPaymentResult, error) {
				return nil, domainErrors.ErrDuplicatePayment
			},
		}
		uc := usecase.NewPaymentUseCase(payments, testhelpers.NewClockStub(), decimal.Zero)

		_, err := uc.Post(ctx, usecase.PostInput{
			LoanID:               8,
			Amount:               decimal.RequireFromString("100"),
			Method:               model.MethodCash,
			TransactionReference: "TXN-1",
		})
		if !errors.Is(err, domainErrors.ErrDuplicatePayment) {
			t.Fatalf("expected duplicate payment error, got %v", err)
		}
	})
}

func TestPaymentListByLoan(t *testing.T) {
	ctx := context.Background()
	payments := &testhelpers.PaymentRepositoryStub{
		ListByLoanFn: func(_ context.Context, loanID int64) ([]model.Payment, error) {
			if loanID != 8 {
				return nil, domainErrors.ErrNotFound
			}
			return []model.Payment{{ID: 1, LoanID: 8}}, nil
		},
	}
	uc := usecase.NewPaymentUseCase(payments, testhelpers.NewClockStub(), decimal.Zero)

	got, err := uc.ListByLoan(ctx, 8)
	if err != nil || len(got) != 1 {
		t.Fatalf("list: %v (%d payments)", err, len(got))
	}
	if _, err := uc.ListByLoan(ctx, 9); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
