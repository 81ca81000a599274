package allocation

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/mkraev/loanledger/internal/domain/errors"
	"github.com/mkraev/loanledger/internal/domain/model"
)

var (
	dueFirst  = time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	dueSecond = time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func openItem(id int64, number int, due time.Time, principal, interest string) OpenItem {
	return OpenItem{
		Item: model.ScheduleItem{
			ID:                id,
			InstallmentNumber: number,
			DueDate:           due,
			PrincipalAmount:   dec(principal),
			InterestAmount:    dec(interest),
			TotalAmount:       dec(principal).Add(dec(interest)),
			Status:            model.ScheduleStatusPending,
		},
		InterestPaid:  decimal.Zero,
		PrincipalPaid: decimal.Zero,
		LateFeePaid:   decimal.Zero,
	}
}

func TestApplySettlesSingleInstallment(t *testing.T) {
	items := []OpenItem{openItem(1, 1, dueFirst, "90", "10")}
	entries, err := Apply(items, dec("100"), dueFirst, decimal.Zero)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if !e.Interest.Equal(dec("10")) || !e.Principal.Equal(dec("90")) {
		t.Fatalf("unexpected split: interest %s principal %s", e.Interest, e.Principal)
	}
	if !e.Settled || e.NewStatus != model.ScheduleStatusPaid {
		t.Fatalf("expected installment settled and paid, got %v %s", e.Settled, e.NewStatus)
	}
}

func TestApplyInterestBeforePrincipal(t *testing.T) {
	items := []OpenItem{openItem(1, 1, dueFirst, "90", "10")}
	entries, err := Apply(items, dec("25"), dueFirst, decimal.Zero)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	e := entries[0]
	if !e.Interest.Equal(dec("10")) {
		t.Fatalf("interest must be paid first: got %s", e.Interest)
	}
	if !e.Principal.Equal(dec("15")) {
		t.Fatalf("expected 15.00 to principal, got %s", e.Principal)
	}
	if e.Settled {
		t.Fatal("partial payment must not settle the installment")
	}
	if e.NewStatus != model.ScheduleStatusPending {
		t.Fatalf("on-time partial keeps pending status, got %s", e.NewStatus)
	}
}

func TestApplyCascadesToNextInstallment(t *testing.T) {
	items := []OpenItem{
		openItem(1, 1, dueFirst, "90", "10"),
		openItem(2, 2, dueSecond, "91", "9"),
	}
	entries, err := Apply(items, dec("150"), dueFirst, decimal.Zero)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected cascade into 2 entries, got %d", len(entries))
	}
	if !entries[0].Amount().Equal(dec("100")) || !entries[0].Settled {
		t.Fatalf("first installment should be fully settled with 100.00, got %s", entries[0].Amount())
	}
	second := entries[1]
	if !second.Amount().Equal(dec("50")) {
		t.Fatalf("expected 50.00 applied to second installment, got %s", second.Amount())
	}
	if !second.Interest.Equal(dec("9")) || !second.Principal.Equal(dec("41")) {
		t.Fatalf("second split wrong: interest %s principal %s", second.Interest, second.Principal)
	}
	if second.Settled {
		t.Fatal("second installment must remain open")
	}
}

func TestApplyPartialAfterDueDateMarksLate(t *testing.T) {
	items := []OpenItem{openItem(1, 1, dueFirst, "90", "10")}
	posted := dueFirst.AddDate(0, 0, 5)
	entries, err := Apply(items, dec("30"), posted, decimal.Zero)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if entries[0].NewStatus != model.ScheduleStatusLate {
		t.Fatalf("expected late status, got %s", entries[0].NewStatus)
	}
}

func TestApplyLateFeeCollectedLast(t *testing.T) {
	items := []OpenItem{openItem(1, 1, dueFirst, "90", "10")}
	posted := dueFirst.AddDate(0, 0, 10)
	entries, err := Apply(items, dec("105"), posted, dec("5"))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	e := entries[0]
	if !e.LateFee.Equal(dec("5")) {
		t.Fatalf("expected 5.00 late fee, got %s", e.LateFee)
	}
	if !e.Settled || e.NewStatus != model.ScheduleStatusPaid {
		t.Fatalf("installment plus fee fully covered, expected paid, got %s", e.NewStatus)
	}
	if !e.Amount().Equal(dec("105")) {
		t.Fatalf("entry amount mismatch: %s", e.Amount())
	}
}

func TestApplyLateFeeOutstandingBlocksSettlement(t *testing.T) {
	items := []OpenItem{openItem(1, 1, dueFirst, "90", "10")}
	posted := dueFirst.AddDate(0, 0, 10)
	entries, err := Apply(items, dec("100"), posted, dec("5"))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if entries[0].Settled {
		t.Fatal("unpaid late fee must keep the installment open")
	}
	if entries[0].NewStatus != model.ScheduleStatusLate {
		t.Fatalf("expected late, got %s", entries[0].NewStatus)
	}
}

func TestApplyRespectsPriorPartialPayments(t *testing.T) {
	item := openItem(1, 1, dueFirst, "90", "10")
	item.InterestPaid = dec("10")
	item.PrincipalPaid = dec("40")
	entries, err := Apply([]OpenItem{item}, dec("50"), dueFirst, decimal.Zero)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	e := entries[0]
	if !e.Interest.IsZero() {
		t.Fatalf("interest already covered, got %s", e.Interest)
	}
	if !e.Principal.Equal(dec("50")) || !e.Settled {
		t.Fatalf("expected remaining 50.00 principal to settle, got %s settled=%v", e.Principal, e.Settled)
	}
}

func TestApplyOverpaymentRejected(t *testing.T) {
	items := []OpenItem{openItem(1, 1, dueFirst, "90", "10")}
	_, err := Apply(items, dec("200"), dueFirst, decimal.Zero)
	if !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error for overpayment, got %v", err)
	}
}

func TestApplyNonPositiveAmount(t *testing.T) {
	items := []OpenItem{openItem(1, 1, dueFirst, "90", "10")}
	for _, amount := range []string{"0", "-10"} {
		if _, err := Apply(items, dec(amount), dueFirst, decimal.Zero); !errors.Is(err, domainErrors.ErrValidation) {
			t.Fatalf("amount %s: expected validation error, got %v", amount, err)
		}
	}
}
