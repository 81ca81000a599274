package model

import (
	"testing"
	"time"
)

func TestLoanStatusTransitions(t *testing.T) {
	cases := []struct {
		name    string
		from    LoanStatus
		to      LoanStatus
		allowed bool
	}{
		{"pending to approved", LoanStatusPending, LoanStatusApproved, true},
		{"approved to disbursed", LoanStatusApproved, LoanStatusDisbursed, true},
		{"disbursed to paid", LoanStatusDisbursed, LoanStatusPaid, true},
		{"disbursed to default", LoanStatusDisbursed, LoanStatusDefault, true},
		{"pending to closed", LoanStatusPending, LoanStatusClosed, true},
		{"approved to closed", LoanStatusApproved, LoanStatusClosed, true},
		{"pending to disbursed", LoanStatusPending, LoanStatusDisbursed, false},
		{"disbursed to approved", LoanStatusDisbursed, LoanStatusApproved, false},
		{"approved to default", LoanStatusApproved, LoanStatusDefault, false},
		{"paid to closed", LoanStatusPaid, LoanStatusClosed, false},
		{"closed to approved", LoanStatusClosed, LoanStatusApproved, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
				t.Fatalf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.allowed, got)
			}
		})
	}
}

func TestLoanStatusTerminal(t *testing.T) {
	if !LoanStatusPaid.Terminal() || !LoanStatusClosed.Terminal() {
		t.Fatal("paid and closed must be terminal")
	}
	if LoanStatusDefault.Terminal() {
		t.Fatal("default is not terminal: the loan can still be closed")
	}
}

func TestPaymentFrequencyPeriods(t *testing.T) {
	cases := []struct {
		freq    PaymentFrequency
		periods int
	}{
		{FrequencyWeekly, 52},
		{FrequencyBiWeekly, 26},
		{FrequencyMonthly, 12},
		{FrequencyQuarterly, 4},
	}
	for _, tc := range cases {
		if got := tc.freq.PeriodsPerYear(); got != tc.periods {
			t.Fatalf("%s: expected %d periods per year, got %d", tc.freq, tc.periods, got)
		}
	}
}

func TestPaymentFrequencyAddPeriod(t *testing.T) {
	start := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		freq PaymentFrequency
		want time.Time
	}{
		{FrequencyWeekly, time.Date(2025, time.January, 22, 0, 0, 0, 0, time.UTC)},
		{FrequencyBiWeekly, time.Date(2025, time.January, 29, 0, 0, 0, 0, time.UTC)},
		{FrequencyMonthly, time.Date(2025, time.February, 15, 0, 0, 0, 0, time.UTC)},
		{FrequencyQuarterly, time.Date(2025, time.April, 15, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		if got := tc.freq.AddPeriod(start); !got.Equal(tc.want) {
			t.Fatalf("%s: expected %s, got %s", tc.freq, tc.want, got)
		}
	}
}

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleAdmin, RoleLoanOfficer, RoleAccountant, RoleManager} {
		if !r.Valid() {
			t.Fatalf("expected %s to be valid", r)
		}
	}
	if Role("superuser").Valid() {
		t.Fatal("unexpected valid role")
	}
}

func TestScheduleStatusSettled(t *testing.T) {
	if !ScheduleStatusPaid.Settled() || !ScheduleStatusWaived.Settled() {
		t.Fatal("paid and waived must count as settled")
	}
	for _, s := range []ScheduleStatus{ScheduleStatusPending, ScheduleStatusLate, ScheduleStatusMissed} {
		if !s.Open() {
			t.Fatalf("expected %s to be open", s)
		}
	}
}

func TestPaymentMethodValid(t *testing.T) {
	for _, m := range []PaymentMethod{MethodCash, MethodBankTransfer, MethodCreditCard, MethodCheque, MethodOther} {
		if !m.Valid() {
			t.Fatalf("expected %s to be valid", m)
		}
	}
	if PaymentMethod("barter").Valid() {
		t.Fatal("unexpected valid method")
	}
}
