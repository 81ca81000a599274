package usecase_test

import (
	"context"
	"errors"
	"testing"

	domainErrors "github.com/mkraev/loanledger/internal/domain/errors"
	"github.com/mkraev/loanledger/internal/domain/model"
	testhelpers "github.com/mkraev/loanledger/internal/test"
	"github.com/mkraev/loanledger/internal/usecase"
)

func validCustomer() *model.Customer {
	return &model.Customer{
		FirstName: "Amina",
		LastName:  "Diallo",
		Phone:     "+221771234567",
		IDNumber:  "SN-001",
	}
}

func TestCustomerCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults status to active", func(t *testing.T) {
		uc := usecase.NewCustomerUseCase(testhelpers.NewCustomerRepositoryStub())
		created, err := uc.Create(ctx, validCustomer())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if created.Status != model.CustomerStatusActive {
			t.Fatalf("expected active status, got %s", created.Status)
		}
	})

	t.Run("required fields", func(t *testing.T) {
		uc := usecase.NewCustomerUseCase(testhelpers.NewCustomerRepositoryStub())
		cases := []struct {
			name   string
			mutate func(*model.Customer)
		}{
			{"missing first name", func(c *model.Customer) { c.FirstName = " " }},
			{"missing last name", func(c *model.Customer) { c.LastName = "" }},
			{"missing phone", func(c *model.Customer) { c.Phone = "" }},
			{"missing id number", func(c *model.Customer) { c.IDNumber = "" }},
			{"bad status", func(c *model.Customer) { c.Status = "frozen" }},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				customer := validCustomer()
				tc.mutate(customer)
				if _, err := uc.Create(ctx, customer); !errors.Is(err, domainErrors.ErrValidation) {
					t.Fatalf("expected validation error, got %v", err)
				}
			})
		}
	})

	t.Run("duplicate id number", func(t *testing.T) {
		uc := usecase.NewCustomerUseCase(testhelpers.NewCustomerRepositoryStub())
		if _, err := uc.Create(ctx, validCustomer()); err != nil {
			t.Fatalf("first create: %v", err)
		}
		if _, err := uc.Create(ctx, validCustomer()); !errors.Is(err, domainErrors.ErrAlreadyExists) {
			t.Fatalf("expected already exists, got %v", err)
		}
	})
}

func TestCustomerUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := testhelpers.NewCustomerRepositoryStub()
	uc := usecase.NewCustomerUseCase(repo)

	created, err := uc.Create(ctx, validCustomer())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	created.City = "Dakar"
	updated, err := uc.Update(ctx, created)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.City != "Dakar" {
		t.Fatalf("city not updated: %+v", updated)
	}

	missing := validCustomer()
	missing.ID = 99
	missing.IDNumber = "SN-404"
	if _, err := uc.Update(ctx, missing); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := uc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(repo.Deleted) != 1 || repo.Deleted[0] != created.ID {
		t.Fatalf("delete not delegated: %+v", repo.Deleted)
	}
	if _, err := uc.Get(ctx, created.ID); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}
