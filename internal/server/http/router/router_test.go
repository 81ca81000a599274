package router

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mkraev/loanledger/internal/domain/model"
	testhelpers "github.com/mkraev/loanledger/internal/test"
)

func newTestRouter(facade *testhelpers.FacadeStub) http.Handler {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return Setup(facade, logger)
}

func doRequest(handler http.Handler, method, path string, authed bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Accept-Encoding", "identity")
	if authed {
		req.Header.Set("Authorization", "Bearer token")
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestRouterPublicRoutes(t *testing.T) {
	handler := newTestRouter(&testhelpers.FacadeStub{})

	if w := doRequest(handler, http.MethodGet, "/api/health", false); w.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", w.Code)
	}
	// Register and login accept unauthenticated requests; an empty body
	// is a client error, not an auth error.
	if w := doRequest(handler, http.MethodPost, "/api/auth/register", false); w.Code != http.StatusBadRequest {
		t.Fatalf("register: expected 400, got %d", w.Code)
	}
	if w := doRequest(handler, http.MethodPost, "/api/auth/login", false); w.Code != http.StatusBadRequest {
		t.Fatalf("login: expected 400, got %d", w.Code)
	}
}

func TestRouterRequiresAuth(t *testing.T) {
	handler := newTestRouter(&testhelpers.FacadeStub{})

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/auth/me"},
		{http.MethodGet, "/api/customers"},
		{http.MethodGet, "/api/customers/1"},
		{http.MethodGet, "/api/customers/1/loans"},
		{http.MethodGet, "/api/loans/1"},
		{http.MethodGet, "/api/loans/1/schedule"},
		{http.MethodGet, "/api/loans/1/payments"},
		{http.MethodPost, "/api/loans/1/approve"},
	}
	for _, p := range paths {
		if w := doRequest(handler, p.method, p.path, false); w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401, got %d", p.method, p.path, w.Code)
		}
	}
}

func TestRouterRoleRestrictions(t *testing.T) {
	officer := &model.User{ID: 2, Role: model.RoleLoanOfficer, Status: model.UserStatusActive}
	facade := &testhelpers.FacadeStub{
		AuthorizeFn: func(context.Context, string) (*model.User, error) { return officer, nil },
	}
	handler := newTestRouter(facade)

	restricted := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/loans/1/approve"},
		{http.MethodPost, "/api/loans/1/disburse"},
		{http.MethodPost, "/api/loans/1/default"},
		{http.MethodPost, "/api/loans/1/close"},
		{http.MethodPost, "/api/loans/1/schedule/1/waive"},
		{http.MethodDelete, "/api/customers/1"},
	}
	for _, p := range restricted {
		if w := doRequest(handler, p.method, p.path, true); w.Code != http.StatusForbidden {
			t.Errorf("%s %s: expected 403 for loan officer, got %d", p.method, p.path, w.Code)
		}
	}

	// Lifecycle routes open up for a manager; customer deletion stays
	// admin-only.
	manager := &model.User{ID: 3, Role: model.RoleManager, Status: model.UserStatusActive}
	facade.AuthorizeFn = func(context.Context, string) (*model.User, error) { return manager, nil }

	if w := doRequest(handler, http.MethodPost, "/api/loans/1/approve", true); w.Code != http.StatusOK {
		t.Fatalf("approve as manager: expected 200, got %d", w.Code)
	}
	if w := doRequest(handler, http.MethodDelete, "/api/customers/1", true); w.Code != http.StatusForbidden {
		t.Fatalf("delete as manager: expected 403, got %d", w.Code)
	}

	admin := &model.User{ID: 1, Role: model.RoleAdmin, Status: model.UserStatusActive}
	facade.AuthorizeFn = func(context.Context, string) (*model.User, error) { return admin, nil }
	if w := doRequest(handler, http.MethodDelete, "/api/customers/1", true); w.Code != http.StatusNoContent {
		t.Fatalf("delete as admin: expected 204, got %d", w.Code)
	}
}

func TestRouterAuthedFlow(t *testing.T) {
	admin := &model.User{ID: 1, Username: "root", Role: model.RoleAdmin, Status: model.UserStatusActive}
	facade := &testhelpers.FacadeStub{
		AuthorizeFn: func(context.Context, string) (*model.User, error) { return admin, nil },
	}
	handler := newTestRouter(facade)

	if w := doRequest(handler, http.MethodGet, "/api/auth/me", true); w.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d", w.Code)
	}
	if w := doRequest(handler, http.MethodGet, "/api/customers", true); w.Code != http.StatusOK {
		t.Fatalf("customers: expected 200, got %d", w.Code)
	}
	if w := doRequest(handler, http.MethodGet, "/api/loans/1/schedule", true); w.Code != http.StatusOK {
		t.Fatalf("schedule: expected 200, got %d", w.Code)
	}
}
