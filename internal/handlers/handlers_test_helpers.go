package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"backoffice/internal/auth"
	"backoffice/internal/backoffice"
	"backoffice/internal/config"
	"backoffice/internal/models"
	"backoffice/internal/store"
	"backoffice/internal/websocket"
)

type stubCustomerGateway struct {
	listFn   func(ctx context.Context) ([]models.Customer, error)
	getFn    func(ctx context.Context, id models.ID) (models.Customer, error)
	createFn func(ctx context.Context, customer models.Customer) (models.Customer, error)
	updateFn func(ctx context.Context, id models.ID, customer models.Customer) (models.Customer, error)
	deleteFn func(ctx context.Context, id models.ID) error
}

func (s stubCustomerGateway) List(ctx context.Context) ([]models.Customer, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

func (s stubCustomerGateway) Get(ctx context.Context, id models.ID) (models.Customer, error) {
	if s.getFn == nil {
		return models.Customer{ID: id}, nil
	}
	return s.getFn(ctx, id)
}

func (s stubCustomerGateway) Create(ctx context.Context, customer models.Customer) (models.Customer, error) {
	if s.createFn == nil {
		return customer, nil
	}
	return s.createFn(ctx, customer)
}

func (s stubCustomerGateway) Update(ctx context.Context, id models.ID, customer models.Customer) (models.Customer, error) {
	if s.updateFn == nil {
		customer.ID = id
		return customer, nil
	}
	return s.updateFn(ctx, id, customer)
}

func (s stubCustomerGateway) Delete(ctx context.Context, id models.ID) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, id)
}

type stubAccountGateway struct {
	listFn           func(ctx context.Context) ([]models.Account, error)
	getFn            func(ctx context.Context, number string) (models.Account, error)
	listByCustomerFn func(ctx context.Context, customerID models.ID) ([]models.Account, error)
	createFn         func(ctx context.Context, account models.Account) (models.Account, error)
	updateFn         func(ctx context.Context, number string, account models.Account) (models.Account, error)
	deleteFn         func(ctx context.Context, number string) error
}

func (s stubAccountGateway) List(ctx context.Context) ([]models.Account, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

func (s stubAccountGateway) Get(ctx context.Context, number string) (models.Account, error) {
	if s.getFn == nil {
		return models.Account{Number: number}, nil
	}
	return s.getFn(ctx, number)
}

func (s stubAccountGateway) ListByCustomer(ctx context.Context, customerID models.ID) ([]models.Account, error) {
	if s.listByCustomerFn == nil {
		return nil, nil
	}
	return s.listByCustomerFn(ctx, customerID)
}

func (s stubAccountGateway) Create(ctx context.Context, account models.Account) (models.Account, error) {
	if s.createFn == nil {
		return account, nil
	}
	return s.createFn(ctx, account)
}

func (s stubAccountGateway) Update(ctx context.Context, number string, account models.Account) (models.Account, error) {
	if s.updateFn == nil {
		account.Number = number
		return account, nil
	}
	return s.updateFn(ctx, number, account)
}

func (s stubAccountGateway) Delete(ctx context.Context, number string) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, number)
}

type stubMovementGateway struct {
	getFn            func(ctx context.Context, id models.ID) (models.Movement, error)
	createFn         func(ctx context.Context, input models.MovementInput) (models.Movement, error)
	deleteFn         func(ctx context.Context, id models.ID) error
	listByCustomerFn func(ctx context.Context, filter models.MovementFilter) ([]models.Movement, error)
	listByAccountFn  func(ctx context.Context, number string) ([]models.Movement, error)
}

func (s stubMovementGateway) Get(ctx context.Context, id models.ID) (models.Movement, error) {
	if s.getFn == nil {
		return models.Movement{ID: id}, nil
	}
	return s.getFn(ctx, id)
}

func (s stubMovementGateway) Create(ctx context.Context, input models.MovementInput) (models.Movement, error) {
	if s.createFn == nil {
		return models.Movement{ID: "1", AccountRef: input.AccountNumber, Type: input.Type, Amount: input.Amount}, nil
	}
	return s.createFn(ctx, input)
}

func (s stubMovementGateway) Delete(ctx context.Context, id models.ID) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, id)
}

func (s stubMovementGateway) ListByCustomer(ctx context.Context, filter models.MovementFilter) ([]models.Movement, error) {
	if s.listByCustomerFn == nil {
		return nil, nil
	}
	return s.listByCustomerFn(ctx, filter)
}

func (s stubMovementGateway) ListByAccount(ctx context.Context, number string) ([]models.Movement, error) {
	if s.listByAccountFn == nil {
		return nil, nil
	}
	return s.listByAccountFn(ctx, number)
}

type stubReportGateway struct {
	statementFn func(ctx context.Context, customerID models.ID, from, to *time.Time) (models.Report, error)
}

func (s stubReportGateway) Statement(ctx context.Context, customerID models.ID, from, to *time.Time) (models.Report, error) {
	if s.statementFn == nil {
		return models.Report{CustomerID: customerID, Content: "JVBERi0xLjQ=", Format: "pdf"}, nil
	}
	return s.statementFn(ctx, customerID, from, to)
}

type stubAuditReader struct {
	listFn func(ctx context.Context, limit, offset int) ([]store.AuditEntry, error)
}

func (s stubAuditReader) List(ctx context.Context, limit, offset int) ([]store.AuditEntry, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, limit, offset)
}

func testConfig() config.Config {
	return config.Config{
		AppEnv:           "test",
		JWTSecret:        "secret",
		TokenTTL:         time.Minute,
		OperatorUsername: "admin",
		AllowedOrigins:   "*",
	}
}

func newTestHandler(t *testing.T, gw backoffice.Gateways, audit AuditReader) (*Handler, *backoffice.Workspace) {
	t.Helper()
	if gw.Customers == nil {
		gw.Customers = stubCustomerGateway{}
	}
	if gw.Accounts == nil {
		gw.Accounts = stubAccountGateway{}
	}
	if gw.Movements == nil {
		gw.Movements = stubMovementGateway{}
	}
	if gw.Reports == nil {
		gw.Reports = stubReportGateway{}
	}
	workspace := backoffice.New(gw, nil)
	if err := workspace.LoadAll(context.Background()); err != nil {
		t.Fatalf("failed to load workspace: %v", err)
	}
	return New(testConfig(), workspace, audit, websocket.NewHub(), nil), workspace
}

func authorize(t *testing.T, req *http.Request) *http.Request {
	t.Helper()
	token, err := auth.GenerateToken("secret", "admin", time.Minute)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func serve(t *testing.T, h *Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := authorize(t, httptest.NewRequest(method, target, body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr, req)
	return rr
}
