package services

import (
	"context"
	"sync"
	"time"

	"backoffice/internal/models"
)

type stubCustomerGateway struct {
	listFn   func(ctx context.Context) ([]models.Customer, error)
	getFn    func(ctx context.Context, id models.ID) (models.Customer, error)
	createFn func(ctx context.Context, customer models.Customer) (models.Customer, error)
	updateFn func(ctx context.Context, id models.ID, customer models.Customer) (models.Customer, error)
	deleteFn func(ctx context.Context, id models.ID) error
}

func (s *stubCustomerGateway) List(ctx context.Context) ([]models.Customer, error) {
	return s.listFn(ctx)
}

func (s *stubCustomerGateway) Get(ctx context.Context, id models.ID) (models.Customer, error) {
	return s.getFn(ctx, id)
}

func (s *stubCustomerGateway) Create(ctx context.Context, customer models.Customer) (models.Customer, error) {
	return s.createFn(ctx, customer)
}

func (s *stubCustomerGateway) Update(ctx context.Context, id models.ID, customer models.Customer) (models.Customer, error) {
	return s.updateFn(ctx, id, customer)
}

func (s *stubCustomerGateway) Delete(ctx context.Context, id models.ID) error {
	return s.deleteFn(ctx, id)
}

type stubAccountGateway struct {
	listFn   func(ctx context.Context) ([]models.Account, error)
	getFn    func(ctx context.Context, number string) (models.Account, error)
	createFn func(ctx context.Context, account models.Account) (models.Account, error)
	updateFn func(ctx context.Context, number string, account models.Account) (models.Account, error)
	deleteFn func(ctx context.Context, number string) error
}

func (s *stubAccountGateway) List(ctx context.Context) ([]models.Account, error) {
	return s.listFn(ctx)
}

func (s *stubAccountGateway) Get(ctx context.Context, number string) (models.Account, error) {
	return s.getFn(ctx, number)
}

func (s *stubAccountGateway) Create(ctx context.Context, account models.Account) (models.Account, error) {
	return s.createFn(ctx, account)
}

func (s *stubAccountGateway) Update(ctx context.Context, number string, account models.Account) (models.Account, error) {
	return s.updateFn(ctx, number, account)
}

func (s *stubAccountGateway) Delete(ctx context.Context, number string) error {
	return s.deleteFn(ctx, number)
}

type stubMovementGateway struct {
	getFn    func(ctx context.Context, id models.ID) (models.Movement, error)
	createFn func(ctx context.Context, input models.MovementInput) (models.Movement, error)
	deleteFn func(ctx context.Context, id models.ID) error
}

func (s *stubMovementGateway) Get(ctx context.Context, id models.ID) (models.Movement, error) {
	return s.getFn(ctx, id)
}

func (s *stubMovementGateway) Create(ctx context.Context, input models.MovementInput) (models.Movement, error) {
	return s.createFn(ctx, input)
}

func (s *stubMovementGateway) Delete(ctx context.Context, id models.ID) error {
	return s.deleteFn(ctx, id)
}

type stubReportGateway struct {
	statementFn func(ctx context.Context, customerID models.ID, from, to *time.Time) (models.Report, error)
}

func (s *stubReportGateway) Statement(ctx context.Context, customerID models.ID, from, to *time.Time) (models.Report, error) {
	return s.statementFn(ctx, customerID, from, to)
}

type auditCall struct {
	actorID    string
	action     string
	entityType string
	entityID   string
	data       string
}

type stubAudit struct {
	mu    sync.Mutex
	calls []auditCall
	err   error
}

func (s *stubAudit) Log(ctx context.Context, actorID, action, entityType, entityID, data string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, auditCall{actorID, action, entityType, entityID, data})
	return s.err
}

type stubRefresher struct {
	refs []string
	err  error
}

func (s *stubRefresher) Refresh(ctx context.Context, ref string) error {
	s.refs = append(s.refs, ref)
	return s.err
}
