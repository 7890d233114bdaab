package services

import (
	"context"
	"fmt"
	"strings"

	"backoffice/internal/models"
	"backoffice/internal/store"
	"backoffice/internal/validator"
)

type CustomerService struct {
	gateway   CustomerGateway
	customers *store.Collection[models.Customer]
	audit     AuditLog
	onDelete  []func(models.ID)
}

func NewCustomerService(gateway CustomerGateway, customers *store.Collection[models.Customer], audit AuditLog) *CustomerService {
	return &CustomerService{
		gateway:   gateway,
		customers: customers,
		audit:     audit,
	}
}

// OnDelete registers fn to run after a customer is deleted.
func (s *CustomerService) OnDelete(fn func(models.ID)) {
	s.onDelete = append(s.onDelete, fn)
}

func (s *CustomerService) Collection() *store.Collection[models.Customer] { return s.customers }

func (s *CustomerService) Reload(ctx context.Context) error {
	return s.customers.Load(ctx, s.gateway.List)
}

// Search matches a case-insensitive name substring or an exact national id.
// An empty query returns the whole snapshot.
func (s *CustomerService) Search(query string) []models.Customer {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.customers.Snapshot()
	}
	needle := strings.ToLower(query)
	return s.customers.Find(func(c models.Customer) bool {
		return strings.Contains(strings.ToLower(c.Name), needle) || strings.TrimSpace(c.NationalID) == query
	})
}

// ByNationalID finds a cached customer by national id.
func (s *CustomerService) ByNationalID(nationalID string) (models.Customer, bool) {
	nationalID = strings.TrimSpace(nationalID)
	return s.customers.First(func(c models.Customer) bool {
		return nationalID != "" && strings.TrimSpace(c.NationalID) == nationalID
	})
}

// Get reads one customer from the backend without touching the cache.
func (s *CustomerService) Get(ctx context.Context, id models.ID) (models.Customer, error) {
	if id.IsZero() {
		return models.Customer{}, fmt.Errorf("CustomerService.Get: %w", ErrMissingKey)
	}
	customer, err := s.gateway.Get(ctx, id)
	if err != nil {
		return models.Customer{}, fmt.Errorf("CustomerService.Get: %w", err)
	}
	return customer, nil
}

func (s *CustomerService) Create(ctx context.Context, customer models.Customer) (models.Customer, error) {
	if err := validator.ValidateCustomer(customer, true); err != nil {
		return models.Customer{}, fmt.Errorf("CustomerService.Create: %w", err)
	}
	if existing, ok := s.ByNationalID(customer.NationalID); ok {
		return models.Customer{}, fmt.Errorf("CustomerService.Create %s (customer %s): %w", customer.NationalID, existing.ID, ErrDuplicate)
	}
	created, err := s.gateway.Create(ctx, customer)
	if err != nil {
		return models.Customer{}, fmt.Errorf("CustomerService.Create: %w", err)
	}
	s.customers.Append(created)
	record(ctx, s.audit, "create", "customer", created.ID.String(), redact(created))
	return created, nil
}

// Update sends the customer to the backend and swaps the cached entry. When
// id is not cached the server result is returned with ErrStaleKey.
func (s *CustomerService) Update(ctx context.Context, id models.ID, customer models.Customer) (models.Customer, error) {
	if id.IsZero() {
		return models.Customer{}, fmt.Errorf("CustomerService.Update: %w", ErrMissingKey)
	}
	if err := validator.ValidateCustomer(customer, false); err != nil {
		return models.Customer{}, fmt.Errorf("CustomerService.Update: %w", err)
	}
	updated, err := s.gateway.Update(ctx, id, customer)
	if err != nil {
		return models.Customer{}, fmt.Errorf("CustomerService.Update: %w", err)
	}
	record(ctx, s.audit, "update", "customer", id.String(), redact(updated))
	if !s.customers.Replace(id.String(), updated) {
		return updated, fmt.Errorf("CustomerService.Update %s: %w", id, ErrStaleKey)
	}
	return updated, nil
}

func (s *CustomerService) Delete(ctx context.Context, id models.ID) error {
	if id.IsZero() {
		return fmt.Errorf("CustomerService.Delete: %w", ErrMissingKey)
	}
	if err := s.gateway.Delete(ctx, id); err != nil {
		return fmt.Errorf("CustomerService.Delete: %w", err)
	}
	s.customers.Remove(id.String())
	record(ctx, s.audit, "delete", "customer", id.String(), map[string]string{"id": id.String()})
	for _, fn := range s.onDelete {
		fn(id)
	}
	return nil
}

func redact(c models.Customer) models.Customer {
	c.Password = ""
	return c
}
