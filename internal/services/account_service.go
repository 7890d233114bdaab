package services

import (
	"context"
	"fmt"
	"strings"

	"backoffice/internal/logging"
	"backoffice/internal/models"
	"backoffice/internal/store"
	"backoffice/internal/validator"
)

type AccountService struct {
	gateway  AccountGateway
	accounts *store.Collection[models.Account]
	views    []View[models.Account]
	audit    AuditLog
}

// NewAccountService reconciles the full account collection and every
// dependent view (for example the accounts of the selected customer).
func NewAccountService(gateway AccountGateway, accounts *store.Collection[models.Account], audit AuditLog, views ...View[models.Account]) *AccountService {
	return &AccountService{
		gateway:  gateway,
		accounts: accounts,
		views:    views,
		audit:    audit,
	}
}

func (s *AccountService) Collection() *store.Collection[models.Account] { return s.accounts }

func (s *AccountService) Reload(ctx context.Context) error {
	return s.accounts.Load(ctx, s.gateway.List)
}

// Search matches a case-insensitive account number substring.
func (s *AccountService) Search(query string) []models.Account {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return s.accounts.Snapshot()
	}
	return s.accounts.Find(func(a models.Account) bool {
		return strings.Contains(strings.ToLower(a.Number), needle)
	})
}

// OwnedBy filters the cached accounts by customer.
func (s *AccountService) OwnedBy(customerID models.ID) []models.Account {
	return s.accounts.Find(func(a models.Account) bool {
		return models.SameID(a.CustomerID, customerID)
	})
}

func (s *AccountService) Get(ctx context.Context, number string) (models.Account, error) {
	if strings.TrimSpace(number) == "" {
		return models.Account{}, fmt.Errorf("AccountService.Get: %w", ErrMissingKey)
	}
	account, err := s.gateway.Get(ctx, number)
	if err != nil {
		return models.Account{}, fmt.Errorf("AccountService.Get: %w", err)
	}
	return account, nil
}

func (s *AccountService) Create(ctx context.Context, account models.Account) (models.Account, error) {
	if err := validator.ValidateAccount(account); err != nil {
		return models.Account{}, fmt.Errorf("AccountService.Create: %w", err)
	}
	created, err := s.gateway.Create(ctx, account)
	if err != nil {
		return models.Account{}, fmt.Errorf("AccountService.Create: %w", err)
	}
	s.accounts.Append(created)
	for _, v := range s.views {
		if v.admits(created) {
			v.Collection.Append(created)
		}
	}
	record(ctx, s.audit, "create", "account", created.Number, created)
	return created, nil
}

// Update changes the mutable fields of an account. Type and owner are fixed
// once the account exists. The result replaces the cached entry in every
// collection holding it; ErrStaleKey is returned alongside the server result
// when none did.
func (s *AccountService) Update(ctx context.Context, number string, account models.Account) (models.Account, error) {
	if strings.TrimSpace(number) == "" {
		return models.Account{}, fmt.Errorf("AccountService.Update: %w", ErrMissingKey)
	}
	if account.OpeningBalance.IsNegative() {
		return models.Account{}, fmt.Errorf("AccountService.Update: %w", validator.ErrNegativeBalance)
	}
	updated, err := s.gateway.Update(ctx, number, account)
	if err != nil {
		return models.Account{}, fmt.Errorf("AccountService.Update: %w", err)
	}
	record(ctx, s.audit, "update", "account", number, updated)
	if !s.replace(number, updated) {
		return updated, fmt.Errorf("AccountService.Update %s: %w", number, ErrStaleKey)
	}
	return updated, nil
}

func (s *AccountService) Delete(ctx context.Context, number string) error {
	if strings.TrimSpace(number) == "" {
		return fmt.Errorf("AccountService.Delete: %w", ErrMissingKey)
	}
	if err := s.gateway.Delete(ctx, number); err != nil {
		return fmt.Errorf("AccountService.Delete: %w", err)
	}
	s.accounts.Remove(number)
	for _, v := range s.views {
		v.Collection.Remove(number)
	}
	record(ctx, s.audit, "delete", "account", number, map[string]string{"number": number})
	return nil
}

// Refresh re-reads one account and replaces it wherever it is cached. The
// backend recomputes balances after movements, so this follows every
// movement mutation.
func (s *AccountService) Refresh(ctx context.Context, ref string) error {
	number := ref
	if cached, ok := s.resolve(ref); ok {
		number = cached.Number
	}
	account, err := s.gateway.Get(ctx, number)
	if err != nil {
		return fmt.Errorf("AccountService.Refresh %s: %w", number, err)
	}
	if !s.replace(number, account) {
		logging.FromContext(ctx).Debug("refreshed account not cached", "number", number)
	}
	return nil
}

// resolve finds a cached account by number or surrogate id.
func (s *AccountService) resolve(ref string) (models.Account, bool) {
	if a, ok := store.AccountByNumber(s.accounts, ref); ok {
		return a, true
	}
	for _, v := range s.views {
		if a, ok := store.AccountByNumber(v.Collection, ref); ok {
			return a, true
		}
	}
	return models.Account{}, false
}

func (s *AccountService) replace(number string, account models.Account) bool {
	replaced := s.accounts.Replace(number, account)
	for _, v := range s.views {
		if v.Collection.Replace(number, account) {
			replaced = true
		}
	}
	return replaced
}
