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

// AccountRefresher re-reads an account after its balance changed.
type AccountRefresher interface {
	Refresh(ctx context.Context, ref string) error
}

// MovementService creates and deletes movements. The backend has no
// movement update.
type MovementService struct {
	gateway  MovementGateway
	accounts AccountRefresher
	views    []View[models.Movement]
	audit    AuditLog
}

func NewMovementService(gateway MovementGateway, accounts AccountRefresher, audit AuditLog, views ...View[models.Movement]) *MovementService {
	return &MovementService{
		gateway:  gateway,
		accounts: accounts,
		views:    views,
		audit:    audit,
	}
}

func (s *MovementService) Get(ctx context.Context, id models.ID) (models.Movement, error) {
	if id.IsZero() {
		return models.Movement{}, fmt.Errorf("MovementService.Get: %w", ErrMissingKey)
	}
	movement, err := s.gateway.Get(ctx, id)
	if err != nil {
		return models.Movement{}, fmt.Errorf("MovementService.Get: %w", err)
	}
	return movement, nil
}

func (s *MovementService) Create(ctx context.Context, input models.MovementInput) (models.Movement, error) {
	input.AccountNumber = strings.TrimSpace(input.AccountNumber)
	if err := validator.ValidateMovement(input); err != nil {
		return models.Movement{}, fmt.Errorf("MovementService.Create: %w", err)
	}
	created, err := s.gateway.Create(ctx, input)
	if err != nil {
		return models.Movement{}, fmt.Errorf("MovementService.Create: %w", err)
	}
	for _, v := range s.views {
		if v.admits(created) {
			v.Collection.Append(created)
		}
	}
	record(ctx, s.audit, "create", "movement", created.ID.String(), created)
	s.refreshAccount(ctx, created.AccountRef)
	return created, nil
}

func (s *MovementService) Delete(ctx context.Context, id models.ID) error {
	if id.IsZero() {
		return fmt.Errorf("MovementService.Delete: %w", ErrMissingKey)
	}
	cached, known := s.cached(id)
	if err := s.gateway.Delete(ctx, id); err != nil {
		return fmt.Errorf("MovementService.Delete: %w", err)
	}
	for _, v := range s.views {
		v.Collection.Remove(id.String())
	}
	record(ctx, s.audit, "delete", "movement", id.String(), map[string]string{"id": id.String()})
	if known {
		s.refreshAccount(ctx, cached.AccountRef)
	}
	return nil
}

// MovementsForAccount filters cached movements by account without a fetch.
func MovementsForAccount(movements *store.Collection[models.Movement], account models.Account) []models.Movement {
	return movements.Find(func(m models.Movement) bool {
		return MovementOf(m, account)
	})
}

// MovementOf reports whether m was posted to account.
func MovementOf(m models.Movement, account models.Account) bool {
	ref := strings.TrimSpace(m.AccountRef)
	if ref == "" {
		return false
	}
	if strings.EqualFold(ref, strings.TrimSpace(account.Number)) {
		return true
	}
	return models.SameID(ref, account.ID)
}

func (s *MovementService) cached(id models.ID) (models.Movement, bool) {
	for _, v := range s.views {
		if m, ok := v.Collection.Get(id.String()); ok {
			return m, true
		}
	}
	return models.Movement{}, false
}

func (s *MovementService) refreshAccount(ctx context.Context, ref string) {
	if s.accounts == nil || strings.TrimSpace(ref) == "" {
		return
	}
	if err := s.accounts.Refresh(ctx, ref); err != nil {
		logging.FromContext(ctx).Warn("account refresh after movement failed", "account", ref, "error", err)
	}
}
