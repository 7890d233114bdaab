package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"backoffice/internal/auth"
	"backoffice/internal/logging"
	"backoffice/internal/models"
	"backoffice/internal/store"
)

var (
	// ErrStaleKey accompanies a successful update whose entity was not in
	// the cache. The server result is returned but nothing was inserted.
	ErrStaleKey     = errors.New("updated entity is not cached")
	ErrMissingKey   = errors.New("missing identifier")
	ErrInvalidRange = errors.New("start date is after end date")
	ErrDuplicate    = errors.New("national id already registered")
)

type CustomerGateway interface {
	List(ctx context.Context) ([]models.Customer, error)
	Get(ctx context.Context, id models.ID) (models.Customer, error)
	Create(ctx context.Context, customer models.Customer) (models.Customer, error)
	Update(ctx context.Context, id models.ID, customer models.Customer) (models.Customer, error)
	Delete(ctx context.Context, id models.ID) error
}

type AccountGateway interface {
	List(ctx context.Context) ([]models.Account, error)
	Get(ctx context.Context, number string) (models.Account, error)
	Create(ctx context.Context, account models.Account) (models.Account, error)
	Update(ctx context.Context, number string, account models.Account) (models.Account, error)
	Delete(ctx context.Context, number string) error
}

type MovementGateway interface {
	Get(ctx context.Context, id models.ID) (models.Movement, error)
	Create(ctx context.Context, input models.MovementInput) (models.Movement, error)
	Delete(ctx context.Context, id models.ID) error
}

type ReportGateway interface {
	Statement(ctx context.Context, customerID models.ID, from, to *time.Time) (models.Report, error)
}

type AuditLog interface {
	Log(ctx context.Context, actorID, action, entityType, entityID, data string) error
}

// View is a dependent collection kept in step with mutations. Includes
// reports whether a newly created entity falls inside the view's current
// scope; a nil Includes never admits new entities.
type View[T any] struct {
	Collection *store.Collection[T]
	Includes   func(T) bool
}

func (v View[T]) admits(item T) bool {
	return v.Includes != nil && v.Includes(item)
}

// record writes an audit entry for a mutation the backend accepted. Audit
// failures are logged and never fail the mutation.
func record(ctx context.Context, audit AuditLog, action, entityType, entityID string, payload any) {
	if audit == nil {
		return
	}
	actorID, _ := auth.UserIDFromContext(ctx)
	data, err := json.Marshal(payload)
	if err != nil {
		data = []byte("{}")
	}
	if err := audit.Log(ctx, actorID, action, entityType, entityID, string(data)); err != nil {
		logging.FromContext(ctx).Warn("audit log failed",
			"action", action,
			"entity_type", entityType,
			"entity_id", entityID,
			"error", err,
		)
	}
}
