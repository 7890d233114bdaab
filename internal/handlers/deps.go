package handlers

import (
	"context"

	"backoffice/internal/store"
)

type AuditReader interface {
	List(ctx context.Context, limit, offset int) ([]store.AuditEntry, error)
}
