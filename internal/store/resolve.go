package store

import (
	"strings"

	"backoffice/internal/models"
)

const UnknownLabel = "unknown"

// Resolve looks up the entity referenced by a foreign key in the current
// snapshot of c. Identifiers compare loosely (see models.SameID). The
// boolean is false when nothing matches; no fetch is ever attempted.
func Resolve[T any](c *Collection[T], fk any, idOf func(T) any) (T, bool) {
	return c.First(func(item T) bool {
		return models.SameID(idOf(item), fk)
	})
}

// AccountByNumber resolves an account reference. Account numbers compare
// case-insensitively; numeric surrogate ids fall back to loose equality.
func AccountByNumber(c *Collection[models.Account], ref any) (models.Account, bool) {
	text := strings.TrimSpace(models.IDOf(ref).String())
	return c.First(func(a models.Account) bool {
		if text != "" && strings.EqualFold(strings.TrimSpace(a.Number), text) {
			return true
		}
		return models.SameID(a.ID, ref)
	})
}

// CustomerName resolves a customer reference for display.
func CustomerName(c *Collection[models.Customer], fk any) string {
	customer, ok := Resolve(c, fk, CustomerID)
	if !ok {
		return UnknownLabel
	}
	return customer.Name
}

func CustomerID(c models.Customer) any { return c.ID }

// Natural keys used by the entity collections.
func CustomerKey(c models.Customer) string { return c.ID.String() }

func AccountKey(a models.Account) string { return a.Number }

func MovementKey(m models.Movement) string { return m.ID.String() }

func NewCustomers(name string) *Collection[models.Customer] {
	return NewCollection(name, CustomerKey)
}

func NewAccounts(name string) *Collection[models.Account] {
	return NewCollection(name, AccountKey, CaseInsensitiveKeys())
}

func NewMovements(name string) *Collection[models.Movement] {
	return NewCollection(name, MovementKey)
}
