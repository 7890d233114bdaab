package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"backoffice/internal/models"
	"backoffice/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func movement(id models.ID, ref string, kind models.MovementType, amount int64) models.Movement {
	return models.Movement{
		ID:         id,
		AccountRef: ref,
		Type:       kind,
		Amount:     decimal.NewFromInt(amount),
		Timestamp:  time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func seededMovements(name string, items ...models.Movement) *store.Collection[models.Movement] {
	c := store.NewMovements(name)
	_ = c.Load(context.Background(), func(context.Context) ([]models.Movement, error) { return items, nil })
	return c
}

func TestMovementCreateAppendsAndRefreshesAccount(t *testing.T) {
	scope := seededAccounts("customer-accounts", account("478758", "1", 2000))
	customerMovements := seededMovements("movements")
	accountMovements := seededMovements("account-movements")
	refresher := &stubRefresher{}

	svc := NewMovementService(&stubMovementGateway{
		createFn: func(ctx context.Context, in models.MovementInput) (models.Movement, error) {
			m := movement("15", in.AccountNumber, in.Type, in.Amount.IntPart())
			m.Balance = decimal.NewFromInt(1425)
			return m, nil
		},
	}, refresher, nil,
		View[models.Movement]{Collection: customerMovements, Includes: func(m models.Movement) bool {
			_, ok := store.AccountByNumber(scope, m.AccountRef)
			return ok
		}},
		View[models.Movement]{Collection: accountMovements, Includes: func(m models.Movement) bool {
			return m.AccountRef == "999999"
		}},
	)

	created, err := svc.Create(context.Background(), models.MovementInput{
		AccountNumber: " 478758 ",
		Type:          models.MovementDebit,
		Amount:        decimal.NewFromInt(575),
	})
	require.NoError(t, err)
	require.Equal(t, models.ID("15"), created.ID)
	require.Equal(t, 1, customerMovements.Len())
	require.Zero(t, accountMovements.Len())
	require.Equal(t, []string{"478758"}, refresher.refs)
}

func TestMovementCreateRejectsNonPositiveAmount(t *testing.T) {
	movements := seededMovements("movements")
	svc := NewMovementService(&stubMovementGateway{
		createFn: func(ctx context.Context, in models.MovementInput) (models.Movement, error) {
			t.Fatalf("gateway should not be called")
			return models.Movement{}, nil
		},
	}, nil, nil, View[models.Movement]{Collection: movements})

	_, err := svc.Create(context.Background(), models.MovementInput{AccountNumber: "478758", Type: models.MovementCredit, Amount: decimal.Zero})
	require.Error(t, err)
	require.Zero(t, movements.Len())
}

func TestMovementCreateFailureLeavesCacheUntouched(t *testing.T) {
	movements := seededMovements("movements", movement("1", "478758", models.MovementCredit, 10))
	refresher := &stubRefresher{}
	backendErr := errors.New("Saldo no disponible")
	svc := NewMovementService(&stubMovementGateway{
		createFn: func(ctx context.Context, in models.MovementInput) (models.Movement, error) {
			return models.Movement{}, backendErr
		},
	}, refresher, nil, View[models.Movement]{Collection: movements, Includes: func(models.Movement) bool { return true }})

	_, err := svc.Create(context.Background(), models.MovementInput{AccountNumber: "478758", Type: models.MovementDebit, Amount: decimal.NewFromInt(5000)})
	require.ErrorIs(t, err, backendErr)
	require.Equal(t, 1, movements.Len())
	require.Empty(t, refresher.refs)
}

func TestMovementCreateSurvivesRefreshFailure(t *testing.T) {
	movements := seededMovements("movements")
	svc := NewMovementService(&stubMovementGateway{
		createFn: func(ctx context.Context, in models.MovementInput) (models.Movement, error) {
			return movement("2", in.AccountNumber, in.Type, 1), nil
		},
	}, &stubRefresher{err: errors.New("not found")}, nil, View[models.Movement]{Collection: movements, Includes: func(models.Movement) bool { return true }})

	_, err := svc.Create(context.Background(), models.MovementInput{AccountNumber: "478758", Type: models.MovementCredit, Amount: decimal.NewFromInt(1)})
	require.NoError(t, err)
	require.Equal(t, 1, movements.Len())
}

func TestMovementDeleteRemovesFromViewsAndRefreshes(t *testing.T) {
	customerMovements := seededMovements("movements", movement("1", "478758", models.MovementCredit, 10), movement("2", "225487", models.MovementDebit, 5))
	accountMovements := seededMovements("account-movements", movement("1", "478758", models.MovementCredit, 10))
	refresher := &stubRefresher{}
	audit := &stubAudit{}
	svc := NewMovementService(&stubMovementGateway{
		deleteFn: func(ctx context.Context, id models.ID) error { return nil },
	}, refresher, audit,
		View[models.Movement]{Collection: customerMovements},
		View[models.Movement]{Collection: accountMovements},
	)

	require.NoError(t, svc.Delete(context.Background(), "1"))
	require.Equal(t, 1, customerMovements.Len())
	require.Zero(t, accountMovements.Len())
	require.Equal(t, []string{"478758"}, refresher.refs)
	require.Len(t, audit.calls, 1)
	require.Equal(t, "movement", audit.calls[0].entityType)
}

func TestMovementsForAccount(t *testing.T) {
	movements := seededMovements("movements",
		movement("1", "478758", models.MovementCredit, 10),
		movement("2", "12", models.MovementDebit, 5),
		movement("3", "225487", models.MovementDebit, 5),
	)
	target := account("478758", "1", 0)
	target.ID = "12"

	got := MovementsForAccount(movements, target)
	require.Len(t, got, 2)
	require.Equal(t, models.ID("1"), got[0].ID)
	require.Equal(t, models.ID("2"), got[1].ID)
	require.False(t, MovementOf(movement("4", "", models.MovementDebit, 1), target))
}
