package reloader

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"testing"
	"time"

	"backoffice/internal/models"
	"backoffice/internal/store"

	"github.com/stretchr/testify/require"
)

func accountsFor(owner models.ID, numbers ...string) []models.Account {
	out := make([]models.Account, 0, len(numbers))
	for _, n := range numbers {
		out = append(out, models.Account{Number: n, CustomerID: owner})
	}
	return out
}

func isZeroID(id models.ID) bool { return id.IsZero() }

func TestSelectLoadsDependentCollection(t *testing.T) {
	target := store.NewAccounts("customer-accounts")
	r := New("customer-accounts", target, func(ctx context.Context, id models.ID) ([]models.Account, error) {
		return accountsFor(id, "100", "200"), nil
	}, isZeroID)

	require.Equal(t, Idle, r.State())
	require.NoError(t, r.Select(context.Background(), "1"))
	require.Equal(t, Ready, r.State())
	require.Len(t, target.Snapshot(), 2)

	selected, ok := r.Selected()
	require.True(t, ok)
	require.Equal(t, models.ID("1"), selected)
}

func TestSelectZeroKeyReturnsToIdle(t *testing.T) {
	target := store.NewAccounts("customer-accounts")
	r := New("customer-accounts", target, func(ctx context.Context, id models.ID) ([]models.Account, error) {
		return accountsFor(id, "100"), nil
	}, isZeroID)

	require.NoError(t, r.Select(context.Background(), "1"))
	require.NoError(t, r.Select(context.Background(), ""))
	require.Equal(t, Idle, r.State())
	require.Empty(t, target.Snapshot())
	_, ok := r.Selected()
	require.False(t, ok)
}

func TestSelectClearsBeforeFetching(t *testing.T) {
	target := store.NewAccounts("customer-accounts")
	target.Append(models.Account{Number: "stale", CustomerID: "9"})

	started := make(chan struct{})
	release := make(chan struct{})
	r := New("customer-accounts", target, func(ctx context.Context, id models.ID) ([]models.Account, error) {
		close(started)
		<-release
		return accountsFor(id, "100"), nil
	}, isZeroID)

	done := make(chan error, 1)
	go func() { done <- r.Select(context.Background(), "1") }()

	<-started
	require.Equal(t, Loading, r.State())
	require.Empty(t, target.Snapshot())

	close(release)
	require.NoError(t, <-done)
	require.Equal(t, Ready, r.State())
	require.Len(t, target.Snapshot(), 1)
}

func TestLastSelectionWins(t *testing.T) {
	target := store.NewAccounts("customer-accounts")
	startedA := make(chan struct{})
	releaseA := make(chan struct{})
	r := New("customer-accounts", target, func(ctx context.Context, id models.ID) ([]models.Account, error) {
		if id == "A" {
			close(startedA)
			<-releaseA
			return accountsFor(id, "A-1", "A-2"), nil
		}
		return accountsFor(id, "B-1"), nil
	}, isZeroID)

	doneA := make(chan error, 1)
	go func() { doneA <- r.Select(context.Background(), "A") }()
	<-startedA

	require.NoError(t, r.Select(context.Background(), "B"))
	close(releaseA)
	require.True(t, errors.Is(<-doneA, ErrSuperseded))

	snapshot := target.Snapshot()
	require.Len(t, snapshot, 1)
	require.Equal(t, models.ID("B"), snapshot[0].CustomerID)
	require.Equal(t, Ready, r.State())
	selected, _ := r.Selected()
	require.Equal(t, models.ID("B"), selected)
}

func TestConcurrentSelectionsKeepTargetConsistent(t *testing.T) {
	for i := 0; i < 2000; i++ {
		target := store.NewAccounts("customer-accounts")
		r := New("customer-accounts", target, func(ctx context.Context, id models.ID) ([]models.Account, error) {
			runtime.Gosched()
			return accountsFor(id, "100-"+id.String()), nil
		}, isZeroID)

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for j, id := range []models.ID{"A", "B"} {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs[j] = r.Select(context.Background(), id)
			}()
		}
		wg.Wait()
		for _, err := range errs {
			if err != nil {
				require.ErrorIs(t, err, ErrSuperseded)
			}
		}

		require.Equal(t, Ready, r.State())
		selected, ok := r.Selected()
		require.True(t, ok)
		snapshot := target.Snapshot()
		require.Len(t, snapshot, 1)
		require.Equal(t, selected, snapshot[0].CustomerID)
	}
}

func TestClearDiscardsInFlightResult(t *testing.T) {
	target := store.NewAccounts("customer-accounts")
	started := make(chan struct{})
	release := make(chan struct{})
	r := New("customer-accounts", target, func(ctx context.Context, id models.ID) ([]models.Account, error) {
		close(started)
		<-release
		return accountsFor(id, "100"), nil
	}, isZeroID)

	done := make(chan error, 1)
	go func() { done <- r.Select(context.Background(), "1") }()
	<-started

	r.Clear()
	close(release)
	require.True(t, errors.Is(<-done, ErrSuperseded))
	require.Equal(t, Idle, r.State())
	require.Empty(t, target.Snapshot())
}

func TestFailedFetchClearsAndReports(t *testing.T) {
	target := store.NewAccounts("customer-accounts")
	target.Append(models.Account{Number: "old"})
	boom := errors.New("backend down")
	r := New("customer-accounts", target, func(ctx context.Context, id models.ID) ([]models.Account, error) {
		return nil, boom
	}, isZeroID)

	err := r.Select(context.Background(), "1")
	require.ErrorIs(t, err, boom)
	require.Equal(t, Ready, r.State())
	require.Empty(t, target.Snapshot())
}

func TestRefreshUsesCurrentSelection(t *testing.T) {
	target := store.NewMovements("customer-movements")
	calls := 0
	r := New("customer-movements", target, func(ctx context.Context, f models.MovementFilter) ([]models.Movement, error) {
		calls++
		return []models.Movement{{ID: models.ID("m1"), CustomerID: f.CustomerID}}, nil
	}, models.MovementFilter.IsZero)

	require.NoError(t, r.Refresh(context.Background()))
	require.Zero(t, calls)

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, r.Select(context.Background(), models.MovementFilter{CustomerID: "4", From: &from}))
	require.NoError(t, r.Refresh(context.Background()))
	require.Equal(t, 2, calls)
	require.Len(t, target.Snapshot(), 1)
}

func TestStatesStream(t *testing.T) {
	target := store.NewAccounts("customer-accounts")
	r := New("customer-accounts", target, func(ctx context.Context, id models.ID) ([]models.Account, error) {
		return nil, nil
	}, isZeroID)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	states := r.States(ctx)
	require.Equal(t, Idle, <-states)

	require.NoError(t, r.Select(context.Background(), "1"))
	require.Equal(t, Ready, <-states)
	require.Equal(t, "ready", Ready.String())
}
