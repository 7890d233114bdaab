package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"backoffice/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func account(number string, owner any) models.Account {
	return models.Account{
		Number:         number,
		Type:           models.AccountSavings,
		OpeningBalance: decimal.NewFromInt(5000),
		Balance:        decimal.NewFromInt(5000),
		Active:         true,
		CustomerID:     models.IDOf(owner),
	}
}

func fetchOf[T any](items ...T) func(context.Context) ([]T, error) {
	return func(context.Context) ([]T, error) { return items, nil }
}

// gatedFetch blocks until release is closed, then returns items.
func gatedFetch[T any](release <-chan struct{}, started chan<- struct{}, items []T, err error) func(context.Context) ([]T, error) {
	return func(context.Context) ([]T, error) {
		started <- struct{}{}
		<-release
		return items, err
	}
}

func next[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for value")
	}
	var zero T
	return zero
}

func TestLoadReplacesSnapshot(t *testing.T) {
	c := NewAccounts("accounts")
	require.Empty(t, c.Snapshot())

	require.NoError(t, c.Load(context.Background(), fetchOf(account("1001", 1), account("1002", 2))))
	require.Len(t, c.Snapshot(), 2)

	require.NoError(t, c.Load(context.Background(), fetchOf(account("2001", 3))))
	snap := c.Snapshot()
	require.Len(t, snap, 1)
	require.Equal(t, "2001", snap[0].Number)
}

func TestLoadFailurePublishesEmpty(t *testing.T) {
	c := NewAccounts("accounts")
	require.NoError(t, c.Load(context.Background(), fetchOf(account("1001", 1))))

	boom := errors.New("connection refused")
	err := c.Load(context.Background(), func(context.Context) ([]models.Account, error) { return nil, boom })
	require.ErrorIs(t, err, boom)
	require.Empty(t, c.Snapshot())
	require.NotNil(t, c.Snapshot())
}

func TestSnapshotKeepsPreviousWhileLoading(t *testing.T) {
	c := NewAccounts("accounts")
	require.NoError(t, c.Load(context.Background(), fetchOf(account("1001", 1))))

	release := make(chan struct{})
	started := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- c.Load(context.Background(), gatedFetch(release, started, []models.Account{account("9", 1)}, nil))
	}()
	<-started

	require.True(t, c.IsLoading())
	snap := c.Snapshot()
	require.Len(t, snap, 1)
	require.Equal(t, "1001", snap[0].Number)

	close(release)
	require.NoError(t, <-done)
	require.False(t, c.IsLoading())
	require.Equal(t, "9", c.Snapshot()[0].Number)
}

func TestOverlappingLoadsLastIssuedWins(t *testing.T) {
	c := NewAccounts("accounts")
	releaseA, releaseB := make(chan struct{}), make(chan struct{})
	started := make(chan struct{}, 2)
	doneA, doneB := make(chan error, 1), make(chan error, 1)

	go func() {
		doneA <- c.Load(context.Background(), gatedFetch(releaseA, started, []models.Account{account("A", 1)}, nil))
	}()
	<-started
	go func() {
		doneB <- c.Load(context.Background(), gatedFetch(releaseB, started, []models.Account{account("B", 2)}, nil))
	}()
	<-started

	close(releaseB)
	require.NoError(t, <-doneB)
	close(releaseA)
	require.ErrorIs(t, <-doneA, ErrSuperseded)

	snap := c.Snapshot()
	require.Len(t, snap, 1)
	require.Equal(t, "B", snap[0].Number)
}

func TestStaleTokenIsRejected(t *testing.T) {
	c := NewAccounts("accounts")
	stale := c.Begin()
	current := c.Begin()
	require.True(t, c.IsLoading())

	err := c.LoadToken(context.Background(), stale, fetchOf(account("100", "1")))
	require.ErrorIs(t, err, ErrSuperseded)
	require.Empty(t, c.Snapshot())
	require.True(t, c.IsLoading())

	require.NoError(t, c.LoadToken(context.Background(), current, fetchOf(account("200", "2"))))
	require.Len(t, c.Snapshot(), 1)
	require.False(t, c.IsLoading())
}

func TestResetDiscardsInFlightLoad(t *testing.T) {
	c := NewAccounts("accounts")
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- c.Load(context.Background(), gatedFetch(release, started, []models.Account{account("A", 1)}, nil))
	}()
	<-started
	c.Reset()
	close(release)
	require.ErrorIs(t, <-done, ErrSuperseded)
	require.Empty(t, c.Snapshot())
}

func TestObserveReplaysLatestToLateSubscriber(t *testing.T) {
	c := NewAccounts("accounts")
	require.NoError(t, c.Load(context.Background(), fetchOf(account("1001", 1))))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stream := c.Observe(ctx)
	first := next(t, stream)
	require.Len(t, first, 1)

	c.Append(account("1002", 1))
	second := next(t, stream)
	require.Len(t, second, 2)
}

func TestLoadingIsSeparateSignal(t *testing.T) {
	c := NewAccounts("accounts")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	data := c.Observe(ctx)
	require.Empty(t, next(t, data))
	loading := c.Loading(ctx)
	require.False(t, next(t, loading))

	release := make(chan struct{})
	started := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- c.Load(context.Background(), gatedFetch(release, started, []models.Account{account("1", 1)}, nil))
	}()
	<-started
	require.True(t, next(t, loading))

	select {
	case v := <-data:
		t.Fatalf("data stream emitted during load: %#v", v)
	default:
	}

	close(release)
	require.NoError(t, <-done)
	require.Len(t, next(t, data), 1)
	require.False(t, next(t, loading))
}

func TestFindByOwner(t *testing.T) {
	c := NewAccounts("accounts")
	require.NoError(t, c.Load(context.Background(), fetchOf(account("1001-2023-001", 1))))

	owned := c.Find(func(a models.Account) bool { return models.SameID(a.CustomerID, 1) })
	require.Len(t, owned, 1)
	require.Equal(t, "1001-2023-001", owned[0].Number)

	none := c.Find(func(a models.Account) bool { return models.SameID(a.CustomerID, 2) })
	require.NotNil(t, none)
	require.Empty(t, none)
}

func TestReplaceMatchesNaturalKeyIgnoringCase(t *testing.T) {
	c := NewAccounts("accounts")
	require.NoError(t, c.Load(context.Background(), fetchOf(account("ABC-1", 1), account("ABC-2", 1))))

	updated := account("ABC-1", 1)
	updated.Active = false
	require.True(t, c.Replace("abc-1", updated))

	snap := c.Snapshot()
	require.Len(t, snap, 2)
	require.False(t, snap[0].Active)
}

func TestReplaceMissingKeyLeavesCacheUnchanged(t *testing.T) {
	c := NewAccounts("accounts")
	require.NoError(t, c.Load(context.Background(), fetchOf(account("1001", 1))))
	before := c.Snapshot()

	require.False(t, c.Replace("9999", account("9999", 1)))
	require.Equal(t, before, c.Snapshot())
}

func TestRemove(t *testing.T) {
	c := NewAccounts("accounts")
	require.NoError(t, c.Load(context.Background(), fetchOf(account("1001", 1), account("1002", 1))))

	require.True(t, c.Remove("1001"))
	_, ok := c.Get("1001")
	require.False(t, ok)
	require.Equal(t, 1, c.Len())
	require.False(t, c.Remove("1001"))
}

func TestSnapshotIsACopy(t *testing.T) {
	c := NewAccounts("accounts")
	require.NoError(t, c.Load(context.Background(), fetchOf(account("1001", 1))))
	snap := c.Snapshot()
	snap[0].Number = "tampered"
	require.Equal(t, "1001", c.Snapshot()[0].Number)
}

func TestResolveIsTypeCoercive(t *testing.T) {
	customers := NewCustomers("customers")
	require.NoError(t, customers.Load(context.Background(), fetchOf(
		models.Customer{ID: models.IDOf(7), Name: "Jose Lema"},
	)))

	found, ok := Resolve(customers, "7", CustomerID)
	require.True(t, ok)
	require.Equal(t, "Jose Lema", found.Name)

	_, ok = Resolve(customers, 8, CustomerID)
	require.False(t, ok)
	require.Equal(t, UnknownLabel, CustomerName(customers, "8"))
	require.Equal(t, "Jose Lema", CustomerName(customers, 7))
}

func TestAccountByNumber(t *testing.T) {
	accounts := NewAccounts("accounts")
	a := account("abc-9", 1)
	a.ID = "42"
	require.NoError(t, accounts.Load(context.Background(), fetchOf(a)))

	got, ok := AccountByNumber(accounts, "ABC-9")
	require.True(t, ok)
	require.Equal(t, "abc-9", got.Number)

	got, ok = AccountByNumber(accounts, 42)
	require.True(t, ok)
	require.Equal(t, "abc-9", got.Number)

	_, ok = AccountByNumber(accounts, "nope")
	require.False(t, ok)
}
