// Package backoffice assembles the entity caches, dependent reloaders and
// mutation services for one operator session.
package backoffice

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"backoffice/internal/logging"
	"backoffice/internal/models"
	"backoffice/internal/reloader"
	"backoffice/internal/services"
	"backoffice/internal/store"
)

// Topic names for the observable collections.
const (
	TopicCustomers        = "customers"
	TopicAccounts         = "accounts"
	TopicCustomerAccounts = "customer-accounts"
	TopicMovements        = "movements"
	TopicAccountMovements = "account-movements"
	TopicSelection        = "selection"
	TopicLoading          = "loading"
)

var ErrUnknownAccount = errors.New("account is not owned by the selected customer")

type AccountGateway interface {
	services.AccountGateway
	ListByCustomer(ctx context.Context, customerID models.ID) ([]models.Account, error)
}

type MovementGateway interface {
	services.MovementGateway
	ListByCustomer(ctx context.Context, filter models.MovementFilter) ([]models.Movement, error)
	ListByAccount(ctx context.Context, number string) ([]models.Movement, error)
}

type Gateways struct {
	Customers services.CustomerGateway
	Accounts  AccountGateway
	Movements MovementGateway
	Reports   services.ReportGateway
}

type Workspace struct {
	Customers *services.CustomerService
	Accounts  *services.AccountService
	Movements *services.MovementService
	Reports   *services.ReportService

	customers         *store.Collection[models.Customer]
	accounts          *store.Collection[models.Account]
	customerAccounts  *store.Collection[models.Account]
	customerMovements *store.Collection[models.Movement]
	accountMovements  *store.Collection[models.Movement]

	byCustomer *reloader.Reloader[models.ID, models.Account]
	movements  *reloader.Reloader[models.MovementFilter, models.Movement]
	byAccount  *reloader.Reloader[string, models.Movement]

	selectMu sync.Mutex
}

func New(gw Gateways, audit services.AuditLog) *Workspace {
	w := &Workspace{
		customers:         store.NewCustomers(TopicCustomers),
		accounts:          store.NewAccounts(TopicAccounts),
		customerAccounts:  store.NewAccounts(TopicCustomerAccounts),
		customerMovements: store.NewMovements(TopicMovements),
		accountMovements:  store.NewMovements(TopicAccountMovements),
	}

	w.byCustomer = reloader.New(TopicCustomerAccounts, w.customerAccounts, gw.Accounts.ListByCustomer, models.ID.IsZero)
	w.movements = reloader.New(TopicMovements, w.customerMovements, gw.Movements.ListByCustomer, models.MovementFilter.IsZero)
	w.byAccount = reloader.New(TopicAccountMovements, w.accountMovements, gw.Movements.ListByAccount, func(number string) bool {
		return strings.TrimSpace(number) == ""
	})

	w.Customers = services.NewCustomerService(gw.Customers, w.customers, audit)
	w.Customers.OnDelete(w.customerDeleted)
	w.Accounts = services.NewAccountService(gw.Accounts, w.accounts, audit,
		services.View[models.Account]{Collection: w.customerAccounts, Includes: w.ownedBySelection},
	)
	w.Movements = services.NewMovementService(gw.Movements, w.Accounts, audit,
		services.View[models.Movement]{Collection: w.customerMovements, Includes: w.inCustomerScope},
		services.View[models.Movement]{Collection: w.accountMovements, Includes: w.inAccountScope},
	)
	w.Reports = services.NewReportService(gw.Reports, w.customers)
	return w
}

// LoadAll fetches the top-level collections concurrently.
func (w *Workspace) LoadAll(ctx context.Context) error {
	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		errs[0] = w.Customers.Reload(ctx)
	}()
	go func() {
		defer wg.Done()
		errs[1] = w.Accounts.Reload(ctx)
	}()
	wg.Wait()
	return errors.Join(errs...)
}

func (w *Workspace) CustomerCollection() *store.Collection[models.Customer] { return w.customers }

func (w *Workspace) AccountCollection() *store.Collection[models.Account] { return w.accounts }

func (w *Workspace) CustomerAccounts() *store.Collection[models.Account] { return w.customerAccounts }

func (w *Workspace) CustomerMovements() *store.Collection[models.Movement] { return w.customerMovements }

func (w *Workspace) AccountMovements() *store.Collection[models.Movement] { return w.accountMovements }

// CustomerName resolves a customer id against the cache for display.
func (w *Workspace) CustomerName(id any) string {
	return store.CustomerName(w.customers, id)
}

// SelectCustomer scopes the customer accounts and movements to id and the
// optional date range. Any account selection is dropped.
func (w *Workspace) SelectCustomer(ctx context.Context, id models.ID, from, to *time.Time) error {
	if from != nil && to != nil && from.After(*to) {
		return services.ErrInvalidRange
	}
	w.selectMu.Lock()
	w.byAccount.Clear()
	loadAccounts := w.byCustomer.Begin(id)
	loadMovements := w.movements.Begin(models.MovementFilter{CustomerID: id, From: from, To: to})
	w.selectMu.Unlock()

	logging.FromContext(ctx).Debug("customer selected", "customer_id", id)
	return runAll(ctx, loadAccounts, loadMovements)
}

// runAll runs the loads concurrently and joins their errors.
func runAll(ctx context.Context, loads ...func(context.Context) error) error {
	var wg sync.WaitGroup
	errs := make([]error, len(loads))
	for i, load := range loads {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = load(ctx)
		}()
	}
	wg.Wait()
	return errors.Join(errs...)
}

func (w *Workspace) ClearCustomer() {
	w.selectMu.Lock()
	defer w.selectMu.Unlock()
	w.byAccount.Clear()
	w.byCustomer.Clear()
	w.movements.Clear()
}

// SelectAccount scopes the account movements. With a customer selected the
// account must belong to that customer's cached accounts.
func (w *Workspace) SelectAccount(ctx context.Context, number string) error {
	number = strings.TrimSpace(number)
	w.selectMu.Lock()
	if number != "" {
		if _, ok := w.byCustomer.Selected(); ok {
			account, found := store.AccountByNumber(w.customerAccounts, number)
			if !found {
				w.selectMu.Unlock()
				return ErrUnknownAccount
			}
			number = account.Number
		}
	}
	load := w.byAccount.Begin(number)
	w.selectMu.Unlock()
	return load(ctx)
}

func (w *Workspace) ClearAccount() {
	w.selectMu.Lock()
	defer w.selectMu.Unlock()
	w.byAccount.Clear()
}

// RefreshSelection reloads every dependent collection for the current
// selection.
func (w *Workspace) RefreshSelection(ctx context.Context) error {
	w.selectMu.Lock()
	loads := []func(context.Context) error{
		w.byCustomer.BeginRefresh(),
		w.movements.BeginRefresh(),
		w.byAccount.BeginRefresh(),
	}
	w.selectMu.Unlock()
	return runAll(ctx, loads...)
}

// LoadingStatus reports which collections have a fetch in flight, keyed by
// topic.
func (w *Workspace) LoadingStatus() map[string]bool {
	return map[string]bool{
		w.customers.Name():         w.customers.IsLoading(),
		w.accounts.Name():          w.accounts.IsLoading(),
		w.customerAccounts.Name():  w.customerAccounts.IsLoading(),
		w.customerMovements.Name(): w.customerMovements.IsLoading(),
		w.accountMovements.Name():  w.accountMovements.IsLoading(),
	}
}

// MovementsForSelectedAccount filters the customer movements locally by the
// selected account.
func (w *Workspace) MovementsForSelectedAccount() []models.Movement {
	account, ok := w.selectedAccount()
	if !ok {
		return w.customerMovements.Snapshot()
	}
	return services.MovementsForAccount(w.customerMovements, account)
}

type Selection struct {
	CustomerID       models.ID      `json:"customer_id,omitempty"`
	CustomerName     string         `json:"customer_name,omitempty"`
	From             *time.Time     `json:"from,omitempty"`
	To               *time.Time     `json:"to,omitempty"`
	AccountNumber    string         `json:"account_number,omitempty"`
	CustomerAccounts reloader.State `json:"customer_accounts"`
	Movements        reloader.State `json:"movements"`
	AccountMovements reloader.State `json:"account_movements"`
}

func (w *Workspace) Selection() Selection {
	s := Selection{
		CustomerAccounts: w.byCustomer.State(),
		Movements:        w.movements.State(),
		AccountMovements: w.byAccount.State(),
	}
	if id, ok := w.byCustomer.Selected(); ok {
		s.CustomerID = id
		s.CustomerName = w.CustomerName(id)
	}
	if filter, ok := w.movements.Selected(); ok {
		s.From, s.To = filter.From, filter.To
	}
	if number, ok := w.byAccount.Selected(); ok {
		s.AccountNumber = number
	}
	return s
}

func (w *Workspace) customerDeleted(id models.ID) {
	if selected, ok := w.byCustomer.Selected(); ok && models.SameID(selected, id) {
		w.ClearCustomer()
	}
}

func (w *Workspace) ownedBySelection(a models.Account) bool {
	selected, ok := w.byCustomer.Selected()
	return ok && models.SameID(a.CustomerID, selected)
}

func (w *Workspace) inCustomerScope(m models.Movement) bool {
	filter, ok := w.movements.Selected()
	if !ok {
		return false
	}
	if _, owned := store.AccountByNumber(w.customerAccounts, m.AccountRef); !owned {
		return false
	}
	return withinRange(m.Timestamp, filter.From, filter.To)
}

func (w *Workspace) inAccountScope(m models.Movement) bool {
	account, ok := w.selectedAccount()
	return ok && services.MovementOf(m, account)
}

func (w *Workspace) selectedAccount() (models.Account, bool) {
	number, ok := w.byAccount.Selected()
	if !ok {
		return models.Account{}, false
	}
	if account, found := store.AccountByNumber(w.customerAccounts, number); found {
		return account, true
	}
	if account, found := store.AccountByNumber(w.accounts, number); found {
		return account, true
	}
	return models.Account{Number: number}, true
}

// withinRange compares whole days; a zero timestamp is always in range.
func withinRange(ts time.Time, from, to *time.Time) bool {
	if ts.IsZero() {
		return true
	}
	day := ts.Format(time.DateOnly)
	if from != nil && !from.IsZero() && day < from.Format(time.DateOnly) {
		return false
	}
	if to != nil && !to.IsZero() && day > to.Format(time.DateOnly) {
		return false
	}
	return true
}
