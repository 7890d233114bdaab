package backoffice

import (
	"context"
	"sync"

	"backoffice/internal/models"
)

// Broadcaster receives every published snapshot under its topic name.
type Broadcaster interface {
	Broadcast(topic string, v any)
}

// Stream forwards collection snapshots, loading flags and selection changes
// to b until ctx ends. Each topic starts with its current value.
func (w *Workspace) Stream(ctx context.Context, b Broadcaster) *sync.WaitGroup {
	var wg sync.WaitGroup
	start := func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}
	start(func() {
		for customers := range w.customers.Observe(ctx) {
			b.Broadcast(TopicCustomers, withoutPasswords(customers))
		}
	})
	start(func() { pump(b, TopicAccounts, w.accounts.Observe(ctx)) })
	start(func() { pump(b, TopicCustomerAccounts, w.customerAccounts.Observe(ctx)) })
	start(func() { pump(b, TopicMovements, w.customerMovements.Observe(ctx)) })
	start(func() { pump(b, TopicAccountMovements, w.accountMovements.Observe(ctx)) })

	for _, loading := range []<-chan bool{
		w.customers.Loading(ctx),
		w.accounts.Loading(ctx),
		w.customerAccounts.Loading(ctx),
		w.customerMovements.Loading(ctx),
		w.accountMovements.Loading(ctx),
	} {
		start(func() {
			for range loading {
				b.Broadcast(TopicLoading, w.LoadingStatus())
			}
		})
	}

	byCustomer := w.byCustomer.States(ctx)
	movements := w.movements.States(ctx)
	byAccount := w.byAccount.States(ctx)
	start(func() {
		for byCustomer != nil || movements != nil || byAccount != nil {
			select {
			case _, ok := <-byCustomer:
				if !ok {
					byCustomer = nil
					continue
				}
			case _, ok := <-movements:
				if !ok {
					movements = nil
					continue
				}
			case _, ok := <-byAccount:
				if !ok {
					byAccount = nil
					continue
				}
			}
			b.Broadcast(TopicSelection, w.Selection())
		}
	})
	return &wg
}

func withoutPasswords(customers []models.Customer) []models.Customer {
	out := make([]models.Customer, len(customers))
	for i, c := range customers {
		c.Password = ""
		out[i] = c
	}
	return out
}

func pump[T any](b Broadcaster, topic string, ch <-chan T) {
	for v := range ch {
		b.Broadcast(topic, v)
	}
}
