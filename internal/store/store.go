// Package store holds the process-wide order registry. It is the single
// source of truth for order existence and status; nothing outside this
// package mutates an Order except through UpdateStatus.
package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dokimion24/payment/internal/domain"
)

type Store struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex
}

func New() *Store {
	return &Store{
		orders: make(map[string]*domain.Order),
		locks:  make(map[string]*sync.Mutex),
	}
}

// Create assigns a fresh id, sets status PENDING and the creation time, and
// inserts the order. Whatever the caller put in OrderID/Status/CreatedAt is
// overwritten.
func (s *Store) Create(o domain.Order) domain.Order {
	o.OrderID = "order_" + uuid.NewString()
	o.Status = domain.OrderPending
	o.CreatedAt = time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()
	cp := o
	s.orders[o.OrderID] = &cp
	return o
}

// Get returns a snapshot of the order. Mutating the returned value does not
// touch the stored record.
func (s *Store) Get(id string) (domain.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return domain.Order{}, false
	}
	return *o, true
}

// UpdateStatus is a raw setter: it does not check transition legality.
// Callers confirming a payment must hold the order's confirmation lock and
// check the current status first.
func (s *Store) UpdateStatus(id string, status domain.OrderStatus) (domain.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return domain.Order{}, false
	}
	o.Status = status
	return *o, true
}

// Lock acquires the confirmation lock for an order id and returns the
// release func. The whole check-status / capture / update sequence of a
// confirmation must run under this lock so that concurrent duplicates for
// the same order cannot both observe PENDING.
//
// Lock entries live for the process lifetime, one per id ever locked,
// including ids that never resolve to an order. The store itself never
// evicts orders either, so the lock map grows no faster than confirmation
// traffic.
func (s *Store) Lock(id string) func() {
	s.lockMu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	s.lockMu.Unlock()

	l.Lock()
	return l.Unlock
}
