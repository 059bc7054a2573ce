// Package store provides Repository implementations.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/klinke/planning-engine/planning"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu         sync.RWMutex
	orders     map[string]planning.Order
	config     planning.CapacityConfig
	checklists map[checklistKey]planning.ChecklistEntry
	now        func() time.Time
}

type checklistKey struct {
	OrderID string
	Date    string
}

func NewMemory() *Memory {
	return &Memory{
		orders:     make(map[string]planning.Order),
		config:     planning.DefaultConfig(),
		checklists: make(map[checklistKey]planning.ChecklistEntry),
		now:        time.Now,
	}
}

func (m *Memory) Load(_ context.Context) (*planning.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := planning.EmptySnapshot()
	snap.Config = cloneConfig(m.config)
	for _, order := range m.orders {
		snap.Orders = append(snap.Orders, cloneOrder(order))
	}
	sort.Slice(snap.Orders, func(a, b int) bool {
		return snap.Orders[a].CreatedAt.Before(snap.Orders[b].CreatedAt)
	})
	for _, entry := range m.checklists {
		snap.Checklists = append(snap.Checklists, entry)
	}
	sort.Slice(snap.Checklists, func(a, b int) bool {
		ca, cb := snap.Checklists[a], snap.Checklists[b]
		if ca.OrderID != cb.OrderID {
			return ca.OrderID < cb.OrderID
		}
		return ca.Date < cb.Date
	})
	return snap, nil
}

func (m *Memory) Save(_ context.Context, snap *planning.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.orders = make(map[string]planning.Order, len(snap.Orders))
	for _, order := range snap.Orders {
		m.orders[order.ID] = cloneOrder(order)
	}
	m.config = cloneConfig(snap.Config)
	m.checklists = make(map[checklistKey]planning.ChecklistEntry, len(snap.Checklists))
	for _, entry := range snap.Checklists {
		m.checklists[checklistKey{entry.OrderID, entry.Date}] = entry
	}
	return nil
}

func (m *Memory) ListOrders(_ context.Context) ([]planning.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	orders := make([]planning.Order, 0, len(m.orders))
	for _, order := range m.orders {
		orders = append(orders, cloneOrder(order))
	}
	sort.Slice(orders, func(a, b int) bool {
		if !orders[a].CreatedAt.Equal(orders[b].CreatedAt) {
			return orders[a].CreatedAt.Before(orders[b].CreatedAt)
		}
		return orders[a].ID < orders[b].ID
	})
	return orders, nil
}

func (m *Memory) GetOrder(_ context.Context, id string) (*planning.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	order, ok := m.orders[id]
	if !ok {
		return nil, &planning.OrderNotFoundError{ID: id}
	}
	clone := cloneOrder(order)
	return &clone, nil
}

func (m *Memory) SaveOrder(_ context.Context, order planning.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now().UTC()
	if existing, ok := m.orders[order.ID]; ok {
		order.CreatedAt = existing.CreatedAt
	} else if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now
	m.orders[order.ID] = cloneOrder(order)
	return nil
}

func (m *Memory) DeleteOrder(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.orders[id]; !ok {
		return &planning.OrderNotFoundError{ID: id}
	}
	delete(m.orders, id)
	for key := range m.checklists {
		if key.OrderID == id {
			delete(m.checklists, key)
		}
	}
	return nil
}

func (m *Memory) GetConfig(_ context.Context) (planning.CapacityConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneConfig(m.config), nil
}

func (m *Memory) SaveConfig(_ context.Context, config planning.CapacityConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.config = cloneConfig(config)
	return nil
}

func (m *Memory) UpsertChecklist(_ context.Context, entry planning.ChecklistEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.orders[entry.OrderID]; !ok {
		return &planning.OrderNotFoundError{ID: entry.OrderID}
	}
	m.checklists[checklistKey{entry.OrderID, entry.Date}] = entry
	return nil
}

func (m *Memory) GetChecklist(_ context.Context, orderID, date string) (*planning.ChecklistEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.checklists[checklistKey{orderID, date}]
	if !ok {
		return nil, planning.ErrChecklistNotFound
	}
	return &entry, nil
}

func (m *Memory) ListChecklistsByDate(_ context.Context, date string) ([]planning.ChecklistEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var entries []planning.ChecklistEntry
	for key, entry := range m.checklists {
		if key.Date == date {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(a, b int) bool {
		return entries[a].OrderID < entries[b].OrderID
	})
	return entries, nil
}

// Compile-time check that Memory implements planning.Repository.
var _ planning.Repository = (*Memory)(nil)

func cloneOrder(order planning.Order) planning.Order {
	order.Allocations = order.Allocations.Clone()
	return order
}

func cloneConfig(config planning.CapacityConfig) planning.CapacityConfig {
	overrides := make(map[string]planning.CapacityPair, len(config.Overrides))
	for date, pair := range config.Overrides {
		overrides[date] = pair
	}
	config.Overrides = overrides
	return config
}
