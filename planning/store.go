/*
store.go - Persistence interface for the planning dataset

PURPOSE:
  Defines the boundary between the pure planning engine and storage.
  The whole dataset (orders, capacity configuration, checklists) is one
  atomic snapshot; Load/Save move it wholesale, while the finer-grained
  methods cover the day-to-day edits the presentation layer performs.

DEFAULTING CONTRACT:
  Load never surfaces "nothing there yet" as an error: when no snapshot
  was ever persisted, or the stored one cannot be read, it returns the
  empty snapshot (default capacity 100/100 for both families, no
  overrides, no orders, no checklist entries).

CHECKLIST LIFECYCLE:
  Entries are keyed by (order ID, date). UpsertChecklist creates the
  entry on the first toggle and overwrites it afterwards. Deleting an
  order deletes its entries.

IMPLEMENTATIONS:
  - store/sqlite: Production SQLite store
  - planning/store: In-memory store for tests and dev
*/
package planning

import "context"

// Repository persists the planning dataset.
type Repository interface {
	// Load returns the full snapshot, defaulting to EmptySnapshot when
	// nothing usable was persisted.
	Load(ctx context.Context) (*Snapshot, error)

	// Save replaces the persisted snapshot atomically.
	Save(ctx context.Context, snap *Snapshot) error

	// ListOrders returns all orders, ascending by creation time.
	ListOrders(ctx context.Context) ([]Order, error)

	// GetOrder returns one order, or ErrOrderNotFound.
	GetOrder(ctx context.Context, id string) (*Order, error)

	// SaveOrder inserts or updates an order and refreshes UpdatedAt.
	SaveOrder(ctx context.Context, order Order) error

	// DeleteOrder removes an order and cascades to its checklist
	// entries. Returns ErrOrderNotFound when absent.
	DeleteOrder(ctx context.Context, id string) error

	// GetConfig returns the capacity configuration, defaulting when
	// none was persisted.
	GetConfig(ctx context.Context) (CapacityConfig, error)

	// SaveConfig replaces the capacity configuration.
	SaveConfig(ctx context.Context, config CapacityConfig) error

	// UpsertChecklist creates or overwrites the entry for the entry's
	// (OrderID, Date) pair.
	UpsertChecklist(ctx context.Context, entry ChecklistEntry) error

	// GetChecklist returns the entry for (orderID, date), or
	// ErrChecklistNotFound.
	GetChecklist(ctx context.Context, orderID, date string) (*ChecklistEntry, error)

	// ListChecklistsByDate returns all entries for one production day.
	ListChecklistsByDate(ctx context.Context, date string) ([]ChecklistEntry, error)
}
