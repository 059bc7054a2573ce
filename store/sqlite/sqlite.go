/*
Package sqlite provides a SQLite-backed implementation of the planning
repository.

PURPOSE:
  Persists the planning snapshot (orders, capacity configuration,
  checklists) in a local SQLite file. The planner is single-user local
  tooling, so SQLite's single-writer model is a fit; the same schema
  would port to PostgreSQL with minor dialect changes.

KEY TABLES:
  orders:             One row per order; the allocation map is stored
                      as a JSON object of date -> quantity
  capacity_defaults:  Single row with the default daily capacity pair
  capacity_overrides: One row per overridden date
  checklists:         (order_id, date) primary key, cascades on order
                      deletion

DEFAULTING:
  Load and GetConfig fall back to the documented defaults (100/100, no
  overrides) when the configuration row is missing; a fresh database
  behaves exactly like the empty snapshot.

WAL MODE:
  The database is opened with WAL and foreign keys enabled; checklist
  cascade deletion relies on the foreign key pragma.

SEE ALSO:
  - planning/store.go: Interface definition and contract
  - planning/store/memory.go: In-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/klinke/planning-engine/planning"
)

// Store implements planning.Repository using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		number TEXT NOT NULL,
		product TEXT NOT NULL DEFAULT '',
		family TEXT NOT NULL,
		finish TEXT NOT NULL DEFAULT '',
		quantity INTEGER NOT NULL,
		status TEXT NOT NULL,
		deadline TEXT NOT NULL DEFAULT '',
		cut_only BOOLEAN NOT NULL DEFAULT FALSE,
		allocations_json TEXT NOT NULL DEFAULT '{}',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);
	CREATE INDEX IF NOT EXISTS idx_orders_deadline ON orders(deadline);

	CREATE TABLE IF NOT EXISTS capacity_defaults (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		torre INTEGER NOT NULL,
		puxador INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS capacity_overrides (
		date TEXT PRIMARY KEY,
		torre INTEGER NOT NULL,
		puxador INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS checklists (
		order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		date TEXT NOT NULL,
		weld_cap BOOLEAN NOT NULL DEFAULT FALSE,
		assembly BOOLEAN NOT NULL DEFAULT FALSE,
		PRIMARY KEY (order_id, date)
	);

	CREATE INDEX IF NOT EXISTS idx_checklists_date ON checklists(date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// SNAPSHOT (planning.Repository Load/Save)
// =============================================================================

// Load returns the full snapshot. A fresh database yields the
// documented empty snapshot rather than an error.
func (s *Store) Load(ctx context.Context) (*planning.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := planning.EmptySnapshot()

	orders, err := s.listOrders(ctx)
	if err != nil {
		return nil, err
	}
	snap.Orders = orders

	config, err := s.getConfig(ctx)
	if err != nil {
		return nil, err
	}
	snap.Config = config

	rows, err := s.db.QueryContext(ctx,
		"SELECT order_id, date, weld_cap, assembly FROM checklists ORDER BY order_id, date")
	if err != nil {
		return nil, fmt.Errorf("failed to query checklists: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry planning.ChecklistEntry
		if err := rows.Scan(&entry.OrderID, &entry.Date, &entry.WeldCap, &entry.Assembly); err != nil {
			return nil, err
		}
		snap.Checklists = append(snap.Checklists, entry)
	}
	return snap, rows.Err()
}

// Save replaces the whole persisted dataset in one transaction.
func (s *Store) Save(ctx context.Context, snap *planning.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"checklists", "orders", "capacity_overrides", "capacity_defaults"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}

	for _, order := range snap.Orders {
		if err := upsertOrder(ctx, tx, order, false); err != nil {
			return err
		}
	}
	if err := writeConfig(ctx, tx, snap.Config); err != nil {
		return err
	}
	for _, entry := range snap.Checklists {
		if err := upsertChecklist(ctx, tx, entry); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// =============================================================================
// ORDERS
// =============================================================================

const orderColumns = `id, number, product, family, finish, quantity, status,
	deadline, cut_only, allocations_json, created_at, updated_at`

// ListOrders returns all orders, oldest first.
func (s *Store) ListOrders(ctx context.Context) ([]planning.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listOrders(ctx)
}

func (s *Store) listOrders(ctx context.Context) ([]planning.Order, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+orderColumns+" FROM orders ORDER BY created_at ASC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []planning.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// GetOrder returns one order by ID.
func (s *Store) GetOrder(ctx context.Context, id string) (*planning.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to query order: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, &planning.OrderNotFoundError{ID: id}
	}
	order, err := scanOrder(rows)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// SaveOrder inserts or updates an order. UpdatedAt is refreshed;
// CreatedAt is preserved on update.
func (s *Store) SaveOrder(ctx context.Context, order planning.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return upsertOrder(ctx, s.db, order, true)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertOrder(ctx context.Context, db execer, order planning.Order, refresh bool) error {
	allocationsJSON, err := json.Marshal(order.Allocations)
	if err != nil {
		return fmt.Errorf("failed to encode allocations: %w", err)
	}

	now := time.Now().UTC()
	createdAt := order.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	updatedAt := order.UpdatedAt
	if refresh || updatedAt.IsZero() {
		updatedAt = now
	}

	query := `
		INSERT INTO orders (id, number, product, family, finish, quantity, status,
			deadline, cut_only, allocations_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			number = excluded.number,
			product = excluded.product,
			family = excluded.family,
			finish = excluded.finish,
			quantity = excluded.quantity,
			status = excluded.status,
			deadline = excluded.deadline,
			cut_only = excluded.cut_only,
			allocations_json = excluded.allocations_json,
			updated_at = excluded.updated_at
	`

	_, err = db.ExecContext(ctx, query,
		order.ID, order.Number, order.Product, order.Family, order.Finish,
		order.Quantity, order.Status, order.Deadline, order.CutOnly,
		string(allocationsJSON),
		createdAt.Format(time.RFC3339), updatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}
	return nil
}

// DeleteOrder removes an order; its checklist entries cascade.
func (s *Store) DeleteOrder(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM orders WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &planning.OrderNotFoundError{ID: id}
	}
	return nil
}

func scanOrder(rows *sql.Rows) (planning.Order, error) {
	var (
		order           planning.Order
		allocationsJSON string
		createdAt       string
		updatedAt       string
	)

	err := rows.Scan(
		&order.ID, &order.Number, &order.Product, &order.Family, &order.Finish,
		&order.Quantity, &order.Status, &order.Deadline, &order.CutOnly,
		&allocationsJSON, &createdAt, &updatedAt,
	)
	if err != nil {
		return order, fmt.Errorf("failed to scan order: %w", err)
	}

	order.Allocations = planning.Allocation{}
	if allocationsJSON != "" {
		if err := json.Unmarshal([]byte(allocationsJSON), &order.Allocations); err != nil {
			return order, fmt.Errorf("failed to decode allocations: %w", err)
		}
	}
	order.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	order.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return order, nil
}

// =============================================================================
// CAPACITY CONFIGURATION
// =============================================================================

// GetConfig returns the capacity configuration, defaulting to 100/100
// with no overrides when none was persisted.
func (s *Store) GetConfig(ctx context.Context) (planning.CapacityConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getConfig(ctx)
}

func (s *Store) getConfig(ctx context.Context) (planning.CapacityConfig, error) {
	config := planning.DefaultConfig()

	var torre, puxador int
	err := s.db.QueryRowContext(ctx,
		"SELECT torre, puxador FROM capacity_defaults WHERE id = 1").Scan(&torre, &puxador)
	switch {
	case err == sql.ErrNoRows:
		// Fresh database: keep the documented defaults.
	case err != nil:
		return config, fmt.Errorf("failed to read capacity defaults: %w", err)
	default:
		config.Default = planning.CapacityPair{Torre: torre, Puxador: puxador}
	}

	rows, err := s.db.QueryContext(ctx, "SELECT date, torre, puxador FROM capacity_overrides")
	if err != nil {
		return config, fmt.Errorf("failed to read capacity overrides: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var date string
		var pair planning.CapacityPair
		if err := rows.Scan(&date, &pair.Torre, &pair.Puxador); err != nil {
			return config, err
		}
		config.Overrides[date] = pair
	}
	return config, rows.Err()
}

// SaveConfig replaces the capacity configuration.
func (s *Store) SaveConfig(ctx context.Context, config planning.CapacityConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := writeConfig(ctx, tx, config); err != nil {
		return err
	}
	return tx.Commit()
}

func writeConfig(ctx context.Context, db execer, config planning.CapacityConfig) error {
	query := `
		INSERT INTO capacity_defaults (id, torre, puxador) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			torre = excluded.torre,
			puxador = excluded.puxador
	`
	if _, err := db.ExecContext(ctx, query, config.Default.Torre, config.Default.Puxador); err != nil {
		return fmt.Errorf("failed to save capacity defaults: %w", err)
	}

	if _, err := db.ExecContext(ctx, "DELETE FROM capacity_overrides"); err != nil {
		return err
	}
	for date, pair := range config.Overrides {
		if _, err := db.ExecContext(ctx,
			"INSERT INTO capacity_overrides (date, torre, puxador) VALUES (?, ?, ?)",
			date, pair.Torre, pair.Puxador); err != nil {
			return fmt.Errorf("failed to save capacity override: %w", err)
		}
	}
	return nil
}

// =============================================================================
// CHECKLISTS
// =============================================================================

// UpsertChecklist creates or overwrites the entry for the entry's
// (OrderID, Date) pair.
func (s *Store) UpsertChecklist(ctx context.Context, entry planning.ChecklistEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return upsertChecklist(ctx, s.db, entry)
}

func upsertChecklist(ctx context.Context, db execer, entry planning.ChecklistEntry) error {
	query := `
		INSERT INTO checklists (order_id, date, weld_cap, assembly)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(order_id, date) DO UPDATE SET
			weld_cap = excluded.weld_cap,
			assembly = excluded.assembly
	`
	_, err := db.ExecContext(ctx, query, entry.OrderID, entry.Date, entry.WeldCap, entry.Assembly)
	if err != nil {
		if isForeignKeyError(err) {
			return &planning.OrderNotFoundError{ID: entry.OrderID}
		}
		return fmt.Errorf("failed to save checklist entry: %w", err)
	}
	return nil
}

// GetChecklist returns the entry for (orderID, date).
func (s *Store) GetChecklist(ctx context.Context, orderID, date string) (*planning.ChecklistEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry := planning.ChecklistEntry{OrderID: orderID, Date: date}
	err := s.db.QueryRowContext(ctx,
		"SELECT weld_cap, assembly FROM checklists WHERE order_id = ? AND date = ?",
		orderID, date).Scan(&entry.WeldCap, &entry.Assembly)
	if err == sql.ErrNoRows {
		return nil, planning.ErrChecklistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read checklist entry: %w", err)
	}
	return &entry, nil
}

// ListChecklistsByDate returns all entries for one production day.
func (s *Store) ListChecklistsByDate(ctx context.Context, date string) ([]planning.ChecklistEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT order_id, date, weld_cap, assembly FROM checklists WHERE date = ? ORDER BY order_id",
		date)
	if err != nil {
		return nil, fmt.Errorf("failed to query checklists: %w", err)
	}
	defer rows.Close()

	var entries []planning.ChecklistEntry
	for rows.Next() {
		var entry planning.ChecklistEntry
		if err := rows.Scan(&entry.OrderID, &entry.Date, &entry.WeldCap, &entry.Assembly); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Compile-time check that Store implements planning.Repository.
var _ planning.Repository = (*Store)(nil)

func isForeignKeyError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
