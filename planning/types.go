/*
Package planning provides the core production capacity planning engine.

PURPOSE:
  This package contains the domain types and algorithms for spreading
  order quantities across future business days. Two product families
  (towers and pulls) share the calendar but draw from independent daily
  capacity pools. The engine distributes quantities, aggregates
  occupancy, forecasts completion dates, and builds the day-by-day
  production report.

KEY CONCEPTS IN THIS FILE (types.go):
  - Order: A production order with its per-day allocation map
  - Allocation: Business-day date -> quantity produced that day
  - CapacityConfig: Default daily capacity plus sparse per-date overrides
  - ChecklistEntry: Per (order, day) production step flags
  - Snapshot: The full persisted dataset, one atomic unit

DESIGN PRINCIPLES:
  1. Purity: Engine functions never mutate their inputs; callers merge
     the returned maps and warnings.
  2. Canonical dates: Every date key is a YYYY-MM-DD string, so
     lexicographic order equals chronological order. Functions that
     compare or sort dates rely on this invariant.
  3. Warnings over errors: Saturation and partial allocation are
     reported as human-readable warnings, never as failures.

SEE ALSO:
  - calendar.go: Business-day arithmetic and the Date value type
  - allocate.go: The allocation engine
  - occupancy.go: Per-day committed quantity aggregation
  - report.go: Day-by-day production report with urgency ordering
*/
package planning

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// FAMILIES, FINISHES, STATUSES
// =============================================================================

// Family is one of the two independently capacity-constrained product
// categories.
type Family string

const (
	FamilyTorre   Family = "Torre"
	FamilyPuxador Family = "Puxador"
)

// Valid reports whether the family is one of the two known categories.
func (f Family) Valid() bool {
	return f == FamilyTorre || f == FamilyPuxador
}

// Finish is a cosmetic attribute. It never affects capacity.
type Finish string

const (
	FinishPolished Finish = "Polido"
	FinishPainted  Finish = "Pintura"
	FinishBrushed  Finish = "Escovado"
)

// Status is the fulfillment state of an order. Delivered orders are
// historical: they no longer occupy capacity and never appear in
// reports.
type Status string

const (
	StatusNotStarted Status = "Não iniciado"
	StatusInProgress Status = "Em andamento"
	StatusCompleted  Status = "Concluído"
	StatusSkipped    Status = "Pulado"
	StatusDelivered  Status = "Entregue"
)

// Valid reports whether the status is one of the known states.
func (s Status) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted, StatusSkipped, StatusDelivered:
		return true
	}
	return false
}

// =============================================================================
// ORDER
// =============================================================================

// Allocation maps a business-day date key (YYYY-MM-DD) to the quantity
// assigned to that day. Values sum to the order quantity unless the
// allocation was cut short by the safety horizon.
type Allocation map[string]int

// Total returns the sum of all allocated quantities.
func (a Allocation) Total() int {
	total := 0
	for _, qty := range a {
		total += qty
	}
	return total
}

// LatestDate returns the chronologically last date key, or "" for an
// empty map. Relies on the canonical YYYY-MM-DD key invariant.
func (a Allocation) LatestDate() string {
	latest := ""
	for date := range a {
		if date > latest {
			latest = date
		}
	}
	return latest
}

// Clone returns an independent copy of the allocation map.
func (a Allocation) Clone() Allocation {
	out := make(Allocation, len(a))
	for date, qty := range a {
		out[date] = qty
	}
	return out
}

// Order is a production order. CutOnly orders consume no daily capacity
// and are never allocated.
type Order struct {
	ID          string
	Number      string
	Product     string
	Family      Family
	Finish      Finish
	Quantity    int
	Status      Status
	Deadline    string // YYYY-MM-DD
	CutOnly     bool
	Allocations Allocation
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Occupies reports whether the order still holds capacity. Delivered
// orders are historical.
func (o *Order) Occupies() bool {
	return o.Status != StatusDelivered
}

// =============================================================================
// CAPACITY CONFIGURATION
// =============================================================================

// DefaultDailyCapacity is used for both families when no configuration
// was ever persisted.
const DefaultDailyCapacity = 100

// CapacityPair holds one daily capacity value per family.
type CapacityPair struct {
	Torre   int
	Puxador int
}

// For returns the capacity for the given family.
func (p CapacityPair) For(f Family) int {
	if f == FamilyPuxador {
		return p.Puxador
	}
	return p.Torre
}

// CapacityConfig is the default daily capacity pair plus a sparse
// per-date override map. An override takes precedence over the default
// for its date, including an explicit zero.
type CapacityConfig struct {
	Default   CapacityPair
	Overrides map[string]CapacityPair
}

// DayCapacity returns the effective capacity for a family on a date.
func (c CapacityConfig) DayCapacity(date string, f Family) int {
	if override, ok := c.Overrides[date]; ok {
		return override.For(f)
	}
	return c.Default.For(f)
}

// DefaultConfig returns the documented fallback configuration.
func DefaultConfig() CapacityConfig {
	return CapacityConfig{
		Default:   CapacityPair{Torre: DefaultDailyCapacity, Puxador: DefaultDailyCapacity},
		Overrides: map[string]CapacityPair{},
	}
}

// =============================================================================
// CHECKLIST
// =============================================================================

// ChecklistEntry tracks two production steps for one order on one day.
// Entries are keyed by (OrderID, Date) and upserted; deleting an order
// deletes its entries.
type ChecklistEntry struct {
	OrderID  string
	Date     string // YYYY-MM-DD
	WeldCap  bool
	Assembly bool
}

// =============================================================================
// SNAPSHOT
// =============================================================================

// Snapshot is the full persisted dataset, loaded and saved as one
// atomic unit.
type Snapshot struct {
	Orders     []Order
	Config     CapacityConfig
	Checklists []ChecklistEntry
}

// EmptySnapshot returns the dataset a fresh install starts from.
func EmptySnapshot() *Snapshot {
	return &Snapshot{
		Orders:     []Order{},
		Config:     DefaultConfig(),
		Checklists: []ChecklistEntry{},
	}
}

// =============================================================================
// ENGINE OUTPUTS
// =============================================================================

// OccupancyDay is the committed quantity per family on one business
// day, with utilization against the day's effective capacity.
type OccupancyDay struct {
	Date               string
	Torre              int
	Puxador            int
	TorreUtilization   decimal.Decimal // percent of effective capacity
	PuxadorUtilization decimal.Decimal
}

// ProductionItem is one order's share of one production day.
type ProductionItem struct {
	OrderID  string
	Number   string
	Product  string
	Quantity int
	Family   Family
	Deadline string
	Status   Status
}

// ProductionDay is one entry of the day-by-day report: a business day
// and its urgency-sorted items. Days with no items carry an empty list.
type ProductionDay struct {
	Date  string
	Items []ProductionItem
}

// Forecast is the predicted outcome of allocating a not-yet-persisted
// order. EstimatedDate is empty when nothing could be allocated.
type Forecast struct {
	EstimatedDate string
	Warnings      []string
	Allocations   Allocation
}

// MonthTotals sums effective daily capacity over a month's business
// days.
type MonthTotals struct {
	Torre        int
	Puxador      int
	BusinessDays int
}
