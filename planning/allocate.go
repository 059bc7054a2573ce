/*
allocate.go - The allocation engine

PURPOSE:
  Distributes an order's quantity across successive business days under
  the per-family daily capacity limits, given the allocations already
  held by co-resident orders. Returns a fresh allocation map and a list
  of human-readable warnings; the input order is never mutated.

WALK:
  Starting from the given date (advanced to the next business day if it
  falls on a weekend), each business day contributes
  min(remaining, free) where free = max(0, dayCapacity - committed).
  The walk stops when the quantity is fully placed, or when it runs
  more than two years past the start date's year, in which case the
  partial map is returned with an explanatory warning.

WARNINGS:
  - "daily capacity reached" once per (date, family) when the day's
    free capacity is below the order's total original quantity.
  - "monthly capacity exhausted" exactly once, the first time the walk
    crosses into a later calendar month than the start month.
  - A horizon warning when the safety bound aborts the walk.
  Saturation is never an error; allocation simply continues into the
  following days and months.

SEE ALSO:
  - forecast.go: Runs this engine on a throwaway order
  - replan.go: Deterministic recomputation of a whole order set
*/
package planning

import "fmt"

// allocationHorizonYears bounds the walk: a date more than this many
// years past the start date's year aborts with a partial allocation.
const allocationHorizonYears = 2

// Allocate distributes order.Quantity across business days from start,
// contending with others' existing allocations for the same family.
// Delivered orders and the order itself are ignored when summing
// committed capacity. Cut-only orders and non-positive quantities
// yield an empty map and no warnings.
func Allocate(order Order, others []Order, config CapacityConfig, start Date) (Allocation, []string) {
	allocations := Allocation{}
	var warnings []string

	if order.CutOnly || order.Quantity <= 0 {
		return allocations, warnings
	}

	day := start
	if !day.IsBusinessDay() {
		day = NextBusinessDay(day)
	}

	startYear, startMonth := day.Year(), day.Month()
	monthCrossed := false
	dailyWarned := map[string]bool{}
	remaining := order.Quantity

	for remaining > 0 {
		date := day.String()

		if !monthCrossed && (day.Year() > startYear || (day.Year() == startYear && day.Month() > startMonth)) {
			monthCrossed = true
			warnings = append(warnings, fmt.Sprintf(
				"monthly capacity exhausted (%s); continuation allocated in %s", order.Family, day.MonthLabel()))
		}

		committed := 0
		for i := range others {
			other := &others[i]
			if other.ID == order.ID || !other.Occupies() || other.Family != order.Family {
				continue
			}
			committed += other.Allocations[date]
		}

		free := config.DayCapacity(date, order.Family) - committed
		if free < 0 {
			free = 0
		}

		if free > 0 {
			take := remaining
			if free < take {
				take = free
			}
			allocations[date] = take
			remaining -= take

			// Dedup key is (date, family); family is fixed for the
			// whole walk, so the date alone identifies the warning.
			if free < order.Quantity && !dailyWarned[date] {
				dailyWarned[date] = true
				warnings = append(warnings, fmt.Sprintf(
					"daily capacity reached on %s (%s)", date, order.Family))
			}
		}

		day = NextBusinessDay(day)

		if day.Year() > start.Year()+allocationHorizonYears {
			warnings = append(warnings, fmt.Sprintf(
				"could not allocate the full quantity within a reasonable horizon; %d of %d units left unplanned",
				remaining, order.Quantity))
			break
		}
	}

	return allocations, warnings
}
