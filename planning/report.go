/*
report.go - Day-by-day production report

PURPOSE:
  Builds the production schedule for the next N business days: for each
  day, every allocated quantity across all open orders, sorted by
  urgency (earliest deadline first). Days with nothing scheduled are
  still present with an empty item list; filtering is the caller's
  choice.

ORDERING:
  Items are sorted ascending by deadline string (canonical YYYY-MM-DD,
  so string order is chronological order). Overdue deadlines naturally
  sort first. Equal deadlines keep their encounter order: the sort is
  stable and each order contributes at most one item per day, so
  encounter order is the order of the input slice.
*/
package planning

import "sort"

// DailyProduction lists the allocated work for the next numDays
// business days starting at start (start itself is included when it is
// a business day). Delivered orders are excluded.
func DailyProduction(orders []Order, numDays int, start Date) []ProductionDay {
	byDate := map[string][]ProductionItem{}

	for i := range orders {
		order := &orders[i]
		if !order.Occupies() {
			continue
		}
		for date, qty := range order.Allocations {
			byDate[date] = append(byDate[date], ProductionItem{
				OrderID:  order.ID,
				Number:   order.Number,
				Product:  order.Product,
				Quantity: qty,
				Family:   order.Family,
				Deadline: order.Deadline,
				Status:   order.Status,
			})
		}
	}

	var report []ProductionDay
	for day := start; len(report) < numDays; day = day.AddDays(1) {
		if !day.IsBusinessDay() {
			continue
		}
		items := byDate[day.String()]
		if items == nil {
			items = []ProductionItem{}
		}
		sort.SliceStable(items, func(a, b int) bool {
			return items[a].Deadline < items[b].Deadline
		})
		report = append(report, ProductionDay{Date: day.String(), Items: items})
	}

	return report
}

// IsOverdue reports whether a deadline has passed as of the given day.
// Orders without a deadline and delivered orders are never overdue.
func IsOverdue(deadline string, status Status, asOf Date) bool {
	if deadline == "" || status == StatusDelivered {
		return false
	}
	return deadline < asOf.String()
}
