package planning

import "github.com/shopspring/decimal"

// Occupancy sums, for every business day in the closed range
// [from, to], the quantity already committed to each family across all
// non-delivered orders. Days with no commitments still appear with
// zero values. The result is sorted ascending by date.
//
// Utilization is the committed quantity as a percentage of the day's
// effective capacity (override if present, else default), rounded to
// one decimal place. A day with zero capacity reports zero
// utilization.
func Occupancy(orders []Order, config CapacityConfig, from, to Date) []OccupancyDay {
	var days []OccupancyDay
	index := map[string]int{}

	for d := from; !d.After(to); d = d.AddDays(1) {
		if !d.IsBusinessDay() {
			continue
		}
		index[d.String()] = len(days)
		days = append(days, OccupancyDay{Date: d.String()})
	}

	for i := range orders {
		order := &orders[i]
		if !order.Occupies() {
			continue
		}
		for date, qty := range order.Allocations {
			pos, ok := index[date]
			if !ok {
				continue
			}
			if order.Family == FamilyTorre {
				days[pos].Torre += qty
			} else {
				days[pos].Puxador += qty
			}
		}
	}

	for i := range days {
		days[i].TorreUtilization = utilization(days[i].Torre, config.DayCapacity(days[i].Date, FamilyTorre))
		days[i].PuxadorUtilization = utilization(days[i].Puxador, config.DayCapacity(days[i].Date, FamilyPuxador))
	}

	return days
}

func utilization(committed, capacity int) decimal.Decimal {
	if capacity <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(committed)).
		Div(decimal.NewFromInt(int64(capacity))).
		Mul(decimal.NewFromInt(100)).
		Round(1)
}
