package planning

import "time"

// MonthlyTotals sums each family's effective daily capacity (override
// if present, else default) over all business days of the given month,
// and counts those days.
func MonthlyTotals(year int, month time.Month, config CapacityConfig) MonthTotals {
	days := BusinessDaysOfMonth(year, month)

	totals := MonthTotals{BusinessDays: len(days)}
	for _, date := range days {
		totals.Torre += config.DayCapacity(date, FamilyTorre)
		totals.Puxador += config.DayCapacity(date, FamilyPuxador)
	}
	return totals
}
