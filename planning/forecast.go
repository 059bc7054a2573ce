package planning

// forecastProbeID marks the throwaway order used for delivery
// forecasting. It never collides with persisted orders because it is
// excluded on the engine side by identity, not by lookup.
const forecastProbeID = "forecast-probe"

// ForecastDelivery predicts when a hypothetical order of the given
// quantity and family would complete, without persisting anything. It
// builds a throwaway order, runs it through the allocation engine
// against the existing orders, and reports the latest allocated date.
// EstimatedDate is empty when nothing could be allocated.
func ForecastDelivery(quantity int, family Family, others []Order, config CapacityConfig, start Date) Forecast {
	probe := Order{
		ID:          forecastProbeID,
		Family:      family,
		Quantity:    quantity,
		Status:      StatusNotStarted,
		Allocations: Allocation{},
	}

	allocations, warnings := Allocate(probe, others, config, start)

	return Forecast{
		EstimatedDate: allocations.LatestDate(),
		Warnings:      warnings,
		Allocations:   allocations,
	}
}
