/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types
  decouple the internal planning model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data
  carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - planning/types.go: The domain model behind them
*/
package api

import (
	"time"

	"github.com/klinke/planning-engine/planning"
)

// =============================================================================
// ORDERS
// =============================================================================

// OrderDTO represents an order in API responses.
type OrderDTO struct {
	ID          string         `json:"id"`
	Number      string         `json:"number"`
	Product     string         `json:"product"`
	Family      string         `json:"family"`
	Finish      string         `json:"finish"`
	Quantity    int            `json:"quantity"`
	Status      string         `json:"status"`
	Deadline    string         `json:"deadline"`
	CutOnly     bool           `json:"cut_only"`
	Allocations map[string]int `json:"allocations"`
	Overdue     bool           `json:"overdue"`
	CreatedAt   string         `json:"created_at,omitempty"`
	UpdatedAt   string         `json:"updated_at,omitempty"`
}

func orderDTO(o planning.Order, asOf planning.Date) OrderDTO {
	return OrderDTO{
		ID:          o.ID,
		Number:      o.Number,
		Product:     o.Product,
		Family:      string(o.Family),
		Finish:      string(o.Finish),
		Quantity:    o.Quantity,
		Status:      string(o.Status),
		Deadline:    o.Deadline,
		CutOnly:     o.CutOnly,
		Allocations: o.Allocations,
		Overdue:     planning.IsOverdue(o.Deadline, o.Status, asOf),
		CreatedAt:   o.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   o.UpdatedAt.Format(time.RFC3339),
	}
}

// CreateOrderRequest is the request to create an order. The allocation
// map is computed server-side, never accepted from the client.
type CreateOrderRequest struct {
	Number   string `json:"number"`
	Product  string `json:"product"`
	Family   string `json:"family"`
	Finish   string `json:"finish"`
	Quantity int    `json:"quantity"`
	Deadline string `json:"deadline"`
	CutOnly  bool   `json:"cut_only"`
}

// UpdateOrderRequest carries partial order edits. Nil fields are left
// unchanged. Changing quantity, family, cut-only, or reviving a
// delivered order triggers reallocation.
type UpdateOrderRequest struct {
	Number   *string `json:"number,omitempty"`
	Product  *string `json:"product,omitempty"`
	Family   *string `json:"family,omitempty"`
	Finish   *string `json:"finish,omitempty"`
	Quantity *int    `json:"quantity,omitempty"`
	Status   *string `json:"status,omitempty"`
	Deadline *string `json:"deadline,omitempty"`
	CutOnly  *bool   `json:"cut_only,omitempty"`
}

// OrderResponse wraps an order with the warnings its allocation
// produced.
type OrderResponse struct {
	Order    OrderDTO `json:"order"`
	Warnings []string `json:"warnings"`
}

// =============================================================================
// FORECAST
// =============================================================================

// ForecastRequest asks for a delivery prediction.
type ForecastRequest struct {
	Quantity int    `json:"quantity"`
	Family   string `json:"family"`
}

// ForecastDTO is the predicted outcome.
type ForecastDTO struct {
	EstimatedDate string         `json:"estimated_date,omitempty"`
	Warnings      []string       `json:"warnings"`
	Allocations   map[string]int `json:"allocations"`
}

// =============================================================================
// OCCUPANCY & PRODUCTION
// =============================================================================

// OccupancyDayDTO is one day of the occupancy report.
type OccupancyDayDTO struct {
	Date               string `json:"date"`
	Torre              int    `json:"torre"`
	Puxador            int    `json:"puxador"`
	TorreUtilization   string `json:"torre_utilization"`
	PuxadorUtilization string `json:"puxador_utilization"`
}

// ProductionItemDTO is one order's share of a production day.
type ProductionItemDTO struct {
	OrderID  string `json:"order_id"`
	Number   string `json:"number"`
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
	Family   string `json:"family"`
	Deadline string `json:"deadline"`
	Status   string `json:"status"`
	Overdue  bool   `json:"overdue"`
}

// ProductionDayDTO is one day of the production report.
type ProductionDayDTO struct {
	Date  string              `json:"date"`
	Items []ProductionItemDTO `json:"items"`
}

// =============================================================================
// CAPACITY
// =============================================================================

// CapacityPairDTO is a per-family capacity value pair.
type CapacityPairDTO struct {
	Torre   int `json:"torre"`
	Puxador int `json:"puxador"`
}

// CapacityConfigDTO mirrors planning.CapacityConfig on the wire.
type CapacityConfigDTO struct {
	Default   CapacityPairDTO            `json:"default"`
	Overrides map[string]CapacityPairDTO `json:"overrides"`
}

func capacityConfigDTO(c planning.CapacityConfig) CapacityConfigDTO {
	dto := CapacityConfigDTO{
		Default:   CapacityPairDTO{Torre: c.Default.Torre, Puxador: c.Default.Puxador},
		Overrides: make(map[string]CapacityPairDTO, len(c.Overrides)),
	}
	for date, pair := range c.Overrides {
		dto.Overrides[date] = CapacityPairDTO{Torre: pair.Torre, Puxador: pair.Puxador}
	}
	return dto
}

func (dto CapacityConfigDTO) toConfig() planning.CapacityConfig {
	config := planning.CapacityConfig{
		Default:   planning.CapacityPair{Torre: dto.Default.Torre, Puxador: dto.Default.Puxador},
		Overrides: make(map[string]planning.CapacityPair, len(dto.Overrides)),
	}
	for date, pair := range dto.Overrides {
		config.Overrides[date] = planning.CapacityPair{Torre: pair.Torre, Puxador: pair.Puxador}
	}
	return config
}

// UpdateCapacityResponse returns the saved configuration plus the
// warnings produced by the deterministic re-plan it triggered.
type UpdateCapacityResponse struct {
	Config   CapacityConfigDTO   `json:"config"`
	Warnings map[string][]string `json:"warnings,omitempty"`
}

// MonthTotalsDTO is the monthly capacity summary.
type MonthTotalsDTO struct {
	Torre        int `json:"torre"`
	Puxador      int `json:"puxador"`
	BusinessDays int `json:"business_days"`
}

// =============================================================================
// CHECKLIST
// =============================================================================

// ChecklistEntryDTO is a per (order, day) production checklist entry.
type ChecklistEntryDTO struct {
	OrderID  string `json:"order_id"`
	Date     string `json:"date"`
	WeldCap  bool   `json:"weld_cap"`
	Assembly bool   `json:"assembly"`
}
