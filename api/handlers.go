/*
handlers.go - HTTP API handlers for the production planner

PURPOSE:
  Exposes the planning engine via REST. Handles HTTP request/response,
  JSON serialization, and input validation, then delegates to the pure
  planning functions and the repository.

ENDPOINTS:
  Orders:
    GET    /api/orders               List all orders
    POST   /api/orders               Create order (allocates capacity)
    GET    /api/orders/{id}          Get one order
    PUT    /api/orders/{id}          Update order (reallocates if needed)
    DELETE /api/orders/{id}          Delete order (cascades checklist)
    POST   /api/orders/{id}/deliver  Mark delivered (frees capacity)

  Planning:
    POST   /api/forecast             Predict delivery date for a quantity
    GET    /api/occupancy            Per-day committed capacity
    GET    /api/production           Day-by-day production report
    GET    /api/production/{date}/export  One day as a printable xlsx

  Capacity:
    GET    /api/capacity             Current configuration
    PUT    /api/capacity             Replace configuration (re-plans all orders)
    GET    /api/capacity/{year}/{month}  Monthly capacity totals

  Checklist:
    GET    /api/checklist            Entry for ?order=&date=
    POST   /api/checklist            Upsert an entry

VALIDATION:
  Required-field validation (non-empty order number, positive quantity)
  happens here; the planning package assumes well-formed input.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Missing order or checklist entry
  - 500: Storage failures
  Engine warnings are not errors; they ride along in 2xx responses.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/klinke/planning-engine/export"
	"github.com/klinke/planning-engine/planning"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Repo planning.Repository

	// Default horizon (business days) for the production report.
	ReportDays int

	// Injectable clock so tests can pin "today".
	Now func() planning.Date
}

// NewHandler creates a new handler backed by the given repository.
func NewHandler(repo planning.Repository, reportDays int) *Handler {
	return &Handler{
		Repo:       repo,
		ReportDays: reportDays,
		Now:        planning.Today,
	}
}

// =============================================================================
// ORDER HANDLERS
// =============================================================================

// ListOrders returns all orders.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Repo.ListOrders(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list orders", err)
		return
	}

	today := h.Now()
	dtos := make([]OrderDTO, len(orders))
	for i, o := range orders {
		dtos[i] = orderDTO(o, today)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetOrder returns a single order.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	order, err := h.Repo.GetOrder(r.Context(), id)
	if err != nil {
		if planning.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Order not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get order", err)
		return
	}
	writeJSON(w, http.StatusOK, orderDTO(*order, h.Now()))
}

// CreateOrder creates an order and allocates its quantity against the
// current plan.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Number == "" {
		writeError(w, http.StatusBadRequest, "Order number is required", nil)
		return
	}
	if req.Quantity <= 0 {
		writeError(w, http.StatusBadRequest, "Quantity must be positive", nil)
		return
	}
	family := planning.Family(req.Family)
	if !family.Valid() {
		writeError(w, http.StatusBadRequest, "Unknown family", nil)
		return
	}
	if req.Deadline != "" {
		if _, err := planning.ParseDate(req.Deadline); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid deadline (use YYYY-MM-DD)", err)
			return
		}
	}
	finish := planning.Finish(req.Finish)
	if finish == "" {
		finish = planning.FinishPolished
	}

	order := planning.Order{
		ID:          newID(),
		Number:      req.Number,
		Product:     req.Product,
		Family:      family,
		Finish:      finish,
		Quantity:    req.Quantity,
		Status:      planning.StatusNotStarted,
		Deadline:    req.Deadline,
		CutOnly:     req.CutOnly,
		Allocations: planning.Allocation{},
	}

	others, err := h.Repo.ListOrders(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list orders", err)
		return
	}

	allocations, warnings := planning.Allocate(order, others, h.config(r), h.Now())
	order.Allocations = allocations

	if err := h.Repo.SaveOrder(r.Context(), order); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save order", err)
		return
	}

	saved, err := h.Repo.GetOrder(r.Context(), order.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reload order", err)
		return
	}
	writeJSON(w, http.StatusCreated, OrderResponse{
		Order:    orderDTO(*saved, h.Now()),
		Warnings: warnings,
	})
}

// UpdateOrder applies partial edits. Changes to quantity, family, or
// the cut-only flag reallocate the order against the other orders.
func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	order, err := h.Repo.GetOrder(r.Context(), id)
	if err != nil {
		if planning.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Order not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get order", err)
		return
	}

	reallocate := false
	if req.Number != nil {
		if *req.Number == "" {
			writeError(w, http.StatusBadRequest, "Order number is required", nil)
			return
		}
		order.Number = *req.Number
	}
	if req.Product != nil {
		order.Product = *req.Product
	}
	if req.Family != nil {
		family := planning.Family(*req.Family)
		if !family.Valid() {
			writeError(w, http.StatusBadRequest, "Unknown family", nil)
			return
		}
		if family != order.Family {
			order.Family = family
			reallocate = true
		}
	}
	if req.Finish != nil {
		order.Finish = planning.Finish(*req.Finish)
	}
	if req.Quantity != nil {
		if *req.Quantity <= 0 {
			writeError(w, http.StatusBadRequest, "Quantity must be positive", nil)
			return
		}
		if *req.Quantity != order.Quantity {
			order.Quantity = *req.Quantity
			reallocate = true
		}
	}
	if req.Status != nil {
		status := planning.Status(*req.Status)
		if !status.Valid() {
			writeError(w, http.StatusBadRequest, "Unknown status", nil)
			return
		}
		order.Status = status
	}
	if req.Deadline != nil {
		if *req.Deadline != "" {
			if _, err := planning.ParseDate(*req.Deadline); err != nil {
				writeError(w, http.StatusBadRequest, "Invalid deadline (use YYYY-MM-DD)", err)
				return
			}
		}
		order.Deadline = *req.Deadline
	}
	if req.CutOnly != nil && *req.CutOnly != order.CutOnly {
		order.CutOnly = *req.CutOnly
		reallocate = true
	}

	var warnings []string
	if reallocate {
		others, err := h.Repo.ListOrders(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to list orders", err)
			return
		}
		order.Allocations, warnings = planning.Allocate(*order, others, h.config(r), h.Now())
	}

	if err := h.Repo.SaveOrder(r.Context(), *order); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save order", err)
		return
	}
	writeJSON(w, http.StatusOK, OrderResponse{
		Order:    orderDTO(*order, h.Now()),
		Warnings: warnings,
	})
}

// DeleteOrder removes an order and its checklist entries.
func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Repo.DeleteOrder(r.Context(), id); err != nil {
		if planning.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Order not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete order", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeliverOrder marks an order delivered. Its allocations stop counting
// against capacity from that moment on.
func (h *Handler) DeliverOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	order, err := h.Repo.GetOrder(r.Context(), id)
	if err != nil {
		if planning.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Order not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get order", err)
		return
	}

	order.Status = planning.StatusDelivered
	if err := h.Repo.SaveOrder(r.Context(), *order); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save order", err)
		return
	}
	writeJSON(w, http.StatusOK, orderDTO(*order, h.Now()))
}

// =============================================================================
// FORECAST HANDLER
// =============================================================================

// Forecast predicts the completion date for a quantity without
// persisting anything.
func (h *Handler) Forecast(w http.ResponseWriter, r *http.Request) {
	var req ForecastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Quantity <= 0 {
		writeError(w, http.StatusBadRequest, "Quantity must be positive", nil)
		return
	}
	family := planning.Family(req.Family)
	if !family.Valid() {
		writeError(w, http.StatusBadRequest, "Unknown family", nil)
		return
	}

	orders, err := h.Repo.ListOrders(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list orders", err)
		return
	}

	forecast := planning.ForecastDelivery(req.Quantity, family, orders, h.config(r), h.Now())
	writeJSON(w, http.StatusOK, ForecastDTO{
		EstimatedDate: forecast.EstimatedDate,
		Warnings:      emptyIfNil(forecast.Warnings),
		Allocations:   forecast.Allocations,
	})
}

// =============================================================================
// OCCUPANCY & PRODUCTION HANDLERS
// =============================================================================

// GetOccupancy returns committed capacity per business day in the
// ?from=&to= range (default: the next 30 calendar days).
func (h *Handler) GetOccupancy(w http.ResponseWriter, r *http.Request) {
	today := h.Now()
	from, to := today, today.AddDays(30)

	var err error
	if q := r.URL.Query().Get("from"); q != "" {
		if from, err = planning.ParseDate(q); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid from date (use YYYY-MM-DD)", err)
			return
		}
	}
	if q := r.URL.Query().Get("to"); q != "" {
		if to, err = planning.ParseDate(q); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid to date (use YYYY-MM-DD)", err)
			return
		}
	}
	if to.Before(from) {
		writeError(w, http.StatusBadRequest, "Range end before start", nil)
		return
	}

	orders, err := h.Repo.ListOrders(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list orders", err)
		return
	}

	days := planning.Occupancy(orders, h.config(r), from, to)
	dtos := make([]OccupancyDayDTO, len(days))
	for i, d := range days {
		dtos[i] = OccupancyDayDTO{
			Date:               d.Date,
			Torre:              d.Torre,
			Puxador:            d.Puxador,
			TorreUtilization:   d.TorreUtilization.String(),
			PuxadorUtilization: d.PuxadorUtilization.String(),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetProduction returns the day-by-day report for ?days=N business
// days (default from configuration).
func (h *Handler) GetProduction(w http.ResponseWriter, r *http.Request) {
	numDays := h.ReportDays
	if q := r.URL.Query().Get("days"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 || n > 90 {
			writeError(w, http.StatusBadRequest, "days must be between 1 and 90", err)
			return
		}
		numDays = n
	}

	orders, err := h.Repo.ListOrders(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list orders", err)
		return
	}

	writeJSON(w, http.StatusOK, h.productionDTO(orders, numDays))
}

func (h *Handler) productionDTO(orders []planning.Order, numDays int) []ProductionDayDTO {
	today := h.Now()
	report := planning.DailyProduction(orders, numDays, today)

	dtos := make([]ProductionDayDTO, len(report))
	for i, day := range report {
		items := make([]ProductionItemDTO, len(day.Items))
		for j, item := range day.Items {
			items[j] = ProductionItemDTO{
				OrderID:  item.OrderID,
				Number:   item.Number,
				Product:  item.Product,
				Quantity: item.Quantity,
				Family:   string(item.Family),
				Deadline: item.Deadline,
				Status:   string(item.Status),
				Overdue:  planning.IsOverdue(item.Deadline, item.Status, today),
			}
		}
		dtos[i] = ProductionDayDTO{Date: day.Date, Items: items}
	}
	return dtos
}

// ExportProduction renders one day's report entry and its checklist
// entries as a downloadable xlsx document.
func (h *Handler) ExportProduction(w http.ResponseWriter, r *http.Request) {
	dateParam := chi.URLParam(r, "date")
	date, err := planning.ParseDate(dateParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}
	if !date.IsBusinessDay() {
		writeError(w, http.StatusBadRequest, "Not a business day", nil)
		return
	}

	orders, err := h.Repo.ListOrders(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list orders", err)
		return
	}
	checklists, err := h.Repo.ListChecklistsByDate(r.Context(), date.String())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list checklists", err)
		return
	}

	day := planning.DailyProduction(orders, 1, date)[0]
	doc, err := export.DayReport(day, checklists)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to render report", err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="production-%s.xlsx"`, date))
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}

// =============================================================================
// CAPACITY HANDLERS
// =============================================================================

// GetCapacity returns the capacity configuration.
func (h *Handler) GetCapacity(w http.ResponseWriter, r *http.Request) {
	config, err := h.Repo.GetConfig(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load configuration", err)
		return
	}
	writeJSON(w, http.StatusOK, capacityConfigDTO(config))
}

// UpdateCapacity replaces the configuration and re-plans every open
// order in ascending deadline order so the result is deterministic.
func (h *Handler) UpdateCapacity(w http.ResponseWriter, r *http.Request) {
	var dto CapacityConfigDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if dto.Default.Torre < 0 || dto.Default.Puxador < 0 {
		writeError(w, http.StatusBadRequest, "Capacity cannot be negative", nil)
		return
	}
	for date, pair := range dto.Overrides {
		if _, err := planning.ParseDate(date); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid override date (use YYYY-MM-DD)", err)
			return
		}
		if pair.Torre < 0 || pair.Puxador < 0 {
			writeError(w, http.StatusBadRequest, "Capacity cannot be negative", nil)
			return
		}
	}

	config := dto.toConfig()
	if err := h.Repo.SaveConfig(r.Context(), config); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save configuration", err)
		return
	}

	orders, err := h.Repo.ListOrders(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list orders", err)
		return
	}

	replanned, warnings := planning.Replan(orders, config, h.Now())
	for _, order := range replanned {
		if err := h.Repo.SaveOrder(r.Context(), order); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save re-planned order", err)
			return
		}
	}

	writeJSON(w, http.StatusOK, UpdateCapacityResponse{
		Config:   capacityConfigDTO(config),
		Warnings: warnings,
	})
}

// GetMonthTotals sums effective capacity over a month's business days.
func (h *Handler) GetMonthTotals(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 2000 || year > 2200 {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "Invalid month", err)
		return
	}

	config, err := h.Repo.GetConfig(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load configuration", err)
		return
	}

	totals := planning.MonthlyTotals(year, time.Month(month), config)
	writeJSON(w, http.StatusOK, MonthTotalsDTO{
		Torre:        totals.Torre,
		Puxador:      totals.Puxador,
		BusinessDays: totals.BusinessDays,
	})
}

// =============================================================================
// CHECKLIST HANDLERS
// =============================================================================

// GetChecklist returns the entry for ?order=&date=.
func (h *Handler) GetChecklist(w http.ResponseWriter, r *http.Request) {
	orderID := r.URL.Query().Get("order")
	date := r.URL.Query().Get("date")
	if orderID == "" || date == "" {
		writeError(w, http.StatusBadRequest, "order and date are required", nil)
		return
	}

	entry, err := h.Repo.GetChecklist(r.Context(), orderID, date)
	if err != nil {
		if planning.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Checklist entry not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load checklist entry", err)
		return
	}
	writeJSON(w, http.StatusOK, ChecklistEntryDTO{
		OrderID:  entry.OrderID,
		Date:     entry.Date,
		WeldCap:  entry.WeldCap,
		Assembly: entry.Assembly,
	})
}

// UpsertChecklist creates or overwrites the entry for its
// (order, date) pair.
func (h *Handler) UpsertChecklist(w http.ResponseWriter, r *http.Request) {
	var dto ChecklistEntryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if dto.OrderID == "" {
		writeError(w, http.StatusBadRequest, "order_id is required", nil)
		return
	}
	if _, err := planning.ParseDate(dto.Date); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}

	entry := planning.ChecklistEntry{
		OrderID:  dto.OrderID,
		Date:     dto.Date,
		WeldCap:  dto.WeldCap,
		Assembly: dto.Assembly,
	}
	if err := h.Repo.UpsertChecklist(r.Context(), entry); err != nil {
		if planning.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Order not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to save checklist entry", err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// HELPERS
// =============================================================================

// config loads the capacity configuration or falls back to defaults;
// planning treats missing configuration as the documented default.
func (h *Handler) config(r *http.Request) planning.CapacityConfig {
	config, err := h.Repo.GetConfig(r.Context())
	if err != nil {
		return planning.DefaultConfig()
	}
	return config
}

func newID() string {
	buf := make([]byte, 8)
	rand.Read(buf)
	return hex.EncodeToString(buf)
}

func emptyIfNil(warnings []string) []string {
	if warnings == nil {
		return []string{}
	}
	return warnings
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	body := map[string]string{"error": message}
	if err != nil {
		body["detail"] = err.Error()
	}
	writeJSON(w, status, body)
}
