package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klinke/planning-engine/api"
	"github.com/klinke/planning-engine/planning"
	"github.com/klinke/planning-engine/planning/store"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// testAPI wires the handler over the in-memory store with "today"
// pinned to Monday 2024-06-03.
func testAPI(t *testing.T) (*api.Handler, http.Handler) {
	t.Helper()
	h := api.NewHandler(store.NewMemory(), 7)
	h.Now = func() planning.Date {
		d, err := planning.ParseDate("2024-06-03")
		require.NoError(t, err)
		return d
	}
	return h, api.NewRouter(h, []string{"http://localhost:5173"})
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), "body: %s", rec.Body.String())
	return v
}

func createOrder(t *testing.T, router http.Handler, req api.CreateOrderRequest) api.OrderResponse {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/orders", req)
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())
	return decode[api.OrderResponse](t, rec)
}

// =============================================================================
// ORDER ENDPOINTS
// =============================================================================

func TestCreateOrder_AllocatesAcrossDays(t *testing.T) {
	_, router := testAPI(t)

	resp := createOrder(t, router, api.CreateOrderRequest{
		Number: "P-1001", Product: "Torre Inox", Family: "Torre", Quantity: 250,
	})

	assert.NotEmpty(t, resp.Order.ID)
	assert.Equal(t, "Não iniciado", resp.Order.Status)
	assert.Equal(t, "Polido", resp.Order.Finish, "finish defaults to polished")
	assert.Equal(t, 100, resp.Order.Allocations["2024-06-03"])
	assert.Equal(t, 100, resp.Order.Allocations["2024-06-04"])
	assert.Equal(t, 50, resp.Order.Allocations["2024-06-05"])
	assert.NotEmpty(t, resp.Warnings)
}

func TestCreateOrder_Validation(t *testing.T) {
	_, router := testAPI(t)

	tests := []struct {
		name string
		req  api.CreateOrderRequest
	}{
		{"missing number", api.CreateOrderRequest{Family: "Torre", Quantity: 10}},
		{"zero quantity", api.CreateOrderRequest{Number: "P-1", Family: "Torre"}},
		{"unknown family", api.CreateOrderRequest{Number: "P-1", Family: "Janela", Quantity: 10}},
		{"bad deadline", api.CreateOrderRequest{Number: "P-1", Family: "Torre", Quantity: 10, Deadline: "20/06/2024"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/api/orders", tt.req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestGetOrder_NotFound(t *testing.T) {
	_, router := testAPI(t)
	rec := doJSON(t, router, http.MethodGet, "/api/orders/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateOrder_QuantityChangeReallocates(t *testing.T) {
	_, router := testAPI(t)
	created := createOrder(t, router, api.CreateOrderRequest{
		Number: "P-1", Family: "Torre", Quantity: 50,
	})

	quantity := 250
	rec := doJSON(t, router, http.MethodPut, "/api/orders/"+created.Order.ID,
		api.UpdateOrderRequest{Quantity: &quantity})
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	resp := decode[api.OrderResponse](t, rec)
	assert.Equal(t, 250, resp.Order.Quantity)
	assert.Equal(t, 100, resp.Order.Allocations["2024-06-03"])
	assert.Equal(t, 50, resp.Order.Allocations["2024-06-05"])
}

func TestUpdateOrder_CosmeticEditKeepsAllocations(t *testing.T) {
	_, router := testAPI(t)
	created := createOrder(t, router, api.CreateOrderRequest{
		Number: "P-1", Family: "Torre", Quantity: 50,
	})

	product := "Torre Preta 60cm"
	rec := doJSON(t, router, http.MethodPut, "/api/orders/"+created.Order.ID,
		api.UpdateOrderRequest{Product: &product})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[api.OrderResponse](t, rec)
	assert.Equal(t, product, resp.Order.Product)
	assert.Equal(t, created.Order.Allocations, resp.Order.Allocations)
	assert.Empty(t, resp.Warnings)
}

func TestDeliverOrder_FreesCapacity(t *testing.T) {
	_, router := testAPI(t)
	first := createOrder(t, router, api.CreateOrderRequest{
		Number: "P-1", Family: "Torre", Quantity: 100,
	})

	rec := doJSON(t, router, http.MethodPost, "/api/orders/"+first.Order.ID+"/deliver", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	delivered := decode[api.OrderDTO](t, rec)
	assert.Equal(t, "Entregue", delivered.Status)

	// Monday is free again for the next order.
	second := createOrder(t, router, api.CreateOrderRequest{
		Number: "P-2", Family: "Torre", Quantity: 100,
	})
	assert.Equal(t, 100, second.Order.Allocations["2024-06-03"])
}

func TestDeleteOrder(t *testing.T) {
	_, router := testAPI(t)
	created := createOrder(t, router, api.CreateOrderRequest{
		Number: "P-1", Family: "Torre", Quantity: 10,
	})

	rec := doJSON(t, router, http.MethodDelete, "/api/orders/"+created.Order.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/orders/"+created.Order.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// FORECAST
// =============================================================================

func TestForecast(t *testing.T) {
	_, router := testAPI(t)

	rec := doJSON(t, router, http.MethodPost, "/api/forecast",
		api.ForecastRequest{Quantity: 250, Family: "Torre"})
	require.Equal(t, http.StatusOK, rec.Code)

	forecast := decode[api.ForecastDTO](t, rec)
	assert.Equal(t, "2024-06-05", forecast.EstimatedDate)
	assert.NotNil(t, forecast.Warnings)
}

func TestForecast_Validation(t *testing.T) {
	_, router := testAPI(t)
	rec := doJSON(t, router, http.MethodPost, "/api/forecast",
		api.ForecastRequest{Quantity: 0, Family: "Torre"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// OCCUPANCY & PRODUCTION
// =============================================================================

func TestGetOccupancy_Range(t *testing.T) {
	_, router := testAPI(t)
	createOrder(t, router, api.CreateOrderRequest{
		Number: "P-1", Family: "Puxador", Quantity: 75,
	})

	rec := doJSON(t, router, http.MethodGet, "/api/occupancy?from=2024-06-03&to=2024-06-07", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	days := decode[[]api.OccupancyDayDTO](t, rec)
	require.Len(t, days, 5)
	assert.Equal(t, 75, days[0].Puxador)
	assert.Equal(t, 0, days[0].Torre)
	assert.Equal(t, "75", days[0].PuxadorUtilization)
}

func TestGetOccupancy_InvalidRange(t *testing.T) {
	_, router := testAPI(t)

	rec := doJSON(t, router, http.MethodGet, "/api/occupancy?from=2024-06-07&to=2024-06-03", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/occupancy?from=garbage", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetProduction(t *testing.T) {
	_, router := testAPI(t)
	createOrder(t, router, api.CreateOrderRequest{
		Number: "P-1", Family: "Torre", Quantity: 150, Deadline: "2024-05-31",
	})

	rec := doJSON(t, router, http.MethodGet, "/api/production?days=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	report := decode[[]api.ProductionDayDTO](t, rec)
	require.Len(t, report, 2)
	assert.Equal(t, "2024-06-03", report[0].Date)
	require.Len(t, report[0].Items, 1)
	assert.Equal(t, 100, report[0].Items[0].Quantity)
	assert.True(t, report[0].Items[0].Overdue, "deadline in the past")
	require.Len(t, report[1].Items, 1)
	assert.Equal(t, 50, report[1].Items[0].Quantity)
}

func TestGetProduction_DaysValidation(t *testing.T) {
	_, router := testAPI(t)
	for _, q := range []string{"0", "91", "abc"} {
		rec := doJSON(t, router, http.MethodGet, "/api/production?days="+q, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "days=%s", q)
	}
}

func TestExportProduction(t *testing.T) {
	_, router := testAPI(t)
	createOrder(t, router, api.CreateOrderRequest{
		Number: "P-1", Family: "Torre", Quantity: 50,
	})

	rec := doJSON(t, router, http.MethodGet, "/api/production/2024-06-03/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		rec.Header().Get("Content-Type"))
	assert.NotZero(t, rec.Body.Len())
}

func TestExportProduction_WeekendRejected(t *testing.T) {
	_, router := testAPI(t)
	rec := doJSON(t, router, http.MethodGet, "/api/production/2024-06-01/export", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// CAPACITY
// =============================================================================

func TestGetCapacity_Defaults(t *testing.T) {
	_, router := testAPI(t)

	rec := doJSON(t, router, http.MethodGet, "/api/capacity", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	config := decode[api.CapacityConfigDTO](t, rec)
	assert.Equal(t, 100, config.Default.Torre)
	assert.Equal(t, 100, config.Default.Puxador)
}

func TestUpdateCapacity_TriggersReplan(t *testing.T) {
	_, router := testAPI(t)
	created := createOrder(t, router, api.CreateOrderRequest{
		Number: "P-1", Family: "Torre", Quantity: 100,
	})
	assert.Equal(t, 100, created.Order.Allocations["2024-06-03"])

	// Halving capacity pushes half the quantity to Tuesday.
	rec := doJSON(t, router, http.MethodPut, "/api/capacity", api.CapacityConfigDTO{
		Default:   api.CapacityPairDTO{Torre: 50, Puxador: 50},
		Overrides: map[string]api.CapacityPairDTO{},
	})
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	resp := decode[api.UpdateCapacityResponse](t, rec)
	assert.Equal(t, 50, resp.Config.Default.Torre)
	assert.NotEmpty(t, resp.Warnings[created.Order.ID])

	rec = doJSON(t, router, http.MethodGet, "/api/orders/"+created.Order.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	order := decode[api.OrderDTO](t, rec)
	assert.Equal(t, 50, order.Allocations["2024-06-03"])
	assert.Equal(t, 50, order.Allocations["2024-06-04"])
}

func TestUpdateCapacity_Validation(t *testing.T) {
	_, router := testAPI(t)

	rec := doJSON(t, router, http.MethodPut, "/api/capacity", api.CapacityConfigDTO{
		Default: api.CapacityPairDTO{Torre: -1, Puxador: 100},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPut, "/api/capacity", api.CapacityConfigDTO{
		Default:   api.CapacityPairDTO{Torre: 100, Puxador: 100},
		Overrides: map[string]api.CapacityPairDTO{"junho": {Torre: 10, Puxador: 10}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetMonthTotals(t *testing.T) {
	_, router := testAPI(t)

	rec := doJSON(t, router, http.MethodGet, "/api/capacity/2024/6", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	totals := decode[api.MonthTotalsDTO](t, rec)
	assert.Equal(t, 20, totals.BusinessDays)
	assert.Equal(t, 2000, totals.Torre)
	assert.Equal(t, 2000, totals.Puxador)

	rec = doJSON(t, router, http.MethodGet, "/api/capacity/2024/13", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// CHECKLIST
// =============================================================================

func TestChecklist_UpsertAndGet(t *testing.T) {
	_, router := testAPI(t)
	created := createOrder(t, router, api.CreateOrderRequest{
		Number: "P-1", Family: "Torre", Quantity: 10,
	})

	entry := api.ChecklistEntryDTO{
		OrderID: created.Order.ID, Date: "2024-06-03", WeldCap: true,
	}
	rec := doJSON(t, router, http.MethodPost, "/api/checklist", entry)
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	path := fmt.Sprintf("/api/checklist?order=%s&date=2024-06-03", created.Order.ID)
	rec = doJSON(t, router, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[api.ChecklistEntryDTO](t, rec)
	assert.True(t, got.WeldCap)
	assert.False(t, got.Assembly)
}

func TestChecklist_GetMissing(t *testing.T) {
	_, router := testAPI(t)
	rec := doJSON(t, router, http.MethodGet, "/api/checklist?order=x&date=2024-06-03", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChecklist_UnknownOrderRejected(t *testing.T) {
	_, router := testAPI(t)
	rec := doJSON(t, router, http.MethodPost, "/api/checklist", api.ChecklistEntryDTO{
		OrderID: "ghost", Date: "2024-06-03",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
