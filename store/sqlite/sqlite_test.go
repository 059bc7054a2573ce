package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klinke/planning-engine/planning"
	"github.com/klinke/planning-engine/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testOrder(id string) planning.Order {
	return planning.Order{
		ID:          id,
		Number:      "P-" + id,
		Product:     "Torre Inox 40cm",
		Family:      planning.FamilyTorre,
		Finish:      planning.FinishBrushed,
		Quantity:    150,
		Status:      planning.StatusInProgress,
		Deadline:    "2024-06-20",
		Allocations: planning.Allocation{"2024-06-03": 100, "2024-06-04": 50},
	}
}

func TestSQLite_FreshDatabaseDefaults(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	snap, err := s.Load(ctx)
	require.NoError(t, err)

	assert.Empty(t, snap.Orders)
	assert.Empty(t, snap.Checklists)
	assert.Equal(t, planning.DefaultDailyCapacity, snap.Config.Default.Torre)
	assert.Equal(t, planning.DefaultDailyCapacity, snap.Config.Default.Puxador)
	assert.Empty(t, snap.Config.Overrides)
}

func TestSQLite_OrderRoundtrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.SaveOrder(ctx, testOrder("a")))

	got, err := s.GetOrder(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "P-a", got.Number)
	assert.Equal(t, planning.FamilyTorre, got.Family)
	assert.Equal(t, planning.FinishBrushed, got.Finish)
	assert.Equal(t, planning.StatusInProgress, got.Status)
	assert.Equal(t, 100, got.Allocations["2024-06-03"])
	assert.Equal(t, 50, got.Allocations["2024-06-04"])
	assert.False(t, got.CreatedAt.IsZero())
}

func TestSQLite_GetOrderNotFound(t *testing.T) {
	_, err := newTestStore(t).GetOrder(context.Background(), "nope")
	assert.True(t, planning.IsNotFound(err))
}

func TestSQLite_SaveOrderUpserts(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.SaveOrder(ctx, testOrder("a")))
	first, err := s.GetOrder(ctx, "a")
	require.NoError(t, err)

	updated := *first
	updated.Status = planning.StatusCompleted
	updated.Allocations = planning.Allocation{"2024-06-05": 150}
	require.NoError(t, s.SaveOrder(ctx, updated))

	second, err := s.GetOrder(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, planning.StatusCompleted, second.Status)
	assert.Equal(t, 150, second.Allocations["2024-06-05"])
	assert.Equal(t, first.CreatedAt, second.CreatedAt)

	orders, err := s.ListOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestSQLite_DeleteOrderCascadesChecklists(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.SaveOrder(ctx, testOrder("a")))
	require.NoError(t, s.UpsertChecklist(ctx, planning.ChecklistEntry{
		OrderID: "a", Date: "2024-06-03", WeldCap: true,
	}))

	require.NoError(t, s.DeleteOrder(ctx, "a"))

	_, err := s.GetChecklist(ctx, "a", "2024-06-03")
	assert.True(t, planning.IsNotFound(err))

	entries, err := s.ListChecklistsByDate(ctx, "2024-06-03")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSQLite_DeleteOrderNotFound(t *testing.T) {
	err := newTestStore(t).DeleteOrder(context.Background(), "nope")
	assert.True(t, planning.IsNotFound(err))
}

func TestSQLite_UpsertChecklistRequiresOrder(t *testing.T) {
	err := newTestStore(t).UpsertChecklist(context.Background(), planning.ChecklistEntry{
		OrderID: "ghost", Date: "2024-06-03",
	})
	assert.True(t, planning.IsNotFound(err))
}

func TestSQLite_ChecklistUpsertOverwrites(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.SaveOrder(ctx, testOrder("a")))

	require.NoError(t, s.UpsertChecklist(ctx, planning.ChecklistEntry{
		OrderID: "a", Date: "2024-06-03", WeldCap: true,
	}))
	require.NoError(t, s.UpsertChecklist(ctx, planning.ChecklistEntry{
		OrderID: "a", Date: "2024-06-03", WeldCap: true, Assembly: true,
	}))

	entry, err := s.GetChecklist(ctx, "a", "2024-06-03")
	require.NoError(t, err)
	assert.True(t, entry.WeldCap)
	assert.True(t, entry.Assembly)
}

func TestSQLite_ConfigRoundtrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	config := planning.DefaultConfig()
	config.Default = planning.CapacityPair{Torre: 80, Puxador: 120}
	config.Overrides["2024-06-03"] = planning.CapacityPair{Torre: 0, Puxador: 50}
	require.NoError(t, s.SaveConfig(ctx, config))

	got, err := s.GetConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, 80, got.Default.Torre)
	assert.Equal(t, 120, got.Default.Puxador)
	assert.Equal(t, planning.CapacityPair{Torre: 0, Puxador: 50}, got.Overrides["2024-06-03"])

	// Saving again with no overrides clears the old ones.
	config.Overrides = map[string]planning.CapacityPair{}
	require.NoError(t, s.SaveConfig(ctx, config))
	got, err = s.GetConfig(ctx)
	require.NoError(t, err)
	assert.Empty(t, got.Overrides)
}

func TestSQLite_SnapshotRoundtrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	snap := planning.EmptySnapshot()
	snap.Orders = []planning.Order{testOrder("a"), testOrder("b")}
	snap.Config.Default = planning.CapacityPair{Torre: 90, Puxador: 110}
	snap.Checklists = []planning.ChecklistEntry{{OrderID: "b", Date: "2024-06-03", Assembly: true}}
	require.NoError(t, s.Save(ctx, snap))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded.Orders, 2)
	assert.Equal(t, 90, loaded.Config.Default.Torre)
	require.Len(t, loaded.Checklists, 1)
	assert.Equal(t, "b", loaded.Checklists[0].OrderID)

	// Save replaces wholesale: an empty snapshot wipes everything.
	require.NoError(t, s.Save(ctx, planning.EmptySnapshot()))
	loaded, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded.Orders)
	assert.Empty(t, loaded.Checklists)
}
