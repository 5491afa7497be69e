package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"reflect"
	"sync"
	"testing"
	"time"

	"ramesh-admin/models"
	"ramesh-admin/notify"
	"ramesh-admin/store"

	"github.com/google/uuid"
)

type reloadRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (r *reloadRecorder) record(after time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delays = append(r.delays, after)
}

func (r *reloadRecorder) all() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.delays...)
}

func featuredItemsJSON(ids []uuid.UUID) string {
	items := make([]models.FeaturedItem, len(ids))
	for i, id := range ids {
		items[i] = models.FeaturedItem{
			ID:           id,
			EntityID:     uuid.New(),
			DisplayType:  models.DisplayQuickPick,
			DisplayOrder: i + 1,
			Position:     i + 1,
		}
	}
	payload, _ := json.Marshal(map[string]interface{}{
		"items":  items,
		"limits": models.FeaturedLimits{FeaturedProducts: 8, FeaturedCategories: 6, QuickPicks: 10},
	})
	return `{"status":"success","data":` + string(payload) + `}`
}

func newTestFeatured(t *testing.T, handler http.HandlerFunc) (*FeaturedController, *notify.Capture, *reloadRecorder, *countingHandler, *store.Store) {
	t.Helper()
	client, counting := newClientServer(t, handler)
	capture := notify.NewCapture()
	reload := &reloadRecorder{}
	st := newTestStore(t)
	return NewFeaturedController(client, capture, st, reload.record), capture, reload, counting, st
}

func loadedFeatured(t *testing.T, ids []uuid.UUID, handler http.HandlerFunc) (*FeaturedController, *notify.Capture, *reloadRecorder, *countingHandler) {
	t.Helper()
	body := featuredItemsJSON(ids)
	ctrl, capture, reload, counting, _ := newTestFeatured(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(body))
			return
		}
		if handler != nil {
			handler(w, r)
			return
		}
		w.Write([]byte(`{"status":"success"}`))
	})
	if !ctrl.Load(context.Background(), true) {
		t.Fatal("load failed")
	}
	return ctrl, capture, reload, counting
}

func quickPickIDs(ctrl *FeaturedController) []uuid.UUID {
	items := ctrl.Items(models.DisplayQuickPick)
	ids := make([]uuid.UUID, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	return ids
}

func TestMoveItemRenumbersAndMarksDirty(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	ctrl, _, _, counting := loadedFeatured(t, ids, nil)
	before := counting.hits.Load()

	if !ctrl.MoveItemUp(ids[1], models.DisplayQuickPick) {
		t.Fatal("move up failed")
	}

	got := quickPickIDs(ctrl)
	want := []uuid.UUID{ids[1], ids[0], ids[2]}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order after move: %v, want %v", got, want)
	}
	for i, item := range ctrl.Items(models.DisplayQuickPick) {
		if item.DisplayOrder != i+1 || item.Position != i+1 {
			t.Errorf("ranks should be dense 1..N, item %d has %d/%d", i, item.DisplayOrder, item.Position)
		}
	}
	if !ctrl.HasChanges(models.DisplayQuickPick) {
		t.Error("partition should be dirty after a move")
	}
	if counting.hits.Load() != before {
		t.Error("moves are local only")
	}
}

func TestMoveItemBoundaries(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New()}
	ctrl, _, _, _ := loadedFeatured(t, ids, nil)

	if ctrl.MoveItemUp(ids[0], models.DisplayQuickPick) {
		t.Error("first item cannot move up")
	}
	if ctrl.MoveItemDown(ids[1], models.DisplayQuickPick) {
		t.Error("last item cannot move down")
	}
	if ctrl.MoveItemUp(uuid.New(), models.DisplayQuickPick) {
		t.Error("absent item cannot move")
	}
	if ctrl.HasChanges(models.DisplayQuickPick) {
		t.Error("failed moves must not mark the partition dirty")
	}
}

func TestDiscardChangesRestoresSnapshot(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	ctrl, _, _, _ := loadedFeatured(t, ids, nil)

	ctrl.MoveItemDown(ids[0], models.DisplayQuickPick)
	ctrl.MoveItemDown(ids[0], models.DisplayQuickPick)

	ctrl.DiscardChanges(models.DisplayQuickPick)

	if !reflect.DeepEqual(quickPickIDs(ctrl), ids) {
		t.Errorf("discard should restore the load-time order, got %v", quickPickIDs(ctrl))
	}
	if ctrl.HasChanges(models.DisplayQuickPick) {
		t.Error("discard should clear the dirty flag")
	}
}

func TestSaveDisplayOrderRollsBackOnFailure(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	snapshot := ctrlItemsAfterLoad(t, ids)

	ctrl, capture, _, _ := loadedFeatured(t, ids, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"status":"error","message":"One or more items do not belong to this display type"}`))
	})

	ctrl.MoveItemDown(ids[0], models.DisplayQuickPick)

	if ctrl.SaveDisplayOrder(context.Background(), models.DisplayQuickPick) {
		t.Fatal("save should fail")
	}

	// The partition is byte-for-byte the snapshot again.
	if !reflect.DeepEqual(quickPickIDs(ctrl), ids) {
		t.Errorf("rollback should restore snapshot order, got %v", quickPickIDs(ctrl))
	}
	for i, item := range ctrl.Items(models.DisplayQuickPick) {
		if item.DisplayOrder != snapshot[i].DisplayOrder || item.Position != snapshot[i].Position {
			t.Errorf("item %d ranks should match the snapshot", i)
		}
	}
	if ctrl.HasChanges(models.DisplayQuickPick) {
		t.Error("failed save should clear the dirty flag")
	}
	if len(capture.Errors()) != 1 {
		t.Error("one error notification expected")
	}
}

// ctrlItemsAfterLoad returns the items as they look right after a load, for
// snapshot comparisons.
func ctrlItemsAfterLoad(t *testing.T, ids []uuid.UUID) []models.FeaturedItem {
	t.Helper()
	ctrl, _, _, _ := loadedFeatured(t, ids, nil)
	return ctrl.Items(models.DisplayQuickPick)
}

func TestSaveDisplayOrderSendsTuplesAndRefetches(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New()}
	var sent struct {
		DisplayType models.DisplayType  `json:"display_type"`
		Items       []models.OrderTuple `json:"items"`
	}
	saved := false
	ctrl, capture, _, _ := loadedFeatured(t, ids, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&sent)
		saved = true
		w.Write([]byte(`{"status":"success","message":"Display order saved"}`))
	})

	ctrl.MoveItemDown(ids[0], models.DisplayQuickPick)
	if !ctrl.SaveDisplayOrder(context.Background(), models.DisplayQuickPick) {
		t.Fatal("save failed")
	}

	if !saved {
		t.Fatal("reorder request never reached the server")
	}
	if sent.DisplayType != models.DisplayQuickPick || len(sent.Items) != 2 {
		t.Errorf("unexpected batch %+v", sent)
	}
	if sent.Items[0].ID != ids[1] || sent.Items[0].DisplayOrder != 1 {
		t.Errorf("tuples should carry the moved order, got %+v", sent.Items)
	}
	if ctrl.HasChanges(models.DisplayQuickPick) {
		t.Error("successful save should leave the partition clean")
	}
	if len(capture.Successes()) == 0 {
		t.Error("success notification expected")
	}
}

func TestAddFeaturedItemCapHitSchedulesReload(t *testing.T) {
	ctrl, capture, reload, _, _ := newTestFeatured(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"status":"error","message":"Maximum limit of 10 quick_pick items reached"}`))
	})

	if ctrl.AddFeaturedItem(context.Background(), uuid.New(), models.DisplayQuickPick, "t", "d") {
		t.Fatal("cap hit should fail")
	}
	delays := reload.all()
	if len(delays) != 1 || delays[0] != 2*time.Second {
		t.Errorf("cap hit should schedule a 2s reload, got %v", delays)
	}
	errs := capture.Errors()
	if len(errs) != 1 || errs[0] != "Maximum limit of 10 quick_pick items reached" {
		t.Errorf("the server's cap message should be shown verbatim, got %v", errs)
	}
}

func TestAddFeaturedItemOtherErrorsDoNotReload(t *testing.T) {
	ctrl, _, reload, _, _ := newTestFeatured(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"status":"error","message":"entity_id is required"}`))
	})

	ctrl.AddFeaturedItem(context.Background(), uuid.New(), models.DisplayQuickPick, "t", "d")
	if len(reload.all()) != 0 {
		t.Error("ordinary failures must not schedule a reload")
	}
}

func TestReplaceFeaturedItemSchedulesReload(t *testing.T) {
	ids := []uuid.UUID{uuid.New()}
	ctrl, _, reload, _ := loadedFeatured(t, ids, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","message":"replaced"}`))
	})

	if !ctrl.ReplaceFeaturedItem(context.Background(), ids[0], uuid.New(), models.DisplayQuickPick) {
		t.Fatal("replace failed")
	}
	delays := reload.all()
	if len(delays) != 1 || delays[0] != 1*time.Second {
		t.Errorf("replace should schedule a 1s reload, got %v", delays)
	}
}

func TestRemoveFeaturedItemRenumbersLocally(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	ctrl, _, _, _ := loadedFeatured(t, ids, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","message":"removed"}`))
	})

	if !ctrl.RemoveFeaturedItem(context.Background(), ids[1], models.DisplayQuickPick) {
		t.Fatal("remove failed")
	}

	items := ctrl.Items(models.DisplayQuickPick)
	if len(items) != 2 {
		t.Fatalf("expected 2 remaining items, got %d", len(items))
	}
	for i, item := range items {
		if item.DisplayOrder != i+1 || item.Position != i+1 {
			t.Errorf("ranks should close the gap, item %d has %d/%d", i, item.DisplayOrder, item.Position)
		}
	}
}

func TestLoadUsesFreshCache(t *testing.T) {
	ids := []uuid.UUID{uuid.New()}
	body := featuredItemsJSON(ids)
	ctrl, _, _, counting, st := newTestFeatured(t, jsonResponse(body))

	if !ctrl.Load(context.Background(), false) {
		t.Fatal("first load failed")
	}
	if counting.hits.Load() != 1 {
		t.Fatalf("first load should hit the network once, got %d", counting.hits.Load())
	}

	// A second controller sharing the store serves from cache.
	client2, counting2 := newClientServer(t, jsonResponse(body))
	ctrl2 := NewFeaturedController(client2, notify.NewCapture(), st, nil)
	if !ctrl2.Load(context.Background(), false) {
		t.Fatal("cached load failed")
	}
	if counting2.hits.Load() != 0 {
		t.Error("a fresh cache should short-circuit the network")
	}
	if len(ctrl2.Items(models.DisplayQuickPick)) != 1 {
		t.Error("cached partitions not installed")
	}

	// force bypasses the cache.
	if !ctrl2.Load(context.Background(), true) {
		t.Fatal("forced load failed")
	}
	if counting2.hits.Load() != 1 {
		t.Error("force should hit the network")
	}
}
