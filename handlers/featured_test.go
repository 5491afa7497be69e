package handlers_test

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"testing"

	"ramesh-admin/models"

	"github.com/google/uuid"
)

func TestGetFeaturedPayload(t *testing.T) {
	db := freshDB()
	_, token := seedAdmin(t, db, models.RoleAdmin)
	seedFeatured(t, db, models.DisplayQuickPick, 2)
	seedFeatured(t, db, models.DisplayQuickPick, 1)
	seedFeatured(t, db, models.DisplayFeaturedProduct, 1)
	r := testRouter(db)

	w := doRequest(r, "GET", "/api/admin/featured", token, nil)
	mustStatus(t, w, http.StatusOK)

	var payload struct {
		Items  []models.FeaturedItem `json:"items"`
		Limits models.FeaturedLimits `json:"limits"`
	}
	json.Unmarshal(decodeEnvelope(t, w).Data, &payload)
	if len(payload.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(payload.Items))
	}
	if payload.Limits.FeaturedProducts == 0 || payload.Limits.QuickPicks == 0 {
		t.Error("limits should always be populated")
	}

	// Ordered by display type, then rank within each type.
	quickPicks := []models.FeaturedItem{}
	for _, item := range payload.Items {
		if item.DisplayType == models.DisplayQuickPick {
			quickPicks = append(quickPicks, item)
		}
	}
	if len(quickPicks) != 2 || quickPicks[0].DisplayOrder != 1 || quickPicks[1].DisplayOrder != 2 {
		t.Error("quick picks should come back in rank order")
	}
}

func TestAddFeaturedItemCapHit(t *testing.T) {
	db := freshDB()
	_, token := seedAdmin(t, db, models.RoleAdmin)
	os.Setenv("QUICK_PICK_LIMIT", "2")
	defer os.Unsetenv("QUICK_PICK_LIMIT")
	seedFeatured(t, db, models.DisplayQuickPick, 1)
	seedFeatured(t, db, models.DisplayQuickPick, 2)
	r := testRouter(db)

	w := doRequest(r, "POST", "/api/admin/featured", token, map[string]interface{}{
		"entity_id":    uuid.New().String(),
		"display_type": "quick_pick",
		"title":        "One too many",
	})
	mustStatus(t, w, http.StatusConflict)
	if msg := decodeEnvelope(t, w).Message; !strings.Contains(msg, "Maximum limit") {
		t.Errorf("cap message must carry the Maximum limit prefix, got %q", msg)
	}
}

func TestAddFeaturedItemAppendsAtEnd(t *testing.T) {
	db := freshDB()
	_, token := seedAdmin(t, db, models.RoleAdmin)
	seedFeatured(t, db, models.DisplayFeaturedCategory, 1)
	r := testRouter(db)

	w := doRequest(r, "POST", "/api/admin/featured", token, map[string]interface{}{
		"entity_id":    uuid.New().String(),
		"display_type": "featured_category",
		"title":        "Barfi",
	})
	mustStatus(t, w, http.StatusCreated)

	var item models.FeaturedItem
	json.Unmarshal(decodeEnvelope(t, w).Data, &item)
	if item.DisplayOrder != 2 || item.Position != 2 {
		t.Errorf("new item should take the next rank, got order=%d position=%d",
			item.DisplayOrder, item.Position)
	}
}

func TestReorderFeatured(t *testing.T) {
	db := freshDB()
	_, token := seedAdmin(t, db, models.RoleAdmin)
	first := seedFeatured(t, db, models.DisplayQuickPick, 1)
	second := seedFeatured(t, db, models.DisplayQuickPick, 2)
	r := testRouter(db)

	w := doRequest(r, "PUT", "/api/admin/featured/reorder", token, map[string]interface{}{
		"display_type": "quick_pick",
		"items": []map[string]interface{}{
			{"id": second.ID.String(), "display_order": 1, "position": 1},
			{"id": first.ID.String(), "display_order": 2, "position": 2},
		},
	})
	mustStatus(t, w, http.StatusOK)

	var swapped models.FeaturedItem
	db.First(&swapped, "id = ?", second.ID)
	if swapped.DisplayOrder != 1 {
		t.Errorf("second item should now be first, got rank %d", swapped.DisplayOrder)
	}
}

func TestReorderRejectsForeignItems(t *testing.T) {
	db := freshDB()
	_, token := seedAdmin(t, db, models.RoleAdmin)
	stray := seedFeatured(t, db, models.DisplayFeaturedProduct, 1)
	r := testRouter(db)

	w := doRequest(r, "PUT", "/api/admin/featured/reorder", token, map[string]interface{}{
		"display_type": "quick_pick",
		"items": []map[string]interface{}{
			{"id": stray.ID.String(), "display_order": 1, "position": 1},
		},
	})
	mustStatus(t, w, http.StatusBadRequest)

	// The transaction rolled back, so the stray item is untouched.
	var unchanged models.FeaturedItem
	db.First(&unchanged, "id = ?", stray.ID)
	if unchanged.DisplayType != models.DisplayFeaturedProduct {
		t.Error("item outside the batch's display type must not change")
	}
}

func TestReplaceFeaturedPreservesRank(t *testing.T) {
	db := freshDB()
	_, token := seedAdmin(t, db, models.RoleAdmin)
	slot := seedFeatured(t, db, models.DisplayQuickPick, 3)
	newEntity := uuid.New()
	r := testRouter(db)

	w := doRequest(r, "PUT", "/api/admin/featured/"+slot.ID.String()+"/replace", token, map[string]interface{}{
		"entity_id":    newEntity.String(),
		"display_type": "quick_pick",
	})
	mustStatus(t, w, http.StatusOK)

	var replaced models.FeaturedItem
	json.Unmarshal(decodeEnvelope(t, w).Data, &replaced)
	if replaced.EntityID != newEntity {
		t.Error("entity should be swapped")
	}
	if replaced.DisplayOrder != 3 {
		t.Errorf("rank should be preserved, got %d", replaced.DisplayOrder)
	}

	// Wrong display type is refused.
	w = doRequest(r, "PUT", "/api/admin/featured/"+slot.ID.String()+"/replace", token, map[string]interface{}{
		"entity_id":    uuid.New().String(),
		"display_type": "featured_product",
	})
	mustStatus(t, w, http.StatusBadRequest)
}

func TestRemoveFeaturedRenumbers(t *testing.T) {
	db := freshDB()
	_, token := seedAdmin(t, db, models.RoleAdmin)
	seedFeatured(t, db, models.DisplayQuickPick, 1)
	middle := seedFeatured(t, db, models.DisplayQuickPick, 2)
	seedFeatured(t, db, models.DisplayQuickPick, 3)
	r := testRouter(db)

	w := doRequest(r, "DELETE", "/api/admin/featured/"+middle.ID.String(), token, nil)
	mustStatus(t, w, http.StatusOK)

	var rest []models.FeaturedItem
	db.Where("display_type = ?", models.DisplayQuickPick).Order("display_order").Find(&rest)
	if len(rest) != 2 {
		t.Fatalf("expected 2 remaining items, got %d", len(rest))
	}
	for i, item := range rest {
		if item.DisplayOrder != i+1 || item.Position != i+1 {
			t.Errorf("ranks should stay dense, item %d has order=%d position=%d",
				i, item.DisplayOrder, item.Position)
		}
	}
}
