package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"ramesh-admin/models"
)

func productPayload(categoryID string) map[string]interface{} {
	return map[string]interface{}{
		"name":         "Motichoor Laddu",
		"category_id":  categoryID,
		"product_type": "global",
		"status":       "active",
		"is_vegetarian": true,
		"variants": []map[string]interface{}{
			{"sku": "MOTI-250", "price": "250.00", "weight": "250", "weight_unit": "g", "status": "active"},
			{"sku": "MOTI-500", "price": "480.00", "weight": "500", "weight_unit": "g", "status": "active"},
		},
		"tags": []string{"bestseller", "festive"},
		"images": []map[string]interface{}{
			{"image_url": "https://cdn.ramesh.com/moti-1.jpg", "is_primary": true},
			{"image_url": "https://cdn.ramesh.com/moti-2.jpg"},
		},
	}
}

func TestCreateProduct(t *testing.T) {
	db := freshDB()
	_, token := seedAdmin(t, db, models.RoleAdmin)
	category := seedCategory(t, db, "Laddu")
	r := testRouter(db)

	w := doRequest(r, "POST", "/api/admin/products", token, productPayload(category.ID.String()))
	mustStatus(t, w, http.StatusCreated)

	var product models.Product
	json.Unmarshal(decodeEnvelope(t, w).Data, &product)
	if len(product.Variants) != 2 {
		t.Errorf("expected 2 variants, got %d", len(product.Variants))
	}
	if len(product.Images) != 2 {
		t.Errorf("expected 2 images, got %d", len(product.Images))
	}
	if len(product.Tags) != 2 {
		t.Errorf("expected 2 tags, got %d", len(product.Tags))
	}

	primaries := 0
	for _, img := range product.Images {
		if img.IsPrimary {
			primaries++
		}
	}
	if primaries != 1 {
		t.Errorf("expected exactly one primary image, got %d", primaries)
	}
}

func TestCreateProductWithoutVariantsRejected(t *testing.T) {
	db := freshDB()
	_, token := seedAdmin(t, db, models.RoleAdmin)
	category := seedCategory(t, db, "Laddu")
	r := testRouter(db)

	payload := productPayload(category.ID.String())
	payload["variants"] = []map[string]interface{}{}

	w := doRequest(r, "POST", "/api/admin/products", token, payload)
	mustStatus(t, w, http.StatusBadRequest)
}

func TestCreateProductDuplicateSKURejected(t *testing.T) {
	db := freshDB()
	_, token := seedAdmin(t, db, models.RoleAdmin)
	category := seedCategory(t, db, "Laddu")
	seedProduct(t, db, category.ID, "Existing", "MOTI-250")
	r := testRouter(db)

	w := doRequest(r, "POST", "/api/admin/products", token, productPayload(category.ID.String()))
	mustStatus(t, w, http.StatusConflict)
}

func TestCheckSKU(t *testing.T) {
	db := freshDB()
	_, token := seedAdmin(t, db, models.RoleAdmin)
	category := seedCategory(t, db, "Barfi")
	product := seedProduct(t, db, category.ID, "Kaju Katli", "KAJU-001")
	r := testRouter(db)

	// Taken SKU
	w := doRequest(r, "GET", "/api/admin/products/check-sku?sku=KAJU-001", token, nil)
	mustStatus(t, w, http.StatusOK)
	var result struct {
		Available bool `json:"available"`
	}
	json.Unmarshal(decodeEnvelope(t, w).Data, &result)
	if result.Available {
		t.Error("expected KAJU-001 to be unavailable")
	}

	// Same SKU excluding its own product
	w = doRequest(r, "GET", "/api/admin/products/check-sku?sku=KAJU-001&exclude_product_id="+product.ID.String(), token, nil)
	mustStatus(t, w, http.StatusOK)
	json.Unmarshal(decodeEnvelope(t, w).Data, &result)
	if !result.Available {
		t.Error("expected KAJU-001 to be available when excluding its own product")
	}

	// Free SKU
	w = doRequest(r, "GET", "/api/admin/products/check-sku?sku=FREE-999", token, nil)
	mustStatus(t, w, http.StatusOK)
	json.Unmarshal(decodeEnvelope(t, w).Data, &result)
	if !result.Available {
		t.Error("expected FREE-999 to be available")
	}
}

func TestPermanentDeleteLiveProductRequiresSuperAdmin(t *testing.T) {
	db := freshDB()
	_, token := seedAdmin(t, db, models.RoleAdmin)
	category := seedCategory(t, db, "Halwa")
	product := seedProduct(t, db, category.ID, "Sohan Halwa", "SOHAN-001")
	r := testRouter(db)

	w := doRequest(r, "DELETE", "/api/admin/products/"+product.ID.String()+"/permanent", token, nil)
	mustStatus(t, w, http.StatusForbidden)
}

func TestPermanentDeleteTrashedProductAllowedForAdmin(t *testing.T) {
	db := freshDB()
	_, token := seedAdmin(t, db, models.RoleAdmin)
	category := seedCategory(t, db, "Halwa")
	product := seedProduct(t, db, category.ID, "Sohan Halwa", "SOHAN-002")
	db.Delete(&product)
	r := testRouter(db)

	w := doRequest(r, "DELETE", "/api/admin/products/"+product.ID.String()+"/permanent", token, nil)
	mustStatus(t, w, http.StatusOK)

	var count int64
	db.Unscoped().Model(&models.Product{}).Where("id = ?", product.ID).Count(&count)
	if count != 0 {
		t.Error("product should be gone entirely")
	}
	db.Model(&models.Variant{}).Where("product_id = ?", product.ID).Count(&count)
	if count != 0 {
		t.Error("variants should be deleted with the product")
	}
}

func TestProductFilters(t *testing.T) {
	db := freshDB()
	_, token := seedAdmin(t, db, models.RoleAdmin)
	laddu := seedCategory(t, db, "Laddu")
	barfi := seedCategory(t, db, "Barfi")
	seedProduct(t, db, laddu.ID, "Motichoor Laddu", "F-MOTI")
	seedProduct(t, db, barfi.ID, "Kaju Katli", "F-KAJU")
	r := testRouter(db)

	w := doRequest(r, "GET", "/api/admin/products?category_id="+laddu.ID.String(), token, nil)
	mustStatus(t, w, http.StatusOK)

	var products []models.Product
	json.Unmarshal(decodeEnvelope(t, w).Data, &products)
	if len(products) != 1 || products[0].Name != "Motichoor Laddu" {
		t.Errorf("category filter failed, got %d products", len(products))
	}

	w = doRequest(r, "GET", "/api/admin/products?search=Kaju", token, nil)
	mustStatus(t, w, http.StatusOK)
	json.Unmarshal(decodeEnvelope(t, w).Data, &products)
	if len(products) != 1 || products[0].Name != "Kaju Katli" {
		t.Errorf("search filter failed, got %d products", len(products))
	}
}
