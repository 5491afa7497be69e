package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"ramesh-admin/models"

	"github.com/google/uuid"
)

func TestGetAdminSelfOrSuper(t *testing.T) {
	db := freshDB()
	first, firstToken := seedAdmin(t, db, models.RoleAdmin)
	second, _ := seedAdmin(t, db, models.RoleAdmin)
	_, superToken := seedAdmin(t, db, models.RoleSuperAdmin)
	r := testRouter(db)

	// Own account is fine.
	w := doRequest(r, "GET", "/api/admin/admins/"+first.ID.String(), firstToken, nil)
	mustStatus(t, w, http.StatusOK)

	// Someone else's account is not.
	w = doRequest(r, "GET", "/api/admin/admins/"+second.ID.String(), firstToken, nil)
	mustStatus(t, w, http.StatusForbidden)

	// Super admins can view anyone.
	w = doRequest(r, "GET", "/api/admin/admins/"+second.ID.String(), superToken, nil)
	mustStatus(t, w, http.StatusOK)
}

func TestUpdateAdminRoleChangeIsSuperOnly(t *testing.T) {
	db := freshDB()
	admin, token := seedAdmin(t, db, models.RoleAdmin)
	_, superToken := seedAdmin(t, db, models.RoleSuperAdmin)
	r := testRouter(db)

	path := "/api/admin/admins/" + admin.ID.String()

	// An admin may update their own name.
	w := doRequest(r, "PUT", path, token, map[string]interface{}{"name": "New Name"})
	mustStatus(t, w, http.StatusOK)
	var updated models.Admin
	json.Unmarshal(decodeEnvelope(t, w).Data, &updated)
	if updated.Name != "New Name" {
		t.Errorf("name not updated, got %q", updated.Name)
	}

	// But not their own role.
	w = doRequest(r, "PUT", path, token, map[string]interface{}{"role": "super_admin"})
	mustStatus(t, w, http.StatusForbidden)

	// A super admin can.
	w = doRequest(r, "PUT", path, superToken, map[string]interface{}{"role": "super_admin"})
	mustStatus(t, w, http.StatusOK)
	json.Unmarshal(decodeEnvelope(t, w).Data, &updated)
	if updated.Role != models.RoleSuperAdmin {
		t.Errorf("role not updated, got %q", updated.Role)
	}
}

func TestListAdminsIsSuperOnly(t *testing.T) {
	db := freshDB()
	_, adminToken := seedAdmin(t, db, models.RoleAdmin)
	_, superToken := seedAdmin(t, db, models.RoleSuperAdmin)
	r := testRouter(db)

	w := doRequest(r, "GET", "/api/admin/admins", adminToken, nil)
	mustStatus(t, w, http.StatusForbidden)

	w = doRequest(r, "GET", "/api/admin/admins", superToken, nil)
	mustStatus(t, w, http.StatusOK)

	var admins []models.Admin
	json.Unmarshal(decodeEnvelope(t, w).Data, &admins)
	if len(admins) != 2 {
		t.Errorf("expected 2 admins, got %d", len(admins))
	}
}

func TestCreateAdmin(t *testing.T) {
	db := freshDB()
	_, superToken := seedAdmin(t, db, models.RoleSuperAdmin)
	r := testRouter(db)

	email := uuid.NewString() + "@ramesh.com"
	w := doRequest(r, "POST", "/api/admin/admins", superToken, map[string]interface{}{
		"email":    email,
		"password": "longenough123",
		"name":     "New Admin",
		"role":     "admin",
	})
	mustStatus(t, w, http.StatusCreated)

	// Duplicate email is refused.
	w = doRequest(r, "POST", "/api/admin/admins", superToken, map[string]interface{}{
		"email":    email,
		"password": "longenough123",
		"name":     "Again",
		"role":     "admin",
	})
	mustStatus(t, w, http.StatusConflict)

	// The new admin can log in.
	w = doRequest(r, "POST", "/api/auth/login", "", map[string]interface{}{
		"email":    email,
		"password": "longenough123",
	})
	mustStatus(t, w, http.StatusOK)
}

func TestDeleteAdminCannotDeleteSelf(t *testing.T) {
	db := freshDB()
	super, superToken := seedAdmin(t, db, models.RoleSuperAdmin)
	other, _ := seedAdmin(t, db, models.RoleAdmin)
	r := testRouter(db)

	w := doRequest(r, "DELETE", "/api/admin/admins/"+super.ID.String(), superToken, nil)
	mustStatus(t, w, http.StatusBadRequest)
	if msg := decodeEnvelope(t, w).Message; msg != "You cannot delete your own account" {
		t.Errorf("unexpected message %q", msg)
	}

	w = doRequest(r, "DELETE", "/api/admin/admins/"+other.ID.String(), superToken, nil)
	mustStatus(t, w, http.StatusOK)

	var count int64
	db.Model(&models.Admin{}).Where("id = ?", other.ID).Count(&count)
	if count != 0 {
		t.Error("other admin should be deleted")
	}
}
