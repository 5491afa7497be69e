package database

import (
	"os"
	"testing"

	"ramesh-admin/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return db
}

func TestMigrateCreatesTables(t *testing.T) {
	db := setupTestDB(t)

	var count int64
	if err := db.Model(&models.Admin{}).Count(&count).Error; err != nil {
		t.Fatalf("admins table missing: %v", err)
	}
	if err := db.Model(&models.Coupon{}).Count(&count).Error; err != nil {
		t.Fatalf("coupons table missing: %v", err)
	}
	if err := db.Model(&models.FeaturedItem{}).Count(&count).Error; err != nil {
		t.Fatalf("featured_items table missing: %v", err)
	}
}

func TestCreateDefaultSuperAdmin(t *testing.T) {
	db := setupTestDB(t)
	os.Setenv("SUPER_ADMIN_EMAIL", "test-owner@ramesh.com")
	os.Setenv("SUPER_ADMIN_PASSWORD", "super-secret-pass")
	defer os.Unsetenv("SUPER_ADMIN_EMAIL")
	defer os.Unsetenv("SUPER_ADMIN_PASSWORD")

	if err := CreateDefaultSuperAdmin(db); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}

	var admin models.Admin
	if err := db.Where("email = ?", "test-owner@ramesh.com").First(&admin).Error; err != nil {
		t.Fatal("super admin was not created")
	}
	if admin.Role != models.RoleSuperAdmin {
		t.Errorf("expected super_admin role, got %s", admin.Role)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte("super-secret-pass")); err != nil {
		t.Error("stored password hash does not match")
	}
}

func TestCreateDefaultSuperAdminIdempotent(t *testing.T) {
	db := setupTestDB(t)
	os.Setenv("SUPER_ADMIN_EMAIL", "test-owner@ramesh.com")
	defer os.Unsetenv("SUPER_ADMIN_EMAIL")

	if err := CreateDefaultSuperAdmin(db); err != nil {
		t.Fatal(err)
	}
	if err := CreateDefaultSuperAdmin(db); err != nil {
		t.Fatalf("second run should be a no-op, got %v", err)
	}

	var count int64
	db.Model(&models.Admin{}).Where("email = ?", "test-owner@ramesh.com").Count(&count)
	if count != 1 {
		t.Errorf("expected exactly one super admin, got %d", count)
	}
}
