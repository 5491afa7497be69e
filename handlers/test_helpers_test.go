package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"ramesh-admin/models"
	"ramesh-admin/routes"
	"ramesh-admin/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "test-secret-key-for-unit-tests")

	var err error
	testDB, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		panic("failed to connect to test database: " + err.Error())
	}
	// Limit to 1 open connection to prevent SQLite concurrent access issues
	// with in-memory databases.
	sqlDB, _ := testDB.DB()
	sqlDB.SetMaxOpenConns(1)

	if err := testDB.AutoMigrate(
		&models.Admin{},
		&models.User{},
		&models.Category{},
		&models.Subcategory{},
		&models.Product{},
		&models.Variant{},
		&models.ProductImage{},
		&models.Tag{},
		&models.Coupon{},
		&models.FeaturedItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.ActivityLog{},
	); err != nil {
		panic("failed to migrate test database: " + err.Error())
	}

	code := m.Run()
	os.Exit(code)
}

// freshDB returns a clean database for each test by deleting all rows.
func freshDB() *gorm.DB {
	// Delete in correct order to respect foreign keys
	testDB.Exec("DELETE FROM activity_logs")
	testDB.Exec("DELETE FROM order_items")
	testDB.Exec("DELETE FROM orders")
	testDB.Exec("DELETE FROM featured_items")
	testDB.Exec("DELETE FROM coupons")
	testDB.Exec("DELETE FROM product_tags")
	testDB.Exec("DELETE FROM tags")
	testDB.Exec("DELETE FROM product_images")
	testDB.Exec("DELETE FROM variants")
	testDB.Exec("DELETE FROM products")
	testDB.Exec("DELETE FROM subcategories")
	testDB.Exec("DELETE FROM categories")
	testDB.Exec("DELETE FROM users")
	testDB.Exec("DELETE FROM admins")
	return testDB
}

func testRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	routes.SetupRoutes(r, db)
	return r
}

func seedAdmin(t *testing.T, db *gorm.DB, role string) (models.Admin, string) {
	t.Helper()
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	admin := models.Admin{
		Email:    uuid.NewString() + "@ramesh.com",
		Password: string(hashed),
		Name:     "Test Admin",
		Role:     role,
		IsActive: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		t.Fatalf("failed to seed admin: %v", err)
	}
	token, err := utils.GenerateToken(admin.ID, admin.Email, admin.Role)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return admin, token
}

func seedCategory(t *testing.T, db *gorm.DB, name string) models.Category {
	t.Helper()
	category := models.Category{Name: name, IsActive: true}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}
	return category
}

func seedProduct(t *testing.T, db *gorm.DB, categoryID uuid.UUID, name, sku string) models.Product {
	t.Helper()
	product := models.Product{
		Name:        name,
		CategoryID:  categoryID,
		ProductType: models.ProductTypeGlobal,
		Status:      models.ProductStatusActive,
		Variants: []models.Variant{
			{SKU: sku, Price: decimal.NewFromInt(250), WeightUnit: "g", Status: "active", Position: 1},
		},
		Images: []models.ProductImage{
			{ImageURL: "https://cdn.ramesh.com/" + sku + ".jpg", IsPrimary: true, DisplayOrder: 1},
		},
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}
	return product
}

func seedCoupon(t *testing.T, db *gorm.DB, code string) models.Coupon {
	t.Helper()
	coupon := models.Coupon{
		Code:          code,
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: decimal.NewFromInt(10),
		StartDate:     time.Now().AddDate(0, 0, -1),
		IsActive:      true,
	}
	if err := db.Create(&coupon).Error; err != nil {
		t.Fatalf("failed to seed coupon: %v", err)
	}
	return coupon
}

func seedFeatured(t *testing.T, db *gorm.DB, displayType models.DisplayType, position int) models.FeaturedItem {
	t.Helper()
	item := models.FeaturedItem{
		EntityID:     uuid.New(),
		DisplayType:  displayType,
		Title:        "Slot",
		DisplayOrder: position,
		Position:     position,
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("failed to seed featured item: %v", err)
	}
	return item
}

func seedOrder(t *testing.T, db *gorm.DB, status models.OrderStatus) models.Order {
	t.Helper()
	user := models.User{Email: uuid.NewString() + "@customer.com", Name: "Customer"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	order := models.Order{
		UserID:        user.ID,
		Status:        status,
		PaymentStatus: models.PaymentPending,
		Subtotal:      decimal.NewFromInt(500),
		Total:         decimal.NewFromInt(550),
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("failed to seed order: %v", err)
	}
	return order
}

func doRequest(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Status  string                 `json:"status"`
	Message string                 `json:"message"`
	Data    json.RawMessage        `json:"data"`
	Meta    map[string]interface{} `json:"meta"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode envelope: %v (body: %s)", err, w.Body.String())
	}
	return env
}

func mustStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("expected status %d, got %d (body: %s)", want, w.Code, w.Body.String())
	}
}
