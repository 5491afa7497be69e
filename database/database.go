package database

import (
	"os"

	"ramesh-admin/models"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost user=postgres password=postgres dbname=ramesh_admin port=5432 sslmode=disable"
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the schema. The models carry no
// Postgres-specific column defaults, so the same migration works for the
// in-memory SQLite database the tests use.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
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
	)
}

// CreateDefaultSuperAdmin seeds the first super admin account so a fresh
// deployment can be logged into.
func CreateDefaultSuperAdmin(db *gorm.DB) error {
	email := os.Getenv("SUPER_ADMIN_EMAIL")
	password := os.Getenv("SUPER_ADMIN_PASSWORD")

	if email == "" {
		email = "owner@ramesh.com"
	}
	if password == "" {
		password = "changeme123"
	}

	var existing models.Admin
	result := db.Where("email = ?", email).First(&existing)
	if result.Error == nil {
		// Super admin already exists
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.Admin{
		Email:    email,
		Password: string(hashedPassword),
		Role:     models.RoleSuperAdmin,
		Name:     "Ramesh Owner",
		IsActive: true,
	}

	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	logrus.WithField("email", email).Info("default super admin created")
	return nil
}
