package routes

import (
	"time"

	"ramesh-admin/handlers"
	"ramesh-admin/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	authHandler := &handlers.AuthHandler{DB: db}
	adminHandler := &handlers.AdminHandler{DB: db}
	userHandler := &handlers.UserHandler{DB: db}
	categoryHandler := &handlers.CategoryHandler{DB: db}
	subcategoryHandler := &handlers.SubcategoryHandler{DB: db}
	productHandler := &handlers.ProductHandler{DB: db}
	couponHandler := &handlers.CouponHandler{DB: db}
	featuredHandler := &handlers.FeaturedHandler{DB: db}
	orderHandler := &handlers.OrderHandler{DB: db}
	activityHandler := &handlers.ActivityHandler{DB: db}

	r.GET("/health", handlers.HealthCheck)

	loginLimiter := middleware.NewRateLimiter(10, time.Minute)

	auth := r.Group("/api/auth")
	{
		auth.POST("/login", loginLimiter.Middleware(), authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.AuthMiddleware(), authHandler.Logout)
		auth.GET("/profile", middleware.AuthMiddleware(), authHandler.GetProfile)
		auth.POST("/change-password", middleware.AuthMiddleware(), authHandler.ChangePassword)
	}

	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.GET("/categories", categoryHandler.GetCategories)
		admin.GET("/categories/:id", categoryHandler.GetCategory)
		admin.POST("/categories", categoryHandler.CreateCategory)
		admin.PUT("/categories/:id", categoryHandler.UpdateCategory)
		admin.DELETE("/categories/:id", categoryHandler.DeleteCategory)

		admin.GET("/subcategories", subcategoryHandler.GetSubcategories)
		admin.GET("/subcategories/:id", subcategoryHandler.GetSubcategory)
		admin.POST("/subcategories", subcategoryHandler.CreateSubcategory)
		admin.PUT("/subcategories/:id", subcategoryHandler.UpdateSubcategory)
		admin.DELETE("/subcategories/:id", subcategoryHandler.DeleteSubcategory)

		admin.GET("/products", productHandler.GetProducts)
		admin.GET("/products/check-sku", productHandler.CheckSKU)
		admin.GET("/products/:id", productHandler.GetProduct)
		admin.POST("/products", productHandler.CreateProduct)
		admin.PUT("/products/:id", productHandler.UpdateProduct)
		admin.DELETE("/products/:id", productHandler.DeleteProduct)
		// Permanent product deletion checks its own rule: super admin, or
		// anyone once the product is already in the trash.
		admin.DELETE("/products/:id/permanent", productHandler.PermanentDeleteProduct)

		admin.GET("/coupons", couponHandler.GetCoupons)
		admin.GET("/coupons/:id", couponHandler.GetCoupon)
		admin.GET("/coupons/:id/statistics", couponHandler.GetCouponStatistics)
		admin.POST("/coupons", couponHandler.CreateCoupon)
		admin.PUT("/coupons/:id", couponHandler.UpdateCoupon)
		admin.DELETE("/coupons/:id", couponHandler.DeleteCoupon)

		admin.GET("/featured", featuredHandler.GetFeatured)
		admin.POST("/featured", featuredHandler.AddFeaturedItem)
		admin.PUT("/featured/reorder", featuredHandler.Reorder)
		admin.PUT("/featured/:id/replace", featuredHandler.Replace)
		admin.DELETE("/featured/:id", featuredHandler.RemoveFeaturedItem)

		admin.GET("/orders", orderHandler.GetOrders)
		admin.GET("/orders/transitions", orderHandler.GetOrderTransitions)
		admin.GET("/orders/:id", orderHandler.GetOrder)
		admin.PUT("/orders/:id/status", orderHandler.UpdateOrderStatus)
		admin.POST("/orders/:id/cancel", orderHandler.CancelOrder)
		admin.POST("/orders/:id/refund", orderHandler.ProcessRefund)
		admin.PUT("/orders/:id/shipping", orderHandler.UpdateShipping)
		admin.POST("/orders/:id/payment-received", orderHandler.MarkPaymentReceived)
		admin.POST("/orders/:id/return", orderHandler.MarkOrderReturn)

		admin.GET("/users", userHandler.GetUsers)
		admin.GET("/users/:id", userHandler.GetUser)
		admin.DELETE("/users/:id", userHandler.DeleteUser)
		admin.POST("/users/:id/block", userHandler.BlockUser)
		admin.POST("/users/:id/unblock", userHandler.UnblockUser)

		admin.GET("/admins/:id", adminHandler.GetAdmin)
		admin.PUT("/admins/:id", adminHandler.UpdateAdmin)

		admin.POST("/activity-logs", activityHandler.CreateActivityLog)
		admin.GET("/activity-logs", activityHandler.GetActivityLogs)
	}

	super := r.Group("/api/admin")
	super.Use(middleware.AuthMiddleware(), middleware.SuperAdminMiddleware())
	{
		super.POST("/categories/:id/restore", categoryHandler.RestoreCategory)
		super.DELETE("/categories/:id/permanent", categoryHandler.PermanentDeleteCategory)

		super.POST("/subcategories/:id/restore", subcategoryHandler.RestoreSubcategory)
		super.DELETE("/subcategories/:id/permanent", subcategoryHandler.PermanentDeleteSubcategory)

		super.POST("/products/:id/restore", productHandler.RestoreProduct)

		super.POST("/coupons/:id/restore", couponHandler.RestoreCoupon)
		super.DELETE("/coupons/:id/permanent", couponHandler.PermanentDeleteCoupon)

		super.GET("/admins", adminHandler.GetAdmins)
		super.POST("/admins", adminHandler.CreateAdmin)
		super.DELETE("/admins/:id", adminHandler.DeleteAdmin)
	}
}
