package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"backend/internal/config"
	"backend/internal/database"
	"backend/internal/featureflags"
	"backend/internal/handlers"
	"backend/internal/mailer"
	"backend/internal/middleware"
)

func main() {
	config.Load()

	if config.AppEnv.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureProductIndexes(db); err != nil {
		log.Printf("product index warning: %v", err)
	}
	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("user index warning: %v", err)
	}
	if err := database.EnsurePhotoIndexes(db); err != nil {
		log.Printf("photo index warning: %v", err)
	}

	flagCtx, cancelFlags := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancelFlags()
	if err := featureflags.Init(flagCtx, config.AppEnv.RolloutAPIKey, featureflags.Defaults{
		StrictStatusFlow: config.AppEnv.StrictStatusFlow,
		VerifyTotals:     config.AppEnv.VerifyTotals,
	}); err != nil {
		log.Printf("feature flags init warning: %v", err)
	} else {
		log.Printf("feature flags ready: strictStatusFlow=%v, verifyTotals=%v",
			featureflags.Values().StrictStatusFlow.IsEnabled(nil),
			featureflags.Values().VerifyTotals.IsEnabled(nil))
	}
	defer featureflags.Shutdown()

	mail := mailer.Config{
		Host:     config.AppEnv.SMTPHost,
		Port:     config.AppEnv.SMTPPort,
		Username: config.AppEnv.SMTPUser,
		Password: config.AppEnv.SMTPPass,
		From:     config.AppEnv.SMTPFrom,
	}

	r := gin.Default()
	r.Use(middleware.OfflineGate())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.Client().Ping(ctx, readpref.Primary()); err != nil {
			c.String(http.StatusServiceUnavailable, "db not ready")
			return
		}
		c.String(http.StatusOK, "ready")
	})
	r.GET("/_flags", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"offline":          featureflags.Values().Offline.IsEnabled(nil),
			"strictStatusFlow": featureflags.Values().StrictStatusFlow.IsEnabled(nil),
			"verifyTotals":     featureflags.Values().VerifyTotals.IsEnabled(nil),
		})
	})

	auth := middleware.CheckAuth(config.AppEnv.JWTSecret)
	admin := middleware.CheckAdmin()

	products := r.Group("/api/products")
	{
		products.GET("", handlers.GetProducts(db))
		products.GET("/latest", handlers.GetLatestProducts(db))
		products.GET("/:id", handlers.GetProduct(db))
		products.POST("", auth, admin, handlers.CreateProduct(db))
		products.PUT("/:id", auth, admin, handlers.UpdateProduct(db))
		products.DELETE("/:id", auth, admin, handlers.DeleteProduct(db))
	}

	orders := r.Group("/api/orders")
	{
		// Creation stays public so shoppers can check out; the rest of the
		// lifecycle is back-office only.
		orders.POST("", handlers.CreateOrder(db))
		orders.POST("/checkout", handlers.Checkout(db))
		orders.GET("", auth, admin, handlers.GetOrders(db))
		orders.GET("/:id", auth, admin, handlers.GetOrder(db))
		orders.PUT("/:id", auth, admin, handlers.UpdateOrder(db))
		orders.DELETE("/:id", auth, admin, handlers.DeleteOrder(db))
	}

	contacts := r.Group("/api/contacts")
	{
		contacts.POST("", handlers.CreateContact(db))
		contacts.GET("", auth, admin, handlers.GetContacts(db))
		contacts.GET("/:id", auth, admin, handlers.GetContact(db))
		contacts.POST("/:id/reply", auth, admin, handlers.ReplyContact(db, mail))
		contacts.PUT("/:id", auth, admin, handlers.UpdateContact(db))
		contacts.DELETE("/:id", auth, admin, handlers.DeleteContact(db))
	}

	photos := r.Group("/api/photos")
	{
		photos.GET("", handlers.GetPhotos(db))
		photos.GET("/:id", handlers.GetPhoto(db))
		photos.POST("", auth, handlers.CreatePhoto(db))
		photos.PUT("/:id", auth, handlers.UpdatePhoto(db))
		photos.DELETE("/:id", auth, admin, handlers.DeletePhoto(db))
	}

	users := r.Group("/api/users")
	{
		users.POST("/login", handlers.Login(db, config.AppEnv.JWTSecret, config.AppEnv.AccessTokenTTL))
		users.POST("/add", auth, admin, handlers.AddUser(db))
		users.GET("/viewusers", auth, admin, handlers.ViewUsers(db))
		users.GET("/viewprofile", auth, handlers.ViewProfile(db))
		users.PUT("/update", auth, handlers.UpdateProfile(db))
		users.PUT("/edit/:userId", auth, handlers.EditUser(db))
		users.DELETE("/delete/:userId", auth, admin, handlers.DeleteUser(db))
	}

	if err := r.Run(":" + config.AppEnv.Port); err != nil {
		log.Fatal(err)
	}
}
