package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"careers/internal/config"
	"careers/internal/database"
	"careers/internal/domain/admin"
	"careers/internal/domain/application"
	"careers/internal/domain/storage"
	"careers/internal/middleware"
	jwtsvc "careers/internal/pkg/jwt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := db.AutoMigrate(&application.Application{}, &application.ApplicationFile{}); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	store := storage.New(cfg.UploadDir)
	tokens := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	appRepo := application.NewRepository(db)
	appService := application.NewService(appRepo, store)
	appHandler := application.NewHandler(appService)

	adminService := admin.NewService(cfg.AdminUser, cfg.AdminPasswordHash, tokens)
	adminHandler := admin.NewHandler(adminService)

	r := gin.New()
	r.Use(middleware.RequestLogger(), middleware.Recovery(), middleware.CORS())

	// Stored documents are viewed and downloaded straight off disk.
	r.Static("/uploads", store.Dir())

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "Server is running"})
		})

		// public
		admin.RegisterRoutes(api, adminHandler)
		application.RegisterPublicRoutes(api, appHandler)

		// dashboard
		protected := api.Group("/")
		protected.Use(middleware.RequireAdmin(tokens))
		application.RegisterAdminRoutes(protected, appHandler)
	}

	log.Printf("Server is running on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
