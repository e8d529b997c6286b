package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"doc-scout/config"
	"doc-scout/models"
	"doc-scout/providers/searchapi"
	"doc-scout/services"
	"doc-scout/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	filesUploadedCounter     prometheus.Counter
	searchesCompletedCounter prometheus.Counter
)

func init() {
	filesUploadedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "files_uploaded_total",
			Help: "Total number of files uploaded to the file store.",
		},
	)
	searchesCompletedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "searches_completed_total",
			Help: "Total number of successfully persisted searches.",
		},
	)
	prometheus.MustRegister(filesUploadedCounter, searchesCompletedCounter)
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	// Setup Database Connection
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		logging.Fatal("Failed to connect to database", zap.Error(err))
	}
	logging.Info("Successfully connected to database.")

	// Auto-Migration
	logging.Info("Running database auto-migration...")
	if err := db.AutoMigrate(
		&models.UploadedFile{},
		&models.Source{},
		&models.Search{},
		&models.SearchResult{},
	); err != nil {
		logging.Fatal("Auto-migration failed", zap.Error(err))
	}

	// Setup File Store
	store, err := storage.New(cfg)
	if err != nil {
		logging.Fatal("File store creation failed", zap.Error(err))
	}
	logging.Info("File store ready", zap.String("backend", cfg.StorageBackend))

	// Setup Services
	searchClient := searchapi.NewClient(cfg, logging)
	fileService := services.NewFileService(db, store, logging)
	searchService := services.NewSearchService(db, store, searchClient, logging)
	cleanupService := services.NewCleanupService(db, store, logging,
		time.Duration(cfg.CleanupMinAgeMins)*time.Minute)

	// Setup Router
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(cors.Default())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Server is running"})
	})

	// Lokal gespeicherte Blobs liefert der Server selbst aus.
	if local, ok := store.(*storage.LocalStore); ok {
		router.Static("/uploads", local.Dir)
	}

	// Setup Routes
	setupUploadRoutes(router, fileService, logging)
	setupSearchRoutes(router, searchService, logging)
	setupFileRoutes(router, fileService, logging)

	// Setup Cron
	cronScheduler := cron.New()
	cronScheduler.AddFunc(cfg.CleanupSchedule, func() {
		logging.Info("Running scheduled blob cleanup...")
		count, err := cleanupService.Run(context.Background())
		if err != nil {
			logging.Error("Blob cleanup failed", zap.Error(err))
		} else {
			logging.Info("Blob cleanup completed", zap.Int("deleted", count))
		}
	})
	cronScheduler.Start()

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      180 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}

func setupUploadRoutes(router *gin.Engine, files *services.FileService, log *zap.Logger) {
	router.POST("/upload", func(c *gin.Context) {
		userID := c.PostForm("user_id")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "User ID is required"})
			return
		}

		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid multipart request"})
			return
		}

		parts := form.File["file"]
		if len(parts) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Files are required"})
			return
		}

		// MIME-Check vor jedem Store-Zugriff: ein einziger falscher Teil
		// lehnt den gesamten Upload ab, ohne dass ein Blob geschrieben wird.
		for _, part := range parts {
			if part.Header.Get("Content-Type") != "application/pdf" {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid file type. Only PDF file is allowed."})
				return
			}
		}

		ids, err := files.StoreUploads(c.Request.Context(), userID, parts)
		if err != nil {
			log.Error("File upload failed", zap.String("user_id", userID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server error"})
			return
		}

		filesUploadedCounter.Add(float64(len(ids)))
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Files uploaded",
			"data":    gin.H{"files": ids},
		})
	})
}

func setupSearchRoutes(router *gin.Engine, search *services.SearchService, log *zap.Logger) {
	router.POST("/search", func(c *gin.Context) {
		var req struct {
			UserID string `json:"user_id"`
			Query  string `json:"query"`
			Files  []uint `json:"files"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
			return
		}
		if req.UserID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "User ID is required"})
			return
		}
		if req.Query == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Query is required"})
			return
		}

		result, err := search.Run(c.Request.Context(), req.UserID, req.Query, req.Files)
		switch {
		case errors.Is(err, services.ErrFilesNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Files not found"})
			return
		case errors.Is(err, searchapi.ErrNoResult):
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Search failed"})
			return
		case err != nil:
			log.Error("Search failed", zap.String("user_id", req.UserID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server error"})
			return
		}

		searchesCompletedCounter.Inc()
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Search successful",
			"data":    gin.H{"searchId": result.ID},
		})
	})

	router.GET("/searches", func(c *gin.Context) {
		userID := c.Query("user_id")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "User ID is required"})
			return
		}
		searches, err := search.List(c.Request.Context(), userID)
		if err != nil {
			log.Error("Listing searches failed", zap.String("user_id", userID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Searches retrieved",
			"data":    searches,
		})
	})

	router.GET("/searches/:search_id", func(c *gin.Context) {
		searchID, ok := parseID(c, "search_id")
		if !ok {
			return
		}
		details, err := search.Details(c.Request.Context(), searchID)
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Search not found"})
				return
			}
			log.Error("Loading search details failed", zap.Uint("search_id", searchID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Search details retrieved",
			"data":    details,
		})
	})

	router.DELETE("/searches/:search_id", func(c *gin.Context) {
		userID := c.Query("user_id")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "User ID is required"})
			return
		}
		searchID, ok := parseID(c, "search_id")
		if !ok {
			return
		}
		if err := search.Delete(c.Request.Context(), userID, searchID); err != nil {
			if errors.Is(err, services.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Search not found"})
				return
			}
			log.Error("Deleting search failed", zap.Uint("search_id", searchID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Search deleted"})
	})
}

func setupFileRoutes(router *gin.Engine, files *services.FileService, log *zap.Logger) {
	router.GET("/files", func(c *gin.Context) {
		userID := c.Query("user_id")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "User ID is required"})
			return
		}
		views, err := files.List(c.Request.Context(), userID)
		if err != nil {
			log.Error("Listing files failed", zap.String("user_id", userID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Files retrieved",
			"data":    views,
		})
	})

	router.DELETE("/files/:file_id", func(c *gin.Context) {
		userID := c.Query("user_id")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "User ID is required"})
			return
		}
		fileID, ok := parseID(c, "file_id")
		if !ok {
			return
		}
		if err := files.Delete(c.Request.Context(), userID, fileID); err != nil {
			if errors.Is(err, services.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "File not found"})
				return
			}
			log.Error("Deleting file failed", zap.Uint("file_id", fileID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "File deleted"})
	})
}

// parseID liest einen numerischen Pfad-Parameter; ungültige Werte werden
// direkt mit 400 beantwortet.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}
