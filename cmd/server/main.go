package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/RatishMoondra/pharma-backend/internal/config"
	"github.com/RatishMoondra/pharma-backend/internal/middleware"
	"github.com/RatishMoondra/pharma-backend/internal/procurement/cache"
	"github.com/RatishMoondra/pharma-backend/internal/procurement/entity"
	"github.com/RatishMoondra/pharma-backend/internal/procurement/handler"
	"github.com/RatishMoondra/pharma-backend/internal/procurement/repository"
	"github.com/RatishMoondra/pharma-backend/internal/procurement/service"
	"github.com/RatishMoondra/pharma-backend/internal/shared/mailer"
	"github.com/RatishMoondra/pharma-backend/internal/shared/pdfgen"
	"github.com/RatishMoondra/pharma-backend/internal/shared/storage"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting pharma-backend service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&entity.Vendor{},
		&entity.Medicine{},
		&entity.RawMaterial{},
		&entity.PackingMaterial{},
		&entity.BOMLine{},
		&entity.ProformaInvoice{},
		&entity.PIItem{},
		&entity.EOPA{},
		&entity.PurchaseOrder{},
		&entity.POLineItem{},
		&entity.Invoice{},
		&entity.InvoiceItem{},
	); err != nil {
		zapLogger.Warn("AutoMigrate warning", zap.Error(err))
	}
	zapLogger.Info("Database migration completed")

	rdb := initRedis(cfg.Redis)
	masterCache := cache.NewMasterCache(rdb, cfg.Redis.CacheTTL, zapLogger)

	pdf, err := pdfgen.New()
	if err != nil {
		zapLogger.Fatal("Failed to init PDF generator", zap.Error(err))
	}

	mail := mailer.New(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From)

	var store *storage.ObjectStore
	if cfg.MinIO.Endpoint != "" {
		store, err = storage.New(cfg.MinIO.Endpoint, cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, cfg.MinIO.Bucket, cfg.MinIO.UseSSL)
		if err != nil {
			// Document archival is optional; dispatch still works without it
			zapLogger.Warn("Object store unavailable, PDFs will not be archived", zap.Error(err))
			store = nil
		}
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, db, masterCache, pdf, mail, store, zapLogger)
	handlers := handler.NewHandlers(services)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimit(cfg.Server.RateLimit))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	registerRoutes(router, handlers, cfg)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, cfg *config.Config) {
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	api := r.Group("/api/v1")
	api.Use(middleware.JWTAuth(cfg.JWT.Secret))

	// Master data
	vendors := api.Group("/vendors")
	{
		vendors.GET("", h.Vendor.List)
		vendors.GET("/:id", h.Vendor.Get)
		vendors.POST("", h.Vendor.Create)
		vendors.PUT("/:id", h.Vendor.Update)
		vendors.DELETE("/:id", h.Vendor.Delete)
	}

	medicines := api.Group("/medicines")
	{
		medicines.GET("", h.Medicine.List)
		medicines.GET("/:id", h.Medicine.Get)
		medicines.POST("", h.Medicine.Create)
		medicines.PUT("/:id", h.Medicine.Update)
		medicines.DELETE("/:id", h.Medicine.Delete)

		medicines.GET("/:id/bom", h.Medicine.ListBOM)
		medicines.POST("/:id/bom", h.Medicine.CreateBOMLine)
		medicines.PUT("/:id/bom/:lineId", h.Medicine.UpdateBOMLine)
		medicines.DELETE("/:id/bom/:lineId", h.Medicine.DeleteBOMLine)
	}

	rawMaterials := api.Group("/raw-materials")
	{
		rawMaterials.GET("", h.Material.ListRaw)
		rawMaterials.GET("/:id", h.Material.GetRaw)
		rawMaterials.POST("", h.Material.CreateRaw)
		rawMaterials.PUT("/:id", h.Material.UpdateRaw)
		rawMaterials.DELETE("/:id", h.Material.DeleteRaw)
	}

	packingMaterials := api.Group("/packing-materials")
	{
		packingMaterials.GET("", h.Material.ListPacking)
		packingMaterials.GET("/:id", h.Material.GetPacking)
		packingMaterials.POST("", h.Material.CreatePacking)
		packingMaterials.PUT("/:id", h.Material.UpdatePacking)
		packingMaterials.DELETE("/:id", h.Material.DeletePacking)
	}

	// Proforma invoices
	pis := api.Group("/proforma-invoices")
	{
		pis.GET("", h.Proforma.List)
		pis.GET("/:id", h.Proforma.Get)
		pis.POST("", h.Proforma.Create)
		pis.PUT("/:id", h.Proforma.Update)
		pis.DELETE("/:id", h.Proforma.Delete)
		pis.POST("/:id/approve", middleware.RequireRole("pi_approver"), h.Proforma.Approve)
		pis.POST("/:id/reject", middleware.RequireRole("pi_approver"), h.Proforma.Reject)
	}

	// EOPAs
	eopas := api.Group("/eopas")
	{
		eopas.GET("", h.EOPA.List)
		eopas.GET("/:id", h.EOPA.Get)
		eopas.DELETE("/:id", h.EOPA.Delete)
		eopas.POST("/:id/approve", middleware.RequireRole("eopa_approver"), h.EOPA.Approve)
		eopas.POST("/:id/reject", middleware.RequireRole("eopa_approver"), h.EOPA.Reject)
	}

	// Purchase orders
	pos := api.Group("/purchase-orders")
	{
		pos.GET("", h.PO.List)
		pos.POST("/generate", h.PO.Generate)
		pos.POST("/submit-group", h.PO.SubmitGroup)
		pos.GET("/:id", h.PO.Get)
		pos.PUT("/:id", h.PO.Update)
		pos.DELETE("/:id", h.PO.Delete)
		pos.DELETE("/:id/items/:itemId", h.PO.DeleteLineItem)

		pos.POST("/:id/submit-for-approval", h.PO.Submit)
		pos.POST("/:id/approve", middleware.RequireRole("po_approver"), h.PO.Approve)
		pos.POST("/:id/reject", middleware.RequireRole("po_approver"), h.PO.Reject)
		pos.POST("/:id/mark-ready", h.PO.MarkReady)
		pos.POST("/:id/send-to-vendor", h.PO.SendToVendor)

		pos.GET("/:id/pdf", h.PO.DownloadPDF)
		pos.POST("/:id/send-email", h.PO.SendEmail)
	}

	// Invoices
	invoices := api.Group("/invoices")
	{
		invoices.GET("", h.Invoice.List)
		invoices.GET("/prefill", h.Invoice.Prefill)
		invoices.GET("/:id", h.Invoice.Get)
		invoices.POST("", h.Invoice.Create)
		invoices.PUT("/:id", h.Invoice.Update)
		invoices.POST("/:id/process", h.Invoice.Process)
		invoices.DELETE("/:id", h.Invoice.Delete)
	}

	// Reports
	reports := api.Group("/reports")
	{
		reports.GET("/po-register", h.Report.PORegister)
		reports.GET("/material-tracking", h.Report.MaterialTracking)
	}
}
