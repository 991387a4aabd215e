package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"patrimonio-system/internal/controllers"
	"patrimonio-system/internal/repositories"
	"patrimonio-system/internal/services"
	"patrimonio-system/pkg/config"
	"patrimonio-system/pkg/filestorage"
	"patrimonio-system/pkg/middleware"
)

// InitRouter monta repositórios, serviços e controllers e registra as
// rotas. redisClient pode ser nil; o painel passa a responder direto do
// banco.
func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, fileStorage filestorage.FileStorageInterface, cfg *config.Config, logger *zap.Logger) {
	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(cfg.JWT.SecretKey, logger)
	txManager := repositories.NewTxManager(dbConn)

	equipmentRepo := repositories.NewEquipmentRepository(dbConn)
	loanRepo := repositories.NewLoanRepository(dbConn)
	historyRepo := repositories.NewHistoryRepository(dbConn)
	notificationRepo := repositories.NewNotificationRepository(dbConn)
	dashboardRepo := repositories.NewDashboardRepository(dbConn)

	var cacheRepo repositories.CacheRepositoryInterface
	if redisClient != nil {
		cacheRepo = repositories.NewRedisCacheRepository(redisClient)
	}

	equipmentService := services.NewEquipmentService(equipmentRepo, loanRepo, historyRepo, txManager, cacheRepo, logger)
	loanService := services.NewLoanService(loanRepo, equipmentRepo, historyRepo, notificationRepo, txManager, cacheRepo, logger)
	notificationService := services.NewNotificationService(notificationRepo, logger)
	importService := services.NewImportService(equipmentService, equipmentRepo, logger)
	exportService := services.NewExportService(equipmentRepo, loanRepo, logger)
	dashboardService := services.NewDashboardService(dashboardRepo, cacheRepo, cfg.Cache.DashboardTTL, logger)

	equipmentCtrl := controllers.NewEquipmentController(equipmentService, fileStorage, logger)
	loanCtrl := controllers.NewLoanController(loanService, logger)
	notificationCtrl := controllers.NewNotificationController(notificationService, logger)
	reportCtrl := controllers.NewReportController(importService, exportService, logger)
	dashboardCtrl := controllers.NewDashboardController(dashboardService, logger)
	publicCtrl := controllers.NewPublicController(equipmentService, loanService, logger)

	// Balcão público, sem autenticação.
	public := api.Group("/public")
	public.GET("/equipments", publicCtrl.AvailableEquipments)
	public.POST("/loan-requests", publicCtrl.CreateLoanRequest)

	secured := api.Group("", authMW.Auth)

	equipments := secured.Group("/equipments")
	equipments.GET("", equipmentCtrl.List)
	equipments.POST("", equipmentCtrl.Create)
	equipments.GET("/export", reportCtrl.ExportEquipments)
	equipments.GET("/import/template", reportCtrl.ImportTemplate)
	equipments.POST("/import", reportCtrl.ImportEquipments)
	equipments.GET("/:id", equipmentCtrl.Find)
	equipments.PUT("/:id", equipmentCtrl.Update)
	equipments.DELETE("/:id", equipmentCtrl.Delete)
	equipments.POST("/:id/termo", equipmentCtrl.UploadTermo)
	equipments.GET("/:id/history", equipmentCtrl.History)

	loans := secured.Group("/loans")
	loans.GET("", loanCtrl.List)
	loans.POST("", loanCtrl.Create)
	loans.GET("/export", reportCtrl.ExportLoans)
	loans.GET("/:id", loanCtrl.Find)
	loans.POST("/:id/return", loanCtrl.Return)

	notifications := secured.Group("/notifications")
	notifications.GET("", notificationCtrl.List)
	notifications.PATCH("/:id/read", notificationCtrl.MarkRead)

	secured.GET("/dashboard/stats", dashboardCtrl.Stats)
}
