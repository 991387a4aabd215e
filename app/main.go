package main

import (
	"context"
	"net/http"
	"path/filepath"

	"patrimonio-system/internal/routes"
	"patrimonio-system/migrations"
	"patrimonio-system/pkg/config"
	"patrimonio-system/pkg/customvalidator"
	"patrimonio-system/pkg/database/postgresql"
	apperrors "patrimonio-system/pkg/errors"
	"patrimonio-system/pkg/filestorage"
	applogger "patrimonio-system/pkg/logger"
	appmiddleware "patrimonio-system/pkg/middleware"
	"patrimonio-system/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	e := echo.New()
	logger := applogger.NewLogger()
	cfg := config.New()

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("pânico na requisição",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "Erro interno do servidor", err, nil)
				utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		ExposeHeaders: []string{"Content-Disposition"},
	}))
	e.Use(appmiddleware.RequestLogger(logger))

	absPath, err := filepath.Abs(cfg.Uploads.Dir)
	if err != nil {
		logger.Fatal("não foi possível resolver o diretório de uploads", zap.Error(err))
	}
	e.Static("/uploads", absPath)

	v := validator.New()
	if err := customvalidator.RegisterCustomValidations(v); err != nil {
		logger.Fatal("falha ao registrar validações customizadas", zap.Error(err))
	}
	e.Validator = utils.NewValidator(v)

	if err := migrations.Up(cfg.Postgres.DSN); err != nil {
		logger.Fatal("falha nas migrações do banco", zap.Error(err))
	}

	dbConn, err := postgresql.Connect(context.Background(), cfg.Postgres.DSN)
	if err != nil {
		logger.Fatal("falha ao conectar no PostgreSQL", zap.Error(err))
	}
	defer dbConn.Close()

	// Redis é opcional: sem ele o painel responde direto do banco.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logger.Warn("Redis indisponível, cache do painel desativado",
			zap.Error(err), zap.String("address", cfg.Redis.Address))
		redisClient = nil
	}

	fileStorage, err := filestorage.NewLocalFileStorage(cfg.Uploads.Dir)
	if err != nil {
		logger.Fatal("falha ao preparar o armazenamento de arquivos", zap.Error(err))
	}

	routes.InitRouter(e, dbConn, redisClient, fileStorage, cfg, logger)

	logger.Info("servidor iniciado", zap.String("port", cfg.Server.Port))
	if err := e.Start(":" + cfg.Server.Port); err != nil {
		logger.Fatal("erro ao iniciar o servidor", zap.Error(err))
	}
}
