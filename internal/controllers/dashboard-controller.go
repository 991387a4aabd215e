package controllers

import (
	"net/http"

	"patrimonio-system/internal/services"
	"patrimonio-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type DashboardController struct {
	dashboardService services.DashboardServiceInterface
	logger           *zap.Logger
}

func NewDashboardController(dashboardService services.DashboardServiceInterface, logger *zap.Logger) *DashboardController {
	return &DashboardController{dashboardService: dashboardService, logger: logger}
}

func (c *DashboardController) Stats(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	stats, err := c.dashboardService.Stats(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, stats, "Estatísticas do painel", http.StatusOK)
}
