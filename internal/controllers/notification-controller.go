package controllers

import (
	"net/http"

	"patrimonio-system/internal/services"
	"patrimonio-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type NotificationController struct {
	notificationService services.NotificationServiceInterface
	logger              *zap.Logger
}

func NewNotificationController(notificationService services.NotificationServiceInterface, logger *zap.Logger) *NotificationController {
	return &NotificationController{notificationService: notificationService, logger: logger}
}

func (c *NotificationController) List(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	unreadOnly := ctx.QueryParam("unread") == "true"
	notifications, err := c.notificationService.List(reqCtx, unreadOnly)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, notifications, "Notificações listadas com sucesso", http.StatusOK)
}

func (c *NotificationController) MarkRead(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	if err := c.notificationService.MarkRead(reqCtx, ctx.Param("id")); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Notificação marcada como lida", http.StatusOK)
}
