package services

import (
	"context"

	"patrimonio-system/internal/entities"
	"patrimonio-system/internal/repositories"

	"go.uber.org/zap"
)

type NotificationServiceInterface interface {
	List(ctx context.Context, unreadOnly bool) ([]entities.Notification, error)
	MarkRead(ctx context.Context, id string) error
}

// NotificationService é a fila consultada pela interface; nada é
// empurrado em tempo real.
type NotificationService struct {
	notificationRepo repositories.NotificationRepositoryInterface
	logger           *zap.Logger
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepositoryInterface,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo, logger: logger}
}

func (s *NotificationService) List(ctx context.Context, unreadOnly bool) ([]entities.Notification, error) {
	return s.notificationRepo.List(ctx, unreadOnly)
}

func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	return s.notificationRepo.MarkRead(ctx, id)
}
