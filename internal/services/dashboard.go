package services

import (
	"context"
	"encoding/json"
	"time"

	"patrimonio-system/internal/dto"
	"patrimonio-system/internal/repositories"
	"patrimonio-system/pkg/constants"

	"go.uber.org/zap"
)

type DashboardServiceInterface interface {
	Stats(ctx context.Context) (*dto.DashboardStats, error)
}

// DashboardService agrega contadores do painel. O cache é um atalho de
// leitura com TTL curto; qualquer falha nele é apenas logada e a resposta
// vem direto do banco.
type DashboardService struct {
	dashboardRepo repositories.DashboardRepositoryInterface
	cacheRepo     repositories.CacheRepositoryInterface
	cacheTTL      time.Duration
	logger        *zap.Logger
	now           func() time.Time
}

func NewDashboardService(
	dashboardRepo repositories.DashboardRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		dashboardRepo: dashboardRepo,
		cacheRepo:     cacheRepo,
		cacheTTL:      cacheTTL,
		logger:        logger,
		now:           time.Now,
	}
}

// invalidateDashboardStats descarta o snapshot do painel depois de uma
// mutação que altera os contadores. Falha de cache é apenas logada.
func invalidateDashboardStats(ctx context.Context, cache repositories.CacheRepositoryInterface, logger *zap.Logger) {
	if cache == nil {
		return
	}
	if err := cache.Delete(ctx, constants.CacheKeyDashboardStats); err != nil {
		logger.Warn("falha ao invalidar cache do painel", zap.Error(err))
	}
}

func (s *DashboardService) Stats(ctx context.Context) (*dto.DashboardStats, error) {
	if s.cacheRepo != nil {
		if cached, err := s.cacheRepo.Get(ctx, constants.CacheKeyDashboardStats); err == nil {
			var stats dto.DashboardStats
			unmarshalErr := json.Unmarshal([]byte(cached), &stats)
			if unmarshalErr == nil {
				return &stats, nil
			}
			s.logger.Warn("cache do painel corrompido, ignorando", zap.Error(unmarshalErr))
		}
	}

	stats, err := s.dashboardRepo.GetStats(ctx, s.now())
	if err != nil {
		return nil, err
	}

	if s.cacheRepo != nil {
		if payload, err := json.Marshal(stats); err == nil {
			if err := s.cacheRepo.Set(ctx, constants.CacheKeyDashboardStats, string(payload), s.cacheTTL); err != nil {
				s.logger.Warn("falha ao gravar cache do painel", zap.Error(err))
			}
		}
	}
	return stats, nil
}
