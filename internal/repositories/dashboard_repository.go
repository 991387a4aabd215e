package repositories

import (
	"context"
	"time"

	"patrimonio-system/internal/dto"
	"patrimonio-system/pkg/constants"

	"github.com/jackc/pgx/v5/pgxpool"
)

type DashboardRepositoryInterface interface {
	GetStats(ctx context.Context, now time.Time) (*dto.DashboardStats, error)
}

type DashboardRepository struct {
	storage *pgxpool.Pool
}

func NewDashboardRepository(storage *pgxpool.Pool) DashboardRepositoryInterface {
	return &DashboardRepository{storage: storage}
}

func (r *DashboardRepository) GetStats(ctx context.Context, now time.Time) (*dto.DashboardStats, error) {
	var stats dto.DashboardStats
	err := r.storage.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM equipments),
			(SELECT COUNT(*) FROM equipments WHERE status = $1),
			(SELECT COUNT(*) FROM equipments WHERE status = $2),
			(SELECT COUNT(*) FROM equipments WHERE status = $3),
			(SELECT COUNT(*) FROM loans WHERE data_devolucao_real IS NULL AND data_prevista_devolucao >= $4),
			(SELECT COUNT(*) FROM loans WHERE data_devolucao_real IS NULL AND data_prevista_devolucao < $4)`,
		constants.StatusDisponivel, constants.StatusEmprestado, constants.StatusManutencao, now,
	).Scan(
		&stats.TotalEquipments, &stats.Available, &stats.Loaned,
		&stats.Maintenance, &stats.ActiveLoans, &stats.OverdueLoans,
	)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
