package repositories

import (
	"context"

	"patrimonio-system/internal/entities"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// HistoryRepositoryInterface é a trilha append-only por equipamento. A
// escrita só existe em transação: mutação e histórico entram juntos ou
// nenhum dos dois fica visível.
type HistoryRepositoryInterface interface {
	CreateInTx(ctx context.Context, tx pgx.Tx, h *entities.HistoryEntry) error
	FindByEquipmentID(ctx context.Context, equipmentID string) ([]entities.HistoryEntry, error)
}

type HistoryRepository struct {
	storage *pgxpool.Pool
}

func NewHistoryRepository(storage *pgxpool.Pool) HistoryRepositoryInterface {
	return &HistoryRepository{storage: storage}
}

func (r *HistoryRepository) CreateInTx(ctx context.Context, tx pgx.Tx, h *entities.HistoryEntry) error {
	return tx.QueryRow(ctx, `
		INSERT INTO equipment_history (id, equipment_id, action, description, user_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING seq, ts`,
		h.ID, h.EquipmentID, h.Action, h.Description, h.User,
	).Scan(&h.Seq, &h.Timestamp)
}

// FindByEquipmentID devolve a trilha em ordem cronológica; empates de
// timestamp são desfeitos pela ordem de inserção (seq).
func (r *HistoryRepository) FindByEquipmentID(ctx context.Context, equipmentID string) ([]entities.HistoryEntry, error) {
	rows, err := r.storage.Query(ctx, `
		SELECT seq, id, equipment_id, action, description, user_name, ts
		FROM equipment_history
		WHERE equipment_id = $1
		ORDER BY ts ASC, seq ASC`, equipmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []entities.HistoryEntry
	for rows.Next() {
		var h entities.HistoryEntry
		if err := rows.Scan(&h.Seq, &h.ID, &h.EquipmentID, &h.Action, &h.Description, &h.User, &h.Timestamp); err != nil {
			return nil, err
		}
		entries = append(entries, h)
	}
	return entries, rows.Err()
}
