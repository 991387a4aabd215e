package repositories

import (
	"context"

	"patrimonio-system/internal/entities"
	apperrors "patrimonio-system/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NotificationRepositoryInterface interface {
	CreateInTx(ctx context.Context, tx pgx.Tx, n *entities.Notification) error
	List(ctx context.Context, unreadOnly bool) ([]entities.Notification, error)
	MarkRead(ctx context.Context, id string) error
}

type NotificationRepository struct {
	storage *pgxpool.Pool
}

func NewNotificationRepository(storage *pgxpool.Pool) NotificationRepositoryInterface {
	return &NotificationRepository{storage: storage}
}

func (r *NotificationRepository) CreateInTx(ctx context.Context, tx pgx.Tx, n *entities.Notification) error {
	return tx.QueryRow(ctx, `
		INSERT INTO notifications (id, message)
		VALUES ($1, $2)
		RETURNING read, created_at`,
		n.ID, n.Message,
	).Scan(&n.Read, &n.CreatedAt)
}

func (r *NotificationRepository) List(ctx context.Context, unreadOnly bool) ([]entities.Notification, error) {
	query := `SELECT id, message, read, created_at FROM notifications`
	if unreadOnly {
		query += ` WHERE NOT read`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.storage.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []entities.Notification
	for rows.Next() {
		var n entities.Notification
		if err := rows.Scan(&n.ID, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkRead é idempotente: marcar de novo uma notificação já lida não é
// erro. Só id inexistente devolve NotFound.
func (r *NotificationRepository) MarkRead(ctx context.Context, id string) error {
	result, err := r.storage.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
