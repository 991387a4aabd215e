package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"patrimonio-system/internal/dto"
	"patrimonio-system/internal/entities"
	"patrimonio-system/pkg/constants"
	apperrors "patrimonio-system/pkg/errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const equipmentTable = "equipments"

const equipmentFields = `id, numero_patrimonio, numero_serie, marca, modelo,
	tipo_equipamento, departamento_atual, responsavel_atual, status,
	termo_document_ref, created_at, updated_at`

type EquipmentRepositoryInterface interface {
	List(ctx context.Context, filter dto.EquipmentFilter) ([]entities.Equipment, error)
	ListAvailable(ctx context.Context) ([]entities.Equipment, error)
	FindByID(ctx context.Context, id string) (*entities.Equipment, error)
	FindByPatrimonio(ctx context.Context, patrimonio string) (*entities.Equipment, error)
	ExistsByPatrimonio(ctx context.Context, patrimonio string) (bool, error)
	LockByID(ctx context.Context, tx pgx.Tx, id string) (*entities.Equipment, error)
	LockByPatrimonio(ctx context.Context, tx pgx.Tx, patrimonio string) (*entities.Equipment, error)
	CreateInTx(ctx context.Context, tx pgx.Tx, e *entities.Equipment) error
	UpdateInTx(ctx context.Context, tx pgx.Tx, e *entities.Equipment) error
	UpdateStatusInTx(ctx context.Context, tx pgx.Tx, id string, status string) error
	SetTermoRefInTx(ctx context.Context, tx pgx.Tx, id string, ref string) error
	DeleteInTx(ctx context.Context, tx pgx.Tx, id string) error
}

type EquipmentRepository struct {
	storage *pgxpool.Pool
}

func NewEquipmentRepository(storage *pgxpool.Pool) EquipmentRepositoryInterface {
	return &EquipmentRepository{storage: storage}
}

func scanEquipment(row pgx.Row) (*entities.Equipment, error) {
	var e entities.Equipment
	var responsavel, termoRef sql.NullString

	err := row.Scan(
		&e.ID, &e.NumeroPatrimonio, &e.NumeroSerie, &e.Marca, &e.Modelo,
		&e.TipoEquipamento, &e.DepartamentoAtual, &responsavel, &e.Status,
		&termoRef, &e.CreatedAt, &e.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao escanear equipamento: %w", err)
	}

	if responsavel.Valid {
		e.ResponsavelAtual = &responsavel.String
	}
	if termoRef.Valid {
		e.TermoDocumentRef = &termoRef.String
	}
	return &e, nil
}

func (r *EquipmentRepository) List(ctx context.Context, filter dto.EquipmentFilter) ([]entities.Equipment, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	builder := psql.Select(equipmentFields).From(equipmentTable).OrderBy("created_at DESC")

	if filter.Tipo != "" {
		builder = builder.Where(sq.Eq{"tipo_equipamento": filter.Tipo})
	}
	if filter.Departamento != "" {
		builder = builder.Where(sq.Eq{"departamento_atual": filter.Departamento})
	}
	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"status": filter.Status})
	}
	if filter.Search != "" {
		pat := "%" + filter.Search + "%"
		builder = builder.Where(sq.Or{
			sq.ILike{"numero_patrimonio": pat},
			sq.ILike{"marca": pat},
			sq.ILike{"modelo": pat},
		})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	return r.queryEquipments(ctx, query, args...)
}

func (r *EquipmentRepository) ListAvailable(ctx context.Context) ([]entities.Equipment, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE status = $1 ORDER BY numero_patrimonio`,
		equipmentFields, equipmentTable)
	return r.queryEquipments(ctx, query, constants.StatusDisponivel)
}

func (r *EquipmentRepository) queryEquipments(ctx context.Context, query string, args ...any) ([]entities.Equipment, error) {
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []entities.Equipment
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *e)
	}
	return result, rows.Err()
}

func (r *EquipmentRepository) FindByID(ctx context.Context, id string) (*entities.Equipment, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, equipmentFields, equipmentTable)
	return scanEquipment(r.storage.QueryRow(ctx, query, id))
}

func (r *EquipmentRepository) FindByPatrimonio(ctx context.Context, patrimonio string) (*entities.Equipment, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE numero_patrimonio = $1`, equipmentFields, equipmentTable)
	return scanEquipment(r.storage.QueryRow(ctx, query, patrimonio))
}

func (r *EquipmentRepository) ExistsByPatrimonio(ctx context.Context, patrimonio string) (bool, error) {
	var exists bool
	err := r.storage.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM equipments WHERE numero_patrimonio = $1)`, patrimonio,
	).Scan(&exists)
	return exists, err
}

// LockByID tranca a linha do equipamento até o fim da transação. É o
// escopo de exclusão por equipamento exigido pela reserva de empréstimo.
func (r *EquipmentRepository) LockByID(ctx context.Context, tx pgx.Tx, id string) (*entities.Equipment, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1 FOR UPDATE`, equipmentFields, equipmentTable)
	return scanEquipment(tx.QueryRow(ctx, query, id))
}

func (r *EquipmentRepository) LockByPatrimonio(ctx context.Context, tx pgx.Tx, patrimonio string) (*entities.Equipment, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE numero_patrimonio = $1 FOR UPDATE`, equipmentFields, equipmentTable)
	return scanEquipment(tx.QueryRow(ctx, query, patrimonio))
}

func (r *EquipmentRepository) CreateInTx(ctx context.Context, tx pgx.Tx, e *entities.Equipment) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, numero_patrimonio, numero_serie, marca, modelo,
			tipo_equipamento, departamento_atual, responsavel_atual, status, termo_document_ref)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`, equipmentTable)

	err := tx.QueryRow(ctx, query,
		e.ID, e.NumeroPatrimonio, e.NumeroSerie, e.Marca, e.Modelo,
		e.TipoEquipamento, e.DepartamentoAtual, e.ResponsavelAtual, e.Status, e.TermoDocumentRef,
	).Scan(&e.CreatedAt, &e.UpdatedAt)

	if isUniqueViolation(err) {
		return apperrors.Conflictf("número de patrimônio %s já existe", e.NumeroPatrimonio)
	}
	return err
}

func (r *EquipmentRepository) UpdateInTx(ctx context.Context, tx pgx.Tx, e *entities.Equipment) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET numero_serie = $1, marca = $2, modelo = $3, tipo_equipamento = $4,
			departamento_atual = $5, responsavel_atual = $6, status = $7,
			updated_at = NOW()
		WHERE id = $8`, equipmentTable)

	result, err := tx.Exec(ctx, query,
		e.NumeroSerie, e.Marca, e.Modelo, e.TipoEquipamento,
		e.DepartamentoAtual, e.ResponsavelAtual, e.Status, e.ID,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *EquipmentRepository) UpdateStatusInTx(ctx context.Context, tx pgx.Tx, id string, status string) error {
	result, err := tx.Exec(ctx,
		`UPDATE equipments SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *EquipmentRepository) SetTermoRefInTx(ctx context.Context, tx pgx.Tx, id string, ref string) error {
	result, err := tx.Exec(ctx,
		`UPDATE equipments SET termo_document_ref = $1, updated_at = NOW() WHERE id = $2`, ref, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *EquipmentRepository) DeleteInTx(ctx context.Context, tx pgx.Tx, id string) error {
	result, err := tx.Exec(ctx, `DELETE FROM equipments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
