package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"patrimonio-system/internal/dto"
	"patrimonio-system/internal/entities"
	"patrimonio-system/pkg/constants"
	apperrors "patrimonio-system/pkg/errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const loanTable = "loans"

const loanFields = `id, nome_solicitante, departamento_solicitante,
	data_emprestimo, data_prevista_devolucao, data_devolucao_real, created_at`

type LoanRepositoryInterface interface {
	CreateInTx(ctx context.Context, tx pgx.Tx, l *entities.Loan) error
	FindByID(ctx context.Context, id string) (*entities.Loan, error)
	LockByID(ctx context.Context, tx pgx.Tx, id string) (*entities.Loan, error)
	List(ctx context.Context, filter dto.LoanFilter, now time.Time) ([]entities.Loan, error)
	SetReturnedInTx(ctx context.Context, tx pgx.Tx, id string, returnedAt time.Time) error
	CountOpenByPatrimonioInTx(ctx context.Context, tx pgx.Tx, patrimonio string) (int64, error)
}

type LoanRepository struct {
	storage *pgxpool.Pool
}

func NewLoanRepository(storage *pgxpool.Pool) LoanRepositoryInterface {
	return &LoanRepository{storage: storage}
}

func scanLoan(row pgx.Row) (*entities.Loan, error) {
	var l entities.Loan
	var returned sql.NullTime

	err := row.Scan(
		&l.ID, &l.NomeSolicitante, &l.DepartamentoSolicitante,
		&l.DataEmprestimo, &l.DataPrevistaDevolucao, &returned, &l.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao escanear empréstimo: %w", err)
	}

	if returned.Valid {
		l.DataDevolucaoReal = &returned.Time
	}
	return &l, nil
}

func (r *LoanRepository) CreateInTx(ctx context.Context, tx pgx.Tx, l *entities.Loan) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, nome_solicitante, departamento_solicitante,
			data_emprestimo, data_prevista_devolucao)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`, loanTable)

	err := tx.QueryRow(ctx, query,
		l.ID, l.NomeSolicitante, l.DepartamentoSolicitante,
		l.DataEmprestimo, l.DataPrevistaDevolucao,
	).Scan(&l.CreatedAt)
	if err != nil {
		return err
	}

	for pos, patrimonio := range l.Equipments {
		_, err = tx.Exec(ctx,
			`INSERT INTO loan_equipments (loan_id, numero_patrimonio, position) VALUES ($1, $2, $3)`,
			l.ID, patrimonio, pos)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *LoanRepository) FindByID(ctx context.Context, id string) (*entities.Loan, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, loanFields, loanTable)
	l, err := scanLoan(r.storage.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadEquipments(ctx, r.storage, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (r *LoanRepository) LockByID(ctx context.Context, tx pgx.Tx, id string) (*entities.Loan, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1 FOR UPDATE`, loanFields, loanTable)
	l, err := scanLoan(tx.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadEquipments(ctx, tx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// List filtra o status derivado direto no SQL contra o relógio recebido,
// nunca contra uma coluna gravada.
func (r *LoanRepository) List(ctx context.Context, filter dto.LoanFilter, now time.Time) ([]entities.Loan, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	builder := psql.Select(loanFields).From(loanTable).OrderBy("created_at DESC")

	switch filter.StatusDevolucao {
	case constants.LoanDevolvido:
		builder = builder.Where(sq.NotEq{"data_devolucao_real": nil})
	case constants.LoanAtrasado:
		builder = builder.Where(sq.Eq{"data_devolucao_real": nil}).
			Where(sq.Lt{"data_prevista_devolucao": now})
	case constants.LoanPendente:
		builder = builder.Where(sq.Eq{"data_devolucao_real": nil}).
			Where(sq.GtOrEq{"data_prevista_devolucao": now})
	}

	if filter.Search != "" {
		pat := "%" + filter.Search + "%"
		builder = builder.Where(sq.Or{
			sq.ILike{"nome_solicitante": pat},
			sq.ILike{"departamento_solicitante": pat},
		})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []entities.Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range loans {
		if err := r.loadEquipments(ctx, r.storage, &loans[i]); err != nil {
			return nil, err
		}
	}
	return loans, nil
}

func (r *LoanRepository) SetReturnedInTx(ctx context.Context, tx pgx.Tx, id string, returnedAt time.Time) error {
	result, err := tx.Exec(ctx,
		`UPDATE loans SET data_devolucao_real = $1 WHERE id = $2`, returnedAt, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// CountOpenByPatrimonioInTx conta empréstimos não devolvidos que ainda
// reservam o patrimônio. Usado pela exclusão de equipamento.
func (r *LoanRepository) CountOpenByPatrimonioInTx(ctx context.Context, tx pgx.Tx, patrimonio string) (int64, error) {
	var count int64
	err := tx.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM loan_equipments le
		JOIN loans l ON l.id = le.loan_id
		WHERE le.numero_patrimonio = $1 AND l.data_devolucao_real IS NULL`,
		patrimonio,
	).Scan(&count)
	return count, err
}

func (r *LoanRepository) loadEquipments(ctx context.Context, q querier, l *entities.Loan) error {
	rows, err := q.Query(ctx,
		`SELECT numero_patrimonio FROM loan_equipments WHERE loan_id = $1 ORDER BY position`, l.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	l.Equipments = l.Equipments[:0]
	for rows.Next() {
		var patrimonio string
		if err := rows.Scan(&patrimonio); err != nil {
			return err
		}
		l.Equipments = append(l.Equipments, patrimonio)
	}
	return rows.Err()
}
