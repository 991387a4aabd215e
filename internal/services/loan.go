package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"patrimonio-system/internal/dto"
	"patrimonio-system/internal/entities"
	"patrimonio-system/internal/repositories"
	"patrimonio-system/pkg/constants"
	apperrors "patrimonio-system/pkg/errors"
	"patrimonio-system/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type LoanServiceInterface interface {
	Create(ctx context.Context, d dto.CreateLoanDTO) (*dto.LoanDTO, error)
	SubmitPublicRequest(ctx context.Context, d dto.CreateLoanDTO) (*dto.LoanDTO, error)
	Return(ctx context.Context, id string, d dto.ReturnLoanDTO) (*dto.LoanDTO, error)
	Find(ctx context.Context, id string) (*dto.LoanDTO, error)
	List(ctx context.Context, filter dto.LoanFilter) ([]dto.LoanDTO, error)
}

// LoanService é o livro-razão de empréstimos. Reserva equipamentos de
// forma tudo-ou-nada dentro de uma transação com as linhas trancadas, de
// modo que duas reservas concorrentes sobre o mesmo patrimônio nunca
// tenham sucesso ao mesmo tempo.
type LoanService struct {
	loanRepo         repositories.LoanRepositoryInterface
	equipmentRepo    repositories.EquipmentRepositoryInterface
	historyRepo      repositories.HistoryRepositoryInterface
	notificationRepo repositories.NotificationRepositoryInterface
	txManager        repositories.TxManagerInterface
	cacheRepo        repositories.CacheRepositoryInterface
	logger           *zap.Logger
	now              func() time.Time
}

func NewLoanService(
	loanRepo repositories.LoanRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	historyRepo repositories.HistoryRepositoryInterface,
	notificationRepo repositories.NotificationRepositoryInterface,
	txManager repositories.TxManagerInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	logger *zap.Logger,
) *LoanService {
	return &LoanService{
		loanRepo:         loanRepo,
		equipmentRepo:    equipmentRepo,
		historyRepo:      historyRepo,
		notificationRepo: notificationRepo,
		txManager:        txManager,
		cacheRepo:        cacheRepo,
		logger:           logger,
		now:              time.Now,
	}
}

func (s *LoanService) Create(ctx context.Context, d dto.CreateLoanDTO) (*dto.LoanDTO, error) {
	actor, err := utils.ActingUserFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, d, actor, false)
}

// SubmitPublicRequest aplica exatamente as mesmas regras de
// disponibilidade do caminho autenticado e registra uma notificação para
// a equipe. O caminho público nunca contorna invariantes.
func (s *LoanService) SubmitPublicRequest(ctx context.Context, d dto.CreateLoanDTO) (*dto.LoanDTO, error) {
	return s.create(ctx, d, constants.PublicRequestUser, true)
}

func (s *LoanService) create(ctx context.Context, d dto.CreateLoanDTO, actor string, public bool) (*dto.LoanDTO, error) {
	if err := rejectDuplicateTags(d.Equipments); err != nil {
		return nil, err
	}

	loan := &entities.Loan{
		ID:                      uuid.NewString(),
		NomeSolicitante:         d.NomeSolicitante,
		DepartamentoSolicitante: d.DepartamentoSolicitante,
		DataEmprestimo:          d.DataEmprestimo,
		DataPrevistaDevolucao:   d.DataPrevistaDevolucao,
		Equipments:              d.Equipments,
	}

	loanDescription := fmt.Sprintf("Emprestado para %s", d.NomeSolicitante)
	if public {
		loanDescription += " (Solicitação Pública)"
	}

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		// Tranca todos os equipamentos antes de qualquer gravação:
		// reserva tudo-ou-nada, sem reserva parcial. A ordem de
		// travamento é sempre a ordenada, para que duas reservas
		// concorrentes nunca adquiram as mesmas linhas em ordens
		// opostas.
		locked := make(map[string]*entities.Equipment, len(d.Equipments))
		for _, patrimonio := range sortedTags(d.Equipments) {
			e, err := s.equipmentRepo.LockByPatrimonio(ctx, tx, patrimonio)
			if err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					return apperrors.NotFoundf("equipamento %s não encontrado", patrimonio)
				}
				return err
			}
			if e.Status != constants.StatusDisponivel {
				return apperrors.Conflictf("equipamento %s não está disponível (status %s)", patrimonio, e.Status)
			}
			locked[patrimonio] = e
		}

		if err := s.loanRepo.CreateInTx(ctx, tx, loan); err != nil {
			return err
		}

		for _, patrimonio := range d.Equipments {
			e := locked[patrimonio]
			if err := s.equipmentRepo.UpdateStatusInTx(ctx, tx, e.ID, constants.StatusEmprestado); err != nil {
				return err
			}
			err := s.historyRepo.CreateInTx(ctx, tx, &entities.HistoryEntry{
				ID:          uuid.NewString(),
				EquipmentID: e.ID,
				Action:      constants.ActionLoaned,
				Description: loanDescription,
				User:        actor,
			})
			if err != nil {
				return err
			}
		}

		if public {
			return s.notificationRepo.CreateInTx(ctx, tx, &entities.Notification{
				ID: uuid.NewString(),
				Message: fmt.Sprintf("Nova solicitação de empréstimo: %s - %d equipamento(s)",
					d.NomeSolicitante, len(d.Equipments)),
			})
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("empréstimo rejeitado",
			zap.String("solicitante", d.NomeSolicitante), zap.Error(err))
		return nil, err
	}

	invalidateDashboardStats(ctx, s.cacheRepo, s.logger)
	s.logger.Info("empréstimo criado",
		zap.String("id", loan.ID), zap.Int("equipamentos", len(loan.Equipments)))
	result := dto.NewLoanDTO(*loan, s.now())
	return &result, nil
}

// Return grava a devolução uma única vez. O estado do equipamento vence o
// estado implicado pelo empréstimo: quem entrou em Manutenção ou foi
// Baixado no meio tempo não volta para Disponível.
func (s *LoanService) Return(ctx context.Context, id string, d dto.ReturnLoanDTO) (*dto.LoanDTO, error) {
	actor, err := utils.ActingUserFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	var loan *entities.Loan
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		l, err := s.loanRepo.LockByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if !l.Open() {
			return fmt.Errorf("empréstimo já devolvido: %w", apperrors.ErrInvalidOperation)
		}

		if err := s.loanRepo.SetReturnedInTx(ctx, tx, l.ID, d.DataDevolucaoReal); err != nil {
			return err
		}

		locked := make(map[string]*entities.Equipment, len(l.Equipments))
		for _, patrimonio := range sortedTags(l.Equipments) {
			e, err := s.equipmentRepo.LockByPatrimonio(ctx, tx, patrimonio)
			if err != nil {
				return err
			}
			locked[patrimonio] = e
		}

		for _, patrimonio := range l.Equipments {
			e := locked[patrimonio]
			if e.Status == constants.StatusEmprestado {
				if err := s.equipmentRepo.UpdateStatusInTx(ctx, tx, e.ID, constants.StatusDisponivel); err != nil {
					return err
				}
			}
			err = s.historyRepo.CreateInTx(ctx, tx, &entities.HistoryEntry{
				ID:          uuid.NewString(),
				EquipmentID: e.ID,
				Action:      constants.ActionReturned,
				Description: fmt.Sprintf("Devolvido por %s", l.NomeSolicitante),
				User:        actor,
			})
			if err != nil {
				return err
			}
		}

		returnedAt := d.DataDevolucaoReal
		l.DataDevolucaoReal = &returnedAt
		loan = l
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidateDashboardStats(ctx, s.cacheRepo, s.logger)
	result := dto.NewLoanDTO(*loan, s.now())
	return &result, nil
}

func (s *LoanService) Find(ctx context.Context, id string) (*dto.LoanDTO, error) {
	l, err := s.loanRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := dto.NewLoanDTO(*l, s.now())
	return &result, nil
}

func (s *LoanService) List(ctx context.Context, filter dto.LoanFilter) ([]dto.LoanDTO, error) {
	if filter.StatusDevolucao != "" && !constants.IsValidLoanStatus(filter.StatusDevolucao) {
		return nil, apperrors.InvalidArgumentf("status_devolucao inválido: %q", filter.StatusDevolucao)
	}

	now := s.now()
	loans, err := s.loanRepo.List(ctx, filter, now)
	if err != nil {
		return nil, err
	}

	result := make([]dto.LoanDTO, 0, len(loans))
	for _, l := range loans {
		result = append(result, dto.NewLoanDTO(l, now))
	}
	return result, nil
}

func sortedTags(tags []string) []string {
	out := append([]string(nil), tags...)
	sort.Strings(out)
	return out
}

func rejectDuplicateTags(tags []string) error {
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		if _, dup := seen[tag]; dup {
			return apperrors.InvalidArgumentf("equipamento %s listado mais de uma vez", tag)
		}
		seen[tag] = struct{}{}
	}
	return nil
}
