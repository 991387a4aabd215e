package services

import (
	"context"
	"fmt"
	"strings"

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

type EquipmentServiceInterface interface {
	List(ctx context.Context, filter dto.EquipmentFilter) ([]entities.Equipment, error)
	ListAvailable(ctx context.Context) ([]entities.Equipment, error)
	Find(ctx context.Context, id string) (*entities.Equipment, error)
	Create(ctx context.Context, d dto.CreateEquipmentDTO) (*entities.Equipment, error)
	CreateImported(ctx context.Context, d dto.CreateEquipmentDTO) (*entities.Equipment, error)
	Update(ctx context.Context, id string, d dto.UpdateEquipmentDTO) (*entities.Equipment, error)
	Delete(ctx context.Context, id string) error
	AttachTermo(ctx context.Context, id string, ref string) error
	History(ctx context.Context, id string) ([]entities.HistoryEntry, error)
}

// EquipmentService é o registro de equipamentos: dono das linhas e da
// máquina de estados de status. O status Emprestado pertence ao módulo de
// empréstimos e nunca é aceito em mutação direta.
type EquipmentService struct {
	equipmentRepo repositories.EquipmentRepositoryInterface
	loanRepo      repositories.LoanRepositoryInterface
	historyRepo   repositories.HistoryRepositoryInterface
	txManager     repositories.TxManagerInterface
	cacheRepo     repositories.CacheRepositoryInterface
	logger        *zap.Logger
}

func NewEquipmentService(
	equipmentRepo repositories.EquipmentRepositoryInterface,
	loanRepo repositories.LoanRepositoryInterface,
	historyRepo repositories.HistoryRepositoryInterface,
	txManager repositories.TxManagerInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	logger *zap.Logger,
) *EquipmentService {
	return &EquipmentService{
		equipmentRepo: equipmentRepo,
		loanRepo:      loanRepo,
		historyRepo:   historyRepo,
		txManager:     txManager,
		cacheRepo:     cacheRepo,
		logger:        logger,
	}
}

func (s *EquipmentService) List(ctx context.Context, filter dto.EquipmentFilter) ([]entities.Equipment, error) {
	return s.equipmentRepo.List(ctx, filter)
}

func (s *EquipmentService) ListAvailable(ctx context.Context) ([]entities.Equipment, error) {
	return s.equipmentRepo.ListAvailable(ctx)
}

func (s *EquipmentService) Find(ctx context.Context, id string) (*entities.Equipment, error) {
	return s.equipmentRepo.FindByID(ctx, id)
}

func (s *EquipmentService) Create(ctx context.Context, d dto.CreateEquipmentDTO) (*entities.Equipment, error) {
	return s.create(ctx, d, fmt.Sprintf("Equipamento criado: %s", d.NumeroPatrimonio))
}

// CreateImported é o caminho usado pela importação em massa; só muda a
// descrição gravada no histórico.
func (s *EquipmentService) CreateImported(ctx context.Context, d dto.CreateEquipmentDTO) (*entities.Equipment, error) {
	return s.create(ctx, d, fmt.Sprintf("Equipamento importado via planilha: %s", d.NumeroPatrimonio))
}

func (s *EquipmentService) create(ctx context.Context, d dto.CreateEquipmentDTO, description string) (*entities.Equipment, error) {
	actor, err := utils.ActingUserFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	status := d.Status
	if status == "" {
		status = constants.StatusDisponivel
	}
	if status == constants.StatusEmprestado {
		return nil, apperrors.InvalidArgumentf("status %q é controlado pelo módulo de empréstimos", constants.StatusEmprestado)
	}

	e := &entities.Equipment{
		ID:                uuid.NewString(),
		NumeroPatrimonio:  d.NumeroPatrimonio,
		NumeroSerie:       d.NumeroSerie,
		Marca:             d.Marca,
		Modelo:            d.Modelo,
		TipoEquipamento:   d.TipoEquipamento,
		DepartamentoAtual: d.DepartamentoAtual,
		ResponsavelAtual:  d.ResponsavelAtual,
		Status:            status,
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.equipmentRepo.CreateInTx(ctx, tx, e); err != nil {
			return err
		}
		return s.historyRepo.CreateInTx(ctx, tx, &entities.HistoryEntry{
			ID:          uuid.NewString(),
			EquipmentID: e.ID,
			Action:      constants.ActionCreated,
			Description: description,
			User:        actor,
		})
	})
	if err != nil {
		s.logger.Error("erro ao criar equipamento",
			zap.String("numero_patrimonio", d.NumeroPatrimonio), zap.Error(err))
		return nil, err
	}

	invalidateDashboardStats(ctx, s.cacheRepo, s.logger)
	s.logger.Info("equipamento criado",
		zap.String("id", e.ID), zap.String("numero_patrimonio", e.NumeroPatrimonio))
	return e, nil
}

func (s *EquipmentService) Update(ctx context.Context, id string, d dto.UpdateEquipmentDTO) (*entities.Equipment, error) {
	actor, err := utils.ActingUserFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	var updated *entities.Equipment
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		existing, err := s.equipmentRepo.LockByID(ctx, tx, id)
		if err != nil {
			return err
		}

		if d.NumeroPatrimonio != nil && *d.NumeroPatrimonio != existing.NumeroPatrimonio {
			return apperrors.InvalidArgumentf("numero_patrimonio é imutável")
		}
		if err := validateStatusTransition(existing.Status, d.Status); err != nil {
			return err
		}

		next := *existing
		next.NumeroSerie = d.NumeroSerie
		next.Marca = d.Marca
		next.Modelo = d.Modelo
		next.TipoEquipamento = d.TipoEquipamento
		next.DepartamentoAtual = d.DepartamentoAtual
		next.ResponsavelAtual = d.ResponsavelAtual
		next.Status = d.Status

		if err := s.equipmentRepo.UpdateInTx(ctx, tx, &next); err != nil {
			return err
		}

		updated = &next
		return s.historyRepo.CreateInTx(ctx, tx, &entities.HistoryEntry{
			ID:          uuid.NewString(),
			EquipmentID: existing.ID,
			Action:      constants.ActionUpdated,
			Description: describeDiff(existing, &next),
			User:        actor,
		})
	})
	if err != nil {
		return nil, err
	}

	invalidateDashboardStats(ctx, s.cacheRepo, s.logger)
	return updated, nil
}

// validateStatusTransition guarda a máquina de estados: Emprestado só
// entra e sai pelo módulo de empréstimos; durante um empréstimo o
// equipamento ainda pode ser baixado ou ir para manutenção.
func validateStatusTransition(current, next string) error {
	if current == next {
		return nil
	}
	if next == constants.StatusEmprestado {
		return apperrors.InvalidArgumentf("status %q é controlado pelo módulo de empréstimos", constants.StatusEmprestado)
	}
	if current == constants.StatusEmprestado &&
		next != constants.StatusManutencao && next != constants.StatusBaixado {
		return apperrors.InvalidArgumentf("equipamento emprestado só pode mudar para %q ou %q",
			constants.StatusManutencao, constants.StatusBaixado)
	}
	return nil
}

func describeDiff(before, after *entities.Equipment) string {
	var parts []string
	add := func(field, old, new string) {
		if old != new {
			parts = append(parts, fmt.Sprintf("%s: %q -> %q", field, old, new))
		}
	}

	add("numero_serie", before.NumeroSerie, after.NumeroSerie)
	add("marca", before.Marca, after.Marca)
	add("modelo", before.Modelo, after.Modelo)
	add("tipo_equipamento", before.TipoEquipamento, after.TipoEquipamento)
	add("departamento_atual", before.DepartamentoAtual, after.DepartamentoAtual)
	add("responsavel_atual", strDeref(before.ResponsavelAtual), strDeref(after.ResponsavelAtual))
	add("status", before.Status, after.Status)

	if len(parts) == 0 {
		return "Equipamento atualizado sem alterações de campos"
	}
	return "Equipamento atualizado: " + strings.Join(parts, "; ")
}

func strDeref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Delete remove o equipamento; falha com Conflict enquanto houver
// empréstimo aberto reservando o patrimônio. O histórico permanece sob o
// id removido (tombstone).
func (s *EquipmentService) Delete(ctx context.Context, id string) error {
	if _, err := utils.ActingUserFromCtx(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		e, err := s.equipmentRepo.LockByID(ctx, tx, id)
		if err != nil {
			return err
		}

		open, err := s.loanRepo.CountOpenByPatrimonioInTx(ctx, tx, e.NumeroPatrimonio)
		if err != nil {
			return err
		}
		if open > 0 {
			return apperrors.Conflictf("equipamento %s está vinculado a empréstimo em aberto", e.NumeroPatrimonio)
		}

		return s.equipmentRepo.DeleteInTx(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	invalidateDashboardStats(ctx, s.cacheRepo, s.logger)
	return nil
}

func (s *EquipmentService) AttachTermo(ctx context.Context, id string, ref string) error {
	actor, err := utils.ActingUserFromCtx(ctx)
	if err != nil {
		return err
	}
	if ref == "" {
		return apperrors.InvalidArgumentf("referência de documento vazia")
	}

	return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		e, err := s.equipmentRepo.LockByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := s.equipmentRepo.SetTermoRefInTx(ctx, tx, e.ID, ref); err != nil {
			return err
		}
		return s.historyRepo.CreateInTx(ctx, tx, &entities.HistoryEntry{
			ID:          uuid.NewString(),
			EquipmentID: e.ID,
			Action:      constants.ActionTermoUploaded,
			Description: "Termo de responsabilidade anexado",
			User:        actor,
		})
	})
}

func (s *EquipmentService) History(ctx context.Context, id string) ([]entities.HistoryEntry, error) {
	if _, err := s.equipmentRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return s.historyRepo.FindByEquipmentID(ctx, id)
}
