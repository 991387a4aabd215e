package services

import (
	"context"
	"fmt"

	"patrimonio-system/internal/dto"
	"patrimonio-system/internal/repositories"
	"patrimonio-system/pkg/constants"
	"patrimonio-system/pkg/customvalidator"

	"go.uber.org/zap"
)

type ImportServiceInterface interface {
	ImportEquipments(ctx context.Context, rows []dto.EquipmentRow) (*dto.ImportReport, error)
}

// ImportService é o reconciliador de planilhas: valida linha a linha
// contra os mesmos vocabulários do registro e delega a criação ao próprio
// registro. Importação é estritamente aditiva; patrimônio repetido vira
// erro de linha, nunca atualização.
type ImportService struct {
	equipmentService EquipmentServiceInterface
	equipmentRepo    repositories.EquipmentRepositoryInterface
	logger           *zap.Logger
}

func NewImportService(
	equipmentService EquipmentServiceInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	logger *zap.Logger,
) *ImportService {
	return &ImportService{
		equipmentService: equipmentService,
		equipmentRepo:    equipmentRepo,
		logger:           logger,
	}
}

// ImportEquipments processa as linhas na ordem recebida. Uma linha ruim
// nunca derruba o lote: o erro entra no relatório e o laço segue.
func (s *ImportService) ImportEquipments(ctx context.Context, rows []dto.EquipmentRow) (*dto.ImportReport, error) {
	report := &dto.ImportReport{Errors: []dto.ImportRowError{}}
	seen := make(map[string]struct{}, len(rows))

	rowError := func(row dto.EquipmentRow, reason string) {
		report.ErrorCount++
		report.Errors = append(report.Errors, dto.ImportRowError{
			RowIndex: row.RowIndex,
			Reason:   reason,
		})
	}

	for _, row := range rows {
		if reason := validateRow(row); reason != "" {
			rowError(row, reason)
			continue
		}

		if _, dup := seen[row.NumeroPatrimonio]; dup {
			rowError(row, fmt.Sprintf("duplicado no arquivo: patrimônio %s", row.NumeroPatrimonio))
			continue
		}
		exists, err := s.equipmentRepo.ExistsByPatrimonio(ctx, row.NumeroPatrimonio)
		if err != nil {
			rowError(row, fmt.Sprintf("falha ao verificar patrimônio: %v", err))
			continue
		}
		if exists {
			rowError(row, fmt.Sprintf("duplicado: patrimônio %s já existe", row.NumeroPatrimonio))
			continue
		}

		d := dto.CreateEquipmentDTO{
			NumeroPatrimonio:  row.NumeroPatrimonio,
			NumeroSerie:       row.NumeroSerie,
			Marca:             row.Marca,
			Modelo:            row.Modelo,
			TipoEquipamento:   row.TipoEquipamento,
			DepartamentoAtual: row.DepartamentoAtual,
			Status:            row.Status,
		}
		if row.ResponsavelAtual != "" {
			responsavel := row.ResponsavelAtual
			d.ResponsavelAtual = &responsavel
		}

		if _, err := s.equipmentService.CreateImported(ctx, d); err != nil {
			rowError(row, err.Error())
			continue
		}

		seen[row.NumeroPatrimonio] = struct{}{}
		report.SuccessCount++
	}

	s.logger.Info("importação concluída",
		zap.Int("sucesso", report.SuccessCount), zap.Int("erros", report.ErrorCount))
	return report, nil
}

func validateRow(row dto.EquipmentRow) string {
	required := []struct {
		name, value string
	}{
		{"numero_patrimonio", row.NumeroPatrimonio},
		{"numero_serie", row.NumeroSerie},
		{"marca", row.Marca},
		{"modelo", row.Modelo},
		{"tipo_equipamento", row.TipoEquipamento},
		{"departamento_atual", row.DepartamentoAtual},
	}
	for _, f := range required {
		if f.value == "" {
			return fmt.Sprintf("campo obrigatório ausente: %s", f.name)
		}
	}

	if !customvalidator.IsPatrimonio(row.NumeroPatrimonio) {
		return fmt.Sprintf("numero_patrimonio inválido: %q", row.NumeroPatrimonio)
	}
	if !constants.IsValidTipoEquipamento(row.TipoEquipamento) {
		return fmt.Sprintf("tipo_equipamento inválido: %q", row.TipoEquipamento)
	}
	if !constants.IsValidDepartamento(row.DepartamentoAtual) {
		return fmt.Sprintf("departamento_atual inválido: %q", row.DepartamentoAtual)
	}
	if row.Status != "" {
		if !constants.IsValidEquipmentStatus(row.Status) {
			return fmt.Sprintf("status inválido: %q", row.Status)
		}
		if row.Status == constants.StatusEmprestado {
			return fmt.Sprintf("status %q só pode ser atribuído por empréstimo", constants.StatusEmprestado)
		}
	}
	return ""
}
