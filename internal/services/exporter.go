package services

import (
	"context"
	"strings"
	"time"

	"patrimonio-system/internal/dto"
	"patrimonio-system/internal/repositories"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type ExportServiceInterface interface {
	EquipmentsXLSX(ctx context.Context, filter dto.EquipmentFilter) (*excelize.File, error)
	LoansXLSX(ctx context.Context, filter dto.LoanFilter) (*excelize.File, error)
	TemplateXLSX() (*excelize.File, error)
}

type ExportService struct {
	equipmentRepo repositories.EquipmentRepositoryInterface
	loanRepo      repositories.LoanRepositoryInterface
	logger        *zap.Logger
	now           func() time.Time
}

func NewExportService(
	equipmentRepo repositories.EquipmentRepositoryInterface,
	loanRepo repositories.LoanRepositoryInterface,
	logger *zap.Logger,
) *ExportService {
	return &ExportService{
		equipmentRepo: equipmentRepo,
		loanRepo:      loanRepo,
		logger:        logger,
		now:           time.Now,
	}
}

var equipmentHeaders = []string{
	"numero_patrimonio", "numero_serie", "marca", "modelo",
	"tipo_equipamento", "departamento_atual", "responsavel_atual", "status",
}

var loanHeaders = []string{
	"usuario", "departamento", "equipamentos", "data_emprestimo",
	"data_prevista_devolucao", "data_devolucao_real", "status_devolucao",
}

const dateFmt = "02/01/2006"

func (s *ExportService) EquipmentsXLSX(ctx context.Context, filter dto.EquipmentFilter) (*excelize.File, error) {
	equipments, err := s.equipmentRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	f, sheet := newSheet("Equipamentos", equipmentHeaders)
	for i, e := range equipments {
		responsavel := ""
		if e.ResponsavelAtual != nil {
			responsavel = *e.ResponsavelAtual
		}
		row := []interface{}{
			e.NumeroPatrimonio, e.NumeroSerie, e.Marca, e.Modelo,
			e.TipoEquipamento, e.DepartamentoAtual, responsavel, e.Status,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		f.SetSheetRow(sheet, cell, &row)
	}
	f.SetColWidth(sheet, "A", "H", 22)
	return f, nil
}

func (s *ExportService) LoansXLSX(ctx context.Context, filter dto.LoanFilter) (*excelize.File, error) {
	now := s.now()
	loans, err := s.loanRepo.List(ctx, filter, now)
	if err != nil {
		return nil, err
	}

	f, sheet := newSheet("Empréstimos", loanHeaders)
	for i, l := range loans {
		devolucaoReal := ""
		if l.DataDevolucaoReal != nil {
			devolucaoReal = l.DataDevolucaoReal.Format(dateFmt)
		}
		row := []interface{}{
			l.NomeSolicitante, l.DepartamentoSolicitante, strings.Join(l.Equipments, ", "),
			l.DataEmprestimo.Format(dateFmt), l.DataPrevistaDevolucao.Format(dateFmt),
			devolucaoReal, l.StatusDevolucao(now),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		f.SetSheetRow(sheet, cell, &row)
	}
	f.SetColWidth(sheet, "A", "C", 30)
	f.SetColWidth(sheet, "D", "G", 22)
	return f, nil
}

// TemplateXLSX gera a planilha modelo da importação: cabeçalho esperado
// mais duas linhas de exemplo preenchidas.
func (s *ExportService) TemplateXLSX() (*excelize.File, error) {
	f, sheet := newSheet("Modelo", equipmentHeaders)

	examples := [][]interface{}{
		{"PAT-001", "SN-ABC123", "Dell", "Latitude 5420", "Notebook", "SEINTEC", "João Silva", "Disponível"},
		{"PAT-002", "SN-DEF456", "HP", "ProDesk 400", "Desktop", "FINANCEIRO", "", "Manutenção"},
	}
	for i, row := range examples {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		f.SetSheetRow(sheet, cell, &row)
	}
	f.SetColWidth(sheet, "A", "H", 22)
	return f, nil
}

func newSheet(name string, headers []string) (*excelize.File, string) {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", name)
	f.SetSheetRow(name, "A1", &headers)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	end, _ := excelize.CoordinatesToCellName(len(headers), 1)
	f.SetCellStyle(name, "A1", end, style)
	return f, name
}
