package services

import (
	"fmt"
	"strings"

	"patrimonio-system/internal/dto"
	apperrors "patrimonio-system/pkg/errors"

	"github.com/xuri/excelize/v2"
)

var importRequiredColumns = []string{
	"numero_patrimonio",
	"numero_serie",
	"marca",
	"modelo",
	"tipo_equipamento",
	"departamento_atual",
	"status",
}

// ParseEquipmentRows lê a primeira aba da planilha. A primeira linha é o
// cabeçalho e define o mapeamento de colunas; linhas totalmente vazias
// são ignoradas. RowIndex é o número da linha na planilha (base 1), para
// que o relatório de importação aponte a linha certa do arquivo.
func ParseEquipmentRows(f *excelize.File) ([]dto.EquipmentRow, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("planilha sem abas: %w", apperrors.ErrInvalidArgument)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("falha ao ler planilha: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("planilha vazia, cabeçalho ausente: %w", apperrors.ErrInvalidArgument)
	}

	colIndex := make(map[string]int)
	for i, header := range rows[0] {
		name := strings.ToLower(strings.TrimSpace(header))
		if name == "" {
			continue
		}
		if _, ok := colIndex[name]; !ok {
			colIndex[name] = i
		}
	}

	var missing []string
	for _, col := range importRequiredColumns {
		if _, ok := colIndex[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("colunas obrigatórias faltando: %s: %w",
			strings.Join(missing, ", "), apperrors.ErrInvalidArgument)
	}

	cell := func(row []string, name string) string {
		i, ok := colIndex[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	out := make([]dto.EquipmentRow, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if rowEmpty(row) {
			continue
		}
		out = append(out, dto.EquipmentRow{
			RowIndex:          i + 2,
			NumeroPatrimonio:  cell(row, "numero_patrimonio"),
			NumeroSerie:       cell(row, "numero_serie"),
			Marca:             cell(row, "marca"),
			Modelo:            cell(row, "modelo"),
			TipoEquipamento:   cell(row, "tipo_equipamento"),
			DepartamentoAtual: cell(row, "departamento_atual"),
			ResponsavelAtual:  cell(row, "responsavel_atual"),
			Status:            cell(row, "status"),
		})
	}
	return out, nil
}

func rowEmpty(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
