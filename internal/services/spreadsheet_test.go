package services

import (
	"testing"

	apperrors "patrimonio-system/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func buildSheet(t *testing.T, rows [][]interface{}) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	return f
}

func TestParseEquipmentRows(t *testing.T) {
	f := buildSheet(t, [][]interface{}{
		{"numero_patrimonio", "numero_serie", "marca", "modelo", "tipo_equipamento", "departamento_atual", "responsavel_atual", "status"},
		{"PAT-001", "SN-1", "Dell", "Latitude 5420", "Notebook", "SEINTEC", "João Silva", "Disponível"},
		{"", "", "", "", "", "", "", ""},
		{"PAT-002", "SN-2", "HP", "ProDesk 400", "Desktop", "FINANCEIRO", "", ""},
	})

	rows, err := ParseEquipmentRows(f)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 2, rows[0].RowIndex)
	assert.Equal(t, "PAT-001", rows[0].NumeroPatrimonio)
	assert.Equal(t, "João Silva", rows[0].ResponsavelAtual)
	assert.Equal(t, "Disponível", rows[0].Status)

	// Linha vazia pulada; o índice segue o da planilha.
	assert.Equal(t, 4, rows[1].RowIndex)
	assert.Equal(t, "PAT-002", rows[1].NumeroPatrimonio)
	assert.Empty(t, rows[1].Status)
}

func TestParseEquipmentRowsHeaderCaseInsensitive(t *testing.T) {
	f := buildSheet(t, [][]interface{}{
		{"Numero_Patrimonio", "NUMERO_SERIE", "marca", "modelo", "tipo_equipamento", "departamento_atual", "status"},
		{"PAT-001", "SN-1", "Dell", "Latitude", "Notebook", "SEINTEC", ""},
	})

	rows, err := ParseEquipmentRows(f)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "PAT-001", rows[0].NumeroPatrimonio)
}

func TestParseEquipmentRowsMissingColumns(t *testing.T) {
	f := buildSheet(t, [][]interface{}{
		{"numero_patrimonio", "marca", "modelo"},
		{"PAT-001", "Dell", "Latitude"},
	})

	_, err := ParseEquipmentRows(f)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "numero_serie")
	assert.Contains(t, err.Error(), "tipo_equipamento")
}

func TestParseEquipmentRowsHeaderOnly(t *testing.T) {
	f := buildSheet(t, [][]interface{}{
		{"numero_patrimonio", "numero_serie", "marca", "modelo", "tipo_equipamento", "departamento_atual", "status"},
	})

	rows, err := ParseEquipmentRows(f)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestTemplateRoundTripsThroughParser(t *testing.T) {
	env := newTestEnv()
	svc := NewExportService(env.equipmentRepo, env.loanRepo, zap.NewNop())

	f, err := svc.TemplateXLSX()
	require.NoError(t, err)

	rows, err := ParseEquipmentRows(f)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "PAT-001", rows[0].NumeroPatrimonio)
	assert.Equal(t, "Notebook", rows[0].TipoEquipamento)
}
