package dto

// EquipmentRow é uma linha de planilha já separada em campos pelo
// colaborador de planilhas. RowIndex é o número da linha no arquivo
// original, usado no relatório de erros.
type EquipmentRow struct {
	RowIndex          int
	NumeroPatrimonio  string
	NumeroSerie       string
	Marca             string
	Modelo            string
	TipoEquipamento   string
	DepartamentoAtual string
	ResponsavelAtual  string
	Status            string
}

type ImportRowError struct {
	RowIndex int    `json:"row_index"`
	Reason   string `json:"reason"`
}

type ImportReport struct {
	SuccessCount int              `json:"success_count"`
	ErrorCount   int              `json:"error_count"`
	Errors       []ImportRowError `json:"errors"`
}
