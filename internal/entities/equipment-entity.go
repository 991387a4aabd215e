package entities

import "time"

type Equipment struct {
	ID                string    `json:"id"`
	NumeroPatrimonio  string    `json:"numero_patrimonio"`
	NumeroSerie       string    `json:"numero_serie"`
	Marca             string    `json:"marca"`
	Modelo            string    `json:"modelo"`
	TipoEquipamento   string    `json:"tipo_equipamento"`
	DepartamentoAtual string    `json:"departamento_atual"`
	ResponsavelAtual  *string   `json:"responsavel_atual,omitempty"`
	Status            string    `json:"status"`
	TermoDocumentRef  *string   `json:"termo_document_ref,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
