package dto

type CreateEquipmentDTO struct {
	NumeroPatrimonio  string  `json:"numero_patrimonio" validate:"required,patrimonio"`
	NumeroSerie       string  `json:"numero_serie" validate:"required"`
	Marca             string  `json:"marca" validate:"required"`
	Modelo            string  `json:"modelo" validate:"required"`
	TipoEquipamento   string  `json:"tipo_equipamento" validate:"required,tipo_equipamento"`
	DepartamentoAtual string  `json:"departamento_atual" validate:"required,departamento"`
	ResponsavelAtual  *string `json:"responsavel_atual,omitempty"`
	Status            string  `json:"status" validate:"omitempty,status_equipamento"`
}

// UpdateEquipmentDTO substitui os campos por inteiro. NumeroPatrimonio é
// imutável: se vier preenchido com valor diferente, a operação falha.
type UpdateEquipmentDTO struct {
	NumeroPatrimonio  *string `json:"numero_patrimonio,omitempty"`
	NumeroSerie       string  `json:"numero_serie" validate:"required"`
	Marca             string  `json:"marca" validate:"required"`
	Modelo            string  `json:"modelo" validate:"required"`
	TipoEquipamento   string  `json:"tipo_equipamento" validate:"required,tipo_equipamento"`
	DepartamentoAtual string  `json:"departamento_atual" validate:"required,departamento"`
	ResponsavelAtual  *string `json:"responsavel_atual,omitempty"`
	Status            string  `json:"status" validate:"required,status_equipamento"`
}

type EquipmentFilter struct {
	Tipo         string
	Departamento string
	Status       string
	Search       string
}
