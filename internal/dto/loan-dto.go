package dto

import (
	"time"

	"patrimonio-system/internal/entities"
)

type CreateLoanDTO struct {
	NomeSolicitante         string    `json:"nome_solicitante" validate:"required"`
	DepartamentoSolicitante string    `json:"departamento_solicitante" validate:"required"`
	DataEmprestimo          time.Time `json:"data_emprestimo" validate:"required"`
	DataPrevistaDevolucao   time.Time `json:"data_prevista_devolucao" validate:"required"`
	Equipments              []string  `json:"equipments" validate:"required,min=1,dive,required"`
}

type ReturnLoanDTO struct {
	DataDevolucaoReal time.Time `json:"data_devolucao_real" validate:"required"`
}

type LoanFilter struct {
	StatusDevolucao string
	Search          string
}

// LoanDTO é a projeção de leitura: igual à entidade mais o status derivado
// calculado no momento da resposta.
type LoanDTO struct {
	entities.Loan
	StatusDevolucao string `json:"status_devolucao"`
}

func NewLoanDTO(l entities.Loan, now time.Time) LoanDTO {
	return LoanDTO{Loan: l, StatusDevolucao: l.StatusDevolucao(now)}
}
