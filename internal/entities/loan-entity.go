package entities

import (
	"time"

	"patrimonio-system/pkg/constants"
)

type Loan struct {
	ID                      string     `json:"id"`
	NomeSolicitante         string     `json:"nome_solicitante"`
	DepartamentoSolicitante string     `json:"departamento_solicitante"`
	DataEmprestimo          time.Time  `json:"data_emprestimo"`
	DataPrevistaDevolucao   time.Time  `json:"data_prevista_devolucao"`
	DataDevolucaoReal       *time.Time `json:"data_devolucao_real,omitempty"`
	// Patrimônios na ordem em que foram pedidos.
	Equipments []string  `json:"equipments"`
	CreatedAt  time.Time `json:"created_at"`
}

// StatusDevolucao é derivado do relógio a cada leitura, nunca persistido:
// Devolvido se houve devolução real, Atrasado se a data prevista já passou,
// Pendente caso contrário.
func (l *Loan) StatusDevolucao(now time.Time) string {
	if l.DataDevolucaoReal != nil {
		return constants.LoanDevolvido
	}
	if now.After(l.DataPrevistaDevolucao) {
		return constants.LoanAtrasado
	}
	return constants.LoanPendente
}

// Open informa se o empréstimo ainda reserva seus equipamentos.
func (l *Loan) Open() bool {
	return l.DataDevolucaoReal == nil
}
