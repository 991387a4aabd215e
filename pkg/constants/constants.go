package constants

// Vocabulários fechados do inventário. O registro e a importação validam
// contra as mesmas listas para nunca divergirem.

//============== STATUS DE EQUIPAMENTO ==============

const (
	StatusDisponivel = "Disponível"
	StatusEmUso      = "Em uso"
	StatusEmprestado = "Emprestado"
	StatusManutencao = "Manutenção"
	StatusBaixado    = "Baixado"
)

var EquipmentStatuses = []string{
	StatusDisponivel,
	StatusEmUso,
	StatusEmprestado,
	StatusManutencao,
	StatusBaixado,
}

//============== TIPOS DE EQUIPAMENTO ==============

const (
	TipoNotebook   = "Notebook"
	TipoDesktop    = "Desktop"
	TipoCelular    = "Celular"
	TipoTablet     = "Tablet"
	TipoMonitor    = "Monitor"
	TipoImpressora = "Impressora"
	TipoOutros     = "Outros"
)

var TiposEquipamento = []string{
	TipoNotebook,
	TipoDesktop,
	TipoCelular,
	TipoTablet,
	TipoMonitor,
	TipoImpressora,
	TipoOutros,
}

//============== DEPARTAMENTOS ==============

var Departamentos = []string{
	"SEINTEC",
	"PROTOCOLO",
	"GABINETE",
	"RH",
	"FINANCEIRO",
	"COMPRAS",
	"JURIDICO",
	"OUVIDORIA",
	"ALMOXARIFADO",
}

//============== STATUS DE DEVOLUÇÃO (derivado, nunca gravado) ==============

const (
	LoanPendente  = "Pendente"
	LoanDevolvido = "Devolvido"
	LoanAtrasado  = "Atrasado"
)

var LoanStatuses = []string{
	LoanPendente,
	LoanDevolvido,
	LoanAtrasado,
}

//============== AÇÕES DO HISTÓRICO ==============

const (
	ActionCreated       = "created"
	ActionUpdated       = "updated"
	ActionLoaned        = "loaned"
	ActionReturned      = "returned"
	ActionTermoUploaded = "termo_uploaded"
)

// Identidade gravada nas mutações vindas do caminho público, sem usuário
// autenticado.
const PublicRequestUser = "Sistema - Solicitação Pública"

//============== CACHE KEYS ==============

const (
	// Estatísticas do painel. Único dado cacheado: disponibilidade e
	// status de devolução nunca passam pelo cache.
	CacheKeyDashboardStats = "dashboard:stats"
)

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func IsValidEquipmentStatus(s string) bool { return contains(EquipmentStatuses, s) }

func IsValidTipoEquipamento(s string) bool { return contains(TiposEquipamento, s) }

func IsValidDepartamento(s string) bool { return contains(Departamentos, s) }

func IsValidLoanStatus(s string) bool { return contains(LoanStatuses, s) }
