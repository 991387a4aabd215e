package errors

import (
	"errors"
	"fmt"
)

// Taxonomia de erros de domínio. Tudo que os serviços devolvem é um
// destes sentinelas (possivelmente embrulhado com %w) ou um HttpError.
var (
	// Referência a id/patrimônio inexistente.
	ErrNotFound = errors.New("registro não encontrado")

	// Violação de unicidade ou de disponibilidade (inclui a corrida de
	// reserva de empréstimo).
	ErrConflict = errors.New("conflito de unicidade ou disponibilidade")

	// Campo malformado, fora do vocabulário ou tentativa de alterar um
	// campo imutável.
	ErrInvalidArgument = errors.New("argumento inválido")

	// Operação incompatível com o estado atual, ex.: devolver um
	// empréstimo já devolvido.
	ErrInvalidOperation = errors.New("operação inválida para o estado atual")

	// Autenticação ausente ou inválida em rota de equipe.
	ErrUnauthorized = errors.New("não autorizado")

	// Falha de infraestrutura (banco, disco). Distinta da taxonomia de
	// domínio; nunca é re-tentada pelo núcleo.
	ErrInternal = errors.New("falha interna")
)

// HttpError carrega um status HTTP explícito junto com a causa. Os
// controllers o constroem quando precisam de uma mensagem específica.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Details map[string]interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, details map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Details: details}
}

func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

func Conflictf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrConflict)...)
}

func InvalidArgumentf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalidArgument)...)
}
