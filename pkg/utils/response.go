package utils

import (
	"errors"
	"net/http"

	apperrors "patrimonio-system/pkg/errors"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type HTTPResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int) error {
	return ctx.JSON(code, &HTTPResponse{
		Status:  true,
		Body:    body,
		Message: message,
	})
}

// ErrorResponse traduz a taxonomia de domínio para status HTTP. Erros fora
// da taxonomia viram 500 genérico; a causa fica só no log.
func ErrorResponse(ctx echo.Context, err error, logger *zap.Logger) error {
	code := http.StatusInternalServerError
	message := "Erro interno do servidor"

	var httpErr *apperrors.HttpError
	var validationErrs validator.ValidationErrors

	switch {
	case errors.As(err, &httpErr):
		code = httpErr.Code
		message = httpErr.Message
	case errors.As(err, &validationErrs):
		code = http.StatusBadRequest
		message = "Dados inválidos: " + validationErrs.Error()
	case errors.Is(err, apperrors.ErrNotFound):
		code = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, apperrors.ErrConflict):
		code = http.StatusConflict
		message = err.Error()
	case errors.Is(err, apperrors.ErrInvalidArgument):
		code = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, apperrors.ErrInvalidOperation):
		code = http.StatusUnprocessableEntity
		message = err.Error()
	case errors.Is(err, apperrors.ErrUnauthorized):
		code = http.StatusUnauthorized
		message = err.Error()
	default:
		if logger != nil {
			logger.Error("erro não mapeado na borda HTTP", zap.Error(err))
		}
	}

	return ctx.JSON(code, &HTTPResponse{
		Status:  false,
		Body:    struct{}{},
		Message: message,
	})
}
