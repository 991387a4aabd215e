package controllers

import (
	"fmt"
	"net/http"

	"patrimonio-system/internal/dto"
	"patrimonio-system/internal/services"
	apperrors "patrimonio-system/pkg/errors"
	"patrimonio-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type LoanController struct {
	loanService services.LoanServiceInterface
	logger      *zap.Logger
}

func NewLoanController(loanService services.LoanServiceInterface, logger *zap.Logger) *LoanController {
	return &LoanController{loanService: loanService, logger: logger}
}

func (c *LoanController) List(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	filter := dto.LoanFilter{
		StatusDevolucao: ctx.QueryParam("status_devolucao"),
		Search:          ctx.QueryParam("search"),
	}

	loans, err := c.loanService.List(reqCtx, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, loans, "Empréstimos listados com sucesso", http.StatusOK)
}

func (c *LoanController) Find(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	loan, err := c.loanService.Find(reqCtx, ctx.Param("id"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, loan, "Empréstimo encontrado", http.StatusOK)
}

func (c *LoanController) Create(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var d dto.CreateLoanDTO
	if err := ctx.Bind(&d); err != nil {
		return utils.ErrorResponse(ctx, fmt.Errorf("corpo da requisição inválido: %w", apperrors.ErrInvalidArgument), c.logger)
	}
	if err := ctx.Validate(&d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	loan, err := c.loanService.Create(reqCtx, d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, loan, "Empréstimo registrado com sucesso", http.StatusCreated)
}

func (c *LoanController) Return(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var d dto.ReturnLoanDTO
	if err := ctx.Bind(&d); err != nil {
		return utils.ErrorResponse(ctx, fmt.Errorf("corpo da requisição inválido: %w", apperrors.ErrInvalidArgument), c.logger)
	}
	if err := ctx.Validate(&d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	loan, err := c.loanService.Return(reqCtx, ctx.Param("id"), d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, loan, "Devolução registrada com sucesso", http.StatusOK)
}
