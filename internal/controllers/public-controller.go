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

// PublicController atende o balcão de autoatendimento: listagem do que
// está disponível e abertura de solicitação de empréstimo, sem login.
type PublicController struct {
	equipmentService services.EquipmentServiceInterface
	loanService      services.LoanServiceInterface
	logger           *zap.Logger
}

func NewPublicController(
	equipmentService services.EquipmentServiceInterface,
	loanService services.LoanServiceInterface,
	logger *zap.Logger,
) *PublicController {
	return &PublicController{
		equipmentService: equipmentService,
		loanService:      loanService,
		logger:           logger,
	}
}

func (c *PublicController) AvailableEquipments(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	equipments, err := c.equipmentService.ListAvailable(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, equipments, "Equipamentos disponíveis", http.StatusOK)
}

func (c *PublicController) CreateLoanRequest(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var d dto.CreateLoanDTO
	if err := ctx.Bind(&d); err != nil {
		return utils.ErrorResponse(ctx, fmt.Errorf("corpo da requisição inválido: %w", apperrors.ErrInvalidArgument), c.logger)
	}
	if err := ctx.Validate(&d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	loan, err := c.loanService.SubmitPublicRequest(reqCtx, d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, loan, "Solicitação registrada com sucesso", http.StatusCreated)
}
