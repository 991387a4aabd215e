package controllers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"patrimonio-system/internal/dto"
	"patrimonio-system/internal/services"
	apperrors "patrimonio-system/pkg/errors"
	"patrimonio-system/pkg/filestorage"
	"patrimonio-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type EquipmentController struct {
	equipmentService services.EquipmentServiceInterface
	fileStorage      filestorage.FileStorageInterface
	logger           *zap.Logger
}

func NewEquipmentController(
	equipmentService services.EquipmentServiceInterface,
	fileStorage filestorage.FileStorageInterface,
	logger *zap.Logger,
) *EquipmentController {
	return &EquipmentController{
		equipmentService: equipmentService,
		fileStorage:      fileStorage,
		logger:           logger,
	}
}

func (c *EquipmentController) List(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	filter := dto.EquipmentFilter{
		Tipo:         ctx.QueryParam("tipo"),
		Departamento: ctx.QueryParam("departamento"),
		Status:       ctx.QueryParam("status"),
		Search:       ctx.QueryParam("search"),
	}

	equipments, err := c.equipmentService.List(reqCtx, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, equipments, "Equipamentos listados com sucesso", http.StatusOK)
}

func (c *EquipmentController) Find(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	equipment, err := c.equipmentService.Find(reqCtx, ctx.Param("id"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, equipment, "Equipamento encontrado", http.StatusOK)
}

func (c *EquipmentController) Create(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var d dto.CreateEquipmentDTO
	if err := ctx.Bind(&d); err != nil {
		return utils.ErrorResponse(ctx, fmt.Errorf("corpo da requisição inválido: %w", apperrors.ErrInvalidArgument), c.logger)
	}
	if err := ctx.Validate(&d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	equipment, err := c.equipmentService.Create(reqCtx, d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, equipment, "Equipamento cadastrado com sucesso", http.StatusCreated)
}

func (c *EquipmentController) Update(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var d dto.UpdateEquipmentDTO
	if err := ctx.Bind(&d); err != nil {
		return utils.ErrorResponse(ctx, fmt.Errorf("corpo da requisição inválido: %w", apperrors.ErrInvalidArgument), c.logger)
	}
	if err := ctx.Validate(&d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	equipment, err := c.equipmentService.Update(reqCtx, ctx.Param("id"), d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, equipment, "Equipamento atualizado com sucesso", http.StatusOK)
}

func (c *EquipmentController) Delete(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	if err := c.equipmentService.Delete(reqCtx, ctx.Param("id")); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Equipamento removido com sucesso", http.StatusOK)
}

// UploadTermo recebe o termo de responsabilidade assinado. Só PDF.
func (c *EquipmentController) UploadTermo(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(ctx, fmt.Errorf("arquivo não enviado no campo 'file': %w", apperrors.ErrInvalidArgument), c.logger)
	}

	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".pdf") {
		return utils.ErrorResponse(ctx, fmt.Errorf("apenas arquivos PDF são aceitos: %w", apperrors.ErrInvalidArgument), c.logger)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	defer src.Close()

	ref, err := c.fileStorage.Save(src, fileHeader.Filename, "termos")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.equipmentService.AttachTermo(reqCtx, ctx.Param("id"), ref); err != nil {
		// Equipamento não existe ou a gravação falhou; o arquivo órfão sai do disco.
		if delErr := c.fileStorage.Delete(ref); delErr != nil {
			c.logger.Warn("falha ao remover termo órfão", zap.String("ref", ref), zap.Error(delErr))
		}
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, echo.Map{"termo_document_ref": ref}, "Termo anexado com sucesso", http.StatusOK)
}

func (c *EquipmentController) History(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	trail, err := c.equipmentService.History(reqCtx, ctx.Param("id"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, trail, "Histórico do equipamento", http.StatusOK)
}
