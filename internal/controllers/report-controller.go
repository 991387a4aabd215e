package controllers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"patrimonio-system/internal/dto"
	"patrimonio-system/internal/services"
	apperrors "patrimonio-system/pkg/errors"
	"patrimonio-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportController concentra importação e exportação de planilhas.
type ReportController struct {
	importService services.ImportServiceInterface
	exportService services.ExportServiceInterface
	logger        *zap.Logger
}

func NewReportController(
	importService services.ImportServiceInterface,
	exportService services.ExportServiceInterface,
	logger *zap.Logger,
) *ReportController {
	return &ReportController{
		importService: importService,
		exportService: exportService,
		logger:        logger,
	}
}

// ImportEquipments recebe a planilha multipart e devolve o relatório
// linha a linha. O lote nunca é abortado por linha ruim.
func (c *ReportController) ImportEquipments(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(ctx, fmt.Errorf("arquivo não enviado no campo 'file': %w", apperrors.ErrInvalidArgument), c.logger)
	}
	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".xlsx") {
		return utils.ErrorResponse(ctx, fmt.Errorf("apenas arquivos .xlsx são aceitos: %w", apperrors.ErrInvalidArgument), c.logger)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	defer src.Close()

	f, err := excelize.OpenReader(src)
	if err != nil {
		return utils.ErrorResponse(ctx, fmt.Errorf("planilha ilegível: %w", apperrors.ErrInvalidArgument), c.logger)
	}
	defer f.Close()

	rows, err := services.ParseEquipmentRows(f)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	report, err := c.importService.ImportEquipments(reqCtx, rows)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, report, "Importação processada", http.StatusOK)
}

func (c *ReportController) ExportEquipments(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	filter := dto.EquipmentFilter{
		Tipo:         ctx.QueryParam("tipo"),
		Departamento: ctx.QueryParam("departamento"),
		Status:       ctx.QueryParam("status"),
		Search:       ctx.QueryParam("search"),
	}

	f, err := c.exportService.EquipmentsXLSX(reqCtx, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return c.respondWithXLSX(ctx, f, "equipamentos")
}

func (c *ReportController) ExportLoans(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	filter := dto.LoanFilter{
		StatusDevolucao: ctx.QueryParam("status_devolucao"),
		Search:          ctx.QueryParam("search"),
	}

	f, err := c.exportService.LoansXLSX(reqCtx, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return c.respondWithXLSX(ctx, f, "emprestimos")
}

func (c *ReportController) ImportTemplate(ctx echo.Context) error {
	f, err := c.exportService.TemplateXLSX()
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return c.respondWithXLSX(ctx, f, "modelo_importacao")
}

func (c *ReportController) respondWithXLSX(ctx echo.Context, f *excelize.File, name string) error {
	fileName := fmt.Sprintf("%s_%s.xlsx", name, time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, xlsxContentType)
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
