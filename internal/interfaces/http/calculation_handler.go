package http

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/seller-finance-api/internal/application/analytics"
	"github.com/jhoicas/seller-finance-api/internal/application/dto"
	"github.com/jhoicas/seller-finance-api/internal/domain"
	"github.com/jhoicas/seller-finance-api/internal/domain/finance"
	"github.com/jhoicas/seller-finance-api/internal/infrastructure/spreadsheet"
)

// DREPDFGenerator genera el PDF de la DRE.
type DREPDFGenerator interface {
	GenerateDRE(ctx context.Context, d *finance.DREData) ([]byte, error)
}

// ReportHandler cálculo agrupado, DRE y sus exportaciones.
type ReportHandler struct {
	uc      *analytics.UseCase
	pdf     DREPDFGenerator
	periods periodResolver
}

func NewReportHandler(uc *analytics.UseCase, pdf DREPDFGenerator, periods periodResolver) *ReportHandler {
	return &ReportHandler{uc: uc, pdf: pdf, periods: periods}
}

func (h *ReportHandler) calculate(c *fiber.Ctx) (*finance.CalculationResult, error) {
	var q dto.CalculationQuery
	if err := c.QueryParser(&q); err != nil {
		return nil, fmt.Errorf("%w: parámetros de consulta inválidos", domain.ErrInvalidInput)
	}
	p, err := h.periods.resolve(q.PeriodQuery)
	if err != nil {
		return nil, err
	}
	opt, err := analytics.ParseCalcOptions(q.GroupBy, q.Sort, q.Desc, q.SettingsID)
	if err != nil {
		return nil, err
	}
	return h.uc.Calculate(c.UserContext(), GetUserID(c), p, opt)
}

// Calculate godoc
// @Summary      Cálculo de rentabilidad agrupado por producto o variación
// @Tags         calculations
// @Security     Bearer
// @Produce      json
// @Param        preset       query  string  false  "período predefinido"
// @Param        from         query  string  false  "YYYY-MM-DD"
// @Param        to           query  string  false  "YYYY-MM-DD"
// @Param        group_by     query  string  false  "product | variation"
// @Param        sort         query  string  false  "columna"
// @Param        desc         query  bool    false  "orden descendente"
// @Param        settings_id  query  string  false  "configuración explícita"
// @Success      200  {object}  finance.CalculationResult
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/calculations [get]
func (h *ReportHandler) Calculate(c *fiber.Ctx) error {
	if GetUserID(c) == "" {
		return unauthorized(c)
	}
	res, err := h.calculate(c)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// ExportCalculationCSV godoc
// @Summary      Exportar cálculo en CSV (separador ;)
// @Tags         calculations
// @Security     Bearer
// @Produce      text/csv
// @Router       /api/calculations/export.csv [get]
func (h *ReportHandler) ExportCalculationCSV(c *fiber.Ctx) error {
	return h.exportCalculation(c, spreadsheet.ContentTypeCSV, "calculo.csv", spreadsheet.WriteCalculationCSV)
}

// ExportCalculationXLSX godoc
// @Summary      Exportar cálculo en XLSX
// @Tags         calculations
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Router       /api/calculations/export.xlsx [get]
func (h *ReportHandler) ExportCalculationXLSX(c *fiber.Ctx) error {
	return h.exportCalculation(c, spreadsheet.ContentTypeXLSX, "calculo.xlsx", spreadsheet.WriteCalculationXLSX)
}

func (h *ReportHandler) exportCalculation(c *fiber.Ctx, contentType, filename string, write func(io.Writer, *finance.CalculationResult) error) error {
	if GetUserID(c) == "" {
		return unauthorized(c)
	}
	res, err := h.calculate(c)
	if err != nil {
		return writeError(c, err)
	}
	var buf bytes.Buffer
	if err := write(&buf, res); err != nil {
		return writeError(c, fmt.Errorf("exportar cálculo: %w", err))
	}
	return download(c, contentType, filename, buf.Bytes())
}

// DRE godoc
// @Summary      Demonstração do Resultado do Exercício del período
// @Tags         dre
// @Security     Bearer
// @Produce      json
// @Param        preset  query  string  false  "período predefinido"
// @Param        from    query  string  false  "YYYY-MM-DD"
// @Param        to      query  string  false  "YYYY-MM-DD"
// @Success      200  {object}  finance.DREData
// @Router       /api/dre [get]
func (h *ReportHandler) DRE(c *fiber.Ctx) error {
	d, err := h.dre(c)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(d)
}

// ExportDRECSV godoc
// @Summary      Exportar DRE en CSV
// @Tags         dre
// @Security     Bearer
// @Produce      text/csv
// @Router       /api/dre/export.csv [get]
func (h *ReportHandler) ExportDRECSV(c *fiber.Ctx) error {
	d, err := h.dre(c)
	if err != nil {
		return writeError(c, err)
	}
	var buf bytes.Buffer
	if err := spreadsheet.WriteDRECSV(&buf, d); err != nil {
		return writeError(c, fmt.Errorf("exportar DRE: %w", err))
	}
	return download(c, spreadsheet.ContentTypeCSV, "dre.csv", buf.Bytes())
}

// ExportDREXLSX godoc
// @Summary      Exportar DRE en XLSX
// @Tags         dre
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Router       /api/dre/export.xlsx [get]
func (h *ReportHandler) ExportDREXLSX(c *fiber.Ctx) error {
	d, err := h.dre(c)
	if err != nil {
		return writeError(c, err)
	}
	var buf bytes.Buffer
	if err := spreadsheet.WriteDREXLSX(&buf, d); err != nil {
		return writeError(c, fmt.Errorf("exportar DRE: %w", err))
	}
	return download(c, spreadsheet.ContentTypeXLSX, "dre.xlsx", buf.Bytes())
}

// ExportDREPDF godoc
// @Summary      Exportar DRE en PDF
// @Tags         dre
// @Security     Bearer
// @Produce      application/pdf
// @Router       /api/dre/export.pdf [get]
func (h *ReportHandler) ExportDREPDF(c *fiber.Ctx) error {
	d, err := h.dre(c)
	if err != nil {
		return writeError(c, err)
	}
	pdfBytes, err := h.pdf.GenerateDRE(c.UserContext(), d)
	if err != nil {
		return writeError(c, fmt.Errorf("generar PDF de la DRE: %w", err))
	}
	return download(c, "application/pdf", "dre.pdf", pdfBytes)
}

func (h *ReportHandler) dre(c *fiber.Ctx) (*finance.DREData, error) {
	userID := GetUserID(c)
	if userID == "" {
		return nil, errUnauthenticated
	}
	p, err := h.periods.fromQuery(c)
	if err != nil {
		return nil, err
	}
	return h.uc.DRE(c.UserContext(), userID, p)
}

func download(c *fiber.Ctx, contentType, filename string, body []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(body)
}
