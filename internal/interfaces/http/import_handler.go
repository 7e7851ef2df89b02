package http

import (
	"context"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/seller-finance-api/internal/application/dto"
	"github.com/jhoicas/seller-finance-api/internal/application/importer"
	"github.com/jhoicas/seller-finance-api/internal/domain"
)

// formFile nombre del campo multipart con la planilla.
const formFile = "file"

// ImportHandler flujo de importación de planillas y cargas de TikTok Shop.
type ImportHandler struct {
	uc *importer.UseCase
}

func NewImportHandler(uc *importer.UseCase) *ImportHandler {
	return &ImportHandler{uc: uc}
}

// Upload godoc
// @Summary      Subir planilla de pedidos (CSV o XLSX) y abrir sesión de importación
// @Tags         imports
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file         formData  file    true   "planilla"
// @Param        marketplace  formData  string  false  "shopee (default) | tiktok"
// @Success      201  {object}  dto.ImportSessionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/imports [post]
func (h *ImportHandler) Upload(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	fh, err := c.FormFile(formFile)
	if err != nil {
		return writeError(c, fmt.Errorf("%w: se requiere el archivo en el campo %q", domain.ErrInvalidInput, formFile))
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, fmt.Errorf("abrir archivo subido: %w", err))
	}
	defer f.Close()
	out, err := h.uc.Upload(c.UserContext(), userID, fh.Filename, c.FormValue("marketplace"), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get estado de la sesión.
// GET /api/imports/:id
func (h *ImportHandler) Get(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.Get(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Mapping godoc
// @Summary      Confirmar el mapeo campo → columna (vacío usa la sugerencia)
// @Tags         imports
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "sesión"
// @Param        body  body  dto.ImportMappingRequest  true  "mapeo"
// @Success      200  {object}  dto.ImportSessionResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/imports/{id}/mapping [post]
func (h *ImportHandler) Mapping(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.ImportMappingRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	out, err := h.uc.ApplyMapping(c.UserContext(), userID, c.Params("id"), in.Mapping)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Costs godoc
// @Summary      Informar costos de los productos sin costo conocido
// @Tags         imports
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "sesión"
// @Param        body  body  dto.ImportCostsRequest  true  "costos"
// @Success      200  {object}  dto.ImportSessionResponse
// @Router       /api/imports/{id}/costs [post]
func (h *ImportHandler) Costs(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.ImportCostsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.ResolveCosts(c.UserContext(), userID, c.Params("id"), in.Costs)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Preview godoc
// @Summary      Vista previa de los pedidos a importar
// @Description  Si hay productos sin costo responde 422 con la lista en details.
// @Tags         imports
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "sesión"
// @Success      200  {object}  dto.ImportPreviewResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/imports/{id}/preview [post]
func (h *ImportHandler) Preview(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.Preview(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Commit godoc
// @Summary      Confirmar la importación (append o replace)
// @Tags         imports
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "sesión"
// @Param        body  body  dto.ImportCommitRequest  false  "modo"
// @Success      200  {object}  dto.ImportCommitResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/imports/{id}/commit [post]
func (h *ImportHandler) Commit(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.ImportCommitRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	out, err := h.uc.Commit(c.UserContext(), userID, c.Params("id"), in.Mode)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ImportSettlements godoc
// @Summary      Cargar liquidaciones de TikTok Shop
// @Tags         tiktok
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "planilla de liquidaciones"
// @Success      201  {object}  dto.TikTokImportResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/tiktok/settlements/import [post]
func (h *ImportHandler) ImportSettlements(c *fiber.Ctx) error {
	return h.tiktok(c, h.uc.ImportSettlements)
}

// ImportStatements godoc
// @Summary      Cargar extractos de pago de TikTok Shop
// @Tags         tiktok
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "planilla de extractos"
// @Success      201  {object}  dto.TikTokImportResponse
// @Router       /api/tiktok/statements/import [post]
func (h *ImportHandler) ImportStatements(c *fiber.Ctx) error {
	return h.tiktok(c, h.uc.ImportStatements)
}

type tiktokImport func(ctx context.Context, userID, filename string, r io.Reader) (*dto.TikTokImportResponse, error)

func (h *ImportHandler) tiktok(c *fiber.Ctx, run tiktokImport) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	fh, err := c.FormFile(formFile)
	if err != nil {
		return writeError(c, fmt.Errorf("%w: se requiere el archivo en el campo %q", domain.ErrInvalidInput, formFile))
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, fmt.Errorf("abrir archivo subido: %w", err))
	}
	defer f.Close()
	out, err := run(c.UserContext(), userID, fh.Filename, f)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
