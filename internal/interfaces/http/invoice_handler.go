package http

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
)

// InvoiceService contrato que necesita el handler; lo implementa *billing.InvoiceUseCase.
type InvoiceService interface {
	Create(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error)
	GetByID(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	GetByNumber(ctx context.Context, numero string) (*dto.InvoiceResponse, error)
	List(ctx context.Context) ([]*dto.InvoiceResponse, error)
	ListByClient(ctx context.Context, clientID string) ([]*dto.InvoiceResponse, error)
	ListByStatus(ctx context.Context, status string) ([]*dto.InvoiceResponse, error)
	ListByDateRange(ctx context.Context, start, end string) ([]*dto.InvoiceResponse, error)
	UpdateStatus(ctx context.Context, id, status string) (*dto.InvoiceResponse, error)
	Emit(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	Cancel(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	Delete(ctx context.Context, id string) error
}

// DocumentService contrato de generación de documentos; lo implementa *billing.DocumentUseCase.
type DocumentService interface {
	InvoicePDF(ctx context.Context, id string) ([]byte, string, error)
	InvoiceXML(ctx context.Context, id string) ([]byte, string, string, error)
	ExportXLSX(ctx context.Context, f dto.InvoiceExportFilter) ([]byte, string, error)
}

// HeaderDocumentDigest header con base64(SHA-256) del XML canónico.
const HeaderDocumentDigest = "X-Document-Digest"

const mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// InvoiceHandler maneja las peticiones HTTP de facturación (protegido).
type InvoiceHandler struct {
	uc   InvoiceService
	docs DocumentService
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc InvoiceService, docs DocumentService) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, docs: docs}
}

// Create godoc
// @Summary      Crear factura en BORRADOR
// @Description  Numera la factura en su serie y calcula subtotal, IVA 13%, IT 3% y total.
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInvoiceRequest  true  "Cabecera y detalles"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener factura por ID
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByNumber godoc
// @Summary      Obtener factura por número
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        numero  path  string  true  "Número de factura (FAC-00000001)"
// @Success      200     {object}  dto.InvoiceResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/invoices/number/{numero} [get]
func (h *InvoiceHandler) GetByNumber(c *fiber.Ctx) error {
	out, err := h.uc.GetByNumber(c.Context(), c.Params("numero"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar facturas
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.InvoiceResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	return h.respondList(c, func(ctx context.Context) ([]*dto.InvoiceResponse, error) {
		return h.uc.List(ctx)
	})
}

// ListByClient godoc
// @Summary      Listar facturas de un cliente
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        clientId  path  string  true  "ID del cliente"
// @Success      200       {array}  dto.InvoiceResponse
// @Failure      404       {object}  dto.ErrorResponse
// @Router       /api/invoices/client/{clientId} [get]
func (h *InvoiceHandler) ListByClient(c *fiber.Ctx) error {
	return h.respondList(c, func(ctx context.Context) ([]*dto.InvoiceResponse, error) {
		return h.uc.ListByClient(ctx, c.Params("clientId"))
	})
}

// ListByStatus godoc
// @Summary      Listar facturas por estado
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        status  path  string  true  "BORRADOR | EMITIDA | PAGADA | ANULADA"
// @Success      200     {array}  dto.InvoiceResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/invoices/status/{status} [get]
func (h *InvoiceHandler) ListByStatus(c *fiber.Ctx) error {
	return h.respondList(c, func(ctx context.Context) ([]*dto.InvoiceResponse, error) {
		return h.uc.ListByStatus(ctx, c.Params("status"))
	})
}

// ListByDateRange godoc
// @Summary      Listar facturas por rango de fechas de emisión (inclusivo)
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        startDate  query  string  true  "YYYY-MM-DD"
// @Param        endDate    query  string  true  "YYYY-MM-DD"
// @Success      200        {array}  dto.InvoiceResponse
// @Failure      400        {object}  dto.ErrorResponse
// @Router       /api/invoices/date-range [get]
func (h *InvoiceHandler) ListByDateRange(c *fiber.Ctx) error {
	start, end := c.Query("startDate"), c.Query("endDate")
	if start == "" || end == "" {
		return badRequest(c, "VALIDATION", "startDate y endDate son requeridos")
	}
	return h.respondList(c, func(ctx context.Context) ([]*dto.InvoiceResponse, error) {
		return h.uc.ListByDateRange(ctx, start, end)
	})
}

func (h *InvoiceHandler) respondList(c *fiber.Ctx, fn func(context.Context) ([]*dto.InvoiceResponse, error)) error {
	list, err := fn(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// UpdateStatus godoc
// @Summary      Cambiar estado de factura
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true  "ID de la factura"
// @Param        status  query  string  true  "Estado destino"
// @Success      200     {object}  dto.InvoiceResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/status [patch]
func (h *InvoiceHandler) UpdateStatus(c *fiber.Ctx) error {
	status := c.Query("status")
	if status == "" {
		return badRequest(c, "VALIDATION", "status es requerido")
	}
	out, err := h.uc.UpdateStatus(c.Context(), c.Params("id"), status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Emit godoc
// @Summary      Emitir factura (BORRADOR → EMITIDA)
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/emit [patch]
func (h *InvoiceHandler) Emit(c *fiber.Ctx) error {
	out, err := h.uc.Emit(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Anular factura
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/cancel [patch]
func (h *InvoiceHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.uc.Cancel(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar factura (solo BORRADOR)
// @Tags         invoices
// @Security     Bearer
// @Param        id   path  string  true  "ID de la factura"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// PDF godoc
// @Summary      Descargar factura en PDF
// @Tags         invoices
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/pdf [get]
func (h *InvoiceHandler) PDF(c *fiber.Ctx) error {
	out, filename, err := h.docs.InvoicePDF(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return sendAttachment(c, "application/pdf", filename, out)
}

// XML godoc
// @Summary      Descargar XML de una factura emitida
// @Description  El header X-Document-Digest lleva base64(SHA-256) del XML canónico.
// @Tags         invoices
// @Security     Bearer
// @Produce      application/xml
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {file}  binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/xml [get]
func (h *InvoiceHandler) XML(c *fiber.Ctx) error {
	out, filename, digest, err := h.docs.InvoiceXML(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(HeaderDocumentDigest, digest)
	return sendAttachment(c, fiber.MIMEApplicationXMLCharsetUTF8, filename, out)
}

// ExportXLSX godoc
// @Summary      Exportar facturas a Excel
// @Tags         invoices
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        status  query  string  false  "Estado"
// @Param        start   query  string  false  "YYYY-MM-DD"
// @Param        end     query  string  false  "YYYY-MM-DD"
// @Success      200     {file}  binary
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/invoices/export.xlsx [get]
func (h *InvoiceHandler) ExportXLSX(c *fiber.Ctx) error {
	var f dto.InvoiceExportFilter
	if err := c.QueryParser(&f); err != nil {
		return badRequest(c, "VALIDATION", "filtros inválidos")
	}
	out, filename, err := h.docs.ExportXLSX(c.Context(), f)
	if err != nil {
		return respondError(c, err)
	}
	return sendAttachment(c, mimeXLSX, filename, out)
}

func sendAttachment(c *fiber.Ctx, contentType, filename string, body []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", asciiFilename(filename)))
	return c.Send(body)
}
