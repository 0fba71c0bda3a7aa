package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/colibri-pos/internal/application/dto"
	"github.com/jhoicas/colibri-pos/internal/application/reports"
)

// ReportHandler maneja los reportes de ventas (solo lectura).
type ReportHandler struct {
	uc *reports.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reports.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Fechas mal formadas en start/end se ignoran (sin filtro), nunca dan 400.
func reportQuery(c *fiber.Ctx) dto.ReportQuery {
	return dto.ReportQuery{Start: c.Query("start"), End: c.Query("end")}
}

// Sales godoc
// @Summary      Reporte de ventas
// @Tags         reportes
// @Security     Bearer
// @Produce      json
// @Param        start  query  string  false  "YYYY-MM-DD"
// @Param        end    query  string  false  "YYYY-MM-DD"
// @Success      200    {array}  dto.SaleReportRow
// @Router       /api/reportes/ventas/ [get]
func (h *ReportHandler) Sales(c *fiber.Ctx) error {
	out, err := h.uc.SalesReport(c.UserContext(), GetActor(c), reportQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// TopProducts godoc
// @Summary      Productos más vendidos (máx. 10)
// @Tags         reportes
// @Security     Bearer
// @Produce      json
// @Param        start  query  string  false  "YYYY-MM-DD"
// @Param        end    query  string  false  "YYYY-MM-DD"
// @Success      200    {array}  dto.TopProductRow
// @Router       /api/reportes/top-productos/ [get]
func (h *ReportHandler) TopProducts(c *fiber.Ctx) error {
	out, err := h.uc.TopProducts(c.UserContext(), GetActor(c), reportQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Dashboard godoc
// @Summary      Resumen del día
// @Tags         reportes
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/reportes/dashboard/ [get]
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.uc.Dashboard(c.UserContext(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
