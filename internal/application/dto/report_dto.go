package dto

// ReportQuery filtros de fecha de los reportes (YYYY-MM-DD, inclusivos).
type ReportQuery struct {
	Start string `query:"start"`
	End   string `query:"end"`
}

// SaleReportRow fila de GET /api/reportes/ventas/. Total numérico para graficar en el cliente.
type SaleReportRow struct {
	ID            int64   `json:"id"`
	Date          string  `json:"fecha"`
	Total         float64 `json:"total"`
	ReceiptNumber int64   `json:"numero_boleta"`
}

// TopProductRow fila de GET /api/reportes/top-productos/.
type TopProductRow struct {
	Name string `json:"name"`
	Sold int64  `json:"sold"`
}

// DashboardResponse indicadores del día para el panel de administración.
type DashboardResponse struct {
	Date          string          `json:"fecha"`
	SalesTotal    string          `json:"ventas_hoy"`
	SalesCount    int             `json:"cantidad_ventas"`
	UnitsSold     int64           `json:"productos_vendidos"`
	PendingOrders int             `json:"pedidos_pendientes"`
	TopProducts   []TopProductRow `json:"top_productos"`
}
