package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ImportMappingRequest asignación campo → encabezado de la planilla.
type ImportMappingRequest struct {
	Mapping map[string]string `json:"mapping"`
}

// ImportCostsRequest costos para los productos que la vista previa reportó sin costo.
type ImportCostsRequest struct {
	Costs []CostUpdateRequest `json:"costs"`
}

// ImportCommitRequest modo de confirmación: append (default) o replace.
type ImportCommitRequest struct {
	Mode string `json:"mode"`
}

// ImportCommitResponse resultado de la confirmación.
type ImportCommitResponse struct {
	Mode     string `json:"mode"`
	Inserted int    `json:"inserted"`
	Deleted  int64  `json:"deleted"`
}

// ImportSessionResponse estado de una sesión de importación.
type ImportSessionResponse struct {
	ID           string                `json:"id"`
	State        string                `json:"state"`
	FileName     string                `json:"file_name"`
	Marketplace  string                `json:"marketplace"`
	Headers      []string              `json:"headers"`
	RowCount     int                   `json:"row_count"`
	Suggested    map[string]string     `json:"suggested_mapping"`
	Mapping      map[string]string     `json:"mapping,omitempty"`
	MissingCosts []CostKeyRequest      `json:"missing_costs,omitempty"`
	Skipped      int                   `json:"skipped"`
	Result       *ImportCommitResponse `json:"result,omitempty"`
	ExpiresAt    time.Time             `json:"expires_at"`
}

// ImportPreviewResponse pedidos listos para confirmar.
type ImportPreviewResponse struct {
	Session       ImportSessionResponse `json:"session"`
	Orders        int                   `json:"orders"`
	TotalQuantity decimal.Decimal       `json:"total_quantity"`
	TotalRevenue  decimal.Decimal       `json:"total_revenue"`
	From          time.Time             `json:"from"`
	Until         time.Time             `json:"until"`
	Sample        []OrderResponse       `json:"sample"`
}

// TikTokImportResponse resultado de importar liquidaciones o extractos.
type TikTokImportResponse struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
}
