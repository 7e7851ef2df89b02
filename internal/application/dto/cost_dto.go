package dto

// CostKeyRequest identifica un producto por SKU o, sin SKU, por nombre.
type CostKeyRequest struct {
	SKU         string `json:"sku"`
	ProductName string `json:"product_name"`
}

// CostUpdateRequest edición de costo de un producto.
type CostUpdateRequest struct {
	CostKeyRequest
	UnitCost NumericInput `json:"unit_cost"`
}

// CostBatchRequest mismo costo para varios productos seleccionados.
type CostBatchRequest struct {
	Keys     []CostKeyRequest `json:"keys"`
	UnitCost NumericInput     `json:"unit_cost"`
}

// CostUpdateResponse resultado de una escritura individual.
type CostUpdateResponse struct {
	Affected    int64 `json:"affected"`
	SyncVersion int64 `json:"sync_version"`
	Scheduled   bool  `json:"scheduled,omitempty"`
}

// SyncVersionResponse versión de sincronización vigente.
type SyncVersionResponse struct {
	SyncVersion int64 `json:"sync_version"`
}
