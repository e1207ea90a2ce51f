package inventory

import "warehouse-sync/core/reconcile"

// RegisterWarehouseRequest is the body of POST /warehouses.
type RegisterWarehouseRequest struct {
	ID       string             `json:"id"`
	Location reconcile.Location `json:"location"`
}

// StatusRequest is the body of PATCH /warehouses/:id/status.
type StatusRequest struct {
	Status reconcile.WarehouseStatus `json:"status"`
}

// UpdateRequest is the body of POST /inventory/:warehouse/:product.
type UpdateRequest struct {
	Quantity  int64               `json:"quantity"`
	Operation reconcile.Operation `json:"operation"`
}

// QuantityRequest is the body of the reserve, release and commit routes.
type QuantityRequest struct {
	Quantity int64 `json:"quantity"`
}

// UpdateResponse pairs an accepted update with the origin's resulting record.
type UpdateResponse struct {
	Update reconcile.InventoryUpdate `json:"update"`
	Record reconcile.InventoryRecord `json:"record"`
}

// ErrorResponse is returned on every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}
