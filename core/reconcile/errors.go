package reconcile

import "errors"

var (
	// ErrWarehouseNotFound is returned when an operation names an unregistered warehouse.
	ErrWarehouseNotFound = errors.New("warehouse not found")

	// ErrDuplicateWarehouse is returned when registering an ID that already exists.
	ErrDuplicateWarehouse = errors.New("warehouse already registered")

	// ErrInsufficientInventory is returned when a reserve exceeds available stock.
	ErrInsufficientInventory = errors.New("insufficient inventory")

	// ErrInvalidInput is returned for empty identifiers, unknown operations
	// or negative quantities.
	ErrInvalidInput = errors.New("invalid input")
)
