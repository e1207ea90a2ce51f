package reconcile

import "fmt"

// applyOperation computes the record that results from applying u to cur.
// It never mutates cur; a failed reserve returns cur unchanged with an error.
func applyOperation(cur InventoryRecord, u InventoryUpdate) (InventoryRecord, error) {
	next := cur

	switch u.Operation {
	case OpSet:
		// Not clamped, unlike subtract and release.
		next.Quantity = u.Quantity
	case OpAdd:
		next.Quantity += u.Quantity
	case OpSubtract:
		next.Quantity = max(0, cur.Quantity-u.Quantity)
	case OpReserve:
		if cur.Available() < u.Quantity {
			return cur, fmt.Errorf("%w: product %s has %d available, requested %d",
				ErrInsufficientInventory, u.ProductID, cur.Available(), u.Quantity)
		}
		next.Reserved += u.Quantity
	case OpRelease:
		next.Reserved = max(0, cur.Reserved-u.Quantity)
	default:
		return cur, fmt.Errorf("%w: unknown operation %q", ErrInvalidInput, u.Operation)
	}

	// A set or subtract below the held amount shrinks the reservation with it.
	if next.Reserved > next.Quantity {
		next.Reserved = max(0, next.Quantity)
	}

	next.Version = u.TargetVersion
	next.LastUpdated = u.Timestamp
	return next, nil
}
