package reconcile

// FindOptimalWarehouse picks the nearest active warehouse that can cover
// quantity units of productID. Ties on distance go to the warehouse with more
// available stock, then to the smaller ID. It returns false when no
// warehouse qualifies.
func (r *Registry) FindOptimalWarehouse(productID string, quantity int64, destination Location) (*Candidate, bool) {
	var best *Candidate

	for _, w := range r.all() {
		if !w.isActive() {
			continue
		}
		rec, ok := w.lookup(productID)
		if !ok {
			continue
		}
		state, present := rec.snapshot()
		if !present || state.Available() < quantity {
			continue
		}

		c := &Candidate{
			WarehouseID: w.id,
			Location:    w.location,
			Available:   state.Available(),
			DistanceKm:  DistanceKm(w.location, destination),
		}
		if best == nil || better(c, best) {
			best = c
		}
	}

	return best, best != nil
}

func better(c, best *Candidate) bool {
	if c.DistanceKm != best.DistanceKm {
		return c.DistanceKm < best.DistanceKm
	}
	if c.Available != best.Available {
		return c.Available > best.Available
	}
	return c.WarehouseID < best.WarehouseID
}
