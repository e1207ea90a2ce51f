package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"warehouse-sync/core/config"
	"warehouse-sync/core/logger"
	"warehouse-sync/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	warehouses  int
	products    int
	workers     int
	duration    time.Duration
	failureRate float64
	seed        uint64
)

var errUnreachable = errors.New("warehouse unreachable")

// Scenario centres; warehouses are scattered around them.
var cities = []reconcile.Location{
	{Latitude: 52.3676, Longitude: 4.9041, Label: "Amsterdam"},
	{Latitude: 52.5200, Longitude: 13.4050, Label: "Berlin"},
	{Latitude: 48.8566, Longitude: 2.3522, Label: "Paris"},
	{Latitude: 41.3874, Longitude: 2.1686, Label: "Barcelona"},
	{Latitude: 45.4642, Longitude: 9.1900, Label: "Milan"},
}

func main() {
	root := &cobra.Command{
		Use:   "simulate",
		Short: "Drive the reconciliation engine with concurrent random traffic",
		RunE:  run,
	}
	root.Flags().IntVar(&warehouses, "warehouses", 5, "Number of warehouses")
	root.Flags().IntVar(&products, "products", 10, "Number of products")
	root.Flags().IntVar(&workers, "workers", 8, "Concurrent writers")
	root.Flags().DurationVar(&duration, "duration", 3*time.Second, "How long writers run")
	root.Flags().Float64Var(&failureRate, "failure-rate", 0.05, "Probability a delivery finds its target unreachable")
	root.Flags().Uint64Var(&seed, "seed", 1, "Random seed")

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return err
	}
	logg, err := logger.New(&logger.Config{Level: "warn", Format: "console"})
	if err != nil {
		return err
	}
	defer logg.Sync()

	var rngMu sync.Mutex
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	chance := func(p float64) bool {
		rngMu.Lock()
		defer rngMu.Unlock()
		return rng.Float64() < p
	}
	intn := func(n int) int {
		rngMu.Lock()
		defer rngMu.Unlock()
		return rng.IntN(n)
	}

	probe := reconcile.ProbeFunc(func(ctx context.Context, warehouseID string) error {
		if chance(failureRate) {
			return errUnreachable
		}
		return nil
	})
	engine := reconcile.NewEngine(cfg.Sync, logg, reconcile.WithProbe(probe))

	var conflicts, updates int
	var countMu sync.Mutex
	unsubscribe := engine.Bus().Subscribe(reconcile.EventConflict, func(reconcile.Event) {
		countMu.Lock()
		conflicts++
		countMu.Unlock()
	})
	defer unsubscribe()

	ids := make([]string, warehouses)
	for i := range ids {
		ids[i] = fmt.Sprintf("wh-%02d", i+1)
		city := cities[i%len(cities)]
		loc := reconcile.Location{
			Latitude:  city.Latitude + float64(intn(100)-50)/100,
			Longitude: city.Longitude + float64(intn(100)-50)/100,
			Label:     city.Label,
		}
		if err := engine.RegisterWarehouse(ids[i], loc); err != nil {
			return err
		}
	}
	skus := make([]string, products)
	for i := range skus {
		skus[i] = fmt.Sprintf("sku-%03d", i+1)
	}

	ctx := cmd.Context()
	for _, sku := range skus {
		if _, err := engine.UpdateInventory(ctx, ids[intn(len(ids))], sku, 100, reconcile.OpSet); err != nil {
			return err
		}
	}

	fmt.Printf("=== Simulating %d writers for %s ===\n", workers, duration)
	deadline := time.Now().Add(duration)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(deadline) {
				wh := ids[intn(len(ids))]
				sku := skus[intn(len(skus))]
				qty := int64(intn(5) + 1)

				var err error
				switch intn(5) {
				case 0:
					_, err = engine.UpdateInventory(ctx, wh, sku, qty, reconcile.OpAdd)
				case 1:
					_, err = engine.UpdateInventory(ctx, wh, sku, qty, reconcile.OpSubtract)
				case 2:
					_, err = engine.ReserveInventory(ctx, wh, sku, qty)
				case 3:
					_, err = engine.ReleaseInventory(ctx, wh, sku, qty)
				default:
					err = engine.CommitReservation(ctx, wh, sku, qty)
				}
				if err != nil && !errors.Is(err, reconcile.ErrInsufficientInventory) {
					logg.Warn("Update failed", zap.Error(err))
					continue
				}
				if err == nil {
					countMu.Lock()
					updates++
					countMu.Unlock()
				}
				time.Sleep(time.Millisecond)
			}
		}()
	}
	wg.Wait()

	flushCtx, cancel := context.WithTimeout(context.Background(), cfg.Sync.PropagationTimeout()*2)
	defer cancel()
	if err := engine.Shutdown(flushCtx); err != nil {
		fmt.Printf("Propagation did not drain: %v\n", err)
	}

	status := engine.GetSyncStatus()
	fmt.Println("\n=== Sync Status ===")
	fmt.Printf("Updates applied: %d\n", updates)
	fmt.Printf("Conflicts: %d (events seen: %d)\n", status.Conflicts, conflicts)
	fmt.Printf("Average lag: %.2f\n", status.AvgLag)
	fmt.Printf("Healthy: %t\n", status.Healthy)
	for _, ws := range status.Warehouses {
		fmt.Printf("  %s lag=%d products=%d\n", ws.ID, ws.Lag, ws.Products)
	}

	fmt.Println("\n=== Global Inventory ===")
	for _, sku := range skus {
		g := engine.GetGlobalInventory(sku)
		fmt.Printf("  %s quantity=%d reserved=%d available=%d\n", sku, g.TotalQuantity, g.TotalReserved, g.TotalAvailable)
	}

	fmt.Println("\n=== Fulfillment from Brussels ===")
	brussels := reconcile.Location{Latitude: 50.8503, Longitude: 4.3517}
	for _, sku := range skus {
		c, ok := engine.FindOptimalWarehouse(sku, 10, brussels)
		if !ok {
			fmt.Printf("  %s: no warehouse can ship 10 units\n", sku)
			continue
		}
		fmt.Printf("  %s: %s (%s) %.0f km, %d available\n", sku, c.WarehouseID, c.Location.Label, c.DistanceKm, c.Available)
	}

	return nil
}
