// Package loader registers the HTTP features of the service.
//
// A Feature reports its name and whether it is enabled, and mounts its routes
// in Load. The Manager loads features in registration order and logs the ones
// it skips, so a disabled snapshot store shows up at startup instead of as
// 404s later.
//
//	mgr := loader.NewManager(logger)
//	mgr.Register(inventory.NewFeature(engine, logger))
//	mgr.Register(snapshot.NewFeature(snapshots))
//	if err := mgr.LoadAll(app); err != nil {
//	    return err
//	}
package loader
