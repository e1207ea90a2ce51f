// Package snapshot persists engine state.
//
// Snapshots go to two optional sinks: the relational database through GORM
// (tables warehouses, inventory_records, inventory_conflicts and the
// inventory_snapshots history) and the object storage bucket as JSON under
// snapshots/<unix>.json plus snapshots/latest.json. On start the newest
// snapshot is restored, preferring the database.
package snapshot
