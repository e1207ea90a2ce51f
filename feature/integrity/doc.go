// Package integrity provides system health checks for the sync service.
//
// # Checks Provided
//
//   - Storage: the snapshot bucket exists and holds the snapshots/ prefix and latest.json.
//   - Server: the snapshot tables in the database match the GORM models.
//   - Engine: replication lag, pending propagations and unresolved conflicts.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/storage : Runs the storage check (supports ?fix=true).
//   - GET /integrity/server : Runs the schema check.
//   - GET /integrity/engine : Reports engine health.
package integrity
