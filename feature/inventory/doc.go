// Package inventory exposes the sync engine over HTTP.
//
// It mounts warehouse management, stock operations, global aggregation,
// fulfillment routing and sync monitoring routes. Engine errors map to
// statuses: unknown warehouse 404, duplicate or insufficient stock 409,
// invalid input 400.
package inventory
