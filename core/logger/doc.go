// Package logger builds the zap logger used across the service.
//
// Level accepts any zap level name. "debug" also switches to zap's
// development preset (ISO8601 timestamps). Format selects json or colored
// console output.
//
// WithRayID scopes a logger to the ray id that middleware/rayid stores on the
// Fiber context:
//
//	l := logger.WithRayID(log, c)
//	l.Warn("Reserve rejected", zap.String("product_id", id), zap.Error(err))
package logger
