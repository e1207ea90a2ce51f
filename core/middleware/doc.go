// Package middleware groups the Fiber middleware shared by every feature.
//
//   - rayid tags each request with an X-Ray-ID, reusing the caller's value
//     when present, so engine logs for one inventory call can be correlated.
//   - auth checks the X-API-Key header in constant time. An empty key turns
//     the check off for local runs.
//
// cmd/start.go registers rayid first and auth after the public /swagger and
// /metrics routes.
package middleware
