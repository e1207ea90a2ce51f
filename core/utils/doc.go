// Package utils provides loose type conversion helpers used when reading
// query parameters and untyped payloads.
package utils
