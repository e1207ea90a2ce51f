// Package checks holds the individual integrity checks run by the integrity feature.
package checks
