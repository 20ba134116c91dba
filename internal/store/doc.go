// Package store defines the persistence interfaces the services depend on,
// along with shared store errors and transaction helpers. Implementations
// live under internal/platform.
package store
