// Package store defines persistence interfaces and shared store errors.
// Concrete implementations live in internal/platform/postgres.
package store
