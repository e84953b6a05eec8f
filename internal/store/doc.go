// Package store defines the persistence contracts for tasks and users.
// Implementations live under internal/platform; services depend only on
// these interfaces and on the shared sentinel errors.
package store
