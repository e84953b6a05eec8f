// Package postgres provides PostgreSQL implementations of the interfaces
// defined in internal/store, together with connection setup and the embedded
// schema migrations.
package postgres
