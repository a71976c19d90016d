// Package postgres provides PostgreSQL implementations of the store
// interfaces for users and tasks. It also owns connection setup and the
// embedded goose migrations that define the schema.
package postgres
