// Package store defines interfaces for data persistence operations on users
// and tasks, the error values every implementation reports, and transaction
// helpers. Business rules depend on these interfaces rather than on a
// specific database technology.
package store
