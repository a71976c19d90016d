// Package service contains the application use cases: the session lifecycle
// (register, login, refresh, logout, password and account changes) and
// per-user task management.
//
// Services depend on the store interfaces and on the auth primitives, never on
// a concrete database. Every error they return is a *Error whose Kind decides
// the HTTP status and whose Message is safe to show to clients; the wrapped
// cause is only for logs and errors.Is checks.
package service
