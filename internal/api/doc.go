// Package api handles incoming HTTP requests, request validation and
// response formatting. Handlers translate HTTP concerns into calls on the
// session and task services and render their results in the standard
// response envelope.
package api
