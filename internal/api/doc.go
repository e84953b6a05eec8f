// Package api implements the HTTP handlers of the task REST API.
//
// Handlers decode and validate JSON bodies, call the service layer and map
// service and store errors to status codes with sanitized messages. Request
// tracing, authentication and response helpers live in the middleware and
// shared subpackages.
package api
