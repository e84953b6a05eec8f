// Package client is the task tracker's client side: an HTTP client for the
// REST API, the task list controller that mirrors the server into a local
// cache, the search and priority filter, and the task form.
//
// The controller reads remote first and falls back to the cache when the
// server cannot be reached. Writes are applied locally only after the server
// confirms them.
package client
