// Package service holds the task and user use cases behind the REST API.
//
// Services validate input, run multi-step changes inside a transaction using
// the store interfaces, and publish task change events once a change commits.
// They depend on internal/store, never on a concrete database package.
package service
