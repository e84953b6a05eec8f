// Package events carries task change notifications from the service layer to
// interested handlers, such as the audit log, without coupling them together.
package events
