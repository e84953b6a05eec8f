// Package domain contains the core entities of the task tracker: tasks with
// their fixed priority and status enumerations, partial task updates, and
// user accounts. It is independent of storage and transport.
package domain
