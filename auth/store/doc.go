// Package store holds the current access/refresh credential pair and lets
// interested parties subscribe to credential changes.
//
// The in-memory store is the default; FileStore layers a durable JSON mirror
// on top of it so a CLI restart can restore the previous session.
package store
