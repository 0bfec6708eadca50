// Package permission tracks which caller applications may mutate phone
// features.
//
// Every caller is identified by a 128-bit UUID assigned by the watchapp
// library. A record is created, not permitted, the first time an identity is
// seen; only an explicit user action flips the permitted flag. Records carry
// the caller's last reported display name and an insertion-ordered registry
// of known identities backs the management UI.
//
// Two durable implementations are provided: FileStore persists a flat
// key-value JSON document, SQLiteStore uses an embedded SQLite database.
// Both are safe for concurrent use and durable on return from every
// mutation.
package permission
