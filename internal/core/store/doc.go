// Package store holds the six typed keyspaces behind a single
// transactional lock.
//
// A key lives in at most one of the namespaces (string, list, set, hash,
// sorted set, hyperloglog) at any time. All access goes through Update,
// which runs the caller's function as one atomic read-modify-write and,
// on return, wakes any waiter watching a keyset that the transaction
// touched. The wakeup table is what lets blocking commands wait for data
// without polling.
package store
