// Package respserver exposes the command executor over the Redis wire
// protocol (RESP2).
//
// It owns the codec and the TCP listener only; command semantics live
// in internal/core/command. Each connection is served from a worker
// pool, identified by a ULID, and subject to an optional per-IP rate
// limit.
package respserver
