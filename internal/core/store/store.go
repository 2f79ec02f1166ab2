package store

import (
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/spaolacci/murmur3"

	"github.com/barthorre/redstub-go/internal/core/reply"
)

// waitShards is the size of the wakeup table. Keys are hashed into it so
// a committed write only wakes waiters whose keyset shares a shard.
const waitShards = 64

// Kind identifies the typed namespace currently holding a key.
type Kind uint8

const (
	KindNone Kind = iota
	KindString
	KindList
	KindSet
	KindHash
	KindSorted
	KindHLL
)

// String returns the Redis-facing type name.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindSet:
		return "set"
	case KindHash:
		return "hash"
	case KindSorted:
		return "zset"
	case KindHLL:
		// Real servers back HyperLogLog with a string encoding and
		// report it as such.
		return "string"
	default:
		return "none"
	}
}

// DB is the transactional memory. The zero value is not usable; call New.
type DB struct {
	mu sync.Mutex

	strings map[string]string
	lists   map[string][]string
	sets    map[string]map[string]struct{}
	hashes  map[string]map[string]string
	sorted  map[string]map[string]float64
	hlls    map[string]map[string]struct{}

	rng *rand.Rand

	waiters [waitShards]chan struct{}
}

// Option configures the DB.
type Option func(*DB)

// WithSeed fixes the seed of the random-pick source so SPOP, SRANDMEMBER,
// HRANDFIELD and ZRANDMEMBER are repeatable across runs.
func WithSeed(seed uint64) Option {
	return func(db *DB) {
		db.rng = rand.New(rand.NewSource(int64(seed)))
	}
}

// WithSeedPhrase derives the seed from an arbitrary phrase. See
// SeedFromPhrase.
func WithSeedPhrase(phrase string) Option {
	return func(db *DB) {
		db.rng = rand.New(rand.NewSource(int64(SeedFromPhrase(phrase))))
	}
}

// New creates an empty DB. Without a seed option the random-pick source
// is seeded from the clock.
func New(opts ...Option) *DB {
	db := &DB{
		strings: make(map[string]string),
		lists:   make(map[string][]string),
		sets:    make(map[string]map[string]struct{}),
		hashes:  make(map[string]map[string]string),
		sorted:  make(map[string]map[string]float64),
		hlls:    make(map[string]map[string]struct{}),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for i := range db.waiters {
		db.waiters[i] = make(chan struct{})
	}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

func waitShard(key string) uint64 {
	return murmur3.Sum64([]byte(key)) % waitShards
}

// Update runs fn as one atomic transaction and returns its reply.
// Transactions are serialized; the effects of fn are either fully visible
// to the next transaction or, if fn mutates nothing, absent. After the
// transaction commits, waiters on every touched keyset are woken.
func (db *DB) Update(fn func(tx *Tx) reply.Reply) reply.Reply {
	db.mu.Lock()
	tx := &Tx{db: db}
	rep := fn(tx)
	for shard := range tx.dirty {
		close(db.waiters[shard])
		db.waiters[shard] = make(chan struct{})
	}
	db.mu.Unlock()
	return rep
}

// Tx is a handle onto the store valid for the duration of one Update
// call. It tracks which keysets were touched so commit can wake the
// right waiters.
type Tx struct {
	db    *DB
	dirty map[uint64]struct{}
}

func (tx *Tx) touch(key string) {
	if tx.dirty == nil {
		tx.dirty = make(map[uint64]struct{})
	}
	tx.dirty[waitShard(key)] = struct{}{}
}

// Holder reports which namespace currently holds key, or KindNone.
func (tx *Tx) Holder(key string) Kind {
	switch {
	case hasKey(tx.db.strings, key):
		return KindString
	case hasKey(tx.db.lists, key):
		return KindList
	case hasKey(tx.db.sets, key):
		return KindSet
	case hasKey(tx.db.hashes, key):
		return KindHash
	case hasKey(tx.db.sorted, key):
		return KindSorted
	case hasKey(tx.db.hlls, key):
		return KindHLL
	default:
		return KindNone
	}
}

func hasKey[V any](m map[string]V, key string) bool {
	_, ok := m[key]
	return ok
}

// The type-exclusivity guards. A key passes the guard for namespace X
// when it is absent everywhere or held by X itself.

func (tx *Tx) IsString(key string) bool { return tx.guards(key, KindString) }
func (tx *Tx) IsList(key string) bool   { return tx.guards(key, KindList) }
func (tx *Tx) IsSet(key string) bool    { return tx.guards(key, KindSet) }
func (tx *Tx) IsHash(key string) bool   { return tx.guards(key, KindHash) }
func (tx *Tx) IsSorted(key string) bool { return tx.guards(key, KindSorted) }
func (tx *Tx) IsHLL(key string) bool    { return tx.guards(key, KindHLL) }

func (tx *Tx) guards(key string, kind Kind) bool {
	h := tx.Holder(key)
	return h == KindNone || h == kind
}

// GetString returns the string value of key.
func (tx *Tx) GetString(key string) (string, bool) {
	v, ok := tx.db.strings[key]
	return v, ok
}

// PutString stores a string value.
func (tx *Tx) PutString(key, val string) {
	tx.db.strings[key] = val
	tx.touch(key)
}

// GetList returns the list at key, nil when absent. The returned slice
// is live; mutate a copy and store it back with PutList.
func (tx *Tx) GetList(key string) []string {
	return tx.db.lists[key]
}

// PutList stores a list. An empty list deletes the key: a container that
// would be left empty does not survive the transaction.
func (tx *Tx) PutList(key string, vals []string) {
	if len(vals) == 0 {
		delete(tx.db.lists, key)
	} else {
		tx.db.lists[key] = vals
	}
	tx.touch(key)
}

// GetSet returns the set at key, nil when absent.
func (tx *Tx) GetSet(key string) map[string]struct{} {
	return tx.db.sets[key]
}

// PutSet stores a set, deleting the key when empty.
func (tx *Tx) PutSet(key string, members map[string]struct{}) {
	if len(members) == 0 {
		delete(tx.db.sets, key)
	} else {
		tx.db.sets[key] = members
	}
	tx.touch(key)
}

// GetHash returns the hash at key, nil when absent.
func (tx *Tx) GetHash(key string) map[string]string {
	return tx.db.hashes[key]
}

// PutHash stores a hash, deleting the key when empty.
func (tx *Tx) PutHash(key string, fields map[string]string) {
	if len(fields) == 0 {
		delete(tx.db.hashes, key)
	} else {
		tx.db.hashes[key] = fields
	}
	tx.touch(key)
}

// GetSorted returns the member-to-score mapping at key, nil when absent.
func (tx *Tx) GetSorted(key string) map[string]float64 {
	return tx.db.sorted[key]
}

// PutSorted stores a sorted set, deleting the key when empty.
func (tx *Tx) PutSorted(key string, members map[string]float64) {
	if len(members) == 0 {
		delete(tx.db.sorted, key)
	} else {
		tx.db.sorted[key] = members
	}
	tx.touch(key)
}

// GetHLL returns the backing set of the HyperLogLog at key, nil when
// absent.
func (tx *Tx) GetHLL(key string) map[string]struct{} {
	return tx.db.hlls[key]
}

// PutHLL stores a HyperLogLog backing set, deleting the key when empty.
func (tx *Tx) PutHLL(key string, members map[string]struct{}) {
	if len(members) == 0 {
		delete(tx.db.hlls, key)
	} else {
		tx.db.hlls[key] = members
	}
	tx.touch(key)
}

// Delete removes key from whichever namespace holds it. It reports
// whether a value was removed.
func (tx *Tx) Delete(key string) bool {
	held := tx.Holder(key)
	switch held {
	case KindString:
		delete(tx.db.strings, key)
	case KindList:
		delete(tx.db.lists, key)
	case KindSet:
		delete(tx.db.sets, key)
	case KindHash:
		delete(tx.db.hashes, key)
	case KindSorted:
		delete(tx.db.sorted, key)
	case KindHLL:
		delete(tx.db.hlls, key)
	default:
		return false
	}
	tx.touch(key)
	return true
}

// Keys returns every live key across all namespaces in sorted order.
func (tx *Tx) Keys() []string {
	keys := make([]string, 0,
		len(tx.db.strings)+len(tx.db.lists)+len(tx.db.sets)+
			len(tx.db.hashes)+len(tx.db.sorted)+len(tx.db.hlls))
	for k := range tx.db.strings {
		keys = append(keys, k)
	}
	for k := range tx.db.lists {
		keys = append(keys, k)
	}
	for k := range tx.db.sets {
		keys = append(keys, k)
	}
	for k := range tx.db.hashes {
		keys = append(keys, k)
	}
	for k := range tx.db.sorted {
		keys = append(keys, k)
	}
	for k := range tx.db.hlls {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FlushAll drops every key in every namespace.
func (tx *Tx) FlushAll() {
	for _, k := range tx.Keys() {
		tx.Delete(k)
	}
}

// Signal captures, while the transaction still holds the lock, the
// wakeup channels for the given keys. A returned channel is closed the
// next time a committed transaction touches a key hashing into the same
// shard. Capturing inside the transaction closes the gap between
// observing emptiness and starting to wait.
func (tx *Tx) Signal(keys ...string) []<-chan struct{} {
	seen := make(map[uint64]struct{}, len(keys))
	out := make([]<-chan struct{}, 0, len(keys))
	for _, key := range keys {
		shard := waitShard(key)
		if _, dup := seen[shard]; dup {
			continue
		}
		seen[shard] = struct{}{}
		out = append(out, tx.db.waiters[shard])
	}
	return out
}
