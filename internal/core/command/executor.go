package command

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"github.com/barthorre/redstub-go/internal/core/reply"
	"github.com/barthorre/redstub-go/internal/core/store"
	"github.com/barthorre/redstub-go/internal/telemetry/logger"
)

// ErrMalformedCommand is returned by Execute for an empty command vector.
// It is the only protocol-level failure; everything else is an in-band
// error reply, apart from caller cancellation of a blocking command,
// which returns the context's error.
var ErrMalformedCommand = errors.New("Malformed command.")

// Executor executes decoded commands against an in-memory store.
type Executor struct {
	db  *store.DB
	log logger.Logger
}

// Option configures the Executor.
type Option func(*Executor, *[]store.Option)

// WithLogger sets the logger used for dispatch diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(e *Executor, _ *[]store.Option) {
		e.log = l
	}
}

// WithSeed fixes the random-pick seed, making SPOP and friends
// repeatable.
func WithSeed(seed uint64) Option {
	return func(_ *Executor, so *[]store.Option) {
		*so = append(*so, store.WithSeed(seed))
	}
}

// WithSeedPhrase derives the random-pick seed from a phrase.
func WithSeedPhrase(phrase string) Option {
	return func(_ *Executor, so *[]store.Option) {
		*so = append(*so, store.WithSeedPhrase(phrase))
	}
}

// New creates an executor over a fresh, empty store.
func New(opts ...Option) *Executor {
	e := &Executor{log: logger.Default()}
	var storeOpts []store.Option
	for _, opt := range opts {
		opt(e, &storeOpts)
	}
	e.db = store.New(storeOpts...)
	return e
}

// handler is a non-blocking command body. It runs under one transaction.
type handler func(tx *store.Tx, args []string) reply.Reply

// blockingHandler drives its own transactions so it can wait between
// attempts. The returned error is non-nil only on caller cancellation.
type blockingHandler func(ctx context.Context, e *Executor, args []string) (reply.Reply, error)

// Execute runs one decoded command and returns its decoded reply.
// The head of args names the opcode, matched case-insensitively.
func (e *Executor) Execute(ctx context.Context, args [][]byte) (reply.Reply, error) {
	if len(args) == 0 {
		return reply.Reply{}, ErrMalformedCommand
	}

	name := commandName(args[0])
	rest := make([]string, len(args)-1)
	for i, a := range args[1:] {
		rest[i] = string(a)
	}

	if h, ok := blockingCommands[name]; ok {
		return h(ctx, e, rest)
	}
	h, ok := commands[name]
	if !ok {
		e.log.Debug("unknown command", "command", name)
		return reply.UnknownCommand(), nil
	}
	return e.db.Update(func(tx *store.Tx) reply.Reply {
		return h(tx, rest)
	}), nil
}

// commandName uppercases an opcode, skipping strings.ToUpper when the
// caller already sent it uppercased.
func commandName(b []byte) string {
	if bytes.ContainsAny(b, "abcdefghijklmnopqrstuvwxyz") {
		return strings.ToUpper(string(b))
	}
	return string(b)
}

var commands = map[string]handler{
	// Connection
	"PING":   cmdPing,
	"ECHO":   cmdEcho,
	"AUTH":   cmdAuth,
	"SELECT": cmdSelect,

	// Keyspace
	"DEL":      cmdDel,
	"EXISTS":   cmdExists,
	"TYPE":     cmdType,
	"KEYS":     cmdKeys,
	"FLUSHALL": cmdFlushAll,

	// Strings
	"SET": cmdSet,
	"GET": cmdGet,

	// Sets
	"SADD":        cmdSAdd,
	"SREM":        cmdSRem,
	"SCARD":       cmdSCard,
	"SISMEMBER":   cmdSIsMember,
	"SMEMBERS":    cmdSMembers,
	"SDIFF":       cmdSDiff,
	"SDIFFSTORE":  cmdSDiffStore,
	"SINTER":      cmdSInter,
	"SINTERSTORE": cmdSInterStore,
	"SUNION":      cmdSUnion,
	"SUNIONSTORE": cmdSUnionStore,
	"SMOVE":       cmdSMove,
	"SPOP":        cmdSPop,
	"SRANDMEMBER": cmdSRandMember,
	"SSCAN":       cmdSScan,

	// Lists
	"LPUSH":     cmdLPush,
	"RPUSH":     cmdRPush,
	"LPUSHX":    cmdLPushX,
	"RPUSHX":    cmdRPushX,
	"LPOP":      cmdLPop,
	"RPOP":      cmdRPop,
	"LLEN":      cmdLLen,
	"LRANGE":    cmdLRange,
	"LINDEX":    cmdLIndex,
	"LINSERT":   cmdLInsert,
	"LREM":      cmdLRem,
	"LSET":      cmdLSet,
	"LTRIM":     cmdLTrim,
	"RPOPLPUSH": cmdRPopLPush,
	"LMOVE":     cmdLMove,
	"LPOS":      cmdLPos,

	// Hashes
	"HSET":         cmdHSet,
	"HMSET":        cmdHMSet,
	"HSETNX":       cmdHSetNX,
	"HGET":         cmdHGet,
	"HMGET":        cmdHMGet,
	"HDEL":         cmdHDel,
	"HEXISTS":      cmdHExists,
	"HKEYS":        cmdHKeys,
	"HVALS":        cmdHVals,
	"HLEN":         cmdHLen,
	"HGETALL":      cmdHGetAll,
	"HSTRLEN":      cmdHStrLen,
	"HINCRBY":      cmdHIncrBy,
	"HINCRBYFLOAT": cmdHIncrByFloat,
	"HSCAN":        cmdHScan,
	"HRANDFIELD":   cmdHRandField,

	// Sorted sets
	"ZADD":             cmdZAdd,
	"ZCARD":            cmdZCard,
	"ZCOUNT":           cmdZCount,
	"ZSCORE":           cmdZScore,
	"ZMSCORE":          cmdZMScore,
	"ZRANK":            cmdZRank,
	"ZREVRANK":         cmdZRevRank,
	"ZINCRBY":          cmdZIncrBy,
	"ZREM":             cmdZRem,
	"ZRANGE":           cmdZRange,
	"ZREVRANGE":        cmdZRevRange,
	"ZRANGEBYSCORE":    cmdZRangeByScore,
	"ZREVRANGEBYSCORE": cmdZRevRangeByScore,
	"ZRANGEBYLEX":      cmdZRangeByLex,
	"ZREVRANGEBYLEX":   cmdZRevRangeByLex,
	"ZLEXCOUNT":        cmdZLexCount,
	"ZREMRANGEBYLEX":   cmdZRemRangeByLex,
	"ZREMRANGEBYRANK":  cmdZRemRangeByRank,
	"ZREMRANGEBYSCORE": cmdZRemRangeByScore,
	"ZPOPMIN":          cmdZPopMin,
	"ZPOPMAX":          cmdZPopMax,
	"ZDIFF":            cmdZDiff,
	"ZDIFFSTORE":       cmdZDiffStore,
	"ZINTER":           cmdZInter,
	"ZINTERSTORE":      cmdZInterStore,
	"ZUNION":           cmdZUnion,
	"ZUNIONSTORE":      cmdZUnionStore,
	"ZRANDMEMBER":      cmdZRandMember,
	"ZSCAN":            cmdZScan,

	// HyperLogLog
	"PFADD":   cmdPFAdd,
	"PFCOUNT": cmdPFCount,
	"PFMERGE": cmdPFMerge,
}

var blockingCommands = map[string]blockingHandler{
	"BLPOP":      cmdBLPop,
	"BRPOP":      cmdBRPop,
	"BRPOPLPUSH": cmdBRPopLPush,
	"BLMOVE":     cmdBLMove,
	"BZPOPMIN":   cmdBZPopMin,
	"BZPOPMAX":   cmdBZPopMax,
}
