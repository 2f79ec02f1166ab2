package command

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/barthorre/redstub-go/internal/core/reply"
	"github.com/barthorre/redstub-go/internal/core/store"
)

type waitOutcome int

const (
	waitData waitOutcome = iota
	waitTimeout
	waitCancelled
)

// awaitAny blocks until one of the signal channels fires, the deadline
// channel fires, or the context is cancelled. A nil deadline channel
// means wait forever.
func awaitAny(ctx context.Context, signals []<-chan struct{}, deadline <-chan time.Time) waitOutcome {
	fired := make(chan struct{})
	stop := make(chan struct{})
	defer close(stop)
	var once sync.Once
	for _, ch := range signals {
		go func(c <-chan struct{}) {
			select {
			case <-c:
				once.Do(func() { close(fired) })
			case <-stop:
			}
		}(ch)
	}
	select {
	case <-fired:
		return waitData
	case <-deadline:
		return waitTimeout
	case <-ctx.Done():
		return waitCancelled
	}
}

// blockOn is the blocking runner. It runs attempt as a transaction; when
// attempt reports no data, the transaction's wakeup channels for keys
// are captured and the runner sleeps until one fires or the timeout
// elapses. A timeout of zero waits until cancellation.
func (e *Executor) blockOn(ctx context.Context, timeoutArg string, keys []string, onTimeout reply.Reply, attempt func(tx *store.Tx) (reply.Reply, bool)) (reply.Reply, error) {
	secs, err := strconv.ParseInt(timeoutArg, 10, 64)
	if err != nil {
		return reply.Error("ERR timeout is not an integer or out of range"), nil
	}
	if secs < 0 {
		return reply.Error("ERR timeout is negative"), nil
	}

	var deadline <-chan time.Time
	if secs > 0 {
		t := time.NewTimer(time.Duration(secs) * time.Second)
		defer t.Stop()
		deadline = t.C
	}

	for {
		var done bool
		var signals []<-chan struct{}
		res := e.db.Update(func(tx *store.Tx) reply.Reply {
			var rep reply.Reply
			rep, done = attempt(tx)
			if !done {
				signals = tx.Signal(keys...)
			}
			return rep
		})
		if done {
			return res, nil
		}
		switch awaitAny(ctx, signals, deadline) {
		case waitData:
			continue
		case waitTimeout:
			return onTimeout, nil
		default:
			return reply.Reply{}, ctx.Err()
		}
	}
}

// blockingListPop implements BLPOP and BRPOP. Among the candidate keys
// the leftmost non-empty list wins.
func blockingListPop(ctx context.Context, e *Executor, cmd string, args []string, left bool) (reply.Reply, error) {
	if len(args) < 2 {
		return reply.WrongArity(cmd), nil
	}
	keys := args[:len(args)-1]
	return e.blockOn(ctx, args[len(args)-1], keys, reply.NullArray(), func(tx *store.Tx) (reply.Reply, bool) {
		for _, key := range keys {
			if !tx.IsList(key) {
				return reply.WrongType(), true
			}
			list := tx.GetList(key)
			if len(list) == 0 {
				continue
			}
			var val string
			if left {
				val, list = list[0], list[1:]
			} else {
				val, list = list[len(list)-1], list[:len(list)-1]
			}
			tx.PutList(key, list)
			return reply.Array(reply.BulkString(key), reply.BulkString(val)), true
		}
		return reply.Reply{}, false
	})
}

func cmdBLPop(ctx context.Context, e *Executor, args []string) (reply.Reply, error) {
	return blockingListPop(ctx, e, "blpop", args, true)
}

func cmdBRPop(ctx context.Context, e *Executor, args []string) (reply.Reply, error) {
	return blockingListPop(ctx, e, "brpop", args, false)
}

func blockingListMove(ctx context.Context, e *Executor, timeoutArg, src, dst string, fromLeft, toLeft bool) (reply.Reply, error) {
	return e.blockOn(ctx, timeoutArg, []string{src}, reply.NullBulk(), func(tx *store.Tx) (reply.Reply, bool) {
		val, moved, errReply := listMove(tx, src, dst, fromLeft, toLeft)
		if errReply.IsError() {
			return errReply, true
		}
		if !moved {
			return reply.Reply{}, false
		}
		return reply.BulkString(val), true
	})
}

func cmdBRPopLPush(ctx context.Context, e *Executor, args []string) (reply.Reply, error) {
	if len(args) != 3 {
		return reply.WrongArity("brpoplpush"), nil
	}
	return blockingListMove(ctx, e, args[2], args[0], args[1], false, true)
}

func cmdBLMove(ctx context.Context, e *Executor, args []string) (reply.Reply, error) {
	if len(args) != 5 {
		return reply.WrongArity("blmove"), nil
	}
	fromLeft, ok1 := parseSide(args[2])
	toLeft, ok2 := parseSide(args[3])
	if !ok1 || !ok2 {
		return reply.SyntaxError(), nil
	}
	return blockingListMove(ctx, e, args[4], args[0], args[1], fromLeft, toLeft)
}

// blockingZPop implements BZPOPMIN and BZPOPMAX. On timeout these reply
// with a null bulk.
func blockingZPop(ctx context.Context, e *Executor, cmd string, args []string, min bool) (reply.Reply, error) {
	if len(args) < 2 {
		return reply.WrongArity(cmd), nil
	}
	keys := args[:len(args)-1]
	return e.blockOn(ctx, args[len(args)-1], keys, reply.NullBulk(), func(tx *store.Tx) (reply.Reply, bool) {
		for _, key := range keys {
			if !tx.IsSorted(key) {
				return reply.WrongType(), true
			}
			members := tx.GetSorted(key)
			if len(members) == 0 {
				continue
			}
			view := sortedView(members)
			var picked memberScore
			if min {
				picked = view[0]
			} else {
				picked = view[len(view)-1]
			}
			delete(members, picked.member)
			tx.PutSorted(key, members)
			return reply.Array(
				reply.BulkString(key),
				reply.BulkString(picked.member),
				reply.BulkString(formatScore(picked.score)),
			), true
		}
		return reply.Reply{}, false
	})
}

func cmdBZPopMin(ctx context.Context, e *Executor, args []string) (reply.Reply, error) {
	return blockingZPop(ctx, e, "bzpopmin", args, true)
}

func cmdBZPopMax(ctx context.Context, e *Executor, args []string) (reply.Reply, error) {
	return blockingZPop(ctx, e, "bzpopmax", args, false)
}
