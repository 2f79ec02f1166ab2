package command

import (
	"github.com/barthorre/redstub-go/internal/core/reply"
	"github.com/barthorre/redstub-go/internal/core/store"
)

func cmdSAdd(tx *store.Tx, args []string) reply.Reply {
	if len(args) < 2 {
		return reply.WrongArity("sadd")
	}
	key := args[0]
	if !tx.IsSet(key) {
		return reply.WrongType()
	}
	members := tx.GetSet(key)
	if members == nil {
		members = make(map[string]struct{}, len(args)-1)
	}
	added := int64(0)
	for _, m := range args[1:] {
		if _, ok := members[m]; !ok {
			members[m] = struct{}{}
			added++
		}
	}
	tx.PutSet(key, members)
	return reply.Integer(added)
}

func cmdSRem(tx *store.Tx, args []string) reply.Reply {
	if len(args) < 2 {
		return reply.WrongArity("srem")
	}
	key := args[0]
	if !tx.IsSet(key) {
		return reply.WrongType()
	}
	members := tx.GetSet(key)
	if members == nil {
		return reply.Integer(0)
	}
	removed := int64(0)
	for _, m := range args[1:] {
		if _, ok := members[m]; ok {
			delete(members, m)
			removed++
		}
	}
	tx.PutSet(key, members)
	return reply.Integer(removed)
}

func cmdSCard(tx *store.Tx, args []string) reply.Reply {
	if len(args) != 1 {
		return reply.WrongArity("scard")
	}
	if !tx.IsSet(args[0]) {
		return reply.WrongType()
	}
	return reply.Integer(int64(len(tx.GetSet(args[0]))))
}

func cmdSIsMember(tx *store.Tx, args []string) reply.Reply {
	if len(args) != 2 {
		return reply.WrongArity("sismember")
	}
	if !tx.IsSet(args[0]) {
		return reply.WrongType()
	}
	if _, ok := tx.GetSet(args[0])[args[1]]; ok {
		return reply.Integer(1)
	}
	return reply.Integer(0)
}

func cmdSMembers(tx *store.Tx, args []string) reply.Reply {
	if len(args) != 1 {
		return reply.WrongArity("smembers")
	}
	if !tx.IsSet(args[0]) {
		return reply.WrongType()
	}
	return bulkArray(sortedMembers(tx.GetSet(args[0])))
}

// setFold folds the given keys left to right with op, starting from a
// copy of the first key's set. A miss reads as the empty set.
func setFold(tx *store.Tx, keys []string, op func(acc, next map[string]struct{})) (map[string]struct{}, bool) {
	for _, key := range keys {
		if !tx.IsSet(key) {
			return nil, false
		}
	}
	acc := make(map[string]struct{}, len(tx.GetSet(keys[0])))
	for m := range tx.GetSet(keys[0]) {
		acc[m] = struct{}{}
	}
	for _, key := range keys[1:] {
		op(acc, tx.GetSet(key))
	}
	return acc, true
}

func diffOp(acc, next map[string]struct{}) {
	for m := range next {
		delete(acc, m)
	}
}

func interOp(acc, next map[string]struct{}) {
	for m := range acc {
		if _, ok := next[m]; !ok {
			delete(acc, m)
		}
	}
}

func unionOp(acc, next map[string]struct{}) {
	for m := range next {
		acc[m] = struct{}{}
	}
}

func setAlgebra(tx *store.Tx, cmd string, args []string, op func(acc, next map[string]struct{})) reply.Reply {
	if len(args) < 1 {
		return reply.WrongArity(cmd)
	}
	result, ok := setFold(tx, args, op)
	if !ok {
		return reply.WrongType()
	}
	return bulkArray(sortedMembers(result))
}

func setAlgebraStore(tx *store.Tx, cmd string, args []string, op func(acc, next map[string]struct{})) reply.Reply {
	if len(args) < 2 {
		return reply.WrongArity(cmd)
	}
	dst := args[0]
	if !tx.IsSet(dst) {
		return reply.WrongType()
	}
	result, ok := setFold(tx, args[1:], op)
	if !ok {
		return reply.WrongType()
	}
	tx.PutSet(dst, result)
	return reply.Integer(int64(len(result)))
}

func cmdSDiff(tx *store.Tx, args []string) reply.Reply {
	return setAlgebra(tx, "sdiff", args, diffOp)
}

func cmdSDiffStore(tx *store.Tx, args []string) reply.Reply {
	return setAlgebraStore(tx, "sdiffstore", args, diffOp)
}

func cmdSInter(tx *store.Tx, args []string) reply.Reply {
	return setAlgebra(tx, "sinter", args, interOp)
}

func cmdSInterStore(tx *store.Tx, args []string) reply.Reply {
	return setAlgebraStore(tx, "sinterstore", args, interOp)
}

func cmdSUnion(tx *store.Tx, args []string) reply.Reply {
	return setAlgebra(tx, "sunion", args, unionOp)
}

func cmdSUnionStore(tx *store.Tx, args []string) reply.Reply {
	return setAlgebraStore(tx, "sunionstore", args, unionOp)
}

// SMOVE src dst member moves atomically: both mutations commit in the
// same transaction or neither does.
func cmdSMove(tx *store.Tx, args []string) reply.Reply {
	if len(args) != 3 {
		return reply.WrongArity("smove")
	}
	src, dst, member := args[0], args[1], args[2]
	if !tx.IsSet(src) || !tx.IsSet(dst) {
		return reply.WrongType()
	}
	srcSet := tx.GetSet(src)
	if _, ok := srcSet[member]; !ok {
		return reply.Integer(0)
	}
	delete(srcSet, member)
	tx.PutSet(src, srcSet)

	dstSet := tx.GetSet(dst)
	if dstSet == nil {
		dstSet = make(map[string]struct{}, 1)
	}
	dstSet[member] = struct{}{}
	tx.PutSet(dst, dstSet)
	return reply.Integer(1)
}

func cmdSPop(tx *store.Tx, args []string) reply.Reply {
	if len(args) < 1 || len(args) > 2 {
		return reply.WrongArity("spop")
	}
	key := args[0]
	if !tx.IsSet(key) {
		return reply.WrongType()
	}
	members := tx.GetSet(key)
	view := sortedMembers(members)

	if len(args) == 1 {
		if len(view) == 0 {
			return reply.NullBulk()
		}
		picked := view[tx.PickOne(len(view))]
		delete(members, picked)
		tx.PutSet(key, members)
		return reply.BulkString(picked)
	}

	count, ok := parseInt(args[1])
	if !ok {
		return reply.NotInteger()
	}
	if count < 0 {
		return reply.Error("ERR value is out of range, must be positive")
	}
	out := make([]reply.Reply, 0, count)
	for _, idx := range tx.PickDistinct(int(count), len(view)) {
		picked := view[idx]
		delete(members, picked)
		out = append(out, reply.BulkString(picked))
	}
	tx.PutSet(key, members)
	return reply.Array(out...)
}

func cmdSRandMember(tx *store.Tx, args []string) reply.Reply {
	if len(args) < 1 || len(args) > 2 {
		return reply.WrongArity("srandmember")
	}
	if !tx.IsSet(args[0]) {
		return reply.WrongType()
	}
	view := sortedMembers(tx.GetSet(args[0]))

	if len(args) == 1 {
		if len(view) == 0 {
			return reply.NullBulk()
		}
		return reply.BulkString(view[tx.PickOne(len(view))])
	}

	count, ok := parseInt(args[1])
	if !ok {
		return reply.NotInteger()
	}
	var picks []int
	if count >= 0 {
		picks = tx.PickDistinct(int(count), len(view))
	} else {
		picks = tx.PickRepeated(int(-count), len(view))
	}
	out := make([]reply.Reply, len(picks))
	for i, idx := range picks {
		out[i] = reply.BulkString(view[idx])
	}
	return reply.Array(out...)
}

func cmdSScan(tx *store.Tx, args []string) reply.Reply {
	if len(args) < 2 {
		return reply.WrongArity("sscan")
	}
	if !tx.IsSet(args[0]) {
		return reply.WrongType()
	}
	sa, errReply, ok := parseScanArgs(args[1:])
	if !ok {
		return errReply
	}
	next, window := scanWindow(sortedMembers(tx.GetSet(args[0])), sa)
	items := make([]reply.Reply, len(window))
	for i, m := range window {
		items[i] = reply.BulkString(m)
	}
	return scanReply(next, items)
}
