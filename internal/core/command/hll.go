package command

import (
	"github.com/barthorre/redstub-go/internal/core/reply"
	"github.com/barthorre/redstub-go/internal/core/store"
)

// The HyperLogLog commands are backed by exact sets kept in their own
// namespace, so PFCOUNT reports true cardinalities instead of
// estimates.

func cmdPFAdd(tx *store.Tx, args []string) reply.Reply {
	if len(args) < 1 {
		return reply.WrongArity("pfadd")
	}
	key := args[0]
	if !tx.IsHLL(key) {
		return reply.WrongType()
	}
	members := tx.GetHLL(key)
	if len(args) == 1 {
		if members == nil {
			return reply.Integer(1)
		}
		return reply.Integer(0)
	}
	changed := false
	if members == nil {
		members = make(map[string]struct{}, len(args)-1)
	}
	for _, v := range args[1:] {
		if _, ok := members[v]; !ok {
			members[v] = struct{}{}
			changed = true
		}
	}
	tx.PutHLL(key, members)
	if changed {
		return reply.Integer(1)
	}
	return reply.Integer(0)
}

func cmdPFCount(tx *store.Tx, args []string) reply.Reply {
	if len(args) < 1 {
		return reply.WrongArity("pfcount")
	}
	union := make(map[string]struct{})
	for _, key := range args {
		if !tx.IsHLL(key) {
			return reply.WrongType()
		}
		for member := range tx.GetHLL(key) {
			union[member] = struct{}{}
		}
	}
	return reply.Integer(int64(len(union)))
}

func cmdPFMerge(tx *store.Tx, args []string) reply.Reply {
	if len(args) < 1 {
		return reply.WrongArity("pfmerge")
	}
	dst := args[0]
	if !tx.IsHLL(dst) {
		return reply.WrongType()
	}
	for _, key := range args[1:] {
		if !tx.IsHLL(key) {
			return reply.WrongType()
		}
	}
	merged := make(map[string]struct{}, len(tx.GetHLL(dst)))
	for member := range tx.GetHLL(dst) {
		merged[member] = struct{}{}
	}
	for _, key := range args[1:] {
		for member := range tx.GetHLL(key) {
			merged[member] = struct{}{}
		}
	}
	tx.PutHLL(dst, merged)
	return reply.OK()
}
