package command

import (
	"github.com/barthorre/redstub-go/internal/core/reply"
	"github.com/barthorre/redstub-go/internal/core/store"
)

func cmdDel(tx *store.Tx, args []string) reply.Reply {
	if len(args) < 1 {
		return reply.WrongArity("del")
	}
	deleted := int64(0)
	for _, key := range args {
		if tx.Delete(key) {
			deleted++
		}
	}
	return reply.Integer(deleted)
}

func cmdExists(tx *store.Tx, args []string) reply.Reply {
	if len(args) < 1 {
		return reply.WrongArity("exists")
	}
	count := int64(0)
	for _, key := range args {
		if tx.Holder(key) != store.KindNone {
			count++
		}
	}
	return reply.Integer(count)
}

func cmdType(tx *store.Tx, args []string) reply.Reply {
	if len(args) != 1 {
		return reply.WrongArity("type")
	}
	return reply.SimpleString(tx.Holder(args[0]).String())
}

func cmdKeys(tx *store.Tx, args []string) reply.Reply {
	if len(args) != 1 {
		return reply.WrongArity("keys")
	}
	re, err := compileMatch(args[0])
	if err != nil {
		return reply.SyntaxError()
	}
	var out []reply.Reply
	for _, key := range tx.Keys() {
		if re.MatchString(key) {
			out = append(out, reply.BulkString(key))
		}
	}
	return reply.Array(out...)
}

func cmdFlushAll(tx *store.Tx, args []string) reply.Reply {
	if len(args) != 0 {
		return reply.WrongArity("flushall")
	}
	tx.FlushAll()
	return reply.OK()
}
