package command

import (
	"strings"

	"github.com/barthorre/redstub-go/internal/core/reply"
	"github.com/barthorre/redstub-go/internal/core/store"
)

// SET key value [EX seconds | PX milliseconds]
//
// The TTL tokens are parsed for protocol compatibility but not
// enforced: this store never expires keys.
func cmdSet(tx *store.Tx, args []string) reply.Reply {
	if len(args) < 2 {
		return reply.WrongArity("set")
	}
	for i := 2; i < len(args); i += 2 {
		switch strings.ToUpper(args[i]) {
		case "EX", "PX":
			if i+1 >= len(args) {
				return reply.SyntaxError()
			}
			if _, ok := parseInt(args[i+1]); !ok {
				return reply.NotInteger()
			}
		default:
			return reply.SyntaxError()
		}
	}
	if !tx.IsString(args[0]) {
		return reply.WrongType()
	}
	tx.PutString(args[0], args[1])
	return reply.OK()
}

func cmdGet(tx *store.Tx, args []string) reply.Reply {
	if len(args) != 1 {
		return reply.WrongArity("get")
	}
	if !tx.IsString(args[0]) {
		return reply.WrongType()
	}
	val, ok := tx.GetString(args[0])
	if !ok {
		return reply.NullBulk()
	}
	return reply.BulkString(val)
}
