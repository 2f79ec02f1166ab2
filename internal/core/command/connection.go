package command

import (
	"github.com/barthorre/redstub-go/internal/core/reply"
	"github.com/barthorre/redstub-go/internal/core/store"
)

// PING with no argument answers PONG; with one argument it echoes it.
func cmdPing(_ *store.Tx, args []string) reply.Reply {
	switch len(args) {
	case 0:
		return reply.SimpleString("PONG")
	case 1:
		return reply.BulkString(args[0])
	default:
		return reply.WrongArity("ping")
	}
}

func cmdEcho(_ *store.Tx, args []string) reply.Reply {
	if len(args) < 1 {
		return reply.WrongArity("echo")
	}
	return reply.BulkString(args[0])
}

// AUTH is accepted but not enforced.
func cmdAuth(_ *store.Tx, args []string) reply.Reply {
	if len(args) == 0 {
		return reply.WrongArity("auth")
	}
	return reply.OK()
}

// SELECT is accepted but there is only one database.
func cmdSelect(_ *store.Tx, args []string) reply.Reply {
	if len(args) == 0 {
		return reply.WrongArity("select")
	}
	return reply.OK()
}
