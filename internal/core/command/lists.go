package command

import (
	"strings"

	"github.com/barthorre/redstub-go/internal/core/reply"
	"github.com/barthorre/redstub-go/internal/core/store"
)

// push implements LPUSH/RPUSH and their X variants. A left push inserts
// values one at a time, so the last argument ends up at the head.
func push(tx *store.Tx, cmd string, args []string, left, requireExisting bool) reply.Reply {
	if len(args) < 2 {
		return reply.WrongArity(cmd)
	}
	key := args[0]
	if !tx.IsList(key) {
		return reply.WrongType()
	}
	list := tx.GetList(key)
	if requireExisting && list == nil {
		return reply.Integer(0)
	}
	if left {
		for _, v := range args[1:] {
			list = append([]string{v}, list...)
		}
	} else {
		list = append(list, args[1:]...)
	}
	tx.PutList(key, list)
	return reply.Integer(int64(len(list)))
}

func cmdLPush(tx *store.Tx, args []string) reply.Reply {
	return push(tx, "lpush", args, true, false)
}

func cmdRPush(tx *store.Tx, args []string) reply.Reply {
	return push(tx, "rpush", args, false, false)
}

func cmdLPushX(tx *store.Tx, args []string) reply.Reply {
	return push(tx, "lpushx", args, true, true)
}

func cmdRPushX(tx *store.Tx, args []string) reply.Reply {
	return push(tx, "rpushx", args, false, true)
}

func pop(tx *store.Tx, cmd string, args []string, left bool) reply.Reply {
	if len(args) < 1 || len(args) > 2 {
		return reply.WrongArity(cmd)
	}
	key := args[0]
	if !tx.IsList(key) {
		return reply.WrongType()
	}
	list := tx.GetList(key)

	if len(args) == 1 {
		if len(list) == 0 {
			return reply.NullBulk()
		}
		var val string
		if left {
			val, list = list[0], list[1:]
		} else {
			val, list = list[len(list)-1], list[:len(list)-1]
		}
		tx.PutList(key, list)
		return reply.BulkString(val)
	}

	count, ok := parseInt(args[1])
	if !ok {
		return reply.NotInteger()
	}
	if count < 0 {
		return reply.Error("ERR value is out of range, must be positive")
	}
	if list == nil {
		return reply.NullArray()
	}
	if count > int64(len(list)) {
		count = int64(len(list))
	}
	out := make([]reply.Reply, 0, count)
	for i := int64(0); i < count; i++ {
		var val string
		if left {
			val, list = list[0], list[1:]
		} else {
			val, list = list[len(list)-1], list[:len(list)-1]
		}
		out = append(out, reply.BulkString(val))
	}
	tx.PutList(key, list)
	return reply.Array(out...)
}

func cmdLPop(tx *store.Tx, args []string) reply.Reply {
	return pop(tx, "lpop", args, true)
}

func cmdRPop(tx *store.Tx, args []string) reply.Reply {
	return pop(tx, "rpop", args, false)
}

func cmdLLen(tx *store.Tx, args []string) reply.Reply {
	if len(args) != 1 {
		return reply.WrongArity("llen")
	}
	if !tx.IsList(args[0]) {
		return reply.WrongType()
	}
	return reply.Integer(int64(len(tx.GetList(args[0]))))
}

func cmdLRange(tx *store.Tx, args []string) reply.Reply {
	if len(args) != 3 {
		return reply.WrongArity("lrange")
	}
	start, ok1 := parseInt(args[1])
	stop, ok2 := parseInt(args[2])
	if !ok1 || !ok2 {
		return reply.NotInteger()
	}
	if !tx.IsList(args[0]) {
		return reply.WrongType()
	}
	list := tx.GetList(args[0])
	lo, hi, ok := normalizeRange(start, stop, int64(len(list)))
	if !ok {
		return reply.Array()
	}
	return bulkArray(list[lo : hi+1])
}

func cmdLIndex(tx *store.Tx, args []string) reply.Reply {
	if len(args) != 2 {
		return reply.WrongArity("lindex")
	}
	idx, ok := parseInt(args[1])
	if !ok {
		return reply.NotInteger()
	}
	if !tx.IsList(args[0]) {
		return reply.WrongType()
	}
	list := tx.GetList(args[0])
	if idx < 0 {
		idx = int64(len(list)) + idx
	}
	if idx < 0 || idx >= int64(len(list)) {
		return reply.NullBulk()
	}
	return reply.BulkString(list[idx])
}

func cmdLInsert(tx *store.Tx, args []string) reply.Reply {
	if len(args) != 4 {
		return reply.WrongArity("linsert")
	}
	key, where, pivot, element := args[0], strings.ToUpper(args[1]), args[2], args[3]
	if where != "BEFORE" && where != "AFTER" {
		return reply.SyntaxError()
	}
	if !tx.IsList(key) {
		return reply.WrongType()
	}
	list := tx.GetList(key)
	if list == nil {
		return reply.Integer(0)
	}
	at := -1
	for i, v := range list {
		if v == pivot {
			at = i
			break
		}
	}
	if at == -1 {
		return reply.Integer(-1)
	}
	if where == "AFTER" {
		at++
	}
	list = append(list[:at:at], append([]string{element}, list[at:]...)...)
	tx.PutList(key, list)
	return reply.Integer(int64(len(list)))
}

func cmdLRem(tx *store.Tx, args []string) reply.Reply {
	if len(args) != 3 {
		return reply.WrongArity("lrem")
	}
	count, ok := parseInt(args[1])
	if !ok {
		return reply.NotInteger()
	}
	key, element := args[0], args[2]
	if !tx.IsList(key) {
		return reply.WrongType()
	}
	list := tx.GetList(key)

	limit := count
	if limit < 0 {
		limit = -limit
	}
	removed := int64(0)
	keep := make([]string, 0, len(list))
	if count >= 0 {
		for _, v := range list {
			if v == element && (count == 0 || removed < limit) {
				removed++
				continue
			}
			keep = append(keep, v)
		}
	} else {
		for i := len(list) - 1; i >= 0; i-- {
			v := list[i]
			if v == element && removed < limit {
				removed++
				continue
			}
			keep = append([]string{v}, keep...)
		}
	}
	tx.PutList(key, keep)
	return reply.Integer(removed)
}

func cmdLSet(tx *store.Tx, args []string) reply.Reply {
	if len(args) != 3 {
		return reply.WrongArity("lset")
	}
	idx, ok := parseInt(args[1])
	if !ok {
		return reply.NotInteger()
	}
	key := args[0]
	if !tx.IsList(key) {
		return reply.WrongType()
	}
	list := tx.GetList(key)
	if list == nil {
		return reply.Error("ERR no such key")
	}
	if idx < 0 {
		idx = int64(len(list)) + idx
	}
	if idx < 0 || idx >= int64(len(list)) {
		return reply.Error("ERR index out of range")
	}
	list[idx] = args[2]
	tx.PutList(key, list)
	return reply.OK()
}

func cmdLTrim(tx *store.Tx, args []string) reply.Reply {
	if len(args) != 3 {
		return reply.WrongArity("ltrim")
	}
	start, ok1 := parseInt(args[1])
	stop, ok2 := parseInt(args[2])
	if !ok1 || !ok2 {
		return reply.NotInteger()
	}
	key := args[0]
	if !tx.IsList(key) {
		return reply.WrongType()
	}
	list := tx.GetList(key)
	lo, hi, ok := normalizeRange(start, stop, int64(len(list)))
	if !ok {
		tx.PutList(key, nil)
		return reply.OK()
	}
	tx.PutList(key, list[lo:hi+1])
	return reply.OK()
}

// listMove is the shared body of RPOPLPUSH, LMOVE and their blocking
// forms. When src and dst are the same key the push operates on the
// already-popped list.
func listMove(tx *store.Tx, src, dst string, fromLeft, toLeft bool) (string, bool, reply.Reply) {
	if !tx.IsList(src) || !tx.IsList(dst) {
		return "", false, reply.WrongType()
	}
	srcList := tx.GetList(src)
	if len(srcList) == 0 {
		return "", false, reply.Reply{}
	}

	var val string
	if fromLeft {
		val, srcList = srcList[0], srcList[1:]
	} else {
		val, srcList = srcList[len(srcList)-1], srcList[:len(srcList)-1]
	}

	if src == dst {
		if toLeft {
			srcList = append([]string{val}, srcList...)
		} else {
			srcList = append(srcList, val)
		}
		tx.PutList(src, srcList)
		return val, true, reply.Reply{}
	}

	tx.PutList(src, srcList)
	dstList := tx.GetList(dst)
	if toLeft {
		dstList = append([]string{val}, dstList...)
	} else {
		dstList = append(dstList, val)
	}
	tx.PutList(dst, dstList)
	return val, true, reply.Reply{}
}

func cmdRPopLPush(tx *store.Tx, args []string) reply.Reply {
	if len(args) != 2 {
		return reply.WrongArity("rpoplpush")
	}
	val, moved, errReply := listMove(tx, args[0], args[1], false, true)
	if errReply.IsError() {
		return errReply
	}
	if !moved {
		return reply.NullBulk()
	}
	return reply.BulkString(val)
}

func parseSide(s string) (left bool, ok bool) {
	switch strings.ToUpper(s) {
	case "LEFT":
		return true, true
	case "RIGHT":
		return false, true
	default:
		return false, false
	}
}

func cmdLMove(tx *store.Tx, args []string) reply.Reply {
	if len(args) != 4 {
		return reply.WrongArity("lmove")
	}
	fromLeft, ok1 := parseSide(args[2])
	toLeft, ok2 := parseSide(args[3])
	if !ok1 || !ok2 {
		return reply.SyntaxError()
	}
	val, moved, errReply := listMove(tx, args[0], args[1], fromLeft, toLeft)
	if errReply.IsError() {
		return errReply
	}
	if !moved {
		return reply.NullBulk()
	}
	return reply.BulkString(val)
}

// LPOS key element [RANK rank] [COUNT count] [MAXLEN maxlen]
//
// A negative rank searches right to left; MAXLEN bounds the number of
// elements examined, counted from whichever end the search starts at.
func cmdLPos(tx *store.Tx, args []string) reply.Reply {
	if len(args) < 2 || len(args)%2 != 0 {
		return reply.WrongArity("lpos")
	}
	key, element := args[0], args[1]
	rank, count, maxlen := int64(1), int64(-1), int64(0)
	for i := 2; i < len(args); i += 2 {
		val, ok := parseInt(args[i+1])
		if !ok {
			return reply.NotInteger()
		}
		switch strings.ToUpper(args[i]) {
		case "RANK":
			if val == 0 {
				return reply.Error("ERR RANK can't be zero")
			}
			rank = val
		case "COUNT":
			if val < 0 {
				return reply.Error("ERR COUNT can't be negative")
			}
			count = val
		case "MAXLEN":
			if val < 0 {
				return reply.Error("ERR MAXLEN can't be negative")
			}
			maxlen = val
		default:
			return reply.SyntaxError()
		}
	}
	if !tx.IsList(key) {
		return reply.WrongType()
	}
	list := tx.GetList(key)

	var matches []int64
	skip := rank
	if skip < 0 {
		skip = -skip
	}
	skip--

	if rank > 0 {
		end := int64(len(list))
		if maxlen > 0 && maxlen < end {
			end = maxlen
		}
		for i := int64(0); i < end; i++ {
			if list[i] != element {
				continue
			}
			if skip > 0 {
				skip--
				continue
			}
			matches = append(matches, i)
		}
	} else {
		begin := int64(0)
		if maxlen > 0 && int64(len(list))-maxlen > 0 {
			begin = int64(len(list)) - maxlen
		}
		for i := int64(len(list)) - 1; i >= begin; i-- {
			if list[i] != element {
				continue
			}
			if skip > 0 {
				skip--
				continue
			}
			matches = append(matches, i)
		}
	}

	if count < 0 {
		if len(matches) == 0 {
			return reply.NullBulk()
		}
		return reply.Integer(matches[0])
	}
	if count > 0 && int64(len(matches)) > count {
		matches = matches[:count]
	}
	out := make([]reply.Reply, len(matches))
	for i, m := range matches {
		out[i] = reply.Integer(m)
	}
	return reply.Array(out...)
}
