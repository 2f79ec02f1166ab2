package command

import (
	"strconv"
	"strings"

	"github.com/barthorre/redstub-go/internal/core/reply"
	"github.com/barthorre/redstub-go/internal/core/store"
)

func hashSetPairs(tx *store.Tx, cmd string, args []string) (int64, reply.Reply) {
	if len(args) < 3 || (len(args)-1)%2 != 0 {
		return 0, reply.WrongArity(cmd)
	}
	key := args[0]
	if !tx.IsHash(key) {
		return 0, reply.WrongType()
	}
	fields := tx.GetHash(key)
	if fields == nil {
		fields = make(map[string]string, (len(args)-1)/2)
	}
	added := int64(0)
	for i := 1; i < len(args); i += 2 {
		if _, ok := fields[args[i]]; !ok {
			added++
		}
		fields[args[i]] = args[i+1]
	}
	tx.PutHash(key, fields)
	return added, reply.Reply{}
}

func cmdHSet(tx *store.Tx, args []string) reply.Reply {
	added, errReply := hashSetPairs(tx, "hset", args)
	if errReply.IsError() {
		return errReply
	}
	return reply.Integer(added)
}

func cmdHMSet(tx *store.Tx, args []string) reply.Reply {
	if _, errReply := hashSetPairs(tx, "hmset", args); errReply.IsError() {
		return errReply
	}
	return reply.OK()
}

func cmdHSetNX(tx *store.Tx, args []string) reply.Reply {
	if len(args) != 3 {
		return reply.WrongArity("hsetnx")
	}
	key, field, val := args[0], args[1], args[2]
	if !tx.IsHash(key) {
		return reply.WrongType()
	}
	fields := tx.GetHash(key)
	if _, ok := fields[field]; ok {
		return reply.Integer(0)
	}
	if fields == nil {
		fields = make(map[string]string, 1)
	}
	fields[field] = val
	tx.PutHash(key, fields)
	return reply.Integer(1)
}

func cmdHGet(tx *store.Tx, args []string) reply.Reply {
	if len(args) != 2 {
		return reply.WrongArity("hget")
	}
	if !tx.IsHash(args[0]) {
		return reply.WrongType()
	}
	val, ok := tx.GetHash(args[0])[args[1]]
	if !ok {
		return reply.NullBulk()
	}
	return reply.BulkString(val)
}

func cmdHMGet(tx *store.Tx, args []string) reply.Reply {
	if len(args) < 2 {
		return reply.WrongArity("hmget")
	}
	if !tx.IsHash(args[0]) {
		return reply.WrongType()
	}
	fields := tx.GetHash(args[0])
	out := make([]reply.Reply, 0, len(args)-1)
	for _, field := range args[1:] {
		if val, ok := fields[field]; ok {
			out = append(out, reply.BulkString(val))
		} else {
			out = append(out, reply.NullBulk())
		}
	}
	return reply.Array(out...)
}

// HDEL drops the hash itself once the last field is gone.
func cmdHDel(tx *store.Tx, args []string) reply.Reply {
	if len(args) < 2 {
		return reply.WrongArity("hdel")
	}
	key := args[0]
	if !tx.IsHash(key) {
		return reply.WrongType()
	}
	fields := tx.GetHash(key)
	if fields == nil {
		return reply.Integer(0)
	}
	removed := int64(0)
	for _, field := range args[1:] {
		if _, ok := fields[field]; ok {
			delete(fields, field)
			removed++
		}
	}
	tx.PutHash(key, fields)
	return reply.Integer(removed)
}

func cmdHExists(tx *store.Tx, args []string) reply.Reply {
	if len(args) != 2 {
		return reply.WrongArity("hexists")
	}
	if !tx.IsHash(args[0]) {
		return reply.WrongType()
	}
	if _, ok := tx.GetHash(args[0])[args[1]]; ok {
		return reply.Integer(1)
	}
	return reply.Integer(0)
}

func cmdHKeys(tx *store.Tx, args []string) reply.Reply {
	if len(args) != 1 {
		return reply.WrongArity("hkeys")
	}
	if !tx.IsHash(args[0]) {
		return reply.WrongType()
	}
	return bulkArray(sortedFields(tx.GetHash(args[0])))
}

func cmdHVals(tx *store.Tx, args []string) reply.Reply {
	if len(args) != 1 {
		return reply.WrongArity("hvals")
	}
	if !tx.IsHash(args[0]) {
		return reply.WrongType()
	}
	fields := tx.GetHash(args[0])
	vals := make([]string, 0, len(fields))
	for _, field := range sortedFields(fields) {
		vals = append(vals, fields[field])
	}
	return bulkArray(vals)
}

func cmdHLen(tx *store.Tx, args []string) reply.Reply {
	if len(args) != 1 {
		return reply.WrongArity("hlen")
	}
	if !tx.IsHash(args[0]) {
		return reply.WrongType()
	}
	return reply.Integer(int64(len(tx.GetHash(args[0]))))
}

func cmdHGetAll(tx *store.Tx, args []string) reply.Reply {
	if len(args) != 1 {
		return reply.WrongArity("hgetall")
	}
	if !tx.IsHash(args[0]) {
		return reply.WrongType()
	}
	fields := tx.GetHash(args[0])
	out := make([]reply.Reply, 0, len(fields)*2)
	for _, field := range sortedFields(fields) {
		out = append(out, reply.BulkString(field), reply.BulkString(fields[field]))
	}
	return reply.Array(out...)
}

func cmdHStrLen(tx *store.Tx, args []string) reply.Reply {
	if len(args) != 2 {
		return reply.WrongArity("hstrlen")
	}
	if !tx.IsHash(args[0]) {
		return reply.WrongType()
	}
	return reply.Integer(int64(len(tx.GetHash(args[0])[args[1]])))
}

func cmdHIncrBy(tx *store.Tx, args []string) reply.Reply {
	if len(args) != 3 {
		return reply.WrongArity("hincrby")
	}
	incr, ok := parseInt(args[2])
	if !ok {
		return reply.NotInteger()
	}
	key, field := args[0], args[1]
	if !tx.IsHash(key) {
		return reply.WrongType()
	}
	fields := tx.GetHash(key)
	cur := int64(0)
	if raw, exists := fields[field]; exists {
		var err error
		cur, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return reply.Error("ERR hash value is not an integer")
		}
	}
	if fields == nil {
		fields = make(map[string]string, 1)
	}
	next := cur + incr
	fields[field] = strconv.FormatInt(next, 10)
	tx.PutHash(key, fields)
	return reply.Integer(next)
}

func cmdHIncrByFloat(tx *store.Tx, args []string) reply.Reply {
	if len(args) != 3 {
		return reply.WrongArity("hincrbyfloat")
	}
	incr, ok := parseScore(args[2])
	if !ok {
		return reply.NotFloat()
	}
	key, field := args[0], args[1]
	if !tx.IsHash(key) {
		return reply.WrongType()
	}
	fields := tx.GetHash(key)
	cur := float64(0)
	if raw, exists := fields[field]; exists {
		var err error
		cur, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return reply.Error("ERR hash value is not a float")
		}
	}
	if fields == nil {
		fields = make(map[string]string, 1)
	}
	next := formatScore(cur + incr)
	fields[field] = next
	tx.PutHash(key, fields)
	return reply.BulkString(next)
}

// HSCAN windows over fields sorted by name and replies with
// field/value pairs.
func cmdHScan(tx *store.Tx, args []string) reply.Reply {
	if len(args) < 2 {
		return reply.WrongArity("hscan")
	}
	if !tx.IsHash(args[0]) {
		return reply.WrongType()
	}
	sa, errReply, ok := parseScanArgs(args[1:])
	if !ok {
		return errReply
	}
	fields := tx.GetHash(args[0])
	next, window := scanWindow(sortedFields(fields), sa)
	items := make([]reply.Reply, 0, len(window)*2)
	for _, field := range window {
		items = append(items, reply.BulkString(field), reply.BulkString(fields[field]))
	}
	return scanReply(next, items)
}

func cmdHRandField(tx *store.Tx, args []string) reply.Reply {
	if len(args) < 1 || len(args) > 3 {
		return reply.WrongArity("hrandfield")
	}
	if !tx.IsHash(args[0]) {
		return reply.WrongType()
	}
	fields := tx.GetHash(args[0])
	view := sortedFields(fields)

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
	withValues := false
	if len(args) == 3 {
		if !strings.EqualFold(args[2], "WITHVALUES") {
			return reply.SyntaxError()
		}
		withValues = true
	}

	var picks []int
	if count >= 0 {
		picks = tx.PickDistinct(int(count), len(view))
	} else {
		picks = tx.PickRepeated(int(-count), len(view))
	}
	out := make([]reply.Reply, 0, len(picks)*2)
	for _, idx := range picks {
		out = append(out, reply.BulkString(view[idx]))
		if withValues {
			out = append(out, reply.BulkString(fields[view[idx]]))
		}
	}
	return reply.Array(out...)
}
