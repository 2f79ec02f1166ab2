package command

import (
	"math"
	"sort"
	"strings"

	"github.com/barthorre/redstub-go/internal/core/reply"
	"github.com/barthorre/redstub-go/internal/core/store"
)

// memberScore is one sorted-set entry in a materialized view.
type memberScore struct {
	member string
	score  float64
}

// sortedView materializes the mapping ordered by ascending score, ties
// broken by byte order of the member.
func sortedView(m map[string]float64) []memberScore {
	view := make([]memberScore, 0, len(m))
	for member, score := range m {
		view = append(view, memberScore{member, score})
	}
	sort.Slice(view, func(i, j int) bool {
		if view[i].score != view[j].score {
			return view[i].score < view[j].score
		}
		return view[i].member < view[j].member
	})
	return view
}

func reversed(view []memberScore) []memberScore {
	out := make([]memberScore, len(view))
	for i, ms := range view {
		out[len(view)-1-i] = ms
	}
	return out
}

// emitView renders a view as the member [score] reply shape.
func emitView(view []memberScore, withScores bool) reply.Reply {
	out := make([]reply.Reply, 0, len(view)*2)
	for _, ms := range view {
		out = append(out, reply.BulkString(ms.member))
		if withScores {
			out = append(out, reply.BulkString(formatScore(ms.score)))
		}
	}
	return reply.Array(out...)
}

// scoreBound is one endpoint of a score range: a value, possibly
// exclusive, with the infinities expressed as IEEE infinities.
type scoreBound struct {
	val  float64
	excl bool
}

func parseScoreBound(s string) (scoreBound, bool) {
	b := scoreBound{}
	if strings.HasPrefix(s, "(") {
		b.excl = true
		s = s[1:]
	}
	switch strings.ToLower(s) {
	case "+inf", "inf":
		b.val = math.Inf(1)
		return b, true
	case "-inf":
		b.val = math.Inf(-1)
		return b, true
	}
	f, ok := parseScore(s)
	if !ok {
		return b, false
	}
	b.val = f
	return b, true
}

func scoreWithin(s float64, min, max scoreBound) bool {
	if min.excl {
		if s <= min.val {
			return false
		}
	} else if s < min.val {
		return false
	}
	if max.excl {
		if s >= max.val {
			return false
		}
	} else if s > max.val {
		return false
	}
	return true
}

// lexBound is one endpoint of a lexicographic range: "-", "+", "(x" or
// "[x".
type lexBound struct {
	negInf bool
	posInf bool
	val    string
	excl   bool
}

func parseLexBound(s string) (lexBound, bool) {
	switch {
	case s == "-":
		return lexBound{negInf: true}, true
	case s == "+":
		return lexBound{posInf: true}, true
	case strings.HasPrefix(s, "("):
		return lexBound{val: s[1:], excl: true}, true
	case strings.HasPrefix(s, "["):
		return lexBound{val: s[1:]}, true
	default:
		return lexBound{}, false
	}
}

func lexWithin(m string, min, max lexBound) bool {
	if !min.negInf {
		if min.posInf {
			return false
		}
		if min.excl {
			if m <= min.val {
				return false
			}
		} else if m < min.val {
			return false
		}
	}
	if !max.posInf {
		if max.negInf {
			return false
		}
		if max.excl {
			if m >= max.val {
				return false
			}
		} else if m > max.val {
			return false
		}
	}
	return true
}

// zaddFlags is the parsed option prefix of ZADD.
type zaddFlags struct {
	nx, xx, lt, gt, ch, incr bool
}

func cmdZAdd(tx *store.Tx, args []string) reply.Reply {
	if len(args) < 3 {
		return reply.WrongArity("zadd")
	}
	key := args[0]

	var flags zaddFlags
	i := 1
loop:
	for ; i < len(args); i++ {
		switch strings.ToUpper(args[i]) {
		case "NX":
			flags.nx = true
		case "XX":
			flags.xx = true
		case "LT":
			flags.lt = true
		case "GT":
			flags.gt = true
		case "CH":
			flags.ch = true
		case "INCR":
			flags.incr = true
		default:
			break loop
		}
	}
	if flags.nx && flags.xx {
		return reply.Error("ERR XX and NX options at the same time are not compatible")
	}
	if (flags.lt || flags.gt) && (flags.nx || flags.lt && flags.gt) {
		return reply.Error("ERR GT, LT, and/or NX options at the same time are not compatible")
	}

	pairs := args[i:]
	if len(pairs) == 0 || len(pairs)%2 != 0 {
		return reply.WrongArity("zadd")
	}
	scores := make([]float64, 0, len(pairs)/2)
	for j := 0; j < len(pairs); j += 2 {
		f, ok := parseScore(pairs[j])
		if !ok {
			return reply.NotFloat()
		}
		scores = append(scores, f)
	}
	if !tx.IsSorted(key) {
		return reply.WrongType()
	}
	members := tx.GetSorted(key)
	if members == nil {
		members = make(map[string]float64, len(scores))
	}

	if flags.incr {
		if len(scores) != 1 {
			return reply.Error("ERR INCR option supports a single increment-member pair")
		}
		member := pairs[1]
		cur, exists := members[member]
		if flags.nx && exists || flags.xx && !exists {
			return reply.NullBulk()
		}
		next := cur + scores[0]
		if exists && (flags.lt && next >= cur || flags.gt && next <= cur) {
			return reply.NullBulk()
		}
		members[member] = next
		tx.PutSorted(key, members)
		return reply.BulkString(formatScore(next))
	}

	added, changed := int64(0), int64(0)
	for j := 0; j < len(scores); j++ {
		member, score := pairs[j*2+1], scores[j]
		cur, exists := members[member]
		if !exists {
			if flags.xx {
				continue
			}
			members[member] = score
			added++
			changed++
			continue
		}
		if flags.nx || flags.lt && score >= cur || flags.gt && score <= cur {
			continue
		}
		if score != cur {
			members[member] = score
			changed++
		}
	}
	tx.PutSorted(key, members)
	if flags.ch {
		return reply.Integer(changed)
	}
	return reply.Integer(added)
}

func cmdZCard(tx *store.Tx, args []string) reply.Reply {
	if len(args) != 1 {
		return reply.WrongArity("zcard")
	}
	if !tx.IsSorted(args[0]) {
		return reply.WrongType()
	}
	return reply.Integer(int64(len(tx.GetSorted(args[0]))))
}

func cmdZCount(tx *store.Tx, args []string) reply.Reply {
	if len(args) != 3 {
		return reply.WrongArity("zcount")
	}
	min, ok1 := parseScoreBound(args[1])
	max, ok2 := parseScoreBound(args[2])
	if !ok1 || !ok2 {
		return reply.Error("ERR min or max is not a float")
	}
	if !tx.IsSorted(args[0]) {
		return reply.WrongType()
	}
	count := int64(0)
	for _, score := range tx.GetSorted(args[0]) {
		if scoreWithin(score, min, max) {
			count++
		}
	}
	return reply.Integer(count)
}

func cmdZScore(tx *store.Tx, args []string) reply.Reply {
	if len(args) != 2 {
		return reply.WrongArity("zscore")
	}
	if !tx.IsSorted(args[0]) {
		return reply.WrongType()
	}
	score, ok := tx.GetSorted(args[0])[args[1]]
	if !ok {
		return reply.NullBulk()
	}
	return reply.BulkString(formatScore(score))
}

func cmdZMScore(tx *store.Tx, args []string) reply.Reply {
	if len(args) < 2 {
		return reply.WrongArity("zmscore")
	}
	if !tx.IsSorted(args[0]) {
		return reply.WrongType()
	}
	members := tx.GetSorted(args[0])
	out := make([]reply.Reply, 0, len(args)-1)
	for _, member := range args[1:] {
		if score, ok := members[member]; ok {
			out = append(out, reply.BulkString(formatScore(score)))
		} else {
			out = append(out, reply.NullBulk())
		}
	}
	return reply.Array(out...)
}

func zrank(tx *store.Tx, cmd string, args []string, rev bool) reply.Reply {
	if len(args) != 2 {
		return reply.WrongArity(cmd)
	}
	if !tx.IsSorted(args[0]) {
		return reply.WrongType()
	}
	members := tx.GetSorted(args[0])
	if _, ok := members[args[1]]; !ok {
		return reply.NullBulk()
	}
	view := sortedView(members)
	for i, ms := range view {
		if ms.member == args[1] {
			if rev {
				return reply.Integer(int64(len(view) - 1 - i))
			}
			return reply.Integer(int64(i))
		}
	}
	return reply.NullBulk()
}

func cmdZRank(tx *store.Tx, args []string) reply.Reply {
	return zrank(tx, "zrank", args, false)
}

func cmdZRevRank(tx *store.Tx, args []string) reply.Reply {
	return zrank(tx, "zrevrank", args, true)
}

func cmdZIncrBy(tx *store.Tx, args []string) reply.Reply {
	if len(args) != 3 {
		return reply.WrongArity("zincrby")
	}
	incr, ok := parseScore(args[1])
	if !ok {
		return reply.NotFloat()
	}
	key, member := args[0], args[2]
	if !tx.IsSorted(key) {
		return reply.WrongType()
	}
	members := tx.GetSorted(key)
	if members == nil {
		members = make(map[string]float64, 1)
	}
	next := members[member] + incr
	members[member] = next
	tx.PutSorted(key, members)
	return reply.BulkString(formatScore(next))
}

func cmdZRem(tx *store.Tx, args []string) reply.Reply {
	if len(args) < 2 {
		return reply.WrongArity("zrem")
	}
	key := args[0]
	if !tx.IsSorted(key) {
		return reply.WrongType()
	}
	members := tx.GetSorted(key)
	if members == nil {
		return reply.Integer(0)
	}
	removed := int64(0)
	for _, member := range args[1:] {
		if _, ok := members[member]; ok {
			delete(members, member)
			removed++
		}
	}
	tx.PutSorted(key, members)
	return reply.Integer(removed)
}

func zrangeByRank(tx *store.Tx, cmd string, args []string, rev bool) reply.Reply {
	if len(args) < 3 || len(args) > 4 {
		return reply.WrongArity(cmd)
	}
	start, ok1 := parseInt(args[1])
	stop, ok2 := parseInt(args[2])
	if !ok1 || !ok2 {
		return reply.NotInteger()
	}
	withScores := false
	if len(args) == 4 {
		if !strings.EqualFold(args[3], "WITHSCORES") {
			return reply.SyntaxError()
		}
		withScores = true
	}
	if !tx.IsSorted(args[0]) {
		return reply.WrongType()
	}
	view := sortedView(tx.GetSorted(args[0]))
	if rev {
		view = reversed(view)
	}
	lo, hi, ok := normalizeRange(start, stop, int64(len(view)))
	if !ok {
		return reply.Array()
	}
	return emitView(view[lo:hi+1], withScores)
}

func cmdZRange(tx *store.Tx, args []string) reply.Reply {
	return zrangeByRank(tx, "zrange", args, false)
}

func cmdZRevRange(tx *store.Tx, args []string) reply.Reply {
	return zrangeByRank(tx, "zrevrange", args, true)
}

// rangeOptions is the parsed option tail of the by-score and by-lex
// range commands.
type rangeOptions struct {
	withScores bool
	hasLimit   bool
	offset     int64
	count      int64
}

func parseRangeOptions(args []string, allowScores bool) (rangeOptions, bool) {
	var opts rangeOptions
	for i := 0; i < len(args); i++ {
		switch {
		case allowScores && strings.EqualFold(args[i], "WITHSCORES"):
			opts.withScores = true
		case strings.EqualFold(args[i], "LIMIT") && i+2 < len(args):
			off, ok1 := parseInt(args[i+1])
			cnt, ok2 := parseInt(args[i+2])
			if !ok1 || !ok2 {
				return opts, false
			}
			opts.hasLimit = true
			opts.offset = off
			opts.count = cnt
			i += 2
		default:
			return opts, false
		}
	}
	return opts, true
}

// applyLimit slices a view by LIMIT offset/count. The slice is applied
// to the sorted view before the range filter; a negative count keeps
// everything after the offset.
func applyLimit(view []memberScore, opts rangeOptions) []memberScore {
	if !opts.hasLimit {
		return view
	}
	if opts.offset < 0 || opts.offset >= int64(len(view)) {
		return nil
	}
	view = view[opts.offset:]
	if opts.count >= 0 && opts.count < int64(len(view)) {
		view = view[:opts.count]
	}
	return view
}

func zrangeByScore(tx *store.Tx, cmd string, args []string, rev bool) reply.Reply {
	if len(args) < 3 {
		return reply.WrongArity(cmd)
	}
	lowArg, highArg := args[1], args[2]
	if rev {
		lowArg, highArg = highArg, lowArg
	}
	min, ok1 := parseScoreBound(lowArg)
	max, ok2 := parseScoreBound(highArg)
	if !ok1 || !ok2 {
		return reply.Error("ERR min or max is not a float")
	}
	opts, ok := parseRangeOptions(args[3:], true)
	if !ok {
		return reply.SyntaxError()
	}
	if !tx.IsSorted(args[0]) {
		return reply.WrongType()
	}
	view := sortedView(tx.GetSorted(args[0]))
	if rev {
		view = reversed(view)
	}
	view = applyLimit(view, opts)
	kept := view[:0:0]
	for _, ms := range view {
		if scoreWithin(ms.score, min, max) {
			kept = append(kept, ms)
		}
	}
	return emitView(kept, opts.withScores)
}

func cmdZRangeByScore(tx *store.Tx, args []string) reply.Reply {
	return zrangeByScore(tx, "zrangebyscore", args, false)
}

func cmdZRevRangeByScore(tx *store.Tx, args []string) reply.Reply {
	return zrangeByScore(tx, "zrevrangebyscore", args, true)
}

// lexFiltered returns the members within the lex bounds, ordered by
// member byte order.
func lexFiltered(members map[string]float64, min, max lexBound) []string {
	out := make([]string, 0, len(members))
	for member := range members {
		if lexWithin(member, min, max) {
			out = append(out, member)
		}
	}
	sort.Strings(out)
	return out
}

func zrangeByLex(tx *store.Tx, cmd string, args []string, rev bool) reply.Reply {
	if len(args) < 3 {
		return reply.WrongArity(cmd)
	}
	lowArg, highArg := args[1], args[2]
	if rev {
		lowArg, highArg = highArg, lowArg
	}
	min, ok1 := parseLexBound(lowArg)
	max, ok2 := parseLexBound(highArg)
	if !ok1 || !ok2 {
		return reply.Error("ERR min or max not valid string range item")
	}
	opts, ok := parseRangeOptions(args[3:], false)
	if !ok {
		return reply.SyntaxError()
	}
	if !tx.IsSorted(args[0]) {
		return reply.WrongType()
	}
	view := lexFiltered(tx.GetSorted(args[0]), min, max)
	if rev {
		for i, j := 0, len(view)-1; i < j; i, j = i+1, j-1 {
			view[i], view[j] = view[j], view[i]
		}
	}
	if opts.hasLimit {
		if opts.offset < 0 || opts.offset >= int64(len(view)) {
			view = nil
		} else {
			view = view[opts.offset:]
			if opts.count >= 0 && opts.count < int64(len(view)) {
				view = view[:opts.count]
			}
		}
	}
	return bulkArray(view)
}

func cmdZRangeByLex(tx *store.Tx, args []string) reply.Reply {
	return zrangeByLex(tx, "zrangebylex", args, false)
}

func cmdZRevRangeByLex(tx *store.Tx, args []string) reply.Reply {
	return zrangeByLex(tx, "zrevrangebylex", args, true)
}

func cmdZLexCount(tx *store.Tx, args []string) reply.Reply {
	if len(args) != 3 {
		return reply.WrongArity("zlexcount")
	}
	min, ok1 := parseLexBound(args[1])
	max, ok2 := parseLexBound(args[2])
	if !ok1 || !ok2 {
		return reply.Error("ERR min or max not valid string range item")
	}
	if !tx.IsSorted(args[0]) {
		return reply.WrongType()
	}
	return reply.Integer(int64(len(lexFiltered(tx.GetSorted(args[0]), min, max))))
}

func cmdZRemRangeByLex(tx *store.Tx, args []string) reply.Reply {
	if len(args) != 3 {
		return reply.WrongArity("zremrangebylex")
	}
	min, ok1 := parseLexBound(args[1])
	max, ok2 := parseLexBound(args[2])
	if !ok1 || !ok2 {
		return reply.Error("ERR min or max not valid string range item")
	}
	key := args[0]
	if !tx.IsSorted(key) {
		return reply.WrongType()
	}
	members := tx.GetSorted(key)
	doomed := lexFiltered(members, min, max)
	for _, member := range doomed {
		delete(members, member)
	}
	tx.PutSorted(key, members)
	return reply.Integer(int64(len(doomed)))
}

func cmdZRemRangeByRank(tx *store.Tx, args []string) reply.Reply {
	if len(args) != 3 {
		return reply.WrongArity("zremrangebyrank")
	}
	start, ok1 := parseInt(args[1])
	stop, ok2 := parseInt(args[2])
	if !ok1 || !ok2 {
		return reply.NotInteger()
	}
	key := args[0]
	if !tx.IsSorted(key) {
		return reply.WrongType()
	}
	members := tx.GetSorted(key)
	view := sortedView(members)
	lo, hi, ok := normalizeRange(start, stop, int64(len(view)))
	if !ok {
		return reply.Integer(0)
	}
	for _, ms := range view[lo : hi+1] {
		delete(members, ms.member)
	}
	tx.PutSorted(key, members)
	return reply.Integer(hi - lo + 1)
}

func cmdZRemRangeByScore(tx *store.Tx, args []string) reply.Reply {
	if len(args) != 3 {
		return reply.WrongArity("zremrangebyscore")
	}
	min, ok1 := parseScoreBound(args[1])
	max, ok2 := parseScoreBound(args[2])
	if !ok1 || !ok2 {
		return reply.Error("ERR min or max is not a float")
	}
	key := args[0]
	if !tx.IsSorted(key) {
		return reply.WrongType()
	}
	members := tx.GetSorted(key)
	removed := int64(0)
	for member, score := range members {
		if scoreWithin(score, min, max) {
			delete(members, member)
			removed++
		}
	}
	tx.PutSorted(key, members)
	return reply.Integer(removed)
}

func zpop(tx *store.Tx, cmd string, args []string, min bool) reply.Reply {
	if len(args) < 1 || len(args) > 2 {
		return reply.WrongArity(cmd)
	}
	count := int64(1)
	if len(args) == 2 {
		var ok bool
		count, ok = parseInt(args[1])
		if !ok {
			return reply.NotInteger()
		}
		if count < 0 {
			return reply.Error("ERR value is out of range, must be positive")
		}
	}
	key := args[0]
	if !tx.IsSorted(key) {
		return reply.WrongType()
	}
	members := tx.GetSorted(key)
	view := sortedView(members)
	if !min {
		view = reversed(view)
	}
	if count > int64(len(view)) {
		count = int64(len(view))
	}
	out := make([]reply.Reply, 0, count*2)
	for _, ms := range view[:count] {
		delete(members, ms.member)
		out = append(out, reply.BulkString(ms.member), reply.BulkString(formatScore(ms.score)))
	}
	tx.PutSorted(key, members)
	return reply.Array(out...)
}

func cmdZPopMin(tx *store.Tx, args []string) reply.Reply {
	return zpop(tx, "zpopmin", args, true)
}

func cmdZPopMax(tx *store.Tx, args []string) reply.Reply {
	return zpop(tx, "zpopmax", args, false)
}

// zsetOp is the parsed form of the multi-key sorted-set operations.
type zsetOp struct {
	dst        string
	keys       []string
	weights    []float64
	aggregate  string
	withScores bool
}

func parseZSetOp(cmd string, args []string, isStore bool) (zsetOp, reply.Reply, bool) {
	op := zsetOp{aggregate: "SUM"}
	if isStore {
		if len(args) < 2 {
			return op, reply.WrongArity(cmd), false
		}
		op.dst = args[0]
		args = args[1:]
	}
	if len(args) < 2 {
		return op, reply.WrongArity(cmd), false
	}
	numKeys, ok := parseInt(args[0])
	if !ok {
		return op, reply.NotInteger(), false
	}
	if numKeys <= 0 || int64(len(args)-1) < numKeys {
		return op, reply.SyntaxError(), false
	}
	op.keys = args[1 : 1+numKeys]
	rest := args[1+numKeys:]

	for i := 0; i < len(rest); i++ {
		switch strings.ToUpper(rest[i]) {
		case "WEIGHTS":
			end := i + 1
			for end < len(rest) {
				if _, ok := parseScore(rest[end]); !ok {
					break
				}
				end++
			}
			weights := make([]float64, 0, end-i-1)
			for _, w := range rest[i+1 : end] {
				f, _ := parseScore(w)
				weights = append(weights, f)
			}
			if int64(len(weights)) != numKeys {
				return op, reply.SyntaxError(), false
			}
			op.weights = weights
			i = end - 1
		case "AGGREGATE":
			if i+1 >= len(rest) {
				return op, reply.SyntaxError(), false
			}
			agg := strings.ToUpper(rest[i+1])
			if agg != "SUM" && agg != "MIN" && agg != "MAX" {
				return op, reply.SyntaxError(), false
			}
			op.aggregate = agg
			i++
		case "WITHSCORES":
			if isStore {
				return op, reply.SyntaxError(), false
			}
			op.withScores = true
		default:
			return op, reply.SyntaxError(), false
		}
	}
	if op.weights == nil {
		op.weights = make([]float64, numKeys)
		for i := range op.weights {
			op.weights[i] = 1
		}
	}
	return op, reply.Reply{}, true
}

// zsetInput reads one input key as a member-to-score map with its
// weight applied. Plain sets participate with score 1 per member.
func zsetInput(tx *store.Tx, key string, weight float64) (map[string]float64, bool) {
	switch tx.Holder(key) {
	case store.KindNone:
		return map[string]float64{}, true
	case store.KindSorted:
		src := tx.GetSorted(key)
		out := make(map[string]float64, len(src))
		for member, score := range src {
			out[member] = score * weight
		}
		return out, true
	case store.KindSet:
		src := tx.GetSet(key)
		out := make(map[string]float64, len(src))
		for member := range src {
			out[member] = weight
		}
		return out, true
	default:
		return nil, false
	}
}

func aggregateScore(agg string, a, b float64) float64 {
	switch agg {
	case "MIN":
		return math.Min(a, b)
	case "MAX":
		return math.Max(a, b)
	default:
		return a + b
	}
}

// zsetCombine evaluates the union, intersection or difference of the
// op's inputs. The difference is the first key minus the rest.
func zsetCombine(tx *store.Tx, op zsetOp, mode string) (map[string]float64, bool) {
	inputs := make([]map[string]float64, len(op.keys))
	for i, key := range op.keys {
		in, ok := zsetInput(tx, key, op.weights[i])
		if !ok {
			return nil, false
		}
		inputs[i] = in
	}

	result := make(map[string]float64, len(inputs[0]))
	for member, score := range inputs[0] {
		result[member] = score
	}
	for _, in := range inputs[1:] {
		switch mode {
		case "union":
			for member, score := range in {
				if cur, ok := result[member]; ok {
					result[member] = aggregateScore(op.aggregate, cur, score)
				} else {
					result[member] = score
				}
			}
		case "inter":
			for member := range result {
				score, ok := in[member]
				if !ok {
					delete(result, member)
					continue
				}
				result[member] = aggregateScore(op.aggregate, result[member], score)
			}
		case "diff":
			for member := range in {
				delete(result, member)
			}
		}
	}
	return result, true
}

func zsetOpRead(tx *store.Tx, cmd string, args []string, mode string) reply.Reply {
	op, errReply, ok := parseZSetOp(cmd, args, false)
	if !ok {
		return errReply
	}
	result, ok := zsetCombine(tx, op, mode)
	if !ok {
		return reply.WrongType()
	}
	return emitView(sortedView(result), op.withScores)
}

func zsetOpStore(tx *store.Tx, cmd string, args []string, mode string) reply.Reply {
	op, errReply, ok := parseZSetOp(cmd, args, true)
	if !ok {
		return errReply
	}
	if !tx.IsSorted(op.dst) {
		return reply.WrongType()
	}
	result, ok := zsetCombine(tx, op, mode)
	if !ok {
		return reply.WrongType()
	}
	tx.PutSorted(op.dst, result)
	return reply.Integer(int64(len(result)))
}

func cmdZDiff(tx *store.Tx, args []string) reply.Reply {
	return zsetOpRead(tx, "zdiff", args, "diff")
}

func cmdZDiffStore(tx *store.Tx, args []string) reply.Reply {
	return zsetOpStore(tx, "zdiffstore", args, "diff")
}

func cmdZInter(tx *store.Tx, args []string) reply.Reply {
	return zsetOpRead(tx, "zinter", args, "inter")
}

func cmdZInterStore(tx *store.Tx, args []string) reply.Reply {
	return zsetOpStore(tx, "zinterstore", args, "inter")
}

func cmdZUnion(tx *store.Tx, args []string) reply.Reply {
	return zsetOpRead(tx, "zunion", args, "union")
}

func cmdZUnionStore(tx *store.Tx, args []string) reply.Reply {
	return zsetOpStore(tx, "zunionstore", args, "union")
}

func cmdZRandMember(tx *store.Tx, args []string) reply.Reply {
	if len(args) < 1 || len(args) > 3 {
		return reply.WrongArity("zrandmember")
	}
	if !tx.IsSorted(args[0]) {
		return reply.WrongType()
	}
	members := tx.GetSorted(args[0])
	view := make([]string, 0, len(members))
	for member := range members {
		view = append(view, member)
	}
	sort.Strings(view)

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
	withScores := false
	if len(args) == 3 {
		if !strings.EqualFold(args[2], "WITHSCORES") {
			return reply.SyntaxError()
		}
		withScores = true
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
		if withScores {
			out = append(out, reply.BulkString(formatScore(members[view[idx]])))
		}
	}
	return reply.Array(out...)
}

// ZSCAN windows over members sorted by (score, member) and replies with
// member/score pairs.
func cmdZScan(tx *store.Tx, args []string) reply.Reply {
	if len(args) < 2 {
		return reply.WrongArity("zscan")
	}
	if !tx.IsSorted(args[0]) {
		return reply.WrongType()
	}
	sa, errReply, ok := parseScanArgs(args[1:])
	if !ok {
		return errReply
	}
	members := tx.GetSorted(args[0])
	names := make([]string, 0, len(members))
	for _, ms := range sortedView(members) {
		names = append(names, ms.member)
	}
	next, window := scanWindow(names, sa)
	items := make([]reply.Reply, 0, len(window)*2)
	for _, member := range window {
		items = append(items, reply.BulkString(member), reply.BulkString(formatScore(members[member])))
	}
	return scanReply(next, items)
}
