package command

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/barthorre/redstub-go/internal/core/reply"
)

func parseInt(s string) (int64, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	return n, err == nil
}

// parseScore accepts the score syntax Redis does: decimal doubles and
// the inf spellings. NaN is rejected.
func parseScore(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// formatScore renders a score the way replies carry it: the shortest
// round-trip decimal form, so 1.0 comes out as "1".
func formatScore(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// normalizeRange maps start/stop with negative-from-the-end semantics
// onto [lo, hi] over a container of the given length. ok is false when
// the window is empty.
func normalizeRange(start, stop, length int64) (lo, hi int64, ok bool) {
	if start < 0 {
		start = length + start
		if start < 0 {
			start = 0
		}
	}
	if stop < 0 {
		stop = length + stop
	}
	if stop >= length {
		stop = length - 1
	}
	if length == 0 || start > stop || start >= length || stop < 0 {
		return 0, 0, false
	}
	return start, stop, true
}

// compileMatch translates a MATCH pattern into an anchored regexp:
// '*' becomes '.*', every other rune matches literally.
func compileMatch(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("^")
	for _, r := range pattern {
		if r == '*' {
			b.WriteString(".*")
		} else {
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return regexp.Compile(b.String())
}

// scanArgs is the parsed tail of a *SCAN command.
type scanArgs struct {
	cursor int64
	match  *regexp.Regexp
	count  int64
}

// parseScanArgs parses "cursor [MATCH pattern] [COUNT n]".
func parseScanArgs(args []string) (scanArgs, reply.Reply, bool) {
	sa := scanArgs{count: 10}
	cursor, ok := parseInt(args[0])
	if !ok || cursor < 0 {
		return sa, reply.Error("ERR invalid cursor"), false
	}
	sa.cursor = cursor

	for i := 1; i < len(args); i += 2 {
		if i+1 >= len(args) {
			return sa, reply.SyntaxError(), false
		}
		switch strings.ToUpper(args[i]) {
		case "MATCH":
			re, err := compileMatch(args[i+1])
			if err != nil {
				return sa, reply.SyntaxError(), false
			}
			sa.match = re
		case "COUNT":
			n, ok := parseInt(args[i+1])
			if !ok || n <= 0 {
				return sa, reply.SyntaxError(), false
			}
			sa.count = n
		default:
			return sa, reply.SyntaxError(), false
		}
	}
	return sa, reply.Reply{}, true
}

// scanWindow applies the cursor window to a filtered view. The cursor is
// a plain offset into the view; the next cursor is 0 once the window
// reaches the end.
func scanWindow(view []string, sa scanArgs) (next int64, window []string) {
	if sa.match != nil {
		filtered := view[:0:0]
		for _, v := range view {
			if sa.match.MatchString(v) {
				filtered = append(filtered, v)
			}
		}
		view = filtered
	}
	if sa.cursor >= int64(len(view)) {
		return 0, nil
	}
	end := sa.cursor + sa.count
	if end >= int64(len(view)) {
		return 0, view[sa.cursor:]
	}
	return end, view[sa.cursor:end]
}

// scanReply assembles the [nextCursor, [items]] shape shared by the
// *SCAN commands.
func scanReply(next int64, items []reply.Reply) reply.Reply {
	return reply.Array(
		reply.BulkString(strconv.FormatInt(next, 10)),
		reply.Array(items...),
	)
}

func sortedMembers(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for member := range m {
		out = append(out, member)
	}
	sort.Strings(out)
	return out
}

func sortedFields(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for field := range m {
		out = append(out, field)
	}
	sort.Strings(out)
	return out
}

func bulkArray(items []string) reply.Reply {
	out := make([]reply.Reply, len(items))
	for i, item := range items {
		out[i] = reply.BulkString(item)
	}
	return reply.Array(out...)
}
