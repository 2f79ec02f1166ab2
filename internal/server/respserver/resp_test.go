package respserver

import (
	"bufio"
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/barthorre/redstub-go/internal/core/reply"
)

func readNext(t *testing.T, in string) ([][]byte, reply.Reply) {
	t.Helper()
	args, errReply, err := NewCommandReader(strings.NewReader(in)).Next()
	if err != nil {
		t.Fatalf("Next(%q) I/O error = %v", in, err)
	}
	return args, errReply
}

func TestNext_Array(t *testing.T) {
	args, errReply := readNext(t, "*2\r\n$4\r\nECHO\r\n$5\r\nhello\r\n")
	if errReply.IsError() {
		t.Fatalf("Next() error reply = %q", errReply.Str)
	}
	want := [][]byte{[]byte("ECHO"), []byte("hello")}
	if !reflect.DeepEqual(args, want) {
		t.Errorf("Next() = %q, want %q", args, want)
	}
}

func TestNext_Inline(t *testing.T) {
	args, errReply := readNext(t, "PING extra\r\n")
	if errReply.IsError() {
		t.Fatalf("Next() error reply = %q", errReply.Str)
	}
	want := [][]byte{[]byte("PING"), []byte("extra")}
	if !reflect.DeepEqual(args, want) {
		t.Errorf("Next() = %q, want %q", args, want)
	}
}

func TestNext_EmptyInputsYieldNothing(t *testing.T) {
	for _, in := range []string{"*0\r\n", "\r\n", "   \r\n"} {
		args, errReply := readNext(t, in)
		if args != nil || errReply.IsError() {
			t.Errorf("Next(%q) = %q, %+v; want nil args, no error reply", in, args, errReply)
		}
	}
}

func TestNext_ProtocolViolationsBecomeErrorReplies(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"oversized array", "*99999\r\n"},
		{"oversized bulk", "*1\r\n$9999999\r\n"},
		{"bad array length", "*abc\r\n"},
		{"wrong element type", "*1\r\n:5\r\n"},
		{"missing CR", "*1\n$1\na\n"},
		{"unterminated bulk", "*1\r\n$1\r\nabc\r\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, errReply := readNext(t, tt.in)
			if args != nil {
				t.Errorf("Next() args = %q, want nil", args)
			}
			if !errReply.IsError() || !strings.HasPrefix(errReply.Str, "ERR Protocol error:") {
				t.Errorf("Next() error reply = %+v, want ERR Protocol error", errReply)
			}
		})
	}
}

func TestNext_NullAndSimpleStringArguments(t *testing.T) {
	args, errReply := readNext(t, "*2\r\n+PING\r\n$-1\r\n")
	if errReply.IsError() {
		t.Fatalf("Next() error reply = %q", errReply.Str)
	}
	if len(args) != 2 || string(args[0]) != "PING" || args[1] != nil {
		t.Errorf("Next() = %q, want [PING <nil>]", args)
	}
}

func TestNext_PipelinedCommands(t *testing.T) {
	cr := NewCommandReader(strings.NewReader("*1\r\n$4\r\nPING\r\n*1\r\n$4\r\nECHO\r\n"))
	for _, want := range []string{"PING", "ECHO"} {
		args, errReply, err := cr.Next()
		if err != nil || errReply.IsError() {
			t.Fatalf("Next() = %+v, %v", errReply, err)
		}
		if len(args) != 1 || string(args[0]) != want {
			t.Errorf("Next() = %q, want [%s]", args, want)
		}
	}
}

func TestWriteReply(t *testing.T) {
	tests := []struct {
		name string
		in   reply.Reply
		want string
	}{
		{"simple string", reply.SimpleString("OK"), "+OK\r\n"},
		{"error", reply.Error("ERR boom"), "-ERR boom\r\n"},
		{"integer", reply.Integer(-7), ":-7\r\n"},
		{"bulk", reply.BulkString("hi"), "$2\r\nhi\r\n"},
		{"empty bulk", reply.BulkString(""), "$0\r\n\r\n"},
		{"null bulk", reply.NullBulk(), "$-1\r\n"},
		{"null array", reply.NullArray(), "*-1\r\n"},
		{"empty array", reply.Array(), "*0\r\n"},
		{
			"nested array",
			reply.Array(reply.BulkString("k"), reply.Array(reply.Integer(1))),
			"*2\r\n$1\r\nk\r\n*1\r\n:1\r\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w := bufio.NewWriter(&buf)
			if err := WriteReply(w, tt.in); err != nil {
				t.Fatalf("WriteReply() error = %v", err)
			}
			w.Flush()
			if buf.String() != tt.want {
				t.Errorf("WriteReply() wrote %q, want %q", buf.String(), tt.want)
			}
		})
	}
}
