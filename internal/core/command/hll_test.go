package command

import "testing"

func TestPFAdd(t *testing.T) {
	e := newTestExecutor()
	wantInt(t, run(t, e, "PFADD", "p", "a"), 1)
	wantInt(t, run(t, e, "PFADD", "p", "a"), 0)
	wantInt(t, run(t, e, "PFADD", "p", "b", "c"), 1)
	wantInt(t, run(t, e, "PFCOUNT", "p"), 3)
}

func TestPFCountUnion(t *testing.T) {
	e := newTestExecutor()
	run(t, e, "PFADD", "p1", "a", "b")
	run(t, e, "PFADD", "p2", "b", "c")

	wantInt(t, run(t, e, "PFCOUNT", "p1"), 2)
	wantInt(t, run(t, e, "PFCOUNT", "p1", "p2"), 3)
	wantInt(t, run(t, e, "PFCOUNT", "p1", "missing"), 2)
}

func TestPFMerge(t *testing.T) {
	e := newTestExecutor()
	run(t, e, "PFADD", "p1", "a", "b")
	run(t, e, "PFADD", "p2", "b", "c")
	run(t, e, "PFADD", "dst", "z")

	wantOK(t, run(t, e, "PFMERGE", "dst", "p1", "p2"))
	wantInt(t, run(t, e, "PFCOUNT", "dst"), 4)
}

func TestHLLIsItsOwnNamespace(t *testing.T) {
	e := newTestExecutor()
	run(t, e, "SADD", "s", "a")
	wantWrongType(t, run(t, e, "PFADD", "s", "a"))

	run(t, e, "PFADD", "p", "a")
	wantWrongType(t, run(t, e, "SADD", "p", "a"))
	wantWrongType(t, run(t, e, "PFCOUNT", "p", "s"))
}
