package store

import (
	"reflect"
	"testing"
	"time"

	"github.com/barthorre/redstub-go/internal/core/reply"
)

func update(db *DB, fn func(tx *Tx)) {
	db.Update(func(tx *Tx) reply.Reply {
		fn(tx)
		return reply.Reply{}
	})
}

func TestHolderTracksSingleNamespace(t *testing.T) {
	db := New()
	update(db, func(tx *Tx) {
		tx.PutString("k", "v")
	})
	update(db, func(tx *Tx) {
		if got := tx.Holder("k"); got != KindString {
			t.Errorf("Holder = %v, want KindString", got)
		}
		if !tx.IsString("k") {
			t.Error("IsString(k) = false, want true")
		}
		if tx.IsList("k") {
			t.Error("IsList(k) = true for a string key")
		}
		// An absent key passes every guard.
		if !tx.IsList("absent") || !tx.IsSorted("absent") {
			t.Error("guards should pass for an absent key")
		}
	})
}

func TestDeleteFreesKeyForAnyNamespace(t *testing.T) {
	db := New()
	update(db, func(tx *Tx) {
		tx.PutSet("k", map[string]struct{}{"m": {}})
	})
	update(db, func(tx *Tx) {
		if !tx.Delete("k") {
			t.Fatal("Delete(k) = false, want true")
		}
		if tx.Holder("k") != KindNone {
			t.Error("key still held after Delete")
		}
		tx.PutString("k", "v")
		if tx.Holder("k") != KindString {
			t.Error("key not reusable after Delete")
		}
	})
}

func TestPutEmptyContainerDeletesKey(t *testing.T) {
	db := New()
	update(db, func(tx *Tx) {
		tx.PutList("l", []string{"a"})
		tx.PutHash("h", map[string]string{"f": "v"})
	})
	update(db, func(tx *Tx) {
		tx.PutList("l", nil)
		tx.PutHash("h", map[string]string{})
	})
	update(db, func(tx *Tx) {
		if tx.Holder("l") != KindNone || tx.Holder("h") != KindNone {
			t.Error("empty containers should not survive the transaction")
		}
	})
}

func TestKeysSortedAcrossNamespaces(t *testing.T) {
	db := New()
	update(db, func(tx *Tx) {
		tx.PutString("b", "v")
		tx.PutList("a", []string{"x"})
		tx.PutSorted("c", map[string]float64{"m": 1})
	})
	update(db, func(tx *Tx) {
		if got := tx.Keys(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
			t.Errorf("Keys() = %v, want [a b c]", got)
		}
	})
}

func TestSignalFiresOnTouchedKeyset(t *testing.T) {
	db := New()

	var signals []<-chan struct{}
	update(db, func(tx *Tx) {
		signals = tx.Signal("watched")
	})
	if len(signals) != 1 {
		t.Fatalf("Signal returned %d channels, want 1", len(signals))
	}

	// Writing the watched key after capture closes the channel.
	update(db, func(tx *Tx) {
		tx.PutList("watched", []string{"v"})
	})
	select {
	case <-signals[0]:
	case <-time.After(time.Second):
		t.Fatal("signal channel did not fire after a write")
	}
}

func TestSignalCapturedInsideTransactionSeesLaterWrite(t *testing.T) {
	// The channel captured while holding the lock must fire for a write
	// committed after the capturing transaction, even if that write
	// lands before the waiter starts waiting.
	db := New()
	var signals []<-chan struct{}
	update(db, func(tx *Tx) {
		signals = tx.Signal("k")
	})
	update(db, func(tx *Tx) {
		tx.PutString("k", "v")
	})
	select {
	case <-signals[0]:
	default:
		t.Fatal("signal captured before the write did not fire")
	}
}

func TestPickDeterministicForSeed(t *testing.T) {
	picks := func(seed uint64) []int {
		db := New(WithSeed(seed))
		var out []int
		update(db, func(tx *Tx) {
			for i := 0; i < 10; i++ {
				out = append(out, tx.PickOne(100))
			}
			out = append(out, tx.PickDistinct(3, 10)...)
			out = append(out, tx.PickRepeated(3, 10)...)
		})
		return out
	}
	if !reflect.DeepEqual(picks(99), picks(99)) {
		t.Error("same seed produced different pick streams")
	}
	if reflect.DeepEqual(picks(1), picks(2)) {
		t.Error("different seeds produced identical pick streams")
	}
}

func TestPickDistinctBounds(t *testing.T) {
	db := New(WithSeed(1))
	update(db, func(tx *Tx) {
		got := tx.PickDistinct(10, 3)
		if len(got) != 3 {
			t.Fatalf("PickDistinct(10, 3) returned %d picks, want 3", len(got))
		}
		seen := map[int]bool{}
		for _, idx := range got {
			if idx < 0 || idx >= 3 {
				t.Errorf("pick %d out of range", idx)
			}
			if seen[idx] {
				t.Errorf("pick %d repeated", idx)
			}
			seen[idx] = true
		}
		if tx.PickDistinct(0, 3) != nil {
			t.Error("PickDistinct(0, n) should be empty")
		}
		if got := tx.PickRepeated(4, 2); len(got) != 4 {
			t.Errorf("PickRepeated(4, 2) returned %d picks, want 4", len(got))
		}
	})
}

func TestSeedFromPhraseStable(t *testing.T) {
	a := SeedFromPhrase("the quick brown fox")
	b := SeedFromPhrase("the quick brown fox")
	c := SeedFromPhrase("something else")
	if a != b {
		t.Error("SeedFromPhrase is not deterministic")
	}
	if a == c {
		t.Error("distinct phrases produced the same seed")
	}
}
