package respserver

import (
	"context"
	"testing"

	"github.com/redis/rueidis"
)

// newRueidisClient connects a rueidis client to a freshly started
// server. The client negotiates down to RESP2 since HELLO is not a
// supported opcode here.
func newRueidisClient(t *testing.T) rueidis.Client {
	t.Helper()
	_, addr := startTestServer(t)
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{addr},
		DisableCache: true,
	})
	if err != nil {
		t.Fatalf("rueidis.NewClient() error = %v", err)
	}
	t.Cleanup(client.Close)
	return client
}

func TestRueidisStrings(t *testing.T) {
	client := newRueidisClient(t)
	ctx := context.Background()

	if err := client.Do(ctx, client.B().Set().Key("k").Value("v").Build()).Error(); err != nil {
		t.Fatalf("SET error = %v", err)
	}
	got, err := client.Do(ctx, client.B().Get().Key("k").Build()).ToString()
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	if got != "v" {
		t.Errorf("GET = %q, want v", got)
	}
}

func TestRueidisListRoundTrip(t *testing.T) {
	client := newRueidisClient(t)
	ctx := context.Background()

	if err := client.Do(ctx, client.B().Lpush().Key("L").Element("a", "b", "c").Build()).Error(); err != nil {
		t.Fatalf("LPUSH error = %v", err)
	}
	vals, err := client.Do(ctx, client.B().Lrange().Key("L").Start(0).Stop(-1).Build()).AsStrSlice()
	if err != nil {
		t.Fatalf("LRANGE error = %v", err)
	}
	want := []string{"c", "b", "a"}
	if len(vals) != len(want) {
		t.Fatalf("LRANGE = %v, want %v", vals, want)
	}
	for i := range want {
		if vals[i] != want[i] {
			t.Errorf("LRANGE[%d] = %q, want %q", i, vals[i], want[i])
		}
	}
}

func TestRueidisSortedSet(t *testing.T) {
	client := newRueidisClient(t)
	ctx := context.Background()

	err := client.Do(ctx, client.B().Zadd().Key("z").ScoreMember().
		ScoreMember(1, "a").ScoreMember(2, "b").Build()).Error()
	if err != nil {
		t.Fatalf("ZADD error = %v", err)
	}
	score, err := client.Do(ctx, client.B().Zscore().Key("z").Member("b").Build()).AsFloat64()
	if err != nil {
		t.Fatalf("ZSCORE error = %v", err)
	}
	if score != 2 {
		t.Errorf("ZSCORE = %v, want 2", score)
	}
}

func TestRueidisWrongTypeSurfacesAsError(t *testing.T) {
	client := newRueidisClient(t)
	ctx := context.Background()

	if err := client.Do(ctx, client.B().Set().Key("k").Value("v").Build()).Error(); err != nil {
		t.Fatalf("SET error = %v", err)
	}
	err := client.Do(ctx, client.B().Sadd().Key("k").Member("m").Build()).Error()
	if err == nil {
		t.Fatal("SADD on a string key should error")
	}
}
