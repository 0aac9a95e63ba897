package realtime

import (
	"testing"

	"github.com/google/uuid"
)

func testClient(userID string) *Client {
	return &Client{
		id:     uuid.NewString(),
		userID: userID,
		send:   make(chan []byte, 8),
	}
}

func TestRegisterLookup(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	c := testClient("u1")
	r.Register("u1", c)

	got, ok := r.Lookup("u1")
	if !ok || got != c {
		t.Fatalf("Lookup(u1) = %v, %v; want registered client", got, ok)
	}
	if _, ok := r.Lookup("u2"); ok {
		t.Fatal("Lookup(u2) should be absent")
	}
}

func TestUnregisterRemovesCurrent(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	c := testClient("u1")
	r.Register("u1", c)
	r.Unregister("u1", c)

	if _, ok := r.Lookup("u1"); ok {
		t.Fatal("u1 should be absent after unregister")
	}
}

func TestStaleDisconnectDoesNotClobberReconnect(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	a := testClient("u1")
	b := testClient("u1")

	r.Register("u1", a)
	r.Register("u1", b)   // reconnect supersedes a
	r.Unregister("u1", a) // a's disconnect arrives late

	got, ok := r.Lookup("u1")
	if !ok {
		t.Fatal("u1 must stay present: the stale disconnect is for a superseded connection")
	}
	if got != b {
		t.Fatal("newer connection must survive the stale disconnect")
	}
}

func TestUnregisterComparesConnectionID(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	a := testClient("u1")
	r.Register("u1", a)

	// Same connection identity carried by a different wrapper value:
	// the guard matches on id, not on pointer.
	dup := &Client{id: a.id, userID: a.userID, send: a.send}
	r.Unregister("u1", dup)

	if _, ok := r.Lookup("u1"); ok {
		t.Fatal("unregister with the same connection id must remove the mapping")
	}
}

func TestSnapshot(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register("bob", testClient("bob"))
	r.Register("alice", testClient("alice"))

	got := r.Snapshot()
	want := []string{"alice", "bob"}
	if len(got) != len(want) {
		t.Fatalf("Snapshot() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Snapshot() = %v, want %v", got, want)
		}
	}
}

func TestOnChangeFiresPerMutation(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	fired := 0
	r.OnChange(func() { fired++ })

	a := testClient("u1")
	b := testClient("u1")
	r.Register("u1", a)   // 1
	r.Register("u1", b)   // 2, overwrite still counts
	r.Unregister("u1", a) // stale, no change
	r.Unregister("u1", b) // 3

	if fired != 3 {
		t.Fatalf("onChange fired %d times, want 3 (stale unregister must not fire)", fired)
	}
}
