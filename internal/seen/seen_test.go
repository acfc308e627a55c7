package seen

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestBolt(t *testing.T, opts Options) Store {
	t.Helper()
	s, err := New("bbolt", filepath.Join(t.TempDir(), "seen.db"), opts)
	if err != nil {
		t.Fatalf("open bbolt: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testMarkAndSeen(t *testing.T, s Store) {
	t.Helper()

	seen, err := s.Seen(1, "rust", "https://example.com/a")
	if err != nil {
		t.Fatalf("seen: %v", err)
	}
	if seen {
		t.Fatal("unmarked url reported as seen")
	}

	if err := s.Mark(1, "rust", "https://example.com/a"); err != nil {
		t.Fatalf("mark: %v", err)
	}

	seen, err = s.Seen(1, "rust", "https://example.com/a")
	if err != nil {
		t.Fatalf("seen: %v", err)
	}
	if !seen {
		t.Fatal("marked url not reported as seen")
	}

	// Other pairs are independent.
	seen, _ = s.Seen(2, "rust", "https://example.com/a")
	if seen {
		t.Fatal("mark leaked across users")
	}
	seen, _ = s.Seen(1, "go", "https://example.com/a")
	if seen {
		t.Fatal("mark leaked across keywords")
	}
}

func TestMemoryStore(t *testing.T) {
	testMarkAndSeen(t, NewMemory())
}

func TestMemoryStore_AccumulatesMarksPerPair(t *testing.T) {
	s := NewMemory()
	urls := []string{
		"https://example.com/a",
		"https://example.com/b",
		"https://example.com/c",
	}
	for _, u := range urls {
		if err := s.Mark(1, "rust", u); err != nil {
			t.Fatalf("mark %s: %v", u, err)
		}
	}
	for _, u := range urls {
		seen, err := s.Seen(1, "rust", u)
		if err != nil {
			t.Fatalf("seen %s: %v", u, err)
		}
		if !seen {
			t.Fatalf("%s not reported as seen", u)
		}
	}
}

func TestBoltStore(t *testing.T) {
	testMarkAndSeen(t, openTestBolt(t, Options{}))
}

func TestBoltStore_MarksExpire(t *testing.T) {
	s := openTestBolt(t, Options{TTL: time.Millisecond, CleanupInterval: time.Hour})

	if err := s.Mark(1, "rust", "https://example.com/a"); err != nil {
		t.Fatalf("mark: %v", err)
	}
	time.Sleep(1100 * time.Millisecond) // expiry granularity is one second

	seen, err := s.Seen(1, "rust", "https://example.com/a")
	if err != nil {
		t.Fatalf("seen: %v", err)
	}
	if seen {
		t.Fatal("expired mark still reported as seen")
	}
}

func TestBoltStore_ZeroTTLKeepsForever(t *testing.T) {
	s := openTestBolt(t, Options{})

	if err := s.Mark(1, "rust", "https://example.com/a"); err != nil {
		t.Fatalf("mark: %v", err)
	}
	seen, err := s.Seen(1, "rust", "https://example.com/a")
	if err != nil {
		t.Fatalf("seen: %v", err)
	}
	if !seen {
		t.Fatal("mark without TTL was dropped")
	}
}

func TestNew_UnsupportedType(t *testing.T) {
	if _, err := New("cassandra", "", Options{}); err == nil {
		t.Fatal("want error for unsupported type")
	}
}
