package ledger

import (
	"path/filepath"
	"testing"
)

func TestMemoryLedger(t *testing.T) {
	led := NewMemory()

	if _, ok := led.Get(TargetPost, 5); ok {
		t.Fatal("expected empty ledger")
	}

	if err := led.Set(TargetPost, 5, Good); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	p, ok := led.Get(TargetPost, 5)
	if !ok || p != Good {
		t.Errorf("expected good, got %q (ok=%v)", p, ok)
	}

	// Post 5 and reply 5 are different targets
	if _, ok := led.Get(TargetReply, 5); ok {
		t.Error("reply 5 should not collide with post 5")
	}

	if err := led.Clear(TargetPost, 5); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, ok := led.Get(TargetPost, 5); ok {
		t.Error("expected entry cleared")
	}
}

func TestKeyNamespacing(t *testing.T) {
	if Key(TargetPost, 5) == Key(TargetReply, 5) {
		t.Error("post and reply keys must differ for the same id")
	}
	if got := Key(TargetPost, 12); got != "reaction_post_12" {
		t.Errorf("unexpected key %q", got)
	}
}

func TestSQLiteLedger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reactions.db")

	led, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}

	if err := led.Set(TargetReply, 9, Bad); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	p, ok := led.Get(TargetReply, 9)
	if !ok || p != Bad {
		t.Errorf("expected bad, got %q (ok=%v)", p, ok)
	}

	// An existing entry is never overwritten
	if err := led.Set(TargetReply, 9, Good); err != nil {
		t.Fatalf("second Set failed: %v", err)
	}
	if p, _ := led.Get(TargetReply, 9); p != Bad {
		t.Errorf("entry was overwritten, got %q", p)
	}

	led.Close()

	// Durable across reopen
	led2, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer led2.Close()
	if p, ok := led2.Get(TargetReply, 9); !ok || p != Bad {
		t.Errorf("entry not durable, got %q (ok=%v)", p, ok)
	}

	if err := led2.Clear(TargetReply, 9); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, ok := led2.Get(TargetReply, 9); ok {
		t.Error("expected entry cleared")
	}
}
