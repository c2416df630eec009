package board

import (
	"testing"
)

func TestInflightGuard(t *testing.T) {
	g := newInflightGuard()

	if !g.tryAcquire("post_1", func() bool { return true }) {
		t.Fatal("first acquire should succeed")
	}
	if g.tryAcquire("post_1", func() bool { return true }) {
		t.Error("second acquire of a held key should fail")
	}
	if !g.tryAcquire("post_2", func() bool { return true }) {
		t.Error("different key should acquire independently")
	}

	g.release("post_1")
	if !g.tryAcquire("post_1", func() bool { return true }) {
		t.Error("acquire after release should succeed")
	}

	if g.tryAcquire("post_3", func() bool { return false }) {
		t.Error("ineligible key must not acquire")
	}
}
