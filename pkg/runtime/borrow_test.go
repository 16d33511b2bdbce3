package runtime

import "testing"

func TestBorrowStateTransitions(t *testing.T) {
	var b BorrowState
	if !b.Free() || b.String() != "free" {
		t.Fatalf("zero value should be free, got %s", b)
	}
	if err := b.TryBorrowShared(); err != nil {
		t.Fatalf("shared from free: %v", err)
	}
	if err := b.TryBorrowShared(); err != nil {
		t.Fatalf("second shared: %v", err)
	}
	if b.Shared != 2 || b.String() != "shared" {
		t.Fatalf("expected two shared borrows, got %+v", b)
	}
	if err := b.TryBorrowExclusive(); err == nil || err.Error() != "cannot take mutable reference while variable already borrowed" {
		t.Fatalf("exclusive over shared: %v", err)
	}
	b.Release(false)
	b.Release(false)
	if !b.Free() {
		t.Fatalf("expected free after releasing both, got %+v", b)
	}
	if err := b.TryBorrowExclusive(); err != nil {
		t.Fatalf("exclusive from free: %v", err)
	}
	if err := b.TryBorrowExclusive(); err == nil || err.Error() != "variable already mutably borrowed" {
		t.Fatalf("second exclusive: %v", err)
	}
	if err := b.TryBorrowShared(); err == nil || err.Error() != "cannot take immutable reference while variable already mutably borrowed" {
		t.Fatalf("shared over exclusive: %v", err)
	}
	if b.String() != "exclusive" {
		t.Fatalf("expected exclusive, got %s", b)
	}
	b.Release(true)
	if !b.Free() {
		t.Fatalf("expected free, got %+v", b)
	}
}

func TestBorrowReleaseUnheldIsNoop(t *testing.T) {
	var b BorrowState
	b.Release(false)
	b.Release(true)
	if !b.Free() || b.Shared != 0 {
		t.Fatalf("release of unheld borrow changed state: %+v", b)
	}
}

func TestBorrowChecksDoNotMutate(t *testing.T) {
	b := BorrowState{Shared: 1}
	if err := b.CheckShared(); err != nil {
		t.Fatalf("check shared: %v", err)
	}
	if err := b.CheckExclusive(); err == nil {
		t.Fatalf("expected exclusive check to fail")
	}
	if b.Shared != 1 || b.Exclusive {
		t.Fatalf("checks must not change state: %+v", b)
	}
	if err := b.CheckExclusive(); err.(*Error).Kind != ErrorBorrow {
		t.Fatalf("expected borrow kind")
	}
}
