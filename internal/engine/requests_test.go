package engine

import (
	"context"
	"testing"
)

func TestActiveRequestTableInsertRemove(t *testing.T) {
	tbl := NewActiveRequestTable()
	_, cancel := context.WithCancel(context.Background())
	tbl.Insert(1, cancel)
	if tbl.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", tbl.Len())
	}
	tbl.Remove(1)
	if tbl.Len() != 0 {
		t.Fatalf("expected 0 entries after remove, got %d", tbl.Len())
	}
}

func TestActiveRequestTableRemoveIsIdempotent(t *testing.T) {
	tbl := NewActiveRequestTable()
	tbl.Remove(42) // never inserted
	tbl.Remove(42) // removed twice
}

func TestActiveRequestTableCancelSignalsAndRemoves(t *testing.T) {
	tbl := NewActiveRequestTable()
	ctx, cancel := context.WithCancel(context.Background())
	tbl.Insert(1, cancel)

	tbl.Cancel(1)

	select {
	case <-ctx.Done():
	default:
		t.Fatalf("expected context to be cancelled")
	}
	if tbl.Len() != 0 {
		t.Fatalf("expected entry removed after cancel, got %d", tbl.Len())
	}
}

func TestActiveRequestTableCancelUnknownIDIsNoop(t *testing.T) {
	tbl := NewActiveRequestTable()
	tbl.Cancel(999) // must not panic
}

func TestActiveRequestTableCancelAll(t *testing.T) {
	tbl := NewActiveRequestTable()
	var ctxs []context.Context
	for i := int64(1); i <= 3; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		ctxs = append(ctxs, ctx)
		tbl.Insert(i, cancel)
	}

	tbl.CancelAll()

	if tbl.Len() != 0 {
		t.Fatalf("expected table empty after CancelAll, got %d", tbl.Len())
	}
	for i, ctx := range ctxs {
		select {
		case <-ctx.Done():
		default:
			t.Fatalf("entry %d was not cancelled", i)
		}
	}
}

func TestActiveRequestTableOverwriteDiscardsWithoutCancel(t *testing.T) {
	tbl := NewActiveRequestTable()
	ctx1, cancel1 := context.WithCancel(context.Background())
	_, cancel2 := context.WithCancel(context.Background())

	tbl.Insert(1, cancel1)
	tbl.Insert(1, cancel2) // overlapping Message ID: undefined per RFC, last-writer-wins

	if tbl.Len() != 1 {
		t.Fatalf("expected 1 entry after overwrite, got %d", tbl.Len())
	}
	select {
	case <-ctx1.Done():
		t.Fatalf("first entry's context should not be cancelled by an overwrite")
	default:
	}
}
