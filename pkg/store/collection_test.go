package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/grainui/grain/pkg/kv"
	"github.com/grainui/grain/pkg/reactive"
)

type note struct {
	ID   string `json:"id"`
	Body string `json:"body"`
}

func noteID(n note) string { return n.ID }

func persisted(t *testing.T, kvs kv.Store, slot string) []note {
	t.Helper()
	data, err := kvs.Get(context.Background(), slot)
	if err != nil {
		t.Fatalf("slot %q not persisted: %v", slot, err)
	}
	var items []note
	if err := json.Unmarshal(data, &items); err != nil {
		t.Fatalf("persisted state unreadable: %v", err)
	}
	return items
}

func TestCollectionStartsEmpty(t *testing.T) {
	c := NewCollection(kv.NewMemory(), "notes", noteID, nil)
	if c.Len() != 0 {
		t.Errorf("fresh collection has %d items", c.Len())
	}
}

func TestCollectionLoadsPersistedState(t *testing.T) {
	kvs := kv.NewMemory()
	data, _ := json.Marshal([]note{{"1", "hello"}})
	kvs.Put(context.Background(), "notes", data)

	c := NewCollection(kvs, "notes", noteID, nil)

	want := []note{{"1", "hello"}}
	if diff := cmp.Diff(want, c.Peek()); diff != "" {
		t.Errorf("loaded state mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectionDegradesOnCorruptSlot(t *testing.T) {
	kvs := kv.NewMemory()
	kvs.Put(context.Background(), "notes", []byte("{not json"))

	c := NewCollection(kvs, "notes", noteID, nil)
	if c.Len() != 0 {
		t.Errorf("corrupt slot produced %d items, expected empty", c.Len())
	}

	// The collection stays writable afterwards.
	c.Add(note{"1", "recovered"})
	if got := persisted(t, kvs, "notes"); len(got) != 1 || got[0].Body != "recovered" {
		t.Errorf("post-corruption persistence wrong: %v", got)
	}
}

func TestCollectionPersistsEveryChange(t *testing.T) {
	kvs := kv.NewMemory()
	c := NewCollection(kvs, "notes", noteID, nil)

	c.Add(note{"1", "a"})
	c.Add(note{"2", "b"})
	c.Update("1", func(n note) note {
		n.Body = "a2"
		return n
	})
	c.Remove("2")

	want := []note{{"1", "a2"}}
	if diff := cmp.Diff(want, persisted(t, kvs, "notes")); diff != "" {
		t.Errorf("persisted state mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, c.Peek()); diff != "" {
		t.Errorf("live state mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectionReplace(t *testing.T) {
	kvs := kv.NewMemory()
	c := NewCollection(kvs, "notes", noteID, nil)
	c.Add(note{"1", "a"})

	c.Replace([]note{{"9", "z"}})

	if got := persisted(t, kvs, "notes"); len(got) != 1 || got[0].ID != "9" {
		t.Errorf("replace persisted %v", got)
	}
}

func TestCollectionReadsAreTracked(t *testing.T) {
	c := NewCollection(kv.NewMemory(), "notes", noteID, nil)

	runs := 0
	e := reactive.NewEffect(func() {
		_ = c.Items()
		runs++
	})
	defer e.Dispose()

	c.Add(note{"1", "a"})
	if runs != 2 {
		t.Errorf("view effect ran %d times, expected 2", runs)
	}

	// Peek must not have subscribed anything extra.
	before := runs
	_ = c.Peek()
	if runs != before {
		t.Errorf("Peek triggered a run")
	}
}
