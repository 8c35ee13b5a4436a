package kv

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
)

// storeContract exercises the Store semantics all backends share.
func storeContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get on absent key: %v, expected ErrNotFound", err)
	}

	if err := s.Put(ctx, "k", []byte("v1")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, []byte("v1")) {
		t.Errorf("Get returned %q", got)
	}

	// Overwrite.
	if err := s.Put(ctx, "k", []byte("v2")); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, _ = s.Get(ctx, "k")
	if !bytes.Equal(got, []byte("v2")) {
		t.Errorf("overwrite returned %q", got)
	}

	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete: %v", err)
	}

	// Deleting an absent key is fine.
	if err := s.Delete(ctx, "never"); err != nil {
		t.Errorf("Delete absent key: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, NewMemory())
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	in := []byte("abc")
	m.Put(ctx, "k", in)
	in[0] = 'x'

	got, _ := m.Get(ctx, "k")
	if !bytes.Equal(got, []byte("abc")) {
		t.Errorf("store aliased caller's buffer: %q", got)
	}

	got[0] = 'y'
	again, _ := m.Get(ctx, "k")
	if !bytes.Equal(again, []byte("abc")) {
		t.Errorf("store aliased returned buffer: %q", again)
	}
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	storeContract(t, s)
}

func TestSQLitePersistsAcrossOpens(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	s1, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s1.Put(ctx, "k", []byte("durable")); err != nil {
		t.Fatal(err)
	}
	s1.Close()

	s2, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()

	got, err := s2.Get(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte("durable")) {
		t.Errorf("reopened store returned %q", got)
	}
}
