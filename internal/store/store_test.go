package store_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/bandvault/bandvault/internal/store"
)

func Test_Open_Creates_Schema_When_Database_New(t *testing.T) {
	t.Parallel()

	s := openStore(t)

	version := rawQueryInt(t, s, "PRAGMA user_version")
	if version != 1 {
		t.Fatalf("user_version = %d, want 1", version)
	}

	tables := rawQueryInt(t, s,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('bands', 'users')")
	if tables != 2 {
		t.Fatalf("tables = %d, want 2", tables)
	}
}

func Test_Open_Returns_Error_When_Path_Empty(t *testing.T) {
	t.Parallel()

	_, err := store.Open(t.Context(), "")
	if err == nil {
		t.Fatal("expected error for empty path")
	}
}

func Test_Open_Reuses_Existing_Database(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bands.db")

	first, err := store.Open(t.Context(), path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	mustRegister(t.Context(), t, first, "alice", "pw1")

	closeErr := first.Close()
	if closeErr != nil {
		t.Fatalf("close store: %v", closeErr)
	}

	second, err := store.Open(t.Context(), path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}

	defer func() { _ = second.Close() }()

	ok, err := second.Authenticate(t.Context(), "alice", "pw1")
	if err != nil {
		t.Fatalf("authenticate after reopen: %v", err)
	}

	if !ok {
		t.Fatal("user registered before reopen should authenticate")
	}
}

func Test_ExecAdmin_Runs_Maintenance_Statement(t *testing.T) {
	t.Parallel()

	s := openStore(t)

	mustRegister(t.Context(), t, s, "alice", "pw1")
	mustInsert(t.Context(), t, s, testBand("alice", "X"))

	err := s.ExecAdmin(t.Context(), "DELETE FROM bands")
	if err != nil {
		t.Fatalf("exec admin: %v", err)
	}

	bands, err := s.LoadAll(t.Context())
	if err != nil {
		t.Fatalf("load all: %v", err)
	}

	if len(bands) != 0 {
		t.Fatalf("bands after admin delete = %d, want 0", len(bands))
	}
}

func Test_ExecAdmin_Reports_Unavailable_On_Bad_Statement(t *testing.T) {
	t.Parallel()

	s := openStore(t)

	err := s.ExecAdmin(t.Context(), "FROB TABLE nothing")
	if !errors.Is(err, store.ErrUnavailable) {
		t.Fatalf("error = %v, want ErrUnavailable", err)
	}
}

func Test_Reset_Discards_All_Rows(t *testing.T) {
	t.Parallel()

	s := openStore(t)

	mustRegister(t.Context(), t, s, "alice", "pw1")
	mustInsert(t.Context(), t, s, testBand("alice", "X"))

	err := s.Reset(t.Context())
	if err != nil {
		t.Fatalf("reset: %v", err)
	}

	bands, err := s.LoadAll(t.Context())
	if err != nil {
		t.Fatalf("load all after reset: %v", err)
	}

	if len(bands) != 0 {
		t.Fatalf("bands after reset = %d, want 0", len(bands))
	}

	ok, err := s.Authenticate(t.Context(), "alice", "pw1")
	if err != nil {
		t.Fatalf("authenticate after reset: %v", err)
	}

	if ok {
		t.Fatal("users table should be empty after reset")
	}
}

func Test_LoadAll_Reports_Unavailable_After_Close(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bands.db")

	s, err := store.Open(t.Context(), path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	closeErr := s.Close()
	if closeErr != nil {
		t.Fatalf("close store: %v", closeErr)
	}

	_, err = s.LoadAll(t.Context())
	if !errors.Is(err, store.ErrUnavailable) {
		t.Fatalf("error = %v, want ErrUnavailable", err)
	}
}
