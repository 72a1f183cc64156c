package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/zaphkiel/internal/testutil"
)

// createTestStore creates a new store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun begins a run so rows referencing it satisfy foreign keys.
func createTestRun(t *testing.T, s *Store, runID string) {
	t.Helper()
	if err := s.BeginRun(context.Background(), runID, testutil.Epoch); err != nil {
		t.Fatalf("BeginRun() failed: %v", err)
	}
}

// openTestSource writes fixture to a VRCX database and opens it.
func openTestSource(t *testing.T, fixture testutil.VRCXFixture) *Source {
	t.Helper()
	src, err := OpenSource(testutil.CreateVRCXDatabase(t, fixture))
	if err != nil {
		t.Fatalf("OpenSource() failed: %v", err)
	}
	t.Cleanup(func() { src.Close() })
	return src
}

func strPtr(s string) *string { return &s }

func u64Ptr(v uint64) *uint64 { return &v }
