package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/iogen/internal/ir"
)

// createTestStore creates a new store in a temporary directory.
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

// testDeclarations is a small emitted batch: a recursive pair followed by
// a plain declaration and a custom one.
func testDeclarations() []ir.Declaration {
	return []ir.Declaration{
		ir.Declare("A", ir.Recursive{Name: "A", Type: ir.NewStruct(ir.Prop("b", ir.Ident("B"))), Group: []string{"A", "B"}}),
		ir.Declare("B", ir.Recursive{Name: "B", Type: ir.NewStruct(ir.Prop("a", ir.Ident("A"))), Group: []string{"A", "B"}}),
		ir.Export("Name", ir.StringType),
		ir.DeclareCustom("Timestamp", "Date", "DateFromISOString"),
	}
}

// createTestRun builds a run for testDeclarations.
func createTestRun(t *testing.T) Run {
	t.Helper()
	run, err := NewRun(testDeclarations(), "generated text", "test")
	if err != nil {
		t.Fatalf("NewRun() failed: %v", err)
	}
	return run
}
