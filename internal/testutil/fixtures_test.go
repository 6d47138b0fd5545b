package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/iogen/internal/ir"
	"github.com/roach88/iogen/internal/loader"
)

func TestYAMLMatchesBatch(t *testing.T) {
	decls, errs := loader.Parse(loader.FormatYAML, "person.yaml", []byte(PersonYAML))
	require.Empty(t, errs)
	assert.Equal(t, PersonBatch(), decls)
}

func TestRecursiveYAMLLoads(t *testing.T) {
	decls, errs := loader.Parse(loader.FormatYAML, "recursive.yaml", []byte(RecursiveYAML))
	require.Empty(t, errs)
	assert.Equal(t, []string{"A", "B"}, ir.Names(decls))
	assert.Equal(t, ir.Names(RecursiveBatch()[:2]), ir.Names(decls))
}

func TestOpenStore(t *testing.T) {
	s := OpenStore(t)
	runs, err := s.ReadRuns(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
