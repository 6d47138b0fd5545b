package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/iogen/internal/testutil"
)

func TestValidateValidSpecs(t *testing.T) {
	dir := t.TempDir()
	writeSpec(t, dir, "person.yaml", testutil.PersonYAML)

	out, _, err := execute(t, "validate", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "All 2 declaration(s) valid")
}

func TestValidateValidSpecsJSON(t *testing.T) {
	dir := t.TempDir()
	writeSpec(t, dir, "recursive.yaml", testutil.RecursiveYAML)

	out, _, err := execute(t, "--format", "json", "validate", dir)
	require.NoError(t, err)

	resp := decodeResponse(t, out)
	assert.Equal(t, "ok", resp.Status)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, data["valid"])
	warnings, ok := data["warnings"].([]any)
	require.True(t, ok)
	require.Len(t, warnings, 1)
	assert.Equal(t, "W200", warnings[0].(map[string]any)["code"])
}

func TestValidateCycleWarning(t *testing.T) {
	dir := t.TempDir()
	writeSpec(t, dir, "recursive.yaml", testutil.RecursiveYAML)

	out, diag, err := execute(t, "validate", dir)
	require.NoError(t, err, "cycles are warnings")
	assert.Contains(t, out, "All 2 declaration(s) valid")
	assert.Contains(t, diag, "W200")
}

func TestValidateInvalidSpecs(t *testing.T) {
	dir := t.TempDir()
	writeSpec(t, dir, "bad.yaml", testutil.InvalidYAML)

	out, _, err := execute(t, "validate", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Validation failed")
	assert.Contains(t, out, `[E101] declarations[0].name: invalid declaration name "bad name"`)
}

func TestValidateInvalidSpecsJSON(t *testing.T) {
	dir := t.TempDir()
	writeSpec(t, dir, "bad.yaml", testutil.InvalidYAML)

	out, _, err := execute(t, "--format", "json", "validate", dir)
	require.Error(t, err)

	resp := decodeResponse(t, out)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E101", resp.Error.Code)
}

func TestValidateDuplicatesAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	writeSpec(t, dir, "a.yaml", testutil.PersonYAML)
	writeSpec(t, dir, "b.yaml", "declarations:\n  - name: Person\n    type: string\n")

	out, _, err := execute(t, "validate", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "E102")
}

func TestValidateNonExistentDirectory(t *testing.T) {
	out, _, err := execute(t, "validate", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "E005")
}
