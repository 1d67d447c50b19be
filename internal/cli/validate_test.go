package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeValidate(t *testing.T, format string, path string) (string, error) {
	t.Helper()

	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	return buf.String(), err
}

const invalidExercises = `package bad

exercise: sideways: {
	mode:  "dorian"
	voice: "sideways"
	cantus: ["d", "e", "d"]
}

exercise: sharp: {
	mode: "dorian"
	cantus: ["d", "f#", "d"]
}

exercise: fine: {
	mode: "dorian"
	cantus: ["d", "e", "d"]
}
`

func TestValidateValidExercises(t *testing.T) {
	out, err := executeValidate(t, "text", exercisesDir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ All exercises valid (4)")
}

func TestValidateValidExercisesJSON(t *testing.T) {
	out, err := executeValidate(t, "json", exercisesDir)
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	require.Len(t, resp.Data.Exercises, 4)

	byName := make(map[string]ValidatedExercise)
	for _, ex := range resp.Data.Exercises {
		byName[ex.Name] = ex
	}
	assert.Equal(t, ValidatedExercise{
		Name:   "neighbour",
		Cantus: "d e d",
		Voice:  "above",
		Mode:   "dorian",
		Policy: "breadth-first",
	}, byName["neighbour"])
	assert.Equal(t, "below", byName["fux_dorian_below"].Voice)
}

func TestValidateSingleFile(t *testing.T) {
	out, err := executeValidate(t, "text", filepath.Join(exercisesDir, "short.cue"))
	require.NoError(t, err)
	assert.Contains(t, out, "✓ All exercises valid (2)")
}

func TestValidateNonExistentPath(t *testing.T) {
	out, err := executeValidate(t, "text", "/nonexistent/directory/path")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "E005")
	assert.Contains(t, out, "not found")
}

func TestValidateEmptyDirectory(t *testing.T) {
	out, err := executeValidate(t, "text", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "E003")
	assert.Contains(t, out, "no CUE files found")
}

func TestValidateInvalidExercises(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.cue")
	require.NoError(t, os.WriteFile(path, []byte(invalidExercises), 0644))

	out, err := executeValidate(t, "text", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "validation failed with 2 error(s)")
	assert.Contains(t, out, "✗ Validation failed")
	assert.Contains(t, out, "sideways")
	assert.Contains(t, out, "E103")
}

func TestValidateInvalidExercisesJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.cue"), []byte(invalidExercises), 0644))

	out, err := executeValidate(t, "json", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
		Error  *CLIError        `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.False(t, resp.Data.Valid)
	assert.Len(t, resp.Data.Errors, 2)
}
