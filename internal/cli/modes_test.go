package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModes_Text(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewModesCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs(nil)

	require.NoError(t, cmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "dorian      d e f g a b c'")
	assert.Contains(t, out, "ionian      c d e f g a b")
	assert.Contains(t, out, "aeolian     a b c' d' e' f' g'")
}

func TestModes_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewModesCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs(nil)

	require.NoError(t, cmd.Execute())

	var resp struct {
		Status string     `json:"status"`
		Data   []ModeInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data, 6)

	assert.Equal(t, "aeolian", resp.Data[0].Name)
	assert.Equal(t, ModeInfo{
		Name:    "dorian",
		Final:   "d",
		Degrees: []int{2, 4, 5, 7, 9, 11, 12},
		Scale:   "d e f g a b c'",
	}, resp.Data[1])
}

func TestModes_RejectsArgs(t *testing.T) {
	cmd := NewModesCommand(&RootOptions{Format: "text"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"dorian"})

	require.Error(t, cmd.Execute())
}
