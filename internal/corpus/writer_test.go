package corpus

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord(id string) Record {
	return Record{
		Input: []Message{
			{Role: "system", Content: []Content{TextContent("Instr")}},
			{Role: "user", Content: []Content{TextContent("А1. Q?\n1) X\n2) Y")}},
		},
		Target: "1",
		ID:     id,
		Metadata: Metadata{
			Comments: "C",
			Subject:  "geo",
			Year:     "2023",
			Language: "rus",
			Section:  "A",
			Points:   1,
		},
	}
}

func TestNewWriterRefusesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("existing\n"), 0o600))

	_, err := NewWriter(path, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOutputExists)
}

func TestNewWriterOverwriteTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("stale line\n"), 0o600))

	w, err := NewWriter(path, true)
	require.NoError(t, err)
	require.NoError(t, w.WriteRecord(sampleRecord("13-geo-2023-rus-A1")))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale line")
}

func TestWriterAppendsOneJSONPerLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")

	w, err := NewWriter(path, false)
	require.NoError(t, err)
	require.NoError(t, w.WriteRecord(sampleRecord("13-geo-2023-rus-A1")))
	require.NoError(t, w.Close())

	// A later write to the same path must append, not truncate.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o600)
	require.NoError(t, err)
	enc := json.NewEncoder(f)
	require.NoError(t, enc.Encode(sampleRecord("13-geo-2023-bel-A1")))
	require.NoError(t, f.Close())

	// And a fresh non-overwrite writer must refuse the existing file.
	_, err = NewWriter(path, false)
	assert.ErrorIs(t, err, ErrOutputExists)

	in, err := os.Open(path)
	require.NoError(t, err)
	defer in.Close()

	var ids []string
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		var rec Record
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		ids = append(ids, rec.ID)
	}
	require.NoError(t, scanner.Err())
	assert.Equal(t, []string{"13-geo-2023-rus-A1", "13-geo-2023-bel-A1"}, ids)
}

func TestWriterKeepsMarkupUnescaped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")

	rec := sampleRecord("13-geo-2023-rus-A1")
	rec.Input[1].Content[0].Text = "| a<br>b |"

	w, err := NewWriter(path, false)
	require.NoError(t, err)
	require.NoError(t, w.WriteRecord(rec))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<br>")
}
