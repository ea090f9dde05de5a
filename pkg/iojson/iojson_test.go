package iojson

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name string `json:"name"`
	Skip bool   `json:"skip"`
}

func TestWriteLine(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLine(&buf, sample{Name: "device", Skip: true}))
	assert.Equal(t, "{\"name\":\"device\",\"skip\":true}\n", buf.String())
}

func TestWriteWith_MarshalError(t *testing.T) {
	var out, errOut bytes.Buffer

	err := WriteWith(&out, &errOut, math.Inf(1))
	require.Error(t, err)
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "json_error")
}

func TestFileReader_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"device","skip":true}`), 0o644))

	fr := &FileReader[sample]{fileFlagValue: path}
	got, err := fr.Read()
	require.NoError(t, err)
	assert.Equal(t, sample{Name: "device", Skip: true}, got)
}

func TestFileReader_Stdin(t *testing.T) {
	fr := &FileReader[sample]{stdin: strings.NewReader(`{"name":"piped"}`)}
	got, err := fr.Read()
	require.NoError(t, err)
	assert.Equal(t, "piped", got.Name)
}

func TestFileReader_UnknownField(t *testing.T) {
	fr := &FileReader[sample]{stdin: strings.NewReader(`{"name":"x","extra":1}`)}
	_, err := fr.Read()
	require.Error(t, err)
}

func TestFileReader_MissingFile(t *testing.T) {
	fr := &FileReader[sample]{fileFlagValue: filepath.Join(t.TempDir(), "nope.json")}
	_, err := fr.Read()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open file")
}
