package persist_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/helixlang/helixconf/internal/persist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `{"key":"value"}`

type MockSerializer struct {
	Bytes []byte
	Err   error
}

func (s MockSerializer) Marshal(data any) ([]byte, error) {
	return s.Bytes, s.Err
}

type MockWriter struct {
	Data map[string][]byte
	Err  error
}

func (w *MockWriter) Write(filename string, data []byte) error {
	if w.Data == nil {
		w.Data = make(map[string][]byte)
	}
	w.Data[filename] = data
	return w.Err
}

func TestWriteJSON(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		serializer  persist.Serializer
		writer      persist.Writer
		expectedErr bool
	}{
		{
			name:       "valid input",
			filename:   "output.json",
			serializer: MockSerializer{Bytes: []byte(sampleJSON)},
			writer:     &MockWriter{},
		},
		{
			name:        "serializer error",
			filename:    "output.json",
			serializer:  MockSerializer{Err: fmt.Errorf("serialization failed")},
			writer:      &MockWriter{},
			expectedErr: true,
		},
		{
			name:        "writer error",
			filename:    "output.json",
			serializer:  MockSerializer{Bytes: []byte(sampleJSON)},
			writer:      &MockWriter{Err: fmt.Errorf("write failed")},
			expectedErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := persist.WriteJSON(map[string]string{"key": "value"}, tt.filename, tt.serializer, tt.writer)
			if tt.expectedErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			writer := tt.writer.(*MockWriter)
			assert.Equal(t, sampleJSON, string(writer.Data[tt.filename]))
		})
	}
}

func TestJSONSerializer(t *testing.T) {
	data := map[string]string{"key": "value"}

	compact, err := persist.JSONSerializer{}.Marshal(data)
	require.NoError(t, err)
	assert.Equal(t, sampleJSON, string(compact))

	indented, err := persist.JSONSerializer{Indent: "    "}.Marshal(data)
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"key\": \"value\"\n}", string(indented))
}

func TestFileWriter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "output.json")

	require.NoError(t, persist.FileWriter{Overwrite: true}.Write(path, []byte(sampleJSON)))

	err := persist.FileWriter{Overwrite: false}.Write(path, []byte("{}"))
	assert.ErrorIs(t, err, os.ErrExist)

	assert.ErrorIs(t, persist.FileWriter{}.Write("", nil), os.ErrInvalid)
}

func TestAtomicFileWriter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "output.json")

	require.NoError(t, persist.AtomicFileWriter{}.Write(path, []byte(sampleJSON)))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleJSON, string(got))

	// no temp file left behind
	_, err = os.Stat(path + ".tmp")
	assert.ErrorIs(t, err, os.ErrNotExist)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}
