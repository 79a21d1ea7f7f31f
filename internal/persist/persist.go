// Package persist provides small serializer and writer seams for putting
// compiled configuration bytes on disk.
package persist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

type Serializer interface {
	Marshal(data any) ([]byte, error)
}

type Writer interface {
	Write(filename string, data []byte) error
}

// JSONSerializer marshals with optional indentation. Empty Indent gives
// compact output.
type JSONSerializer struct {
	Prefix, Indent string
}

func (s JSONSerializer) Marshal(data any) ([]byte, error) {
	if s.Indent == "" && s.Prefix == "" {
		return json.Marshal(data)
	}
	return json.MarshalIndent(data, s.Prefix, s.Indent)
}

// FileWriter writes a file in place, creating parent directories.
// With Overwrite false an existing file is an error.
type FileWriter struct {
	Overwrite bool
}

func (w FileWriter) Write(filename string, data []byte) error {
	if filename == "" {
		return os.ErrInvalid
	}
	if _, err := os.Stat(filename); !os.IsNotExist(err) && !w.Overwrite {
		return os.ErrExist
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}

// AtomicFileWriter writes to a temp file next to the target and renames
// it over, so readers never observe a partial document.
type AtomicFileWriter struct {
	Mode os.FileMode // defaults to 0600
}

func (w AtomicFileWriter) Write(filename string, data []byte) error {
	if filename == "" {
		return os.ErrInvalid
	}
	mode := w.Mode
	if mode == 0 {
		mode = 0600
	}

	tmpPath := filename + ".tmp"
	if err := os.WriteFile(tmpPath, data, mode); err != nil {
		return fmt.Errorf("failed to write temp file %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, filename); err != nil {
		return fmt.Errorf("failed to replace %s with %s: %w", filename, tmpPath, err)
	}
	return nil
}

// WriteJSON serializes data and hands the bytes to the writer.
func WriteJSON(data any, filename string, serializer Serializer, writer Writer) error {
	bytes, err := serializer.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to serialize data: %w", err)
	}
	if err := writer.Write(filename, bytes); err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}
	return nil
}
