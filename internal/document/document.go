// Package document reads the source document a run breaks down into tasks.
package document

import (
	"errors"
	"fmt"
	"os"

	"github.com/ShayCichocki/taskforge/internal/engine"
)

// Read returns the contents of the document at path. Any failure comes back
// as an engine.InputError so callers surface unreadable and empty documents
// through one taxonomy.
func Read(path string) (string, error) {
	if path == "" {
		return "", &engine.InputError{Err: errors.New("no document path given")}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &engine.InputError{Err: fmt.Errorf("read document %s: %w", path, err)}
	}
	return string(data), nil
}
