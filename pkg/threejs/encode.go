package threejs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
)

// ErrIncomplete is returned when serializing a document without a root.
var ErrIncomplete = errors.New("incomplete document")

// Encode writes doc as JSON. Absent optional fields are omitted.
func Encode(w io.Writer, doc *Document, indent bool) error {
	if doc == nil || doc.Object == nil {
		return ErrIncomplete
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(doc)
}

// Marshal returns doc as compact JSON.
func Marshal(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, doc, false); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Decode reads a document back, mainly for inspection and tests.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}
	if doc.Object == nil {
		return nil, ErrIncomplete
	}
	return &doc, nil
}

// WriteFile writes doc to path atomically: the JSON goes to a temporary
// file in the same directory, which replaces path only once fully written.
// On failure path is left untouched.
func WriteFile(path string, doc *Document, indent bool) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			err = multierr.Append(err, removeIfExists(tmpName))
		}
	}()

	if err := Encode(tmp, doc, indent); err != nil {
		return multierr.Append(fmt.Errorf("encoding %s: %w", path, err), tmp.Close())
	}
	if err := tmp.Sync(); err != nil {
		return multierr.Append(err, tmp.Close())
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
