// Package report renders analysis results for the console, JSON and Markdown.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// WriteJSON encodes data as indented JSON.
func WriteJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// WriteJSONFile writes data as indented JSON to path, replacing any existing file.
func WriteJSONFile(path string, data any) error {
	return writeFile(path, func(w io.Writer) error {
		return WriteJSON(w, data)
	})
}

// writeFile handles the common pattern of creating a file, writing to it, and closing it.
func writeFile(path string, write func(io.Writer) error) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()
	return write(file)
}
