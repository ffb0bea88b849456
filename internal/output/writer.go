package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// blockSeparator goes between consecutive items in stream mode.
const blockSeparator = "\n"

// TextWriter streams rendered blocks to an io.Writer, typically stdout.
// Successful blocks reach the output even when later items fail.
type TextWriter struct {
	mu     sync.Mutex
	output io.Writer
	count  int
}

// NewTextWriter creates a writer that streams blocks to w.
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{output: w}
}

// WriteItem writes one rendered block, separated from the previous one.
func (w *TextWriter) WriteItem(item RenderedItem) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.count > 0 {
		if _, err := io.WriteString(w.output, blockSeparator); err != nil {
			return fmt.Errorf("failed to write separator: %w", err)
		}
	}
	if _, err := io.WriteString(w.output, item.Text); err != nil {
		return fmt.Errorf("failed to write item: %w", err)
	}
	if !strings.HasSuffix(item.Text, "\n") {
		if _, err := io.WriteString(w.output, "\n"); err != nil {
			return fmt.Errorf("failed to write item: %w", err)
		}
	}

	w.count++
	return nil
}

// Count returns the number of items written.
func (w *TextWriter) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Close implements Writer. Stream output has nothing to release.
func (w *TextWriter) Close() error {
	return nil
}

// DirWriter writes each rendered item to its own file inside a timestamped
// directory, named "<prefix>_<kind>_<id>.txt".
type DirWriter struct {
	dir    string
	prefix string
}

// dirTimestampLayout names output directories by creation time.
const dirTimestampLayout = "output_2006_01_02_150405"

// NewDirWriter creates the timestamped output directory under baseDir and
// returns a writer placing per-item files inside it.
func NewDirWriter(baseDir, prefix string, now time.Time) (*DirWriter, error) {
	if prefix == "" {
		prefix = "item"
	}
	dir := filepath.Join(baseDir, now.Format(dirTimestampLayout))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	return &DirWriter{dir: dir, prefix: prefix}, nil
}

// Dir returns the created output directory.
func (w *DirWriter) Dir() string {
	return w.dir
}

// WriteItem writes one rendered block to its own file.
func (w *DirWriter) WriteItem(item RenderedItem) error {
	name := fmt.Sprintf("%s_%s_%s.txt", w.prefix, item.Kind, item.ID)
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, []byte(item.Text), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Close implements Writer. Files are written eagerly, nothing to flush.
func (w *DirWriter) Close() error {
	return nil
}
