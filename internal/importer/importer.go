// Package importer reads source files into import sessions and commits
// their normalized records to a store.
package importer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kakeibo-dev/kakeibo/internal/tabular"
)

// ErrUnsupportedFormat is returned for a file extension with no reader.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ReadOptions carries per-import hints to a Reader.
type ReadOptions struct {
	// Hints are normalized headers the decoded text must contain.
	Hints []string
	// Sheet is the preferred workbook sheet.
	Sheet string
}

// Source is a parsed file before header mapping.
type Source struct {
	Table    tabular.Table
	Encoding string
}

// Reader turns file bytes into a Source.
type Reader interface {
	Read(r io.Reader, opts ReadOptions) (Source, error)
	Extension() string
}

// Registry holds readers keyed by lower-case file extension.
type Registry struct {
	readers map[string]Reader
}

// FileInfo describes a source file in the inbox.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty reader registry.
func NewRegistry() *Registry {
	return &Registry{readers: make(map[string]Reader)}
}

// Register adds a reader. Panics on duplicate extension.
func (r *Registry) Register(rd Reader) {
	key := strings.ToLower(rd.Extension())
	if _, ok := r.readers[key]; ok {
		panic("duplicate reader extension: " + key)
	}
	r.readers[key] = rd
}

// Get returns the reader for ext (".csv"), or nil.
func (r *Registry) Get(ext string) Reader {
	return r.readers[strings.ToLower(ext)]
}

// ForPath returns the reader for path's extension.
func (r *Registry) ForPath(path string) (Reader, error) {
	ext := filepath.Ext(path)
	if rd := r.Get(ext); rd != nil {
		return rd, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Base(path))
}

// Extensions lists the registered extensions, sorted.
func (r *Registry) Extensions() []string {
	out := make([]string, 0, len(r.readers))
	for ext := range r.readers {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// DefaultRegistry returns a registry with all built-in readers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&CSVReader{})
	r.Register(&SheetReader{})
	return r
}

// Scan returns the files in inbox that some reader in reg accepts.
// Subdirectories, including the processed dir, are ignored.
func Scan(inbox string, reg *Registry) ([]FileInfo, error) {
	entries, err := os.ReadDir(inbox)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if reg.Get(filepath.Ext(e.Name())) == nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(inbox, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves fileName from inbox into processed.
func MarkProcessed(inbox, processed, fileName string) error {
	if err := os.MkdirAll(processed, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}
	src := filepath.Join(inbox, fileName)
	dst := filepath.Join(processed, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
