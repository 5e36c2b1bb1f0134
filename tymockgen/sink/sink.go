// Package sink provides output destinations for generated mock files.
package sink

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	pathpkg "path"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
)

// OutputSink receives generated file content.
// Implementations MUST be safe for concurrent calls.
type OutputSink interface {
	// WriteFile writes content to the specified path.
	// The path is relative; the sink determines the actual location.
	// Implementations MUST be safe for concurrent calls.
	WriteFile(ctx context.Context, path string, content []byte) error
}

// FilesystemSink writes generated files below Root. Writes are atomic
// (temp file and rename) and a file whose content is already on disk is
// left untouched, so unchanged mocks keep their modification time.
type FilesystemSink struct {
	// Root is the base directory for all writes.
	Root string

	// Mode is the file permission mode (default: 0644).
	Mode os.FileMode

	// Overwrite allows replacing files with different content. When false
	// such a write fails.
	Overwrite bool

	mu        sync.Mutex
	written   []string
	unchanged []string
}

// NewFilesystemSink returns a sink writing below root, overwriting
// outdated files.
func NewFilesystemSink(root string) *FilesystemSink {
	return &FilesystemSink{Root: root, Mode: 0o644, Overwrite: true}
}

// WriteFile writes content to path below Root, creating directories as
// needed. It is safe for concurrent use.
func (s *FilesystemSink) WriteFile(ctx context.Context, path string, content []byte) error {
	full, err := resolve(s.Root, path)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	existing, err := readExisting(full)
	if err != nil {
		return errors.Wrapf(err, "read %s", path)
	}
	if existing != nil && bytes.Equal(existing, content) {
		s.record(&s.unchanged, path)
		return nil
	}
	if existing != nil && !s.Overwrite {
		return errors.Newf("file already exists: %q", path)
	}

	mode := s.Mode
	if mode == 0 {
		mode = 0o644
	}
	if err := writeAtomic(ctx, full, content, mode, s.Overwrite); err != nil {
		if errors.Is(err, os.ErrExist) {
			return errors.Newf("file already exists: %q", path)
		}
		return errors.Wrapf(err, "write %s", path)
	}
	s.record(&s.written, path)
	return nil
}

// Written returns the paths whose content changed on disk, sorted.
func (s *FilesystemSink) Written() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sorted(s.written)
}

// Unchanged returns the paths that already had the generated content,
// sorted.
func (s *FilesystemSink) Unchanged() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sorted(s.unchanged)
}

func (s *FilesystemSink) record(list *[]string, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	*list = append(*list, path)
}

// resolve validates path and joins it to root, refusing results outside
// root.
func resolve(root, path string) (string, error) {
	if err := ValidatePath(path); err != nil {
		return "", errors.Wrapf(err, "invalid path %q", path)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", errors.Wrap(err, "resolve root directory")
	}
	full := filepath.Join(absRoot, filepath.FromSlash(path))
	if rel, err := filepath.Rel(absRoot, full); err != nil || !filepath.IsLocal(rel) {
		return "", errors.Newf("path escapes root directory: %q", path)
	}
	return full, nil
}

// readExisting returns the content of full, or nil if it does not exist.
func readExisting(full string) ([]byte, error) {
	b, err := os.ReadFile(full)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if b == nil && err == nil {
		b = []byte{}
	}
	return b, err
}

// writeAtomic writes content to a temp file next to full and moves it into
// place. Without overwrite the final step is a hard link, which fails with
// os.ErrExist if another writer got there first.
func writeAtomic(ctx context.Context, full string, content []byte, mode os.FileMode, overwrite bool) error {
	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "create directories")
	}
	tmp, err := os.CreateTemp(dir, ".tymock-*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	_, werr := tmp.Write(content)
	if cerr := tmp.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return errors.Wrap(werr, "write temp file")
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return errors.Wrap(err, "set file mode")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if overwrite {
		return os.Rename(tmpPath, full)
	}
	return os.Link(tmpPath, full)
}

// MemorySink keeps generated files in memory. Content is copied in and
// out so callers cannot alias stored files.
type MemorySink struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemorySink returns an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{files: make(map[string][]byte)}
}

// WriteFile stores a copy of content under path.
func (s *MemorySink) WriteFile(ctx context.Context, path string, content []byte) error {
	if err := ValidatePath(path); err != nil {
		return errors.Wrapf(err, "invalid path %q", path)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = bytes.Clone(content)
	return nil
}

// Files returns a copy of every stored file.
func (s *MemorySink) Files() map[string][]byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string][]byte, len(s.files))
	for p, b := range s.files {
		out[p] = bytes.Clone(b)
	}
	return out
}

// Paths returns the stored paths, sorted.
func (s *MemorySink) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.files))
}

// Get returns a copy of one file, or nil if it was not written.
func (s *MemorySink) Get(path string) []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return bytes.Clone(s.files[path])
}

// Reset removes every stored file.
func (s *MemorySink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.files)
}

// ValidatePath checks that path is a clean, relative, slash-separated
// path that stays below its root.
func ValidatePath(path string) error {
	switch {
	case path == "":
		return errors.New("path is empty")
	case strings.HasPrefix(path, "/") || filepath.IsAbs(path) || hasDrive(path):
		return errors.New("absolute paths not allowed")
	case slices.Contains(strings.Split(path, "/"), ".."):
		return errors.New("path traversal not allowed")
	}
	if cleaned := pathpkg.Clean(path); cleaned != path {
		return errors.Newf("path is not clean (expected %q, got %q)", cleaned, path)
	}
	return nil
}

func hasDrive(path string) bool {
	if len(path) < 2 || path[1] != ':' {
		return false
	}
	c := path[0] | 0x20
	return c >= 'a' && c <= 'z'
}

func sorted(paths []string) []string {
	out := slices.Clone(paths)
	slices.Sort(out)
	return out
}

// WriterSink writes every file to a single writer, each preceded by a
// "// ==> path <==" banner. It backs dry runs.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink returns a sink writing to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// WriteFile writes the banner and content of path.
func (s *WriterSink) WriteFile(ctx context.Context, path string, content []byte) error {
	if err := ValidatePath(path); err != nil {
		return errors.Wrapf(err, "invalid path %q", path)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := fmt.Fprintf(s.w, "// ==> %s <==\n", path); err != nil {
		return errors.Wrap(err, "write banner")
	}
	if _, err := s.w.Write(content); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	if len(content) > 0 && content[len(content)-1] != '\n' {
		_, err := io.WriteString(s.w, "\n")
		return err
	}
	return nil
}

// CheckSink compares generated files against the files below Root without
// writing anything. Files that are missing or differ are recorded as stale.
type CheckSink struct {
	Root string

	mu    sync.Mutex
	stale []string
}

// NewCheckSink returns a sink comparing against root.
func NewCheckSink(root string) *CheckSink {
	return &CheckSink{Root: root}
}

// WriteFile records path as stale unless the file on disk has exactly
// content.
func (s *CheckSink) WriteFile(ctx context.Context, path string, content []byte) error {
	full, err := resolve(s.Root, path)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	existing, err := readExisting(full)
	if err != nil {
		return errors.Wrapf(err, "read %s", path)
	}
	if existing != nil && bytes.Equal(existing, content) {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stale = append(s.stale, path)
	return nil
}

// Stale returns the paths that are missing or out of date, sorted.
func (s *CheckSink) Stale() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sorted(s.stale)
}
