package fs

import (
	"context"
	"os"
	"path/filepath"

	"github.com/kreuzwerker/webmeta"
)

// Ensure Store implements webmeta.PayloadStore at compile time.
var _ webmeta.PayloadStore = (*Store)(nil)

// Store implements webmeta.PayloadStore with atomic update semantics.
// Payloads are saved to a temporary directory, then moved into place on
// Commit.
type Store struct {
	baseDir string
	name    string
}

// NewStore creates a new Store. Files are saved to baseDir/name.tmp and
// moved to baseDir/name on Commit.
func NewStore(baseDir, name string) *Store {
	return &Store{
		baseDir: baseDir,
		name:    name,
	}
}

func (s *Store) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *Store) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Save writes payload as JSON to the path derived from url.
func (s *Store) Save(ctx context.Context, url string, payload *webmeta.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	relPath, err := URLToPath(url)
	if err != nil {
		return err
	}
	fullPath := filepath.Join(s.tempDir(), filepath.FromSlash(relPath))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	b, err := payload.MarshalJSON()
	if err != nil {
		return err
	}
	return os.WriteFile(fullPath, append(b, '\n'), 0644)
}

// Commit replaces the final directory with the saved payloads.
func (s *Store) Commit() error {
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}
	return os.Rename(s.tempDir(), s.finalDir())
}

// Abort discards the saved payloads.
func (s *Store) Abort() error {
	return os.RemoveAll(s.tempDir())
}
