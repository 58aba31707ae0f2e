package recording

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	domainerrors "vigil/pkg/domain-errors"
)

// ErrNotFound covers both a missing file and a session with no recordings.
var ErrNotFound = domainerrors.New(domainerrors.CodeNotFound, "recording not found")

// Store keeps recordings as flat files in one directory. No index is
// maintained: the directory is re-read on every call so a just-uploaded
// recording is immediately visible.
type Store struct {
	dir string
}

// NewStore creates the storage directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create recordings dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save streams an upload to disk under the given name. The name is flattened
// to its base so clients cannot escape the storage directory. A write failure
// removes the partial file: a recording is either fully present or absent.
func (s *Store) Save(name string, r io.Reader) (string, error) {
	name = filepath.Base(name)
	if name == "." || name == ".." || name == string(filepath.Separator) || name == "" {
		return "", domainerrors.New(domainerrors.CodeBadRequest, "invalid recording name")
	}

	path := filepath.Join(s.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create recording file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write recording file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close recording file: %w", err)
	}
	return name, nil
}

// List returns recognized recording names from the current directory contents.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read recordings dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !Recognized(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Latest picks the session's recording with the numerically largest embedded
// capture timestamp. Unparsable timestamps count as 0 and so lose ties to any
// parsable one.
func (s *Store) Latest(sessionID string) (string, error) {
	names, err := s.List()
	if err != nil {
		return "", err
	}

	var (
		best       string
		bestMillis int64 = -1
	)
	for _, name := range names {
		if !BelongsTo(name, sessionID) {
			continue
		}
		if millis := CaptureMillis(name); millis > bestMillis {
			best, bestMillis = name, millis
		}
	}
	if best == "" {
		return "", ErrNotFound
	}
	return best, nil
}

// Open returns a fresh read handle and the file size. Each caller owns its own
// cursor; the caller must close the handle.
func (s *Store) Open(name string) (*os.File, int64, error) {
	if filepath.Base(name) != name {
		return nil, 0, ErrNotFound
	}

	path := filepath.Join(s.dir, name)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, fmt.Errorf("open recording: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("stat recording: %w", err)
	}
	return f, info.Size(), nil
}

// PurgeSession removes every recording captured for the session.
func (s *Store) PurgeSession(sessionID string) error {
	names, err := s.List()
	if err != nil {
		return err
	}
	for _, name := range names {
		if !BelongsTo(name, sessionID) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove recording: %w", err)
		}
	}
	return nil
}
