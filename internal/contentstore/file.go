package contentstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const tempFilePrefix = "studyaid-tmp-"

// FilePersister stores the snapshot as one JSON file, replaced atomically on
// every save.
type FilePersister struct {
	path string
	perm os.FileMode
}

func NewFilePersister(path string) *FilePersister {
	return &FilePersister{path: path, perm: 0o600}
}

func (p *FilePersister) Path() string { return p.path }

func (p *FilePersister) Load(ctx context.Context) (map[string]string, error) {
	b, err := os.ReadFile(p.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p.path, err)
	}
	return decodeSnapshot(b)
}

func (p *FilePersister) Save(ctx context.Context, snapshot map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := encodeSnapshot(snapshot)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0o700); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	return writeFileAtomic(p.path, b, p.perm)
}

func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(filename), tempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("rename temp file to %s: %w", filename, err)
	}
	return nil
}
