package content

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// TempFile is a temporary copy of some content. It is removed from disk by
// the first Release call; subsequent calls do nothing.
type TempFile struct {
	path     string
	filename string
	mimeType string

	once       sync.Once
	releaseErr error
}

// NewTempFile copies r into a uniquely named file in the OS temp directory.
// The extension of filename is kept so MIME lookups by extension still work.
func NewTempFile(r io.Reader, filename, mimeType string) (*TempFile, error) {
	name := "mail-" + uuid.NewString() + filepath.Ext(filename)
	path := filepath.Join(os.TempDir(), name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, errors.Join(ErrMaterializeFailed, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return nil, errors.Join(ErrMaterializeFailed, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return nil, errors.Join(ErrMaterializeFailed, err)
	}

	return &TempFile{path: path, filename: filename, mimeType: mimeType}, nil
}

func (t *TempFile) Filename() string       { return t.filename }
func (t *TempFile) MimeType() string       { return t.mimeType }
func (t *TempFile) FileSystemPath() string { return t.path }

// Release removes the file. A file that is already gone is not an error.
func (t *TempFile) Release() error {
	t.once.Do(func() {
		if err := os.Remove(t.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			t.releaseErr = err
		}
	})
	return t.releaseErr
}
