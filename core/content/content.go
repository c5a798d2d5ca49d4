package content

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

// Content is arbitrary binary data with optional declared metadata.
// Empty strings mean "not declared".
type Content interface {
	Filename() string
	MimeType() string
}

// FileSystemAccessible content already lives on the local filesystem.
type FileSystemAccessible interface {
	Content
	FileSystemPath() string
}

// Readable content can be streamed but has no path of its own.
type Readable interface {
	Content
	Open() (io.ReadCloser, error)
}

// Releasable content owns a resource that must be freed once it is no longer needed.
type Releasable interface {
	Release() error
}

type meta struct {
	filename string
	mimeType string
	detect   bool
}

// Option configures declared metadata of a content value.
type Option func(*meta)

// WithFilename declares the filename presented to recipients.
func WithFilename(name string) Option {
	return func(m *meta) {
		m.filename = name
	}
}

// WithMimeType declares the MIME type of the content.
func WithMimeType(mimeType string) Option {
	return func(m *meta) {
		m.mimeType = mimeType
	}
}

// WithDetectedMimeType sniffs the MIME type from the data when none was declared.
func WithDetectedMimeType() Option {
	return func(m *meta) {
		m.detect = true
	}
}

func newMeta(opts []Option) meta {
	var m meta
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// File is content backed by an existing file. It is never released.
type File struct {
	path     string
	filename string
	mimeType string
}

// FromFile references a file on disk. The filename defaults to the base name of path.
func FromFile(path string, opts ...Option) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrUnsupportedContent, path)
	}

	m := newMeta(opts)
	if m.filename == "" {
		m.filename = filepath.Base(path)
	}
	if m.mimeType == "" && m.detect {
		if mt, err := mimetype.DetectFile(path); err == nil {
			m.mimeType = mt.String()
		}
	}

	return &File{path: path, filename: m.filename, mimeType: m.mimeType}, nil
}

func (f *File) Filename() string       { return f.filename }
func (f *File) MimeType() string       { return f.mimeType }
func (f *File) FileSystemPath() string { return f.path }

// Blob is in-memory content. It becomes filesystem accessible only through
// FileSystemAccessibleOf, which materializes it into a TempFile.
type Blob struct {
	data     []byte
	filename string
	mimeType string
}

// FromBytes wraps in-memory data. The slice is not copied.
func FromBytes(data []byte, opts ...Option) *Blob {
	m := newMeta(opts)
	if m.mimeType == "" && m.detect {
		m.mimeType = mimetype.Detect(data).String()
	}
	return &Blob{data: data, filename: m.filename, mimeType: m.mimeType}
}

func (b *Blob) Filename() string { return b.filename }
func (b *Blob) MimeType() string { return b.mimeType }
func (b *Blob) Size() int        { return len(b.data) }

func (b *Blob) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b.data)), nil
}

// FileSystemAccessibleOf resolves c to content with a filesystem path.
// On-disk content is returned as is and is releasable only if it implements
// Releasable. Readable content is copied into a new TempFile, which the
// caller owns and must release.
func FileSystemAccessibleOf(c Content) (FileSystemAccessible, bool, error) {
	switch v := c.(type) {
	case nil:
		return nil, false, fmt.Errorf("%w: nil content", ErrUnsupportedContent)
	case FileSystemAccessible:
		_, releasable := v.(Releasable)
		return v, releasable, nil
	case Readable:
		rc, err := v.Open()
		if err != nil {
			return nil, false, errors.Join(ErrMaterializeFailed, err)
		}
		defer func() { _ = rc.Close() }()

		tmp, err := NewTempFile(rc, v.Filename(), v.MimeType())
		if err != nil {
			return nil, false, err
		}
		return tmp, true, nil
	default:
		return nil, false, fmt.Errorf("%w: %T", ErrUnsupportedContent, c)
	}
}
