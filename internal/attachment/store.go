package attachment

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/mrsinham/accidentwizard/internal/report"
)

// ErrTooLarge is returned for files above the configured maximum size.
var ErrTooLarge = errors.New("attachment exceeds the maximum size")

// File is an opaque handle to attachment content.
type File interface {
	Name() string
	Size() int64
	Open() (io.ReadCloser, error)
}

type localFile struct {
	path string
	size int64
}

func (f localFile) Name() string                 { return filepath.Base(f.path) }
func (f localFile) Size() int64                  { return f.size }
func (f localFile) Open() (io.ReadCloser, error) { return os.Open(f.path) }
func (f localFile) Path() string                 { return f.path }

// LocalPath returns the on-disk location of a File opened with OpenLocal.
func LocalPath(f File) (string, bool) {
	p, ok := f.(interface{ Path() string })
	if !ok {
		return "", false
	}
	return p.Path(), true
}

// OpenLocal returns a File backed by a regular file on disk.
func OpenLocal(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return localFile{path: path, size: info.Size()}, nil
}

type bytesFile struct {
	name string
	data []byte
}

func (f bytesFile) Name() string { return f.name }
func (f bytesFile) Size() int64  { return int64(len(f.data)) }
func (f bytesFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.data)), nil
}

// NewBytesFile returns a File held in memory.
func NewBytesFile(name string, data []byte) File {
	return bytesFile{name: name, data: data}
}

// Attachment is a file the citizen attached to a collection.
type Attachment struct {
	ID         string
	Category   Category
	Name       string
	Size       int64
	File       File
	UploadedAt time.Time
}

// Ref returns the reference sent with the submission payload.
func (a Attachment) Ref() report.AttachmentRef {
	return report.AttachmentRef{
		ID:       a.ID,
		Category: a.Category.String(),
		Name:     a.Name,
		Size:     a.Size,
	}
}

// Store is the ordered collection of one category. It is not safe for concurrent
// use; the wizard engine serialises access.
type Store struct {
	category Category
	maxSize  int64
	now      func() time.Time
	items    []Attachment
}

// NewStore returns an empty store. A maxSize of 0 disables the size check.
func NewStore(c Category, maxSize int64) *Store {
	return &Store{category: c, maxSize: maxSize, now: time.Now}
}

// Category returns the category the store holds.
func (s *Store) Category() Category { return s.category }

// Upload appends files in order. Duplicate names are kept. Files above the maximum
// size are skipped and reported in the returned error, which wraps ErrTooLarge.
func (s *Store) Upload(files ...File) ([]Attachment, error) {
	var (
		added []Attachment
		errs  []error
	)
	for _, f := range files {
		if f == nil {
			continue
		}
		if s.maxSize > 0 && f.Size() > s.maxSize {
			errs = append(errs, fmt.Errorf("%s (%s): %w", f.Name(), FormatSize(f.Size()), ErrTooLarge))
			continue
		}
		a := Attachment{
			ID:         uuid.NewString(),
			Category:   s.category,
			Name:       f.Name(),
			Size:       f.Size(),
			File:       f,
			UploadedAt: s.now(),
		}
		s.items = append(s.items, a)
		added = append(added, a)
	}
	return added, errors.Join(errs...)
}

// Remove deletes the attachment with the given id. Unknown ids are ignored.
func (s *Store) Remove(id string) bool {
	for i, a := range s.items {
		if a.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns the attachment with the given id.
func (s *Store) Get(id string) (Attachment, bool) {
	for _, a := range s.items {
		if a.ID == id {
			return a, true
		}
	}
	return Attachment{}, false
}

// List returns a copy of the attachments in upload order.
func (s *Store) List() []Attachment {
	out := make([]Attachment, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of attachments.
func (s *Store) Len() int { return len(s.items) }

// Clear removes every attachment.
func (s *Store) Clear() { s.items = nil }

// Set holds one store per category.
type Set struct {
	stores map[Category]*Store
}

// NewSet returns empty stores for every category.
func NewSet(maxSize int64) *Set {
	s := &Set{stores: make(map[Category]*Store, len(Categories))}
	for _, c := range Categories {
		s.stores[c] = NewStore(c, maxSize)
	}
	return s
}

// Store returns the store of category c, nil for a category outside Categories.
func (s *Set) Store(c Category) *Store {
	return s.stores[c]
}

// Lookup returns the store of category c and whether c is a known category.
func (s *Set) Lookup(c Category) (*Store, bool) {
	st, ok := s.stores[c]
	return st, ok
}

// Find looks an attachment up across every category.
func (s *Set) Find(id string) (Attachment, bool) {
	for _, c := range Categories {
		if a, ok := s.stores[c].Get(id); ok {
			return a, true
		}
	}
	return Attachment{}, false
}

// Refs returns payload references for every attachment, grouped by category.
func (s *Set) Refs() []report.AttachmentRef {
	var refs []report.AttachmentRef
	for _, c := range Categories {
		for _, a := range s.stores[c].items {
			refs = append(refs, a.Ref())
		}
	}
	return refs
}

// Clear empties every store.
func (s *Set) Clear() {
	for _, st := range s.stores {
		st.Clear()
	}
}
