// Package imagestore persists filtered uploads in a flat directory under
// generated names and serves them back by validated name.
//
// A save streams the upload to a hidden temporary file, runs the injected
// Transformer into a second temporary file and renames the result into
// place. The published name therefore only ever holds a complete,
// filtered image.
package imagestore

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// DefaultChunkSize is the read size used when streaming uploads.
const DefaultChunkSize = 4096

// tempPrefix marks in-flight files. Such names never match namePattern.
const tempPrefix = ".gbcam-"

// Transformer rewrites an encoded image from src to dst as format, where
// format is the stored extension.
type Transformer interface {
	Transform(dst io.Writer, src io.Reader, format string) error
}

// Store is an image store rooted at one directory.
type Store struct {
	dir       string
	transform Transformer
	newID     func() string
	chunkSize int
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator replaces uuid.NewString as the identifier source.
func WithIDGenerator(f func() string) Option {
	return func(s *Store) { s.newID = f }
}

// WithChunkSize sets the upload read size.
func WithChunkSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.chunkSize = n
		}
	}
}

// New opens a store in dir, creating the directory if needed.
func New(dir string, t Transformer, opts ...Option) (*Store, error) {
	if t == nil {
		return nil, errors.New("imagestore: nil transformer")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	s := &Store{
		dir:       dir,
		transform: t,
		newID:     uuid.NewString,
		chunkSize: DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Open opens an existing storage directory read-only: List and Open work,
// Save fails.
func Open(dir string) (*Store, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("open storage dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open storage dir: %s is not a directory", dir)
	}
	return &Store{dir: dir, chunkSize: DefaultChunkSize}, nil
}

// Dir returns the storage directory.
func (s *Store) Dir() string { return s.dir }

// Save stores the image read from r under a fresh name and returns it.
// The upload is filtered before the name becomes visible.
func (s *Store) Save(r io.Reader, contentType string) (string, error) {
	if s.transform == nil {
		return "", errors.New("imagestore: store is read-only")
	}
	ext, err := Extension(contentType)
	if err != nil {
		return "", err
	}
	name := s.newID() + "." + ext
	if !ValidName(name) {
		return "", fault("name", name, errors.New("generated name does not match pattern"))
	}

	raw, err := os.CreateTemp(s.dir, tempPrefix+"raw-*")
	if err != nil {
		return "", fault("create", name, err)
	}
	defer os.Remove(raw.Name())
	defer raw.Close()

	if _, err := s.copyChunks(raw, r); err != nil {
		return "", fault("write", name, err)
	}
	if _, err := raw.Seek(0, io.SeekStart); err != nil {
		return "", fault("rewind", name, err)
	}

	out, err := os.CreateTemp(s.dir, tempPrefix+"out-*")
	if err != nil {
		return "", fault("create", name, err)
	}
	outPath := out.Name()
	defer os.Remove(outPath) // no-op once renamed

	if err := s.transform.Transform(out, raw, ext); err != nil {
		out.Close()
		return "", fault("transform", name, err)
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return "", fault("sync", name, err)
	}
	if err := out.Close(); err != nil {
		return "", fault("close", name, err)
	}

	final := filepath.Join(s.dir, name)
	if _, err := os.Lstat(final); err == nil {
		return "", fault("publish", name, fs.ErrExist)
	}
	if err := os.Rename(outPath, final); err != nil {
		return "", fault("publish", name, err)
	}
	return name, nil
}

// copyChunks drains r into w one chunk at a time.
func (s *Store) copyChunks(w io.Writer, r io.Reader) (int64, error) {
	buf := make([]byte, s.chunkSize)
	var total int64
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return total, werr
			}
			total += int64(n)
		}
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

// Open returns the stored image called name and its length in bytes.
// Malformed names fail with ErrNotFound before the filesystem is touched.
func (s *Store) Open(name string) (io.ReadSeekCloser, int64, error) {
	if !ValidName(name) {
		return nil, 0, ErrNotFound
	}

	f, err := os.Open(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, 0, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, 0, fault("open", name, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fault("stat", name, err)
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, 0, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return f, info.Size(), nil
}

// List returns every published image, sorted by name. Temporary and
// foreign files in the directory are skipped.
func (s *Store) List() ([]StoredImage, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fault("list", s.dir, err)
	}

	var images []StoredImage
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, tempPrefix) || !ValidName(name) || !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue // removed since ReadDir
		}
		images = append(images, StoredImage{
			Name:        name,
			ContentType: ContentType(name),
			Path:        filepath.Join(s.dir, name),
			Size:        info.Size(),
		})
	}
	sort.Slice(images, func(i, j int) bool { return images[i].Name < images[j].Name })
	return images, nil
}
