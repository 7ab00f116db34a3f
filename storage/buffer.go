package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// DirName is the name of the subdirectory created inside the storage root to
// hold backing files.
const DirName = "sysmail"

// filePattern is handed to os.CreateTemp for backing files.
const filePattern = "storage-*"

// ErrCleared is returned by Capture when the buffer could not be reopened
// after the callback ran. The buffer must be cleared before further use.
var ErrCleared = errors.New("storage buffer backing file is unavailable")

// state is either *memoryState or *spilledState. A Buffer moves from the
// former to the latter at most once between calls to Clear.
type state interface {
	sink() io.Writer
}

type memoryState struct {
	buf bytes.Buffer
}

func (s *memoryState) sink() io.Writer { return &s.buf }

type spilledState struct {
	path string
	file *os.File // nil while a Capture callback holds the file
}

func (s *spilledState) sink() io.Writer {
	if s.file == nil {
		return nil
	}
	return s.file
}

// Buffer is a write sink for a message under construction. It starts out in
// memory. The first call to Capture promotes it to a backing file in a
// subdirectory of the storage root so that an external process can append
// bytes to it directly. The already written content becomes the first bytes
// of the file.
//
// Every method takes the same lock, so at most one writer proceeds at a time.
// The callback given to Capture runs while the lock is held.
//
// A Buffer must be released with Clear, which deletes the backing file.
type Buffer struct {
	mu     sync.Mutex
	root   string
	lbr    string
	st     state
	spools []string
}

// Option configures a Buffer.
type Option func(*Buffer)

// WithBreak sets the line break appended by Writer.WriteLine. The default is
// "\n".
func WithBreak(lbr string) Option {
	return func(b *Buffer) {
		if lbr != "" {
			b.lbr = lbr
		}
	}
}

// New returns an empty in-memory Buffer. Backing files will be created under
// root/DirName. When root is empty, os.TempDir() is used.
func New(root string, opts ...Option) *Buffer {
	if root == "" {
		root = os.TempDir()
	}

	b := &Buffer{
		root: root,
		lbr:  "\n",
		st:   &memoryState{},
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Dir returns the directory that holds backing files for this buffer.
func (b *Buffer) Dir() string {
	return filepath.Join(b.root, DirName)
}

// Break returns the line break used by this buffer.
func (b *Buffer) Break() string {
	return b.lbr
}

// Write calls fn with a Writer for whichever sink is active. The write lands
// in memory or in the backing file, depending on the current mode.
func (b *Buffer) Write(fn func(w *Writer) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	sink := b.st.sink()
	if sink == nil {
		return ErrCleared
	}

	return fn(&Writer{w: sink, lbr: b.lbr})
}

// Capture promotes the buffer to a backing file if it is not already spilled,
// closes the file and calls fn with its path. The callback may append to the
// file by any means. Afterward the file is reopened in append mode for
// further writes. The error returned by fn is returned.
func (b *Buffer) Capture(fn func(path string) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	sp, err := b.promote()
	if err != nil {
		return err
	}

	if err := sp.file.Close(); err != nil {
		return fmt.Errorf("close backing file: %w", err)
	}
	sp.file = nil

	fnErr := fn(sp.path)

	f, err := os.OpenFile(sp.path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return errors.Join(fnErr, ErrCleared, err)
	}
	sp.file = f

	return fnErr
}

// promote switches to spilled mode. The caller must hold the lock.
func (b *Buffer) promote() (*spilledState, error) {
	switch s := b.st.(type) {
	case *spilledState:
		if s.file == nil {
			return nil, ErrCleared
		}
		return s, nil
	case *memoryState:
		f, err := b.createFile(filePattern)
		if err != nil {
			return nil, err
		}

		if _, err := f.Write(s.buf.Bytes()); err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
			return nil, fmt.Errorf("write backing file: %w", err)
		}

		path := f.Name()
		if err := f.Close(); err != nil {
			_ = os.Remove(path)
			return nil, fmt.Errorf("close backing file: %w", err)
		}

		f, err = os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
		if err != nil {
			_ = os.Remove(path)
			return nil, fmt.Errorf("reopen backing file: %w", err)
		}

		sp := &spilledState{path: path, file: f}
		b.st = sp
		return sp, nil
	}
	panic("unknown storage state")
}

func (b *Buffer) createFile(pattern string) (*os.File, error) {
	dir := b.Dir()
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return nil, fmt.Errorf("create backing file: %w", err)
	}

	return f, nil
}

// Spilled returns true once the buffer has been promoted to a backing file.
func (b *Buffer) Spilled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, spilled := b.st.(*spilledState)
	return spilled
}

// Path returns the path of the backing file or the empty string while the
// buffer is still in memory.
func (b *Buffer) Path() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if sp, spilled := b.st.(*spilledState); spilled {
		return sp.path
	}
	return ""
}

// Read returns all the content accumulated so far.
func (b *Buffer) Read() ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch s := b.st.(type) {
	case *memoryState:
		return bytes.Clone(s.buf.Bytes()), nil
	case *spilledState:
		return os.ReadFile(s.path)
	}
	panic("unknown storage state")
}

// Reader returns a reader over the content accumulated so far. For a spilled
// buffer, this opens the backing file. The caller must close it.
func (b *Buffer) Reader() (io.ReadCloser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch s := b.st.(type) {
	case *memoryState:
		return io.NopCloser(bytes.NewReader(bytes.Clone(s.buf.Bytes()))), nil
	case *spilledState:
		return os.Open(s.path)
	}
	panic("unknown storage state")
}

// Spool copies r into a new file next to the backing file and returns its
// path. This is for content that an external process must read from disk.
// Spooled files are deleted by Clear.
func (b *Buffer) Spool(r io.Reader) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	f, err := b.createFile("spool-*")
	if err != nil {
		return "", err
	}
	b.spools = append(b.spools, f.Name())

	_, err = io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("spool attachment: %w", err)
	}

	return f.Name(), nil
}

// Clear releases the buffer. The backing file and any spooled files are
// deleted and the buffer is reset to an empty in-memory buffer. It is safe to
// call Clear more than once.
func (b *Buffer) Clear() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var errs []error
	if sp, spilled := b.st.(*spilledState); spilled {
		if sp.file != nil {
			errs = append(errs, sp.file.Close())
		}
		errs = append(errs, remove(sp.path))
	}

	for _, p := range b.spools {
		errs = append(errs, remove(p))
	}

	b.spools = nil
	b.st = &memoryState{}

	return errors.Join(errs...)
}

func remove(path string) error {
	err := os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
