package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"unicode/utf8"

	"github.com/goccy/go-json"
)

var errCorruptDocument = errors.New("session file is not a JSON document")

const (
	fileMode = 0o600
	dirMode  = 0o700
)

// File keeps the token in a small JSON document on disk:
//
//	{"authToken": "<token>"}
//
// Writes go through a temp file and rename so a crash never leaves a half
// written document behind.
type File struct {
	mu   sync.Mutex
	path string
	key  string
}

// DefaultFilePath returns <user config dir>/bizz/session.json.
func DefaultFilePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "bizz", "session.json"), nil
}

// NewFile returns a File store at path.
func NewFile(path string, opts ...Option) *File {
	o := buildOptions(opts)
	return &File{path: path, key: o.key}
}

// Path returns the backing file location.
func (f *File) Path() string {
	return f.path
}

func (f *File) Save(_ context.Context, token string) error {
	// JSON would replace invalid bytes and Load would return another token
	if !utf8.ValidString(token) {
		return ErrInvalidToken
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		// an unreadable document is replaced
		doc = map[string]string{}
	}
	doc[f.key] = token
	return f.write(doc)
}

func (f *File) Load(_ context.Context) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if errors.Is(err, errCorruptDocument) {
		// nothing in an unparseable document is usable, drop it
		if rerr := os.Remove(f.path); rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
			return "", false, rerr
		}
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	token, ok := doc[f.key]
	return token, ok, nil
}

func (f *File) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return os.Remove(f.path)
	}

	if _, ok := doc[f.key]; !ok {
		return nil
	}
	delete(doc, f.key)

	if len(doc) == 0 {
		if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	}
	return f.write(doc)
}

// read returns an empty document when the file does not exist.
func (f *File) read() (map[string]string, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}

	doc := map[string]string{}
	if len(raw) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", errCorruptDocument, err)
	}
	return doc, nil
}

func (f *File) write(doc map[string]string) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Chmod(fileMode); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		cleanup()
		return err
	}
	return nil
}
