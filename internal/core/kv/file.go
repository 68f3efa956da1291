package kv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	lockPoll  = 10 * time.Millisecond
	lockStale = 30 * time.Second
)

// File keeps one file per key under Dir. The first line holds the version,
// the rest is the value verbatim. Writes go through a temp file and rename,
// and a <key>.lock file created with O_EXCL serializes writers across
// processes sharing the directory. Delete leaves a <key>.gone file holding
// the last version.
type File struct {
	Dir string
	mu  sync.Mutex
}

func NewFile(dir string) (*File, error) {
	if dir == "" {
		return nil, errors.New("kv: file backend needs a directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}
	return &File{Dir: dir}, nil
}

func (f *File) path(key string) string {
	safe := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator {
			return '_'
		}
		return r
	}, key)
	return filepath.Join(f.Dir, safe+".kv")
}

func (f *File) Get(_ context.Context, key string) (Entry, error) {
	return f.read(f.path(key))
}

func (f *File) read(path string) (Entry, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, err
	}
	nl := bytes.IndexByte(b, '\n')
	if nl < 0 {
		return Entry{}, fmt.Errorf("kv: %s: missing version header", path)
	}
	v, err := strconv.ParseInt(string(b[:nl]), 10, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("kv: %s: bad version: %w", path, err)
	}
	return Entry{Value: b[nl+1:], Version: v}, nil
}

func (f *File) Put(ctx context.Context, key string, value []byte, expectVersion int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	path := f.path(key)
	unlock, err := f.lock(ctx, path)
	if err != nil {
		return 0, err
	}
	defer unlock()

	var cur, last int64
	e, err := f.read(path)
	switch {
	case err == nil:
		cur, last = e.Version, e.Version
	case errors.Is(err, ErrNotFound):
		if last, err = f.tombstone(path); err != nil {
			return 0, err
		}
	default:
		return 0, err
	}
	if cur != expectVersion {
		return cur, ErrVersionConflict
	}

	next := last + 1
	tmp, err := os.CreateTemp(f.Dir, ".tmp-*")
	if err != nil {
		return 0, err
	}
	defer os.Remove(tmp.Name())
	var buf bytes.Buffer
	buf.WriteString(strconv.FormatInt(next, 10))
	buf.WriteByte('\n')
	buf.Write(value)
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return 0, err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		return 0, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, err
	}
	return next, nil
}

func (f *File) lock(ctx context.Context, path string) (func(), error) {
	lockPath := path + ".lock"
	for {
		lf, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if err == nil {
			lf.Close()
			return func() { _ = os.Remove(lockPath) }, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, err
		}
		// a writer that crashed mid-Put leaves its lock behind
		if st, serr := os.Stat(lockPath); serr == nil && time.Since(st.ModTime()) > lockStale {
			_ = os.Remove(lockPath)
			continue
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("kv: waiting for %s: %w", lockPath, ctx.Err())
		case <-time.After(lockPoll):
		}
	}
}

func (f *File) tombstone(path string) (int64, error) {
	b, err := os.ReadFile(path + ".gone")
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(strings.TrimSpace(string(b)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("kv: %s.gone: bad version: %w", path, err)
	}
	return v, nil
}

func (f *File) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	path := f.path(key)
	unlock, err := f.lock(ctx, path)
	if err != nil {
		return err
	}
	defer unlock()

	e, err := f.read(path)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(path+".gone", []byte(strconv.FormatInt(e.Version, 10)), 0o644); err != nil {
		return err
	}
	return os.Remove(path)
}

func (f *File) Close() error { return nil }
