package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/always-cache/fwserve/resource"
)

// DirStore serves resources from a file tree whose top-level directories are
// the resource categories. Directories are never found.
type DirStore struct {
	fsys fs.FS
}

func NewDirStore(fsys fs.FS) DirStore {
	return DirStore{fsys: fsys}
}

// OpenDir returns a DirStore for the directory at root.
func OpenDir(root string) (DirStore, error) {
	info, err := os.Stat(root)
	if err != nil {
		return DirStore{}, fmt.Errorf("resource directory: %w", err)
	}
	if !info.IsDir() {
		return DirStore{}, fmt.Errorf("resource directory: %s is not a directory", root)
	}
	return NewDirStore(os.DirFS(root)), nil
}

// FS returns the underlying file tree.
func (d DirStore) FS() fs.FS {
	return d.fsys
}

func (d DirStore) Lookup(_ context.Context, name string) (resource.Descriptor, error) {
	if !fs.ValidPath(name) || name == "." {
		return resource.Descriptor{}, resource.NotFound(name)
	}
	info, err := fs.Stat(d.fsys, name)
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
		return resource.Descriptor{}, resource.NotFound(name)
	} else if err != nil {
		return resource.Descriptor{}, fmt.Errorf("stat %s: %w", name, err)
	}
	if info.IsDir() {
		return resource.Descriptor{}, resource.NotFound(name)
	}
	return resource.Describe(resource.Descriptor{
		Name:     name,
		Size:     info.Size(),
		Modified: info.ModTime(),
		Version:  fmt.Sprintf("%x-%x", info.ModTime().Unix(), info.Size()),
	}), nil
}

func (d DirStore) Open(_ context.Context, desc resource.Descriptor) (io.ReadCloser, error) {
	f, err := d.fsys.Open(desc.Name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, resource.NotFound(desc.Name)
	}
	return f, err
}
