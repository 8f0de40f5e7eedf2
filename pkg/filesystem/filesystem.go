package filesystem

import (
	"io/fs"

	"github.com/arthur-debert/snipsync/pkg/types"
	"github.com/spf13/afero"
)

// FS adapts an afero.Fs to types.FS. Documents and snippet sources are
// read and written whole, so the adapter only needs afero's helpers.
type FS struct {
	base afero.Fs
}

var _ types.FS = (*FS)(nil)

// New wraps base.
func New(base afero.Fs) *FS {
	return &FS{base: base}
}

// NewOS returns the file system of the running process.
func NewOS() *FS {
	return New(afero.NewOsFs())
}

// NewMemory returns an empty in-memory file system.
func NewMemory() *FS {
	return New(afero.NewMemMapFs())
}

func (f *FS) Stat(name string) (fs.FileInfo, error) {
	return f.base.Stat(name)
}

// ReadFile fails on directories, which afero's MemMapFs would otherwise
// read as empty files.
func (f *FS) ReadFile(name string) ([]byte, error) {
	info, err := f.base.Stat(name)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrInvalid}
	}
	return afero.ReadFile(f.base, name)
}

// WriteFile replaces the content of name. An existing file keeps its
// permission bits; perm only applies to new files.
func (f *FS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if info, err := f.base.Stat(name); err == nil && info.Mode().IsRegular() {
		perm = info.Mode().Perm()
	}
	return afero.WriteFile(f.base, name, data, perm)
}

func (f *FS) MkdirAll(path string, perm fs.FileMode) error {
	return f.base.MkdirAll(path, perm)
}

// ReadDir returns the entries of name sorted by file name.
func (f *FS) ReadDir(name string) ([]fs.DirEntry, error) {
	infos, err := afero.ReadDir(f.base, name)
	if err != nil {
		return nil, err
	}
	entries := make([]fs.DirEntry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, fs.FileInfoToDirEntry(info))
	}
	return entries, nil
}

func (f *FS) Remove(name string) error {
	return f.base.Remove(name)
}
