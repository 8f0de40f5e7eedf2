package types

import "io/fs"

// ReadFS is the read side of FS: what source resolution, discovery and
// the check command need.
type ReadFS interface {
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	ReadDir(name string) ([]fs.DirEntry, error)
}

// FS is the file system the engine reads sources from and the workspace
// host reads and writes documents through. Paths are absolute.
type FS interface {
	ReadFS
	WriteFile(name string, data []byte, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error
	Remove(name string) error
}
