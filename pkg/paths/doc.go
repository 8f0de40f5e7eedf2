// Package paths provides workspace discovery and snippet reference
// resolution for snipsync.
//
// The workspace root is found, in order, from an explicit argument, the
// SNIPSYNC_WORKSPACE environment variable, the nearest parent directory
// holding a .snipsync.toml file, the enclosing git repository, and finally
// the current directory. Snippet references are resolved against a fixed
// subdirectory of the workspace (codesnippets/src unless configured).
package paths
