// Package watch tracks which documents reference which source files and
// refreshes them when a source changes.
//
// A Watcher delivers change notifications for single files. The FSNotify
// backend watches the parent directories of those files with fsnotify and
// debounces bursts of events per file. The Coordinator keeps at most one
// live watcher handle per resolved source path, together with the set of
// documents subscribed to it, and calls the refresh function once per
// subscribing document when the source changes.
package watch
