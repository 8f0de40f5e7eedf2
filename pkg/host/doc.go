// Package host defines what the synchronization engine needs from the
// environment that owns documents, and provides Workspace, a host that
// keeps documents in memory and persists them to a file system.
package host
