// Package engine keeps managed blocks of documents in sync with the source
// files they reference.
//
// An Engine owns everything that outlives a single pass: the watch
// coordinator, the per-document locks, the published diagnostics and the
// own-save gate. Hosts deliver events to its Handle methods from any
// goroutine; passes over the same document are serialised and passes over
// different documents may run concurrently.
//
// Every write the engine makes goes through one mutex covering "apply
// edits + save", with a flag raised for the duration of the save so that
// the save event the host reports back is not mistaken for a user save.
package engine
