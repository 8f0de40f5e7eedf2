package watch

import "errors"

// ErrWatcherClosed is returned by Watch after Close.
var ErrWatcherClosed = errors.New("watcher is closed")

// Callback receives the absolute path of a changed file. It may be invoked
// from any goroutine.
type Callback func(path string)

// Handle is one live watch registration.
type Handle interface {
	// Dispose ends the registration. Calling it more than once is a no-op.
	Dispose() error
}

// Watcher delivers change notifications for individual files.
type Watcher interface {
	// Watch starts watching path. The file itself need not exist yet, but
	// its directory must.
	Watch(path string, cb Callback) (Handle, error)
	// Close releases every registration. No callback fires after Close
	// returns.
	Close() error
}

// Nop returns a Watcher that accepts registrations and never fires. It
// serves one-shot runs that synchronize documents without following them.
func Nop() Watcher {
	return nopWatcher{}
}

type nopWatcher struct{}

func (nopWatcher) Watch(string, Callback) (Handle, error) { return nopHandle{}, nil }
func (nopWatcher) Close() error                           { return nil }

type nopHandle struct{}

func (nopHandle) Dispose() error { return nil }
