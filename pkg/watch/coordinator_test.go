package watch_test

import (
	stderrors "errors"
	"sync"
	"testing"

	"github.com/arthur-debert/snipsync/pkg/testutil"
	"github.com/arthur-debert/snipsync/pkg/watch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type refreshLog struct {
	mu    sync.Mutex
	calls []string
}

func (r *refreshLog) refresh(doc, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, doc+"|"+path)
}

func (r *refreshLog) get() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func TestRegisterKeepsOneLiveHandlePerPath(t *testing.T) {
	fw := testutil.NewFakeWatcher()
	c := watch.NewCoordinator(fw, func(string, string) {})

	c.Register("a.mdx", "/src/x.ts")
	c.Register("a.mdx", "/src/x.ts")
	c.Register("b.mdx", "/src/x.ts")

	assert.Equal(t, 1, fw.LiveCount("/src/x.ts"))
	assert.Equal(t, 2, fw.Disposed())
	assert.Equal(t, []string{"/src/x.ts"}, c.Paths())
	assert.Equal(t, []string{"a.mdx", "b.mdx"}, c.Subscribers("/src/x.ts"))
}

func TestFanInAcrossDocuments(t *testing.T) {
	fw := testutil.NewFakeWatcher()
	log := &refreshLog{}
	c := watch.NewCoordinator(fw, log.refresh)

	c.Register("a.mdx", "/src/x.ts")
	c.Register("b.mdx", "/src/x.ts")
	c.Register("b.mdx", "/src/y.ts")

	fw.Trigger("/src/x.ts")
	assert.Equal(t, []string{"a.mdx|/src/x.ts", "b.mdx|/src/x.ts"}, log.get())

	fw.Trigger("/src/y.ts")
	assert.Equal(t, "b.mdx|/src/y.ts", log.get()[2])
}

func TestRetainDropsStaleSubscriptions(t *testing.T) {
	fw := testutil.NewFakeWatcher()
	c := watch.NewCoordinator(fw, func(string, string) {})

	c.Register("a.mdx", "/src/x.ts")
	c.Register("a.mdx", "/src/y.ts")
	c.Register("b.mdx", "/src/y.ts")

	c.Retain("a.mdx", []string{"/src/y.ts"})
	assert.Equal(t, 0, fw.LiveCount("/src/x.ts"))
	assert.Equal(t, []string{"/src/y.ts"}, c.Paths())
	assert.Equal(t, []string{"/src/y.ts"}, c.DocumentPaths("a.mdx"))

	c.Forget("a.mdx")
	assert.Equal(t, []string{"b.mdx"}, c.Subscribers("/src/y.ts"))
	assert.Equal(t, 1, fw.LiveCount("/src/y.ts"))

	c.Forget("b.mdx")
	assert.Empty(t, c.Paths())
	assert.Empty(t, fw.LivePaths())
}

func TestFailedWatchKeepsSubscription(t *testing.T) {
	fw := testutil.NewFakeWatcher()
	c := watch.NewCoordinator(fw, func(string, string) {})

	c.Register("a.mdx", "/src/x.ts")
	fw.FailPaths["/src/x.ts"] = stderrors.New("boom")
	c.Register("a.mdx", "/src/x.ts")

	assert.Equal(t, 1, fw.LiveCount("/src/x.ts"))
	assert.Equal(t, []string{"a.mdx"}, c.Subscribers("/src/x.ts"))

	fw.FailPaths["/missing/dir/z.ts"] = stderrors.New("no dir")
	c.Register("a.mdx", "/missing/dir/z.ts")
	assert.Contains(t, c.Paths(), "/missing/dir/z.ts")
	assert.Equal(t, 0, fw.LiveCount("/missing/dir/z.ts"))

	c.Forget("a.mdx")
	assert.Empty(t, c.Paths())
}

func TestDisposeAll(t *testing.T) {
	fw := testutil.NewFakeWatcher()
	log := &refreshLog{}
	c := watch.NewCoordinator(fw, log.refresh)

	c.Register("a.mdx", "/src/x.ts")
	c.Register("b.mdx", "/src/y.ts")
	c.DisposeAll()

	assert.Empty(t, c.Paths())
	assert.Empty(t, fw.LivePaths())
	fw.Trigger("/src/x.ts")
	assert.Empty(t, log.get())
}

func TestRefreshMayRegisterAgain(t *testing.T) {
	fw := testutil.NewFakeWatcher()
	var c *watch.Coordinator
	calls := 0
	c = watch.NewCoordinator(fw, func(doc, path string) {
		calls++
		c.Register(doc, path)
	})

	c.Register("a.mdx", "/src/x.ts")
	fw.Trigger("/src/x.ts")

	require.Equal(t, 1, calls)
	assert.Equal(t, 1, fw.LiveCount("/src/x.ts"))
}
