package engine_test

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/arthur-debert/snipsync/pkg/engine"
	"github.com/arthur-debert/snipsync/pkg/errors"
	"github.com/arthur-debert/snipsync/pkg/fence"
	"github.com/arthur-debert/snipsync/pkg/host"
	"github.com/arthur-debert/snipsync/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const bareDoc = "# A\n\n```ts snippetPath=\"a.ts\" title=\"a\"\n```\n"

func synced(content string) string {
	return "# A\n\n```ts snippetPath=\"a.ts\" title=\"a\"\n" +
		fence.BeginSentinel + "\n" + content + "\n" + fence.EndSentinel + "\n```\n"
}

// countingHost counts document reads so tests can tell how many passes ran.
type countingHost struct {
	*host.Workspace
	reads atomic.Int32
}

func (c *countingHost) Document(ctx context.Context, id string) (host.Document, error) {
	c.reads.Add(1)
	return c.Workspace.Document(ctx, id)
}

type fixture struct {
	t      *testing.T
	env    *testutil.TestEnvironment
	ws     *host.Workspace
	host   *countingHost
	srcFW  *testutil.FakeWatcher
	docFW  *testutil.FakeWatcher
	eng    *engine.Engine
	mu     sync.Mutex
	notify []string
}

func newFixture(t *testing.T, opts engine.Options) *fixture {
	t.Helper()
	f := &fixture{
		t:     t,
		env:   testutil.NewTestEnvironment(t),
		srcFW: testutil.NewFakeWatcher(),
		docFW: testutil.NewFakeWatcher(),
	}
	f.ws = host.NewWorkspace(f.env.FS)
	f.ws.SetNotifier(func(msg string) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.notify = append(f.notify, msg)
	})
	f.host = &countingHost{Workspace: f.ws}
	f.eng = engine.New(f.host, f.env.FS, f.env.Paths, f.srcFW, opts)
	f.ws.Follow(f.docFW, f.eng)
	return f
}

func (f *fixture) open(rel, content string) string {
	f.t.Helper()
	id := f.env.WriteDoc(rel, content)
	require.NoError(f.t, f.ws.Open(id))
	return id
}

func (f *fixture) notes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.notify...)
}

func TestActivateWithoutActiveDocument(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	h := &testutil.MockHost{}
	h.On("ActiveDocument", mock.Anything).Return("", false)

	eng := engine.New(h, env.FS, env.Paths, testutil.NewFakeWatcher(), engine.Options{})
	err := eng.Activate(context.Background())

	assert.True(t, errors.IsErrorCode(err, errors.ErrNoActive))
	assert.False(t, eng.Active())
	assert.Empty(t, eng.WatchedPaths())
	h.AssertExpectations(t)
	h.AssertNotCalled(t, "Notify", mock.Anything)
	h.AssertNotCalled(t, "Document", mock.Anything, mock.Anything)
}

func TestActivateSynchronizesActiveDocument(t *testing.T) {
	f := newFixture(t, engine.Options{})
	src := f.env.WriteSource("a.ts", "export const a = 1;   \n")
	id := f.open("docs/a.mdx", bareDoc)

	require.NoError(t, f.eng.Activate(context.Background()))

	assert.Equal(t, synced("export const a = 1;"), f.env.ReadFile(id))
	assert.Equal(t, []string{engine.MsgActivated}, f.notes())
	assert.Equal(t, []string{src}, f.eng.WatchedPaths())
	assert.Equal(t, []string{id}, f.eng.Subscribers(src))
	assert.Empty(t, f.ws.Diagnostics().Get(id))
}

func TestOwnSaveDoesNotTriggerAnotherPass(t *testing.T) {
	f := newFixture(t, engine.Options{})
	f.env.WriteSource("a.ts", "a")
	f.open("docs/a.mdx", bareDoc)

	require.NoError(t, f.eng.Activate(context.Background()))
	assert.Equal(t, int32(1), f.host.reads.Load())
}

func TestSecondPassIsNoop(t *testing.T) {
	f := newFixture(t, engine.Options{})
	f.env.WriteSource("a.ts", "a")
	id := f.open("docs/a.mdx", bareDoc)
	ctx := context.Background()

	require.NoError(t, f.eng.Activate(ctx))
	first := f.env.ReadFile(id)

	pass, err := f.eng.SyncDocument(ctx, id)
	require.NoError(t, err)
	assert.False(t, pass.Changed())
	assert.Equal(t, first, f.env.ReadFile(id))
}

func TestMissingReference(t *testing.T) {
	f := newFixture(t, engine.Options{})
	id := f.open("docs/a.mdx", "```ts snippetPath=\"nope.ts\"\nstale\n```\n")

	require.NoError(t, f.eng.Activate(context.Background()))

	diags := f.ws.Diagnostics().Get(id)
	require.Len(t, diags, 1)
	assert.Equal(t, errors.ErrFileNotFound, diags[0].Code)
	assert.Contains(t, diags[0].Message, "/ws/codesnippets/src/nope.ts")
	assert.Equal(t, 0, diags[0].Range.Start.Line)
	assert.Equal(t, 1, diags[0].Range.End.Line)
	assert.Equal(t, "```ts snippetPath=\"nope.ts\"\n```\n", f.env.ReadFile(id))

	// Broken references are watched so that creating the file fixes them.
	assert.Equal(t, []string{"/ws/codesnippets/src/nope.ts"}, f.eng.WatchedPaths())

	f.env.WriteSource("nope.ts", "fixed")
	f.srcFW.Trigger("/ws/codesnippets/src/nope.ts")
	assert.Contains(t, f.env.ReadFile(id), "fixed")
	assert.Empty(t, f.ws.Diagnostics().Get(id))
}

func TestSameLineFence(t *testing.T) {
	f := newFixture(t, engine.Options{})
	f.env.WriteSource("a.ts", "a")
	doc := "```ts snippetPath=\"a.ts\"```\n"
	id := f.open("docs/a.mdx", doc)

	require.NoError(t, f.eng.Activate(context.Background()))

	diags := f.ws.Diagnostics().Get(id)
	require.Len(t, diags, 1)
	assert.Equal(t, errors.ErrSameLineFence, diags[0].Code)
	assert.Equal(t, doc, f.env.ReadFile(id))
	assert.Empty(t, f.eng.WatchedPaths())
}

func TestUnmatchedMarkerDegradesBlock(t *testing.T) {
	f := newFixture(t, engine.Options{})
	f.env.WriteSource("a.ts", "a")
	id := f.open("docs/a.mdx", bareDoc)
	ctx := context.Background()
	require.NoError(t, f.eng.Activate(ctx))

	f.env.WriteSource("a.ts", "x\n//[[start]]\ny\n")
	f.srcFW.Trigger("/ws/codesnippets/src/a.ts")

	assert.Equal(t, bareDoc, f.env.ReadFile(id))
	diags := f.ws.Diagnostics().Get(id)
	require.Len(t, diags, 1)
	assert.Equal(t, errors.ErrUnmatchedOpen, diags[0].Code)
}

func TestWatchFanInAndFanOut(t *testing.T) {
	f := newFixture(t, engine.Options{})
	src := f.env.WriteSource("a.ts", "v1")
	ctx := context.Background()

	one := f.open("docs/one.mdx", bareDoc)
	two := f.open("docs/two.mdx", "```ts snippetPath=\"a.ts\"\n```\ntext\n```js snippetPath=\"a.ts\"\n```\n")

	require.NoError(t, f.eng.Activate(ctx))
	require.NoError(t, f.ws.SetActive(ctx, two))
	assert.Equal(t, []string{one, two}, f.eng.Subscribers(src))
	assert.Equal(t, 1, f.srcFW.LiveCount(src))

	f.env.WriteSource("a.ts", "v2")
	f.srcFW.Trigger(src)

	assert.Equal(t, synced("v2"), f.env.ReadFile(one))
	got := f.env.ReadFile(two)
	assert.Equal(t, 2, strings.Count(got, "\nv2\n"))
	assert.NotContains(t, got, "v1")
}

func TestRefreshAfterReferenceRemoved(t *testing.T) {
	f := newFixture(t, engine.Options{})
	src := f.env.WriteSource("a.ts", "v1")
	id := f.open("docs/a.mdx", bareDoc)
	require.NoError(t, f.eng.Activate(context.Background()))

	// The document is edited outside the engine and no longer references a.ts.
	f.env.WriteDoc("docs/a.mdx", "# A\n\nno blocks\n")
	f.docFW.Trigger(id)

	assert.Empty(t, f.eng.Subscribers(src))
	assert.Empty(t, f.eng.WatchedPaths())

	// A late event for the old source is a silent no-op.
	f.srcFW.Trigger(src)
	assert.Equal(t, "# A\n\nno blocks\n", f.env.ReadFile(id))
}

func TestExternalSaveResynchronizes(t *testing.T) {
	f := newFixture(t, engine.Options{})
	f.env.WriteSource("a.ts", "a")
	f.env.WriteSource("b.ts", "b")
	id := f.open("docs/a.mdx", bareDoc)
	require.NoError(t, f.eng.Activate(context.Background()))

	edited := f.env.ReadFile(id) + "\n```ts snippetPath=\"b.ts\"\n```\n"
	f.env.WriteDoc("docs/a.mdx", edited)
	f.docFW.Trigger(id)

	got := f.env.ReadFile(id)
	assert.Contains(t, got, fence.BeginSentinel+"\nb\n"+fence.EndSentinel)
	assert.Len(t, f.eng.WatchedPaths(), 2)
}

func TestDeactivateRestoresBareReferences(t *testing.T) {
	f := newFixture(t, engine.Options{CleanupOnDeactivate: true})
	f.env.WriteSource("a.ts", "a")
	id := f.open("docs/a.mdx", bareDoc)
	other := f.open("docs/b.mdx", "```ts snippetPath=\"missing.ts\"\n```\n")
	ctx := context.Background()

	require.NoError(t, f.eng.Activate(ctx))
	require.NoError(t, f.ws.SetActive(ctx, other))
	require.NotEmpty(t, f.ws.Diagnostics().Get(other))

	require.NoError(t, f.eng.Deactivate(ctx))

	assert.Equal(t, bareDoc, f.env.ReadFile(id))
	assert.False(t, fence.HasInjectedCode(f.env.ReadFile(id)))
	assert.Empty(t, f.eng.WatchedPaths())
	assert.Empty(t, f.ws.Diagnostics().All())
	assert.Empty(t, f.srcFW.LivePaths())

	require.NoError(t, f.eng.Deactivate(ctx))
	assert.Equal(t, []string{engine.MsgActivated, engine.MsgDeactivated, engine.MsgAlreadyDeactivated}, f.notes())
}

func TestDeactivateKeepsContentWhenCleanupDisabled(t *testing.T) {
	f := newFixture(t, engine.Options{})
	f.env.WriteSource("a.ts", "a")
	id := f.open("docs/a.mdx", bareDoc)
	ctx := context.Background()

	require.NoError(t, f.eng.Activate(ctx))
	require.NoError(t, f.eng.Deactivate(ctx))
	assert.Equal(t, synced("a"), f.env.ReadFile(id))
}

func TestInactiveEngineIgnoresEvents(t *testing.T) {
	f := newFixture(t, engine.Options{})
	src := f.env.WriteSource("a.ts", "a")
	id := f.open("docs/a.mdx", bareDoc)
	ctx := context.Background()

	f.eng.HandleActiveChanged(ctx, id)
	f.eng.HandleSaved(ctx, id)
	f.eng.HandleFilesDeleted(ctx, []string{src})
	require.NoError(t, f.eng.ShowInlineSnippets(ctx))

	assert.Equal(t, bareDoc, f.env.ReadFile(id))
	assert.Equal(t, int32(0), f.host.reads.Load())
}

func TestNonDocumentsAreIgnored(t *testing.T) {
	f := newFixture(t, engine.Options{})
	f.env.WriteSource("a.ts", "a")
	id := f.open("docs/a.md", bareDoc)

	require.NoError(t, f.eng.Activate(context.Background()))
	assert.Equal(t, bareDoc, f.env.ReadFile(id))

	g := newFixture(t, engine.Options{IsDocument: func(id string) bool { return strings.HasSuffix(id, ".md") }})
	g.env.WriteSource("a.ts", "a")
	id = g.open("docs/a.md", bareDoc)
	require.NoError(t, g.eng.Activate(context.Background()))
	assert.Equal(t, synced("a"), g.env.ReadFile(id))
}

func TestHandleFilesDeleted(t *testing.T) {
	t.Run("deleted_source_degrades_blocks", func(t *testing.T) {
		f := newFixture(t, engine.Options{})
		src := f.env.WriteSource("a.ts", "a")
		id := f.open("docs/a.mdx", bareDoc)
		ctx := context.Background()
		require.NoError(t, f.eng.Activate(ctx))

		f.env.RemoveSource("a.ts")
		f.eng.HandleFilesDeleted(ctx, []string{src})

		assert.Equal(t, bareDoc, f.env.ReadFile(id))
		diags := f.ws.Diagnostics().Get(id)
		require.Len(t, diags, 1)
		assert.Equal(t, errors.ErrFileNotFound, diags[0].Code)
	})

	t.Run("deleted_document_is_forgotten", func(t *testing.T) {
		f := newFixture(t, engine.Options{})
		src := f.env.WriteSource("a.ts", "a")
		id := f.open("docs/a.mdx", bareDoc)
		require.NoError(t, f.eng.Activate(context.Background()))

		require.NoError(t, f.env.FS.Remove(id))
		f.docFW.Trigger(id)

		assert.Empty(t, f.eng.Subscribers(src))
		ids, err := f.ws.VisibleDocuments(context.Background())
		require.NoError(t, err)
		assert.Empty(t, ids)
	})
}

func TestLinks(t *testing.T) {
	f := newFixture(t, engine.Options{})
	src := f.env.WriteSource("a.ts", "a")
	id := f.open("docs/a.mdx", "x\n```ts snippetPath=\"a.ts\"\n```\n```ts snippetPath=\"nope.ts\"\n```\n")

	links, err := f.eng.Links(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "a.ts", links[0].Ref)
	assert.Equal(t, src, links[0].Target)
	assert.Equal(t, 1, links[0].Range.Start.Line)
	assert.Equal(t, 6, links[0].Range.Start.Column)
	assert.Equal(t, 6+len(`snippetPath="a.ts"`), links[0].Range.End.Column)
}

func TestClean(t *testing.T) {
	f := newFixture(t, engine.Options{})
	f.env.WriteSource("a.ts", "a")
	id := f.open("docs/a.mdx", bareDoc)
	ctx := context.Background()

	_, err := f.eng.SyncDocument(ctx, id)
	require.NoError(t, err)

	n, err := f.eng.Clean(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, bareDoc, f.env.ReadFile(id))

	n, err = f.eng.Clean(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestStaleEditsAreRecomputed(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.WriteSource("a.ts", "a")
	h := &testutil.MockHost{}
	ctx := context.Background()
	id := "/ws/docs/a.mdx"

	h.On("Document", ctx, id).Return(host.Document{ID: id, Text: bareDoc, Version: 1}, nil).Once()
	h.On("Document", ctx, id).Return(host.Document{ID: id, Text: bareDoc, Version: 2}, nil).Once()
	h.On("ApplyEdits", ctx, id, 1, mock.Anything).Return(errors.New(errors.ErrStale, "stale")).Once()
	h.On("ApplyEdits", ctx, id, 2, mock.Anything).Return(nil).Once()
	h.On("Save", ctx, id).Return(nil).Once()
	h.On("PublishDiagnostics", id, mock.Anything).Return()

	eng := engine.New(h, env.FS, env.Paths, testutil.NewFakeWatcher(), engine.Options{})
	pass, err := eng.SyncDocument(ctx, id)
	require.NoError(t, err)
	assert.True(t, pass.Changed())
	h.AssertExpectations(t)
}

func TestSaveFailureIsReported(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.WriteSource("a.ts", "a")
	h := &testutil.MockHost{}
	ctx := context.Background()
	id := "/ws/docs/a.mdx"

	h.On("Document", ctx, id).Return(host.Document{ID: id, Text: bareDoc, Version: 1}, nil)
	h.On("ApplyEdits", ctx, id, 1, mock.Anything).Return(nil)
	h.On("Save", ctx, id).Return(errors.New(errors.ErrFileWrite, "disk full"))
	h.On("PublishDiagnostics", id, mock.Anything).Return()

	eng := engine.New(h, env.FS, env.Paths, testutil.NewFakeWatcher(), engine.Options{})
	_, err := eng.SyncDocument(ctx, id)
	assert.True(t, errors.IsErrorCode(err, errors.ErrHost))
	h.AssertNumberOfCalls(t, "Save", 1)
}

func TestConcurrentPasses(t *testing.T) {
	f := newFixture(t, engine.Options{})
	src := f.env.WriteSource("a.ts", "a")
	ctx := context.Background()
	ids := []string{
		f.open("docs/one.mdx", bareDoc),
		f.open("docs/two.mdx", bareDoc),
		f.open("docs/three.mdx", bareDoc),
	}
	require.NoError(t, f.eng.Activate(ctx))

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			switch i % 3 {
			case 0:
				_, _ = f.eng.SyncDocument(ctx, ids[i%len(ids)])
			case 1:
				f.srcFW.Trigger(src)
			default:
				f.eng.HandleActiveChanged(ctx, ids[i%len(ids)])
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		_, err := f.eng.SyncDocument(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, synced("a"), f.env.ReadFile(id))
	}
}
