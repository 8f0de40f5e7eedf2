package testutil

import (
	"context"

	"github.com/arthur-debert/snipsync/pkg/diagnostics"
	"github.com/arthur-debert/snipsync/pkg/host"
	"github.com/arthur-debert/snipsync/pkg/textdoc"
	"github.com/stretchr/testify/mock"
)

// MockHost is a testify mock of host.Host.
type MockHost struct {
	mock.Mock
}

var _ host.Host = (*MockHost)(nil)

func (m *MockHost) Document(ctx context.Context, id string) (host.Document, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(host.Document), args.Error(1)
}

func (m *MockHost) ApplyEdits(ctx context.Context, id string, version int, edits []textdoc.Edit) error {
	args := m.Called(ctx, id, version, edits)
	return args.Error(0)
}

func (m *MockHost) Save(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockHost) VisibleDocuments(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

func (m *MockHost) ActiveDocument(ctx context.Context) (string, bool) {
	args := m.Called(ctx)
	return args.String(0), args.Bool(1)
}

func (m *MockHost) PublishDiagnostics(id string, diags []diagnostics.Diagnostic) {
	m.Called(id, diags)
}

func (m *MockHost) Notify(msg string) {
	m.Called(msg)
}
