package cli

import (
	"bytes"
	"context"
	"testing"

	"galaxy-launch/internal/catalog"
	"galaxy-launch/internal/config"
	"galaxy-launch/internal/galaxy"
	"galaxy-launch/internal/logger"
	"galaxy-launch/internal/output"
)

// MockPlatform is an in-memory Galaxy for testing.
type MockPlatform struct {
	// Published maps published workflow ids to names.
	Published map[string]string

	// Owned is the user's workflow list, in platform order.
	Owned []galaxy.WorkflowSummary

	// Calls records every call in order: "summary:<id>", "list", "import:<id>".
	Calls []string

	// ImportCreatesNothing makes imports succeed without adding a copy.
	ImportCreatesNothing bool

	// Err, when set, is returned by every call.
	Err error
}

func (m *MockPlatform) GetWorkflow(ctx context.Context, id string) (*galaxy.WorkflowSummary, error) {
	m.Calls = append(m.Calls, "summary:"+id)
	if m.Err != nil {
		return nil, m.Err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name, ok := m.Published[id]
	if !ok {
		return nil, &galaxy.APIError{Method: "GET", Path: "/api/workflows/" + id, StatusCode: 404, Message: "workflow not found"}
	}
	return &galaxy.WorkflowSummary{ID: id, Name: name}, nil
}

func (m *MockPlatform) ListWorkflows(ctx context.Context) ([]galaxy.WorkflowSummary, error) {
	m.Calls = append(m.Calls, "list")
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]galaxy.WorkflowSummary(nil), m.Owned...), nil
}

func (m *MockPlatform) ImportWorkflow(ctx context.Context, id string) error {
	m.Calls = append(m.Calls, "import:"+id)
	if m.Err != nil {
		return m.Err
	}
	if !m.ImportCreatesNothing {
		m.Owned = append(m.Owned, galaxy.WorkflowSummary{ID: "copy-of-" + id, Name: "imported: " + m.Published[id]})
	}
	return nil
}

// MockClipboard records clipboard writes.
type MockClipboard struct {
	Written []string
	Err     error
}

func (m *MockClipboard) WriteAll(text string) error {
	if m.Err != nil {
		return m.Err
	}
	m.Written = append(m.Written, text)
	return nil
}

// testApp builds an App around mocks and returns it with its output buffer.
func testApp(t *testing.T, platform *MockPlatform, featured ...config.FeaturedWorkflow) (*App, *MockClipboard, *bytes.Buffer) {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Platform.BaseURL = "https://galaxy.example.org"
	cfg.Featured = featured

	cat, err := catalog.FromConfig(featured)
	if err != nil {
		t.Fatalf("failed to build catalog: %v", err)
	}

	buf := &bytes.Buffer{}
	clip := &MockClipboard{}
	app := &App{
		Config:    cfg,
		Catalog:   cat,
		Printer:   output.NewPrinterWithWriter(buf),
		Logger:    logger.Discard(),
		Platform:  platform,
		Clipboard: clip.WriteAll,
	}
	return app, clip, buf
}
