package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/vibecraft/cadbook/internal/core/domain"
	"github.com/vibecraft/cadbook/internal/core/ports/driven"
	"github.com/vibecraft/cadbook/internal/core/ports/driving"
)

// mockDiscoverer returns a fixed list of documents.
type mockDiscoverer struct {
	docs  []domain.SourceDocument
	err   error
	roots []string
}

func (m *mockDiscoverer) Discover(_ context.Context, root string) ([]domain.SourceDocument, error) {
	m.roots = append(m.roots, root)
	if m.err != nil {
		return nil, m.err
	}
	return append([]domain.SourceDocument(nil), m.docs...), nil
}

// mockExtractor writes a record for every source unless told otherwise.
type mockExtractor struct {
	mu    sync.Mutex
	calls []string

	// behave overrides the default behaviour for one file name.
	behave func(src domain.SourceDocument, jsonPath string) (*driven.AdapterRun, error)
}

func (m *mockExtractor) Extract(
	_ context.Context,
	src domain.SourceDocument,
	jsonPath string,
) (*driven.AdapterRun, error) {
	m.mu.Lock()
	m.calls = append(m.calls, src.Path)
	m.mu.Unlock()

	if m.behave != nil {
		return m.behave(src, jsonPath)
	}
	if err := os.WriteFile(jsonPath, []byte(`{"filename":"`+src.Filename()+`","parts":[]}`), 0o644); err != nil {
		return nil, err
	}
	return &driven.AdapterRun{Reported: true}, nil
}

func (m *mockExtractor) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// mockRecordExtractor adds record decoding to mockExtractor.
type mockRecordExtractor struct {
	mockExtractor
	record *domain.ExtractionRecord
}

func (m *mockRecordExtractor) ReadRecord(_ string) (*domain.ExtractionRecord, error) {
	return m.record, nil
}

// mockGenerator writes a Markdown file unless told otherwise.
type mockGenerator struct {
	mu    sync.Mutex
	calls []string

	behave func(jsonPath, mdPath string) (*driven.AdapterRun, error)
}

func (m *mockGenerator) Generate(_ context.Context, jsonPath, mdPath string) (*driven.AdapterRun, error) {
	m.mu.Lock()
	m.calls = append(m.calls, jsonPath)
	m.mu.Unlock()

	if m.behave != nil {
		return m.behave(jsonPath, mdPath)
	}
	title := strings.TrimSuffix(filepath.Base(mdPath), domain.DefaultInstructionSuffix)
	if err := os.WriteFile(mdPath, []byte("# "+title+"\n\nStep 1.\n"), 0o644); err != nil {
		return nil, err
	}
	return &driven.AdapterRun{Reported: true}, nil
}

func (m *mockGenerator) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// recordingObserver captures batch callbacks.
type recordingObserver struct {
	mu       sync.Mutex
	started  int
	total    int
	files    []int
	finished []domain.FileOutcome
	result   *domain.BatchResult
}

func (o *recordingObserver) BatchStarted(_ string, total int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.started++
	o.total = total
}

func (o *recordingObserver) FileStarted(index, _ int, _ domain.SourceDocument) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.files = append(o.files, index)
}

func (o *recordingObserver) FileFinished(outcome domain.FileOutcome, _ int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.finished = append(o.finished, outcome)
}

func (o *recordingObserver) BatchFinished(result *domain.BatchResult) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.result = result
}

var _ driving.BatchObserver = (*recordingObserver)(nil)

// mockInstructionStore serves instruction files from memory.
type mockInstructionStore struct {
	docs     []domain.InstructionDocument
	contents map[string]*driven.InstructionContent
	listErr  error
}

func (m *mockInstructionStore) List(_ context.Context, _, _ string) ([]domain.InstructionDocument, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]domain.InstructionDocument(nil), m.docs...), nil
}

func (m *mockInstructionStore) Read(_ context.Context, path string) (*driven.InstructionContent, error) {
	content, ok := m.contents[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return content, nil
}

// add registers a document named name with the given body.
func (m *mockInstructionStore) add(dir, name, body string) {
	if m.contents == nil {
		m.contents = make(map[string]*driven.InstructionContent)
	}
	path := filepath.Join(dir, name)
	title := domain.TitleFromFilename(name, domain.DefaultInstructionSuffix)
	m.docs = append(m.docs, domain.InstructionDocument{
		Path:   path,
		Name:   name,
		Title:  title,
		Anchor: domain.AnchorFromTitle(title),
	})
	m.contents[path] = &driven.InstructionContent{Body: body}
}

// mockHandbookWriter keeps written handbooks in memory.
type mockHandbookWriter struct {
	mu      sync.Mutex
	written map[string]string
	writes  int
	err     error
}

func (m *mockHandbookWriter) WriteHandbook(_ context.Context, path string, content []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.written == nil {
		m.written = make(map[string]string)
	}
	m.written[path] = string(content)
	m.writes++
	return nil
}

func (m *mockHandbookWriter) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func (m *mockHandbookWriter) Content(path string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.written[path]
}

// mockWatcher hands out a channel the test controls.
type mockWatcher struct {
	events chan string
	err    error
}

func (m *mockWatcher) Watch(ctx context.Context, _ string) (<-chan string, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make(chan string)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case path := <-m.events:
				select {
				case out <- path:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// mockRunStore fails every call.
type mockRunStore struct {
	err error
}

func (m *mockRunStore) SaveRun(_ context.Context, _ *domain.BatchResult) error {
	return m.err
}

func (m *mockRunStore) ListRuns(_ context.Context, _ int) ([]domain.BatchRunSummary, error) {
	return nil, m.err
}

func (m *mockRunStore) GetRun(_ context.Context, _ string) (*domain.BatchResult, error) {
	return nil, m.err
}
