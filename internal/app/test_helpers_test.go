package app

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/example/expander/internal/core/template"
	"github.com/example/expander/internal/models"
	"github.com/example/expander/internal/ports/secondary"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// mockSnippetRepository implements secondary.SnippetRepository for testing.
type mockSnippetRepository struct {
	snippets  map[string]*secondary.SnippetRecord
	createErr error
	listErr   error
	usageErr  error
}

func newMockSnippetRepository() *mockSnippetRepository {
	return &mockSnippetRepository{snippets: make(map[string]*secondary.SnippetRecord)}
}

func (m *mockSnippetRepository) Create(ctx context.Context, s *secondary.SnippetRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.snippets[s.ID]; ok {
		return fmt.Errorf("duplicate id %s", s.ID)
	}
	cp := *s
	m.snippets[s.ID] = &cp
	return nil
}

func (m *mockSnippetRepository) GetByID(ctx context.Context, id string) (*secondary.SnippetRecord, error) {
	if s, ok := m.snippets[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, fmt.Errorf("snippet %s: %w", id, models.ErrNotFound)
}

func (m *mockSnippetRepository) Update(ctx context.Context, s *secondary.SnippetRecord) error {
	if _, ok := m.snippets[s.ID]; !ok {
		return fmt.Errorf("snippet %s: %w", s.ID, models.ErrNotFound)
	}
	cp := *s
	m.snippets[s.ID] = &cp
	return nil
}

func (m *mockSnippetRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.snippets[id]; !ok {
		return fmt.Errorf("snippet %s: %w", id, models.ErrNotFound)
	}
	delete(m.snippets, id)
	return nil
}

func (m *mockSnippetRepository) List(ctx context.Context, filters secondary.SnippetFilters) ([]*secondary.SnippetRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*secondary.SnippetRecord
	for _, s := range m.snippets {
		if filters.EnabledOnly && !s.Enabled {
			continue
		}
		if filters.Folder != "" && s.Folder != filters.Folder {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Shortcut < out[j].Shortcut })
	return out, nil
}

func (m *mockSnippetRepository) SetEnabled(ctx context.Context, id string, enabled bool) error {
	s, ok := m.snippets[id]
	if !ok {
		return fmt.Errorf("snippet %s: %w", id, models.ErrNotFound)
	}
	s.Enabled = enabled
	return nil
}

func (m *mockSnippetRepository) IncrementUsage(ctx context.Context, id string, usedAt string) error {
	if m.usageErr != nil {
		return m.usageErr
	}
	s, ok := m.snippets[id]
	if !ok {
		return fmt.Errorf("snippet %s: %w", id, models.ErrNotFound)
	}
	s.UseCount++
	s.LastUsed = usedAt
	return nil
}

func (m *mockSnippetRepository) CountByFolder(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int)
	for _, s := range m.snippets {
		if s.Folder != "" {
			counts[s.Folder]++
		}
	}
	return counts, nil
}

// mockFolderRepository implements secondary.FolderRepository for testing.
type mockFolderRepository struct {
	folders map[string]*secondary.FolderRecord
}

func newMockFolderRepository() *mockFolderRepository {
	return &mockFolderRepository{folders: make(map[string]*secondary.FolderRecord)}
}

func (m *mockFolderRepository) Create(ctx context.Context, f *secondary.FolderRecord) error {
	for _, existing := range m.folders {
		if existing.Name == f.Name {
			return fmt.Errorf("folder %s already exists", f.Name)
		}
	}
	cp := *f
	m.folders[f.ID] = &cp
	return nil
}

func (m *mockFolderRepository) List(ctx context.Context) ([]*secondary.FolderRecord, error) {
	var out []*secondary.FolderRecord
	for _, f := range m.folders {
		cp := *f
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (m *mockFolderRepository) GetByName(ctx context.Context, name string) (*secondary.FolderRecord, error) {
	for _, f := range m.folders {
		if f.Name == name {
			cp := *f
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("folder %s: %w", name, models.ErrNotFound)
}

func (m *mockFolderRepository) Delete(ctx context.Context, id string) error {
	delete(m.folders, id)
	return nil
}

// mockSettingsRepository implements secondary.SettingsRepository for testing.
type mockSettingsRepository struct {
	doc string
}

func (m *mockSettingsRepository) Get(ctx context.Context) (string, error) { return m.doc, nil }

func (m *mockSettingsRepository) Put(ctx context.Context, doc string) error {
	m.doc = doc
	return nil
}

// mockTransactor runs fn against the shared mocks without rollback.
type mockTransactor struct {
	repos secondary.TxRepositories
	calls int
}

func (m *mockTransactor) WithTx(ctx context.Context, fn func(secondary.TxRepositories) error) error {
	m.calls++
	return fn(m.repos)
}

// mockNotifier records published change kinds.
type mockNotifier struct {
	mu        sync.Mutex
	published []secondary.ChangeKind
}

func (m *mockNotifier) Publish(kind secondary.ChangeKind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, kind)
}

func (m *mockNotifier) Subscribe() (<-chan secondary.ChangeKind, func()) {
	ch := make(chan secondary.ChangeKind)
	return ch, func() {}
}

func (m *mockNotifier) kinds() []secondary.ChangeKind {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]secondary.ChangeKind(nil), m.published...)
}

// serviceFixture bundles a service with its mocks.
type serviceFixture struct {
	service    *SnippetServiceImpl
	snippets   *mockSnippetRepository
	folders    *mockFolderRepository
	settings   *mockSettingsRepository
	transactor *mockTransactor
	notifier   *mockNotifier
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		snippets: newMockSnippetRepository(),
		folders:  newMockFolderRepository(),
		settings: &mockSettingsRepository{},
		notifier: &mockNotifier{},
	}
	f.transactor = &mockTransactor{repos: secondary.TxRepositories{
		Snippets: f.snippets,
		Folders:  f.folders,
		Settings: f.settings,
	}}
	f.service = NewSnippetService(f.snippets, f.folders, f.settings, f.transactor, f.notifier, template.NewEngine())

	clock := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	f.service.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	n := 0
	f.service.newID = func() string {
		n++
		return fmt.Sprintf("id-%03d", n)
	}
	return f
}

// mockProvider implements secondary.SnippetProvider for controller tests.
type mockProvider struct {
	mu       sync.Mutex
	snippets map[string]*models.Snippet
	settings models.Settings
	usage    []string
	usageErr error
	loadErr  error
}

func newMockProvider(snippets ...*models.Snippet) *mockProvider {
	p := &mockProvider{
		snippets: make(map[string]*models.Snippet),
		settings: models.DefaultSettings(),
	}
	for _, s := range snippets {
		p.snippets[s.ID] = s
	}
	return p
}

func (p *mockProvider) GetAllSnippets(ctx context.Context) (map[string]*models.Snippet, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loadErr != nil {
		return nil, p.loadErr
	}
	out := make(map[string]*models.Snippet, len(p.snippets))
	for id, s := range p.snippets {
		cp := *s
		out[id] = &cp
	}
	return out, nil
}

func (p *mockProvider) GetSettings(ctx context.Context) (*models.Settings, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.settings
	return &s, nil
}

func (p *mockProvider) RecordUsage(ctx context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.usage = append(p.usage, id)
	return p.usageErr
}

func (p *mockProvider) recorded() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.usage...)
}

func (p *mockProvider) put(s *models.Snippet) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snippets[s.ID] = s
}

// fakeDialog implements secondary.Dialog.
type fakeDialog struct {
	values map[string]string
	cancel bool
	err    error
	fields []template.FormField
	during func() // runs while the dialog is open
}

func (d *fakeDialog) Collect(ctx context.Context, fields []template.FormField) (map[string]string, bool, error) {
	d.fields = fields
	if d.during != nil {
		d.during()
	}
	if d.err != nil {
		return nil, false, d.err
	}
	if d.cancel {
		return nil, false, nil
	}
	return d.values, true, nil
}

// fakeTone implements secondary.TonePlayer.
type fakeTone struct {
	mu    sync.Mutex
	plays int
}

func (t *fakeTone) Play(ctx context.Context, hz int, d time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.plays++
	return nil
}

func (t *fakeTone) count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.plays
}

// staticClipboard implements secondary.ClipboardReader.
type staticClipboard struct {
	text string
	err  error
}

func (c staticClipboard) ReadText(ctx context.Context) (string, error) { return c.text, c.err }
