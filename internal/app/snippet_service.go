package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sahilm/fuzzy"

	"github.com/example/expander/internal/core/expansion"
	coresnippet "github.com/example/expander/internal/core/snippet"
	"github.com/example/expander/internal/core/template"
	"github.com/example/expander/internal/logging"
	"github.com/example/expander/internal/models"
	"github.com/example/expander/internal/ports/primary"
	"github.com/example/expander/internal/ports/secondary"
)

// maxSuggestions bounds SuggestShortcuts.
const maxSuggestions = 5

// SnippetServiceImpl implements the SnippetService interface.
// It is also the storage collaborator of expansion controllers.
type SnippetServiceImpl struct {
	snippetRepo  secondary.SnippetRepository
	folderRepo   secondary.FolderRepository
	settingsRepo secondary.SettingsRepository
	transactor   secondary.Transactor
	notifier     secondary.ChangeNotifier
	engine       *template.Engine
	logger       zerolog.Logger

	now   func() time.Time
	newID func() string
}

// NewSnippetService creates a new SnippetService with injected dependencies.
// notifier may be nil when nothing listens for changes.
func NewSnippetService(
	snippetRepo secondary.SnippetRepository,
	folderRepo secondary.FolderRepository,
	settingsRepo secondary.SettingsRepository,
	transactor secondary.Transactor,
	notifier secondary.ChangeNotifier,
	engine *template.Engine,
) *SnippetServiceImpl {
	return &SnippetServiceImpl{
		snippetRepo:  snippetRepo,
		folderRepo:   folderRepo,
		settingsRepo: settingsRepo,
		transactor:   transactor,
		notifier:     notifier,
		engine:       engine,
		logger:       logging.Component("snippets"),
		now:          func() time.Time { return time.Now().UTC() },
		newID:        uuid.NewString,
	}
}

// GetAllSnippets returns every snippet keyed by ID.
func (s *SnippetServiceImpl) GetAllSnippets(ctx context.Context) (map[string]*models.Snippet, error) {
	records, err := s.snippetRepo.List(ctx, secondary.SnippetFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to list snippets: %w", err)
	}

	out := make(map[string]*models.Snippet, len(records))
	for _, r := range records {
		out[r.ID] = recordToSnippet(r)
	}
	return out, nil
}

// ListSnippets lists snippets with optional filters.
func (s *SnippetServiceImpl) ListSnippets(ctx context.Context, filters primary.SnippetFilters) ([]*models.Snippet, error) {
	records, err := s.snippetRepo.List(ctx, secondary.SnippetFilters{
		Folder:      filters.Folder,
		Tag:         filters.Tag,
		EnabledOnly: filters.EnabledOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list snippets: %w", err)
	}

	out := make([]*models.Snippet, len(records))
	for i, r := range records {
		out[i] = recordToSnippet(r)
	}
	return out, nil
}

// GetSnippet retrieves a snippet by ID.
func (s *SnippetServiceImpl) GetSnippet(ctx context.Context, id string) (*models.Snippet, error) {
	record, err := s.snippetRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return recordToSnippet(record), nil
}

// FindByShortcut resolves a shortcut through the same index the expansion
// controller builds.
func (s *SnippetServiceImpl) FindByShortcut(ctx context.Context, shortcut string) (*models.Snippet, error) {
	all, err := s.GetAllSnippets(ctx)
	if err != nil {
		return nil, err
	}

	id, ok := buildIndex(all)[shortcut]
	if !ok {
		return nil, fmt.Errorf("shortcut %s: %w", shortcut, models.ErrNotFound)
	}
	return all[id], nil
}

// SaveSnippet creates or replaces a snippet.
func (s *SnippetServiceImpl) SaveSnippet(ctx context.Context, snip *models.Snippet) (*models.Snippet, error) {
	validation := template.ValidateSnippet(template.Snippet{Shortcut: snip.Shortcut, Content: snip.Content})
	guard := coresnippet.CanSaveSnippet(coresnippet.SaveContext{
		Shortcut: snip.Shortcut,
		Problems: validation.Errors,
	})
	if !guard.Allowed {
		return nil, invalidf("%s", guard.Reason)
	}

	now := s.now()
	record := snippetToRecord(snip)
	record.UpdatedAt = formatTime(now)

	existing, err := s.lookup(ctx, snip.ID)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		if record.ID == "" {
			record.ID = s.newID()
		}
		if record.CreatedAt == "" {
			record.CreatedAt = formatTime(now)
		}
		if err := s.snippetRepo.Create(ctx, record); err != nil {
			return nil, fmt.Errorf("failed to create snippet: %w", err)
		}
	} else {
		record.CreatedAt = existing.CreatedAt
		if err := s.snippetRepo.Update(ctx, record); err != nil {
			return nil, fmt.Errorf("failed to update snippet: %w", err)
		}
	}

	saved, err := s.snippetRepo.GetByID(ctx, record.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch saved snippet: %w", err)
	}

	s.logger.Debug().Str("id", saved.ID).Str("shortcut", saved.Shortcut).Msg("snippet saved")
	s.publish(secondary.SnippetsUpdated)
	return recordToSnippet(saved), nil
}

// DeleteSnippet deletes a snippet.
func (s *SnippetServiceImpl) DeleteSnippet(ctx context.Context, id string) error {
	if err := s.snippetRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(secondary.SnippetsUpdated)
	return nil
}

// SetEnabled enables or disables a snippet.
func (s *SnippetServiceImpl) SetEnabled(ctx context.Context, id string, enabled bool) error {
	if err := s.snippetRepo.SetEnabled(ctx, id, enabled); err != nil {
		return err
	}
	s.publish(secondary.SnippetsUpdated)
	return nil
}

// SearchSnippets returns enabled snippets matching every term of query.
func (s *SnippetServiceImpl) SearchSnippets(ctx context.Context, query string) ([]*models.Snippet, error) {
	records, err := s.snippetRepo.List(ctx, secondary.SnippetFilters{EnabledOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list snippets: %w", err)
	}

	terms := coresnippet.SearchTerms(query)
	var results []*models.Snippet
	for _, r := range records {
		doc := coresnippet.Document{
			Shortcut:    r.Shortcut,
			Content:     r.Content,
			Description: r.Description,
			Folder:      r.Folder,
			Tags:        r.Tags,
			Enabled:     r.Enabled,
		}
		if coresnippet.Matches(doc, terms) {
			results = append(results, recordToSnippet(r))
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return coresnippet.RanksBefore(
			coresnippet.RankKey{UseCount: results[i].UseCount, Shortcut: results[i].Shortcut},
			coresnippet.RankKey{UseCount: results[j].UseCount, Shortcut: results[j].Shortcut},
		)
	})
	return results, nil
}

// SuggestShortcuts returns up to five stored shortcuts that fuzzily match
// input, best first.
func (s *SnippetServiceImpl) SuggestShortcuts(ctx context.Context, input string) ([]string, error) {
	records, err := s.snippetRepo.List(ctx, secondary.SnippetFilters{EnabledOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list snippets: %w", err)
	}

	shortcuts := make([]string, 0, len(records))
	seen := make(map[string]bool, len(records))
	for _, r := range records {
		if !seen[r.Shortcut] {
			seen[r.Shortcut] = true
			shortcuts = append(shortcuts, r.Shortcut)
		}
	}

	matches := fuzzy.Find(input, shortcuts)
	out := make([]string, 0, maxSuggestions)
	for _, m := range matches {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, m.Str)
	}
	return out, nil
}

// RecordUsage increments a snippet's use count and stamps its last use.
// The modification time is left alone so usage never reorders shortcut
// collisions.
func (s *SnippetServiceImpl) RecordUsage(ctx context.Context, id string) error {
	if err := s.snippetRepo.IncrementUsage(ctx, id, formatTime(s.now())); err != nil {
		return fmt.Errorf("failed to record usage: %w", err)
	}
	return nil
}

// GetSettings returns the stored settings merged over the defaults.
func (s *SnippetServiceImpl) GetSettings(ctx context.Context) (*models.Settings, error) {
	doc, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return decodeSettings(doc)
}

// SaveSettings validates and replaces the stored settings.
func (s *SnippetServiceImpl) SaveSettings(ctx context.Context, settings *models.Settings) error {
	doc, err := encodeSettings(settings)
	if err != nil {
		return err
	}
	if err := s.settingsRepo.Put(ctx, doc); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	s.publish(secondary.SettingsUpdated)
	return nil
}

// ListFolders lists folders with their snippet counts.
func (s *SnippetServiceImpl) ListFolders(ctx context.Context) ([]*models.Folder, error) {
	records, err := s.folderRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	counts, err := s.snippetRepo.CountByFolder(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count snippets: %w", err)
	}

	out := make([]*models.Folder, len(records))
	for i, r := range records {
		f := recordToFolder(r)
		f.SnippetCount = counts[r.Name]
		out[i] = f
	}
	return out, nil
}

// CreateFolder creates a folder at the end of the list.
func (s *SnippetServiceImpl) CreateFolder(ctx context.Context, req primary.CreateFolderRequest) (*models.Folder, error) {
	if req.Name == "" {
		return nil, invalidf("folder name is required")
	}

	existing, err := s.folderRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}

	record := &secondary.FolderRecord{
		ID:        s.newID(),
		Name:      req.Name,
		Color:     req.Color,
		Icon:      req.Icon,
		Order:     len(existing),
		CreatedAt: formatTime(s.now()),
	}
	if err := s.folderRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}
	return recordToFolder(record), nil
}

// Export returns a backup of every snippet, folder and the settings.
func (s *SnippetServiceImpl) Export(ctx context.Context) (*models.Backup, error) {
	all, err := s.GetAllSnippets(ctx)
	if err != nil {
		return nil, err
	}
	folders, err := s.ListFolders(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	backup := &models.Backup{
		Version:   models.BackupVersion,
		Timestamp: s.now().UnixMilli(),
		Snippets:  make(map[string]models.Snippet, len(all)),
		Folders:   make(map[string]models.Folder, len(folders)),
		Settings:  settings,
	}
	for id, snip := range all {
		backup.Snippets[id] = *snip
	}
	for _, f := range folders {
		backup.Folders[f.ID] = *f
	}
	return backup, nil
}

// Import validates a backup and writes it in one transaction. Imported
// snippets are added as new active snippets with fresh IDs and counters; folders
// are created when no folder of that name exists; settings, when present,
// replace the stored settings.
func (s *SnippetServiceImpl) Import(ctx context.Context, backup *models.Backup) (*primary.ImportResult, error) {
	if backup == nil {
		return nil, &coresnippet.ValidationError{Problems: []string{"empty backup"}}
	}

	checks := make([]coresnippet.BackupSnippet, 0, len(backup.Snippets))
	for key, snip := range backup.Snippets {
		checks = append(checks, coresnippet.BackupSnippet{Key: key, Shortcut: snip.Shortcut, Content: snip.Content})
	}
	if err := coresnippet.ValidateBackup(coresnippet.BackupContext{
		Version:     backup.Version,
		HasSnippets: backup.Snippets != nil,
		Snippets:    checks,
	}); err != nil {
		return nil, err
	}

	var settingsDoc string
	if backup.Settings != nil {
		doc, err := encodeSettings(backup.Settings)
		if err != nil {
			return nil, err
		}
		settingsDoc = doc
	}

	// Snippets are written in key order.
	keys := make([]string, 0, len(backup.Snippets))
	for key := range backup.Snippets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	result := &primary.ImportResult{}
	err := s.transactor.WithTx(ctx, func(repos secondary.TxRepositories) error {
		now := formatTime(s.now())
		for _, key := range keys {
			snip := backup.Snippets[key]
			record := snippetToRecord(&snip)
			record.ID = s.newID()
			record.Enabled = true
			record.UseCount = 0
			record.LastUsed = ""
			record.CreatedAt = now
			record.UpdatedAt = now
			if err := repos.Snippets.Create(ctx, record); err != nil {
				return fmt.Errorf("failed to import snippet %s: %w", key, err)
			}
			result.Snippets++
		}

		n, err := s.importFolders(ctx, repos.Folders, backup.Folders)
		if err != nil {
			return err
		}
		result.Folders = n

		if settingsDoc != "" {
			if err := repos.Settings.Put(ctx, settingsDoc); err != nil {
				return fmt.Errorf("failed to import settings: %w", err)
			}
			result.Settings = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int("snippets", result.Snippets).Int("folders", result.Folders).Bool("settings", result.Settings).Msg("backup imported")
	s.publish(secondary.SnippetsUpdated)
	if result.Settings {
		s.publish(secondary.SettingsUpdated)
	}
	return result, nil
}

func (s *SnippetServiceImpl) importFolders(ctx context.Context, repo secondary.FolderRepository, folders map[string]models.Folder) (int, error) {
	ordered := make([]models.Folder, 0, len(folders))
	for _, f := range folders {
		if f.Name != "" {
			ordered = append(ordered, f)
		}
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Order != ordered[j].Order {
			return ordered[i].Order < ordered[j].Order
		}
		return ordered[i].Name < ordered[j].Name
	})

	for _, f := range ordered {
		_, err := repo.GetByName(ctx, f.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, models.ErrNotFound) {
			return 0, fmt.Errorf("failed to look up folder %s: %w", f.Name, err)
		}
		record := &secondary.FolderRecord{
			ID:        s.newID(),
			Name:      f.Name,
			Color:     f.Color,
			Icon:      f.Icon,
			Order:     f.Order,
			CreatedAt: formatTime(s.now()),
		}
		if err := repo.Create(ctx, record); err != nil {
			return 0, fmt.Errorf("failed to import folder %s: %w", f.Name, err)
		}
	}
	return len(ordered), nil
}

// defaultSnippets are installed by SeedDefaults.
var defaultSnippets = []models.Snippet{
	{
		Shortcut:    "/ty",
		Content:     "Thank you for your message. I'll get back to you soon.",
		Folder:      "Email",
		Description: "Thank you message",
	},
	{
		Shortcut:    "/sig",
		Content:     "Best regards,\n[Your Name]\n[Your Email]\n[Your Phone]",
		Folder:      "Personal",
		Description: "Email signature",
	},
	{
		Shortcut:    "/date",
		Content:     "{time: MMMM DD, YYYY}",
		Folder:      "Utilities",
		Description: "Current date",
	},
}

// defaultFolders are installed by SeedDefaults.
var defaultFolders = []primary.CreateFolderRequest{
	{Name: "Email", Color: "#3498db", Icon: "email"},
	{Name: "Personal", Color: "#27ae60", Icon: "user"},
	{Name: "Work", Color: "#f39c12", Icon: "briefcase"},
	{Name: "Utilities", Color: "#9b59b6", Icon: "settings"},
}

// SeedDefaults installs the first-run settings, snippets and folders.
// Shortcuts and folder names that already exist are skipped, so running it
// twice changes nothing.
func (s *SnippetServiceImpl) SeedDefaults(ctx context.Context) error {
	existing, err := s.GetAllSnippets(ctx)
	if err != nil {
		return err
	}
	taken := make(map[string]bool, len(existing))
	for _, snip := range existing {
		taken[snip.Shortcut] = true
	}

	settings := models.DefaultSettings()
	settingsDoc, err := encodeSettings(&settings)
	if err != nil {
		return err
	}
	storedSettings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	err = s.transactor.WithTx(ctx, func(repos secondary.TxRepositories) error {
		if storedSettings == "" {
			if err := repos.Settings.Put(ctx, settingsDoc); err != nil {
				return fmt.Errorf("failed to seed settings: %w", err)
			}
		}

		now := formatTime(s.now())
		for _, snip := range defaultSnippets {
			if taken[snip.Shortcut] {
				continue
			}
			record := snippetToRecord(&snip)
			record.ID = s.newID()
			record.Enabled = true
			record.CreatedAt = now
			record.UpdatedAt = now
			if err := repos.Snippets.Create(ctx, record); err != nil {
				return fmt.Errorf("failed to seed snippet %s: %w", snip.Shortcut, err)
			}
		}

		for i, f := range defaultFolders {
			_, err := repos.Folders.GetByName(ctx, f.Name)
			if err == nil {
				continue
			}
			if !errors.Is(err, models.ErrNotFound) {
				return fmt.Errorf("failed to look up folder %s: %w", f.Name, err)
			}
			if err := repos.Folders.Create(ctx, &secondary.FolderRecord{
				ID:        s.newID(),
				Name:      f.Name,
				Color:     f.Color,
				Icon:      f.Icon,
				Order:     i,
				CreatedAt: now,
			}); err != nil {
				return fmt.Errorf("failed to seed folder %s: %w", f.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(secondary.SnippetsUpdated)
	s.publish(secondary.SettingsUpdated)
	return nil
}

// ProcessSnippet renders a snippet through the template engine.
func (s *SnippetServiceImpl) ProcessSnippet(ctx context.Context, snip *models.Snippet, vars map[string]string) (*template.ExpansionResult, error) {
	if snip == nil {
		return nil, invalidf("snippet is required")
	}
	result := s.engine.Process(ctx, template.Snippet{Shortcut: snip.Shortcut, Content: snip.Content}, vars)
	return &result, nil
}

// PreviewSnippet renders a snippet with every field at its default.
func (s *SnippetServiceImpl) PreviewSnippet(ctx context.Context, snip *models.Snippet) (string, error) {
	if snip == nil {
		return "", invalidf("snippet is required")
	}
	return s.engine.Preview(ctx, template.Snippet{Shortcut: snip.Shortcut, Content: snip.Content}), nil
}

// Helper methods

func (s *SnippetServiceImpl) lookup(ctx context.Context, id string) (*secondary.SnippetRecord, error) {
	if id == "" {
		return nil, nil
	}
	record, err := s.snippetRepo.GetByID(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up snippet: %w", err)
	}
	return record, nil
}

func (s *SnippetServiceImpl) publish(kind secondary.ChangeKind) {
	if s.notifier != nil {
		s.notifier.Publish(kind)
	}
}

// buildIndex maps shortcuts to IDs over enabled snippets, last write wins.
func buildIndex(snippets map[string]*models.Snippet) map[string]string {
	entries := make([]coresnippet.IndexEntry, 0, len(snippets))
	for _, snip := range snippets {
		entries = append(entries, coresnippet.IndexEntry{
			ID:        snip.ID,
			Shortcut:  snip.Shortcut,
			Enabled:   snip.Enabled,
			UpdatedAt: snip.UpdatedAt,
		})
	}
	return coresnippet.BuildIndex(entries)
}

func decodeSettings(doc string) (*models.Settings, error) {
	settings := models.DefaultSettings()
	if doc != "" {
		if err := json.Unmarshal([]byte(doc), &settings); err != nil {
			return nil, fmt.Errorf("failed to decode settings: %w", err)
		}
	}
	if settings.ExcludedSites == nil {
		settings.ExcludedSites = []string{}
	}
	return &settings, nil
}

func encodeSettings(settings *models.Settings) (string, error) {
	if settings == nil {
		return "", invalidf("settings are required")
	}
	if _, err := expansion.ParseTriggerMode(settings.TriggerKey); err != nil {
		return "", invalidf("%v", err)
	}
	switch settings.Theme {
	case models.ThemeLight, models.ThemeDark, models.ThemeAuto:
	default:
		return "", invalidf("invalid theme %q (must be light, dark or auto)", settings.Theme)
	}
	if settings.ExpansionDelay < 0 {
		return "", invalidf("expansion delay must not be negative")
	}

	data, err := json.Marshal(settings)
	if err != nil {
		return "", fmt.Errorf("failed to encode settings: %w", err)
	}
	return string(data), nil
}

// invalidf returns an error wrapping models.ErrInvalid.
func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", models.ErrInvalid, fmt.Sprintf(format, args...))
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func recordToSnippet(r *secondary.SnippetRecord) *models.Snippet {
	snip := &models.Snippet{
		ID:          r.ID,
		Shortcut:    r.Shortcut,
		Content:     r.Content,
		Description: r.Description,
		Folder:      r.Folder,
		Tags:        r.Tags,
		ContentType: r.ContentType,
		Enabled:     r.Enabled,
		UseCount:    r.UseCount,
		CreatedAt:   parseTime(r.CreatedAt),
		UpdatedAt:   parseTime(r.UpdatedAt),
	}
	if r.LastUsed != "" {
		lastUsed := parseTime(r.LastUsed)
		snip.LastUsed = &lastUsed
	}
	return snip
}

func snippetToRecord(snip *models.Snippet) *secondary.SnippetRecord {
	record := &secondary.SnippetRecord{
		ID:          snip.ID,
		Shortcut:    snip.Shortcut,
		Content:     snip.Content,
		Description: snip.Description,
		Folder:      snip.Folder,
		Tags:        snip.Tags,
		ContentType: snip.ContentType,
		Enabled:     snip.Enabled,
		UseCount:    snip.UseCount,
	}
	if record.ContentType == "" {
		record.ContentType = models.ContentTypeText
	}
	if snip.LastUsed != nil {
		record.LastUsed = formatTime(*snip.LastUsed)
	}
	if !snip.CreatedAt.IsZero() {
		record.CreatedAt = formatTime(snip.CreatedAt)
	}
	return record
}

func recordToFolder(r *secondary.FolderRecord) *models.Folder {
	return &models.Folder{
		ID:        r.ID,
		Name:      r.Name,
		Color:     r.Color,
		Icon:      r.Icon,
		Order:     r.Order,
		CreatedAt: parseTime(r.CreatedAt),
	}
}

// Ensure SnippetServiceImpl implements the interfaces.
var (
	_ primary.SnippetService    = (*SnippetServiceImpl)(nil)
	_ secondary.SnippetProvider = (*SnippetServiceImpl)(nil)
)
