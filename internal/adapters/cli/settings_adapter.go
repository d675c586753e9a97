package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/example/expander/internal/adapters/backup"
	"github.com/example/expander/internal/models"
	"github.com/example/expander/internal/ports/primary"
)

// SettingsAdapter translates settings, folder and backup commands.
type SettingsAdapter struct {
	service primary.SnippetService
	out     io.Writer
}

// NewSettingsAdapter creates a new SettingsAdapter.
func NewSettingsAdapter(service primary.SnippetService, out io.Writer) *SettingsAdapter {
	return &SettingsAdapter{service: service, out: out}
}

// Show prints the current settings.
func (a *SettingsAdapter) Show(ctx context.Context) error {
	s, err := a.service.GetSettings(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "triggerKey\t%s\n", s.TriggerKey)
	fmt.Fprintf(w, "expansionDelay\t%d\n", s.ExpansionDelay)
	fmt.Fprintf(w, "caseSensitive\t%t\n", s.CaseSensitive)
	fmt.Fprintf(w, "showPreview\t%t\n", s.ShowPreview)
	fmt.Fprintf(w, "theme\t%s\n", s.Theme)
	fmt.Fprintf(w, "enableSounds\t%t\n", s.EnableSounds)
	fmt.Fprintf(w, "excludedSites\t%s\n", strings.Join(s.ExcludedSites, ","))
	fmt.Fprintf(w, "enableDebugMode\t%t\n", s.EnableDebugMode)
	return w.Flush()
}

// Set changes one setting. Keys use the backup document's member names.
func (a *SettingsAdapter) Set(ctx context.Context, key, value string) error {
	s, err := a.service.GetSettings(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	if err := applySetting(s, key, value); err != nil {
		return err
	}
	if err := a.service.SaveSettings(ctx, s); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s %s = %s\n", okMark, key, value)
	return nil
}

func applySetting(s *models.Settings, key, value string) error {
	var err error
	switch key {
	case "triggerKey":
		s.TriggerKey = value
	case "expansionDelay":
		s.ExpansionDelay, err = strconv.Atoi(value)
	case "caseSensitive":
		s.CaseSensitive, err = strconv.ParseBool(value)
	case "showPreview":
		s.ShowPreview, err = strconv.ParseBool(value)
	case "theme":
		s.Theme = value
	case "enableSounds":
		s.EnableSounds, err = strconv.ParseBool(value)
	case "excludedSites":
		s.ExcludedSites = splitList(value)
	case "enableDebugMode":
		s.EnableDebugMode, err = strconv.ParseBool(value)
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return nil
}

func splitList(value string) []string {
	out := []string{}
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ListFolders prints folders with their snippet counts.
func (a *SettingsAdapter) ListFolders(ctx context.Context) error {
	folders, err := a.service.ListFolders(ctx)
	if err != nil {
		return fmt.Errorf("failed to list folders: %w", err)
	}
	if len(folders) == 0 {
		fmt.Fprintln(a.out, "No folders found")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSNIPPETS\tCOLOR\tICON")
	fmt.Fprintln(w, "----\t--------\t-----\t----")
	for _, f := range folders {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", f.Name, f.SnippetCount, f.Color, f.Icon)
	}
	return w.Flush()
}

// CreateFolder creates a folder.
func (a *SettingsAdapter) CreateFolder(ctx context.Context, req primary.CreateFolderRequest) error {
	f, err := a.service.CreateFolder(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Created folder %s\n", okMark, f.Name)
	return nil
}

// Export writes a backup document to w.
func (a *SettingsAdapter) Export(ctx context.Context, w io.Writer, format backup.Format) error {
	b, err := a.service.Export(ctx)
	if err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}
	return backup.Encode(w, b, format)
}

// Import reads a backup document from r and writes it.
func (a *SettingsAdapter) Import(ctx context.Context, r io.Reader, format backup.Format) error {
	b, err := backup.Decode(r, format)
	if err != nil {
		return err
	}

	result, err := a.service.Import(ctx, b)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Imported %d snippets, %d folders", okMark, result.Snippets, result.Folders)
	if result.Settings {
		fmt.Fprint(a.out, " and settings")
	}
	fmt.Fprintln(a.out)
	return nil
}
