package models

// Themes
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
	ThemeAuto  = "auto"
)

// Settings are the user preferences consumed by the expansion controller.
type Settings struct {
	TriggerKey      string   `json:"triggerKey" yaml:"triggerKey"` // space, tab, enter or immediate
	ExpansionDelay  int      `json:"expansionDelay" yaml:"expansionDelay"`
	CaseSensitive   bool     `json:"caseSensitive" yaml:"caseSensitive"` // stored, not used by matching
	ShowPreview     bool     `json:"showPreview" yaml:"showPreview"`
	Theme           string   `json:"theme" yaml:"theme"`
	EnableSounds    bool     `json:"enableSounds" yaml:"enableSounds"`
	ExcludedSites   []string `json:"excludedSites" yaml:"excludedSites"`
	EnableDebugMode bool     `json:"enableDebugMode" yaml:"enableDebugMode"`
}

// DefaultSettings returns the settings of a fresh install.
func DefaultSettings() Settings {
	return Settings{
		TriggerKey:     "space",
		ExpansionDelay: 0,
		Theme:          ThemeLight,
		ExcludedSites:  []string{},
	}
}

// BackupVersion is the export format version.
const BackupVersion = "1.0"

// Backup is the export/import document.
type Backup struct {
	Version   string             `json:"version" yaml:"version"`
	Timestamp int64              `json:"timestamp" yaml:"timestamp"` // epoch milliseconds
	Snippets  map[string]Snippet `json:"snippets" yaml:"snippets"`
	Folders   map[string]Folder  `json:"folders,omitempty" yaml:"folders,omitempty"`
	Settings  *Settings          `json:"settings,omitempty" yaml:"settings,omitempty"`
}
