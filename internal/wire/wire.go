// Package wire provides dependency injection for the expander application.
// It creates singleton services with lazy initialization.
package wire

import (
	"io"
	"log"
	"os"
	"sync"

	"github.com/example/expander/internal/adapters/clipboard"
	cliadapter "github.com/example/expander/internal/adapters/cli"
	"github.com/example/expander/internal/adapters/notify"
	"github.com/example/expander/internal/adapters/sound"
	"github.com/example/expander/internal/adapters/sqlite"
	"github.com/example/expander/internal/adapters/tui"
	"github.com/example/expander/internal/app"
	"github.com/example/expander/internal/config"
	"github.com/example/expander/internal/core/template"
	"github.com/example/expander/internal/db"
	"github.com/example/expander/internal/ports/primary"
	"github.com/example/expander/internal/ports/secondary"
)

var (
	cfg            *config.Config
	broker         *notify.Broker
	clipboardSrc   secondary.ClipboardReader
	deferred       *template.Engine
	snippetService *app.SnippetServiceImpl
	once           sync.Once
)

// Config returns the loaded configuration.
func Config() *config.Config {
	once.Do(initServices)
	return cfg
}

// SnippetService returns the singleton SnippetService instance.
func SnippetService() primary.SnippetService {
	once.Do(initServices)
	return snippetService
}

// Notifier returns the change notifier shared by the service and its
// listeners.
func Notifier() secondary.ChangeNotifier {
	once.Do(initServices)
	return broker
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db.SetPath(cfg.DBPath)
	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	snippetRepo := sqlite.NewSnippetRepository(database)
	folderRepo := sqlite.NewFolderRepository(database)
	settingsRepo := sqlite.NewSettingsRepository(database)
	transactor := sqlite.NewTransactor(database)

	broker = notify.NewBroker()
	clipboardSrc = clipboard.New(cfg.Clipboard)
	// The service renders for previews and the API; controllers read the
	// clipboard at insertion time.
	engine := template.NewEngine(template.WithClipboard(clipboardSrc))
	deferred = template.NewEngine(template.WithDeferredClipboard())

	snippetService = app.NewSnippetService(snippetRepo, folderRepo, settingsRepo, transactor, broker, engine)
}

// ExpansionController returns a new controller for one document. Each call
// creates its own controller; they share the service and notifier.
func ExpansionController(host, theme string, in io.Reader, out io.Writer, extra ...app.ControllerOption) *app.ExpansionControllerImpl {
	once.Do(initServices)

	opts := []app.ControllerOption{
		app.WithNotifier(broker),
		app.WithClipboardReader(clipboardSrc),
		app.WithTonePlayer(sound.NewBell(out)),
		app.WithDialog(tui.NewDialog(in, out, theme)),
		app.WithHost(host),
	}
	return app.NewExpansionController(snippetService, deferred, append(opts, extra...)...)
}

// SnippetAdapter returns a new SnippetAdapter writing to stdout.
func SnippetAdapter() *cliadapter.SnippetAdapter {
	return SnippetAdapterWithOutput(os.Stdout)
}

// SnippetAdapterWithOutput returns a new SnippetAdapter writing to the given output.
func SnippetAdapterWithOutput(out io.Writer) *cliadapter.SnippetAdapter {
	once.Do(initServices)
	return cliadapter.NewSnippetAdapter(snippetService, out)
}

// SettingsAdapter returns a new SettingsAdapter writing to stdout.
func SettingsAdapter() *cliadapter.SettingsAdapter {
	once.Do(initServices)
	return cliadapter.NewSettingsAdapter(snippetService, os.Stdout)
}
