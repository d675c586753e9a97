package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/example/expander/internal/adapters/backup"
	"github.com/example/expander/internal/core/template"
	"github.com/example/expander/internal/models"
	"github.com/example/expander/internal/ports/primary"
)

func (h *handler) listSnippets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	enabledOnly, _ := strconv.ParseBool(q.Get("enabled"))

	snippets, err := h.svc.ListSnippets(r.Context(), primary.SnippetFilters{
		Folder:      q.Get("folder"),
		Tag:         q.Get("tag"),
		EnabledOnly: enabledOnly,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if snippets == nil {
		snippets = []*models.Snippet{}
	}
	writeJSON(w, http.StatusOK, snippets)
}

func (h *handler) saveSnippet(w http.ResponseWriter, r *http.Request) {
	var snip models.Snippet
	if err := json.NewDecoder(r.Body).Decode(&snip); err != nil {
		h.badRequest(w, "invalid request body")
		return
	}

	saved, err := h.svc.SaveSnippet(r.Context(), &snip)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *handler) getSnippet(w http.ResponseWriter, r *http.Request) {
	snip, err := h.svc.GetSnippet(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snip)
}

func (h *handler) deleteSnippet(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteSnippet(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) searchSnippets(w http.ResponseWriter, r *http.Request) {
	results, err := h.svc.SearchSnippets(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if results == nil {
		results = []*models.Snippet{}
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *handler) suggestShortcuts(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.svc.SuggestShortcuts(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, suggestions)
}

func (h *handler) recordUsage(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RecordUsage(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) getSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.svc.GetSettings(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *handler) putSettings(w http.ResponseWriter, r *http.Request) {
	// Unset members keep their current values.
	settings, err := h.svc.GetSettings(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := json.NewDecoder(r.Body).Decode(settings); err != nil {
		h.badRequest(w, "invalid request body")
		return
	}

	if err := h.svc.SaveSettings(r.Context(), settings); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *handler) listFolders(w http.ResponseWriter, r *http.Request) {
	folders, err := h.svc.ListFolders(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if folders == nil {
		folders = []*models.Folder{}
	}
	writeJSON(w, http.StatusOK, folders)
}

type createFolderRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

func (h *handler) createFolder(w http.ResponseWriter, r *http.Request) {
	var req createFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, "invalid request body")
		return
	}

	folder, err := h.svc.CreateFolder(r.Context(), primary.CreateFolderRequest{
		Name:  req.Name,
		Color: req.Color,
		Icon:  req.Icon,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, folder)
}

// processRequest names the snippet to render: by ID, by shortcut, or inline
// content.
type processRequest struct {
	SnippetID string            `json:"snippetId,omitempty"`
	Shortcut  string            `json:"shortcut,omitempty"`
	Content   string            `json:"content,omitempty"`
	Variables map[string]string `json:"variables,omitempty"`
}

type processResponse struct {
	Content        string               `json:"content"`
	NeedsUserInput bool                 `json:"needsUserInput"`
	Fields         []template.FormField `json:"fields,omitempty"`
}

func (h *handler) process(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, "invalid request body")
		return
	}

	var snip *models.Snippet
	var err error
	switch {
	case req.SnippetID != "":
		snip, err = h.svc.GetSnippet(r.Context(), req.SnippetID)
	case req.Content != "":
		snip = &models.Snippet{Shortcut: req.Shortcut, Content: req.Content}
	case req.Shortcut != "":
		snip, err = h.svc.FindByShortcut(r.Context(), req.Shortcut)
	default:
		h.badRequest(w, "snippetId, shortcut or content is required")
		return
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.svc.ProcessSnippet(r.Context(), snip, req.Variables)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, processResponse{
		Content:        result.Content,
		NeedsUserInput: result.NeedsUserInput,
		Fields:         template.FieldsFromCommands(result.Commands),
	})
}

func (h *handler) export(w http.ResponseWriter, r *http.Request) {
	format, err := backup.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.badRequest(w, err.Error())
		return
	}

	b, err := h.svc.Export(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	contentType := "application/json"
	if format == backup.FormatYAML {
		contentType = "application/yaml"
	}
	w.Header().Set("Content-Type", contentType)
	if err := backup.Encode(w, b, format); err != nil {
		h.logger.Error().Err(err).Msg("failed to write export")
	}
}

type importResponse struct {
	Snippets int  `json:"snippets"`
	Folders  int  `json:"folders"`
	Settings bool `json:"settings"`
}

func (h *handler) importBackup(w http.ResponseWriter, r *http.Request) {
	format := backup.FormatJSON
	if q := r.URL.Query().Get("format"); q != "" {
		f, err := backup.ParseFormat(q)
		if err != nil {
			h.badRequest(w, err.Error())
			return
		}
		format = f
	} else if strings.Contains(r.Header.Get("Content-Type"), "yaml") {
		format = backup.FormatYAML
	}

	b, err := backup.Decode(r.Body, format)
	if err != nil {
		h.badRequest(w, err.Error())
		return
	}

	result, err := h.svc.Import(r.Context(), b)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, importResponse{
		Snippets: result.Snippets,
		Folders:  result.Folders,
		Settings: result.Settings,
	})
}
