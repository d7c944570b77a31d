package web

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/hpungsan/imprint/internal/errors"
	"github.com/hpungsan/imprint/internal/ops"
	"github.com/hpungsan/imprint/internal/settings"
)

// Handlers contains HTTP route handlers for the imprint API.
type Handlers struct {
	db    *sql.DB
	store *settings.Store
	cache *settings.Cache
	log   logrus.FieldLogger
}

// currentSettings prefers the watcher-backed cache and falls back to reading
// the slot directly (tests run without a cache).
func (h *Handlers) currentSettings() settings.Settings {
	if h.cache != nil {
		return h.cache.Current()
	}
	cfg, err := h.store.Load()
	if err != nil {
		h.log.WithError(err).Warn("failed to load settings, using defaults")
		return settings.Default()
	}
	return cfg
}

// HandleListRecords handles GET /api/records.
func (h *Handlers) HandleListRecords(w http.ResponseWriter, r *http.Request) {
	input := ops.ListInput{
		Domain:  ptrString(r.URL.Query().Get("domain")),
		Starred: parseBoolParam(r, "starred"),
		Tag:     ptrString(r.URL.Query().Get("tag")),
		Search:  ptrString(r.URL.Query().Get("search")),
		Limit:   parseIntParam(r, "limit", 0),
		Offset:  parseIntParam(r, "offset", 0),
	}

	result, err := ops.List(h.db, input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleDeleteRecord handles DELETE /api/records/{id}.
// Soft by default; ?hard=true removes the row permanently.
func (h *Handlers) HandleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Delete(h.db, ops.DeleteInput{
		ID:   r.PathValue("id"),
		Hard: parseBoolParam(r, "hard"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleToggleStar handles POST /api/records/{id}/star.
func (h *Handlers) HandleToggleStar(w http.ResponseWriter, r *http.Request) {
	result, err := ops.ToggleStar(h.db, ops.ToggleStarInput{ID: r.PathValue("id")})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleAddRecordTag handles POST /api/records/{id}/tags.
func (h *Handlers) HandleAddRecordTag(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, errors.NewInvalidRequest("invalid JSON body"))
		return
	}

	result, err := ops.AddTag(h.db, ops.TagRecordInput{RecordID: r.PathValue("id"), Tag: body.Name})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleRemoveRecordTag handles DELETE /api/records/{id}/tags/{name}.
func (h *Handlers) HandleRemoveRecordTag(w http.ResponseWriter, r *http.Request) {
	result, err := ops.RemoveTag(h.db, ops.TagRecordInput{
		RecordID: r.PathValue("id"),
		Tag:      r.PathValue("name"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleStats handles GET /api/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Stats(h.db)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleListTags handles GET /api/tags.
func (h *Handlers) HandleListTags(w http.ResponseWriter, r *http.Request) {
	result, err := ops.ListTags(h.db)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleCreateTag handles POST /api/tags.
func (h *Handlers) HandleCreateTag(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, errors.NewInvalidRequest("invalid JSON body"))
		return
	}

	result, err := ops.CreateTag(h.db, ops.CreateTagInput{Name: body.Name, Color: body.Color})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// HandleDeleteTag handles DELETE /api/tags/{id}.
func (h *Handlers) HandleDeleteTag(w http.ResponseWriter, r *http.Request) {
	result, err := ops.DeleteTag(h.db, ops.DeleteTagInput{ID: r.PathValue("id")})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleGetSettings handles GET /api/settings.
func (h *Handlers) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.currentSettings())
}

// HandleSaveSettings handles PUT /api/settings.
// The stored value is replaced wholesale; there are no partial updates.
func (h *Handlers) HandleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var cfg settings.Settings
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, errors.NewInvalidRequest("invalid JSON body"))
		return
	}
	if cfg.RetentionDays < 0 {
		writeError(w, errors.NewInvalidRequest("retention_days must not be negative"))
		return
	}
	if cfg.WhitelistDomains == nil {
		cfg.WhitelistDomains = []string{}
	}
	if cfg.BlacklistDomains == nil {
		cfg.BlacklistDomains = []string{}
	}

	if err := h.store.Save(cfg); err != nil {
		writeError(w, errors.NewInternal(err))
		return
	}
	if h.cache != nil {
		if err := h.cache.Refresh(); err != nil {
			h.log.WithError(err).Warn("failed to refresh settings cache")
		}
	}
	writeJSON(w, http.StatusOK, cfg)
}

// HandleExport handles GET /api/export — the full backup document,
// soft-deleted records included.
func (h *Handlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	backup, err := ops.ExportData(h.db, h.store)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, backup)
}

// HandleClear handles POST /api/clear.
func (h *Handlers) HandleClear(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Clear(h.db, h.store)
	if err != nil {
		writeError(w, err)
		return
	}
	if h.cache != nil {
		if err := h.cache.Refresh(); err != nil {
			h.log.WithError(err).Warn("failed to refresh settings cache")
		}
	}
	writeJSON(w, http.StatusOK, result)
}

// HandlePurge handles POST /api/purge.
func (h *Handlers) HandlePurge(w http.ResponseWriter, r *http.Request) {
	var input ops.PurgeInput
	if days := r.URL.Query().Get("older_than_days"); days != "" {
		n, err := strconv.Atoi(days)
		if err != nil {
			writeError(w, errors.NewInvalidRequest("older_than_days must be an integer"))
			return
		}
		input.OlderThanDays = &n
	}

	result, err := ops.Purge(h.db, input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleSweep handles POST /api/sweep — the retention sweep, using the
// currently configured retention period.
func (h *Handlers) HandleSweep(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Sweep(h.db, ops.SweepInput{RetentionDays: h.currentSettings().RetentionDays})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ptrString returns nil for empty strings, a pointer otherwise.
func ptrString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// parseIntParam parses an integer query parameter with a fallback default.
func parseIntParam(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// parseBoolParam parses a boolean query parameter ("true"/"1" = true).
func parseBoolParam(r *http.Request, name string) bool {
	v := r.URL.Query().Get(name)
	return v == "true" || v == "1"
}
