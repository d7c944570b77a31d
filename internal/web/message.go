package web

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/hpungsan/imprint/internal/admission"
	"github.com/hpungsan/imprint/internal/errors"
	"github.com/hpungsan/imprint/internal/ops"
)

// rawMessage is the inbound message envelope.
type rawMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// recordPayload is the RECORD_INPUT payload. Field names follow the wire
// protocol, not the storage schema.
type recordPayload struct {
	Content   string `json:"content"`
	URL       string `json:"url"`
	Domain    string `json:"domain"`
	PageTitle string `json:"pageTitle"`
	Timestamp int64  `json:"timestamp"`
}

// statusPayload is the GET_STATUS payload.
type statusPayload struct {
	URL string `json:"url"`
}

// HandleMessage handles POST /api/message: the request/response message
// channel between capture contexts and the store. Responses are best-effort
// acknowledgments the sender is free to ignore.
func (h *Handlers) HandleMessage(w http.ResponseWriter, r *http.Request) {
	var msg rawMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		writeError(w, errors.NewInvalidRequest("invalid JSON body"))
		return
	}

	switch msg.Type {
	case "RECORD_INPUT":
		h.handleRecordInput(w, msg.Payload)
	case "GET_STATUS":
		h.handleGetStatus(w, msg.Payload)
	default:
		// The sender ignores this; the literal shape matches the protocol.
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Unknown message type"})
	}
}

// handleRecordInput re-checks admission against current settings, then
// stores the capture. A capture that fails admission is skipped, not an
// error: the response acknowledges without success and the sender drops it.
func (h *Handlers) handleRecordInput(w http.ResponseWriter, payload json.RawMessage) {
	var p recordPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		writeError(w, errors.NewInvalidRequest("invalid RECORD_INPUT payload"))
		return
	}

	domain := p.Domain
	if domain == "" {
		domain = hostnameOf(p.URL)
	}

	if !admission.ShouldCapture(h.currentSettings(), domain) {
		writeJSON(w, http.StatusOK, map[string]bool{"success": false})
		return
	}

	_, err := ops.Add(h.db, ops.AddInput{
		Content:   p.Content,
		URL:       p.URL,
		Domain:    domain,
		PageTitle: p.PageTitle,
		Timestamp: p.Timestamp,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleGetStatus computes the page-load admission verdict for the sender's
// URL. An absent or unparseable URL never records.
func (h *Handlers) handleGetStatus(w http.ResponseWriter, payload json.RawMessage) {
	var p statusPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &p); err != nil {
			writeError(w, errors.NewInvalidRequest("invalid GET_STATUS payload"))
			return
		}
	}

	cfg := h.currentSettings()
	shouldRecord := admission.ShouldCapture(cfg, hostnameOf(p.URL))

	writeJSON(w, http.StatusOK, map[string]bool{
		"enabled":      cfg.Enabled,
		"shouldRecord": shouldRecord,
	})
}

// hostnameOf extracts the hostname from a page URL, empty when unparseable.
func hostnameOf(pageURL string) string {
	if pageURL == "" {
		return ""
	}
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
