// Package capture turns a stream of field input events into debounced,
// filtered capture requests sent to the imprint service. It is the page-side
// half of the pipeline: it holds no durable state, only in-memory per-field
// timers that are discarded on Close.
package capture

import (
	"strings"

	"github.com/hpungsan/imprint/internal/filter"
)

// PageContext identifies the page a recorder is attached to.
type PageContext struct {
	URL      string
	Hostname string
	Title    string
}

// InputEvent is one observed edit to a field. FieldID is a stable synthetic
// identifier assigned by the event source at listener-attach time; the core
// never keys state on element identity.
type InputEvent struct {
	FieldID   string
	Field     filter.Field
	Content   string
	Composing bool // an IME composition sequence is in progress
}

// Request is the payload of a RECORD_INPUT message.
// Field names follow the wire protocol.
type Request struct {
	Content   string `json:"content"`
	URL       string `json:"url"`
	Domain    string `json:"domain"`
	PageTitle string `json:"pageTitle"`
	Timestamp int64  `json:"timestamp"`
}

// Sender delivers capture requests. Delivery is best-effort: the recorder
// never retries and never blocks event handling on the outcome.
type Sender interface {
	Send(req Request) error
}

// textInputTypes is the allow-list of single-line input subtypes that are
// natural text inputs. An empty declared type counts as "text".
var textInputTypes = map[string]bool{
	"":       true,
	"text":   true,
	"search": true,
	"url":    true,
	"email":  true,
	"tel":    true,
}

// Eligible reports whether a field kind can be captured at all.
// Ineligible fields are ignored before classification runs.
func Eligible(f filter.Field) bool {
	switch f.Kind {
	case filter.KindInput:
		return textInputTypes[strings.ToLower(f.Type)]
	case filter.KindTextArea, filter.KindEditable:
		return true
	default:
		return false
	}
}
