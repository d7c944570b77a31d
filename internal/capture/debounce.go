package capture

import (
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hpungsan/imprint/internal/filter"
)

// DefaultDebounceDelay is the inactivity window before a stabilized field
// value is forwarded for recording.
const DefaultDebounceDelay = 2000 * time.Millisecond

// pendingCapture is one armed timer plus the content snapshot it will emit.
type pendingCapture struct {
	timer   *time.Timer
	content string
}

// Recorder coalesces rapid edits to the same field into a single capture
// event per inactivity window. One pending timer exists per field at a time;
// an accepted edit re-arms it, a rejected edit leaves it untouched.
type Recorder struct {
	page  PageContext
	sink  Sender
	log   logrus.FieldLogger
	delay time.Duration

	mu      sync.Mutex
	pending map[string]*pendingCapture
	closed  bool
}

// NewRecorder creates a recorder for one page context.
func NewRecorder(page PageContext, sink Sender, log logrus.FieldLogger) *Recorder {
	return &Recorder{
		page:    page,
		sink:    sink,
		log:     log,
		delay:   DefaultDebounceDelay,
		pending: make(map[string]*pendingCapture),
	}
}

// HandleInput reacts to one field input event. It either arms/re-arms the
// field's debounce timer or does nothing; it never blocks.
func (r *Recorder) HandleInput(ev InputEvent) {
	if !Eligible(ev.Field) {
		return
	}
	// The committed value arrives as a regular event once composition ends.
	if ev.Composing {
		return
	}
	if strings.TrimSpace(ev.Content) == "" {
		return
	}
	// A rejected intermediate value must not suppress a later accepted one,
	// so a pending timer from an earlier accepted edit stays armed.
	if !filter.ShouldRecord(ev.Field, ev.Content, r.page.Hostname) {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}

	if prev, ok := r.pending[ev.FieldID]; ok {
		prev.timer.Stop()
	}

	p := &pendingCapture{content: ev.Content}
	p.timer = time.AfterFunc(r.delay, func() {
		r.fire(ev.FieldID, p)
	})
	r.pending[ev.FieldID] = p
}

// fire emits the pending capture for a field. The identity check guards
// against a stopped timer racing a re-arm: only the currently registered
// pending entry may emit.
func (r *Recorder) fire(fieldID string, p *pendingCapture) {
	r.mu.Lock()
	current, ok := r.pending[fieldID]
	if !ok || current != p {
		r.mu.Unlock()
		return
	}
	delete(r.pending, fieldID)
	r.mu.Unlock()

	req := Request{
		Content:   p.content,
		URL:       r.page.URL,
		Domain:    r.page.Hostname,
		PageTitle: r.page.Title,
		Timestamp: time.Now().UnixMilli(),
	}
	if err := r.sink.Send(req); err != nil {
		// Recording is best-effort; a failed send is a dropped capture.
		r.log.WithError(err).Debug("capture dropped")
	}
}

// Close drops every pending timer without firing. A not-yet-expired debounce
// is lost on page teardown; that is accepted data loss, not a flush point.
func (r *Recorder) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	for id, p := range r.pending {
		p.timer.Stop()
		delete(r.pending, id)
	}
}

// pendingCount reports how many fields currently have an armed timer.
func (r *Recorder) pendingCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}
