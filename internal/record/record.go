package record

import "unicode/utf8"

// Record is one captured input entry.
type Record struct {
	// ID is a ULID that uniquely identifies this record.
	// Assigned by the store on insert, immutable afterwards.
	ID string `json:"id"`

	// Content is the captured text.
	Content string `json:"content"`

	// URL is the full page URL the input was captured from.
	URL string `json:"url"`

	// Domain is the hostname derived from URL.
	Domain string `json:"domain"`

	// PageTitle is the page title at capture time.
	PageTitle string `json:"page_title"`

	// Timestamp is the capture time in epoch milliseconds.
	// Never changes after insert.
	Timestamp int64 `json:"timestamp"`

	// Starred is the user-toggled star flag.
	Starred bool `json:"starred"`

	// Tags is the record's tag name set (stored as JSON in DB).
	// Order carries no meaning for membership.
	Tags []string `json:"tags"`

	// DeletedAt is the soft-delete timestamp in epoch milliseconds (nullable).
	// A non-nil value hides the record from every query until purged.
	DeletedAt *int64 `json:"deleted_at,omitempty"`
}

// Deleted reports whether the record is soft-deleted.
func (r *Record) Deleted() bool {
	return r.DeletedAt != nil
}

// HasTag reports whether name is in the record's tag set.
func (r *Record) HasTag(name string) bool {
	for _, t := range r.Tags {
		if t == name {
			return true
		}
	}
	return false
}

// Tag is a user-defined label.
type Tag struct {
	// ID is a ULID that uniquely identifies this tag.
	ID string `json:"id"`

	// Name is unique among tags.
	Name string `json:"name"`

	// Color is a hex color from TagColors.
	Color string `json:"color"`

	// CreatedAt is the creation time in epoch milliseconds.
	CreatedAt int64 `json:"created_at"`
}

// TagColors is the fixed palette new tags cycle through.
var TagColors = []string{
	"#ef4444", // red
	"#f97316", // orange
	"#eab308", // yellow
	"#22c55e", // green
	"#06b6d4", // cyan
	"#3b82f6", // blue
	"#8b5cf6", // violet
	"#ec4899", // pink
}

// CountChars returns the character count as runes (not bytes).
// This correctly handles multi-byte UTF-8 characters.
func CountChars(text string) int {
	return utf8.RuneCountInString(text)
}
