package ops

import (
	"testing"
	"time"

	"github.com/hpungsan/imprint/internal/db"
	"github.com/hpungsan/imprint/internal/errors"
)

func TestAdd_Defaults(t *testing.T) {
	database := newTestDB(t)

	before := time.Now().UnixMilli()
	id := mustAdd(t, database, AddInput{
		Content: "hello world",
		URL:     "https://docs.google.com/doc/abc",
	})
	after := time.Now().UnixMilli()

	r, err := db.GetRecordByID(database, id, false)
	if err != nil {
		t.Fatalf("GetRecordByID() error = %v", err)
	}
	if r.Domain != "docs.google.com" {
		t.Errorf("Domain = %q, want derived from URL", r.Domain)
	}
	if r.Timestamp < before || r.Timestamp > after {
		t.Errorf("Timestamp = %d, want within [%d, %d]", r.Timestamp, before, after)
	}
	if r.Starred {
		t.Error("new record must start unstarred")
	}
	if len(r.Tags) != 0 {
		t.Errorf("new record must start untagged, got %v", r.Tags)
	}
	if r.DeletedAt != nil {
		t.Error("new record must not be deleted")
	}
}

func TestAdd_ExplicitDomainWins(t *testing.T) {
	database := newTestDB(t)

	id := mustAdd(t, database, AddInput{
		Content: "note",
		URL:     "https://a.example.com/x",
		Domain:  "custom.example.com",
	})

	r, err := db.GetRecordByID(database, id, false)
	if err != nil {
		t.Fatalf("GetRecordByID() error = %v", err)
	}
	if r.Domain != "custom.example.com" {
		t.Errorf("Domain = %q", r.Domain)
	}
}

func TestAdd_EmptyContent(t *testing.T) {
	database := newTestDB(t)

	_, err := Add(database, AddInput{Content: "   "})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("error = %v, want INVALID_REQUEST", err)
	}
}

func TestAdd_IDsAreUnique(t *testing.T) {
	database := newTestDB(t)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		id := mustAdd(t, database, AddInput{Content: "note", Domain: "a.com"})
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}
