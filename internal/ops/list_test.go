package ops

import (
	"testing"
)

func TestList_SortedByTimestampDesc(t *testing.T) {
	database := newTestDB(t)

	for i := 0; i < 5; i++ {
		mustAdd(t, database, AddInput{
			Content:   "note",
			Domain:    "a.com",
			Timestamp: int64(100 + i),
		})
	}

	out, err := List(database, ListInput{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(out.Items) != 5 {
		t.Fatalf("len = %d, want 5", len(out.Items))
	}
	for i := 1; i < len(out.Items); i++ {
		if out.Items[i-1].Timestamp < out.Items[i].Timestamp {
			t.Fatal("items not in timestamp descending order")
		}
	}
	if out.Sort != "timestamp_desc" {
		t.Errorf("Sort = %q", out.Sort)
	}
}

func TestList_Filters(t *testing.T) {
	database := newTestDB(t)

	aID := mustAdd(t, database, AddInput{Content: "alpha meeting notes", Domain: "a.com", Timestamp: 100})
	mustAdd(t, database, AddInput{Content: "beta draft", Domain: "b.com", Timestamp: 200})
	cID := mustAdd(t, database, AddInput{Content: "ALPHA summary", Domain: "a.com", Timestamp: 300})

	if _, err := ToggleStar(database, ToggleStarInput{ID: cID}); err != nil {
		t.Fatalf("ToggleStar() error = %v", err)
	}
	if _, err := AddTag(database, TagRecordInput{RecordID: aID, Tag: "work"}); err != nil {
		t.Fatalf("AddTag() error = %v", err)
	}

	byDomain, err := List(database, ListInput{Domain: ptrStr("a.com")})
	if err != nil {
		t.Fatalf("List(domain) error = %v", err)
	}
	if len(byDomain.Items) != 2 {
		t.Errorf("domain filter: %d items, want 2", len(byDomain.Items))
	}

	starred, err := List(database, ListInput{Starred: true})
	if err != nil {
		t.Fatalf("List(starred) error = %v", err)
	}
	if len(starred.Items) != 1 || starred.Items[0].ID != cID {
		t.Errorf("starred filter: %+v", starred.Items)
	}

	byTag, err := List(database, ListInput{Tag: ptrStr("work")})
	if err != nil {
		t.Fatalf("List(tag) error = %v", err)
	}
	if len(byTag.Items) != 1 || byTag.Items[0].ID != aID {
		t.Errorf("tag filter: %+v", byTag.Items)
	}

	// Search is a case-insensitive substring over content.
	bySearch, err := List(database, ListInput{Search: ptrStr("alpha")})
	if err != nil {
		t.Fatalf("List(search) error = %v", err)
	}
	if len(bySearch.Items) != 2 {
		t.Errorf("search filter: %d items, want 2", len(bySearch.Items))
	}

	// Filters are conjunctive.
	combined, err := List(database, ListInput{Domain: ptrStr("a.com"), Search: ptrStr("summary")})
	if err != nil {
		t.Fatalf("List(combined) error = %v", err)
	}
	if len(combined.Items) != 1 || combined.Items[0].ID != cID {
		t.Errorf("combined filter: %+v", combined.Items)
	}
}

func TestList_Pagination(t *testing.T) {
	database := newTestDB(t)

	for i := 0; i < 7; i++ {
		mustAdd(t, database, AddInput{Content: "note", Domain: "a.com", Timestamp: int64(100 + i)})
	}

	first, err := List(database, ListInput{Limit: 3})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(first.Items) != 3 || !first.Pagination.HasMore || first.Pagination.Total != 7 {
		t.Errorf("page 1 = %+v", first.Pagination)
	}

	last, err := List(database, ListInput{Limit: 3, Offset: 6})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(last.Items) != 1 || last.Pagination.HasMore {
		t.Errorf("page 3 = %d items, HasMore=%v", len(last.Items), last.Pagination.HasMore)
	}

	// Offset past the end yields an empty page, not an error.
	past, err := List(database, ListInput{Offset: 100})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if past.Items == nil || len(past.Items) != 0 {
		t.Errorf("past-the-end page = %#v, want empty array", past.Items)
	}

	// Pagination applies after filtering: the totals describe the filtered set.
	mustAdd(t, database, AddInput{Content: "other", Domain: "b.com", Timestamp: 999})
	filtered, err := List(database, ListInput{Domain: ptrStr("a.com"), Limit: 2})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if filtered.Pagination.Total != 7 {
		t.Errorf("filtered total = %d, want 7", filtered.Pagination.Total)
	}
}

func TestList_LimitBounds(t *testing.T) {
	database := newTestDB(t)

	out, err := List(database, ListInput{Limit: 1000})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if out.Pagination.Limit != MaxListLimit {
		t.Errorf("Limit = %d, want clamped to %d", out.Pagination.Limit, MaxListLimit)
	}

	out, err = List(database, ListInput{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if out.Pagination.Limit != DefaultListLimit {
		t.Errorf("Limit = %d, want default %d", out.Pagination.Limit, DefaultListLimit)
	}
}

func TestList_ExcludesSoftDeleted(t *testing.T) {
	database := newTestDB(t)

	id := mustAdd(t, database, AddInput{Content: "note", Domain: "a.com"})
	if _, err := Delete(database, DeleteInput{ID: id}); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	out, err := List(database, ListInput{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(out.Items) != 0 {
		t.Errorf("soft-deleted record listed: %+v", out.Items)
	}
}
