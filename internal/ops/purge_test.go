package ops

import (
	"testing"
	"time"

	"github.com/hpungsan/imprint/internal/errors"
)

func TestPurge(t *testing.T) {
	database := newTestDB(t)

	live := mustAdd(t, database, AddInput{Content: "live", Domain: "a.com"})
	gone := mustAdd(t, database, AddInput{Content: "gone", Domain: "a.com"})
	if _, err := Delete(database, DeleteInput{ID: gone}); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	out, err := Purge(database, PurgeInput{})
	if err != nil {
		t.Fatalf("Purge() error = %v", err)
	}
	if out.Purged != 1 {
		t.Errorf("Purged = %d, want 1", out.Purged)
	}

	list, err := List(database, ListInput{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list.Items) != 1 || list.Items[0].ID != live {
		t.Errorf("live record missing after purge: %+v", list.Items)
	}
}

func TestPurge_OlderThanSparesRecent(t *testing.T) {
	database := newTestDB(t)

	id := mustAdd(t, database, AddInput{Content: "note", Domain: "a.com"})
	if _, err := Delete(database, DeleteInput{ID: id}); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	out, err := Purge(database, PurgeInput{OlderThanDays: ptrInt(30)})
	if err != nil {
		t.Fatalf("Purge() error = %v", err)
	}
	if out.Purged != 0 {
		t.Errorf("Purged = %d, want 0 for a just-deleted record", out.Purged)
	}
}

func TestPurge_NegativeDays(t *testing.T) {
	database := newTestDB(t)

	_, err := Purge(database, PurgeInput{OlderThanDays: ptrInt(-1)})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("error = %v, want INVALID_REQUEST", err)
	}
}

func TestSweep_RetentionDisabled(t *testing.T) {
	database := newTestDB(t)

	old := time.Now().AddDate(0, 0, -365).UnixMilli()
	mustAdd(t, database, AddInput{Content: "ancient", Domain: "a.com", Timestamp: old})

	out, err := Sweep(database, SweepInput{RetentionDays: 0})
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if out.Swept != 0 {
		t.Errorf("Swept = %d, want 0 with retention disabled", out.Swept)
	}

	list, err := List(database, ListInput{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list.Items) != 1 {
		t.Error("record removed despite disabled retention")
	}
}

func TestSweep_RemovesExpired(t *testing.T) {
	database := newTestDB(t)

	old := time.Now().AddDate(0, 0, -60).UnixMilli()
	mustAdd(t, database, AddInput{Content: "expired", Domain: "a.com", Timestamp: old})
	fresh := mustAdd(t, database, AddInput{Content: "fresh", Domain: "a.com"})

	out, err := Sweep(database, SweepInput{RetentionDays: 30})
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if out.Swept != 1 {
		t.Errorf("Swept = %d, want 1", out.Swept)
	}

	list, err := List(database, ListInput{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list.Items) != 1 || list.Items[0].ID != fresh {
		t.Errorf("surviving records = %+v", list.Items)
	}
}

func TestSweep_NegativeDays(t *testing.T) {
	database := newTestDB(t)

	_, err := Sweep(database, SweepInput{RetentionDays: -5})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("error = %v, want INVALID_REQUEST", err)
	}
}
