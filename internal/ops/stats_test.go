package ops

import (
	"testing"
	"time"
)

func TestStats_EmptyStore(t *testing.T) {
	database := newTestDB(t)

	out, err := Stats(database)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if out.TotalRecords != 0 || out.TotalChars != 0 {
		t.Errorf("totals = %d/%d, want 0/0", out.TotalRecords, out.TotalChars)
	}
	if out.ByDomain == nil || len(out.ByDomain) != 0 {
		t.Errorf("ByDomain = %#v, want empty array", out.ByDomain)
	}
	if out.ByDate == nil || len(out.ByDate) != 0 {
		t.Errorf("ByDate = %#v, want empty array", out.ByDate)
	}
	// Hour buckets are always present, all zero.
	if len(out.ByHour) != 24 {
		t.Fatalf("ByHour has %d buckets, want 24", len(out.ByHour))
	}
	for _, h := range out.ByHour {
		if h.Count != 0 {
			t.Errorf("hour %d count = %d, want 0", h.Hour, h.Count)
		}
	}
}

func TestStats_Aggregates(t *testing.T) {
	database := newTestDB(t)

	now := time.Now()
	mustAdd(t, database, AddInput{Content: "hello", Domain: "a.com", Timestamp: now.UnixMilli()})
	mustAdd(t, database, AddInput{Content: "world!", Domain: "a.com", Timestamp: now.UnixMilli()})
	mustAdd(t, database, AddInput{Content: "hi", Domain: "b.com", Timestamp: now.UnixMilli()})

	out, err := Stats(database)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}

	if out.TotalRecords != 3 {
		t.Errorf("TotalRecords = %d, want 3", out.TotalRecords)
	}
	if out.TotalChars != len("hello")+len("world!")+len("hi") {
		t.Errorf("TotalChars = %d", out.TotalChars)
	}

	if len(out.ByDomain) != 2 {
		t.Fatalf("ByDomain has %d entries, want 2", len(out.ByDomain))
	}
	if out.ByDomain[0].Domain != "a.com" || out.ByDomain[0].Count != 2 {
		t.Errorf("top domain = %+v, want a.com x2", out.ByDomain[0])
	}

	today := now.Local().Format("2006-01-02")
	found := false
	for _, d := range out.ByDate {
		if d.Date == today && d.Count == 3 {
			found = true
		}
	}
	if !found {
		t.Errorf("ByDate = %+v, want %s with count 3", out.ByDate, today)
	}

	hour := now.Local().Hour()
	if out.ByHour[hour].Count != 3 {
		t.Errorf("hour %d count = %d, want 3", hour, out.ByHour[hour].Count)
	}
}

func TestStats_ExcludesOldFromWeekWindow(t *testing.T) {
	database := newTestDB(t)

	old := time.Now().AddDate(0, 0, -30).UnixMilli()
	mustAdd(t, database, AddInput{Content: "old note", Domain: "a.com", Timestamp: old})

	out, err := Stats(database)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	// Still counted in totals and per-domain, just not in the trailing week.
	if out.TotalRecords != 1 {
		t.Errorf("TotalRecords = %d, want 1", out.TotalRecords)
	}
	if len(out.ByDate) != 0 {
		t.Errorf("ByDate = %+v, want empty for a 30-day-old record", out.ByDate)
	}
}

func TestStats_ExcludesSoftDeleted(t *testing.T) {
	database := newTestDB(t)

	id := mustAdd(t, database, AddInput{Content: "note", Domain: "a.com"})
	if _, err := Delete(database, DeleteInput{ID: id}); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	out, err := Stats(database)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if out.TotalRecords != 0 {
		t.Errorf("TotalRecords = %d, want 0 after soft delete", out.TotalRecords)
	}
}

func TestStats_TopDomainsCapped(t *testing.T) {
	database := newTestDB(t)

	for i := 0; i < 12; i++ {
		mustAdd(t, database, AddInput{
			Content: "note",
			Domain:  string(rune('a'+i)) + ".com",
		})
	}

	out, err := Stats(database)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if len(out.ByDomain) != TopDomains {
		t.Errorf("ByDomain has %d entries, want %d", len(out.ByDomain), TopDomains)
	}
}
