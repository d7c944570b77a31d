package ops

import (
	"database/sql"
	"sort"
	"time"

	"github.com/hpungsan/imprint/internal/db"
	"github.com/hpungsan/imprint/internal/record"
)

// TopDomains is how many domains the stats aggregate reports.
const TopDomains = 10

// DomainCount is one entry of the per-domain aggregate.
type DomainCount struct {
	Domain string `json:"domain"`
	Count  int    `json:"count"`
}

// DateCount is one entry of the trailing-week daily aggregate.
type DateCount struct {
	Date  string `json:"date"` // local calendar date, YYYY-MM-DD
	Count int    `json:"count"`
}

// HourCount is one bucket of the hour-of-day histogram.
type HourCount struct {
	Hour  int `json:"hour"` // 0-23, local time
	Count int `json:"count"`
}

// StatsOutput is the aggregate snapshot over all non-deleted records.
type StatsOutput struct {
	TotalRecords int           `json:"total_records"`
	TotalChars   int           `json:"total_chars"`
	ByDomain     []DomainCount `json:"by_domain"`
	ByDate       []DateCount   `json:"by_date"`
	ByHour       []HourCount   `json:"by_hour"`
}

// Stats computes the aggregate snapshot: total count, total content runes,
// top domains, per-day counts for the trailing 7 days (local calendar), and
// a 24-bucket local hour-of-day histogram across all time.
//
// The reads are not snapshot-isolated; a delete racing this call may leave a
// partial view, which the single-writer usage pattern accepts.
func Stats(database *sql.DB) (*StatsOutput, error) {
	records, err := db.ListRecords(database, nil, false)
	if err != nil {
		return nil, err
	}

	out := &StatsOutput{
		TotalRecords: len(records),
		ByDomain:     []DomainCount{},
		ByDate:       []DateCount{},
		ByHour:       make([]HourCount, 24),
	}
	for h := range out.ByHour {
		out.ByHour[h].Hour = h
	}

	domainCounts := make(map[string]int)
	dateCounts := make(map[string]int)
	weekAgo := time.Now().AddDate(0, 0, -7).UnixMilli()

	for _, r := range records {
		out.TotalChars += record.CountChars(r.Content)
		domainCounts[r.Domain]++

		local := time.UnixMilli(r.Timestamp).Local()
		if r.Timestamp > weekAgo {
			dateCounts[local.Format("2006-01-02")]++
		}
		out.ByHour[local.Hour()].Count++
	}

	for domain, count := range domainCounts {
		out.ByDomain = append(out.ByDomain, DomainCount{Domain: domain, Count: count})
	}
	// Count descending, then name ascending so ties order stably.
	sort.Slice(out.ByDomain, func(i, j int) bool {
		if out.ByDomain[i].Count != out.ByDomain[j].Count {
			return out.ByDomain[i].Count > out.ByDomain[j].Count
		}
		return out.ByDomain[i].Domain < out.ByDomain[j].Domain
	})
	if len(out.ByDomain) > TopDomains {
		out.ByDomain = out.ByDomain[:TopDomains]
	}

	for date, count := range dateCounts {
		out.ByDate = append(out.ByDate, DateCount{Date: date, Count: count})
	}
	sort.Slice(out.ByDate, func(i, j int) bool {
		return out.ByDate[i].Date < out.ByDate[j].Date
	})

	return out, nil
}
