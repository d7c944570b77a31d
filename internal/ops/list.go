package ops

import (
	"database/sql"
	"strings"

	"github.com/hpungsan/imprint/internal/db"
	"github.com/hpungsan/imprint/internal/record"
)

// ListInput contains parameters for the List operation.
// All filters are conjunctive; soft-deleted records are always excluded.
type ListInput struct {
	Domain  *string // exact domain match
	Starred bool    // true = only starred
	Tag     *string // tag set membership
	Search  *string // case-insensitive substring over content
	Limit   int     // default: 50, max: 200
	Offset  int     // default: 0
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items      []record.Record `json:"items"`
	Pagination Pagination      `json:"pagination"`
	Sort       string          `json:"sort"`
}

// List retrieves records with filtering and pagination.
// Domain and starred narrow the SQL query; results come back ordered by
// timestamp descending, then tag and search filters run over the sorted
// slice before offset/limit apply. The filters are simple conjunctive
// predicates, so the split cannot change the matching set.
func List(database *sql.DB, input ListInput) (*ListOutput, error) {
	records, err := db.ListRecords(database, cleanOptionalString(input.Domain), input.Starred)
	if err != nil {
		return nil, err
	}

	if tag := cleanOptionalString(input.Tag); tag != nil {
		filtered := records[:0]
		for _, r := range records {
			if r.HasTag(*tag) {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	}

	if search := cleanOptionalString(input.Search); search != nil {
		needle := strings.ToLower(*search)
		filtered := records[:0]
		for _, r := range records {
			if strings.Contains(strings.ToLower(r.Content), needle) {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	}

	total := len(records)

	// Apply limit defaults and bounds
	limit := input.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	// Ensure offset is non-negative
	offset := max(input.Offset, 0)

	if offset >= total {
		records = nil
	} else {
		records = records[offset:]
	}
	if len(records) > limit {
		records = records[:limit]
	}

	// Ensure we return an empty array rather than nil
	if records == nil {
		records = []record.Record{}
	}

	return &ListOutput{
		Items: records,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(records) < total,
			Total:   total,
		},
		Sort: "timestamp_desc",
	}, nil
}

// cleanOptionalString trims an optional string and drops it when empty.
func cleanOptionalString(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
