package ops

import (
	"database/sql"
	"net/url"
	"strings"
	"time"

	"github.com/hpungsan/imprint/internal/db"
	"github.com/hpungsan/imprint/internal/errors"
	"github.com/hpungsan/imprint/internal/record"
)

// AddInput contains parameters for the Add operation.
type AddInput struct {
	Content   string // required
	URL       string
	Domain    string // derived from URL host when empty
	PageTitle string
	Timestamp int64 // epoch ms; defaults to now when zero
}

// AddOutput contains the result of the Add operation.
type AddOutput struct {
	ID string `json:"id"`
}

// Add stores a new captured record with an assigned ULID.
// New records start unstarred, untagged, and not deleted.
func Add(database *sql.DB, input AddInput) (*AddOutput, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, errors.NewInvalidRequest("content is required")
	}

	domain := input.Domain
	if domain == "" && input.URL != "" {
		if u, err := url.Parse(input.URL); err == nil {
			domain = u.Hostname()
		}
	}

	timestamp := input.Timestamp
	if timestamp == 0 {
		timestamp = time.Now().UnixMilli()
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	r := &record.Record{
		ID:        id,
		Content:   input.Content,
		URL:       input.URL,
		Domain:    domain,
		PageTitle: input.PageTitle,
		Timestamp: timestamp,
		Starred:   false,
		Tags:      []string{},
	}

	if err := db.InsertRecord(database, r); err != nil {
		return nil, err
	}

	return &AddOutput{ID: id}, nil
}
