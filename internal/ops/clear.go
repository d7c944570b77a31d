package ops

import (
	"database/sql"

	"github.com/hpungsan/imprint/internal/db"
	"github.com/hpungsan/imprint/internal/errors"
	"github.com/hpungsan/imprint/internal/settings"
)

// ClearOutput contains the result of the Clear operation.
type ClearOutput struct {
	Cleared bool   `json:"cleared"`
	Message string `json:"message"`
}

// Clear irreversibly removes all records and tags and resets the settings
// slot to its defaults.
func Clear(database *sql.DB, store *settings.Store) (*ClearOutput, error) {
	if err := db.ClearRecordsAndTags(database); err != nil {
		return nil, err
	}
	if err := store.Reset(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return &ClearOutput{
		Cleared: true,
		Message: "All records, tags, and settings removed",
	}, nil
}
