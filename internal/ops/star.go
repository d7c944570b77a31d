package ops

import (
	"database/sql"
	"strings"

	"github.com/hpungsan/imprint/internal/db"
	"github.com/hpungsan/imprint/internal/errors"
)

// ToggleStarInput contains parameters for the ToggleStar operation.
type ToggleStarInput struct {
	ID string // required
}

// ToggleStarOutput contains the result of the ToggleStar operation.
type ToggleStarOutput struct {
	Toggled bool   `json:"toggled"`
	Starred bool   `json:"starred"`
	ID      string `json:"id"`
}

// ToggleStar flips a record's starred flag.
// A missing id is a silent no-op (Toggled=false).
func ToggleStar(database *sql.DB, input ToggleStarInput) (*ToggleStarOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	r, err := db.GetRecordByID(database, id, false)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return &ToggleStarOutput{Toggled: false, ID: id}, nil
		}
		return nil, err
	}

	r.Starred = !r.Starred
	toggled, err := db.UpdateRecord(database, r)
	if err != nil {
		return nil, err
	}

	return &ToggleStarOutput{Toggled: toggled, Starred: r.Starred, ID: id}, nil
}
