package ops

import (
	"database/sql"
	"strings"

	"github.com/hpungsan/imprint/internal/db"
	"github.com/hpungsan/imprint/internal/errors"
)

// UpdateInput contains parameters for the Update operation.
// Nil fields are left unchanged; id and timestamp are immutable.
type UpdateInput struct {
	ID      string // required
	Content *string
	Starred *bool
	Tags    *[]string
}

// UpdateOutput contains the result of the Update operation.
type UpdateOutput struct {
	Updated bool   `json:"updated"`
	ID      string `json:"id"`
}

// Update merges the given fields into an existing record.
// A missing id is a silent no-op (Updated=false), not an error.
func Update(database *sql.DB, input UpdateInput) (*UpdateOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}
	if input.Content == nil && input.Starred == nil && input.Tags == nil {
		return nil, errors.NewInvalidRequest("at least one editable field must be provided")
	}

	r, err := db.GetRecordByID(database, id, false)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return &UpdateOutput{Updated: false, ID: id}, nil
		}
		return nil, err
	}

	if input.Content != nil {
		r.Content = *input.Content
	}
	if input.Starred != nil {
		r.Starred = *input.Starred
	}
	if input.Tags != nil {
		r.Tags = *input.Tags
	}

	updated, err := db.UpdateRecord(database, r)
	if err != nil {
		return nil, err
	}

	return &UpdateOutput{Updated: updated, ID: id}, nil
}
