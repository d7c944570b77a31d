package ops

import (
	"database/sql"
	"strings"

	"github.com/hpungsan/imprint/internal/db"
	"github.com/hpungsan/imprint/internal/errors"
)

// DeleteInput contains parameters for the Delete operation.
type DeleteInput struct {
	ID   string // required
	Hard bool   // false = soft delete (default)
}

// DeleteOutput contains the result of the Delete operation.
type DeleteOutput struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

// Delete removes a record. A soft delete hides it from every query while
// keeping its bytes until purged; a hard delete removes it permanently.
// A missing id is a silent no-op (Deleted=false).
func Delete(database *sql.DB, input DeleteInput) (*DeleteOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	var (
		deleted bool
		err     error
	)
	if input.Hard {
		deleted, err = db.HardDeleteRecord(database, id)
	} else {
		deleted, err = db.SoftDeleteRecord(database, id)
	}
	if err != nil {
		return nil, err
	}

	return &DeleteOutput{Deleted: deleted, ID: id}, nil
}
