package ops

import (
	"database/sql"
	"strings"

	"github.com/hpungsan/imprint/internal/db"
	"github.com/hpungsan/imprint/internal/errors"
)

// TagRecordInput contains parameters for AddTag and RemoveTag.
type TagRecordInput struct {
	RecordID string // required
	Tag      string // required, tag name
}

// TagRecordOutput contains the result of a record tag mutation.
type TagRecordOutput struct {
	Changed bool     `json:"changed"`
	ID      string   `json:"id"`
	Tags    []string `json:"tags"`
}

// AddTag adds a tag name to a record's tag set.
// Adding an already-present name, or naming an absent record, is a no-op.
func AddTag(database *sql.DB, input TagRecordInput) (*TagRecordOutput, error) {
	id, tag, err := validateTagInput(input)
	if err != nil {
		return nil, err
	}

	r, err := db.GetRecordByID(database, id, false)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return &TagRecordOutput{Changed: false, ID: id}, nil
		}
		return nil, err
	}

	if r.HasTag(tag) {
		return &TagRecordOutput{Changed: false, ID: id, Tags: r.Tags}, nil
	}

	r.Tags = append(r.Tags, tag)
	changed, err := db.UpdateRecord(database, r)
	if err != nil {
		return nil, err
	}

	return &TagRecordOutput{Changed: changed, ID: id, Tags: r.Tags}, nil
}

// RemoveTag removes a tag name from a record's tag set.
// Removing an absent name, or naming an absent record, is a no-op.
func RemoveTag(database *sql.DB, input TagRecordInput) (*TagRecordOutput, error) {
	id, tag, err := validateTagInput(input)
	if err != nil {
		return nil, err
	}

	r, err := db.GetRecordByID(database, id, false)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return &TagRecordOutput{Changed: false, ID: id}, nil
		}
		return nil, err
	}

	if !r.HasTag(tag) {
		return &TagRecordOutput{Changed: false, ID: id, Tags: r.Tags}, nil
	}

	kept := make([]string, 0, len(r.Tags))
	for _, t := range r.Tags {
		if t != tag {
			kept = append(kept, t)
		}
	}
	r.Tags = kept

	changed, err := db.UpdateRecord(database, r)
	if err != nil {
		return nil, err
	}

	return &TagRecordOutput{Changed: changed, ID: id, Tags: r.Tags}, nil
}

func validateTagInput(input TagRecordInput) (id, tag string, err error) {
	id = strings.TrimSpace(input.RecordID)
	if id == "" {
		return "", "", errors.NewInvalidRequest("record id is required")
	}
	tag = strings.TrimSpace(input.Tag)
	if tag == "" {
		return "", "", errors.NewInvalidRequest("tag name is required")
	}
	return id, tag, nil
}
