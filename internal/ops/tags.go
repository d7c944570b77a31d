package ops

import (
	"database/sql"
	"strings"
	"time"

	"github.com/hpungsan/imprint/internal/db"
	"github.com/hpungsan/imprint/internal/errors"
	"github.com/hpungsan/imprint/internal/record"
)

// CreateTagInput contains parameters for the CreateTag operation.
type CreateTagInput struct {
	Name  string // required, unique among tags
	Color string // optional, defaults to cycling through the palette
}

// CreateTagOutput contains the result of the CreateTag operation.
type CreateTagOutput struct {
	Tag record.Tag `json:"tag"`
}

// CreateTag creates a new tag entity.
// A duplicate name fails with NAME_ALREADY_EXISTS.
func CreateTag(database *sql.DB, input CreateTagInput) (*CreateTagOutput, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.NewInvalidRequest("tag name is required")
	}

	color := strings.TrimSpace(input.Color)
	if color == "" {
		existing, err := db.ListTags(database)
		if err != nil {
			return nil, err
		}
		color = record.TagColors[len(existing)%len(record.TagColors)]
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	t := record.Tag{
		ID:        id,
		Name:      name,
		Color:     color,
		CreatedAt: time.Now().UnixMilli(),
	}

	if err := db.InsertTag(database, &t); err != nil {
		return nil, err
	}

	return &CreateTagOutput{Tag: t}, nil
}

// DeleteTagInput contains parameters for the DeleteTag operation.
type DeleteTagInput struct {
	ID string // required
}

// DeleteTagOutput contains the result of the DeleteTag operation.
type DeleteTagOutput struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

// DeleteTag removes a tag entity. Existing records keep the tag's name in
// their tag sets; those become dangling names, which is allowed.
// A missing id is a silent no-op.
func DeleteTag(database *sql.DB, input DeleteTagInput) (*DeleteTagOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	deleted, err := db.DeleteTag(database, id)
	if err != nil {
		return nil, err
	}

	return &DeleteTagOutput{Deleted: deleted, ID: id}, nil
}

// ListTagsOutput contains the result of the ListTags operation.
type ListTagsOutput struct {
	Items []record.Tag `json:"items"`
}

// ListTags returns all tag entities in creation order.
func ListTags(database *sql.DB) (*ListTagsOutput, error) {
	tags, err := db.ListTags(database)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []record.Tag{}
	}
	return &ListTagsOutput{Items: tags}, nil
}
