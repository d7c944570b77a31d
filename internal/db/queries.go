package db

import (
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/hpungsan/imprint/internal/errors"
	"github.com/hpungsan/imprint/internal/record"
)

// recordColumns is the column list shared by every record select.
const recordColumns = "id, content, url, domain, page_title, timestamp, starred, tags_json, deleted_at"

// InsertRecord stores a new record.
func InsertRecord(db *sql.DB, r *record.Record) error {
	tagsJSON, err := marshalTags(r.Tags)
	if err != nil {
		return errors.NewInternal(err)
	}

	query := `
		INSERT INTO records (id, content, url, domain, page_title, timestamp, starred, tags_json, deleted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, NULL)
	`

	_, err = db.Exec(query,
		r.ID, r.Content, r.URL, r.Domain, r.PageTitle, r.Timestamp,
		boolToInt(r.Starred), tagsJSON,
	)
	if err != nil {
		return errors.NewInternal(err)
	}

	return nil
}

// GetRecordByID retrieves a record by its ULID.
// If includeDeleted is false, soft-deleted records are excluded.
func GetRecordByID(db *sql.DB, id string, includeDeleted bool) (*record.Record, error) {
	query := "SELECT " + recordColumns + " FROM records WHERE id = ?"
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}

	row := db.QueryRow(query, id)
	r, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return r, nil
}

// ListRecords returns non-deleted records ordered by timestamp descending.
// The domain and starred filters are applied in SQL; tag and search filters
// belong to the ops layer, which runs them after this sort.
func ListRecords(db *sql.DB, domain *string, starredOnly bool) ([]record.Record, error) {
	query := "SELECT " + recordColumns + " FROM records WHERE deleted_at IS NULL"
	args := []any{}
	if domain != nil {
		query += " AND domain = ?"
		args = append(args, *domain)
	}
	if starredOnly {
		query += " AND starred = 1"
	}
	query += " ORDER BY timestamp DESC"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

// AllRecords returns every record, soft-deleted included. Used by export.
func AllRecords(db *sql.DB) ([]record.Record, error) {
	rows, err := db.Query("SELECT " + recordColumns + " FROM records ORDER BY timestamp DESC")
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

// UpdateRecord writes the mutable fields (content, starred, tags) of an
// existing non-deleted record. Returns false without error when the id is
// absent: missing-id mutations are no-ops by policy.
func UpdateRecord(db *sql.DB, r *record.Record) (bool, error) {
	tagsJSON, err := marshalTags(r.Tags)
	if err != nil {
		return false, errors.NewInternal(err)
	}

	query := `
		UPDATE records
		SET content = ?, starred = ?, tags_json = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := db.Exec(query, r.Content, boolToInt(r.Starred), tagsJSON, r.ID)
	if err != nil {
		return false, errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, errors.NewInternal(err)
	}
	return rowsAffected > 0, nil
}

// SoftDeleteRecord marks a record as deleted by setting deleted_at.
// Returns false without error when the id is absent or already deleted.
func SoftDeleteRecord(db *sql.DB, id string) (bool, error) {
	now := time.Now().UnixMilli()

	query := `
		UPDATE records
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := db.Exec(query, now, id)
	if err != nil {
		return false, errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, errors.NewInternal(err)
	}
	return rowsAffected > 0, nil
}

// HardDeleteRecord removes a record permanently.
func HardDeleteRecord(db *sql.DB, id string) (bool, error) {
	result, err := db.Exec("DELETE FROM records WHERE id = ?", id)
	if err != nil {
		return false, errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, errors.NewInternal(err)
	}
	return rowsAffected > 0, nil
}

// PurgeDeleted permanently removes soft-deleted records. When olderThanDays
// is non-nil, only records soft-deleted before the cutoff are removed.
func PurgeDeleted(db *sql.DB, olderThanDays *int) (int, error) {
	query := "DELETE FROM records WHERE deleted_at IS NOT NULL"
	args := []any{}
	if olderThanDays != nil {
		cutoff := time.Now().AddDate(0, 0, -*olderThanDays).UnixMilli()
		query += " AND deleted_at < ?"
		args = append(args, cutoff)
	}

	result, err := db.Exec(query, args...)
	if err != nil {
		return 0, errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	return int(rowsAffected), nil
}

// SweepBefore permanently removes records captured before cutoffMs,
// regardless of their deleted state. This is the retention sweep.
func SweepBefore(db *sql.DB, cutoffMs int64) (int, error) {
	result, err := db.Exec("DELETE FROM records WHERE timestamp < ?", cutoffMs)
	if err != nil {
		return 0, errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	return int(rowsAffected), nil
}

// InsertTag stores a new tag. Name collisions surface as NAME_ALREADY_EXISTS.
func InsertTag(db *sql.DB, t *record.Tag) error {
	query := "INSERT INTO tags (id, name, color, created_at) VALUES (?, ?, ?, ?)"
	_, err := db.Exec(query, t.ID, t.Name, t.Color, t.CreatedAt)
	if err != nil {
		if isUniqueConstraintError(err) {
			return errors.NewNameAlreadyExists(t.Name)
		}
		return errors.NewInternal(err)
	}
	return nil
}

// ListTags returns all tags in creation order.
func ListTags(db *sql.DB) ([]record.Tag, error) {
	rows, err := db.Query("SELECT id, name, color, created_at FROM tags ORDER BY created_at ASC, id ASC")
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var tags []record.Tag
	for rows.Next() {
		var t record.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.CreatedAt); err != nil {
			return nil, errors.NewInternal(err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return tags, nil
}

// DeleteTag removes a tag entity. Records keep whatever tag names they hold;
// a deleted tag leaves dangling names behind, not broken references.
func DeleteTag(db *sql.DB, id string) (bool, error) {
	result, err := db.Exec("DELETE FROM tags WHERE id = ?", id)
	if err != nil {
		return false, errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, errors.NewInternal(err)
	}
	return rowsAffected > 0, nil
}

// ClearRecordsAndTags removes every record and tag in one transaction.
func ClearRecordsAndTags(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return errors.NewInternal(err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM records"); err != nil {
		return errors.NewInternal(err)
	}
	if _, err := tx.Exec("DELETE FROM tags"); err != nil {
		return errors.NewInternal(err)
	}

	if err := tx.Commit(); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	// SQLite returns "UNIQUE constraint failed: ..." for unique violations
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanRecord scans a single row into a Record struct.
func scanRecord(row scanner) (*record.Record, error) {
	var (
		r         record.Record
		starred   int
		tagsJSON  sql.NullString
		deletedAt sql.NullInt64
	)

	err := row.Scan(
		&r.ID, &r.Content, &r.URL, &r.Domain, &r.PageTitle, &r.Timestamp,
		&starred, &tagsJSON, &deletedAt,
	)
	if err != nil {
		return nil, err
	}

	r.Starred = starred != 0
	if deletedAt.Valid {
		r.DeletedAt = &deletedAt.Int64
	}

	r.Tags = []string{}
	if tagsJSON.Valid && tagsJSON.String != "" {
		if err := json.Unmarshal([]byte(tagsJSON.String), &r.Tags); err != nil {
			return nil, err
		}
	}

	return &r, nil
}

// collectRecords drains rows into a slice.
func collectRecords(rows *sql.Rows) ([]record.Record, error) {
	var records []record.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		records = append(records, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return records, nil
}

// marshalTags converts a tag set to its JSON column value.
// An empty set stores NULL rather than "[]".
func marshalTags(tags []string) (sql.NullString, error) {
	if len(tags) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
