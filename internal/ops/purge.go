package ops

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/hpungsan/imprint/internal/db"
	"github.com/hpungsan/imprint/internal/errors"
)

// PurgeInput contains parameters for the Purge operation.
type PurgeInput struct {
	OlderThanDays *int // optional, only purge if deleted_at < (now - N days)
}

// PurgeOutput contains the result of the Purge operation.
type PurgeOutput struct {
	Purged  int    `json:"purged"`
	Message string `json:"message"`
}

// Purge permanently deletes soft-deleted records.
func Purge(database *sql.DB, input PurgeInput) (*PurgeOutput, error) {
	if input.OlderThanDays != nil && *input.OlderThanDays < 0 {
		return nil, errors.NewInvalidRequest("older-than days must not be negative")
	}

	count, err := db.PurgeDeleted(database, input.OlderThanDays)
	if err != nil {
		return nil, err
	}

	return &PurgeOutput{
		Purged:  count,
		Message: formatPurgeMessage(count, input.OlderThanDays),
	}, nil
}

// SweepInput contains parameters for the Sweep operation.
type SweepInput struct {
	RetentionDays int // 0 = keep forever, sweep is a no-op
}

// SweepOutput contains the result of the Sweep operation.
type SweepOutput struct {
	Swept   int    `json:"swept"`
	Message string `json:"message"`
}

// Sweep is the retention sweep: it permanently removes records captured more
// than RetentionDays ago. With retention disabled (0) it removes nothing.
func Sweep(database *sql.DB, input SweepInput) (*SweepOutput, error) {
	if input.RetentionDays < 0 {
		return nil, errors.NewInvalidRequest("retention days must not be negative")
	}
	if input.RetentionDays == 0 {
		return &SweepOutput{Swept: 0, Message: "Retention disabled, nothing swept"}, nil
	}

	cutoff := time.Now().AddDate(0, 0, -input.RetentionDays).UnixMilli()
	count, err := db.SweepBefore(database, cutoff)
	if err != nil {
		return nil, err
	}

	recordWord := "record"
	if count != 1 {
		recordWord = "records"
	}
	return &SweepOutput{
		Swept:   count,
		Message: fmt.Sprintf("Swept %d %s older than %d days", count, recordWord, input.RetentionDays),
	}, nil
}

// formatPurgeMessage creates a human-readable message for the purge result.
func formatPurgeMessage(count int, olderThanDays *int) string {
	if count == 0 {
		return "No deleted records to purge"
	}

	recordWord := "record"
	if count > 1 {
		recordWord = "records"
	}

	msg := fmt.Sprintf("Permanently deleted %d %s", count, recordWord)
	if olderThanDays != nil {
		msg += fmt.Sprintf(" (deleted more than %d days ago)", *olderThanDays)
	}
	return msg
}
