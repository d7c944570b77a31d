package ops

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hpungsan/imprint/internal/db"
	"github.com/hpungsan/imprint/internal/errors"
	"github.com/hpungsan/imprint/internal/record"
	"github.com/hpungsan/imprint/internal/settings"
)

// Backup is the full export document: every record (soft-deleted included),
// every tag, and the current settings.
type Backup struct {
	Records  []record.Record   `json:"records"`
	Tags     []record.Tag      `json:"tags"`
	Settings settings.Settings `json:"settings"`
}

// ExportOutput contains the result of the ExportToFile operation.
type ExportOutput struct {
	Path       string `json:"path"`
	Records    int    `json:"records"`
	Tags       int    `json:"tags"`
	ExportedAt int64  `json:"exported_at"`
}

// ExportData assembles the backup document.
func ExportData(database *sql.DB, store *settings.Store) (*Backup, error) {
	records, err := db.AllRecords(database)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []record.Record{}
	}

	tags, err := db.ListTags(database)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []record.Tag{}
	}

	cfg, err := store.Load()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return &Backup{Records: records, Tags: tags, Settings: cfg}, nil
}

// ExportToFile writes the backup document as indented JSON.
// An empty path defaults to baseDir/exports/imprint-<timestamp>.json.
// The write goes through a temp file and rename so a failure never
// clobbers an existing export.
func ExportToFile(database *sql.DB, store *settings.Store, baseDir, path string) (*ExportOutput, error) {
	now := time.Now()

	if path == "" {
		path = filepath.Join(baseDir, "exports", fmt.Sprintf("imprint-%s.json", now.Format("20060102-150405")))
	}

	backup, err := ExportData(database, store)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to write export file: %w", err))
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return nil, errors.NewInternal(err)
	}

	return &ExportOutput{
		Path:       path,
		Records:    len(backup.Records),
		Tags:       len(backup.Tags),
		ExportedAt: now.UnixMilli(),
	}, nil
}
