package ops

import (
	"database/sql"
	"testing"

	"github.com/hpungsan/imprint/internal/db"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init() error = %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func mustAdd(t *testing.T, database *sql.DB, input AddInput) string {
	t.Helper()
	out, err := Add(database, input)
	if err != nil {
		t.Fatalf("Add(%+v) error = %v", input, err)
	}
	return out.ID
}

func ptrStr(s string) *string { return &s }
func ptrInt(n int) *int       { return &n }
func ptrBool(b bool) *bool    { return &b }
