package repository

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"go-inventory-gst/internal/model"
)

// dryRunDB opens a session that only builds SQL. The pgx stdlib driver
// connects lazily, so no database is needed.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  "host=localhost user=dryrun dbname=dryrun",
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open dry-run session: %v", err)
	}
	return db
}

func TestLockedFirstEmitsForUpdate(t *testing.T) {
	db := dryRunDB(t)

	var batch model.Batch
	sql := lockedFirst(db, &batch, "id = ?", uuid.New()).Statement.SQL.String()
	if !strings.Contains(sql, `"batches"`) {
		t.Fatalf("expected batches query, got %q", sql)
	}
	if !strings.HasSuffix(strings.TrimSpace(sql), "FOR UPDATE") {
		t.Errorf("batch read is not locked: %q", sql)
	}

	var seq model.InvoiceSequence
	sql = lockedFirst(db, &seq, "year = ?", 2025).Statement.SQL.String()
	if !strings.HasSuffix(strings.TrimSpace(sql), "FOR UPDATE") {
		t.Errorf("invoice sequence read is not locked: %q", sql)
	}
}
